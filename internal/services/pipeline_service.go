package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"bridge-platform/internal/export"
	"bridge-platform/internal/models"
	"bridge-platform/internal/repository"
	"bridge-platform/internal/source"
	"bridge-platform/internal/transform"
	"bridge-platform/pkg/logging"
	"bridge-platform/pkg/metrics"
)

// Pipeline stages, in run order.
const (
	StageParse                = "parse"
	StageExtractDimensions    = "extract_dimensions"
	StageSelectSnapshots      = "select_snapshots"
	StageTransformInspections = "transform_inspections"
	StageValidate             = "validate"
	StageExportXLSX           = "export_xlsx"
	StageExportShapefile      = "export_shp"
	StageLoad                 = "load"
)

// StageError names the pipeline stage a failure happened in.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// IsTransient delegates to the wrapped error.
func (e *StageError) IsTransient() bool {
	var t interface{ IsTransient() bool }
	if errors.As(e.Err, &t) {
		return t.IsTransient()
	}
	return false
}

// PipelineOptions configures a single run. DryRun normalizes and validates
// without touching the store.
type PipelineOptions struct {
	SourcePath string
	BatchSize  int
	DryRun     bool
	ExportXLSX string
	ExportSHP  string
}

// PipelineResult contains run statistics
type PipelineResult struct {
	RunID          string
	RecordsRead    int
	Rows           map[string]int
	PointsExported int
	Loaded         bool
	Duration       time.Duration
}

// PipelineService turns the bridge export into the normalized schema
type PipelineService struct {
	reader  *source.Reader
	repo    repository.BridgeRepository
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewPipelineService creates a new pipeline service. repo may be nil when the
// service is only used for dry runs.
func NewPipelineService(reader *source.Reader, repo repository.BridgeRepository, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *PipelineService {
	return &PipelineService{
		reader:  reader,
		repo:    repo,
		logger:  logger,
		metrics: metricsCollector,
	}
}

// Run executes parse, extract, select, transform, validate and load in order.
// Any failure aborts the run and is returned as a *StageError; nothing is
// written unless every stage before load succeeded.
func (s *PipelineService) Run(ctx context.Context, opts PipelineOptions) (*PipelineResult, error) {
	startTime := time.Now()
	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)

	if opts.BatchSize <= 0 {
		opts.BatchSize = repository.DefaultBatchSize
	}

	s.logger.Info(ctx, "[PIPELINE_START] Starting bridge load", logging.Fields{
		"source":     opts.SourcePath,
		"batch_size": opts.BatchSize,
		"dry_run":    opts.DryRun,
	})

	result := &PipelineResult{RunID: runID}

	var records []models.RawRecord
	err := s.stage(ctx, StageParse, func() error {
		var err error
		records, err = s.reader.ReadFile(ctx, opts.SourcePath)
		return err
	})
	if err != nil {
		return nil, err
	}
	result.RecordsRead = len(records)

	ds, err := s.Normalize(ctx, records)
	if err != nil {
		return nil, err
	}
	result.Rows = RowCounts(ds)

	if opts.ExportXLSX != "" {
		err := s.stage(ctx, StageExportXLSX, func() error {
			rows := make([]*models.WideInspection, len(records))
			for i, rec := range records {
				rows[i] = transform.TransformWide(rec)
			}
			return export.WriteWideWorkbook(rows, opts.ExportXLSX)
		})
		if err != nil {
			return nil, err
		}
	}

	if opts.ExportSHP != "" {
		err := s.stage(ctx, StageExportShapefile, func() error {
			n, err := export.WriteStructurePoints(ds.Structures, opts.ExportSHP)
			result.PointsExported = n
			return err
		})
		if err != nil {
			return nil, err
		}
	}

	if !opts.DryRun {
		if s.repo == nil {
			return nil, &StageError{Stage: StageLoad, Err: errors.New("no repository configured")}
		}
		err := s.stage(ctx, StageLoad, func() error {
			return s.repo.ReplaceAll(ctx, ds, opts.BatchSize)
		})
		if err != nil {
			return nil, err
		}
		result.Loaded = true
	}

	result.Duration = time.Since(startTime)

	s.logger.Info(ctx, "[PIPELINE_COMPLETE] Bridge load completed", logging.Fields{
		"records_read":     result.RecordsRead,
		"structures":       result.Rows[models.TableStructure],
		"inspections":      result.Rows[models.TableInspection],
		"loaded":           result.Loaded,
		"duration_seconds": result.Duration.Seconds(),
	})

	return result, nil
}

// Normalize builds the dataset for records and validates it. It is the
// in-memory part of Run and does not touch the store.
func (s *PipelineService) Normalize(ctx context.Context, records []models.RawRecord) (*models.Dataset, error) {
	ds := &models.Dataset{}

	err := s.stage(ctx, StageExtractDimensions, func() error {
		ds.Dimensions = transform.ExtractDimensions(records)
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = s.stage(ctx, StageSelectSnapshots, func() error {
		var err error
		ds.Structures, err = transform.SelectSnapshots(records, ds.Dimensions)
		return err
	})
	if err != nil {
		return nil, err
	}

	err = s.stage(ctx, StageTransformInspections, func() error {
		ds.Inspections = transform.TransformInspections(records)
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = s.stage(ctx, StageValidate, func() error {
		return transform.Validate(ds)
	})
	if err != nil {
		return nil, err
	}

	for table, n := range RowCounts(ds) {
		s.metrics.RecordRowsProduced(table, n)
	}

	return ds, nil
}

// stage runs fn under a stage timer and wraps its error.
func (s *PipelineService) stage(ctx context.Context, name string, fn func() error) error {
	log := s.logger.WithFields(logging.Fields{"stage": name})
	timer := s.metrics.StageTimer(name)

	if err := ctx.Err(); err != nil {
		return &StageError{Stage: name, Err: err}
	}

	err := fn()
	duration := timer.ObserveDuration()
	if err != nil {
		s.metrics.RecordIngestionError(errorType(err))
		log.Error(ctx, "[PIPELINE_STAGE_ERROR] Stage failed", logging.Fields{
			"duration_ms": duration.Milliseconds(),
		}, err)
		return &StageError{Stage: name, Err: err}
	}

	log.Debug(ctx, "[PIPELINE_STAGE] Stage completed", logging.Fields{
		"duration_ms": duration.Milliseconds(),
	})
	return nil
}

func errorType(err error) string {
	var (
		parseErr      *models.ParseError
		dimErr        *models.DimensionNotFoundError
		constraintErr *models.ConstraintError
		loadErr       *models.LoadError
	)
	switch {
	case errors.As(err, &parseErr):
		return "parse_error"
	case errors.As(err, &dimErr):
		return "dimension_not_found"
	case errors.As(err, &constraintErr):
		return "constraint_violation"
	case errors.As(err, &loadErr):
		return "load_error"
	default:
		return "stage_error"
	}
}

// RowCounts returns the number of rows ds holds for every target table.
func RowCounts(ds *models.Dataset) map[string]int {
	counts := map[string]int{
		models.TableStructure:  len(ds.Structures),
		models.TableInspection: len(ds.Inspections),
	}
	for _, dim := range ds.Dimensions.All() {
		if dim != nil {
			counts[dim.Table()] = dim.Len()
		}
	}
	return counts
}
