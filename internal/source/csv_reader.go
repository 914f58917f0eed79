package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"bridge-platform/internal/models"
	"bridge-platform/pkg/logging"
	"bridge-platform/pkg/metrics"
)

var numberPattern = regexp.MustCompile(`^\s*-?(\d+\.?|\.\d+|\d+\.\d+)([eE][-+]?\d+)?\s*$`)

const utf8BOM = "\ufeff"

// Reader parses the bridge export into raw records.
type Reader struct {
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewReader creates a new CSV reader
func NewReader(logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *Reader {
	return &Reader{
		logger:  logger,
		metrics: metricsCollector,
	}
}

// ReadFile parses the CSV file at path.
func (r *Reader) ReadFile(ctx context.Context, path string) ([]models.RawRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open source file: %w", err)
	}
	defer file.Close()

	records, err := r.Read(ctx, file)
	if err != nil {
		return nil, err
	}

	r.logger.Info(ctx, "[SOURCE_READ] Source file parsed", logging.Fields{
		"path":    path,
		"records": len(records),
	})
	return records, nil
}

// Read parses CSV with a header row. Cells are typed the way the export is
// meant to be read: empty cells are null, numeric cells are float64,
// true/false are booleans and anything else stays a string. Any structural
// problem is returned as *models.ParseError.
func (r *Reader) Read(ctx context.Context, in io.Reader) ([]models.RawRecord, error) {
	cr := csv.NewReader(in)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, &models.ParseError{Row: 1, Message: "empty input"}
	}
	if err != nil {
		return nil, toParseError(err)
	}

	columns, err := readHeader(header)
	if err != nil {
		return nil, err
	}

	records := make([]models.RawRecord, 0)
	for {
		if len(records)%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			r.metrics.RecordIngestionError("parse_error")
			return nil, toParseError(err)
		}

		rec := make(models.RawRecord, len(columns))
		for i, col := range columns {
			rec[col] = typeCell(row[i])
		}
		records = append(records, rec)
	}

	r.metrics.RecordsRead.Add(float64(len(records)))
	return records, nil
}

func readHeader(header []string) ([]string, error) {
	columns := make([]string, len(header))
	seen := make(map[string]struct{}, len(header))

	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		if _, dup := seen[name]; dup {
			return nil, &models.ParseError{Row: 1, Column: name, Message: "duplicate column"}
		}
		seen[name] = struct{}{}
		columns[i] = name
	}

	for _, required := range models.RequiredColumns {
		if _, ok := seen[required]; !ok {
			return nil, &models.ParseError{Row: 1, Column: required, Message: "missing required column"}
		}
	}

	return columns, nil
}

func typeCell(cell string) interface{} {
	if cell == "" {
		return nil
	}
	switch cell {
	case "true", "TRUE":
		return true
	case "false", "FALSE":
		return false
	}
	if numberPattern.MatchString(cell) {
		if f, err := strconv.ParseFloat(strings.TrimSpace(cell), 64); err == nil {
			return f
		}
	}
	return cell
}

func toParseError(err error) error {
	var csvErr *csv.ParseError
	if errors.As(err, &csvErr) {
		return &models.ParseError{Row: csvErr.Line, Message: csvErr.Err.Error()}
	}
	return &models.ParseError{Message: err.Error()}
}
