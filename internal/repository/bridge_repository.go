package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"bridge-platform/internal/models"
	"bridge-platform/pkg/database"
	"bridge-platform/pkg/logging"
	"bridge-platform/pkg/metrics"
)

// DefaultBatchSize is the number of rows per multi-row INSERT.
const DefaultBatchSize = 500

// BridgeRepository provides data access for the normalized bridge schema
type BridgeRepository interface {
	// Load operations
	ReplaceAll(ctx context.Context, ds *models.Dataset, batchSize int) error

	// Structure operations
	GetStructure(ctx context.Context, number string) (*models.Structure, error)
	ListStructures(ctx context.Context, filter StructureFilter) ([]*models.Structure, int, error)

	// Inspection operations
	ListInspections(ctx context.Context, filter InspectionFilter) ([]*models.Inspection, int, error)
	ConditionSummary(ctx context.Context, year *int) ([]*models.ConditionSummary, error)

	// Reference operations
	ListDimension(ctx context.Context, table string) ([]models.DimensionEntry, error)
	ListConditionRatings(ctx context.Context) ([]models.ConditionRating, error)
	ListMetadata(ctx context.Context, table *string) ([]models.ColumnMetadata, error)

	// Utility operations
	HealthCheck(ctx context.Context) error
}

// StructureFilter defines filters for querying structures
type StructureFilter struct {
	StateCode  *string
	CountyCode *string
	Limit      int
	Offset     int
}

// InspectionFilter defines filters for querying inspections
type InspectionFilter struct {
	StructureNumber *string
	Year            *int
	Limit           int
	Offset          int
}

// Children before parents.
var deleteOrder = []string{
	models.TableInspection,
	models.TableStructure,
	models.TableOwnerAgency,
	models.TableMaterial,
	models.TableDesign,
	models.TablePlace,
	models.TableCounty,
	models.TableState,
}

var dimensionTables = map[string]bool{
	models.TableState:       true,
	models.TableCounty:      true,
	models.TablePlace:       true,
	models.TableDesign:      true,
	models.TableMaterial:    true,
	models.TableOwnerAgency: true,
}

var structureColumns = []string{
	"number", "built", "countyCode", "deckArea", "designCode", "inspectionFrequency",
	"latitude", "length", "longitude", "materialCode", "span", "inventoryRating",
	"operatingRating", "ownerAgencyCode", "placeCode", "reconstructed", "roadwayWidth",
	"skew", "spansMainUnit", "stateCode",
}

var inspectionColumns = []string{
	"structureNumber", "year", "age", "condition", "conditionRatingDeck",
	"conditionRatingSubstructure", "conditionRatingSuperstructure", "projectCost",
	"dailyTrafficAvg", "dailyTrafficAvgFuture", "dailyTrafficAvgFutureYear",
	"dailyTrafficAvgYear", "dailyTrafficTruckAvg", "dailyTrafficTruckAvgPct",
	"relativeHumidityAvg", "temperatureAvg", "temperatureMax", "temperatureMin",
	"windSpeedMean",
}

func structureValues(s *models.Structure) []interface{} {
	return []interface{}{
		s.Number, s.Built, s.CountyCode, s.DeckArea, s.DesignCode, s.InspectionFrequency,
		s.Latitude, s.Length, s.Longitude, s.MaterialCode, s.Span, s.InventoryRating,
		s.OperatingRating, s.OwnerAgencyCode, s.PlaceCode, s.Reconstructed, s.RoadwayWidth,
		s.Skew, s.SpansMainUnit, s.StateCode,
	}
}

func inspectionValues(i *models.Inspection) []interface{} {
	return []interface{}{
		i.StructureNumber, i.Year, i.Age, i.Condition, i.ConditionRatingDeck,
		i.ConditionRatingSubstructure, i.ConditionRatingSuperstructure, i.ProjectCost,
		i.DailyTrafficAvg, i.DailyTrafficAvgFuture, i.DailyTrafficAvgFutureYear,
		i.DailyTrafficAvgYear, i.DailyTrafficTruckAvg, i.DailyTrafficTruckAvgPct,
		i.RelativeHumidityAvg, i.TemperatureAvg, i.TemperatureMax, i.TemperatureMin,
		i.WindSpeedMean,
	}
}

// quoteColumns renders a double-quoted column list.
func quoteColumns(columns []string) string {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = `"` + c + `"`
	}
	return strings.Join(quoted, ", ")
}

// bridgeRepository implements BridgeRepository
type bridgeRepository struct {
	db      *database.DB
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewBridgeRepository creates a new bridge repository
func NewBridgeRepository(db *database.DB, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) BridgeRepository {
	return &bridgeRepository{
		db:      db,
		logger:  logger,
		metrics: metricsCollector,
	}
}

// ReplaceAll swaps the contents of the bridge tables for ds in a single
// transaction. Existing rows are deleted children first, new rows are
// inserted parents first in chunks of batchSize. On any error the
// transaction is rolled back and a *models.LoadError is returned.
func (r *bridgeRepository) ReplaceAll(ctx context.Context, ds *models.Dataset, batchSize int) error {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	timer := time.Now()

	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		return &models.LoadError{Table: "transaction", Err: fmt.Errorf("failed to begin transaction: %w", err)}
	}
	defer tx.Rollback()

	for _, table := range deleteOrder {
		result, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM "%s"`, table))
		if err != nil {
			r.metrics.RecordDBError("delete_error")
			return &models.LoadError{Table: table, Err: fmt.Errorf("failed to clear table: %w", err)}
		}
		if n, err := result.RowsAffected(); err == nil {
			r.logger.Debug(ctx, "[REPO_CLEAR] Table cleared", logging.Fields{
				"table": table,
				"rows":  n,
			})
		}
	}

	for _, dim := range ds.Dimensions.All() {
		if dim == nil {
			continue
		}
		entries := dim.Entries()
		err := r.insertChunks(ctx, tx, dim.Table(), []string{"code", "name"}, len(entries), batchSize, func(i int) []interface{} {
			return []interface{}{entries[i].Code, entries[i].Name}
		})
		if err != nil {
			return err
		}
	}

	err = r.insertChunks(ctx, tx, models.TableStructure, structureColumns, len(ds.Structures), batchSize, func(i int) []interface{} {
		return structureValues(ds.Structures[i])
	})
	if err != nil {
		return err
	}

	err = r.insertChunks(ctx, tx, models.TableInspection, inspectionColumns, len(ds.Inspections), batchSize, func(i int) []interface{} {
		return inspectionValues(ds.Inspections[i])
	})
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		r.metrics.RecordDBError("transaction_commit_error")
		return &models.LoadError{Table: "transaction", Err: fmt.Errorf("failed to commit transaction: %w", err)}
	}

	r.logger.Info(ctx, "[REPO_REPLACE_ALL] Dataset loaded", logging.Fields{
		"structures":  len(ds.Structures),
		"inspections": len(ds.Inspections),
		"batch_size":  batchSize,
		"duration_ms": time.Since(timer).Milliseconds(),
	})

	return nil
}

// insertChunks writes n rows into table using multi-row INSERT statements
// of at most batchSize rows each.
func (r *bridgeRepository) insertChunks(ctx context.Context, tx *sqlx.Tx, table string, columns []string, n, batchSize int, row func(i int) []interface{}) error {
	placeholder := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ") + ")"
	prefix := fmt.Sprintf(`INSERT INTO "%s" (%s) VALUES `, table, quoteColumns(columns))

	for offset := 0; offset < n; offset += batchSize {
		end := offset + batchSize
		if end > n {
			end = n
		}

		var query strings.Builder
		query.WriteString(prefix)
		args := make([]interface{}, 0, (end-offset)*len(columns))
		for i := offset; i < end; i++ {
			if i > offset {
				query.WriteString(", ")
			}
			query.WriteString(placeholder)
			args = append(args, row(i)...)
		}

		timer := time.Now()
		_, err := tx.ExecContext(ctx, tx.Rebind(query.String()), args...)
		r.metrics.DBQueryDuration.WithLabelValues("bulk_insert").Observe(time.Since(timer).Seconds())
		if err != nil {
			r.metrics.RecordDBError("insert_error")
			r.logger.Error(ctx, "[REPO_INSERT_ERROR] Bulk insert failed", logging.Fields{
				"table":  table,
				"offset": offset,
				"rows":   end - offset,
			}, err)
			return &models.LoadError{Table: table, Offset: offset, Err: err}
		}

		r.metrics.RecordBatch(table, end-offset)
	}

	return nil
}

// GetStructure retrieves a structure by its NBI number
func (r *bridgeRepository) GetStructure(ctx context.Context, number string) (*models.Structure, error) {
	query := fmt.Sprintf(`SELECT %s FROM "Structure" WHERE "number" = ?`, quoteColumns(structureColumns))

	var structure models.Structure
	err := r.db.GetContext(ctx, "get_structure", &structure, query, number)

	if err == sql.ErrNoRows {
		return nil, &NotFoundError{
			Resource: "structure",
			ID:       number,
		}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get structure: %w", err)
	}

	return &structure, nil
}

// ListStructures retrieves structures with filtering and pagination
func (r *bridgeRepository) ListStructures(ctx context.Context, filter StructureFilter) ([]*models.Structure, int, error) {
	where := ` FROM "Structure" WHERE 1=1`
	args := []interface{}{}

	if filter.StateCode != nil {
		where += ` AND "stateCode" = ?`
		args = append(args, *filter.StateCode)
	}

	if filter.CountyCode != nil {
		where += ` AND "countyCode" = ?`
		args = append(args, *filter.CountyCode)
	}

	var totalCount int
	err := r.db.GetContext(ctx, "count_structures", &totalCount, "SELECT COUNT(*)"+where, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count structures: %w", err)
	}

	query := "SELECT " + quoteColumns(structureColumns) + where + ` ORDER BY "number" LIMIT ? OFFSET ?`
	args = append(args, filter.Limit, filter.Offset)

	var structures []*models.Structure
	err = r.db.SelectContext(ctx, "list_structures", &structures, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list structures: %w", err)
	}

	return structures, totalCount, nil
}

// ListInspections retrieves inspections with filtering and pagination
func (r *bridgeRepository) ListInspections(ctx context.Context, filter InspectionFilter) ([]*models.Inspection, int, error) {
	where := ` FROM "Inspection" WHERE 1=1`
	args := []interface{}{}

	if filter.StructureNumber != nil {
		where += ` AND "structureNumber" = ?`
		args = append(args, *filter.StructureNumber)
	}

	if filter.Year != nil {
		where += ` AND "year" = ?`
		args = append(args, *filter.Year)
	}

	var totalCount int
	err := r.db.GetContext(ctx, "count_inspections", &totalCount, "SELECT COUNT(*)"+where, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count inspections: %w", err)
	}

	query := "SELECT " + quoteColumns(inspectionColumns) + where + ` ORDER BY "year" DESC, "structureNumber" LIMIT ? OFFSET ?`
	args = append(args, filter.Limit, filter.Offset)

	var inspections []*models.Inspection
	err = r.db.SelectContext(ctx, "list_inspections", &inspections, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list inspections: %w", err)
	}

	return inspections, totalCount, nil
}

// ConditionSummary counts inspections per year and bridge condition
func (r *bridgeRepository) ConditionSummary(ctx context.Context, year *int) ([]*models.ConditionSummary, error) {
	timer := time.Now()
	defer func() {
		r.logger.Debug(ctx, "[REPO_CONDITION_SUMMARY] Summary calculated", logging.Fields{
			"duration_ms": time.Since(timer).Milliseconds(),
		})
	}()

	query := `SELECT "year", "condition", COUNT(*) AS "count" FROM "Inspection"`
	args := []interface{}{}
	if year != nil {
		query += ` WHERE "year" = ?`
		args = append(args, *year)
	}
	query += ` GROUP BY "year", "condition" ORDER BY "year" DESC, "condition"`

	var summary []*models.ConditionSummary
	if err := r.db.SelectContext(ctx, "condition_summary", &summary, query, args...); err != nil {
		return nil, fmt.Errorf("failed to summarize conditions: %w", err)
	}

	return summary, nil
}

// ListDimension returns every entry of a lookup table
func (r *bridgeRepository) ListDimension(ctx context.Context, table string) ([]models.DimensionEntry, error) {
	if !dimensionTables[table] {
		return nil, &NotFoundError{
			Resource: "dimension",
			ID:       table,
		}
	}

	query := fmt.Sprintf(`SELECT "code", "name" FROM "%s" ORDER BY "code"`, table)

	var entries []models.DimensionEntry
	if err := r.db.SelectContext(ctx, "list_dimension", &entries, query); err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", table, err)
	}

	return entries, nil
}

// ListConditionRatings returns the NBI condition rating reference table
func (r *bridgeRepository) ListConditionRatings(ctx context.Context) ([]models.ConditionRating, error) {
	var ratings []models.ConditionRating
	err := r.db.SelectContext(ctx, "list_condition_ratings", &ratings,
		`SELECT "code", "description", "detail" FROM "ConditionRating" ORDER BY "code"`)
	if err != nil {
		return nil, fmt.Errorf("failed to list condition ratings: %w", err)
	}

	return ratings, nil
}

// ListMetadata returns column documentation, optionally for a single table
func (r *bridgeRepository) ListMetadata(ctx context.Context, table *string) ([]models.ColumnMetadata, error) {
	query := `SELECT "table", "column", "unit", "description" FROM "Metadata"`
	args := []interface{}{}
	if table != nil {
		query += ` WHERE "table" = ?`
		args = append(args, *table)
	}
	query += ` ORDER BY "table", "column"`

	var docs []models.ColumnMetadata
	if err := r.db.SelectContext(ctx, "list_metadata", &docs, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list metadata: %w", err)
	}

	return docs, nil
}

// HealthCheck performs a repository health check
func (r *bridgeRepository) HealthCheck(ctx context.Context) error {
	return r.db.HealthCheck(ctx)
}

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

func (e *NotFoundError) IsTransient() bool {
	return false
}
