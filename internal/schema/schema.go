// Package schema owns the normalized bridge schema: DDL migrations and the
// reference data (condition ratings, column metadata) seeded alongside it.
package schema

import (
	"context"
	"embed"
	"fmt"
	"strings"

	"bridge-platform/pkg/database"
	"bridge-platform/pkg/logging"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Direction selects which migration file runs.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// Statements returns the SQL statements of the migration in order.
func Statements(dir Direction) ([]string, error) {
	if dir != Up && dir != Down {
		return nil, fmt.Errorf("invalid migration direction %q", dir)
	}

	content, err := migrations.ReadFile(fmt.Sprintf("migrations/001_create_schema.%s.sql", dir))
	if err != nil {
		return nil, fmt.Errorf("failed to read migration file: %w", err)
	}

	var stmts []string
	for _, part := range strings.Split(string(content), ";") {
		if stmt := strings.TrimSpace(part); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts, nil
}

// Migrate runs every statement of the migration. Statements run one at a
// time since not every driver accepts multi-statement strings.
func Migrate(ctx context.Context, db *database.DB, logger *logging.StructuredLogger, dir Direction) error {
	stmts, err := Statements(dir)
	if err != nil {
		return err
	}

	for i, stmt := range stmts {
		if _, err := db.ExecContext(ctx, "migrate_"+string(dir), stmt); err != nil {
			return fmt.Errorf("migration statement %d failed: %w", i+1, err)
		}
	}

	logger.Info(ctx, "[MIGRATE_COMPLETE] Migration applied", logging.Fields{
		"direction":  string(dir),
		"statements": len(stmts),
		"driver":     db.Driver(),
	})
	return nil
}

// Seed replaces the reference tables with ConditionRatings and ColumnDocs.
func Seed(ctx context.Context, db *database.DB, logger *logging.StructuredLogger) error {
	tx, err := db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM "Metadata"`); err != nil {
		return fmt.Errorf("failed to clear Metadata: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM "ConditionRating"`); err != nil {
		return fmt.Errorf("failed to clear ConditionRating: %w", err)
	}

	ratingQuery := tx.Rebind(`INSERT INTO "ConditionRating" ("code", "description", "detail") VALUES (?, ?, ?)`)
	for _, r := range ConditionRatings {
		if _, err := tx.ExecContext(ctx, ratingQuery, r.Code, r.Description, r.Detail); err != nil {
			return fmt.Errorf("failed to seed condition rating %d: %w", r.Code, err)
		}
	}

	metaQuery := tx.Rebind(`INSERT INTO "Metadata" ("table", "column", "unit", "description") VALUES (?, ?, ?, ?)`)
	for _, m := range ColumnDocs {
		if _, err := tx.ExecContext(ctx, metaQuery, m.Table, m.Column, m.Unit, m.Description); err != nil {
			return fmt.Errorf("failed to seed metadata %s.%s: %w", m.Table, m.Column, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}

	logger.Info(ctx, "[SEED_COMPLETE] Reference data seeded", logging.Fields{
		"condition_ratings": len(ConditionRatings),
		"metadata_rows":     len(ColumnDocs),
	})
	return nil
}
