package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"bridge-platform/internal/models"
	"bridge-platform/internal/schema"
	"bridge-platform/internal/services"
	"bridge-platform/pkg/database"
	"bridge-platform/pkg/logging"
	"bridge-platform/pkg/metrics"
)

const fixture = "../../internal/services/testdata/bridges.csv"

// openStore opens the sqlite file at path, migrating it when migrate is set.
func openStore(t *testing.T, path string, migrate bool) *database.DB {
	t.Helper()

	logger := logging.NewStructuredLogger("test", "test", logging.ErrorLevel)
	logger.SetOutput(io.Discard)
	collector := metrics.NewCollector("test", prometheus.NewRegistry())

	ctx := context.Background()
	db, err := database.Open(ctx, &database.Config{Driver: database.DriverSQLite, Database: path}, logger, collector)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if migrate {
		if err := schema.Migrate(ctx, db, logger, schema.Up); err != nil {
			t.Fatalf("Migrate() error = %v", err)
		}
		if err := schema.Seed(ctx, db, logger); err != nil {
			t.Fatalf("Seed() error = %v", err)
		}
	}
	return db
}

func useStore(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bridges.db")
	t.Setenv("DB_DRIVER", database.DriverSQLite)
	t.Setenv("DB_NAME", path)
	t.Setenv("LOG_LEVEL", "info")
	return path
}

func TestRun_Load(t *testing.T) {
	path := useStore(t)
	openStore(t, path, true).Close()

	var out bytes.Buffer
	err := run([]string{"-env", "development", "-source", fixture, "-batch-size", "1"}, &out, prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("run() error = %v\n%s", err, out.String())
	}
	if !strings.Contains(out.String(), "LOAD COMPLETE") {
		t.Errorf("summary banner missing from output:\n%s", out.String())
	}

	db := openStore(t, path, false)
	var n int
	if err := db.GetContext(context.Background(), "count", &n, `SELECT COUNT(*) FROM "Structure"`); err != nil {
		t.Fatalf("count error = %v", err)
	}
	if n != 2 {
		t.Errorf("Structure rows = %d, want 2", n)
	}
}

func TestRun_FailureReturnsAfterClosingDatabase(t *testing.T) {
	// the store exists but was never migrated, so the load stage fails
	useStore(t)

	var out bytes.Buffer
	err := run([]string{"-env", "development", "-source", fixture}, &out, prometheus.NewRegistry())

	var stageErr *services.StageError
	if !errors.As(err, &stageErr) {
		t.Fatalf("run() error = %v, want *services.StageError", err)
	}
	if stageErr.Stage != services.StageLoad {
		t.Errorf("Stage = %q, want %q", stageErr.Stage, services.StageLoad)
	}
	var loadErr *models.LoadError
	if !errors.As(err, &loadErr) {
		t.Errorf("run() error = %v, want a wrapped *models.LoadError", err)
	}
	if !strings.Contains(out.String(), "[DB_CLOSE]") {
		t.Errorf("database was not closed on the failure path:\n%s", out.String())
	}
}

func TestRun_DryRunWithExports(t *testing.T) {
	path := useStore(t)
	dir := t.TempDir()

	var out bytes.Buffer
	err := run([]string{
		"-env", "development",
		"-source", fixture,
		"-dry-run",
		"-export-xlsx", filepath.Join(dir, "inspections.xlsx"),
		"-export-shp", filepath.Join(dir, "structures.shp"),
	}, &out, prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("run() error = %v\n%s", err, out.String())
	}

	if !strings.Contains(out.String(), "DRY RUN COMPLETE") {
		t.Errorf("dry run banner missing from output:\n%s", out.String())
	}
	for _, name := range []string{"inspections.xlsx", "structures.shp", "structures.dbf"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("export %s missing: %v", name, err)
		}
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("dry run touched the database file (stat error = %v)", err)
	}
}

func TestRun_InvalidInput(t *testing.T) {
	useStore(t)

	tests := []struct {
		name string
		args []string
	}{
		{"bad flag value", []string{"-batch-size", "many"}},
		{"unknown environment", []string{"-env", "staging"}},
		{"missing source", []string{"-env", "development", "-dry-run", "-source", "does-not-exist.csv"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := run(tt.args, io.Discard, prometheus.NewRegistry()); err == nil {
				t.Errorf("run(%v) error = nil, want error", tt.args)
			}
		})
	}
}
