package database

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"bridge-platform/pkg/logging"
	"bridge-platform/pkg/metrics"
)

func TestConfig_DSN(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		want    []string
		wantErr bool
	}{
		{
			name: "postgres",
			cfg:  Config{Driver: DriverPostgres, Host: "db", Port: 5432, User: "nbi", Password: "secret", Database: "bridges", SSLMode: "disable"},
			want: []string{"host=db", "port=5432", "dbname=bridges", "sslmode=disable"},
		},
		{
			name: "mysql",
			cfg:  Config{Driver: DriverMySQL, Host: "db", Port: 3306, User: "nbi", Password: "secret", Database: "bridges"},
			want: []string{"nbi:secret@tcp(db:3306)/bridges", "sql_mode=", "ANSI_QUOTES", "parseTime=true"},
		},
		{
			name: "sqlite memory",
			cfg:  Config{Driver: DriverSQLite, Database: ":memory:"},
			want: []string{"file::memory:?", "foreign_keys(1)"},
		},
		{
			name: "sqlite file",
			cfg:  Config{Driver: DriverSQLite, Database: "data/bridges.db"},
			want: []string{"data/bridges.db?_pragma=foreign_keys(1)"},
		},
		{
			name:    "unknown driver",
			cfg:     Config{Driver: "oracle"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dsn, err := tt.cfg.DSN()
			if (err != nil) != tt.wantErr {
				t.Fatalf("DSN() error = %v, wantErr %v", err, tt.wantErr)
			}
			for _, part := range tt.want {
				if !strings.Contains(dsn, part) {
					t.Errorf("DSN() = %q, missing %q", dsn, part)
				}
			}
		})
	}
}

func TestOpen_SQLiteMemory(t *testing.T) {
	logger := logging.NewStructuredLogger("test", "test", logging.ErrorLevel)
	logger.SetOutput(io.Discard)
	collector := metrics.NewCollector("test", prometheus.NewRegistry())

	ctx := context.Background()
	db, err := Open(ctx, &Config{Driver: DriverSQLite, Database: ":memory:"}, logger, collector)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	if err := db.HealthCheck(ctx); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}

	var enabled int
	if err := db.GetContext(ctx, "pragma", &enabled, "PRAGMA foreign_keys"); err != nil {
		t.Fatalf("PRAGMA foreign_keys error = %v", err)
	}
	if enabled != 1 {
		t.Errorf("foreign_keys = %d, want 1", enabled)
	}

	if got := db.Rebind("SELECT ? , ?"); got != "SELECT ? , ?" {
		t.Errorf("Rebind() = %q, want question marks kept", got)
	}

	if err := db.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := db.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestOpen_SQLiteFileCreatesDirectory(t *testing.T) {
	logger := logging.NewStructuredLogger("test", "test", logging.ErrorLevel)
	logger.SetOutput(io.Discard)
	collector := metrics.NewCollector("test", prometheus.NewRegistry())

	tests := []struct {
		name string
		path func(t *testing.T, dir string) string
	}{
		{"relative nested path", func(t *testing.T, dir string) string {
			t.Chdir(dir)
			return filepath.Join("data", "nested", "bridges.db")
		}},
		{"absolute path", func(t *testing.T, dir string) string {
			return filepath.Join(dir, "data", "bridges.db")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.path(t, t.TempDir())

			ctx := context.Background()
			db, err := Open(ctx, &Config{Driver: DriverSQLite, Database: path}, logger, collector)
			if err != nil {
				t.Fatalf("Open(%s) error = %v", path, err)
			}
			defer db.Close()

			if _, err := db.ExecContext(ctx, "create", `CREATE TABLE "t" ("id" INTEGER)`); err != nil {
				t.Fatalf("CREATE TABLE error = %v", err)
			}
			if _, err := os.Stat(path); err != nil {
				t.Errorf("database file missing: %v", err)
			}
		})
	}
}
