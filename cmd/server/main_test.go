package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"bridge-platform/internal/repository"
	"bridge-platform/internal/schema"
	"bridge-platform/pkg/database"
	"bridge-platform/pkg/logging"
	"bridge-platform/pkg/metrics"
)

func newTestStore(t *testing.T, migrate bool, logOutput io.Writer) (repository.BridgeRepository, *logging.StructuredLogger, *prometheus.Registry, *metrics.Collector) {
	t.Helper()

	logger := logging.NewStructuredLogger("test", "test", logging.InfoLevel)
	logger.SetOutput(logOutput)
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector("bridge_platform", registry)

	ctx := context.Background()
	db, err := database.Open(ctx, &database.Config{Driver: database.DriverSQLite, Database: ":memory:"}, logger, collector)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if migrate {
		if err := schema.Migrate(ctx, db, logger, schema.Up); err != nil {
			t.Fatalf("Migrate() error = %v", err)
		}
	}

	return repository.NewBridgeRepository(db, logger, collector), logger, registry, collector
}

func TestNewRouter(t *testing.T) {
	repo, logger, registry, collector := newTestStore(t, true, io.Discard)
	router := newRouter(repo, logger, collector, registry)

	tests := []struct {
		target string
		want   int
	}{
		{"/health", http.StatusOK},
		{"/api/structures", http.StatusOK},
		{"/api/docs/openapi.json", http.StatusOK},
		{"/metrics", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))
			if rec.Code != tt.want {
				t.Errorf("GET %s = %d, want %d", tt.target, rec.Code, tt.want)
			}
		})
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "bridge_platform_api_requests_total") {
		t.Errorf("/metrics does not expose the API request counter:\n%s", rec.Body.String())
	}

	// the API is read-only
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/structures", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST /api/structures = %d, want 405", rec.Code)
	}
}

func TestReportInventory(t *testing.T) {
	tests := []struct {
		name    string
		migrate bool
		want    string
	}{
		{"unmigrated store", false, "[STARTUP_WARN] Bridge tables unavailable"},
		{"empty store", true, "[STARTUP_WARN] No structures loaded yet"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			repo, logger, _, _ := newTestStore(t, tt.migrate, &out)

			reportInventory(context.Background(), repo, logger)

			if !strings.Contains(out.String(), tt.want) {
				t.Errorf("log output missing %q:\n%s", tt.want, out.String())
			}
		})
	}
}
