package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bridge-platform/internal/config"
	"bridge-platform/internal/handlers"
	"bridge-platform/internal/repository"
	"bridge-platform/internal/services"
	"bridge-platform/pkg/database"
	"bridge-platform/pkg/logging"
	"bridge-platform/pkg/metrics"
)

// shutdownTimeout bounds how long in-flight requests may finish after a signal.
const shutdownTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "bridge-api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := logging.NewStructuredLogger("bridge-api", "1.0.0", cfg.LogLevel())

	// SIGINT or SIGTERM starts the graceful shutdown below.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metricsCollector := metrics.NewCollector("bridge_platform", prometheus.DefaultRegisterer)

	db, err := database.Open(ctx, cfg.DatabaseOptions(), logger, metricsCollector)
	if err != nil {
		logger.Error(ctx, "[STARTUP_ERROR] Failed to connect to database", logging.Fields{
			"env":       cfg.Env,
			"db_driver": cfg.Database.Driver,
		}, err)
		return err
	}
	defer db.Close()

	bridgeRepo := repository.NewBridgeRepository(db, logger, metricsCollector)
	router := newRouter(bridgeRepo, logger, metricsCollector, prometheus.DefaultGatherer)
	reportInventory(ctx, bridgeRepo, logger)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	logger.Info(ctx, "[SERVER_START] Bridge inventory API listening (read-only)", logging.Fields{
		"version":   "1.0.0",
		"env":       cfg.Env,
		"address":   server.Addr,
		"db_driver": cfg.Database.Driver,
		"db_name":   cfg.Database.Database,
		"docs":      "/api/docs",
	})

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error(ctx, "[SERVER_ERROR] Server failed", logging.Fields{}, err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info(context.Background(), "[SHUTDOWN] Signal received, draining requests", logging.Fields{
		"timeout": shutdownTimeout.String(),
	})

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "[SHUTDOWN_ERROR] Server forced to shutdown", logging.Fields{}, err)
		return err
	}

	logger.Info(shutdownCtx, "[SHUTDOWN_COMPLETE] Server stopped, closing database", logging.Fields{})
	return nil
}

// newRouter wires the read API, its docs and the metrics endpoint for gatherer.
func newRouter(repo repository.BridgeRepository, logger *logging.StructuredLogger, metricsCollector *metrics.Collector, gatherer prometheus.Gatherer) *mux.Router {
	bridgeHandler := handlers.NewBridgeHandler(
		services.NewBridgeService(repo, logger, metricsCollector),
		services.NewStatisticsService(repo, logger, metricsCollector),
		logger,
		metricsCollector,
	)

	router := mux.NewRouter()
	bridgeHandler.RegisterRoutes(router)
	router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods("GET")
	return router
}

// reportInventory logs how many structures the store holds. An unmigrated or
// empty store is served anyway, with a warning.
func reportInventory(ctx context.Context, repo repository.BridgeRepository, logger *logging.StructuredLogger) {
	_, total, err := repo.ListStructures(ctx, repository.StructureFilter{Limit: 1})
	if err != nil {
		logger.Warn(ctx, "[STARTUP_WARN] Bridge tables unavailable, run migrate and loader first", logging.Fields{
			"error": err.Error(),
		})
		return
	}
	if total == 0 {
		logger.Warn(ctx, "[STARTUP_WARN] No structures loaded yet", logging.Fields{})
		return
	}
	logger.Info(ctx, "[STARTUP] Serving bridge inventory", logging.Fields{
		"structures": total,
	})
}
