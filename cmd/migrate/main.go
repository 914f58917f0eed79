package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"bridge-platform/internal/config"
	"bridge-platform/internal/schema"
	"bridge-platform/pkg/database"
	"bridge-platform/pkg/logging"
	"bridge-platform/pkg/metrics"
)

func main() {
	direction := flag.String("direction", "up", "Migration direction: up or down")
	seed := flag.Bool("seed", true, "Load the condition rating scale and column metadata after migrating up")
	env := flag.String("env", "", "Environment profile: development, test or production (default $BRIDGE_ENV)")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfigFor(*env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	dir := schema.Direction(*direction)
	if dir != schema.Up && dir != schema.Down {
		fmt.Fprintf(os.Stderr, "Invalid direction %q: want up or down\n", *direction)
		os.Exit(1)
	}

	logger := logging.NewStructuredLogger("bridge-migrate", "1.0.0", cfg.LogLevel())
	metricsCollector := metrics.NewCollector("bridge_migrate", prometheus.NewRegistry())

	ctx := context.Background()

	// Connect to database
	db, err := database.Open(ctx, cfg.DatabaseOptions(), logger, metricsCollector)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	fmt.Printf("Connected to %s database %s\n", cfg.Database.Driver, cfg.Database.Database)
	fmt.Printf("Running migration: %s\n", dir)

	if err := schema.Migrate(ctx, db, logger, dir); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to execute migration: %v\n", err)
		db.Close()
		os.Exit(1)
	}

	if dir == schema.Up && *seed {
		if err := schema.Seed(ctx, db, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to seed reference tables: %v\n", err)
			db.Close()
			os.Exit(1)
		}
		fmt.Println("Reference tables seeded")
	}

	fmt.Println("Migration completed successfully")
}
