package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/term"

	"bridge-platform/internal/config"
	"bridge-platform/internal/repository"
	"bridge-platform/internal/services"
	"bridge-platform/internal/source"
	"bridge-platform/pkg/database"
	"bridge-platform/pkg/logging"
	"bridge-platform/pkg/metrics"
)

func main() {
	err := run(os.Args[1:], os.Stdout, prometheus.DefaultRegisterer)
	switch {
	case err == nil:
	case errors.Is(err, flag.ErrHelp):
	default:
		fmt.Fprintf(os.Stderr, "bridge-loader: %v\n", err)
		os.Exit(1)
	}
}

// run performs one load and returns its error instead of exiting, so the
// database handle is closed on every path.
func run(args []string, out io.Writer, reg prometheus.Registerer) error {
	// Parse command-line flags
	flags := flag.NewFlagSet("bridge-loader", flag.ContinueOnError)
	env := flags.String("env", "", "Environment profile: development, test or production (default $BRIDGE_ENV)")
	sourcePath := flags.String("source", "", "Bridge export CSV (default $SOURCE_PATH)")
	batchSize := flags.Int("batch-size", 0, "Rows per INSERT statement (default $LOAD_BATCH_SIZE)")
	dryRun := flags.Bool("dry-run", false, "Normalize and validate without writing to the database")
	exportXLSX := flags.String("export-xlsx", "", "Also write the flat inspection table to this .xlsx file")
	exportSHP := flags.String("export-shp", "", "Also write structure locations to this point shapefile")
	promptPassword := flags.Bool("prompt-password", false, "Read the database password from the terminal")
	if err := flags.Parse(args); err != nil {
		return err
	}

	// Load configuration
	cfg, err := config.LoadConfigFor(*env)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if *sourcePath != "" {
		cfg.Load.SourcePath = *sourcePath
	}
	if *batchSize > 0 {
		cfg.Load.BatchSize = *batchSize
	}

	if *promptPassword {
		password, err := readPassword()
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		cfg.Database.Password = password
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := logging.NewStructuredLogger("bridge-loader", "1.0.0", cfg.LogLevel())
	logger.SetOutput(out)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "[LOADER_START] Starting bridge inventory load", logging.Fields{
		"version":    "1.0.0",
		"env":        cfg.Env,
		"driver":     cfg.Database.Driver,
		"source":     cfg.Load.SourcePath,
		"batch_size": cfg.Load.BatchSize,
		"dry_run":    *dryRun,
	})

	metricsCollector := metrics.NewCollector("bridge_loader", reg)

	// A dry run never opens the store.
	var repo repository.BridgeRepository
	if !*dryRun {
		db, err := database.Open(ctx, cfg.DatabaseOptions(), logger, metricsCollector)
		if err != nil {
			logger.Error(ctx, "[LOADER_ERROR] Failed to connect to database", logging.Fields{
				"driver": cfg.Database.Driver,
			}, err)
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		repo = repository.NewBridgeRepository(db, logger, metricsCollector)
	}

	pipeline := services.NewPipelineService(source.NewReader(logger, metricsCollector), repo, logger, metricsCollector)

	result, err := pipeline.Run(ctx, services.PipelineOptions{
		SourcePath: cfg.Load.SourcePath,
		BatchSize:  cfg.Load.BatchSize,
		DryRun:     *dryRun,
		ExportXLSX: *exportXLSX,
		ExportSHP:  *exportSHP,
	})
	if err != nil {
		stage := "unknown"
		var stageErr *services.StageError
		if errors.As(err, &stageErr) {
			stage = stageErr.Stage
		}
		logger.Error(ctx, "[LOADER_ERROR] Load failed, nothing was written", logging.Fields{
			"stage": stage,
		}, err)
		return err
	}

	printSummary(out, result, *exportXLSX, *exportSHP)

	logger.Info(ctx, "[LOADER_COMPLETE] Load completed successfully", logging.Fields{
		"run_id":           result.RunID,
		"records_read":     result.RecordsRead,
		"loaded":           result.Loaded,
		"duration_seconds": result.Duration.Seconds(),
	})
	return nil
}

func readPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("stdin is not a terminal")
	}

	fmt.Fprint(os.Stderr, "Database password: ")
	password, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(password), nil
}

func printSummary(out io.Writer, result *services.PipelineResult, xlsxPath, shpPath string) {
	fmt.Fprintln(out, strings.Repeat("=", 80))
	if result.Loaded {
		fmt.Fprintln(out, "LOAD COMPLETE")
	} else {
		fmt.Fprintln(out, "DRY RUN COMPLETE (nothing written to the database)")
	}
	fmt.Fprintln(out, strings.Repeat("=", 80))
	fmt.Fprintf(out, "Run ID:             %s\n", result.RunID)
	fmt.Fprintf(out, "Records Read:       %d\n", result.RecordsRead)
	fmt.Fprintf(out, "Duration:           %v\n", result.Duration)

	tables := make([]string, 0, len(result.Rows))
	for table := range result.Rows {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	fmt.Fprintln(out, "\nRows per table:")
	for _, table := range tables {
		fmt.Fprintf(out, "  %-18s %d\n", table, result.Rows[table])
	}

	if xlsxPath != "" {
		fmt.Fprintf(out, "\nWorkbook:           %s\n", xlsxPath)
	}
	if shpPath != "" {
		fmt.Fprintf(out, "Shapefile:          %s (%d points)\n", shpPath, result.PointsExported)
	}
}
