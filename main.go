package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/memory"

	"github.com/slippistats/lcancel-query/config"
	"github.com/slippistats/lcancel-query/dataset"
	"github.com/slippistats/lcancel-query/logging"
	"github.com/slippistats/lcancel-query/metrics"
	"github.com/slippistats/lcancel-query/query"
	"github.com/slippistats/lcancel-query/render"
	"github.com/slippistats/lcancel-query/reports"
)

func usage() {
	fmt.Println("Usage: lcancel-query [dataset.parquet] [report]")
	fmt.Println("Example: lcancel-query ./lcancels.parquet by-opponent")
	fmt.Println("\nThe dataset path may also come from DATASET_PATH or the config file.")
	fmt.Println("\nReports:")
	for _, r := range reports.All() {
		fmt.Printf("  %-16s - %s\n", r.Name, r.Description)
	}
	fmt.Println("  all              - run every report")
}

func main() {
	// Optional config file for defaults (dataset path, report selection,
	// character filter, observability); positional arguments always win.
	cfg := config.Default()
	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	args := os.Args[1:]
	if len(args) > 0 {
		cfg.Dataset.Path = args[0]
	}
	reportName := cfg.Reports.Default
	if len(args) > 1 {
		reportName = args[1]
	}

	if err := cfg.Validate(); err != nil {
		usage()
		fmt.Fprintf(os.Stderr, "\n%v\n", err)
		os.Exit(1)
	}

	// Initialize
	logger := logging.NewComponentLogger("lcancel-query", "1.0.0")
	alloc := memory.NewGoAllocator()
	collector := metrics.NewCollector(logger)

	logger.Info().
		Str("dataset", cfg.Dataset.Path).
		Str("report", reportName).
		Str("character", cfg.Reports.Character).
		Msg("Starting query runner")

	if cfg.Observability.MetricsPort > 0 {
		if err := collector.StartMetricsServer(cfg.Observability.MetricsPort); err != nil {
			logger.Warn().
				Err(err).
				Int("port", cfg.Observability.MetricsPort).
				Msg("Metrics server unavailable, continuing without it")
		}
	}

	// Load the dataset once; it stays resident and immutable for the
	// lifetime of the session.
	loadStart := time.Now()
	rec, err := dataset.Load(context.Background(), cfg.Dataset.Path, alloc, logger)
	if err != nil {
		collector.RecordError()
		logger.Error().
			Err(err).
			Str("dataset", cfg.Dataset.Path).
			Msg("Failed to load dataset")
		os.Exit(1)
	}
	defer rec.Release()
	collector.RecordLoad(rec.NumRows(), time.Since(loadStart))

	// Select reports
	var selected []reports.Report
	if reportName == "all" {
		selected = reports.All()
	} else {
		r, err := reports.ByName(reportName)
		if err != nil {
			logger.Error().
				Err(err).
				Strs("available", reports.Names()).
				Msg("Unknown report")
			os.Exit(1)
		}
		selected = []reports.Report{r}
	}

	engine := query.NewEngine(alloc, logger)

	failed := false
	for _, r := range selected {
		q := r.Build(cfg.Reports.Character)

		var result arrow.Record
		var runErr error
		collector.TimeQuery(func() {
			result, runErr = engine.Run(rec, q)
		})
		if runErr != nil {
			// A failed query aborts only itself; the base record stays
			// resident for the remaining reports.
			collector.RecordError()
			logger.Error().
				Err(runErr).
				Str("report", r.Name).
				Msg("Query failed")
			failed = true
			continue
		}
		collector.RecordQuery(rec.NumRows())

		fmt.Printf("\n== %s: %s\n", r.Name, r.Description)
		if err := render.Table(os.Stdout, result); err != nil {
			logger.Error().
				Err(err).
				Str("report", r.Name).
				Msg("Failed to render result")
			failed = true
		}
		result.Release()
	}

	if failed {
		os.Exit(1)
	}
}
