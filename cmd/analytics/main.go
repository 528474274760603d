package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/retailops/analytics/internal/application/ingest"
	appreport "github.com/retailops/analytics/internal/application/report"
	"github.com/retailops/analytics/internal/infrastructure/config"
	"github.com/retailops/analytics/internal/infrastructure/logger"
	"github.com/retailops/analytics/internal/infrastructure/persistence"
)

func main() {
	// Parse flags
	var logLevel string
	flag.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides config")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	// Open the store
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	datasetRepo := persistence.NewGormDatasetRepository(db.DB)
	salesRepo := persistence.NewGormSalesReportRepository(db.DB)
	returnsRepo := persistence.NewGormReturnsReportRepository(db.DB)

	ingestSvc := ingest.NewService(datasetRepo, log, cfg.Data.MaxRowErrors)

	catalog, err := appreport.NewCatalog(salesRepo, returnsRepo, cfg.Report, log)
	if err != nil {
		log.Fatal("Failed to build query catalog", zap.Error(err))
	}

	ctx := context.Background()

	switch command {
	case "load":
		result, err := ingestSvc.LoadAll(ctx, cfg.Data)
		if err != nil {
			reportLoadErrors(result)
			log.Fatal("Load failed", zap.Error(err))
		}
		log.Info("All sources loaded",
			zap.Int("order_lines", result.OrderLines.LoadedRows),
			zap.Int("people", result.People.LoadedRows),
			zap.Int("returns", result.Returns.LoadedRows),
		)

	case "list":
		for _, name := range catalog.Names() {
			q, _ := catalog.Describe(name)
			fmt.Printf("  %-26s %s\n", q.Name, q.Description)
		}

	case "run":
		if len(args) < 2 {
			log.Fatal("Query name required. Usage: analytics run <query>|all")
		}
		name := args[1]

		// Queries read what load wrote; with the default in-memory store the
		// sources have to be loaded in the same process.
		if _, err := ingestSvc.LoadAll(ctx, cfg.Data); err != nil {
			log.Fatal("Load failed", zap.Error(err))
		}

		if name == "all" {
			results, err := catalog.RunAll()
			if err != nil {
				log.Fatal("Query failed", zap.Error(err))
			}
			for _, res := range results {
				printResult(res)
			}
			return
		}

		res, err := catalog.Run(name)
		if err != nil {
			log.Fatal("Query failed", zap.Error(err))
		}
		printResult(res)

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printResult(res *appreport.Result) {
	fmt.Printf("== %s (%s)\n", res.Name, res.Elapsed.Round(time.Millisecond))
	out, err := json.MarshalIndent(res.Rows, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to render %s: %v\n", res.Name, err)
		return
	}
	fmt.Println(string(out))
}

func reportLoadErrors(result *ingest.PipelineResult) {
	if result == nil {
		return
	}
	for _, lr := range []*ingest.LoadResult{result.OrderLines, result.People, result.Returns} {
		if lr == nil || len(lr.Errors) == 0 {
			continue
		}
		fmt.Fprintf(os.Stderr, "%s: %d row error(s)\n", lr.Source, lr.TotalErrors)
		for _, re := range lr.Errors {
			fmt.Fprintf(os.Stderr, "  %s\n", re.Error())
		}
		if lr.IsTruncated {
			fmt.Fprintf(os.Stderr, "  ... truncated\n")
		}
	}
}

func printUsage() {
	fmt.Println("Retail sales analytics")
	fmt.Println()
	fmt.Println("Usage: analytics [flags] <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  load              Load and validate the CSV sources")
	fmt.Println("  list              List the available queries")
	fmt.Println("  run <query>|all   Load the sources, then run one query or the full catalog")
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  -log-level string   Log level (debug, info, warn, error)")
}
