package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"salescli/internal/config"
	"salescli/internal/dataprocessing"
	"salescli/internal/exporter"
	"salescli/internal/infrastructure"
)

func main() {
	inFile := flag.String("in", "", "input sales CSV (defaults to data/input/sales_data.csv relative to executable)")
	outDir := flag.String("out", "", "output directory for report files (defaults to data/reports relative to executable)")
	skipChart := flag.Bool("no-chart", false, "skip rendering the customer age histogram")
	skipExcel := flag.Bool("no-excel", false, "skip writing the summary workbook")
	flag.Parse()

	// Initialize paths first to get default locations
	paths, err := config.GetPaths()
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
	}

	if *inFile == "" {
		*inFile = paths.InputCSV
	}
	if *outDir != "" {
		// Report files go straight into the given directory, no nesting
		paths.SetReportsDir(*outDir)
	}

	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}
	cfg.Logging.FilePath = paths.GetLogPath("process.log")

	logger := infrastructure.MustInitializeLogger(cfg.Logging)
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.NewRunContext(context.Background())

	logger.InfoContext(ctx, "starting sales data processing",
		slog.String("input", *inFile),
		slog.String("reports_dir", paths.ReportsDir))

	if err := run(ctx, logger, cfg, paths, *inFile, *skipChart, *skipExcel); err != nil {
		logger.ErrorContext(ctx, "processing failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.InfoContext(ctx, "processing complete")
	fmt.Println("All reports generated")
}

func run(ctx context.Context, logger *slog.Logger, cfg *config.Config, paths *config.Paths, inFile string, skipChart, skipExcel bool) error {
	loader := dataprocessing.NewLoader(logger)
	raw, err := loader.LoadCSV(inFile)
	if err != nil {
		return err
	}
	fmt.Printf("Loaded %d raw rows\n", len(raw))

	csvWriter := exporter.NewCSVWriter(paths)
	processor := dataprocessing.NewProcessor(logger, cfg.Pipeline, raw)
	aggregator := dataprocessing.NewAggregator(logger, processor, csvWriter)
	analyzer := dataprocessing.NewAnalyzer(logger, csvWriter)

	rows, err := processor.Process(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Processed %d transactions\n", len(rows))

	// Aggregate summary tables
	if err := aggregator.WriteAll(ctx,
		paths.DailySalesCSV,
		paths.WeeklyRevenueCSV,
		paths.AvgQuantityCSV,
		paths.MonthlyCSV,
		paths.QuarterlyCSV,
	); err != nil {
		return err
	}

	// Enriched dataset with all derived columns
	if err := analyzer.WriteEnriched(ctx, paths.EnrichedCSV, rows); err != nil {
		return err
	}

	// Descriptive statistics
	stats := analyzer.Describe(rows)
	if err := analyzer.WriteSummaryStats(ctx, paths.SummaryStatsCSV, stats); err != nil {
		return err
	}

	if top, err := analyzer.TopProduct(rows); err == nil {
		logger.InfoContext(ctx, "most purchased product",
			slog.String("product_id", top.ProductID),
			slog.Int("purchases", top.Purchases))
	}
	logger.InfoContext(ctx, "quantity/age correlation",
		slog.Float64("pearson_r", analyzer.QuantityAgeCorrelation(rows)))

	if !skipExcel {
		if err := aggregator.WriteSummaryWorkbook(ctx, paths.SummaryWorkbook); err != nil {
			return err
		}
	}

	if !skipChart {
		ages := make([]int, len(rows))
		for i, tx := range rows {
			ages[i] = tx.CustomerAge
		}
		if err := exporter.WriteAgeHistogram(paths.HistogramPNG, ages, cfg.Pipeline.HistogramBins); err != nil {
			return err
		}
	}

	return nil
}
