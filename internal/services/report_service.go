package services

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"salescli/internal/config"
	"salescli/internal/dataprocessing"
	apperrors "salescli/internal/errors"
	"salescli/internal/exporter"
	"salescli/internal/files"
)

// StatsReport is the combined descriptive statistics payload served by the
// stats endpoint.
type StatsReport struct {
	RowCount               int                             `json:"row_count"`
	Columns                []dataprocessing.ColumnStats    `json:"columns"`
	StoreAverages          []dataprocessing.StoreRevenue   `json:"store_averages"`
	TopProduct             dataprocessing.ProductFrequency `json:"top_product"`
	QuantityAgeCorrelation float64                         `json:"quantity_age_correlation"`
	GeneratedAt            time.Time                       `json:"generated_at"`
}

// ReportService serves the aggregate summary tables computed from the input
// transactions CSV. The pipeline runs once on first access and the results are
// cached until Reload is called.
type ReportService struct {
	logger *slog.Logger
	paths  *config.Paths
	cfg    config.PipelineConfig

	mu         sync.Mutex
	aggregator *dataprocessing.Aggregator
	analyzer   *dataprocessing.Analyzer
	loadedAt   time.Time
}

// NewReportService creates a new report service
func NewReportService(logger *slog.Logger, paths *config.Paths, cfg config.PipelineConfig) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportService{
		logger: logger.With(slog.String("service", "report")),
		paths:  paths,
		cfg:    cfg,
	}
}

// pipeline returns the cached aggregator and analyzer, loading and processing
// the input CSV on first use.
func (s *ReportService) pipeline(ctx context.Context) (*dataprocessing.Aggregator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.aggregator != nil {
		return s.aggregator, nil
	}

	loader := dataprocessing.NewLoader(s.logger)
	raw, err := loader.LoadCSV(s.paths.InputCSV)
	if err != nil {
		return nil, err
	}

	csvWriter := exporter.NewCSVWriter(s.paths)
	processor := dataprocessing.NewProcessor(s.logger, s.cfg, raw)
	s.aggregator = dataprocessing.NewAggregator(s.logger, processor, csvWriter)
	s.analyzer = dataprocessing.NewAnalyzer(s.logger, csvWriter)
	s.loadedAt = time.Now()

	s.logger.InfoContext(ctx, "input dataset loaded",
		slog.String("path", s.paths.InputCSV),
		slog.Int("raw_rows", len(raw)))

	return s.aggregator, nil
}

// Reload discards the cached pipeline so the next request re-reads the input.
func (s *ReportService) Reload(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.aggregator = nil
	s.analyzer = nil
	s.logger.InfoContext(ctx, "report cache invalidated")
}

// DailySales returns total revenue per day.
func (s *ReportService) DailySales(ctx context.Context) ([]dataprocessing.DailySales, error) {
	agg, err := s.pipeline(ctx)
	if err != nil {
		return nil, err
	}
	return agg.DailySales(ctx)
}

// WeeklyRevenueByStore returns total revenue per store per week.
func (s *ReportService) WeeklyRevenueByStore(ctx context.Context) ([]dataprocessing.StoreWeekRevenue, error) {
	agg, err := s.pipeline(ctx)
	if err != nil {
		return nil, err
	}
	return agg.WeeklyRevenueByStore(ctx)
}

// AvgQuantityByProductAndAgeGroup returns mean quantity per product and age group.
func (s *ReportService) AvgQuantityByProductAndAgeGroup(ctx context.Context) ([]dataprocessing.ProductAgeQuantity, error) {
	agg, err := s.pipeline(ctx)
	if err != nil {
		return nil, err
	}
	return agg.AvgQuantityByProductAndAgeGroup(ctx)
}

// MonthlyRevenue returns total revenue per calendar month.
func (s *ReportService) MonthlyRevenue(ctx context.Context) ([]dataprocessing.MonthRevenue, error) {
	agg, err := s.pipeline(ctx)
	if err != nil {
		return nil, err
	}
	return agg.MonthlyRevenue(ctx)
}

// QuarterlyRevenue returns total revenue per calendar quarter.
func (s *ReportService) QuarterlyRevenue(ctx context.Context) ([]dataprocessing.QuarterRevenue, error) {
	agg, err := s.pipeline(ctx)
	if err != nil {
		return nil, err
	}
	return agg.QuarterlyRevenue(ctx)
}

// Stats returns descriptive statistics over the processed table.
func (s *ReportService) Stats(ctx context.Context) (*StatsReport, error) {
	agg, err := s.pipeline(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	analyzer := s.analyzer
	loadedAt := s.loadedAt
	s.mu.Unlock()

	rows, err := agg.Rows(ctx)
	if err != nil {
		return nil, err
	}

	report := &StatsReport{
		RowCount:               len(rows),
		Columns:                analyzer.Describe(rows),
		StoreAverages:          analyzer.AverageRevenuePerStore(rows),
		QuantityAgeCorrelation: analyzer.QuantityAgeCorrelation(rows),
		GeneratedAt:            loadedAt,
	}
	if top, err := analyzer.TopProduct(rows); err == nil {
		report.TopProduct = top
	}

	return report, nil
}

// ListReportFiles returns the generated report files currently on disk.
func (s *ReportService) ListReportFiles(ctx context.Context) ([]files.FileInfo, error) {
	discovery := files.NewDiscovery(s.paths.ReportsDir)
	reports, err := discovery.ListReports()
	if err != nil {
		return nil, apperrors.NewStorageError("failed to list report files", err)
	}
	return reports, nil
}

// ReportFilePath resolves a report filename under the reports directory,
// rejecting path traversal and missing files.
func (s *ReportService) ReportFilePath(name string) (string, error) {
	cleaned := filepath.Clean(name)
	if cleaned == "." || strings.Contains(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", apperrors.NewValidationError("invalid report filename")
	}

	path := s.paths.GetReportPath(cleaned)
	if !config.FileExists(path) {
		return "", apperrors.NewNotFoundError("report " + cleaned)
	}

	return path, nil
}
