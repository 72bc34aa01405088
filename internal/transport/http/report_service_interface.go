package http

import (
	"context"

	"salescli/internal/dataprocessing"
	"salescli/internal/files"
	"salescli/internal/services"
)

// ReportServiceInterface defines the report operations the handlers depend on.
// Kept as an interface so handler tests can substitute a stub service.
type ReportServiceInterface interface {
	DailySales(ctx context.Context) ([]dataprocessing.DailySales, error)
	WeeklyRevenueByStore(ctx context.Context) ([]dataprocessing.StoreWeekRevenue, error)
	AvgQuantityByProductAndAgeGroup(ctx context.Context) ([]dataprocessing.ProductAgeQuantity, error)
	MonthlyRevenue(ctx context.Context) ([]dataprocessing.MonthRevenue, error)
	QuarterlyRevenue(ctx context.Context) ([]dataprocessing.QuarterRevenue, error)
	Stats(ctx context.Context) (*services.StatsReport, error)
	ListReportFiles(ctx context.Context) ([]files.FileInfo, error)
	ReportFilePath(name string) (string, error)
	Reload(ctx context.Context)
}
