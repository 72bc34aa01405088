package services

import (
	"context"
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salescli/internal/config"
	apperrors "salescli/internal/errors"
)

const inputCSV = `date,store_id,product_id,quantity,unit_price,customer_age
2024-03-04,S001,P100,5,10.00,34
2024-03-05,S001,P100,2,10.00,22
2024-03-05,S002,P101,3,5.00,47
2024-07-01,S002,P100,10,10.00,61
`

func testService(t *testing.T) (*ReportService, *config.Paths) {
	t.Helper()
	paths := config.PathsFor(t.TempDir())
	require.NoError(t, paths.EnsureDirectories())
	require.NoError(t, os.WriteFile(paths.InputCSV, []byte(inputCSV), 0644))

	cfg := config.Default().Pipeline
	return NewReportService(nil, paths, cfg), paths
}

func TestReportService_DailySales(t *testing.T) {
	service, _ := testService(t)

	daily, err := service.DailySales(context.Background())
	require.NoError(t, err)
	require.Len(t, daily, 3)
	assert.Equal(t, "2024-03-04", daily[0].Date.Format("2006-01-02"))
	assert.True(t, daily[0].Revenue.Equal(decimal.RequireFromString("50.00")))
}

func TestReportService_MissingInput(t *testing.T) {
	paths := config.PathsFor(t.TempDir())
	require.NoError(t, paths.EnsureDirectories())
	service := NewReportService(nil, paths, config.Default().Pipeline)

	_, err := service.DailySales(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeStorage))
}

func TestReportService_Stats(t *testing.T) {
	service, _ := testService(t)

	stats, err := service.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, stats.RowCount)
	assert.Len(t, stats.Columns, 4)
	assert.Equal(t, "P100", stats.TopProduct.ProductID)
	assert.Equal(t, 3, stats.TopProduct.Purchases)
	assert.Len(t, stats.StoreAverages, 2)
}

func TestReportService_CachesPipeline(t *testing.T) {
	service, paths := testService(t)
	ctx := context.Background()

	_, err := service.DailySales(ctx)
	require.NoError(t, err)

	// Removing the input does not affect cached results
	require.NoError(t, os.Remove(paths.InputCSV))
	_, err = service.MonthlyRevenue(ctx)
	require.NoError(t, err)

	// Until a reload forces a re-read
	service.Reload(ctx)
	_, err = service.MonthlyRevenue(ctx)
	require.Error(t, err)
}

func TestReportService_ReportFilePath(t *testing.T) {
	service, paths := testService(t)

	require.NoError(t, os.WriteFile(paths.DailySalesCSV, []byte("date,revenue\n"), 0644))

	path, err := service.ReportFilePath("daily_sales.csv")
	require.NoError(t, err)
	assert.Equal(t, paths.DailySalesCSV, path)

	_, err = service.ReportFilePath("../secrets.csv")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))

	_, err = service.ReportFilePath("missing.csv")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
}

func TestHealthService(t *testing.T) {
	_, paths := testService(t)
	health := NewHealthService("1.2.3", paths)

	status := health.HealthCheck(context.Background())
	assert.Equal(t, "healthy", status.Status)
	assert.True(t, status.InputFile)

	require.NoError(t, os.Remove(paths.InputCSV))
	status = health.HealthCheck(context.Background())
	assert.Equal(t, "degraded", status.Status)

	version := health.Version()
	assert.Equal(t, "1.2.3", version.Version)
	assert.NotEmpty(t, version.GoVersion)
}
