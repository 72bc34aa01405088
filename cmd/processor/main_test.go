package main

import (
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salescli/internal/config"
)

const sampleInput = `date,store_id,product_id,quantity,unit_price,customer_age
2024-03-04,S001,P100,5,10.00,34
2024-03-05,S001,P100,2,10.00,22
2024-03-05,S002,P101,3,5.00,47
2024-03-09,S001,P101,1,5.00,17
2024-07-01,S002,P100,10,10.00,61
2024-03-06,S001,P100,500,10.00,30
`

func TestRun_EndToEnd(t *testing.T) {
	paths := config.PathsFor(t.TempDir())
	require.NoError(t, paths.EnsureDirectories())
	require.NoError(t, os.WriteFile(paths.InputCSV, []byte(sampleInput), 0644))

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	cfg := config.Default()

	err := run(context.Background(), logger, cfg, paths, paths.InputCSV, false, false)
	require.NoError(t, err)

	// Every pipeline output lands in the reports directory
	for _, path := range []string{
		paths.DailySalesCSV,
		paths.WeeklyRevenueCSV,
		paths.AvgQuantityCSV,
		paths.MonthlyCSV,
		paths.QuarterlyCSV,
		paths.EnrichedCSV,
		paths.SummaryStatsCSV,
		paths.SummaryWorkbook,
		paths.HistogramPNG,
	} {
		_, err := os.Stat(path)
		assert.NoError(t, err, path)
	}

	// The 500-quantity row is an outlier and must not reach the enriched output
	file, err := os.Open(paths.EnrichedCSV)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 6) // header + 5 surviving transactions
	for _, row := range rows[1:] {
		assert.NotEqual(t, "500", row[3])
	}
}

func TestRun_OutputDirOverride(t *testing.T) {
	paths := config.PathsFor(t.TempDir())
	require.NoError(t, paths.EnsureDirectories())
	require.NoError(t, os.WriteFile(paths.InputCSV, []byte(sampleInput), 0644))

	// As with the -out flag, reports land directly in the chosen directory
	outDir := t.TempDir()
	paths.SetReportsDir(outDir)

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	err := run(context.Background(), logger, config.Default(), paths, paths.InputCSV, true, true)
	require.NoError(t, err)

	for _, name := range []string{
		"daily_sales.csv",
		"weekly_revenue_by_store.csv",
		"avg_quantity_by_product_and_age_group.csv",
		"monthly_revenue_trends.csv",
		"quarterly_revenue_trends.csv",
		"sales_data_with_revenue.csv",
		"summary_statistics.csv",
	} {
		_, err := os.Stat(filepath.Join(outDir, name))
		assert.NoError(t, err, name)
	}

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	for _, entry := range entries {
		assert.False(t, entry.IsDir(), "no nested directories under the output dir")
	}
}

func TestRun_MissingInput(t *testing.T) {
	paths := config.PathsFor(t.TempDir())
	require.NoError(t, paths.EnsureDirectories())

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	err := run(context.Background(), logger, config.Default(), paths, paths.InputCSV, true, true)
	assert.Error(t, err)
}
