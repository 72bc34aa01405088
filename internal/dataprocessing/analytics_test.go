package dataprocessing

import (
	"context"
	"encoding/csv"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salescli/internal/config"
	apperrors "salescli/internal/errors"
	"salescli/internal/exporter"
	"salescli/pkg/contracts/domain"
)

func analyticsFixture(t *testing.T) []domain.Transaction {
	t.Helper()
	raw := []RawRecord{
		rawRecord("2024-03-04", "S001", "P100", "2", "10.00", "20"),
		rawRecord("2024-03-05", "S001", "P100", "4", "10.00", "30"),
		rawRecord("2024-03-05", "S002", "P101", "6", "5.00", "40"),
		rawRecord("2024-03-06", "S002", "P100", "8", "5.00", "50"),
	}
	processor := NewProcessor(nil, pipelineConfig(), raw)
	rows, err := processor.Process(context.Background())
	require.NoError(t, err)
	return rows
}

func testAnalyzer(t *testing.T) (*Analyzer, *config.Paths) {
	t.Helper()
	paths := config.PathsFor(t.TempDir())
	require.NoError(t, paths.EnsureDirectories())
	return NewAnalyzer(nil, exporter.NewCSVWriter(paths)), paths
}

func TestAnalyzer_Describe(t *testing.T) {
	analyzer, _ := testAnalyzer(t)
	stats := analyzer.Describe(analyticsFixture(t))

	require.Len(t, stats, 4)

	byColumn := make(map[string]ColumnStats)
	for _, s := range stats {
		byColumn[s.Column] = s
	}

	quantity := byColumn["quantity"]
	assert.Equal(t, 4, quantity.Count)
	assert.InDelta(t, 5.0, quantity.Mean, 1e-9)
	assert.InDelta(t, 2.0, quantity.Min, 1e-9)
	assert.InDelta(t, 8.0, quantity.Max, 1e-9)
	assert.Greater(t, quantity.Std, 0.0)

	age := byColumn["customer_age"]
	assert.InDelta(t, 35.0, age.Mean, 1e-9)

	revenue := byColumn["revenue"]
	assert.InDelta(t, 20.0, revenue.Min, 1e-9)
	assert.InDelta(t, 40.0, revenue.Max, 1e-9)
}

func TestAnalyzer_Describe_Empty(t *testing.T) {
	analyzer, _ := testAnalyzer(t)
	stats := analyzer.Describe(nil)

	require.Len(t, stats, 4)
	for _, s := range stats {
		assert.Zero(t, s.Count)
		assert.Zero(t, s.Mean)
	}
}

func TestAnalyzer_AverageRevenuePerStore(t *testing.T) {
	analyzer, _ := testAnalyzer(t)
	summary := analyzer.AverageRevenuePerStore(analyticsFixture(t))

	require.Len(t, summary, 2)
	assert.Equal(t, "S001", summary[0].StoreID)
	assert.InDelta(t, 30.0, summary[0].AvgRevenue.InexactFloat64(), 1e-9) // (20+40)/2
	assert.Equal(t, "S002", summary[1].StoreID)
	assert.InDelta(t, 35.0, summary[1].AvgRevenue.InexactFloat64(), 1e-9) // (30+40)/2
}

func TestAnalyzer_TopProduct(t *testing.T) {
	analyzer, _ := testAnalyzer(t)

	top, err := analyzer.TopProduct(analyticsFixture(t))
	require.NoError(t, err)
	assert.Equal(t, "P100", top.ProductID)
	assert.Equal(t, 3, top.Purchases)
}

func TestAnalyzer_TopProduct_Empty(t *testing.T) {
	analyzer, _ := testAnalyzer(t)

	_, err := analyzer.TopProduct(nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
}

func TestAnalyzer_QuantityAgeCorrelation(t *testing.T) {
	analyzer, _ := testAnalyzer(t)

	// Quantity rises strictly with age in the fixture
	corr := analyzer.QuantityAgeCorrelation(analyticsFixture(t))
	assert.InDelta(t, 1.0, corr, 1e-9)

	assert.Zero(t, analyzer.QuantityAgeCorrelation(nil))
}

func TestAnalyzer_WriteEnriched(t *testing.T) {
	ctx := context.Background()
	analyzer, paths := testAnalyzer(t)

	require.NoError(t, analyzer.WriteEnriched(ctx, paths.EnrichedCSV, analyticsFixture(t)))

	file, err := os.Open(paths.EnrichedCSV)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 5) // header + 4 rows

	assert.Equal(t, "revenue", rows[0][6])
	assert.Equal(t, "age_group", rows[0][11])
	assert.Equal(t, "20.00", rows[1][6])
	assert.Equal(t, "18-25", rows[1][11])
}

func TestAnalyzer_WriteSummaryStats(t *testing.T) {
	ctx := context.Background()
	analyzer, paths := testAnalyzer(t)

	stats := analyzer.Describe(analyticsFixture(t))
	require.NoError(t, analyzer.WriteSummaryStats(ctx, paths.SummaryStatsCSV, stats))

	file, err := os.Open(paths.SummaryStatsCSV)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 5) // header + 4 columns
	assert.Equal(t, []string{"column", "count", "mean", "std", "min", "max"}, rows[0])
	assert.Equal(t, "quantity", rows[1][0])
}
