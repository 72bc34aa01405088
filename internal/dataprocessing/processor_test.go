package dataprocessing

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salescli/internal/config"
	apperrors "salescli/internal/errors"
	"salescli/pkg/contracts/domain"
)

func pipelineConfig() config.PipelineConfig {
	return config.PipelineConfig{
		MaxQuantity:   100,
		MaxUnitPrice:  1000,
		HistogramBins: 20,
	}
}

func rawRecord(date, store, product, qty, price, age string) RawRecord {
	return RawRecord{
		Date:        date,
		StoreID:     store,
		ProductID:   product,
		Quantity:    qty,
		UnitPrice:   price,
		CustomerAge: age,
	}
}

func TestProcessor_Clean_Bounds(t *testing.T) {
	ctx := context.Background()
	raw := []RawRecord{
		rawRecord("2024-03-01", "S001", "P100", "5", "10.00", "34"),
		rawRecord("2024-03-01", "S001", "P100", "101", "10.00", "34"),  // quantity outlier
		rawRecord("2024-03-01", "S001", "P100", "5", "1000.01", "34"),  // price outlier
		rawRecord("2024-03-01", "S001", "P100", "100", "1000.00", "34"), // at both bounds, kept
	}

	p := NewProcessor(nil, pipelineConfig(), raw)
	require.NoError(t, p.Clean(ctx))

	rows, err := p.ProcessedData()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	for _, tx := range rows {
		assert.LessOrEqual(t, tx.Quantity, 100)
		assert.True(t, tx.UnitPrice.LessThanOrEqual(decimal.NewFromInt(1000)))
	}
}

func TestProcessor_Clean_FillPolicy(t *testing.T) {
	ctx := context.Background()
	cfg := pipelineConfig()
	cfg.FillQuantity = 1
	cfg.FillCustomerAge = 30

	raw := []RawRecord{
		rawRecord("2024-03-01", "S001", "P100", "", "", ""),
	}

	p := NewProcessor(nil, cfg, raw)
	require.NoError(t, p.Clean(ctx))

	rows, err := p.ProcessedData()
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, 1, rows[0].Quantity)
	assert.True(t, rows[0].UnitPrice.IsZero())
	assert.Equal(t, 30, rows[0].CustomerAge)
}

func TestProcessor_Clean_UnparseableDate(t *testing.T) {
	ctx := context.Background()
	raw := []RawRecord{
		rawRecord("not-a-date", "S001", "P100", "5", "10.00", "34"),
	}

	p := NewProcessor(nil, pipelineConfig(), raw)
	err := p.Clean(ctx)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))
}

func TestProcessor_Clean_DateLayouts(t *testing.T) {
	ctx := context.Background()
	raw := []RawRecord{
		rawRecord("2024-03-01", "S001", "P100", "1", "1.00", "20"),
		rawRecord("2024/03/02", "S001", "P100", "1", "1.00", "20"),
		rawRecord("03/04/2024", "S001", "P100", "1", "1.00", "20"),
	}

	p := NewProcessor(nil, pipelineConfig(), raw)
	require.NoError(t, p.Clean(ctx))

	rows, err := p.ProcessedData()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, 1, rows[0].Date.Day())
	assert.Equal(t, 2, rows[1].Date.Day())
	assert.Equal(t, 4, rows[2].Date.Day())
}

func TestProcessor_CreateTimeFeatures(t *testing.T) {
	ctx := context.Background()
	raw := []RawRecord{
		rawRecord("2024-03-04", "S001", "P100", "1", "1.00", "20"), // Monday
		rawRecord("2024-03-09", "S001", "P100", "1", "1.00", "20"), // Saturday
		rawRecord("2024-03-10", "S001", "P100", "1", "1.00", "20"), // Sunday
		rawRecord("2024-11-15", "S001", "P100", "1", "1.00", "20"), // Friday, Q4
	}

	p := NewProcessor(nil, pipelineConfig(), raw)
	// No explicit Clean: time feature derivation lazily cleans first
	require.NoError(t, p.CreateTimeFeatures(ctx))

	rows, err := p.ProcessedData()
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, 0, rows[0].DayOfWeek)
	assert.False(t, rows[0].IsWeekend)
	assert.Equal(t, 5, rows[1].DayOfWeek)
	assert.True(t, rows[1].IsWeekend)
	assert.Equal(t, 6, rows[2].DayOfWeek)
	assert.True(t, rows[2].IsWeekend)

	assert.Equal(t, 3, rows[0].Month)
	assert.Equal(t, 1, rows[0].Quarter)
	assert.Equal(t, 11, rows[3].Month)
	assert.Equal(t, 4, rows[3].Quarter)
}

func TestProcessor_SegmentCustomers(t *testing.T) {
	ctx := context.Background()
	raw := []RawRecord{
		rawRecord("2024-03-01", "S001", "P100", "1", "1.00", "17"),
		rawRecord("2024-03-01", "S001", "P100", "1", "1.00", "18"),
		rawRecord("2024-03-01", "S001", "P100", "1", "1.00", "25"),
		rawRecord("2024-03-01", "S001", "P100", "1", "1.00", "26"),
		rawRecord("2024-03-01", "S001", "P100", "1", "1.00", "50"),
		rawRecord("2024-03-01", "S001", "P100", "1", "1.00", "51"),
	}

	p := NewProcessor(nil, pipelineConfig(), raw)
	require.NoError(t, p.SegmentCustomers(ctx))

	rows, err := p.ProcessedData()
	require.NoError(t, err)

	want := []domain.AgeGroup{
		domain.AgeGroupUnder18,
		domain.AgeGroup18To25,
		domain.AgeGroup18To25,
		domain.AgeGroup26To35,
		domain.AgeGroup36To50,
		domain.AgeGroupOver50,
	}
	for i, tx := range rows {
		assert.Equal(t, want[i], tx.AgeGroup, "age %d", tx.CustomerAge)
	}
}

func TestProcessor_DeriveRevenue(t *testing.T) {
	ctx := context.Background()
	raw := []RawRecord{
		rawRecord("2024-03-01", "S001", "P100", "5", "10.00", "34"),
	}

	p := NewProcessor(nil, pipelineConfig(), raw)
	require.NoError(t, p.DeriveRevenue(ctx))

	rows, err := p.ProcessedData()
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.True(t, rows[0].Revenue.Equal(decimal.RequireFromString("50.00")),
		"got revenue %s", rows[0].Revenue)
}

func TestProcessor_ProcessedData_BeforeRun(t *testing.T) {
	p := NewProcessor(nil, pipelineConfig(), nil)

	_, err := p.ProcessedData()
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
}

func TestProcessor_Process_Idempotent(t *testing.T) {
	ctx := context.Background()
	raw := []RawRecord{
		rawRecord("2024-03-01", "S001", "P100", "5", "10.00", "34"),
	}

	p := NewProcessor(nil, pipelineConfig(), raw)

	first, err := p.Process(ctx)
	require.NoError(t, err)

	second, err := p.Process(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, second, 1)
}
