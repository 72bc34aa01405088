package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"

	"salescli/internal/errors"
	"salescli/internal/exporter"
	"salescli/pkg/contracts/domain"
)

// ColumnStats holds descriptive statistics for one numeric column.
type ColumnStats struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// StoreRevenue is the mean per-transaction revenue for one store.
type StoreRevenue struct {
	StoreID    string          `json:"store_id"`
	AvgRevenue decimal.Decimal `json:"avg_revenue"`
}

// ProductFrequency is the purchase count for one product.
type ProductFrequency struct {
	ProductID string `json:"product_id"`
	Purchases int    `json:"purchases"`
}

// Analyzer computes descriptive statistics over the processed transaction
// table and writes the enriched dataset and summary statistics to disk.
type Analyzer struct {
	logger    *slog.Logger
	csvWriter *exporter.CSVWriter
}

// NewAnalyzer creates a new analyzer
func NewAnalyzer(logger *slog.Logger, csvWriter *exporter.CSVWriter) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{logger: logger, csvWriter: csvWriter}
}

// Describe computes count, mean, std, min and max for each numeric column
// (quantity, unit_price, customer_age, revenue).
func (a *Analyzer) Describe(rows []domain.Transaction) []ColumnStats {
	quantities := make([]float64, len(rows))
	prices := make([]float64, len(rows))
	ages := make([]float64, len(rows))
	revenues := make([]float64, len(rows))

	for i, tx := range rows {
		quantities[i] = float64(tx.Quantity)
		prices[i] = tx.UnitPrice.InexactFloat64()
		ages[i] = float64(tx.CustomerAge)
		revenues[i] = tx.Revenue.InexactFloat64()
	}

	return []ColumnStats{
		describeColumn("quantity", quantities),
		describeColumn("unit_price", prices),
		describeColumn("customer_age", ages),
		describeColumn("revenue", revenues),
	}
}

// describeColumn computes the statistics for one column
func describeColumn(name string, values []float64) ColumnStats {
	stats := ColumnStats{Column: name, Count: len(values)}
	if len(values) == 0 {
		return stats
	}

	stats.Mean, stats.Std = stat.MeanStdDev(values, nil)
	if len(values) == 1 {
		// Sample std is undefined for a single value
		stats.Std = 0
	}

	stats.Min, stats.Max = values[0], values[0]
	for _, v := range values[1:] {
		if v < stats.Min {
			stats.Min = v
		}
		if v > stats.Max {
			stats.Max = v
		}
	}

	return stats
}

// AverageRevenuePerStore computes the mean per-transaction revenue for each
// store, sorted by store ID.
func (a *Analyzer) AverageRevenuePerStore(rows []domain.Transaction) []StoreRevenue {
	sums := make(map[string]decimal.Decimal)
	counts := make(map[string]int64)
	for _, tx := range rows {
		sums[tx.StoreID] = sums[tx.StoreID].Add(tx.Revenue)
		counts[tx.StoreID]++
	}

	summary := make([]StoreRevenue, 0, len(sums))
	for store, sum := range sums {
		summary = append(summary, StoreRevenue{
			StoreID:    store,
			AvgRevenue: sum.DivRound(decimal.NewFromInt(counts[store]), 4),
		})
	}
	sort.Slice(summary, func(i, j int) bool {
		return summary[i].StoreID < summary[j].StoreID
	})

	return summary
}

// TopProduct returns the most frequently purchased product by transaction
// count. Ties break on the lexically smaller product ID for deterministic
// output.
func (a *Analyzer) TopProduct(rows []domain.Transaction) (ProductFrequency, error) {
	if len(rows) == 0 {
		return ProductFrequency{}, errors.NewValidationError("no transactions to rank products from")
	}

	counts := make(map[string]int)
	for _, tx := range rows {
		counts[tx.ProductID]++
	}

	var top ProductFrequency
	for product, count := range counts {
		if count > top.Purchases || (count == top.Purchases && product < top.ProductID) {
			top = ProductFrequency{ProductID: product, Purchases: count}
		}
	}

	return top, nil
}

// QuantityAgeCorrelation computes the Pearson correlation between quantity
// purchased and customer age.
func (a *Analyzer) QuantityAgeCorrelation(rows []domain.Transaction) float64 {
	if len(rows) < 2 {
		return 0
	}

	quantities := make([]float64, len(rows))
	ages := make([]float64, len(rows))
	for i, tx := range rows {
		quantities[i] = float64(tx.Quantity)
		ages[i] = float64(tx.CustomerAge)
	}

	return stat.Correlation(quantities, ages, nil)
}

// WriteEnriched writes the full processed table, including all derived
// columns, to path. Rows are streamed one at a time so the output never
// needs a second in-memory copy of the table.
func (a *Analyzer) WriteEnriched(ctx context.Context, path string, rows []domain.Transaction) error {
	header := []string{
		"date", "store_id", "product_id", "quantity", "unit_price", "customer_age",
		"revenue", "day_of_week", "month", "quarter", "is_weekend", "age_group",
	}

	stream, err := a.csvWriter.CreateStreamWriter(path, header)
	if err != nil {
		return err
	}

	for _, tx := range rows {
		record := []string{
			tx.Date.Format("2006-01-02"),
			tx.StoreID,
			tx.ProductID,
			fmt.Sprintf("%d", tx.Quantity),
			tx.UnitPrice.String(),
			fmt.Sprintf("%d", tx.CustomerAge),
			tx.Revenue.StringFixed(2),
			fmt.Sprintf("%d", tx.DayOfWeek),
			fmt.Sprintf("%d", tx.Month),
			fmt.Sprintf("%d", tx.Quarter),
			fmt.Sprintf("%t", tx.IsWeekend),
			string(tx.AgeGroup),
		}
		if err := stream.WriteRecord(record); err != nil {
			stream.Close()
			return err
		}
	}

	if err := stream.Close(); err != nil {
		return err
	}

	a.logger.InfoContext(ctx, "wrote enriched dataset",
		slog.String("path", path),
		slog.Int("row_count", len(rows)))

	return nil
}

// WriteSummaryStats writes the per-column descriptive statistics to path.
func (a *Analyzer) WriteSummaryStats(ctx context.Context, path string, stats []ColumnStats) error {
	records := make([][]string, 0, len(stats))
	for _, s := range stats {
		records = append(records, []string{
			s.Column,
			fmt.Sprintf("%d", s.Count),
			fmt.Sprintf("%.4f", s.Mean),
			fmt.Sprintf("%.4f", s.Std),
			fmt.Sprintf("%.4f", s.Min),
			fmt.Sprintf("%.4f", s.Max),
		})
	}

	if err := a.csvWriter.WriteSimpleCSV(path, []string{"column", "count", "mean", "std", "min", "max"}, records); err != nil {
		return err
	}

	a.logger.InfoContext(ctx, "wrote summary statistics", slog.String("path", path))
	return nil
}
