package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"salescli/internal/exporter"
	"salescli/pkg/contracts/domain"
)

// DailySales is total revenue for one calendar day.
type DailySales struct {
	Date    time.Time       `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
}

// StoreWeekRevenue is total revenue for one store in one week-starting-Monday
// bucket.
type StoreWeekRevenue struct {
	StoreID   string          `json:"store_id"`
	WeekStart time.Time       `json:"week_start"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// ProductAgeQuantity is the mean quantity purchased for one product by one
// customer age group.
type ProductAgeQuantity struct {
	ProductID   string          `json:"product_id"`
	AgeGroup    domain.AgeGroup `json:"age_group"`
	AvgQuantity float64         `json:"avg_quantity"`
}

// MonthRevenue is total revenue for one calendar month.
type MonthRevenue struct {
	Year    int             `json:"year"`
	Month   time.Month      `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
}

// QuarterRevenue is total revenue for one calendar quarter.
type QuarterRevenue struct {
	Year    int             `json:"year"`
	Quarter int             `json:"quarter"`
	Revenue decimal.Decimal `json:"revenue"`
}

// Aggregator produces the grouped summary tables from the processed
// transaction table and writes them to the reports directory. Any summary
// method invoked before the pipeline has run triggers the lazy clean and
// feature derivation rather than failing.
type Aggregator struct {
	logger    *slog.Logger
	processor *Processor
	csvWriter *exporter.CSVWriter
}

// NewAggregator creates an aggregator over the given processor.
func NewAggregator(logger *slog.Logger, processor *Processor, csvWriter *exporter.CSVWriter) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		logger:    logger,
		processor: processor,
		csvWriter: csvWriter,
	}
}

// table returns the fully processed transaction table, running the pipeline
// stages that have not run yet.
func (a *Aggregator) table(ctx context.Context) ([]domain.Transaction, error) {
	return a.processor.Process(ctx)
}

// Rows exposes the fully processed transaction table, running the pipeline
// stages that have not run yet.
func (a *Aggregator) Rows(ctx context.Context) ([]domain.Transaction, error) {
	return a.table(ctx)
}

// DailySales computes total revenue per day, sorted by date.
func (a *Aggregator) DailySales(ctx context.Context) ([]DailySales, error) {
	rows, err := a.table(ctx)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]decimal.Decimal)
	dates := make(map[string]time.Time)
	for _, tx := range rows {
		key := tx.Date.Format("2006-01-02")
		totals[key] = totals[key].Add(tx.Revenue)
		dates[key] = tx.Date
	}

	summary := make([]DailySales, 0, len(totals))
	for key, revenue := range totals {
		summary = append(summary, DailySales{Date: dates[key], Revenue: revenue})
	}
	sort.Slice(summary, func(i, j int) bool {
		return summary[i].Date.Before(summary[j].Date)
	})

	return summary, nil
}

// WeeklyRevenueByStore computes total revenue per store per
// week-starting-Monday bucket, sorted by store then week.
func (a *Aggregator) WeeklyRevenueByStore(ctx context.Context) ([]StoreWeekRevenue, error) {
	rows, err := a.table(ctx)
	if err != nil {
		return nil, err
	}

	type storeWeek struct {
		store string
		week  string
	}
	totals := make(map[storeWeek]decimal.Decimal)
	weeks := make(map[storeWeek]time.Time)
	for _, tx := range rows {
		weekStart := tx.WeekStart()
		key := storeWeek{store: tx.StoreID, week: weekStart.Format("2006-01-02")}
		totals[key] = totals[key].Add(tx.Revenue)
		weeks[key] = weekStart
	}

	summary := make([]StoreWeekRevenue, 0, len(totals))
	for key, revenue := range totals {
		summary = append(summary, StoreWeekRevenue{
			StoreID:   key.store,
			WeekStart: weeks[key],
			Revenue:   revenue,
		})
	}
	sort.Slice(summary, func(i, j int) bool {
		if summary[i].StoreID != summary[j].StoreID {
			return summary[i].StoreID < summary[j].StoreID
		}
		return summary[i].WeekStart.Before(summary[j].WeekStart)
	})

	return summary, nil
}

// AvgQuantityByProductAndAgeGroup computes the mean quantity per
// (product, age group) pair, sorted by product then age group order.
func (a *Aggregator) AvgQuantityByProductAndAgeGroup(ctx context.Context) ([]ProductAgeQuantity, error) {
	rows, err := a.table(ctx)
	if err != nil {
		return nil, err
	}

	type productAge struct {
		product string
		group   domain.AgeGroup
	}
	sums := make(map[productAge]int)
	counts := make(map[productAge]int)
	for _, tx := range rows {
		key := productAge{product: tx.ProductID, group: tx.AgeGroup}
		sums[key] += tx.Quantity
		counts[key]++
	}

	groupOrder := make(map[domain.AgeGroup]int, len(domain.AgeGroups))
	for i, g := range domain.AgeGroups {
		groupOrder[g] = i
	}

	summary := make([]ProductAgeQuantity, 0, len(sums))
	for key, sum := range sums {
		summary = append(summary, ProductAgeQuantity{
			ProductID:   key.product,
			AgeGroup:    key.group,
			AvgQuantity: float64(sum) / float64(counts[key]),
		})
	}
	sort.Slice(summary, func(i, j int) bool {
		if summary[i].ProductID != summary[j].ProductID {
			return summary[i].ProductID < summary[j].ProductID
		}
		return groupOrder[summary[i].AgeGroup] < groupOrder[summary[j].AgeGroup]
	})

	return summary, nil
}

// MonthlyRevenue computes total revenue per calendar month, sorted
// chronologically.
func (a *Aggregator) MonthlyRevenue(ctx context.Context) ([]MonthRevenue, error) {
	rows, err := a.table(ctx)
	if err != nil {
		return nil, err
	}

	type yearMonth struct {
		year  int
		month time.Month
	}
	totals := make(map[yearMonth]decimal.Decimal)
	for _, tx := range rows {
		key := yearMonth{year: tx.Date.Year(), month: tx.Date.Month()}
		totals[key] = totals[key].Add(tx.Revenue)
	}

	summary := make([]MonthRevenue, 0, len(totals))
	for key, revenue := range totals {
		summary = append(summary, MonthRevenue{Year: key.year, Month: key.month, Revenue: revenue})
	}
	sort.Slice(summary, func(i, j int) bool {
		if summary[i].Year != summary[j].Year {
			return summary[i].Year < summary[j].Year
		}
		return summary[i].Month < summary[j].Month
	})

	return summary, nil
}

// QuarterlyRevenue computes total revenue per calendar quarter, sorted
// chronologically.
func (a *Aggregator) QuarterlyRevenue(ctx context.Context) ([]QuarterRevenue, error) {
	rows, err := a.table(ctx)
	if err != nil {
		return nil, err
	}

	type yearQuarter struct {
		year    int
		quarter int
	}
	totals := make(map[yearQuarter]decimal.Decimal)
	for _, tx := range rows {
		key := yearQuarter{year: tx.Date.Year(), quarter: tx.Quarter}
		totals[key] = totals[key].Add(tx.Revenue)
	}

	summary := make([]QuarterRevenue, 0, len(totals))
	for key, revenue := range totals {
		summary = append(summary, QuarterRevenue{Year: key.year, Quarter: key.quarter, Revenue: revenue})
	}
	sort.Slice(summary, func(i, j int) bool {
		if summary[i].Year != summary[j].Year {
			return summary[i].Year < summary[j].Year
		}
		return summary[i].Quarter < summary[j].Quarter
	})

	return summary, nil
}

// WriteDailySales writes the per-day revenue table to path.
func (a *Aggregator) WriteDailySales(ctx context.Context, path string) error {
	summary, err := a.DailySales(ctx)
	if err != nil {
		return err
	}

	records := make([][]string, 0, len(summary))
	for _, row := range summary {
		records = append(records, []string{
			row.Date.Format("2006-01-02"),
			row.Revenue.StringFixed(2),
		})
	}

	return a.csvWriter.WriteSimpleCSV(path, []string{"date", "revenue"}, records)
}

// WriteWeeklyRevenueByStore writes the per-store weekly revenue table to path.
func (a *Aggregator) WriteWeeklyRevenueByStore(ctx context.Context, path string) error {
	summary, err := a.WeeklyRevenueByStore(ctx)
	if err != nil {
		return err
	}

	records := make([][]string, 0, len(summary))
	for _, row := range summary {
		records = append(records, []string{
			row.StoreID,
			row.WeekStart.Format("2006-01-02"),
			row.Revenue.StringFixed(2),
		})
	}

	return a.csvWriter.WriteSimpleCSV(path, []string{"store_id", "week_start", "revenue"}, records)
}

// WriteAvgQuantityByProductAndAgeGroup writes the product/age-group quantity
// table to path.
func (a *Aggregator) WriteAvgQuantityByProductAndAgeGroup(ctx context.Context, path string) error {
	summary, err := a.AvgQuantityByProductAndAgeGroup(ctx)
	if err != nil {
		return err
	}

	records := make([][]string, 0, len(summary))
	for _, row := range summary {
		records = append(records, []string{
			row.ProductID,
			string(row.AgeGroup),
			fmt.Sprintf("%.2f", row.AvgQuantity),
		})
	}

	return a.csvWriter.WriteSimpleCSV(path, []string{"product_id", "age_group", "avg_quantity"}, records)
}

// WriteMonthlyRevenue writes the monthly revenue trends table to path.
func (a *Aggregator) WriteMonthlyRevenue(ctx context.Context, path string) error {
	summary, err := a.MonthlyRevenue(ctx)
	if err != nil {
		return err
	}

	records := make([][]string, 0, len(summary))
	for _, row := range summary {
		records = append(records, []string{
			fmt.Sprintf("%04d-%02d", row.Year, int(row.Month)),
			row.Revenue.StringFixed(2),
		})
	}

	return a.csvWriter.WriteSimpleCSV(path, []string{"month", "revenue"}, records)
}

// WriteQuarterlyRevenue writes the quarterly revenue trends table to path.
func (a *Aggregator) WriteQuarterlyRevenue(ctx context.Context, path string) error {
	summary, err := a.QuarterlyRevenue(ctx)
	if err != nil {
		return err
	}

	records := make([][]string, 0, len(summary))
	for _, row := range summary {
		records = append(records, []string{
			fmt.Sprintf("%04d-Q%d", row.Year, row.Quarter),
			row.Revenue.StringFixed(2),
		})
	}

	return a.csvWriter.WriteSimpleCSV(path, []string{"quarter", "revenue"}, records)
}

// WriteSummaryWorkbook writes all five summary tables to a single Excel
// workbook, one sheet per table.
func (a *Aggregator) WriteSummaryWorkbook(ctx context.Context, path string) error {
	daily, err := a.DailySales(ctx)
	if err != nil {
		return err
	}
	weekly, err := a.WeeklyRevenueByStore(ctx)
	if err != nil {
		return err
	}
	products, err := a.AvgQuantityByProductAndAgeGroup(ctx)
	if err != nil {
		return err
	}
	monthly, err := a.MonthlyRevenue(ctx)
	if err != nil {
		return err
	}
	quarterly, err := a.QuarterlyRevenue(ctx)
	if err != nil {
		return err
	}

	sheets := []exporter.Sheet{
		{Name: "Daily Sales", Header: []string{"date", "revenue"}},
		{Name: "Weekly by Store", Header: []string{"store_id", "week_start", "revenue"}},
		{Name: "Product Age Groups", Header: []string{"product_id", "age_group", "avg_quantity"}},
		{Name: "Monthly Trends", Header: []string{"month", "revenue"}},
		{Name: "Quarterly Trends", Header: []string{"quarter", "revenue"}},
	}
	for _, row := range daily {
		sheets[0].Rows = append(sheets[0].Rows, []string{row.Date.Format("2006-01-02"), row.Revenue.StringFixed(2)})
	}
	for _, row := range weekly {
		sheets[1].Rows = append(sheets[1].Rows, []string{row.StoreID, row.WeekStart.Format("2006-01-02"), row.Revenue.StringFixed(2)})
	}
	for _, row := range products {
		sheets[2].Rows = append(sheets[2].Rows, []string{row.ProductID, string(row.AgeGroup), fmt.Sprintf("%.2f", row.AvgQuantity)})
	}
	for _, row := range monthly {
		sheets[3].Rows = append(sheets[3].Rows, []string{fmt.Sprintf("%04d-%02d", row.Year, int(row.Month)), row.Revenue.StringFixed(2)})
	}
	for _, row := range quarterly {
		sheets[4].Rows = append(sheets[4].Rows, []string{fmt.Sprintf("%04d-Q%d", row.Year, row.Quarter), row.Revenue.StringFixed(2)})
	}

	if err := exporter.WriteWorkbook(path, sheets); err != nil {
		return err
	}

	a.logger.InfoContext(ctx, "wrote summary workbook", slog.String("path", path))
	return nil
}

// WriteAll writes all five summary tables to their well-known paths.
func (a *Aggregator) WriteAll(ctx context.Context, daily, weekly, products, monthly, quarterly string) error {
	if err := a.WriteDailySales(ctx, daily); err != nil {
		return err
	}
	if err := a.WriteWeeklyRevenueByStore(ctx, weekly); err != nil {
		return err
	}
	if err := a.WriteAvgQuantityByProductAndAgeGroup(ctx, products); err != nil {
		return err
	}
	if err := a.WriteMonthlyRevenue(ctx, monthly); err != nil {
		return err
	}
	if err := a.WriteQuarterlyRevenue(ctx, quarterly); err != nil {
		return err
	}

	a.logger.InfoContext(ctx, "wrote aggregate summary tables")
	return nil
}
