package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"salescli/internal/config"
	"salescli/internal/errors"
	"salescli/pkg/contracts/domain"
)

// dateLayouts are the accepted input date formats, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	time.RFC3339,
}

// Processor owns the in-memory transaction table and applies the cleaning and
// feature derivation stages. The table is mutated in place through each stage;
// no row is created or destroyed outside whole-table filtering.
type Processor struct {
	logger *slog.Logger
	cfg    config.PipelineConfig

	raw       []RawRecord
	processed []domain.Transaction

	timeFeatures bool
	ageGroups    bool
	revenue      bool
}

// NewProcessor creates a processor over the given raw records.
func NewProcessor(logger *slog.Logger, cfg config.PipelineConfig, raw []RawRecord) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		logger: logger,
		cfg:    cfg,
		raw:    raw,
	}
}

// Clean parses the date column, fills missing values per the column-aware
// fill policy, and drops rows exceeding the quantity or unit price bounds.
// After Clean, every row has a valid date, quantity in [0, MaxQuantity] and
// unit price <= MaxUnitPrice. Calling Clean again is a no-op.
func (p *Processor) Clean(ctx context.Context) error {
	if p.processed != nil {
		return nil
	}

	maxPrice := decimal.NewFromFloat(p.cfg.MaxUnitPrice)
	cleaned := make([]domain.Transaction, 0, len(p.raw))
	dropped := 0

	for i, raw := range p.raw {
		tx, err := p.parseRecord(raw)
		if err != nil {
			if appErr, ok := err.(*errors.AppError); ok {
				appErr.WithContext("row", i+1)
			}
			return err
		}

		// Outlier filter
		if tx.Quantity < 0 || tx.Quantity > p.cfg.MaxQuantity || tx.UnitPrice.GreaterThan(maxPrice) {
			dropped++
			continue
		}

		cleaned = append(cleaned, tx)
	}

	p.processed = cleaned

	p.logger.InfoContext(ctx, "cleaned sales transactions",
		slog.Int("input_rows", len(p.raw)),
		slog.Int("output_rows", len(cleaned)),
		slog.Int("outliers_dropped", dropped))

	return nil
}

// parseRecord converts one raw row to a Transaction, applying the fill policy
// to missing cells. An unparseable date or number is a parsing error.
func (p *Processor) parseRecord(raw RawRecord) (domain.Transaction, error) {
	var tx domain.Transaction

	date, err := parseDate(raw.Date)
	if err != nil {
		return tx, err
	}
	tx.Date = date

	tx.StoreID = raw.StoreID
	tx.ProductID = raw.ProductID

	if raw.Quantity == "" {
		tx.Quantity = p.cfg.FillQuantity
	} else {
		qty, err := strconv.Atoi(raw.Quantity)
		if err != nil {
			return tx, errors.NewParsingError(
				fmt.Sprintf("invalid quantity %q", raw.Quantity), err)
		}
		tx.Quantity = qty
	}

	if raw.UnitPrice == "" {
		tx.UnitPrice = decimal.NewFromFloat(p.cfg.FillUnitPrice)
	} else {
		price, err := decimal.NewFromString(raw.UnitPrice)
		if err != nil {
			return tx, errors.NewParsingError(
				fmt.Sprintf("invalid unit price %q", raw.UnitPrice), err)
		}
		tx.UnitPrice = price
	}

	if raw.CustomerAge == "" {
		tx.CustomerAge = p.cfg.FillCustomerAge
	} else {
		age, err := strconv.Atoi(raw.CustomerAge)
		if err != nil {
			return tx, errors.NewParsingError(
				fmt.Sprintf("invalid customer age %q", raw.CustomerAge), err)
		}
		tx.CustomerAge = age
	}

	return tx, nil
}

// parseDate parses a date cell against the accepted layouts
func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.NewParsingError("missing date", nil)
	}

	for _, layout := range dateLayouts {
		if date, err := time.Parse(layout, value); err == nil {
			return date, nil
		}
	}

	return time.Time{}, errors.NewParsingError(fmt.Sprintf("unparseable date %q", value), nil)
}

// CreateTimeFeatures derives day-of-week (Monday=0), month, quarter and the
// weekend flag from the transaction date. Runs Clean first if it has not run.
func (p *Processor) CreateTimeFeatures(ctx context.Context) error {
	if err := p.Clean(ctx); err != nil {
		return err
	}
	if p.timeFeatures {
		return nil
	}

	for i := range p.processed {
		tx := &p.processed[i]
		tx.DayOfWeek = (int(tx.Date.Weekday()) + 6) % 7
		tx.Month = int(tx.Date.Month())
		tx.Quarter = (int(tx.Date.Month())-1)/3 + 1
		tx.IsWeekend = tx.DayOfWeek == 5 || tx.DayOfWeek == 6
	}
	p.timeFeatures = true

	p.logger.DebugContext(ctx, "derived time features", slog.Int("row_count", len(p.processed)))
	return nil
}

// SegmentCustomers assigns each row to its age group. Runs Clean first if it
// has not run.
func (p *Processor) SegmentCustomers(ctx context.Context) error {
	if err := p.Clean(ctx); err != nil {
		return err
	}
	if p.ageGroups {
		return nil
	}

	for i := range p.processed {
		p.processed[i].AgeGroup = domain.AgeGroupFor(p.processed[i].CustomerAge)
	}
	p.ageGroups = true

	p.logger.DebugContext(ctx, "segmented customers", slog.Int("row_count", len(p.processed)))
	return nil
}

// DeriveRevenue computes revenue = quantity x unit price for every row with
// exact decimal arithmetic. Runs Clean first if it has not run.
func (p *Processor) DeriveRevenue(ctx context.Context) error {
	if err := p.Clean(ctx); err != nil {
		return err
	}
	if p.revenue {
		return nil
	}

	for i := range p.processed {
		p.processed[i].Revenue = p.processed[i].ComputeRevenue()
	}
	p.revenue = true

	p.logger.DebugContext(ctx, "derived revenue", slog.Int("row_count", len(p.processed)))
	return nil
}

// Process runs the full derivation chain and returns the processed table.
func (p *Processor) Process(ctx context.Context) ([]domain.Transaction, error) {
	if err := p.CreateTimeFeatures(ctx); err != nil {
		return nil, err
	}
	if err := p.SegmentCustomers(ctx); err != nil {
		return nil, err
	}
	if err := p.DeriveRevenue(ctx); err != nil {
		return nil, err
	}
	return p.processed, nil
}

// ProcessedData returns the processed table, or a validation error if the
// pipeline has not run yet.
func (p *Processor) ProcessedData() ([]domain.Transaction, error) {
	if p.processed == nil {
		return nil, errors.NewValidationError("data has not been processed yet; run the pipeline first")
	}
	return p.processed, nil
}
