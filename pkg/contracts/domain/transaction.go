package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents a single sales transaction row.
type Transaction struct {
	Date        time.Time       `json:"date" csv:"date"`
	StoreID     string          `json:"store_id" csv:"store_id" validate:"required"`
	ProductID   string          `json:"product_id" csv:"product_id" validate:"required"`
	Quantity    int             `json:"quantity" csv:"quantity" validate:"min=0"`
	UnitPrice   decimal.Decimal `json:"unit_price" csv:"unit_price"`
	CustomerAge int             `json:"customer_age" csv:"customer_age" validate:"min=0"`

	// Derived fields populated by the processing pipeline.
	Revenue   decimal.Decimal `json:"revenue,omitempty" csv:"revenue"`
	DayOfWeek int             `json:"day_of_week,omitempty" csv:"day_of_week"`
	Month     int             `json:"month,omitempty" csv:"month"`
	Quarter   int             `json:"quarter,omitempty" csv:"quarter"`
	IsWeekend bool            `json:"is_weekend,omitempty" csv:"is_weekend"`
	AgeGroup  AgeGroup        `json:"age_group,omitempty" csv:"age_group"`
}

// ComputeRevenue returns quantity x unit price with exact decimal arithmetic.
func (t Transaction) ComputeRevenue() decimal.Decimal {
	return t.UnitPrice.Mul(decimal.NewFromInt(int64(t.Quantity)))
}

// WeekStart returns the Monday on or before the transaction date, truncated
// to midnight in the date's location. It is the bucket key for weekly
// aggregation.
func (t Transaction) WeekStart() time.Time {
	d := t.Date
	offset := (int(d.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	d = d.AddDate(0, 0, -offset)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
}
