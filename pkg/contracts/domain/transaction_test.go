package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestComputeRevenue(t *testing.T) {
	tx := Transaction{
		Quantity:  3,
		UnitPrice: decimal.RequireFromString("19.99"),
	}
	assert.True(t, tx.ComputeRevenue().Equal(decimal.RequireFromString("59.97")))
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		name string
		date string
		want string
	}{
		{name: "monday maps to itself", date: "2024-03-04", want: "2024-03-04"},
		{name: "wednesday maps back to monday", date: "2024-03-06", want: "2024-03-04"},
		{name: "sunday maps back six days", date: "2024-03-10", want: "2024-03-04"},
		{name: "across month boundary", date: "2024-04-02", want: "2024-04-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			date, err := time.Parse("2006-01-02", tt.date)
			assert.NoError(t, err)

			tx := Transaction{Date: date}
			assert.Equal(t, tt.want, tx.WeekStart().Format("2006-01-02"))
		})
	}
}

func TestAgeGroupFor(t *testing.T) {
	tests := []struct {
		age  int
		want AgeGroup
	}{
		{17, AgeGroupUnder18},
		{18, AgeGroup18To25},
		{25, AgeGroup18To25},
		{26, AgeGroup26To35},
		{35, AgeGroup26To35},
		{36, AgeGroup36To50},
		{50, AgeGroup36To50},
		{51, AgeGroupOver50},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, AgeGroupFor(tt.age), "age %d", tt.age)
	}
}
