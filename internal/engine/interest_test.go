package engine

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMonthsLate(t *testing.T) {
	due := date(2024, 1, 1)

	tests := []struct {
		name     string
		now      time.Time
		expected int
	}{
		{"before due date", date(2023, 12, 20), 0},
		{"on due date", time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC), 0},
		{"29 days late", date(2024, 1, 30), 0},
		{"30 days late", date(2024, 1, 31), 1},
		{"59 days late", date(2024, 2, 29), 1},
		{"60 days late", date(2024, 3, 1), 2},
		{"91 days late", date(2024, 4, 1), 3},
		{"a year late", date(2025, 1, 1), 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MonthsLate(due, tt.now))
		})
	}
}

func TestApplyProgressiveInterest(t *testing.T) {
	base := decimal.NewFromInt(1000)
	due := date(2024, 1, 1)

	tests := []struct {
		name     string
		rate     string
		now      time.Time
		expected string
	}{
		{"three periods at 2%", "2", date(2024, 4, 1), "1061.208"},
		{"one period at 2%", "2", date(2024, 2, 5), "1020"},
		{"not yet due", "2", date(2023, 12, 1), "1000"},
		{"late but under one period", "2", date(2024, 1, 20), "1000"},
		{"zero rate", "0", date(2025, 1, 1), "1000"},
		{"fractional rate", "0.5", date(2024, 3, 1), "1010.025"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ApplyProgressiveInterest(base, due, decimal.RequireFromString(tt.rate), tt.now)
			assert.True(t, result.Equal(decimal.RequireFromString(tt.expected)), "got %s want %s", result, tt.expected)
		})
	}
}

func TestApplyProgressiveInterest_Monotonic(t *testing.T) {
	base := decimal.RequireFromString("1333.33")
	due := date(2024, 1, 10)
	rate := decimal.RequireFromString("1.5")

	previous := ApplyProgressiveInterest(base, due, rate, due)
	for days := 1; days <= 400; days++ {
		current := ApplyProgressiveInterest(base, due, rate, due.AddDate(0, 0, days))
		assert.True(t, current.GreaterThanOrEqual(previous), "day %d: %s < %s", days, current, previous)
		assert.True(t, current.GreaterThanOrEqual(base))
		previous = current
	}
}
