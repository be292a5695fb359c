package utils

import (
	"time"

	"github.com/shopspring/decimal"
)

// CurrencyPlaces is the number of decimal places kept for BRL amounts
const CurrencyPlaces = 2

// Column shapes of the obligations table: amounts are NUMERIC(15,2), rates NUMERIC(7,4)
const (
	AmountPrecision = 15
	RatePrecision   = 7
	RatePlaces      = 4
)

var hundred = decimal.NewFromInt(100)

// Naive keeps the wall-clock fields of t and drops its location.
// Dates are compared as calendar values, so no timezone conversion happens here.
func Naive(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// StartOfDay returns midnight of the calendar day of t
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// EndOfDay returns 23:59:59.999 of the calendar day of t
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), time.UTC)
}

// IsPastDue reports whether now is later than the end of the due day
func IsPastDue(dueDate time.Time, now time.Time) bool {
	return Naive(now).After(EndOfDay(dueDate))
}

// DaysBetween counts whole calendar days from one date to another, ignoring time of day
func DaysBetween(from time.Time, to time.Time) int {
	duration := StartOfDay(to).Sub(StartOfDay(from))
	return int(duration.Hours() / 24)
}

// DaysInMonth returns the number of days of the given month
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// RoundCurrency rounds to 2 decimal places for currency
func RoundCurrency(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(CurrencyPlaces)
}

// FitsNumeric reports whether value is stored unchanged in a NUMERIC(precision, scale) column
func FitsNumeric(value decimal.Decimal, precision, scale int32) bool {
	if !value.Equal(value.Round(scale)) {
		return false
	}
	return value.Abs().LessThan(decimal.New(1, precision-scale))
}

// PercentFactor converts a percentage rate into a growth factor, e.g. 2 -> 1.02
func PercentFactor(ratePercent decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(1).Add(ratePercent.Div(hundred))
}

// ApplyPercent returns amount increased by ratePercent percent
func ApplyPercent(amount decimal.Decimal, ratePercent decimal.Decimal) decimal.Decimal {
	return amount.Mul(PercentFactor(ratePercent))
}

// DecimalFromString converts string to decimal.Decimal
func DecimalFromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}
