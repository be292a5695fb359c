package engine

import (
	"time"

	"github.com/segyhp/auction-billing/pkg/utils"

	"github.com/shopspring/decimal"
)

// DaysPerInterestPeriod is the fixed length of one late-interest period.
// Periods are counted in 30-day blocks from the due date, not in calendar months.
const DaysPerInterestPeriod = 30

// MonthsLate counts the full 30-day periods elapsed since the due date
func MonthsLate(dueDate time.Time, now time.Time) int {
	days := utils.DaysBetween(dueDate, utils.Naive(now))
	if days <= 0 {
		return 0
	}
	return days / DaysPerInterestPeriod
}

// ApplyProgressiveInterest compounds ratePercent once per full period late.
// Amounts not yet late are returned unchanged. The result is not rounded.
func ApplyProgressiveInterest(baseAmount decimal.Decimal, dueDate time.Time, ratePercent decimal.Decimal, now time.Time) decimal.Decimal {
	months := MonthsLate(dueDate, now)
	if months <= 0 {
		return baseAmount
	}

	factor := utils.PercentFactor(ratePercent)
	result := baseAmount
	for i := 0; i < months; i++ {
		result = result.Mul(factor)
	}
	return result
}
