package engine

import (
	"time"

	"github.com/segyhp/auction-billing/internal/domain"
	"github.com/segyhp/auction-billing/pkg/utils"

	"github.com/shopspring/decimal"
)

// TotalOwedWithInterest computes principal plus accrued late interest using the default calculator
func TotalOwedWithInterest(o domain.Obligation, now time.Time) (decimal.Decimal, error) {
	return defaultCalculator.TotalOwedWithInterest(o, now)
}

// TotalOwedWithInterest computes principal plus accrued late interest over the whole plan.
//
// Interest is applied per installment from its own due date. For down-payment plans the
// installment schedule is built from the full total, and the down payment is added on top.
// The result is rounded to cents.
func (c *Calculator) TotalOwedWithInterest(o domain.Obligation, now time.Time) (decimal.Decimal, error) {
	if o.LateInterestPercent.IsZero() {
		total := o.TotalAmount
		if plan, ok := o.Plan.(domain.DownPaymentPlan); ok {
			total = total.Add(plan.Amount)
		}
		return utils.RoundCurrency(total), nil
	}

	total, err := c.owed(o, now, false)
	if err != nil {
		return decimal.Zero, err
	}
	return utils.RoundCurrency(total), nil
}

// RemainingWithInterest is TotalOwedWithInterest restricted to what is still unpaid
func (c *Calculator) RemainingWithInterest(o domain.Obligation, now time.Time) (decimal.Decimal, error) {
	if o.FullyPaid {
		return decimal.Zero, nil
	}
	remaining, err := c.owed(o, now, true)
	if err != nil {
		return decimal.Zero, err
	}
	return utils.RoundCurrency(remaining), nil
}

func (c *Calculator) owed(o domain.Obligation, now time.Time, unpaidOnly bool) (decimal.Decimal, error) {
	rate := o.LateInterestPercent

	switch plan := o.Plan.(type) {
	case domain.CashPlan:
		if plan.DueDate == nil {
			return o.TotalAmount, nil
		}
		return ApplyProgressiveInterest(o.TotalAmount, *plan.DueDate, rate, now), nil

	case domain.DownPaymentPlan:
		firstInstallment := 0
		down := plan.Amount
		if plan.DueDate != nil {
			down = ApplyProgressiveInterest(plan.Amount, *plan.DueDate, rate, now)
		}
		if unpaidOnly && plan.PaidCount >= 1 {
			down = decimal.Zero
			firstInstallment = plan.PaidCount - 1
		}
		installments, err := c.installmentsOwed(o.TotalAmount, plan.Schedule, rate, now, firstInstallment)
		if err != nil {
			return decimal.Zero, err
		}
		return down.Add(installments), nil

	case domain.InstallmentPlan:
		firstInstallment := 0
		if unpaidOnly {
			firstInstallment = plan.PaidCount
		}
		return c.installmentsOwed(o.TotalAmount, plan.Schedule, rate, now, firstInstallment)
	}

	return o.TotalAmount, nil
}

// installmentsOwed sums installments from firstInstallment on, each with interest from its own due date.
// Without a start month or due day no interest applies.
func (c *Calculator) installmentsOwed(total decimal.Decimal, schedule domain.Schedule, rate decimal.Decimal, now time.Time, firstInstallment int) (decimal.Decimal, error) {
	if firstInstallment < 0 {
		firstInstallment = 0
	}
	if err := validateTiers(schedule.Tiers); err != nil {
		return decimal.Zero, err
	}
	if schedule.Tiers.Units() == 0 {
		// nothing to split: the total stays owed until anything is paid
		if firstInstallment > 0 {
			return decimal.Zero, nil
		}
		return total, nil
	}

	installments, err := BuildInstallments(total, schedule.Tiers)
	if err != nil {
		return decimal.Zero, err
	}

	sum := decimal.Zero
	for i := firstInstallment; i < len(installments); i++ {
		due, ok, err := c.DueDate(schedule, i)
		if err != nil {
			return decimal.Zero, err
		}
		if !ok {
			sum = sum.Add(installments[i].BaseAmount)
			continue
		}
		sum = sum.Add(ApplyProgressiveInterest(installments[i].BaseAmount, due, rate, now))
	}
	return sum, nil
}
