package engine

import (
	"time"

	"github.com/segyhp/auction-billing/internal/domain"
	"github.com/segyhp/auction-billing/pkg/utils"

	"go.uber.org/zap"
)

// IsOverdue reports whether the obligation has a payment past due as of now, using the default calculator
func IsOverdue(o domain.Obligation, now time.Time) bool {
	return defaultCalculator.IsOverdue(o, now)
}

// IsOverdue reports whether the obligation has a payment past due as of now.
//
// A due date passes at the end of its day. Missing or invalid schedule data means the
// status cannot be determined and the obligation is reported as not overdue.
func (c *Calculator) IsOverdue(o domain.Obligation, now time.Time) bool {
	if o.FullyPaid {
		return false
	}

	switch plan := o.Plan.(type) {
	case domain.CashPlan:
		if plan.DueDate == nil {
			return false
		}
		return utils.IsPastDue(*plan.DueDate, now)

	case domain.DownPaymentPlan:
		total := plan.Tiers.Total()
		if plan.PaidCount >= 1+total {
			return false
		}
		if plan.PaidCount == 0 {
			if plan.DueDate == nil {
				return false
			}
			return utils.IsPastDue(*plan.DueDate, now)
		}
		// the down payment is settled; the rest of the paid count covers installments
		return c.anyPastDue(o.Reference, plan.Schedule, plan.PaidCount-1, now)

	case domain.InstallmentPlan:
		if plan.PaidCount >= plan.Tiers.Total() {
			return false
		}
		due, ok := c.dueDateOrLog(o.Reference, plan.Schedule, plan.PaidCount)
		if !ok {
			return false
		}
		return utils.IsPastDue(due, now)
	}

	return false
}

// anyPastDue scans every unpaid installment from firstUnpaid on
func (c *Calculator) anyPastDue(reference string, schedule domain.Schedule, firstUnpaid int, now time.Time) bool {
	total := schedule.Tiers.Total()
	for i := firstUnpaid; i < total; i++ {
		due, ok := c.dueDateOrLog(reference, schedule, i)
		if !ok {
			return false
		}
		if utils.IsPastDue(due, now) {
			return true
		}
	}
	return false
}

func (c *Calculator) dueDateOrLog(reference string, schedule domain.Schedule, index int) (time.Time, bool) {
	due, ok, err := c.DueDate(schedule, index)
	if err != nil {
		c.logger.Warn("invalid schedule, treating obligation as not overdue",
			zap.String("op", "engine.IsOverdue"),
			zap.String("reference", reference),
			zap.Error(err),
		)
		return time.Time{}, false
	}
	if !ok {
		c.logger.Debug("insufficient schedule data",
			zap.String("op", "engine.IsOverdue"),
			zap.String("reference", reference),
		)
	}
	return due, ok
}
