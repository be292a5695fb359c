package engine

import (
	"time"

	"github.com/segyhp/auction-billing/internal/domain"
	"github.com/segyhp/auction-billing/pkg/utils"
)

// RequiredPayments is the number of payments that settle the plan
func RequiredPayments(o domain.Obligation) int {
	switch plan := o.Plan.(type) {
	case domain.CashPlan:
		return 1
	case domain.DownPaymentPlan:
		return 1 + plan.Tiers.Total()
	case domain.InstallmentPlan:
		return plan.Tiers.Total()
	}
	return 0
}

// PaidCount returns the recorded number of payments; cash plans only track FullyPaid
func PaidCount(o domain.Obligation) int {
	if schedule, ok := scheduleOf(o); ok {
		return schedule.PaidCount
	}
	return 0
}

// Status returns the badge for an obligation: paid, overdue or pending
func (c *Calculator) Status(o domain.Obligation, now time.Time) domain.ObligationStatus {
	if o.FullyPaid {
		return domain.ObligationStatusPaid
	}
	if required := RequiredPayments(o); required > 0 && PaidCount(o) >= required {
		if _, cash := o.Plan.(domain.CashPlan); !cash {
			return domain.ObligationStatusPaid
		}
	}
	if c.IsOverdue(o, now) {
		return domain.ObligationStatusOverdue
	}
	return domain.ObligationStatusPending
}

// ScheduleRows lists every payment of the plan in payment order with its status and
// amount with interest as of now. Paid rows keep their base amount.
func (c *Calculator) ScheduleRows(o domain.Obligation, now time.Time) ([]domain.ScheduledInstallment, error) {
	rows := make([]domain.ScheduledInstallment, 0)
	paid := PaidCount(o)

	addRow := func(row domain.ScheduledInstallment) {
		row.AmountWithInterest = row.BaseAmount
		switch {
		case o.FullyPaid || (row.Kind != domain.ScheduleKindCash && row.Sequence <= paid):
			row.Status = domain.ObligationStatusPaid
		case row.DueDate != nil && utils.IsPastDue(*row.DueDate, now):
			row.Status = domain.ObligationStatusOverdue
		default:
			row.Status = domain.ObligationStatusPending
		}
		if row.Status != domain.ObligationStatusPaid && row.DueDate != nil {
			row.MonthsLate = MonthsLate(*row.DueDate, now)
			row.AmountWithInterest = utils.RoundCurrency(
				ApplyProgressiveInterest(row.BaseAmount, *row.DueDate, o.LateInterestPercent, now))
		}
		rows = append(rows, row)
	}

	switch plan := o.Plan.(type) {
	case domain.CashPlan:
		addRow(domain.ScheduledInstallment{
			Sequence:   1,
			Kind:       domain.ScheduleKindCash,
			BaseAmount: o.TotalAmount,
			DueDate:    plan.DueDate,
		})
		return rows, nil
	case domain.DownPaymentPlan:
		addRow(domain.ScheduledInstallment{
			Sequence:   1,
			Kind:       domain.ScheduleKindDownPayment,
			BaseAmount: plan.Amount,
			DueDate:    plan.DueDate,
		})
	}

	installments, err := c.Schedule(o)
	if err != nil {
		return nil, err
	}
	offset := len(rows) + 1
	for _, installment := range installments {
		row := domain.ScheduledInstallment{
			Sequence:   installment.Index + offset,
			Kind:       domain.ScheduleKindInstallment,
			Index:      installment.Index,
			Weight:     installment.Weight,
			BaseAmount: installment.BaseAmount,
		}
		if installment.HasDueDate() {
			due := *installment.DueDate
			row.DueDate = &due
		}
		addRow(row)
	}

	return rows, nil
}

// NextPayable returns the first row that is not yet paid, if any
func (c *Calculator) NextPayable(o domain.Obligation, now time.Time) (domain.ScheduledInstallment, bool, error) {
	rows, err := c.ScheduleRows(o, now)
	if err != nil {
		return domain.ScheduledInstallment{}, false, err
	}
	for _, row := range rows {
		if row.Status != domain.ObligationStatusPaid {
			return row, true, nil
		}
	}
	return domain.ScheduledInstallment{}, false, nil
}
