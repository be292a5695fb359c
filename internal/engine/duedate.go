package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/segyhp/auction-billing/internal/domain"
	customError "github.com/segyhp/auction-billing/pkg/errors"
	"github.com/segyhp/auction-billing/pkg/utils"
)

// DueDayPolicy decides what happens when the due day does not exist in a month
type DueDayPolicy int

const (
	// DueDayOverflow rolls the extra days into the following month (31 Feb -> 2 or 3 Mar)
	DueDayOverflow DueDayPolicy = iota
	// DueDayClamp moves the due date to the last day of the month
	DueDayClamp
)

func (p DueDayPolicy) String() string {
	if p == DueDayClamp {
		return "clamp"
	}
	return "overflow"
}

// ParseDueDayPolicy accepts "overflow" or "clamp"; empty means overflow
func ParseDueDayPolicy(value string) (DueDayPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "overflow":
		return DueDayOverflow, nil
	case "clamp":
		return DueDayClamp, nil
	}
	return DueDayOverflow, fmt.Errorf("unknown due day policy %q", value)
}

// DueDateFor returns the due date of the installment at index, counting months from the start month.
// A due day beyond the month's length rolls over into the next month.
func DueDateFor(startYear, startMonth, dueDay, index int) (time.Time, error) {
	return dueDateFor(startYear, startMonth, dueDay, index, DueDayOverflow)
}

// ClampedDueDateFor is DueDateFor with the due day capped at the last day of the month
func ClampedDueDateFor(startYear, startMonth, dueDay, index int) (time.Time, error) {
	return dueDateFor(startYear, startMonth, dueDay, index, DueDayClamp)
}

func dueDateFor(startYear, startMonth, dueDay, index int, policy DueDayPolicy) (time.Time, error) {
	if dueDay < 1 || dueDay > 31 {
		return time.Time{}, customError.WrapInvalidDueDay(dueDay)
	}
	if startMonth < 1 || startMonth > 12 {
		return time.Time{}, customError.WrapInvalidStartMonth(startMonth)
	}
	if index < 0 {
		return time.Time{}, customError.WrapInvalidCount("installment index", index)
	}

	targetMonth := startMonth - 1 + index
	year := startYear + targetMonth/12
	month := time.Month(targetMonth%12 + 1)

	day := dueDay
	if policy == DueDayClamp {
		if last := utils.DaysInMonth(year, month); day > last {
			day = last
		}
	}

	// time.Date normalises day overflow, which is what DueDayOverflow relies on
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), nil
}

// DueDate computes the due date of the installment at index for a schedule.
// ok is false when the schedule has no start month or due day.
func (c *Calculator) DueDate(schedule domain.Schedule, index int) (due time.Time, ok bool, err error) {
	if !schedule.HasDates() {
		return time.Time{}, false, nil
	}
	due, err = dueDateFor(schedule.StartMonth.Year, int(schedule.StartMonth.Month), schedule.DueDay, index, c.policy)
	if err != nil {
		return time.Time{}, false, err
	}
	return due, true, nil
}

// Schedule builds the installments of an obligation with their due dates.
// Cash obligations have no installments.
func (c *Calculator) Schedule(o domain.Obligation) ([]domain.Installment, error) {
	schedule, ok := scheduleOf(o)
	if !ok {
		return []domain.Installment{}, nil
	}

	installments, err := BuildInstallments(o.TotalAmount, schedule.Tiers)
	if err != nil {
		return nil, err
	}

	for i := range installments {
		due, ok, err := c.DueDate(schedule, installments[i].Index)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		installments[i].DueDate = &due
	}

	return installments, nil
}

// scheduleOf extracts the installment schedule of plans that have one
func scheduleOf(o domain.Obligation) (domain.Schedule, bool) {
	switch plan := o.Plan.(type) {
	case domain.InstallmentPlan:
		return plan.Schedule, true
	case domain.DownPaymentPlan:
		return plan.Schedule, true
	}
	return domain.Schedule{}, false
}
