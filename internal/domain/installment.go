package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Installment is one scheduled payment, derived from an obligation and never persisted
type Installment struct {
	Index      int             `json:"index"`
	Weight     int             `json:"weight"`
	BaseAmount decimal.Decimal `json:"base_amount"`
	DueDate    *time.Time      `json:"due_date,omitempty"`
}

// HasDueDate is false when the schedule lacked the data to compute one
func (i Installment) HasDueDate() bool {
	return i.DueDate != nil
}

// ScheduledInstallment is an installment (or down payment) annotated for display
type ScheduledInstallment struct {
	Sequence           int              `json:"sequence"`
	Kind               string           `json:"kind"` // down_payment, installment
	Index              int              `json:"index"`
	Weight             int              `json:"weight,omitempty"`
	BaseAmount         decimal.Decimal  `json:"base_amount"`
	AmountWithInterest decimal.Decimal  `json:"amount_with_interest"`
	DueDate            *time.Time       `json:"due_date,omitempty"`
	MonthsLate         int              `json:"months_late"`
	Status             ObligationStatus `json:"status"`
}

const (
	ScheduleKindDownPayment = "down_payment"
	ScheduleKindInstallment = "installment"
	ScheduleKindCash        = "cash"
)
