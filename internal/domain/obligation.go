package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentType identifies how a bidder settles a won lot
type PaymentType string

const (
	PaymentTypeCash                        PaymentType = "cash"
	PaymentTypeInstallments                PaymentType = "installments"
	PaymentTypeDownPaymentPlusInstallments PaymentType = "down_payment_plus_installments"
)

// Valid reports whether t is one of the known payment types
func (t PaymentType) Valid() bool {
	switch t {
	case PaymentTypeCash, PaymentTypeInstallments, PaymentTypeDownPaymentPlusInstallments:
		return true
	}
	return false
}

// ObligationStatus is the badge shown for an obligation in reports
type ObligationStatus string

const (
	ObligationStatusPaid    ObligationStatus = "paid"
	ObligationStatusPending ObligationStatus = "pending"
	ObligationStatusOverdue ObligationStatus = "overdue"
)

// Obligation is what a bidder owes for a won lot.
// It is rebuilt from an ObligationRecord on every read and never cached.
type Obligation struct {
	ID                  uuid.UUID
	Reference           string
	AuctionID           string
	LotID               string
	BidderName          string
	TotalAmount         decimal.Decimal
	LateInterestPercent decimal.Decimal
	FullyPaid           bool
	Plan                Plan
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// PaymentType returns the type of the obligation's plan, defaulting to installments
func (o Obligation) PaymentType() PaymentType {
	if o.Plan == nil {
		return PaymentTypeInstallments
	}
	return o.Plan.Type()
}

// Plan is implemented by CashPlan, InstallmentPlan and DownPaymentPlan.
// Each variant carries only the fields its payment type needs.
type Plan interface {
	Type() PaymentType
	isPlan()
}

// CashPlan is a single lump-sum payment
type CashPlan struct {
	DueDate *time.Time
}

func (CashPlan) Type() PaymentType { return PaymentTypeCash }
func (CashPlan) isPlan()           {}

// InstallmentPlan splits the total into weighted monthly installments
type InstallmentPlan struct {
	Schedule
}

func (InstallmentPlan) Type() PaymentType { return PaymentTypeInstallments }
func (InstallmentPlan) isPlan()           {}

// DownPaymentPlan adds an up-front payment before the installment schedule.
// Schedule.PaidCount counts the down payment as the first payment.
type DownPaymentPlan struct {
	Amount  decimal.Decimal
	DueDate *time.Time
	Schedule
}

func (DownPaymentPlan) Type() PaymentType { return PaymentTypeDownPaymentPlusInstallments }
func (DownPaymentPlan) isPlan()           {}

// YearMonth anchors the first installment
type YearMonth struct {
	Year  int
	Month time.Month
}

// Schedule holds the installment configuration shared by installment-based plans
type Schedule struct {
	StartMonth *YearMonth
	DueDay     int
	Tiers      Tiers
	PaidCount  int
}

// HasDates reports whether due dates can be computed for this schedule
func (s Schedule) HasDates() bool {
	return s.StartMonth != nil && s.DueDay != 0
}

// Tiers counts installments weighted x3, x2 and x1
type Tiers struct {
	Triple int `json:"triple" validate:"gte=0"`
	Double int `json:"double" validate:"gte=0"`
	Single int `json:"single" validate:"gte=0"`
}

// Total is the number of installments across all tiers
func (t Tiers) Total() int {
	return t.Triple + t.Double + t.Single
}

// Units is the weighted sum used to size installments
func (t Tiers) Units() int {
	return 3*t.Triple + 2*t.Double + t.Single
}

// WithPaidCount returns a copy of the obligation with the schedule's paid count replaced.
// Cash plans have no paid count and are returned unchanged.
func (o Obligation) WithPaidCount(paid int) Obligation {
	switch plan := o.Plan.(type) {
	case InstallmentPlan:
		plan.PaidCount = paid
		o.Plan = plan
	case DownPaymentPlan:
		plan.PaidCount = paid
		o.Plan = plan
	}
	return o
}
