package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Layouts accepted on the wire
const (
	DateLayout      = "2006-01-02"
	YearMonthLayout = "2006-01"
)

// DTOs for requests and responses

type CreateObligationRequest struct {
	Reference             string           `json:"reference" validate:"required,max=64"`
	AuctionID             string           `json:"auction_id" validate:"required"`
	LotID                 string           `json:"lot_id" validate:"required"`
	BidderName            string           `json:"bidder_name" validate:"required"`
	PaymentType           PaymentType      `json:"payment_type" validate:"required,oneof=cash installments down_payment_plus_installments"`
	TotalAmount           decimal.Decimal  `json:"total_amount" validate:"decimal_gte=0"`
	LateInterestPercent   *decimal.Decimal `json:"late_interest_percent,omitempty" validate:"omitempty,decimal_gte=0"`
	CashDueDate           string           `json:"cash_due_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	DownPaymentAmount     *decimal.Decimal `json:"down_payment_amount,omitempty" validate:"omitempty,decimal_gte=0"`
	DownPaymentDueDate    string           `json:"down_payment_due_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	InstallmentStartMonth string           `json:"installment_start_month,omitempty" validate:"omitempty,datetime=2006-01"`
	DueDay                int              `json:"due_day,omitempty" validate:"omitempty,min=1,max=31"`
	Tiers                 Tiers            `json:"tiers"`
}

// ToObligation builds the plan variant that matches PaymentType.
// Fields that do not belong to the chosen plan are ignored.
func (r CreateObligationRequest) ToObligation() (Obligation, error) {
	obligation := Obligation{
		Reference:   r.Reference,
		AuctionID:   r.AuctionID,
		LotID:       r.LotID,
		BidderName:  r.BidderName,
		TotalAmount: r.TotalAmount,
	}
	if r.LateInterestPercent != nil {
		obligation.LateInterestPercent = *r.LateInterestPercent
	}

	switch r.PaymentType {
	case PaymentTypeCash:
		dueDate, err := parseOptionalDate(r.CashDueDate)
		if err != nil {
			return Obligation{}, fmt.Errorf("cash_due_date: %w", err)
		}
		obligation.Plan = CashPlan{DueDate: dueDate}
	case PaymentTypeInstallments, PaymentTypeDownPaymentPlusInstallments:
		schedule, err := r.schedule()
		if err != nil {
			return Obligation{}, err
		}
		if r.PaymentType == PaymentTypeInstallments {
			obligation.Plan = InstallmentPlan{Schedule: schedule}
			break
		}
		dueDate, err := parseOptionalDate(r.DownPaymentDueDate)
		if err != nil {
			return Obligation{}, fmt.Errorf("down_payment_due_date: %w", err)
		}
		plan := DownPaymentPlan{DueDate: dueDate, Schedule: schedule}
		if r.DownPaymentAmount != nil {
			plan.Amount = *r.DownPaymentAmount
		}
		obligation.Plan = plan
	default:
		return Obligation{}, fmt.Errorf("unknown payment type %q", r.PaymentType)
	}

	return obligation, nil
}

func (r CreateObligationRequest) schedule() (Schedule, error) {
	schedule := Schedule{DueDay: r.DueDay, Tiers: r.Tiers}
	if r.InstallmentStartMonth != "" {
		start, err := time.Parse(YearMonthLayout, r.InstallmentStartMonth)
		if err != nil {
			return Schedule{}, fmt.Errorf("installment_start_month: %w", err)
		}
		schedule.StartMonth = &YearMonth{Year: start.Year(), Month: start.Month()}
	}
	return schedule, nil
}

func parseOptionalDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

type CreateObligationResponse struct {
	Obligation   *ObligationResponse `json:"obligation"`
	Installments []Installment       `json:"installments"`
}

// ObligationResponse is the JSON view of an obligation
type ObligationResponse struct {
	ID                    string           `json:"id"`
	Reference             string           `json:"reference"`
	AuctionID             string           `json:"auction_id"`
	LotID                 string           `json:"lot_id"`
	BidderName            string           `json:"bidder_name"`
	PaymentType           PaymentType      `json:"payment_type"`
	TotalAmount           decimal.Decimal  `json:"total_amount"`
	LateInterestPercent   decimal.Decimal  `json:"late_interest_percent"`
	FullyPaid             bool             `json:"fully_paid"`
	CashDueDate           *time.Time       `json:"cash_due_date,omitempty"`
	DownPaymentAmount     *decimal.Decimal `json:"down_payment_amount,omitempty"`
	DownPaymentDueDate    *time.Time       `json:"down_payment_due_date,omitempty"`
	InstallmentStartMonth string           `json:"installment_start_month,omitempty"`
	DueDay                int              `json:"due_day,omitempty"`
	Tiers                 *Tiers           `json:"tiers,omitempty"`
	InstallmentCount      int              `json:"installment_count"`
	PaidCount             int              `json:"paid_count"`
}

// NewObligationResponse flattens the plan variant for JSON output
func NewObligationResponse(o Obligation) *ObligationResponse {
	resp := &ObligationResponse{
		ID:                  o.ID.String(),
		Reference:           o.Reference,
		AuctionID:           o.AuctionID,
		LotID:               o.LotID,
		BidderName:          o.BidderName,
		PaymentType:         o.PaymentType(),
		TotalAmount:         o.TotalAmount,
		LateInterestPercent: o.LateInterestPercent,
		FullyPaid:           o.FullyPaid,
	}

	fillSchedule := func(s Schedule) {
		tiers := s.Tiers
		resp.Tiers = &tiers
		resp.InstallmentCount = tiers.Total()
		resp.PaidCount = s.PaidCount
		resp.DueDay = s.DueDay
		if s.StartMonth != nil {
			resp.InstallmentStartMonth = fmt.Sprintf("%04d-%02d", s.StartMonth.Year, int(s.StartMonth.Month))
		}
	}

	switch plan := o.Plan.(type) {
	case CashPlan:
		resp.CashDueDate = plan.DueDate
	case InstallmentPlan:
		fillSchedule(plan.Schedule)
	case DownPaymentPlan:
		amount := plan.Amount
		resp.DownPaymentAmount = &amount
		resp.DownPaymentDueDate = plan.DueDate
		fillSchedule(plan.Schedule)
	}

	return resp
}

// PlanForm is the wizard's plan configuration, passed by value on every edit
type PlanForm struct {
	PrincipalAmount   decimal.Decimal `json:"principal_amount" validate:"decimal_gte=0"`
	CommissionPercent decimal.Decimal `json:"commission_percent" validate:"decimal_gte=0"`
	DownPaymentAmount decimal.Decimal `json:"down_payment_amount" validate:"decimal_gte=0"`
	InstallmentAmount decimal.Decimal `json:"installment_amount" validate:"decimal_gte=0"`
	Tiers             Tiers           `json:"tiers"`
}

// PlanValidation is the live feedback for a PlanForm
type PlanValidation struct {
	TotalOwed       decimal.Decimal `json:"total_owed"`
	RequiredCount   int             `json:"required_count"`
	ConfiguredCount int             `json:"configured_count"`
	Matches         bool            `json:"matches"`
}

type StatusResponse struct {
	Reference             string           `json:"reference"`
	PaymentType           PaymentType      `json:"payment_type"`
	Status                ObligationStatus `json:"status"`
	IsOverdue             bool             `json:"is_overdue"`
	PaidCount             int              `json:"paid_count"`
	TotalWithInterest     decimal.Decimal  `json:"total_with_interest"`
	RemainingWithInterest decimal.Decimal  `json:"remaining_with_interest"`
	ReferenceDate         string           `json:"reference_date"`
}

type ScheduleResponse struct {
	Reference string                 `json:"reference"`
	Schedule  []ScheduledInstallment `json:"schedule"`
}

// ObligationFilter narrows listings and reports
type ObligationFilter struct {
	AuctionID   string
	PaymentType PaymentType
	OpenOnly    bool
}

// SweepResult summarises one overdue sweep
type SweepResult struct {
	ReferenceDate string   `json:"reference_date"`
	Evaluated     int      `json:"evaluated"`
	Overdue       int      `json:"overdue"`
	Overdues      []string `json:"overdues"`
}

// ReportRow is one line of the obligations report
type ReportRow struct {
	Reference             string
	AuctionID             string
	LotID                 string
	BidderName            string
	PaymentType           PaymentType
	Status                ObligationStatus
	InstallmentCount      int
	PaidCount             int
	TotalAmount           decimal.Decimal
	TotalWithInterest     decimal.Decimal
	RemainingWithInterest decimal.Decimal
}

type ReportExport struct {
	Key       string `json:"key"`
	URL       string `json:"url"`
	Rows      int    `json:"rows"`
	CreatedAt string `json:"created_at"`
}
