package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ObligationRecord is the flat row stored in the obligations table.
// Columns that only apply to some payment types are nullable.
type ObligationRecord struct {
	ID                  uuid.UUID           `db:"id"`
	Reference           string              `db:"reference"`
	AuctionID           string              `db:"auction_id"`
	LotID               string              `db:"lot_id"`
	BidderName          string              `db:"bidder_name"`
	PaymentType         PaymentType         `db:"payment_type"`
	TotalAmount         decimal.Decimal     `db:"total_amount"`
	LateInterestPercent decimal.Decimal     `db:"late_interest_percent"`
	FullyPaid           bool                `db:"fully_paid"`
	CashDueDate         *time.Time          `db:"cash_due_date"`
	DownPaymentAmount   decimal.NullDecimal `db:"down_payment_amount"`
	DownPaymentDueDate  *time.Time          `db:"down_payment_due_date"`
	StartYear           *int                `db:"start_year"`
	StartMonth          *int                `db:"start_month"`
	DueDay              *int                `db:"due_day"`
	TripleCount         int                 `db:"triple_count"`
	DoubleCount         int                 `db:"double_count"`
	SingleCount         int                 `db:"single_count"`
	PaidCount           int                 `db:"paid_count"`
	CreatedAt           time.Time           `db:"created_at"`
	UpdatedAt           time.Time           `db:"updated_at"`
}

// ToObligation rebuilds the tagged plan variant from the stored columns.
// Unknown payment types fall back to the installment plan.
func (r ObligationRecord) ToObligation() Obligation {
	obligation := Obligation{
		ID:                  r.ID,
		Reference:           r.Reference,
		AuctionID:           r.AuctionID,
		LotID:               r.LotID,
		BidderName:          r.BidderName,
		TotalAmount:         r.TotalAmount,
		LateInterestPercent: r.LateInterestPercent,
		FullyPaid:           r.FullyPaid,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}

	switch r.PaymentType {
	case PaymentTypeCash:
		obligation.Plan = CashPlan{DueDate: dateOnly(r.CashDueDate)}
	case PaymentTypeDownPaymentPlusInstallments:
		obligation.Plan = DownPaymentPlan{
			Amount:   r.DownPaymentAmount.Decimal,
			DueDate:  dateOnly(r.DownPaymentDueDate),
			Schedule: r.schedule(),
		}
	default:
		obligation.Plan = InstallmentPlan{Schedule: r.schedule()}
	}

	return obligation
}

func (r ObligationRecord) schedule() Schedule {
	schedule := Schedule{
		Tiers: Tiers{
			Triple: r.TripleCount,
			Double: r.DoubleCount,
			Single: r.SingleCount,
		},
		PaidCount: r.PaidCount,
	}
	if r.StartYear != nil && r.StartMonth != nil {
		schedule.StartMonth = &YearMonth{Year: *r.StartYear, Month: time.Month(*r.StartMonth)}
	}
	if r.DueDay != nil {
		schedule.DueDay = *r.DueDay
	}
	return schedule
}

// NewObligationRecord flattens an obligation for storage
func NewObligationRecord(o Obligation) ObligationRecord {
	record := ObligationRecord{
		ID:                  o.ID,
		Reference:           o.Reference,
		AuctionID:           o.AuctionID,
		LotID:               o.LotID,
		BidderName:          o.BidderName,
		PaymentType:         o.PaymentType(),
		TotalAmount:         o.TotalAmount,
		LateInterestPercent: o.LateInterestPercent,
		FullyPaid:           o.FullyPaid,
		CreatedAt:           o.CreatedAt,
		UpdatedAt:           o.UpdatedAt,
	}

	switch plan := o.Plan.(type) {
	case CashPlan:
		record.CashDueDate = plan.DueDate
	case InstallmentPlan:
		record.setSchedule(plan.Schedule)
	case DownPaymentPlan:
		record.DownPaymentAmount = decimal.NewNullDecimal(plan.Amount)
		record.DownPaymentDueDate = plan.DueDate
		record.setSchedule(plan.Schedule)
	}

	return record
}

func (r *ObligationRecord) setSchedule(s Schedule) {
	r.TripleCount = s.Tiers.Triple
	r.DoubleCount = s.Tiers.Double
	r.SingleCount = s.Tiers.Single
	r.PaidCount = s.PaidCount
	if s.StartMonth != nil {
		year, month := s.StartMonth.Year, int(s.StartMonth.Month)
		r.StartYear = &year
		r.StartMonth = &month
	}
	if s.DueDay != 0 {
		day := s.DueDay
		r.DueDay = &day
	}
}

// dateOnly strips time of day and location so stored dates compare as calendar dates
func dateOnly(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}
