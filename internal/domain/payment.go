package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment is a registered payment against an obligation.
// Sequence is the 1-based position in payment order; for down-payment plans 1 is the down payment.
type Payment struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	Reference   string          `json:"reference" db:"reference"`
	Sequence    int             `json:"sequence" db:"sequence"`
	Kind        string          `json:"kind" db:"kind"`
	BaseAmount  decimal.Decimal `json:"base_amount" db:"base_amount"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	PaymentDate time.Time       `json:"payment_date" db:"payment_date"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

func (Payment) TableName() string {
	return "payments"
}

// PaymentProgress is the counter change that goes with a registered payment.
// PreviousPaidCount is what the caller read; the update fails if storage no longer agrees.
type PaymentProgress struct {
	PreviousPaidCount int
	PaidCount         int
	FullyPaid         bool
}
