package repository

import (
	"context"

	"github.com/segyhp/auction-billing/internal/domain"
)

// ObligationRepository defines the interface for obligation data operations
type ObligationRepository interface {
	// Create stores a new obligation; a taken reference fails with ErrObligationAlreadyExists
	Create(ctx context.Context, obligation *domain.Obligation) error

	// GetByReference retrieves an obligation by its reference
	GetByReference(ctx context.Context, reference string) (*domain.Obligation, error)

	// List returns obligations matching the filter, oldest first
	List(ctx context.Context, filter domain.ObligationFilter) ([]*domain.Obligation, error)

	// ListOpen returns every obligation that is not fully paid
	ListOpen(ctx context.Context) ([]*domain.Obligation, error)

	// UpdatePayment overwrites the paid count and the fully paid flag
	UpdatePayment(ctx context.Context, reference string, paidCount int, fullyPaid bool) error

	// RecordPayment stores the payment and advances the counters in one transaction
	RecordPayment(ctx context.Context, payment *domain.Payment, progress domain.PaymentProgress) error
}

// PaymentRepository defines the interface for payment data operations
type PaymentRepository interface {
	// Create creates a new payment record
	Create(ctx context.Context, payment *domain.Payment) error

	// GetByReference retrieves all payments of an obligation in sequence order
	GetByReference(ctx context.Context, reference string) ([]*domain.Payment, error)
}

// StatusCache keeps status snapshots per obligation and reference date
type StatusCache interface {
	// Get returns the cached snapshot; ok is false on a miss
	Get(ctx context.Context, reference string, referenceDate string) (status *domain.StatusResponse, ok bool, err error)

	// Set stores a snapshot
	Set(ctx context.Context, status *domain.StatusResponse) error

	// Delete drops every snapshot of the obligation
	Delete(ctx context.Context, reference string) error
}
