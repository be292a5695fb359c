package repository

import (
	"context"

	"github.com/segyhp/auction-billing/internal/domain"
	customError "github.com/segyhp/auction-billing/pkg/errors"

	"github.com/jmoiron/sqlx"
)

const insertPaymentQuery = `
	INSERT INTO payments (id, reference, sequence, kind, base_amount, amount, payment_date, created_at)
	VALUES (:id, :reference, :sequence, :kind, :base_amount, :amount, :payment_date, :created_at)
`

type paymentRepository struct {
	db *sqlx.DB
}

func NewPaymentRepository(db *sqlx.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	return insertPayment(ctx, r.db, payment)
}

func (r *paymentRepository) GetByReference(ctx context.Context, reference string) ([]*domain.Payment, error) {
	query := `
		SELECT id, reference, sequence, kind, base_amount, amount, payment_date, created_at
		FROM payments
		WHERE reference = $1
		ORDER BY sequence
	`

	payments := make([]*domain.Payment, 0)
	if err := r.db.SelectContext(ctx, &payments, query, reference); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return payments, nil
}

// insertPayment runs on either the pool or an open transaction
func insertPayment(ctx context.Context, db sqlx.ExtContext, payment *domain.Payment) error {
	if _, err := sqlx.NamedExecContext(ctx, db, insertPaymentQuery, payment); err != nil {
		if isUniqueViolation(err) {
			return customError.WrapConcurrentUpdate(payment.Reference)
		}
		return customError.WrapDatabaseError(err)
	}
	return nil
}
