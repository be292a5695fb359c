package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/segyhp/auction-billing/internal/domain"
	customError "github.com/segyhp/auction-billing/pkg/errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

//go:embed schema.sql
var schema string

// uniqueViolation is the postgres SQLSTATE for a duplicate key
const uniqueViolation = "23505"

const obligationColumns = `
	id, reference, auction_id, lot_id, bidder_name, payment_type, total_amount, late_interest_percent,
	fully_paid, cash_due_date, down_payment_amount, down_payment_due_date, start_year, start_month,
	due_day, triple_count, double_count, single_count, paid_count, created_at, updated_at
`

// Migrate creates the tables if they do not exist yet
func Migrate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

type obligationRepository struct {
	db *sqlx.DB
}

func NewObligationRepository(db *sqlx.DB) ObligationRepository {
	return &obligationRepository{db: db}
}

func (r *obligationRepository) Create(ctx context.Context, obligation *domain.Obligation) error {
	query := `
		INSERT INTO obligations (` + obligationColumns + `)
		VALUES (:id, :reference, :auction_id, :lot_id, :bidder_name, :payment_type, :total_amount,
			:late_interest_percent, :fully_paid, :cash_due_date, :down_payment_amount, :down_payment_due_date,
			:start_year, :start_month, :due_day, :triple_count, :double_count, :single_count, :paid_count,
			:created_at, :updated_at)
	`

	record := domain.NewObligationRecord(*obligation)
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		if isUniqueViolation(err) {
			return customError.WrapObligationAlreadyExists(obligation.Reference)
		}
		return customError.WrapDatabaseError(err)
	}

	return nil
}

func (r *obligationRepository) GetByReference(ctx context.Context, reference string) (*domain.Obligation, error) {
	query := `SELECT ` + obligationColumns + ` FROM obligations WHERE reference = $1`

	var record domain.ObligationRecord
	if err := r.db.GetContext(ctx, &record, query, reference); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapObligationNotFound(reference)
		}
		return nil, customError.WrapDatabaseError(err)
	}

	obligation := record.ToObligation()
	return &obligation, nil
}

func (r *obligationRepository) List(ctx context.Context, filter domain.ObligationFilter) ([]*domain.Obligation, error) {
	conditions := make([]string, 0, 3)
	args := make([]interface{}, 0, 2)

	if filter.AuctionID != "" {
		args = append(args, filter.AuctionID)
		conditions = append(conditions, fmt.Sprintf("auction_id = $%d", len(args)))
	}
	if filter.PaymentType != "" {
		args = append(args, filter.PaymentType)
		conditions = append(conditions, fmt.Sprintf("payment_type = $%d", len(args)))
	}
	if filter.OpenOnly {
		conditions = append(conditions, "fully_paid = FALSE")
	}

	query := `SELECT ` + obligationColumns + ` FROM obligations`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY created_at, reference`

	var records []domain.ObligationRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	obligations := make([]*domain.Obligation, 0, len(records))
	for _, record := range records {
		obligation := record.ToObligation()
		obligations = append(obligations, &obligation)
	}
	return obligations, nil
}

func (r *obligationRepository) ListOpen(ctx context.Context) ([]*domain.Obligation, error) {
	return r.List(ctx, domain.ObligationFilter{OpenOnly: true})
}

func (r *obligationRepository) UpdatePayment(ctx context.Context, reference string, paidCount int, fullyPaid bool) error {
	query := `
		UPDATE obligations
		SET paid_count = $2, fully_paid = $3, updated_at = $4
		WHERE reference = $1
	`

	result, err := r.db.ExecContext(ctx, query, reference, paidCount, fullyPaid, time.Now())
	if err != nil {
		return customError.WrapDatabaseError(err)
	}
	return requireRow(result, customError.WrapObligationNotFound(reference))
}

func (r *obligationRepository) RecordPayment(ctx context.Context, payment *domain.Payment, progress domain.PaymentProgress) error {
	query := `
		UPDATE obligations
		SET paid_count = $3, fully_paid = $4, updated_at = $5
		WHERE reference = $1 AND paid_count = $2 AND fully_paid = FALSE
	`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return customError.WrapDatabaseError(err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, query,
		payment.Reference,
		progress.PreviousPaidCount,
		progress.PaidCount,
		progress.FullyPaid,
		time.Now(),
	)
	if err != nil {
		return customError.WrapDatabaseError(err)
	}
	if err := requireRow(result, customError.WrapConcurrentUpdate(payment.Reference)); err != nil {
		return err
	}

	if err := insertPayment(ctx, tx, payment); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return customError.WrapDatabaseError(err)
	}
	return nil
}

// requireRow returns missing when the statement touched no row
func requireRow(result sql.Result, missing error) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return customError.WrapDatabaseError(err)
	}
	if affected == 0 {
		return missing
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
