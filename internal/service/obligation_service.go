package service

import (
	"context"
	"fmt"
	"time"

	"github.com/segyhp/auction-billing/internal/config"
	"github.com/segyhp/auction-billing/internal/domain"
	"github.com/segyhp/auction-billing/internal/engine"
	"github.com/segyhp/auction-billing/internal/report"
	"github.com/segyhp/auction-billing/internal/repository"
	customError "github.com/segyhp/auction-billing/pkg/errors"
	"github.com/segyhp/auction-billing/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReportStore keeps generated report files and returns where to download them
type ReportStore interface {
	Store(ctx context.Context, fileName string, data []byte) (key string, url string, err error)
}

type ObligationService struct {
	ObligationRepo repository.ObligationRepository
	PaymentRepo    repository.PaymentRepository
	cache          repository.StatusCache
	reports        ReportStore
	calculator     *engine.Calculator
	logger         *zap.Logger
	clock          func() time.Time
	defaultRate    decimal.Decimal
}

// Option customises an ObligationService
type Option func(*ObligationService)

// WithClock replaces time.Now as the source of the reference date
func WithClock(clock func() time.Time) Option {
	return func(s *ObligationService) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithReportStore enables report exports
func WithReportStore(store ReportStore) Option {
	return func(s *ObligationService) {
		s.reports = store
	}
}

func NewObligationService(
	obligationRepo repository.ObligationRepository,
	paymentRepo repository.PaymentRepository,
	cache repository.StatusCache,
	cfg *config.Config,
	logger *zap.Logger,
	opts ...Option,
) (*ObligationService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	policy, err := engine.ParseDueDayPolicy(cfg.Business.DueDayPolicy)
	if err != nil {
		return nil, err
	}

	s := &ObligationService{
		ObligationRepo: obligationRepo,
		PaymentRepo:    paymentRepo,
		cache:          cache,
		calculator:     engine.NewCalculator(engine.WithDueDayPolicy(policy), engine.WithLogger(logger)),
		logger:         logger,
		clock:          time.Now,
		defaultRate:    cfg.GetDefaultLateInterestPercent(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// CreateObligation validates the plan, builds its installments and stores the obligation
func (s *ObligationService) CreateObligation(ctx context.Context, request *domain.CreateObligationRequest) (*domain.Obligation, []domain.Installment, error) {
	obligation, err := request.ToObligation()
	if err != nil {
		return nil, nil, customError.WrapValidation(err)
	}
	if request.LateInterestPercent == nil {
		obligation.LateInterestPercent = s.defaultRate
	}

	// amounts and rates must survive the NUMERIC columns without rounding
	if !validAmount(obligation.TotalAmount) {
		return nil, nil, customError.WrapInvalidAmount(obligation.TotalAmount.String())
	}
	if !validRate(obligation.LateInterestPercent) {
		return nil, nil, customError.WrapInvalidAmount(obligation.LateInterestPercent.String())
	}
	if plan, ok := obligation.Plan.(domain.DownPaymentPlan); ok && !validAmount(plan.Amount) {
		return nil, nil, customError.WrapInvalidAmount(plan.Amount.String())
	}

	// builder and sequencer reject invalid tiers, due days and start months
	installments, err := s.calculator.Schedule(obligation)
	if err != nil {
		return nil, nil, err
	}

	now := s.clock()
	obligation.ID = uuid.New()
	obligation.CreatedAt = now
	obligation.UpdatedAt = now

	if err := s.ObligationRepo.Create(ctx, &obligation); err != nil {
		return nil, nil, err
	}

	s.logger.Info("obligation created",
		zap.String("op", "service.CreateObligation"),
		zap.String("reference", obligation.Reference),
		zap.String("payment_type", string(obligation.PaymentType())),
		zap.Int("installments", len(installments)),
	)

	return &obligation, installments, nil
}

// GetObligation returns the stored obligation
func (s *ObligationService) GetObligation(ctx context.Context, reference string) (*domain.Obligation, error) {
	return s.ObligationRepo.GetByReference(ctx, reference)
}

// ListObligations returns the obligations matching filter
func (s *ObligationService) ListObligations(ctx context.Context, filter domain.ObligationFilter) ([]*domain.Obligation, error) {
	return s.ObligationRepo.List(ctx, filter)
}

// ListPayments returns the payment history of an obligation
func (s *ObligationService) ListPayments(ctx context.Context, reference string) ([]*domain.Payment, error) {
	if _, err := s.ObligationRepo.GetByReference(ctx, reference); err != nil {
		return nil, err
	}
	return s.PaymentRepo.GetByReference(ctx, reference)
}

// GetSchedule lists every payment of the plan with its status and amount with interest as of today
func (s *ObligationService) GetSchedule(ctx context.Context, reference string) ([]domain.ScheduledInstallment, error) {
	obligation, err := s.ObligationRepo.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	return s.calculator.ScheduleRows(*obligation, s.clock())
}

// GetStatus returns today's status snapshot, served from the cache when possible
func (s *ObligationService) GetStatus(ctx context.Context, reference string) (*domain.StatusResponse, error) {
	now := s.clock()
	referenceDate := now.Format(domain.DateLayout)

	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, reference, referenceDate)
		if err != nil {
			s.logger.Warn("status cache unavailable",
				zap.String("op", "service.GetStatus"),
				zap.String("reference", reference),
				zap.Error(err),
			)
		}
		if ok {
			return cached, nil
		}
	}

	obligation, err := s.ObligationRepo.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}

	status, err := s.buildStatus(*obligation, now)
	if err != nil {
		return nil, err
	}
	s.storeStatus(ctx, status)

	return status, nil
}

// RegisterPayment charges the next unpaid item of the plan, with interest, and advances the paid count
func (s *ObligationService) RegisterPayment(ctx context.Context, reference string) (*domain.Payment, error) {
	obligation, err := s.ObligationRepo.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if obligation.FullyPaid {
		return nil, customError.WrapObligationSettled(reference)
	}

	now := s.clock()
	next, ok, err := s.calculator.NextPayable(*obligation, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		if engine.RequiredPayments(*obligation) == 0 {
			return nil, customError.WrapValidation(fmt.Errorf("obligation %s has no scheduled payments", reference))
		}
		return nil, customError.WrapObligationSettled(reference)
	}

	previous := engine.PaidCount(*obligation)
	progress := domain.PaymentProgress{PreviousPaidCount: previous, PaidCount: previous, FullyPaid: true}
	if next.Kind != domain.ScheduleKindCash {
		progress.PaidCount = previous + 1
		progress.FullyPaid = progress.PaidCount >= engine.RequiredPayments(*obligation)
	}

	payment := &domain.Payment{
		ID:          uuid.New(),
		Reference:   reference,
		Sequence:    next.Sequence,
		Kind:        next.Kind,
		BaseAmount:  next.BaseAmount,
		Amount:      next.AmountWithInterest,
		PaymentDate: now,
		CreatedAt:   now,
	}

	if err := s.ObligationRepo.RecordPayment(ctx, payment, progress); err != nil {
		return nil, err
	}
	s.invalidate(ctx, reference)

	s.logger.Info("payment registered",
		zap.String("op", "service.RegisterPayment"),
		zap.String("reference", reference),
		zap.Int("sequence", payment.Sequence),
		zap.String("amount", payment.Amount.StringFixed(2)),
		zap.Int("months_late", next.MonthsLate),
		zap.Bool("fully_paid", progress.FullyPaid),
	)

	return payment, nil
}

// Settle marks the obligation fully paid regardless of its paid count
func (s *ObligationService) Settle(ctx context.Context, reference string) (*domain.Obligation, error) {
	obligation, err := s.ObligationRepo.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if obligation.FullyPaid {
		return nil, customError.WrapObligationSettled(reference)
	}

	if err := s.ObligationRepo.UpdatePayment(ctx, reference, engine.PaidCount(*obligation), true); err != nil {
		return nil, err
	}
	s.invalidate(ctx, reference)

	obligation.FullyPaid = true
	obligation.UpdatedAt = s.clock()

	s.logger.Info("obligation settled",
		zap.String("op", "service.Settle"),
		zap.String("reference", reference),
	)

	return obligation, nil
}

// ValidatePlan gives live feedback on a plan configuration
func (s *ObligationService) ValidatePlan(form domain.PlanForm) (domain.PlanValidation, error) {
	return engine.ValidatePlan(form)
}

// SweepOverdue evaluates every open obligation, refreshes its cached status and reports the overdue ones
func (s *ObligationService) SweepOverdue(ctx context.Context) (domain.SweepResult, error) {
	now := s.clock()
	result := domain.SweepResult{
		ReferenceDate: now.Format(domain.DateLayout),
		Overdues:      make([]string, 0),
	}

	open, err := s.ObligationRepo.ListOpen(ctx)
	if err != nil {
		return result, err
	}

	for _, obligation := range open {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		status, err := s.buildStatus(*obligation, now)
		if err != nil {
			s.logger.Warn("skipping obligation with invalid plan",
				zap.String("op", "service.SweepOverdue"),
				zap.String("reference", obligation.Reference),
				zap.Error(err),
			)
			continue
		}
		result.Evaluated++
		s.storeStatus(ctx, status)

		if status.IsOverdue {
			result.Overdue++
			result.Overdues = append(result.Overdues, obligation.Reference)
			s.logger.Info("obligation overdue",
				zap.String("op", "service.SweepOverdue"),
				zap.String("reference", obligation.Reference),
				zap.String("remaining_with_interest", status.RemainingWithInterest.StringFixed(2)),
			)
		}
	}

	s.logger.Info("overdue sweep finished",
		zap.String("op", "service.SweepOverdue"),
		zap.String("reference_date", result.ReferenceDate),
		zap.Int("evaluated", result.Evaluated),
		zap.Int("overdue", result.Overdue),
	)

	return result, nil
}

// ExportReport builds the obligations workbook for filter and uploads it
func (s *ObligationService) ExportReport(ctx context.Context, filter domain.ObligationFilter) (*domain.ReportExport, error) {
	if s.reports == nil {
		return nil, customError.WrapStorageError(fmt.Errorf("report storage is not configured"))
	}

	obligations, err := s.ObligationRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	rows := make([]domain.ReportRow, 0, len(obligations))
	for _, obligation := range obligations {
		row, err := s.reportRow(*obligation, now)
		if err != nil {
			s.logger.Warn("leaving obligation out of report",
				zap.String("op", "service.ExportReport"),
				zap.String("reference", obligation.Reference),
				zap.Error(err),
			)
			continue
		}
		rows = append(rows, row)
	}

	data, err := report.BuildWorkbook(rows, now)
	if err != nil {
		return nil, customError.WrapStorageError(err)
	}

	key, url, err := s.reports.Store(ctx, report.FileName(now), data)
	if err != nil {
		return nil, customError.WrapStorageError(err)
	}

	s.logger.Info("report exported",
		zap.String("op", "service.ExportReport"),
		zap.String("key", key),
		zap.Int("rows", len(rows)),
	)

	return &domain.ReportExport{
		Key:       key,
		URL:       url,
		Rows:      len(rows),
		CreatedAt: now.Format(time.RFC3339),
	}, nil
}

func (s *ObligationService) buildStatus(obligation domain.Obligation, now time.Time) (*domain.StatusResponse, error) {
	total, err := s.calculator.TotalOwedWithInterest(obligation, now)
	if err != nil {
		return nil, err
	}
	remaining, err := s.calculator.RemainingWithInterest(obligation, now)
	if err != nil {
		return nil, err
	}

	return &domain.StatusResponse{
		Reference:             obligation.Reference,
		PaymentType:           obligation.PaymentType(),
		Status:                s.calculator.Status(obligation, now),
		IsOverdue:             s.calculator.IsOverdue(obligation, now),
		PaidCount:             engine.PaidCount(obligation),
		TotalWithInterest:     total,
		RemainingWithInterest: remaining,
		ReferenceDate:         now.Format(domain.DateLayout),
	}, nil
}

func (s *ObligationService) reportRow(obligation domain.Obligation, now time.Time) (domain.ReportRow, error) {
	status, err := s.buildStatus(obligation, now)
	if err != nil {
		return domain.ReportRow{}, err
	}

	count := 0
	switch plan := obligation.Plan.(type) {
	case domain.InstallmentPlan:
		count = plan.Tiers.Total()
	case domain.DownPaymentPlan:
		count = plan.Tiers.Total()
	}

	return domain.ReportRow{
		Reference:             obligation.Reference,
		AuctionID:             obligation.AuctionID,
		LotID:                 obligation.LotID,
		BidderName:            obligation.BidderName,
		PaymentType:           obligation.PaymentType(),
		Status:                status.Status,
		InstallmentCount:      count,
		PaidCount:             status.PaidCount,
		TotalAmount:           obligation.TotalAmount,
		TotalWithInterest:     status.TotalWithInterest,
		RemainingWithInterest: status.RemainingWithInterest,
	}, nil
}

func (s *ObligationService) storeStatus(ctx context.Context, status *domain.StatusResponse) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, status); err != nil {
		s.logger.Warn("failed to cache status",
			zap.String("op", "service.storeStatus"),
			zap.String("reference", status.Reference),
			zap.Error(err),
		)
	}
}

func (s *ObligationService) invalidate(ctx context.Context, reference string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, reference); err != nil {
		s.logger.Warn("failed to invalidate cached status",
			zap.String("op", "service.invalidate"),
			zap.String("reference", reference),
			zap.Error(err),
		)
	}
}

func validAmount(amount decimal.Decimal) bool {
	return !amount.IsNegative() && utils.FitsNumeric(amount, utils.AmountPrecision, utils.CurrencyPlaces)
}

func validRate(rate decimal.Decimal) bool {
	return !rate.IsNegative() && utils.FitsNumeric(rate, utils.RatePrecision, utils.RatePlaces)
}
