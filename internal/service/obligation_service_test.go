package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/segyhp/auction-billing/internal/config"
	"github.com/segyhp/auction-billing/internal/domain"
	"github.com/segyhp/auction-billing/internal/mocks"
	customError "github.com/segyhp/auction-billing/pkg/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 4, 11, 10, 0, 0, 0, time.UTC)

type testDeps struct {
	obligations *mocks.MockObligationRepository
	payments    *mocks.MockPaymentRepository
	cache       *mocks.MockStatusCache
	reports     *mocks.MockReportStore
}

func newTestService(t *testing.T) (*ObligationService, testDeps) {
	t.Helper()

	deps := testDeps{
		obligations: &mocks.MockObligationRepository{},
		payments:    &mocks.MockPaymentRepository{},
		cache:       &mocks.MockStatusCache{},
		reports:     &mocks.MockReportStore{},
	}
	cfg := &config.Config{Business: config.BusinessConfig{DefaultLateInterestPercent: "2", DueDayPolicy: "overflow"}}

	service, err := NewObligationService(deps.obligations, deps.payments, deps.cache, cfg, nil,
		WithClock(func() time.Time { return testNow }),
		WithReportStore(deps.reports),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		deps.obligations.AssertExpectations(t)
		deps.payments.AssertExpectations(t)
		deps.cache.AssertExpectations(t)
		deps.reports.AssertExpectations(t)
	})
	return service, deps
}

func datePtr(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

// three singles of 1000.00 due on the 10th from February 2024
func installmentObligation(reference string, paid int) *domain.Obligation {
	return &domain.Obligation{
		ID:                  uuid.New(),
		Reference:           reference,
		AuctionID:           "AUC-1",
		TotalAmount:         decimal.NewFromInt(3000),
		LateInterestPercent: decimal.NewFromInt(2),
		Plan: domain.InstallmentPlan{Schedule: domain.Schedule{
			StartMonth: &domain.YearMonth{Year: 2024, Month: time.February},
			DueDay:     10,
			Tiers:      domain.Tiers{Single: 3},
			PaidCount:  paid,
		}},
	}
}

func downPaymentObligation(reference string, paid int) *domain.Obligation {
	o := installmentObligation(reference, paid)
	o.Plan = domain.DownPaymentPlan{
		Amount:   decimal.NewFromInt(1000),
		DueDate:  datePtr(2024, 1, 5),
		Schedule: o.Plan.(domain.InstallmentPlan).Schedule,
	}
	return o
}

func cashObligation(reference string) *domain.Obligation {
	return &domain.Obligation{
		ID:                  uuid.New(),
		Reference:           reference,
		TotalAmount:         decimal.NewFromInt(5000),
		LateInterestPercent: decimal.NewFromInt(1),
		Plan:                domain.CashPlan{DueDate: datePtr(2024, 1, 15)},
	}
}

func TestCreateObligation_Success(t *testing.T) {
	service, deps := newTestService(t)

	request := &domain.CreateObligationRequest{
		Reference:             "AUC-1/LOT-7",
		AuctionID:             "AUC-1",
		LotID:                 "LOT-7",
		BidderName:            "Paulo Mendes",
		PaymentType:           domain.PaymentTypeInstallments,
		TotalAmount:           decimal.RequireFromString("12000.00"),
		InstallmentStartMonth: "2024-02",
		DueDay:                10,
		Tiers:                 domain.Tiers{Triple: 1, Double: 1, Single: 4},
	}

	deps.obligations.On("Create", mock.Anything, mock.MatchedBy(func(o *domain.Obligation) bool {
		return o.Reference == request.Reference &&
			o.ID != uuid.Nil &&
			o.CreatedAt.Equal(testNow) &&
			o.LateInterestPercent.Equal(decimal.NewFromInt(2))
	})).Return(nil)

	obligation, installments, err := service.CreateObligation(context.Background(), request)

	require.NoError(t, err)
	assert.Equal(t, domain.PaymentTypeInstallments, obligation.PaymentType())
	require.Len(t, installments, 6)
	assert.Equal(t, "4000.00", installments[0].BaseAmount.StringFixed(2))
	assert.Equal(t, "1333.34", installments[5].BaseAmount.StringFixed(2))
	assert.Equal(t, time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), *installments[0].DueDate)
	assert.Equal(t, time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC), *installments[5].DueDate)
}

func TestCreateObligation_ExplicitZeroInterest(t *testing.T) {
	service, deps := newTestService(t)
	zero := decimal.Zero

	deps.obligations.On("Create", mock.Anything, mock.MatchedBy(func(o *domain.Obligation) bool {
		return o.LateInterestPercent.IsZero()
	})).Return(nil)

	_, _, err := service.CreateObligation(context.Background(), &domain.CreateObligationRequest{
		Reference:           "LOT-0",
		PaymentType:         domain.PaymentTypeCash,
		TotalAmount:         decimal.NewFromInt(100),
		LateInterestPercent: &zero,
	})
	require.NoError(t, err)
}

func TestCreateObligation_Rejected(t *testing.T) {
	negative := decimal.NewFromInt(-10)
	subCent := decimal.RequireFromString("10.001")
	preciseRate := decimal.RequireFromString("2.12345")
	hugeRate := decimal.NewFromInt(1000)

	tests := []struct {
		name     string
		request  domain.CreateObligationRequest
		sentinel error
	}{
		{
			name: "due day outside the month",
			request: domain.CreateObligationRequest{
				PaymentType:           domain.PaymentTypeInstallments,
				TotalAmount:           decimal.NewFromInt(100),
				InstallmentStartMonth: "2024-02",
				DueDay:                32,
				Tiers:                 domain.Tiers{Single: 2},
			},
			sentinel: customError.ErrInvalidDueDay,
		},
		{
			name: "negative tier",
			request: domain.CreateObligationRequest{
				PaymentType: domain.PaymentTypeInstallments,
				TotalAmount: decimal.NewFromInt(100),
				Tiers:       domain.Tiers{Single: -1},
			},
			sentinel: customError.ErrInvalidCount,
		},
		{
			name: "negative total",
			request: domain.CreateObligationRequest{
				PaymentType: domain.PaymentTypeCash,
				TotalAmount: decimal.NewFromInt(-1),
			},
			sentinel: customError.ErrInvalidAmount,
		},
		{
			name: "negative down payment",
			request: domain.CreateObligationRequest{
				PaymentType:       domain.PaymentTypeDownPaymentPlusInstallments,
				TotalAmount:       decimal.NewFromInt(100),
				DownPaymentAmount: &negative,
			},
			sentinel: customError.ErrInvalidAmount,
		},
		{
			name: "fraction of a cent in total",
			request: domain.CreateObligationRequest{
				PaymentType: domain.PaymentTypeInstallments,
				TotalAmount: decimal.RequireFromString("100.005"),
				Tiers:       domain.Tiers{Single: 3},
			},
			sentinel: customError.ErrInvalidAmount,
		},
		{
			name: "total beyond column range",
			request: domain.CreateObligationRequest{
				PaymentType: domain.PaymentTypeCash,
				TotalAmount: decimal.RequireFromString("10000000000000"),
			},
			sentinel: customError.ErrInvalidAmount,
		},
		{
			name: "fraction of a cent in down payment",
			request: domain.CreateObligationRequest{
				PaymentType:       domain.PaymentTypeDownPaymentPlusInstallments,
				TotalAmount:       decimal.NewFromInt(100),
				DownPaymentAmount: &subCent,
			},
			sentinel: customError.ErrInvalidAmount,
		},
		{
			name: "rate with five decimals",
			request: domain.CreateObligationRequest{
				PaymentType:         domain.PaymentTypeCash,
				TotalAmount:         decimal.NewFromInt(100),
				LateInterestPercent: &preciseRate,
			},
			sentinel: customError.ErrInvalidAmount,
		},
		{
			name: "rate beyond column range",
			request: domain.CreateObligationRequest{
				PaymentType:         domain.PaymentTypeCash,
				TotalAmount:         decimal.NewFromInt(100),
				LateInterestPercent: &hugeRate,
			},
			sentinel: customError.ErrInvalidAmount,
		},
		{
			name: "unparseable date",
			request: domain.CreateObligationRequest{
				PaymentType: domain.PaymentTypeCash,
				TotalAmount: decimal.NewFromInt(100),
				CashDueDate: "next friday",
			},
			sentinel: customError.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _ := newTestService(t)
			request := tt.request
			request.Reference = "LOT-X"

			_, _, err := service.CreateObligation(context.Background(), &request)
			assert.True(t, errors.Is(err, tt.sentinel), "got %v", err)
		})
	}
}

func TestCreateObligation_Duplicate(t *testing.T) {
	service, deps := newTestService(t)
	deps.obligations.On("Create", mock.Anything, mock.Anything).Return(customError.WrapObligationAlreadyExists("LOT-1"))

	_, _, err := service.CreateObligation(context.Background(), &domain.CreateObligationRequest{
		Reference:   "LOT-1",
		PaymentType: domain.PaymentTypeCash,
		TotalAmount: decimal.NewFromInt(100),
	})
	assert.True(t, errors.Is(err, customError.ErrObligationAlreadyExists))
}

func TestGetStatus_CacheHit(t *testing.T) {
	service, deps := newTestService(t)
	cached := &domain.StatusResponse{Reference: "LOT-1", Status: domain.ObligationStatusPending}
	deps.cache.On("Get", mock.Anything, "LOT-1", "2024-04-11").Return(cached, true, nil)

	status, err := service.GetStatus(context.Background(), "LOT-1")
	require.NoError(t, err)
	assert.Same(t, cached, status)
}

func TestGetStatus_Computed(t *testing.T) {
	service, deps := newTestService(t)
	deps.cache.On("Get", mock.Anything, "LOT-1", "2024-04-11").Return(nil, false, nil)
	deps.obligations.On("GetByReference", mock.Anything, "LOT-1").Return(downPaymentObligation("LOT-1", 1), nil)
	deps.cache.On("Set", mock.Anything, mock.AnythingOfType("*domain.StatusResponse")).Return(nil)

	status, err := service.GetStatus(context.Background(), "LOT-1")
	require.NoError(t, err)
	assert.Equal(t, domain.ObligationStatusOverdue, status.Status)
	assert.True(t, status.IsOverdue)
	assert.Equal(t, 1, status.PaidCount)
	assert.Equal(t, "4121.61", status.TotalWithInterest.StringFixed(2))
	assert.Equal(t, "3060.40", status.RemainingWithInterest.StringFixed(2))
	assert.Equal(t, "2024-04-11", status.ReferenceDate)
}

func TestGetStatus_CacheFailureFallsBack(t *testing.T) {
	service, deps := newTestService(t)
	deps.cache.On("Get", mock.Anything, "LOT-1", "2024-04-11").Return(nil, false, customError.WrapCacheError(errors.New("connection refused")))
	deps.obligations.On("GetByReference", mock.Anything, "LOT-1").Return(installmentObligation("LOT-1", 3), nil)
	deps.cache.On("Set", mock.Anything, mock.Anything).Return(customError.WrapCacheError(errors.New("connection refused")))

	status, err := service.GetStatus(context.Background(), "LOT-1")
	require.NoError(t, err)
	assert.Equal(t, domain.ObligationStatusPaid, status.Status)
	assert.True(t, status.RemainingWithInterest.IsZero())
}

func TestGetStatus_NotFound(t *testing.T) {
	service, deps := newTestService(t)
	deps.cache.On("Get", mock.Anything, "LOT-404", "2024-04-11").Return(nil, false, nil)
	deps.obligations.On("GetByReference", mock.Anything, "LOT-404").Return(nil, customError.WrapObligationNotFound("LOT-404"))

	_, err := service.GetStatus(context.Background(), "LOT-404")
	assert.True(t, errors.Is(err, customError.ErrObligationNotFound))
}

func TestGetSchedule(t *testing.T) {
	service, deps := newTestService(t)
	deps.obligations.On("GetByReference", mock.Anything, "LOT-1").Return(downPaymentObligation("LOT-1", 1), nil)

	rows, err := service.GetSchedule(context.Background(), "LOT-1")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, domain.ObligationStatusPaid, rows[0].Status)
	assert.Equal(t, "1040.40", rows[1].AmountWithInterest.StringFixed(2))
}

func TestRegisterPayment(t *testing.T) {
	tests := []struct {
		name       string
		obligation *domain.Obligation
		sequence   int
		kind       string
		amount     string
		progress   domain.PaymentProgress
	}{
		{
			name:       "late down payment",
			obligation: downPaymentObligation("LOT-1", 0),
			sequence:   1,
			kind:       domain.ScheduleKindDownPayment,
			amount:     "1061.21",
			progress:   domain.PaymentProgress{PreviousPaidCount: 0, PaidCount: 1},
		},
		{
			name:       "first installment after down payment",
			obligation: downPaymentObligation("LOT-1", 1),
			sequence:   2,
			kind:       domain.ScheduleKindInstallment,
			amount:     "1040.40",
			progress:   domain.PaymentProgress{PreviousPaidCount: 1, PaidCount: 2},
		},
		{
			name:       "last installment settles the plan",
			obligation: installmentObligation("LOT-1", 2),
			sequence:   3,
			kind:       domain.ScheduleKindInstallment,
			amount:     "1000.00",
			progress:   domain.PaymentProgress{PreviousPaidCount: 2, PaidCount: 3, FullyPaid: true},
		},
		{
			name:       "cash",
			obligation: cashObligation("LOT-1"),
			sequence:   1,
			kind:       domain.ScheduleKindCash,
			amount:     "5100.50",
			progress:   domain.PaymentProgress{FullyPaid: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, deps := newTestService(t)
			deps.obligations.On("GetByReference", mock.Anything, "LOT-1").Return(tt.obligation, nil)
			deps.obligations.On("RecordPayment", mock.Anything, mock.MatchedBy(func(p *domain.Payment) bool {
				return p.Sequence == tt.sequence && p.Kind == tt.kind && p.PaymentDate.Equal(testNow)
			}), tt.progress).Return(nil)
			deps.cache.On("Delete", mock.Anything, "LOT-1").Return(nil)

			payment, err := service.RegisterPayment(context.Background(), "LOT-1")
			require.NoError(t, err)
			assert.Equal(t, tt.amount, payment.Amount.StringFixed(2))
			assert.Equal(t, "LOT-1", payment.Reference)
		})
	}
}

func TestRegisterPayment_Settled(t *testing.T) {
	service, deps := newTestService(t)
	settled := cashObligation("LOT-1")
	settled.FullyPaid = true
	deps.obligations.On("GetByReference", mock.Anything, "LOT-1").Return(settled, nil)

	_, err := service.RegisterPayment(context.Background(), "LOT-1")
	assert.True(t, errors.Is(err, customError.ErrObligationSettled))
}

func TestRegisterPayment_AllInstallmentsPaid(t *testing.T) {
	service, deps := newTestService(t)
	deps.obligations.On("GetByReference", mock.Anything, "LOT-1").Return(installmentObligation("LOT-1", 3), nil)

	_, err := service.RegisterPayment(context.Background(), "LOT-1")
	assert.True(t, errors.Is(err, customError.ErrObligationSettled))
}

func TestRegisterPayment_ConcurrentUpdate(t *testing.T) {
	service, deps := newTestService(t)
	deps.obligations.On("GetByReference", mock.Anything, "LOT-1").Return(installmentObligation("LOT-1", 0), nil)
	deps.obligations.On("RecordPayment", mock.Anything, mock.Anything, mock.Anything).Return(customError.WrapConcurrentUpdate("LOT-1"))

	_, err := service.RegisterPayment(context.Background(), "LOT-1")
	assert.True(t, errors.Is(err, customError.ErrConcurrentUpdate))
}

func TestSettle(t *testing.T) {
	service, deps := newTestService(t)
	deps.obligations.On("GetByReference", mock.Anything, "LOT-1").Return(installmentObligation("LOT-1", 1), nil)
	deps.obligations.On("UpdatePayment", mock.Anything, "LOT-1", 1, true).Return(nil)
	deps.cache.On("Delete", mock.Anything, "LOT-1").Return(errors.New("redis down"))

	obligation, err := service.Settle(context.Background(), "LOT-1")
	require.NoError(t, err)
	assert.True(t, obligation.FullyPaid)
}

func TestListPayments(t *testing.T) {
	service, deps := newTestService(t)
	payments := []*domain.Payment{{Reference: "LOT-1", Sequence: 1}}
	deps.obligations.On("GetByReference", mock.Anything, "LOT-1").Return(installmentObligation("LOT-1", 1), nil)
	deps.payments.On("GetByReference", mock.Anything, "LOT-1").Return(payments, nil)

	result, err := service.ListPayments(context.Background(), "LOT-1")
	require.NoError(t, err)
	assert.Equal(t, payments, result)
}

func TestSweepOverdue(t *testing.T) {
	service, deps := newTestService(t)

	overdue := installmentObligation("LOT-LATE", 0)
	pending := installmentObligation("LOT-FUTURE", 0)
	pending.Plan = domain.InstallmentPlan{Schedule: domain.Schedule{
		StartMonth: &domain.YearMonth{Year: 2024, Month: time.May},
		DueDay:     10,
		Tiers:      domain.Tiers{Single: 3},
	}}
	broken := installmentObligation("LOT-BROKEN", 0)
	broken.Plan = domain.InstallmentPlan{Schedule: domain.Schedule{
		StartMonth: &domain.YearMonth{Year: 2024, Month: time.January},
		DueDay:     45,
		Tiers:      domain.Tiers{Single: 3},
	}}

	deps.obligations.On("ListOpen", mock.Anything).Return([]*domain.Obligation{overdue, pending, broken}, nil)
	deps.cache.On("Set", mock.Anything, mock.Anything).Return(nil).Times(2)

	result, err := service.SweepOverdue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2024-04-11", result.ReferenceDate)
	assert.Equal(t, 2, result.Evaluated)
	assert.Equal(t, 1, result.Overdue)
	assert.Equal(t, []string{"LOT-LATE"}, result.Overdues)
}

func TestSweepOverdue_ListFails(t *testing.T) {
	service, deps := newTestService(t)
	deps.obligations.On("ListOpen", mock.Anything).Return(nil, customError.WrapDatabaseError(errors.New("timeout")))

	_, err := service.SweepOverdue(context.Background())
	assert.Equal(t, customError.ErrCodeDatabaseError, customError.CodeOf(err))
}

func TestExportReport(t *testing.T) {
	service, deps := newTestService(t)
	filter := domain.ObligationFilter{AuctionID: "AUC-1"}

	deps.obligations.On("List", mock.Anything, filter).Return([]*domain.Obligation{
		downPaymentObligation("LOT-1", 1),
		cashObligation("LOT-2"),
	}, nil)
	deps.reports.On("Store", mock.Anything, "obligations_20240411_100000.xlsx", mock.MatchedBy(func(data []byte) bool {
		return len(data) > 0
	})).Return("reports/obligations_20240411_100000.xlsx", "https://s3.local/reports/obligations_20240411_100000.xlsx", nil)

	export, err := service.ExportReport(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, 2, export.Rows)
	assert.Equal(t, "reports/obligations_20240411_100000.xlsx", export.Key)
	assert.Equal(t, "2024-04-11T10:00:00Z", export.CreatedAt)
}

func TestExportReport_StoreFails(t *testing.T) {
	service, deps := newTestService(t)
	deps.obligations.On("List", mock.Anything, mock.Anything).Return([]*domain.Obligation{}, nil)
	deps.reports.On("Store", mock.Anything, mock.Anything, mock.Anything).Return("", "", errors.New("access denied"))

	_, err := service.ExportReport(context.Background(), domain.ObligationFilter{})
	assert.Equal(t, customError.ErrCodeStorageError, customError.CodeOf(err))
}

func TestExportReport_NotConfigured(t *testing.T) {
	cfg := &config.Config{Business: config.BusinessConfig{DefaultLateInterestPercent: "2"}}
	service, err := NewObligationService(&mocks.MockObligationRepository{}, &mocks.MockPaymentRepository{}, nil, cfg, nil)
	require.NoError(t, err)

	_, err = service.ExportReport(context.Background(), domain.ObligationFilter{})
	assert.Equal(t, customError.ErrCodeStorageError, customError.CodeOf(err))
}

func TestNewObligationService_InvalidPolicy(t *testing.T) {
	cfg := &config.Config{Business: config.BusinessConfig{DueDayPolicy: "nearest"}}
	_, err := NewObligationService(nil, nil, nil, cfg, nil)
	assert.Error(t, err)
}

func TestValidatePlan(t *testing.T) {
	service, _ := newTestService(t)

	result, err := service.ValidatePlan(domain.PlanForm{
		PrincipalAmount:   decimal.NewFromInt(900),
		InstallmentAmount: decimal.NewFromInt(300),
		Tiers:             domain.Tiers{Single: 3},
	})
	require.NoError(t, err)
	assert.True(t, result.Matches)
}
