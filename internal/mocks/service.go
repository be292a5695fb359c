package mocks

import (
	"context"

	"github.com/segyhp/auction-billing/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MockObligationService struct {
	mock.Mock
}

func (m *MockObligationService) CreateObligation(ctx context.Context, request *domain.CreateObligationRequest) (*domain.Obligation, []domain.Installment, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Obligation), args.Get(1).([]domain.Installment), args.Error(2)
}

func (m *MockObligationService) GetObligation(ctx context.Context, reference string) (*domain.Obligation, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Obligation), args.Error(1)
}

func (m *MockObligationService) ListObligations(ctx context.Context, filter domain.ObligationFilter) ([]*domain.Obligation, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Obligation), args.Error(1)
}

func (m *MockObligationService) ListPayments(ctx context.Context, reference string) ([]*domain.Payment, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Payment), args.Error(1)
}

func (m *MockObligationService) GetSchedule(ctx context.Context, reference string) ([]domain.ScheduledInstallment, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ScheduledInstallment), args.Error(1)
}

func (m *MockObligationService) GetStatus(ctx context.Context, reference string) (*domain.StatusResponse, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StatusResponse), args.Error(1)
}

func (m *MockObligationService) RegisterPayment(ctx context.Context, reference string) (*domain.Payment, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockObligationService) Settle(ctx context.Context, reference string) (*domain.Obligation, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Obligation), args.Error(1)
}

func (m *MockObligationService) ValidatePlan(form domain.PlanForm) (domain.PlanValidation, error) {
	args := m.Called(form)
	return args.Get(0).(domain.PlanValidation), args.Error(1)
}

func (m *MockObligationService) SweepOverdue(ctx context.Context) (domain.SweepResult, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.SweepResult), args.Error(1)
}

func (m *MockObligationService) ExportReport(ctx context.Context, filter domain.ObligationFilter) (*domain.ReportExport, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReportExport), args.Error(1)
}

// NewMockObligationService creates a new mock obligation service instance
func NewMockObligationService() *MockObligationService {
	return &MockObligationService{}
}
