package mocks

import (
	"context"

	"github.com/segyhp/auction-billing/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MockObligationRepository struct {
	mock.Mock
}

func (m *MockObligationRepository) Create(ctx context.Context, obligation *domain.Obligation) error {
	args := m.Called(ctx, obligation)
	return args.Error(0)
}

func (m *MockObligationRepository) GetByReference(ctx context.Context, reference string) (*domain.Obligation, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Obligation), args.Error(1)
}

func (m *MockObligationRepository) List(ctx context.Context, filter domain.ObligationFilter) ([]*domain.Obligation, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Obligation), args.Error(1)
}

func (m *MockObligationRepository) ListOpen(ctx context.Context) ([]*domain.Obligation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Obligation), args.Error(1)
}

func (m *MockObligationRepository) UpdatePayment(ctx context.Context, reference string, paidCount int, fullyPaid bool) error {
	args := m.Called(ctx, reference, paidCount, fullyPaid)
	return args.Error(0)
}

func (m *MockObligationRepository) RecordPayment(ctx context.Context, payment *domain.Payment, progress domain.PaymentProgress) error {
	args := m.Called(ctx, payment, progress)
	return args.Error(0)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetByReference(ctx context.Context, reference string) ([]*domain.Payment, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Payment), args.Error(1)
}

type MockStatusCache struct {
	mock.Mock
}

func (m *MockStatusCache) Get(ctx context.Context, reference string, referenceDate string) (*domain.StatusResponse, bool, error) {
	args := m.Called(ctx, reference, referenceDate)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.StatusResponse), args.Bool(1), args.Error(2)
}

func (m *MockStatusCache) Set(ctx context.Context, status *domain.StatusResponse) error {
	args := m.Called(ctx, status)
	return args.Error(0)
}

func (m *MockStatusCache) Delete(ctx context.Context, reference string) error {
	args := m.Called(ctx, reference)
	return args.Error(0)
}

type MockReportStore struct {
	mock.Mock
}

func (m *MockReportStore) Store(ctx context.Context, fileName string, data []byte) (string, string, error) {
	args := m.Called(ctx, fileName, data)
	return args.String(0), args.String(1), args.Error(2)
}
