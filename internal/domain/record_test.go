package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObligationRecord_RoundTrip(t *testing.T) {
	due := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	base := Obligation{
		ID:                  uuid.New(),
		Reference:           "AUC-1/LOT-7",
		AuctionID:           "AUC-1",
		LotID:               "LOT-7",
		BidderName:          "Maria Souza",
		TotalAmount:         decimal.RequireFromString("12000.00"),
		LateInterestPercent: decimal.NewFromInt(2),
	}
	schedule := Schedule{
		StartMonth: &YearMonth{Year: 2024, Month: time.February},
		DueDay:     10,
		Tiers:      Tiers{Triple: 1, Double: 1, Single: 4},
		PaidCount:  2,
	}

	tests := []struct {
		name string
		plan Plan
	}{
		{"cash", CashPlan{DueDate: &due}},
		{"cash without due date", CashPlan{}},
		{"installments", InstallmentPlan{Schedule: schedule}},
		{"installments without dates", InstallmentPlan{Schedule: Schedule{Tiers: Tiers{Single: 3}}}},
		{"down payment", DownPaymentPlan{Amount: decimal.NewFromInt(1500), DueDate: &due, Schedule: schedule}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obligation := base
			obligation.Plan = tt.plan

			record := NewObligationRecord(obligation)
			assert.Equal(t, tt.plan.Type(), record.PaymentType)

			restored := record.ToObligation()
			assert.Equal(t, obligation.Reference, restored.Reference)
			assert.True(t, obligation.TotalAmount.Equal(restored.TotalAmount))
			assert.Equal(t, obligation.PaymentType(), restored.PaymentType())
			assert.Equal(t, tt.plan, restored.Plan)
		})
	}
}

func TestObligationRecord_ColumnsPerPlan(t *testing.T) {
	cash := NewObligationRecord(Obligation{Plan: CashPlan{}})
	assert.Nil(t, cash.StartYear)
	assert.Nil(t, cash.DueDay)
	assert.False(t, cash.DownPaymentAmount.Valid)

	down := NewObligationRecord(Obligation{Plan: DownPaymentPlan{Amount: decimal.NewFromInt(10)}})
	assert.True(t, down.DownPaymentAmount.Valid)
	assert.Nil(t, down.StartMonth)
}

func TestObligationRecord_UnknownTypeFallsBackToInstallments(t *testing.T) {
	record := ObligationRecord{PaymentType: "barter", SingleCount: 2}
	obligation := record.ToObligation()
	plan, ok := obligation.Plan.(InstallmentPlan)
	require.True(t, ok)
	assert.Equal(t, 2, plan.Tiers.Single)
}

func TestObligationRecord_DatesAreNormalised(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	stored := time.Date(2024, 3, 15, 21, 30, 0, 0, loc)
	record := ObligationRecord{PaymentType: PaymentTypeCash, CashDueDate: &stored}

	plan := record.ToObligation().Plan.(CashPlan)
	require.NotNil(t, plan.DueDate)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), *plan.DueDate)
}

func TestObligation_WithPaidCount(t *testing.T) {
	obligation := Obligation{Plan: InstallmentPlan{Schedule: Schedule{Tiers: Tiers{Single: 3}, PaidCount: 1}}}
	updated := obligation.WithPaidCount(2)

	assert.Equal(t, 2, updated.Plan.(InstallmentPlan).PaidCount)
	assert.Equal(t, 1, obligation.Plan.(InstallmentPlan).PaidCount)

	cash := Obligation{Plan: CashPlan{}}
	assert.Equal(t, cash, cash.WithPaidCount(5))
}

func TestPaymentType_Valid(t *testing.T) {
	assert.True(t, PaymentTypeCash.Valid())
	assert.True(t, PaymentTypeInstallments.Valid())
	assert.True(t, PaymentTypeDownPaymentPlusInstallments.Valid())
	assert.False(t, PaymentType("barter").Valid())
	assert.Equal(t, PaymentTypeInstallments, Obligation{}.PaymentType())
}
