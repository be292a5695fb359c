package engine

import (
	"errors"
	"testing"

	"github.com/segyhp/auction-billing/internal/domain"
	customError "github.com/segyhp/auction-billing/pkg/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequiredInstallmentCount(t *testing.T) {
	tests := []struct {
		name     string
		total    string
		per      string
		expected int
	}{
		{"exact division", "900", "300", 3},
		{"remainder adds an installment", "1000", "300", 4},
		{"cents remainder", "1000.01", "250", 5},
		{"installment above total", "100", "250", 1},
		{"zero total", "0", "300", 0},
		{"zero installment", "1000", "0", 0},
		{"negative installment", "1000", "-10", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := RequiredInstallmentCount(decimal.RequireFromString(tt.total), decimal.RequireFromString(tt.per))
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestValidatePlan(t *testing.T) {
	base := domain.PlanForm{
		PrincipalAmount:   decimal.NewFromInt(10000),
		CommissionPercent: decimal.NewFromInt(5),
		DownPaymentAmount: decimal.NewFromInt(1500),
		InstallmentAmount: decimal.NewFromInt(1000),
		Tiers:             domain.Tiers{Triple: 1, Double: 1, Single: 10},
	}

	t.Run("matching configuration", func(t *testing.T) {
		result, err := ValidatePlan(base)
		require.NoError(t, err)
		assert.Equal(t, "12000.00", result.TotalOwed.StringFixed(2))
		assert.Equal(t, 12, result.RequiredCount)
		assert.Equal(t, 12, result.ConfiguredCount)
		assert.True(t, result.Matches)
	})

	t.Run("too few installments", func(t *testing.T) {
		form := base
		form.Tiers = domain.Tiers{Single: 10}
		result, err := ValidatePlan(form)
		require.NoError(t, err)
		assert.Equal(t, 12, result.RequiredCount)
		assert.Equal(t, 10, result.ConfiguredCount)
		assert.False(t, result.Matches)
	})

	t.Run("no installment amount never matches", func(t *testing.T) {
		form := base
		form.InstallmentAmount = decimal.Zero
		form.Tiers = domain.Tiers{}
		result, err := ValidatePlan(form)
		require.NoError(t, err)
		assert.Zero(t, result.RequiredCount)
		assert.False(t, result.Matches)
	})

	t.Run("negative amount", func(t *testing.T) {
		form := base
		form.DownPaymentAmount = decimal.NewFromInt(-1)
		_, err := ValidatePlan(form)
		assert.True(t, errors.Is(err, customError.ErrInvalidAmount))
	})

	t.Run("negative tier", func(t *testing.T) {
		form := base
		form.Tiers = domain.Tiers{Single: -2}
		_, err := ValidatePlan(form)
		assert.True(t, errors.Is(err, customError.ErrInvalidCount))
	})
}
