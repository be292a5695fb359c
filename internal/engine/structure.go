package engine

import (
	"github.com/segyhp/auction-billing/internal/domain"
	customError "github.com/segyhp/auction-billing/pkg/errors"
	"github.com/segyhp/auction-billing/pkg/utils"

	"github.com/shopspring/decimal"
)

// BuildInstallments splits totalAmount into weighted installments.
//
// Each tier gets round(weight * total / units, 2); triple-weight installments come first,
// then double, then single. Whatever the rounding leaves over is added to the last
// installment so the schedule sums to totalAmount exactly. Zero units yields an empty schedule.
func BuildInstallments(totalAmount decimal.Decimal, tiers domain.Tiers) ([]domain.Installment, error) {
	if totalAmount.IsNegative() {
		return nil, customError.WrapInvalidAmount(totalAmount.String())
	}
	if err := validateTiers(tiers); err != nil {
		return nil, err
	}

	units := tiers.Units()
	if units == 0 {
		return []domain.Installment{}, nil
	}

	// unrounded on purpose; only the per-tier amounts are rounded
	unitValue := totalAmount.Div(decimal.NewFromInt(int64(units)))

	installments := make([]domain.Installment, 0, tiers.Total())
	sum := decimal.Zero

	emit := func(count, weight int) {
		amount := utils.RoundCurrency(unitValue.Mul(decimal.NewFromInt(int64(weight))))
		for i := 0; i < count; i++ {
			installments = append(installments, domain.Installment{
				Index:      len(installments),
				Weight:     weight,
				BaseAmount: amount,
			})
			sum = sum.Add(amount)
		}
	}

	emit(tiers.Triple, 3)
	emit(tiers.Double, 2)
	emit(tiers.Single, 1)

	last := &installments[len(installments)-1]
	last.BaseAmount = last.BaseAmount.Add(totalAmount.Sub(sum))

	return installments, nil
}

func validateTiers(tiers domain.Tiers) error {
	switch {
	case tiers.Triple < 0:
		return customError.WrapInvalidCount("triple count", tiers.Triple)
	case tiers.Double < 0:
		return customError.WrapInvalidCount("double count", tiers.Double)
	case tiers.Single < 0:
		return customError.WrapInvalidCount("single count", tiers.Single)
	}
	return nil
}

// TotalInstallments is the number of installments in a tier configuration
func TotalInstallments(tiers domain.Tiers) int {
	return tiers.Total()
}
