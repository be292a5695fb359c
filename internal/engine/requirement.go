package engine

import (
	"github.com/segyhp/auction-billing/internal/domain"
	customError "github.com/segyhp/auction-billing/pkg/errors"
	"github.com/segyhp/auction-billing/pkg/utils"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// RequiredInstallmentCount is how many installments of perInstallment cover totalOwed.
// A remainder adds one irregular final installment. Non-positive inputs need no installments.
func RequiredInstallmentCount(totalOwed decimal.Decimal, perInstallment decimal.Decimal) int {
	if !totalOwed.IsPositive() || !perInstallment.IsPositive() {
		return 0
	}
	quotient, remainder := totalOwed.QuoRem(perInstallment, 0)
	count := int(quotient.IntPart())
	if !remainder.IsZero() {
		count++
	}
	return count
}

// ValidatePlan checks a wizard plan configuration: the configured tiers must add up to
// exactly the number of installments needed to cover principal, commission and down payment.
func ValidatePlan(form domain.PlanForm) (domain.PlanValidation, error) {
	amounts := []decimal.Decimal{form.PrincipalAmount, form.CommissionPercent, form.DownPaymentAmount, form.InstallmentAmount}
	for _, amount := range amounts {
		if amount.IsNegative() {
			return domain.PlanValidation{}, customError.WrapInvalidAmount(amount.String())
		}
	}
	if err := validateTiers(form.Tiers); err != nil {
		return domain.PlanValidation{}, err
	}

	commission := form.PrincipalAmount.Mul(form.CommissionPercent).Div(hundred)
	totalOwed := utils.RoundCurrency(form.PrincipalAmount.Add(commission).Add(form.DownPaymentAmount))

	required := RequiredInstallmentCount(totalOwed, form.InstallmentAmount)
	configured := TotalInstallments(form.Tiers)

	return domain.PlanValidation{
		TotalOwed:       totalOwed,
		RequiredCount:   required,
		ConfiguredCount: configured,
		Matches:         required > 0 && required == configured,
	}, nil
}
