// Package format renders amounts for people rather than machines.
package format

import (
	"strings"

	"github.com/segyhp/auction-billing/pkg/utils"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var brazilian = message.NewPrinter(language.BrazilianPortuguese)

// BRL formats an amount as Brazilian reais, e.g. R$ 1.234,56
func BRL(amount decimal.Decimal) string {
	return "R$ " + localized(amount, utils.CurrencyPlaces)
}

// Percent formats a rate with the Brazilian decimal comma, e.g. 2,50%
func Percent(rate decimal.Decimal) string {
	return localized(rate, 2) + "%"
}

// localized rounds value half away from zero and writes it with pt-BR separators.
// Only the integer part goes through the printer so no digit passes through a float.
func localized(value decimal.Decimal, places int32) string {
	rounded := value.Round(places)
	digits := rounded.Abs().StringFixed(places)

	fraction := ""
	if i := strings.IndexByte(digits, '.'); i >= 0 {
		fraction = "," + digits[i+1:]
	}

	sign := ""
	if rounded.IsNegative() {
		sign = "-"
	}
	return sign + brazilian.Sprintf("%d", rounded.Abs().IntPart()) + fraction
}
