// Package format renders money for people.
package format

import (
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/paydown-forecast/pkg/constants"
	"github.com/shopspring/decimal"
)

// Currency returns a currency string with a dollar sign and thousands separators (e.g., "-$1,234.56").
func Currency(amount float64) string {
	formatted := formatPositiveCurrency(fmt.Sprintf("%.2f", math.Abs(amount)))
	if amount < 0 && formatted != "0.00" {
		return "-$" + formatted
	}
	return "$" + formatted
}

// DecimalCurrency formats a decimal amount like Currency without going through
// a float.
func DecimalCurrency(amount decimal.Decimal) string {
	formatted := formatPositiveCurrency(amount.Abs().StringFixed(constants.CurrencyPlaces))
	if amount.IsNegative() && formatted != "0.00" {
		return "-$" + formatted
	}
	return "$" + formatted
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
func NumericCurrency(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
	}
	formatted := formatPositiveCurrency(fmt.Sprintf("%.2f", math.Abs(amount)))
	return sign + formatted
}

// Percent formats a rate given in percent, e.g. "59.975%".
func Percent(pct float64) string {
	return decimal.NewFromFloat(pct).Round(4).String() + "%"
}

func formatPositiveCurrency(formatted string) string {
	parts := strings.SplitN(formatted, ".", 2)
	intPart := parts[0]
	decPart := "00"
	if len(parts) == 2 {
		decPart = parts[1]
	}

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	return intPart + "." + decPart
}
