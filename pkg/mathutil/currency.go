// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/paydown-forecast/pkg/constants"
	"github.com/shopspring/decimal"
)

// ceilingGuardPlaces drops float noise below a millionth of a currency unit
// before taking a ceiling, so 40.000000000000007 ceils to 40 and not 41.
const ceilingGuardPlaces = 6

// Round rounds a value to two decimals, i.e. to represent real currency.
// Used for making logical comparisons.
func Round(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// CeilUnit rounds a non-negative amount up to the next whole currency unit
// using decimal arithmetic. Exact whole amounts are returned unchanged.
func CeilUnit(val float64) float64 {
	return decimal.NewFromFloat(val).Round(ceilingGuardPlaces).Ceil().InexactFloat64()
}

// Money converts a float amount to a decimal rounded to cents.
func Money(val float64) decimal.Decimal {
	return decimal.NewFromFloat(val).Round(constants.CurrencyPlaces)
}

// IsZero checks if a value is effectively zero (within tolerance)
func IsZero(val float64) bool {
	return math.Abs(val) <= constants.CurrencyTolerance
}

// IsPositive checks if a value is positive (greater than tolerance)
func IsPositive(val float64) bool {
	return val > constants.CurrencyTolerance
}

// Min returns the minimum of two float64 values
func Min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// Max returns the maximum of two float64 values
func Max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// FromPercentage converts a percentage (59.975) to a fraction (0.59975).
func FromPercentage(percentage float64) float64 {
	return percentage / constants.PercentageMultiplier
}

// ToPercentage converts a fraction (0.01) to a percentage (1.0).
func ToPercentage(fraction float64) float64 {
	return fraction * constants.PercentageMultiplier
}
