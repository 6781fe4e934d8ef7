package loans

import (
	"github.com/iwvelando/paydown-forecast/pkg/constants"
	"github.com/iwvelando/paydown-forecast/pkg/errs"
	"github.com/iwvelando/paydown-forecast/pkg/mathutil"
)

// MinimumPaymentPolicy selects how the minimum payment of a fixed loan is
// derived from its balance.
type MinimumPaymentPolicy struct {
	// Type is constants.MinimumPaymentPercentage (Rate x balance) or
	// constants.MinimumPaymentTiered.
	Type int
	// Low is the balance at or below which the whole balance is due.
	Low float64
	// High is the balance above which Rate x balance is due.
	High float64
	// Rate is the fraction of the balance charged.
	Rate float64
	// Fees are added to every tiered minimum payment.
	Fees float64
}

// DefaultMinimumPaymentPolicy returns the tiered policy with a $25 floor, a
// $1,000 threshold and a 2% rate.
func DefaultMinimumPaymentPolicy() MinimumPaymentPolicy {
	return MinimumPaymentPolicy{
		Type: constants.MinimumPaymentTiered,
		Low:  constants.DefaultMinimumPaymentLow,
		High: constants.DefaultMinimumPaymentHigh,
		Rate: constants.DefaultMinimumPaymentRate,
	}
}

// Validate rejects unknown policy types.
func (p MinimumPaymentPolicy) Validate() error {
	switch p.Type {
	case constants.MinimumPaymentPercentage, constants.MinimumPaymentTiered:
		return nil
	}
	return errs.InvalidOptionf("unknown minimum payment type %d", p.Type)
}

// For returns the minimum payment due on balance, rounded up to the next whole
// currency unit. Creditors round up so neither side handles cents.
func (p MinimumPaymentPolicy) For(balance float64) (float64, error) {
	var raw float64
	switch p.Type {
	case constants.MinimumPaymentPercentage:
		raw = p.Rate * balance
	case constants.MinimumPaymentTiered:
		switch {
		case balance > p.High:
			raw = p.Rate*balance + p.Fees
		case balance > p.Low:
			raw = p.Low + p.Fees
		default:
			raw = balance + p.Fees
		}
	default:
		return 0, errs.InvalidOptionf("unknown minimum payment type %d", p.Type)
	}
	return mathutil.CeilUnit(raw), nil
}
