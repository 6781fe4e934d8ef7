// Package loans models the loan products a borrower can pay down: a fixed
// amortizing loan with a level payment and a banded, tiered product whose
// minimum payment depends on the band the loan was originated in.
package loans

import (
	"fmt"
	"math"

	"github.com/iwvelando/paydown-forecast/pkg/constants"
	"github.com/iwvelando/paydown-forecast/pkg/errs"
	"github.com/iwvelando/paydown-forecast/pkg/mathutil"
	"github.com/iwvelando/paydown-forecast/pkg/period"
)

// Kind tags the loan variant.
type Kind int

const (
	KindFixedAmortizing Kind = iota + 1
	KindBandedTiered
)

// String returns the configuration name of the variant.
func (k Kind) String() string {
	switch k {
	case KindFixedAmortizing:
		return "fixed"
	case KindBandedTiered:
		return "banded"
	}
	return fmt.Sprintf("loan kind(%d)", int(k))
}

// PeriodContext carries the running state the engine threads through a
// simulation into a payment calculation.
type PeriodContext struct {
	// Balance is the loan balance before this period's interest accrues.
	Balance float64
	// PaymentsMade counts the payments applied so far.
	PaymentsMade int
	// Cadence is the schedule payments are made on.
	Cadence period.Rule
}

// Loan is the capability shared by both loan variants.
type Loan interface {
	// Kind reports the variant.
	Kind() Kind
	// Balance returns the origination balance.
	Balance() float64
	// APR returns the annual rate, in percent, in force once paymentsMade
	// payments have been applied.
	APR(paymentsMade int) float64
	// PaymentForPeriod returns the payment due for one period of ctx.Cadence,
	// never more than the balance plus that period's interest.
	PaymentForPeriod(ctx PeriodContext) (float64, error)
	// MinimumPayment returns the minimum payment due on the origination balance.
	MinimumPayment() (float64, error)
	// Band returns the band index, or false for loans without bands.
	Band() (int, bool)
}

// PeriodicRate converts an APR in percent to the rate of one period of cadence.
func PeriodicRate(apr float64, cadence period.Rule) float64 {
	return cadence.AdjustMonthly(mathutil.FromPercentage(apr) / constants.MonthsPerYear)
}

// CalculatePayment calculates the level payment that amortizes balance over
// term periods at rate per period using the standard annuity formula.
func CalculatePayment(balance, rate float64, term int) (float64, error) {
	if term <= 0 {
		return 0, errs.InvalidTermf("term must be greater than 0, got %d", term)
	}
	if rate == 0 {
		// For zero interest, simply divide the balance by term
		return balance / float64(term), nil
	}
	return balance * rate / (1 - math.Pow(1+rate, -float64(term))), nil
}

// CalculateInterestPayment calculates the interest accrued on balance over one
// period at rate.
func CalculateInterestPayment(balance, rate float64) float64 {
	return balance * rate
}

// PayoffAmount returns the amount that clears balance after one period of
// interest at rate, rounded to cents.
func PayoffAmount(balance, rate float64) float64 {
	return mathutil.Round(balance + CalculateInterestPayment(balance, rate))
}
