package loans

import (
	"github.com/iwvelando/paydown-forecast/pkg/constants"
	"github.com/iwvelando/paydown-forecast/pkg/errs"
	"github.com/iwvelando/paydown-forecast/pkg/mathutil"
)

// FixedAmortizingLoan is a loan with a fixed monthly rate. With a term it pays
// a level annuity payment; without one it pays its minimum payment policy.
type FixedAmortizingLoan struct {
	balance float64
	rate    float64
	term    int
	policy  MinimumPaymentPolicy

	// The level payment never changes over the life of the loan, so it is
	// computed once here.
	payment    float64
	paymentErr error
}

// NewFixedAmortizingLoan creates a loan of balance at rate per month over term
// months. A term of 0 means open-ended; Payment then fails with
// errs.ErrInvalidTerm and the loan pays its minimum payment.
func NewFixedAmortizingLoan(balance, rate float64, term int, policy MinimumPaymentPolicy) (*FixedAmortizingLoan, error) {
	if balance < 0 {
		return nil, errs.OutOfRangef("balance %.2f must not be negative", balance)
	}
	if rate < 0 {
		return nil, errs.OutOfRangef("rate %.6f must not be negative", rate)
	}
	if term < 0 {
		return nil, errs.InvalidTermf("term must not be negative, got %d", term)
	}
	loan := &FixedAmortizingLoan{
		balance: balance,
		rate:    rate,
		term:    term,
		policy:  policy,
	}
	loan.payment, loan.paymentErr = CalculatePayment(balance, rate, term)
	return loan, nil
}

// Kind reports KindFixedAmortizing.
func (l *FixedAmortizingLoan) Kind() Kind { return KindFixedAmortizing }

// Balance returns the origination balance.
func (l *FixedAmortizingLoan) Balance() float64 { return l.balance }

// Rate returns the monthly rate as a fraction.
func (l *FixedAmortizingLoan) Rate() float64 { return l.rate }

// Term returns the term in months, 0 if open-ended.
func (l *FixedAmortizingLoan) Term() int { return l.term }

// Policy returns the minimum payment policy.
func (l *FixedAmortizingLoan) Policy() MinimumPaymentPolicy { return l.policy }

// APR returns the annual rate in percent. It does not step down.
func (l *FixedAmortizingLoan) APR(int) float64 {
	return mathutil.ToPercentage(l.rate * constants.MonthsPerYear)
}

// Band reports that fixed loans have no band.
func (l *FixedAmortizingLoan) Band() (int, bool) { return 0, false }

// Payment returns the level monthly payment.
func (l *FixedAmortizingLoan) Payment() (float64, error) {
	return l.payment, l.paymentErr
}

// MinimumPayment returns the minimum payment due on the origination balance.
func (l *FixedAmortizingLoan) MinimumPayment() (float64, error) {
	return l.policy.For(l.balance)
}

// MinimumPaymentFor returns the minimum payment due on an arbitrary balance.
func (l *FixedAmortizingLoan) MinimumPaymentFor(balance float64) (float64, error) {
	return l.policy.For(balance)
}

// PaymentForPeriod returns the level payment converted to the cadence, or the
// monthly minimum payment of an open-ended loan converted to the cadence and
// rounded up to a whole unit, capped at the payoff amount.
func (l *FixedAmortizingLoan) PaymentForPeriod(ctx PeriodContext) (float64, error) {
	rate := ctx.Cadence.AdjustMonthly(l.rate)
	payoff := PayoffAmount(ctx.Balance, rate)

	var due float64
	if l.term > 0 {
		due = mathutil.Round(ctx.Cadence.AdjustMonthly(l.payment))
	} else {
		minimum, err := l.policy.For(ctx.Balance)
		if err != nil {
			return 0, err
		}
		due = mathutil.CeilUnit(ctx.Cadence.AdjustMonthly(minimum))
	}
	return mathutil.Min(payoff, due), nil
}
