package loans

import (
	"github.com/iwvelando/paydown-forecast/pkg/errs"
	"github.com/iwvelando/paydown-forecast/pkg/mathutil"
)

// BandedTieredLoan is a loan whose payment terms come from the band its
// origination balance falls in. The band is sticky: it is assigned once and
// never recomputed as the balance falls.
type BandedTieredLoan struct {
	balance float64
	band    int
	table   *BandTable
}

// NewBandedTieredLoan assigns balance to a band of table. A balance outside
// every band fails with errs.ErrOutOfRange.
func NewBandedTieredLoan(balance float64, table *BandTable) (*BandedTieredLoan, error) {
	if table == nil {
		return nil, errs.Configurationf("banded loan requires a band table")
	}
	band, err := table.BandFor(balance)
	if err != nil {
		return nil, err
	}
	return &BandedTieredLoan{balance: balance, band: band, table: table}, nil
}

// Kind reports KindBandedTiered.
func (l *BandedTieredLoan) Kind() Kind { return KindBandedTiered }

// Balance returns the origination balance.
func (l *BandedTieredLoan) Balance() float64 { return l.balance }

// BandIndex returns the zero-based band assigned at origination.
func (l *BandedTieredLoan) BandIndex() int { return l.band }

// Band returns the band index.
func (l *BandedTieredLoan) Band() (int, bool) { return l.band, true }

// Table returns the band table the loan was originated under.
func (l *BandedTieredLoan) Table() *BandTable { return l.table }

// APR returns the annual rate in percent, stepped down once enough payments
// have been applied.
func (l *BandedTieredLoan) APR(paymentsMade int) float64 {
	return l.table.APRAfter(paymentsMade)
}

// MinimumPayment returns the monthly minimum payment due on the origination
// balance: the larger of the band's percentage of principal and its floor.
func (l *BandedTieredLoan) MinimumPayment() (float64, error) {
	pct := mathutil.FromPercentage(l.table.MinPrincipalPct(l.band))
	return mathutil.Round(mathutil.Max(pct*l.balance, l.table.MinFloor(l.band))), nil
}

// PaymentForPeriod returns min(balance*(1+r), max(pct*balance, floor)). The
// rate and the percentage of principal are converted from monthly terms to the
// cadence; the band floor is a per-payment amount and is not scaled.
func (l *BandedTieredLoan) PaymentForPeriod(ctx PeriodContext) (float64, error) {
	rate := PeriodicRate(l.APR(ctx.PaymentsMade), ctx.Cadence)
	pct := ctx.Cadence.AdjustMonthly(mathutil.FromPercentage(l.table.MinPrincipalPct(l.band)))
	floor := l.table.MinFloor(l.band)

	due := mathutil.Round(mathutil.Max(pct*ctx.Balance, floor))
	return mathutil.Min(PayoffAmount(ctx.Balance, rate), due), nil
}
