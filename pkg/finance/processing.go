// Package finance runs paydown simulations: a borrower's paycheck, loan
// payment and expenses posted to a ledger for every pay date.
package finance

import (
	"fmt"
	"time"

	"github.com/iwvelando/paydown-forecast/pkg/constants"
	"github.com/iwvelando/paydown-forecast/pkg/datetime"
	"github.com/iwvelando/paydown-forecast/pkg/errs"
	"github.com/iwvelando/paydown-forecast/pkg/ledger"
	"github.com/iwvelando/paydown-forecast/pkg/loans"
	"github.com/iwvelando/paydown-forecast/pkg/mathutil"
	"github.com/iwvelando/paydown-forecast/pkg/period"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Income is a paycheck of Amount received on every date of Rule. Loan payments
// are made on the same schedule.
type Income struct {
	Amount float64
	Rule   period.Rule
}

// Simulation describes one borrower paying down one loan.
type Simulation struct {
	Name string
	// Start is the origination date of the loan.
	Start time.Time
	// End is the last date, inclusive, that is simulated.
	End    time.Time
	Loan   loans.Loan
	Income Income
	// Expenses are paid every pay period.
	Expenses float64
	// GraceDays is the number of days after Start before the first payment
	// is due. Pay dates inside the window post no loan payment.
	GraceDays int
	// StopAtPayoff ends the simulation on the period the loan is paid off.
	StopAtPayoff bool
}

// Result is the outcome of a simulation.
type Result struct {
	Name   string
	Ledger *ledger.Ledger
	// LoanBalance is the loan balance after the last simulated period.
	LoanBalance   float64
	PaymentsMade  int
	Periods       int
	TotalPaid     float64
	TotalInterest float64
	// StepDownDate is the date the APR stepped down, zero if it never did.
	StepDownDate time.Time
	// PayoffDate is the date the loan was paid off, zero if it was not.
	PayoffDate time.Time
	Notes      map[string][]string
}

// PaidOff reports whether the loan was paid off within the simulation.
func (r *Result) PaidOff() bool {
	return !r.PayoffDate.IsZero()
}

// PaydownEngine runs simulations. It holds no simulation state, so one engine
// may run many simulations concurrently.
type PaydownEngine struct {
	logger *zap.Logger
}

// NewPaydownEngine creates a new paydown engine with the given logger.
// If logger is nil, it will use a no-op logger to prevent panics.
func NewPaydownEngine(logger *zap.Logger) *PaydownEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaydownEngine{logger: logger}
}

func (s Simulation) validate() error {
	if s.Loan == nil {
		return errs.Configurationf("simulation %q has no loan", s.Name)
	}
	if s.Income.Rule.IsZero() {
		return errs.Configurationf("simulation %q has no income schedule", s.Name)
	}
	if s.Start.IsZero() || s.End.IsZero() {
		return errs.Configurationf("simulation %q needs a start and an end date", s.Name)
	}
	if s.End.Before(s.Start) {
		return errs.Configurationf("simulation %q ends %s before it starts %s", s.Name,
			s.End.Format(constants.DateLayout), s.Start.Format(constants.DateLayout))
	}
	if s.GraceDays < 0 {
		return errs.Configurationf("simulation %q grace period must not be negative, got %d", s.Name, s.GraceDays)
	}
	return nil
}

// Simulate walks the income schedule from Start to End. For every pay date it
// posts the paycheck, then the loan payment, then the expenses. The loan
// accrues one period of interest before each payment is applied. When the APR
// changes the new APR and periodic rate are posted as zero-amount events.
// The returned ledger is sealed.
func (e *PaydownEngine) Simulate(sim Simulation) (*Result, error) {
	if err := sim.validate(); err != nil {
		return nil, err
	}

	cadence := sim.Income.Rule
	start := datetime.Truncate(sim.Start)
	end := datetime.Truncate(sim.End)
	l := ledger.New()
	result := &Result{
		Name:   sim.Name,
		Ledger: l,
		Notes:  make(map[string][]string),
	}

	balance := sim.Loan.Balance()
	apr := sim.Loan.APR(0)
	rate := loans.PeriodicRate(apr, cadence)
	if err := postTerms(l, start, apr, rate); err != nil {
		return nil, err
	}

	e.logger.Debug("simulation started",
		zap.String("op", "finance.Simulate"),
		zap.String("scenario", sim.Name),
		zap.String("loan", sim.Loan.Kind().String()),
		zap.Float64("balance", balance),
		zap.Float64("apr", apr),
		zap.String("cadence", cadence.String()),
	)

	paycheck := mathutil.Money(sim.Income.Amount)
	expenses := mathutil.Money(sim.Expenses).Neg()

	for date := range cadence.All() {
		if date.After(end) {
			break
		}
		if date.Before(start) {
			continue
		}
		result.Periods++
		dateStr := date.Format(constants.DateLayout)

		if _, err := l.Append(ledger.Transaction{
			Date:        date,
			Description: constants.DescriptionPaycheck,
			Amount:      paycheck,
		}); err != nil {
			return nil, err
		}

		switch {
		case datetime.DaysBetween(start, date) < sim.GraceDays:
			e.logger.Debug("no payment due inside the grace period",
				zap.String("op", "finance.Simulate"),
				zap.String("scenario", sim.Name),
				zap.String("date", dateStr),
			)
		case balance < constants.PayoffThreshold:
			// Nothing left to pay.
		default:
			payment, err := sim.Loan.PaymentForPeriod(loans.PeriodContext{
				Balance:      balance,
				PaymentsMade: result.PaymentsMade,
				Cadence:      cadence,
			})
			if err != nil {
				return nil, fmt.Errorf("scenario %s on %s: %w", sim.Name, dateStr, err)
			}

			interest := loans.CalculateInterestPayment(balance, rate)
			balance = mathutil.Round(balance + interest - payment)
			if balance < constants.PayoffThreshold {
				balance = 0
			}
			result.PaymentsMade++
			result.TotalPaid += payment
			result.TotalInterest += interest

			if _, err := l.Append(ledger.Transaction{
				Date:        date,
				Description: constants.DescriptionLoanPayment,
				Amount:      mathutil.Money(payment).Neg(),
				LoanBalance: decimal.NewNullDecimal(mathutil.Money(balance)),
			}); err != nil {
				return nil, err
			}

			if balance == 0 {
				result.PayoffDate = date
				result.Notes[dateStr] = append(result.Notes[dateStr], "loan paid off")
				e.logger.Debug("loan paid off",
					zap.String("op", "finance.Simulate"),
					zap.String("scenario", sim.Name),
					zap.String("date", dateStr),
					zap.Int("payments", result.PaymentsMade),
				)
			}
		}

		if _, err := l.Append(ledger.Transaction{
			Date:        date,
			Description: constants.DescriptionExpenses,
			Amount:      expenses,
		}); err != nil {
			return nil, err
		}

		if next := sim.Loan.APR(result.PaymentsMade); next != apr {
			e.logger.Debug("APR stepped down",
				zap.String("op", "finance.Simulate"),
				zap.String("scenario", sim.Name),
				zap.String("date", dateStr),
				zap.Float64("from", apr),
				zap.Float64("to", next),
				zap.Int("payments", result.PaymentsMade),
			)
			result.Notes[dateStr] = append(result.Notes[dateStr],
				fmt.Sprintf("APR changed from %.3f%% to %.3f%%", apr, next))
			apr = next
			rate = loans.PeriodicRate(apr, cadence)
			if result.StepDownDate.IsZero() {
				result.StepDownDate = date
			}
			if err := postTerms(l, date, apr, rate); err != nil {
				return nil, err
			}
		}

		if sim.StopAtPayoff && result.PaidOff() {
			break
		}
	}

	l.Seal()
	result.LoanBalance = balance
	result.TotalPaid = mathutil.Round(result.TotalPaid)
	result.TotalInterest = mathutil.Round(result.TotalInterest)

	e.logger.Debug("simulation finished",
		zap.String("op", "finance.Simulate"),
		zap.String("scenario", sim.Name),
		zap.Int("periods", result.Periods),
		zap.Int("payments", result.PaymentsMade),
		zap.Float64("loanBalance", result.LoanBalance),
		zap.String("accountBalance", l.Balance().StringFixed(constants.CurrencyPlaces)),
	)
	return result, nil
}

// postTerms records the APR, in percent, and the periodic rate in force from
// date onward.
func postTerms(l *ledger.Ledger, date time.Time, apr, rate float64) error {
	if _, err := l.Append(ledger.Transaction{
		Date:       date,
		EventKey:   constants.EventAPR,
		EventValue: decimal.NewNullDecimal(decimal.NewFromFloat(apr)),
	}); err != nil {
		return err
	}
	_, err := l.Append(ledger.Transaction{
		Date:       date,
		EventKey:   constants.EventRate,
		EventValue: decimal.NewNullDecimal(decimal.NewFromFloat(rate)),
	})
	return err
}
