package forecast

import (
	"github.com/iwvelando/paydown-forecast/pkg/constants"
	"github.com/iwvelando/paydown-forecast/pkg/errs"
	"github.com/iwvelando/paydown-forecast/pkg/mathutil"
	"github.com/shopspring/decimal"
)

// Comparison summarizes how much better off a borrower is under Alternative
// than under Baseline.
type Comparison struct {
	Baseline    string
	Alternative string
	// BaselineBalance and AlternativeBalance are the final account balances.
	BaselineBalance    decimal.Decimal
	AlternativeBalance decimal.Decimal
	// Savings is AlternativeBalance - BaselineBalance.
	Savings decimal.Decimal
	// LoanPaidDifference is the total paid to the baseline lender less the
	// total paid to the alternative one.
	LoanPaidDifference float64
	// LoanBalanceDifference is the baseline loan balance less the alternative
	// one at the end of the simulation.
	LoanBalanceDifference float64
}

// Compare compares the outcome of two forecasts.
func Compare(baseline, alternative Forecast) (Comparison, error) {
	if baseline.Result == nil || alternative.Result == nil {
		return Comparison{}, errs.Configurationf("cannot compare forecasts without results")
	}
	baseBalance := baseline.Result.Ledger.Balance()
	altBalance := alternative.Result.Ledger.Balance()
	return Comparison{
		Baseline:              baseline.Name,
		Alternative:           alternative.Name,
		BaselineBalance:       baseBalance,
		AlternativeBalance:    altBalance,
		Savings:               altBalance.Sub(baseBalance).Round(constants.CurrencyPlaces),
		LoanPaidDifference:    mathutil.Round(baseline.Result.TotalPaid - alternative.Result.TotalPaid),
		LoanBalanceDifference: mathutil.Round(baseline.Result.LoanBalance - alternative.Result.LoanBalance),
	}, nil
}

// CompareAll compares every forecast after the first against the first.
func CompareAll(forecasts []Forecast) ([]Comparison, error) {
	if len(forecasts) < 2 {
		return nil, nil
	}
	comparisons := make([]Comparison, 0, len(forecasts)-1)
	for _, alternative := range forecasts[1:] {
		c, err := Compare(forecasts[0], alternative)
		if err != nil {
			return nil, err
		}
		comparisons = append(comparisons, c)
	}
	return comparisons, nil
}
