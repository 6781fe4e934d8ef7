package finance

import (
	"github.com/iwvelando/paydown-forecast/pkg/errs"
	"github.com/iwvelando/paydown-forecast/pkg/mathutil"
	"github.com/iwvelando/paydown-forecast/pkg/period"
)

// Paycheck returns the net pay received on each date of rule for a gross
// annualIncome taxed at taxRate, rounded to cents.
func Paycheck(annualIncome, taxRate float64, rule period.Rule) (float64, error) {
	if annualIncome < 0 {
		return 0, errs.OutOfRangef("annual income %.2f must not be negative", annualIncome)
	}
	if taxRate < 0 || taxRate >= 1 {
		return 0, errs.OutOfRangef("tax rate %.4f must be in [0, 1)", taxRate)
	}
	if rule.IsZero() {
		return 0, errs.Configurationf("paycheck requires a pay schedule")
	}
	net := annualIncome * (1 - taxRate)
	return mathutil.Round(net / rule.PeriodsPerYear()), nil
}

// NewIncome builds the Income of a borrower paid on rule.
func NewIncome(annualIncome, taxRate float64, rule period.Rule) (Income, error) {
	amount, err := Paycheck(annualIncome, taxRate, rule)
	if err != nil {
		return Income{}, err
	}
	return Income{Amount: amount, Rule: rule}, nil
}
