package config

import (
	"strings"

	"github.com/iwvelando/paydown-forecast/pkg/constants"
	"github.com/iwvelando/paydown-forecast/pkg/errs"
	"github.com/iwvelando/paydown-forecast/pkg/loans"
)

// Loan kinds accepted in configuration.
const (
	LoanKindFixed  = "fixed"
	LoanKindBanded = "banded"
)

// Product is a named banded loan product.
type Product struct {
	Name string `yaml:"name"`
	// Boundaries are ascending balance edges; band i covers
	// [Boundaries[i], Boundaries[i+1]).
	Boundaries []float64 `yaml:"boundaries"`
	// MinPrincipalPct is the monthly minimum payment per band, in percent of
	// principal.
	MinPrincipalPct []float64 `yaml:"minPrincipalPct"`
	// MinFloor is the monthly minimum payment amount per band.
	MinFloor      []float64 `yaml:"minFloor"`
	APR           float64   `yaml:"apr"`
	StepDownAPR   float64   `yaml:"stepDownApr,omitempty"`
	StepDownAfter int       `yaml:"stepDownAfter,omitempty"`
}

// Loan indicates a loan and its parameters.
type Loan struct {
	Kind    string  `yaml:"kind"`
	Balance float64 `yaml:"balance"`
	// Product names the banded product the loan is originated under.
	Product string `yaml:"product,omitempty"`
	// APR is the annual rate of a fixed loan, in percent.
	APR float64 `yaml:"apr,omitempty"`
	// Term is the term of a fixed loan in months; 0 pays the minimum payment.
	Term           int                  `yaml:"term,omitempty"`
	MinimumPayment MinimumPaymentConfig `yaml:"minimumPayment,omitempty"`
}

// MinimumPaymentConfig configures the minimum payment of a fixed loan.
type MinimumPaymentConfig struct {
	Type int     `yaml:"type,omitempty"`
	Low  float64 `yaml:"low,omitempty"`
	High float64 `yaml:"high,omitempty"`
	Rate float64 `yaml:"rate,omitempty"`
	Fees float64 `yaml:"fees,omitempty"`
}

func defaultMinimumPayment() MinimumPaymentConfig {
	policy := loans.DefaultMinimumPaymentPolicy()
	return MinimumPaymentConfig{
		Type: policy.Type,
		Low:  policy.Low,
		High: policy.High,
		Rate: policy.Rate,
		Fees: policy.Fees,
	}
}

// ToPolicy converts the configured minimum payment to a loans policy.
func (mp MinimumPaymentConfig) ToPolicy() (loans.MinimumPaymentPolicy, error) {
	policy := loans.MinimumPaymentPolicy{
		Type: mp.Type,
		Low:  mp.Low,
		High: mp.High,
		Rate: mp.Rate,
		Fees: mp.Fees,
	}
	return policy, policy.Validate()
}

// ToBandTable validates the product and builds its band table.
func (p Product) ToBandTable() (*loans.BandTable, error) {
	return loans.NewBandTable(loans.BandTableSpec{
		Boundaries:      p.Boundaries,
		MinPrincipalPct: p.MinPrincipalPct,
		MinFloor:        p.MinFloor,
		APR:             p.APR,
		StepDownAPR:     p.StepDownAPR,
		StepDownAfter:   p.StepDownAfter,
	})
}

// FindProduct returns the product called name.
func (conf *Configuration) FindProduct(name string) (*Product, error) {
	for i := range conf.Products {
		if strings.EqualFold(conf.Products[i].Name, name) {
			return &conf.Products[i], nil
		}
	}
	return nil, errs.Configurationf("unknown product %q", name)
}

// ToLoan builds the loan. Banded loans look their product up in conf.
func (loan Loan) ToLoan(conf *Configuration) (loans.Loan, error) {
	switch strings.ToLower(strings.TrimSpace(loan.Kind)) {
	case LoanKindFixed:
		policy, err := loan.MinimumPayment.ToPolicy()
		if err != nil {
			return nil, err
		}
		rate := loan.APR / constants.PercentageMultiplier / constants.MonthsPerYear
		return loans.NewFixedAmortizingLoan(loan.Balance, rate, loan.Term, policy)
	case LoanKindBanded:
		if conf == nil {
			return nil, errs.Configurationf("banded loan needs a product table")
		}
		product, err := conf.FindProduct(loan.Product)
		if err != nil {
			return nil, err
		}
		table, err := product.ToBandTable()
		if err != nil {
			return nil, err
		}
		return loans.NewBandedTieredLoan(loan.Balance, table)
	}
	return nil, errs.Configurationf("unknown loan kind %q, expected %s or %s", loan.Kind, LoanKindFixed, LoanKindBanded)
}
