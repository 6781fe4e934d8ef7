package validation

import (
	"fmt"

	"github.com/iwvelando/paydown-forecast/pkg/constants"
	"github.com/iwvelando/paydown-forecast/pkg/datetime"
)

// ValidateMaturity checks if a loan with a term matures after the simulation
// ends.
func ValidateMaturity(loanName, startDate, endDate string, termMonths int) (string, error) {
	if termMonths <= 0 {
		return "", nil
	}
	start, err := datetime.ParseDate(startDate)
	if err != nil {
		return "", err
	}
	end, err := datetime.ParseDate(endDate)
	if err != nil {
		return "", err
	}

	maturity := datetime.AddMonths(start, termMonths)
	if maturity.After(end) {
		return fmt.Sprintf("Loan '%s' matures after the simulation ends (%s > %s) - loan will have outstanding balance",
			loanName, maturity.Format(constants.DateLayout), endDate), nil
	}
	return "", nil
}

// ValidateCashFlow checks if a period's paycheck covers its expenses and the
// first loan payment.
func ValidateCashFlow(scenarioName string, paycheck, expenses, payment float64) string {
	if out := expenses + payment; out > paycheck {
		return fmt.Sprintf("Scenario '%s' spends more than it earns each period (%.2f > %.2f) - account balance will fall",
			scenarioName, out, paycheck)
	}
	return ""
}

// ConfigValidator collects the facts about each scenario needed to warn about
// configurations that are valid but probably unintended.
type ConfigValidator struct {
	Scenarios []ScenarioConfig
}

type ScenarioConfig struct {
	Name      string
	Active    bool
	StartDate string
	EndDate   string
	Paycheck  float64
	Expenses  float64
	Loan      LoanConfig
}

type LoanConfig struct {
	Kind string
	// Term is in months; 0 means open-ended.
	Term int
	// FirstPayment is the payment due in the first period outside the grace
	// period.
	FirstPayment float64
}

// ValidateAll validates the entire configuration and returns warnings
func (cv *ConfigValidator) ValidateAll() []string {
	var warnings []string

	active := 0
	for _, scenario := range cv.Scenarios {
		if !scenario.Active {
			continue
		}
		active++

		warning, err := ValidateMaturity(fmt.Sprintf("Scenario '%s' %s loan", scenario.Name, scenario.Loan.Kind),
			scenario.StartDate, scenario.EndDate, scenario.Loan.Term)
		if err == nil && warning != "" {
			warnings = append(warnings, warning)
		}

		if warning := ValidateCashFlow(scenario.Name, scenario.Paycheck, scenario.Expenses, scenario.Loan.FirstPayment); warning != "" {
			warnings = append(warnings, warning)
		}
	}

	if len(cv.Scenarios) > 0 && active == 0 {
		warnings = append(warnings, "No active scenarios - nothing will be simulated")
	}

	return warnings
}
