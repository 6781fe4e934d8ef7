package config

import (
	"time"

	"github.com/iwvelando/paydown-forecast/pkg/datetime"
	"github.com/iwvelando/paydown-forecast/pkg/errs"
	"github.com/iwvelando/paydown-forecast/pkg/finance"
	"github.com/iwvelando/paydown-forecast/pkg/loans"
	"github.com/iwvelando/paydown-forecast/pkg/period"
)

// ToRule converts the schedule to a period rule starting on start. A monthly
// schedule without days is paid on the 1st and a semi-monthly one on the 1st
// and the 15th.
func (s Schedule) ToRule(start time.Time) (period.Rule, error) {
	kind, err := period.ParseKind(s.Kind)
	if err != nil {
		return period.Rule{}, err
	}

	days := s.Days
	if len(days) == 0 {
		switch kind {
		case period.KindMonthly:
			days = []int{1}
		case period.KindSemiMonthly:
			days = []int{1, 15}
		}
	}
	return period.NewRule(start, period.Spec{Kind: kind, Days: days, StepDays: s.StepDays})
}

// Dates returns the parsed start and end of the scenario.
func (s Scenario) Dates() (time.Time, time.Time, error) {
	start, err := datetime.ParseDate(s.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, errs.Configurationf("scenario %q start date: %v", s.Name, err)
	}

	switch {
	case s.EndDate != "":
		end, err := datetime.ParseDate(s.EndDate)
		if err != nil {
			return time.Time{}, time.Time{}, errs.Configurationf("scenario %q end date: %v", s.Name, err)
		}
		return start, end, nil
	case s.Months > 0:
		// The day before the same day Months months later.
		return start, datetime.AddMonths(start, s.Months).AddDate(0, 0, -1), nil
	}
	return time.Time{}, time.Time{}, errs.Configurationf("scenario %q needs an endDate or a number of months", s.Name)
}

// ToIncome converts the configured pay to an Income paid from start.
func (i Income) ToIncome(start time.Time) (finance.Income, error) {
	rule, err := i.Schedule.ToRule(start)
	if err != nil {
		return finance.Income{}, err
	}
	if i.Paycheck != 0 {
		return finance.Income{Amount: i.Paycheck, Rule: rule}, nil
	}
	taxRate := 0.0
	if i.TaxRate != nil {
		taxRate = *i.TaxRate
	}
	return finance.NewIncome(i.Annual, taxRate, rule)
}

// ToSimulation builds the simulation of the scenario. Banded loans look their
// product up in conf.
func (s Scenario) ToSimulation(conf *Configuration) (finance.Simulation, error) {
	start, end, err := s.Dates()
	if err != nil {
		return finance.Simulation{}, err
	}
	income, err := s.Income.ToIncome(start)
	if err != nil {
		return finance.Simulation{}, err
	}
	loan, err := s.Loan.ToLoan(conf)
	if err != nil {
		return finance.Simulation{}, err
	}

	grace := 0
	if s.GraceDays != nil {
		grace = *s.GraceDays
	}

	return finance.Simulation{
		Name:         s.Name,
		Start:        start,
		End:          end,
		Loan:         loan,
		Income:       income,
		Expenses:     s.Expenses,
		GraceDays:    grace,
		StopAtPayoff: s.StopAtPayoff,
	}, nil
}

// firstPayment returns the payment due in the first period of sim, ignoring
// the grace period, or 0 if it cannot be computed.
func firstPayment(sim finance.Simulation) float64 {
	payment, err := sim.Loan.PaymentForPeriod(loans.PeriodContext{
		Balance: sim.Loan.Balance(),
		Cadence: sim.Income.Rule,
	})
	if err != nil {
		return 0
	}
	return payment
}
