package finance

import (
	"errors"
	"testing"

	"github.com/iwvelando/paydown-forecast/pkg/errs"
	"github.com/iwvelando/paydown-forecast/pkg/period"
)

func TestPaycheck(t *testing.T) {
	start := day(2024, 1, 1)
	mustRule := func(r period.Rule, err error) period.Rule {
		if err != nil {
			t.Fatalf("rule: %v", err)
		}
		return r
	}

	tests := []struct {
		name     string
		rule     period.Rule
		expected float64
	}{
		{"Monthly", mustRule(period.Monthly(start, 1)), 2933.33},
		{"Semi-monthly", mustRule(period.SemiMonthly(start, 1, 15)), 1466.67},
		{"Bi-weekly", mustRule(period.BiWeekly(start)), 1353.85},
		{"Weekly", mustRule(period.Weekly(start)), 676.92},
		{"Every ten days", mustRule(period.Custom(start, 10)), 964.38},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Paycheck(40000, 0.12, tt.rule)
			if err != nil {
				t.Fatalf("Paycheck() error = %v", err)
			}
			if got != tt.expected {
				t.Errorf("Paycheck() = %.2f, expected %.2f", got, tt.expected)
			}
		})
	}
}

func TestPaycheckErrors(t *testing.T) {
	rule, err := period.Monthly(day(2024, 1, 1), 1)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := Paycheck(-1, 0.12, rule); !errors.Is(err, errs.ErrOutOfRange) {
		t.Errorf("negative income: got %v", err)
	}
	if _, err := Paycheck(40000, 1, rule); !errors.Is(err, errs.ErrOutOfRange) {
		t.Errorf("full tax: got %v", err)
	}
	if _, err := Paycheck(40000, 0.12, period.Rule{}); !errors.Is(err, errs.ErrConfiguration) {
		t.Errorf("missing schedule: got %v", err)
	}
}

func TestNewIncome(t *testing.T) {
	rule, err := period.BiWeekly(day(2024, 1, 1))
	if err != nil {
		t.Fatal(err)
	}
	income, err := NewIncome(40000, 0.12, rule)
	if err != nil {
		t.Fatalf("NewIncome() error = %v", err)
	}
	if income.Amount != 1353.85 {
		t.Errorf("Amount = %.2f, expected 1353.85", income.Amount)
	}
	if income.Rule.Kind() != period.KindBiWeekly {
		t.Errorf("Rule kind = %s, expected bi-weekly", income.Rule.Kind())
	}
}
