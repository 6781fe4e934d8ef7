package config

import (
	"strings"
	"testing"

	"github.com/iwvelando/paydown-forecast/pkg/constants"
)

func TestLoadConfiguration(t *testing.T) {
	tests := []struct {
		name       string
		configPath string
		wantError  bool
	}{
		{
			name:       "Non-existent config file",
			configPath: "nonexistent.yaml",
			wantError:  true,
		},
		{
			name:       "Test config",
			configPath: "../../test/test_config.yaml",
			wantError:  false,
		},
		{
			name:       "Example config",
			configPath: "../../" + constants.ExampleConfigFile,
			wantError:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadConfiguration(tt.configPath)
			if tt.wantError {
				if err == nil {
					t.Errorf("LoadConfiguration() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("LoadConfiguration() error = %v", err)
				return
			}
			if config == nil {
				t.Errorf("LoadConfiguration() returned nil config")
			}
		})
	}
}

func TestLoadConfigurationStructure(t *testing.T) {
	config, err := LoadConfiguration("../../test/test_config.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if config.Logging.Level != "debug" || config.Logging.Format != "json" {
		t.Errorf("unexpected logging config %+v", config.Logging)
	}
	if config.Output.Format != constants.OutputFormatCSV {
		t.Errorf("Expected output format csv, got %s", config.Output.Format)
	}
	if config.Output.Rows != 10 {
		t.Errorf("Expected 10 rows, got %d", config.Output.Rows)
	}
	if config.Output.MergePolicy != "sum" {
		t.Errorf("Expected merge policy sum, got %s", config.Output.MergePolicy)
	}

	if len(config.Products) != 1 {
		t.Fatalf("Expected 1 product, got %d", len(config.Products))
	}
	product := config.Products[0]
	if product.APR != 59.975 || product.StepDownAPR != 35.95 || product.StepDownAfter != 13 {
		t.Errorf("unexpected product rates %+v", product)
	}
	if len(product.Boundaries) != 5 || product.Boundaries[4] != 10000 {
		t.Errorf("unexpected boundaries %v", product.Boundaries)
	}

	expectedScenarios := []string{"banded bi-weekly", "fixed monthly", "inactive weekly"}
	if len(config.Scenarios) != len(expectedScenarios) {
		t.Fatalf("Expected %d scenarios, got %d", len(expectedScenarios), len(config.Scenarios))
	}
	for i, expectedName := range expectedScenarios {
		if config.Scenarios[i].Name != expectedName {
			t.Errorf("Expected scenario name %s, got %s", expectedName, config.Scenarios[i].Name)
		}
	}

	banded := config.Scenarios[0]
	if banded.Income.Paycheck != 1353.85 {
		t.Errorf("Expected paycheck 1353.85, got %v", banded.Income.Paycheck)
	}
	if banded.Loan.Kind != LoanKindBanded || banded.Loan.Product != "zinclusive" {
		t.Errorf("unexpected loan %+v", banded.Loan)
	}

	fixed := config.Scenarios[1]
	if fixed.GraceDays == nil || *fixed.GraceDays != 0 {
		t.Errorf("Expected explicit zero grace days, got %v", fixed.GraceDays)
	}
	if fixed.Loan.Term != 24 || fixed.Loan.APR != 12 {
		t.Errorf("unexpected fixed loan %+v", fixed.Loan)
	}

	custom := config.Scenarios[2]
	if custom.Income.Schedule.Kind != "custom" || custom.Income.Schedule.StepDays != 10 {
		t.Errorf("unexpected schedule %+v", custom.Income.Schedule)
	}
}

func TestLoadConfigurationDefaults(t *testing.T) {
	config, err := LoadConfiguration("../../test/test_config.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	banded := config.Scenarios[0]
	if banded.GraceDays == nil || *banded.GraceDays != constants.DefaultGraceDays {
		t.Errorf("Expected default grace days %d, got %v", constants.DefaultGraceDays, banded.GraceDays)
	}
	if banded.Income.TaxRate == nil || *banded.Income.TaxRate != constants.DefaultTaxRate {
		t.Errorf("Expected default tax rate, got %v", banded.Income.TaxRate)
	}
	if banded.Loan.MinimumPayment.Type != constants.MinimumPaymentTiered {
		t.Errorf("Expected default minimum payment type, got %d", banded.Loan.MinimumPayment.Type)
	}
}

func TestLoadConfigurationFromReader(t *testing.T) {
	yamlConfig := `
scenarios:
  - name: reader
    active: true
    startDate: "2024-03-01"
    months: 6
    expenses: 100
    income:
      annual: 12000
    loan:
      kind: fixed
      balance: 1000
      apr: 12
      term: 6
`
	config, err := LoadConfigurationFromReader(strings.NewReader(yamlConfig))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}
	if config.Output.Format != constants.OutputFormatPretty {
		t.Errorf("Expected default output format pretty, got %s", config.Output.Format)
	}
	if len(config.Scenarios) != 1 || config.Scenarios[0].Income.Schedule.Kind != "monthly" {
		t.Fatalf("unexpected scenarios %+v", config.Scenarios)
	}

	if _, err := LoadConfigurationFromReader(strings.NewReader("scenarios: [unterminated")); err == nil {
		t.Error("expected an error for malformed YAML")
	}
}

func TestActiveScenarios(t *testing.T) {
	config, err := LoadConfiguration("../../test/test_config.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	active := config.ActiveScenarios()
	if len(active) != 2 {
		t.Fatalf("Expected 2 active scenarios, got %d", len(active))
	}
	if active[1].Name != "fixed monthly" {
		t.Errorf("Expected configuration order, got %s", active[1].Name)
	}
}
