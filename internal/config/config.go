// Package config defines the data structures related to configuration and
// includes functions for loading and parsing the config.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/paydown-forecast/pkg/constants"
	"github.com/iwvelando/paydown-forecast/pkg/ledger"
	"github.com/iwvelando/paydown-forecast/pkg/validation"
	"github.com/spf13/viper"
)

// DateTimeLayout is the format expected in config files and is also the output
// date format.
const DateTimeLayout = constants.DateLayout

// Configuration holds all configuration for paydown-forecast.
type Configuration struct {
	Logging   LoggingConfig `yaml:"logging,omitempty"`
	Output    OutputConfig  `yaml:"output,omitempty"`
	Products  []Product     `yaml:"products,omitempty"`
	Scenarios []Scenario    `yaml:"scenarios"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
	// Rows limits the ledger rows printed per scenario; 0 prints all.
	Rows int `yaml:"rows,omitempty"`
	// MergePolicy selects the balance of the merged statement: last-input,
	// last-by-date or sum.
	MergePolicy string `yaml:"mergePolicy,omitempty"`
}

// Scenario is one borrower paying down one loan.
type Scenario struct {
	Name      string `yaml:"name"`
	Active    bool   `yaml:"active"`
	StartDate string `yaml:"startDate"`
	// EndDate is the last simulated date; when empty the simulation runs for
	// Months months from StartDate.
	EndDate string `yaml:"endDate,omitempty"`
	Months  int    `yaml:"months,omitempty"`
	// GraceDays defaults to constants.DefaultGraceDays when unset.
	GraceDays    *int    `yaml:"graceDays,omitempty"`
	StopAtPayoff bool    `yaml:"stopAtPayoff,omitempty"`
	Expenses     float64 `yaml:"expenses"`
	Income       Income  `yaml:"income"`
	Loan         Loan    `yaml:"loan"`
	// Optimizer searches for the affordable expenses or paycheck.
	Optimizer *OptimizerConfig `yaml:"optimizer,omitempty"`
}

// Income is the borrower's pay.
type Income struct {
	// Annual is the gross annual income.
	Annual float64 `yaml:"annual,omitempty"`
	// TaxRate defaults to constants.DefaultTaxRate when unset.
	TaxRate *float64 `yaml:"taxRate,omitempty"`
	// Paycheck overrides the paycheck derived from Annual.
	Paycheck float64  `yaml:"paycheck,omitempty"`
	Schedule Schedule `yaml:"schedule"`
}

// Schedule is a pay schedule; loan payments follow it.
type Schedule struct {
	Kind     string `yaml:"kind"`
	Days     []int  `yaml:"days,omitempty"`
	StepDays int    `yaml:"stepDays,omitempty"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	configuration.applyDefaults()
	return &configuration, nil
}

func (conf *Configuration) applyDefaults() {
	if conf.Output.Format == "" {
		conf.Output.Format = constants.OutputFormatPretty
	}
	for i := range conf.Scenarios {
		s := &conf.Scenarios[i]
		if s.GraceDays == nil {
			grace := constants.DefaultGraceDays
			s.GraceDays = &grace
		}
		if s.Income.TaxRate == nil {
			tax := constants.DefaultTaxRate
			s.Income.TaxRate = &tax
		}
		if strings.TrimSpace(s.Income.Schedule.Kind) == "" {
			s.Income.Schedule.Kind = "monthly"
		}
		if s.Loan.MinimumPayment.Type == 0 {
			s.Loan.MinimumPayment = defaultMinimumPayment()
		}
		s.Optimizer.Normalize()
	}
}

// ActiveScenarios returns the scenarios to simulate, in configuration order.
func (conf *Configuration) ActiveScenarios() []Scenario {
	var active []Scenario
	for _, scenario := range conf.Scenarios {
		if scenario.Active {
			active = append(active, scenario)
		}
	}
	return active
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings. Scenarios that cannot be built are reported by
// ToSimulation instead.
func (conf *Configuration) ValidateConfiguration() []string {
	var warnings []string
	var scenarios []validation.ScenarioConfig
	for _, scenario := range conf.Scenarios {
		info := validation.ScenarioConfig{
			Name:      scenario.Name,
			Active:    scenario.Active,
			StartDate: scenario.StartDate,
			Expenses:  scenario.Expenses,
			Loan: validation.LoanConfig{
				Kind: scenario.Loan.Kind,
				Term: scenario.Loan.Term,
			},
		}

		// Only scenarios that build can be checked further.
		sim, err := scenario.ToSimulation(conf)
		if err == nil {
			info.EndDate = sim.End.Format(DateTimeLayout)
			info.Paycheck = sim.Income.Amount
			info.Loan.FirstPayment = firstPayment(sim)
		} else if scenario.Active {
			warnings = append(warnings, fmt.Sprintf("Scenario '%s' cannot be simulated: %v", scenario.Name, err))
			continue
		}
		scenarios = append(scenarios, info)
	}

	validator := validation.ConfigValidator{Scenarios: scenarios}
	warnings = append(warnings, validator.ValidateAll()...)
	if err := validation.ValidateOutputFormat(conf.Output.Format); err != nil {
		warnings = append(warnings, err.Error())
	}
	if _, err := ledger.ParseMergePolicy(conf.Output.MergePolicy); err != nil {
		warnings = append(warnings, err.Error())
	}
	return warnings
}
