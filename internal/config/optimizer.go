package config

import (
	"strings"

	"github.com/iwvelando/paydown-forecast/pkg/errs"
)

const (
	// OptimizerFieldExpenses searches for the largest expenses that keep the
	// account balance at or above the floor.
	OptimizerFieldExpenses = "expenses"
	// OptimizerFieldPaycheck searches for the smallest paycheck that keeps the
	// account balance at or above the floor.
	OptimizerFieldPaycheck = "paycheck"

	defaultToleranceAmount = 0.01
	defaultMaxIterations   = 50
)

// OptimizerConfig defines a single-parameter affordability search for a
// scenario.
type OptimizerConfig struct {
	Field string `yaml:"field,omitempty" mapstructure:"field"`
	// Floor is the lowest account balance allowed at any point.
	Floor         float64  `yaml:"floor" mapstructure:"floor"`
	Min           *float64 `yaml:"min,omitempty" mapstructure:"min"`
	Max           *float64 `yaml:"max,omitempty" mapstructure:"max"`
	Tolerance     float64  `yaml:"tolerance,omitempty" mapstructure:"tolerance"`
	MaxIterations int      `yaml:"maxIterations,omitempty" mapstructure:"maxIterations"`
}

// CanonicalOptimizerField returns the canonical identifier for an optimizer field.
func CanonicalOptimizerField(value string) string {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" {
		return OptimizerFieldExpenses
	}
	return trimmed
}

// Normalize ensures defaults and canonical values are applied before validation.
func (o *OptimizerConfig) Normalize() {
	if o == nil {
		return
	}
	o.Field = CanonicalOptimizerField(o.Field)
	if o.Tolerance <= 0 {
		o.Tolerance = defaultToleranceAmount
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = defaultMaxIterations
	}
}

// Validate returns an error when the optimizer configuration is unsupported.
func (o *OptimizerConfig) Validate() error {
	if o == nil {
		return errs.Configurationf("optimizer configuration cannot be nil")
	}

	o.Normalize()

	switch o.Field {
	case OptimizerFieldExpenses, OptimizerFieldPaycheck:
	default:
		return errs.Configurationf("optimizer field %q is not supported", o.Field)
	}
	if o.Min == nil {
		return errs.Configurationf("optimizer requires a minimum bound")
	}
	if o.Max == nil {
		return errs.Configurationf("optimizer requires a maximum bound")
	}
	if *o.Min < 0 {
		return errs.Configurationf("optimizer minimum %.2f must not be negative", *o.Min)
	}
	if *o.Min >= *o.Max {
		return errs.Configurationf("optimizer minimum %.2f must be less than maximum %.2f", *o.Min, *o.Max)
	}
	return nil
}
