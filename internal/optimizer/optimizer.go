// Package optimizer searches a scenario's expenses or paycheck for the value
// that keeps the account balance above a floor.
package optimizer

import (
	"fmt"
	"math"

	"github.com/iwvelando/paydown-forecast/internal/config"
	"github.com/iwvelando/paydown-forecast/internal/forecast"
	"github.com/iwvelando/paydown-forecast/pkg/finance"
	"github.com/iwvelando/paydown-forecast/pkg/format"
	"github.com/iwvelando/paydown-forecast/pkg/mathutil"
	"github.com/iwvelando/paydown-forecast/pkg/optimization"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Runner applies the optimizer directives of a configuration.
type Runner struct {
	logger *zap.Logger
	conf   *config.Configuration
	engine *finance.PaydownEngine
}

type target struct {
	scenarioIndex int
	scenarioName  string
	optimizer     *config.OptimizerConfig
	sim           finance.Simulation
	original      float64
}

type evaluation struct {
	value   float64
	minCash float64
	floor   float64
}

func (e evaluation) feasible() bool {
	return e.minCash >= e.floor
}

func (e evaluation) headroom() float64 {
	return mathutil.Round(e.minCash - e.floor)
}

// Result summarizes optimizer adjustments keyed by scenario name.
type Result struct {
	Summaries map[string][]optimization.Summary
}

// Empty indicates whether any optimizer adjustments were produced.
func (r Result) Empty() bool {
	return len(r.Summaries) == 0
}

// Apply attaches optimizer summaries to the provided forecast results.
func (r Result) Apply(forecasts []forecast.Forecast) {
	if len(r.Summaries) == 0 {
		return
	}
	for i := range forecasts {
		summaries, ok := r.Summaries[forecasts[i].Name]
		if !ok {
			continue
		}
		forecasts[i].Optimizations = append(forecasts[i].Optimizations, summaries...)
	}
}

// NewRunner constructs a Runner for the provided configuration.
func NewRunner(logger *zap.Logger, conf *config.Configuration) (*Runner, error) {
	if conf == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{logger: logger, conf: conf, engine: finance.NewPaydownEngine(zap.NewNop())}, nil
}

// Run executes all optimizer directives and mutates the configuration in place
// so a following forecast uses the optimized values.
func (r *Runner) Run() (*Result, error) {
	targets, err := r.collectTargets()
	if err != nil {
		return nil, err
	}

	summaries := make(map[string][]optimization.Summary)
	for _, t := range targets {
		summary, err := r.optimize(t)
		if err != nil {
			return nil, err
		}
		summaries[t.scenarioName] = append(summaries[t.scenarioName], summary)

		scenario := &r.conf.Scenarios[t.scenarioIndex]
		switch t.optimizer.Field {
		case config.OptimizerFieldExpenses:
			scenario.Expenses = summary.Value
		case config.OptimizerFieldPaycheck:
			scenario.Income.Paycheck = summary.Value
		}

		r.logger.Info("optimizer adjusted scenario field",
			zap.String("op", "optimizer.Run"),
			zap.String("scenario", t.scenarioName),
			zap.String("field", t.optimizer.Field),
			zap.Float64("original", summary.Original),
			zap.Float64("optimized", summary.Value),
			zap.Float64("floor", summary.Floor),
			zap.Float64("minimumBalance", summary.MinimumBalance),
			zap.Int("iterations", summary.Iterations),
			zap.Bool("converged", summary.Converged),
		)
	}
	return &Result{Summaries: summaries}, nil
}

func (r *Runner) collectTargets() ([]target, error) {
	var targets []target
	for i := range r.conf.Scenarios {
		scenario := &r.conf.Scenarios[i]
		if !scenario.Active || scenario.Optimizer == nil {
			continue
		}
		if err := scenario.Optimizer.Validate(); err != nil {
			return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
		sim, err := scenario.ToSimulation(r.conf)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
		original := sim.Expenses
		if scenario.Optimizer.Field == config.OptimizerFieldPaycheck {
			original = sim.Income.Amount
		}
		targets = append(targets, target{
			scenarioIndex: i,
			scenarioName:  scenario.Name,
			optimizer:     scenario.Optimizer,
			sim:           sim,
			original:      original,
		})
	}
	return targets, nil
}

// optimize bisects the bounds. The lowest balance falls as expenses rise and
// rises with the paycheck, so there is a single boundary between feasible and
// infeasible values.
func (r *Runner) optimize(t target) (optimization.Summary, error) {
	cfg := t.optimizer
	summary := optimization.Summary{
		Scenario: t.scenarioName,
		Field:    cfg.Field,
		Original: t.original,
		Floor:    cfg.Floor,
	}

	// good is the feasible end of the range and bad the infeasible end.
	goodValue, badValue := *cfg.Min, *cfg.Max
	if cfg.Field == config.OptimizerFieldPaycheck {
		goodValue, badValue = *cfg.Max, *cfg.Min
	}

	good, err := r.evaluate(t, goodValue)
	if err != nil {
		return summary, err
	}
	if !good.feasible() {
		summary.Value = good.value
		summary.MinimumBalance = good.minCash
		summary.Headroom = good.headroom()
		summary.Notes = []string{fmt.Sprintf("unable to keep the balance above %s with %s of %s",
			format.Currency(cfg.Floor), cfg.Field, format.Currency(good.value))}
		return summary, nil
	}

	bad, err := r.evaluate(t, badValue)
	if err != nil {
		return summary, err
	}
	if bad.feasible() {
		summary.Value = bad.value
		summary.MinimumBalance = bad.minCash
		summary.Headroom = bad.headroom()
		summary.Converged = true
		summary.Notes = []string{fmt.Sprintf("every %s between %s and %s keeps the balance above %s",
			cfg.Field, format.Currency(*cfg.Min), format.Currency(*cfg.Max), format.Currency(cfg.Floor))}
		return summary, nil
	}

	iterations, converged := 0, false
	for {
		if mathutil.Round(math.Abs(bad.value-good.value)) <= cfg.Tolerance {
			converged = true
			break
		}
		if iterations == cfg.MaxIterations {
			break
		}
		iterations++
		mid := mathutil.Round((good.value + bad.value) / 2)
		if mid == good.value || mid == bad.value {
			// The bounds are a cent apart.
			converged = true
			break
		}
		eval, err := r.evaluate(t, mid)
		if err != nil {
			return summary, err
		}
		if eval.feasible() {
			good = eval
		} else {
			bad = eval
		}
	}

	summary.Value = good.value
	summary.MinimumBalance = good.minCash
	summary.Headroom = good.headroom()
	summary.Iterations = iterations
	summary.Converged = converged
	return summary, nil
}

func (r *Runner) evaluate(t target, value float64) (evaluation, error) {
	sim := t.sim
	switch t.optimizer.Field {
	case config.OptimizerFieldExpenses:
		sim.Expenses = value
	case config.OptimizerFieldPaycheck:
		sim.Income.Amount = value
	}
	result, err := r.engine.Simulate(sim)
	if err != nil {
		return evaluation{}, fmt.Errorf("optimizer: scenario %s with %s %.2f: %w", t.scenarioName, t.optimizer.Field, value, err)
	}
	return evaluation{
		value:   value,
		minCash: minimumBalance(result),
		floor:   t.optimizer.Floor,
	}, nil
}

// minimumBalance is the lowest balance after any money movement. Events move
// no money and are skipped.
func minimumBalance(result *finance.Result) float64 {
	var lowest decimal.Decimal
	seen := false
	for _, tx := range result.Ledger.Transactions() {
		if tx.IsEvent() {
			continue
		}
		if !seen || tx.BalanceAfter.LessThan(lowest) {
			lowest = tx.BalanceAfter
			seen = true
		}
	}
	return lowest.InexactFloat64()
}
