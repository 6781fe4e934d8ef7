// Package forecast defines the data structures related to a given forecast and
// includes functions for computing the forecasts.
package forecast

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/iwvelando/paydown-forecast/internal/config"
	"github.com/iwvelando/paydown-forecast/pkg/finance"
	"github.com/iwvelando/paydown-forecast/pkg/ledger"
	"github.com/iwvelando/paydown-forecast/pkg/optimization"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Forecast holds all information related to a specific forecast.
type Forecast struct {
	// ID identifies this run of the scenario.
	ID     uuid.UUID
	Name   string
	Result *finance.Result
	Notes  map[string][]string
	// Optimizations holds the affordability searches run for the scenario.
	Optimizations []optimization.Summary
}

// Ledger returns the sealed ledger of the forecast.
func (f Forecast) Ledger() *ledger.Ledger {
	if f.Result == nil {
		return nil
	}
	return f.Result.Ledger
}

// GetForecast simulates every active scenario. Scenarios share no mutable
// state, so each runs on its own goroutine; results are returned in
// configuration order.
func GetForecast(logger *zap.Logger, conf config.Configuration) ([]Forecast, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var sims []finance.Simulation
	for _, scenario := range conf.Scenarios {
		if !scenario.Active {
			logger.Debug(fmt.Sprintf("skipping scenario %s because it is inactive", scenario.Name),
				zap.String("op", "forecast.GetForecast"),
			)
			continue
		}
		sim, err := scenario.ToSimulation(&conf)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
		sims = append(sims, sim)
	}

	engine := finance.NewPaydownEngine(logger)
	results := make([]Forecast, len(sims))
	var g errgroup.Group
	for i, sim := range sims {
		g.Go(func() error {
			result, err := engine.Simulate(sim)
			if err != nil {
				return fmt.Errorf("scenario %s: %w", sim.Name, err)
			}
			results[i] = Forecast{
				ID:     uuid.New(),
				Name:   sim.Name,
				Result: result,
				Notes:  result.Notes,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Debug("forecast computed",
		zap.String("op", "forecast.GetForecast"),
		zap.Int("scenarios", len(results)),
	)
	return results, nil
}

// MergeLedgers merges the ledgers of every forecast into one statement.
func MergeLedgers(forecasts []Forecast, policy ledger.MergePolicy) (*ledger.Ledger, error) {
	ledgers := make([]*ledger.Ledger, 0, len(forecasts))
	for _, f := range forecasts {
		ledgers = append(ledgers, f.Ledger())
	}
	return ledger.Merge(policy, ledgers...)
}
