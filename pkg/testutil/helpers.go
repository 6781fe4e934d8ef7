// Package testutil provides common utility functions for testing.
package testutil

import (
	"fmt"

	"github.com/iwvelando/paydown-forecast/internal/forecast"
	"github.com/iwvelando/paydown-forecast/pkg/ledger"
	"github.com/shopspring/decimal"
)

// FindScenario finds a scenario by name in the results slice.
// Returns a pointer to the forecast if found, nil otherwise.
func FindScenario(results []forecast.Forecast, name string) *forecast.Forecast {
	for i := range results {
		if results[i].Name == name {
			return &results[i]
		}
	}
	return nil
}

// CheckLedger verifies that every transaction's BalanceAfter is the previous
// balance plus its amount, that dates never go backwards and that the ledger
// balance is the last BalanceAfter.
func CheckLedger(l *ledger.Ledger) error {
	if l == nil {
		return fmt.Errorf("ledger is nil")
	}
	running := decimal.Zero
	txs := l.Transactions()
	for i, tx := range txs {
		if i > 0 && tx.Date.Before(txs[i-1].Date) {
			return fmt.Errorf("transaction %d on %s precedes transaction %d on %s",
				i, tx.Date.Format("2006-01-02"), i-1, txs[i-1].Date.Format("2006-01-02"))
		}
		running = running.Add(tx.Amount)
		if !running.Equal(tx.BalanceAfter) {
			return fmt.Errorf("transaction %d: balance after is %s, expected %s", i, tx.BalanceAfter, running)
		}
	}
	if !running.Equal(l.Balance()) {
		return fmt.Errorf("ledger balance is %s, expected %s", l.Balance(), running)
	}
	return nil
}

// SumByDescription adds up the amounts of the transactions with the given
// description.
func SumByDescription(l *ledger.Ledger, desc string) decimal.Decimal {
	sum := decimal.Zero
	for _, tx := range l.Transactions() {
		if tx.Description == desc {
			sum = sum.Add(tx.Amount)
		}
	}
	return sum
}
