// Package ledger records the transactions of a simulated account. A Ledger is
// append-only: the running balance and the per-description totals are updated
// by Append and nothing else, so they always agree with the transactions.
package ledger

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrSealed is returned when appending to a sealed ledger.
var ErrSealed = errors.New("ledger is sealed")

// Transaction is a single dated amount. Zero-amount transactions carrying an
// EventKey record a change of loan terms, such as a new APR.
type Transaction struct {
	Date        time.Time
	Description string
	// Amount is signed: income is positive, payments are negative.
	Amount decimal.Decimal
	// BalanceAfter is the account balance once Amount is applied. It is set
	// by Append; any value supplied by the caller is ignored.
	BalanceAfter decimal.Decimal
	// EventKey names a change of terms, e.g. "apr" or "rate".
	EventKey   string
	EventValue decimal.NullDecimal
	// LoanBalance is the loan balance after a loan payment.
	LoanBalance decimal.NullDecimal
}

// IsEvent reports whether the transaction records a change of terms.
func (t Transaction) IsEvent() bool {
	return t.EventKey != ""
}

// Ledger is a running balance and the transactions that produced it. A Ledger
// has a single writer; it is safe to read from many goroutines once sealed.
type Ledger struct {
	balance decimal.Decimal
	txs     []Transaction
	totals  map[string]decimal.Decimal
	sealed  bool
}

// New returns an empty ledger with a zero balance.
func New() *Ledger {
	return &Ledger{
		balance: decimal.Zero,
		totals:  make(map[string]decimal.Decimal),
	}
}

// Append applies tx to the balance and records a copy of it. The returned
// Transaction carries the resulting BalanceAfter. Later changes to tx by the
// caller do not reach the ledger.
func (l *Ledger) Append(tx Transaction) (Transaction, error) {
	if l.sealed {
		return Transaction{}, ErrSealed
	}
	l.balance = l.balance.Add(tx.Amount)
	tx.BalanceAfter = l.balance
	l.txs = append(l.txs, tx)
	l.totals[tx.Description] = l.totals[tx.Description].Add(tx.Amount)
	return tx, nil
}

// Seal makes the ledger read-only. Sealing twice is a no-op.
func (l *Ledger) Seal() {
	l.sealed = true
}

// Sealed reports whether the ledger is read-only.
func (l *Ledger) Sealed() bool {
	return l.sealed
}

// Balance returns the current balance.
func (l *Ledger) Balance() decimal.Decimal {
	return l.balance
}

// Len returns the number of transactions.
func (l *Ledger) Len() int {
	return len(l.txs)
}

// Transactions returns a copy of the transactions in append order.
func (l *Ledger) Transactions() []Transaction {
	out := make([]Transaction, len(l.txs))
	copy(out, l.txs)
	return out
}

// TransactionsInRange returns the transactions dated in [from, to].
func (l *Ledger) TransactionsInRange(from, to time.Time) []Transaction {
	var out []Transaction
	for _, tx := range l.txs {
		if tx.Date.Before(from) || tx.Date.After(to) {
			continue
		}
		out = append(out, tx)
	}
	return out
}

// Events returns the event transactions recorded under key, in order.
func (l *Ledger) Events(key string) []Transaction {
	var out []Transaction
	for _, tx := range l.txs {
		if tx.EventKey == key {
			out = append(out, tx)
		}
	}
	return out
}

// Totals returns a copy of the summed amounts per description.
func (l *Ledger) Totals() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(l.totals))
	for desc, total := range l.totals {
		out[desc] = total
	}
	return out
}

// Total returns the summed amount of every transaction with description desc.
func (l *Ledger) Total(desc string) decimal.Decimal {
	return l.totals[desc]
}

// BalanceAt returns the balance after the last transaction dated on or before
// at, or zero if there is none.
func (l *Ledger) BalanceAt(at time.Time) decimal.Decimal {
	balance := decimal.Zero
	for _, tx := range l.txs {
		if tx.Date.After(at) {
			continue
		}
		balance = tx.BalanceAfter
	}
	return balance
}
