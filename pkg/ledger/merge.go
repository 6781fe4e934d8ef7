package ledger

import (
	"fmt"
	"sort"
	"strings"

	"github.com/iwvelando/paydown-forecast/pkg/errs"
	"github.com/shopspring/decimal"
)

// MergePolicy selects the balance of a merged ledger.
type MergePolicy int

const (
	// MergeLastInput takes the final balance of the last ledger passed in.
	MergeLastInput MergePolicy = iota
	// MergeLastByDate takes the running balance of the latest transaction
	// after sorting.
	MergeLastByDate
	// MergeSum adds the final balances of every input.
	MergeSum
)

var mergePolicyNames = map[MergePolicy]string{
	MergeLastInput:  "last-input",
	MergeLastByDate: "last-by-date",
	MergeSum:        "sum",
}

func (p MergePolicy) String() string {
	if name, ok := mergePolicyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("merge policy(%d)", int(p))
}

// ParseMergePolicy maps a configuration name to a MergePolicy. An empty name
// selects MergeLastInput.
func ParseMergePolicy(name string) (MergePolicy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return MergeLastInput, nil
	}
	for policy, n := range mergePolicyNames {
		if n == name {
			return policy, nil
		}
	}
	return 0, errs.InvalidOptionf("unknown merge policy %q", name)
}

// Merge returns a new sealed ledger holding the transactions of every input,
// stably sorted by date so same-day transactions keep their input order.
// Totals are recomputed over the union and the balance is chosen by policy.
// Each transaction keeps the BalanceAfter of the ledger it came from. The
// inputs are not modified.
func Merge(policy MergePolicy, ledgers ...*Ledger) (*Ledger, error) {
	if _, ok := mergePolicyNames[policy]; !ok {
		return nil, errs.InvalidOptionf("unknown merge policy %d", int(policy))
	}

	merged := New()
	var last decimal.Decimal
	sum := decimal.Zero
	for _, l := range ledgers {
		if l == nil {
			continue
		}
		merged.txs = append(merged.txs, l.txs...)
		last = l.balance
		sum = sum.Add(l.balance)
	}

	sort.SliceStable(merged.txs, func(i, j int) bool {
		return merged.txs[i].Date.Before(merged.txs[j].Date)
	})
	for _, tx := range merged.txs {
		merged.totals[tx.Description] = merged.totals[tx.Description].Add(tx.Amount)
	}

	switch policy {
	case MergeLastInput:
		merged.balance = last
	case MergeLastByDate:
		if n := len(merged.txs); n > 0 {
			merged.balance = merged.txs[n-1].BalanceAfter
		}
	case MergeSum:
		merged.balance = sum
	}
	merged.Seal()
	return merged, nil
}
