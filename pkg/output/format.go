// Package output provides utilities for formatting and displaying forecast results.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/iwvelando/paydown-forecast/internal/forecast"
	"github.com/iwvelando/paydown-forecast/pkg/constants"
	"github.com/iwvelando/paydown-forecast/pkg/format"
	"github.com/iwvelando/paydown-forecast/pkg/ledger"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat outputs a human-readable rather than machine-readable table.
// rows limits the number of ledger rows shown per scenario; 0 shows them all.
func PrettyFormat(results []forecast.Forecast, rows int) {
	_ = WritePretty(os.Stdout, results, rows)
}

// WritePretty writes the PrettyFormat table to w.
func WritePretty(w io.Writer, results []forecast.Forecast, rows int) error {
	p := message.NewPrinter(language.English)
	for i, result := range results {
		if _, err := fmt.Fprintf(w, "--- Results for scenario %s ---\n", result.Name); err != nil {
			return err
		}
		fmt.Fprintf(w, "Date       | Description  | Amount        | Balance       | Loan Balance  | Notes\n")
		fmt.Fprintf(w, "____       | ___________  | ______        | _______       | ____________  | _____\n")

		lastDate := ""
		for _, tx := range limit(transactions(result), rows) {
			date := tx.Date.Format(constants.DateLayout)
			notes := ""
			if date != lastDate {
				notes = strings.Join(result.Notes[date], ",")
				lastDate = date
			}
			if tx.IsEvent() {
				_, _ = p.Fprintf(w, "%s | %-12s | %13s | %13s | %13s | %s\n",
					date, eventLabel(tx), "", "", "", notes)
				continue
			}
			loanBalance := ""
			if tx.LoanBalance.Valid {
				loanBalance = p.Sprintf("$%.2f", tx.LoanBalance.Decimal.InexactFloat64())
			}
			_, _ = p.Fprintf(w, "%s | %-12s | %13s | %13s | %13s | %s\n",
				date, tx.Description,
				p.Sprintf("$%.2f", tx.Amount.InexactFloat64()),
				p.Sprintf("$%.2f", tx.BalanceAfter.InexactFloat64()),
				loanBalance, notes)
		}
		writeSummary(w, result)
		if len(results) > 1 && i < len(results)-1 {
			fmt.Fprintf(w, "\n")
		}
	}

	comparisons, err := forecast.CompareAll(results)
	if err != nil {
		return err
	}
	if len(comparisons) > 0 {
		fmt.Fprintf(w, "\n--- Comparison ---\n")
	}
	for _, c := range comparisons {
		fmt.Fprintf(w, "Your savings with %s instead of %s: %s\n",
			c.Alternative, c.Baseline, format.DecimalCurrency(c.Savings))
		fmt.Fprintf(w, "Paid to the lender: %s less\n", format.Currency(c.LoanPaidDifference))
	}
	return nil
}

func writeSummary(w io.Writer, result forecast.Forecast) {
	r := result.Result
	if r == nil {
		return
	}
	fmt.Fprintf(w, "Account balance: %s\n", format.DecimalCurrency(r.Ledger.Balance()))
	fmt.Fprintf(w, "Loan balance:    %s\n", format.Currency(r.LoanBalance))
	fmt.Fprintf(w, "Payments made:   %d of %d periods, %s paid, %s interest\n",
		r.PaymentsMade, r.Periods, format.Currency(r.TotalPaid), format.Currency(r.TotalInterest))
	if !r.StepDownDate.IsZero() {
		fmt.Fprintf(w, "APR stepped down: %s\n", r.StepDownDate.Format(constants.DateLayout))
	}
	if r.PaidOff() {
		fmt.Fprintf(w, "Paid off:        %s\n", r.PayoffDate.Format(constants.DateLayout))
	} else {
		fmt.Fprintf(w, "Paid off:        never\n")
	}
	for _, o := range result.Optimizations {
		status := "converged"
		if !o.Converged {
			status = "not converged"
		}
		fmt.Fprintf(w, "Optimized %s: %s (was %s), lowest balance %s against a floor of %s, %s\n",
			o.Field, format.Currency(o.Value), format.Currency(o.Original),
			format.Currency(o.MinimumBalance), format.Currency(o.Floor), status)
		for _, note := range o.Notes {
			fmt.Fprintf(w, "  %s\n", note)
		}
	}
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(results []forecast.Forecast, rows int) {
	_ = WriteCsv(os.Stdout, results, rows)
}

// CsvString returns the CSV rendering of every ledger row.
func CsvString(results []forecast.Forecast) (string, error) {
	var b strings.Builder
	if err := WriteCsv(&b, results, 0); err != nil {
		return "", err
	}
	return b.String(), nil
}

// WriteCsv writes one record per ledger transaction, scenarios one after the
// other.
func WriteCsv(w io.Writer, results []forecast.Forecast, rows int) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"scenario", "date", "description", "amount", "balance", "loan balance", "event", "value", "notes"}); err != nil {
		return err
	}
	for _, result := range results {
		lastDate := ""
		for _, tx := range limit(transactions(result), rows) {
			date := tx.Date.Format(constants.DateLayout)
			notes := ""
			if date != lastDate {
				notes = strings.Join(result.Notes[date], ",")
				lastDate = date
			}
			record := []string{result.Name, date, tx.Description, "", "", "", tx.EventKey, "", notes}
			if tx.IsEvent() {
				if tx.EventValue.Valid {
					record[7] = tx.EventValue.Decimal.String()
				}
			} else {
				record[3] = tx.Amount.StringFixed(constants.CurrencyPlaces)
				record[4] = tx.BalanceAfter.StringFixed(constants.CurrencyPlaces)
				if tx.LoanBalance.Valid {
					record[5] = tx.LoanBalance.Decimal.StringFixed(constants.CurrencyPlaces)
				}
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func eventLabel(tx ledger.Transaction) string {
	if !tx.EventValue.Valid {
		return tx.EventKey
	}
	if tx.EventKey == constants.EventAPR {
		return "APR=" + format.Percent(tx.EventValue.Decimal.InexactFloat64())
	}
	return tx.EventKey + "=" + tx.EventValue.Decimal.String()
}

func transactions(result forecast.Forecast) []ledger.Transaction {
	if result.Ledger() == nil {
		return nil
	}
	return result.Ledger().Transactions()
}

func limit(txs []ledger.Transaction, rows int) []ledger.Transaction {
	if rows > 0 && rows < len(txs) {
		return txs[:rows]
	}
	return txs
}
