package output

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/iwvelando/paydown-forecast/internal/config"
	"github.com/iwvelando/paydown-forecast/internal/forecast"
	"github.com/iwvelando/paydown-forecast/pkg/optimization"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testForecasts(t *testing.T) []forecast.Forecast {
	t.Helper()
	conf, err := config.LoadConfiguration("../../test/test_config.yaml")
	require.NoError(t, err)
	results, err := forecast.GetForecast(zap.NewNop(), *conf)
	require.NoError(t, err)
	require.Len(t, results, 2)
	return results
}

func TestPrettyFormat(t *testing.T) {
	results := testForecasts(t)

	// Capture stdout
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	PrettyFormat(results, 4)

	_ = w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	output := buf.String()

	if !strings.Contains(output, "--- Results for scenario banded bi-weekly ---") {
		t.Errorf("PrettyFormat missing scenario header")
	}
	if !strings.Contains(output, "--- Results for scenario fixed monthly ---") {
		t.Errorf("PrettyFormat missing second scenario header")
	}
	if !strings.Contains(output, "Date       | Description  | Amount") {
		t.Errorf("PrettyFormat missing table header")
	}
	if !strings.Contains(output, "APR=59.975%") {
		t.Errorf("PrettyFormat missing origination APR event")
	}
	if !strings.Contains(output, "$1,353.85") {
		t.Errorf("PrettyFormat missing paycheck amount")
	}
	if strings.Contains(output, "2024-01-15 |") {
		t.Errorf("PrettyFormat printed more rows than requested")
	}
}

func TestWritePrettySummary(t *testing.T) {
	results := testForecasts(t)

	var buf bytes.Buffer
	require.NoError(t, WritePretty(&buf, results, 0))
	output := buf.String()

	assert.Contains(t, output, "APR changed from 59.975% to 35.950%")
	assert.Contains(t, output, "APR stepped down: 2024-07-01")
	assert.Contains(t, output, "Account balance: $19,540.29")
	assert.Contains(t, output, "Loan balance:    $2,649.04")
	assert.Contains(t, output, "Payments made:   65 of 79 periods, $8,413.86 paid")
	assert.Contains(t, output, "Paid off:        2026-06-29")
	assert.Contains(t, output, "Paid off:        never")
	assert.Contains(t, output, "--- Comparison ---")
	assert.Contains(t, output, "Your savings with fixed monthly instead of banded bi-weekly: -$11,164.77")
}

func TestWritePrettySingleScenarioHasNoComparison(t *testing.T) {
	results := testForecasts(t)

	var buf bytes.Buffer
	require.NoError(t, WritePretty(&buf, results[:1], 2))
	assert.NotContains(t, buf.String(), "--- Comparison ---")
}

func TestWritePrettyOptimizations(t *testing.T) {
	results := testForecasts(t)
	results[1].Optimizations = []optimization.Summary{{
		Scenario:       "fixed monthly",
		Field:          "expenses",
		Original:       2000,
		Value:          2697.96,
		Floor:          0,
		MinimumBalance: 0,
		Converged:      true,
		Notes:          []string{"searched"},
	}}

	var buf bytes.Buffer
	require.NoError(t, WritePretty(&buf, results, 1))
	assert.Contains(t, buf.String(), "Optimized expenses: $2,697.96 (was $2,000.00), lowest balance $0.00 against a floor of $0.00, converged")
	assert.Contains(t, buf.String(), "  searched")
}

func TestWriteCsv(t *testing.T) {
	results := testForecasts(t)

	var buf bytes.Buffer
	require.NoError(t, WriteCsv(&buf, results, 3))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 7, "header plus three rows per scenario")

	assert.Equal(t, []string{"scenario", "date", "description", "amount", "balance", "loan balance", "event", "value", "notes"}, records[0])

	apr := records[1]
	assert.Equal(t, "banded bi-weekly", apr[0])
	assert.Equal(t, "2024-01-01", apr[1])
	assert.Equal(t, "apr", apr[6])
	assert.Equal(t, "59.975", apr[7])
	assert.Empty(t, apr[3], "events carry no amount")

	paycheck := records[3]
	assert.Equal(t, "paycheck", paycheck[2])
	assert.Equal(t, "1353.85", paycheck[3])
	assert.Equal(t, "1353.85", paycheck[4])
	assert.Empty(t, paycheck[5])

	assert.Equal(t, "fixed monthly", records[4][0])
}

func TestCsvString(t *testing.T) {
	results := testForecasts(t)

	out, err := CsvString(results)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 1+results[0].Ledger().Len()+results[1].Ledger().Len())

	last := records[len(records)-1]
	assert.Equal(t, "fixed monthly", last[0])
	assert.Equal(t, "expenses", last[2])
	assert.Equal(t, "8375.52", last[4])
}

func TestWriteCsvWithoutResults(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCsv(&buf, []forecast.Forecast{{Name: "empty"}}, 0))
	assert.Equal(t, "scenario,date,description,amount,balance,loan balance,event,value,notes\n", buf.String())
}
