package period

import (
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/iwvelando/paydown-forecast/pkg/datetime"
	"github.com/iwvelando/paydown-forecast/pkg/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	return datetime.MustParseTime(datetime.DateLayout, s)
}

func formatted(dates []time.Time) []string {
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.Format(datetime.DateLayout)
	}
	return out
}

func TestRuleSequences(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		spec     Spec
		expected []string
	}{
		{
			name:     "Bi-weekly",
			start:    "2000-01-01",
			spec:     Spec{Kind: KindBiWeekly},
			expected: []string{"2000-01-01", "2000-01-15", "2000-01-29", "2000-02-12", "2000-02-26", "2000-03-11"},
		},
		{
			name:     "Weekly",
			start:    "2000-01-01",
			spec:     Spec{Kind: KindWeekly},
			expected: []string{"2000-01-01", "2000-01-08", "2000-01-15"},
		},
		{
			name:     "Custom ten days",
			start:    "2000-02-25",
			spec:     Spec{Kind: KindCustom, StepDays: 10},
			expected: []string{"2000-02-25", "2000-03-06", "2000-03-16"},
		},
		{
			name:     "Monthly on the first",
			start:    "2000-01-01",
			spec:     Spec{Kind: KindMonthly, Days: []int{1}},
			expected: []string{"2000-01-01", "2000-02-01", "2000-03-01", "2000-04-01", "2000-05-01"},
		},
		{
			name:     "Monthly wraps the year",
			start:    "2000-12-01",
			spec:     Spec{Kind: KindMonthly, Days: []int{1}},
			expected: []string{"2000-12-01", "2001-01-01", "2001-02-01"},
		},
		{
			name:     "Monthly start after anchor moves to next month",
			start:    "2000-01-20",
			spec:     Spec{Kind: KindMonthly, Days: []int{15}},
			expected: []string{"2000-02-15", "2000-03-15"},
		},
		{
			name:     "Monthly start before anchor stays in month",
			start:    "2000-01-10",
			spec:     Spec{Kind: KindMonthly, Days: []int{15}},
			expected: []string{"2000-01-15", "2000-02-15"},
		},
		{
			name:     "Monthly 31st rolls to last day of short months",
			start:    "2001-01-31",
			spec:     Spec{Kind: KindMonthly, Days: []int{31}},
			expected: []string{"2001-01-31", "2001-02-28", "2001-03-31", "2001-04-30", "2001-05-31"},
		},
		{
			name:     "Monthly 30th in leap February",
			start:    "2000-02-01",
			spec:     Spec{Kind: KindMonthly, Days: []int{30}},
			expected: []string{"2000-02-29", "2000-03-30"},
		},
		{
			name:     "Semi-monthly 7th and 22nd",
			start:    "2000-01-01",
			spec:     Spec{Kind: KindSemiMonthly, Days: []int{7, 22}},
			expected: []string{"2000-01-07", "2000-01-22", "2000-02-07", "2000-02-22", "2000-03-07"},
		},
		{
			name:     "Semi-monthly 1st and 15th",
			start:    "2000-01-01",
			spec:     Spec{Kind: KindSemiMonthly, Days: []int{1, 15}},
			expected: []string{"2000-01-01", "2000-01-15", "2000-02-01", "2000-02-15", "2000-03-01"},
		},
		{
			name:     "Semi-monthly delayed start",
			start:    "2000-01-08",
			spec:     Spec{Kind: KindSemiMonthly, Days: []int{1, 15}},
			expected: []string{"2000-01-15", "2000-02-01", "2000-02-15", "2000-03-01"},
		},
		{
			name:     "Semi-monthly start after both anchors",
			start:    "2000-01-20",
			spec:     Spec{Kind: KindSemiMonthly, Days: []int{1, 15}},
			expected: []string{"2000-02-01", "2000-02-15"},
		},
		{
			name:     "Semi-monthly year boundary",
			start:    "2000-12-16",
			spec:     Spec{Kind: KindSemiMonthly, Days: []int{15, 31}},
			expected: []string{"2000-12-31", "2001-01-15", "2001-01-31", "2001-02-15", "2001-02-28"},
		},
		{
			name:     "Semi-monthly anchors clamping to the same day",
			start:    "2001-01-29",
			spec:     Spec{Kind: KindSemiMonthly, Days: []int{29, 30}},
			expected: []string{"2001-01-29", "2001-01-30", "2001-02-28", "2001-02-28", "2001-03-29", "2001-03-30"},
		},
		{
			name:     "Semi-monthly 28th and 31st in February",
			start:    "2001-02-01",
			spec:     Spec{Kind: KindSemiMonthly, Days: []int{28, 31}},
			expected: []string{"2001-02-28", "2001-02-28", "2001-03-28", "2001-03-31"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, err := NewRule(date(tt.start), tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, formatted(rule.Take(len(tt.expected))))
		})
	}
}

func TestNewRuleErrors(t *testing.T) {
	start := date("2000-01-01")
	tests := []struct {
		name string
		spec Spec
	}{
		{"Monthly without anchors", Spec{Kind: KindMonthly}},
		{"Monthly with two anchors", Spec{Kind: KindMonthly, Days: []int{1, 15}}},
		{"Semi-monthly with one anchor", Spec{Kind: KindSemiMonthly, Days: []int{1}}},
		{"Semi-monthly unsorted", Spec{Kind: KindSemiMonthly, Days: []int{15, 1}}},
		{"Semi-monthly duplicate", Spec{Kind: KindSemiMonthly, Days: []int{15, 15}}},
		{"Anchor zero", Spec{Kind: KindMonthly, Days: []int{0}}},
		{"Anchor 32", Spec{Kind: KindMonthly, Days: []int{32}}},
		{"Custom zero step", Spec{Kind: KindCustom}},
		{"Custom negative step", Spec{Kind: KindCustom, StepDays: -7}},
		{"Unknown kind", Spec{Kind: Kind(99)}},
		{"Zero kind", Spec{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRule(start, tt.spec)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errs.ErrConfiguration), "expected configuration error, got %v", err)
		})
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		input    string
		expected Kind
	}{
		{"monthly", KindMonthly},
		{"semi-monthly", KindSemiMonthly},
		{"SemiMonthly", KindSemiMonthly},
		{"bi-weekly", KindBiWeekly},
		{"bi_weekly", KindBiWeekly},
		{" weekly ", KindWeekly},
		{"custom", KindCustom},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			kind, err := ParseKind(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, kind)
		})
	}

	_, err := ParseKind("fortnightly-ish")
	assert.True(t, errors.Is(err, errs.ErrConfiguration))
}

func TestNumPeriods(t *testing.T) {
	tests := []struct {
		name     string
		spec     Spec
		months   int
		expected int
	}{
		{"Monthly two years", Spec{Kind: KindMonthly, Days: []int{1}}, 24, 24},
		{"Monthly one year", Spec{Kind: KindMonthly, Days: []int{1}}, 12, 12},
		{"Semi-monthly one year", Spec{Kind: KindSemiMonthly, Days: []int{1, 15}}, 12, 24},
		{"Bi-weekly leap year", Spec{Kind: KindBiWeekly}, 12, 27},
		{"Weekly leap year", Spec{Kind: KindWeekly}, 12, 53},
		{"Zero horizon", Spec{Kind: KindMonthly, Days: []int{1}}, 0, 0},
		{"Negative horizon", Spec{Kind: KindBiWeekly}, -3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, err := NewRule(date("2000-01-01"), tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, rule.NumPeriods(tt.months))
		})
	}
}

func TestUntilIsInclusive(t *testing.T) {
	rule, err := BiWeekly(date("2000-01-01"))
	require.NoError(t, err)

	dates := rule.Until(date("2000-01-29"))
	assert.Equal(t, []string{"2000-01-01", "2000-01-15", "2000-01-29"}, formatted(dates))

	assert.Empty(t, rule.Until(date("1999-12-31")))
	assert.Empty(t, Rule{}.Until(date("2001-01-01")))
}

func TestCursorIsPureAndRestartable(t *testing.T) {
	rule, err := SemiMonthly(date("2000-01-01"), 1, 15)
	require.NoError(t, err)

	first, c1 := rule.Next(Cursor{})
	second, c2 := rule.Next(c1)
	assert.Equal(t, "2000-01-01", first.Format(datetime.DateLayout))
	assert.Equal(t, "2000-01-15", second.Format(datetime.DateLayout))
	assert.Equal(t, 2, c2.Index())

	// Re-reading an old cursor yields the same date again.
	again, _ := rule.Next(c1)
	assert.Equal(t, second, again)

	it := rule.Iterator()
	assert.Equal(t, first, it.Peek())
	assert.Equal(t, first, it.Next())
	assert.Equal(t, second, it.Next())
	it.Reset()
	assert.Equal(t, first, it.Next())
}

func TestIndependentConsumers(t *testing.T) {
	rule, err := BiWeekly(date("2000-01-01"))
	require.NoError(t, err)
	want := rule.Take(100)

	var wg sync.WaitGroup
	results := make([][]time.Time, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			it := rule.Iterator()
			for n := 0; n < 100; n++ {
				results[i] = append(results[i], it.Next())
			}
		}(i)
	}
	wg.Wait()

	for i := range results {
		assert.Equal(t, want, results[i], "consumer %d diverged", i)
	}
}

func TestAllStopsOnBreak(t *testing.T) {
	rule, err := Monthly(date("2000-01-01"), 1)
	require.NoError(t, err)

	n := 0
	for d := range rule.All() {
		if d.Year() > 2000 {
			break
		}
		n++
	}
	assert.Equal(t, 12, n)
}

func TestAdjustMonthly(t *testing.T) {
	start := date("2000-01-01")
	monthly, _ := Monthly(start, 1)
	semi, _ := SemiMonthly(start, 1, 15)
	biweekly, _ := BiWeekly(start)
	weekly, _ := Weekly(start)
	custom, _ := Custom(start, 73)

	tests := []struct {
		name     string
		rule     Rule
		expected float64
	}{
		{"Monthly", monthly, 120},
		{"Semi-monthly", semi, 60},
		{"Bi-weekly", biweekly, 120 * 12.0 / 26.0},
		{"Weekly", weekly, 120 * 12.0 / 52.0},
		{"Custom", custom, 120 * 12.0 / 5.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.rule.AdjustMonthly(120)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("AdjustMonthly() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestRuleAccessors(t *testing.T) {
	rule, err := SemiMonthly(time.Date(2000, 1, 3, 15, 30, 0, 0, time.UTC), 7, 22)
	require.NoError(t, err)

	assert.Equal(t, date("2000-01-03"), rule.Start())
	assert.Equal(t, KindSemiMonthly, rule.Kind())
	assert.Equal(t, []int{7, 22}, rule.Anchors())
	assert.Equal(t, 0, rule.StepDays())
	assert.Equal(t, "semi-monthly on days [7 22] from 2000-01-03", rule.String())

	anchors := rule.Anchors()
	anchors[0] = 99
	assert.Equal(t, []int{7, 22}, rule.Anchors(), "anchors must not alias rule state")

	custom, err := Custom(date("2000-01-01"), 10)
	require.NoError(t, err)
	assert.Equal(t, "every 10 days from 2000-01-01", custom.String())
	assert.True(t, Rule{}.IsZero())
}
