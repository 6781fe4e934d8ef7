// Package period generates the calendar dates of recurring pay and payment
// schedules.
//
// A Rule is an immutable description of a schedule. The k-th date of a rule is
// a pure function of k, so iteration state lives in a small Cursor value owned
// by each consumer and any number of consumers can walk the same Rule at once.
package period

import (
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/paydown-forecast/pkg/constants"
	"github.com/iwvelando/paydown-forecast/pkg/datetime"
	"github.com/iwvelando/paydown-forecast/pkg/errs"
)

// Kind identifies the recurrence of a Rule.
type Kind int

const (
	KindMonthly Kind = iota + 1
	KindSemiMonthly
	KindWeekly
	KindBiWeekly
	KindCustom
)

var kindNames = map[Kind]string{
	KindMonthly:     "monthly",
	KindSemiMonthly: "semi-monthly",
	KindWeekly:      "weekly",
	KindBiWeekly:    "bi-weekly",
	KindCustom:      "custom",
}

// String returns the configuration name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind maps a configuration name such as "bi-weekly" to a Kind. Case,
// dashes and underscores are ignored so "BiWeekly" and "bi_weekly" also match.
func ParseKind(name string) (Kind, error) {
	normalized := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(strings.TrimSpace(name)))
	for kind, kindName := range kindNames {
		if strings.ReplaceAll(kindName, "-", "") == normalized {
			return kind, nil
		}
	}
	return 0, errs.Configurationf("unrecognized period kind %q", name)
}

// Spec is the raw, unvalidated description of a schedule.
type Spec struct {
	Kind     Kind
	Days     []int // anchor days of month for monthly and semi-monthly schedules
	StepDays int   // day step for custom schedules
}

// Rule is a validated recurrence. The zero value is not usable; build rules
// with NewRule or one of the kind constructors.
type Rule struct {
	start   time.Time
	kind    Kind
	anchors []int
	step    int

	// First occurrence of an anchored rule: the month it falls in and the
	// index of its anchor.
	firstMonth  time.Time
	firstAnchor int
}

// NewRule validates spec and returns the rule starting at start. Failures wrap
// errs.ErrConfiguration.
func NewRule(start time.Time, spec Spec) (Rule, error) {
	r := Rule{start: datetime.Truncate(start), kind: spec.Kind}

	switch spec.Kind {
	case KindMonthly, KindSemiMonthly:
		want := 1
		if spec.Kind == KindSemiMonthly {
			want = 2
		}
		if len(spec.Days) == 0 {
			return Rule{}, errs.Configurationf("%s period requires at least one anchor day", spec.Kind)
		}
		if len(spec.Days) != want {
			return Rule{}, errs.Configurationf("%s period requires %d anchor days, got %d", spec.Kind, want, len(spec.Days))
		}
		for i, day := range spec.Days {
			if day < 1 || day > constants.MaxAnchorDay {
				return Rule{}, errs.Configurationf("anchor day %d is outside 1..%d", day, constants.MaxAnchorDay)
			}
			if i > 0 && day <= spec.Days[i-1] {
				return Rule{}, errs.Configurationf("anchor days %v must be distinct and ascending", spec.Days)
			}
		}
		r.anchors = append([]int(nil), spec.Days...)
		r.locateFirstAnchor()
	case KindWeekly:
		r.step = constants.DaysPerWeek
	case KindBiWeekly:
		r.step = constants.DaysPerFortnight
	case KindCustom:
		if spec.StepDays <= 0 {
			return Rule{}, errs.Configurationf("custom period step must be positive, got %d", spec.StepDays)
		}
		r.step = spec.StepDays
	default:
		return Rule{}, errs.Configurationf("unrecognized period kind %d", int(spec.Kind))
	}

	return r, nil
}

// Monthly returns a rule firing on day of every month.
func Monthly(start time.Time, day int) (Rule, error) {
	return NewRule(start, Spec{Kind: KindMonthly, Days: []int{day}})
}

// SemiMonthly returns a rule firing on day1 and day2 of every month.
func SemiMonthly(start time.Time, day1, day2 int) (Rule, error) {
	return NewRule(start, Spec{Kind: KindSemiMonthly, Days: []int{day1, day2}})
}

// Weekly returns a rule firing every 7 days from start.
func Weekly(start time.Time) (Rule, error) {
	return NewRule(start, Spec{Kind: KindWeekly})
}

// BiWeekly returns a rule firing every 14 days from start.
func BiWeekly(start time.Time) (Rule, error) {
	return NewRule(start, Spec{Kind: KindBiWeekly})
}

// Custom returns a rule firing every step days from start.
func Custom(start time.Time, step int) (Rule, error) {
	return NewRule(start, Spec{Kind: KindCustom, StepDays: step})
}

// locateFirstAnchor finds the first anchor on or after start, moving to the
// first anchor of the next month when start is past every anchor of its month.
func (r *Rule) locateFirstAnchor() {
	month := datetime.Date(r.start.Year(), r.start.Month(), 1)
	for i, day := range r.anchors {
		if !datetime.ClampedDate(month.Year(), month.Month(), day).Before(r.start) {
			r.firstMonth = month
			r.firstAnchor = i
			return
		}
	}
	r.firstMonth = month.AddDate(0, 1, 0)
	r.firstAnchor = 0
}

// Start returns the date the rule was seeded with.
func (r Rule) Start() time.Time { return r.start }

// Kind returns the recurrence kind.
func (r Rule) Kind() Kind { return r.kind }

// StepDays returns the day step of weekly, bi-weekly and custom rules, or 0.
func (r Rule) StepDays() int { return r.step }

// Anchors returns a copy of the anchor days of monthly and semi-monthly rules.
func (r Rule) Anchors() []int { return append([]int(nil), r.anchors...) }

// IsZero reports whether r is the unusable zero Rule.
func (r Rule) IsZero() bool { return r.kind == 0 }

// At returns the k-th date of the rule; k = 0 is the first date yielded.
// Every anchor yields a date each month, so anchors that clamp to the same
// last day of a short month yield that date more than once.
func (r Rule) At(k int) time.Time {
	if len(r.anchors) == 0 {
		return r.start.AddDate(0, 0, k*r.step)
	}
	idx := r.firstAnchor + k
	month := r.firstMonth.AddDate(0, idx/len(r.anchors), 0)
	return datetime.ClampedDate(month.Year(), month.Month(), r.anchors[idx%len(r.anchors)])
}

// PeriodsPerYear returns how many dates the rule yields in an average year.
func (r Rule) PeriodsPerYear() float64 {
	switch r.kind {
	case KindMonthly:
		return constants.MonthsPerYear
	case KindSemiMonthly:
		return constants.SemiMonthlyPeriodsPerYear
	case KindWeekly:
		return constants.WeeklyPeriodsPerYear
	case KindBiWeekly:
		return constants.BiWeeklyPeriodsPerYear
	case KindCustom:
		return float64(constants.DaysPerYear) / float64(r.step)
	}
	return constants.MonthsPerYear
}

// AdjustMonthly converts a monthly quantity (a rate, a floor, an income) to the
// rule's cadence, e.g. x*12/26 for bi-weekly and x/2 for semi-monthly.
func (r Rule) AdjustMonthly(x float64) float64 {
	return x * constants.MonthsPerYear / r.PeriodsPerYear()
}

// String describes the rule, e.g. "bi-weekly from 2000-01-01".
func (r Rule) String() string {
	switch {
	case r.IsZero():
		return "invalid period"
	case len(r.anchors) > 0:
		return fmt.Sprintf("%s on days %v from %s", r.kind, r.anchors, r.start.Format(constants.DateLayout))
	case r.kind == KindCustom:
		return fmt.Sprintf("every %d days from %s", r.step, r.start.Format(constants.DateLayout))
	default:
		return fmt.Sprintf("%s from %s", r.kind, r.start.Format(constants.DateLayout))
	}
}
