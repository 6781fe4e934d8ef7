package period

import (
	"iter"
	"time"

	"github.com/iwvelando/paydown-forecast/pkg/datetime"
)

// Cursor is the iteration state of one consumer of a Rule. The zero Cursor
// points at the first date.
type Cursor struct {
	next int
}

// Index returns how many dates have been yielded through this cursor.
func (c Cursor) Index() int { return c.next }

// Next returns the date at the cursor and the cursor advanced past it. Neither
// the rule nor the given cursor is modified.
func (r Rule) Next(c Cursor) (time.Time, Cursor) {
	return r.At(c.next), Cursor{next: c.next + 1}
}

// Iterator is a convenience wrapper pairing a rule with a private cursor. It
// must not be shared between goroutines; take one iterator per consumer.
type Iterator struct {
	rule   Rule
	cursor Cursor
}

// Iterator returns a fresh iterator positioned at the first date.
func (r Rule) Iterator() *Iterator {
	return &Iterator{rule: r}
}

// Next returns the next date and advances.
func (it *Iterator) Next() time.Time {
	var date time.Time
	date, it.cursor = it.rule.Next(it.cursor)
	return date
}

// Peek returns the next date without advancing.
func (it *Iterator) Peek() time.Time {
	date, _ := it.rule.Next(it.cursor)
	return date
}

// Reset rewinds the iterator to the first date.
func (it *Iterator) Reset() {
	it.cursor = Cursor{}
}

// All returns the unbounded sequence of the rule's dates. Callers bound it
// with break, or use Take or Until.
func (r Rule) All() iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		for k := 0; ; k++ {
			if !yield(r.At(k)) {
				return
			}
		}
	}
}

// Take returns the first n dates.
func (r Rule) Take(n int) []time.Time {
	if n <= 0 {
		return nil
	}
	dates := make([]time.Time, n)
	for k := range dates {
		dates[k] = r.At(k)
	}
	return dates
}

// Until returns every date on or before end.
func (r Rule) Until(end time.Time) []time.Time {
	if r.IsZero() {
		return nil
	}
	var dates []time.Time
	for date := range r.All() {
		if date.After(end) {
			break
		}
		dates = append(dates, date)
	}
	return dates
}

// NumPeriods counts the dates strictly before start + months calendar months.
// The first yielded date is counted, so a monthly rule covers exactly months
// periods.
func (r Rule) NumPeriods(months int) int {
	if months <= 0 || r.IsZero() {
		return 0
	}
	end := datetime.AddMonths(r.start, months)
	n := 0
	for date := range r.All() {
		if !date.Before(end) {
			break
		}
		n++
	}
	return n
}
