package value

import (
	"math"
	"time"

	"github.com/arvihall/spine/sptime"
)

// PatternEntry pairs a PeriodCollection with the value it contributes
// when matched (spec.md §3's "PeriodCollection -> value" mapping).
type PatternEntry struct {
	Periods sptime.PeriodCollection
	Value   float64
}

// TimePattern is a calendar-keyed value: a list of (period, value)
// entries where the effective value at an instant is the NaN-skip mean
// of every entry whose period matches (spec.md §3, §4.2).
type TimePattern struct {
	Entries   []PatternEntry
	precision sptime.Precision
}

// NewTimePattern builds a TimePattern, computing its overall precision
// eagerly (the finest field named by any entry) so freshness
// computation never has to rescan the entries.
func NewTimePattern(entries []PatternEntry) *TimePattern {
	p := sptime.PrecisionNone
	for _, e := range entries {
		if ep := e.Periods.Precision(); ep > p {
			p = ep
		}
	}
	return &TimePattern{Entries: entries, precision: p}
}

// Evaluate implements spec.md §4.2's TimePattern row.
func (tp *TimePattern) Evaluate(args Args) (interface{}, error) {
	if args.HasI {
		return nil, nil
	}
	if !args.HasT {
		return tp.Entries, nil
	}
	if args.T.IsSlice {
		slice := args.T.Slice
		var sum float64
		var count int
		for _, e := range tp.Entries {
			if sptime.Overlap(slice, e.Periods) && !math.IsNaN(e.Value) {
				sum += e.Value
				count++
			}
		}
		if count == 0 {
			return nil, nil
		}
		if args.OnStale != nil {
			tp.registerFreshness(slice, args.OnStale)
		}
		return sum / float64(count), nil
	}

	t := args.T.Instant
	matched := false
	var sum float64
	var count int
	for _, e := range tp.Entries {
		if e.Periods.Matches(t) {
			matched = true
			if !math.IsNaN(e.Value) {
				sum += e.Value
				count++
			}
		}
	}
	if !matched || count == 0 {
		return nil, nil
	}
	return sum / float64(count), nil
}

// registerFreshness computes the next calendar boundary at this
// pattern's precision past slice.End() and registers fire against that
// timeout.
func (tp *TimePattern) registerFreshness(slice *sptime.TimeSlice, fire func()) {
	next := nextBoundary(slice.End(), tp.precision)
	timeout := next.Sub(slice.End())
	if timeout < 0 {
		timeout = 0
	}
	slice.Register(timeout, fire)
}

// nextBoundary returns the next instant after t at which a field of the
// given precision changes value.
func nextBoundary(t time.Time, p sptime.Precision) time.Time {
	switch p {
	case sptime.PrecisionSecond:
		return t.Truncate(time.Second).Add(time.Second)
	case sptime.PrecisionMinute:
		return t.Truncate(time.Minute).Add(time.Minute)
	case sptime.PrecisionHour:
		return t.Truncate(time.Hour).Add(time.Hour)
	case sptime.PrecisionDay, sptime.PrecisionWeekday:
		d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
		return d.AddDate(0, 0, 1)
	case sptime.PrecisionMonth:
		d := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
		return d.AddDate(0, 1, 0)
	case sptime.PrecisionYear:
		d := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
		return d.AddDate(1, 0, 0)
	default:
		return t
	}
}
