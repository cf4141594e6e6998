package value

import (
	"math"
	"sort"
	"time"

	"github.com/arvihall/spine/sptime"
)

// TimeSeries holds a sorted timestamp index and a parallel value
// vector, optionally ignoring the calendar year on lookup and
// optionally repeating indefinitely with period `span` (spec.md §3's
// StandardTimeSeries and RepeatingTimeSeries, unified here the same
// way the teacher unifies its Datom variants behind one struct rather
// than two nearly-identical types).
type TimeSeries struct {
	Indexes    []time.Time
	Values     []float64
	IgnoreYear bool
	Repeat     bool

	// span, valsum and length are precomputed at construction time for
	// repeating series (spec.md §3's "repeating series precompute
	// span/valsum/len"); they are zero and unused otherwise.
	span   time.Duration
	valsum float64
	length int
}

// NewTimeSeries validates and builds a TimeSeries, precomputing the
// repeating-series aggregates eagerly so every later evaluation reuses
// them instead of recomputing a reduction over the whole index.
func NewTimeSeries(indexes []time.Time, values []float64, ignoreYear, repeat bool) (*TimeSeries, error) {
	if len(indexes) != len(values) {
		return nil, &InvariantError{Msg: "time series index and value vectors differ in length"}
	}
	for i := 1; i < len(indexes); i++ {
		if !indexes[i].After(indexes[i-1]) {
			return nil, &InvariantError{Msg: "time series index is not strictly increasing"}
		}
	}
	ts := &TimeSeries{Indexes: indexes, Values: values, IgnoreYear: ignoreYear, Repeat: repeat}
	if repeat {
		if len(indexes) < 1 {
			return nil, &InvariantError{Msg: "repeating time series needs at least one index"}
		}
		ts.span = indexes[len(indexes)-1].Sub(indexes[0])
		if ts.span <= 0 {
			// A single-sample repeating series still needs a positive
			// span to repeat against; treat it as spanning to the next
			// occurrence of itself one nominal day out. Real ingested
			// repeating series always carry at least two samples.
			ts.span = 24 * time.Hour
		}
		for _, v := range values {
			if !math.IsNaN(v) {
				ts.valsum += v
				ts.length++
			}
		}
	}
	return ts, nil
}

// InvariantError signals a violated data invariant at construction
// time; callers should treat it as fatal, not recoverable (spec.md §7's
// "Invariant" error kind).
type InvariantError struct{ Msg string }

func (e *InvariantError) Error() string { return "invariant violated: " + e.Msg }

func searchSortedLast(indexes []time.Time, x time.Time) int {
	i := sort.Search(len(indexes), func(i int) bool { return indexes[i].After(x) })
	return i - 1
}

func searchSortedFirst(indexes []time.Time, x time.Time) int {
	return sort.Search(len(indexes), func(i int) bool { return !indexes[i].Before(x) })
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// shiftYear rebuilds t with its year replaced by refYear, for
// ignore_year lookups: the index is stored against a single nominal
// year, so the query instant is realigned onto that same year before
// comparison, leaving month/day/time-of-day intact.
func shiftYear(t time.Time, refYear int) time.Time {
	return time.Date(refYear, t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func floorDivDuration(d, span time.Duration) int64 {
	q := int64(d / span)
	if d%span != 0 && d < 0 {
		q--
	}
	return q
}

// shiftedInstant reduces t modulo span relative to first, returning the
// equivalent instant inside [first, first+span) together with the
// integer number of full periods (reps) that were subtracted.
func shiftedInstant(t, first time.Time, span time.Duration) (time.Time, int64) {
	diff := t.Sub(first)
	reps := floorDivDuration(diff, span)
	return first.Add(diff - time.Duration(reps)*span), reps
}

// Evaluate implements spec.md §4.2's TimeSeries row: the no-keyword
// case returns the series itself, `i` is unsupported (StandardTimeSeries
// and RepeatingTimeSeries both mark that column "--" in the table),
// and the `t` cases dispatch to the standard or repeating lookup
// depending on Repeat.
func (ts *TimeSeries) Evaluate(args Args) (interface{}, error) {
	if args.HasI {
		return nil, nil
	}
	if !args.HasT {
		return ts, nil
	}
	if args.T.IsSlice {
		v, ok := ts.evaluateSlice(args.T.Slice)
		if ok && args.OnStale != nil {
			ts.registerFreshness(args.T.Slice, args.OnStale)
		}
		if !ok {
			return nil, nil
		}
		return v, nil
	}
	v, ok := ts.evaluateInstant(args.T.Instant)
	if !ok {
		return nil, nil
	}
	return v, nil
}

func (ts *TimeSeries) evaluateInstant(t time.Time) (float64, bool) {
	if ts.Repeat {
		shifted, _ := shiftedInstant(t, ts.Indexes[0], ts.span)
		k := searchSortedLast(ts.Indexes, shifted)
		if k < 0 {
			k = 0
		}
		return ts.Values[k], true
	}

	tt := t
	if ts.IgnoreYear {
		tt = shiftYear(t, ts.Indexes[0].Year())
	}
	k := searchSortedLast(ts.Indexes, tt)
	if k < 0 {
		return 0, false
	}
	if !ts.IgnoreYear && tt.After(ts.Indexes[len(ts.Indexes)-1]) {
		return 0, false
	}
	return ts.Values[k], true
}

func (ts *TimeSeries) evaluateSlice(slice *sptime.TimeSlice) (float64, bool) {
	if ts.Repeat {
		return ts.evaluateRepeatingSlice(slice)
	}
	tStart, tEnd := slice.Start(), slice.End()
	if ts.IgnoreYear {
		ref := ts.Indexes[0].Year()
		tStart, tEnd = shiftYear(tStart, ref), shiftYear(tEnd, ref)
	}
	n := len(ts.Indexes)
	if n == 0 {
		return 0, false
	}
	beforeAll := !tEnd.After(ts.Indexes[0])
	afterAll := tStart.After(ts.Indexes[n-1])
	if beforeAll || (afterAll && !ts.IgnoreYear) {
		return 0, false
	}
	a := clampInt(searchSortedLast(ts.Indexes, tStart), 0, n-1)
	b := clampInt(searchSortedFirst(ts.Indexes, tEnd)-1, 0, n-1)
	return meanSkipNaN(ts.Values, a, b)
}

func (ts *TimeSeries) evaluateRepeatingSlice(slice *sptime.TimeSlice) (float64, bool) {
	n := len(ts.Indexes)
	if n == 0 {
		return 0, false
	}
	shiftedStart, repsStart := shiftedInstant(slice.Start(), ts.Indexes[0], ts.span)
	shiftedEnd, repsEnd := shiftedInstant(slice.End(), ts.Indexes[0], ts.span)
	reps := repsEnd - repsStart

	if reps == 0 {
		a := clampInt(searchSortedLast(ts.Indexes, shiftedStart), 0, n-1)
		b := clampInt(searchSortedFirst(ts.Indexes, shiftedEnd)-1, 0, n-1)
		return meanSkipNaN(ts.Values, a, b)
	}

	a := clampInt(searchSortedLast(ts.Indexes, shiftedStart), 0, n-1)
	asum, alen := sumSkipNaN(ts.Values, a, n-1)

	bIdx := searchSortedFirst(ts.Indexes, shiftedEnd) - 1
	var bsum float64
	var blen int
	if bIdx >= 0 {
		bsum, blen = sumSkipNaN(ts.Values, 0, clampInt(bIdx, 0, n-1))
	}

	totalSum := asum + bsum + float64(reps-1)*ts.valsum
	totalLen := alen + blen + int(reps-1)*ts.length
	if totalLen <= 0 {
		return 0, false
	}
	return totalSum / float64(totalLen), true
}

func sumSkipNaN(values []float64, a, b int) (float64, int) {
	var sum float64
	var count int
	for i := a; i <= b; i++ {
		if v := values[i]; !math.IsNaN(v) {
			sum += v
			count++
		}
	}
	return sum, count
}

func meanSkipNaN(values []float64, a, b int) (float64, bool) {
	sum, count := sumSkipNaN(values, a, b)
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}

// nextTransitionAfter returns the earliest index timestamp strictly
// after end, translated back into real time for repeating series (whose
// Indexes only cover a single nominal period), together with whether
// one exists. A non-repeating series with end at or after its last
// index has no further transition.
func (ts *TimeSeries) nextTransitionAfter(end time.Time) (time.Time, bool) {
	n := len(ts.Indexes)
	if n == 0 {
		return time.Time{}, false
	}
	if !ts.Repeat {
		idx := sort.Search(n, func(i int) bool { return ts.Indexes[i].After(end) })
		if idx >= n {
			return time.Time{}, false
		}
		return ts.Indexes[idx], true
	}
	shifted, reps := shiftedInstant(end, ts.Indexes[0], ts.span)
	idx := sort.Search(n, func(i int) bool { return ts.Indexes[i].After(shifted) })
	if idx < n {
		return ts.Indexes[idx].Add(time.Duration(reps) * ts.span), true
	}
	return ts.Indexes[0].Add(time.Duration(reps+1) * ts.span), true
}

// registerFreshness computes how long the just-computed answer remains
// valid (the distance to the next index transition past the slice's
// end) and registers fire against that timeout on slice (spec.md §4.2's
// "Freshness / observer registration").
func (ts *TimeSeries) registerFreshness(slice *sptime.TimeSlice, fire func()) {
	next, ok := ts.nextTransitionAfter(slice.End())
	if !ok {
		return
	}
	timeout := next.Sub(slice.End())
	if timeout < 0 {
		timeout = 0
	}
	slice.Register(timeout, fire)
}
