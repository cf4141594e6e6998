// Package sptime implements the time model: TimeSlice, PeriodCollection
// and the observer/update bus a TimeSlice owns (spec.md §3, §4.1, §4.2
// "Freshness / observer registration").
package sptime

import (
	"sort"
	"sync/atomic"
	"time"
)

var sliceIDCounter uint64

// nextSliceID returns a process-local monotonically increasing id. Slice
// identity never needs to survive a process boundary (spec.md only
// requires "id: frozen at construction"), so a counter is enough and
// avoids pulling in a hash dependency for a value nothing ever compares
// across processes.
func nextSliceID() uint64 {
	return atomic.AddUint64(&sliceIDCounter, 1)
}

// Observer is a handle returned by TimeSlice.Register. It can be used to
// cancel a pending registration before it fires.
type Observer struct {
	id uint64
}

type observerEntry struct {
	handle Observer
	fire   func()
}

// TimeSlice is a half-open interval [start, end) with a duration and a
// rollable position, carrying observers for reactive refresh (spec.md
// §3). start and end are mutable via Roll; duration and id are frozen
// at construction.
type TimeSlice struct {
	start, end      time.Time
	durationMinutes int64
	blocks          []string
	id              uint64

	// observers buckets callbacks by their remaining time-to-update.
	// Multiple callbacks may share the same timeout bucket.
	observers map[time.Duration][]observerEntry
	nextObsID uint64
}

// New constructs a TimeSlice over [start, end). It panics with an
// InvariantError-shaped message if start > end, matching spec.md §3's
// invariant "start ≤ end" and §7's "Invariant" error kind (out-of-order
// time slice construction is a programmer error, fatal).
func New(start, end time.Time, blocks ...string) *TimeSlice {
	if end.Before(start) {
		panic("sptime: invariant violated: TimeSlice end before start")
	}
	return &TimeSlice{
		start:           start,
		end:             end,
		durationMinutes: int64(end.Sub(start).Minutes()),
		blocks:          blocks,
		id:              nextSliceID(),
	}
}

// Start returns the slice's current start instant.
func (t *TimeSlice) Start() time.Time { return t.start }

// End returns the slice's current end instant.
func (t *TimeSlice) End() time.Time { return t.end }

// DurationMinutes returns the duration fixed at construction.
func (t *TimeSlice) DurationMinutes() int64 { return t.durationMinutes }

// Duration returns the slice's current wall-clock span (end - start).
func (t *TimeSlice) Duration() time.Duration { return t.end.Sub(t.start) }

// ID returns the slice's frozen identifier.
func (t *TimeSlice) ID() uint64 { return t.id }

// Blocks returns the tuple of object names this slice belongs to.
func (t *TimeSlice) Blocks() []string { return t.blocks }

// Before reports whether a ends at or before b starts.
func Before(a, b *TimeSlice) bool {
	return !a.end.After(b.start)
}

// Contains reports whether b is wholly inside a: start(a) <= start(b)
// and end(b) <= end(a).
func Contains(a, b *TimeSlice) bool {
	return !a.start.After(b.start) && !b.end.After(a.end)
}

// IsContained reports whether a is wholly inside b (the mirror of
// Contains, exposed to match spec.md §6's `iscontained`).
func IsContained(a, b *TimeSlice) bool {
	return Contains(b, a)
}

// Overlaps reports whether a and b share any instant: start(a) <=
// start(b) < end(a), or start(b) <= start(a) < end(b) (spec.md §4.1).
func Overlaps(a, b *TimeSlice) bool {
	if !a.start.After(b.start) && b.start.Before(a.end) {
		return true
	}
	if !b.start.After(a.start) && a.start.Before(b.end) {
		return true
	}
	return false
}

// OverlapDuration returns the wall-clock duration a and b share, or 0 if
// they don't overlap.
func OverlapDuration(a, b *TimeSlice) time.Duration {
	start := a.start
	if b.start.After(start) {
		start = b.start
	}
	end := a.end
	if b.end.Before(end) {
		end = b.end
	}
	if end.Before(start) || end.Equal(start) {
		return 0
	}
	return end.Sub(start)
}

// Roll shifts the slice by delta and, when update is true, advances the
// observer bus: every registered callback has its remaining time-to-
// update decremented by delta; any whose timeout has reached zero or
// below, or for which delta is negative (time moved backwards, which
// invalidates any pending answer immediately per spec.md §4.1), fires
// and is dropped; the rest are re-bucketed under their new timeout.
func (t *TimeSlice) Roll(delta time.Duration, update bool) {
	t.start = t.start.Add(delta)
	t.end = t.end.Add(delta)

	if !update || len(t.observers) == 0 {
		return
	}

	next := make(map[time.Duration][]observerEntry, len(t.observers))
	var due []observerEntry
	for timeout, entries := range t.observers {
		newTimeout := timeout - delta
		if delta < 0 || newTimeout <= 0 {
			due = append(due, entries...)
			continue
		}
		next[newTimeout] = append(next[newTimeout], entries...)
	}
	t.observers = next

	for _, e := range due {
		e.fire()
	}
}

// Register attaches an observer under the given timeout: the distance
// in wall-clock time until the current answer at this slice stops being
// valid. fire is invoked exactly once, either when Roll determines the
// timeout has elapsed, or never if the observer is cancelled first via
// Cancel. A non-positive timeout fires immediately.
func (t *TimeSlice) Register(timeout time.Duration, fire func()) Observer {
	if timeout <= 0 {
		fire()
		return Observer{}
	}
	if t.observers == nil {
		t.observers = make(map[time.Duration][]observerEntry)
	}
	t.nextObsID++
	h := Observer{id: t.nextObsID}
	t.observers[timeout] = append(t.observers[timeout], observerEntry{handle: h, fire: fire})
	return h
}

// Cancel removes a previously registered observer before it fires. It is
// a no-op if the observer already fired or was never registered here.
func (t *TimeSlice) Cancel(h Observer) {
	if h.id == 0 {
		return
	}
	for timeout, entries := range t.observers {
		for i, e := range entries {
			if e.handle.id == h.id {
				t.observers[timeout] = append(entries[:i], entries[i+1:]...)
				return
			}
		}
	}
}

// PendingObserverCount returns the number of observers still registered,
// for tests.
func (t *TimeSlice) PendingObserverCount() int {
	n := 0
	for _, entries := range t.observers {
		n += len(entries)
	}
	return n
}

// TLowestResolution returns the slice with the coarsest (largest)
// duration among the given slices, matching spec.md §6's
// `t_lowest_resolution`.
func TLowestResolution(slices []*TimeSlice) *TimeSlice {
	return extreme(slices, func(a, b *TimeSlice) bool { return a.Duration() > b.Duration() })
}

// THighestResolution returns the slice with the finest (smallest)
// duration among the given slices, matching spec.md §6's
// `t_highest_resolution`.
func THighestResolution(slices []*TimeSlice) *TimeSlice {
	return extreme(slices, func(a, b *TimeSlice) bool { return a.Duration() < b.Duration() })
}

func extreme(slices []*TimeSlice, better func(a, b *TimeSlice) bool) *TimeSlice {
	if len(slices) == 0 {
		return nil
	}
	best := slices[0]
	for _, s := range slices[1:] {
		if better(s, best) {
			best = s
		}
	}
	return best
}

// SortSlices sorts slices by start then end, ascending. Exposed for
// tests and for callers building deterministic reports.
func SortSlices(slices []*TimeSlice) {
	sort.Slice(slices, func(i, j int) bool {
		if !slices[i].start.Equal(slices[j].start) {
			return slices[i].start.Before(slices[j].start)
		}
		return slices[i].end.Before(slices[j].end)
	})
}
