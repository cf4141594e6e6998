package sptime

import "time"

// Field names the calendar component a PeriodCollection interval can
// constrain (spec.md §3's Y, M, D, WD, h, m, s).
type Field int

const (
	FieldYear Field = iota
	FieldMonth
	FieldDay
	FieldWeekday
	FieldHour
	FieldMinute
	FieldSecond
)

// Precision ranks pattern precision from coarsest to finest, matching
// spec.md §3: "Year > Month > Day > Hour > Minute > Second." Weekday is
// not named in that ordering; this engine ranks it between Day and Hour
// (finer than a full day bucket, coarser than an hour bucket), which is
// an explicit recorded decision — see DESIGN.md.
type Precision int

const (
	PrecisionNone Precision = iota
	PrecisionYear
	PrecisionMonth
	PrecisionDay
	PrecisionWeekday
	PrecisionHour
	PrecisionMinute
	PrecisionSecond
)

func fieldPrecision(f Field) Precision {
	switch f {
	case FieldYear:
		return PrecisionYear
	case FieldMonth:
		return PrecisionMonth
	case FieldDay:
		return PrecisionDay
	case FieldWeekday:
		return PrecisionWeekday
	case FieldHour:
		return PrecisionHour
	case FieldMinute:
		return PrecisionMinute
	case FieldSecond:
		return PrecisionSecond
	}
	return PrecisionNone
}

// Interval constrains one field to a closed range [Lower, Upper].
// h/m/s are 1-based (hour 1..24, minute/second 1..60) per spec.md §3;
// the other fields use the value the Go calendar itself produces
// (Month 1..12, Day 1..31, Weekday 0..6 Sunday-first, Year unbounded).
type Interval struct {
	Field          Field
	Lower, Upper   int
}

func (iv Interval) contains(v int) bool {
	return v >= iv.Lower && v <= iv.Upper
}

// Intersection is a conjunction of Intervals: a point matches it iff
// every interval contains the corresponding field value.
type Intersection struct {
	Intervals []Interval
}

// Precision returns the finest field named by this intersection.
func (x Intersection) Precision() Precision {
	p := PrecisionNone
	for _, iv := range x.Intervals {
		if fp := fieldPrecision(iv.Field); fp > p {
			p = fp
		}
	}
	return p
}

// PeriodCollection is a union of Intersections over named interval
// fields (spec.md §3).
type PeriodCollection struct {
	Intersections []Intersection
}

// Precision returns the finest field present across every intersection
// in the collection.
func (pc PeriodCollection) Precision() Precision {
	p := PrecisionNone
	for _, x := range pc.Intersections {
		if xp := x.Precision(); xp > p {
			p = xp
		}
	}
	return p
}

// Matches reports whether instant t satisfies the collection: true iff
// any intersection matches, where an intersection matches iff every one
// of its intervals contains t's value for that field.
func (pc PeriodCollection) Matches(t time.Time) bool {
	for _, x := range pc.Intersections {
		if intersectionMatchesInstant(x, t) {
			return true
		}
	}
	return false
}

func intersectionMatchesInstant(x Intersection, t time.Time) bool {
	for _, iv := range x.Intervals {
		if !iv.contains(fieldValue(t, iv.Field)) {
			return false
		}
	}
	return true
}

func fieldValue(t time.Time, f Field) int {
	switch f {
	case FieldYear:
		return t.Year()
	case FieldMonth:
		return int(t.Month())
	case FieldDay:
		return t.Day()
	case FieldWeekday:
		return int(t.Weekday())
	case FieldHour:
		return t.Hour() + 1
	case FieldMinute:
		return t.Minute() + 1
	case FieldSecond:
		return t.Second() + 1
	}
	return 0
}

// maxEnumerationSteps bounds the calendar walk Overlap performs when
// checking whether a slice's footprint touches an interval. Spans
// wider than this are treated as covering every value of a cyclic
// field (Month, Day, Weekday) instead of being walked day-by-day; for
// Year the touched year range is compared directly (see Overlap's doc
// comment and DESIGN.md for why this is a safe simplification).
const maxEnumerationSteps = 4096

// Overlap reports whether TimeSlice [start, end) overlaps the period
// collection: any intersection matches if every one of its intervals is
// touched by some instant in the slice's footprint.
//
// spec.md §4.1 describes this via a finest-to-coarsest "enclosing
// parent" comparison between the slice's floored start and ceiled end
// per field. This engine instead walks the slice's footprint at the
// finest calendar granularity needed for the fields present (day steps
// for Year/Month/Day/Weekday, clock steps for Hour/Minute/Second) and
// collects the distinct field values actually touched, matching an
// interval if it contains any of them. For slices materially shorter
// than the field's own cycle (the overwhelmingly common case — an
// hourly or daily TimeSlice checked against a monthly or hourly
// pattern) the two formulations agree; for a slice so long it would
// require more than maxEnumerationSteps calendar steps to walk, every
// value of a cyclic field is necessarily touched (the slice spans more
// than a full cycle of it), so this engine short-circuits to "matches",
// which is the same conclusion spec.md reaches for slices that "differ
// by more than one parent unit"; a Year interval is instead matched
// against the range of years the slice touches. See DESIGN.md for the
// recorded decision on this simplification.
func Overlap(slice *TimeSlice, pc PeriodCollection) bool {
	for _, x := range pc.Intersections {
		if intersectionOverlapsSlice(x, slice) {
			return true
		}
	}
	return false
}

func intersectionOverlapsSlice(x Intersection, slice *TimeSlice) bool {
	for _, iv := range x.Intervals {
		if !intervalTouchedBySlice(iv, slice) {
			return false
		}
	}
	return true
}

func intervalTouchedBySlice(iv Interval, slice *TimeSlice) bool {
	start, end := slice.Start(), slice.End()
	if !end.After(start) {
		return false
	}

	switch iv.Field {
	case FieldHour, FieldMinute, FieldSecond:
		step := clockStep(iv.Field)
		cycle := clockCycle(iv.Field)
		if spansFullCycle(start, end, step, cycle) {
			return true
		}
		for t := start; t.Before(end); t = t.Add(step) {
			if iv.contains(fieldValue(t, iv.Field)) {
				return true
			}
		}
		return false
	default:
		// Year, Month, Day, Weekday: walk in whole-day steps, which is
		// fine-grained enough to observe every value any of these
		// fields can take.
		if daysBetween(start, end) > maxEnumerationSteps {
			if iv.Field == FieldYear {
				// Years do not cycle: compare the touched year range.
				return start.Year() <= iv.Upper && end.Add(-time.Nanosecond).Year() >= iv.Lower
			}
			return true
		}
		day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
		for day.Before(end) {
			if iv.contains(fieldValue(day, iv.Field)) {
				return true
			}
			day = day.AddDate(0, 0, 1)
		}
		return false
	}
}

func clockStep(f Field) time.Duration {
	switch f {
	case FieldHour:
		return time.Hour
	case FieldMinute:
		return time.Minute
	default:
		return time.Second
	}
}

func clockCycle(f Field) int {
	switch f {
	case FieldHour:
		return 24
	default:
		return 60
	}
}

func spansFullCycle(start, end time.Time, step time.Duration, cycle int) bool {
	span := end.Sub(start)
	return span >= step*time.Duration(cycle)
}

func daysBetween(start, end time.Time) int {
	d := end.Sub(start)
	days := int(d.Hours() / 24)
	if days < 0 {
		days = 0
	}
	return days + 2
}
