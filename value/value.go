// Package value implements the parameter-value model: a tagged union
// over Nothing, Scalar, Array, TimePattern, TimeSeries (standard and
// repeating) and Map, each callable with optional time/index keyword
// arguments (spec.md §3, §4.2). This mirrors the teacher's
// datalog.Value type, which is "any Go type behind interface{}" rather
// than a closed sum type with a discriminant field — here each variant
// is instead its own small Go type implementing a common Evaluate
// contract, since (unlike a Datom's opaque value slot) every variant
// here needs its own dispatch logic.
package value

import (
	"time"

	"github.com/arvihall/spine/sptime"
)

// TimeArg is the `t` keyword argument: either a bare instant or a
// TimeSlice (spec.md §4.2's table has a column for each).
type TimeArg struct {
	Instant time.Time
	Slice   *sptime.TimeSlice
	IsSlice bool
}

// AtInstant builds a TimeArg for a plain DateTime lookup.
func AtInstant(t time.Time) TimeArg { return TimeArg{Instant: t} }

// AtSlice builds a TimeArg for a TimeSlice lookup.
func AtSlice(s *sptime.TimeSlice) TimeArg { return TimeArg{Slice: s, IsSlice: true} }

// Args bundles every keyword argument a ParameterValue can be invoked
// with (spec.md §4.2, §6).
type Args struct {
	HasI bool
	I    int

	HasT bool
	T    TimeArg

	// Inds is the `inds` keyword: a tuple of Map keys used to descend
	// into nested Map values.
	Inds []interface{}

	// OnStale, if set, is registered as an observer on args.T.Slice
	// (when T is a TimeSlice) under the freshness timeout computed for
	// this evaluation (spec.md §4.2 "Freshness / observer
	// registration"). Callers that don't care about reactive
	// recomputation leave this nil.
	OnStale func()
}

// ParameterValue is the common evaluation contract every variant
// implements (spec.md §9: "a dispatch trait Evaluate(kwargs) -> Value").
// A result of (nil, nil) denotes the "nothing" value, matching Julia's
// `nothing` in the system this engine's behavior is drawn from: every
// legitimate value type here (bool/int64/float64/string/time.Time,
// slices, maps) excludes untyped nil, so nil is safe to use as the
// sentinel instead of introducing a second “Nothing” marker type that
// callers would have to special-case on top of Go's own nil.
type ParameterValue interface {
	Evaluate(args Args) (interface{}, error)
}

// NothingValue is the singleton "Nothing" variant: a parameter that is
// defined but carries no value at all, as opposed to a value that
// merely evaluates to nothing for some particular args.
type NothingValue struct{}

func (NothingValue) Evaluate(Args) (interface{}, error) { return nil, nil }

// Nothing is the shared Nothing ParameterValue instance.
var Nothing ParameterValue = NothingValue{}

// Scalar wraps a single value of any of the supported leaf types
// (bool, int64, float64, string, time.Time, Period). It always
// evaluates to itself, regardless of keyword arguments (spec.md §4.2's
// table: every column returns "value").
type Scalar struct {
	V interface{}
}

func (s Scalar) Evaluate(Args) (interface{}, error) {
	return s.V, nil
}

// Array wraps an ordered vector of leaf values, 1-indexed when
// accessed via the `i` keyword (spec.md §8: "Array lookup bounds:
// pv(i=i) returns value[i] for 1 <= i <= len and nothing outside").
type Array struct {
	V []interface{}
}

func (a Array) Evaluate(args Args) (interface{}, error) {
	if args.HasI {
		if args.I < 1 || args.I > len(a.V) {
			return nil, nil
		}
		return a.V[args.I-1], nil
	}
	// `t` is not a meaningful key for a bare array (spec.md's table
	// marks both t columns "--" for Array); fall through to returning
	// the raw vector, the same as the no-keyword case.
	return a.V, nil
}
