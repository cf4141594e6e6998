package value

import (
	"math"
	"time"
)

// numericWeight extracts a comparable float64 from a leaf value,
// converting a symbolic Period via its upper bound (spec.md §4.4) so
// it can be compared against a plain numeric magnitude. NaN and
// non-numeric leaves report ok=false so callers skip them.
func numericWeight(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	case float64:
		if math.IsNaN(x) {
			return 0, false
		}
		return x, true
	case Period:
		return x.UpperBoundMinutes(), true
	case time.Duration:
		return x.Minutes(), true
	}
	return 0, false
}

// Max recurses into a ParameterValue's containers (Array, TimePattern,
// TimeSeries, Map) and returns the greatest numeric leaf found, skipping
// NaN and non-numeric leaves, matching spec.md §4.4's
// maximum_parameter_value. ok is false when no numeric leaf exists
// anywhere in pv.
func Max(pv ParameterValue) (float64, bool) {
	switch x := pv.(type) {
	case NothingValue:
		return 0, false
	case Scalar:
		return numericWeight(x.V)
	case Array:
		var best float64
		found := false
		for _, v := range x.V {
			if w, ok := numericWeight(v); ok && (!found || w > best) {
				best, found = w, true
			}
		}
		return best, found
	case *TimePattern:
		var best float64
		found := false
		for _, e := range x.Entries {
			if math.IsNaN(e.Value) {
				continue
			}
			if !found || e.Value > best {
				best, found = e.Value, true
			}
		}
		return best, found
	case *TimeSeries:
		var best float64
		found := false
		for _, v := range x.Values {
			if math.IsNaN(v) {
				continue
			}
			if !found || v > best {
				best, found = v, true
			}
		}
		return best, found
	case *MapValue:
		var best float64
		found := false
		for _, child := range x.Values {
			if w, ok := Max(child); ok && (!found || w > best) {
				best, found = w, true
			}
		}
		return best, found
	}
	return 0, false
}
