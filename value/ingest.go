package value

import "time"

// Wrap converts a raw, already-typed database value into the matching
// ParameterValue variant (spec.md §6's ingestion boundary: "nothing,
// bool, int, real, string, timestamp, period, vector, TimePattern,
// TimeSeries, Map"). Raw container inputs (*TimeSeries, *TimePattern,
// *MapValue) are expected to already have been built through their own
// constructors, which precompute the eager metadata those variants
// need; Wrap's job here is purely to recognize an already-wrapped value
// and pass it through, or to box a bare leaf value in a Scalar/Array.
func Wrap(v interface{}) (ParameterValue, error) {
	switch x := v.(type) {
	case nil:
		return Nothing, nil
	case ParameterValue:
		return x, nil
	case []interface{}:
		return Array{V: x}, nil
	case bool, int64, float64, string, time.Time, Period:
		return Scalar{V: x}, nil
	default:
		return nil, &InvariantError{Msg: "unrecognized raw parameter value type"}
	}
}
