package spine

import "fmt"

// NotFoundError is returned when a parameter has no resolvable value for
// the given entity and _strict was requested.
type NotFoundError struct {
	Parameter string
	Args      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("parameter %q not found for args %s", e.Parameter, e.Args)
}

// BadFilterError is returned when a filter key is not a member of the
// target class (not one of its dimension labels or parameter names).
type BadFilterError struct {
	Class string
	Key   string
}

func (e *BadFilterError) Error() string {
	return fmt.Sprintf("%q is not a valid filter key for class %q", e.Key, e.Class)
}

// AmbiguousError marks a wildcard parameter lookup that matched more
// than one stored entity. classSource.resolveKey constructs one per
// committed class; Parameter.Call consumes it internally and yields
// nothing (not _default), never surfacing it to the caller as a
// Go error, per spec.md §7's "ambiguous ... returns nothing silently".
type AmbiguousError struct {
	Parameter string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("ambiguous wildcard match for parameter %q", e.Parameter)
}

// InvariantError marks a programmer error in a relationship class: a
// row whose labels do not match its dimension names, a dimension label
// added twice, or an AddDimension rekey collision. Out-of-order time
// slice construction panics in sptime.New instead, and an unrecognized
// raw value fails with value.InvariantError. These are fatal and are
// never recovered internally.
type InvariantError struct {
	Msg string
}

func (e *InvariantError) Error() string {
	return "invariant violated: " + e.Msg
}

// EvaluationError wraps an error raised while realizing a Call tree,
// embedding the sub-expression that was being evaluated when it failed.
type EvaluationError struct {
	Expr string
	Err  error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("evaluation failed at %s: %v", e.Expr, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}
