// Package call implements the deferred expression algebra over
// parameter values (spec.md §4.5): a Call tree is built up front and
// realized later, against whatever observer the caller wants notified
// when any leaf's answer goes stale.
package call

import (
	"fmt"

	"github.com/arvihall/spine"
	"github.com/arvihall/spine/value"
)

// Call is either a constant leaf, a parameter-value invocation leaf,
// or an operator node combining the results of its children.
type Call interface {
	fmt.Stringer
	isCall()
}

// Const holds a literal value, realized as itself.
type Const struct {
	Value interface{}
}

func (Const) isCall() {}

func (c Const) String() string { return fmt.Sprintf("%v", c.Value) }

// Invocation defers a (ParameterValue, kwargs) call to realization
// time. Label is used only to identify the leaf in an EvaluationError.
type Invocation struct {
	Label string
	PV    value.ParameterValue
	Args  value.Args
}

func (Invocation) isCall() {}

func (i Invocation) String() string {
	if i.Label != "" {
		return i.Label
	}
	return "<invocation>"
}

// Op combines the realized values of Args via Func, in order.
type Op struct {
	Name string
	Func func(args []interface{}) (interface{}, error)
	Args []Call
}

func (Op) isCall() {}

func (o Op) String() string {
	s := "(" + o.Name
	for _, a := range o.Args {
		s += " " + a.String()
	}
	return s + ")"
}

type frame struct {
	node     Call
	childIdx int
}

// postorder linearizes call into post-order (children before parent,
// siblings left to right) using an explicit stack rather than
// recursion (spec.md §4.5).
func postorder(root Call) []Call {
	var order []Call
	stack := []*frame{{node: root}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if op, ok := top.node.(Op); ok && top.childIdx < len(op.Args) {
			child := op.Args[top.childIdx]
			top.childIdx++
			stack = append(stack, &frame{node: child})
			continue
		}
		order = append(order, top.node)
		stack = stack[:len(stack)-1]
	}
	return order
}

// Realize evaluates root bottom-up: constants push their literal,
// invocations call Evaluate with observer installed as the OnStale
// callback, and operators reduce their already-realized children via
// Func. Any error is re-raised as a spine.EvaluationError carrying the
// offending sub-expression (spec.md §4.5, §7).
func Realize(root Call, observer func()) (interface{}, error) {
	order := postorder(root)
	stack := make([]interface{}, 0, len(order))

	for _, node := range order {
		switch n := node.(type) {
		case Const:
			stack = append(stack, n.Value)

		case Invocation:
			args := n.Args
			args.OnStale = observer
			v, err := n.PV.Evaluate(args)
			if err != nil {
				return nil, &spine.EvaluationError{Expr: n.String(), Err: err}
			}
			stack = append(stack, v)

		case Op:
			k := len(n.Args)
			if len(stack) < k {
				return nil, &spine.EvaluationError{
					Expr: n.String(),
					Err:  fmt.Errorf("call tree malformed: expected %d operands, found %d", k, len(stack)),
				}
			}
			operands := append([]interface{}(nil), stack[len(stack)-k:]...)
			stack = stack[:len(stack)-k]

			result, err := n.Func(operands)
			if err != nil {
				return nil, &spine.EvaluationError{Expr: n.String(), Err: err}
			}
			stack = append(stack, result)
		}
	}

	if len(stack) != 1 {
		return nil, &spine.EvaluationError{
			Expr: root.String(),
			Err:  fmt.Errorf("call tree malformed: %d results remained on the stack", len(stack)),
		}
	}
	return stack[0], nil
}
