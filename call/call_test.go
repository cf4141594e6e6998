package call

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arvihall/spine"
	"github.com/arvihall/spine/value"
)

func add(args []interface{}) (interface{}, error) {
	return args[0].(float64) + args[1].(float64), nil
}

func TestRealizeConst(t *testing.T) {
	got, err := Realize(Const{Value: 42.0}, nil)
	require.NoError(t, err)
	assert.Equal(t, 42.0, got)
}

func TestRealizeInvocationLeaf(t *testing.T) {
	leaf := Invocation{Label: "demand", PV: value.Scalar{V: 3.0}}
	got, err := Realize(leaf, nil)
	require.NoError(t, err)
	assert.Equal(t, 3.0, got)
}

func TestRealizeOpCombinesChildrenInOrder(t *testing.T) {
	tree := Op{
		Name: "+",
		Func: add,
		Args: []Call{Const{Value: 2.0}, Const{Value: 5.0}},
	}
	got, err := Realize(tree, nil)
	require.NoError(t, err)
	assert.Equal(t, 7.0, got)
}

func TestRealizeNestedTreePostOrder(t *testing.T) {
	// (2 + 3) + (4 + 5) == 14, verifying sibling subtrees realize left
	// to right and feed the parent op in that order.
	left := Op{Name: "+", Func: add, Args: []Call{Const{Value: 2.0}, Const{Value: 3.0}}}
	right := Op{Name: "+", Func: add, Args: []Call{Const{Value: 4.0}, Const{Value: 5.0}}}
	root := Op{Name: "+", Func: add, Args: []Call{left, right}}

	got, err := Realize(root, nil)
	require.NoError(t, err)
	assert.Equal(t, 14.0, got)
}

func TestRealizeWrapsOperatorErrorWithExpression(t *testing.T) {
	boom := Op{
		Name: "boom",
		Func: func(args []interface{}) (interface{}, error) { return nil, errors.New("kaboom") },
		Args: []Call{Const{Value: 1.0}},
	}
	_, err := Realize(boom, nil)
	require.Error(t, err)
	var evalErr *spine.EvaluationError
	require.ErrorAs(t, err, &evalErr)
	assert.Contains(t, evalErr.Expr, "boom")
	assert.ErrorContains(t, err, "kaboom")
}

func TestRealizeWrapsInvocationErrorWithLabel(t *testing.T) {
	leaf := Invocation{Label: "broken", PV: failingValue{}}
	_, err := Realize(leaf, nil)
	require.Error(t, err)
	var evalErr *spine.EvaluationError
	require.ErrorAs(t, err, &evalErr)
	assert.Equal(t, "broken", evalErr.Expr)
}

type failingValue struct{}

func (failingValue) Evaluate(value.Args) (interface{}, error) {
	return nil, fmt.Errorf("deliberately broken")
}

func TestRealizeDoesNotInvokeObserverForScalarLeaf(t *testing.T) {
	fired := false
	leaf := Invocation{
		Label: "watched",
		PV: value.Scalar{V: 1.0},
	}
	_, err := Realize(leaf, func() { fired = true })
	require.NoError(t, err)
	// Scalar never calls OnStale itself (it has no freshness horizon),
	// so the observer simply must not be invoked on a value with no
	// time dimension.
	assert.False(t, fired)
}
