package value

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapNoIndsReturnsSelfUndescended(t *testing.T) {
	m, err := NewMap([]MapKey{SymbolKey("low"), SymbolKey("high")},
		[]ParameterValue{Scalar{V: 1.0}, Scalar{V: 2.0}})
	require.NoError(t, err)

	v, err := m.Evaluate(Args{})
	require.NoError(t, err)
	assert.Same(t, m, v)
}

func TestMapDescendBySymbolKey(t *testing.T) {
	m, err := NewMap([]MapKey{SymbolKey("low"), SymbolKey("high")},
		[]ParameterValue{Scalar{V: 1.0}, Scalar{V: 2.0}})
	require.NoError(t, err)

	v, err := m.Evaluate(Args{Inds: []interface{}{"high"}})
	require.NoError(t, err)
	assert.Equal(t, 2.0, v)
}

func TestMapMissReturnsSelfUndescended(t *testing.T) {
	m, err := NewMap([]MapKey{SymbolKey("low")}, []ParameterValue{Scalar{V: 1.0}})
	require.NoError(t, err)

	v, err := m.Evaluate(Args{Inds: []interface{}{"nope"}})
	require.NoError(t, err)
	assert.Same(t, m, v)
}

func TestMapNestedDescent(t *testing.T) {
	inner, err := NewMap([]MapKey{SymbolKey("b")}, []ParameterValue{Scalar{V: 9.0}})
	require.NoError(t, err)
	outer, err := NewMap([]MapKey{SymbolKey("a")}, []ParameterValue{inner})
	require.NoError(t, err)

	v, err := outer.Evaluate(Args{Inds: []interface{}{"a", "b"}})
	require.NoError(t, err)
	assert.Equal(t, 9.0, v)
}

func TestMapTimestampNearestOrLast(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m, err := NewMap(
		[]MapKey{TimestampKey(base), TimestampKey(base.Add(48 * time.Hour))},
		[]ParameterValue{Scalar{V: "early"}, Scalar{V: "late"}},
	)
	require.NoError(t, err)

	v, err := m.Evaluate(Args{Inds: []interface{}{base.Add(time.Hour)}})
	require.NoError(t, err)
	assert.Equal(t, "early", v)

	v, err = m.Evaluate(Args{Inds: []interface{}{base.Add(72 * time.Hour)}})
	require.NoError(t, err)
	assert.Equal(t, "late", v)

	v, err = m.Evaluate(Args{Inds: []interface{}{base.Add(-time.Hour)}})
	require.NoError(t, err)
	assert.Equal(t, "early", v, "a query before every key falls back to the earliest entry")
}

func TestNewMapRejectsDuplicateKeys(t *testing.T) {
	_, err := NewMap([]MapKey{SymbolKey("a"), SymbolKey("a")},
		[]ParameterValue{Scalar{V: 1.0}, Scalar{V: 2.0}})
	assert.Error(t, err)
}
