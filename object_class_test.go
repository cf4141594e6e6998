package spine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arvihall/spine/value"
)

func TestObjectClassByNameAndAll(t *testing.T) {
	node := NewObjectClass("node")
	sthlm := NewObject("node", "Sthlm")
	dublin := NewObject("node", "Dublin")
	node.AddObjects([]*Object{sthlm, dublin})

	assert.Len(t, node.Objects(), 2)
	assert.Same(t, sthlm, node.ByName("Sthlm"))
	assert.Nil(t, node.ByName("Espoo"))
}

func TestObjectClassFilterByParameterValue(t *testing.T) {
	// spec.md §8 scenario 1: commodity class holds gas, liquid, wind,
	// water; state_of_matter(wind)=gas, state_of_matter(water)=liquid.
	commodity := NewObjectClass("commodity")
	gas := NewObject("commodity", "gas")
	liquid := NewObject("commodity", "liquid")
	wind := NewObject("commodity", "wind")
	water := NewObject("commodity", "water")
	commodity.AddObjects([]*Object{gas, liquid, wind, water})

	commodity.AddParameterValues(wind, map[string]value.ParameterValue{
		"state_of_matter": value.Scalar{V: gas},
	}, false)
	commodity.AddParameterValues(water, map[string]value.ParameterValue{
		"state_of_matter": value.Scalar{V: liquid},
	}, false)

	matches, err := commodity.Filter(map[string]interface{}{
		"state_of_matter": commodity.ByName("gas"),
	})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Same(t, wind, matches[0])
}

func TestObjectClassFilterFallsBackToDefault(t *testing.T) {
	commodity := NewObjectClass("commodity")
	wind := NewObject("commodity", "wind")
	commodity.AddObject(wind)
	commodity.AddParameterDefaults(map[string]value.ParameterValue{
		"renewable": value.Scalar{V: true},
	}, false)

	matches, err := commodity.Filter(map[string]interface{}{"renewable": true})
	require.NoError(t, err)
	assert.Equal(t, []*Object{wind}, matches)
}

func TestObjectClassMergeVsReplaceParameterValues(t *testing.T) {
	oc := NewObjectClass("node")
	sthlm := NewObject("node", "Sthlm")
	oc.AddObject(sthlm)

	oc.AddParameterValues(sthlm, map[string]value.ParameterValue{"a": value.Scalar{V: 1.0}}, false)
	oc.AddParameterValues(sthlm, map[string]value.ParameterValue{"b": value.Scalar{V: 2.0}}, true)

	av, _ := oc.effectiveValue(sthlm, "a").Evaluate(value.Args{})
	bv, _ := oc.effectiveValue(sthlm, "b").Evaluate(value.Args{})
	assert.Equal(t, 1.0, av)
	assert.Equal(t, 2.0, bv)

	oc.AddParameterValues(sthlm, map[string]value.ParameterValue{"c": value.Scalar{V: 3.0}}, false)
	_, hasA := oc.parameterValues[sthlm.id].values["a"]
	assert.False(t, hasA, "a non-merge write replaces the whole entry")
}
