package main

import (
	"fmt"
	"math"
	"time"

	"github.com/arvihall/spine"
	"github.com/arvihall/spine/value"
)

// buildEnergySeed constructs the literal node/commodity scenario from
// spec.md §8 scenarios 1-4: a commodity class linked to itself via
// state_of_matter, a node__commodity relationship class, a
// tax_net_flow parameter, and a demand TimeSeries exercising the
// NaN-skipping mean.
func buildEnergySeed() *spine.Environment {
	env := spine.NewEnvironment("energy")

	node := spine.NewObjectClass("node")
	sthlm := spine.NewObject("node", "Sthlm")
	dublin := spine.NewObject("node", "Dublin")
	nimes := spine.NewObject("node", "Nimes")
	espoo := spine.NewObject("node", "Espoo")
	leuven := spine.NewObject("node", "Leuven")
	node.AddObjects([]*spine.Object{sthlm, dublin, nimes, espoo, leuven})
	env.RegisterObjectClass(node)

	commodity := spine.NewObjectClass("commodity")
	gas := spine.NewObject("commodity", "gas")
	liquid := spine.NewObject("commodity", "liquid")
	wind := spine.NewObject("commodity", "wind")
	water := spine.NewObject("commodity", "water")
	commodity.AddObjects([]*spine.Object{gas, liquid, wind, water})
	commodity.AddParameterValues(wind, map[string]value.ParameterValue{
		"state_of_matter": value.Scalar{V: gas},
	}, false)
	commodity.AddParameterValues(water, map[string]value.ParameterValue{
		"state_of_matter": value.Scalar{V: liquid},
	}, false)
	env.RegisterObjectClass(commodity)

	nodeCommodity := spine.NewRelationshipClass("node__commodity", []string{"node", "commodity"})
	_ = nodeCommodity.AddRelationships([]map[string]*spine.Object{
		{"node": dublin, "commodity": wind},
		{"node": espoo, "commodity": wind},
		{"node": leuven, "commodity": wind},
		{"node": nimes, "commodity": water},
		{"node": sthlm, "commodity": water},
	})
	nodeCommodity.AddParameterValues(map[string]*spine.Object{"node": sthlm, "commodity": water},
		map[string]value.ParameterValue{"tax_net_flow": value.Scalar{V: 4.0}}, false)
	env.RegisterRelationshipClass(nodeCommodity)

	taxNetFlow := spine.NewParameter("tax_net_flow")
	taxNetFlow.AddRelationshipClass(nodeCommodity)
	env.RegisterParameter(taxNetFlow)

	demandSeries, err := value.NewTimeSeries(
		[]time.Time{
			time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2000, 1, 2, 0, 0, 0, 0, time.UTC),
			time.Date(2000, 1, 3, 0, 0, 0, 0, time.UTC),
		},
		[]float64{10, math.NaN(), 20},
		false, false,
	)
	if err != nil {
		panic(err)
	}
	node.AddParameterValues(sthlm, map[string]value.ParameterValue{"demand": demandSeries}, false)

	demand := spine.NewParameter("demand")
	demand.AddObjectClass(node)
	env.RegisterParameter(demand)

	return env
}

// buildGridSeed constructs a larger synthetic grid: a node class with
// N nodes and a commodity class with M commodities, fully crossed into
// a relationship class, demonstrating the engine at a scale a single
// hand-written scenario wouldn't exercise.
func buildGridSeed(nNodes, nCommodities int) *spine.Environment {
	env := spine.NewEnvironment("grid")

	node := spine.NewObjectClass("node")
	nodes := make([]*spine.Object, nNodes)
	for i := range nodes {
		nodes[i] = spine.NewObject("node", fmt.Sprintf("n%02d", i))
	}
	node.AddObjects(nodes)
	env.RegisterObjectClass(node)

	commodity := spine.NewObjectClass("commodity")
	commodities := make([]*spine.Object, nCommodities)
	for i := range commodities {
		commodities[i] = spine.NewObject("commodity", fmt.Sprintf("c%02d", i))
	}
	commodity.AddObjects(commodities)
	env.RegisterObjectClass(commodity)

	grid := spine.NewRelationshipClass("node__commodity", []string{"node", "commodity"})
	var rows []map[string]*spine.Object
	for i, n := range nodes {
		c := commodities[i%len(commodities)]
		rows = append(rows, map[string]*spine.Object{"node": n, "commodity": c})
	}
	_ = grid.AddRelationships(rows)
	env.RegisterRelationshipClass(grid)

	capacity := spine.NewParameter("capacity")
	for i, row := range rows {
		grid.AddParameterValues(row, map[string]value.ParameterValue{
			"capacity": value.Scalar{V: float64(10 * (i + 1))},
		}, false)
	}
	capacity.AddRelationshipClass(grid)
	env.RegisterParameter(capacity)

	return env
}
