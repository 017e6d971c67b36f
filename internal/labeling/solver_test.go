package labeling_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/azaryc2s/vrptw-cg/internal/espprc"
	"github.com/azaryc2s/vrptw-cg/internal/labeling"
)

// diamondData builds origin(0) -> {1,2} -> 3(destination), where the
// 0-1-3 path is cheaper than 0-2-3, and a dominated detour 0-2-1-3 exists
// for the revisited-customer / dominance checks.
func diamondData() *espprc.ProblemData {
	d := &espprc.ProblemData{
		NumCustomers: 2,
		Capacity:     100,
		Demand:       []float64{0, 1, 1, 0},
		TimeWindow: []espprc.ResourceWindowPoint{
			{Lo: 0, Hi: 1000}, {Lo: 0, Hi: 1000}, {Lo: 0, Hi: 1000}, {Lo: 0, Hi: 1000},
		},
		ServiceTime: []float64{0, 0, 0, 0},
		Graph: map[int][]int{
			0: {1, 2},
			1: {2, 3},
			2: {1, 3},
			3: {},
		},
		BaseCost:   map[espprc.Arc]float64{},
		TravelTime: map[espprc.Arc]float64{},
	}
	costs := map[espprc.Arc]float64{
		{From: 0, To: 1}: 1, {From: 0, To: 2}: 5,
		{From: 1, To: 2}: 1, {From: 2, To: 1}: 1,
		{From: 1, To: 3}: 1, {From: 2, To: 3}: 1,
	}
	for arc, c := range costs {
		d.BaseCost[arc] = c
		d.TravelTime[arc] = c
	}
	return d
}

func TestSolveFindsMinCostDestinationLabel(t *testing.T) {
	data := diamondData()
	m := espprc.NewESPPTWC(data)
	m.SetArcCosts(data.BaseCost)

	res := labeling.Solve(m, labeling.StrategyMinCost)
	require.NotEmpty(t, res.Labels)
	require.Equal(t, 2.0, res.MinCost, "0-1-3 costs 1+1=2, the cheapest elementary path to the destination")
}

func TestSolveEveryDestinationLabelIsElementary(t *testing.T) {
	data := diamondData()
	m := espprc.NewESPPTWC(data)
	m.SetArcCosts(data.BaseCost)

	res := labeling.Solve(m, labeling.StrategyFIFO)
	for _, l := range res.Labels {
		path := l.Path()
		seen := map[int]bool{}
		for _, n := range path[1 : len(path)-1] {
			require.False(t, seen[n], "customer %d repeated in path %v", n, path)
			seen[n] = true
		}
	}
}

func TestSolveNoDominatedLabelSurvivesToSink(t *testing.T) {
	data := diamondData()
	m := espprc.NewESPPTWC(data)
	m.SetArcCosts(data.BaseCost)

	res := labeling.Solve(m, labeling.StrategyMinCost)
	for i, a := range res.Labels {
		for j, b := range res.Labels {
			if i == j {
				continue
			}
			require.False(t, m.Dominates(a, b), "a surviving label must not dominate another surviving label")
		}
	}
}

func TestSolveEmptySinkWhenUnreachable(t *testing.T) {
	data := diamondData()
	data.Graph[0] = nil // origin has no outgoing arcs
	m := espprc.NewESPPTWC(data)
	m.SetArcCosts(data.BaseCost)

	res := labeling.Solve(m, labeling.StrategyMinCost)
	require.Empty(t, res.Labels)
	require.True(t, res.MinCost > 1e300, "MinCost must be +Inf when the sink is unreachable")
}

func TestStrategiesAgreeOnMinCost(t *testing.T) {
	data := diamondData()
	strategies := []labeling.Strategy{
		labeling.StrategyFIFO, labeling.StrategyLIFO, labeling.StrategyMinTime,
		labeling.StrategyMinCost, labeling.StrategyMinLoad, labeling.StrategyMinPathLen,
	}
	for _, s := range strategies {
		m := espprc.NewESPPTWC(diamondDataCopy(data))
		m.SetArcCosts(data.BaseCost)
		res := labeling.Solve(m, s)
		require.Equal(t, 2.0, res.MinCost, "strategy %v must not change the optimal reduced cost", s)
	}
}

func diamondDataCopy(d *espprc.ProblemData) *espprc.ProblemData {
	c := *d
	c.Graph = map[int][]int{}
	for k, v := range d.Graph {
		c.Graph[k] = append([]int(nil), v...)
	}
	c.BaseCost = map[espprc.Arc]float64{}
	for k, v := range d.BaseCost {
		c.BaseCost[k] = v
	}
	c.TravelTime = map[espprc.Arc]float64{}
	for k, v := range d.TravelTime {
		c.TravelTime[k] = v
	}
	return &c
}
