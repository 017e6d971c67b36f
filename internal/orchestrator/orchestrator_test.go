package orchestrator_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/azaryc2s/vrptw-cg/internal/espprc"
	"github.com/azaryc2s/vrptw-cg/internal/lpbackend"
	"github.com/azaryc2s/vrptw-cg/internal/orchestrator"
	"github.com/azaryc2s/vrptw-cg/internal/rmp"
)

// twoCustomerData builds origin(0), customers 1 and 2, destination 3, with
// a combined route 0-1-2-3 cheaper than visiting each customer separately.
func twoCustomerData() *espprc.ProblemData {
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
		{From: 0, To: 1}: 5, {From: 0, To: 2}: 5,
		{From: 1, To: 2}: 2, {From: 2, To: 1}: 2,
		{From: 1, To: 3}: 5, {From: 2, To: 3}: 5,
	}
	for arc, c := range costs {
		d.BaseCost[arc] = c
		d.TravelTime[arc] = c
	}
	return d
}

func buildOrchestrator(t *testing.T, cfg orchestrator.Config) *orchestrator.Orchestrator {
	data := twoCustomerData()
	model := espprc.NewESPPTWC(data)
	backend := lpbackend.NewNativeBackend("t")
	r, err := rmp.New(backend, data.NumCustomers, cfg.Partitioned)
	require.NoError(t, err)
	require.NoError(t, r.SeedTrivialRoutes(model.Origin(), model.Destination(), func(customer int) (float64, bool) {
		out, ok1 := data.BaseCost[espprc.Arc{From: model.Origin(), To: customer}]
		in, ok2 := data.BaseCost[espprc.Arc{From: customer, To: model.Destination()}]
		if !ok1 || !ok2 {
			return 0, false
		}
		return out + in, true
	}))
	return orchestrator.New(cfg, model, r, data.BaseCost)
}

func TestRunReachesDoneAndFindsCombinedRoute(t *testing.T) {
	cfg := orchestrator.DefaultConfig()
	cfg.SolveIntegerAfter = true
	o := buildOrchestrator(t, cfg)

	res := o.Run()
	require.Equal(t, orchestrator.StateDone, res.State)
	require.NoError(t, res.Cause)
	require.NotNil(t, res.Integer)
	// trivial routes alone cost (5+5)+(5+5)=20; the combined 0-1-2-3 route
	// costs 5+2+5=12, strictly cheaper, so pricing must discover and select it.
	require.InDelta(t, 12.0, res.Integer.Objective, 1e-6)
}

func TestRunAbortsOnIterationLimit(t *testing.T) {
	cfg := orchestrator.DefaultConfig()
	cfg.MaxIterations = 0
	o := buildOrchestrator(t, cfg)

	res := o.Run()
	require.Equal(t, orchestrator.StateAbort, res.State)
	require.Error(t, res.Cause)
}

func TestRunWithoutSolveIntegerAfterLeavesIntegerNil(t *testing.T) {
	cfg := orchestrator.DefaultConfig()
	cfg.SolveIntegerAfter = false
	o := buildOrchestrator(t, cfg)

	res := o.Run()
	require.Equal(t, orchestrator.StateDone, res.State)
	require.Nil(t, res.Integer)
}

func TestRunBestOnlyReachesDoneWithCombinedRoute(t *testing.T) {
	cfg := orchestrator.DefaultConfig()
	cfg.ColumnsPerIter = orchestrator.BestOnly
	cfg.SolveIntegerAfter = true
	o := buildOrchestrator(t, cfg)

	res := o.Run()
	require.Equal(t, orchestrator.StateDone, res.State)
	require.InDelta(t, 12.0, res.Integer.Objective, 1e-6)
}
