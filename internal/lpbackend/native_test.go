package lpbackend_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/azaryc2s/vrptw-cg/internal/lpbackend"
)

func TestNativeBackendTwoDisjointCoverConstraints(t *testing.T) {
	b := lpbackend.NewNativeBackend("t")
	require.NoError(t, b.AddConstraint("c1", lpbackend.GE, 1))
	require.NoError(t, b.AddConstraint("c2", lpbackend.GE, 1))
	require.NoError(t, b.AddVariable("r1", 5, 0, 1, true, map[string]float64{"c1": 1}))
	require.NoError(t, b.AddVariable("r2", 7, 0, 1, true, map[string]float64{"c2": 1}))

	obj, primals, duals, err := b.SolveRelaxation()
	require.NoError(t, err)
	require.InDelta(t, 12.0, obj, 1e-6)
	require.InDelta(t, 1.0, primals["r1"], 1e-6)
	require.InDelta(t, 1.0, primals["r2"], 1e-6)
	require.InDelta(t, 5.0, duals["c1"], 1e-6)
	require.InDelta(t, 7.0, duals["c2"], 1e-6)
}

func TestNativeBackendPrefersCheaperSharedColumn(t *testing.T) {
	b := lpbackend.NewNativeBackend("t")
	require.NoError(t, b.AddConstraint("c1", lpbackend.GE, 1))
	require.NoError(t, b.AddConstraint("c2", lpbackend.GE, 1))
	// r1 covers both at once for 8; r2+r3 cover them separately for 5+7=12.
	require.NoError(t, b.AddVariable("r1", 8, 0, 1, true, map[string]float64{"c1": 1, "c2": 1}))
	require.NoError(t, b.AddVariable("r2", 5, 0, 1, true, map[string]float64{"c1": 1}))
	require.NoError(t, b.AddVariable("r3", 7, 0, 1, true, map[string]float64{"c2": 1}))

	obj, _, _, err := b.SolveRelaxation()
	require.NoError(t, err)
	require.InDelta(t, 8.0, obj, 1e-6)
}

func TestNativeBackendEqualitySense(t *testing.T) {
	b := lpbackend.NewNativeBackend("t")
	require.NoError(t, b.AddConstraint("c1", lpbackend.EQ, 1))
	require.NoError(t, b.AddVariable("r1", 3, 0, 1, true, map[string]float64{"c1": 1}))

	obj, primals, duals, err := b.SolveRelaxation()
	require.NoError(t, err)
	require.InDelta(t, 3.0, obj, 1e-6)
	require.InDelta(t, 1.0, primals["r1"], 1e-6)
	require.InDelta(t, 3.0, duals["c1"], 1e-6)
}

func TestNativeBackendUpperBoundRespected(t *testing.T) {
	b := lpbackend.NewNativeBackend("t")
	require.NoError(t, b.AddConstraint("c1", lpbackend.LE, 3))
	require.NoError(t, b.AddVariable("r1", -1, 0, 2, false, map[string]float64{"c1": 1}))

	_, primals, _, err := b.SolveRelaxation()
	require.NoError(t, err)
	require.InDelta(t, 2.0, primals["r1"], 1e-6, "variable must respect its own upper bound even when the shared constraint allows more")
}

func TestNativeBackendSolveIntegerRoundsToBinary(t *testing.T) {
	b := lpbackend.NewNativeBackend("t")
	require.NoError(t, b.AddConstraint("c1", lpbackend.GE, 1))
	require.NoError(t, b.AddVariable("r1", 5, 0, 1, true, map[string]float64{"c1": 1}))
	require.NoError(t, b.AddVariable("r2", 7, 0, 1, true, map[string]float64{"c1": 1}))

	obj, primals, err := b.SolveInteger()
	require.NoError(t, err)
	require.InDelta(t, 5.0, obj, 1e-6)
	require.InDelta(t, 1.0, primals["r1"], 1e-6)
	require.InDelta(t, 0.0, primals["r2"], 1e-6)
}

func TestNativeBackendRejectsNegativeRHS(t *testing.T) {
	b := lpbackend.NewNativeBackend("t")
	require.NoError(t, b.AddConstraint("c1", lpbackend.LE, -1))
	require.NoError(t, b.AddVariable("r1", 1, 0, math.Inf(1), false, map[string]float64{"c1": 1}))

	_, _, _, err := b.SolveRelaxation()
	require.Error(t, err)
}
