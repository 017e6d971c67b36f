package label_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/azaryc2s/vrptw-cg/internal/label"
	"github.com/azaryc2s/vrptw-cg/internal/resource"
)

func scalars(vs ...float64) []resource.Value {
	out := make([]resource.Value, len(vs))
	for i, v := range vs {
		out[i] = resource.ScalarValue(v)
	}
	return out
}

func TestArenaPathReconstruction(t *testing.T) {
	arena := label.NewArena()
	root := arena.New(0, scalars(0), nil)
	mid := arena.New(5, scalars(1), root)
	leaf := arena.New(9, scalars(2), mid)

	require.Equal(t, []int{0, 5, 9}, leaf.Path())
	require.Equal(t, 0, root.Depth)
	require.Equal(t, 1, mid.Depth)
	require.Equal(t, 2, leaf.Depth)
	require.Equal(t, 3, arena.Len())
}

func TestDominatesRequiresSameNode(t *testing.T) {
	arena := label.NewArena()
	a := arena.New(1, scalars(1, 1), nil)
	b := arena.New(2, scalars(0, 0), nil)
	require.False(t, label.Dominates(a, b))
}

func TestDominatesStrictSomewhere(t *testing.T) {
	arena := label.NewArena()
	better := arena.New(1, scalars(1, 2), nil)
	worse := arena.New(1, scalars(1, 3), nil)
	require.True(t, label.Dominates(better, worse))
	require.False(t, label.Dominates(worse, better))
}

func TestEqualResourceVectorsDoNotDominate(t *testing.T) {
	arena := label.NewArena()
	a := arena.New(1, scalars(1, 2), nil)
	b := arena.New(1, scalars(1, 2), nil)
	require.False(t, label.Dominates(a, b))
	require.False(t, label.Dominates(b, a))
	require.True(t, label.Equal(a, b))
}

func TestMarkDominated(t *testing.T) {
	arena := label.NewArena()
	l := arena.New(1, scalars(1), nil)
	require.False(t, l.Dominated())
	l.MarkDominated()
	require.True(t, l.Dominated())
}
