// Package espprc implements the ESPPRC model (M) and its concrete
// ESPPTWC binding (E): time windows and capacity over a split-depot
// VRPTW graph. The model owns the resource catalog and the arc-cost map
// the orchestrator rewrites between pricing rounds; it knows nothing
// about the labeling search order, which lives in package labeling.
package espprc

import (
	"github.com/azaryc2s/vrptw-cg/internal/label"
	"github.com/azaryc2s/vrptw-cg/internal/resource"
)

// Arc is a directed pair of node ids, used as a map key for costs and
// travel times.
type Arc struct {
	From, To int
}

// Model is the abstract capability set needed to price a column: build the root label,
// extend it along an arc (resources plus feasibility, short-circuited),
// recognize destination-depot labels, compare labels for dominance, and
// accept a new reduced-cost map between pricing rounds.
type Model interface {
	// InitialLabel returns the root label at the origin depot with every
	// resource at its registration-time initial value.
	InitialLabel(arena *label.Arena) *label.Label
	// Extend returns the feasible child label at `to`, or ok=false if the
	// arc does not exist or any registered resource is infeasible at the
	// target.
	Extend(arena *label.Arena, l *label.Label, to int) (child *label.Label, ok bool)
	// IsTerminal reports whether l sits at the destination depot.
	IsTerminal(l *label.Label) bool
	// Dominates applies the generic dominance rule to a and b.
	Dominates(a, b *label.Label) bool
	// SetArcCosts replaces the cost map used by the cost REF. Called by
	// the orchestrator strictly between pricing rounds.
	SetArcCosts(adjusted map[Arc]float64)
	// Neighbors returns the feasible outgoing arcs from node.
	Neighbors(node int) []int
	// Origin and Destination are the split-depot node ids.
	Origin() int
	Destination() int
	// ReducedCostOf returns the accumulated `cost` resource of l (the
	// pricing reduced cost of the partial path).
	ReducedCostOf(l *label.Label) float64
	// NumNodes is N+2 (origin, N customers, destination).
	NumNodes() int
	// ScalarResource returns the named resource's value on l, for
	// selection strategies that order by a named resource (min time, min
	// cost, min load). Returns 0 if the resource is unknown or not
	// scalar.
	ScalarResource(l *label.Label, name string) float64
	// TrueCost returns the undualized cost of a full origin-to-destination
	// path, for pricing a label into an RMP column.
	TrueCost(path []int) float64
}

// ResourceWindow is a per-node (or constant, when Low/High have length 1
// and are reused for every node) scalar window [lo, hi].
type ResourceWindow struct {
	Low, High []float64
}

func (w ResourceWindow) at(node int) (lo, hi float64) {
	if len(w.Low) == 1 {
		return w.Low[0], w.High[0]
	}
	return w.Low[node], w.High[node]
}

var _ resource.Value = resource.ScalarValue(0)
