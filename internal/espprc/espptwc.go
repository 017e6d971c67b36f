package espprc

import (
	"github.com/azaryc2s/vrptw-cg/internal/label"
	"github.com/azaryc2s/vrptw-cg/internal/resource"
)

// ProblemData binds a preprocessed VRPTW instance to the split-depot
// split-depot convention: node 0 is the origin depot, node NumCustomers+1 is
// the destination depot, 1..NumCustomers are customers.
type ProblemData struct {
	NumCustomers int
	Capacity     float64

	Demand      []float64 // indexed by node id, depots are 0
	TimeWindow  []ResourceWindowPoint
	ServiceTime []float64

	// Graph is the arc-filtered adjacency list: Graph[i] lists feasible
	// destinations j for arcs (i, j).
	Graph map[int][]int
	// BaseCost and TravelTime are keyed by Arc; only arcs present in
	// Graph are ever looked up.
	BaseCost   map[Arc]float64
	TravelTime map[Arc]float64
}

// ResourceWindowPoint is the per-node [lo, hi] time window.
type ResourceWindowPoint struct{ Lo, Hi float64 }

// Origin and Destination node ids for a ProblemData with N customers.
func (d *ProblemData) Origin() int      { return 0 }
func (d *ProblemData) Destination() int { return d.NumCustomers + 1 }
func (d *ProblemData) NumNodes() int    { return d.NumCustomers + 2 }

// ESPPTWC is the concrete model: the ESPPRC model registering
// the time, load, cost, and visited resources over a ProblemData. New
// variants (backhauls, pickup-and-delivery, multi-depot) are expected to
// be added by writing a sibling of this file, not by touching the
// labeling solver.
type ESPPTWC struct {
	data *ProblemData

	adjustedCost map[Arc]float64

	timeIdx, loadIdx, costIdx, visitedIdx int
	catalog                               *resource.Catalog
}

// NewESPPTWC builds the model and registers the four ESPPTWC resources
// in a fixed order: time, load, cost, visited.
func NewESPPTWC(data *ProblemData) *ESPPTWC {
	m := &ESPPTWC{data: data, adjustedCost: map[Arc]float64{}}
	for arc, c := range data.BaseCost {
		m.adjustedCost[arc] = c
	}

	cat := resource.NewCatalog()

	cat.Register(resource.Def{Name: "time", Extend: m.refTime})
	m.timeIdx = cat.IndexOf("time")

	cat.Register(resource.Def{Name: "load", Extend: m.refLoad})
	m.loadIdx = cat.IndexOf("load")

	cat.Register(resource.Def{Name: "cost", Extend: m.refCost})
	m.costIdx = cat.IndexOf("cost")

	cat.Register(resource.Def{Name: "visited", Extend: m.refVisited})
	m.visitedIdx = cat.IndexOf("visited")

	m.catalog = cat
	return m
}

func (m *ESPPTWC) isCustomer(node int) bool {
	return node >= 1 && node <= m.data.NumCustomers
}

// refTime implements t_j = max(a_j, t_i + tau_ij), where tau_ij is the
// TravelTime entry, which already includes the service time s_i at i;
// feasible iff t_j <= b_j.
func (m *ESPPTWC) refTime(old []resource.Value, from, to int) (resource.Value, bool) {
	ti := float64(old[m.timeIdx].(resource.ScalarValue))
	travel := m.data.TravelTime[Arc{from, to}]
	arrival := ti + travel
	w := m.data.TimeWindow[to]
	if arrival < w.Lo {
		arrival = w.Lo
	}
	if arrival > w.Hi {
		return nil, false
	}
	return resource.ScalarValue(arrival), true
}

// refLoad implements q_j = q_i + d_j; feasible iff q_j <= Q.
func (m *ESPPTWC) refLoad(old []resource.Value, from, to int) (resource.Value, bool) {
	qi := float64(old[m.loadIdx].(resource.ScalarValue))
	q := qi + m.data.Demand[to]
	if q > m.data.Capacity {
		return nil, false
	}
	return resource.ScalarValue(q), true
}

// refCost implements c_j = c_i + c̃_ij using the current adjusted cost
// map; unbounded, so always feasible.
func (m *ESPPTWC) refCost(old []resource.Value, from, to int) (resource.Value, bool) {
	ci := float64(old[m.costIdx].(resource.ScalarValue))
	return resource.ScalarValue(ci + m.adjustedCost[Arc{from, to}]), true
}

// refVisited implements V_j = V_i ∪ {j} (no-op for depots); feasible iff
// j is not already in V_i for customer j (elementarity).
func (m *ESPPTWC) refVisited(old []resource.Value, from, to int) (resource.Value, bool) {
	v := old[m.visitedIdx].(resource.BitSetValue)
	if !m.isCustomer(to) {
		return v, true
	}
	bit := to - 1
	if v.Has(bit) {
		return nil, false
	}
	return v.WithSet(bit), true
}

func (m *ESPPTWC) InitialLabel(arena *label.Arena) *label.Label {
	start := m.data.Origin()
	w := m.data.TimeWindow[start]
	resources := make([]resource.Value, m.catalog.Len())
	resources[m.timeIdx] = resource.ScalarValue(w.Lo)
	resources[m.loadIdx] = resource.ScalarValue(0)
	resources[m.costIdx] = resource.ScalarValue(0)
	resources[m.visitedIdx] = resource.NewBitSet(m.data.NumCustomers)
	return arena.New(start, resources, nil)
}

func (m *ESPPTWC) Extend(arena *label.Arena, l *label.Label, to int) (*label.Label, bool) {
	found := false
	for _, n := range m.data.Graph[l.Node] {
		if n == to {
			found = true
			break
		}
	}
	if !found {
		return nil, false
	}
	next, ok := m.catalog.Extend(l.Resources, l.Node, to)
	if !ok {
		return nil, false
	}
	return arena.New(to, next, l), true
}

func (m *ESPPTWC) IsTerminal(l *label.Label) bool { return l.Node == m.data.Destination() }

func (m *ESPPTWC) Dominates(a, b *label.Label) bool { return label.Dominates(a, b) }

func (m *ESPPTWC) SetArcCosts(adjusted map[Arc]float64) {
	m.adjustedCost = adjusted
}

func (m *ESPPTWC) Neighbors(node int) []int { return m.data.Graph[node] }

func (m *ESPPTWC) Origin() int      { return m.data.Origin() }
func (m *ESPPTWC) Destination() int { return m.data.Destination() }

func (m *ESPPTWC) ReducedCostOf(l *label.Label) float64 {
	return float64(l.Resources[m.costIdx].(resource.ScalarValue))
}

func (m *ESPPTWC) NumNodes() int { return m.data.NumNodes() }

func (m *ESPPTWC) ScalarResource(l *label.Label, name string) float64 {
	idx := m.catalog.IndexOf(name)
	if idx < 0 {
		return 0
	}
	v, ok := l.Resources[idx].(resource.ScalarValue)
	if !ok {
		return 0
	}
	return float64(v)
}

// TrueCost computes the true (undualized) cost of a path using the
// model's original base costs, for use when a pricing label becomes an
// RMP column: the true (undualized) cost.
func (m *ESPPTWC) TrueCost(path []int) float64 {
	total := 0.0
	for i := 0; i+1 < len(path); i++ {
		total += m.data.BaseCost[Arc{path[i], path[i+1]}]
	}
	return total
}

var _ Model = (*ESPPTWC)(nil)
