// Package rmp implements the restricted master problem (P): a
// set-covering LP over a growing pool of known routes (columns), one
// cover constraint per customer, grounded on the original's
// build_set_covering_problem (original_source/src/restricted_master_problems/set_covering.py
// and src/models/set_covering.py).
package rmp

import (
	"fmt"
	"math"

	"github.com/azaryc2s/vrptw-cg/internal/lpbackend"
	"github.com/azaryc2s/vrptw-cg/internal/logx"
	"github.com/azaryc2s/vrptw-cg/internal/vrperr"
)

// slackCost is the per-unit cost of the big-M cover slack, used only to
// guarantee LP feasibility before enough routes exist to cover every
// customer; it must dominate any real route cost so the relaxation never
// prefers slack over an available route.
const slackCost = 1e6

// Column is one known route: a full origin-to-destination path over the
// split-depot graph, its true (undualized) cost, and the customers it
// covers.
type Column struct {
	Name  string
	Route []int
	Cost  float64
}

// RMP owns the backend problem handle, the customer cover constraints,
// and the pool of columns added so far.
type RMP struct {
	backend      lpbackend.Backend
	numCustomers int
	partitioned  bool
	columns      []Column
	nextID       int
}

// New builds an RMP with one cover constraint per customer (1..numCustomers)
// and a big-M slack variable per constraint, so the relaxation is
// feasible even before any column covers a given customer. partitioned
// selects the partitioning (sense "=") vs covering (sense ">=") set-cover
// variant.
func New(backend lpbackend.Backend, numCustomers int, partitioned bool) (*RMP, error) {
	r := &RMP{backend: backend, numCustomers: numCustomers, partitioned: partitioned}
	sense := lpbackend.GE
	if partitioned {
		sense = lpbackend.EQ
	}
	for i := 1; i <= numCustomers; i++ {
		if err := backend.AddConstraint(coverName(i), sense, 1.0); err != nil {
			return nil, err
		}
	}
	for i := 1; i <= numCustomers; i++ {
		name := fmt.Sprintf("slack_%d", i)
		if err := backend.AddVariable(name, slackCost, 0, math.Inf(1), false, map[string]float64{coverName(i): 1.0}); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func coverName(customer int) string { return fmt.Sprintf("cover_element_%d", customer) }

// SeedTrivialRoutes adds one direct out-and-back route per customer
// (origin -> customer -> destination), using costOf to price it. A
// trivial route that costOf reports as infeasible (e.g. demand alone
// exceeds capacity, which costOf signals with ok=false) is skipped; the
// big-M slack already installed by New covers that customer instead
// until pricing finds a real alternative.
func (r *RMP) SeedTrivialRoutes(origin, destination int, costOf func(customer int) (cost float64, ok bool)) error {
	for i := 1; i <= r.numCustomers; i++ {
		cost, ok := costOf(i)
		if !ok {
			logx.Logf(logx.LvlInfo, "rmp: trivial route for customer %d infeasible, relying on slack", i)
			continue
		}
		if err := r.AddColumn([]int{origin, i, destination}, cost); err != nil {
			return err
		}
	}
	return nil
}

// AddColumn registers a priced route as a new RMP variable, bounded to
// [0,1] (a route is used at most once in the relaxation; branching/rounding
// to an integral selection happens in SolveInteger). coeffs are derived
// from which customers the route visits.
func (r *RMP) AddColumn(route []int, trueCost float64) error {
	name := fmt.Sprintf("route_%d", r.nextID)
	r.nextID++
	coeffs := make(map[string]float64)
	for _, node := range route {
		if node >= 1 && node <= r.numCustomers {
			coeffs[coverName(node)] = 1.0
		}
	}
	if err := r.backend.AddVariable(name, trueCost, 0, 1.0, true, coeffs); err != nil {
		return err
	}
	r.columns = append(r.columns, Column{Name: name, Route: append([]int(nil), route...), Cost: trueCost})
	return nil
}

// Columns returns every route added so far, in addition order.
func (r *RMP) Columns() []Column { return r.columns }

// SolveRelaxation solves the LP relaxation and returns the objective and
// the per-customer dual price π_i, keyed by customer id (1..numCustomers).
// The backend's primal values are not returned.
func (r *RMP) SolveRelaxation() (objective float64, duals map[int]float64, err error) {
	obj, _, rawDuals, err := r.backend.SolveRelaxation()
	if err != nil {
		return 0, nil, err
	}
	duals = make(map[int]float64, r.numCustomers)
	for i := 1; i <= r.numCustomers; i++ {
		duals[i] = rawDuals[coverName(i)]
	}
	return obj, duals, nil
}

// Solution is the outcome of SolveInteger: the objective and the
// fractional-free set of selected routes.
type Solution struct {
	Objective float64
	Routes    []Column
}

// SolveInteger restores integrality (the final restoration step)
// and reports the selected routes. A nonzero selection on a slack
// variable means no route pool covers that customer; SolveInteger then
// returns the solution together with an InfeasibleMaster error rather
// than silently accepting it.
func (r *RMP) SolveInteger() (Solution, error) {
	obj, primals, err := r.backend.SolveInteger()
	if err != nil {
		return Solution{}, err
	}
	var sol Solution
	sol.Objective = obj
	for _, c := range r.columns {
		if primals[c.Name] > 0.5 {
			sol.Routes = append(sol.Routes, c)
		}
	}
	for i := 1; i <= r.numCustomers; i++ {
		if v := primals[fmt.Sprintf("slack_%d", i)]; v > 1e-6 {
			return sol, vrperr.New(vrperr.KindInfeasibleMaster, fmt.Sprintf("customer %d only covered by slack in final solution", i), nil)
		}
	}
	return sol, nil
}
