// Package orchestrator implements the column-generation orchestrator
// (O): the INIT -> MASTER -> PRICING -> (MASTER | DONE | ABORT) state
// machine, grounded on the original's
// ColumnGenerationOrchestrator.run (original_source/src/cg_orchestrator.py).
package orchestrator

import (
	"fmt"

	"github.com/azaryc2s/vrptw-cg/internal/espprc"
	"github.com/azaryc2s/vrptw-cg/internal/label"
	"github.com/azaryc2s/vrptw-cg/internal/labeling"
	"github.com/azaryc2s/vrptw-cg/internal/logx"
	"github.com/azaryc2s/vrptw-cg/internal/rmp"
	"github.com/azaryc2s/vrptw-cg/internal/vrperr"
)

// State is one of the orchestrator's state-machine states.
type State int

const (
	StateInit State = iota
	StateMaster
	StatePricing
	StateDone
	StateAbort
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "INIT"
	case StateMaster:
		return "MASTER"
	case StatePricing:
		return "PRICING"
	case StateDone:
		return "DONE"
	case StateAbort:
		return "ABORT"
	default:
		return "UNKNOWN"
	}
}

// ColumnsPerIter selects how many improving pricing columns to add to the
// RMP at the end of one pricing round.
type ColumnsPerIter int

const (
	// AllImproving adds every non-dominated destination label whose
	// reduced cost is below -Tolerance (the default policy).
	AllImproving ColumnsPerIter = iota
	// BestOnly adds only the single most negative reduced-cost column.
	BestOnly
)

// Config holds the orchestrator's tunables and their defaults.
type Config struct {
	MaxIterations     int
	Tolerance         float64
	LabelingStrategy  labeling.Strategy
	SolveIntegerAfter bool
	ColumnsPerIter    ColumnsPerIter
	Partitioned       bool

	// OnMasterSolved, if set, is called after every successful MASTER
	// solve with the iteration number and the relaxed objective, for a
	// caller to stream progress into metrics or logs.
	OnMasterSolved func(iteration int, objective float64)
	// OnPricingSolved, if set, is called after every PRICING round with
	// the labeling result, before improving columns are added.
	OnPricingSolved func(iteration int, result labeling.Result)
}

// DefaultConfig returns the documented default tunables.
func DefaultConfig() Config {
	return Config{
		MaxIterations:     100,
		Tolerance:         1e-6,
		LabelingStrategy:  labeling.StrategyMinCost,
		SolveIntegerAfter: false,
		ColumnsPerIter:    AllImproving,
		Partitioned:       false,
	}
}

// Orchestrator drives column generation over one ESPPRC model and one
// RMP instance.
type Orchestrator struct {
	cfg   Config
	model espprc.Model
	base  map[espprc.Arc]float64
	rm    *rmp.RMP

	state      State
	iteration  int
	lastObj    float64
	lastDuals  map[int]float64
	abortCause error
}

// New builds an orchestrator in state INIT. base is the undualized arc
// cost map (c_ij); it is never mutated, only read each pricing round to
// derive the reduced-cost map c_ij - pi_j.
func New(cfg Config, model espprc.Model, rm *rmp.RMP, base map[espprc.Arc]float64) *Orchestrator {
	return &Orchestrator{cfg: cfg, model: model, rm: rm, base: base, state: StateInit}
}

func (o *Orchestrator) State() State { return o.state }

// Result is the orchestrator's terminal report.
type Result struct {
	State      State
	Iterations int
	Objective  float64
	Integer    *rmp.Solution
	Cause      error
}

// Run executes the state machine to completion: MASTER solves the RMP
// relaxation, PRICING reprices the ESPPRC model with the fresh duals and
// runs the labeling solver, and the loop returns to MASTER with any
// improving columns added, or transitions to DONE when pricing finds
// nothing sufficiently negative, or ABORT on a hard failure or iteration
// limit.
func (o *Orchestrator) Run() Result {
	o.state = StateMaster
	for {
		switch o.state {
		case StateMaster:
			obj, duals, err := o.rm.SolveRelaxation()
			if err != nil {
				o.abortCause = vrperr.New(vrperr.KindInfeasibleMaster, "orchestrator: master relaxation", err)
				o.state = StateAbort
				continue
			}
			o.lastObj = obj
			o.lastDuals = duals
			logx.Logf(logx.LvlInfo, "orchestrator: iteration %d master objective %.6f", o.iteration, obj)
			if o.cfg.OnMasterSolved != nil {
				o.cfg.OnMasterSolved(o.iteration, obj)
			}
			o.state = StatePricing

		case StatePricing:
			if o.iteration >= o.cfg.MaxIterations {
				o.abortCause = vrperr.New(vrperr.KindIterationLimit, fmt.Sprintf("orchestrator: reached max_iterations=%d", o.cfg.MaxIterations), nil)
				o.state = StateAbort
				continue
			}
			adjusted := adjustedCosts(o.base, o.lastDuals, o.model.Destination(), o.model.Origin())
			o.model.SetArcCosts(adjusted)
			result := labeling.Solve(o.model, o.cfg.LabelingStrategy)
			if o.cfg.OnPricingSolved != nil {
				o.cfg.OnPricingSolved(o.iteration, result)
			}

			improving := selectImproving(result, o.model, o.cfg)
			if len(improving) == 0 {
				logx.Logf(logx.LvlInfo, "orchestrator: no improving column at iteration %d (min reduced cost %.6f)", o.iteration, result.MinCost)
				o.state = StateDone
				continue
			}
			for _, l := range improving {
				path := pathOf(l)
				trueCost := o.model.TrueCost(path)
				if err := o.rm.AddColumn(path, trueCost); err != nil {
					o.abortCause = vrperr.New(vrperr.KindSolverBackendFailure, "orchestrator: add column", err)
					o.state = StateAbort
					break
				}
			}
			if o.state == StateAbort {
				continue
			}
			o.iteration++
			o.state = StateMaster

		case StateDone, StateAbort:
			return o.finish()
		}
	}
}

func (o *Orchestrator) finish() Result {
	res := Result{State: o.state, Iterations: o.iteration, Objective: o.lastObj, Cause: o.abortCause}
	if o.state == StateDone && o.cfg.SolveIntegerAfter {
		sol, err := o.rm.SolveInteger()
		if err != nil {
			res.State = StateAbort
			res.Cause = err
			return res
		}
		res.Integer = &sol
	}
	return res
}

// adjustedCosts implements the reduced-cost transform
// c̃_ij = c_ij - pi_j, dual indexed at the arc's destination customer; the
// depots never carry a dual.
func adjustedCosts(base map[espprc.Arc]float64, duals map[int]float64, destination, origin int) map[espprc.Arc]float64 {
	adjusted := make(map[espprc.Arc]float64, len(base))
	for arc, c := range base {
		pi := 0.0
		if arc.To != destination && arc.To != origin {
			pi = duals[arc.To]
		}
		adjusted[arc] = c - pi
	}
	return adjusted
}

type pathLabel struct {
	l           *label.Label
	reducedCost float64
}

// selectImproving filters result.Labels to those strictly below
// -Tolerance, per ColumnsPerIter's policy: every improving column, or
// just the single best one.
func selectImproving(result labeling.Result, model espprc.Model, cfg Config) []pathLabel {
	var candidates []pathLabel
	for _, l := range result.Labels {
		c := model.ReducedCostOf(l)
		if c < -cfg.Tolerance {
			candidates = append(candidates, pathLabel{l: l, reducedCost: c})
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	if cfg.ColumnsPerIter == BestOnly {
		best := candidates[0]
		for _, c := range candidates[1:] {
			if c.reducedCost < best.reducedCost {
				best = c
			}
		}
		return []pathLabel{best}
	}
	return candidates
}

func pathOf(p pathLabel) []int { return p.l.Path() }
