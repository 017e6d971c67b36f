// Package labeling implements the labeling solver (S): a frontier-based
// search over an ESPPRC model producing the non-dominated labels that
// reach the destination depot.
package labeling

import (
	"math"

	"github.com/azaryc2s/vrptw-cg/internal/espprc"
	"github.com/azaryc2s/vrptw-cg/internal/label"
	"github.com/azaryc2s/vrptw-cg/internal/logx"
)

// Result is the outcome of one labeling solve.
type Result struct {
	// Labels holds every non-dominated label that reached the
	// destination depot (the sink).
	Labels []*label.Label
	// MinCost is the minimum `cost` resource value among Labels, or
	// +Inf if Labels is empty.
	MinCost float64
	// LabelsExplored is the number of labels the arena allocated during
	// this solve, exposed for metrics.
	LabelsExplored int
}

// Solve runs the labeling algorithm over model, using
// the given selection strategy. Correctness does not depend on
// strategy — every registered REF is monotone and cost is additive, so a
// label dominated at creation time cannot be an ancestor of an optimal
// destination label, making its early discard safe.
func Solve(model espprc.Model, strategy Strategy) Result {
	arena := label.NewArena()
	buckets := make(map[int][]*label.Label, model.NumNodes())
	fr := newFrontier(strategy, model)

	start := model.InitialLabel(arena)
	buckets[start.Node] = []*label.Label{start}
	fr.Push(start)

	dest := model.Destination()

	for !fr.Empty() {
		cur := fr.Pop()
		if cur == nil || cur.Dominated() {
			continue
		}
		for _, j := range model.Neighbors(cur.Node) {
			child, ok := model.Extend(arena, cur, j)
			if !ok {
				continue
			}
			if !insertDominance(buckets, j, child, model) {
				continue
			}
			if !model.IsTerminal(child) {
				fr.Push(child)
			}
		}
	}

	sink := buckets[dest]
	var alive []*label.Label
	for _, l := range sink {
		if !l.Dominated() {
			alive = append(alive, l)
		}
	}

	res := Result{LabelsExplored: arena.Len()}
	if len(alive) == 0 {
		res.MinCost = math.Inf(1)
		logx.Logf(logx.LvlDebug, "labeling: empty sink, explored %d labels", arena.Len())
		return res
	}

	minCost := model.ReducedCostOf(alive[0])
	for _, l := range alive[1:] {
		if c := model.ReducedCostOf(l); c < minCost {
			minCost = c
		}
	}
	res.Labels = alive
	res.MinCost = minCost
	logx.Logf(logx.LvlDebug, "labeling: sink has %d non-dominated labels, min cost %.4f, explored %d labels", len(alive), minCost, arena.Len())
	return res
}

// insertDominance implements dominance insertion at bucket j:
// discard newLabel if an existing, non-dominated label in the bucket
// dominates it or ties it (the tie-break keeps the first
// inserted); otherwise tombstone every existing label newLabel
// dominates, insert newLabel, and report success.
func insertDominance(buckets map[int][]*label.Label, node int, newLabel *label.Label, model espprc.Model) bool {
	bucket := buckets[node]
	for _, existing := range bucket {
		if existing.Dominated() {
			continue
		}
		if model.Dominates(existing, newLabel) || label.Equal(existing, newLabel) {
			return false
		}
	}
	kept := bucket[:0]
	for _, existing := range bucket {
		if existing.Dominated() {
			continue
		}
		if model.Dominates(newLabel, existing) {
			existing.MarkDominated()
			continue
		}
		kept = append(kept, existing)
	}
	kept = append(kept, newLabel)
	buckets[node] = kept
	return true
}
