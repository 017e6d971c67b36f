package labeling

import (
	"container/heap"

	"github.com/azaryc2s/vrptw-cg/internal/espprc"
	"github.com/azaryc2s/vrptw-cg/internal/label"
)

// Strategy selects which label the frontier pops next. It affects
// runtime and incumbent tightness, never correctness.
type Strategy int

const (
	StrategyFIFO Strategy = iota
	StrategyLIFO
	StrategyMinTime
	StrategyMinCost
	StrategyMinLoad
	StrategyMinPathLen
)

// ParseStrategy maps a config string (as loaded from YAML) to a
// Strategy, defaulting to StrategyMinCost: a min-reduced-cost selector
// gives the fastest path to an improving column in the common case.
func ParseStrategy(s string) Strategy {
	switch s {
	case "fifo":
		return StrategyFIFO
	case "lifo":
		return StrategyLIFO
	case "min_time":
		return StrategyMinTime
	case "min_load":
		return StrategyMinLoad
	case "min_path_len":
		return StrategyMinPathLen
	case "min_cost", "":
		return StrategyMinCost
	default:
		return StrategyMinCost
	}
}

// frontier is the label-selection-strategy-agnostic interface the solver
// drives: push a freshly inserted label, pop the next one to extend.
type frontier interface {
	Push(l *label.Label)
	Pop() *label.Label
	Empty() bool
}

func newFrontier(strategy Strategy, model espprc.Model) frontier {
	switch strategy {
	case StrategyFIFO:
		return &queueFrontier{}
	case StrategyLIFO:
		return &stackFrontier{}
	case StrategyMinTime:
		return newPriorityFrontier(func(l *label.Label) float64 { return model.ScalarResource(l, "time") })
	case StrategyMinLoad:
		return newPriorityFrontier(func(l *label.Label) float64 { return model.ScalarResource(l, "load") })
	case StrategyMinPathLen:
		return newPriorityFrontier(func(l *label.Label) float64 { return float64(l.Depth) })
	case StrategyMinCost:
		return newPriorityFrontier(func(l *label.Label) float64 { return model.ScalarResource(l, "cost") })
	default:
		return newPriorityFrontier(func(l *label.Label) float64 { return model.ScalarResource(l, "cost") })
	}
}

// queueFrontier is a FIFO; dominated entries are skipped lazily at Pop.
type queueFrontier struct {
	items []*label.Label
	head  int
}

func (q *queueFrontier) Push(l *label.Label) { q.items = append(q.items, l) }

func (q *queueFrontier) Pop() *label.Label {
	for q.head < len(q.items) {
		l := q.items[q.head]
		q.head++
		if !l.Dominated() {
			return l
		}
	}
	return nil
}

func (q *queueFrontier) Empty() bool {
	for q.head < len(q.items) {
		if !q.items[q.head].Dominated() {
			return false
		}
		q.head++
	}
	return true
}

// stackFrontier is a LIFO.
type stackFrontier struct {
	items []*label.Label
}

func (s *stackFrontier) Push(l *label.Label) { s.items = append(s.items, l) }

func (s *stackFrontier) Pop() *label.Label {
	for len(s.items) > 0 {
		l := s.items[len(s.items)-1]
		s.items = s.items[:len(s.items)-1]
		if !l.Dominated() {
			return l
		}
	}
	return nil
}

func (s *stackFrontier) Empty() bool {
	for len(s.items) > 0 {
		if !s.items[len(s.items)-1].Dominated() {
			return false
		}
		s.items = s.items[:len(s.items)-1]
	}
	return true
}

// priorityFrontier pops the minimum of a key function. Ties keep
// insertion order (min-heap over (key, sequence)).
type priorityFrontier struct {
	h priorityHeap
}

func newPriorityFrontier(key func(*label.Label) float64) *priorityFrontier {
	return &priorityFrontier{h: priorityHeap{key: key}}
}

func (p *priorityFrontier) Push(l *label.Label) { heap.Push(&p.h, l) }

func (p *priorityFrontier) Pop() *label.Label {
	for p.h.Len() > 0 {
		l := heap.Pop(&p.h).(*label.Label)
		if !l.Dominated() {
			return l
		}
	}
	return nil
}

func (p *priorityFrontier) Empty() bool {
	for p.h.Len() > 0 {
		if !p.h.items[0].Dominated() {
			return false
		}
		heap.Pop(&p.h)
	}
	return true
}

type priorityHeap struct {
	items []*label.Label
	seq   []int
	key   func(*label.Label) float64
	next  int
}

func (h priorityHeap) Len() int { return len(h.items) }

func (h priorityHeap) Less(i, j int) bool {
	ki, kj := h.key(h.items[i]), h.key(h.items[j])
	if ki != kj {
		return ki < kj
	}
	return h.seq[i] < h.seq[j]
}

func (h priorityHeap) Swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
	h.seq[i], h.seq[j] = h.seq[j], h.seq[i]
}

func (h *priorityHeap) Push(x interface{}) {
	h.items = append(h.items, x.(*label.Label))
	h.seq = append(h.seq, h.next)
	h.next++
}

func (h *priorityHeap) Pop() interface{} {
	n := len(h.items)
	item := h.items[n-1]
	h.items = h.items[:n-1]
	h.seq = h.seq[:n-1]
	return item
}
