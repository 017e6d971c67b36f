// Package label implements the partial-path state of the labeling
// algorithm: a node, a resource vector in catalog order, and a parent
// pointer for path reconstruction. Labels form a tree rooted at the
// initial label and are allocated from an Arena rather than each holding
// its own copy of the full path, avoiding the per-label path cloning that
// dominates the reference implementation's cost.
package label

import "github.com/azaryc2s/vrptw-cg/internal/resource"

// Label is one reachable partial-path state. Resources are stored as a
// fixed-order slice (the model's resource catalog order), not a
// name-keyed map.
type Label struct {
	id        int
	Node      int
	Resources []resource.Value
	Parent    *Label
	// Depth is the path length in arcs from the origin, tracked
	// incrementally so selection strategies that order by |path| don't
	// need to walk parent pointers.
	Depth int
	// dominated marks a label removed from its bucket/frontier by a
	// later, dominating label. The frontier checks this tombstone at pop
	// time instead of scanning to remove entries eagerly.
	dominated bool
}

// ID returns the label's arena index, stable for its lifetime.
func (l *Label) ID() int { return l.id }

// Dominated reports whether this label has been tombstoned.
func (l *Label) Dominated() bool { return l.dominated }

// MarkDominated tombstones the label.
func (l *Label) MarkDominated() { l.dominated = true }

// Path reconstructs the sequence of nodes from the origin to this label
// by walking parent pointers, an O(path length) operation performed only
// when a caller actually needs the route (at sink time), not on every
// extension.
func (l *Label) Path() []int {
	n := 0
	for cur := l; cur != nil; cur = cur.Parent {
		n++
	}
	path := make([]int, n)
	i := n - 1
	for cur := l; cur != nil; cur = cur.Parent {
		path[i] = cur.Node
		i--
	}
	return path
}

// Arena owns labels for one labeling-solver run. Labels are created by
// extension from a parent and indexed by allocation order; nothing is
// freed mid-run since dominated labels are still reachable as ancestors
// of labels that extended from them before being dominated. (In practice
// Go's GC reclaims any label no longer referenced from a bucket,
// frontier, sink, or as an ancestor of one that is.)
type Arena struct {
	labels []*Label
}

// NewArena returns an empty label arena.
func NewArena() *Arena { return &Arena{} }

// New allocates a new label at node, with the given resource vector and
// parent (nil for the root label).
func (a *Arena) New(node int, resources []resource.Value, parent *Label) *Label {
	depth := 0
	if parent != nil {
		depth = parent.Depth + 1
	}
	l := &Label{id: len(a.labels), Node: node, Resources: resources, Parent: parent, Depth: depth}
	a.labels = append(a.labels, l)
	return l
}

// Len returns the number of labels ever allocated from this arena.
func (a *Arena) Len() int { return len(a.labels) }

// Dominates reports whether a dominates b under the generic rule:
// same node, every resource of a componentwise <= the corresponding
// resource of b, and at least one strict. Identical resource vectors
// therefore do NOT dominate each other under this function — callers
// implement the tie-break (keep first inserted) explicitly.
func Dominates(a, b *Label) bool {
	if a.Node != b.Node {
		return false
	}
	if len(a.Resources) != len(b.Resources) {
		return false
	}
	strictSomewhere := false
	for i := range a.Resources {
		if !a.Resources[i].LessEqComponentwise(b.Resources[i]) {
			return false
		}
		if !b.Resources[i].LessEqComponentwise(a.Resources[i]) {
			strictSomewhere = true
		}
	}
	return strictSomewhere
}

// Equal reports whether a and b carry identical resource vectors at the
// same node (used to implement the tie-break rule).
func Equal(a, b *Label) bool {
	if a.Node != b.Node || len(a.Resources) != len(b.Resources) {
		return false
	}
	for i := range a.Resources {
		if !a.Resources[i].LessEqComponentwise(b.Resources[i]) || !b.Resources[i].LessEqComponentwise(a.Resources[i]) {
			return false
		}
	}
	return true
}
