package engine

import (
	"fmt"
	"sync"
)

// tracker does the parent/child completion accounting for ranges in flight.
//
// Every range that is queued as Work has an entry. A parent's pending count
// is the number of its handed-off children that have not reported Finish,
// plus one while a worker is still splitting it. The parent is complete when
// the count reaches zero.
//
// In-flight ranges are disjoint or strictly nested, so a Range is a unique key.
type tracker struct {
	mu    sync.Mutex
	nodes map[Range]*trackNode
}

type trackNode struct {
	parent    Range
	hasParent bool
	pending   int
}

func newTracker() *tracker {
	return &tracker{nodes: make(map[Range]*trackNode)}
}

// root registers the top-level range.
func (t *tracker) root(r Range) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nodes[r] = &trackNode{}
}

// hold marks r as being split by a worker.
func (t *tracker) hold(r Range) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.mustNode(r).pending++
}

// adopt registers child under parent before child is queued.
func (t *tracker) adopt(parent, child Range) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.mustNode(parent).pending++
	t.nodes[child] = &trackNode{parent: parent, hasParent: true}
}

// disown undoes adopt for a child that could not be queued.
func (t *tracker) disown(parent, child Range) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.nodes, child)
	t.mustNode(parent).pending--
}

// release drops one pending unit from r and reports whether r is now
// complete.
func (t *tracker) release(r Range) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := t.mustNode(r)
	n.pending--
	if n.pending < 0 {
		panic(fmt.Sprintf("engine: negative pending count for %s", r))
	}
	return n.pending == 0
}

// retire removes a completed range and returns its parent. ok is false for
// the root.
func (t *tracker) retire(r Range) (parent Range, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := t.mustNode(r)
	if n.pending != 0 {
		panic(fmt.Sprintf("engine: retiring %s with %d pending children", r, n.pending))
	}
	delete(t.nodes, r)
	return n.parent, n.hasParent
}

// inFlight returns the number of tracked ranges.
func (t *tracker) inFlight() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.nodes)
}

// mustNode must be called with mu held.
func (t *tracker) mustNode(r Range) *trackNode {
	n, ok := t.nodes[r]
	if !ok {
		panic(fmt.Sprintf("engine: untracked range %s", r))
	}
	return n
}
