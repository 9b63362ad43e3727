package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTracker_LeafCompletesOnRelease(t *testing.T) {
	tr := newTracker()
	root := Range{0, 5}
	tr.root(root)

	tr.hold(root)
	assert.True(t, tr.release(root), "no children: complete on release")

	_, ok := tr.retire(root)
	assert.False(t, ok, "root has no parent")
	assert.Equal(t, 0, tr.inFlight())
}

func TestTracker_ParentWaitsForChildren(t *testing.T) {
	tr := newTracker()
	root := Range{0, 100}
	left, right := Range{0, 40}, Range{40, 100}
	tr.root(root)

	tr.hold(root)
	tr.adopt(root, left)
	tr.adopt(root, right)
	assert.False(t, tr.release(root), "children still pending")
	assert.Equal(t, 3, tr.inFlight())

	// Left child finishes.
	tr.hold(left)
	assert.True(t, tr.release(left))
	parent, ok := tr.retire(left)
	assert.True(t, ok)
	assert.Equal(t, root, parent)
	assert.False(t, tr.release(root), "right still pending")

	// Right child finishes.
	tr.hold(right)
	assert.True(t, tr.release(right))
	parent, ok = tr.retire(right)
	assert.True(t, ok)
	assert.True(t, tr.release(parent), "last child completes the parent")

	_, ok = tr.retire(root)
	assert.False(t, ok)
	assert.Equal(t, 0, tr.inFlight())
}

func TestTracker_ChildFinishesBeforeParentReleases(t *testing.T) {
	tr := newTracker()
	root := Range{0, 100}
	child := Range{50, 100}
	tr.root(root)

	tr.hold(root)
	tr.adopt(root, child)

	// Another worker completes the child while the parent is still splitting.
	tr.hold(child)
	assert.True(t, tr.release(child))
	parent, _ := tr.retire(child)
	assert.False(t, tr.release(parent), "parent hold keeps it open")

	assert.True(t, tr.release(root))
}

func TestTracker_Disown(t *testing.T) {
	tr := newTracker()
	root := Range{0, 100}
	child := Range{0, 30}
	tr.root(root)

	tr.hold(root)
	tr.adopt(root, child)
	tr.disown(root, child)
	assert.Equal(t, 1, tr.inFlight())
	assert.True(t, tr.release(root))
}

func TestTracker_InvariantPanics(t *testing.T) {
	tr := newTracker()
	assert.Panics(t, func() { tr.hold(Range{0, 1}) }, "untracked range")

	root := Range{0, 10}
	tr.root(root)
	assert.Panics(t, func() { tr.release(root) }, "negative pending")

	tr2 := newTracker()
	tr2.root(root)
	tr2.hold(root)
	assert.Panics(t, func() { tr2.retire(root) }, "retire with pending work")
}
