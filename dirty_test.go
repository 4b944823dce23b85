package arbor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInsertIsDirty(t *testing.T) {
	h := newTestHierarchy(t, 1)

	assert.True(t, h.IsDirty(1))
	h.ClearDirty()
	assert.False(t, h.IsDirty(1))
}

func TestMarkDirtyCoversSubtree(t *testing.T) {
	// 1 > [2 > [3]], 4
	h := newTestHierarchy(t, 4)
	mustSetParent(t, h, 2, 1)
	mustSetParent(t, h, 3, 2)
	h.ClearDirty()

	h.MarkDirty(2)
	assert.False(t, h.IsDirty(1))
	assert.True(t, h.IsDirty(2))
	assert.True(t, h.IsDirty(3))
	assert.False(t, h.IsDirty(4))
	assert.Equal(t, 2, h.DirtyCount())
}

func TestSetParentMarksMovedSubtreeDirty(t *testing.T) {
	h := newTestHierarchy(t, 4)
	mustSetParent(t, h, 3, 2)
	h.ClearDirty()

	mustSetParent(t, h, 2, 4)
	for id, want := range map[ObjectID]bool{1: false, 2: true, 3: true, 4: false} {
		assert.Equal(t, want, h.IsDirty(id), "dirty(%d)", id)
	}
}

func TestSnapshotFrame(t *testing.T) {
	h := newTestHierarchy(t, 3)
	h.ClearDirty()
	h.MarkDirty(2)

	h.SnapshotFrame()
	h.ClearDirty()
	assert.True(t, h.IsFrameDirty(2))
	assert.False(t, h.IsFrameDirty(1))
	assert.False(t, h.IsDirty(2))

	// Frame flags follow objects through reorders.
	mustSetParent(t, h, 2, 3)
	assert.Equal(t, ids(1, 3, 2), h.Objects())
	assert.True(t, h.IsFrameDirty(2))
	assert.False(t, h.IsFrameDirty(3))

	// Next tick, nothing changed.
	h.ClearDirty()
	h.SnapshotFrame()
	assert.False(t, h.IsFrameDirty(2))
}
