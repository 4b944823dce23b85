package arbor

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestHierarchy inserts n roots with ids 1..n and owners "o1".."on".
// Debug mode is on, so every structural mutation validates itself.
func newTestHierarchy(t testing.TB, n int) *Hierarchy[string] {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Debug = true
	h := New[string](cfg)
	for id := 1; id <= n; id++ {
		h.Insert(ObjectID(id), fmt.Sprintf("o%d", id))
	}
	return h
}

func ids(v ...int) []ObjectID {
	out := make([]ObjectID, len(v))
	for i, id := range v {
		out[i] = ObjectID(id)
	}
	return out
}

func mustSetParent(t testing.TB, h *Hierarchy[string], id, parent int) {
	t.Helper()
	require.NoError(t, h.SetParent(ObjectID(id), ObjectID(parent)))
}

// --- Insertion ---

func TestInsertAppendsRoots(t *testing.T) {
	h := newTestHierarchy(t, 4)

	assert.Equal(t, ids(1, 2, 3, 4), h.Objects())
	assert.Equal(t, []string{"o1", "o2", "o3", "o4"}, h.Owners())
	for i, id := range h.Objects() {
		assert.Equal(t, Span{Index: uint32(i), Count: 1}, h.Span(id))
		assert.Empty(t, h.Ancestors(id))
		assert.True(t, h.IsDirty(id))
		assert.True(t, h.IsActive(id))
		assert.True(t, h.IsEnabled(id))
	}
	assert.Equal(t, 4, h.Len())
}

func TestInsertPanics(t *testing.T) {
	h := newTestHierarchy(t, 1)

	assert.Panics(t, func() { h.Insert(NoObject, "") })
	assert.PanicsWithValue(t, "arbor: object 1 is already in the hierarchy", func() { h.Insert(1, "again") })
}

func TestUnknownObjectPanics(t *testing.T) {
	h := newTestHierarchy(t, 2)
	h.Remove(2)

	assert.PanicsWithValue(t, "arbor: unknown object 2", func() { h.Span(2) })
	assert.Panics(t, func() { h.Remove(7) })
	assert.Panics(t, func() { _ = h.SetParent(1, 9) })
	assert.Panics(t, func() { h.IsActive(0) })
	assert.False(t, h.Contains(2))
	assert.False(t, h.Contains(1000))
}

func TestReinsertAfterRemove(t *testing.T) {
	h := newTestHierarchy(t, 3)
	mustSetParent(t, h, 2, 1)
	h.Remove(1)

	h.Insert(2, "back")
	assert.Equal(t, ids(3, 2), h.Objects())
	assert.Empty(t, h.Ancestors(2))
	assert.Equal(t, "back", h.Owner(2))
	require.NoError(t, h.Validate())
}

// --- Reparenting ---

func TestSetParentOrder(t *testing.T) {
	h := newTestHierarchy(t, 4)

	mustSetParent(t, h, 3, 1)
	mustSetParent(t, h, 4, 1)
	assert.Equal(t, ids(1, 3, 4, 2), h.Objects())
	assert.Equal(t, []string{"o1", "o3", "o4", "o2"}, h.Owners())

	mustSetParent(t, h, 3, 2)
	mustSetParent(t, h, 4, 2)
	assert.Equal(t, ids(1, 2, 3, 4), h.Objects())

	mustSetParent(t, h, 1, 2)
	assert.Equal(t, ids(2, 3, 4, 1), h.Objects())
	assert.Equal(t, Span{Index: 0, Count: 4}, h.Span(2))
	assert.Equal(t, ids(2), h.Ancestors(1))
}

func TestSetParentKeepsCachedMatrices(t *testing.T) {
	h := newTestHierarchy(t, 4)
	h.RefreshMatrices(func(id ObjectID, _ string) (Transform, bool) {
		tr := IdentityTransform()
		tr.X = float64(id) * 100
		return tr, true
	})

	mustSetParent(t, h, 1, 4)
	mustSetParent(t, h, 2, 3)
	assert.Equal(t, ids(3, 2, 4, 1), h.Objects())

	for id := ObjectID(1); id <= 4; id++ {
		x, _ := h.LocalToWorld(id, 0, 0)
		assert.InDelta(t, float64(id)*100, x, 1e-9, "object %d", id)
	}
}

func TestSetParentBuildsAncestorChains(t *testing.T) {
	h := newTestHierarchy(t, 5)
	mustSetParent(t, h, 2, 1)
	mustSetParent(t, h, 3, 2)
	mustSetParent(t, h, 4, 3)

	assert.Equal(t, ids(3, 2, 1), h.Ancestors(4))
	assert.Equal(t, 3, h.Depth(4))
	assert.True(t, h.IsAncestor(1, 4))
	assert.False(t, h.IsAncestor(4, 1))
	assert.False(t, h.IsAncestor(4, 4))

	// Moving a subtree rewrites every chain inside it.
	mustSetParent(t, h, 3, 5)
	assert.Equal(t, ids(1, 2, 5, 3, 4), h.Objects())
	assert.Equal(t, ids(5), h.Ancestors(3))
	assert.Equal(t, ids(3, 5), h.Ancestors(4))
	assert.Equal(t, Span{Index: 0, Count: 2}, h.Span(1))
	assert.Equal(t, Span{Index: 2, Count: 3}, h.Span(5))

	// And back to a root.
	mustSetParent(t, h, 3, 0)
	assert.Equal(t, ids(1, 2, 5, 3, 4), h.Objects())
	assert.Empty(t, h.Ancestors(3))
	assert.Equal(t, ids(3), h.Ancestors(4))
	assert.Equal(t, Span{Index: 2, Count: 1}, h.Span(5))
}

func TestSetParentToAncestor(t *testing.T) {
	// 1 > [2 > [3], 4 > [5]]
	h := newTestHierarchy(t, 5)
	mustSetParent(t, h, 2, 1)
	mustSetParent(t, h, 3, 2)
	mustSetParent(t, h, 4, 1)
	mustSetParent(t, h, 5, 4)

	// 3 becomes the last child of its grandparent.
	mustSetParent(t, h, 3, 1)
	assert.Equal(t, ids(1, 2, 4, 5, 3), h.Objects())
	assert.Equal(t, Span{Index: 0, Count: 5}, h.Span(1))
	assert.Equal(t, Span{Index: 1, Count: 1}, h.Span(2))
	assert.Equal(t, Span{Index: 2, Count: 2}, h.Span(4))
	assert.Equal(t, ids(1), h.Ancestors(3))
	assert.Equal(t, ids(2, 4, 3), slices.Collect(h.Children(1)))
}

func TestSetParentSameParentKeepsOrder(t *testing.T) {
	h := newTestHierarchy(t, 5)
	mustSetParent(t, h, 2, 1)
	mustSetParent(t, h, 3, 1)
	mustSetParent(t, h, 4, 1)
	before := slices.Clone(h.Objects())

	h.ClearDirty()
	mustSetParent(t, h, 2, 1)
	assert.Equal(t, before, h.Objects())
	assert.True(t, h.IsDirty(2))
	assert.False(t, h.IsDirty(3))

	// Roots stay where they are too.
	mustSetParent(t, h, 1, 0)
	assert.Equal(t, before, h.Objects())
}

func TestSetParentCycle(t *testing.T) {
	h := newTestHierarchy(t, 3)
	mustSetParent(t, h, 2, 1)
	mustSetParent(t, h, 3, 2)
	h.ClearDirty()
	before := slices.Clone(h.Objects())

	err := h.SetParent(1, 3)
	require.ErrorIs(t, err, ErrCycle)
	err = h.SetParent(2, 2)
	require.ErrorIs(t, err, ErrCycle)

	assert.Equal(t, before, h.Objects())
	assert.Equal(t, 0, h.DirtyCount())
	require.NoError(t, h.Validate())
}

// --- Removal ---

func TestRemove(t *testing.T) {
	h := newTestHierarchy(t, 6)

	assert.Equal(t, []string{"o2"}, h.Remove(2))
	assert.Equal(t, []string{"o5"}, h.Remove(5))
	assert.Equal(t, ids(1, 3, 4, 6), h.Objects())

	mustSetParent(t, h, 1, 6)
	removed := h.Remove(6)
	assert.Equal(t, []string{"o6", "o1"}, removed)
	assert.Equal(t, ids(3, 4), h.Objects())
	assert.Equal(t, []string{"o3", "o4"}, h.Owners())
	assert.False(t, h.Contains(1))
	assert.False(t, h.Contains(6))
}

func TestRemoveNestedUpdatesAncestors(t *testing.T) {
	// 1 > [2 > [3, 4], 5], 6
	h := newTestHierarchy(t, 6)
	mustSetParent(t, h, 2, 1)
	mustSetParent(t, h, 3, 2)
	mustSetParent(t, h, 4, 2)
	mustSetParent(t, h, 5, 1)
	h.SetEnabled(6, false)
	h.ClearDirty()

	assert.Equal(t, []string{"o2", "o3", "o4"}, h.Remove(2))
	assert.Equal(t, ids(1, 5, 6), h.Objects())
	assert.Equal(t, Span{Index: 0, Count: 2}, h.Span(1))
	assert.Equal(t, Span{Index: 1, Count: 1}, h.Span(5))
	assert.Equal(t, Span{Index: 2, Count: 1}, h.Span(6))

	// Flags shifted with their objects.
	assert.False(t, h.IsEnabled(6))
	assert.True(t, h.IsEnabled(5))
	assert.Equal(t, 0, h.DirtyCount())
}

// --- Queries ---

func TestDescendants(t *testing.T) {
	h := newTestHierarchy(t, 4)
	mustSetParent(t, h, 2, 1)
	mustSetParent(t, h, 3, 2)

	assert.Equal(t, ids(2, 3), h.Descendants(1))
	assert.Equal(t, ids(1, 2, 3), h.ObjectAndDescendants(1))
	assert.Empty(t, h.Descendants(4))

	start, end := h.PositionRange(2)
	assert.Equal(t, 1, start)
	assert.Equal(t, 3, end)
	assert.Equal(t, 2, h.Index(3))
	assert.Equal(t, 3, h.Index(4))
	assert.Equal(t, "o3", h.Owner(3))

	p, ok := h.Parent(3)
	assert.True(t, ok)
	assert.Equal(t, ObjectID(2), p)
	_, ok = h.Parent(1)
	assert.False(t, ok)
}

// --- Properties ---

// TestRandomOperations replays seeded random mutations and checks every
// structural invariant after each step.
func TestRandomOperations(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		t.Run(fmt.Sprintf("seed=%d", seed), func(t *testing.T) {
			rng := rand.New(rand.NewPCG(seed, seed*31))
			h := New[string](nil)
			alloc := NewAllocator()
			pick := func() ObjectID {
				return h.Objects()[rng.IntN(h.Len())]
			}

			for step := 0; step < 400; step++ {
				if h.Len() == 0 || rng.IntN(5) == 0 {
					id := alloc.Alloc()
					h.Insert(id, fmt.Sprint(id))
					continue
				}
				id := pick()
				switch rng.IntN(10) {
				case 0:
					span := h.Span(id)
					want := slices.Clone(h.Owners()[span.Index:span.End()])
					n := h.Len()
					for _, o := range h.ObjectAndDescendants(id) {
						alloc.Release(o)
					}
					got := h.Remove(id)
					require.Equal(t, want, got)
					require.Equal(t, n-len(want), h.Len())
				case 1, 2:
					h.SetEnabled(id, rng.IntN(2) == 0)
				default:
					parent := NoObject
					if rng.IntN(6) != 0 {
						parent = pick()
					}
					cycle := parent != NoObject && (parent == id || h.IsAncestor(id, parent))
					before := slices.Clone(h.Objects())
					err := h.SetParent(id, parent)
					if cycle {
						require.ErrorIs(t, err, ErrCycle)
						require.Equal(t, before, h.Objects())
					} else {
						require.NoError(t, err)
						got, _ := h.Parent(id)
						require.Equal(t, parent, got)
					}
				}
				require.NoError(t, h.Validate(), "step %d", step)
				checkOwnersFollowObjects(t, h)
			}
		})
	}
}

func checkOwnersFollowObjects(t *testing.T, h *Hierarchy[string]) {
	t.Helper()
	for i, id := range h.Objects() {
		require.Equal(t, fmt.Sprint(id), h.Owners()[i])
	}
}

func TestSetParentTwiceIsIdempotent(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	h := New[string](nil)
	for id := 1; id <= 40; id++ {
		h.Insert(ObjectID(id), "")
	}
	for i := 0; i < 200; i++ {
		id, parent := ObjectID(rng.IntN(40)+1), ObjectID(rng.IntN(41))
		if h.SetParent(id, parent) != nil {
			continue
		}
		order := slices.Clone(h.Objects())
		require.NoError(t, h.SetParent(id, parent))
		require.Equal(t, order, h.Objects())
	}
}
