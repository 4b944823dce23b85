package arbor

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// Hierarchy stores a forest of objects as one flat array in pre-order:
// every object precedes its descendants, and an object together with its
// descendants occupies a contiguous Span. E is the opaque owner reference
// stored per object (an ECS entity, a pointer, an index); the hierarchy never
// interprets it.
//
// A Hierarchy is single-threaded and not reentrant. Callers serialize all
// access; no mutation may run while a RefreshMatrices pass or an iterator
// over the hierarchy is in progress.
type Hierarchy[E any] struct {
	// Position-aligned, reordered together.
	objects    []ObjectID
	owners     []E
	dirty      *bitset.BitSet
	frameDirty *bitset.BitSet
	active     *bitset.BitSet
	enabled    *bitset.BitSet

	// Keyed by ObjectID. Count == 0 marks an id that is not in the hierarchy.
	spans     []Span
	ancestors [][]ObjectID // nearest first
	matrices  []ebiten.GeoM

	// Reused by rotations and active propagation.
	scratchIDs    []ObjectID
	scratchOwners []E
	scratchBits   *bitset.BitSet

	log           *zap.Logger
	debug         bool
	maxTreeDepth  int
	maxChildCount int
}

// New creates an empty hierarchy. A nil cfg uses DefaultConfig.
func New[E any](cfg *Config) *Hierarchy[E] {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	n := cfg.InitialCapacity
	if n < 0 {
		n = 0
	}
	h := &Hierarchy[E]{
		objects:       make([]ObjectID, 0, n),
		owners:        make([]E, 0, n),
		dirty:         bitset.New(uint(n)),
		frameDirty:    bitset.New(uint(n)),
		active:        bitset.New(uint(n)),
		enabled:       bitset.New(uint(n)),
		spans:         make([]Span, 1, n+1),
		ancestors:     make([][]ObjectID, 1, n+1),
		matrices:      make([]ebiten.GeoM, 1, n+1),
		scratchBits:   bitset.New(uint(n)),
		log:           zap.NewNop(),
		debug:         cfg.Debug,
		maxTreeDepth:  cfg.MaxTreeDepth,
		maxChildCount: cfg.MaxChildCount,
	}
	return h
}

// span returns id's span or panics when id is not in the hierarchy.
func (h *Hierarchy[E]) span(id ObjectID) Span {
	if int(id) >= len(h.spans) || h.spans[id].Count == 0 {
		panic(fmt.Sprintf("arbor: unknown object %d", id))
	}
	return h.spans[id]
}

// Len returns the number of objects in the hierarchy.
func (h *Hierarchy[E]) Len() int {
	return len(h.objects)
}

// Objects returns the order array. The returned slice MUST NOT be mutated by
// the caller and is invalidated by the next structural mutation.
func (h *Hierarchy[E]) Objects() []ObjectID {
	return h.objects
}

// Owners returns the owner references, aligned with Objects. The returned
// slice MUST NOT be mutated by the caller.
func (h *Hierarchy[E]) Owners() []E {
	return h.owners
}

// Contains reports whether id is currently in the hierarchy.
func (h *Hierarchy[E]) Contains(id ObjectID) bool {
	return int(id) < len(h.spans) && h.spans[id].Count != 0
}

// Span returns the range occupied by id and its descendants.
func (h *Hierarchy[E]) Span(id ObjectID) Span {
	return h.span(id)
}

// PositionRange returns id's span as a half-open [start, end) pair of
// positions in the order array.
func (h *Hierarchy[E]) PositionRange(id ObjectID) (start, end int) {
	return h.span(id).Bounds()
}

// Index returns the position of id in the order array.
func (h *Hierarchy[E]) Index(id ObjectID) int {
	return int(h.span(id).Index)
}

// Owner returns the owner reference stored for id.
func (h *Hierarchy[E]) Owner(id ObjectID) E {
	return h.owners[h.span(id).Index]
}

// Parent returns id's parent. ok is false for roots.
func (h *Hierarchy[E]) Parent(id ObjectID) (parent ObjectID, ok bool) {
	h.span(id)
	if chain := h.ancestors[id]; len(chain) > 0 {
		return chain[0], true
	}
	return NoObject, false
}

// Ancestors returns id's ancestors, nearest first. The returned slice MUST
// NOT be mutated by the caller.
func (h *Hierarchy[E]) Ancestors(id ObjectID) []ObjectID {
	h.span(id)
	return h.ancestors[id]
}

// Depth returns the number of ancestors of id. Roots have depth 0.
func (h *Hierarchy[E]) Depth(id ObjectID) int {
	return len(h.Ancestors(id))
}

// IsAncestor reports whether ancestor is a proper ancestor of id.
func (h *Hierarchy[E]) IsAncestor(ancestor, id ObjectID) bool {
	s := h.span(ancestor)
	pos := h.span(id).Index
	return pos != s.Index && s.Contains(pos)
}

// Descendants returns every transitive descendant of id in pre-order. The
// returned slice aliases the order array and MUST NOT be mutated.
func (h *Hierarchy[E]) Descendants(id ObjectID) []ObjectID {
	start, end := h.span(id).Bounds()
	return h.objects[start+1 : end]
}

// ObjectAndDescendants returns id followed by its descendants in pre-order.
// The returned slice aliases the order array and MUST NOT be mutated.
func (h *Hierarchy[E]) ObjectAndDescendants(id ObjectID) []ObjectID {
	start, end := h.span(id).Bounds()
	return h.objects[start:end]
}

// IsDirty reports whether id's world matrix is stale.
func (h *Hierarchy[E]) IsDirty(id ObjectID) bool {
	return h.dirty.Test(uint(h.span(id).Index))
}

// IsFrameDirty reports whether id was dirty when SnapshotFrame last ran.
func (h *Hierarchy[E]) IsFrameDirty(id ObjectID) bool {
	return h.frameDirty.Test(uint(h.span(id).Index))
}

// IsActive reports whether id and every one of its ancestors are enabled.
func (h *Hierarchy[E]) IsActive(id ObjectID) bool {
	return h.active.Test(uint(h.span(id).Index))
}

// IsEnabled reports id's own enabled flag, ignoring its ancestors.
func (h *Hierarchy[E]) IsEnabled(id ObjectID) bool {
	return h.enabled.Test(uint(h.span(id).Index))
}
