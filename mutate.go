package arbor

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/hajimehoshi/ebiten/v2"
)

// --- Insertion & removal ---

// Insert appends id as a new root at the end of the order array. The new
// object is enabled, active and dirty, has no ancestors and an identity
// world matrix. Panics if id is NoObject or already in the hierarchy.
func (h *Hierarchy[E]) Insert(id ObjectID, owner E) {
	if id == NoObject {
		panic("arbor: cannot insert NoObject")
	}
	if h.Contains(id) {
		panic(fmt.Sprintf("arbor: object %d is already in the hierarchy", id))
	}
	for int(id) >= len(h.spans) {
		h.spans = append(h.spans, Span{})
		h.ancestors = append(h.ancestors, nil)
		h.matrices = append(h.matrices, ebiten.GeoM{})
	}

	pos := len(h.objects)
	h.spans[id] = Span{Index: uint32(pos), Count: 1}
	h.ancestors[id] = h.ancestors[id][:0]
	h.matrices[id] = ebiten.GeoM{}

	h.objects = append(h.objects, id)
	h.owners = append(h.owners, owner)
	h.dirty.Set(uint(pos))
	h.frameDirty.Set(uint(pos))
	h.active.Set(uint(pos))
	h.enabled.Set(uint(pos))
}

// Remove removes id and all of its descendants and returns their owner
// references in hierarchy order. Removed ids may be inserted again later.
func (h *Hierarchy[E]) Remove(id ObjectID) []E {
	span := h.span(id)
	start, end := span.Bounds()
	n := len(h.objects)

	removed := make([]E, span.Count)
	copy(removed, h.owners[start:end])

	// The subtree leaves its ancestors' accounting.
	for _, a := range h.ancestors[id] {
		h.spans[a].Count -= span.Count
	}
	for _, o := range h.objects[start:end] {
		h.spans[o] = Span{}
		h.ancestors[o] = h.ancestors[o][:0]
	}
	for _, o := range h.objects[end:] {
		h.spans[o].Index -= span.Count
	}

	copy(h.objects[start:], h.objects[end:])
	h.objects = h.objects[:n-int(span.Count)]

	// Clear the vacated tail so removed owners are not retained.
	copy(h.owners[start:], h.owners[end:])
	clear(h.owners[n-int(span.Count) : n])
	h.owners = h.owners[:n-int(span.Count)]

	for _, b := range h.bitsets() {
		removeBits(b, start, end, n)
	}

	if h.debug {
		h.debugValidate("Remove")
	}
	return removed
}

// --- Reparenting ---

// SetParent makes id the last child of parent, moving id's whole subtree in
// the order array. Passing NoObject makes id the last root. Setting the
// current parent again leaves the order untouched.
//
// The subtree is marked dirty and its active flags are recomputed against
// the new ancestor chain. Returns ErrCycle, without modifying anything, if
// parent is id or one of its descendants.
func (h *Hierarchy[E]) SetParent(id, parent ObjectID) error {
	span := h.span(id)
	if parent != NoObject && span.Contains(h.span(parent).Index) {
		return fmt.Errorf("%w: %d cannot be parented to %d", ErrCycle, id, parent)
	}

	h.MarkDirty(id)

	if old, _ := h.Parent(id); old == parent {
		h.propagateActive(id)
		return nil
	}

	// The destination is the new parent's physical end, read before counts
	// change, so a parent that currently contains the subtree is measured
	// with it.
	dest := uint32(len(h.objects))
	if parent != NoObject {
		dest = h.spans[parent].End()
	}

	oldChain := h.ancestors[id]
	for _, a := range oldChain {
		h.spans[a].Count -= span.Count
	}

	// Every object in the subtree shares the old chain as its suffix.
	depth := len(oldChain)
	start, end := span.Bounds()
	for _, o := range h.objects[start:end] {
		chain := h.ancestors[o]
		h.ancestors[o] = chain[:len(chain)-depth]
	}

	if parent != NoObject {
		newChain := h.ancestors[parent]
		for _, o := range h.objects[start:end] {
			chain := append(h.ancestors[o], parent)
			h.ancestors[o] = append(chain, newChain...)
		}
		h.spans[parent].Count += span.Count
		for _, a := range newChain {
			h.spans[a].Count += span.Count
		}
	}

	h.moveBlock(span.Index, span.End(), dest)

	h.MarkDirty(id)
	h.propagateActive(id)

	if h.debug {
		h.debugCheckReparent(id, parent)
		h.debugValidate("SetParent")
	}
	return nil
}

// moveBlock relocates the block [start, end) so that it begins at dest when
// dest < start, or ends at dest when dest > end. Spans of the moved block
// shift by the block offset and spans of the crossed gap shift by the block
// size in the opposite direction.
func (h *Hierarchy[E]) moveBlock(start, end, dest uint32) {
	count := end - start
	switch {
	case dest < start:
		offset := start - dest
		for _, o := range h.objects[start:end] {
			h.spans[o].Index -= offset
		}
		for _, o := range h.objects[dest:start] {
			h.spans[o].Index += count
		}
		h.rotate(int(dest), int(start), int(end))
	case dest > end:
		offset := dest - end
		for _, o := range h.objects[start:end] {
			h.spans[o].Index += offset
		}
		for _, o := range h.objects[end:dest] {
			h.spans[o].Index -= count
		}
		h.rotate(int(start), int(end), int(dest))
	}
}

// rotate swaps [left, mid) and [mid, right) in every position-aligned array.
func (h *Hierarchy[E]) rotate(left, mid, right int) {
	h.scratchIDs = rotateSlice(h.objects, left, mid, right, h.scratchIDs)
	h.scratchOwners = rotateSlice(h.owners, left, mid, right, h.scratchOwners)
	for _, b := range h.bitsets() {
		rotateBits(b, h.scratchBits, left, mid, right)
	}
}

// bitsets returns the position-aligned bit vectors.
func (h *Hierarchy[E]) bitsets() [4]*bitset.BitSet {
	return [4]*bitset.BitSet{h.dirty, h.frameDirty, h.active, h.enabled}
}
