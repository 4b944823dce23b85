package arbor

// MarkDirty marks id and every descendant as needing a world matrix
// recompute. Dirtiness is pushed down eagerly, so RefreshMatrices never has
// to look at ancestors to decide what to recompute.
func (h *Hierarchy[E]) MarkDirty(id ObjectID) {
	start, end := h.span(id).Bounds()
	fillBits(h.dirty, start, end, true)
}

// SnapshotFrame copies the accumulated dirty flags into the current-frame
// flags read by IsFrameDirty. Call it once per tick, before RefreshMatrices.
func (h *Hierarchy[E]) SnapshotFrame() {
	h.dirty.CopyFull(h.frameDirty)
}

// ClearDirty resets every accumulated dirty flag. RefreshMatrices calls it
// at the end of its pass.
func (h *Hierarchy[E]) ClearDirty() {
	h.dirty.ClearAll()
}

// DirtyCount returns the number of objects whose world matrix is stale.
func (h *Hierarchy[E]) DirtyCount() int {
	return int(h.dirty.Count())
}
