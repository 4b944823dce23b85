package arbor

// SetEnabled sets id's own enabled flag and recomputes the active flag of
// id and its whole subtree. An object is active when it and all of its
// ancestors are enabled.
func (h *Hierarchy[E]) SetEnabled(id ObjectID, enabled bool) {
	h.enabled.SetTo(uint(h.span(id).Index), enabled)
	h.propagateActive(id)
}

// propagateActive recomputes the active flags over id's span top-down. It
// relies on the pre-order layout: every object's parent sits at an earlier
// position inside the span, so its flag is final by the time the child is
// visited.
func (h *Hierarchy[E]) propagateActive(id ObjectID) {
	span := h.spans[id]
	start, end := span.Bounds()

	parentActive := true
	if chain := h.ancestors[id]; len(chain) > 0 {
		parentActive = h.active.Test(uint(h.spans[chain[0]].Index))
	}
	if !parentActive || !h.enabled.Test(uint(start)) {
		fillBits(h.active, start, end, false)
		return
	}

	flags := h.scratchBits
	flags.ClearAll()
	flags.Set(0)
	for pos := start + 1; pos < end; pos++ {
		parent := h.ancestors[h.objects[pos]][0]
		rel := h.spans[parent].Index - span.Index
		flags.SetTo(uint(pos-start), flags.Test(uint(rel)) && h.enabled.Test(uint(pos)))
	}
	copyBits(h.active, start, flags, 0, end-start)
}
