package arbor

import "iter"

// SiblingIter walks the direct children of one parent without materializing
// a child list. Each step skips exactly one child's subtree by adding that
// child's span count, so a full walk costs O(children) time and no memory.
//
// The iterator reads the hierarchy directly; any structural mutation
// invalidates it.
type SiblingIter[E any] struct {
	h    *Hierarchy[E]
	next uint32
	end  uint32
}

// Next returns the next sibling. ok is false once the walk is exhausted.
func (it *SiblingIter[E]) Next() (id ObjectID, ok bool) {
	if it.next >= it.end {
		return NoObject, false
	}
	id = it.h.objects[it.next]
	it.next += it.h.spans[id].Count
	return id, true
}

// ChildIter returns an iterator over the direct children of id, in order.
func (h *Hierarchy[E]) ChildIter(id ObjectID) SiblingIter[E] {
	s := h.span(id)
	return SiblingIter[E]{h: h, next: s.Index + 1, end: s.End()}
}

// RootIter returns an iterator over every root, in order. The order array is
// the concatenation of the root spans, so roots are walked the same way as
// children.
func (h *Hierarchy[E]) RootIter() SiblingIter[E] {
	return SiblingIter[E]{h: h, end: uint32(len(h.objects))}
}

// SiblingIter returns an iterator over id and all of its siblings, starting
// from the first child of id's parent. For a root, the siblings are the
// other roots.
func (h *Hierarchy[E]) SiblingIter(id ObjectID) SiblingIter[E] {
	if parent, ok := h.Parent(id); ok {
		return h.ChildIter(parent)
	}
	return h.RootIter()
}

// Children yields the direct children of id.
func (h *Hierarchy[E]) Children(id ObjectID) iter.Seq[ObjectID] {
	return seq(h.ChildIter(id))
}

// Siblings yields id and its siblings in order.
func (h *Hierarchy[E]) Siblings(id ObjectID) iter.Seq[ObjectID] {
	return seq(h.SiblingIter(id))
}

// Roots yields every root object in order.
func (h *Hierarchy[E]) Roots() iter.Seq[ObjectID] {
	return seq(h.RootIter())
}

// ChildCount returns the number of direct children of id.
func (h *Hierarchy[E]) ChildCount(id ObjectID) int {
	n := 0
	it := h.ChildIter(id)
	for _, ok := it.Next(); ok; _, ok = it.Next() {
		n++
	}
	return n
}

func seq[E any](it SiblingIter[E]) iter.Seq[ObjectID] {
	return func(yield func(ObjectID) bool) {
		for id, ok := it.Next(); ok; id, ok = it.Next() {
			if !yield(id) {
				return
			}
		}
	}
}
