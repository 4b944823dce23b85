package arbor

import (
	"fmt"
	"slices"
)

// Validate checks every structural invariant of the hierarchy and returns
// the first violation found:
//
//   - each object's span starts at its own position and stays in bounds
//   - each span is exactly the object followed by its children's spans
//   - the roots' spans tile the whole order array
//   - each ancestor chain is the parent followed by the parent's chain
//   - active == enabled && parent active
//
// Validate is O(n × depth) and meant for tests and debug mode.
func (h *Hierarchy[E]) Validate() error {
	n := len(h.objects)
	if len(h.owners) != n {
		return fmt.Errorf("arbor: %d owners for %d objects", len(h.owners), n)
	}

	live := 0
	for id := 1; id < len(h.spans); id++ {
		if h.spans[id].Count != 0 {
			live++
		}
	}
	if live != n {
		return fmt.Errorf("arbor: %d live spans for %d objects", live, n)
	}

	for pos, id := range h.objects {
		if !h.Contains(id) {
			return fmt.Errorf("arbor: position %d holds unknown object %d", pos, id)
		}
		s := h.spans[id]
		if int(s.Index) != pos {
			return fmt.Errorf("arbor: object %d at position %d has span %v", id, pos, s)
		}
		if int(s.End()) > n {
			return fmt.Errorf("arbor: object %d span %v exceeds length %d", id, s, n)
		}

		// Children tile the rest of the span exactly.
		next := s.Index + 1
		for next < s.End() {
			child := h.objects[next]
			if p, ok := h.Parent(child); !ok || p != id {
				return fmt.Errorf("arbor: object %d at position %d inside span of %d is not its child", child, next, id)
			}
			next += h.spans[child].Count
		}
		if next != s.End() {
			return fmt.Errorf("arbor: children of %d overrun its span %v", id, s)
		}

		chain := h.ancestors[id]
		if len(chain) == 0 {
			if !h.activeMatches(pos, true) {
				return fmt.Errorf("arbor: root %d active flag is stale", id)
			}
			continue
		}
		parent := chain[0]
		if !h.Contains(parent) || !h.spans[parent].Contains(uint32(pos)) || int(h.spans[parent].Index) >= pos {
			return fmt.Errorf("arbor: object %d at position %d is outside parent %d span", id, pos, parent)
		}
		if !slices.Equal(chain[1:], h.ancestors[parent]) {
			return fmt.Errorf("arbor: ancestor chain of %d %v does not extend parent chain %v", id, chain, h.ancestors[parent])
		}
		if !h.activeMatches(pos, h.active.Test(uint(h.spans[parent].Index))) {
			return fmt.Errorf("arbor: object %d active flag is stale", id)
		}
	}

	next := 0
	for next < n {
		root := h.objects[next]
		if len(h.ancestors[root]) != 0 {
			return fmt.Errorf("arbor: object %d at root position %d has ancestors %v", root, next, h.ancestors[root])
		}
		next += int(h.spans[root].Count)
	}
	return nil
}

func (h *Hierarchy[E]) activeMatches(pos int, parentActive bool) bool {
	want := parentActive && h.enabled.Test(uint(pos))
	return h.active.Test(uint(pos)) == want
}
