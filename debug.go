package arbor

import (
	"fmt"

	"go.uber.org/zap"
)

const (
	defaultMaxTreeDepth  = 32
	defaultMaxChildCount = 1000
)

// SetLogger sets the logger used for debug warnings. nil restores the no-op
// logger.
func (h *Hierarchy[E]) SetLogger(log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	h.log = log
}

// Logger returns the hierarchy's logger.
func (h *Hierarchy[E]) Logger() *zap.Logger {
	return h.log
}

// SetDebugMode enables or disables debug mode. When enabled, every
// structural mutation is followed by a full Validate (panicking on failure)
// and reparenting warns about very deep trees and very wide nodes.
func (h *Hierarchy[E]) SetDebugMode(enabled bool) {
	h.debug = enabled
}

// DebugMode reports whether debug mode is enabled.
func (h *Hierarchy[E]) DebugMode() bool {
	return h.debug
}

// debugValidate panics with the first broken invariant after op.
func (h *Hierarchy[E]) debugValidate(op string) {
	if err := h.Validate(); err != nil {
		panic(fmt.Sprintf("arbor debug: %s left the hierarchy inconsistent: %v", op, err))
	}
}

// debugCheckReparent warns when the moved subtree ends up deeper than the
// configured threshold or the new parent has too many children.
func (h *Hierarchy[E]) debugCheckReparent(id, parent ObjectID) {
	if h.maxTreeDepth > 0 {
		deepest := 0
		for _, o := range h.ObjectAndDescendants(id) {
			if d := len(h.ancestors[o]) + 1; d > deepest {
				deepest = d
			}
		}
		if deepest > h.maxTreeDepth {
			h.log.Warn("tree depth exceeds threshold",
				zap.Uint32("object", uint32(id)),
				zap.Int("depth", deepest),
				zap.Int("threshold", h.maxTreeDepth))
		}
	}
	if parent != NoObject && h.maxChildCount > 0 {
		if n := h.ChildCount(parent); n > h.maxChildCount {
			h.log.Warn("child count exceeds threshold",
				zap.Uint32("object", uint32(parent)),
				zap.Int("children", n),
				zap.Int("threshold", h.maxChildCount))
		}
	}
}
