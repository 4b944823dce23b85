package arbor

import "github.com/hajimehoshi/ebiten/v2"

// LocalFunc supplies the local transform of an object during
// RefreshMatrices. ok == false means the object has no transform and is
// treated as identity.
type LocalFunc[E any] func(id ObjectID, owner E) (t Transform, ok bool)

// RefreshMatrices recomputes the cached world matrix of every dirty object
// in one linear pass over the order array, then clears all dirty flags.
//
// world = local × parentWorld. Parents precede children in the order array,
// so a dirty parent is always refreshed before its children read it. Clean
// objects are skipped entirely.
func (h *Hierarchy[E]) RefreshMatrices(local LocalFunc[E]) {
	n := uint(len(h.objects))
	for pos, ok := h.dirty.NextSet(0); ok && pos < n; pos, ok = h.dirty.NextSet(pos + 1) {
		id := h.objects[pos]

		var m ebiten.GeoM
		if local != nil {
			if t, ok := local(id, h.owners[pos]); ok {
				m = t.Matrix()
			}
		}
		if chain := h.ancestors[id]; len(chain) > 0 {
			m.Concat(h.matrices[chain[0]])
		}
		h.matrices[id] = m
	}
	h.ClearDirty()
}

// WorldMatrix returns the cached world matrix of id. The value is stale if
// id was dirtied since the last RefreshMatrices.
func (h *Hierarchy[E]) WorldMatrix(id ObjectID) ebiten.GeoM {
	h.span(id)
	return h.matrices[id]
}

// LocalToWorld converts a point in id's local space to world space.
func (h *Hierarchy[E]) LocalToWorld(id ObjectID, lx, ly float64) (wx, wy float64) {
	m := h.WorldMatrix(id)
	return m.Apply(lx, ly)
}

// WorldToLocal converts a world-space point to id's local space. A
// singular world matrix leaves the point unchanged.
func (h *Hierarchy[E]) WorldToLocal(id ObjectID, wx, wy float64) (lx, ly float64) {
	m := h.WorldMatrix(id)
	if !m.IsInvertible() {
		return wx, wy
	}
	m.Invert()
	return m.Apply(wx, wy)
}
