// Package arbor is a flat-array scene hierarchy for [Ebitengine] games.
//
// Arbor stores a forest of objects as one array in pre-order: every object
// precedes its descendants, and an object plus its descendants occupy one
// contiguous [Span]. On top of that array it keeps dirty flags, cascading
// enabled/active flags and cached world matrices consistent with every
// structural change, touching only the affected subtree.
//
// # Quick start
//
//	h := arbor.New[*Sprite](nil)
//	ids := arbor.NewAllocator()
//
//	ship, turret := ids.Alloc(), ids.Alloc()
//	h.Insert(ship, shipSprite)
//	h.Insert(turret, turretSprite)
//	if err := h.SetParent(turret, ship); err != nil {
//		// turret cannot be parented under its own subtree
//	}
//
// Once per tick, after all mutations:
//
//	h.SnapshotFrame()
//	h.RefreshMatrices(func(id arbor.ObjectID, s *Sprite) (arbor.Transform, bool) {
//		return s.Transform, true
//	})
//
// and consumers read [Hierarchy.WorldMatrix] and [Hierarchy.IsActive].
//
// # Ordering
//
// [Hierarchy.SetParent] moves the whole subtree to become the new parent's
// last child (or the last root), using a block rotation that copies only the
// smaller of the two swapped regions. Every position-aligned array (owners,
// dirty, frame-dirty, active, enabled) moves through the same rotation.
// Children and siblings are walked without allocating by stepping over each
// child's span ([Hierarchy.ChildIter], [Hierarchy.Children]).
//
// # Concurrency
//
// A Hierarchy is single-threaded. The caller owns it and serializes every
// read and write; there is no internal locking and no global instance.
//
// # Integrations
//
// Subpackage ecs backs objects with [Donburi] entities, and subpackage
// scripting exposes a hierarchy to Lua via [gopher-lua]. Transforms can be
// animated with [gween] tweens and scenes can be loaded from YAML.
//
// [Ebitengine]: https://ebitengine.org
// [Donburi]: https://github.com/yohamta/donburi
// [gopher-lua]: https://github.com/yuin/gopher-lua
// [gween]: https://github.com/tanema/gween
package arbor
