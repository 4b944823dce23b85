// Package ecs backs arbor hierarchy objects with [Donburi] entities.
//
// [Manager] owns a hierarchy whose owner references are donburi entities,
// an id allocator and a name registry. Every object it creates is an entity
// carrying an [Object] component (its hierarchy id) and a [TransformComponent]
// holding its local transform. [Manager.Tick] refreshes world matrices from
// those components.
//
// Usage:
//
//	world := donburi.NewWorld()
//	mgr := ecs.NewManager(world, nil, logger)
//	ship, _ := mgr.Create("ship", nil)
//	turret, _ := mgr.Create("turret", &arbor.Transform{X: 8, ScaleX: 1, ScaleY: 1})
//	_ = mgr.SetParent(turret, ship)
//	mgr.Tick()
//
// Structural changes are published as [HierarchyEvent]s; subscribe to
// [HierarchyEventType] in your systems to receive them.
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
