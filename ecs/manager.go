package ecs

import (
	"fmt"

	"github.com/phanxgames/arbor"

	"github.com/yohamta/donburi"
	"go.uber.org/zap"
)

// Manager keeps an arbor hierarchy and a Donburi world in step. Objects are
// created, removed and reparented through the Manager so that entities, ids
// and names never drift apart.
type Manager struct {
	world     donburi.World
	hierarchy *arbor.Hierarchy[donburi.Entity]
	ids       *arbor.Allocator
	names     *arbor.NameRegistry
	log       *zap.Logger
}

// NewManager creates a Manager over world. A nil cfg uses
// arbor.DefaultConfig and a nil log discards output.
func NewManager(world donburi.World, cfg *arbor.Config, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	m := &Manager{
		world:     world,
		hierarchy: arbor.New[donburi.Entity](cfg),
		ids:       arbor.NewAllocator(),
		names:     arbor.NewNameRegistry(),
		log:       log.Named("ecs"),
	}
	m.hierarchy.SetLogger(m.log)
	return m
}

// World returns the Donburi world.
func (m *Manager) World() donburi.World { return m.world }

// Hierarchy returns the underlying hierarchy. Structural changes made on it
// directly bypass entity bookkeeping and events.
func (m *Manager) Hierarchy() *arbor.Hierarchy[donburi.Entity] { return m.hierarchy }

// Names returns the name registry.
func (m *Manager) Names() *arbor.NameRegistry { return m.names }

// Create spawns an entity with Object and Transform components and inserts
// it as a new root. A nil t starts from the identity transform.
func (m *Manager) Create(name string, t *arbor.Transform) (arbor.ObjectID, donburi.Entity) {
	id := m.ids.Alloc()
	e := m.world.Create(ObjectComponent, TransformComponent)
	entry := m.world.Entry(e)
	ObjectComponent.SetValue(entry, Object{ID: id})
	local := arbor.IdentityTransform()
	if t != nil {
		local = *t
	}
	TransformComponent.SetValue(entry, local)

	m.hierarchy.Insert(id, e)
	m.names.SetName(id, name)
	m.log.Debug("created", zap.Uint32("id", uint32(id)), zap.String("name", name))
	HierarchyEventType.Publish(m.world, HierarchyEvent{Kind: EventCreated, Object: id, Entity: e})
	return id, e
}

// Entity returns the entity backing id.
func (m *Manager) Entity(id arbor.ObjectID) donburi.Entity {
	return m.hierarchy.Owner(id)
}

// ObjectOf returns the hierarchy id stored on e.
func (m *Manager) ObjectOf(e donburi.Entity) (arbor.ObjectID, bool) {
	if !m.world.Valid(e) {
		return arbor.NoObject, false
	}
	entry := m.world.Entry(e)
	if !entry.HasComponent(ObjectComponent) {
		return arbor.NoObject, false
	}
	id := ObjectComponent.Get(entry).ID
	return id, m.hierarchy.Contains(id)
}

// Transform returns a pointer to id's local transform component. Call
// MarkDirty (or use SetTransform) after changing it.
func (m *Manager) Transform(id arbor.ObjectID) *arbor.Transform {
	return TransformComponent.Get(m.world.Entry(m.Entity(id)))
}

// SetTransform replaces id's local transform and marks its subtree dirty.
func (m *Manager) SetTransform(id arbor.ObjectID, t arbor.Transform) {
	TransformComponent.SetValue(m.world.Entry(m.Entity(id)), t)
	m.hierarchy.MarkDirty(id)
}

// MarkDirty marks id's subtree for a world matrix refresh.
func (m *Manager) MarkDirty(id arbor.ObjectID) {
	m.hierarchy.MarkDirty(id)
}

// Remove removes id with its whole subtree and destroys every backing
// entity. Their ids return to the allocator and their names are forgotten.
func (m *Manager) Remove(id arbor.ObjectID) {
	subtree := m.hierarchy.ObjectAndDescendants(id)
	ids := make([]arbor.ObjectID, len(subtree))
	copy(ids, subtree)

	entities := m.hierarchy.Remove(id)
	for i, e := range entities {
		oid := ids[i]
		m.names.Forget(oid)
		m.ids.Release(oid)
		HierarchyEventType.Publish(m.world, HierarchyEvent{Kind: EventRemoved, Object: oid, Entity: e})
		if m.world.Valid(e) {
			m.world.Remove(e)
		}
	}
	m.log.Debug("removed", zap.Uint32("id", uint32(id)), zap.Int("count", len(entities)))
}

// SetParent moves id under parent (NoObject for a root).
func (m *Manager) SetParent(id, parent arbor.ObjectID) error {
	if err := m.hierarchy.SetParent(id, parent); err != nil {
		return fmt.Errorf("ecs: set parent of %d: %w", id, err)
	}
	HierarchyEventType.Publish(m.world, HierarchyEvent{
		Kind:   EventReparented,
		Object: id,
		Entity: m.hierarchy.Owner(id),
		Parent: parent,
	})
	return nil
}

// SetEnabled sets id's own enabled flag.
func (m *Manager) SetEnabled(id arbor.ObjectID, enabled bool) {
	m.hierarchy.SetEnabled(id, enabled)
	kind := EventDisabled
	if enabled {
		kind = EventEnabled
	}
	HierarchyEventType.Publish(m.world, HierarchyEvent{Kind: kind, Object: id, Entity: m.hierarchy.Owner(id)})
}

// Find returns the lowest live id named name.
func (m *Manager) Find(name string) (arbor.ObjectID, bool) {
	return m.names.Find(name)
}

// FindAll returns every id named name in ascending order.
func (m *Manager) FindAll(name string) []arbor.ObjectID {
	return m.names.FindAll(name)
}

// Tick snapshots the frame's dirty set and refreshes world matrices from
// the Transform components. Events are not processed here; call
// HierarchyEventType.ProcessEvents from your own systems.
func (m *Manager) Tick() {
	m.hierarchy.SnapshotFrame()
	m.hierarchy.RefreshMatrices(m.local)
}

func (m *Manager) local(_ arbor.ObjectID, e donburi.Entity) (arbor.Transform, bool) {
	if !m.world.Valid(e) {
		return arbor.Transform{}, false
	}
	entry := m.world.Entry(e)
	if !entry.HasComponent(TransformComponent) {
		return arbor.Transform{}, false
	}
	return *TransformComponent.Get(entry), true
}
