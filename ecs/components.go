package ecs

import (
	"github.com/phanxgames/arbor"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// Object links an entity to its hierarchy object.
type Object struct {
	ID arbor.ObjectID
}

var (
	// ObjectComponent stores the hierarchy id of an entity.
	ObjectComponent = donburi.NewComponentType[Object]()
	// TransformComponent stores an entity's local transform.
	TransformComponent = donburi.NewComponentType[arbor.Transform](arbor.IdentityTransform())
)

// EventKind identifies a hierarchy change.
type EventKind uint8

const (
	EventCreated    EventKind = iota // object inserted as a root
	EventRemoved                     // object removed (once per object of a removed subtree)
	EventReparented                  // object moved under a new parent (or made a root)
	EventEnabled                     // object's own enabled flag set
	EventDisabled                    // object's own enabled flag cleared
)

// HierarchyEvent describes one change made through a Manager.
type HierarchyEvent struct {
	Kind   EventKind
	Object arbor.ObjectID
	Entity donburi.Entity
	Parent arbor.ObjectID // new parent for EventReparented, NoObject for roots
}

// HierarchyEventType is the Donburi event type for hierarchy changes.
var HierarchyEventType = events.NewEventType[HierarchyEvent]()
