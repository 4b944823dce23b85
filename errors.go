package arbor

import "errors"

var (
	// ErrCycle is returned by SetParent when the new parent is the object
	// itself or one of its descendants.
	ErrCycle = errors.New("arbor: reparent would create a cycle")

	// ErrUnknownObject is returned by name-based lookups (scenes, scripts)
	// that reference an object that does not exist.
	ErrUnknownObject = errors.New("arbor: unknown object")
)
