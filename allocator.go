package arbor

import "math"

// Allocator hands out ObjectIDs from a free list. Released ids are reused
// most-recently-released first; fresh ids start at 1 and wrap back to 1
// after math.MaxUint32. The hierarchy never allocates ids itself.
type Allocator struct {
	next  ObjectID
	freed []ObjectID
}

// NewAllocator creates an allocator whose first id is 1.
func NewAllocator() *Allocator {
	return &Allocator{next: 1, freed: make([]ObjectID, 0, 1024)}
}

// Alloc returns an unused id.
func (a *Allocator) Alloc() ObjectID {
	if n := len(a.freed); n > 0 {
		id := a.freed[n-1]
		a.freed = a.freed[:n-1]
		return id
	}
	if a.next == NoObject {
		a.next = 1
	}
	id := a.next
	if a.next == math.MaxUint32 {
		a.next = 1
	} else {
		a.next++
	}
	return id
}

// Release returns id to the free list.
func (a *Allocator) Release(id ObjectID) {
	if id == NoObject {
		return
	}
	a.freed = append(a.freed, id)
}
