package arbor

import "slices"

// NameRegistry maps objects to names and names back to every object that
// carries them. Names are not unique.
type NameRegistry struct {
	names map[ObjectID]string
	ids   map[string]map[ObjectID]struct{}
}

// NewNameRegistry creates an empty registry.
func NewNameRegistry() *NameRegistry {
	return &NameRegistry{
		names: make(map[ObjectID]string),
		ids:   make(map[string]map[ObjectID]struct{}),
	}
}

// SetName names id, replacing any previous name. An empty name clears it.
func (r *NameRegistry) SetName(id ObjectID, name string) {
	r.Forget(id)
	if name == "" {
		return
	}
	r.names[id] = name
	set, ok := r.ids[name]
	if !ok {
		set = make(map[ObjectID]struct{})
		r.ids[name] = set
	}
	set[id] = struct{}{}
}

// Name returns id's name.
func (r *NameRegistry) Name(id ObjectID) (string, bool) {
	name, ok := r.names[id]
	return name, ok
}

// Find returns the lowest id carrying name.
func (r *NameRegistry) Find(name string) (ObjectID, bool) {
	found := NoObject
	for id := range r.ids[name] {
		if found == NoObject || id < found {
			found = id
		}
	}
	return found, found != NoObject
}

// FindAll returns every id carrying name in ascending order.
func (r *NameRegistry) FindAll(name string) []ObjectID {
	set := r.ids[name]
	if len(set) == 0 {
		return nil
	}
	out := make([]ObjectID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Forget removes id's name, if any.
func (r *NameRegistry) Forget(id ObjectID) {
	name, ok := r.names[id]
	if !ok {
		return
	}
	delete(r.names, id)
	if set := r.ids[name]; set != nil {
		delete(set, id)
		if len(set) == 0 {
			delete(r.ids, name)
		}
	}
}

// Len returns the number of named objects.
func (r *NameRegistry) Len() int {
	return len(r.names)
}
