package arbor

import (
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

// scriptStep is a single operation in a hierarchy script.
type scriptStep struct {
	Op     string   `yaml:"op"`
	Object string   `yaml:"object,omitempty"`
	Parent string   `yaml:"parent,omitempty"`
	Order  []string `yaml:"order,omitempty"`
	Value  *bool    `yaml:"value,omitempty"`
}

// Script is a parsed sequence of hierarchy operations addressed by name:
//
//	steps:
//	  - {op: insert, object: a}
//	  - {op: insert, object: b}
//	  - {op: parent, object: b, parent: a}
//	  - {op: expect_order, order: [a, b]}
//
// Supported ops: insert, remove, parent (empty parent makes a root),
// enable, disable, dirty, snapshot, refresh, expect_order, expect_active,
// expect_parent.
type Script struct {
	Steps []scriptStep `yaml:"steps"`
}

// LoadScript parses a YAML hierarchy script.
func LoadScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	return &s, nil
}

// ScriptRunner replays a Script against a hierarchy one step at a time.
type ScriptRunner[E any] struct {
	h      *Hierarchy[E]
	ids    *Allocator
	byName map[string]ObjectID
	names  map[ObjectID]string
	steps  []scriptStep
	cursor int

	// Spawn creates the owner stored for inserted objects. Optional.
	Spawn func(id ObjectID, name string) E
	// Local supplies transforms for refresh steps. Optional.
	Local LocalFunc[E]
}

// NewScriptRunner creates a runner for s over h. Object ids come from ids.
func NewScriptRunner[E any](h *Hierarchy[E], ids *Allocator, s *Script) *ScriptRunner[E] {
	return &ScriptRunner[E]{
		h:      h,
		ids:    ids,
		byName: make(map[string]ObjectID),
		names:  make(map[ObjectID]string),
		steps:  s.Steps,
	}
}

// Done reports whether every step has been executed.
func (r *ScriptRunner[E]) Done() bool {
	return r.cursor >= len(r.steps)
}

// ID returns the object id bound to name by an insert step.
func (r *ScriptRunner[E]) ID(name string) (ObjectID, bool) {
	id, ok := r.byName[name]
	return id, ok
}

// Run executes all remaining steps, stopping at the first failure.
func (r *ScriptRunner[E]) Run() error {
	for !r.Done() {
		if err := r.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Step executes the next step.
func (r *ScriptRunner[E]) Step() error {
	if r.Done() {
		return nil
	}
	st := r.steps[r.cursor]
	r.cursor++
	if err := r.exec(st); err != nil {
		return fmt.Errorf("script step %d (%s): %w", r.cursor, st.Op, err)
	}
	return nil
}

func (r *ScriptRunner[E]) exec(st scriptStep) error {
	switch st.Op {
	case "insert":
		if _, ok := r.byName[st.Object]; ok || st.Object == "" {
			return fmt.Errorf("object name %q is empty or already bound", st.Object)
		}
		id := r.ids.Alloc()
		var owner E
		if r.Spawn != nil {
			owner = r.Spawn(id, st.Object)
		}
		r.h.Insert(id, owner)
		r.byName[st.Object] = id
		r.names[id] = st.Object
	case "remove":
		id, err := r.lookup(st.Object)
		if err != nil {
			return err
		}
		removed := slices.Clone(r.h.ObjectAndDescendants(id))
		r.h.Remove(id)
		for _, o := range removed {
			delete(r.byName, r.names[o])
			delete(r.names, o)
			r.ids.Release(o)
		}
	case "parent":
		id, err := r.lookup(st.Object)
		if err != nil {
			return err
		}
		parent := NoObject
		if st.Parent != "" {
			if parent, err = r.lookup(st.Parent); err != nil {
				return err
			}
		}
		return r.h.SetParent(id, parent)
	case "enable", "disable":
		id, err := r.lookup(st.Object)
		if err != nil {
			return err
		}
		r.h.SetEnabled(id, st.Op == "enable")
	case "dirty":
		id, err := r.lookup(st.Object)
		if err != nil {
			return err
		}
		r.h.MarkDirty(id)
	case "snapshot":
		r.h.SnapshotFrame()
	case "refresh":
		r.h.SnapshotFrame()
		r.h.RefreshMatrices(r.Local)
	case "expect_order":
		got := make([]string, 0, r.h.Len())
		for _, id := range r.h.Objects() {
			got = append(got, r.names[id])
		}
		if !slices.Equal(got, st.Order) {
			return fmt.Errorf("order = %v, want %v", got, st.Order)
		}
	case "expect_active":
		id, err := r.lookup(st.Object)
		if err != nil {
			return err
		}
		want := st.Value == nil || *st.Value
		if got := r.h.IsActive(id); got != want {
			return fmt.Errorf("active(%s) = %v, want %v", st.Object, got, want)
		}
	case "expect_parent":
		id, err := r.lookup(st.Object)
		if err != nil {
			return err
		}
		p, _ := r.h.Parent(id)
		if got := r.names[p]; got != st.Parent {
			return fmt.Errorf("parent(%s) = %q, want %q", st.Object, got, st.Parent)
		}
	default:
		return fmt.Errorf("unknown op %q", st.Op)
	}
	return nil
}

func (r *ScriptRunner[E]) lookup(name string) (ObjectID, error) {
	id, ok := r.byName[name]
	if !ok {
		return NoObject, fmt.Errorf("%w: %q", ErrUnknownObject, name)
	}
	return id, nil
}
