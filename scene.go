package arbor

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scene is a YAML description of one or more object trees:
//
//	objects:
//	  - name: ship
//	    transform: {x: 100, y: 50}
//	    children:
//	      - name: turret
//	        enabled: false
type Scene struct {
	Objects []SceneNode `yaml:"objects"`
}

// SceneNode describes one object and its children. Omitted transforms are
// identity and omitted enabled flags are true.
type SceneNode struct {
	Name      string      `yaml:"name"`
	Enabled   *bool       `yaml:"enabled"`
	Transform Transform   `yaml:"transform"`
	Children  []SceneNode `yaml:"children"`
}

// UnmarshalYAML decodes a node, defaulting its transform to identity.
func (n *SceneNode) UnmarshalYAML(value *yaml.Node) error {
	type plain SceneNode
	p := plain{Transform: IdentityTransform()}
	if err := value.Decode(&p); err != nil {
		return err
	}
	*n = SceneNode(p)
	return nil
}

// LoadScene parses YAML scene data.
func LoadScene(data []byte) (*Scene, error) {
	var s Scene
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	if len(s.Objects) == 0 {
		return nil, fmt.Errorf("parse scene: no objects")
	}
	return &s, nil
}

// LoadSceneFile reads and parses a YAML scene file.
func LoadSceneFile(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene %s: %w", path, err)
	}
	return LoadScene(data)
}

// SceneObjects is the result of BuildScene.
type SceneObjects struct {
	IDs        []ObjectID // pre-order, scene roots first in file order
	Roots      []ObjectID
	Transforms map[ObjectID]*Transform
}

// Transform returns the built transform of id, or nil.
func (o *SceneObjects) Transform(id ObjectID) *Transform {
	return o.Transforms[id]
}

// SceneLocal returns a LocalFunc reading the transforms created by
// BuildScene.
func SceneLocal[E any](objs *SceneObjects) LocalFunc[E] {
	return func(id ObjectID, _ E) (Transform, bool) {
		t, ok := objs.Transforms[id]
		if !ok {
			return Transform{}, false
		}
		return *t, true
	}
}

// BuildScene instantiates scene into h. Scene roots become children of
// parent, or roots when parent is NoObject. ids allocates every object id;
// names, when non-nil, receives every non-empty node name. spawn, when
// non-nil, creates the owner reference stored for each object.
func BuildScene[E any](h *Hierarchy[E], ids *Allocator, names *NameRegistry, scene *Scene, parent ObjectID, spawn func(id ObjectID, node *SceneNode) E) (*SceneObjects, error) {
	out := &SceneObjects{Transforms: make(map[ObjectID]*Transform)}

	var build func(node *SceneNode, parent ObjectID) error
	build = func(node *SceneNode, parent ObjectID) error {
		id := ids.Alloc()
		var owner E
		if spawn != nil {
			owner = spawn(id, node)
		}
		h.Insert(id, owner)
		if parent != NoObject {
			if err := h.SetParent(id, parent); err != nil {
				return fmt.Errorf("build scene object %q: %w", node.Name, err)
			}
		}
		if node.Enabled != nil && !*node.Enabled {
			h.SetEnabled(id, false)
		}
		if names != nil {
			names.SetName(id, node.Name)
		}
		t := node.Transform
		out.Transforms[id] = &t
		out.IDs = append(out.IDs, id)

		for i := range node.Children {
			if err := build(&node.Children[i], id); err != nil {
				return err
			}
		}
		return nil
	}

	for i := range scene.Objects {
		before := len(out.IDs)
		if err := build(&scene.Objects[i], parent); err != nil {
			return nil, err
		}
		out.Roots = append(out.Roots, out.IDs[before])
	}
	return out, nil
}
