package arbor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSceneYAML = `
objects:
  - name: ship
    transform: {x: 100, y: 50}
    children:
      - name: turret
        transform: {x: 8, rotation: 1.5707963267948966}
        children:
          - name: barrel
            transform: {x: 4}
      - name: shield
        enabled: false
  - name: moon
    transform: {scale_x: 2, scale_y: 2}
`

func TestLoadScene(t *testing.T) {
	s, err := LoadScene([]byte(testSceneYAML))
	require.NoError(t, err)

	require.Len(t, s.Objects, 2)
	ship := s.Objects[0]
	assert.Equal(t, "ship", ship.Name)
	assert.Equal(t, Transform{X: 100, Y: 50, ScaleX: 1, ScaleY: 1}, ship.Transform)
	require.Len(t, ship.Children, 2)
	assert.Equal(t, IdentityTransform(), ship.Children[1].Transform)
	require.NotNil(t, ship.Children[1].Enabled)
	assert.False(t, *ship.Children[1].Enabled)
	assert.Nil(t, ship.Children[0].Enabled)
}

func TestLoadSceneErrors(t *testing.T) {
	_, err := LoadScene([]byte("objects: ["))
	assert.ErrorContains(t, err, "parse scene")

	_, err = LoadScene([]byte("objects: []"))
	assert.EqualError(t, err, "parse scene: no objects")

	_, err = LoadSceneFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestBuildScene(t *testing.T) {
	s, err := LoadScene([]byte(testSceneYAML))
	require.NoError(t, err)

	h := newTestHierarchy(t, 0)
	alloc := NewAllocator()
	names := NewNameRegistry()
	objs, err := BuildScene(h, alloc, names, s, NoObject, func(id ObjectID, n *SceneNode) string {
		return n.Name
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"ship", "turret", "barrel", "shield", "moon"}, h.Owners())
	assert.Equal(t, objs.IDs, h.Objects())
	require.Len(t, objs.Roots, 2)

	ship, _ := names.Find("ship")
	turret, _ := names.Find("turret")
	shield, _ := names.Find("shield")
	barrel, _ := names.Find("barrel")
	assert.Equal(t, []ObjectID{ship, objs.Roots[1]}, objs.Roots)
	assert.Equal(t, []ObjectID{turret, ship}, h.Ancestors(barrel))
	assert.False(t, h.IsActive(shield))
	assert.True(t, h.IsActive(barrel))

	h.RefreshMatrices(SceneLocal[string](objs))
	// barrel (0,0) -> (4,0) -> rotate 90: (0,4) -> +(8,0) -> +(100,50)
	x, y := h.LocalToWorld(barrel, 0, 0)
	assert.InDelta(t, 108.0, x, 1e-9)
	assert.InDelta(t, 54.0, y, 1e-9)

	objs.Transform(ship).X = 0
	h.MarkDirty(ship)
	h.RefreshMatrices(SceneLocal[string](objs))
	x, _ = h.LocalToWorld(barrel, 0, 0)
	assert.InDelta(t, 8.0, x, 1e-9)
}

func TestBuildSceneUnderParent(t *testing.T) {
	s, err := LoadScene([]byte(testSceneYAML))
	require.NoError(t, err)

	h := newTestHierarchy(t, 0)
	alloc := NewAllocator()
	anchor := alloc.Alloc()
	h.Insert(anchor, "anchor")

	objs, err := BuildScene(h, alloc, nil, s, anchor, nil)
	require.NoError(t, err)

	for _, root := range objs.Roots {
		p, ok := h.Parent(root)
		require.True(t, ok)
		assert.Equal(t, anchor, p)
	}
	assert.Equal(t, 6, int(h.Span(anchor).Count))
	assert.Equal(t, "", h.Owner(objs.Roots[0]))
}

func TestLoadSceneFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testSceneYAML), 0o644))

	s, err := LoadSceneFile(path)
	require.NoError(t, err)
	assert.Equal(t, "moon", s.Objects[1].Name)
	assert.Equal(t, 2.0, s.Objects[1].Transform.ScaleX)
}
