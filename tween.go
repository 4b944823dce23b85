package arbor

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Dirtier is the part of a Hierarchy a TweenGroup needs. Every
// *Hierarchy[E] satisfies it.
type Dirtier interface {
	Contains(id ObjectID) bool
	MarkDirty(id ObjectID)
}

// TweenGroup animates up to 4 float64 fields of a Transform simultaneously.
// Create one via the convenience constructors (TweenPosition, TweenScale,
// TweenRotation) and call Update(dt) each frame. The group writes values into
// the transform and marks the object dirty. If the object leaves the
// hierarchy, the group stops immediately.
//
// There is no global animation manager; callers run Update themselves.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	fields [4]*float64
	tree   Dirtier
	target ObjectID
	Done   bool
}

// Update advances all tweens by dt seconds, writes values to the target
// fields, and marks the object dirty.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if !g.tree.Contains(g.target) {
		g.Done = true
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
	g.tree.MarkDirty(g.target)
}

// TweenPosition animates t.X and t.Y to the given coordinates.
func TweenPosition(tree Dirtier, id ObjectID, t *Transform, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 2, tree: tree, target: id}
	g.tweens[0] = gween.New(float32(t.X), float32(toX), duration, fn)
	g.tweens[1] = gween.New(float32(t.Y), float32(toY), duration, fn)
	g.fields[0] = &t.X
	g.fields[1] = &t.Y
	return g
}

// TweenScale animates t.ScaleX and t.ScaleY to the given values.
func TweenScale(tree Dirtier, id ObjectID, t *Transform, toSX, toSY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 2, tree: tree, target: id}
	g.tweens[0] = gween.New(float32(t.ScaleX), float32(toSX), duration, fn)
	g.tweens[1] = gween.New(float32(t.ScaleY), float32(toSY), duration, fn)
	g.fields[0] = &t.ScaleX
	g.fields[1] = &t.ScaleY
	return g
}

// TweenRotation animates t.Rotation to the given angle in radians.
func TweenRotation(tree Dirtier, id ObjectID, t *Transform, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 1, tree: tree, target: id}
	g.tweens[0] = gween.New(float32(t.Rotation), float32(to), duration, fn)
	g.fields[0] = &t.Rotation
	return g
}
