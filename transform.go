package arbor

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"gopkg.in/yaml.v3"
)

// Transform is an object's local transform. The hierarchy never stores
// transforms; callers own them and hand them to RefreshMatrices through a
// LocalFunc.
type Transform struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	ScaleX   float64 `yaml:"scale_x"`
	ScaleY   float64 `yaml:"scale_y"`
	Rotation float64 `yaml:"rotation"` // radians
	SkewX    float64 `yaml:"skew_x"`
	SkewY    float64 `yaml:"skew_y"`
	PivotX   float64 `yaml:"pivot_x"`
	PivotY   float64 `yaml:"pivot_y"`
}

// IdentityTransform returns a transform with unit scale and nothing else.
func IdentityTransform() Transform {
	return Transform{ScaleX: 1, ScaleY: 1}
}

// UnmarshalYAML decodes a transform, defaulting omitted scales to 1.
func (t *Transform) UnmarshalYAML(value *yaml.Node) error {
	type plain Transform
	p := plain(IdentityTransform())
	if err := value.Decode(&p); err != nil {
		return err
	}
	*t = Transform(p)
	return nil
}

// Affine computes the local affine matrix. Returns [a, b, c, d, tx, ty].
//
// Composition order:
//
//	Translate(-PivotX, -PivotY) -> Scale -> Skew -> Rotate -> Translate(X, Y)
func (t Transform) Affine() [6]float64 {
	sx := t.ScaleX
	sy := t.ScaleY

	sin, cos := math.Sincos(t.Rotation)

	var tanSkewX, tanSkewY float64
	if t.SkewX != 0 {
		tanSkewX = math.Tan(t.SkewX)
	}
	if t.SkewY != 0 {
		tanSkewY = math.Tan(t.SkewY)
	}

	// After Scale * Translate(-pivot) and Skew:
	a := sx
	b := tanSkewY * sx
	c := tanSkewX * sy
	d := sy

	preTx := -t.PivotX*sx - tanSkewX*t.PivotY*sy
	preTy := -tanSkewY*t.PivotX*sx - t.PivotY*sy

	// After Rotate:
	ra := cos*a - sin*b
	rb := sin*a + cos*b
	rc := cos*c - sin*d
	rd := sin*c + cos*d
	rtx := cos*preTx - sin*preTy
	rty := sin*preTx + cos*preTy

	// After Translate(X, Y):
	return [6]float64{ra, rb, rc, rd, rtx + t.X, rty + t.Y}
}

// Matrix returns the local transform as an ebiten.GeoM.
func (t Transform) Matrix() ebiten.GeoM {
	return geoMFromAffine(t.Affine())
}

// geoMFromAffine converts [a, b, c, d, tx, ty] into a GeoM.
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func geoMFromAffine(m [6]float64) ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(1, 0, m[1])
	g.SetElement(0, 1, m[2])
	g.SetElement(1, 1, m[3])
	g.SetElement(0, 2, m[4])
	g.SetElement(1, 2, m[5])
	return g
}

// --- Transform property setters ---

// SetPosition sets X and Y.
func (t *Transform) SetPosition(x, y float64) {
	t.X = x
	t.Y = y
}

// SetScale sets ScaleX and ScaleY.
func (t *Transform) SetScale(sx, sy float64) {
	t.ScaleX = sx
	t.ScaleY = sy
}

// SetSkew sets SkewX and SkewY.
func (t *Transform) SetSkew(sx, sy float64) {
	t.SkewX = sx
	t.SkewY = sy
}

// SetPivot sets PivotX and PivotY.
func (t *Transform) SetPivot(px, py float64) {
	t.PivotX = px
	t.PivotY = py
}
