package scene

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
)

// Drawer receives world-space primitives from renderables.
type Drawer interface {
	Point(p mgl64.Vec3, radius float64, c color.RGBA)
	Line(a, b mgl64.Vec3, c color.RGBA)
	Triangle(a, b, c mgl64.Vec3, col color.RGBA)
}

// Renderable is the part of a drawable object behaviours may animate.
type Renderable interface {
	ModelMatrix() mgl64.Mat4
	SetModelMatrix(m mgl64.Mat4)
	Offset() mgl64.Vec3
	SetOffset(o mgl64.Vec3)
	Draw(d Drawer)
}

// AxisRotator is implemented by renderables that can rotate their model
// matrix around an arbitrary axis.
type AxisRotator interface {
	RotateAxis(axis mgl64.Vec3, angle float64)
}

// TriangleSorter is implemented by renderables that reorder their triangles
// back to front for transparency.
type TriangleSorter interface {
	SortTriangles(viewpoint mgl64.Vec3)
}

// Transform carries the model matrix and offset shared by the built-in
// renderables. A point p is placed at ModelMatrix*p + Offset.
type Transform struct {
	model  mgl64.Mat4
	offset mgl64.Vec3
}

func NewTransform() Transform { return Transform{model: mgl64.Ident4()} }

func (t *Transform) ModelMatrix() mgl64.Mat4     { return t.model }
func (t *Transform) SetModelMatrix(m mgl64.Mat4) { t.model = m }
func (t *Transform) Offset() mgl64.Vec3          { return t.offset }
func (t *Transform) SetOffset(o mgl64.Vec3)      { t.offset = o }

// RotateAxis left-multiplies the model matrix by a rotation of angle radians
// around axis.
func (t *Transform) RotateAxis(axis mgl64.Vec3, angle float64) {
	if axis.Len() == 0 {
		return
	}
	t.model = mgl64.HomogRotate3D(angle, axis.Normalize()).Mul4(t.model)
}

// Apply maps a local point to world space.
func (t *Transform) Apply(p mgl64.Vec3) mgl64.Vec3 {
	return mgl64.TransformCoordinate(p, t.model).Add(t.offset)
}
