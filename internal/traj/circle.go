package traj

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// PerpendicularTolerance is the largest cosine allowed between a circle's
// radial vector and its normal.
const PerpendicularTolerance = 0.01

// Circle rotates Point clockwise around the axis through Center along Normal.
// One unit of progress is one full turn.
type Circle struct {
	Center, Point, Normal mgl64.Vec3

	axis   mgl64.Vec3
	radial mgl64.Vec3
}

func NewCircle(center, point, normal mgl64.Vec3) (*Circle, error) {
	radial := point.Sub(center)
	nl, rl := normal.Len(), radial.Len()
	if nl == 0 || rl == 0 {
		return nil, ErrDegenerate
	}
	if cos := normal.Dot(radial) / nl / rl; math.Abs(cos) > PerpendicularTolerance {
		return nil, ErrNotPerpendicular
	}
	return &Circle{
		Center: center,
		Point:  point,
		Normal: normal,
		axis:   normal.Mul(1 / nl),
		radial: radial,
	}, nil
}

func (c *Circle) At(t float64) (mgl64.Vec3, error) {
	// HomogRotate3D is counter-clockwise for a right-handed frame.
	angle := -2 * math.Pi * wrap(t, 1)
	r := mgl64.HomogRotate3D(angle, c.axis)
	return c.Center.Add(r.Mul4x1(c.radial.Vec4(0)).Vec3()), nil
}

// Radius returns the distance between Center and Point.
func (c *Circle) Radius() float64 { return c.radial.Len() }
