package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// projector maps world coordinates to pixel coordinates with y growing
// downwards and a depth in [-1, 1].
type projector struct {
	mvp   mgl64.Mat4
	focal float64
	near  float64
	w, h  int
}

func newProjector(s *Scene, w, h int) projector {
	view := s.View()
	proj := mgl64.Perspective(mgl64.DegToRad(s.FOV), float64(w)/float64(h), s.Near, s.Far)
	return projector{mvp: proj.Mul4(view), focal: proj[5], near: s.Near, w: w, h: h}
}

// project returns pixel x, y, depth and the clip w. ok is false for points
// closer to the camera than the near plane.
func (p projector) project(v mgl64.Vec3) (x, y, depth, w float64, ok bool) {
	c := p.mvp.Mul4x1(v.Vec4(1))
	if c[3] <= 1e-9 || c[3] < p.near {
		return 0, 0, 0, 0, false
	}
	nx, ny, nz := c[0]/c[3], c[1]/c[3], c[2]/c[3]
	x = (nx + 1) / 2 * float64(p.w)
	y = (1 - ny) / 2 * float64(p.h)
	return x, y, nz, c[3], true
}

// pixelRadius converts a world-space radius at clip depth w to pixels.
func (p projector) pixelRadius(radius, w float64) float64 {
	return radius * p.focal / w * float64(p.h) / 2
}

// span returns the pixel range [lo, hi] covered by center±rad, clamped to
// [0, size-1]. lo > hi when nothing is visible.
func span(center, rad float64, size int) (lo, hi int) {
	l := math.Max(0, math.Floor(center-rad))
	h := math.Min(float64(size-1), math.Ceil(center+rad))
	if l > h {
		return 1, 0
	}
	return int(l), int(h)
}

// Viewport projects world points onto a scene's frame the same way Render
// does, for drawers outside this package.
type Viewport struct {
	proj projector
}

// NewViewport snapshots the camera of s at its current size.
func NewViewport(s *Scene) Viewport {
	w, h := s.Size()
	return Viewport{proj: newProjector(s, w, h)}
}

// Project returns the pixel position and depth of p, or ok=false when p is
// closer than the near plane.
func (v Viewport) Project(p mgl64.Vec3) (x, y, depth float64, ok bool) {
	x, y, depth, _, ok = v.proj.project(p)
	return x, y, depth, ok
}

// Radius returns the on-screen radius in pixels of a sphere of the given
// world radius centered at p.
func (v Viewport) Radius(p mgl64.Vec3, radius float64) float64 {
	_, _, _, w, ok := v.proj.project(p)
	if !ok {
		return 0
	}
	return v.proj.pixelRadius(radius, w)
}
