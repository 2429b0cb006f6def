package scene

import (
	"image/color"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	DefaultWidth  = 512
	DefaultHeight = 512
	DefaultFOV    = 45.0
)

// Scene is the mutable handle behaviours write to during a dispatch pass.
type Scene struct {
	CameraPosition mgl64.Vec3
	CameraTarget   mgl64.Vec3
	Up             mgl64.Vec3
	Light          mgl64.Vec3
	Rotation       mgl64.Mat4
	Background     color.RGBA

	FOV, Near, Far float64

	width, height int
	renderables   []Renderable
}

// New creates a scene with the toolkit's default camera looking at the
// origin from (-2, -2, -2) with z up.
func New(width, height int) *Scene {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return &Scene{
		CameraPosition: mgl64.Vec3{-2, -2, -2},
		CameraTarget:   mgl64.Vec3{0, 0, 0},
		Up:             mgl64.Vec3{0, 0, 1},
		Light:          mgl64.Vec3{-0.5, -0.8, -2},
		Rotation:       mgl64.Ident4(),
		Background:     color.RGBA{255, 255, 255, 255},
		FOV:            DefaultFOV,
		Near:           0.1,
		Far:            1000,
		width:          width,
		height:         height,
	}
}

// Size returns the viewport dimensions in pixels.
func (s *Scene) Size() (int, int) { return s.width, s.height }

func (s *Scene) Resize(width, height int) {
	if width > 0 && height > 0 {
		s.width, s.height = width, height
	}
}

// Add appends r unless it is already part of the scene.
func (s *Scene) Add(r Renderable) {
	if r == nil || slices.Contains(s.renderables, r) {
		return
	}
	s.renderables = append(s.renderables, r)
}

// Remove drops r and reports whether it was present.
func (s *Scene) Remove(r Renderable) bool {
	i := slices.Index(s.renderables, r)
	if i < 0 {
		return false
	}
	s.renderables = slices.Delete(s.renderables, i, i+1)
	return true
}

func (s *Scene) Clear() { s.renderables = nil }

// Renderables returns the renderables in insertion order. The slice must not
// be modified.
func (s *Scene) Renderables() []Renderable { return s.renderables }

func (s *Scene) RotateX(angle float64) { s.Rotation = s.Rotation.Mul4(mgl64.HomogRotate3DX(angle)) }
func (s *Scene) RotateY(angle float64) { s.Rotation = s.Rotation.Mul4(mgl64.HomogRotate3DY(angle)) }
func (s *Scene) RotateZ(angle float64) { s.Rotation = s.Rotation.Mul4(mgl64.HomogRotate3DZ(angle)) }

// View returns the look-at matrix combined with the global rotation.
func (s *Scene) View() mgl64.Mat4 {
	return mgl64.LookAtV(s.CameraPosition, s.CameraTarget, s.Up).Mul4(s.Rotation)
}

// Projection returns the perspective matrix for the current viewport.
func (s *Scene) Projection() mgl64.Mat4 {
	aspect := float64(s.width) / float64(s.height)
	return mgl64.Perspective(mgl64.DegToRad(s.FOV), aspect, s.Near, s.Far)
}

// Draw hands every renderable to d in insertion order.
func (s *Scene) Draw(d Drawer) {
	for _, r := range s.renderables {
		r.Draw(d)
	}
}
