package behave

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// MouseRotate rotates the view while the left button is held. Dragging
// across the full width or height of the viewport turns the scene by half a
// revolution about the camera's up or right axis.
type MouseRotate struct {
	dragging     bool
	startX       float64
	startY       float64
	rot          mgl64.Mat4
	camUp, right mgl64.Vec3
}

func NewMouseRotate() *MouseRotate { return &MouseRotate{} }

func (m *MouseRotate) Behave(ctx *TickContext) error {
	if !ctx.Mouse.LeftPressed {
		m.dragging = false
		return nil
	}
	s := ctx.Scene
	if !m.dragging {
		m.dragging = true
		m.startX, m.startY = ctx.Mouse.X, ctx.Mouse.Y
		m.rot = s.Rotation
		back := s.CameraPosition.Sub(s.CameraTarget)
		if back.Len() > 0 {
			back = back.Normalize()
		}
		m.right = s.Up.Cross(back)
		m.camUp = back.Cross(m.right)
		return nil
	}

	w, h := s.Size()
	if w <= 0 || h <= 0 || m.camUp.Len() == 0 || m.right.Len() == 0 {
		return nil
	}
	dx := (ctx.Mouse.X - m.startX) / float64(w)
	dy := (ctx.Mouse.Y - m.startY) / float64(h)
	rx := mgl64.HomogRotate3D(dx*math.Pi, m.camUp.Normalize())
	ry := mgl64.HomogRotate3D(dy*math.Pi, m.right.Normalize())
	s.Rotation = m.rot.Mul4(rx).Mul4(ry)
	ctx.RequestRefresh(true)
	return nil
}

// Dragging reports whether a drag is in progress.
func (m *MouseRotate) Dragging() bool { return m.dragging }

// MouseZoom moves the camera toward its target by Delta per wheel step.
// Scrolling the other way moves it back.
type MouseZoom struct {
	Delta float64
}

// NewMouseZoom defaults delta to 1 when it is zero.
func NewMouseZoom(delta float64) *MouseZoom {
	if delta == 0 {
		delta = 1
	}
	return &MouseZoom{Delta: delta}
}

func (z *MouseZoom) Behave(ctx *TickContext) error {
	if ctx.Mouse.Wheel == 0 {
		return nil
	}
	s := ctx.Scene
	ray := s.CameraTarget.Sub(s.CameraPosition)
	if ray.Len() == 0 {
		return nil
	}
	s.CameraPosition = s.CameraPosition.Add(ray.Normalize().Mul(z.Delta * ctx.Mouse.Wheel))
	ctx.RequestRefresh(true)
	return nil
}
