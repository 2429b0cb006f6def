package behave

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/vizanim/internal/scene"
	"github.com/san-kum/vizanim/internal/traj"
)

// Target writes a trajectory value into the scene.
type Target func(ctx *TickContext, v mgl64.Vec3)

// TrajectoryMovement moves a scene property along a trajectory. On each tick
// it evaluates the trajectory at its current time, advances the time by
// speed and writes the value through its target. Trajectories that are not
// periodic fail once the time leaves [0, 1].
type TrajectoryMovement struct {
	trajectory traj.Trajectory[mgl64.Vec3]
	speed      float64
	t          float64
	target     Target
	name       string
}

// NewTrajectoryMovement returns a movement starting at time zero.
func NewTrajectoryMovement(tr traj.Trajectory[mgl64.Vec3], speed float64, target Target) *TrajectoryMovement {
	return &TrajectoryMovement{trajectory: tr, speed: speed, target: target, name: "TrajectoryMovement"}
}

func (m *TrajectoryMovement) Behave(ctx *TickContext) error {
	v, err := m.trajectory.At(m.t)
	if err != nil {
		return err
	}
	m.t += m.speed
	m.target(ctx, v)
	ctx.RequestRefresh(true)
	return nil
}

// Time returns the time the next tick evaluates.
func (m *TrajectoryMovement) Time() float64 { return m.t }

func (m *TrajectoryMovement) Name() string { return m.name }

// CameraTrajectory moves the camera position.
func CameraTrajectory(tr traj.Trajectory[mgl64.Vec3], speed float64) *TrajectoryMovement {
	m := NewTrajectoryMovement(tr, speed, func(ctx *TickContext, v mgl64.Vec3) { ctx.Scene.CameraPosition = v })
	m.name = "CameraTrajectory"
	return m
}

// CameraTargetTrajectory moves the point the camera looks at.
func CameraTargetTrajectory(tr traj.Trajectory[mgl64.Vec3], speed float64) *TrajectoryMovement {
	m := NewTrajectoryMovement(tr, speed, func(ctx *TickContext, v mgl64.Vec3) { ctx.Scene.CameraTarget = v })
	m.name = "CameraTargetTrajectory"
	return m
}

// LightTrajectory moves the light.
func LightTrajectory(tr traj.Trajectory[mgl64.Vec3], speed float64) *TrajectoryMovement {
	m := NewTrajectoryMovement(tr, speed, func(ctx *TickContext, v mgl64.Vec3) { ctx.Scene.Light = v })
	m.name = "LightTrajectory"
	return m
}

// RenderableTrajectory moves the world offset of one renderable.
func RenderableTrajectory(r scene.Renderable, tr traj.Trajectory[mgl64.Vec3], speed float64) *TrajectoryMovement {
	m := NewTrajectoryMovement(tr, speed, func(_ *TickContext, v mgl64.Vec3) { r.SetOffset(v) })
	m.name = "RenderableTrajectory"
	return m
}

// RotateModel rotates the whole scene about a fixed world axis by speed
// radians per tick.
type RotateModel struct {
	rotate func(s *scene.Scene, angle float64)
	speed  float64
}

// NewRotateModel accepts "x", "y" or "z".
func NewRotateModel(axis string, speed float64) (*RotateModel, error) {
	var fn func(s *scene.Scene, angle float64)
	switch axis {
	case "x", "X":
		fn = (*scene.Scene).RotateX
	case "y", "Y":
		fn = (*scene.Scene).RotateY
	case "z", "Z":
		fn = (*scene.Scene).RotateZ
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAxis, axis)
	}
	return &RotateModel{rotate: fn, speed: speed}, nil
}

func (r *RotateModel) Behave(ctx *TickContext) error {
	r.rotate(ctx.Scene, r.speed)
	ctx.RequestRefresh(true)
	return nil
}

// LocalModelRotation rotates every renderable that supports axis rotation
// about its own origin. Renderables without the capability are skipped.
type LocalModelRotation struct {
	Axis  mgl64.Vec3
	Speed float64
}

func NewLocalModelRotation(axis mgl64.Vec3, speed float64) *LocalModelRotation {
	return &LocalModelRotation{Axis: axis, Speed: speed}
}

func (l *LocalModelRotation) Behave(ctx *TickContext) error {
	ctx.RequestRefresh(rotateAll(ctx.Scene.Renderables(), l.Axis, l.Speed))
	return nil
}

// RotateRenderables rotates a fixed set of renderables about their own
// origins, whether or not they are in the scene.
type RotateRenderables struct {
	Renderables []scene.Renderable
	Axis        mgl64.Vec3
	Speed       float64
}

func NewRotateRenderables(axis mgl64.Vec3, speed float64, rs ...scene.Renderable) *RotateRenderables {
	return &RotateRenderables{Renderables: rs, Axis: axis, Speed: speed}
}

func (r *RotateRenderables) Behave(ctx *TickContext) error {
	ctx.RequestRefresh(rotateAll(r.Renderables, r.Axis, r.Speed))
	return nil
}

func rotateAll(rs []scene.Renderable, axis mgl64.Vec3, angle float64) bool {
	rotated := false
	for _, r := range rs {
		if ar, ok := r.(scene.AxisRotator); ok {
			ar.RotateAxis(axis, angle)
			rotated = true
		}
	}
	return rotated
}

// RealTimeRotation rotates the scene about an axis at a fixed angular rate
// measured in wall-clock time, so the speed does not depend on frame rate.
// The first tick only records the clock.
type RealTimeRotation struct {
	Axis    mgl64.Vec3
	RadPerS float64
	// Now defaults to time.Now.
	Now  func() time.Time
	last time.Time
}

func NewRealTimeRotation(axis mgl64.Vec3, radPerS float64) *RealTimeRotation {
	return &RealTimeRotation{Axis: axis, RadPerS: radPerS, Now: time.Now}
}

func (r *RealTimeRotation) Behave(ctx *TickContext) error {
	now := r.Now()
	if r.last.IsZero() {
		r.last = now
		return nil
	}
	dt := now.Sub(r.last).Seconds()
	r.last = now
	if dt <= 0 || r.Axis.Len() == 0 {
		return nil
	}
	rot := mgl64.HomogRotate3D(r.RadPerS*dt, r.Axis.Normalize())
	ctx.Scene.Rotation = ctx.Scene.Rotation.Mul4(rot)
	ctx.RequestRefresh(true)
	return nil
}

// StartStopBehaviour forwards ticks to an inner behaviour only while its own
// tick count is in [Start, Stop). Every call counts, including those outside
// the window.
type StartStopBehaviour struct {
	Inner       Behaviour
	Start, Stop int
	tick        int
}

func NewStartStopBehaviour(inner Behaviour, start, stop int) *StartStopBehaviour {
	return &StartStopBehaviour{Inner: inner, Start: start, Stop: stop}
}

func (s *StartStopBehaviour) Behave(ctx *TickContext) error {
	defer func() { s.tick++ }()
	if s.tick >= s.Start && s.tick < s.Stop {
		return s.Inner.Behave(ctx)
	}
	return nil
}

// Ticks returns how many times Behave has been called.
func (s *StartStopBehaviour) Ticks() int { return s.tick }
