package config

import (
	"fmt"
	"image/color"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/vizanim/internal/behave"
	"github.com/san-kum/vizanim/internal/scene"
	"github.com/san-kum/vizanim/internal/traj"
)

// Animation is a built config ready for a host.
type Animation struct {
	Scene      *scene.Scene
	Objects    []scene.Renderable
	Behaviours []behave.Behaviour
	Frames     int
	FPS        int
}

// Build creates the scene, its renderables and the behaviour list.
func (c *Config) Build() (*Animation, error) {
	s := scene.New(c.Width, c.Height)
	var err error

	if s.Background, err = ParseColor(c.Background, s.Background); err != nil {
		return nil, fmt.Errorf("background: %w", err)
	}
	if s.CameraPosition, err = c.Camera.Position.Vec3Or(s.CameraPosition); err != nil {
		return nil, fmt.Errorf("camera position: %w", err)
	}
	if s.CameraTarget, err = c.Camera.Target.Vec3Or(s.CameraTarget); err != nil {
		return nil, fmt.Errorf("camera target: %w", err)
	}
	if s.Up, err = c.Camera.Up.Vec3Or(s.Up); err != nil {
		return nil, fmt.Errorf("camera up: %w", err)
	}
	if s.Light, err = c.Light.Vec3Or(s.Light); err != nil {
		return nil, fmt.Errorf("light: %w", err)
	}
	if c.Camera.FOV > 0 {
		s.FOV = c.Camera.FOV
	}

	rng := rand.New(rand.NewPCG(uint64(c.Seed), 0))
	anim := &Animation{Scene: s, Frames: c.Frames, FPS: c.FPS}
	for i, oc := range c.Objects {
		r, err := oc.build(rng)
		if err != nil {
			return nil, fmt.Errorf("object %d (%s): %w", i, oc.Kind, err)
		}
		s.Add(r)
		anim.Objects = append(anim.Objects, r)
	}
	for i, bc := range c.Behaviours {
		b, err := bc.build(anim.Objects)
		if err != nil {
			return nil, fmt.Errorf("behaviour %d (%s): %w", i, bc.Kind, err)
		}
		anim.Behaviours = append(anim.Behaviours, b)
	}
	if anim.Frames <= 0 {
		anim.Frames = DefaultFrames
	}
	if anim.FPS <= 0 {
		anim.FPS = DefaultFPS
	}
	return anim, nil
}

func (o ObjectConfig) colors(def color.RGBA) ([]color.RGBA, error) {
	if len(o.Colors) == 0 {
		c, err := ParseColor(o.Color, def)
		return []color.RGBA{c}, err
	}
	out := make([]color.RGBA, len(o.Colors))
	for i, s := range o.Colors {
		c, err := ParseColor(s, def)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

func (o ObjectConfig) points() ([]mgl64.Vec3, error) {
	out := make([]mgl64.Vec3, len(o.Points))
	for i, p := range o.Points {
		v, err := p.Vec3()
		if err != nil {
			return nil, fmt.Errorf("point %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

func (o ObjectConfig) build(rng *rand.Rand) (scene.Renderable, error) {
	gray := color.RGBA{128, 128, 128, 255}
	size := o.Size
	if size <= 0 {
		size = 1
	}
	cols, err := o.colors(gray)
	if err != nil {
		return nil, err
	}

	var r scene.Renderable
	switch o.Kind {
	case "cube":
		r = scene.NewCube(size, cols[0])
	case "axes":
		r = scene.NewAxes(size)
	case "spheres", "random_spheres":
		centers, err := o.points()
		if err != nil {
			return nil, err
		}
		if o.Kind == "random_spheres" {
			centers = make([]mgl64.Vec3, max(o.Count, 1))
			for i := range centers {
				centers[i] = mgl64.Vec3{rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()}
			}
			// pick one of the given colors per sphere
			picked := make([]color.RGBA, len(centers))
			for i := range picked {
				picked[i] = cols[rng.IntN(len(cols))]
			}
			cols = picked
		}
		sizes := o.Sizes
		if len(sizes) == 0 {
			sizes = []float64{size * 0.1}
		}
		if r, err = scene.NewSpherecloud(centers, cols, sizes); err != nil {
			return nil, err
		}
	case "lines":
		pts, err := o.points()
		if err != nil {
			return nil, err
		}
		if r, err = scene.NewLines(pts, cols); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: object %q", ErrUnknownKind, o.Kind)
	}

	off, err := o.Offset.Vec3Or(mgl64.Vec3{})
	if err != nil {
		return nil, fmt.Errorf("offset: %w", err)
	}
	r.SetOffset(off)
	return r, nil
}

func (b BehaviourConfig) trajectory() (traj.Trajectory[mgl64.Vec3], error) {
	if b.Trajectory == nil {
		return nil, fmt.Errorf("missing trajectory: %w", traj.ErrNilTrajectory)
	}
	return b.Trajectory.Build()
}

func (b BehaviourConfig) build(objects []scene.Renderable) (behave.Behaviour, error) {
	var (
		out behave.Behaviour
		err error
	)
	switch b.Kind {
	case "camera_trajectory", "camera_target_trajectory", "light_trajectory", "object_trajectory":
		tr, err := b.trajectory()
		if err != nil {
			return nil, err
		}
		switch b.Kind {
		case "camera_trajectory":
			out = behave.CameraTrajectory(tr, b.Speed)
		case "camera_target_trajectory":
			out = behave.CameraTargetTrajectory(tr, b.Speed)
		case "light_trajectory":
			out = behave.LightTrajectory(tr, b.Speed)
		default:
			if b.Object < 0 || b.Object >= len(objects) {
				return nil, fmt.Errorf("%w: %d", ErrNoObject, b.Object)
			}
			out = behave.RenderableTrajectory(objects[b.Object], tr, b.Speed)
		}
	case "rotate_model":
		out, err = behave.NewRotateModel(b.Around, b.Speed)
	case "local_rotation", "realtime_rotation":
		axis, aerr := b.Axis.Vec3Or(mgl64.Vec3{0, 0, 1})
		if aerr != nil {
			return nil, fmt.Errorf("axis: %w", aerr)
		}
		if b.Kind == "local_rotation" {
			out = behave.NewLocalModelRotation(axis, b.Speed)
		} else {
			out = behave.NewRealTimeRotation(axis, b.Speed)
		}
	case "light_to_camera":
		off, oerr := b.Offset.Vec3Or(mgl64.Vec3{})
		if oerr != nil {
			return nil, fmt.Errorf("offset: %w", oerr)
		}
		out = behave.NewLightToCamera(off)
	case "mouse_rotate":
		out = behave.NewMouseRotate()
	case "mouse_zoom":
		out = behave.NewMouseZoom(b.Delta)
	case "snapshot":
		path := b.Path
		if path == "" {
			path = "snapshot_%03d.png"
		}
		out = behave.NewSnapshotOnKey(path, b.Keys...)
	case "print_camera":
		out = behave.NewPrintCameraOnKey(nil, b.Keys...)
	case "sort_triangles":
		out = behave.NewSortTrianglesOnKey(b.Keys...)
	case "save_frames":
		out, err = behave.NewSaveFrames(b.Path, max(b.Every, 1))
	case "save_gif":
		out, err = behave.NewSaveGif(b.Path, max(b.Every, 1), b.Delay)
	default:
		return nil, fmt.Errorf("%w: behaviour %q", ErrUnknownKind, b.Kind)
	}
	if err != nil {
		return nil, err
	}

	if b.Start != nil || b.Stop != nil {
		start, stop := 0, int(^uint(0)>>1)
		if b.Start != nil {
			start = *b.Start
		}
		if b.Stop != nil {
			stop = *b.Stop
		}
		out = behave.NewStartStopBehaviour(out, start, stop)
	}
	return out, nil
}

// Build turns the expression into a trajectory of 3D points.
func (t *TrajectoryConfig) Build() (traj.Trajectory[mgl64.Vec3], error) {
	pts := make([]mgl64.Vec3, len(t.Points))
	for i, p := range t.Points {
		v, err := p.Vec3()
		if err != nil {
			return nil, fmt.Errorf("%s point %d: %w", t.Kind, i, err)
		}
		pts[i] = v
	}
	inner := func() (traj.Trajectory[mgl64.Vec3], error) {
		if t.Inner == nil {
			return nil, fmt.Errorf("%s: %w", t.Kind, traj.ErrNilTrajectory)
		}
		return t.Inner.Build()
	}

	switch t.Kind {
	case "linear":
		if len(pts) != 2 {
			return nil, fmt.Errorf("linear needs 2 points, got %d: %w", len(pts), traj.ErrTooFewPoints)
		}
		return traj.NewLinear(pts[0], pts[1]), nil
	case "bezier":
		if len(pts) != 3 {
			return nil, fmt.Errorf("bezier needs 3 points, got %d: %w", len(pts), traj.ErrTooFewPoints)
		}
		return traj.NewQuadraticBezier(pts[0], pts[1], pts[2]), nil
	case "lines":
		return traj.Lines(pts...)
	case "bezier_curves":
		return traj.QuadraticBezierCurves(pts...)
	case "circle":
		center, err := t.Center.Vec3()
		if err != nil {
			return nil, fmt.Errorf("circle center: %w", err)
		}
		point, err := t.Point.Vec3()
		if err != nil {
			return nil, fmt.Errorf("circle point: %w", err)
		}
		normal, err := t.Normal.Vec3()
		if err != nil {
			return nil, fmt.Errorf("circle normal: %w", err)
		}
		return traj.NewCircle(center, point, normal)
	case "join":
		segs := make([]traj.Segment[mgl64.Vec3], len(t.Segments))
		for i, sc := range t.Segments {
			tr, err := sc.Trajectory.Build()
			if err != nil {
				return nil, fmt.Errorf("segment %d: %w", i, err)
			}
			segs[i] = traj.Segment[mgl64.Vec3]{Weight: sc.Weight, Trajectory: tr}
		}
		return traj.NewJoin(segs...)
	case "repeat":
		in, err := inner()
		if err != nil {
			return nil, err
		}
		return traj.NewRepeat(in), nil
	case "back_and_forth":
		in, err := inner()
		if err != nil {
			return nil, err
		}
		return traj.NewBackAndForth(in), nil
	case "start_stop":
		in, err := inner()
		if err != nil {
			return nil, err
		}
		return traj.NewStartStop(in, t.Start, t.Stop), nil
	default:
		return nil, fmt.Errorf("%w: trajectory %q", ErrUnknownKind, t.Kind)
	}
}
