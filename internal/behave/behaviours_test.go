package behave_test

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/vizanim/internal/behave"
	"github.com/san-kum/vizanim/internal/frames"
	"github.com/san-kum/vizanim/internal/scene"
	"github.com/san-kum/vizanim/internal/traj"
)

func newCtx(s *scene.Scene) *behave.TickContext {
	return behave.NewTickContext(s, func() (*image.RGBA, error) { return scene.Render(s), nil })
}

func keys(down, up []string) behave.Keyboard {
	return behave.Keyboard{Down: behave.NewKeySet(down...), Up: behave.NewKeySet(up...)}
}

func assertVec(t *testing.T, want, got mgl64.Vec3) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-9, "component %d of %v", i, got)
	}
}

func matDist(a, b mgl64.Mat4) float64 {
	d := 0.0
	for i := range a {
		d = math.Max(d, math.Abs(a[i]-b[i]))
	}
	return d
}

func assertMat(t *testing.T, want, got mgl64.Mat4) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-9, "element %d of %v", i, got)
	}
}

func TestKeySet(t *testing.T) {
	s := behave.NewKeySet("<ctrl>", "S")
	assert.True(t, s.ContainsAll(behave.NewKeySet("S")))
	assert.True(t, s.ContainsAll(behave.NewKeySet()))
	assert.False(t, s.ContainsAll(behave.NewKeySet("S", "T")))
	assert.True(t, s.Intersects(behave.NewKeySet("T", "S")))
	assert.False(t, s.Intersects(behave.NewKeySet("T")))
	assert.Equal(t, "{<ctrl>,S}", s.String())

	c := s.Clone()
	c.Remove("S")
	assert.True(t, s.Has("S"))
	s.Clear()
	assert.Zero(t, len(s))
}

func TestRefreshIsSticky(t *testing.T) {
	ctx := newCtx(scene.New(8, 8))
	assert.False(t, ctx.Refresh())
	ctx.RequestRefresh(true)
	ctx.RequestRefresh(false)
	assert.True(t, ctx.Refresh())
}

func TestCameraTrajectory(t *testing.T) {
	s := scene.New(8, 8)
	line := traj.Must(traj.Lines(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{2, 0, 0}))
	m := behave.CameraTrajectory(line, 0.5)

	for _, want := range []float64{0, 1, 2} {
		ctx := newCtx(s)
		require.NoError(t, m.Behave(ctx))
		assert.True(t, ctx.Refresh())
		assertVec(t, mgl64.Vec3{want, 0, 0}, s.CameraPosition)
	}
	assert.InDelta(t, 1.5, m.Time(), 1e-12)

	err := m.Behave(newCtx(s))
	assert.ErrorIs(t, err, traj.ErrOutOfDomain)
	assertVec(t, mgl64.Vec3{2, 0, 0}, s.CameraPosition)
}

func TestTrajectoryTargets(t *testing.T) {
	s := scene.New(8, 8)
	p := mgl64.Vec3{1, 2, 3}
	constant := traj.NewLinear(p, p)
	cube := scene.NewCube(1, color.RGBA{255, 0, 0, 255})

	for _, b := range []behave.Behaviour{
		behave.CameraTargetTrajectory(constant, 0.1),
		behave.LightTrajectory(constant, 0.1),
		behave.RenderableTrajectory(cube, constant, 0.1),
	} {
		require.NoError(t, b.Behave(newCtx(s)))
	}
	assertVec(t, p, s.CameraTarget)
	assertVec(t, p, s.Light)
	assertVec(t, p, cube.Offset())
	assert.Equal(t, "LightTrajectory", behave.Name(behave.LightTrajectory(constant, 0.1)))
}

func TestPeriodicMovementNeverFails(t *testing.T) {
	s := scene.New(8, 8)
	circle, err := traj.NewCircle(mgl64.Vec3{0, 0, 3}, mgl64.Vec3{3, 3, 3}, mgl64.Vec3{0, 0, 1})
	require.NoError(t, err)
	m := behave.CameraTrajectory(traj.NewRepeat[mgl64.Vec3](circle), 0.3)

	for range 20 {
		require.NoError(t, m.Behave(newCtx(s)))
		assert.InDelta(t, circle.Radius(), s.CameraPosition.Sub(mgl64.Vec3{0, 0, 3}).Len(), 1e-9)
	}
}

func TestRotateModel(t *testing.T) {
	_, err := behave.NewRotateModel("w", 0.1)
	assert.ErrorIs(t, err, behave.ErrUnknownAxis)

	s := scene.New(8, 8)
	r, err := behave.NewRotateModel("z", math.Pi/2)
	require.NoError(t, err)
	ctx := newCtx(s)
	require.NoError(t, r.Behave(ctx))
	assert.True(t, ctx.Refresh())
	assertMat(t, mgl64.HomogRotate3DZ(math.Pi/2), s.Rotation)
}

type fixed struct{ scene.Transform }

func (fixed) Draw(scene.Drawer) {}

// frozen has a transform but no axis rotation.
type frozen struct {
	model  mgl64.Mat4
	offset mgl64.Vec3
}

func (f *frozen) ModelMatrix() mgl64.Mat4     { return f.model }
func (f *frozen) SetModelMatrix(m mgl64.Mat4) { f.model = m }
func (f *frozen) Offset() mgl64.Vec3          { return f.offset }
func (f *frozen) SetOffset(o mgl64.Vec3)      { f.offset = o }
func (f *frozen) Draw(scene.Drawer)           {}

func TestLocalModelRotation(t *testing.T) {
	s := scene.New(8, 8)
	cube := scene.NewCube(1, color.RGBA{A: 255})
	still := &frozen{model: mgl64.Ident4()}
	s.Add(cube)
	s.Add(still)

	ctx := newCtx(s)
	require.NoError(t, behave.NewLocalModelRotation(mgl64.Vec3{0, 0, 1}, math.Pi).Behave(ctx))
	assert.True(t, ctx.Refresh())
	assertVec(t, mgl64.Vec3{-1, 0, 0}, mgl64.TransformCoordinate(mgl64.Vec3{1, 0, 0}, cube.ModelMatrix()))
	assert.Equal(t, mgl64.Ident4(), still.ModelMatrix())

	only := scene.New(8, 8)
	only.Add(still)
	ctx = newCtx(only)
	require.NoError(t, behave.NewLocalModelRotation(mgl64.Vec3{0, 0, 1}, 1).Behave(ctx))
	assert.False(t, ctx.Refresh())
}

func TestRotateRenderables(t *testing.T) {
	s := scene.New(8, 8)
	f := &fixed{Transform: scene.NewTransform()}
	r := behave.NewRotateRenderables(mgl64.Vec3{1, 0, 0}, math.Pi/2, f)

	ctx := newCtx(s)
	require.NoError(t, r.Behave(ctx))
	assert.True(t, ctx.Refresh())
	assertVec(t, mgl64.Vec3{0, 0, 1}, f.Apply(mgl64.Vec3{0, 1, 0}))
}

func TestRealTimeRotation(t *testing.T) {
	s := scene.New(8, 8)
	now := time.Unix(100, 0)
	r := behave.NewRealTimeRotation(mgl64.Vec3{0, 0, 2}, math.Pi)
	r.Now = func() time.Time { return now }

	ctx := newCtx(s)
	require.NoError(t, r.Behave(ctx))
	assert.False(t, ctx.Refresh())
	assert.Equal(t, mgl64.Ident4(), s.Rotation)

	now = now.Add(500 * time.Millisecond)
	ctx = newCtx(s)
	require.NoError(t, r.Behave(ctx))
	assert.True(t, ctx.Refresh())
	assertMat(t, mgl64.HomogRotate3DZ(math.Pi/2), s.Rotation)

	// same instant: nothing to do
	ctx = newCtx(s)
	require.NoError(t, r.Behave(ctx))
	assert.False(t, ctx.Refresh())
}

func TestStartStopBehaviour(t *testing.T) {
	var ticks []int
	n := 0
	inner := behave.BehaviourFunc(func(*behave.TickContext) error {
		ticks = append(ticks, n)
		return nil
	})
	ss := behave.NewStartStopBehaviour(inner, 2, 4)
	s := scene.New(8, 8)
	for n = 0; n < 6; n++ {
		require.NoError(t, ss.Behave(newCtx(s)))
	}
	assert.Equal(t, []int{2, 3}, ticks)
	assert.Equal(t, 6, ss.Ticks())
}

func TestOnKeysEdgeTrigger(t *testing.T) {
	tests := []struct {
		name  string
		ticks []behave.Keyboard
		fires int
		armed bool
	}{
		{
			name:  "press then release",
			ticks: []behave.Keyboard{keys([]string{"S"}, nil), keys(nil, []string{"S"})},
			fires: 1,
		},
		{
			name: "held without release",
			ticks: []behave.Keyboard{
				keys([]string{"S"}, nil), keys([]string{"S"}, nil), keys([]string{"S"}, nil),
			},
			fires: 0,
			armed: true,
		},
		{
			name: "held then released once",
			ticks: []behave.Keyboard{
				keys([]string{"S"}, nil), keys([]string{"S"}, nil), keys(nil, []string{"S"}), keys(nil, nil),
			},
			fires: 1,
		},
		{
			name:  "release without press",
			ticks: []behave.Keyboard{keys(nil, []string{"S"}), keys(nil, nil)},
			fires: 0,
		},
		{
			name:  "unrelated release",
			ticks: []behave.Keyboard{keys([]string{"S"}, nil), keys(nil, []string{"T"})},
			fires: 0,
			armed: true,
		},
		{
			name: "two presses",
			ticks: []behave.Keyboard{
				keys([]string{"S"}, nil), keys(nil, []string{"S"}),
				keys([]string{"S"}, nil), keys(nil, []string{"S"}),
			},
			fires: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fired := 0
			o := behave.NewOnKeys(func(*behave.TickContext) error { fired++; return nil }, "S")
			s := scene.New(8, 8)
			for _, kb := range tt.ticks {
				ctx := newCtx(s)
				ctx.Keyboard = kb
				require.NoError(t, o.Behave(ctx))
			}
			assert.Equal(t, tt.fires, fired)
			assert.Equal(t, tt.armed, o.Armed())
		})
	}
}

func TestOnKeysCombination(t *testing.T) {
	fired := 0
	o := behave.NewOnKeys(func(*behave.TickContext) error { fired++; return nil }, "<ctrl>", "S")
	s := scene.New(8, 8)
	seq := []behave.Keyboard{
		keys([]string{"S"}, nil),
		keys(nil, []string{"S"}),
		keys([]string{"<ctrl>", "S"}, nil),
		keys([]string{"<ctrl>"}, []string{"S"}),
		keys(nil, []string{"<ctrl>"}),
	}
	for _, kb := range seq {
		ctx := newCtx(s)
		ctx.Keyboard = kb
		require.NoError(t, o.Behave(ctx))
	}
	assert.Equal(t, 1, fired)
}

func TestOnKeysActionError(t *testing.T) {
	boom := errors.New("boom")
	o := behave.NewOnKeys(func(*behave.TickContext) error { return boom }, "S")
	ctx := newCtx(scene.New(8, 8))
	ctx.Keyboard = keys([]string{"S"}, nil)
	require.NoError(t, o.Behave(ctx))
	ctx.Keyboard = keys(nil, []string{"S"})
	assert.ErrorIs(t, o.Behave(ctx), boom)
}

func TestOnKeysInstancesDoNotShareKeys(t *testing.T) {
	a := behave.NewSnapshotOnKey("a.png")
	b := behave.NewSnapshotOnKey("b.png")
	a.Keys().Add("X")
	assert.Equal(t, behave.NewKeySet("S"), a.Keys())
	assert.Equal(t, behave.NewKeySet("S"), b.Keys())
}

func press(t *testing.T, b behave.Behaviour, s *scene.Scene, key string) {
	t.Helper()
	ctx := newCtx(s)
	ctx.Keyboard = keys([]string{key}, nil)
	require.NoError(t, b.Behave(ctx))
	ctx = newCtx(s)
	ctx.Keyboard = keys(nil, []string{key})
	require.NoError(t, b.Behave(ctx))
}

func TestSnapshotOnKey(t *testing.T) {
	dir := t.TempDir()
	s := scene.New(16, 16)
	s.Background = color.RGBA{10, 20, 30, 255}
	snap := behave.NewSnapshotOnKey(filepath.Join(dir, "snap_%d.png"))

	press(t, snap, s, "S")
	press(t, snap, s, "S")
	assert.Equal(t, 2, snap.Saved())

	img, err := frames.Load(filepath.Join(dir, "snap_1.png"))
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{10, 20, 30, 255}, img.RGBAAt(0, 0))
}

func TestSnapshotWithoutFrame(t *testing.T) {
	snap := behave.NewSnapshotOnKey("x.png")
	ctx := behave.NewTickContext(scene.New(8, 8), nil)
	ctx.Keyboard = keys([]string{"S"}, nil)
	require.NoError(t, snap.Behave(ctx))
	ctx.Keyboard = keys(nil, []string{"S"})
	assert.ErrorIs(t, snap.Behave(ctx), behave.ErrNoFrame)
}

func TestPrintCameraOnKey(t *testing.T) {
	var buf bytes.Buffer
	s := scene.New(8, 8)
	p := behave.NewPrintCameraOnKey(&buf)
	press(t, p, s, "C")
	assert.Contains(t, buf.String(), "position: [-2, -2, -2]")
	assert.Contains(t, buf.String(), "up: [0, 0, 1]")
}

func TestSortTrianglesOnKey(t *testing.T) {
	s := scene.New(8, 8)
	near := [3]mgl64.Vec3{{-1, -1, -1}, {-1, -1, -0.9}, {-1, -0.9, -1}}
	far := [3]mgl64.Vec3{{1, 1, 1}, {1, 1, 0.9}, {1, 0.9, 1}}
	mesh, err := scene.NewMesh([][3]mgl64.Vec3{near, far}, []color.RGBA{{A: 255}})
	require.NoError(t, err)
	s.Add(mesh)

	press(t, behave.NewSortTrianglesOnKey(), s, "T")
	assert.Equal(t, far, mesh.Triangles[0])
	assert.Equal(t, near, mesh.Triangles[1])
}

func TestMouseRotate(t *testing.T) {
	s := scene.New(100, 100)
	m := behave.NewMouseRotate()

	ctx := newCtx(s)
	ctx.Mouse = behave.Mouse{X: 10, Y: 10, LeftPressed: true}
	require.NoError(t, m.Behave(ctx))
	assert.True(t, m.Dragging())
	assert.Equal(t, mgl64.Ident4(), s.Rotation)

	ctx = newCtx(s)
	ctx.Mouse = behave.Mouse{X: 60, Y: 10, LeftPressed: true}
	require.NoError(t, m.Behave(ctx))
	assert.True(t, ctx.Refresh())
	assert.Greater(t, matDist(mgl64.Ident4(), s.Rotation), 1e-6)
	// half a viewport is a quarter turn, which keeps rotations orthonormal
	assert.InDelta(t, 1, s.Rotation.Det(), 1e-9)

	ctx = newCtx(s)
	require.NoError(t, m.Behave(ctx))
	assert.False(t, m.Dragging())
	assert.False(t, ctx.Refresh())
}

func TestMouseZoom(t *testing.T) {
	s := scene.New(8, 8)
	s.CameraPosition = mgl64.Vec3{0, 0, 10}
	s.CameraTarget = mgl64.Vec3{}
	z := behave.NewMouseZoom(2)

	ctx := newCtx(s)
	require.NoError(t, z.Behave(ctx))
	assert.False(t, ctx.Refresh())

	ctx = newCtx(s)
	ctx.Mouse.Wheel = 1
	require.NoError(t, z.Behave(ctx))
	assert.True(t, ctx.Refresh())
	assertVec(t, mgl64.Vec3{0, 0, 8}, s.CameraPosition)

	ctx.Mouse.Wheel = -3
	require.NoError(t, z.Behave(ctx))
	assertVec(t, mgl64.Vec3{0, 0, 14}, s.CameraPosition)
	assert.Equal(t, 1.0, behave.NewMouseZoom(0).Delta)
}

func TestLightToCamera(t *testing.T) {
	s := scene.New(8, 8)
	l := behave.NewLightToCamera(mgl64.Vec3{-1, -1, 0})

	ctx := newCtx(s)
	require.NoError(t, l.Behave(ctx))
	assert.True(t, ctx.Refresh())
	assertVec(t, s.CameraPosition.Add(mgl64.Vec3{-1, -1, 0}), s.Light)

	ctx = newCtx(s)
	require.NoError(t, l.Behave(ctx))
	assert.False(t, ctx.Refresh())

	// camera at the origin: a rounding residue on a zero component is not a move
	s.CameraPosition = mgl64.Vec3{}
	s.Light = mgl64.Vec3{-1, -1, 1e-12}
	ctx = newCtx(s)
	require.NoError(t, l.Behave(ctx))
	assert.False(t, ctx.Refresh())
	assert.Equal(t, 1e-12, s.Light[2])
}

func TestSceneInitError(t *testing.T) {
	boom := errors.New("boom")
	ctx := newCtx(scene.New(8, 8))
	err := behave.NewSceneInit(func(*scene.Scene) error { return boom }).Behave(ctx)
	assert.ErrorIs(t, err, boom)
	assert.False(t, ctx.Done)
}

func TestSaveFrames(t *testing.T) {
	_, err := behave.NewSaveFrames("x.png", 0)
	assert.ErrorIs(t, err, behave.ErrBadInterval)
	assert.Contains(t, err.Error(), "behave: ")

	dir := t.TempDir()
	s := scene.New(8, 8)
	sf, err := behave.NewSaveFrames(filepath.Join(dir, "frame_%03d.png"), 2)
	require.NoError(t, err)

	for range 5 {
		require.NoError(t, sf.Behave(newCtx(s)))
	}
	assert.Equal(t, 2, sf.Saved())
	assert.FileExists(t, filepath.Join(dir, "frame_001.png"))
	assert.FileExists(t, filepath.Join(dir, "frame_003.png"))
	assert.NoFileExists(t, filepath.Join(dir, "frame_000.png"))
	assert.NoFileExists(t, filepath.Join(dir, "frame_004.png"))
}

func TestSaveGif(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "anim.gif")
	s := scene.New(8, 8)
	g, err := behave.NewSaveGif(path, 1, 5)
	require.NoError(t, err)

	for i := range 3 {
		ctx := newCtx(s)
		ctx.LastCall = i == 2
		require.NoError(t, g.Behave(ctx))
		if i < 2 {
			assert.NoFileExists(t, path)
		}
	}
	assert.Equal(t, 3, g.Frames())
	assert.FileExists(t, path)
}
