package scene

import (
	"image/color"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var red = color.RGBA{255, 0, 0, 255}

func assertVec(t *testing.T, want, got mgl64.Vec3) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-9, "component %d of %v", i, got)
	}
}

func TestSceneAddRemove(t *testing.T) {
	s := New(64, 32)
	w, h := s.Size()
	assert.Equal(t, 64, w)
	assert.Equal(t, 32, h)

	a := NewAxes(1)
	b := NewCube(1, red)
	s.Add(a)
	s.Add(a)
	s.Add(b)
	require.Len(t, s.Renderables(), 2)

	assert.True(t, s.Remove(a))
	assert.False(t, s.Remove(a))
	assert.Equal(t, []Renderable{b}, s.Renderables())

	s.Clear()
	assert.Empty(t, s.Renderables())
}

func TestSceneDefaults(t *testing.T) {
	s := New(0, 0)
	w, h := s.Size()
	assert.Equal(t, DefaultWidth, w)
	assert.Equal(t, DefaultHeight, h)
	assert.Equal(t, mgl64.Vec3{0, 0, 1}, s.Up)
	assert.Equal(t, mgl64.Ident4(), s.Rotation)
}

func TestSceneRotate(t *testing.T) {
	s := New(10, 10)
	s.RotateZ(math.Pi / 2)
	p := mgl64.TransformCoordinate(mgl64.Vec3{1, 0, 0}, s.Rotation)
	assertVec(t, mgl64.Vec3{0, 1, 0}, p)

	s.RotateZ(-math.Pi / 2)
	want := mgl64.Ident4()
	for i := range want {
		assert.InDelta(t, want[i], s.Rotation[i], 1e-9, "element %d", i)
	}
}

func TestTransform(t *testing.T) {
	tr := NewTransform()
	tr.SetOffset(mgl64.Vec3{0, 0, 1})
	tr.RotateAxis(mgl64.Vec3{0, 0, 2}, math.Pi/2)
	p := tr.Apply(mgl64.Vec3{1, 0, 0})
	assertVec(t, mgl64.Vec3{0, 1, 1}, p)

	before := tr.ModelMatrix()
	tr.RotateAxis(mgl64.Vec3{}, 1)
	assert.Equal(t, before, tr.ModelMatrix())
}

func TestCapabilities(t *testing.T) {
	var r Renderable = NewCube(1, red)
	_, ok := r.(TriangleSorter)
	assert.True(t, ok)
	_, ok = r.(AxisRotator)
	assert.True(t, ok)

	sc, err := NewSpherecloud([]mgl64.Vec3{{}}, []color.RGBA{red}, []float64{1})
	require.NoError(t, err)
	r = sc
	_, ok = r.(TriangleSorter)
	assert.False(t, ok)
}

func TestSortTriangles(t *testing.T) {
	near := [3]mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	far := [3]mgl64.Vec3{{0, 0, 10}, {1, 0, 10}, {0, 1, 10}}
	glass := color.RGBA{0, 0, 255, 100}
	m, err := NewMesh([][3]mgl64.Vec3{near, far, near}, []color.RGBA{red, red, glass})
	require.NoError(t, err)

	m.SortTriangles(mgl64.Vec3{0, 0, -5})
	assert.Equal(t, glass, m.Colors[0])
	assert.Equal(t, far, m.Triangles[1])
	assert.Equal(t, near, m.Triangles[2])
}

func TestBroadcastErrors(t *testing.T) {
	_, err := NewSpherecloud(make([]mgl64.Vec3, 3), make([]color.RGBA, 2), []float64{1})
	assert.Error(t, err)
	_, err = NewLines(make([]mgl64.Vec3, 3), []color.RGBA{red})
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	s := New(64, 64)
	sc, err := NewSpherecloud([]mgl64.Vec3{{}}, []color.RGBA{red}, []float64{0.5})
	require.NoError(t, err)
	s.Add(sc)

	img := Render(s)
	assert.Equal(t, 64, img.Rect.Dx())
	assert.Equal(t, 64, img.Rect.Dy())

	center := img.RGBAAt(32, 32)
	assert.Greater(t, center.R, uint8(200))
	assert.Less(t, center.G, uint8(50))
	assert.Equal(t, s.Background, img.RGBAAt(0, 0))

	sc.SetOffset(mgl64.Vec3{0, 0, -100})
	img = Render(s)
	assert.Equal(t, s.Background, img.RGBAAt(32, 32))
}

func TestRenderSphereAtCamera(t *testing.T) {
	s := New(64, 64)
	dir := s.CameraTarget.Sub(s.CameraPosition).Normalize()
	sc, err := NewSpherecloud([]mgl64.Vec3{s.CameraPosition.Add(dir.Mul(0.2))}, []color.RGBA{red}, []float64{0.1})
	require.NoError(t, err)
	s.Add(sc)

	// fills the frame, drawing stays inside the image
	img := Render(s)
	assert.Greater(t, img.RGBAAt(32, 32).R, uint8(100))
	assert.Less(t, img.RGBAAt(32, 32).G, uint8(50))

	// closer than the near plane: culled
	sc.Centers[0] = s.CameraPosition.Add(dir.Mul(0.001))
	start := time.Now()
	img = Render(s)
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, s.Background, img.RGBAAt(32, 32))

	c := NewCanvas(40, 20)
	c.Frame(s)
	start = time.Now()
	s.Draw(c)
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, rune(blankCell), c.Grid[10][20])
}

func TestCanvas(t *testing.T) {
	s := New(40, 20)
	s.Add(NewAxes(1))
	c := NewCanvas(40, 20)
	c.Frame(s)
	s.Draw(c)

	out := c.String()
	assert.Equal(t, 20, strings.Count(out, "\n"))
	assert.NotEqual(t, strings.Repeat(string(rune(blankCell)), 40), strings.Split(out, "\n")[10])

	c.Clear()
	for _, row := range c.Grid {
		for _, r := range row {
			assert.Equal(t, rune(blankCell), r)
		}
	}
}
