package scene

import (
	"fmt"
	"image/color"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// Spherecloud is a set of spheres with per-sphere color and size.
type Spherecloud struct {
	Transform
	Centers []mgl64.Vec3
	Colors  []color.RGBA
	Sizes   []float64
}

// NewSpherecloud accepts either one color/size for every sphere or one per
// center.
func NewSpherecloud(centers []mgl64.Vec3, colors []color.RGBA, sizes []float64) (*Spherecloud, error) {
	n := len(centers)
	cs, err := broadcast(colors, n, "colors")
	if err != nil {
		return nil, err
	}
	ss, err := broadcast(sizes, n, "sizes")
	if err != nil {
		return nil, err
	}
	return &Spherecloud{Transform: NewTransform(), Centers: centers, Colors: cs, Sizes: ss}, nil
}

func (s *Spherecloud) Draw(d Drawer) {
	for i, c := range s.Centers {
		d.Point(s.Apply(c), s.Sizes[i], s.Colors[i])
	}
}

// Lines draws independent segments: points 2k and 2k+1 form segment k.
type Lines struct {
	Transform
	Points []mgl64.Vec3
	Colors []color.RGBA
}

func NewLines(points []mgl64.Vec3, colors []color.RGBA) (*Lines, error) {
	if len(points)%2 != 0 {
		return nil, fmt.Errorf("lines: odd number of points (%d)", len(points))
	}
	cs, err := broadcast(colors, len(points)/2, "colors")
	if err != nil {
		return nil, err
	}
	return &Lines{Transform: NewTransform(), Points: points, Colors: cs}, nil
}

func (l *Lines) Draw(d Drawer) {
	for i := 0; i+1 < len(l.Points); i += 2 {
		d.Line(l.Apply(l.Points[i]), l.Apply(l.Points[i+1]), l.Colors[i/2])
	}
}

// Mesh is a triangle soup with one color per triangle.
type Mesh struct {
	Transform
	Triangles [][3]mgl64.Vec3
	Colors    []color.RGBA
}

func NewMesh(triangles [][3]mgl64.Vec3, colors []color.RGBA) (*Mesh, error) {
	cs, err := broadcast(colors, len(triangles), "colors")
	if err != nil {
		return nil, err
	}
	return &Mesh{Transform: NewTransform(), Triangles: triangles, Colors: cs}, nil
}

func (m *Mesh) Draw(d Drawer) {
	for i, t := range m.Triangles {
		d.Triangle(m.Apply(t[0]), m.Apply(t[1]), m.Apply(t[2]), m.Colors[i])
	}
}

// SortTriangles orders the triangles so the first is the furthest from
// viewpoint. Translucent triangles are pushed behind opaque ones.
func (m *Mesh) SortTriangles(viewpoint mgl64.Vec3) {
	type keyed struct {
		tri [3]mgl64.Vec3
		col color.RGBA
		key float64
	}
	items := make([]keyed, len(m.Triangles))
	for i, t := range m.Triangles {
		center := t[0].Add(t[1]).Add(t[2]).Mul(1.0 / 3)
		d := viewpoint.Sub(m.Apply(center))
		key := d.Dot(d)
		if m.Colors[i].A < 255 {
			key += 1000
		}
		items[i] = keyed{t, m.Colors[i], key}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].key > items[j].key })
	for i, it := range items {
		m.Triangles[i] = it.tri
		m.Colors[i] = it.col
	}
}

// NewCube returns an axis-aligned cube mesh of the given edge length.
func NewCube(size float64, c color.RGBA) *Mesh {
	s := size / 2
	v := []mgl64.Vec3{
		{-s, -s, -s}, {s, -s, -s}, {s, s, -s}, {-s, s, -s},
		{-s, -s, s}, {s, -s, s}, {s, s, s}, {-s, s, s},
	}
	faces := [][4]int{
		{0, 3, 2, 1}, {4, 5, 6, 7}, {0, 1, 5, 4},
		{2, 3, 7, 6}, {1, 2, 6, 5}, {0, 4, 7, 3},
	}
	tris := make([][3]mgl64.Vec3, 0, 12)
	for _, f := range faces {
		tris = append(tris,
			[3]mgl64.Vec3{v[f[0]], v[f[1]], v[f[2]]},
			[3]mgl64.Vec3{v[f[0]], v[f[2]], v[f[3]]},
		)
	}
	m, _ := NewMesh(tris, []color.RGBA{c})
	return m
}

// NewAxes returns three colored segments of length l along x, y and z.
func NewAxes(l float64) *Lines {
	o := mgl64.Vec3{}
	ls, _ := NewLines(
		[]mgl64.Vec3{o, {l, 0, 0}, o, {0, l, 0}, o, {0, 0, l}},
		[]color.RGBA{{255, 0, 0, 255}, {0, 160, 0, 255}, {0, 0, 255, 255}},
	)
	return ls
}

func broadcast[T any](vs []T, n int, name string) ([]T, error) {
	switch len(vs) {
	case n:
		return vs, nil
	case 1:
		out := make([]T, n)
		for i := range out {
			out[i] = vs[0]
		}
		return out, nil
	}
	return nil, fmt.Errorf("%s: got %d values for %d elements", name, len(vs), n)
}
