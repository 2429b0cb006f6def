// Package export writes scenes as SVG: the renderables drawn through the
// scene camera, plus world-space paths such as sampled trajectories or the
// camera track of a recorded render.
package export

import (
	"fmt"
	"html"
	"image/color"
	"math"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/vizanim/internal/scene"
)

// Path is a world-space polyline overlaid on the scene.
type Path struct {
	Points []mgl64.Vec3
	Color  color.RGBA
	Label  string
}

type shape struct {
	depth float64
	elem  string
}

// vectorDrawer is a scene.Drawer that collects SVG elements with their
// depth so they can be painted back to front.
type vectorDrawer struct {
	vp     scene.Viewport
	shapes []shape
}

func (d *vectorDrawer) Point(p mgl64.Vec3, radius float64, c color.RGBA) {
	x, y, z, ok := d.vp.Project(p)
	if !ok {
		return
	}
	r := math.Max(d.vp.Radius(p, radius), 0.5)
	d.shapes = append(d.shapes, shape{z, fmt.Sprintf(
		`<circle cx="%.1f" cy="%.1f" r="%.1f"%s/>`, x, y, r, paint("fill", c))})
}

func (d *vectorDrawer) Line(a, b mgl64.Vec3, c color.RGBA) {
	ax, ay, az, ok1 := d.vp.Project(a)
	bx, by, bz, ok2 := d.vp.Project(b)
	if !ok1 || !ok2 {
		return
	}
	d.shapes = append(d.shapes, shape{math.Min(az, bz), fmt.Sprintf(
		`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"%s/>`, ax, ay, bx, by, paint("stroke", c))})
}

func (d *vectorDrawer) Triangle(a, b, c mgl64.Vec3, col color.RGBA) {
	ax, ay, az, ok1 := d.vp.Project(a)
	bx, by, bz, ok2 := d.vp.Project(b)
	cx, cy, cz, ok3 := d.vp.Project(c)
	if !ok1 || !ok2 || !ok3 {
		return
	}
	d.shapes = append(d.shapes, shape{(az + bz + cz) / 3, fmt.Sprintf(
		`<polygon points="%.1f,%.1f %.1f,%.1f %.1f,%.1f"%s/>`, ax, ay, bx, by, cx, cy, paint("fill", col))})
}

// SceneSVG draws s from its camera at its frame size, then the paths on top.
// Shapes are painted furthest first.
func SceneSVG(s *scene.Scene, paths ...Path) string {
	w, h := s.Size()
	d := &vectorDrawer{vp: scene.NewViewport(s)}
	s.Draw(d)
	sort.SliceStable(d.shapes, func(i, j int) bool { return d.shapes[i].depth > d.shapes[j].depth })

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%"%s/>
<g id="scene">
`, w, h, w, h, paint("fill", s.Background))
	for _, sh := range d.shapes {
		sb.WriteString(sh.elem)
		sb.WriteByte('\n')
	}
	sb.WriteString("</g>\n")

	for _, p := range paths {
		writePath(&sb, d.vp, p)
	}
	sb.WriteString("</svg>")
	return sb.String()
}

// writePath writes p as polylines. Points behind the near plane split the
// path; the first visible point gets a start marker.
func writePath(sb *strings.Builder, vp scene.Viewport, p Path) {
	var runs [][]string
	var cur []string
	marked := false
	var mx, my float64
	for _, pt := range p.Points {
		x, y, _, ok := vp.Project(pt)
		if !ok {
			if len(cur) > 0 {
				runs = append(runs, cur)
				cur = nil
			}
			continue
		}
		if !marked {
			mx, my, marked = x, y, true
		}
		cur = append(cur, fmt.Sprintf("%.1f,%.1f", x, y))
	}
	if len(cur) > 0 {
		runs = append(runs, cur)
	}
	if !marked {
		return
	}

	fmt.Fprintf(sb, "<g class=\"path\">\n<title>%s</title>\n", html.EscapeString(p.Label))
	for _, run := range runs {
		if len(run) < 2 {
			continue
		}
		fmt.Fprintf(sb, "<polyline points=\"%s\" fill=\"none\" stroke-width=\"1.5\"%s/>\n",
			strings.Join(run, " "), paint("stroke", p.Color))
	}
	fmt.Fprintf(sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"3\"%s/>\n</g>\n", mx, my, paint("fill", p.Color))
}

// Fit aims the camera of s at the paths from above and to the side, far
// enough that their bounding sphere fits the field of view.
func Fit(s *scene.Scene, paths ...Path) {
	lo := mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	n := 0
	for _, p := range paths {
		for _, pt := range p.Points {
			for i := range pt {
				lo[i], hi[i] = math.Min(lo[i], pt[i]), math.Max(hi[i], pt[i])
			}
			n++
		}
	}
	if n == 0 {
		return
	}

	center := lo.Add(hi).Mul(0.5)
	radius := math.Max(hi.Sub(lo).Len()/2, 1e-3)
	dist := radius / math.Sin(mgl64.DegToRad(s.FOV)/2) * 1.1
	s.CameraTarget = center
	s.CameraPosition = center.Add(mgl64.Vec3{-1, -1, 1}.Normalize().Mul(dist))
	s.Up = mgl64.Vec3{0, 0, 1}
	s.Rotation = mgl64.Ident4()
	s.Far = math.Max(s.Far, dist+2*radius)
}

// paint returns the fill or stroke attributes for c. Translucent colors get
// an opacity attribute.
func paint(attr string, c color.RGBA) string {
	col, ok := colorful.MakeColor(c)
	if !ok {
		return fmt.Sprintf(` %s="none"`, attr)
	}
	out := fmt.Sprintf(` %s="%s"`, attr, col.Hex())
	if c.A < 255 {
		out += fmt.Sprintf(` %s-opacity="%.2f"`, attr, float64(c.A)/255)
	}
	return out
}
