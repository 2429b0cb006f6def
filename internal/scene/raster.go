package scene

import (
	"image"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Raster is a software Drawer with a depth buffer. It produces the frame a
// host hands to behaviours.
type Raster struct {
	img   *image.RGBA
	depth []float64
	proj  projector
	light mgl64.Vec3
}

// NewRaster clears a frame of the scene's size to its background color.
func NewRaster(s *Scene) *Raster {
	w, h := s.Size()
	r := &Raster{
		img:   image.NewRGBA(image.Rect(0, 0, w, h)),
		depth: make([]float64, w*h),
		proj:  newProjector(s, w, h),
		light: s.Light,
	}
	for i := range r.depth {
		r.depth[i] = math.Inf(1)
	}
	bg := s.Background
	for i := 0; i < len(r.img.Pix); i += 4 {
		r.img.Pix[i], r.img.Pix[i+1], r.img.Pix[i+2], r.img.Pix[i+3] = bg.R, bg.G, bg.B, bg.A
	}
	return r
}

// Render draws the whole scene and returns the frame, top row first.
func Render(s *Scene) *image.RGBA {
	r := NewRaster(s)
	s.Draw(r)
	return r.Image()
}

func (r *Raster) Image() *image.RGBA { return r.img }

func (r *Raster) Point(p mgl64.Vec3, radius float64, c color.RGBA) {
	x, y, z, w, ok := r.proj.project(p)
	if !ok {
		return
	}
	rad := math.Max(r.proj.pixelRadius(radius, w), 0.5)
	x0, x1 := span(x, rad, r.img.Rect.Dx())
	y0, y1 := span(y, rad, r.img.Rect.Dy())
	for py := y0; py <= y1; py++ {
		for px := x0; px <= x1; px++ {
			dx, dy := (float64(px)+0.5-x)/rad, (float64(py)+0.5-y)/rad
			d2 := dx*dx + dy*dy
			if d2 > 1 {
				continue
			}
			nz := math.Sqrt(1 - d2)
			r.plot(px, py, z-nz*1e-4, shade(c, 0.35+0.65*nz))
		}
	}
}

func (r *Raster) Line(a, b mgl64.Vec3, c color.RGBA) {
	ax, ay, az, _, ok1 := r.proj.project(a)
	bx, by, bz, _, ok2 := r.proj.project(b)
	if !ok1 || !ok2 {
		return
	}
	x0, y0, x1, y1 := int(ax), int(ay), int(bx), int(by)
	steps := max(absInt(x1-x0), absInt(y1-y0), 1)
	bresenham(x0, y0, x1, y1, func(x, y, i int) {
		t := float64(i) / float64(steps)
		r.plot(x, y, az+(bz-az)*t, c)
	})
}

func (r *Raster) Triangle(a, b, c mgl64.Vec3, col color.RGBA) {
	ax, ay, az, _, ok1 := r.proj.project(a)
	bx, by, bz, _, ok2 := r.proj.project(b)
	cx, cy, cz, _, ok3 := r.proj.project(c)
	if !ok1 || !ok2 || !ok3 {
		return
	}

	area := (bx-ax)*(cy-ay) - (by-ay)*(cx-ax)
	if area == 0 {
		return
	}

	n := b.Sub(a).Cross(c.Sub(a))
	center := a.Add(b).Add(c).Mul(1.0 / 3)
	intensity := 0.3
	if n.Len() > 0 {
		intensity += 0.7 * math.Abs(n.Normalize().Dot(r.light.Sub(center).Normalize()))
	}
	shaded := shade(col, intensity)

	minX := int(math.Max(0, math.Floor(math.Min(ax, math.Min(bx, cx)))))
	maxX := int(math.Min(float64(r.img.Rect.Dx()-1), math.Ceil(math.Max(ax, math.Max(bx, cx)))))
	minY := int(math.Max(0, math.Floor(math.Min(ay, math.Min(by, cy)))))
	maxY := int(math.Min(float64(r.img.Rect.Dy()-1), math.Ceil(math.Max(ay, math.Max(by, cy)))))

	for py := minY; py <= maxY; py++ {
		for px := minX; px <= maxX; px++ {
			fx, fy := float64(px)+0.5, float64(py)+0.5
			w0 := ((bx-fx)*(cy-fy) - (by-fy)*(cx-fx)) / area
			w1 := ((cx-fx)*(ay-fy) - (cy-fy)*(ax-fx)) / area
			w2 := 1 - w0 - w1
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			r.plot(px, py, w0*az+w1*bz+w2*cz, shaded)
		}
	}
}

// plot depth-tests and alpha-blends c into the frame. Translucent colors do
// not write depth.
func (r *Raster) plot(x, y int, z float64, c color.RGBA) {
	w, h := r.img.Rect.Dx(), r.img.Rect.Dy()
	if x < 0 || y < 0 || x >= w || y >= h || z < -1 || z > 1 {
		return
	}
	idx := y*w + x
	if z >= r.depth[idx] {
		return
	}
	off := r.img.PixOffset(x, y)
	if c.A == 255 {
		r.depth[idx] = z
		r.img.Pix[off], r.img.Pix[off+1], r.img.Pix[off+2], r.img.Pix[off+3] = c.R, c.G, c.B, 255
		return
	}
	a := float64(c.A) / 255
	for i, v := range [3]uint8{c.R, c.G, c.B} {
		r.img.Pix[off+i] = uint8(float64(v)*a + float64(r.img.Pix[off+i])*(1-a))
	}
	r.img.Pix[off+3] = uint8(math.Min(255, float64(c.A)+float64(r.img.Pix[off+3])*(1-a)))
}

func shade(c color.RGBA, k float64) color.RGBA {
	k = math.Max(0, math.Min(1, k))
	return color.RGBA{uint8(float64(c.R) * k), uint8(float64(c.G) * k), uint8(float64(c.B) * k), c.A}
}

// bresenham walks the integer line from (x0, y0) to (x1, y1) and calls fn
// with each pixel and its step index.
func bresenham(x0, y0, x1, y1 int, fn func(x, y, i int)) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for i := 0; ; i++ {
		fn(x0, y0, i)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
