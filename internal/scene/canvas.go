package scene

import (
	"image/color"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Braille cells hold 2x4 dots:
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blankCell = 0x2800

// Canvas is a monochrome braille Drawer for terminals. Its resolution in
// dots is (Width*2) x (Height*4).
type Canvas struct {
	Width, Height int
	Grid          [][]rune

	proj projector
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Frame clears the canvas and sets up the projection of s onto it.
func (c *Canvas) Frame(s *Scene) {
	c.Clear()
	c.proj = newProjector(s, c.Width*2, c.Height*4)
}

// Set lights the dot at (x, y) in dot coordinates.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blankCell
		}
	}
}

func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	bresenham(x0, y0, x1, y1, func(x, y, _ int) { c.Set(x, y) })
}

func (c *Canvas) Point(p mgl64.Vec3, radius float64, _ color.RGBA) {
	x, y, _, w, ok := c.proj.project(p)
	if !ok {
		return
	}
	rad := math.Floor(c.proj.pixelRadius(radius, w))
	cx, cy := math.Trunc(x), math.Trunc(y)
	x0, x1 := span(cx, rad, c.Width*2)
	y0, y1 := span(cy, rad, c.Height*4)
	for py := y0; py <= y1; py++ {
		for px := x0; px <= x1; px++ {
			dx, dy := float64(px)-cx, float64(py)-cy
			if dx*dx+dy*dy <= rad*rad {
				c.Set(px, py)
			}
		}
	}
}

func (c *Canvas) Line(a, b mgl64.Vec3, _ color.RGBA) {
	ax, ay, _, _, ok1 := c.proj.project(a)
	bx, by, _, _, ok2 := c.proj.project(b)
	if ok1 && ok2 {
		c.DrawLine(int(ax), int(ay), int(bx), int(by))
	}
}

// Triangle draws the outline only.
func (c *Canvas) Triangle(a, b, d mgl64.Vec3, col color.RGBA) {
	c.Line(a, b, col)
	c.Line(b, d, col)
	c.Line(d, a, col)
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}
