// Package frames saves rendered frames to disk as still images or animated
// GIFs.
package frames

import (
	"errors"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"
)

// ErrNoFrames is returned when encoding an empty animation.
var ErrNoFrames = errors.New("frames: no frames to encode")

// Save writes img to path, picking the encoder from the file extension
// (.png, .jpg/.jpeg). Unknown extensions are written as PNG.
func Save(path string, img image.Image) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	if err := imgio.Save(path, img, encoderFor(path)); err != nil {
		return fmt.Errorf("save frame %s: %w", path, err)
	}
	return nil
}

func encoderFor(path string) imgio.Encoder {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return imgio.JPEGEncoder(95)
	default:
		return imgio.PNGEncoder()
	}
}

// Load reads an image file into an RGBA buffer.
func Load(path string) (*image.RGBA, error) {
	img, err := imgio.Open(path)
	if err != nil {
		return nil, err
	}
	return clone.AsRGBA(img), nil
}

// TopDown converts an image into an RGBA buffer with the top row first.
// bottomUp marks sources whose first row is the bottom of the picture, as
// read back from OpenGL framebuffers.
func TopDown(img image.Image, bottomUp bool) *image.RGBA {
	if bottomUp {
		return transform.FlipV(img)
	}
	return clone.AsRGBA(img)
}

// Format expands a frame path pattern with its index. Patterns may use a
// printf verb ("frame_%03d.png"); without one the index is inserted before
// the extension.
func Format(pattern string, i int) string {
	if strings.Contains(pattern, "%") {
		return fmt.Sprintf(pattern, i)
	}
	ext := filepath.Ext(pattern)
	return fmt.Sprintf("%s_%d%s", strings.TrimSuffix(pattern, ext), i, ext)
}

// GIF accumulates frames for an animated GIF.
type GIF struct {
	// Delay between frames in 100ths of a second.
	Delay  int
	frames []*image.Paletted
}

func NewGIF(delay int) *GIF {
	if delay <= 0 {
		delay = 4
	}
	return &GIF{Delay: delay}
}

// Add quantizes img to the Plan9 palette and appends it.
func (g *GIF) Add(img image.Image) {
	b := img.Bounds()
	p := image.NewPaletted(image.Rect(0, 0, b.Dx(), b.Dy()), palette.Plan9)
	draw.FloydSteinberg.Draw(p, p.Rect, img, b.Min)
	g.frames = append(g.frames, p)
}

func (g *GIF) Len() int { return len(g.frames) }

func (g *GIF) Encode(w io.Writer) error {
	if len(g.frames) == 0 {
		return ErrNoFrames
	}
	anim := gif.GIF{LoopCount: 0}
	for _, f := range g.frames {
		anim.Image = append(anim.Image, f)
		anim.Delay = append(anim.Delay, g.Delay)
	}
	return gif.EncodeAll(w, &anim)
}

// Save encodes the animation to path.
func (g *GIF) Save(path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := g.Encode(f); err != nil {
		f.Close()
		return fmt.Errorf("encode gif %s: %w", path, err)
	}
	return f.Close()
}

func ensureDir(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}
