package behave

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/san-kum/vizanim/internal/frames"
)

// SaveFrames writes rendered frames to disk. Every tick advances the frame
// index; only every EveryN-th frame is written, named after the index it was
// rendered at.
type SaveFrames struct {
	Pattern string
	EveryN  int
	i       int
	saved   int
}

func NewSaveFrames(pattern string, everyN int) (*SaveFrames, error) {
	if everyN <= 0 {
		return nil, fmt.Errorf("%w: every %d frames", ErrBadInterval, everyN)
	}
	return &SaveFrames{Pattern: pattern, EveryN: everyN}, nil
}

func (s *SaveFrames) Behave(ctx *TickContext) error {
	path := frames.Format(s.Pattern, s.i)
	s.i++
	if s.i%s.EveryN != 0 {
		return nil
	}
	if ctx.Frame == nil {
		return ErrNoFrame
	}
	img, err := ctx.Frame()
	if err != nil {
		return err
	}
	if err := frames.Save(path, img); err != nil {
		return err
	}
	s.saved++
	return nil
}

// Saved returns the number of frames written.
func (s *SaveFrames) Saved() int { return s.saved }

// SaveGif collects every EveryN-th frame and writes them as one animated GIF
// on the last call.
type SaveGif struct {
	Path   string
	EveryN int
	gif    *frames.GIF
	i      int
}

// NewSaveGif uses delay in 100ths of a second between frames.
func NewSaveGif(path string, everyN, delay int) (*SaveGif, error) {
	if everyN <= 0 {
		return nil, fmt.Errorf("%w: every %d frames", ErrBadInterval, everyN)
	}
	return &SaveGif{Path: path, EveryN: everyN, gif: frames.NewGIF(delay)}, nil
}

func (g *SaveGif) Behave(ctx *TickContext) error {
	g.i++
	if g.i%g.EveryN == 0 {
		if ctx.Frame == nil {
			return ErrNoFrame
		}
		img, err := ctx.Frame()
		if err != nil {
			return err
		}
		g.gif.Add(img)
	}
	if !ctx.LastCall {
		return nil
	}
	if err := g.gif.Save(g.Path); err != nil {
		return err
	}
	log.Info().Str("path", g.Path).Int("frames", g.gif.Len()).Msg("gif saved")
	return nil
}

// Frames returns the number of collected frames.
func (g *SaveGif) Frames() int { return g.gif.Len() }
