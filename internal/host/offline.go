package host

import (
	"context"
	"fmt"
	"image"

	"github.com/rs/zerolog/log"

	"github.com/san-kum/vizanim/internal/behave"
	"github.com/san-kum/vizanim/internal/scene"
)

// Offline renders frames frames of s, ticking d once per frame. The frame
// handed to behaviours is the scene as it was before the pass; it is only
// re-rendered after a pass that requested a repaint. The last frame is
// ticked with LastCall set, which leaves d empty.
func Offline(ctx context.Context, s *scene.Scene, d *behave.Dispatcher, frames int) error {
	if frames <= 0 {
		return fmt.Errorf("offline: frame count must be positive, got %d", frames)
	}

	var img *image.RGBA
	dirty := true
	for i := range frames {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("offline: stopped at frame %d: %w", i, err)
		}
		if dirty {
			img = scene.Render(s)
		}
		frame := img

		tc := behave.NewTickContext(s, func() (*image.RGBA, error) { return frame, nil })
		tc.LastCall = i == frames-1
		refresh, err := d.Pass(tc)
		if err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		dirty = refresh
		if i%100 == 0 {
			log.Debug().Int("frame", i).Int("behaviours", d.Len()).Bool("refresh", refresh).Msg("offline")
		}
	}
	log.Debug().Int("frames", frames).Msg("offline render finished")
	return nil
}
