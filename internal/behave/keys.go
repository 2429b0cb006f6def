package behave

import (
	"fmt"
	"io"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog/log"

	"github.com/san-kum/vizanim/internal/frames"
	"github.com/san-kum/vizanim/internal/scene"
)

// OnKeys fires an action once per press-and-release of a key combination.
//
// The combination becomes armed on a tick where every key of it is down, and
// fires on a later tick where the combination is no longer fully down and at
// least one of its keys was released. Firing disarms it, so holding the keys
// produces a single firing on release.
type OnKeys struct {
	keys   KeySet
	armed  bool
	action func(ctx *TickContext) error
}

// NewOnKeys returns a behaviour running action on release of keys. Each call
// builds its own key set.
func NewOnKeys(action func(ctx *TickContext) error, keys ...string) *OnKeys {
	return &OnKeys{keys: NewKeySet(keys...), action: action}
}

func (o *OnKeys) Behave(ctx *TickContext) error {
	if ctx.Keyboard.Down.ContainsAll(o.keys) {
		o.armed = true
		return nil
	}
	if o.armed && ctx.Keyboard.Up.Intersects(o.keys) {
		o.armed = false
		return o.action(ctx)
	}
	return nil
}

// Keys returns a copy of the combination.
func (o *OnKeys) Keys() KeySet { return o.keys.Clone() }

// Armed reports whether the combination has been fully pressed and not yet
// released.
func (o *OnKeys) Armed() bool { return o.armed }

// SnapshotOnKey saves the current frame each time its keys are released.
// Files are named from Pattern and a counter starting at zero.
type SnapshotOnKey struct {
	*OnKeys
	Pattern string
	n       int
}

// NewSnapshotOnKey defaults to the "S" key.
func NewSnapshotOnKey(pattern string, keys ...string) *SnapshotOnKey {
	if len(keys) == 0 {
		keys = []string{"S"}
	}
	s := &SnapshotOnKey{Pattern: pattern}
	s.OnKeys = NewOnKeys(s.snapshot, keys...)
	return s
}

func (s *SnapshotOnKey) snapshot(ctx *TickContext) error {
	if ctx.Frame == nil {
		return ErrNoFrame
	}
	img, err := ctx.Frame()
	if err != nil {
		return err
	}
	path := frames.Format(s.Pattern, s.n)
	if err := frames.Save(path, img); err != nil {
		return err
	}
	s.n++
	log.Info().Str("path", path).Msg("snapshot saved")
	return nil
}

// Saved returns the number of snapshots written.
func (s *SnapshotOnKey) Saved() int { return s.n }

// PrintCameraOnKey writes the camera and light state when its keys are
// released, in a form that can be pasted into a scene config.
type PrintCameraOnKey struct {
	*OnKeys
	Out io.Writer
}

// NewPrintCameraOnKey defaults to the "C" key and standard output.
func NewPrintCameraOnKey(out io.Writer, keys ...string) *PrintCameraOnKey {
	if len(keys) == 0 {
		keys = []string{"C"}
	}
	if out == nil {
		out = os.Stdout
	}
	p := &PrintCameraOnKey{Out: out}
	p.OnKeys = NewOnKeys(p.print, keys...)
	return p
}

func (p *PrintCameraOnKey) print(ctx *TickContext) error {
	s := ctx.Scene
	_, err := fmt.Fprintf(p.Out,
		"camera:\n  position: %s\n  target: %s\n  up: %s\nlight: %s\n",
		vec(s.CameraPosition), vec(s.CameraTarget), vec(s.Up), vec(s.Light))
	return err
}

func vec(v mgl64.Vec3) string {
	return fmt.Sprintf("[%g, %g, %g]", v[0], v[1], v[2])
}

// SortTrianglesOnKey reorders mesh triangles back to front from the current
// camera position when its keys are released.
type SortTrianglesOnKey struct {
	*OnKeys
}

// NewSortTrianglesOnKey defaults to the "T" key.
func NewSortTrianglesOnKey(keys ...string) *SortTrianglesOnKey {
	if len(keys) == 0 {
		keys = []string{"T"}
	}
	return &SortTrianglesOnKey{OnKeys: NewOnKeys(sortTriangles, keys...)}
}

func sortTriangles(ctx *TickContext) error {
	sorted := false
	for _, r := range ctx.Scene.Renderables() {
		if ts, ok := r.(scene.TriangleSorter); ok {
			ts.SortTriangles(ctx.Scene.CameraPosition)
			sorted = true
		}
	}
	ctx.RequestRefresh(sorted)
	return nil
}
