package behave

import (
	"image"
	"slices"
	"strings"

	"github.com/san-kum/vizanim/internal/scene"
)

// Behaviour is ticked once per frame with the frame's context.
type Behaviour interface {
	Behave(ctx *TickContext) error
}

// BehaviourFunc adapts a function to the Behaviour interface.
type BehaviourFunc func(ctx *TickContext) error

func (f BehaviourFunc) Behave(ctx *TickContext) error { return f(ctx) }

// FrameFunc returns the currently rendered frame, top row first. It may be
// expensive and is only called by behaviours that need pixels.
type FrameFunc func() (*image.RGBA, error)

// Mouse is the pointer state for one tick.
type Mouse struct {
	X, Y          float64
	LeftPressed   bool
	MiddlePressed bool
	RightPressed  bool
	// Wheel accumulates wheel movement since the previous tick; the sign
	// gives the direction.
	Wheel float64
}

// Keyboard is the key state for one tick. Down holds the keys that are down
// this tick and Up the keys released since the previous tick.
type Keyboard struct {
	Down KeySet
	Up   KeySet
}

// NewKeyboard returns a keyboard snapshot with empty sets.
func NewKeyboard() Keyboard {
	return Keyboard{Down: NewKeySet(), Up: NewKeySet()}
}

// TickContext is built by the host once per frame and shared by every
// behaviour of the pass. Behaviours must not keep it after Behave returns.
type TickContext struct {
	Scene    *scene.Scene
	Frame    FrameFunc
	Mouse    Mouse
	Keyboard Keyboard

	// LastCall is set on the final tick of a bounded run.
	LastCall bool

	// StopPropagation ends the pass after the current behaviour.
	StopPropagation bool
	// Done removes the current behaviour after the pass. The dispatcher
	// resets it after every behaviour.
	Done bool

	refresh bool
}

// NewTickContext returns a context with empty input snapshots.
func NewTickContext(s *scene.Scene, frame FrameFunc) *TickContext {
	return &TickContext{Scene: s, Frame: frame, Keyboard: NewKeyboard()}
}

// RequestRefresh asks the host to repaint. Requests accumulate: once any
// behaviour asks for a repaint, later false values do not cancel it.
func (c *TickContext) RequestRefresh(r bool) { c.refresh = c.refresh || r }

// Refresh reports whether a repaint was requested this pass.
func (c *TickContext) Refresh() bool { return c.refresh }

// KeySet is a set of key names such as "S", "<ctrl>" or "<left>".
type KeySet map[string]struct{}

func NewKeySet(keys ...string) KeySet {
	s := make(KeySet, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

func (s KeySet) Add(k string)      { s[k] = struct{}{} }
func (s KeySet) Remove(k string)   { delete(s, k) }
func (s KeySet) Has(k string) bool { _, ok := s[k]; return ok }
func (s KeySet) Clear()            { clear(s) }

// ContainsAll reports whether every key of o is in s.
func (s KeySet) ContainsAll(o KeySet) bool {
	for k := range o {
		if !s.Has(k) {
			return false
		}
	}
	return true
}

// Intersects reports whether s and o share a key.
func (s KeySet) Intersects(o KeySet) bool {
	for k := range o {
		if s.Has(k) {
			return true
		}
	}
	return false
}

// Clone returns an independent copy.
func (s KeySet) Clone() KeySet {
	c := make(KeySet, len(s))
	for k := range s {
		c[k] = struct{}{}
	}
	return c
}

// Sorted returns the keys in lexical order.
func (s KeySet) Sorted() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

func (s KeySet) String() string {
	return "{" + strings.Join(s.Sorted(), ",") + "}"
}
