package traj

import "math"

// Repeat wraps a trajectory whose end point equals its start point so that
// it can be driven by any progress value.
type Repeat[V Value[V]] struct {
	inner Trajectory[V]
}

func NewRepeat[V Value[V]](inner Trajectory[V]) *Repeat[V] {
	return &Repeat[V]{inner: inner}
}

func (r *Repeat[V]) At(t float64) (V, error) {
	return r.inner.At(wrap(t, 1))
}

// BackAndForth runs a trajectory forwards on even half-periods and backwards
// on odd ones. The period is 2.
type BackAndForth[V Value[V]] struct {
	inner Trajectory[V]
}

func NewBackAndForth[V Value[V]](inner Trajectory[V]) *BackAndForth[V] {
	return &BackAndForth[V]{inner: inner}
}

func (b *BackAndForth[V]) At(t float64) (V, error) {
	tt := wrap(t, 2)
	if tt > 1 {
		tt = 2 - tt
	}
	return b.inner.At(tt)
}

// StartStop maps [Start, Stop] onto the inner trajectory's [0, 1] and holds
// the end values outside that interval.
type StartStop[V Value[V]] struct {
	inner       Trajectory[V]
	Start, Stop float64
}

// NewStartStop wraps inner. When start equals stop the result steps from the
// inner start value to its end value at that point.
func NewStartStop[V Value[V]](inner Trajectory[V], start, stop float64) *StartStop[V] {
	return &StartStop[V]{inner: inner, Start: start, Stop: stop}
}

func (s *StartStop[V]) At(t float64) (V, error) {
	var tt float64
	switch {
	case s.Stop == s.Start:
		if t >= s.Stop {
			tt = 1
		}
	default:
		tt = (t - s.Start) / (s.Stop - s.Start)
	}
	return s.inner.At(math.Min(1, math.Max(0, tt)))
}
