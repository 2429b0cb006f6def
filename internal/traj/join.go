package traj

import (
	"fmt"
	"math"
	"sort"
)

// Segment is one weighted element of a Join.
type Segment[V Value[V]] struct {
	Weight     float64
	Trajectory Trajectory[V]
}

// Join concatenates trajectories, each one taking a share of [0, 1]
// proportional to its weight. Weights need not sum to 1.
type Join[V Value[V]] struct {
	cumulative []float64
	parts      []Trajectory[V]
}

// NewJoin validates the segments and precomputes the cumulative weights.
func NewJoin[V Value[V]](segments ...Segment[V]) (*Join[V], error) {
	if len(segments) == 0 {
		return nil, ErrEmptyJoin
	}
	j := &Join[V]{
		cumulative: make([]float64, len(segments)),
		parts:      make([]Trajectory[V], len(segments)),
	}
	total := 0.0
	for i, s := range segments {
		if s.Trajectory == nil {
			return nil, fmt.Errorf("segment %d: %w", i, ErrNilTrajectory)
		}
		if !(s.Weight > 0) || math.IsInf(s.Weight, 0) {
			return nil, fmt.Errorf("segment %d: weight %g: %w", i, s.Weight, ErrWeight)
		}
		total += s.Weight
		j.cumulative[i] = total
		j.parts[i] = s.Trajectory
	}
	return j, nil
}

// Len returns the number of joined trajectories.
func (j *Join[V]) Len() int { return len(j.parts) }

func (j *Join[V]) At(t float64) (V, error) {
	if err := checkUnit("join", t); err != nil {
		var zero V
		return zero, err
	}

	n := len(j.parts)
	w := t * j.cumulative[n-1]

	// First segment whose cumulative weight is strictly greater than w, so a
	// boundary belongs to the segment that starts there.
	i := sort.Search(n, func(k int) bool { return j.cumulative[k] > w })
	if i == n {
		return j.parts[n-1].At(1)
	}

	prev := 0.0
	if i > 0 {
		prev = j.cumulative[i-1]
	}
	local := (w - prev) / (j.cumulative[i] - prev)
	return j.parts[i].At(math.Min(1, math.Max(0, local)))
}

// Lines joins equal-weight linear segments through consecutive points.
func Lines[V Value[V]](points ...V) (*Join[V], error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("lines: got %d, need at least 2: %w", len(points), ErrTooFewPoints)
	}
	segments := make([]Segment[V], 0, len(points)-1)
	for i := 0; i+1 < len(points); i++ {
		segments = append(segments, Segment[V]{
			Weight:     1,
			Trajectory: NewLinear(points[i], points[i+1]),
		})
	}
	return NewJoin(segments...)
}

// QuadraticBezierCurves joins equal-weight quadratic Bezier curves. Curve k
// uses points 2k, 2k+1 and 2k+2, so consecutive curves share an endpoint.
func QuadraticBezierCurves[V Value[V]](points ...V) (*Join[V], error) {
	if len(points) < 3 {
		return nil, fmt.Errorf("bezier curves: got %d, need at least 3: %w", len(points), ErrTooFewPoints)
	}
	if len(points)%2 == 0 {
		return nil, fmt.Errorf("bezier curves: got %d: %w", len(points), ErrEvenPoints)
	}
	segments := make([]Segment[V], 0, (len(points)-1)/2)
	for i := 0; i+2 < len(points); i += 2 {
		segments = append(segments, Segment[V]{
			Weight:     1,
			Trajectory: NewQuadraticBezier(points[i], points[i+1], points[i+2]),
		})
	}
	return NewJoin(segments...)
}
