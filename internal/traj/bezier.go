package traj

// QuadraticBezier is the curve with control points A, B and C.
type QuadraticBezier[V Value[V]] struct {
	A, B, C V
}

func NewQuadraticBezier[V Value[V]](a, b, c V) *QuadraticBezier[V] {
	return &QuadraticBezier[V]{A: a, B: b, C: c}
}

func (q *QuadraticBezier[V]) At(t float64) (V, error) {
	if err := checkUnit("quadratic bezier", t); err != nil {
		var zero V
		return zero, err
	}
	s := 1 - t
	return q.A.Mul(s * s).Add(q.B.Mul(2 * s * t)).Add(q.C.Mul(t * t)), nil
}
