package traj

// Linear moves from A to B the fastest way possible.
type Linear[V Value[V]] struct {
	A, B V
}

func NewLinear[V Value[V]](a, b V) *Linear[V] {
	return &Linear[V]{A: a, B: b}
}

func (l *Linear[V]) At(t float64) (V, error) {
	if err := checkUnit("linear", t); err != nil {
		var zero V
		return zero, err
	}
	return l.A.Add(l.B.Sub(l.A).Mul(t)), nil
}
