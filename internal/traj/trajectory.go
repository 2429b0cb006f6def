package traj

import "math"

// Value is the arithmetic a trajectory needs from its output type.
// mgl64.Vec2, mgl64.Vec3 and mgl64.Vec4 satisfy it as-is.
type Value[V any] interface {
	Add(V) V
	Sub(V) V
	Mul(float64) V
}

// Trajectory maps a progress value to an output value. Implementations are
// immutable and safe to evaluate repeatedly and out of order.
type Trajectory[V Value[V]] interface {
	At(t float64) (V, error)
}

// Func adapts a plain function to the Trajectory interface.
type Func[V Value[V]] func(t float64) (V, error)

func (f Func[V]) At(t float64) (V, error) { return f(t) }

// Scalar is a one-dimensional trajectory value.
type Scalar float64

func (s Scalar) Add(o Scalar) Scalar  { return s + o }
func (s Scalar) Sub(o Scalar) Scalar  { return s - o }
func (s Scalar) Mul(f float64) Scalar { return Scalar(float64(s) * f) }

// Must panics if err is non-nil. It is meant for literal trajectory
// definitions whose validity is known when the code is written.
func Must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// Sample evaluates tr at n evenly spaced points of [from, to].
func Sample[V Value[V]](tr Trajectory[V], from, to float64, n int) ([]V, error) {
	if n < 2 {
		v, err := tr.At(from)
		if err != nil {
			return nil, err
		}
		return []V{v}, nil
	}
	out := make([]V, 0, n)
	step := (to - from) / float64(n-1)
	for i := 0; i < n; i++ {
		t := from + float64(i)*step
		if i == n-1 {
			t = to
		}
		v, err := tr.At(t)
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
	return out, nil
}

// wrap returns t modulo period, always in [0, period).
func wrap(t, period float64) float64 {
	m := math.Mod(t, period)
	if m < 0 {
		m += period
	}
	return m
}
