package traj

import (
	"errors"
	"fmt"
)

// Construction and evaluation errors.
var (
	// ErrOutOfDomain indicates a bounded trajectory evaluated outside [0, 1].
	ErrOutOfDomain = errors.New("traj: progress outside [0, 1]")

	// ErrNotPerpendicular indicates a circle whose radial vector is not
	// perpendicular to its normal.
	ErrNotPerpendicular = errors.New("traj: radial and normal vectors are not perpendicular")

	// ErrDegenerate indicates a zero-length normal or radius.
	ErrDegenerate = errors.New("traj: degenerate circle (zero radius or normal)")

	// ErrNilTrajectory indicates a join element that carries no trajectory.
	ErrNilTrajectory = errors.New("traj: join element is not a trajectory")

	// ErrWeight indicates a non-positive or non-finite join weight.
	ErrWeight = errors.New("traj: join weight must be positive and finite")

	// ErrEmptyJoin indicates a join without elements.
	ErrEmptyJoin = errors.New("traj: join needs at least one trajectory")

	// ErrTooFewPoints indicates a builder called with too few points.
	ErrTooFewPoints = errors.New("traj: too few points")

	// ErrEvenPoints indicates QuadraticBezierCurves called with an even count.
	ErrEvenPoints = errors.New("traj: bezier curves need an odd number of points")
)

// DomainError reports which trajectory was evaluated out of its domain.
type DomainError struct {
	Kind string
	T    float64
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: t=%g: %v", e.Kind, e.T, ErrOutOfDomain)
}

func (e *DomainError) Unwrap() error {
	return ErrOutOfDomain
}

func checkUnit(kind string, t float64) error {
	if t >= 0 && t <= 1 {
		return nil
	}
	return &DomainError{Kind: kind, T: t}
}
