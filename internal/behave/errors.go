package behave

import "errors"

// Construction and tick errors.
var (
	// ErrUnknownAxis indicates a rotation axis name other than x, y or z.
	ErrUnknownAxis = errors.New("behave: unknown rotation axis")

	// ErrNoFrame indicates a behaviour that needs pixels ticked by a host
	// without a frame accessor.
	ErrNoFrame = errors.New("behave: host provides no frame")

	// ErrBadInterval indicates a non-positive frame interval.
	ErrBadInterval = errors.New("behave: interval must be positive")
)
