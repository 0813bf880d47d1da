package storms

import "errors"

var (
	// ErrInvalidGeometry reports a field whose shape does not match its axes,
	// or axes that are empty or not strictly increasing.
	ErrInvalidGeometry = errors.New("invalid geometry")

	// ErrInvalidParameter reports a detection parameter outside its domain.
	ErrInvalidParameter = errors.New("invalid parameter")
)
