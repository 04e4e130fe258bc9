package engine

import "errors"

var (
	// ErrNotFound is returned when an operation names a shape the board doesn't have.
	ErrNotFound = errors.New("shape not found")

	// ErrDegenerateResize marks a resize whose box falls below the minimum size.
	// The engine recovers from it by keeping the previous geometry.
	ErrDegenerateResize = errors.New("degenerate resize")

	// ErrInvalidTransition is returned by edit-mode commands issued from the wrong state.
	ErrInvalidTransition = errors.New("invalid selection transition")
)
