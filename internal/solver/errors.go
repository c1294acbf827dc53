package solver

import "errors"

var (
	// ErrInvalidInput marks guess/feedback text rejected at the boundary.
	ErrInvalidInput = errors.New("invalid input")

	// ErrLengthMismatch means a guess and secret of different lengths were scored.
	ErrLengthMismatch = errors.New("guess and secret lengths differ")
)
