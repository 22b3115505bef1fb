package fft

import "errors"

// Sentinel errors returned by the transform and its helpers.
var (
	// ErrInvalidLength is returned when a transform or twiddle length is
	// not a power of two (or is below the minimum for the operation).
	ErrInvalidLength = errors.New("fft: invalid length")

	// ErrLengthMismatch is returned when paired slices differ in length or
	// do not match a Plan's size.
	ErrLengthMismatch = errors.New("fft: slice length mismatch")
)
