package fft

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/fft-golden/pkg/fixed"
)

// Twiddles returns the n/2 forward twiddle factors W_n^k = exp(-2πik/n),
// quantized to Q1.15. n must be a power of two and at least 2.
//
// The angle is negative; flipping it silently turns the transform into an
// (unscaled) inverse.
func Twiddles(n int) ([]fixed.Complex, error) {
	if n < 2 || !IsPowerOfTwo(n) {
		return nil, fmt.Errorf("%w: twiddle table for n=%d", ErrInvalidLength, n)
	}

	twiddles := make([]fixed.Complex, n/2)
	for k := range twiddles {
		angle := -2.0 * math.Pi * float64(k) / float64(n)
		twiddles[k] = fixed.ComplexFromFloat(math.Cos(angle), math.Sin(angle))
	}
	return twiddles, nil
}
