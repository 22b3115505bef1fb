package fft

import (
	"fmt"

	"github.com/RyanBlaney/fft-golden/pkg/fixed"
)

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// Log2 returns the base-2 logarithm of n (assuming n is a power of 2).
func Log2(n int) int {
	result := 0
	for n > 1 {
		n >>= 1
		result++
	}
	return result
}

// ReverseBits reverses the lower 'bits' bits of x.
// Example: ReverseBits(6, 3) = ReverseBits(0b110, 3) = 0b011 = 3.
func ReverseBits(x, bits int) int {
	result := 0
	for b := 0; b < bits; b++ {
		result = (result << 1) | (x & 1)
		x >>= 1
	}
	return result
}

// BitReversalIndices returns the bit-reversal permutation indices for a
// size-n radix-2 transform, or nil if n is not a power of two.
func BitReversalIndices(n int) []int {
	if !IsPowerOfTwo(n) {
		return nil
	}

	bits := Log2(n)
	indices := make([]int, n)
	for i := 0; i < n; i++ {
		indices[i] = ReverseBits(i, bits)
	}
	return indices
}

// BitReversePermute reorders buf into bit-reversed index order in place.
// Each pair is swapped once, when the reversed index is the larger one.
func BitReversePermute(buf []fixed.Complex) error {
	n := len(buf)
	if !IsPowerOfTwo(n) {
		return fmt.Errorf("%w: %d", ErrInvalidLength, n)
	}

	bits := Log2(n)
	for i := 0; i < n; i++ {
		if j := ReverseBits(i, bits); j > i {
			buf[i], buf[j] = buf[j], buf[i]
		}
	}
	return nil
}
