package fft

import "github.com/RyanBlaney/fft-golden/pkg/fixed"

// SquaredMagnitude returns re² + im² as a plain integer. It is an energy
// metric at full integer width, not a Q1.15 value, and is never saturated.
func SquaredMagnitude(c fixed.Complex) int64 {
	re, im := int64(c.Re), int64(c.Im)
	return re*re + im*im
}

// Magnitudes returns the squared magnitude of every bin.
func Magnitudes(y []fixed.Complex) []int64 {
	mags := make([]int64, len(y))
	for i, c := range y {
		mags[i] = SquaredMagnitude(c)
	}
	return mags
}

// FindPeak returns the bin with the largest squared magnitude and that
// magnitude. Ties go to the lowest index. An empty spectrum yields (-1, 0).
func FindPeak(y []fixed.Complex) (int, int64) {
	if len(y) == 0 {
		return -1, 0
	}

	peak, best := 0, SquaredMagnitude(y[0])
	for i := 1; i < len(y); i++ {
		if m := SquaredMagnitude(y[i]); m > best {
			peak, best = i, m
		}
	}
	return peak, best
}
