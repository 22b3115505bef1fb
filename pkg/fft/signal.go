package fft

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/fft-golden/pkg/fixed"
)

const (
	// DefaultImpulseAmplitude is just under full scale.
	DefaultImpulseAmplitude = 0.999

	// DefaultSineAmplitude leaves headroom for windowing and rounding.
	DefaultSineAmplitude = 0.8
)

// Zeros returns n zero samples.
func Zeros(n int) []fixed.Complex {
	if n <= 0 {
		return nil
	}
	return make([]fixed.Complex, n)
}

// Impulse returns a length-n unit impulse: sample 0 is
// (ToFixed(amplitude), 0), every other sample is zero.
func Impulse(n int, amplitude float64) []fixed.Complex {
	out := Zeros(n)
	if len(out) > 0 {
		out[0] = fixed.Complex{Re: fixed.ToFixed(amplitude)}
	}
	return out
}

// Sine returns a real-only cosine at the given bin:
// Re[n] = ToFixed(amplitude * cos(2π·bin·n/N)), Im[n] = 0.
func Sine(n, bin int, amplitude float64) []fixed.Complex {
	out := Zeros(n)
	for i := range out {
		phase := 2 * math.Pi * float64(bin) * float64(i) / float64(n)
		out[i] = fixed.Complex{Re: fixed.ToFixed(amplitude * math.Cos(phase))}
	}
	return out
}

// Hanning returns n symmetric Hann weights in Q1.15:
// ToFixed(0.5 * (1 - cos(2πn/(N-1)))). A single-point window is 1.0
// (saturated to Max).
func Hanning(n int) []int16 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []int16{fixed.ToFixed(1)}
	}

	w := make([]int16, n)
	for i := range w {
		w[i] = fixed.ToFixed(0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1))))
	}
	return w
}

// ApplyWindow multiplies both components of every sample by the matching
// weight with fixed.Mul and returns a new slice. Windowing belongs before
// the transform.
func ApplyWindow(x []fixed.Complex, w []int16) ([]fixed.Complex, error) {
	if len(x) != len(w) {
		return nil, fmt.Errorf("%w: signal %d, window %d", ErrLengthMismatch, len(x), len(w))
	}

	out := make([]fixed.Complex, len(x))
	for i, c := range x {
		out[i] = fixed.Complex{
			Re: fixed.Mul(c.Re, w[i]),
			Im: fixed.Mul(c.Im, w[i]),
		}
	}
	return out, nil
}
