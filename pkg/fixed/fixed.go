// Package fixed implements saturating Q1.15 arithmetic.
//
// A Q1.15 sample is an int16 holding a real value scaled by 2^15. Every
// function in this package returns a value in [Min, Max]; results that do
// not fit are clamped to the nearest bound, never wrapped. The rounding in
// Mul reproduces a specific hardware multiplier and must stay bit-exact.
package fixed

import "math"

const (
	// Max is the largest Q1.15 value (32767/32768, just under +1.0).
	Max = math.MaxInt16

	// Min is the smallest Q1.15 value (-1.0).
	Min = math.MinInt16

	// FracBits is the number of fractional bits.
	FracBits = 15

	// Scale converts between real values and Q1.15 integers.
	Scale = 1 << FracBits

	roundBias = 1 << (FracBits - 1)
)

// Saturate clamps x to [Min, Max].
func Saturate(x int64) int16 {
	if x > Max {
		return Max
	}
	if x < Min {
		return Min
	}
	return int16(x)
}

// SaturateInt clamps an externally supplied integer, matching hardware
// register truncation on ingestion.
func SaturateInt(x int) int16 {
	return Saturate(int64(x))
}

// ToFixed converts a real value to Q1.15: x*32768 rounded half away from
// zero, then saturated. NaN converts to 0.
func ToFixed(x float64) int16 {
	if math.IsNaN(x) {
		return 0
	}
	v := math.Round(x * Scale)
	if v >= Max {
		return Max
	}
	if v <= Min {
		return Min
	}
	return int16(v)
}

// FromFixed converts a Q1.15 value back to a real value.
func FromFixed(v int16) float64 {
	return float64(v) / Scale
}

// Mul multiplies two Q1.15 values.
//
// The full 32-bit product is biased by +2^14 when non-negative and -2^14
// when negative, arithmetically shifted right by 15, then saturated. Ties
// therefore resolve toward the sign of the product; this is not
// round-half-to-even.
func Mul(a, b int16) int16 {
	prod := int32(a) * int32(b)
	if prod >= 0 {
		prod += roundBias
	} else {
		prod -= roundBias
	}
	return Saturate(int64(prod >> FracBits))
}

// Add returns the saturated sum a+b.
func Add(a, b int16) int16 {
	return Saturate(int64(a) + int64(b))
}

// Sub returns the saturated difference a-b.
func Sub(a, b int16) int16 {
	return Saturate(int64(a) - int64(b))
}
