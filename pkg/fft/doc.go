// Package fft implements a bit-exact Q1.15 radix-2 decimation-in-time FFT
// together with the stimulus generators, Hann window and spectrum helpers
// used to drive and check a hardware FFT datapath.
//
// All arithmetic goes through package fixed, so every intermediate value is
// saturated and rounded exactly as the reference hardware does it. The only
// error conditions are length contract violations, reported as
// ErrInvalidLength or ErrLengthMismatch.
package fft
