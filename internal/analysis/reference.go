// Package analysis compares golden spectra against floating-point
// references and summarizes the quantization error.
package analysis

import (
	"fmt"
	"math"
	"math/cmplx"
	"strings"

	dspfft "github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/RyanBlaney/fft-golden/configs"
	"github.com/RyanBlaney/fft-golden/internal/golden"
	"github.com/RyanBlaney/fft-golden/pkg/fixed"
)

// Reference backends
const (
	BackendDSP   = "dsp"
	BackendGonum = "gonum"
)

// Dequantize converts Q1.15 samples to complex128.
func Dequantize(x []fixed.Complex) []complex128 {
	out := make([]complex128, len(x))
	for i, c := range x {
		out[i] = c.Complex128()
	}
	return out
}

// Reference returns the floating-point DFT of the dequantized input. With
// scaled set every bin is divided by N, matching a transform that halves
// at each of its log2(N) stages.
func Reference(input []fixed.Complex, scaled bool, backend string) ([]complex128, error) {
	return transform(Dequantize(input), scaled, backend)
}

// IdealReference returns the spectrum of the unquantized stimulus with a
// floating-point Hann window, so that stimulus and window rounding show up
// in the error too.
func IdealReference(rc golden.RunConfig, backend string) ([]complex128, error) {
	if err := rc.Validate(); err != nil {
		return nil, err
	}

	n := rc.Transform.Size
	x := make([]complex128, n)
	amp := rc.Stimulus.Amplitude

	switch strings.ToLower(rc.Stimulus.Kind) {
	case configs.StimulusSine:
		for i := range x {
			x[i] = complex(amp*math.Cos(2*math.Pi*float64(rc.Stimulus.Bin)*float64(i)/float64(n)), 0)
		}
	case configs.StimulusImpulse:
		x[0] = complex(amp, 0)
	}

	if rc.Transform.Window {
		for i, w := range window.Hann(n) {
			x[i] *= complex(w, 0)
		}
	}

	return transform(x, rc.Transform.ScalePerStage, backend)
}

func transform(x []complex128, scaled bool, backend string) ([]complex128, error) {
	if len(x) == 0 {
		return nil, fmt.Errorf("empty input")
	}

	var y []complex128
	switch strings.ToLower(backend) {
	case "", BackendDSP:
		y = dspfft.FFT(x)
	case BackendGonum:
		y = fourier.NewCmplxFFT(len(x)).Coefficients(nil, x)
	default:
		return nil, fmt.Errorf("unknown reference backend %q", backend)
	}

	if scaled {
		inv := complex(1/float64(len(x)), 0)
		for i := range y {
			y[i] *= inv
		}
	}
	return y, nil
}

// errorLSB returns |got - want| in units of one Q1.15 LSB.
func errorLSB(got fixed.Complex, want complex128) float64 {
	return cmplx.Abs(got.Complex128()-want) * fixed.Scale
}
