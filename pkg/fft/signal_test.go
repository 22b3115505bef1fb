package fft

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/fft-golden/pkg/fixed"
)

func TestImpulse(t *testing.T) {
	x := Impulse(4, 0.5)
	assert.Equal(t, []fixed.Complex{{Re: 16384}, {}, {}, {}}, x)

	assert.Equal(t, int16(32767), Impulse(2, 1.0)[0].Re)
	assert.Nil(t, Impulse(0, 0.5))
}

func TestSine(t *testing.T) {
	assert.Equal(t, []fixed.Complex{{Re: 16384}, {}, {Re: -16384}, {}}, Sine(4, 1, 0.5))

	x := Sine(256, 5, 0.9)
	require.Len(t, x, 256)
	assert.Equal(t, []fixed.Complex{{Re: 29491}, {Re: 29269}, {Re: 28607}, {Re: 27515}}, x[:4])
	for _, c := range x {
		assert.Zero(t, c.Im)
	}
}

func TestZeros(t *testing.T) {
	assert.Len(t, Zeros(16), 16)
	assert.Nil(t, Zeros(-1))
}

func TestHanning(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want []int16
	}{
		{"empty", 0, nil},
		{"single point", 1, []int16{32767}},
		{"two points", 2, []int16{0, 0}},
		{"four points", 4, []int16{0, 24576, 24576, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Hanning(tt.n))
		})
	}
}

func TestHanning256(t *testing.T) {
	w := Hanning(256)
	require.Len(t, w, 256)

	assert.Equal(t, []int16{0, 5, 20, 45}, w[:4])
	assert.Equal(t, []int16{32767, 32767}, w[127:129])

	for i := range w {
		assert.Equal(t, w[i], w[len(w)-1-i], "symmetry at %d", i)
		assert.GreaterOrEqual(t, w[i], int16(0))
	}
}

func TestApplyWindow(t *testing.T) {
	x := []fixed.Complex{{Re: 16384, Im: -16384}, {Re: 32767, Im: 100}}
	w := []int16{24576, 0}

	out, err := ApplyWindow(x, w)
	require.NoError(t, err)
	assert.Equal(t, []fixed.Complex{{Re: 12288, Im: -12289}, {}}, out)

	// The input is untouched.
	assert.Equal(t, int16(16384), x[0].Re)
}

func TestApplyWindowTone(t *testing.T) {
	out, err := ApplyWindow(Sine(256, 5, 0.9), Hanning(256))
	require.NoError(t, err)
	assert.Equal(t, []fixed.Complex{{}, {Re: 4}, {Re: 17}, {Re: 38}}, out[:4])
}

func TestApplyWindowLengthMismatch(t *testing.T) {
	out, err := ApplyWindow(make([]fixed.Complex, 4), make([]int16, 3))
	assert.ErrorIs(t, err, ErrLengthMismatch)
	assert.Nil(t, out)
}
