package fixed

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewComplexSaturatesOnIngestion(t *testing.T) {
	assert.Equal(t, Complex{Re: 32767, Im: -32768}, NewComplex(40000, -40000))
	assert.Equal(t, Complex{Re: 7, Im: -7}, NewComplex(7, -7))
}

func TestComplexFromFloat(t *testing.T) {
	assert.Equal(t, Complex{Re: 16384, Im: -16384}, ComplexFromFloat(0.5, -0.5))
	assert.Equal(t, complex(0.5, -0.5), Complex{Re: 16384, Im: -16384}.Complex128())
	assert.Equal(t, "(3,-4)", Complex{Re: 3, Im: -4}.String())
}

func TestCAddCSub(t *testing.T) {
	tests := []struct {
		name string
		a, b Complex
		sum  Complex
		diff Complex
	}{
		{
			name: "plain",
			a:    Complex{Re: 100, Im: -200},
			b:    Complex{Re: 50, Im: 25},
			sum:  Complex{Re: 150, Im: -175},
			diff: Complex{Re: 50, Im: -225},
		},
		{
			name: "saturating",
			a:    Complex{Re: 32767, Im: -32768},
			b:    Complex{Re: 1, Im: -1},
			sum:  Complex{Re: 32767, Im: -32768},
			diff: Complex{Re: 32766, Im: -32767},
		},
		{
			name: "components saturate independently",
			a:    Complex{Re: -32768, Im: 10},
			b:    Complex{Re: 32767, Im: 10},
			sum:  Complex{Re: -1, Im: 20},
			diff: Complex{Re: -32768, Im: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.sum, CAdd(tt.a, tt.b))
			assert.Equal(t, tt.diff, CSub(tt.a, tt.b))
		})
	}
}

func TestCMul(t *testing.T) {
	tests := []struct {
		name string
		a, b Complex
		want Complex
	}{
		{
			name: "by unity twiddle",
			a:    Complex{Re: 16384, Im: 0},
			b:    Complex{Re: 32767, Im: 0},
			want: Complex{Re: 16384, Im: 0},
		},
		{
			name: "i times i",
			a:    Complex{Re: 0, Im: 16384},
			b:    Complex{Re: 0, Im: 16384},
			want: Complex{Re: -8192, Im: 0},
		},
		{
			name: "by minus j",
			a:    Complex{Re: 16384, Im: 8192},
			b:    Complex{Re: 0, Im: -32768},
			want: Complex{Re: 8193, Im: -16385},
		},
		{
			name: "zero",
			a:    Complex{},
			b:    Complex{Re: 23170, Im: -23170},
			want: Complex{},
		},
		{
			name: "real part saturates after combination",
			a:    Complex{Re: -32768, Im: -32768},
			b:    Complex{Re: -32768, Im: 32767},
			want: Complex{Re: 32767, Im: -1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CMul(tt.a, tt.b))
		})
	}
}

func TestCRShift1(t *testing.T) {
	assert.Equal(t, Complex{Re: -2, Im: 2}, CRShift1(Complex{Re: -3, Im: 5}))
	assert.Equal(t, Complex{Re: -16384, Im: 16383}, CRShift1(Complex{Re: -32768, Im: 32767}))
	assert.Equal(t, Complex{Re: -1, Im: 0}, CRShift1(Complex{Re: -1, Im: 1}))
}
