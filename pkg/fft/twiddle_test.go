package fft

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/fft-golden/pkg/fixed"
)

func TestTwiddles256(t *testing.T) {
	tw, err := Twiddles(256)
	require.NoError(t, err)
	require.Len(t, tw, 128)

	assert.Equal(t, fixed.Complex{Re: 32767, Im: 0}, tw[0])
	assert.Equal(t, fixed.Complex{Re: 23170, Im: -23170}, tw[32])
	assert.Equal(t, fixed.Complex{Re: 0, Im: -32768}, tw[64])
	assert.Equal(t, fixed.Complex{Re: -23170, Im: -23170}, tw[96])
}

func TestTwiddlesForwardSign(t *testing.T) {
	tw, err := Twiddles(8)
	require.NoError(t, err)

	assert.Equal(t, []fixed.Complex{
		{Re: 32767, Im: 0},
		{Re: 23170, Im: -23170},
		{Re: 0, Im: -32768},
		{Re: -23170, Im: -23170},
	}, tw)

	// Every factor below N/2 sits in the lower half plane.
	for k := 1; k < len(tw); k++ {
		assert.Negative(t, tw[k].Im, "k=%d", k)
	}
}

func TestTwiddlesInvalidLength(t *testing.T) {
	for _, n := range []int{-2, 0, 1, 3, 100} {
		tw, err := Twiddles(n)
		assert.ErrorIs(t, err, ErrInvalidLength, "n=%d", n)
		assert.Nil(t, tw)
	}
}
