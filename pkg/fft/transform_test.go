package fft

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/RyanBlaney/fft-golden/pkg/fixed"
)

// TransformTestSuite checks the transform against bit-exact reference vectors
// and the structural properties a hardware comparison relies on.
type TransformTestSuite struct {
	suite.Suite

	ramp8 []fixed.Complex
}

func (s *TransformTestSuite) SetupTest() {
	s.ramp8 = make([]fixed.Complex, 8)
	for i := range s.ramp8 {
		s.ramp8[i] = fixed.Complex{Re: int16(1000*i - 3000), Im: int16(500 - 200*i)}
	}
}

func TestTransformTestSuite(t *testing.T) {
	suite.Run(t, new(TransformTestSuite))
}

func (s *TransformTestSuite) TestTwoPoint() {
	x := []fixed.Complex{{Re: 8192}, {Re: 16384}}

	scaled, err := Transform(x, true)
	s.Require().NoError(err)
	s.Equal([]fixed.Complex{{Re: 12288}, {Re: -4096}}, scaled)

	unscaled, err := Transform(x, false)
	s.Require().NoError(err)
	s.Equal([]fixed.Complex{{Re: 24576}, {Re: -8192}}, unscaled)
}

func (s *TransformTestSuite) TestFourPointSaturates() {
	x := []fixed.Complex{{Re: 16384}, {Re: 16384}, {Re: 16384}, {Re: 16384}}

	unscaled, err := Transform(x, false)
	s.Require().NoError(err)
	s.Equal([]fixed.Complex{{Re: 32767}, {}, {Re: 1}, {}}, unscaled)

	scaled, err := Transform(x, true)
	s.Require().NoError(err)
	s.Equal([]fixed.Complex{{Re: 16383}, {}, {}, {}}, scaled)
}

func (s *TransformTestSuite) TestEightPointRampMatchesReference() {
	scaled, err := Transform(s.ramp8, true)
	s.Require().NoError(err)
	s.Equal([]fixed.Complex{
		{Re: 500, Im: -203}, {Re: -259, Im: 1307}, {Re: -400, Im: 600}, {Re: -459, Im: 307},
		{Re: -500, Im: 100}, {Re: -542, Im: -108}, {Re: -601, Im: -400}, {Re: -742, Im: -1108},
	}, scaled)

	unscaled, err := Transform(s.ramp8, false)
	s.Require().NoError(err)
	s.Equal([]fixed.Complex{
		{Re: 4000, Im: -1607}, {Re: -2064, Im: 10457}, {Re: -3198, Im: 4801}, {Re: -3669, Im: 2458},
		{Re: -4000, Im: 801}, {Re: -4332, Im: -855}, {Re: -4802, Im: -3199}, {Re: -5935, Im: -8856},
	}, unscaled)
}

func (s *TransformTestSuite) TestInputIsNotModified() {
	before := append([]fixed.Complex(nil), s.ramp8...)

	_, err := Transform(s.ramp8, true)
	s.Require().NoError(err)
	s.Equal(before, s.ramp8)
}

func (s *TransformTestSuite) TestZeroInputGivesZeroOutput() {
	for _, scale := range []bool{true, false} {
		out, err := Transform(Zeros(256), scale)
		s.Require().NoError(err)
		s.Equal(Zeros(256), out)
	}
}

func (s *TransformTestSuite) TestImpulseSpectrumIsFlat() {
	x := Impulse(256, DefaultImpulseAmplitude)
	s.Require().Equal(int16(32735), x[0].Re)

	out, err := Transform(x, true)
	s.Require().NoError(err)
	s.Require().Len(out, 256)

	// 32735 halved eight times.
	for k, c := range out {
		s.Equal(fixed.Complex{Re: 127}, c, "bin %d", k)
	}
}

func (s *TransformTestSuite) TestImpulseUnscaledKeepsAmplitude() {
	out, err := Transform(Impulse(8, DefaultImpulseAmplitude), false)
	s.Require().NoError(err)
	for k, c := range out {
		s.Equal(fixed.Complex{Re: 32735}, c, "bin %d", k)
	}
}

func (s *TransformTestSuite) TestWindowedToneReportsBin() {
	windowed, err := ApplyWindow(Sine(256, 5, 0.9), Hanning(256))
	s.Require().NoError(err)

	out, err := Transform(windowed, true)
	s.Require().NoError(err)

	peak, mag := FindPeak(out)
	s.Equal(5, peak)
	s.Equal(int64(53963725), mag)
	s.Equal(int64(53963716), SquaredMagnitude(out[251]))

	s.Equal([]fixed.Complex{
		{Re: -2, Im: 0}, {Re: 1, Im: -6}, {Re: 3, Im: -5}, {Re: 9, Im: -4},
		{Re: -3697, Im: 43}, {Re: 7346, Im: -3}, {Re: -3697, Im: -48}, {Re: 10, Im: -2},
	}, out[:8])

	var energy int64
	for _, m := range Magnitudes(out) {
		energy += m
	}
	s.Equal(int64(162593270), energy)
}

func (s *TransformTestSuite) TestUnscaledToneSaturates() {
	windowed, err := ApplyWindow(Sine(256, 5, 0.9), Hanning(256))
	s.Require().NoError(err)

	out, err := Transform(windowed, false)
	s.Require().NoError(err)

	s.Equal(fixed.Complex{Re: -32768, Im: -32768}, out[4])
	peak, mag := FindPeak(out)
	s.Equal(4, peak)
	s.Equal(int64(2147483648), mag)
}

func (s *TransformTestSuite) TestInvalidLengths() {
	for _, n := range []int{0, 1, 3, 12, 255} {
		out, err := Transform(make([]fixed.Complex, n), true)
		s.ErrorIs(err, ErrInvalidLength, "n=%d", n)
		s.Nil(out)
	}
}

func TestPlanMatchesTransform(t *testing.T) {
	plan, err := NewPlan(256)
	require.NoError(t, err)
	assert.Equal(t, 256, plan.Len())
	assert.Equal(t, 8, plan.Stages())

	tw, err := Twiddles(256)
	require.NoError(t, err)
	assert.Equal(t, tw, plan.Twiddles())

	x := Sine(256, 17, 0.7)
	want, err := Transform(x, true)
	require.NoError(t, err)

	got := make([]fixed.Complex, 256)
	require.NoError(t, plan.Transform(got, x, true))
	assert.Equal(t, want, got)

	// In place.
	inPlace := append([]fixed.Complex(nil), x...)
	require.NoError(t, plan.Transform(inPlace, inPlace, true))
	assert.Equal(t, want, inPlace)
}

func TestPlanTwiddlesReturnsCopy(t *testing.T) {
	plan, err := NewPlan(4)
	require.NoError(t, err)

	tw := plan.Twiddles()
	tw[0] = fixed.Complex{}
	assert.Equal(t, fixed.Complex{Re: 32767}, plan.Twiddles()[0])
}

func TestPlanLengthMismatch(t *testing.T) {
	plan, err := NewPlan(8)
	require.NoError(t, err)

	err = plan.Transform(make([]fixed.Complex, 8), make([]fixed.Complex, 4), false)
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestPlanStageObserver(t *testing.T) {
	plan, err := NewPlan(8)
	require.NoError(t, err)

	var stages, sizes []int
	var last []fixed.Complex
	plan.SetStageObserver(func(stage, m int, buf []fixed.Complex) {
		stages = append(stages, stage)
		sizes = append(sizes, m)
		last = append(last[:0], buf...)
	})

	x := Impulse(8, 0.5)
	out := make([]fixed.Complex, 8)
	require.NoError(t, plan.Transform(out, x, true))

	assert.Equal(t, []int{1, 2, 3}, stages)
	assert.Equal(t, []int{2, 4, 8}, sizes)
	assert.Equal(t, out, last)

	plan.SetStageObserver(nil)
	stages = nil
	require.NoError(t, plan.Transform(out, x, true))
	assert.Empty(t, stages)
}

func TestScaledTransformTracksFloatDFT(t *testing.T) {
	const n = 64
	x := make([]fixed.Complex, n)
	for i := range x {
		x[i] = fixed.ComplexFromFloat(0.4*math.Sin(0.3*float64(i)), 0.2*math.Cos(0.7*float64(i)))
	}

	out, err := Transform(x, true)
	require.NoError(t, err)

	for k := 0; k < n; k++ {
		var sum complex128
		for i, c := range x {
			angle := -2 * math.Pi * float64(k*i) / n
			sum += c.Complex128() * complex(math.Cos(angle), math.Sin(angle))
		}
		sum /= n

		got := out[k].Complex128()
		// A handful of LSBs of accumulated rounding over six stages.
		assert.InDelta(t, real(sum), real(got), 8.0/fixed.Scale, "bin %d re", k)
		assert.InDelta(t, imag(sum), imag(got), 8.0/fixed.Scale, "bin %d im", k)
	}
}
