package golden

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/RyanBlaney/fft-golden/configs"
	"github.com/RyanBlaney/fft-golden/pkg/fft"
	"github.com/RyanBlaney/fft-golden/pkg/fixed"
	"github.com/RyanBlaney/fft-golden/pkg/logging"
)

type EngineTestSuite struct {
	suite.Suite
	engine *Engine
	ctx    context.Context
}

func (s *EngineTestSuite) SetupTest() {
	s.engine = NewEngine(&EngineConfig{Logger: logging.NewNopLogger()})
	s.ctx = context.Background()
}

func TestEngineTestSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}

func (s *EngineTestSuite) TestDefaultRunFindsTone() {
	result, err := s.engine.Run(s.ctx, NewRunConfig(configs.GetDefaultConfig()))
	s.Require().NoError(err)

	s.Equal(5, result.PeakBin)
	s.Equal(int64(53963725), result.PeakMagnitude)
	s.Equal(251, result.MirrorBin())
	s.Equal(int64(53963716), result.Magnitudes[251])

	s.Len(result.Window, 256)
	s.Equal(int16(29491), result.Stimulus[0].Re)
	s.Equal(int16(0), result.Input[0].Re, "window starts at zero")
	s.Equal(fixed.Complex{Re: 7346, Im: -3}, result.Spectrum[5])
	s.Empty(result.Stages)
}

func (s *EngineTestSuite) TestImpulseWithoutWindow() {
	rc := RunConfig{
		Transform: configs.TransformConfig{Size: 256, ScalePerStage: true},
		Stimulus:  configs.ImpulseStimulusConfig(),
	}

	result, err := s.engine.Run(s.ctx, rc)
	s.Require().NoError(err)

	s.Nil(result.Window)
	for k, c := range result.Spectrum {
		s.Equal(fixed.Complex{Re: 127}, c, "bin %d", k)
	}
	s.Equal(0, result.PeakBin, "ties keep the first bin")
}

func (s *EngineTestSuite) TestZeroStimulus() {
	rc := RunConfig{
		Transform: configs.TransformConfig{Size: 16, ScalePerStage: false, Window: true},
		Stimulus:  configs.StimulusConfig{Kind: "zero"},
	}

	result, err := s.engine.Run(s.ctx, rc)
	s.Require().NoError(err)
	s.Equal(fft.Zeros(16), result.Spectrum)
	s.Equal(int64(0), result.PeakMagnitude)
}

func (s *EngineTestSuite) TestTraceRecordsEveryStage() {
	rc := NewRunConfig(configs.GetDefaultConfig())
	rc.Trace = true

	result, err := s.engine.Run(s.ctx, rc)
	s.Require().NoError(err)
	s.Require().Len(result.Stages, 8)

	for i, st := range result.Stages {
		s.Equal(i+1, st.Stage)
		s.Equal(2<<i, st.Size)
		s.Len(st.Data, 256)
	}
	s.Equal(result.Spectrum, result.Stages[7].Data)
	s.NotEqual(result.Stages[0].Data, result.Stages[1].Data)
}

func (s *EngineTestSuite) TestTraceDoesNotLeakIntoSharedPlan() {
	rc := NewRunConfig(configs.GetDefaultConfig())
	rc.Trace = true
	_, err := s.engine.Run(s.ctx, rc)
	s.Require().NoError(err)

	rc.Trace = false
	result, err := s.engine.Run(s.ctx, rc)
	s.Require().NoError(err)
	s.Empty(result.Stages)
}

func (s *EngineTestSuite) TestInvalidConfigs() {
	tests := []struct {
		name string
		rc   RunConfig
		is   error
	}{
		{
			name: "size not power of two",
			rc:   RunConfig{Transform: configs.TransformConfig{Size: 100}, Stimulus: configs.StimulusConfig{Kind: "zero"}},
			is:   fft.ErrInvalidLength,
		},
		{
			name: "unknown stimulus",
			rc:   RunConfig{Transform: configs.TransformConfig{Size: 8}, Stimulus: configs.StimulusConfig{Kind: "noise"}},
			is:   ErrUnknownStimulus,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.engine.Run(s.ctx, tt.rc)
			s.ErrorIs(err, tt.is)
		})
	}

	_, err := s.engine.Run(s.ctx, RunConfig{
		Transform: configs.TransformConfig{Size: 8},
		Stimulus:  configs.StimulusConfig{Kind: "sine", Bin: 8},
	})
	s.ErrorContains(err, "out of range")
}

func (s *EngineTestSuite) TestCancelledContext() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	_, err := s.engine.Run(ctx, NewRunConfig(configs.GetDefaultConfig()))
	s.ErrorIs(err, context.Canceled)
}

func TestEngineConcurrentRuns(t *testing.T) {
	engine := NewEngine(nil)

	var wg sync.WaitGroup
	peaks := make([]int, 16)
	for i := range peaks {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			rc := RunConfig{
				Transform: configs.TransformConfig{Size: 64, ScalePerStage: true, Window: true},
				Stimulus:  configs.StimulusConfig{Kind: "sine", Bin: 4 + i, Amplitude: 0.9},
			}
			result, err := engine.Run(context.Background(), rc)
			if assert.NoError(t, err) {
				peaks[i] = result.PeakBin
			}
		}()
	}
	wg.Wait()

	for i, p := range peaks {
		assert.Contains(t, []int{4 + i, 64 - 4 - i}, p)
	}
}

func TestGenerateStimulus(t *testing.T) {
	x, err := GenerateStimulus(8, configs.StimulusConfig{Kind: "SINE", Bin: 2, Amplitude: 0.5})
	require.NoError(t, err)
	assert.Equal(t, fft.Sine(8, 2, 0.5), x)

	x, err = GenerateStimulus(4, configs.StimulusConfig{Kind: "impulse", Amplitude: 0.5})
	require.NoError(t, err)
	assert.Equal(t, fixed.Complex{Re: 16384}, x[0])

	_, err = GenerateStimulus(4, configs.StimulusConfig{Kind: "square"})
	assert.ErrorIs(t, err, ErrUnknownStimulus)
}

func TestMirrorBin(t *testing.T) {
	r := &Result{Spectrum: make([]fixed.Complex, 256), PeakBin: 5}
	assert.Equal(t, 251, r.MirrorBin())

	r.PeakBin = 0
	assert.Equal(t, 0, r.MirrorBin())
}
