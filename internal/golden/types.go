package golden

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/RyanBlaney/fft-golden/configs"
	"github.com/RyanBlaney/fft-golden/pkg/fft"
	"github.com/RyanBlaney/fft-golden/pkg/fixed"
)

// ErrUnknownStimulus is returned for stimulus kinds the engine cannot generate.
var ErrUnknownStimulus = errors.New("unknown stimulus kind")

// RunConfig describes one golden-model run
type RunConfig struct {
	Transform configs.TransformConfig `json:"transform" yaml:"transform"`
	Stimulus  configs.StimulusConfig  `json:"stimulus" yaml:"stimulus"`

	// Trace records a copy of the working buffer after every stage.
	Trace bool `json:"trace" yaml:"trace"`
}

// NewRunConfig extracts the run settings from the application config
func NewRunConfig(cfg *configs.Config) RunConfig {
	return RunConfig{
		Transform: cfg.Transform,
		Stimulus:  cfg.Stimulus,
	}
}

// Validate validates the run configuration
func (c RunConfig) Validate() error {
	n := c.Transform.Size
	if n < 2 || !fft.IsPowerOfTwo(n) {
		return fmt.Errorf("%w: %d", fft.ErrInvalidLength, n)
	}

	switch strings.ToLower(c.Stimulus.Kind) {
	case configs.StimulusSine:
		if c.Stimulus.Bin < 0 || c.Stimulus.Bin >= n {
			return fmt.Errorf("stimulus bin %d out of range [0, %d)", c.Stimulus.Bin, n)
		}
	case configs.StimulusImpulse, configs.StimulusZero:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStimulus, c.Stimulus.Kind)
	}

	return nil
}

// StageSnapshot is the working buffer after one butterfly stage
type StageSnapshot struct {
	Stage int             `json:"stage" yaml:"stage"`
	Size  int             `json:"size" yaml:"size"`
	Data  []fixed.Complex `json:"data" yaml:"data"`
}

// Result holds every intermediate array of a golden run
type Result struct {
	Config RunConfig `json:"config" yaml:"config"`

	Stimulus []fixed.Complex `json:"stimulus" yaml:"stimulus"`
	Window   []int16         `json:"window,omitempty" yaml:"window,omitempty"`
	Input    []fixed.Complex `json:"input" yaml:"input"`
	Spectrum []fixed.Complex `json:"spectrum" yaml:"spectrum"`

	Magnitudes    []int64 `json:"magnitudes" yaml:"magnitudes"`
	PeakBin       int     `json:"peak_bin" yaml:"peak_bin"`
	PeakMagnitude int64   `json:"peak_magnitude" yaml:"peak_magnitude"`

	Stages []StageSnapshot `json:"stages,omitempty" yaml:"stages,omitempty"`

	Timestamp time.Time     `json:"timestamp" yaml:"timestamp"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
}

// MirrorBin returns the bin a real input's peak is mirrored to.
func (r *Result) MirrorBin() int {
	n := len(r.Spectrum)
	if n == 0 || r.PeakBin <= 0 {
		return r.PeakBin
	}
	return n - r.PeakBin
}

// GenerateStimulus builds the test signal described by sc for length n.
func GenerateStimulus(n int, sc configs.StimulusConfig) ([]fixed.Complex, error) {
	switch strings.ToLower(sc.Kind) {
	case configs.StimulusSine:
		return fft.Sine(n, sc.Bin, sc.Amplitude), nil
	case configs.StimulusImpulse:
		return fft.Impulse(n, sc.Amplitude), nil
	case configs.StimulusZero:
		return fft.Zeros(n), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStimulus, sc.Kind)
	}
}
