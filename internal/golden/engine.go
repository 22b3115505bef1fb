package golden

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/RyanBlaney/fft-golden/pkg/fft"
	"github.com/RyanBlaney/fft-golden/pkg/fixed"
	"github.com/RyanBlaney/fft-golden/pkg/logging"
)

// Engine runs the golden pipeline: stimulus, optional window, transform and
// peak search. It is safe for concurrent use.
type Engine struct {
	logger logging.Logger

	mu    sync.Mutex
	plans map[int]*fft.Plan
}

// EngineConfig contains configuration for the golden engine
type EngineConfig struct {
	Logger logging.Logger
}

// NewEngine creates a new golden engine
func NewEngine(config *EngineConfig) *Engine {
	var logger logging.Logger
	if config != nil {
		logger = config.Logger
	}
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}

	return &Engine{
		logger: logger,
		plans:  make(map[int]*fft.Plan),
	}
}

// plan returns the shared plan for length n. Shared plans never carry an
// observer.
func (e *Engine) plan(n int) (*fft.Plan, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if p, ok := e.plans[n]; ok {
		return p, nil
	}

	p, err := fft.NewPlan(n)
	if err != nil {
		return nil, err
	}
	e.plans[n] = p
	return p, nil
}

// Run executes a single golden run
func (e *Engine) Run(ctx context.Context, rc RunConfig) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := rc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid run configuration: %w", err)
	}

	n := rc.Transform.Size
	result := &Result{
		Config:    rc,
		Timestamp: time.Now(),
	}
	start := time.Now()

	// Step 1: Generate stimulus
	stimulus, err := GenerateStimulus(n, rc.Stimulus)
	if err != nil {
		return nil, err
	}
	result.Stimulus = stimulus
	result.Input = stimulus

	// Step 2: Window before the transform
	if rc.Transform.Window {
		result.Window = fft.Hanning(n)
		result.Input, err = fft.ApplyWindow(stimulus, result.Window)
		if err != nil {
			return nil, fmt.Errorf("failed to apply window: %w", err)
		}
	}

	// Step 3: Transform
	plan, err := e.planFor(rc, result)
	if err != nil {
		return nil, fmt.Errorf("failed to build plan: %w", err)
	}

	result.Spectrum = make([]fixed.Complex, n)
	if err := plan.Transform(result.Spectrum, result.Input, rc.Transform.ScalePerStage); err != nil {
		return nil, fmt.Errorf("failed to transform: %w", err)
	}

	// Step 4: Post-process
	result.Magnitudes = fft.Magnitudes(result.Spectrum)
	result.PeakBin, result.PeakMagnitude = fft.FindPeak(result.Spectrum)
	result.Duration = time.Since(start)

	e.logger.Debug("Golden run completed", logging.Fields{
		"size":            n,
		"stimulus":        rc.Stimulus.Kind,
		"scale_per_stage": rc.Transform.ScalePerStage,
		"window":          rc.Transform.Window,
		"peak_bin":        result.PeakBin,
		"peak_magnitude":  result.PeakMagnitude,
		"duration_us":     result.Duration.Microseconds(),
	})

	return result, nil
}

// planFor returns a shared plan, or a private tracing plan that appends
// stage snapshots to result when rc.Trace is set.
func (e *Engine) planFor(rc RunConfig, result *Result) (*fft.Plan, error) {
	if !rc.Trace {
		return e.plan(rc.Transform.Size)
	}

	p, err := fft.NewPlan(rc.Transform.Size)
	if err != nil {
		return nil, err
	}
	p.SetStageObserver(func(stage, m int, buf []fixed.Complex) {
		snap := make([]fixed.Complex, len(buf))
		copy(snap, buf)
		result.Stages = append(result.Stages, StageSnapshot{Stage: stage, Size: m, Data: snap})
	})
	return p, nil
}
