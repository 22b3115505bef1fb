// Package sweep runs a windowed tone through the golden model at every bin
// of a range and checks that the peak lands on the tone or its mirror.
package sweep

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/RyanBlaney/fft-golden/configs"
	"github.com/RyanBlaney/fft-golden/internal/golden"
	"github.com/RyanBlaney/fft-golden/pkg/logging"
)

// BinResult is the outcome of one tone
type BinResult struct {
	Bin           int    `json:"bin" yaml:"bin"`
	PeakBin       int    `json:"peak_bin" yaml:"peak_bin"`
	MirrorBin     int    `json:"mirror_bin" yaml:"mirror_bin"`
	PeakMagnitude int64  `json:"peak_magnitude" yaml:"peak_magnitude"`
	Detected      bool   `json:"detected" yaml:"detected"`
	Error         string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Summary aggregates a sweep
type Summary struct {
	Size          int           `json:"size" yaml:"size"`
	From          int           `json:"from" yaml:"from"`
	To            int           `json:"to" yaml:"to"`
	Results       []BinResult   `json:"results" yaml:"results"`
	Detected      int           `json:"detected" yaml:"detected"`
	Missed        []int         `json:"missed" yaml:"missed"`
	DetectionRate float64       `json:"detection_rate" yaml:"detection_rate"`
	StartTime     time.Time     `json:"start_time" yaml:"start_time"`
	EndTime       time.Time     `json:"end_time" yaml:"end_time"`
	TotalDuration time.Duration `json:"total_duration" yaml:"total_duration"`
}

// Header implements output.Tabular.
func (s *Summary) Header() []string {
	return []string{"bin", "peak_bin", "mirror_bin", "peak_magnitude", "detected"}
}

// Rows implements output.Tabular.
func (s *Summary) Rows() [][]string {
	rows := make([][]string, len(s.Results))
	for i, r := range s.Results {
		rows[i] = []string{
			strconv.Itoa(r.Bin),
			strconv.Itoa(r.PeakBin),
			strconv.Itoa(r.MirrorBin),
			strconv.FormatInt(r.PeakMagnitude, 10),
			strconv.FormatBool(r.Detected),
		}
	}
	return rows
}

// Orchestrator coordinates a tone detection sweep
type Orchestrator struct {
	engine         *golden.Engine
	base           golden.RunConfig
	maxConcurrency int
	logger         logging.Logger
}

// NewOrchestrator creates a sweep orchestrator. The transform and stimulus
// amplitude come from cfg; the stimulus is always a sine.
func NewOrchestrator(cfg *configs.Config, logger logging.Logger) (*Orchestrator, error) {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}

	base := golden.NewRunConfig(cfg)
	base.Stimulus.Kind = configs.StimulusSine
	base.Stimulus.Bin = 0
	if err := base.Validate(); err != nil {
		return nil, fmt.Errorf("invalid sweep configuration: %w", err)
	}

	maxConcurrency := cfg.Sweep.MaxConcurrency
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}

	return &Orchestrator{
		engine:         golden.NewEngine(&golden.EngineConfig{Logger: logger}),
		base:           base,
		maxConcurrency: maxConcurrency,
		logger:         logger,
	}, nil
}

// Run sweeps bins from..to inclusive. A zero to means N/2-1.
func (o *Orchestrator) Run(ctx context.Context, from, to int) (*Summary, error) {
	n := o.base.Transform.Size
	if to == 0 {
		to = n/2 - 1
	}
	if from < 0 || to >= n || from > to {
		return nil, fmt.Errorf("invalid sweep range [%d, %d] for size %d", from, to, n)
	}

	summary := &Summary{
		Size:      n,
		From:      from,
		To:        to,
		Results:   make([]BinResult, to-from+1),
		Missed:    []int{},
		StartTime: time.Now(),
	}

	o.logger.Debug("Starting sweep", logging.Fields{
		"size":            n,
		"from":            from,
		"to":              to,
		"max_concurrency": o.maxConcurrency,
	})

	p := pool.New().
		WithContext(ctx).
		WithCancelOnError().
		WithFirstError().
		WithMaxGoroutines(o.maxConcurrency)

	for bin := from; bin <= to; bin++ {
		bin := bin
		p.Go(func(ctx context.Context) error {
			r, err := o.measureBin(ctx, bin)
			if err != nil {
				return err
			}
			summary.Results[bin-from] = r
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		return nil, fmt.Errorf("sweep aborted: %w", err)
	}

	o.calculateSummaryMetrics(summary)

	o.logger.Debug("Sweep completed", logging.Fields{
		"bins":           len(summary.Results),
		"detected":       summary.Detected,
		"missed":         len(summary.Missed),
		"detection_rate": summary.DetectionRate,
		"duration_ms":    summary.TotalDuration.Milliseconds(),
	})

	return summary, nil
}

// measureBin runs one tone. Only context errors are returned; run failures
// are recorded on the result.
func (o *Orchestrator) measureBin(ctx context.Context, bin int) (BinResult, error) {
	r := BinResult{Bin: bin, MirrorBin: (o.base.Transform.Size - bin) % o.base.Transform.Size}

	rc := o.base
	rc.Stimulus.Bin = bin

	result, err := o.engine.Run(ctx, rc)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return r, ctxErr
		}
		r.Error = err.Error()
		return r, nil
	}

	r.PeakBin = result.PeakBin
	r.PeakMagnitude = result.PeakMagnitude
	r.Detected = r.PeakBin == r.Bin || r.PeakBin == r.MirrorBin
	return r, nil
}

func (o *Orchestrator) calculateSummaryMetrics(summary *Summary) {
	for _, r := range summary.Results {
		if r.Detected {
			summary.Detected++
		} else {
			summary.Missed = append(summary.Missed, r.Bin)
		}
	}
	sort.Ints(summary.Missed)

	if len(summary.Results) > 0 {
		summary.DetectionRate = float64(summary.Detected) / float64(len(summary.Results))
	}

	summary.EndTime = time.Now()
	summary.TotalDuration = summary.EndTime.Sub(summary.StartTime)
}
