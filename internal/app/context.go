package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/DataDog/datadog-go/v5/statsd"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"go.uber.org/multierr"

	"github.com/RyanBlaney/fft-golden/configs"
	"github.com/RyanBlaney/fft-golden/internal/analysis"
	"github.com/RyanBlaney/fft-golden/internal/golden"
	"github.com/RyanBlaney/fft-golden/internal/sweep"
	"github.com/RyanBlaney/fft-golden/pkg/export"
	"github.com/RyanBlaney/fft-golden/pkg/logging"
	"github.com/RyanBlaney/fft-golden/pkg/output"
)

// ErrToleranceExceeded is returned when the reference comparison finds a bin
// further from the floating-point spectrum than the configured tolerance.
var ErrToleranceExceeded = errors.New("reference error exceeds tolerance")

// Context holds the application context and configuration
type Context struct {
	// CLI arguments
	ProfileFile  string // Run profile file (optional)
	OutputFile   string
	OutputFormat string
	ExportDir    string
	Export       bool
	Analyze      bool
	Backend      string
	Ideal        bool // Compare against the unquantized stimulus and window
	Trace        bool
	Verbose      bool
	Quiet        bool

	// Runtime context
	Logger  logging.Logger
	Config  *configs.Config
	Viper   *viper.Viper
	Fs      afero.Fs
	Stdout  io.Writer
	Metrics statsd.ClientInterface
}

// GoldenApp handles the golden model application lifecycle
type GoldenApp struct {
	ctx     *Context
	config  *configs.Config
	logger  logging.Logger
	fs      afero.Fs
	stdout  io.Writer
	metrics statsd.ClientInterface
	tags    []string
}

// NewGoldenApp creates a new golden model application
func NewGoldenApp(ctx *Context) (*GoldenApp, error) {
	if ctx.Fs == nil {
		ctx.Fs = afero.NewOsFs()
	}
	if ctx.Stdout == nil {
		ctx.Stdout = os.Stdout
	}

	// Load configuration
	config, err := loadAndMergeConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	ctx.Config = config

	// Set up logging
	logger, err := setupLogging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}
	ctx.Logger = logger

	metrics, err := setupMetrics(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to set up metrics: %w", err)
	}
	ctx.Metrics = metrics

	logger.Debug("Golden application initialized", logging.Fields{
		"profile_file":  ctx.ProfileFile,
		"output_format": config.OutputFormat,
		"size":          config.Transform.Size,
		"stimulus":      config.Stimulus.Kind,
		"statsd":        config.Metrics.StatsdAddress,
	})

	return &GoldenApp{
		ctx:     ctx,
		config:  config,
		logger:  logger,
		fs:      ctx.Fs,
		stdout:  ctx.Stdout,
		metrics: metrics,
		tags: []string{
			fmt.Sprintf("size:%d", config.Transform.Size),
			fmt.Sprintf("scaled:%t", config.Transform.ScalePerStage),
		},
	}, nil
}

// Config returns the merged configuration
func (app *GoldenApp) Config() *configs.Config {
	return app.config
}

// Close flushes metrics and logs
func (app *GoldenApp) Close() error {
	var err error
	if app.metrics != nil {
		err = multierr.Append(err, app.metrics.Close())
	}
	// Sync returns EINVAL when stderr is a terminal.
	_ = app.logger.Sync()
	return err
}

// Run executes a golden run, the optional reference analysis and exports
func (app *GoldenApp) Run(ctx context.Context) error {
	engine := golden.NewEngine(&golden.EngineConfig{Logger: app.logger})

	rc := golden.NewRunConfig(app.config)
	rc.Trace = app.ctx.Trace

	result, err := engine.Run(ctx, rc)
	if err != nil {
		return fmt.Errorf("golden run failed: %w", err)
	}

	app.logger.Info("Golden run complete", logging.Fields{
		"peak_bin":       result.PeakBin,
		"peak_magnitude": result.PeakMagnitude,
	})

	var stats *analysis.ErrorStats
	if app.config.Analysis.Enabled {
		stats, err = app.analyze(result)
		if err != nil {
			return fmt.Errorf("reference analysis failed: %w", err)
		}
	}

	var exported []string
	if app.ctx.Export {
		exported, err = app.exportRun(ctx, result)
		if err != nil {
			return fmt.Errorf("failed to export artifacts: %w", err)
		}
	}

	if err := app.outputResults(buildRunReport(result, stats, exported, app.config, app.ctx.Ideal)); err != nil {
		return fmt.Errorf("failed to output results: %w", err)
	}

	app.collectRunMetrics(result, stats)

	if stats != nil && !stats.Within(app.config.Analysis.MaxErrorLSB) {
		return fmt.Errorf("%w: %.2f LSB at bin %d (tolerance %.2f)",
			ErrToleranceExceeded, stats.Max, stats.MaxBin, app.config.Analysis.MaxErrorLSB)
	}

	return nil
}

// ExportTwiddles writes the configured twiddle artifacts
func (app *GoldenApp) ExportTwiddles(ctx context.Context) error {
	artifacts, err := export.TwiddleArtifacts(app.config.Transform.Size, app.config.Export.Twiddles)
	if err != nil {
		return err
	}
	return app.exportAndReport(ctx, "twiddles", artifacts)
}

// ExportStimulus writes the configured stimulus as real/imag .mem files
func (app *GoldenApp) ExportStimulus(ctx context.Context) error {
	x, err := golden.GenerateStimulus(app.config.Transform.Size, app.config.Stimulus)
	if err != nil {
		return err
	}
	return app.exportAndReport(ctx, "stimulus", export.StimulusArtifacts(x, app.config.Export.Stimulus))
}

// Sweep runs the tone detection sweep over the configured range
func (app *GoldenApp) Sweep(ctx context.Context) error {
	orchestrator, err := sweep.NewOrchestrator(app.config, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create sweep orchestrator: %w", err)
	}

	summary, err := orchestrator.Run(ctx, app.config.Sweep.From, app.config.Sweep.To)
	if err != nil {
		return fmt.Errorf("sweep failed: %w", err)
	}

	app.logger.Info("Sweep complete", logging.Fields{
		"detected":       summary.Detected,
		"bins":           len(summary.Results),
		"detection_rate": summary.DetectionRate,
	})

	var data any = summary
	if !app.config.Verbose && !isTabular(app.config.OutputFormat) {
		data = cleanSweepSummary(summary)
	}
	if err := app.outputResults(data); err != nil {
		return fmt.Errorf("failed to output results: %w", err)
	}

	app.gauge("sweep.detection_rate", summary.DetectionRate, nil)
	app.count("sweep.missed", int64(len(summary.Missed)), nil)
	app.timing("sweep.duration", summary.TotalDuration, nil)

	return nil
}

// setupLogging configures logging based on context
func setupLogging(ctx *Context) (logging.Logger, error) {
	if ctx.Logger != nil {
		return ctx.Logger, nil
	}

	level := ctx.Config.LogLevel
	switch {
	case ctx.Quiet:
		level = "error"
	case ctx.Verbose || ctx.Config.Verbose:
		level = "debug"
	}
	return logging.NewLogger(level)
}

// setupMetrics returns the injected client, a DogStatsD client when an
// address is configured, or a no-op client.
func setupMetrics(ctx *Context) (statsd.ClientInterface, error) {
	if ctx.Metrics != nil {
		return ctx.Metrics, nil
	}

	m := ctx.Config.Metrics
	if m.StatsdAddress == "" {
		return &statsd.NoOpClient{}, nil
	}

	client, err := statsd.New(m.StatsdAddress,
		statsd.WithNamespace(m.Namespace),
		statsd.WithTags(m.Tags),
	)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// loadAndMergeConfig loads configuration from viper and the profile file and
// merges CLI flags on top
func loadAndMergeConfig(ctx *Context) (*configs.Config, error) {
	v := ctx.Viper
	if v == nil {
		v = viper.GetViper()
	}

	baseConfig, err := configs.LoadConfigFrom(v)
	if err != nil {
		return nil, fmt.Errorf("failed to load base configuration: %w", err)
	}

	var profile *Profile
	if ctx.ProfileFile != "" {
		profile, err = loadProfileFromFile(ctx.Fs, ctx.ProfileFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load profile: %w", err)
		}
	}

	merged := mergeConfig(baseConfig, profile, ctx)

	if err := configs.ValidateConfig(merged); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return merged, nil
}

func (app *GoldenApp) analyze(result *golden.Result) (*analysis.ErrorStats, error) {
	var (
		ref []complex128
		err error
	)
	if app.ctx.Ideal {
		ref, err = analysis.IdealReference(result.Config, app.ctx.Backend)
	} else {
		ref, err = analysis.Reference(result.Input, result.Config.Transform.ScalePerStage, app.ctx.Backend)
	}
	if err != nil {
		return nil, err
	}
	return analysis.NewMetricsCalculator(app.logger).Compare(result.Spectrum, ref)
}

// exportRun writes the spectrum lines, the twiddle tables and, when traced,
// every stage buffer
func (app *GoldenApp) exportRun(ctx context.Context, result *golden.Result) ([]string, error) {
	artifacts, err := export.TwiddleArtifacts(result.Config.Transform.Size, app.config.Export.Twiddles)
	if err != nil {
		return nil, err
	}

	if name := app.config.Export.Spectrum; name != "" {
		artifacts = append(artifacts, export.SpectrumArtifact(name, result.Spectrum))
	}

	for _, st := range result.Stages {
		artifacts = append(artifacts, export.StimulusArtifacts(st.Data, export.StimulusFiles{
			RealMem: fmt.Sprintf("stage%d_re.mem", st.Stage),
			ImagMem: fmt.Sprintf("stage%d_im.mem", st.Stage),
		})...)
	}

	exporter := export.NewExporter(app.fs, app.config.Export.Dir, app.logger)
	if err := exporter.ExportBundle(ctx, artifacts); err != nil {
		return nil, err
	}

	paths := make([]string, len(artifacts))
	for i, a := range artifacts {
		paths[i] = exporter.Path(a.Name)
	}
	return paths, nil
}

func (app *GoldenApp) exportAndReport(ctx context.Context, kind string, artifacts []export.Artifact) error {
	exporter := export.NewExporter(app.fs, app.config.Export.Dir, app.logger)
	if err := exporter.ExportBundle(ctx, artifacts); err != nil {
		return fmt.Errorf("failed to export %s: %w", kind, err)
	}

	files := make([]any, len(artifacts))
	for i, a := range artifacts {
		files[i] = map[string]any{
			"kind": a.Kind,
			"path": exporter.Path(a.Name),
		}
	}

	app.count("export.artifacts", int64(len(artifacts)), []string{"kind:" + kind})

	return app.outputResults(map[string]any{
		"export": map[string]any{
			"kind":      kind,
			"size":      app.config.Transform.Size,
			"dir":       app.config.Export.Dir,
			"artifacts": files,
		},
	})
}

// outputResults formats data and writes it to the output file or stdout
func (app *GoldenApp) outputResults(data any) error {
	formatter := output.NewFormatter(app.config.OutputFormat)

	formattedData, err := formatter.Format(data, true)
	if err != nil {
		// If JSON formatting fails due to infinite values, try to sanitize the data
		if strings.Contains(err.Error(), "unsupported value") {
			formattedData, err = formatter.Format(sanitizeForJSON(data), true)
		}
		if err != nil {
			return fmt.Errorf("failed to format output data: %w", err)
		}
	}

	// Write to file or stdout
	if app.config.OutputFile != "" {
		return app.writeToFile(formattedData)
	}

	_, err = app.stdout.Write(formattedData)
	return err
}

// writeToFile writes data to the configured output file
func (app *GoldenApp) writeToFile(data []byte) error {
	path := app.config.OutputFile

	// Ensure directory exists
	if err := app.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := afero.WriteFile(app.fs, path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	app.logger.Debug("Results written to file", logging.Fields{
		"output_file": path,
		"size_bytes":  len(data),
	})

	return nil
}

func isTabular(format string) bool {
	f := strings.ToLower(format)
	return f == "table" || f == "csv"
}
