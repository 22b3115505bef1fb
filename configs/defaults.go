package configs

import (
	"github.com/spf13/viper"

	"github.com/RyanBlaney/fft-golden/pkg/export"
	"github.com/RyanBlaney/fft-golden/pkg/fft"
)

// DefaultSize is the transform length the hardware core is built for.
const DefaultSize = 256

// setDefaults sets default configuration values for all components
func setDefaults(v *viper.Viper) {
	// Application defaults
	if !v.IsSet("verbose") {
		v.SetDefault("verbose", false)
	}
	if !v.IsSet("log_level") {
		v.SetDefault("log_level", "info")
	}
	if !v.IsSet("output_format") {
		v.SetDefault("output_format", "table")
	}
	if !v.IsSet("output_file") {
		v.SetDefault("output_file", "")
	}

	// Transform defaults
	if !v.IsSet("transform.size") {
		v.SetDefault("transform.size", DefaultSize)
	}
	if !v.IsSet("transform.scale_per_stage") {
		v.SetDefault("transform.scale_per_stage", true)
	}
	if !v.IsSet("transform.window") {
		v.SetDefault("transform.window", true)
	}

	// Stimulus defaults
	if !v.IsSet("stimulus.kind") {
		v.SetDefault("stimulus.kind", StimulusSine)
	}
	if !v.IsSet("stimulus.bin") {
		v.SetDefault("stimulus.bin", 5)
	}
	if !v.IsSet("stimulus.amplitude") {
		v.SetDefault("stimulus.amplitude", 0.9)
	}

	// Analysis defaults
	if !v.IsSet("analysis.enabled") {
		v.SetDefault("analysis.enabled", false)
	}
	if !v.IsSet("analysis.max_error_lsb") {
		v.SetDefault("analysis.max_error_lsb", 8.0)
	}

	setExportDefaults(v)

	// Sweep defaults
	if !v.IsSet("sweep.max_concurrency") {
		v.SetDefault("sweep.max_concurrency", 4)
	}
	if !v.IsSet("sweep.from") {
		v.SetDefault("sweep.from", 1)
	}
	if !v.IsSet("sweep.to") {
		v.SetDefault("sweep.to", 0)
	}

	// Metrics defaults
	if !v.IsSet("metrics.statsd_address") {
		v.SetDefault("metrics.statsd_address", "")
	}
	if !v.IsSet("metrics.namespace") {
		v.SetDefault("metrics.namespace", "fft_golden.")
	}
	if !v.IsSet("metrics.tags") {
		v.SetDefault("metrics.tags", []string{})
	}
}

// setExportDefaults sets the artifact file names the FPGA project expects
func setExportDefaults(v *viper.Viper) {
	d := GetDefaultExportConfig()

	if !v.IsSet("export.dir") {
		v.SetDefault("export.dir", d.Dir)
	}
	if !v.IsSet("export.twiddles.real_coe") {
		v.SetDefault("export.twiddles.real_coe", d.Twiddles.RealCOE)
	}
	if !v.IsSet("export.twiddles.imag_coe") {
		v.SetDefault("export.twiddles.imag_coe", d.Twiddles.ImagCOE)
	}
	if !v.IsSet("export.twiddles.interleaved_coe") {
		v.SetDefault("export.twiddles.interleaved_coe", d.Twiddles.InterleavedCOE)
	}
	if !v.IsSet("export.twiddles.real_mem") {
		v.SetDefault("export.twiddles.real_mem", d.Twiddles.RealMem)
	}
	if !v.IsSet("export.twiddles.imag_mem") {
		v.SetDefault("export.twiddles.imag_mem", d.Twiddles.ImagMem)
	}
	if !v.IsSet("export.stimulus.real_mem") {
		v.SetDefault("export.stimulus.real_mem", d.Stimulus.RealMem)
	}
	if !v.IsSet("export.stimulus.imag_mem") {
		v.SetDefault("export.stimulus.imag_mem", d.Stimulus.ImagMem)
	}
	if !v.IsSet("export.spectrum") {
		v.SetDefault("export.spectrum", d.Spectrum)
	}
}

// GetDefaultConfig returns a Config struct with all default values set
func GetDefaultConfig() *Config {
	return &Config{
		Verbose:      false,
		LogLevel:     "info",
		OutputFormat: "table",

		Transform: GetDefaultTransformConfig(),
		Stimulus:  GetDefaultStimulusConfig(),
		Analysis: AnalysisConfig{
			Enabled:     false,
			MaxErrorLSB: 8,
		},
		Export: GetDefaultExportConfig(),
		Sweep: SweepConfig{
			MaxConcurrency: 4,
			From:           1,
		},
		Metrics: MetricsConfig{
			Namespace: "fft_golden.",
			Tags:      []string{},
		},
	}
}

// GetDefaultTransformConfig returns the 256-point scaled, windowed transform
func GetDefaultTransformConfig() TransformConfig {
	return TransformConfig{
		Size:          DefaultSize,
		ScalePerStage: true,
		Window:        true,
	}
}

// GetDefaultStimulusConfig returns the demo tone at bin 5
func GetDefaultStimulusConfig() StimulusConfig {
	return StimulusConfig{
		Kind:      StimulusSine,
		Bin:       5,
		Amplitude: 0.9,
	}
}

// GetDefaultExportConfig returns the file names used by the FPGA project
func GetDefaultExportConfig() ExportConfig {
	return ExportConfig{
		Dir: "out",
		Twiddles: export.TwiddleFiles{
			RealCOE: "twiddle_wr.coe",
			ImagCOE: "twiddle_wi.coe",
			RealMem: "tw_wr.mem",
			ImagMem: "tw_wi.mem",
		},
		Stimulus: export.StimulusFiles{
			RealMem: "stim256_re.mem",
			ImagMem: "stim256_im.mem",
		},
		Spectrum: "fft_demo_uart_lines.csv",
	}
}

// ImpulseStimulusConfig returns the impulse used for hardware bring-up
func ImpulseStimulusConfig() StimulusConfig {
	return StimulusConfig{
		Kind:      StimulusImpulse,
		Amplitude: fft.DefaultImpulseAmplitude,
	}
}
