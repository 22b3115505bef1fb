package configs

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/RyanBlaney/fft-golden/pkg/export"
	"github.com/RyanBlaney/fft-golden/pkg/fft"
)

// Config represents the application configuration
type Config struct {
	// Application settings
	Verbose      bool   `mapstructure:"verbose"`
	LogLevel     string `mapstructure:"log_level"`
	OutputFormat string `mapstructure:"output_format"`
	OutputFile   string `mapstructure:"output_file"`

	// Transform configuration
	Transform TransformConfig `mapstructure:"transform"`

	// Test signal configuration
	Stimulus StimulusConfig `mapstructure:"stimulus"`

	// Reference comparison
	Analysis AnalysisConfig `mapstructure:"analysis"`

	// Hardware artifact export
	Export ExportConfig `mapstructure:"export"`

	// Tone detection sweep
	Sweep SweepConfig `mapstructure:"sweep"`

	// DogStatsD metrics
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// TransformConfig contains the FFT settings
type TransformConfig struct {
	Size          int  `mapstructure:"size" json:"size" yaml:"size"`
	ScalePerStage bool `mapstructure:"scale_per_stage" json:"scale_per_stage" yaml:"scale_per_stage"`
	Window        bool `mapstructure:"window" json:"window" yaml:"window"`
}

// StimulusConfig describes the generated input signal
type StimulusConfig struct {
	Kind      string  `mapstructure:"kind" json:"kind" yaml:"kind"`
	Bin       int     `mapstructure:"bin" json:"bin" yaml:"bin"`
	Amplitude float64 `mapstructure:"amplitude" json:"amplitude" yaml:"amplitude"`
}

// AnalysisConfig contains floating-point reference comparison settings
type AnalysisConfig struct {
	Enabled     bool    `mapstructure:"enabled" json:"enabled" yaml:"enabled"`
	MaxErrorLSB float64 `mapstructure:"max_error_lsb" json:"max_error_lsb" yaml:"max_error_lsb"`
}

// ExportConfig names the artifact files and their directory
type ExportConfig struct {
	Dir      string               `mapstructure:"dir" json:"dir" yaml:"dir"`
	Twiddles export.TwiddleFiles  `mapstructure:"twiddles" json:"twiddles" yaml:"twiddles"`
	Stimulus export.StimulusFiles `mapstructure:"stimulus" json:"stimulus" yaml:"stimulus"`
	Spectrum string               `mapstructure:"spectrum" json:"spectrum" yaml:"spectrum"`
}

// SweepConfig contains tone sweep settings. A zero To means N/2-1.
type SweepConfig struct {
	MaxConcurrency int `mapstructure:"max_concurrency" json:"max_concurrency" yaml:"max_concurrency"`
	From           int `mapstructure:"from" json:"from" yaml:"from"`
	To             int `mapstructure:"to" json:"to" yaml:"to"`
}

// MetricsConfig contains DogStatsD settings. An empty address disables metrics.
type MetricsConfig struct {
	StatsdAddress string   `mapstructure:"statsd_address" json:"statsd_address" yaml:"statsd_address"`
	Namespace     string   `mapstructure:"namespace" json:"namespace" yaml:"namespace"`
	Tags          []string `mapstructure:"tags" json:"tags" yaml:"tags"`
}

// Stimulus kinds
const (
	StimulusSine    = "sine"
	StimulusImpulse = "impulse"
	StimulusZero    = "zero"
)

var validOutputFormats = []string{"json", "yaml", "csv", "table"}

// LoadConfig loads configuration from the global viper instance
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(viper.GetViper())
}

// LoadConfigFrom loads configuration from v, filling in defaults first
func LoadConfigFrom(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode configuration: %w", err)
	}

	return config, nil
}

// SetDefaults registers default values on v
func SetDefaults(v *viper.Viper) {
	setDefaults(v)
}

// ValidateConfig validates the configuration
func ValidateConfig(config *Config) error {
	n := config.Transform.Size
	if n < 2 || !fft.IsPowerOfTwo(n) {
		return fmt.Errorf("transform size must be a power of two >= 2, got %d", n)
	}

	switch strings.ToLower(config.Stimulus.Kind) {
	case StimulusSine:
		if config.Stimulus.Bin < 0 || config.Stimulus.Bin >= n {
			return fmt.Errorf("stimulus bin %d out of range [0, %d)", config.Stimulus.Bin, n)
		}
	case StimulusImpulse, StimulusZero:
	default:
		return fmt.Errorf("unknown stimulus kind %q", config.Stimulus.Kind)
	}

	if config.Stimulus.Amplitude < 0 || config.Stimulus.Amplitude > 1 {
		return fmt.Errorf("stimulus amplitude must be between 0 and 1")
	}

	if config.Analysis.MaxErrorLSB < 0 {
		return fmt.Errorf("analysis max error cannot be negative")
	}

	if config.Sweep.MaxConcurrency <= 0 {
		return fmt.Errorf("sweep max concurrency must be positive")
	}

	if config.Sweep.From < 0 || (config.Sweep.To != 0 && config.Sweep.To < config.Sweep.From) {
		return fmt.Errorf("invalid sweep range [%d, %d]", config.Sweep.From, config.Sweep.To)
	}

	if config.Sweep.To >= n {
		return fmt.Errorf("sweep end %d out of range for size %d", config.Sweep.To, n)
	}

	if !isValidOutputFormat(config.OutputFormat) {
		return fmt.Errorf("unsupported output format %q (want one of %s)",
			config.OutputFormat, strings.Join(validOutputFormats, ", "))
	}

	return nil
}

func isValidOutputFormat(format string) bool {
	for _, f := range validOutputFormats {
		if strings.EqualFold(f, format) {
			return true
		}
	}
	return false
}
