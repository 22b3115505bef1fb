package configs

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromDefaults(t *testing.T) {
	cfg, err := LoadConfigFrom(viper.New())
	require.NoError(t, err)

	want := GetDefaultConfig()
	assert.Equal(t, want.LogLevel, cfg.LogLevel)
	assert.Equal(t, want.OutputFormat, cfg.OutputFormat)
	assert.Equal(t, want.Transform, cfg.Transform)
	assert.Equal(t, want.Stimulus, cfg.Stimulus)
	assert.Equal(t, want.Analysis, cfg.Analysis)
	assert.Equal(t, want.Export, cfg.Export)
	assert.Equal(t, want.Sweep, cfg.Sweep)
	assert.Equal(t, want.Metrics.Namespace, cfg.Metrics.Namespace)
	assert.Empty(t, cfg.Metrics.Tags)
	assert.Empty(t, cfg.Metrics.StatsdAddress)
	require.NoError(t, ValidateConfig(cfg))
}

func TestLoadConfigFromYAML(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`
log_level: debug
transform:
  size: 64
  scale_per_stage: false
stimulus:
  kind: impulse
export:
  dir: /tmp/fpga
  twiddles:
    interleaved_coe: twiddles.coe
metrics:
  statsd_address: 127.0.0.1:8125
  tags: [board:arty]
`)))

	cfg, err := LoadConfigFrom(v)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 64, cfg.Transform.Size)
	assert.False(t, cfg.Transform.ScalePerStage)
	assert.True(t, cfg.Transform.Window, "unset keys keep their defaults")
	assert.Equal(t, StimulusImpulse, cfg.Stimulus.Kind)
	assert.Equal(t, "/tmp/fpga", cfg.Export.Dir)
	assert.Equal(t, "twiddles.coe", cfg.Export.Twiddles.InterleavedCOE)
	assert.Equal(t, "twiddle_wr.coe", cfg.Export.Twiddles.RealCOE)
	assert.Equal(t, "127.0.0.1:8125", cfg.Metrics.StatsdAddress)
	assert.Equal(t, []string{"board:arty"}, cfg.Metrics.Tags)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"size not power of two", func(c *Config) { c.Transform.Size = 100 }, "power of two"},
		{"size too small", func(c *Config) { c.Transform.Size = 1 }, "power of two"},
		{"bin out of range", func(c *Config) { c.Stimulus.Bin = 256 }, "out of range"},
		{"negative bin", func(c *Config) { c.Stimulus.Bin = -1 }, "out of range"},
		{"impulse ignores bin", func(c *Config) { c.Stimulus.Kind = "impulse"; c.Stimulus.Bin = 999 }, ""},
		{"unknown stimulus", func(c *Config) { c.Stimulus.Kind = "chirp" }, "unknown stimulus"},
		{"amplitude too large", func(c *Config) { c.Stimulus.Amplitude = 1.5 }, "amplitude"},
		{"negative tolerance", func(c *Config) { c.Analysis.MaxErrorLSB = -1 }, "max error"},
		{"zero concurrency", func(c *Config) { c.Sweep.MaxConcurrency = 0 }, "concurrency"},
		{"reversed sweep", func(c *Config) { c.Sweep.From = 10; c.Sweep.To = 5 }, "sweep range"},
		{"sweep past size", func(c *Config) { c.Sweep.To = 256 }, "sweep end"},
		{"bad output format", func(c *Config) { c.OutputFormat = "xml" }, "output format"},
		{"upper-case output format", func(c *Config) { c.OutputFormat = "JSON" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := GetDefaultConfig()
			tt.mutate(cfg)

			err := ValidateConfig(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDefaultExportNames(t *testing.T) {
	e := GetDefaultExportConfig()
	assert.Equal(t, "tw_wr.mem", e.Twiddles.RealMem)
	assert.Equal(t, "tw_wi.mem", e.Twiddles.ImagMem)
	assert.Equal(t, "stim256_re.mem", e.Stimulus.RealMem)
	assert.Equal(t, "stim256_im.mem", e.Stimulus.ImagMem)
	assert.Equal(t, "fft_demo_uart_lines.csv", e.Spectrum)
	assert.Empty(t, e.Twiddles.InterleavedCOE)
}
