package app

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/RyanBlaney/fft-golden/configs"
)

// Profile is a run profile file. Sections that are present replace the
// matching section of the base configuration.
type Profile struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	Transform *configs.TransformConfig `json:"transform,omitempty" yaml:"transform,omitempty"`
	Stimulus  *configs.StimulusConfig  `json:"stimulus,omitempty" yaml:"stimulus,omitempty"`
	Analysis  *configs.AnalysisConfig  `json:"analysis,omitempty" yaml:"analysis,omitempty"`
	Export    *configs.ExportConfig    `json:"export,omitempty" yaml:"export,omitempty"`
	Sweep     *configs.SweepConfig     `json:"sweep,omitempty" yaml:"sweep,omitempty"`
}

// loadProfileFromFile loads a run profile from a YAML or JSON file
func loadProfileFromFile(fs afero.Fs, filePath string) (*Profile, error) {
	// Check if file exists
	exists, err := afero.Exists(fs, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat profile file: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("profile file does not exist: %s", filePath)
	}

	data, err := afero.ReadFile(fs, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file: %w", err)
	}

	// Determine file format
	switch filepath.Ext(filePath) {
	case ".yaml", ".yml":
		return parseProfileYAML(data)
	case ".json":
		return parseProfileJSON(data)
	default:
		// Try YAML first, then JSON
		if p, err := parseProfileYAML(data); err == nil {
			return p, nil
		}
		return parseProfileJSON(data)
	}
}

func parseProfileYAML(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse YAML profile: %w", err)
	}
	return &p, nil
}

func parseProfileJSON(data []byte) (*Profile, error) {
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse JSON profile: %w", err)
	}
	return &p, nil
}

// mergeConfig applies the profile and then CLI overrides to a copy of base
func mergeConfig(base *configs.Config, profile *Profile, ctx *Context) *configs.Config {
	merged := *base

	if profile != nil {
		if profile.Transform != nil {
			merged.Transform = *profile.Transform
		}
		if profile.Stimulus != nil {
			merged.Stimulus = *profile.Stimulus
		}
		if profile.Analysis != nil {
			merged.Analysis = *profile.Analysis
		}
		if profile.Export != nil {
			merged.Export = *profile.Export
		}
		if profile.Sweep != nil {
			merged.Sweep = *profile.Sweep
		}
	}

	// CLI flags win
	if ctx.OutputFormat != "" {
		merged.OutputFormat = ctx.OutputFormat
	}
	if ctx.OutputFile != "" {
		merged.OutputFile = ctx.OutputFile
	}
	if ctx.ExportDir != "" {
		merged.Export.Dir = ctx.ExportDir
	}
	if ctx.Analyze {
		merged.Analysis.Enabled = true
	}
	if ctx.Verbose {
		merged.Verbose = true
	}

	return &merged
}

// GenerateExampleProfile writes an example run profile
func GenerateExampleProfile(fs afero.Fs, outputFile string) error {
	def := configs.GetDefaultConfig()
	transform := def.Transform
	stimulus := def.Stimulus
	analysis := configs.AnalysisConfig{Enabled: true, MaxErrorLSB: def.Analysis.MaxErrorLSB}

	profile := Profile{
		Name:        "demo-tone",
		Description: "256-point Hann windowed tone at bin 5, scaled per stage",
		Transform:   &transform,
		Stimulus:    &stimulus,
		Analysis:    &analysis,
	}

	var (
		data []byte
		err  error
	)
	if filepath.Ext(outputFile) == ".json" {
		data, err = json.MarshalIndent(profile, "", "  ")
	} else {
		data, err = yaml.Marshal(profile)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal example profile: %w", err)
	}

	if dir := filepath.Dir(outputFile); dir != "." {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := afero.WriteFile(fs, outputFile, data, 0o644); err != nil {
		return fmt.Errorf("failed to write example profile: %w", err)
	}

	return nil
}

// ValidateProfile loads and validates a profile against the defaults
func ValidateProfile(fs afero.Fs, profileFile string) error {
	profile, err := loadProfileFromFile(fs, profileFile)
	if err != nil {
		return err
	}

	merged := mergeConfig(configs.GetDefaultConfig(), profile, &Context{})
	if err := configs.ValidateConfig(merged); err != nil {
		return fmt.Errorf("profile %s is invalid: %w", profileFile, err)
	}

	return nil
}
