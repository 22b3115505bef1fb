package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/RyanBlaney/fft-golden/configs"
	"github.com/RyanBlaney/fft-golden/internal/app"
)

const (
	ColorGreen = "\033[32m"
	ColorReset = "\033[0m"
)

var (
	configTestExample  string
	configTestValidate string
)

// configTestCmd represents the config test command
var configTestCmd = &cobra.Command{
	Use:   "config-test",
	Short: "Test and display all configuration values",
	Long: `Test configuration loading and display all values to verify proper parsing.

This command loads the configuration and displays all values in a structured format
to help verify that your YAML configuration is being parsed correctly. It can also
write an example run profile or validate an existing one.

Examples:
  # Test with default config file
  fft-golden config-test

  # Test with specific config file
  fft-golden --config /path/to/config.yaml config-test

  # Write an example run profile
  fft-golden config-test --example profiles/demo.yaml

  # Validate a run profile
  fft-golden config-test --validate profiles/demo.yaml`,
	RunE: runConfigTest,
}

func init() {
	rootCmd.AddCommand(configTestCmd)

	configTestCmd.Flags().StringVar(&configTestExample, "example", "",
		"write an example run profile to this file")
	configTestCmd.Flags().StringVar(&configTestValidate, "validate", "",
		"validate a run profile file")
}

func runConfigTest(cmd *cobra.Command, args []string) error {
	fs := afero.NewOsFs()

	if configTestExample != "" {
		if err := app.GenerateExampleProfile(fs, configTestExample); err != nil {
			return err
		}
		fmt.Printf("Example profile written to %s\n", configTestExample)
		return nil
	}

	if configTestValidate != "" {
		if err := app.ValidateProfile(fs, configTestValidate); err != nil {
			return err
		}
		fmt.Printf("%sProfile %s is valid%s\n", ColorGreen, configTestValidate, ColorReset)
		return nil
	}

	fmt.Println("FFT GOLDEN MODEL CONFIGURATION TEST")
	fmt.Println(strings.Repeat("=", 80))

	// Load configuration
	config, err := configs.LoadConfigFrom(GetConfig())
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	printSection("APPLICATION SETTINGS")
	printKeyValue("Verbose", fmt.Sprintf("%t", config.Verbose))
	printKeyValue("Log Level", config.LogLevel)
	printKeyValue("Output Format", config.OutputFormat)
	printKeyValue("Output File", config.OutputFile)

	printSection("TRANSFORM CONFIGURATION")
	printKeyValue("Size", fmt.Sprintf("%d", config.Transform.Size))
	printKeyValue("Scale Per Stage", fmt.Sprintf("%t", config.Transform.ScalePerStage))
	printKeyValue("Hann Window", fmt.Sprintf("%t", config.Transform.Window))

	printSection("STIMULUS CONFIGURATION")
	printKeyValue("Kind", config.Stimulus.Kind)
	printKeyValue("Bin", fmt.Sprintf("%d", config.Stimulus.Bin))
	printKeyValue("Amplitude", fmt.Sprintf("%.4f", config.Stimulus.Amplitude))

	printSection("ANALYSIS CONFIGURATION")
	printKeyValue("Enabled", fmt.Sprintf("%t", config.Analysis.Enabled))
	printKeyValue("Max Error", fmt.Sprintf("%.2f LSB", config.Analysis.MaxErrorLSB))

	printSection("EXPORT CONFIGURATION")
	printKeyValue("Directory", config.Export.Dir)
	printSubsection("Twiddles")
	printKeyValue("  Real COE", config.Export.Twiddles.RealCOE)
	printKeyValue("  Imag COE", config.Export.Twiddles.ImagCOE)
	printKeyValue("  Interleaved COE", config.Export.Twiddles.InterleavedCOE)
	printKeyValue("  Real MEM", config.Export.Twiddles.RealMem)
	printKeyValue("  Imag MEM", config.Export.Twiddles.ImagMem)
	printSubsection("Stimulus")
	printKeyValue("  Real MEM", config.Export.Stimulus.RealMem)
	printKeyValue("  Imag MEM", config.Export.Stimulus.ImagMem)
	printKeyValue("Spectrum", config.Export.Spectrum)

	printSection("SWEEP CONFIGURATION")
	printKeyValue("Max Concurrency", fmt.Sprintf("%d", config.Sweep.MaxConcurrency))
	printKeyValue("From", fmt.Sprintf("%d", config.Sweep.From))
	if config.Sweep.To == 0 {
		printKeyValue("To", fmt.Sprintf("%d (N/2-1)", config.Transform.Size/2-1))
	} else {
		printKeyValue("To", fmt.Sprintf("%d", config.Sweep.To))
	}

	printSection("METRICS CONFIGURATION")
	if config.Metrics.StatsdAddress == "" {
		printKeyValue("StatsD Address", "(disabled)")
	} else {
		printKeyValue("StatsD Address", config.Metrics.StatsdAddress)
	}
	printKeyValue("Namespace", config.Metrics.Namespace)
	if len(config.Metrics.Tags) > 0 {
		printKeyValue("Tags", fmt.Sprintf("(%d)", len(config.Metrics.Tags)))
		for _, tag := range config.Metrics.Tags {
			printKeyValue("  "+tag, "")
		}
	}

	if err := configs.ValidateConfig(config); err != nil {
		return fmt.Errorf("configuration is invalid: %w", err)
	}

	fmt.Println()
	fmt.Println(ColorGreen + strings.Repeat("-", 80))
	fmt.Println("CONFIGURATION TEST COMPLETED SUCCESSFULLY")
	fmt.Printf("Config file: %s\n", getConfigFilePath())
	fmt.Println(strings.Repeat("=", 80) + ColorReset)

	return nil
}

func printSection(title string) {
	fmt.Printf("\n%s\n", title)
	fmt.Println(strings.Repeat("-", len(title)))
}

func printSubsection(title string) {
	fmt.Printf("\n  %s\n", title)
}

func printKeyValue(key, value string) {
	if value == "" {
		fmt.Printf("%-35s\n", key)
	} else {
		fmt.Printf("%-35s %s\n", key+":", value)
	}
}

func getConfigFilePath() string {
	if used := GetConfig().ConfigFileUsed(); used != "" {
		return used
	}
	return "(none, using defaults)"
}
