package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/RyanBlaney/fft-golden/configs"
	"github.com/RyanBlaney/fft-golden/internal/app"
)

const envPrefix = "FFT_GOLDEN"

var (
	configFile   string
	verbose      bool
	quiet        bool
	logLevel     string
	outputFormat string
	outputFile   string
)

// flagKeys maps command flags onto configuration keys. Flags missing from
// the map are read directly by their command.
var flagKeys = map[string]string{
	"verbose":         "verbose",
	"log-level":       "log_level",
	"output":          "output_format",
	"output-file":     "output_file",
	"size":            "transform.size",
	"stimulus":        "stimulus.kind",
	"bin":             "stimulus.bin",
	"amplitude":       "stimulus.amplitude",
	"max-error":       "analysis.max_error_lsb",
	"export-dir":      "export.dir",
	"from":            "sweep.from",
	"to":              "sweep.to",
	"max-concurrency": "sweep.max_concurrency",
	"statsd":          "metrics.statsd_address",
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fft-golden",
	Short: "Bit-exact Q1.15 FFT golden model",
	Long: `A bit-exact software model of a fixed-point radix-2 FFT core.

The model reproduces the arithmetic of the hardware datapath sample for
sample so that simulation and on-board captures can be checked against it.

Key features:
- Q1.15 butterflies with optional per-stage scaling
- Hann windowing and synthetic test tones
- Twiddle ROM and stimulus export (.coe and .mem)
- UART line rendering of |X[k]|²
- Floating-point reference comparison in LSBs
- Tone detection sweeps
- Optional DogStatsD metrics`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (default is $HOME/.config/fft-golden/fft-golden.yaml)")

	// Output and logging flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"only log errors")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table",
		"output format (json, table, csv, yaml)")
	rootCmd.PersistentFlags().StringVar(&outputFile, "output-file", "",
		"write results to a file instead of stdout")
	rootCmd.PersistentFlags().String("statsd", "",
		"DogStatsD address, e.g. 127.0.0.1:8125 (metrics are off when empty)")
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if configFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "fft-golden"))
		}
		viper.AddConfigPath("./configs")
		viper.AddConfigPath(".")
		viper.SetConfigName("fft-golden")
		viper.SetConfigType("yaml")
	}

	// Environment variable support
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	configs.SetDefaults(viper.GetViper())

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
		}
	} else if configFile != "" {
		fmt.Fprintf(os.Stderr, "Failed to read config file %s: %v\n", configFile, err)
		os.Exit(1)
	}
}

// initializeConfig initializes configuration after flags are parsed
func initializeConfig(cmd *cobra.Command) error {
	// Bind all flags to viper
	return bindFlags(cmd, viper.GetViper())
}

// bindFlags binds each mapped cobra flag to its configuration key
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	var lastErr error

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok {
			return
		}

		// Bind the flag to viper
		if err := v.BindPFlag(key, f); err != nil {
			lastErr = err
		}

		// Bind to environment variable
		envVarSuffix := strings.ToUpper(strings.NewReplacer("-", "_", ".", "_").Replace(key))
		if err := v.BindEnv(key, envPrefix+"_"+envVarSuffix); err != nil {
			lastErr = err
		}
	})

	return lastErr
}

// addTransformFlags registers the flags shared by every command that runs
// or exports a transform
func addTransformFlags(cmd *cobra.Command) {
	cmd.Flags().Int("size", configs.DefaultSize, "transform length N (power of two)")
	cmd.Flags().Bool("no-scale", false, "disable the >>1 scaling after each stage")
	cmd.Flags().Bool("no-window", false, "skip the Hann window")
}

// addStimulusFlags registers the test signal flags
func addStimulusFlags(cmd *cobra.Command) {
	cmd.Flags().String("stimulus", configs.StimulusSine, "test signal (sine, impulse, zero)")
	cmd.Flags().Int("bin", 5, "sine bin")
	cmd.Flags().Float64("amplitude", 0.9, "signal amplitude in (0, 1]")
}

// applyInvertedFlags turns the negative transform flags into configuration
func applyInvertedFlags(cmd *cobra.Command) {
	if f := cmd.Flags().Lookup("no-scale"); f != nil && f.Changed {
		viper.Set("transform.scale_per_stage", f.Value.String() != "true")
	}
	if f := cmd.Flags().Lookup("no-window"); f != nil && f.Changed {
		viper.Set("transform.window", f.Value.String() != "true")
	}
}

// newAppContext builds the application context shared by every command
func newAppContext(cmd *cobra.Command) *app.Context {
	applyInvertedFlags(cmd)

	return &app.Context{
		Verbose: viper.GetBool("verbose"),
		Quiet:   quiet,
		Viper:   viper.GetViper(),
	}
}

// withApp creates the application, runs fn and closes the application
func withApp(ctx *app.Context, fn func(*app.GoldenApp) error) (err error) {
	golden, err := app.NewGoldenApp(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := golden.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close application: %w", cerr)
		}
	}()

	return fn(golden)
}

// GetConfig returns the current viper instance
func GetConfig() *viper.Viper {
	return viper.GetViper()
}
