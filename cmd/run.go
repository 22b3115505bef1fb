package cmd

import (
	"github.com/spf13/cobra"

	"github.com/RyanBlaney/fft-golden/internal/analysis"
	"github.com/RyanBlaney/fft-golden/internal/app"
)

var (
	runProfile string
	runAnalyze bool
	runBackend string
	runIdeal   bool
	runTrace   bool
	runExport  bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the golden model once and report the spectrum peak",
	Long: `Generate a test signal, window it, run the fixed-point transform and
report the peak bin and its squared magnitude.

With --analyze the spectrum is compared against a floating-point FFT of the
same quantized input and the error is reported in LSBs. With --export the
twiddle tables and the UART lines are written to the export directory; with
--trace every stage buffer is written as well.

Examples:
  # Default 256-point tone at bin 5
  fft-golden run

  # Impulse through an unscaled, unwindowed transform
  fft-golden run --stimulus impulse --no-scale --no-window

  # Compare against the float reference and fail above 4 LSB
  fft-golden run --analyze --max-error 4 -o json

  # Write every hardware artifact including stage dumps
  fft-golden run --export --trace --export-dir ./fpga`,
	RunE: runGolden,
}

func init() {
	rootCmd.AddCommand(runCmd)

	addTransformFlags(runCmd)
	addStimulusFlags(runCmd)

	runCmd.Flags().StringVarP(&runProfile, "profile", "p", "",
		"run profile file (YAML or JSON)")
	runCmd.Flags().BoolVar(&runAnalyze, "analyze", false,
		"compare against a floating-point reference")
	runCmd.Flags().StringVar(&runBackend, "backend", analysis.BackendDSP,
		"reference FFT backend (dsp, gonum)")
	runCmd.Flags().BoolVar(&runIdeal, "ideal", false,
		"compare against the unquantized stimulus and a float Hann window")
	runCmd.Flags().Float64("max-error", 8,
		"maximum reference error in LSB before the run fails")
	runCmd.Flags().BoolVar(&runTrace, "trace", false,
		"capture every stage buffer")
	runCmd.Flags().BoolVar(&runExport, "export", false,
		"write twiddles, UART lines and stage dumps")
	runCmd.Flags().String("export-dir", "out",
		"artifact directory")
}

func runGolden(cmd *cobra.Command, args []string) error {
	ctx := newAppContext(cmd)
	ctx.ProfileFile = runProfile
	ctx.Analyze = runAnalyze
	ctx.Backend = runBackend
	ctx.Ideal = runIdeal
	ctx.Trace = runTrace
	ctx.Export = runExport

	return withApp(ctx, func(a *app.GoldenApp) error {
		return a.Run(cmd.Context())
	})
}
