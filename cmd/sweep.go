package cmd

import (
	"github.com/spf13/cobra"

	"github.com/RyanBlaney/fft-golden/internal/app"
)

var sweepProfile string

// sweepCmd represents the sweep command
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Check tone detection across a range of bins",
	Long: `Run a windowed sine through the golden model at every bin of a range
and check that the spectrum peak lands on the tone or its mirror N-k.

Bins run concurrently. A --to of 0 sweeps up to N/2-1.

Examples:
  # Every bin of the 256-point transform below Nyquist
  fft-golden sweep

  # A 64-point sweep as CSV
  fft-golden sweep --size 64 -o csv

  # Bins 10..20 with 8 workers
  fft-golden sweep --from 10 --to 20 --max-concurrency 8`,
	RunE: runSweep,
}

func init() {
	rootCmd.AddCommand(sweepCmd)

	addTransformFlags(sweepCmd)

	sweepCmd.Flags().Float64("amplitude", 0.9, "tone amplitude in (0, 1]")
	sweepCmd.Flags().Int("from", 1, "first bin")
	sweepCmd.Flags().Int("to", 0, "last bin (0 means N/2-1)")
	sweepCmd.Flags().Int("max-concurrency", 4, "concurrent bins")
	sweepCmd.Flags().StringVarP(&sweepProfile, "profile", "p", "",
		"run profile file (YAML or JSON)")
}

func runSweep(cmd *cobra.Command, args []string) error {
	ctx := newAppContext(cmd)
	ctx.ProfileFile = sweepProfile

	return withApp(ctx, func(a *app.GoldenApp) error {
		return a.Sweep(cmd.Context())
	})
}
