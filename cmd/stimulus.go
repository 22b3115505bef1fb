package cmd

import (
	"github.com/spf13/cobra"

	"github.com/RyanBlaney/fft-golden/configs"
	"github.com/RyanBlaney/fft-golden/internal/app"
)

// stimulusCmd represents the stimulus command
var stimulusCmd = &cobra.Command{
	Use:   "stimulus",
	Short: "Export a test signal as hex .mem files",
	Long: `Generate the configured test signal without windowing and write its
real and imaginary parts as 16-bit hex .mem files for simulation.

Examples:
  # Default 0.9 amplitude tone at bin 5
  fft-golden stimulus

  # Near full scale impulse
  fft-golden stimulus --stimulus impulse --amplitude 0.999`,
	RunE: runStimulus,
}

func init() {
	rootCmd.AddCommand(stimulusCmd)

	stimulusCmd.Flags().Int("size", configs.DefaultSize, "transform length N (power of two)")
	stimulusCmd.Flags().String("export-dir", "out", "artifact directory")
	addStimulusFlags(stimulusCmd)
}

func runStimulus(cmd *cobra.Command, args []string) error {
	return withApp(newAppContext(cmd), func(a *app.GoldenApp) error {
		return a.ExportStimulus(cmd.Context())
	})
}
