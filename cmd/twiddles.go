package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/RyanBlaney/fft-golden/configs"
	"github.com/RyanBlaney/fft-golden/internal/app"
)

var twiddlesInterleaved string

// twiddlesCmd represents the twiddles command
var twiddlesCmd = &cobra.Command{
	Use:   "twiddles",
	Short: "Export the twiddle ROM initialization files",
	Long: `Write the N/2 twiddle factors W_N^k = cos(2πk/N) - j·sin(2πk/N) in Q1.15
as radix-10 .coe files (real and imaginary) and as hex .mem files.

File names come from export.twiddles in the configuration.

Examples:
  # 256-point tables into ./out
  fft-golden twiddles

  # 1024-point tables plus a single interleaved .coe
  fft-golden twiddles --size 1024 --interleaved twiddle_1024.coe --export-dir rom`,
	RunE: runTwiddles,
}

func init() {
	rootCmd.AddCommand(twiddlesCmd)

	twiddlesCmd.Flags().Int("size", configs.DefaultSize, "transform length N (power of two)")
	twiddlesCmd.Flags().String("export-dir", "out", "artifact directory")
	twiddlesCmd.Flags().StringVar(&twiddlesInterleaved, "interleaved", "",
		"also write real/imag pairs into this single .coe file")
}

func runTwiddles(cmd *cobra.Command, args []string) error {
	if twiddlesInterleaved != "" {
		viper.Set("export.twiddles.interleaved_coe", twiddlesInterleaved)
	}

	return withApp(newAppContext(cmd), func(a *app.GoldenApp) error {
		return a.ExportTwiddles(cmd.Context())
	})
}
