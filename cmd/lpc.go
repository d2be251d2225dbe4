package cmd

import (
	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-speech/algorithms/speech"
	"github.com/RyanBlaney/sonido-speech/features"
	"github.com/RyanBlaney/sonido-speech/report"
)

var (
	lpcFolder string
	lpcOutput string
)

// lpcCmd represents the lpc command
var lpcCmd = &cobra.Command{
	Use:   "lpc",
	Short: "Extract linear prediction coefficients",
	Long: `Fit an all-pole model to every recording in a folder and write its
inverse filter coefficients [1 a1 ... ap] as one bracketed cell.

Examples:
  sonido-speech lpc --folder ./wavs --output lpc.csv
  sonido-speech lpc --folder ./wavs --output lpc.csv --order 16 --method autocorrelation`,
	RunE: runLPC,
}

func init() {
	rootCmd.AddCommand(lpcCmd)

	addFolderFlags(lpcCmd, &lpcFolder, &lpcOutput)
	lpcCmd.Flags().Int("order", features.DefaultLPCOrder, "prediction order")
	lpcCmd.Flags().String("method", "burg", "estimation method (burg, autocorrelation)")
}

func runLPC(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	method, err := speech.ParseLPCMethod(cfg.LPC.Method)
	if err != nil {
		return err
	}
	extractor, err := features.NewLPCExtractor(cfg.LPC.Order, method)
	if err != nil {
		return err
	}

	rep := report.New("lpc", lpcFolder, lpcOutput)
	ft, err := runExtraction(cmd.Context(), cfg, rep, lpcFolder, extractor)
	if err != nil {
		return err
	}
	if err := ft.Write(lpcOutput); err != nil {
		return err
	}
	return finishReport(cfg, rep)
}
