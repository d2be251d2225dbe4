package cmd

import (
	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-speech/features"
	"github.com/RyanBlaney/sonido-speech/report"
)

var (
	samplerateFolder string
	samplerateOutput string
)

// samplerateCmd represents the samplerate command
var samplerateCmd = &cobra.Command{
	Use:   "samplerate",
	Short: "List the native sample rate of each recording",
	Long: `Write one row per recording with its native sample rate.

Examples:
  sonido-speech samplerate --folder ./wavs --output samplerates.csv`,
	RunE: runSamplerate,
}

func init() {
	rootCmd.AddCommand(samplerateCmd)
	addFolderFlags(samplerateCmd, &samplerateFolder, &samplerateOutput)
}

func runSamplerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	rep := report.New("samplerate", samplerateFolder, samplerateOutput)
	ft, err := runExtraction(cmd.Context(), cfg, rep, samplerateFolder, features.NewSampleRateExtractor())
	if err != nil {
		return err
	}
	if err := ft.Write(samplerateOutput); err != nil {
		return err
	}
	return finishReport(cfg, rep)
}
