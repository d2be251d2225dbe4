package cmd

import (
	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-speech/features"
	"github.com/RyanBlaney/sonido-speech/report"
)

var (
	spectralFolder string
	spectralOutput string
)

// spectralCmd represents the spectral command
var spectralCmd = &cobra.Command{
	Use:   "spectral",
	Short: "Extract FFT frequency statistics, energy and zero crossings",
	Long: `Compute the statistical feature set of every recording in a folder:
mean, standard deviation, max, min, median, skewness, kurtosis, Q1, Q3, mode
and IQR of the FFT bin frequencies, plus energy, RMSE and the zero-crossing
count of the waveform.

Examples:
  sonido-speech spectral --folder ./wavs --output statistical.csv`,
	RunE: runSpectral,
}

func init() {
	rootCmd.AddCommand(spectralCmd)
	addFolderFlags(spectralCmd, &spectralFolder, &spectralOutput)
}

func runSpectral(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	rep := report.New("spectral", spectralFolder, spectralOutput)
	ft, err := runExtraction(cmd.Context(), cfg, rep, spectralFolder, features.NewSpectralExtractor())
	if err != nil {
		return err
	}
	if err := ft.Write(spectralOutput); err != nil {
		return err
	}
	return finishReport(cfg, rep)
}
