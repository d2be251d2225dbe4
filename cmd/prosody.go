package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-speech/algorithms/stats"
	"github.com/RyanBlaney/sonido-speech/algorithms/tonal"
	"github.com/RyanBlaney/sonido-speech/features"
	"github.com/RyanBlaney/sonido-speech/logging"
	"github.com/RyanBlaney/sonido-speech/report"
)

var (
	prosodyFolder string
	prosodyOutput string
)

// prosodyCmd represents the prosody command
var prosodyCmd = &cobra.Command{
	Use:   "prosody",
	Short: "Extract pitch, HNR, jitter and shimmer",
	Long: `Measure the prosodic and voice quality features of every recording in a
folder and write one row per recording.

Columns: voiceID, meanF0Hz, stdevF0Hz, HNR, five jitter and six shimmer
measures, then JitterPCA and ShimmerPCA, the first two principal components
of the standardised jitter/shimmer block.

Recordings too short for the requested pitch floor are analysed with the
floor raised to the lowest detectable pitch (3 periods per window).
Recordings with no voiced frames are skipped.

Examples:
  sonido-speech prosody --folder ./wavs --output prosody.csv
  sonido-speech prosody --folder ./wavs --output prosody.csv --f0min 100 --f0max 300 --unit semitones`,
	RunE: runProsody,
}

func init() {
	rootCmd.AddCommand(prosodyCmd)

	addFolderFlags(prosodyCmd, &prosodyFolder, &prosodyOutput)
	prosodyCmd.Flags().Float64("f0min", 75, "pitch floor in Hz")
	prosodyCmd.Flags().Float64("f0max", 500, "pitch ceiling in Hz")
	prosodyCmd.Flags().String("unit", "Hertz", "pitch unit (Hertz, mel, semitones, ERB)")
	prosodyCmd.Flags().Bool("allow-no-pca", false,
		"write the table without JitterPCA/ShimmerPCA when the projection cannot be fitted")
}

func runProsody(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	unit, err := tonal.ParsePitchUnit(cfg.Prosody.Unit)
	if err != nil {
		return err
	}
	extractor, err := features.NewProsodicExtractor(features.ProsodicConfig{
		Floor:   cfg.Prosody.F0Min,
		Ceiling: cfg.Prosody.F0Max,
		Unit:    unit,
	})
	if err != nil {
		return err
	}

	rep := report.New("prosody", prosodyFolder, prosodyOutput)
	ft, err := runExtraction(cmd.Context(), cfg, rep, prosodyFolder, extractor)
	if err != nil {
		return err
	}

	if _, err := features.AddVarianceProjection(ft); err != nil {
		if !errors.Is(err, stats.ErrInsufficientDataForProjection) || !cfg.Prosody.AllowNoPCA {
			return fmt.Errorf("%w (use --allow-no-pca to write the table without it)", err)
		}
		logging.Warn("Writing prosodic table without projection columns", logging.Fields{
			"error": err.Error(),
			"rows":  len(ft.Rows),
		})
	}

	if err := ft.Write(prosodyOutput); err != nil {
		return err
	}
	return finishReport(cfg, rep)
}
