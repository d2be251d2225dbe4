package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-speech/features"
	"github.com/RyanBlaney/sonido-speech/report"
)

var formantsFolder string

// formantsCmd represents the formants command
var formantsCmd = &cobra.Command{
	Use:   "formants",
	Short: "Write frame-level F1-F3 tables, one per recording",
	Long: `Track the first three formants of every recording in a folder every
10 ms and write one table per recording (filename, F1frequency, F2frequency,
F3frequency) into the output directory, <folder>/Gemaps by default.

The tables are meant to be collapsed with "reduce" and then combined with
"merge".

Examples:
  sonido-speech formants --folder ./wavs
  sonido-speech reduce --folder ./wavs/Gemaps
  sonido-speech merge --folder ./wavs/Gemaps --output formants.csv`,
	RunE: runFormants,
}

func init() {
	rootCmd.AddCommand(formantsCmd)

	addFolderFlags(formantsCmd, &formantsFolder, nil)
	formantsCmd.Flags().String("output-dir", "", "output directory (default <folder>/Gemaps)")
	formantsCmd.Flags().String("window", "hamming", "analysis window (hann, hamming, blackman, rectangular)")
}

func runFormants(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	outputDir := cfg.Formant.OutputDir
	if outputDir == "" {
		outputDir = filepath.Join(formantsFolder, "Gemaps")
	}

	dec := newDecoder(cfg)
	paths, err := discoverRecordings(cfg, dec, formantsFolder)
	if err != nil {
		return err
	}

	extractor := features.NewFormantExtractor(outputDir, cfg.Formant.FormantParams())
	runner := features.NewBatchRunner(dec, cfg.Workers)

	rep := report.New("formants", formantsFolder, outputDir)
	results, err := runner.ForEach(cmd.Context(), paths, extractor.Process)
	for _, r := range results {
		recordOutcome(rep, r.Path, r.Status, r.Err)
	}
	if err != nil {
		return err
	}
	return finishReport(cfg, rep)
}
