package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-speech/configs"
	"github.com/RyanBlaney/sonido-speech/features"
	"github.com/RyanBlaney/sonido-speech/report"
	"github.com/RyanBlaney/sonido-speech/table"
	"github.com/RyanBlaney/sonido-speech/transcode"
)

// addFolderFlags registers --folder and, when output is set, --output
func addFolderFlags(cmd *cobra.Command, folder, output *string) {
	cmd.Flags().StringVar(folder, "folder", "", "input folder")
	cmd.MarkFlagRequired("folder")
	if output != nil {
		cmd.Flags().StringVar(output, "output", "", "output CSV file")
		cmd.MarkFlagRequired("output")
	}
}

func newDecoder(cfg *configs.Config) *transcode.Decoder {
	dc := transcode.DefaultDecoderConfig()
	dc.FFmpegPath = cfg.Audio.FFmpegPath
	if cfg.Audio.FFprobePath != "" {
		dc.FFprobePath = cfg.Audio.FFprobePath
	}
	if cfg.Audio.Timeout > 0 {
		dc.Timeout = cfg.Audio.Timeout
	}
	return transcode.NewDecoder(dc)
}

// discoverRecordings lists the recordings of folder. Without configured
// extensions every format the decoder can read is picked up.
func discoverRecordings(cfg *configs.Config, dec *transcode.Decoder, folder string) ([]string, error) {
	exts := cfg.Audio.Extensions
	if len(exts) == 0 {
		exts = dec.SupportedFormats()
	}
	paths, err := transcode.Discover(folder, exts...)
	if err != nil {
		return nil, fmt.Errorf("failed to discover recordings in %s: %w", folder, err)
	}
	return paths, nil
}

// runExtraction runs e over every recording of folder. The table is
// returned without being written so callers can extend it first.
func runExtraction(ctx context.Context, cfg *configs.Config, rep *report.Report, folder string, e features.Extractor) (*features.FeatureTable, error) {
	dec := newDecoder(cfg)
	paths, err := discoverRecordings(cfg, dec, folder)
	if err != nil {
		return nil, err
	}

	runner := features.NewBatchRunner(dec, cfg.Workers)
	ft, results, err := runner.Run(ctx, paths, e)
	for _, r := range results {
		recordOutcome(rep, r.Path, r.Status, r.Err)
	}
	if err != nil {
		return nil, err
	}
	return ft, nil
}

func recordOutcome(rep *report.Report, path string, status report.Status, err error) {
	rep.Add(path, status, err)
	if err != nil {
		fmt.Printf("%-9s %s: %v\n", status.Label(), path, err)
		return
	}
	fmt.Printf("%-9s %s\n", status.Label(), path)
}

func recordTableOutcomes(rep *report.Report, outcomes []table.FileOutcome) {
	for _, o := range outcomes {
		recordOutcome(rep, o.Path, o.Status, o.Err)
	}
}

// finishReport prints the summary line and writes the YAML report when
// requested
func finishReport(cfg *configs.Config, rep *report.Report) error {
	rep.Finish()
	fmt.Printf("%s (%s)\n", rep.Summary(), rep.Duration.Round(time.Millisecond))

	if cfg.Report == "" {
		return nil
	}
	if err := rep.WriteYAML(cfg.Report); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Report written to %s\n", cfg.Report)
	return nil
}
