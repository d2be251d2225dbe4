package cmd

import (
	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-speech/report"
	"github.com/RyanBlaney/sonido-speech/table"
)

var (
	mergeFolder string
	mergeOutput string
)

// mergeCmd represents the merge command
var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Concatenate every table in a folder into one corpus table",
	Long: `Stack the rows of every CSV table in a folder under one header and
write the result to --output. The first row of each table is its header.
The output file is never read as an input.

WARNING: this is a destructive read. With --purge-empty (the default)
tables that are empty are DELETED from the folder. Pass --purge-empty=false
to skip them instead.

Examples:
  sonido-speech merge --folder ./wavs/Gemaps --output formants.csv`,
	RunE: runMerge,
}

func init() {
	rootCmd.AddCommand(mergeCmd)

	addFolderFlags(mergeCmd, &mergeFolder, &mergeOutput)
	mergeCmd.Flags().Bool("purge-empty", true, "delete tables with no columns")
}

func runMerge(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	rep := report.New("merge", mergeFolder, mergeOutput)
	merger := table.NewMerger(table.NewPurgePolicy(cfg.Tables.PurgeEmpty))
	merged, outcomes, err := merger.MergeDirectory(cmd.Context(), mergeFolder, mergeOutput)
	recordTableOutcomes(rep, outcomes)
	if err != nil {
		return err
	}

	if err := table.Write(mergeOutput, merged); err != nil {
		return err
	}
	return finishReport(cfg, rep)
}
