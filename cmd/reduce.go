package cmd

import (
	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-speech/report"
	"github.com/RyanBlaney/sonido-speech/table"
)

var reduceFolder string

// reduceCmd represents the reduce command
var reduceCmd = &cobra.Command{
	Use:   "reduce",
	Short: "Collapse every table in a folder to its column means",
	Long: `Replace each CSV table in a folder with a single row of column means.
Empty cells are ignored; a non-numeric column keeps its first value.

WARNING: this is a destructive read. Every table is overwritten in place,
and with --purge-empty (the default) tables that are empty or hold a header
but no rows are DELETED. Pass --purge-empty=false to leave them untouched.

Examples:
  sonido-speech reduce --folder ./wavs/Gemaps
  sonido-speech reduce --folder ./wavs/Gemaps --purge-empty=false`,
	RunE: runReduce,
}

func init() {
	rootCmd.AddCommand(reduceCmd)

	addFolderFlags(reduceCmd, &reduceFolder, nil)
	reduceCmd.Flags().Bool("purge-empty", true, "delete tables with no columns or no rows")
}

func runReduce(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	rep := report.New("reduce", reduceFolder, "")
	reducer := table.NewReducer(table.NewPurgePolicy(cfg.Tables.PurgeEmpty))
	outcomes, err := reducer.ReduceDirectory(cmd.Context(), reduceFolder)
	recordTableOutcomes(rep, outcomes)
	if err != nil {
		return err
	}
	return finishReport(cfg, rep)
}
