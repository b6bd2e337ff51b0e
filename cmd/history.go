package cmd

import (
	"github.com/rusalad/rusalad/core"
	"github.com/rusalad/rusalad/internal/contract"
	"github.com/spf13/cobra"
)

// historyCmd prints the feature and scenario history of recent runs.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show feature and scenario results across recent runs.",
	Long: `Fold the reports of recent runs into one history, newest run first.

Features and scenarios keep a stable order across runs, so a scenario that was
added, removed or renamed stays where it was first seen. Runs without a readable
report are kept as empty columns.

Examples:
  # History of the 20 newest runs in the current directory
  rusalad history

  # Ten runs ending at run 42
  rusalad history --run 42 --history-depth 10

  # Read runs from the run store instead of run directories
  rusalad history --source store

  # Export the history for the dashboard
  rusalad history --output json --output-file history.json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteHistory(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot build history", err)
		}
	},
}
