package cmd

import (
	"errors"

	"github.com/rusalad/rusalad/core"
	"github.com/rusalad/rusalad/internal/contract"
	"github.com/spf13/cobra"
)

// errLatestNotAllowed rejects "latest" where a run is being created.
var errLatestNotAllowed = errors.New("a concrete run id is required")

// ingestCmd copies a run's report folder into the reports directory.
var ingestCmd = &cobra.Command{
	Use:   "ingest <run-id> <report-folder>",
	Short: "Copy a run's report folder into the reports directory.",
	Long: `Copy the report folder of a finished run into <reports-dir>/<run-id>/cukeResult.

The command fails when the run already has a result folder. With --source store
the report is also saved into the run store.

Examples:
  # Record run 128 from a CI workspace
  rusalad ingest 128 ./target/cucumber --reports-dir /var/lib/rusalad

  # Record into both the directory and the run store
  rusalad ingest 128 ./target/cucumber --source store`,
	Args:    cobra.ExactArgs(2),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		runID, err := contract.ParseRunID(args[0])
		if err != nil {
			contract.LogFatal("Invalid run id", err)
		}
		if runID == 0 {
			contract.LogFatal("Invalid run id", errLatestNotAllowed)
		}
		if err := core.ExecuteIngest(rootCtx, cfg, storeManager, args[1], runID); err != nil {
			contract.LogFatal("Cannot ingest report folder", err)
		}
	},
}
