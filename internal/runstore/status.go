package runstore

import (
	"fmt"
	"io"

	"github.com/rusalad/rusalad/schema"
)

// PrintStoreStatus prints run store status information and the most recent runs.
func PrintStoreStatus(w io.Writer, status schema.StoreStatus, recent []schema.StoredRun) {
	_, _ = fmt.Fprintf(w, "Store Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Runs: %d\n", status.TotalRuns)
	if status.TotalRuns == 0 {
		return
	}
	_, _ = fmt.Fprintf(w, "Latest Run: %d\n", status.LatestRunID)
	_, _ = fmt.Fprintf(w, "Oldest Run: %d\n", status.OldestRunID)
	_, _ = fmt.Fprintf(w, "Last Ingest: %s\n", status.LastIngestTime.Format("2006-01-02 15:04:05"))
	if len(recent) > 0 {
		_, _ = fmt.Fprintln(w, "Recent Runs:")
		for _, run := range recent {
			_, _ = fmt.Fprintf(w, "  #%d ingested %s\n", run.RunID, run.IngestedAt.Format("2006-01-02 15:04:05"))
		}
	}
}

// FormatMigrationResult renders a migration outcome for the terminal.
func FormatMigrationResult(r MigrationResult) string {
	if !r.Changed {
		return fmt.Sprintf("No migration needed. Database is already at version %d.", r.ToVersion)
	}
	return fmt.Sprintf("Successfully migrated from version %d to version %d.", r.FromVersion, r.ToVersion)
}
