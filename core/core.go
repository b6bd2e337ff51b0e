// Package core has the orchestration shared by the CLI, the MCP server and the HTTP server.
package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rusalad/rusalad/core/history"
	"github.com/rusalad/rusalad/internal/contract"
	"github.com/rusalad/rusalad/internal/outwriter"
	"github.com/rusalad/rusalad/internal/reports"
	"github.com/rusalad/rusalad/schema"
	"github.com/spf13/afero"
)

// ErrStoreUnavailable is returned when the run store is needed but was never initialized.
var ErrStoreUnavailable = errors.New("run store is not initialized")

// ExecutorFunc defines the function signature for executing commands that read run history.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error

// NewRunSource returns the run source selected by cfg.Source.
func NewRunSource(cfg *contract.Config, fs afero.Fs, mgr contract.StoreManager) (contract.RunSource, error) {
	switch cfg.Source {
	case schema.StoreSource:
		return runStore(mgr)
	default:
		return reports.NewDirSource(fs, cfg.ReportsDir), nil
	}
}

// runStore returns the managed store or ErrStoreUnavailable.
func runStore(mgr contract.StoreManager) (contract.RunStore, error) {
	if mgr == nil {
		return nil, ErrStoreUnavailable
	}
	store := mgr.GetRunStore()
	if store == nil {
		return nil, ErrStoreUnavailable
	}
	return store, nil
}

// GetHistory aggregates up to cfg.HistoryDepth runs of src, starting at cfg.RunID.
// A source with no runs at all yields an empty history when no run was requested.
// Runs that cannot be loaded are passed to onSkip and keep their place in the history.
func GetHistory(ctx context.Context, cfg *contract.Config, src contract.RunSource, onSkip func(runID int, err error)) (*schema.HistoryAggregate, error) {
	start, err := history.ResolveStart(ctx, src, cfg.RunID)
	if err != nil {
		if cfg.RunID == 0 && errors.Is(err, contract.ErrRunNotFound) {
			return schema.NewHistoryAggregate(), nil
		}
		return nil, err
	}

	var walkErr error
	runs := history.Walk(ctx, src, start, func(err error) { walkErr = err })
	h := history.AggregateRuns(runs, history.Options{MaxRuns: cfg.HistoryDepth, OnSkip: onSkip})
	if walkErr != nil {
		return nil, walkErr
	}
	return h, nil
}

// ExecuteHistory builds the history of the configured source and writes it out.
// It serves as the main entry point for the 'history' command.
func ExecuteHistory(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	src, err := NewRunSource(cfg, afero.NewOsFs(), mgr)
	if err != nil {
		return err
	}
	h, err := GetHistory(ctx, cfg, src, warnSkippedRun)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.WriteHistoryResults(h, cfg, duration)
}

// warnSkippedRun reports a run left out of a history on stderr.
func warnSkippedRun(runID int, err error) {
	contract.LogWarn(fmt.Sprintf("skipping run %d", runID), err)
}

// Ingest copies a report folder into the result folder of runID below cfg.ReportsDir.
// With the store source, the parsed report is also saved into the run store.
// It returns the created folder.
func Ingest(ctx context.Context, cfg *contract.Config, fs afero.Fs, mgr contract.StoreManager, srcDir string, runID int) (string, error) {
	if runID <= 0 {
		return "", fmt.Errorf("invalid run id %d: must be greater than 0", runID)
	}
	target, err := reports.CopyReportFolder(fs, srcDir, cfg.ReportsDir, runID)
	if err != nil {
		return "", err
	}
	if cfg.Source != schema.StoreSource {
		return target, nil
	}

	store, err := runStore(mgr)
	if err != nil {
		return target, err
	}
	report, err := reports.LoadReport(fs, target, runID)
	if err != nil {
		return target, err
	}
	if err := store.Put(ctx, report); err != nil {
		return target, fmt.Errorf("failed to store run %d: %w", runID, err)
	}
	return target, nil
}

// ExecuteIngest is the entry point for the 'ingest' command.
func ExecuteIngest(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, srcDir string, runID int) error {
	target, err := Ingest(ctx, cfg, afero.NewOsFs(), mgr, srcDir, runID)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(os.Stderr, "📥 Ingested run %d into %s\n", runID, target)
	return nil
}
