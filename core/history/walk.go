package history

import (
	"context"
	"fmt"
	"iter"

	"github.com/rusalad/rusalad/internal/contract"
	"github.com/rusalad/rusalad/schema"
)

// Walk yields the runs of src newest first, starting at startID and following
// Previous links. Reports are loaded lazily, only for runs the consumer takes.
// A traversal failure ends the sequence and is passed to onErr when set.
func Walk(ctx context.Context, src contract.RunSource, startID int, onErr func(error)) iter.Seq[RunEntry] {
	fail := func(err error) {
		if onErr != nil {
			onErr(err)
		}
	}

	return func(yield func(RunEntry) bool) {
		id := startID
		for {
			if err := ctx.Err(); err != nil {
				fail(err)
				return
			}

			runID := id
			entry := RunEntry{
				ID: runID,
				Load: func() (schema.RunReport, error) {
					return src.Load(ctx, runID)
				},
			}
			if !yield(entry) {
				return
			}

			prev, ok, err := src.Previous(ctx, runID)
			if err != nil {
				fail(fmt.Errorf("failed to find the run before %d: %w", runID, err))
				return
			}
			if !ok {
				return
			}
			id = prev
		}
	}
}

// ResolveStart returns runID, or the newest run of src when runID is 0.
func ResolveStart(ctx context.Context, src contract.RunSource, runID int) (int, error) {
	if runID > 0 {
		return runID, nil
	}
	latest, err := src.Latest(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to find the latest run: %w", err)
	}
	return latest, nil
}
