// Package contract provides interfaces and shared utilities for rusalad's internal architecture.
package contract

import (
	"context"
	"errors"

	"github.com/rusalad/rusalad/schema"
)

// ErrRunNotFound is returned when a run has no report or does not exist.
var ErrRunNotFound = errors.New("run not found")

// RunSource is where run reports come from.
// This decouples history aggregation from any particular build orchestration system.
type RunSource interface {
	// Latest returns the identifier of the newest known run.
	Latest(ctx context.Context) (int, error)

	// Previous returns the identifier of the run before runID.
	// ok is false when runID is the oldest known run.
	Previous(ctx context.Context, runID int) (prev int, ok bool, err error)

	// Load returns the report of a run. A failure only affects that run.
	Load(ctx context.Context, runID int) (schema.RunReport, error)
}

// RunStore persists run reports. Every RunStore is also a RunSource.
type RunStore interface {
	RunSource

	// Put inserts or replaces the report of a run.
	Put(ctx context.Context, report schema.RunReport) error

	// ListRuns returns the stored runs newest first, at most limit of them when limit > 0.
	ListRuns(ctx context.Context, limit int) ([]schema.StoredRun, error)

	// GetStatus returns status information about the store.
	GetStatus() (schema.StoreStatus, error)

	// Close closes the underlying connection.
	Close() error
}

// StoreManager hands out the configured run store.
// This allows the persistence layer to be mocked for testing.
type StoreManager interface {
	GetRunStore() RunStore
}
