// Package schema has models and constants shared by all parts of rusalad.
package schema

import (
	"encoding/json"
	"time"
)

// RunReport is one execution's structured test results.
// Features keep the order in which the run presented them.
type RunReport struct {
	ID       int             `json:"id"`
	Features []FeatureReport `json:"features"`
}

// FeatureReport holds the scenarios of a single feature in one run.
type FeatureReport struct {
	Name      string           `json:"name"`
	Scenarios []ScenarioResult `json:"scenarios"`
}

// ScenarioResult is a single scenario outcome.
type ScenarioResult struct {
	Name   string `json:"scenarioName"`
	Status Status `json:"status"`
}

// UnmarshalJSON accepts either an explicit status or a boolean passed field.
// An explicit status wins when both are present. With neither, Status stays empty.
func (s *ScenarioResult) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name   string  `json:"scenarioName"`
		Status *string `json:"status"`
		Passed *bool   `json:"passed"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.Name = raw.Name
	switch {
	case raw.Status != nil:
		s.Status = Status(*raw.Status)
	case raw.Passed != nil:
		s.Status = StatusFromPassed(*raw.Passed)
	}
	return nil
}

// StatusByRun maps a run identifier, as text, to the scenario status in that run.
type StatusByRun map[string]Status

// FeatureHistory is the cumulative history of one feature.
// Every name in ScenarioNames has exactly one entry in Scenarios and vice versa.
type FeatureHistory struct {
	ScenarioNames []string               `json:"scenarioNames"`
	Scenarios     map[string]StatusByRun `json:"scenarios"`
}

// HistoryAggregate is the cumulative, stably-ordered history across runs.
// Every name in FeatureNames has exactly one entry in Features and vice versa.
type HistoryAggregate struct {
	RunIDs       []int                      `json:"builds"`
	FeatureNames []string                   `json:"featureNames"`
	Features     map[string]*FeatureHistory `json:"features"`
}

// NewHistoryAggregate returns an empty aggregate that serializes with empty arrays.
func NewHistoryAggregate() *HistoryAggregate {
	return &HistoryAggregate{
		RunIDs:       []int{},
		FeatureNames: []string{},
		Features:     map[string]*FeatureHistory{},
	}
}

// SubtitleCue is one timed subtitle entry.
// Start and End are milliseconds since the cue track started.
type SubtitleCue struct {
	Start int64
	End   int64
	Text  string

	// BeginClock is the start clock exactly as written ("HH:MM:SS").
	BeginClock string
	// BeginMillis is the start millisecond component as written after the comma.
	BeginMillis int64
}

// HistoryRow is a flattened (run, feature, scenario) status cell.
type HistoryRow struct {
	RunID         int
	Feature       string
	FeatureIndex  int
	Scenario      string
	ScenarioIndex int
	Status        Status
}

// StoredRun describes a report persisted in the run store.
type StoredRun struct {
	RunID      int
	IngestedAt time.Time
}

// StoreStatus holds status information about the run store.
type StoreStatus struct {
	Backend        string    `json:"backend"`
	Connected      bool      `json:"connected"`
	TotalRuns      int       `json:"total_runs"`
	LatestRunID    int       `json:"latest_run_id"`
	OldestRunID    int       `json:"oldest_run_id"`
	LastIngestTime time.Time `json:"last_ingest_time"`
}
