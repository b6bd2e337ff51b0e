// Package history folds per-run feature/scenario reports into one cumulative,
// stably-ordered history.
package history

import (
	"iter"
	"maps"
	"slices"

	"github.com/rusalad/rusalad/schema"
)

// RunEntry is one run yielded to the aggregator. Load is called at most once;
// a Load error means the run contributes no scenarios but keeps its place in RunIDs.
type RunEntry struct {
	ID   int
	Load func() (schema.RunReport, error)
}

// Options control a single aggregation.
type Options struct {
	// MaxRuns caps the number of runs consumed. Values below 1 consume nothing.
	MaxRuns int

	// OnSkip, when set, is told about every run whose report could not be loaded.
	OnSkip func(runID int, err error)
}

// Aggregate folds reports, ordered newest first, into a history.
// At most maxRuns reports are consumed.
func Aggregate(reports []schema.RunReport, maxRuns int) *schema.HistoryAggregate {
	entries := func(yield func(RunEntry) bool) {
		for _, r := range reports {
			if !yield(RunEntry{ID: r.ID, Load: func() (schema.RunReport, error) { return r, nil }}) {
				return
			}
		}
	}
	return AggregateRuns(entries, Options{MaxRuns: maxRuns})
}

// AggregateRuns folds runs, yielded newest first, into a history.
// It stops after opts.MaxRuns runs or when the sequence is exhausted.
func AggregateRuns(runs iter.Seq[RunEntry], opts Options) *schema.HistoryAggregate {
	b := newBuilder()
	if opts.MaxRuns < 1 {
		return b.build()
	}

	processed := 0
	for entry := range runs {
		b.addRun(entry.ID)

		report, err := entry.Load()
		if err != nil {
			if opts.OnSkip != nil {
				opts.OnSkip(entry.ID, err)
			}
		} else {
			b.addReport(entry.ID, report)
		}

		processed++
		if processed >= opts.MaxRuns {
			break
		}
	}
	return b.build()
}

// featureState is the in-progress history of one feature.
type featureState struct {
	scenarios *orderedNames
	statuses  map[string]schema.StatusByRun
}

// builder accumulates runs into ordered features and scenarios.
type builder struct {
	runIDs   []int
	features *orderedNames
	byName   map[string]*featureState
}

func newBuilder() *builder {
	return &builder{
		runIDs:   []int{},
		features: newOrderedNames(),
		byName:   make(map[string]*featureState),
	}
}

// addRun records the run identifier at the front of the run list.
func (b *builder) addRun(runID int) {
	b.runIDs = slices.Insert(b.runIDs, 0, runID)
}

// addReport merges one run's features and scenarios and records their statuses.
func (b *builder) addReport(runID int, report schema.RunReport) {
	key := schema.RunKey(runID)
	features := &merger{target: b.features}

	for _, feature := range report.Features {
		if features.add(feature.Name) {
			b.byName[feature.Name] = &featureState{
				scenarios: newOrderedNames(),
				statuses:  make(map[string]schema.StatusByRun),
			}
		}
		state := b.byName[feature.Name]

		scenarios := &merger{target: state.scenarios}
		for _, scenario := range feature.Scenarios {
			if scenarios.add(scenario.Name) {
				state.statuses[scenario.Name] = make(schema.StatusByRun)
			}
			state.statuses[scenario.Name][key] = scenario.Status
		}
	}
}

// build returns a fresh aggregate that shares no maps or slices with the builder.
func (b *builder) build() *schema.HistoryAggregate {
	out := schema.NewHistoryAggregate()
	out.RunIDs = slices.Clone(b.runIDs)
	out.FeatureNames = b.features.snapshot()

	for name, state := range b.byName {
		fh := &schema.FeatureHistory{
			ScenarioNames: state.scenarios.snapshot(),
			Scenarios:     make(map[string]schema.StatusByRun, len(state.statuses)),
		}
		for scenario, byRun := range state.statuses {
			fh.Scenarios[scenario] = maps.Clone(byRun)
		}
		out.Features[name] = fh
	}
	return out
}
