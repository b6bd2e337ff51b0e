package schema

import "strconv"

// RunKey renders a run identifier the way StatusByRun keys it.
func RunKey(runID int) string {
	return strconv.Itoa(runID)
}

// StatusFor returns the status of a scenario in a run, if one was recorded.
func (h *HistoryAggregate) StatusFor(feature, scenario string, runID int) (Status, bool) {
	fh, ok := h.Features[feature]
	if !ok {
		return "", false
	}
	byRun, ok := fh.Scenarios[scenario]
	if !ok {
		return "", false
	}
	st, ok := byRun[RunKey(runID)]
	return st, ok
}

// Rows flattens the aggregate into one row per recorded status.
// Rows follow feature order, then scenario order, then the order of RunIDs.
func (h *HistoryAggregate) Rows() []HistoryRow {
	var rows []HistoryRow
	for fi, feature := range h.FeatureNames {
		fh := h.Features[feature]
		if fh == nil {
			continue
		}
		for si, scenario := range fh.ScenarioNames {
			byRun := fh.Scenarios[scenario]
			for _, runID := range h.RunIDs {
				st, ok := byRun[RunKey(runID)]
				if !ok {
					continue
				}
				rows = append(rows, HistoryRow{
					RunID:         runID,
					Feature:       feature,
					FeatureIndex:  fi,
					Scenario:      scenario,
					ScenarioIndex: si,
					Status:        st,
				})
			}
		}
	}
	return rows
}

// ScenarioCount returns the number of distinct scenarios across all features.
func (h *HistoryAggregate) ScenarioCount() int {
	n := 0
	for _, fh := range h.Features {
		n += len(fh.ScenarioNames)
	}
	return n
}
