package schema

// ScenarioSummary condenses the history of one scenario across the aggregated runs.
type ScenarioSummary struct {
	Rank     int     `json:"rank"`
	Feature  string  `json:"feature"`
	Scenario string  `json:"scenario"`
	Runs     int     `json:"runs"`
	Passed   int     `json:"passed"`
	Failed   int     `json:"failed"`
	PassRate float64 `json:"passRate"`
	Label    string  `json:"label"`
}

// GetTrendLabel returns a plain text label describing how reliable a scenario is
// based on its pass rate over the runs it appeared in.
func GetTrendLabel(passRate float64, runs int) string {
	switch {
	case runs == 0:
		return "Unknown"
	case passRate >= 100:
		return "Stable"
	case passRate <= 0:
		return "Broken"
	case passRate >= 80:
		return "Flaky"
	default:
		return "Unstable"
	}
}

// Summarize returns one summary per scenario, in feature order then scenario order.
// Ranks follow that same order, starting at 1.
func (h *HistoryAggregate) Summarize() []ScenarioSummary {
	var out []ScenarioSummary
	for _, feature := range h.FeatureNames {
		fh := h.Features[feature]
		if fh == nil {
			continue
		}
		for _, scenario := range fh.ScenarioNames {
			s := ScenarioSummary{Feature: feature, Scenario: scenario}
			for _, st := range fh.Scenarios[scenario] {
				s.Runs++
				switch st {
				case PassedStatus:
					s.Passed++
				case FailedStatus:
					s.Failed++
				}
			}
			if s.Runs > 0 {
				s.PassRate = float64(s.Passed) * 100 / float64(s.Runs)
			}
			s.Label = GetTrendLabel(s.PassRate, s.Runs)
			s.Rank = len(out) + 1
			out = append(out, s)
		}
	}
	return out
}
