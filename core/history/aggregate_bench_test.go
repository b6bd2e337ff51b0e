package history

import (
	"fmt"
	"testing"

	"github.com/rusalad/rusalad/schema"
)

// benchReports builds runs newest first where every run drops one feature and adds another.
func benchReports(runs, features, scenarios int) []schema.RunReport {
	reports := make([]schema.RunReport, runs)
	for r := range runs {
		fr := make([]schema.FeatureReport, features)
		for f := range features {
			sc := make([]schema.ScenarioResult, scenarios)
			for s := range scenarios {
				sc[s] = schema.ScenarioResult{
					Name:   fmt.Sprintf("scenario %d", s),
					Status: schema.StatusFromPassed((r+f+s)%7 != 0),
				}
			}
			fr[f] = schema.FeatureReport{Name: fmt.Sprintf("feature %d", f+r), Scenarios: sc}
		}
		reports[r] = schema.RunReport{ID: runs - r, Features: fr}
	}
	return reports
}

func BenchmarkAggregate(b *testing.B) {
	for _, size := range []struct{ runs, features, scenarios int }{
		{20, 10, 10},
		{100, 50, 20},
	} {
		reports := benchReports(size.runs, size.features, size.scenarios)
		b.Run(fmt.Sprintf("runs=%d/features=%d/scenarios=%d", size.runs, size.features, size.scenarios), func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				_ = Aggregate(reports, size.runs)
			}
		})
	}
}
