package history

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/rusalad/rusalad/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func report(id int, features ...schema.FeatureReport) schema.RunReport {
	return schema.RunReport{ID: id, Features: features}
}

func feature(name string, scenarios ...schema.ScenarioResult) schema.FeatureReport {
	return schema.FeatureReport{Name: name, Scenarios: scenarios}
}

func passed(name string) schema.ScenarioResult {
	return schema.ScenarioResult{Name: name, Status: schema.PassedStatus}
}

func failed(name string) schema.ScenarioResult {
	return schema.ScenarioResult{Name: name, Status: schema.FailedStatus}
}

func TestAggregateFeatureOrder(t *testing.T) {
	t.Run("newer run shares its tail", func(t *testing.T) {
		// Newest first: run 2 is [A,B], run 1 is [B,C].
		h := Aggregate([]schema.RunReport{
			report(2, feature("A"), feature("B")),
			report(1, feature("B"), feature("C")),
		}, 10)
		assert.Equal(t, []string{"A", "C", "B"}, h.FeatureNames)
		assert.Equal(t, []int{1, 2}, h.RunIDs)
	})

	t.Run("newer run shares its head", func(t *testing.T) {
		h := Aggregate([]schema.RunReport{
			report(2, feature("B"), feature("C")),
			report(1, feature("A"), feature("B")),
		}, 10)
		assert.Equal(t, []string{"A", "B", "C"}, h.FeatureNames)
	})

	t.Run("scenarios follow the same merge", func(t *testing.T) {
		h := Aggregate([]schema.RunReport{
			report(2, feature("F", passed("a"), passed("b"))),
			report(1, feature("F", failed("b"), passed("c"))),
		}, 10)
		require.Contains(t, h.Features, "F")
		assert.Equal(t, []string{"a", "c", "b"}, h.Features["F"].ScenarioNames)
	})
}

func TestAggregateIdempotentNames(t *testing.T) {
	r := report(7, feature("Login", passed("ok"), failed("bad")), feature("Logout", passed("bye")))
	h := Aggregate([]schema.RunReport{r, r}, 10)

	assert.Equal(t, []string{"Login", "Logout"}, h.FeatureNames)
	assert.Equal(t, []string{"ok", "bad"}, h.Features["Login"].ScenarioNames)
	assert.Equal(t, []string{"bye"}, h.Features["Logout"].ScenarioNames)
	assert.Equal(t, []int{7, 7}, h.RunIDs)
}

func TestAggregateStatusSparsity(t *testing.T) {
	h := Aggregate([]schema.RunReport{
		report(6, feature("F", passed("other"))),
		report(5, feature("F", failed("flaky"), passed("other"))),
	}, 10)

	flaky := h.Features["F"].Scenarios["flaky"]
	assert.Equal(t, schema.StatusByRun{"5": schema.FailedStatus}, flaky)
	_, ok := flaky["6"]
	assert.False(t, ok)

	assert.Equal(t, schema.StatusByRun{"5": schema.PassedStatus, "6": schema.PassedStatus}, h.Features["F"].Scenarios["other"])

	st, ok := h.StatusFor("F", "flaky", 5)
	assert.True(t, ok)
	assert.Equal(t, schema.FailedStatus, st)
	_, ok = h.StatusFor("F", "flaky", 6)
	assert.False(t, ok)
}

func TestAggregateMaxRuns(t *testing.T) {
	reports := []schema.RunReport{
		report(4, feature("D")),
		report(3, feature("C")),
		report(2, feature("B")),
		report(1, feature("A")),
	}

	t.Run("caps processed runs", func(t *testing.T) {
		h := Aggregate(reports, 2)
		assert.Equal(t, []int{3, 4}, h.RunIDs)
		assert.ElementsMatch(t, []string{"C", "D"}, h.FeatureNames)
	})

	t.Run("stops when runs are exhausted", func(t *testing.T) {
		h := Aggregate(reports, 100)
		assert.Len(t, h.RunIDs, 4)
	})

	t.Run("zero consumes nothing", func(t *testing.T) {
		h := Aggregate(reports, 0)
		assert.Empty(t, h.RunIDs)
		assert.Empty(t, h.FeatureNames)
	})

	t.Run("does not load past the cap", func(t *testing.T) {
		loads := 0
		runs := func(yield func(RunEntry) bool) {
			for id := 10; id > 0; id-- {
				entry := RunEntry{ID: id, Load: func() (schema.RunReport, error) {
					loads++
					return report(id), nil
				}}
				if !yield(entry) {
					return
				}
			}
		}
		h := AggregateRuns(runs, Options{MaxRuns: 3})
		assert.Equal(t, 3, loads)
		assert.Equal(t, []int{8, 9, 10}, h.RunIDs)
	})
}

func TestAggregateSkippedRuns(t *testing.T) {
	loadErr := errors.New("corrupt report")
	var skipped []int

	runs := func(yield func(RunEntry) bool) {
		entries := []RunEntry{
			{ID: 3, Load: func() (schema.RunReport, error) { return report(3, feature("F", passed("s"))), nil }},
			{ID: 2, Load: func() (schema.RunReport, error) { return schema.RunReport{}, loadErr }},
			{ID: 1, Load: func() (schema.RunReport, error) { return report(1, feature("F", failed("s"))), nil }},
		}
		for _, e := range entries {
			if !yield(e) {
				return
			}
		}
	}

	h := AggregateRuns(runs, Options{
		MaxRuns: 3,
		OnSkip: func(runID int, err error) {
			assert.ErrorIs(t, err, loadErr)
			skipped = append(skipped, runID)
		},
	})

	assert.Equal(t, []int{2}, skipped)
	assert.Equal(t, []int{1, 2, 3}, h.RunIDs)
	assert.Equal(t, schema.StatusByRun{"1": schema.FailedStatus, "3": schema.PassedStatus}, h.Features["F"].Scenarios["s"])
}

func TestAggregateSkippedRunCountsTowardCap(t *testing.T) {
	runs := func(yield func(RunEntry) bool) {
		if !yield(RunEntry{ID: 2, Load: func() (schema.RunReport, error) { return schema.RunReport{}, errors.New("gone") }}) {
			return
		}
		yield(RunEntry{ID: 1, Load: func() (schema.RunReport, error) { return report(1, feature("F")), nil }})
	}
	h := AggregateRuns(runs, Options{MaxRuns: 1})
	assert.Equal(t, []int{2}, h.RunIDs)
	assert.Empty(t, h.FeatureNames)
}

func TestAggregateDoesNotAliasInput(t *testing.T) {
	scenarios := []schema.ScenarioResult{passed("s")}
	reports := []schema.RunReport{report(1, feature("F", scenarios...))}

	h := Aggregate(reports, 1)
	reports[0].Features[0].Name = "changed"
	scenarios[0].Status = schema.FailedStatus

	assert.Equal(t, []string{"F"}, h.FeatureNames)
	assert.Equal(t, schema.PassedStatus, h.Features["F"].Scenarios["s"]["1"])

	again := Aggregate([]schema.RunReport{report(1, feature("F", passed("s")))}, 1)
	h.Features["F"].Scenarios["s"]["1"] = schema.FailedStatus
	assert.Equal(t, schema.PassedStatus, again.Features["F"].Scenarios["s"]["1"])
}

func TestAggregateInvariants(t *testing.T) {
	h := Aggregate([]schema.RunReport{
		report(3, feature("A", passed("1"), passed("2")), feature("B", failed("x"))),
		report(2, feature("C", passed("y")), feature("A", passed("3"))),
		report(1, feature("B", passed("x"), passed("z"))),
	}, 3)

	require.Len(t, h.Features, len(h.FeatureNames))
	for _, name := range h.FeatureNames {
		fh, ok := h.Features[name]
		require.True(t, ok, name)
		assert.Len(t, fh.Scenarios, len(fh.ScenarioNames), name)
		for _, s := range fh.ScenarioNames {
			assert.Contains(t, fh.Scenarios, s)
		}
	}
	assert.Equal(t, 6, h.ScenarioCount())
}

func TestAggregateJSONShape(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		data, err := json.Marshal(Aggregate(nil, 5))
		require.NoError(t, err)
		assert.JSONEq(t, `{"builds":[],"featureNames":[],"features":{}}`, string(data))
	})

	t.Run("populated", func(t *testing.T) {
		h := Aggregate([]schema.RunReport{
			report(12, feature("Checkout", passed("pay"))),
			report(11, feature("Checkout", failed("pay"))),
		}, 5)
		data, err := json.Marshal(h)
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"builds": [11, 12],
			"featureNames": ["Checkout"],
			"features": {
				"Checkout": {
					"scenarioNames": ["pay"],
					"scenarios": {"pay": {"11": "failed", "12": "passed"}}
				}
			}
		}`, string(data))
	})
}
