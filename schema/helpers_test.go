package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenarioResultUnmarshal(t *testing.T) {
	tests := []struct {
		input string
		want  ScenarioResult
	}{
		{`{"scenarioName":"a","status":"passed"}`, ScenarioResult{Name: "a", Status: PassedStatus}},
		{`{"scenarioName":"a","passed":true}`, ScenarioResult{Name: "a", Status: PassedStatus}},
		{`{"scenarioName":"a","passed":false}`, ScenarioResult{Name: "a", Status: FailedStatus}},
		{`{"scenarioName":"a","status":"failed","passed":true}`, ScenarioResult{Name: "a", Status: FailedStatus}}, // explicit status wins
		{`{"scenarioName":"a"}`, ScenarioResult{Name: "a"}},                                                       // neither field
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var got ScenarioResult
			require.NoError(t, json.Unmarshal([]byte(tt.input), &got))
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("not an object", func(t *testing.T) {
		var got ScenarioResult
		assert.Error(t, json.Unmarshal([]byte(`"just a string"`), &got))
	})
}

func TestStatusFromPassed(t *testing.T) {
	assert.Equal(t, PassedStatus, StatusFromPassed(true))
	assert.Equal(t, FailedStatus, StatusFromPassed(false))
}

func TestHistoryRows(t *testing.T) {
	h := NewHistoryAggregate()
	h.RunIDs = []int{1, 2}
	h.FeatureNames = []string{"F", "G"}
	h.Features["F"] = &FeatureHistory{
		ScenarioNames: []string{"s1", "s2"},
		Scenarios: map[string]StatusByRun{
			"s1": {"1": PassedStatus, "2": FailedStatus},
			"s2": {"2": PassedStatus},
		},
	}
	h.Features["G"] = &FeatureHistory{
		ScenarioNames: []string{"t"},
		Scenarios:     map[string]StatusByRun{"t": {"1": FailedStatus}},
	}

	rows := h.Rows()
	assert.Equal(t, []HistoryRow{
		{RunID: 1, Feature: "F", FeatureIndex: 0, Scenario: "s1", ScenarioIndex: 0, Status: PassedStatus},
		{RunID: 2, Feature: "F", FeatureIndex: 0, Scenario: "s1", ScenarioIndex: 0, Status: FailedStatus},
		{RunID: 2, Feature: "F", FeatureIndex: 0, Scenario: "s2", ScenarioIndex: 1, Status: PassedStatus},
		{RunID: 1, Feature: "G", FeatureIndex: 1, Scenario: "t", ScenarioIndex: 0, Status: FailedStatus},
	}, rows)
	assert.Equal(t, 3, h.ScenarioCount())

	st, ok := h.StatusFor("F", "s2", 2)
	assert.True(t, ok)
	assert.Equal(t, PassedStatus, st)
	_, ok = h.StatusFor("F", "s2", 1)
	assert.False(t, ok)
	_, ok = h.StatusFor("missing", "s2", 1)
	assert.False(t, ok)
}

func TestRunKey(t *testing.T) {
	assert.Equal(t, "42", RunKey(42))
}
