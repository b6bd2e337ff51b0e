package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rusalad/rusalad/internal/contract"
	"github.com/rusalad/rusalad/internal/parquet"
	"github.com/rusalad/rusalad/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleHistory covers runs 3 and 4, with one scenario missing from run 3.
func sampleHistory() *schema.HistoryAggregate {
	h := schema.NewHistoryAggregate()
	h.RunIDs = []int{3, 4}
	h.FeatureNames = []string{"Login", "Search"}
	h.Features["Login"] = &schema.FeatureHistory{
		ScenarioNames: []string{"valid user", "locked user"},
		Scenarios: map[string]schema.StatusByRun{
			"valid user":  {"3": schema.PassedStatus, "4": schema.PassedStatus},
			"locked user": {"3": schema.PassedStatus, "4": schema.FailedStatus},
		},
	}
	h.Features["Search"] = &schema.FeatureHistory{
		ScenarioNames: []string{"by <tag>"},
		Scenarios: map[string]schema.StatusByRun{
			"by <tag>": {"4": schema.Status("skipped")},
		},
	}
	return h
}

func TestNewestFirst(t *testing.T) {
	h := sampleHistory()
	assert.Equal(t, []int{4, 3}, newestFirst(h))
	assert.Equal(t, []int{3, 4}, h.RunIDs, "RunIDs must not be reordered")
}

func TestWriteHistoryJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHistoryJSON(&buf, sampleHistory()))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "{\n    \"builds\": ["), out)
	assert.Contains(t, out, `"by <tag>"`)

	var decoded schema.HistoryAggregate
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, []int{3, 4}, decoded.RunIDs)
	assert.Equal(t, []string{"Login", "Search"}, decoded.FeatureNames)
	assert.Equal(t, schema.FailedStatus, decoded.Features["Login"].Scenarios["locked user"]["4"])
}

func TestWriteHistoryJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHistoryJSON(&buf, schema.NewHistoryAggregate()))
	assert.Equal(t, "{\n    \"builds\": [],\n    \"featureNames\": [],\n    \"features\": {}\n}\n", buf.String())
}

func TestWriteHistoryCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeHistoryCSV(&buf, sampleHistory()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, []string{"feature", "scenario", "run_4", "run_3", "trend", "pass_rate"}, records[0])
	assert.Equal(t, []string{"Login", "valid user", "passed", "passed", "Stable", "100.0"}, records[1])
	assert.Equal(t, []string{"Login", "locked user", "failed", "passed", "Unstable", "50.0"}, records[2])
	assert.Equal(t, []string{"Search", "by <tag>", "skipped", "", "Broken", "0.0"}, records[3])
}

func TestWriteHistoryTable(t *testing.T) {
	cfg := &contract.Config{Source: schema.DirSource, Width: 160}
	var buf bytes.Buffer
	require.NoError(t, writeHistoryTable(sampleHistory(), cfg, 15*time.Millisecond, &buf))

	out := buf.String()
	assert.Contains(t, out, "RANK")
	assert.Contains(t, out, "TREND")
	assert.Contains(t, out, "#4")
	assert.Contains(t, out, "#3")
	assert.NotContains(t, out, "# 4")
	assert.Less(t, strings.Index(out, "#4"), strings.Index(out, "#3"), "newest run comes first")
	assert.Contains(t, out, contract.PassedLabel)
	assert.Contains(t, out, contract.FailedLabel)
	assert.Contains(t, out, "SKIPPED")
	assert.Contains(t, out, "Showing 3 scenarios in 2 features over 2 runs (latest #4: 1 failed)")
	assert.Contains(t, out, "History built in 15ms. Source: dir")
}

func TestWriteHistoryTableEmpty(t *testing.T) {
	cfg := &contract.Config{Source: schema.StoreSource, Width: 80}
	var buf bytes.Buffer
	require.NoError(t, writeHistoryTable(schema.NewHistoryAggregate(), cfg, time.Second, &buf))

	out := buf.String()
	assert.Contains(t, out, "Showing 0 scenarios in 0 features over 0 runs\n")
	assert.NotContains(t, out, "latest")
}

func TestWriteHistoryTableTruncatesNames(t *testing.T) {
	h := schema.NewHistoryAggregate()
	long := strings.Repeat("x", 200)
	h.RunIDs = []int{1}
	h.FeatureNames = []string{long}
	h.Features[long] = &schema.FeatureHistory{
		ScenarioNames: []string{"s"},
		Scenarios:     map[string]schema.StatusByRun{"s": {"1": schema.PassedStatus}},
	}

	var buf bytes.Buffer
	require.NoError(t, writeHistoryTable(h, &contract.Config{Width: 80}, 0, &buf))
	assert.NotContains(t, buf.String(), long)
	assert.Contains(t, buf.String(), "...")
}

func TestFailedIn(t *testing.T) {
	h := sampleHistory()
	assert.Equal(t, 1, failedIn(h, 4))
	assert.Equal(t, 0, failedIn(h, 3))
	assert.Equal(t, 0, failedIn(h, 99))
}

func TestWriteHistoryResultsToFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("json", func(t *testing.T) {
		path := filepath.Join(dir, "history.json")
		cfg := &contract.Config{Output: schema.JSONOut, OutputFile: path}
		require.NoError(t, WriteHistoryResults(sampleHistory(), cfg, 0))

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), `"featureNames"`)
	})

	t.Run("csv", func(t *testing.T) {
		path := filepath.Join(dir, "history.csv")
		cfg := &contract.Config{Output: schema.CSVOut, OutputFile: path}
		require.NoError(t, WriteHistoryResults(sampleHistory(), cfg, 0))

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(content), "feature,scenario,run_4,run_3,trend,pass_rate\n"))
	})

	t.Run("parquet", func(t *testing.T) {
		path := filepath.Join(dir, "history.parquet")
		cfg := &contract.Config{Output: schema.ParquetOut, OutputFile: path}
		require.NoError(t, WriteHistoryResults(sampleHistory(), cfg, 0))

		records, err := parquet.ReadHistoryParquet(path)
		require.NoError(t, err)
		assert.Equal(t, []parquet.HistoryRecord{
			{RunID: 3, Feature: "Login", FeatureIndex: 0, Scenario: "valid user", ScenarioIndex: 0, Status: "passed"},
			{RunID: 4, Feature: "Login", FeatureIndex: 0, Scenario: "valid user", ScenarioIndex: 0, Status: "passed"},
			{RunID: 3, Feature: "Login", FeatureIndex: 0, Scenario: "locked user", ScenarioIndex: 1, Status: "passed"},
			{RunID: 4, Feature: "Login", FeatureIndex: 0, Scenario: "locked user", ScenarioIndex: 1, Status: "failed"},
			{RunID: 4, Feature: "Search", FeatureIndex: 1, Scenario: "by <tag>", ScenarioIndex: 0, Status: "skipped"},
		}, records)
	})

	t.Run("text", func(t *testing.T) {
		path := filepath.Join(dir, "history.txt")
		cfg := &contract.Config{Output: schema.TextOut, OutputFile: path, Width: 120}
		require.NoError(t, WriteHistoryResults(sampleHistory(), cfg, 0))

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), "locked user")
	})

	t.Run("unwritable path", func(t *testing.T) {
		cfg := &contract.Config{Output: schema.JSONOut, OutputFile: filepath.Join(dir, "missing", "out.json")}
		err := WriteHistoryResults(sampleHistory(), cfg, 0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "error writing JSON output")
	})
}

func TestWriteTimedText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "captions.xml")
	markup := `<?xml version="1.0" encoding="UTF-8"?><tt></tt>`
	require.NoError(t, WriteTimedText(markup, &contract.Config{OutputFile: path}))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, markup, string(content))
}

func TestGetMaxTableNameWidth(t *testing.T) {
	tests := []struct {
		name     string
		width    int
		runs     int
		expected int
	}{
		{"narrow terminal clamps to minimum", 40, 5, minNameWidth},
		{"wide terminal clamps to maximum", 400, 2, maxNameWidth},
		{"in between", 120, 5, (120 - 30 - 35) / 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &contract.Config{Width: tt.width}
			assert.Equal(t, tt.expected, GetMaxTableNameWidth(cfg, tt.runs))
		})
	}
}
