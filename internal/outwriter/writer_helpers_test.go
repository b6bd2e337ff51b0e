package outwriter

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/rusalad/rusalad/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	search := schema.NewHistoryAggregate()
	search.RunIDs = []int{7}
	search.FeatureNames = []string{"Search"}
	search.Features["Search"] = &schema.FeatureHistory{
		ScenarioNames: []string{"by <tag> & name"},
		Scenarios: map[string]schema.StatusByRun{
			"by <tag> & name": {"7": schema.PassedStatus},
		},
	}

	tests := []struct {
		name     string
		data     any
		expected string
	}{
		{
			name: "empty history",
			data: schema.NewHistoryAggregate(),
			expected: `{
    "builds": [],
    "featureNames": [],
    "features": {}
}
`,
		},
		{
			name: "markup in names is kept",
			data: search,
			expected: `{
    "builds": [
        7
    ],
    "featureNames": [
        "Search"
    ],
    "features": {
        "Search": {
            "scenarioNames": [
                "by <tag> & name"
            ],
            "scenarios": {
                "by <tag> & name": {
                    "7": "passed"
                }
            }
        }
    }
}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, writeJSON(&buf, tt.data))
			assert.Equal(t, tt.expected, buf.String())
		})
	}
}

func TestWriteJSONError(t *testing.T) {
	var buf bytes.Buffer
	err := writeJSON(&buf, make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to encode JSON")
}

func TestWriteCSVWithHeader(t *testing.T) {
	header := []string{"feature", "scenario", "run_2", "trend", "pass_rate"}
	rows := [][]string{
		{"Checkout, guest", `pays with "coupon"`, "passed", "Stable", "100.0"},
	}

	var buf bytes.Buffer
	err := writeCSVWithHeader(&buf, header, func(w *csv.Writer) error {
		return w.WriteAll(rows)
	})
	require.NoError(t, err)
	assert.Equal(t,
		"feature,scenario,run_2,trend,pass_rate\n"+
			`"Checkout, guest","pays with ""coupon""",passed,Stable,100.0`+"\n",
		buf.String())
}

func TestWriteCSVWithHeaderErrors(t *testing.T) {
	t.Run("row callback", func(t *testing.T) {
		var buf bytes.Buffer
		err := writeCSVWithHeader(&buf, []string{"feature"}, func(*csv.Writer) error {
			return assert.AnError
		})
		assert.Equal(t, assert.AnError, err)
	})

	t.Run("flush", func(t *testing.T) {
		err := writeCSVWithHeader(failingWriter{}, []string{"feature"}, func(w *csv.Writer) error {
			return w.Write([]string{"Login"})
		})
		assert.ErrorIs(t, err, io.ErrShortWrite)
	})
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, io.ErrShortWrite }

func TestWriteWithFile(t *testing.T) {
	markup := `<tt xml:lang="en"><body><div xml:lang="en"></div></body></tt>`

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "captions.xml")
		err := writeWithFile(path, func(w io.Writer) error {
			_, err := io.WriteString(w, markup)
			return err
		}, "Wrote timed text")
		require.NoError(t, err)

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, markup, string(content))
	})

	t.Run("writer error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "captions.xml")
		err := writeWithFile(path, func(io.Writer) error { return assert.AnError }, "Wrote timed text")
		assert.Equal(t, assert.AnError, err)
	})

	t.Run("missing directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "captions.xml")
		err := writeWithFile(path, func(io.Writer) error { return nil }, "Wrote timed text")
		assert.Error(t, err)
	})
}
