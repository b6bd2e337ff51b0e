package contract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rusalad/rusalad/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPlainLabel(t *testing.T) {
	tests := []struct {
		name     string
		status   schema.Status
		present  bool
		expected string
	}{
		{"passed", schema.PassedStatus, true, PassedLabel},
		{"failed", schema.FailedStatus, true, FailedLabel},
		{"explicit other status", schema.Status("skipped"), true, "SKIPPED"},
		{"absent from run", schema.PassedStatus, false, MissingLabel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetPlainLabel(tt.status, tt.present))
		})
	}
}

func TestGetColorLabel_KeepsText(t *testing.T) {
	assert.Contains(t, GetColorLabel(schema.PassedStatus, true), PassedLabel)
	assert.Contains(t, GetColorLabel(schema.FailedStatus, true), FailedLabel)
	assert.Equal(t, MissingLabel, GetColorLabel(schema.FailedStatus, false))
}

func TestSelectOutputFile(t *testing.T) {
	f, err := SelectOutputFile("")
	require.NoError(t, err)
	assert.Equal(t, os.Stdout, f)

	path := filepath.Join(t.TempDir(), "out.json")
	f, err = SelectOutputFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.Equal(t, path, f.Name())
}

func TestTruncateName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		expected string
	}{
		{"short name unchanged", "Login", 10, "Login"},
		{"exact width unchanged", "Login", 5, "Login"},
		{"long name truncated", "User can reset the password", 10, "User ca..."},
		{"tiny width ignored", "Checkout", 3, "Checkout"},
		{"unicode safe", "Пользователь входит", 8, "Польз..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TruncateName(tt.input, tt.maxWidth))
		})
	}
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "TRUE", "1"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.True(t, v, s)
	}
	for _, s := range []string{"no", "False", "0"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.False(t, v, s)
	}
	_, err := ParseBoolString("sure")
	assert.Error(t, err)
}

func TestParseRunID(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"", 0, false},
		{"latest", 0, false},
		{"LATEST", 0, false},
		{" 17 ", 17, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"12a", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRunID(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetStoreDBFilePath(t *testing.T) {
	assert.Contains(t, GetStoreDBFilePath(), ".rusalad_runs.db")
}
