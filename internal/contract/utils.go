package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/rusalad/rusalad/schema"
)

// Status cell labels for table output.
const (
	PassedLabel  = "PASS" // Passed label
	FailedLabel  = "FAIL" // Failed label
	MissingLabel = "-"    // Scenario absent from the run
)

// Color variables for console output.
var (
	PassedColor = color.New(color.FgGreen)            // PassedColor is a quiet success signal.
	FailedColor = color.New(color.FgRed, color.Bold)  // FailedColor represents standard danger.
	OtherColor  = color.New(color.FgYellow)           // OtherColor marks statuses that are neither passed nor failed.
	HeaderColor = color.New(color.FgCyan, color.Bold) // HeaderColor highlights run identifiers.
)

// GetPlainLabel returns a plain text label for a status cell.
// This is the core logic used for CSV and table printing.
func GetPlainLabel(status schema.Status, present bool) string {
	switch {
	case !present:
		return MissingLabel
	case status == schema.PassedStatus:
		return PassedLabel
	case status == schema.FailedStatus:
		return FailedLabel
	default:
		return strings.ToUpper(string(status))
	}
}

// GetColorLabel returns a colored label for console output (table).
// It uses GetPlainLabel to determine the string, and then applies the appropriate color.
func GetColorLabel(status schema.Status, present bool) string {
	text := GetPlainLabel(status, present)

	switch text {
	case MissingLabel:
		return text
	case PassedLabel:
		return PassedColor.Sprint(text)
	case FailedLabel:
		return FailedColor.Sprint(text)
	default:
		return OtherColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output.
// An empty path means standard output.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetStoreDBFilePath returns the path to the SQLite DB file for run storage.
func GetStoreDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".rusalad_runs.db"
	}
	return filepath.Join(homeDir, ".rusalad_runs.db")
}

// TruncateName truncates a feature or scenario name to a maximum width with ellipsis suffix.
// Requires maxWidth > 3 so there is space for the "..." suffix and at least one character.
func TruncateName(name string, maxWidth int) string {
	runes := []rune(name)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return name
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

// ParseRunID parses a run identifier. "latest" and "" both mean the newest run (0).
func ParseRunID(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "latest") {
		return 0, nil
	}
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid run id %q: expected a positive integer or 'latest'", s)
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid run id %q: must be greater than 0", s)
	}
	return id, nil
}
