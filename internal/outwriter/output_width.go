package outwriter

import (
	"os"

	"github.com/rusalad/rusalad/internal/contract"
	"golang.org/x/term"
)

// Bounds for the width of a feature or scenario name column.
const (
	minNameWidth = 12
	maxNameWidth = 50
)

// GetMaxTableNameWidth calculates the maximum width for feature and scenario names
// in table output based on terminal width and the number of run columns.
func GetMaxTableNameWidth(cfg *contract.Config, runColumns int) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for the rank and trend columns plus one cell per run
	baseWidth := 20 + runColumns*7

	// Reserve generous space for table borders, separators, and padding
	baseWidth += 10

	// Feature and scenario columns share what is left
	available := (termWidth - baseWidth) / 2
	return min(max(available, minNameWidth), maxNameWidth)
}
