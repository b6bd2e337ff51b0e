package core

import (
	"fmt"
	"strings"

	"github.com/rusalad/rusalad/core/subtitle"
	"github.com/rusalad/rusalad/internal/contract"
	"github.com/rusalad/rusalad/internal/outwriter"
	"github.com/spf13/afero"
)

// ConvertFile reads the SRT file at path and returns it as timed-text markup.
func ConvertFile(fs afero.Fs, path string, opts subtitle.Options) (string, error) {
	f, err := fs.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var sb strings.Builder
	if err := subtitle.ConvertTo(&sb, f, opts); err != nil {
		return "", fmt.Errorf("failed to convert %s: %w", path, err)
	}
	return sb.String(), nil
}

// ExecuteConvert converts an SRT file and writes the markup to the configured destination.
func ExecuteConvert(cfg *contract.Config, path string) error {
	markup, err := ConvertFile(afero.NewOsFs(), path, subtitle.Options{Lang: cfg.Lang})
	if err != nil {
		return err
	}
	return outwriter.WriteTimedText(markup, cfg)
}
