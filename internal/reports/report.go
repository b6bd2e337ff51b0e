// Package reports reads run reports from run directories and ingests report folders.
package reports

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rusalad/rusalad/internal/contract"
	"github.com/rusalad/rusalad/schema"
	"github.com/spf13/afero"
)

// File names looked up inside a run's result folder, in order of preference.
const (
	RuSaladReportFile  = "report.json"
	CucumberReportFile = "cucumber.json"
)

// rawReport is the on-disk RuSalad report. Scenarios stay raw so bad entries can be dropped one by one.
type rawReport struct {
	Features []rawFeature `json:"features"`
}

type rawFeature struct {
	Name      string            `json:"name"`
	Scenarios []json.RawMessage `json:"scenarios"`
}

// LoadReport reads the report of runID from its result folder dir.
// It returns contract.ErrRunNotFound when the folder holds no known report file.
func LoadReport(fs afero.Fs, dir string, runID int) (schema.RunReport, error) {
	decoders := []struct {
		file   string
		decode func([]byte) ([]schema.FeatureReport, error)
	}{
		{RuSaladReportFile, DecodeRuSalad},
		{CucumberReportFile, DecodeCucumber},
	}

	for _, d := range decoders {
		path := filepath.Join(dir, d.file)
		data, err := afero.ReadFile(fs, path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return schema.RunReport{}, fmt.Errorf("failed to read %s: %w", path, err)
		}
		features, err := d.decode(data)
		if err != nil {
			return schema.RunReport{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		return schema.RunReport{ID: runID, Features: features}, nil
	}
	return schema.RunReport{}, fmt.Errorf("no report in %s: %w", dir, contract.ErrRunNotFound)
}

// DecodeRuSalad parses a RuSalad report.
// Scenarios that are not objects, have no name, or carry neither status nor passed are skipped.
func DecodeRuSalad(data []byte) ([]schema.FeatureReport, error) {
	var raw rawReport
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	features := make([]schema.FeatureReport, 0, len(raw.Features))
	for _, rf := range raw.Features {
		feature := schema.FeatureReport{Name: rf.Name}
		for _, msg := range rf.Scenarios {
			var sc schema.ScenarioResult
			if err := json.Unmarshal(msg, &sc); err != nil {
				continue
			}
			if sc.Name == "" || sc.Status == "" {
				continue
			}
			feature.Scenarios = append(feature.Scenarios, sc)
		}
		features = append(features, feature)
	}
	return features, nil
}
