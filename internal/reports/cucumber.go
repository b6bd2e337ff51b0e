package reports

import (
	"encoding/json"

	"github.com/rusalad/rusalad/schema"
)

// cukeFeature matches one feature of Cucumber JSON output.
type cukeFeature struct {
	URI      string        `json:"uri"`
	Name     string        `json:"name"`
	Elements []cukeElement `json:"elements"`
}

// cukeElement is a scenario or background of a feature.
type cukeElement struct {
	Name  string     `json:"name"`
	Type  string     `json:"type"`
	Steps []cukeStep `json:"steps"`
}

type cukeStep struct {
	Result struct {
		Status string `json:"status"`
	} `json:"result"`
}

// DecodeCucumber parses Cucumber JSON output. A scenario passed when every one of its steps passed.
// Backgrounds and unnamed elements are skipped. Features without a name are named by their URI.
func DecodeCucumber(data []byte) ([]schema.FeatureReport, error) {
	var raw []cukeFeature
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	features := make([]schema.FeatureReport, 0, len(raw))
	for _, cf := range raw {
		name := cf.Name
		if name == "" {
			name = cf.URI
		}
		feature := schema.FeatureReport{Name: name}
		for _, el := range cf.Elements {
			if el.Type == "background" || el.Name == "" {
				continue
			}
			feature.Scenarios = append(feature.Scenarios, schema.ScenarioResult{
				Name:   el.Name,
				Status: schema.StatusFromPassed(stepsPassed(el.Steps)),
			})
		}
		features = append(features, feature)
	}
	return features, nil
}

func stepsPassed(steps []cukeStep) bool {
	for _, st := range steps {
		if st.Result.Status != "passed" {
			return false
		}
	}
	return true
}
