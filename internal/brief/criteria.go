package brief

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ShayCichocki/attest/pkg/models"
)

// PlanCriterion is one acceptance-criterion record extracted from a plan.
// This is the only behavioral input the authoring boundary accepts.
type PlanCriterion struct {
	// Text is the criterion as written in the plan.
	Text string `yaml:"text" json:"text"`
	// Required marks explicit plan acceptance criteria (MUST).
	Required bool `yaml:"required" json:"required"`
	// Cosmetic marks purely cosmetic/alignment observations (COULD).
	Cosmetic bool `yaml:"cosmetic,omitempty" json:"cosmetic,omitempty"`
	// Step optionally names the manifest step label this criterion is
	// expected to be observable at. Used to correlate before label
	// matching falls back to text search.
	Step string `yaml:"step,omitempty" json:"step,omitempty"`
	// Field optionally names a state-dump field the criterion is about.
	// Its presence selects state verification over visual.
	Field string `yaml:"field,omitempty" json:"field,omitempty"`
}

// planDocument is the on-disk shape of a plan criteria file.
type planDocument struct {
	Milestone string          `yaml:"milestone"`
	Criteria  []PlanCriterion `yaml:"criteria"`
}

// LoadCriteria reads plan criteria for a milestone from a YAML document.
func LoadCriteria(path string) (milestone string, criteria []PlanCriterion, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("read plan criteria: %w", err)
	}

	var doc planDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return "", nil, fmt.Errorf("unmarshal plan criteria: %w", err)
	}
	if doc.Milestone == "" {
		return "", nil, fmt.Errorf("plan criteria document %s names no milestone", path)
	}
	if len(doc.Criteria) == 0 {
		return "", nil, fmt.Errorf("plan criteria document %s lists no criteria", path)
	}
	return doc.Milestone, doc.Criteria, nil
}

// severityFor assigns a severity from criterion metadata. The rule is
// deterministic and reproducible: required criteria are MUST, cosmetic
// observations are COULD, everything else (implied behavioral outcomes)
// is SHOULD.
func severityFor(c PlanCriterion) models.Severity {
	switch {
	case c.Required:
		return models.SeverityMust
	case c.Cosmetic:
		return models.SeverityCould
	default:
		return models.SeverityShould
	}
}
