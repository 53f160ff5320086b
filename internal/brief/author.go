// Package brief authors and persists the claim list for one milestone's
// verification.
//
// Author is the trust boundary of the engine: its signature accepts plan
// criteria and manifest structure only. No parameter can carry an
// implementation-source handle, so the role-separation rule (the party
// that wrote the code never authors the claims that judge it) is enforced
// by construction rather than by a runtime check.
package brief

import (
	"strings"

	"github.com/ShayCichocki/attest/internal/manifest"
	"github.com/ShayCichocki/attest/pkg/models"
)

// Author builds the brief for a milestone from plan criteria and the
// test-run manifest. The manifest may be nil (absent), in which case
// every criterion becomes a conservative unresolved claim: step
// "unknown", no artifact, visual, MUST. That maximizes later blocking
// rather than silently dropping untested criteria.
//
// Correlation policy when a manifest is present: an explicit step name on
// the criterion wins; otherwise the first manifest step whose normalized
// label appears in the normalized criterion text (or vice versa) is used;
// otherwise the claim stays unresolved. Zero-or-multiple-match ambiguity
// thus resolves to first-match-in-manifest-order, which is deterministic
// across runs.
func Author(milestone string, criteria []PlanCriterion, m *manifest.Manifest) *models.Brief {
	claims := make([]models.Claim, 0, len(criteria))

	for _, criterion := range criteria {
		if m == nil {
			claims = append(claims, unresolvedClaim(criterion))
			continue
		}
		claims = append(claims, correlatedClaim(criterion, m))
	}

	return models.NewBrief(milestone, claims)
}

// unresolvedClaim is the degraded-input default: manifest absent.
func unresolvedClaim(c PlanCriterion) models.Claim {
	return models.Claim{
		Step:           models.StepUnknown,
		Type:           models.TypeVisual,
		Artifact:       nil,
		Condition:      c.Text,
		FailurePattern: defaultFailurePattern,
		Severity:       models.SeverityMust,
	}
}

func correlatedClaim(c PlanCriterion, m *manifest.Manifest) models.Claim {
	claim := models.Claim{
		Type:           models.TypeVisual,
		Condition:      c.Text,
		FailurePattern: defaultFailurePattern,
		Severity:       severityFor(c),
	}

	// A named state field implies structured-state checking.
	if c.Field != "" {
		claim.Type = models.TypeState
		claim.Search = c.Field
	}

	step, arts, ok := correlate(c, m)
	if !ok {
		claim.Step = models.StepUnknown
		return claim
	}
	claim.Step = step

	switch claim.Type {
	case models.TypeState:
		if arts.StateDump != "" {
			path := arts.StateDump
			claim.Artifact = &path
		}
	default:
		if arts.Screenshot != "" {
			path := arts.Screenshot
			claim.Artifact = &path
		}
	}
	return claim
}

// correlate maps a criterion to a manifest step.
func correlate(c PlanCriterion, m *manifest.Manifest) (string, manifest.Artifacts, bool) {
	if c.Step != "" {
		if arts, err := m.Resolve(c.Step); err == nil {
			return c.Step, arts, true
		}
		// Declared step missing from the manifest: unresolved, never fuzzy.
		return "", manifest.Artifacts{}, false
	}

	text := normalize(c.Text)
	for i := range m.Steps {
		label := normalize(m.Steps[i].Label)
		if label == "" {
			continue
		}
		if strings.Contains(text, label) || strings.Contains(label, text) {
			return m.Steps[i].Label, m.Steps[i].Artifacts, true
		}
	}
	return "", manifest.Artifacts{}, false
}

// normalize folds case and separators so "Clear three rows" matches the
// label "clear-three-rows".
func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")
	return strings.Join(strings.Fields(s), " ")
}

// defaultFailurePattern fills the failure-pattern field when the plan
// names no explicit failure state. It deliberately asserts no value of
// its own: a pattern restating the condition would match exactly the
// state that satisfies the claim, turning every satisfied claim into a
// failure.
const defaultFailurePattern = "observed outcome contradicts the expectation"
