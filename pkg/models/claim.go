package models

// Severity is the blocking priority tier for a claim.
// Ordering is MUST > SHOULD > COULD.
type Severity string

const (
	// SeverityMust marks acceptance criteria from the plan; blocking.
	SeverityMust Severity = "MUST"
	// SeverityShould marks behavioral outcomes implied by the plan.
	SeverityShould Severity = "SHOULD"
	// SeverityCould marks cosmetic or polish observations.
	SeverityCould Severity = "COULD"
)

// Valid returns true if the severity is a known value.
func (s Severity) Valid() bool {
	switch s {
	case SeverityMust, SeverityShould, SeverityCould:
		return true
	default:
		return false
	}
}

// SeverityOrder lists severities by descending blocking priority.
var SeverityOrder = []Severity{SeverityMust, SeverityShould, SeverityCould}

// VerificationType selects the evaluator strategy for a claim.
type VerificationType string

const (
	// TypeVisual verifies a screenshot artifact against the claim condition.
	TypeVisual VerificationType = "visual"
	// TypeState verifies a field in a structured state-dump artifact.
	TypeState VerificationType = "state"
	// TypeLog verifies captured log output. Log capture is not implemented;
	// log claims are always skipped.
	TypeLog VerificationType = "log"
)

// Valid returns true if the verification type is a known value.
func (t VerificationType) Valid() bool {
	switch t {
	case TypeVisual, TypeState, TypeLog:
		return true
	default:
		return false
	}
}

// StepUnknown is the sentinel step label for claims that could not be
// correlated to a manifest step. Claims never carry an empty step.
const StepUnknown = "unknown"

// Claim is one verifiable assertion about a test-run artifact.
type Claim struct {
	// Step is the manifest step label this claim is correlated to,
	// or StepUnknown if unresolved.
	Step string `json:"step"`
	// Type selects the evaluator strategy (visual, state, log).
	Type VerificationType `json:"type"`
	// Artifact is the resolved artifact path, or nil when no manifest
	// was available at authoring time.
	Artifact *string `json:"artifact"`
	// Condition is the pass condition derived from the acceptance criterion.
	Condition string `json:"condition"`
	// FailurePattern describes what failure looks like. If the failure
	// pattern is observed, the claim is ISSUES even when the condition
	// also appears satisfied.
	FailurePattern string `json:"failure_pattern"`
	// Search is an optional locator hint for state/log claims.
	Search string `json:"search,omitempty"`
	// Severity is the blocking priority tier.
	Severity Severity `json:"severity"`
}

// Resolved returns true if the claim has an artifact path to inspect.
func (c *Claim) Resolved() bool {
	return c.Artifact != nil && *c.Artifact != ""
}

// Validate checks the claim invariants: known type, known severity,
// non-empty step label.
func (c *Claim) Validate() error {
	if c.Step == "" {
		return errClaimEmptyStep
	}
	if !c.Type.Valid() {
		return &ClaimFieldError{Field: "type", Value: string(c.Type)}
	}
	if !c.Severity.Valid() {
		return &ClaimFieldError{Field: "severity", Value: string(c.Severity)}
	}
	return nil
}
