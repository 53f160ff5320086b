package models

// OutcomeStatus is the per-claim evaluation result for one iteration.
type OutcomeStatus string

const (
	// OutcomePass indicates the condition was met and the failure pattern
	// was not observed.
	OutcomePass OutcomeStatus = "PASS"
	// OutcomeIssues indicates the condition was not met or the failure
	// pattern was observed.
	OutcomeIssues OutcomeStatus = "ISSUES"
	// OutcomeSkip indicates the claim was deliberately excluded from
	// verdict computation this iteration.
	OutcomeSkip OutcomeStatus = "SKIP"
)

// Valid returns true if the status is a known value.
func (s OutcomeStatus) Valid() bool {
	switch s {
	case OutcomePass, OutcomeIssues, OutcomeSkip:
		return true
	default:
		return false
	}
}

// SkipReason tags why a claim was skipped.
type SkipReason string

const (
	// SkipTypeFiltered means the claim type was outside the analysis scope.
	SkipTypeFiltered SkipReason = "type-filtered"
	// SkipSeverityFiltered means the claim severity was outside the
	// blocking set for this iteration.
	SkipSeverityFiltered SkipReason = "severity-filtered"
	// SkipMissingArtifact means the claim survived filtering but had no
	// artifact to inspect.
	SkipMissingArtifact SkipReason = "missing-artifact"
	// SkipNotImplemented means the verification path does not exist yet.
	// Log capture is the standing case.
	SkipNotImplemented SkipReason = "not-implemented"
)

// Outcome is the evaluation result for one claim in one iteration.
type Outcome struct {
	// Claim is the claim this outcome is for.
	Claim Claim `json:"claim"`
	// Status is PASS, ISSUES, or SKIP.
	Status OutcomeStatus `json:"status"`
	// Reason is set only when Status is SKIP.
	Reason SkipReason `json:"reason,omitempty"`
	// Evidence summarizes what was observed in the artifact.
	Evidence string `json:"evidence,omitempty"`
}

// Verdict is the aggregate decision for one iteration.
type Verdict string

const (
	// VerdictPass means no evaluated claim reported issues.
	VerdictPass Verdict = "PASS"
	// VerdictIssues means at least one evaluated claim reported issues.
	VerdictIssues Verdict = "ISSUES"
	// VerdictExhausted means the iteration limit was reached while issues
	// persisted. Terminal; outstanding issues are accepted as a known
	// limitation of the run.
	VerdictExhausted Verdict = "EXHAUSTED"
)

// Valid returns true if the verdict is a known value.
func (v Verdict) Valid() bool {
	switch v {
	case VerdictPass, VerdictIssues, VerdictExhausted:
		return true
	default:
		return false
	}
}
