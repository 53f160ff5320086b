// Package loop owns the bounded verification iteration policy: the
// blocking-severity schedule, the iteration counter, and the decision to
// continue, accept, or stop exhausted.
package loop

import "github.com/ShayCichocki/attest/pkg/models"

// DefaultIterationLimit bounds a milestone's verification loop.
const DefaultIterationLimit = 5

// BlockingSeverities returns the severity set that blocks at iteration n
// (1-indexed). Progressive de-escalation narrows the set as n grows,
// accepting lower-severity issues rather than looping indefinitely:
//
//	n 1-2: MUST, SHOULD, COULD
//	n 3:   MUST, SHOULD
//	n 4+:  MUST
//
// The schedule is a pure function of n, so the monotonicity guarantee
// (the set never grows as n increases) holds by construction.
func BlockingSeverities(n int) map[models.Severity]bool {
	switch {
	case n >= 4:
		return map[models.Severity]bool{
			models.SeverityMust: true,
		}
	case n >= 3:
		return map[models.Severity]bool{
			models.SeverityMust:   true,
			models.SeverityShould: true,
		}
	default:
		return map[models.Severity]bool{
			models.SeverityMust:   true,
			models.SeverityShould: true,
			models.SeverityCould:  true,
		}
	}
}

// BlockingList returns the blocking severities for n in priority order,
// for display and for the analyze command's --blocking flag default.
func BlockingList(n int) []models.Severity {
	set := BlockingSeverities(n)
	var out []models.Severity
	for _, s := range models.SeverityOrder {
		if set[s] {
			out = append(out, s)
		}
	}
	return out
}

// State is the verification session state.
type State string

const (
	// StateRunning means another iteration is pending.
	StateRunning State = "running"
	// StateAccepted means an iteration aggregated to PASS. Terminal.
	StateAccepted State = "accepted"
	// StateExhausted means the iteration limit was reached while issues
	// persisted. Terminal; outstanding issues are accepted as a known
	// limitation of the run.
	StateExhausted State = "exhausted"
	// StateDegraded means brief authoring never succeeded, so the
	// milestone completed with no verification performed. Terminal and
	// surfaced explicitly; never reported as a pass.
	StateDegraded State = "degraded"
)

// Terminal returns true for end states.
func (s State) Terminal() bool {
	return s != StateRunning
}

// IterationState is the counter for one milestone's verification session.
// It is owned exclusively by the iteration controller: no other component
// advances N, N never decreases, and it resets only when a new milestone
// begins (a new value is created).
type IterationState struct {
	// N is the current iteration, 1-indexed.
	N int
	// Limit is the maximum number of iterations.
	Limit int
}

// NewIterationState creates the counter for a fresh session. A limit of
// zero or less falls back to DefaultIterationLimit.
func NewIterationState(limit int) IterationState {
	if limit <= 0 {
		limit = DefaultIterationLimit
	}
	return IterationState{N: 1, Limit: limit}
}

// Blocking returns the blocking-severity set for the current iteration.
func (s *IterationState) Blocking() map[models.Severity]bool {
	return BlockingSeverities(s.N)
}

// Transition applies this iteration's verdict: PASS accepts at any n,
// ISSUES below the limit advances to the next iteration, and ISSUES at
// the limit exhausts the session.
func (s *IterationState) Transition(verdict models.Verdict) State {
	if verdict == models.VerdictPass {
		return StateAccepted
	}
	if s.N >= s.Limit {
		return StateExhausted
	}
	s.N++
	return StateRunning
}
