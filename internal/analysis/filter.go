// Package analysis filters claims into scope, evaluates them against
// their artifacts, and aggregates per-claim outcomes into one verdict.
package analysis

import (
	"fmt"

	"github.com/ShayCichocki/attest/pkg/models"
)

// Scope is the verification-type dimension of filtering.
type Scope string

const (
	// ScopeCursory evaluates visual claims only.
	ScopeCursory Scope = "cursory"
	// ScopeThorough evaluates all claim types.
	ScopeThorough Scope = "thorough"
)

// Valid returns true if the scope is a known value.
func (s Scope) Valid() bool {
	return s == ScopeCursory || s == ScopeThorough
}

// Includes reports whether the scope covers a verification type.
func (s Scope) Includes(t models.VerificationType) bool {
	if s == ScopeCursory {
		return t == models.TypeVisual
	}
	return true
}

// Partition is the result of filtering: claims to evaluate this
// iteration, and claims deferred with a skip reason.
type Partition struct {
	Evaluate []models.Claim
	Skipped  []models.Outcome
}

// Filter applies the two orthogonal filters to each claim: type scope and
// blocking severities. A claim must pass both to be evaluated; the two
// checks are independent set-membership tests, so application order does
// not affect the partition. Log claims are always skipped
// (not-implemented) regardless of either filter.
//
// A claim with a severity or type outside the known sets is a
// data-integrity error, not a skip.
func Filter(claims []models.Claim, scope Scope, blocking map[models.Severity]bool) (*Partition, error) {
	if !scope.Valid() {
		return nil, fmt.Errorf("unknown analysis scope %q", scope)
	}

	p := &Partition{}
	for i := range claims {
		claim := claims[i]
		if err := claim.Validate(); err != nil {
			return nil, fmt.Errorf("claim %d: %w", i, err)
		}

		switch {
		case claim.Type == models.TypeLog:
			p.skip(claim, models.SkipNotImplemented)
		case !scope.Includes(claim.Type):
			p.skip(claim, models.SkipTypeFiltered)
		case !blocking[claim.Severity]:
			p.skip(claim, models.SkipSeverityFiltered)
		default:
			p.Evaluate = append(p.Evaluate, claim)
		}
	}
	return p, nil
}

func (p *Partition) skip(claim models.Claim, reason models.SkipReason) {
	p.Skipped = append(p.Skipped, models.Outcome{
		Claim:  claim,
		Status: models.OutcomeSkip,
		Reason: reason,
	})
}
