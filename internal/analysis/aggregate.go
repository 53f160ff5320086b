package analysis

import "github.com/ShayCichocki/attest/pkg/models"

// Aggregate combines per-claim outcomes into one verdict for the
// iteration. Only non-SKIP outcomes count; an empty non-SKIP set is PASS
// by explicit convention (nothing blocking was found, vacuously). Pure
// over its input, so re-running on the same outcomes yields the same
// verdict.
func Aggregate(outcomes []models.Outcome) models.Verdict {
	for i := range outcomes {
		if outcomes[i].Status == models.OutcomeIssues {
			return models.VerdictIssues
		}
	}
	return models.VerdictPass
}
