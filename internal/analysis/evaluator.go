package analysis

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/ShayCichocki/attest/pkg/models"
)

// VisualJudge renders a pass/fail judgment on an image artifact. The
// production implementation calls Claude with the screenshot; tests
// substitute a fake.
type VisualJudge interface {
	// Judge inspects the image at path against the claim's condition and
	// failure pattern. It returns issues=true when the failure pattern is
	// observed or the condition cannot be confirmed, along with a short
	// evidence summary.
	Judge(ctx context.Context, path, condition, failurePattern string) (issues bool, evidence string, err error)
}

// Evaluator renders per-claim outcomes. It never decides type or severity
// skips; those are the filter engine's job. The only skip it emits is
// missing-artifact, checked before any content inspection.
type Evaluator struct {
	judge VisualJudge
}

// NewEvaluator creates an evaluator using the given visual judge.
func NewEvaluator(judge VisualJudge) *Evaluator {
	return &Evaluator{judge: judge}
}

// Evaluate inspects one claim's artifact and returns its outcome.
func (e *Evaluator) Evaluate(ctx context.Context, claim models.Claim) models.Outcome {
	if !claim.Resolved() {
		return models.Outcome{
			Claim:    claim,
			Status:   models.OutcomeSkip,
			Reason:   models.SkipMissingArtifact,
			Evidence: "no artifact resolved for step " + claim.Step,
		}
	}

	switch claim.Type {
	case models.TypeVisual:
		return e.evaluateVisual(ctx, claim)
	case models.TypeState:
		return evaluateState(claim)
	default:
		// Log claims never reach the evaluator; the filter skips them.
		return models.Outcome{
			Claim:    claim,
			Status:   models.OutcomeSkip,
			Reason:   models.SkipNotImplemented,
			Evidence: fmt.Sprintf("no evaluator for type %q", claim.Type),
		}
	}
}

// EvaluateAll evaluates claims concurrently and returns outcomes in claim
// order. Claims share no mutable state, so the only synchronization is
// the join before returning; aggregation must not run until this
// completes.
func (e *Evaluator) EvaluateAll(ctx context.Context, claims []models.Claim) []models.Outcome {
	outcomes := make([]models.Outcome, len(claims))

	var wg sync.WaitGroup
	for i := range claims {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outcomes[i] = e.Evaluate(ctx, claims[i])
		}(i)
	}
	wg.Wait()

	return outcomes
}

func (e *Evaluator) evaluateVisual(ctx context.Context, claim models.Claim) models.Outcome {
	// A resolved path pointing at nothing is input absence, same as for
	// state dumps, not an inspection failure.
	if _, err := os.Stat(*claim.Artifact); os.IsNotExist(err) {
		return models.Outcome{
			Claim:    claim,
			Status:   models.OutcomeSkip,
			Reason:   models.SkipMissingArtifact,
			Evidence: fmt.Sprintf("screenshot %s does not exist", *claim.Artifact),
		}
	}

	issues, evidence, err := e.judge.Judge(ctx, *claim.Artifact, claim.Condition, claim.FailurePattern)
	if err != nil {
		// Ambiguity defaults toward ISSUES, never PASS.
		return models.Outcome{
			Claim:    claim,
			Status:   models.OutcomeIssues,
			Evidence: fmt.Sprintf("visual inspection failed: %v", err),
		}
	}

	status := models.OutcomePass
	if issues {
		status = models.OutcomeIssues
	}
	return models.Outcome{Claim: claim, Status: status, Evidence: evidence}
}
