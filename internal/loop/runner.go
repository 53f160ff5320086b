package loop

import (
	"context"
	"fmt"

	"github.com/ShayCichocki/attest/internal/analysis"
	"github.com/ShayCichocki/attest/pkg/models"
)

// AuthorFunc authors the brief for the session. It is invoked lazily and
// at most until it first succeeds; the resulting brief is reused verbatim
// across iterations. Authoring failure is recoverable: the iteration's
// verification is skipped and authoring is retried on the next iteration.
type AuthorFunc func(ctx context.Context) (*models.Brief, error)

// IterationRecord captures one completed (or skipped) iteration.
type IterationRecord struct {
	// N is the iteration number, 1-indexed.
	N int `json:"n"`
	// Blocking is the severity set that blocked this iteration.
	Blocking []models.Severity `json:"blocking"`
	// Outcomes are the per-claim results. Empty when authoring failed.
	Outcomes []models.Outcome `json:"outcomes,omitempty"`
	// Verdict is the aggregate for the iteration. Empty when authoring
	// failed and no verification ran.
	Verdict models.Verdict `json:"verdict,omitempty"`
	// AuthoringError records why verification was skipped, if it was.
	AuthoringError string `json:"authoring_error,omitempty"`
}

// Result is the terminal outcome of a verification session.
type Result struct {
	// State is the terminal session state.
	State State `json:"state"`
	// Verdict is the session-level verdict: PASS for accepted sessions,
	// EXHAUSTED when the limit was reached with issues, ISSUES when the
	// session degraded with no verification performed.
	Verdict models.Verdict `json:"verdict"`
	// Iterations holds the per-iteration detail, last iteration last.
	Iterations []IterationRecord `json:"iterations"`
}

// Last returns the final iteration record, or nil for an empty session.
func (r *Result) Last() *IterationRecord {
	if len(r.Iterations) == 0 {
		return nil
	}
	return &r.Iterations[len(r.Iterations)-1]
}

// Runner drives one milestone's verification session to a decision. Each
// iteration is strictly sequential: filter, evaluate, aggregate, then
// transition, because the next blocking set depends on the verdict.
type Runner struct {
	author    AuthorFunc
	evaluator *analysis.Evaluator
	scope     analysis.Scope
	limit     int
	logger    *Logger

	// onIteration, when set, observes each completed iteration. Used for
	// session persistence.
	onIteration func(IterationRecord)
}

// NewRunner creates a session runner. A nil logger disables debug logs.
func NewRunner(author AuthorFunc, evaluator *analysis.Evaluator, scope analysis.Scope, limit int, logger *Logger) *Runner {
	if logger == nil {
		logger = &Logger{}
	}
	return &Runner{
		author:    author,
		evaluator: evaluator,
		scope:     scope,
		limit:     limit,
		logger:    logger,
	}
}

// OnIteration registers an observer for completed iterations.
func (r *Runner) OnIteration(fn func(IterationRecord)) {
	r.onIteration = fn
}

// Run executes the verification session and returns its terminal result.
// It returns an error only for data-integrity failures or context
// cancellation; input absence and authoring failures follow their
// documented fallbacks instead.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	iter := NewIterationState(r.limit)
	result := &Result{State: StateRunning}

	var brief *models.Brief

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record := IterationRecord{N: iter.N, Blocking: BlockingList(iter.N)}

		if brief == nil {
			authored, err := r.author(ctx)
			if err != nil {
				// Skip verification this iteration; retry authoring next.
				r.logger.Log("iteration %d: brief authoring failed: %v", iter.N, err)
				record.AuthoringError = err.Error()
				result.Iterations = append(result.Iterations, record)
				r.observe(record)

				if iter.N >= iter.Limit {
					result.State = StateDegraded
					result.Verdict = models.VerdictIssues
					return result, nil
				}
				iter.N++
				continue
			}
			if err := authored.Validate(); err != nil {
				return nil, fmt.Errorf("authored brief invalid: %w", err)
			}
			brief = authored
			r.logger.Log("brief authored: %d claims", len(brief.Claims))
		}

		partition, err := analysis.Filter(brief.Claims, r.scope, iter.Blocking())
		if err != nil {
			return nil, fmt.Errorf("iteration %d: %w", iter.N, err)
		}

		outcomes := r.evaluator.EvaluateAll(ctx, partition.Evaluate)
		outcomes = append(outcomes, partition.Skipped...)

		record.Outcomes = outcomes
		record.Verdict = analysis.Aggregate(outcomes)
		result.Iterations = append(result.Iterations, record)
		r.observe(record)

		r.logger.Log("iteration %d: %d evaluated, %d skipped, verdict %s (blocking %v)",
			iter.N, len(partition.Evaluate), len(partition.Skipped), record.Verdict, record.Blocking)

		switch iter.Transition(record.Verdict) {
		case StateAccepted:
			result.State = StateAccepted
			result.Verdict = models.VerdictPass
			return result, nil
		case StateExhausted:
			result.State = StateExhausted
			result.Verdict = models.VerdictExhausted
			return result, nil
		}
	}
}

func (r *Runner) observe(record IterationRecord) {
	if r.onIteration != nil {
		r.onIteration(record)
	}
}
