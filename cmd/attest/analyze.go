package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/attest/internal/analysis"
	"github.com/ShayCichocki/attest/internal/brief"
	"github.com/ShayCichocki/attest/internal/config"
	"github.com/ShayCichocki/attest/internal/loop"
	"github.com/ShayCichocki/attest/internal/report"
	"github.com/ShayCichocki/attest/pkg/models"
)

var (
	analyzeMilestone string
	analyzeTier      string
	analyzeBlocking  string
	analyzeIteration int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run a single analysis iteration over an authored brief",
	Long: `Run one filter-evaluate-aggregate pass over the milestone's brief and
print the per-claim table plus the iteration verdict.

The blocking-severity set is supplied by the caller, not computed here:
pass --blocking explicitly, or --iteration to derive it from the
de-escalation schedule (1-2: MUST,SHOULD,COULD; 3: MUST,SHOULD;
4+: MUST).`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeMilestone, "milestone", "", "Milestone ID (required)")
	analyzeCmd.Flags().StringVar(&analyzeTier, "tier", "cursory", "Analysis tier: cursory (visual only) or thorough (all types)")
	analyzeCmd.Flags().StringVar(&analyzeBlocking, "blocking", "", "Comma-separated blocking severities (e.g., MUST,SHOULD)")
	analyzeCmd.Flags().IntVar(&analyzeIteration, "iteration", 1, "Iteration number used to derive the blocking set when --blocking is not given")
	analyzeCmd.MarkFlagRequired("milestone")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	verdict, err := analyzeIterationOnce(cmd)
	if err != nil {
		return err
	}
	if verdict != models.VerdictPass {
		// analyzeIterationOnce has returned; nothing deferred is pending.
		os.Exit(1)
	}
	return nil
}

func analyzeIterationOnce(cmd *cobra.Command) (models.Verdict, error) {
	cfg, err := config.Load(projectRoot)
	if err != nil {
		return "", err
	}

	scope := analysis.Scope(analyzeTier)
	if !scope.Valid() {
		return "", fmt.Errorf("unknown tier %q (want cursory or thorough)", analyzeTier)
	}

	blocking, blockingList, err := parseBlocking(analyzeBlocking, analyzeIteration)
	if err != nil {
		return "", err
	}

	stored, err := brief.NewStorage(projectRoot).Load(analyzeMilestone)
	if err != nil {
		return "", fmt.Errorf("load brief for %s: %w", analyzeMilestone, err)
	}

	evaluator, _, err := createEvaluator(cfg)
	if err != nil {
		return "", err
	}

	partition, err := analysis.Filter(stored.Brief.Claims, scope, blocking)
	if err != nil {
		return "", err
	}

	outcomes := evaluator.EvaluateAll(cmd.Context(), partition.Evaluate)
	outcomes = append(outcomes, partition.Skipped...)
	verdict := analysis.Aggregate(outcomes)

	report.WriteIteration(os.Stdout, loop.IterationRecord{
		N:        analyzeIteration,
		Blocking: blockingList,
		Outcomes: outcomes,
		Verdict:  verdict,
	})

	return verdict, nil
}

// parseBlocking resolves the blocking set from an explicit flag value or,
// when absent, from the de-escalation schedule for the given iteration.
func parseBlocking(flag string, iteration int) (map[models.Severity]bool, []models.Severity, error) {
	if flag == "" {
		return loop.BlockingSeverities(iteration), loop.BlockingList(iteration), nil
	}

	set := make(map[models.Severity]bool)
	var list []models.Severity
	for _, part := range strings.Split(flag, ",") {
		s := models.Severity(strings.ToUpper(strings.TrimSpace(part)))
		if !s.Valid() {
			return nil, nil, fmt.Errorf("unknown severity %q in --blocking", part)
		}
		if !set[s] {
			set[s] = true
			list = append(list, s)
		}
	}
	if len(set) == 0 {
		return nil, nil, fmt.Errorf("--blocking lists no severities")
	}
	return set, list, nil
}
