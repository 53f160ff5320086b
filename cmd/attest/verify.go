package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/attest/internal/analysis"
	"github.com/ShayCichocki/attest/internal/brief"
	"github.com/ShayCichocki/attest/internal/config"
	"github.com/ShayCichocki/attest/internal/loop"
	"github.com/ShayCichocki/attest/internal/manifest"
	"github.com/ShayCichocki/attest/internal/report"
	"github.com/ShayCichocki/attest/internal/state"
	"github.com/ShayCichocki/attest/pkg/models"
)

var (
	verifyPlanFile     string
	verifyManifestPath string
	verifyScope        string
	verifyLimit        int
	verifyWatch        bool
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Run the full verification loop for a milestone",
	Long: `Drive a milestone's verification to a decision: author the brief (if
needed), then iterate filter-evaluate-aggregate with a progressively
narrowing blocking set until the milestone is accepted, the iteration
limit is exhausted, or authoring permanently fails (degraded).

With --watch, stays running and starts a fresh verification session
whenever the manifest's step structure changes.`,
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().StringVar(&verifyPlanFile, "plan", "", "Plan criteria file (YAML, required)")
	verifyCmd.Flags().StringVar(&verifyManifestPath, "manifest", "", "Manifest path (default from config)")
	verifyCmd.Flags().StringVar(&verifyScope, "tier", "", "Analysis tier: cursory or thorough (default from config)")
	verifyCmd.Flags().IntVar(&verifyLimit, "limit", 0, "Iteration limit (default from config)")
	verifyCmd.Flags().BoolVar(&verifyWatch, "watch", false, "Re-verify when the manifest structure changes")
	verifyCmd.MarkFlagRequired("plan")
}

func runVerify(cmd *cobra.Command, args []string) error {
	code, err := verifySession(cmd)
	if err != nil {
		return err
	}
	if code != 0 {
		// Deferred closes in verifySession have already run.
		os.Exit(code)
	}
	return nil
}

// verifySession runs the command body in its own frame so the deferred
// log and database closes complete before the process exits.
func verifySession(cmd *cobra.Command) (int, error) {
	cfg, err := config.Load(projectRoot)
	if err != nil {
		return 0, err
	}

	manifestPath := verifyManifestPath
	if manifestPath == "" {
		manifestPath = filepath.Join(projectRoot, cfg.Paths.Manifest)
	}
	scope := analysis.Scope(cfg.Verify.Scope)
	if verifyScope != "" {
		scope = analysis.Scope(verifyScope)
	}
	if !scope.Valid() {
		return 0, fmt.Errorf("unknown tier %q (want cursory or thorough)", scope)
	}
	limit := cfg.Verify.IterationLimit
	if verifyLimit > 0 {
		limit = verifyLimit
	}

	milestone, criteria, err := brief.LoadCriteria(verifyPlanFile)
	if err != nil {
		return 0, err
	}

	evaluator, client, err := createEvaluator(cfg)
	if err != nil {
		return 0, err
	}

	logger, err := loop.NewLogger(filepath.Join(projectRoot, cfg.Paths.DebugLog))
	if err != nil {
		return 0, err
	}
	defer logger.Close()

	db, err := state.Open(state.ProjectDBPath(projectRoot))
	if err != nil {
		return 0, err
	}
	defer db.Close()

	result, err := runSession(cmd.Context(), sessionParams{
		milestone:    milestone,
		criteria:     criteria,
		manifestPath: manifestPath,
		scope:        scope,
		limit:        limit,
		evaluator:    evaluator,
		logger:       logger,
		db:           db,
	})
	if err != nil {
		return 0, err
	}

	report.WriteResult(os.Stdout, result)
	if in, out := client.Tracker().Total(); client.Tracker().Calls() > 0 {
		fmt.Printf("tokens: %d in / %d out over %d call(s)\n", in, out, client.Tracker().Calls())
	}

	if verifyWatch {
		return 0, watchLoop(cmd.Context(), manifestPath, func(ctx context.Context) error {
			result, err := runSession(ctx, sessionParams{
				milestone:    milestone,
				criteria:     criteria,
				manifestPath: manifestPath,
				scope:        scope,
				limit:        limit,
				evaluator:    evaluator,
				logger:       logger,
				db:           db,
			})
			if err != nil {
				return err
			}
			report.WriteResult(os.Stdout, result)
			return nil
		})
	}

	return exitCode(result), nil
}

// exitCode maps a terminal session state to the process exit code.
func exitCode(result *loop.Result) int {
	if result.State == loop.StateAccepted {
		return 0
	}
	return 1
}

type sessionParams struct {
	milestone    string
	criteria     []brief.PlanCriterion
	manifestPath string
	scope        analysis.Scope
	limit        int
	evaluator    *analysis.Evaluator
	logger       *loop.Logger
	db           *state.DB
}

// runSession runs one verification session: author (or reuse) the brief,
// iterate to a terminal state, and persist every iteration.
func runSession(ctx context.Context, p sessionParams) (*loop.Result, error) {
	storage := brief.NewStorage(projectRoot)

	author := loop.AuthorFunc(func(ctx context.Context) (*models.Brief, error) {
		return authorOrReuse(storage, p.milestone, p.criteria, p.manifestPath)
	})

	sessionID, err := p.db.CreateSession(p.milestone, string(p.scope))
	if err != nil {
		return nil, err
	}

	runner := loop.NewRunner(author, p.evaluator, p.scope, p.limit, p.logger)
	runner.OnIteration(func(rec loop.IterationRecord) {
		if err := p.db.RecordIteration(sessionID, rec); err != nil {
			p.logger.Log("persist iteration %d: %v", rec.N, err)
		}
	})

	result, err := runner.Run(ctx)
	if err != nil {
		return nil, err
	}
	if err := p.db.FinishSession(sessionID, result.State, result.Verdict); err != nil {
		p.logger.Log("finish session: %v", err)
	}
	return result, nil
}

// authorOrReuse loads the stored brief when the manifest structure is
// unchanged, and authors a fresh one otherwise.
func authorOrReuse(storage *brief.Storage, milestone string, criteria []brief.PlanCriterion, manifestPath string) (*models.Brief, error) {
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return nil, err
	}

	var labels []string
	if m != nil {
		labels = m.Labels()
	}

	if storage.Exists(milestone) {
		stored, err := storage.Load(milestone)
		if err == nil && !manifest.StructureChanged(
			&manifest.Manifest{Steps: stepsFromLabels(stored.StepLabels)},
			&manifest.Manifest{Steps: stepsFromLabels(labels)},
		) {
			return stored.Brief, nil
		}
	}

	b := brief.Author(milestone, criteria, m)
	if err := storage.Save(b, labels); err != nil {
		return nil, err
	}
	return b, nil
}

// watchLoop blocks, starting a fresh session whenever the manifest's
// step structure changes.
func watchLoop(ctx context.Context, manifestPath string, rerun func(context.Context) error) error {
	watcher, err := manifest.NewWatcher(manifestPath)
	if err != nil {
		return err
	}
	defer watcher.Close()

	color.Cyan("watching %s for structural changes", manifestPath)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-watcher.Changes():
			color.Cyan("manifest structure changed; starting a new verification session")
			if err := rerun(ctx); err != nil {
				return err
			}
		}
	}
}
