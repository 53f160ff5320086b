package state

import (
	"path/filepath"
	"testing"

	"github.com/ShayCichocki/attest/internal/loop"
	"github.com/ShayCichocki/attest/pkg/models"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSessionLifecycle(t *testing.T) {
	db := openTestDB(t)

	id, err := db.CreateSession("M-001", "thorough")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if id == "" {
		t.Fatal("expected non-empty session id")
	}

	rec := loop.IterationRecord{
		N:        1,
		Blocking: []models.Severity{models.SeverityMust, models.SeverityShould, models.SeverityCould},
		Verdict:  models.VerdictIssues,
		Outcomes: []models.Outcome{
			{
				Claim:  models.Claim{Step: "step-1", Type: models.TypeVisual, Severity: models.SeverityMust},
				Status: models.OutcomeIssues,
			},
		},
	}
	if err := db.RecordIteration(id, rec); err != nil {
		t.Fatalf("record iteration: %v", err)
	}

	rec2 := loop.IterationRecord{
		N:        2,
		Blocking: []models.Severity{models.SeverityMust, models.SeverityShould, models.SeverityCould},
		Verdict:  models.VerdictPass,
	}
	if err := db.RecordIteration(id, rec2); err != nil {
		t.Fatalf("record iteration 2: %v", err)
	}

	if err := db.FinishSession(id, loop.StateAccepted, models.VerdictPass); err != nil {
		t.Fatalf("finish session: %v", err)
	}

	sessions, err := db.ListSessions("M-001", 10)
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions))
	}
	s := sessions[0]
	if s.State != loop.StateAccepted || s.Verdict != models.VerdictPass {
		t.Errorf("unexpected terminal session: %+v", s)
	}
	if s.FinishedAt == nil {
		t.Error("expected finished_at to be set")
	}

	iters, err := db.Iterations(id)
	if err != nil {
		t.Fatalf("load iterations: %v", err)
	}
	if len(iters) != 2 {
		t.Fatalf("expected 2 iterations, got %d", len(iters))
	}
	if iters[0].N != 1 || iters[0].Verdict != models.VerdictIssues {
		t.Errorf("unexpected first iteration: %+v", iters[0])
	}
	if len(iters[0].Outcomes) != 1 || iters[0].Outcomes[0].Claim.Step != "step-1" {
		t.Errorf("unexpected outcomes roundtrip: %+v", iters[0].Outcomes)
	}
	if len(iters[0].Blocking) != 3 {
		t.Errorf("unexpected blocking roundtrip: %v", iters[0].Blocking)
	}
}

func TestListSessionsFilter(t *testing.T) {
	db := openTestDB(t)

	if _, err := db.CreateSession("M-001", "cursory"); err != nil {
		t.Fatal(err)
	}
	if _, err := db.CreateSession("M-002", "thorough"); err != nil {
		t.Fatal(err)
	}

	all, err := db.ListSessions("", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 sessions, got %d", len(all))
	}

	only, err := db.ListSessions("M-002", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(only) != 1 || only[0].Milestone != "M-002" {
		t.Errorf("expected only M-002, got %+v", only)
	}
}

func TestFinishUnknownSession(t *testing.T) {
	db := openTestDB(t)
	if err := db.FinishSession("no-such-id", loop.StateAccepted, models.VerdictPass); err == nil {
		t.Error("expected error for unknown session")
	}
}
