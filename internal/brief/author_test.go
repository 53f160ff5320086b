package brief

import (
	"testing"

	"github.com/ShayCichocki/attest/internal/manifest"
	"github.com/ShayCichocki/attest/pkg/models"
)

func testManifest() *manifest.Manifest {
	return &manifest.Manifest{
		Steps: []manifest.Step{
			{
				Label: "clear-three-rows",
				Artifacts: manifest.Artifacts{
					Screenshot: "test_output/step-1/screenshot.png",
					StateDump:  "test_output/step-1/gamestate.json",
				},
			},
			{
				Label: "game-over",
				Artifacts: manifest.Artifacts{
					Screenshot: "test_output/step-2/screenshot.png",
				},
			},
		},
	}
}

func TestAuthorWithoutManifest(t *testing.T) {
	criteria := []PlanCriterion{
		{Text: "Score display shows 30 after 3-row clear", Required: true},
		{Text: "Pieces are centered in their cells", Cosmetic: true},
	}

	b := Author("M-001", criteria, nil)

	if err := b.Validate(); err != nil {
		t.Fatalf("authored brief invalid: %v", err)
	}
	if len(b.Claims) != 2 {
		t.Fatalf("expected 2 claims, got %d", len(b.Claims))
	}

	// Conservative defaults: untested criteria block, never drop silently.
	for i, c := range b.Claims {
		if c.Step != models.StepUnknown {
			t.Errorf("claim %d: expected step %q, got %q", i, models.StepUnknown, c.Step)
		}
		if c.Artifact != nil {
			t.Errorf("claim %d: expected nil artifact, got %q", i, *c.Artifact)
		}
		if c.Type != models.TypeVisual {
			t.Errorf("claim %d: expected visual type, got %q", i, c.Type)
		}
		if c.Severity != models.SeverityMust {
			t.Errorf("claim %d: expected MUST severity, got %q", i, c.Severity)
		}
	}
}

func TestAuthorSeverityAssignment(t *testing.T) {
	criteria := []PlanCriterion{
		{Text: "clear-three-rows updates the score", Required: true},
		{Text: "clear-three-rows plays the line-clear sound"},
		{Text: "clear-three-rows keeps grid borders aligned", Cosmetic: true},
	}

	b := Author("M-001", criteria, testManifest())

	want := []models.Severity{models.SeverityMust, models.SeverityShould, models.SeverityCould}
	for i, c := range b.Claims {
		if c.Severity != want[i] {
			t.Errorf("claim %d: expected severity %q, got %q", i, want[i], c.Severity)
		}
	}
}

func TestAuthorCorrelation(t *testing.T) {
	criteria := []PlanCriterion{
		// Explicit step name wins.
		{Text: "final screen shows GAME OVER", Step: "game-over", Required: true},
		// Label appears in the criterion text.
		{Text: "after clear-three-rows the board is empty", Required: true},
		// No match: unresolved.
		{Text: "soundtrack volume is audible", Required: true},
		// Declared step missing from manifest: unresolved, no fuzzy fallback.
		{Text: "pause menu opens", Step: "pause-menu", Required: true},
	}

	b := Author("M-001", criteria, testManifest())

	if b.Claims[0].Step != "game-over" {
		t.Errorf("expected explicit step correlation, got %q", b.Claims[0].Step)
	}
	if b.Claims[0].Artifact == nil || *b.Claims[0].Artifact != "test_output/step-2/screenshot.png" {
		t.Errorf("expected screenshot artifact for game-over claim")
	}
	if b.Claims[1].Step != "clear-three-rows" {
		t.Errorf("expected label-in-text correlation, got %q", b.Claims[1].Step)
	}
	if b.Claims[2].Step != models.StepUnknown {
		t.Errorf("expected unresolved claim, got step %q", b.Claims[2].Step)
	}
	if b.Claims[3].Step != models.StepUnknown {
		t.Errorf("expected unresolved claim for missing declared step, got %q", b.Claims[3].Step)
	}
}

func TestAuthorStateTypeSelection(t *testing.T) {
	criteria := []PlanCriterion{
		{Text: "clear-three-rows sets score to 30", Field: "score", Required: true},
	}

	b := Author("M-001", criteria, testManifest())

	c := b.Claims[0]
	if c.Type != models.TypeState {
		t.Errorf("expected state type for field-backed criterion, got %q", c.Type)
	}
	if c.Search != "score" {
		t.Errorf("expected search hint 'score', got %q", c.Search)
	}
	if c.Artifact == nil || *c.Artifact != "test_output/step-1/gamestate.json" {
		t.Error("expected statedump artifact for state claim")
	}
}

func TestAuthorDeterministic(t *testing.T) {
	criteria := []PlanCriterion{
		{Text: "after clear-three-rows the board is empty", Required: true},
		{Text: "game-over screen appears", Required: true},
	}

	first := Author("M-001", criteria, testManifest())
	second := Author("M-001", criteria, testManifest())

	for i := range first.Claims {
		if first.Claims[i].Step != second.Claims[i].Step {
			t.Errorf("claim %d: correlation not deterministic: %q vs %q",
				i, first.Claims[i].Step, second.Claims[i].Step)
		}
	}
}
