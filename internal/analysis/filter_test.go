package analysis

import (
	"testing"

	"github.com/ShayCichocki/attest/pkg/models"
)

func allSeverities() map[models.Severity]bool {
	return map[models.Severity]bool{
		models.SeverityMust:   true,
		models.SeverityShould: true,
		models.SeverityCould:  true,
	}
}

func claim(step string, t models.VerificationType, s models.Severity) models.Claim {
	return models.Claim{Step: step, Type: t, Severity: s}
}

func TestFilterThoroughAllBlocking(t *testing.T) {
	claims := []models.Claim{
		claim("a", models.TypeVisual, models.SeverityMust),
		claim("b", models.TypeState, models.SeverityShould),
		claim("c", models.TypeVisual, models.SeverityCould),
	}

	p, err := Filter(claims, ScopeThorough, allSeverities())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Evaluate) != 3 {
		t.Errorf("expected 3 claims to evaluate, got %d", len(p.Evaluate))
	}
	if len(p.Skipped) != 0 {
		t.Errorf("expected no skips, got %d", len(p.Skipped))
	}
}

func TestFilterCursoryScope(t *testing.T) {
	claims := []models.Claim{
		claim("a", models.TypeVisual, models.SeverityMust),
		claim("b", models.TypeState, models.SeverityMust),
	}

	p, err := Filter(claims, ScopeCursory, allSeverities())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Evaluate) != 1 || p.Evaluate[0].Step != "a" {
		t.Errorf("expected only the visual claim to survive, got %+v", p.Evaluate)
	}
	if len(p.Skipped) != 1 || p.Skipped[0].Reason != models.SkipTypeFiltered {
		t.Errorf("expected one type-filtered skip, got %+v", p.Skipped)
	}
}

func TestFilterSeverityNarrowing(t *testing.T) {
	claims := []models.Claim{
		claim("a", models.TypeVisual, models.SeverityMust),
		claim("b", models.TypeVisual, models.SeverityShould),
		claim("c", models.TypeVisual, models.SeverityCould),
	}
	blocking := map[models.Severity]bool{
		models.SeverityMust:   true,
		models.SeverityShould: true,
	}

	p, err := Filter(claims, ScopeThorough, blocking)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Evaluate) != 2 {
		t.Errorf("expected 2 claims to evaluate, got %d", len(p.Evaluate))
	}
	if len(p.Skipped) != 1 || p.Skipped[0].Reason != models.SkipSeverityFiltered {
		t.Errorf("expected COULD claim severity-filtered, got %+v", p.Skipped)
	}
}

func TestFilterLogAlwaysSkipped(t *testing.T) {
	claims := []models.Claim{claim("a", models.TypeLog, models.SeverityMust)}

	for _, scope := range []Scope{ScopeCursory, ScopeThorough} {
		p, err := Filter(claims, scope, allSeverities())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(p.Evaluate) != 0 {
			t.Errorf("scope %s: log claim must never be evaluated", scope)
		}
		if len(p.Skipped) != 1 || p.Skipped[0].Reason != models.SkipNotImplemented {
			t.Errorf("scope %s: expected not-implemented skip, got %+v", scope, p.Skipped)
		}
	}
}

func TestFilterOrderIndependence(t *testing.T) {
	// A claim failing both filters gets a single deterministic partition
	// result regardless of conceptual filter order: it is skipped, never
	// evaluated.
	claims := []models.Claim{claim("a", models.TypeState, models.SeverityCould)}
	blocking := map[models.Severity]bool{models.SeverityMust: true}

	p, err := Filter(claims, ScopeCursory, blocking)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Evaluate) != 0 || len(p.Skipped) != 1 {
		t.Fatalf("expected claim to be skipped, got %+v", p)
	}
}

func TestFilterWideningUnskips(t *testing.T) {
	claims := []models.Claim{claim("a", models.TypeState, models.SeverityCould)}

	narrow := map[models.Severity]bool{models.SeverityMust: true}
	p, err := Filter(claims, ScopeCursory, narrow)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Skipped) != 1 {
		t.Fatal("expected claim skipped under narrow scope")
	}

	// Widen both dimensions: the claim must transition out of SKIP.
	p, err = Filter(claims, ScopeThorough, allSeverities())
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Evaluate) != 1 {
		t.Error("expected claim to be evaluated once scope was widened")
	}
}

func TestFilterDataIntegrity(t *testing.T) {
	tests := []struct {
		name  string
		claim models.Claim
	}{
		{"unknown severity", claim("a", models.TypeVisual, "BLOCKER")},
		{"unknown type", claim("a", "perceptual", models.SeverityMust)},
		{"empty step", claim("", models.TypeVisual, models.SeverityMust)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Filter([]models.Claim{tt.claim}, ScopeThorough, allSeverities()); err == nil {
				t.Error("expected data-integrity error")
			}
		})
	}
}

func TestFilterUnknownScope(t *testing.T) {
	if _, err := Filter(nil, "exhaustive", allSeverities()); err == nil {
		t.Error("expected error for unknown scope")
	}
}
