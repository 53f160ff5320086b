package brief

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ShayCichocki/attest/pkg/models"
)

func TestStorageSaveLoad(t *testing.T) {
	dir := t.TempDir()
	s := NewStorage(dir)

	b := models.NewBrief("M-001", []models.Claim{
		{Step: "step-1", Type: models.TypeVisual, Severity: models.SeverityMust, Condition: "screen shows score"},
	})

	if s.Exists("M-001") {
		t.Error("brief should not exist before save")
	}

	if err := s.Save(b, []string{"step-1"}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !s.Exists("M-001") {
		t.Error("brief should exist after save")
	}

	stored, err := s.Load("M-001")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if stored.Brief.Milestone != "M-001" {
		t.Errorf("expected milestone M-001, got %q", stored.Brief.Milestone)
	}
	if len(stored.Brief.Claims) != 1 {
		t.Fatalf("expected 1 claim, got %d", len(stored.Brief.Claims))
	}
	if len(stored.StepLabels) != 1 || stored.StepLabels[0] != "step-1" {
		t.Errorf("expected recorded step labels [step-1], got %v", stored.StepLabels)
	}
	if stored.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}
}

func TestStorageLoadMissing(t *testing.T) {
	s := NewStorage(t.TempDir())
	if _, err := s.Load("M-404"); err == nil {
		t.Error("expected error for missing brief")
	}
}

func TestStorageLoadRejectsInvalidBrief(t *testing.T) {
	dir := t.TempDir()
	briefDir := filepath.Join(dir, ".attest", "briefs")
	if err := os.MkdirAll(briefDir, 0755); err != nil {
		t.Fatal(err)
	}

	bad := `{"brief": {"schema": "attest-brief-v1", "milestone": "M-002",
		"claims": [{"step": "", "type": "visual", "severity": "MUST"}]}}`
	if err := os.WriteFile(filepath.Join(briefDir, "M-002.json"), []byte(bad), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewStorage(dir).Load("M-002"); err == nil {
		t.Error("expected error for brief with empty step label")
	}
}
