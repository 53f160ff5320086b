package brief

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCriteria(t *testing.T) {
	path := filepath.Join(t.TempDir(), "criteria.yaml")
	content := `
milestone: M-003
criteria:
  - text: score shows 30 after clear-three-rows
    required: true
    field: score
  - text: line-clear sound plays
  - text: grid borders stay aligned
    cosmetic: true
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	milestone, criteria, err := LoadCriteria(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if milestone != "M-003" {
		t.Errorf("expected milestone M-003, got %q", milestone)
	}
	if len(criteria) != 3 {
		t.Fatalf("expected 3 criteria, got %d", len(criteria))
	}
	if !criteria[0].Required || criteria[0].Field != "score" {
		t.Errorf("unexpected first criterion: %+v", criteria[0])
	}
	if !criteria[2].Cosmetic {
		t.Error("expected third criterion to be cosmetic")
	}
}

func TestLoadCriteriaEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "criteria.yaml")
	if err := os.WriteFile(path, []byte("milestone: M-004\ncriteria: []\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := LoadCriteria(path); err == nil {
		t.Error("expected error for empty criteria list")
	}
}

func TestLoadCriteriaMissingFile(t *testing.T) {
	if _, _, err := LoadCriteria(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing criteria file")
	}
}
