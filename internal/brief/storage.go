package brief

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ShayCichocki/attest/pkg/models"
)

// Storage persists briefs under the project's .attest directory, one file
// per milestone.
type Storage struct {
	baseDir string
}

// StoredBrief wraps a brief with metadata for persistence.
type StoredBrief struct {
	// Brief is the authored claim list.
	Brief *models.Brief `json:"brief"`
	// StepLabels records the manifest step set the brief was authored
	// against, for structure-change detection on later runs.
	StepLabels []string `json:"step_labels,omitempty"`
	// CreatedAt is when the brief was authored.
	CreatedAt time.Time `json:"created_at"`
}

// NewStorage creates brief storage rooted at the given work directory.
// Briefs are stored in .attest/briefs/ within the work directory.
func NewStorage(workDir string) *Storage {
	return &Storage{baseDir: filepath.Join(workDir, ".attest", "briefs")}
}

func (s *Storage) path(milestone string) string {
	return filepath.Join(s.baseDir, fmt.Sprintf("%s.json", milestone))
}

// Save writes the brief for a milestone, recording the manifest step set
// it was authored against.
func (s *Storage) Save(b *models.Brief, stepLabels []string) error {
	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		return fmt.Errorf("create briefs directory: %w", err)
	}

	stored := &StoredBrief{
		Brief:      b,
		StepLabels: stepLabels,
		CreatedAt:  time.Now(),
	}

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal brief: %w", err)
	}
	if err := os.WriteFile(s.path(b.Milestone), data, 0644); err != nil {
		return fmt.Errorf("write brief file: %w", err)
	}
	return nil
}

// Load reads the stored brief for a milestone.
func (s *Storage) Load(milestone string) (*StoredBrief, error) {
	data, err := os.ReadFile(s.path(milestone))
	if err != nil {
		return nil, fmt.Errorf("read brief file: %w", err)
	}

	var stored StoredBrief
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("unmarshal brief: %w", err)
	}
	if err := stored.Brief.Validate(); err != nil {
		return nil, fmt.Errorf("stored brief invalid: %w", err)
	}
	return &stored, nil
}

// Exists checks whether a brief has been authored for the milestone.
func (s *Storage) Exists(milestone string) bool {
	_, err := os.Stat(s.path(milestone))
	return err == nil
}
