// Package manifest reads the artifact-topology record produced by a test
// run. The manifest is owned by the test-run producer and read-only here;
// its absence is a valid, handled state, not an error.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ManifestSchema identifies the manifest document format.
const ManifestSchema = "attest-manifest-v1"

// ErrStepNotFound is returned by Resolve when no step carries the
// requested label. Callers treat it as a first-class result and apply
// their documented fallback, not as a run-aborting failure.
var ErrStepNotFound = errors.New("step label not found in manifest")

// Artifacts holds the named artifact paths a step produced.
type Artifacts struct {
	// Screenshot is the path to the captured screenshot, if any.
	Screenshot string `json:"screenshot,omitempty"`
	// StateDump is the path to the structured state dump, if any.
	StateDump string `json:"statedump,omitempty"`
	// Log is the path to captured log output, if any. Log capture is not
	// implemented by current producers; the field exists for the schema.
	Log string `json:"log,omitempty"`
}

// Step is one recorded test-run step.
type Step struct {
	// Label identifies the step; claims reference it verbatim.
	Label string `json:"label"`
	// Directory is the step's output directory, relative to the run root.
	Directory string `json:"directory,omitempty"`
	// Artifacts are the paths this step produced.
	Artifacts Artifacts `json:"artifacts"`
}

// Manifest records the ordered steps of one test run.
type Manifest struct {
	// Schema is the document format identifier.
	Schema string `json:"schema,omitempty"`
	// Steps is the ordered step list.
	Steps []Step `json:"steps"`
}

// Load reads a manifest from path. A missing file returns (nil, nil):
// absence is a valid degraded-input state that callers handle with
// conservative defaults, never an error.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}
	return &m, nil
}

// Resolve returns the artifacts for the step with the given label.
// Matching is exact; no fuzzy matching. Returns ErrStepNotFound when no
// step carries the label.
func (m *Manifest) Resolve(label string) (Artifacts, error) {
	for i := range m.Steps {
		if m.Steps[i].Label == label {
			return m.Steps[i].Artifacts, nil
		}
	}
	return Artifacts{}, fmt.Errorf("%w: %q", ErrStepNotFound, label)
}

// Labels returns the step labels in manifest order.
func (m *Manifest) Labels() []string {
	labels := make([]string, len(m.Steps))
	for i := range m.Steps {
		labels[i] = m.Steps[i].Label
	}
	return labels
}

// StructureChanged reports whether two manifests describe different step
// sets. Brief re-authoring is permitted only when this returns true; an
// unchanged structure reuses the existing brief verbatim. Either side may
// be nil (absent manifest).
func StructureChanged(old, new *Manifest) bool {
	if old == nil || new == nil {
		return (old == nil) != (new == nil)
	}
	if len(old.Steps) != len(new.Steps) {
		return true
	}

	oldLabels := make(map[string]bool, len(old.Steps))
	for i := range old.Steps {
		oldLabels[old.Steps[i].Label] = true
	}
	for i := range new.Steps {
		if !oldLabels[new.Steps[i].Label] {
			return true
		}
	}
	return false
}
