// Package models defines the claim, brief, and verdict types shared
// between the authoring, analysis, and iteration packages.
package models

import "fmt"

// BriefSchema identifies the brief document format.
const BriefSchema = "attest-brief-v1"

// Brief is the ordered collection of claims for one milestone's
// verification. It is authored once per milestone and read-only across
// iterations; claims are not re-authored mid-loop unless the manifest
// step structure changed.
type Brief struct {
	// Schema is the document format identifier.
	Schema string `json:"schema"`
	// Milestone is the milestone this brief verifies.
	Milestone string `json:"milestone,omitempty"`
	// Claims is the ordered claim list.
	Claims []Claim `json:"claims"`
}

// NewBrief creates a brief for the given milestone.
func NewBrief(milestone string, claims []Claim) *Brief {
	return &Brief{
		Schema:    BriefSchema,
		Milestone: milestone,
		Claims:    claims,
	}
}

// Validate checks the schema tag and every claim's invariants.
func (b *Brief) Validate() error {
	if b.Schema != BriefSchema {
		return fmt.Errorf("unsupported brief schema %q (want %q)", b.Schema, BriefSchema)
	}
	for i := range b.Claims {
		if err := b.Claims[i].Validate(); err != nil {
			return fmt.Errorf("claim %d: %w", i, err)
		}
	}
	return nil
}
