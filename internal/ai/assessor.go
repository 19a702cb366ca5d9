package ai

import (
	"context"

	"github.com/hirecheck/hirecheck/internal/records"
)

// NarrativeAssessment is the auxiliary AI opinion on a verification run. It
// is supplementary evidence only and never overrides the matching engine's
// verdict.
type NarrativeAssessment struct {
	Summary string `json:"summary,omitempty"`
	Status  string `json:"status,omitempty"`
	Details string `json:"details,omitempty"`
	// Raw is the unmodified model output, kept for traceability.
	Raw string `json:"raw,omitempty"`
	// Error is set when the collaborator failed; the run proceeds without
	// the narrative in that case.
	Error string `json:"error,omitempty"`
}

// Assessor produces a narrative comparison of the two documents.
type Assessor interface {
	Assess(ctx context.Context, cv *records.CVDocument, pf *records.PFDocument) (*NarrativeAssessment, error)
}
