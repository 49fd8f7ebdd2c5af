package inbound

import (
	"context"

	"github.com/google/uuid"

	"github.com/aniketduttaAD/open-education-backend-sub001/domain"
)

type GenerateDraftParams struct {
	TutorID     string
	Prompt      string
	Constraints map[string]string
}

type EditDraftParams struct {
	TutorID string
	DraftID string
	Changes []domain.DraftChange
}

type FinalizeDraftParams struct {
	TutorID string
	DraftID string
}

// FinalizeResult identifies the durable hierarchy and the job the
// transition produced. SessionID binds realtime consumers before the course
// page exists.
type FinalizeResult struct {
	CourseID   uuid.UUID `json:"course_id"`
	RoadmapID  uuid.UUID `json:"roadmap_id"`
	ProgressID uuid.UUID `json:"progress_id"`
	SessionID  string    `json:"session_id"`
}

// DraftEnginePort is the LLM-assisted plan authoring workflow.
type DraftEnginePort interface {
	Generate(ctx context.Context, params GenerateDraftParams) (*domain.DraftView, error)
	Edit(ctx context.Context, params EditDraftParams) (*domain.DraftView, error)
	Finalize(ctx context.Context, params FinalizeDraftParams) (*FinalizeResult, error)
}
