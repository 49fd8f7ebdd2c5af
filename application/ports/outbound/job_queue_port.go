package outbound

import (
	"context"

	"github.com/google/uuid"

	"github.com/aniketduttaAD/open-education-backend-sub001/domain"
)

// GenerationJob is the payload of one content-generation job. It carries
// everything the worker needs so a retried attempt never depends on the
// originating request.
type GenerationJob struct {
	CourseID    uuid.UUID          `json:"course_id"`
	RoadmapID   uuid.UUID          `json:"roadmap_id"`
	ProgressID  uuid.UUID          `json:"progress_id"`
	RoadmapData domain.RoadmapData `json:"roadmap_data"`
	SessionID   string             `json:"session_id"`
}

// JobQueuePort enqueues exactly one durable generation job with bounded
// retry (3 attempts, exponential backoff).
type JobQueuePort interface {
	EnqueueGeneration(ctx context.Context, job GenerationJob) error
}
