package outbound

import (
	"context"

	"github.com/google/uuid"
)

type EmbeddingRecord struct {
	CourseID    uuid.UUID
	ContentID   string
	ContentType string
	Content     string
	Vector      []float32
}

// VectorStorePort persists course-scoped embedding records. Upsert is
// skip-if-exists on (course_id, content_id, content_type): an existing
// entry is never refreshed.
type VectorStorePort interface {
	UpsertSkipExisting(ctx context.Context, records []EmbeddingRecord) error
	ByCourse(ctx context.Context, courseID uuid.UUID) ([]EmbeddingRecord, error)
}
