package inbound

import (
	"context"

	"github.com/google/uuid"
)

type SearchParams struct {
	CourseID  uuid.UUID
	Query     []float32
	Threshold float64
	Limit     int
}

type SearchMatch struct {
	ContentID   string  `json:"content_id"`
	ContentType string  `json:"content_type"`
	Content     string  `json:"content"`
	Score       float64 `json:"score"`
}

// EmbeddingIndexerPort builds and searches vector embeddings over generated
// course text. Searching an empty corpus returns an empty slice, never an
// error.
type EmbeddingIndexerPort interface {
	IndexCourse(ctx context.Context, courseID uuid.UUID) error
	Search(ctx context.Context, params SearchParams) ([]SearchMatch, error)
}
