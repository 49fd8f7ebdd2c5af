package outbound

import (
	"context"

	"github.com/google/uuid"

	"github.com/aniketduttaAD/open-education-backend-sub001/domain"
)

type ProgressRepositoryPort interface {
	Create(ctx context.Context, progress *domain.GenerationProgress) error
	Get(ctx context.Context, id uuid.UUID) (*domain.GenerationProgress, error)
	GetByCourse(ctx context.Context, courseID uuid.UUID) (*domain.GenerationProgress, error)
	Update(ctx context.Context, progress *domain.GenerationProgress) error
}
