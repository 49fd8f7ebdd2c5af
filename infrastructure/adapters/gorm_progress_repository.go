package adapters

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aniketduttaAD/open-education-backend-sub001/application/ports/outbound"
	"github.com/aniketduttaAD/open-education-backend-sub001/domain"
)

type gormProgressRepository struct {
	logger outbound.LoggerPort
	db     *gorm.DB
}

func NewGormProgressRepository(db *gorm.DB, logger outbound.LoggerPort) outbound.ProgressRepositoryPort {
	return &gormProgressRepository{
		logger: logger,
		db:     db,
	}
}

func (r *gormProgressRepository) Create(ctx context.Context, progress *domain.GenerationProgress) error {
	return r.db.WithContext(ctx).Create(progress).Error
}

func (r *gormProgressRepository) Get(ctx context.Context, id uuid.UUID) (*domain.GenerationProgress, error) {
	var progress domain.GenerationProgress
	err := r.db.WithContext(ctx).First(&progress, "id = ?", id).Error
	if err != nil {
		return nil, asNotFound(err, "generation progress", id.String())
	}
	return &progress, nil
}

func (r *gormProgressRepository) GetByCourse(ctx context.Context, courseID uuid.UUID) (*domain.GenerationProgress, error) {
	var progress domain.GenerationProgress
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("started_at DESC").
		First(&progress).Error
	if err != nil {
		return nil, asNotFound(err, "generation progress", courseID.String())
	}
	return &progress, nil
}

func (r *gormProgressRepository) Update(ctx context.Context, progress *domain.GenerationProgress) error {
	return r.db.WithContext(ctx).Save(progress).Error
}
