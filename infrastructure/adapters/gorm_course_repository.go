package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aniketduttaAD/open-education-backend-sub001/application/ports/outbound"
	"github.com/aniketduttaAD/open-education-backend-sub001/domain"
)

type gormCourseRepository struct {
	logger outbound.LoggerPort
	db     *gorm.DB
}

func NewGormCourseRepository(db *gorm.DB, logger outbound.LoggerPort) outbound.CourseRepositoryPort {
	return &gormCourseRepository{
		logger: logger,
		db:     db,
	}
}

func (r *gormCourseRepository) CreateRoadmap(ctx context.Context, roadmap *domain.Roadmap) error {
	return r.db.WithContext(ctx).Create(roadmap).Error
}

func (r *gormCourseRepository) TransitionRoadmap(ctx context.Context, roadmapID uuid.UUID, from, to domain.RoadmapStatus) error {
	updates := map[string]interface{}{
		"status":     to,
		"updated_at": time.Now().UTC(),
	}
	if to == domain.RoadmapStatusFinalized {
		now := time.Now().UTC()
		updates["finalized_at"] = &now
	}
	result := r.db.WithContext(ctx).Model(&domain.Roadmap{}).
		Where("id = ? AND status = ?", roadmapID, from).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("roadmap %s is not in status %s", roadmapID, from)
	}
	return nil
}

func (r *gormCourseRepository) CreateSections(ctx context.Context, sections []*domain.Section) error {
	if len(sections) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(sections).Error
}

func (r *gormCourseRepository) CreateSubtopics(ctx context.Context, subtopics []*domain.Subtopic) error {
	if len(subtopics) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(subtopics).Error
}

func (r *gormCourseRepository) SectionsByCourse(ctx context.Context, courseID uuid.UUID) ([]*domain.Section, error) {
	var sections []*domain.Section
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("idx ASC").
		Find(&sections).Error
	if err != nil {
		return nil, err
	}
	return sections, nil
}

func (r *gormCourseRepository) SubtopicsBySection(ctx context.Context, sectionID uuid.UUID) ([]*domain.Subtopic, error) {
	var subtopics []*domain.Subtopic
	err := r.db.WithContext(ctx).
		Where("section_id = ?", sectionID).
		Order("idx ASC").
		Find(&subtopics).Error
	if err != nil {
		return nil, err
	}
	return subtopics, nil
}

func (r *gormCourseRepository) UpdateSubtopic(ctx context.Context, subtopicID uuid.UUID,
	status domain.SubtopicStatus, artifact domain.SubtopicArtifact) error {
	updates := map[string]interface{}{"status": status}
	if artifact.MarkdownPath != "" {
		updates["markdown_path"] = artifact.MarkdownPath
	}
	if artifact.TranscriptPath != "" {
		updates["transcript_path"] = artifact.TranscriptPath
	}
	if artifact.AudioPath != "" {
		updates["audio_path"] = artifact.AudioPath
	}
	if artifact.VideoURL != "" {
		updates["video_url"] = artifact.VideoURL
	}

	result := r.db.WithContext(ctx).Model(&domain.Subtopic{}).
		Where("id = ?", subtopicID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return &domain.NotFoundError{Resource: "subtopic", ID: subtopicID.String()}
	}
	return nil
}

func (r *gormCourseRepository) ResetSubtopics(ctx context.Context, courseID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&domain.Subtopic{}).
		Where("section_id IN (?)",
			r.db.Model(&domain.Section{}).Select("id").Where("course_id = ?", courseID)).
		Updates(map[string]interface{}{
			"status":          domain.SubtopicStatusPending,
			"markdown_path":   "",
			"transcript_path": "",
			"audio_path":      "",
			"video_url":       "",
		}).Error
}

// asNotFound maps gorm's sentinel onto the domain taxonomy.
func asNotFound(err error, resource, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &domain.NotFoundError{Resource: resource, ID: id}
	}
	return err
}
