package outbound

import (
	"context"

	"github.com/google/uuid"

	"github.com/aniketduttaAD/open-education-backend-sub001/domain"
)

// CourseRepositoryPort is the durable persistence surface for the course
// hierarchy. Listing is ordered by index.
type CourseRepositoryPort interface {
	CreateRoadmap(ctx context.Context, roadmap *domain.Roadmap) error
	// TransitionRoadmap moves a roadmap from one status to the next and
	// fails if the row is not currently in the expected status.
	TransitionRoadmap(ctx context.Context, roadmapID uuid.UUID, from, to domain.RoadmapStatus) error
	CreateSections(ctx context.Context, sections []*domain.Section) error
	CreateSubtopics(ctx context.Context, subtopics []*domain.Subtopic) error
	SectionsByCourse(ctx context.Context, courseID uuid.UUID) ([]*domain.Section, error)
	SubtopicsBySection(ctx context.Context, sectionID uuid.UUID) ([]*domain.Subtopic, error)
	UpdateSubtopic(ctx context.Context, subtopicID uuid.UUID, status domain.SubtopicStatus, artifact domain.SubtopicArtifact) error
	// ResetSubtopics returns every subtopic of a course to pending with its
	// artifact paths cleared. Used when a retried job restarts from the
	// first stage.
	ResetSubtopics(ctx context.Context, courseID uuid.UUID) error
}
