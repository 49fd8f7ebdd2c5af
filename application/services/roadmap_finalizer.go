package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/aniketduttaAD/open-education-backend-sub001/application/ports/inbound"
	"github.com/aniketduttaAD/open-education-backend-sub001/application/ports/outbound"
	"github.com/aniketduttaAD/open-education-backend-sub001/domain"
)

// RoadmapFinalizer is the one-way transition from an ephemeral draft to the
// durable course hierarchy plus exactly one enqueued generation job.
type RoadmapFinalizer struct {
	logger             outbound.LoggerPort
	courses            outbound.CourseRepositoryPort
	progress           outbound.ProgressRepositoryPort
	queue              outbound.JobQueuePort
	minutesPerSubtopic int
}

func NewRoadmapFinalizer(logger outbound.LoggerPort, courses outbound.CourseRepositoryPort,
	progress outbound.ProgressRepositoryPort, queue outbound.JobQueuePort,
	minutesPerSubtopic int) *RoadmapFinalizer {
	return &RoadmapFinalizer{
		logger:             logger,
		courses:            courses,
		progress:           progress,
		queue:              queue,
		minutesPerSubtopic: minutesPerSubtopic,
	}
}

func (f *RoadmapFinalizer) Finalize(ctx context.Context, draft *domain.Draft) (*inbound.FinalizeResult, error) {
	snapshot, err := json.Marshal(draft.Data)
	if err != nil {
		return nil, &domain.ValidationError{Reason: "draft data failed to serialize: " + err.Error()}
	}

	now := time.Now().UTC()
	courseID := uuid.New()
	roadmap := &domain.Roadmap{
		ID:          uuid.New(),
		CourseID:    courseID,
		TutorID:     draft.TutorID,
		RoadmapData: datatypes.JSON(snapshot),
		Status:      domain.RoadmapStatusFinalizing,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := f.courses.CreateRoadmap(ctx, roadmap); err != nil {
		return nil, &domain.TransientIOError{Op: "create roadmap", Err: err}
	}

	sections := make([]*domain.Section, 0, len(draft.Data))
	subtopics := make([]*domain.Subtopic, 0, draft.Data.TotalSubtopics())
	for sectionIdx, entry := range draft.Data {
		section := &domain.Section{
			ID:       uuid.New(),
			CourseID: courseID,
			Index:    sectionIdx,
			Title:    entry.Topic,
		}
		sections = append(sections, section)
		for subtopicIdx, title := range entry.Subtopics {
			subtopics = append(subtopics, &domain.Subtopic{
				ID:        uuid.New(),
				SectionID: section.ID,
				Index:     subtopicIdx,
				Title:     title,
				Status:    domain.SubtopicStatusPending,
			})
		}
	}
	if err := f.courses.CreateSections(ctx, sections); err != nil {
		return nil, &domain.TransientIOError{Op: "create sections", Err: err}
	}
	if err := f.courses.CreateSubtopics(ctx, subtopics); err != nil {
		return nil, &domain.TransientIOError{Op: "create subtopics", Err: err}
	}

	sessionID := uuid.NewString()
	progress := &domain.GenerationProgress{
		ID:                     uuid.New(),
		CourseID:               courseID,
		RoadmapID:              roadmap.ID,
		Status:                 domain.GenerationStatusProcessing,
		CurrentStep:            "queued",
		ProgressPercentage:     0,
		TotalSections:          len(sections),
		TotalSubtopics:         len(subtopics),
		EstimatedTimeRemaining: len(subtopics) * f.minutesPerSubtopic,
		ErrorLog:               datatypes.JSON("[]"),
		SessionID:              sessionID,
		StartedAt:              now,
	}
	if err := f.progress.Create(ctx, progress); err != nil {
		return nil, &domain.TransientIOError{Op: "create generation progress", Err: err}
	}

	// The roadmap flips to finalized only after a successful enqueue. A
	// failed enqueue leaves it at finalizing and is not auto-retried.
	if err := f.queue.EnqueueGeneration(ctx, outbound.GenerationJob{
		CourseID:    courseID,
		RoadmapID:   roadmap.ID,
		ProgressID:  progress.ID,
		RoadmapData: draft.Data,
		SessionID:   sessionID,
	}); err != nil {
		f.logger.ErrorWithFields(err, "generation job enqueue failed, roadmap left finalizing", map[string]interface{}{
			"roadmap_id": roadmap.ID.String(),
			"course_id":  courseID.String(),
		})
		return nil, &domain.TransientIOError{Op: "enqueue generation job", Err: err}
	}

	if err := f.courses.TransitionRoadmap(ctx, roadmap.ID, domain.RoadmapStatusFinalizing, domain.RoadmapStatusFinalized); err != nil {
		return nil, &domain.TransientIOError{Op: "finalize roadmap", Err: err}
	}

	f.logger.InfoWithFields("roadmap finalized", map[string]interface{}{
		"roadmap_id": roadmap.ID.String(),
		"course_id":  courseID.String(),
		"sections":   len(sections),
		"subtopics":  len(subtopics),
	})

	return &inbound.FinalizeResult{
		CourseID:   courseID,
		RoadmapID:  roadmap.ID,
		ProgressID: progress.ID,
		SessionID:  sessionID,
	}, nil
}
