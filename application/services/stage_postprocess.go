package services

import (
	"context"

	"github.com/aniketduttaAD/open-education-backend-sub001/application/ports/outbound"
	"github.com/aniketduttaAD/open-education-backend-sub001/domain"
)

// stagePostProcess runs the course-level follow-ups in order: embedding
// indexing, assessment generation, tutor initialization. Each is a blocking
// step; any failure aborts the job like a per-subtopic stage would.
func (p *generationPipeline) stagePostProcess(ctx context.Context, tracker *ProgressTracker,
	job outbound.GenerationJob) error {
	steps := []struct {
		task string
		fn   func(context.Context) error
	}{
		{"Indexing course content", func(ctx context.Context) error {
			return p.deps.Indexer.IndexCourse(ctx, job.CourseID)
		}},
		{"Generating assessments", func(ctx context.Context) error {
			if err := p.deps.Assessments.GenerateAssessments(ctx, job.CourseID); err != nil {
				return &domain.TransientIOError{Op: "generate assessments", Err: err}
			}
			return nil
		}},
		{"Initializing tutor", func(ctx context.Context) error {
			if err := p.deps.Tutor.InitializeTutor(ctx, job.CourseID); err != nil {
				return &domain.TransientIOError{Op: "initialize tutor", Err: err}
			}
			return nil
		}},
	}

	for i, step := range steps {
		if err := tracker.Update(ctx, UnitUpdate{
			Percentage: bandPercent(stepPostProc, i, len(steps)),
			Step:       stepPostProc,
			Task:       step.task,
		}); err != nil {
			return err
		}
		if err := step.fn(ctx); err != nil {
			return err
		}
	}
	return nil
}
