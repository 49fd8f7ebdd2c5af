package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/aniketduttaAD/open-education-backend-sub001/application/ports/inbound"
	"github.com/aniketduttaAD/open-education-backend-sub001/application/ports/outbound"
	"github.com/aniketduttaAD/open-education-backend-sub001/config"
	"github.com/aniketduttaAD/open-education-backend-sub001/domain"
)

// Stage keys reported in current_step and realtime events.
const (
	stepMarkdown   = "markdown_generation"
	stepTranscript = "transcript_generation"
	stepAudio      = "audio_generation"
	stepSlides     = "slide_rendering"
	stepVideo      = "video_generation"
	stepPublish    = "publishing"
	stepPostProc   = "post_processing"
)

// Percentage bands per stage. A stage interpolates linearly within its band
// as units complete.
var stageBands = map[string][2]int{
	stepMarkdown:   {5, 25},
	stepTranscript: {25, 45},
	stepAudio:      {45, 65},
	stepSlides:     {65, 75},
	stepVideo:      {75, 85},
	stepPublish:    {85, 95},
	stepPostProc:   {95, 100},
}

// GenerationPipelineDeps bundles every collaborator one pipeline run needs.
type GenerationPipelineDeps struct {
	Logger      outbound.LoggerPort
	LLM         outbound.LLMPort
	Speech      outbound.SpeechSynthesizerPort
	Slides      outbound.SlideRendererPort
	Composer    outbound.MediaComposerPort
	Media       outbound.MediaStorePort
	Courses     outbound.CourseRepositoryPort
	Progress    outbound.ProgressRepositoryPort
	Realtime    outbound.RealtimePublisherPort
	Indexer     inbound.EmbeddingIndexerPort
	Assessments outbound.AssessmentGeneratorPort
	Tutor       outbound.TutorInitializerPort
}

type generationPipeline struct {
	deps    GenerationPipelineDeps
	cfg     *config.PipelineConfig
	voice   string
	retries int
	limiter *rate.Limiter
}

// NewGenerationPipeline wires a worker-side pipeline. maxAttempts is the
// queue's total attempt budget and only feeds the permanent-failure error.
// One token-bucket limiter gates every LLM and TTS call the run makes.
func NewGenerationPipeline(deps GenerationPipelineDeps, cfg *config.PipelineConfig,
	voice string, maxAttempts int) inbound.GenerationPipelinePort {
	return &generationPipeline{
		deps:    deps,
		cfg:     cfg,
		voice:   voice,
		retries: maxAttempts,
		limiter: rate.NewLimiter(rate.Limit(cfg.CallsPerSecond), 1),
	}
}

// pipelineUnit is one subtopic addressed by its position in the course.
type pipelineUnit struct {
	section  *domain.Section
	subtopic *domain.Subtopic
	global   int
}

// Run executes stages A through G in order. Any stage error aborts the
// whole job: the failure is recorded with a terminal -1 event, the working
// directory is removed, and the error is returned so the queue's retry
// policy applies. There is no per-stage checkpoint; a retried run restarts
// from the first stage against reset subtopic rows.
func (p *generationPipeline) Run(ctx context.Context, job outbound.GenerationJob, lastAttempt bool) error {
	row, err := p.deps.Progress.Get(ctx, job.ProgressID)
	if err != nil {
		return &domain.TransientIOError{Op: "load generation progress", Err: err}
	}
	tracker := NewProgressTracker(p.deps.Logger, p.deps.Progress, p.deps.Realtime, row, p.cfg.MinutesPerSubtopic)
	if err := tracker.Begin(ctx); err != nil {
		return err
	}

	workdir := filepath.Join(p.cfg.WorkdirRoot, job.CourseID.String())
	defer func() {
		if err := os.RemoveAll(workdir); err != nil {
			p.deps.Logger.WarnWithFields("workdir cleanup failed", map[string]interface{}{
				"workdir": workdir,
				"error":   err.Error(),
			})
		}
	}()

	run := func() error {
		if err := p.deps.Courses.ResetSubtopics(ctx, job.CourseID); err != nil {
			return &domain.TransientIOError{Op: "reset subtopics", Err: err}
		}
		if err := p.prepareWorkdir(workdir); err != nil {
			return err
		}
		units, err := p.loadUnits(ctx, job.CourseID)
		if err != nil {
			return err
		}
		if len(units) == 0 {
			return &domain.ValidationError{Reason: "course has no subtopics"}
		}

		stages := []struct {
			step string
			fn   func(context.Context, *ProgressTracker, string, []pipelineUnit) error
		}{
			{stepMarkdown, p.stageMarkdown},
			{stepTranscript, p.stageTranscript},
			{stepAudio, p.stageAudio},
			{stepSlides, p.stageSlides},
			{stepVideo, p.stageVideo},
			{stepPublish, p.stagePublish},
		}
		for _, stage := range stages {
			if err := stage.fn(ctx, tracker, workdir, units); err != nil {
				return fmt.Errorf("%s: %w", stage.step, err)
			}
		}
		if err := p.stagePostProcess(ctx, tracker, job); err != nil {
			return fmt.Errorf("%s: %w", stepPostProc, err)
		}
		return nil
	}

	if err := run(); err != nil {
		if lastAttempt {
			err = &domain.PermanentPipelineFailure{
				CourseID: job.CourseID.String(),
				Attempts: p.retries,
				Err:      err,
			}
		}
		p.deps.Logger.ErrorWithFields(err, "content generation failed", map[string]interface{}{
			"course_id": job.CourseID.String(),
			"permanent": lastAttempt,
		})
		tracker.Fail(ctx, tracker.Row().CurrentStep, err, lastAttempt)
		return err
	}

	if err := tracker.Complete(ctx); err != nil {
		return err
	}
	p.deps.Logger.InfoWithFields("content generation completed", map[string]interface{}{
		"course_id": job.CourseID.String(),
	})
	return nil
}

func (p *generationPipeline) prepareWorkdir(workdir string) error {
	for _, sub := range []string{"markdown", "transcripts", "audio", "slides", "video"} {
		if err := os.MkdirAll(filepath.Join(workdir, sub), 0o755); err != nil {
			return &domain.TransientIOError{Op: "create working directory", Err: err}
		}
	}
	return nil
}

// loadUnits flattens the course hierarchy in section/index order.
func (p *generationPipeline) loadUnits(ctx context.Context, courseID uuid.UUID) ([]pipelineUnit, error) {
	sections, err := p.deps.Courses.SectionsByCourse(ctx, courseID)
	if err != nil {
		return nil, &domain.TransientIOError{Op: "load sections", Err: err}
	}
	units := make([]pipelineUnit, 0)
	for _, section := range sections {
		subtopics, err := p.deps.Courses.SubtopicsBySection(ctx, section.ID)
		if err != nil {
			return nil, &domain.TransientIOError{Op: "load subtopics", Err: err}
		}
		for _, subtopic := range subtopics {
			units = append(units, pipelineUnit{section: section, subtopic: subtopic, global: len(units)})
		}
	}
	return units, nil
}

// bandPercent interpolates a stage's band by completed units.
func bandPercent(step string, done, total int) int {
	band := stageBands[step]
	if total <= 0 {
		return band[1]
	}
	return band[0] + (band[1]-band[0])*done/total
}

func (p *generationPipeline) reportUnit(ctx context.Context, tracker *ProgressTracker,
	step, task string, unit pipelineUnit, done, total int) error {
	return tracker.Update(ctx, UnitUpdate{
		Percentage:    bandPercent(step, done, total),
		Step:          step,
		Task:          task,
		SectionIndex:  unit.section.Index,
		SectionTitle:  unit.section.Title,
		SubtopicIndex: unit.subtopic.Index,
		SubtopicTitle: unit.subtopic.Title,
	})
}

// unitFileBase names a subtopic's artifacts inside the working directory.
func unitFileBase(unit pipelineUnit) string {
	return fmt.Sprintf("s%02d_u%02d", unit.section.Index, unit.subtopic.Index)
}
