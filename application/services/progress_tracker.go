package services

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"github.com/aniketduttaAD/open-education-backend-sub001/application/ports/outbound"
	"github.com/aniketduttaAD/open-education-backend-sub001/domain"
)

// errorLogStep is the job-level step recorded in the durable error log for
// any pipeline failure; the stage detail lives in the error text.
const errorLogStep = "content_generation"

// UnitUpdate describes one finished unit of pipeline work.
type UnitUpdate struct {
	Percentage    int
	Step          string
	Task          string
	SectionIndex  int
	SectionTitle  string
	SubtopicIndex int
	SubtopicTitle string
}

// ProgressTracker owns the durable GenerationProgress row for one job run
// and mirrors every change to the realtime channel. Percentage is clamped
// monotonically non-decreasing for the run; realtime delivery is best
// effort and never fails the pipeline.
type ProgressTracker struct {
	logger             outbound.LoggerPort
	repo               outbound.ProgressRepositoryPort
	realtime           outbound.RealtimePublisherPort
	row                *domain.GenerationProgress
	minutesPerSubtopic int

	attemptStart time.Time
	lastPct      int
}

func NewProgressTracker(logger outbound.LoggerPort, repo outbound.ProgressRepositoryPort,
	realtime outbound.RealtimePublisherPort, row *domain.GenerationProgress,
	minutesPerSubtopic int) *ProgressTracker {
	return &ProgressTracker{
		logger:             logger,
		repo:               repo,
		realtime:           realtime,
		row:                row,
		minutesPerSubtopic: minutesPerSubtopic,
	}
}

// Begin resets the row for a (possibly retried) run. The error log survives
// across attempts; percentage and status do not.
func (t *ProgressTracker) Begin(ctx context.Context) error {
	t.attemptStart = time.Now().UTC()
	t.lastPct = 0
	t.row.Status = domain.GenerationStatusProcessing
	t.row.ProgressPercentage = 0
	t.row.CurrentStep = "starting"
	t.row.CurrentSectionIndex = 0
	t.row.CurrentSubtopicIndex = 0
	t.row.CompletedAt = nil
	if err := t.repo.Update(ctx, t.row); err != nil {
		return &domain.TransientIOError{Op: "reset generation progress", Err: err}
	}
	return nil
}

func (t *ProgressTracker) Update(ctx context.Context, update UnitUpdate) error {
	pct := update.Percentage
	if pct < t.lastPct {
		pct = t.lastPct
	}
	if pct > 100 {
		pct = 100
	}
	t.lastPct = pct

	remaining := t.estimateRemaining(pct)

	t.row.Status = domain.GenerationStatusProcessing
	t.row.ProgressPercentage = pct
	t.row.CurrentStep = update.Step
	t.row.CurrentSectionIndex = update.SectionIndex
	t.row.CurrentSubtopicIndex = update.SubtopicIndex
	t.row.EstimatedTimeRemaining = int((remaining + time.Minute - 1) / time.Minute)
	if err := t.repo.Update(ctx, t.row); err != nil {
		return &domain.TransientIOError{Op: "update generation progress", Err: err}
	}

	t.publish(ctx, domain.ProgressEvent{
		Kind:                 domain.ProgressEventProgress,
		CourseID:             t.row.CourseID.String(),
		Percentage:           pct,
		Step:                 update.Step,
		Task:                 update.Task,
		SectionTitle:         update.SectionTitle,
		SubtopicTitle:        update.SubtopicTitle,
		SectionIndex:         update.SectionIndex,
		SubtopicIndex:        update.SubtopicIndex,
		EstimatedSecondsLeft: int(remaining / time.Second),
	})
	return nil
}

func (t *ProgressTracker) Complete(ctx context.Context) error {
	now := time.Now().UTC()
	t.lastPct = 100
	t.row.Status = domain.GenerationStatusCompleted
	t.row.ProgressPercentage = 100
	t.row.CurrentStep = "completed"
	t.row.EstimatedTimeRemaining = 0
	t.row.CompletedAt = &now
	if err := t.repo.Update(ctx, t.row); err != nil {
		return &domain.TransientIOError{Op: "complete generation progress", Err: err}
	}

	t.publish(ctx, domain.ProgressEvent{
		Kind:       domain.ProgressEventCompleted,
		CourseID:   t.row.CourseID.String(),
		Percentage: 100,
		Step:       "completed",
		Task:       "Course generation complete",
	})
	return nil
}

// Fail records the failure durably and emits the terminal -1 event. It never
// returns an error: the original failure must win, so persistence problems
// here are only logged.
func (t *ProgressTracker) Fail(ctx context.Context, step string, failure error, permanent bool) {
	now := time.Now().UTC()

	entries := make([]domain.ErrorLogEntry, 0)
	if len(t.row.ErrorLog) > 0 {
		if err := json.Unmarshal(t.row.ErrorLog, &entries); err != nil {
			t.logger.Warn("generation progress error log is unreadable, starting fresh")
			entries = entries[:0]
		}
	}
	entries = append(entries, domain.ErrorLogEntry{
		Step:      errorLogStep,
		Error:     failure.Error(),
		Timestamp: now,
	})
	if raw, err := json.Marshal(entries); err == nil {
		t.row.ErrorLog = datatypes.JSON(raw)
	}

	t.row.Status = domain.GenerationStatusFailed
	t.row.ProgressPercentage = domain.FailedProgressPercentage
	t.row.CurrentStep = step
	t.row.EstimatedTimeRemaining = 0
	t.row.CompletedAt = &now
	if err := t.repo.Update(ctx, t.row); err != nil {
		t.logger.ErrorWithFields(err, "failed to persist generation failure", map[string]interface{}{
			"progress_id": t.row.ID.String(),
		})
	}

	t.publish(ctx, domain.ProgressEvent{
		Kind:       domain.ProgressEventFailed,
		CourseID:   t.row.CourseID.String(),
		Percentage: domain.FailedProgressPercentage,
		Step:       step,
		Task:       "Course generation failed",
		Error:      failure.Error(),
		Permanent:  permanent,
	})
}

func (t *ProgressTracker) Row() *domain.GenerationProgress { return t.row }

// estimateRemaining extrapolates linearly from elapsed wall clock and the
// fraction of the job done.
func (t *ProgressTracker) estimateRemaining(pct int) time.Duration {
	if pct <= 0 {
		return time.Duration(t.row.TotalSubtopics*t.minutesPerSubtopic) * time.Minute
	}
	if pct >= 100 {
		return 0
	}
	elapsed := time.Since(t.attemptStart)
	return elapsed * time.Duration(100-pct) / time.Duration(pct)
}

func (t *ProgressTracker) publish(ctx context.Context, event domain.ProgressEvent) {
	channels := []string{domain.CourseChannel(t.row.CourseID.String())}
	if t.row.SessionID != "" {
		channels = append(channels, domain.SessionChannel(t.row.SessionID))
	}
	for _, channel := range channels {
		if err := t.realtime.Publish(ctx, channel, event.Name(), event); err != nil {
			t.logger.WarnWithFields("progress publish failed", map[string]interface{}{
				"channel": channel,
				"error":   err.Error(),
			})
		}
	}
}
