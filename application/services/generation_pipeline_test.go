package services

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/aniketduttaAD/open-education-backend-sub001/application/ports/inbound"
	"github.com/aniketduttaAD/open-education-backend-sub001/application/ports/outbound"
	"github.com/aniketduttaAD/open-education-backend-sub001/config"
	"github.com/aniketduttaAD/open-education-backend-sub001/domain"
)

type pipelineFixture struct {
	pipeline   inbound.GenerationPipelinePort
	job        outbound.GenerationJob
	courses    *fakeCourseRepo
	progress   *fakeProgressRepo
	realtime   *fakeRealtime
	speech     *fakeSpeech
	slides     *fakeSlides
	vector     *fakeVector
	collab     *fakeCollaborators
	media      *fakeMedia
	workdir    string
	courseID   uuid.UUID
	progressID uuid.UUID
}

func newPipelineFixture(t *testing.T, speech *fakeSpeech) *pipelineFixture {
	t.Helper()

	courses := newFakeCourseRepo()
	courseID := uuid.New()
	sectionA := &domain.Section{ID: uuid.New(), CourseID: courseID, Index: 0, Title: "Basics"}
	sectionB := &domain.Section{ID: uuid.New(), CourseID: courseID, Index: 1, Title: "Functions"}
	courses.sections = []*domain.Section{sectionA, sectionB}
	courses.subtopics = []*domain.Subtopic{
		{ID: uuid.New(), SectionID: sectionA.ID, Index: 0, Title: "Variables", Status: domain.SubtopicStatusPending},
		{ID: uuid.New(), SectionID: sectionA.ID, Index: 1, Title: "Loops", Status: domain.SubtopicStatusPending},
		{ID: uuid.New(), SectionID: sectionB.ID, Index: 0, Title: "Defining Functions", Status: domain.SubtopicStatusPending},
	}

	progressRepo := newFakeProgressRepo()
	row := &domain.GenerationProgress{
		ID:             uuid.New(),
		CourseID:       courseID,
		Status:         domain.GenerationStatusProcessing,
		TotalSections:  2,
		TotalSubtopics: 3,
		ErrorLog:       datatypes.JSON("[]"),
		SessionID:      uuid.NewString(),
	}
	progressRepo.rows[row.ID] = row

	llm := &fakeLLM{completeFn: func(req outbound.CompletionRequest) (string, error) {
		if strings.Contains(req.System, "narrator") {
			return "[00:00] Hello there.\n[00:05] Still talking.", nil
		}
		return "# Recap\n\n---\n\n# Deep dive", nil
	}}

	realtime := &fakeRealtime{}
	vector := &fakeVector{}
	collab := &fakeCollaborators{}
	media := &fakeMedia{}
	workdirRoot := t.TempDir()

	cfg := &config.PipelineConfig{
		WorkdirRoot:        workdirRoot,
		MinutesPerSubtopic: 8,
		SlideDuration:      5 * time.Second,
		CallsPerSecond:     10000,
	}
	indexer := NewEmbeddingIndexer(nopLogger{}, llm, courses, vector)
	slides := &fakeSlides{perRender: 5}
	pipeline := NewGenerationPipeline(GenerationPipelineDeps{
		Logger:      nopLogger{},
		LLM:         llm,
		Speech:      speech,
		Slides:      slides,
		Composer:    fakeComposer{},
		Media:       media,
		Courses:     courses,
		Progress:    progressRepo,
		Realtime:    realtime,
		Indexer:     indexer,
		Assessments: collab,
		Tutor:       collab,
	}, cfg, "voice-1", 3)

	return &pipelineFixture{
		pipeline: pipeline,
		job: outbound.GenerationJob{
			CourseID:   courseID,
			RoadmapID:  uuid.New(),
			ProgressID: row.ID,
			SessionID:  row.SessionID,
		},
		courses:    courses,
		progress:   progressRepo,
		realtime:   realtime,
		speech:     speech,
		slides:     slides,
		vector:     vector,
		collab:     collab,
		media:      media,
		workdir:    filepath.Join(workdirRoot, courseID.String()),
		courseID:   courseID,
		progressID: row.ID,
	}
}

func TestGenerationPipeline_SuccessfulRun(t *testing.T) {
	fx := newPipelineFixture(t, &fakeSpeech{})

	if err := fx.pipeline.Run(context.Background(), fx.job, false); err != nil {
		t.Fatal("run failed:", err)
	}

	row := fx.progress.rows[fx.progressID]
	if row.Status != domain.GenerationStatusCompleted || row.ProgressPercentage != 100 {
		t.Errorf("unexpected terminal state: %s / %d", row.Status, row.ProgressPercentage)
	}

	for _, subtopic := range fx.courses.subtopics {
		if subtopic.Status != domain.SubtopicStatusCompleted {
			t.Errorf("subtopic %q ended at status %s", subtopic.Title, subtopic.Status)
		}
		if subtopic.VideoURL == "" {
			t.Errorf("subtopic %q has no video url", subtopic.Title)
		}
	}

	last := -1
	for _, event := range fx.realtime.progressEvents() {
		if event.Percentage < last {
			t.Errorf("percentage regressed: %d after %d", event.Percentage, last)
		}
		last = event.Percentage
	}
	if last != 100 {
		t.Errorf("expected final percentage 100, got %d", last)
	}

	// 3 subtopic + 2 section + 1 course embeddings
	if len(fx.vector.records) != 6 {
		t.Errorf("expected 6 embedding records, got %d", len(fx.vector.records))
	}
	if len(fx.collab.assessments) != 1 || len(fx.collab.tutors) != 1 {
		t.Error("collaborator notifications missing")
	}
	if len(fx.media.keys) != 3 {
		t.Errorf("expected 3 published videos, got %d", len(fx.media.keys))
	}
	for _, key := range fx.media.keys {
		if !strings.HasPrefix(key, "course/"+fx.courseID.String()+"/section/") {
			t.Errorf("unexpected object key %q", key)
		}
	}

	if _, err := os.Stat(fx.workdir); !os.IsNotExist(err) {
		t.Error("workdir not removed after success")
	}
}

func TestGenerationPipeline_AudioStageFailure(t *testing.T) {
	fx := newPipelineFixture(t, &fakeSpeech{err: errors.New("tts unreachable")})

	err := fx.pipeline.Run(context.Background(), fx.job, false)
	if err == nil {
		t.Fatal("expected run to fail")
	}
	var permanent *domain.PermanentPipelineFailure
	if errors.As(err, &permanent) {
		t.Error("non-final attempt must not be marked permanent")
	}

	for _, subtopic := range fx.courses.subtopics {
		switch subtopic.Status {
		case domain.SubtopicStatusPending, domain.SubtopicStatusMarkdownGenerated, domain.SubtopicStatusTranscriptGenerated:
		default:
			t.Errorf("subtopic %q advanced past transcript: %s", subtopic.Title, subtopic.Status)
		}
	}

	row := fx.progress.rows[fx.progressID]
	if row.Status != domain.GenerationStatusFailed || row.ProgressPercentage != domain.FailedProgressPercentage {
		t.Errorf("unexpected terminal state: %s / %d", row.Status, row.ProgressPercentage)
	}

	var entries []domain.ErrorLogEntry
	if err := json.Unmarshal(row.ErrorLog, &entries); err != nil {
		t.Fatal("error log unreadable:", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly 1 error log entry, got %d", len(entries))
	}
	if entries[0].Step != "content_generation" {
		t.Errorf("expected step content_generation, got %q", entries[0].Step)
	}

	events := fx.realtime.progressEvents()
	final := events[len(events)-1]
	if final.Kind != domain.ProgressEventFailed || final.Percentage != -1 || final.Permanent {
		t.Errorf("unexpected failed event: %+v", final)
	}

	if _, err := os.Stat(fx.workdir); !os.IsNotExist(err) {
		t.Error("workdir not removed after failure")
	}
}

func TestGenerationPipeline_EmptySlideRenderFails(t *testing.T) {
	fx := newPipelineFixture(t, &fakeSpeech{})
	fx.slides.perRender = 0

	err := fx.pipeline.Run(context.Background(), fx.job, false)
	if err == nil {
		t.Fatal("expected run to fail")
	}
	var toolErr *domain.ExternalToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("expected ExternalToolError, got %v", err)
	}
	if toolErr.Tool != "slide renderer" {
		t.Errorf("unexpected tool: %q", toolErr.Tool)
	}

	for _, subtopic := range fx.courses.subtopics {
		if subtopic.Status == domain.SubtopicStatusCompleted {
			t.Errorf("subtopic %q completed despite empty render", subtopic.Title)
		}
		if subtopic.Status != domain.SubtopicStatusAudioGenerated {
			t.Errorf("subtopic %q ended at status %s, want audio_generated", subtopic.Title, subtopic.Status)
		}
	}

	row := fx.progress.rows[fx.progressID]
	if row.Status != domain.GenerationStatusFailed || row.ProgressPercentage != domain.FailedProgressPercentage {
		t.Errorf("unexpected terminal state: %s / %d", row.Status, row.ProgressPercentage)
	}

	events := fx.realtime.progressEvents()
	final := events[len(events)-1]
	if final.Kind != domain.ProgressEventFailed || final.Percentage != -1 {
		t.Errorf("unexpected failed event: %+v", final)
	}
}

func TestGenerationPipeline_LastAttemptIsPermanent(t *testing.T) {
	fx := newPipelineFixture(t, &fakeSpeech{err: errors.New("tts unreachable")})

	err := fx.pipeline.Run(context.Background(), fx.job, true)
	var permanent *domain.PermanentPipelineFailure
	if !errors.As(err, &permanent) {
		t.Fatalf("expected PermanentPipelineFailure, got %v", err)
	}
	if permanent.Attempts != 3 {
		t.Errorf("expected attempts 3, got %d", permanent.Attempts)
	}

	events := fx.realtime.progressEvents()
	final := events[len(events)-1]
	if !final.Permanent {
		t.Error("final event not marked permanent")
	}
}

func TestGenerationPipeline_RetryResetsSubtopics(t *testing.T) {
	fx := newPipelineFixture(t, &fakeSpeech{})
	for _, subtopic := range fx.courses.subtopics {
		subtopic.Status = domain.SubtopicStatusTranscriptGenerated
		subtopic.MarkdownPath = "/stale/path.md"
	}

	if err := fx.pipeline.Run(context.Background(), fx.job, false); err != nil {
		t.Fatal("run failed:", err)
	}
	for _, subtopic := range fx.courses.subtopics {
		if strings.HasPrefix(subtopic.MarkdownPath, "/stale/") {
			t.Errorf("subtopic %q kept a stale artifact path", subtopic.Title)
		}
	}
}
