package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/aniketduttaAD/open-education-backend-sub001/application/ports/outbound"
	"github.com/aniketduttaAD/open-education-backend-sub001/domain"
)

type nopLogger struct{}

func (nopLogger) Info(string)                                           {}
func (nopLogger) Error(error, string)                                   {}
func (nopLogger) Debug(string)                                          {}
func (nopLogger) Warn(string)                                           {}
func (nopLogger) InfoWithFields(string, map[string]interface{})         {}
func (nopLogger) ErrorWithFields(error, string, map[string]interface{}) {}
func (nopLogger) DebugWithFields(string, map[string]interface{})        {}
func (nopLogger) WarnWithFields(string, map[string]interface{})         {}

type fakeLLM struct {
	completeFn func(req outbound.CompletionRequest) (string, error)
	embedFn    func(text string) ([]float32, error)
	calls      []outbound.CompletionRequest
}

func (f *fakeLLM) Complete(_ context.Context, req outbound.CompletionRequest) (string, error) {
	f.calls = append(f.calls, req)
	return f.completeFn(req)
}

func (f *fakeLLM) Embed(_ context.Context, text string) ([]float32, error) {
	if f.embedFn != nil {
		return f.embedFn(text)
	}
	return []float32{float32(len(text)), 1, 0}, nil
}

type fakeDraftStore struct {
	drafts map[string]*domain.Draft
	ttls   map[string]time.Duration
	putErr error
}

func newFakeDraftStore() *fakeDraftStore {
	return &fakeDraftStore{
		drafts: make(map[string]*domain.Draft),
		ttls:   make(map[string]time.Duration),
	}
}

func (f *fakeDraftStore) Put(_ context.Context, draft *domain.Draft, ttl time.Duration) error {
	if f.putErr != nil {
		return f.putErr
	}
	copied := *draft
	f.drafts[draft.ID] = &copied
	f.ttls[draft.ID] = ttl
	return nil
}

func (f *fakeDraftStore) Get(_ context.Context, draftID string) (*domain.Draft, error) {
	draft, ok := f.drafts[draftID]
	if !ok {
		return nil, &domain.NotFoundError{Resource: "draft", ID: draftID}
	}
	copied := *draft
	return &copied, nil
}

type fakeCourseRepo struct {
	roadmaps  map[uuid.UUID]*domain.Roadmap
	sections  []*domain.Section
	subtopics []*domain.Subtopic
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{roadmaps: make(map[uuid.UUID]*domain.Roadmap)}
}

func (f *fakeCourseRepo) CreateRoadmap(_ context.Context, roadmap *domain.Roadmap) error {
	f.roadmaps[roadmap.ID] = roadmap
	return nil
}

func (f *fakeCourseRepo) TransitionRoadmap(_ context.Context, roadmapID uuid.UUID, from, to domain.RoadmapStatus) error {
	roadmap, ok := f.roadmaps[roadmapID]
	if !ok {
		return &domain.NotFoundError{Resource: "roadmap", ID: roadmapID.String()}
	}
	if roadmap.Status != from {
		return fmt.Errorf("roadmap %s is not in status %s", roadmapID, from)
	}
	roadmap.Status = to
	return nil
}

func (f *fakeCourseRepo) CreateSections(_ context.Context, sections []*domain.Section) error {
	f.sections = append(f.sections, sections...)
	return nil
}

func (f *fakeCourseRepo) CreateSubtopics(_ context.Context, subtopics []*domain.Subtopic) error {
	f.subtopics = append(f.subtopics, subtopics...)
	return nil
}

func (f *fakeCourseRepo) SectionsByCourse(_ context.Context, courseID uuid.UUID) ([]*domain.Section, error) {
	out := make([]*domain.Section, 0)
	for _, section := range f.sections {
		if section.CourseID == courseID {
			out = append(out, section)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out, nil
}

func (f *fakeCourseRepo) SubtopicsBySection(_ context.Context, sectionID uuid.UUID) ([]*domain.Subtopic, error) {
	out := make([]*domain.Subtopic, 0)
	for _, subtopic := range f.subtopics {
		if subtopic.SectionID == sectionID {
			out = append(out, subtopic)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out, nil
}

func (f *fakeCourseRepo) UpdateSubtopic(_ context.Context, subtopicID uuid.UUID,
	status domain.SubtopicStatus, artifact domain.SubtopicArtifact) error {
	for _, subtopic := range f.subtopics {
		if subtopic.ID != subtopicID {
			continue
		}
		subtopic.Status = status
		if artifact.MarkdownPath != "" {
			subtopic.MarkdownPath = artifact.MarkdownPath
		}
		if artifact.TranscriptPath != "" {
			subtopic.TranscriptPath = artifact.TranscriptPath
		}
		if artifact.AudioPath != "" {
			subtopic.AudioPath = artifact.AudioPath
		}
		if artifact.VideoURL != "" {
			subtopic.VideoURL = artifact.VideoURL
		}
		return nil
	}
	return &domain.NotFoundError{Resource: "subtopic", ID: subtopicID.String()}
}

func (f *fakeCourseRepo) ResetSubtopics(_ context.Context, courseID uuid.UUID) error {
	sectionIDs := make(map[uuid.UUID]bool)
	for _, section := range f.sections {
		if section.CourseID == courseID {
			sectionIDs[section.ID] = true
		}
	}
	for _, subtopic := range f.subtopics {
		if sectionIDs[subtopic.SectionID] {
			subtopic.Status = domain.SubtopicStatusPending
			subtopic.MarkdownPath = ""
			subtopic.TranscriptPath = ""
			subtopic.AudioPath = ""
			subtopic.VideoURL = ""
		}
	}
	return nil
}

type fakeProgressRepo struct {
	rows    map[uuid.UUID]*domain.GenerationProgress
	updates int
}

func newFakeProgressRepo() *fakeProgressRepo {
	return &fakeProgressRepo{rows: make(map[uuid.UUID]*domain.GenerationProgress)}
}

func (f *fakeProgressRepo) Create(_ context.Context, progress *domain.GenerationProgress) error {
	f.rows[progress.ID] = progress
	return nil
}

func (f *fakeProgressRepo) Get(_ context.Context, id uuid.UUID) (*domain.GenerationProgress, error) {
	row, ok := f.rows[id]
	if !ok {
		return nil, &domain.NotFoundError{Resource: "generation progress", ID: id.String()}
	}
	return row, nil
}

func (f *fakeProgressRepo) GetByCourse(_ context.Context, courseID uuid.UUID) (*domain.GenerationProgress, error) {
	for _, row := range f.rows {
		if row.CourseID == courseID {
			return row, nil
		}
	}
	return nil, &domain.NotFoundError{Resource: "generation progress", ID: courseID.String()}
}

func (f *fakeProgressRepo) Update(_ context.Context, progress *domain.GenerationProgress) error {
	f.updates++
	f.rows[progress.ID] = progress
	return nil
}

type fakeQueue struct {
	jobs []outbound.GenerationJob
	err  error
}

func (f *fakeQueue) EnqueueGeneration(_ context.Context, job outbound.GenerationJob) error {
	if f.err != nil {
		return f.err
	}
	f.jobs = append(f.jobs, job)
	return nil
}

type publishedEvent struct {
	channel string
	event   string
	payload any
}

type fakeRealtime struct {
	events []publishedEvent
}

func (f *fakeRealtime) Publish(_ context.Context, channel string, event string, payload any) error {
	f.events = append(f.events, publishedEvent{channel: channel, event: event, payload: payload})
	return nil
}

func (f *fakeRealtime) progressEvents() []domain.ProgressEvent {
	out := make([]domain.ProgressEvent, 0, len(f.events))
	for _, e := range f.events {
		if ev, ok := e.payload.(domain.ProgressEvent); ok {
			out = append(out, ev)
		}
	}
	return out
}

type fakeSpeech struct {
	err   error
	calls int
}

func (f *fakeSpeech) Synthesize(context.Context, string, string) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []byte("audio"), nil
}

// fakeSlides writes real image files so the video stage can list them.
type fakeSlides struct {
	perRender int
}

func (f *fakeSlides) RenderSlides(_ context.Context, _ string, outDir string) ([]string, error) {
	images := make([]string, 0, f.perRender)
	for i := 0; i < f.perRender; i++ {
		path := filepath.Join(outDir, fmt.Sprintf("slide.%03d.png", i+1))
		if err := os.WriteFile(path, []byte("png"), 0o644); err != nil {
			return nil, err
		}
		images = append(images, path)
	}
	return images, nil
}

type fakeComposer struct{}

func (fakeComposer) ComposeAudio(_ context.Context, _ []outbound.AudioClip, outPath string) error {
	return os.WriteFile(outPath, []byte("mixed"), 0o644)
}

func (fakeComposer) ComposeVideo(_ context.Context, _ []string, _ string, _ time.Duration, outPath string) error {
	return os.WriteFile(outPath, []byte("video"), 0o644)
}

type fakeMedia struct {
	keys []string
}

func (f *fakeMedia) Put(_ context.Context, key string, _ []byte, _ string) (string, error) {
	f.keys = append(f.keys, key)
	return "https://cdn.test/" + key, nil
}

type fakeVector struct {
	records []outbound.EmbeddingRecord
}

func (f *fakeVector) UpsertSkipExisting(_ context.Context, records []outbound.EmbeddingRecord) error {
	for _, record := range records {
		if f.find(record.CourseID, record.ContentID, record.ContentType) != nil {
			continue
		}
		f.records = append(f.records, record)
	}
	return nil
}

func (f *fakeVector) ByCourse(_ context.Context, courseID uuid.UUID) ([]outbound.EmbeddingRecord, error) {
	out := make([]outbound.EmbeddingRecord, 0)
	for _, record := range f.records {
		if record.CourseID == courseID {
			out = append(out, record)
		}
	}
	return out, nil
}

func (f *fakeVector) find(courseID uuid.UUID, contentID, contentType string) *outbound.EmbeddingRecord {
	for i := range f.records {
		r := &f.records[i]
		if r.CourseID == courseID && r.ContentID == contentID && r.ContentType == contentType {
			return r
		}
	}
	return nil
}

type fakeCollaborators struct {
	assessments []uuid.UUID
	tutors      []uuid.UUID
}

func (f *fakeCollaborators) GenerateAssessments(_ context.Context, courseID uuid.UUID) error {
	f.assessments = append(f.assessments, courseID)
	return nil
}

func (f *fakeCollaborators) InitializeTutor(_ context.Context, courseID uuid.UUID) error {
	f.tutors = append(f.tutors, courseID)
	return nil
}
