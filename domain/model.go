package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// DraftTTL bounds the lifetime of an unfinalized draft in the ephemeral
// store. Edits reset it.
const DraftTTL = 48 * time.Hour

// Draft is an ephemeral, versioned roadmap proposal, not yet bound to a
// course. One live value per id; edits overwrite in place with version+1.
type Draft struct {
	ID        string      `json:"id"`
	TutorID   string      `json:"tutor_id"`
	UserQuery string      `json:"user_query"`
	Data      RoadmapData `json:"data"`
	Version   int         `json:"version"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// DraftView is the hierarchical rendering of a draft for display and edit
// targeting. Topic and subtopic ids are synthetic but deterministic for a
// given draft id and version, so an id handed to a client stays resolvable
// until the next edit. The flat storage format is unaffected.
type DraftView struct {
	DraftID string      `json:"draft_id"`
	Version int         `json:"version"`
	Topics  []TopicView `json:"topics"`
}

type TopicView struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Subtopics []SubtopicView `json:"subtopics"`
}

type SubtopicView struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// NewDraftView assigns a synthetic uuid to every topic and subtopic,
// derived from the draft id, version and position. Two snapshots of the
// same draft version carry identical ids; an edit bumps the version and
// rotates every id.
func NewDraftView(draft *Draft) *DraftView {
	base := uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("draft:%s:v%d", draft.ID, draft.Version)))
	view := &DraftView{
		DraftID: draft.ID,
		Version: draft.Version,
		Topics:  make([]TopicView, 0, len(draft.Data)),
	}
	for i, entry := range draft.Data {
		topic := TopicView{
			ID:        uuid.NewSHA1(base, []byte(fmt.Sprintf("topic:%d", i))).String(),
			Title:     entry.Topic,
			Subtopics: make([]SubtopicView, 0, len(entry.Subtopics)),
		}
		for j, sub := range entry.Subtopics {
			topic.Subtopics = append(topic.Subtopics, SubtopicView{
				ID:    uuid.NewSHA1(base, []byte(fmt.Sprintf("subtopic:%d:%d", i, j))).String(),
				Title: sub,
			})
		}
		view.Topics = append(view.Topics, topic)
	}
	return view
}

type RoadmapStatus string

const (
	RoadmapStatusDraft      RoadmapStatus = "draft"
	RoadmapStatusFinalizing RoadmapStatus = "finalizing"
	RoadmapStatusFinalized  RoadmapStatus = "finalized"
)

// Roadmap is the durable record of a finalized plan bound to a course and
// tutor. Status only ever moves draft -> finalizing -> finalized.
type Roadmap struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID    uuid.UUID      `gorm:"type:uuid;index" json:"course_id"`
	TutorID     string         `gorm:"index" json:"tutor_id"`
	RoadmapData datatypes.JSON `json:"roadmap_data"`
	Status      RoadmapStatus  `gorm:"size:32" json:"status"`
	FinalizedAt *time.Time     `json:"finalized_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type Section struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID uuid.UUID `gorm:"type:uuid;index" json:"course_id"`
	Index    int       `gorm:"column:idx" json:"index"`
	Title    string    `json:"title"`
}

type SubtopicStatus string

const (
	SubtopicStatusPending             SubtopicStatus = "pending"
	SubtopicStatusMarkdownGenerated   SubtopicStatus = "markdown_generated"
	SubtopicStatusTranscriptGenerated SubtopicStatus = "transcript_generated"
	SubtopicStatusAudioGenerated      SubtopicStatus = "audio_generated"
	SubtopicStatusCompleted           SubtopicStatus = "completed"
	SubtopicStatusFailed              SubtopicStatus = "failed"
)

type Subtopic struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	SectionID      uuid.UUID      `gorm:"type:uuid;index" json:"section_id"`
	Index          int            `gorm:"column:idx" json:"index"`
	Title          string         `json:"title"`
	Status         SubtopicStatus `gorm:"size:32" json:"status"`
	MarkdownPath   string         `json:"markdown_path,omitempty"`
	TranscriptPath string         `json:"transcript_path,omitempty"`
	AudioPath      string         `json:"audio_path,omitempty"`
	VideoURL       string         `json:"video_url,omitempty"`
}

// SubtopicArtifact carries the fields a pipeline stage sets on a subtopic.
// Zero-valued paths are left untouched.
type SubtopicArtifact struct {
	MarkdownPath   string
	TranscriptPath string
	AudioPath      string
	VideoURL       string
}

type GenerationStatus string

const (
	GenerationStatusProcessing GenerationStatus = "processing"
	GenerationStatusCompleted  GenerationStatus = "completed"
	GenerationStatusFailed     GenerationStatus = "failed"
)

// FailedProgressPercentage is the terminal percentage recorded and emitted
// when a job fails.
const FailedProgressPercentage = -1

type ErrorLogEntry struct {
	Step      string    `json:"step"`
	Error     string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}

// GenerationProgress is the durable, mutable record tracking one pipeline
// job. It is the source of truth for a job's outcome, independent of the
// originating request's lifetime. Only the pipeline worker mutates it.
type GenerationProgress struct {
	ID                     uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID               uuid.UUID        `gorm:"type:uuid;index" json:"course_id"`
	RoadmapID              uuid.UUID        `gorm:"type:uuid" json:"roadmap_id"`
	Status                 GenerationStatus `gorm:"size:32" json:"status"`
	CurrentStep            string           `json:"current_step"`
	ProgressPercentage     int              `json:"progress_percentage"`
	CurrentSectionIndex    int              `json:"current_section_index"`
	CurrentSubtopicIndex   int              `json:"current_subtopic_index"`
	TotalSections          int              `json:"total_sections"`
	TotalSubtopics         int              `json:"total_subtopics"`
	EstimatedTimeRemaining int              `json:"estimated_time_remaining"`
	ErrorLog               datatypes.JSON   `json:"error_log"`
	SessionID              string           `json:"session_id"`
	StartedAt              time.Time        `json:"started_at"`
	CompletedAt            *time.Time       `json:"completed_at,omitempty"`
}

// CourseEmbedding is one indexed document. The (course_id, content_id,
// content_type) triple is unique; inserts skip existing rows, they never
// refresh them.
type CourseEmbedding struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID    uuid.UUID      `gorm:"type:uuid;uniqueIndex:idx_course_content" json:"course_id"`
	ContentID   string         `gorm:"uniqueIndex:idx_course_content" json:"content_id"`
	ContentType string         `gorm:"size:32;uniqueIndex:idx_course_content" json:"content_type"`
	Content     string         `json:"content"`
	Vector      datatypes.JSON `json:"vector"`
	CreatedAt   time.Time      `json:"created_at"`
}
