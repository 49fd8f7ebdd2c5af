package domain

import "fmt"

// Realtime channel naming. Before a course exists consumers bind to the
// finalization session; afterwards they bind to the course.
func CourseChannel(courseID string) string   { return "course:" + courseID }
func SessionChannel(sessionID string) string { return "session:" + sessionID }

type ProgressEventKind string

const (
	ProgressEventProgress  ProgressEventKind = "progress"
	ProgressEventCompleted ProgressEventKind = "completed"
	ProgressEventFailed    ProgressEventKind = "failed"
)

// ProgressEvent is the tagged stage-update message published to the
// realtime channel for every unit of pipeline work. Failed events carry the
// terminal -1 percentage and the error; Permanent distinguishes a job whose
// retry budget is exhausted from one the queue will retry.
type ProgressEvent struct {
	Kind                 ProgressEventKind `json:"kind"`
	CourseID             string            `json:"course_id"`
	Percentage           int               `json:"percentage"`
	Step                 string            `json:"step"`
	Task                 string            `json:"task"`
	SectionTitle         string            `json:"section_title,omitempty"`
	SubtopicTitle        string            `json:"subtopic_title,omitempty"`
	SectionIndex         int               `json:"section_index"`
	SubtopicIndex        int               `json:"subtopic_index"`
	EstimatedSecondsLeft int               `json:"estimated_seconds_left"`
	Error                string            `json:"error,omitempty"`
	Permanent            bool              `json:"permanent,omitempty"`
}

func (e ProgressEvent) Name() string {
	return fmt.Sprintf("generation:%s", e.Kind)
}
