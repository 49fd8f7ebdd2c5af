package services

import (
	"context"
	"errors"
	"testing"

	"github.com/aniketduttaAD/open-education-backend-sub001/domain"
)

func pythonDraft() *domain.Draft {
	return &domain.Draft{
		ID:      "draft-1",
		TutorID: "tutor-1",
		Data: domain.RoadmapData{
			{Topic: "Basics", Subtopics: []string{"Variables", "Loops"}},
			{Topic: "Functions", Subtopics: []string{"Defining Functions"}},
		},
		Version: 1,
	}
}

func TestRoadmapFinalizer_CreatesHierarchyAndJob(t *testing.T) {
	courses := newFakeCourseRepo()
	progressRepo := newFakeProgressRepo()
	queue := &fakeQueue{}
	finalizer := NewRoadmapFinalizer(nopLogger{}, courses, progressRepo, queue, 8)

	result, err := finalizer.Finalize(context.Background(), pythonDraft())
	if err != nil {
		t.Fatal("finalize failed:", err)
	}

	if len(courses.sections) != 2 {
		t.Errorf("expected 2 sections, got %d", len(courses.sections))
	}
	if len(courses.subtopics) != 3 {
		t.Errorf("expected 3 subtopics, got %d", len(courses.subtopics))
	}
	for _, subtopic := range courses.subtopics {
		if subtopic.Status != domain.SubtopicStatusPending {
			t.Errorf("subtopic %q created with status %s", subtopic.Title, subtopic.Status)
		}
	}

	roadmap := courses.roadmaps[result.RoadmapID]
	if roadmap == nil {
		t.Fatal("roadmap row missing")
	}
	if roadmap.Status != domain.RoadmapStatusFinalized {
		t.Errorf("expected finalized roadmap, got %s", roadmap.Status)
	}

	progress, err := progressRepo.Get(context.Background(), result.ProgressID)
	if err != nil {
		t.Fatal("progress row missing:", err)
	}
	if progress.TotalSections != 2 || progress.TotalSubtopics != 3 {
		t.Errorf("unexpected totals: %d sections, %d subtopics", progress.TotalSections, progress.TotalSubtopics)
	}
	if progress.EstimatedTimeRemaining != 24 {
		t.Errorf("expected initial estimate 24 minutes, got %d", progress.EstimatedTimeRemaining)
	}
	if progress.SessionID != result.SessionID {
		t.Error("session id mismatch between row and result")
	}

	if len(queue.jobs) != 1 {
		t.Fatalf("expected exactly 1 job, got %d", len(queue.jobs))
	}
	job := queue.jobs[0]
	if job.CourseID != result.CourseID || job.ProgressID != result.ProgressID || job.SessionID != result.SessionID {
		t.Error("job payload does not match finalize result")
	}
}

func TestRoadmapFinalizer_EnqueueFailureLeavesFinalizing(t *testing.T) {
	courses := newFakeCourseRepo()
	finalizer := NewRoadmapFinalizer(nopLogger{}, courses, newFakeProgressRepo(),
		&fakeQueue{err: errors.New("redis down")}, 8)

	_, err := finalizer.Finalize(context.Background(), pythonDraft())
	var transientErr *domain.TransientIOError
	if !errors.As(err, &transientErr) {
		t.Fatalf("expected TransientIOError, got %v", err)
	}

	for _, roadmap := range courses.roadmaps {
		if roadmap.Status != domain.RoadmapStatusFinalizing {
			t.Errorf("expected roadmap left finalizing, got %s", roadmap.Status)
		}
	}
}

func TestRoadmapFinalizer_SecondFinalizeCreatesSecondHierarchy(t *testing.T) {
	courses := newFakeCourseRepo()
	finalizer := NewRoadmapFinalizer(nopLogger{}, courses, newFakeProgressRepo(), &fakeQueue{}, 8)

	first, err := finalizer.Finalize(context.Background(), pythonDraft())
	if err != nil {
		t.Fatal("first finalize failed:", err)
	}
	second, err := finalizer.Finalize(context.Background(), pythonDraft())
	if err != nil {
		t.Fatal("second finalize failed:", err)
	}
	if first.CourseID == second.CourseID {
		t.Error("expected distinct course ids per finalize")
	}
	if len(courses.sections) != 4 {
		t.Errorf("expected 4 sections across both hierarchies, got %d", len(courses.sections))
	}
}
