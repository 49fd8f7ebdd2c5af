package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/aniketduttaAD/open-education-backend-sub001/application/ports/inbound"
	"github.com/aniketduttaAD/open-education-backend-sub001/application/ports/outbound"
	"github.com/aniketduttaAD/open-education-backend-sub001/domain"
)

func indexerFixture(t *testing.T) (*fakeCourseRepo, *fakeVector, uuid.UUID) {
	t.Helper()

	courses := newFakeCourseRepo()
	courseID := uuid.New()
	section := &domain.Section{ID: uuid.New(), CourseID: courseID, Index: 0, Title: "Basics"}
	courses.sections = []*domain.Section{section}

	dir := t.TempDir()
	markdownPath := filepath.Join(dir, "variables.md")
	if err := os.WriteFile(markdownPath, []byte("Variables hold values."), 0o644); err != nil {
		t.Fatal(err)
	}
	courses.subtopics = []*domain.Subtopic{
		{ID: uuid.New(), SectionID: section.ID, Index: 0, Title: "Variables", MarkdownPath: markdownPath},
		{ID: uuid.New(), SectionID: section.ID, Index: 1, Title: "Loops"},
	}
	return courses, &fakeVector{}, courseID
}

func TestEmbeddingIndexer_IndexCourse(t *testing.T) {
	courses, vector, courseID := indexerFixture(t)
	indexer := NewEmbeddingIndexer(nopLogger{}, &fakeLLM{}, courses, vector)

	if err := indexer.IndexCourse(context.Background(), courseID); err != nil {
		t.Fatal("index failed:", err)
	}

	// 2 subtopics + 1 section + 1 course
	if len(vector.records) != 4 {
		t.Fatalf("expected 4 records, got %d", len(vector.records))
	}

	byType := make(map[string]int)
	for _, record := range vector.records {
		byType[record.ContentType]++
	}
	if byType[ContentTypeSubtopic] != 2 || byType[ContentTypeSection] != 1 || byType[ContentTypeCourse] != 1 {
		t.Errorf("unexpected record mix: %v", byType)
	}

	for _, record := range vector.records {
		if record.ContentType == ContentTypeSubtopic && record.Content == "Variables hold values." {
			return
		}
	}
	t.Error("generated markdown text was not indexed")
}

func TestEmbeddingIndexer_MissingTextIndexesPlaceholder(t *testing.T) {
	courses, vector, courseID := indexerFixture(t)
	indexer := NewEmbeddingIndexer(nopLogger{}, &fakeLLM{}, courses, vector)

	if err := indexer.IndexCourse(context.Background(), courseID); err != nil {
		t.Fatal("index failed:", err)
	}

	loopsID := courses.subtopics[1].ID.String()
	record := vector.find(courseID, loopsID, ContentTypeSubtopic)
	if record == nil {
		t.Fatal("ungenerated subtopic was not indexed")
	}
	if record.Content == "" {
		t.Error("expected placeholder content for ungenerated subtopic")
	}
}

func TestEmbeddingIndexer_UpsertSkipsExisting(t *testing.T) {
	courses, vector, courseID := indexerFixture(t)
	indexer := NewEmbeddingIndexer(nopLogger{}, &fakeLLM{}, courses, vector)

	variablesID := courses.subtopics[0].ID.String()
	vector.records = append(vector.records, outbound.EmbeddingRecord{
		CourseID:    courseID,
		ContentID:   variablesID,
		ContentType: ContentTypeSubtopic,
		Content:     "original content",
		Vector:      []float32{1, 2, 3},
	})

	if err := indexer.IndexCourse(context.Background(), courseID); err != nil {
		t.Fatal("index failed:", err)
	}

	record := vector.find(courseID, variablesID, ContentTypeSubtopic)
	if record.Content != "original content" {
		t.Errorf("existing record was refreshed: %q", record.Content)
	}
}

func TestEmbeddingIndexer_SearchEmptyCorpus(t *testing.T) {
	indexer := NewEmbeddingIndexer(nopLogger{}, &fakeLLM{}, newFakeCourseRepo(), &fakeVector{})

	matches, err := indexer.Search(context.Background(), inbound.SearchParams{
		CourseID:  uuid.New(),
		Query:     []float32{1, 0},
		Threshold: 0.5,
		Limit:     10,
	})
	if err != nil {
		t.Fatal("search on empty corpus errored:", err)
	}
	if len(matches) != 0 {
		t.Errorf("expected empty result, got %d matches", len(matches))
	}
}

func TestEmbeddingIndexer_SearchRanksAndCaps(t *testing.T) {
	courseID := uuid.New()
	vector := &fakeVector{records: []outbound.EmbeddingRecord{
		{CourseID: courseID, ContentID: "exact", ContentType: ContentTypeSubtopic, Vector: []float32{1, 0}},
		{CourseID: courseID, ContentID: "close", ContentType: ContentTypeSubtopic, Vector: []float32{0.9, 0.1}},
		{CourseID: courseID, ContentID: "orthogonal", ContentType: ContentTypeSubtopic, Vector: []float32{0, 1}},
	}}
	indexer := NewEmbeddingIndexer(nopLogger{}, &fakeLLM{}, newFakeCourseRepo(), vector)

	matches, err := indexer.Search(context.Background(), inbound.SearchParams{
		CourseID:  courseID,
		Query:     []float32{1, 0},
		Threshold: 0.5,
		Limit:     10,
	})
	if err != nil {
		t.Fatal("search failed:", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches above threshold, got %d", len(matches))
	}
	if matches[0].ContentID != "exact" || matches[1].ContentID != "close" {
		t.Errorf("matches not ranked by score: %+v", matches)
	}

	capped, err := indexer.Search(context.Background(), inbound.SearchParams{
		CourseID:  courseID,
		Query:     []float32{1, 0},
		Threshold: 0.5,
		Limit:     1,
	})
	if err != nil {
		t.Fatal("search failed:", err)
	}
	if len(capped) != 1 || capped[0].ContentID != "exact" {
		t.Errorf("limit not applied to ranked results: %+v", capped)
	}
}
