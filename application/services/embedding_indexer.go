package services

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/aniketduttaAD/open-education-backend-sub001/application/ports/inbound"
	"github.com/aniketduttaAD/open-education-backend-sub001/application/ports/outbound"
	"github.com/aniketduttaAD/open-education-backend-sub001/domain"
)

const (
	ContentTypeSection  = "section"
	ContentTypeSubtopic = "subtopic"
	ContentTypeCourse   = "course"
)

type embeddingIndexer struct {
	logger  outbound.LoggerPort
	llm     outbound.LLMPort
	courses outbound.CourseRepositoryPort
	vectors outbound.VectorStorePort
}

func NewEmbeddingIndexer(logger outbound.LoggerPort, llm outbound.LLMPort,
	courses outbound.CourseRepositoryPort, vectors outbound.VectorStorePort) inbound.EmbeddingIndexerPort {
	return &embeddingIndexer{
		logger:  logger,
		llm:     llm,
		courses: courses,
		vectors: vectors,
	}
}

// IndexCourse embeds one document per section (title plus all subtopic
// text), one per subtopic, and one for the whole course. Subtopic text is
// read back from the working directory; a missing file degrades to a
// placeholder rather than failing the stage.
func (x *embeddingIndexer) IndexCourse(ctx context.Context, courseID uuid.UUID) error {
	sections, err := x.courses.SectionsByCourse(ctx, courseID)
	if err != nil {
		return &domain.TransientIOError{Op: "load sections for indexing", Err: err}
	}

	records := make([]outbound.EmbeddingRecord, 0)
	courseParts := make([]string, 0, len(sections))

	for _, section := range sections {
		subtopics, err := x.courses.SubtopicsBySection(ctx, section.ID)
		if err != nil {
			return &domain.TransientIOError{Op: "load subtopics for indexing", Err: err}
		}

		sectionParts := []string{section.Title}
		for _, subtopic := range subtopics {
			text := x.subtopicText(subtopic)
			sectionParts = append(sectionParts, text)

			vector, err := x.llm.Embed(ctx, subtopic.Title+"\n\n"+text)
			if err != nil {
				return &domain.TransientIOError{Op: "embed subtopic", Err: err}
			}
			records = append(records, outbound.EmbeddingRecord{
				CourseID:    courseID,
				ContentID:   subtopic.ID.String(),
				ContentType: ContentTypeSubtopic,
				Content:     text,
				Vector:      vector,
			})
		}

		sectionDoc := strings.Join(sectionParts, "\n\n")
		vector, err := x.llm.Embed(ctx, sectionDoc)
		if err != nil {
			return &domain.TransientIOError{Op: "embed section", Err: err}
		}
		records = append(records, outbound.EmbeddingRecord{
			CourseID:    courseID,
			ContentID:   section.ID.String(),
			ContentType: ContentTypeSection,
			Content:     sectionDoc,
			Vector:      vector,
		})
		courseParts = append(courseParts, sectionDoc)
	}

	if len(courseParts) > 0 {
		courseDoc := strings.Join(courseParts, "\n\n")
		vector, err := x.llm.Embed(ctx, courseDoc)
		if err != nil {
			return &domain.TransientIOError{Op: "embed course", Err: err}
		}
		records = append(records, outbound.EmbeddingRecord{
			CourseID:    courseID,
			ContentID:   courseID.String(),
			ContentType: ContentTypeCourse,
			Content:     courseDoc,
			Vector:      vector,
		})
	}

	if len(records) == 0 {
		return nil
	}
	if err := x.vectors.UpsertSkipExisting(ctx, records); err != nil {
		return &domain.TransientIOError{Op: "upsert embeddings", Err: err}
	}

	x.logger.InfoWithFields("course indexed", map[string]interface{}{
		"course_id": courseID.String(),
		"records":   len(records),
	})
	return nil
}

// Search ranks the course's indexed documents by cosine similarity against
// the query vector. An empty corpus yields an empty result set.
func (x *embeddingIndexer) Search(ctx context.Context, params inbound.SearchParams) ([]inbound.SearchMatch, error) {
	records, err := x.vectors.ByCourse(ctx, params.CourseID)
	if err != nil {
		return nil, &domain.TransientIOError{Op: "load embeddings", Err: err}
	}

	matches := make([]inbound.SearchMatch, 0)
	for _, record := range records {
		score := cosineSimilarity(params.Query, record.Vector)
		if score < params.Threshold {
			continue
		}
		matches = append(matches, inbound.SearchMatch{
			ContentID:   record.ContentID,
			ContentType: record.ContentType,
			Content:     record.Content,
			Score:       score,
		})
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if params.Limit > 0 && len(matches) > params.Limit {
		matches = matches[:params.Limit]
	}
	return matches, nil
}

func (x *embeddingIndexer) subtopicText(subtopic *domain.Subtopic) string {
	path := subtopic.MarkdownPath
	if path == "" {
		path = subtopic.TranscriptPath
	}
	if path != "" {
		if raw, err := os.ReadFile(path); err == nil {
			return string(raw)
		}
		x.logger.WarnWithFields("subtopic text unreadable, indexing placeholder", map[string]interface{}{
			"subtopic_id": subtopic.ID.String(),
			"path":        path,
		})
	}
	return fmt.Sprintf("Content for %q has not been generated yet.", subtopic.Title)
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
