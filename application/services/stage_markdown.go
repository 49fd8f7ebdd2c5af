package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aniketduttaAD/open-education-backend-sub001/application/ports/outbound"
	"github.com/aniketduttaAD/open-education-backend-sub001/domain"
)

const markdownSystemPrompt = `You are an expert curriculum author writing slide decks.
Produce presentation-ready markdown for exactly one lesson, split into five slides
separated by "---" lines, in this order:
1. Recap: a short bridge from the adjacent lesson context you are given.
2. Deep dive: the core explanation of the lesson topic with concrete examples.
3. Best practices and pitfalls: what to do and what to avoid.
4. Preview: one short paragraph connecting to the next lesson.
5. Exercises: two or three practice tasks.
Each slide starts with a "# " heading. Output only the markdown, no commentary.`

// stageMarkdown generates one slide deck per subtopic. Each prompt carries
// short context from the neighboring subtopic so consecutive lessons chain
// together.
func (p *generationPipeline) stageMarkdown(ctx context.Context, tracker *ProgressTracker,
	workdir string, units []pipelineUnit) error {
	for i, unit := range units {
		task := fmt.Sprintf("Writing slides for %q", unit.subtopic.Title)
		if err := p.reportUnit(ctx, tracker, stepMarkdown, task, unit, i, len(units)); err != nil {
			return err
		}

		if err := p.limiter.Wait(ctx); err != nil {
			return err
		}
		content, err := p.deps.LLM.Complete(ctx, outbound.CompletionRequest{
			System:      markdownSystemPrompt,
			User:        buildMarkdownUserPrompt(units, i),
			Format:      outbound.CompletionFormatText,
			Temperature: 0.7,
		})
		if err != nil {
			return &domain.TransientIOError{Op: "generate markdown", Err: err}
		}

		path := filepath.Join(workdir, "markdown", unitFileBase(unit)+".md")
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return &domain.TransientIOError{Op: "write markdown", Err: err}
		}
		if err := p.deps.Courses.UpdateSubtopic(ctx, unit.subtopic.ID,
			domain.SubtopicStatusMarkdownGenerated, domain.SubtopicArtifact{MarkdownPath: path}); err != nil {
			return &domain.TransientIOError{Op: "record markdown path", Err: err}
		}
		unit.subtopic.MarkdownPath = path
		unit.subtopic.Status = domain.SubtopicStatusMarkdownGenerated
	}
	return nil
}

// buildMarkdownUserPrompt frames the lesson with its course position and
// the titles of the neighboring subtopics, crossing a section boundary when
// the unit sits at one.
func buildMarkdownUserPrompt(units []pipelineUnit, i int) string {
	unit := units[i]
	var b strings.Builder
	fmt.Fprintf(&b, "Course section: %s\n", unit.section.Title)
	fmt.Fprintf(&b, "Lesson: %s\n", unit.subtopic.Title)
	if prev := neighborTitle(units, i-1); prev != "" {
		fmt.Fprintf(&b, "Previous lesson: %s\n", prev)
	} else {
		b.WriteString("This is the first lesson of the course.\n")
	}
	if next := neighborTitle(units, i+1); next != "" {
		fmt.Fprintf(&b, "Next lesson: %s\n", next)
	} else {
		b.WriteString("This is the last lesson of the course.\n")
	}
	return b.String()
}

func neighborTitle(units []pipelineUnit, i int) string {
	if i < 0 || i >= len(units) {
		return ""
	}
	return units[i].subtopic.Title
}
