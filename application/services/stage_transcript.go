package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aniketduttaAD/open-education-backend-sub001/application/ports/outbound"
	"github.com/aniketduttaAD/open-education-backend-sub001/domain"
)

const transcriptSystemPrompt = `You are a narrator writing the voice-over script for a slide deck.
Given the slide markdown, produce a timestamped narration covering every slide
in order. Each line must start with a [MM:SS] timecode marking when that
sentence begins, for example:
[00:00] Welcome back. Last time we covered variables.
[00:12] In this lesson we look at loops.
Timecodes must be strictly increasing and seconds below 60. Output only the
narration lines.`

// stageTranscript turns each slide deck into a timed narration. The output
// is parsed immediately so a malformed script fails here, not in the audio
// stage.
func (p *generationPipeline) stageTranscript(ctx context.Context, tracker *ProgressTracker,
	workdir string, units []pipelineUnit) error {
	for i, unit := range units {
		task := fmt.Sprintf("Writing narration for %q", unit.subtopic.Title)
		if err := p.reportUnit(ctx, tracker, stepTranscript, task, unit, i, len(units)); err != nil {
			return err
		}

		markdown, err := os.ReadFile(unit.subtopic.MarkdownPath)
		if err != nil {
			return &domain.TransientIOError{Op: "read markdown", Err: err}
		}

		if err := p.limiter.Wait(ctx); err != nil {
			return err
		}
		content, err := p.deps.LLM.Complete(ctx, outbound.CompletionRequest{
			System:      transcriptSystemPrompt,
			User:        string(markdown),
			Format:      outbound.CompletionFormatText,
			Temperature: 0.5,
		})
		if err != nil {
			return &domain.TransientIOError{Op: "generate transcript", Err: err}
		}
		if _, err := ParseTranscript(content); err != nil {
			return fmt.Errorf("transcript for %q unusable: %w", unit.subtopic.Title, err)
		}

		path := filepath.Join(workdir, "transcripts", unitFileBase(unit)+".txt")
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return &domain.TransientIOError{Op: "write transcript", Err: err}
		}
		if err := p.deps.Courses.UpdateSubtopic(ctx, unit.subtopic.ID,
			domain.SubtopicStatusTranscriptGenerated, domain.SubtopicArtifact{TranscriptPath: path}); err != nil {
			return &domain.TransientIOError{Op: "record transcript path", Err: err}
		}
		unit.subtopic.TranscriptPath = path
		unit.subtopic.Status = domain.SubtopicStatusTranscriptGenerated
	}
	return nil
}
