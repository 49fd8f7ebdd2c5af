package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aniketduttaAD/open-education-backend-sub001/application/ports/outbound"
	"github.com/aniketduttaAD/open-education-backend-sub001/domain"
)

// stageAudio synthesizes one clip per narration segment and composes them
// on a single timeline: each clip is delayed to its segment offset, the mix
// is loudness normalized, and one audio file per subtopic comes out.
func (p *generationPipeline) stageAudio(ctx context.Context, tracker *ProgressTracker,
	workdir string, units []pipelineUnit) error {
	for i, unit := range units {
		task := fmt.Sprintf("Recording narration for %q", unit.subtopic.Title)
		if err := p.reportUnit(ctx, tracker, stepAudio, task, unit, i, len(units)); err != nil {
			return err
		}

		transcript, err := os.ReadFile(unit.subtopic.TranscriptPath)
		if err != nil {
			return &domain.TransientIOError{Op: "read transcript", Err: err}
		}
		segments, err := ParseTranscript(string(transcript))
		if err != nil {
			return fmt.Errorf("transcript for %q unusable: %w", unit.subtopic.Title, err)
		}

		clipDir := filepath.Join(workdir, "audio", unitFileBase(unit))
		if err := os.MkdirAll(clipDir, 0o755); err != nil {
			return &domain.TransientIOError{Op: "create clip directory", Err: err}
		}

		clips := make([]outbound.AudioClip, 0, len(segments))
		for j, segment := range segments {
			if err := p.limiter.Wait(ctx); err != nil {
				return err
			}
			encoded, err := p.deps.Speech.Synthesize(ctx, segment.Text, p.voice)
			if err != nil {
				return &domain.TransientIOError{Op: "synthesize speech", Err: err}
			}
			clipPath := filepath.Join(clipDir, fmt.Sprintf("seg%03d.mp3", j))
			if err := os.WriteFile(clipPath, encoded, 0o644); err != nil {
				return &domain.TransientIOError{Op: "write speech clip", Err: err}
			}
			clips = append(clips, outbound.AudioClip{Path: clipPath, Offset: segment.Start})
		}

		audioPath := filepath.Join(workdir, "audio", unitFileBase(unit)+".mp3")
		if err := p.deps.Composer.ComposeAudio(ctx, clips, audioPath); err != nil {
			return err
		}
		if err := p.deps.Courses.UpdateSubtopic(ctx, unit.subtopic.ID,
			domain.SubtopicStatusAudioGenerated, domain.SubtopicArtifact{AudioPath: audioPath}); err != nil {
			return &domain.TransientIOError{Op: "record audio path", Err: err}
		}
		unit.subtopic.AudioPath = audioPath
		unit.subtopic.Status = domain.SubtopicStatusAudioGenerated
	}
	return nil
}
