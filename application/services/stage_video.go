package services

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/aniketduttaAD/open-education-backend-sub001/domain"
)

// stageVideo combines each subtopic's ordered slide images with its audio
// track, every image shown for the fixed configured duration.
func (p *generationPipeline) stageVideo(ctx context.Context, tracker *ProgressTracker,
	workdir string, units []pipelineUnit) error {
	for i, unit := range units {
		task := fmt.Sprintf("Producing video for %q", unit.subtopic.Title)
		if err := p.reportUnit(ctx, tracker, stepVideo, task, unit, i, len(units)); err != nil {
			return err
		}

		images, err := slideImages(workdir, unit)
		if err != nil {
			return err
		}
		if len(images) == 0 {
			return &domain.ExternalToolError{
				Tool: "video compositor",
				Err:  fmt.Errorf("no slide images for %q", unit.subtopic.Title),
			}
		}
		outPath := filepath.Join(workdir, "video", unitFileBase(unit)+".mp4")
		if err := p.deps.Composer.ComposeVideo(ctx, images, unit.subtopic.AudioPath, p.cfg.SlideDuration, outPath); err != nil {
			return err
		}
	}
	return nil
}
