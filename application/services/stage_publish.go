package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aniketduttaAD/open-education-backend-sub001/domain"
)

// stagePublish uploads each subtopic's video under a deterministic
// course/section/subtopic key and records the resolved URL. This is the
// stage that moves a subtopic to completed.
func (p *generationPipeline) stagePublish(ctx context.Context, tracker *ProgressTracker,
	workdir string, units []pipelineUnit) error {
	for i, unit := range units {
		task := fmt.Sprintf("Publishing %q", unit.subtopic.Title)
		if err := p.reportUnit(ctx, tracker, stepPublish, task, unit, i, len(units)); err != nil {
			return err
		}

		videoPath := filepath.Join(workdir, "video", unitFileBase(unit)+".mp4")
		body, err := os.ReadFile(videoPath)
		if err != nil {
			return &domain.TransientIOError{Op: "read video", Err: err}
		}

		key := fmt.Sprintf("course/%s/section/%d/subtopic/%d.mp4",
			unit.section.CourseID, unit.section.Index, unit.subtopic.Index)
		url, err := p.deps.Media.Put(ctx, key, body, "video/mp4")
		if err != nil {
			return &domain.TransientIOError{Op: "upload video", Err: err}
		}

		if err := p.deps.Courses.UpdateSubtopic(ctx, unit.subtopic.ID,
			domain.SubtopicStatusCompleted, domain.SubtopicArtifact{VideoURL: url}); err != nil {
			return &domain.TransientIOError{Op: "record video url", Err: err}
		}
		unit.subtopic.VideoURL = url
		unit.subtopic.Status = domain.SubtopicStatusCompleted
	}
	return nil
}
