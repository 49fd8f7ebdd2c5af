package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/aniketduttaAD/open-education-backend-sub001/domain"
)

// stageSlides renders each subtopic's markdown into ordered images under
// slides/<unit>/. The renderer runs sandboxed with a wall-clock timeout; a
// run that produces zero images fails the stage.
func (p *generationPipeline) stageSlides(ctx context.Context, tracker *ProgressTracker,
	workdir string, units []pipelineUnit) error {
	for i, unit := range units {
		task := fmt.Sprintf("Rendering slides for %q", unit.subtopic.Title)
		if err := p.reportUnit(ctx, tracker, stepSlides, task, unit, i, len(units)); err != nil {
			return err
		}

		outDir := filepath.Join(workdir, "slides", unitFileBase(unit))
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return &domain.TransientIOError{Op: "create slide directory", Err: err}
		}
		images, err := p.deps.Slides.RenderSlides(ctx, unit.subtopic.MarkdownPath, outDir)
		if err != nil {
			return err
		}
		if len(images) == 0 {
			return &domain.ExternalToolError{
				Tool: "slide renderer",
				Err:  fmt.Errorf("no images produced for %q", unit.subtopic.Title),
			}
		}
	}
	return nil
}

// slideImages lists a unit's rendered images in slide order.
func slideImages(workdir string, unit pipelineUnit) ([]string, error) {
	outDir := filepath.Join(workdir, "slides", unitFileBase(unit))
	entries, err := os.ReadDir(outDir)
	if err != nil {
		return nil, &domain.TransientIOError{Op: "list slide images", Err: err}
	}
	images := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		images = append(images, filepath.Join(outDir, entry.Name()))
	}
	sort.Strings(images)
	return images, nil
}
