package adapters

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aniketduttaAD/open-education-backend-sub001/application/ports/outbound"
	"github.com/aniketduttaAD/open-education-backend-sub001/config"
	"github.com/aniketduttaAD/open-education-backend-sub001/domain"
)

type marpSlideRenderer struct {
	logger outbound.LoggerPort
	cfg    *config.RendererConfig
}

// NewMarpSlideRenderer shells out to the marp CLI to turn slide markdown
// into one PNG per slide. The subprocess runs under a wall-clock timeout
// and is killed on expiry.
func NewMarpSlideRenderer(cfg *config.RendererConfig, logger outbound.LoggerPort) outbound.SlideRendererPort {
	return &marpSlideRenderer{
		logger: logger,
		cfg:    cfg,
	}
}

func (r *marpSlideRenderer) RenderSlides(ctx context.Context, markdownPath string, outDir string) ([]string, error) {
	runCtx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, r.cfg.Binary,
		markdownPath,
		"--images", "png",
		"--image-scale", "2",
		"--allow-local-files",
		"-o", filepath.Join(outDir, "slide.png"),
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		if runCtx.Err() == context.DeadlineExceeded {
			r.logger.ErrorWithFields(err, "Slide renderer timed out", map[string]interface{}{
				"markdown": markdownPath,
				"timeout":  r.cfg.Timeout.String(),
			})
			return nil, &domain.ExternalToolError{
				Tool: r.cfg.Binary,
				Err:  fmt.Errorf("timed out after %s", r.cfg.Timeout),
			}
		}
		r.logger.ErrorWithFields(err, "Slide renderer failed", map[string]interface{}{
			"markdown": markdownPath,
			"output":   strings.TrimSpace(string(output)),
		})
		return nil, &domain.ExternalToolError{Tool: r.cfg.Binary, Err: err}
	}

	return collectImages(outDir)
}

// collectImages lists the rendered PNGs in slide order. Marp numbers pages
// with zero-padded suffixes so a lexical sort is the page order.
func collectImages(outDir string) ([]string, error) {
	entries, err := os.ReadDir(outDir)
	if err != nil {
		return nil, err
	}
	images := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".png") {
			continue
		}
		images = append(images, filepath.Join(outDir, entry.Name()))
	}
	sort.Strings(images)
	return images, nil
}
