package adapters

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/aniketduttaAD/open-education-backend-sub001/application/ports/outbound"
	"github.com/aniketduttaAD/open-education-backend-sub001/domain"
)

type ffmpegMediaComposer struct {
	logger outbound.LoggerPort
}

// NewFFMPEGMediaComposer drives ffmpeg for the two composition steps: the
// per-subtopic narration timeline and the slides-plus-audio video.
func NewFFMPEGMediaComposer(logger outbound.LoggerPort) outbound.MediaComposerPort {
	return &ffmpegMediaComposer{logger: logger}
}

// ComposeAudio delays every clip to its transcript offset, mixes all of
// them onto one track and normalizes loudness.
func (c *ffmpegMediaComposer) ComposeAudio(ctx context.Context, clips []outbound.AudioClip, outPath string) error {
	if len(clips) == 0 {
		return &domain.ExternalToolError{Tool: "ffmpeg", Err: fmt.Errorf("no audio clips to compose")}
	}

	args := make([]string, 0, len(clips)*2+8)
	for _, clip := range clips {
		args = append(args, "-i", clip.Path)
	}

	var filter strings.Builder
	labels := make([]string, 0, len(clips))
	for i, clip := range clips {
		delayMs := clip.Offset.Milliseconds()
		label := fmt.Sprintf("d%d", i)
		fmt.Fprintf(&filter, "[%d:a]adelay=%d|%d[%s];", i, delayMs, delayMs, label)
		labels = append(labels, "["+label+"]")
	}
	fmt.Fprintf(&filter, "%samix=inputs=%d:normalize=0,loudnorm[out]", strings.Join(labels, ""), len(clips))

	args = append(args,
		"-filter_complex", filter.String(),
		"-map", "[out]",
		"-y", outPath,
	)
	return c.run(ctx, args, "compose audio")
}

// ComposeVideo concatenates the slide images at a fixed per-image duration
// and lays the narration track underneath. The output stops at the shorter
// stream, so narration outlasting the slides is cut.
func (c *ffmpegMediaComposer) ComposeVideo(ctx context.Context, imagePaths []string, audioPath string,
	perImage time.Duration, outPath string) error {
	if len(imagePaths) == 0 {
		return &domain.ExternalToolError{Tool: "ffmpeg", Err: fmt.Errorf("no slide images to compose")}
	}

	listPath := outPath + ".slides.txt"
	var list strings.Builder
	for _, image := range imagePaths {
		fmt.Fprintf(&list, "file '%s'\nduration %.3f\n", image, perImage.Seconds())
	}
	// concat demuxer needs the last file repeated so its duration holds
	fmt.Fprintf(&list, "file '%s'\n", imagePaths[len(imagePaths)-1])
	if err := os.WriteFile(listPath, []byte(list.String()), 0o644); err != nil {
		return err
	}
	defer func() {
		if err := os.Remove(listPath); err != nil {
			c.logger.Error(err, "Failed to remove slide list file")
		}
	}()

	args := []string{
		"-f", "concat", "-safe", "0", "-i", listPath,
		"-i", audioPath,
		"-c:v", "libx264", "-tune", "stillimage",
		"-c:a", "aac", "-b:a", "192k",
		"-pix_fmt", "yuv420p",
		"-vf", "fps=25,format=yuv420p",
		"-shortest",
		"-y", outPath,
	}
	return c.run(ctx, args, "compose video")
}

func (c *ffmpegMediaComposer) run(ctx context.Context, args []string, action string) error {
	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		c.logger.ErrorWithFields(err, "ffmpeg failed", map[string]interface{}{
			"action": action,
			"output": tail(string(output), 2000),
		})
		return &domain.ExternalToolError{Tool: "ffmpeg", Err: fmt.Errorf("%s: %w", action, err)}
	}
	return nil
}

// tail keeps log lines bounded; ffmpeg is chatty and only the end matters.
func tail(s string, n int) string {
	if len(s) <= n {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(s[len(s)-n:])
}
