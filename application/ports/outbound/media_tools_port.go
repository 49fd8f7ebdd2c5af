package outbound

import (
	"context"
	"time"
)

// SlideRendererPort renders one subtopic's slide markdown into ordered
// images via the sandboxed external renderer. The implementation enforces a
// wall-clock timeout and returns domain.ExternalToolError on non-zero exit
// or expiry. Verifying that at least one image came back is the caller's
// job.
type SlideRendererPort interface {
	RenderSlides(ctx context.Context, markdownPath string, outDir string) ([]string, error)
}

// AudioClip is one synthesized narration clip placed at its transcript
// offset on the subtopic timeline.
type AudioClip struct {
	Path   string
	Offset time.Duration
}

// MediaComposerPort wraps the external audio/video compositor.
type MediaComposerPort interface {
	// ComposeAudio delays each clip to its offset, mixes everything to one
	// track, applies loudness normalization and writes outPath.
	ComposeAudio(ctx context.Context, clips []AudioClip, outPath string) error
	// ComposeVideo combines the ordered slide images (fixed per-image
	// display duration) with the subtopic's audio track into one video.
	ComposeVideo(ctx context.Context, imagePaths []string, audioPath string, perImage time.Duration, outPath string) error
}
