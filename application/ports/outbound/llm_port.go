package outbound

import "context"

type CompletionFormat string

const (
	CompletionFormatText CompletionFormat = "text"
	CompletionFormatJSON CompletionFormat = "json"
)

type CompletionRequest struct {
	System      string
	User        string
	Format      CompletionFormat
	Temperature float64
}

// LLMPort is the language-model collaborator: chat completion and text
// embedding.
type LLMPort interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	Embed(ctx context.Context, text string) ([]float32, error)
}

// SpeechSynthesizerPort turns one narration segment into an encoded audio
// clip.
type SpeechSynthesizerPort interface {
	Synthesize(ctx context.Context, text string, voice string) ([]byte, error)
}
