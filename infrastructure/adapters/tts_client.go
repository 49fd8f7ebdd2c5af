package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/aniketduttaAD/open-education-backend-sub001/application/ports/outbound"
	"github.com/aniketduttaAD/open-education-backend-sub001/config"
)

type ttsRequest struct {
	Text          string        `json:"text"`
	ModelId       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

type ttsClient struct {
	ContentFetcher
	logger outbound.LoggerPort
	cfg    *config.TTSConfig
}

// NewTTSClient speaks the ElevenLabs text-to-speech API: one POST per
// narration segment, mpeg audio back.
func NewTTSClient(fetcher ContentFetcher, cfg *config.TTSConfig, logger outbound.LoggerPort) outbound.SpeechSynthesizerPort {
	return &ttsClient{
		ContentFetcher: fetcher,
		logger:         logger,
		cfg:            cfg,
	}
}

func (t *ttsClient) Synthesize(ctx context.Context, text string, voice string) ([]byte, error) {
	if voice == "" {
		voice = t.cfg.DefaultVoice
	}
	req, err := t.createRequest(ctx, text, voice)
	if err != nil {
		t.logger.ErrorWithFields(err, "Failed to construct the speech request", map[string]interface{}{
			"voice": voice,
		})
		return nil, err
	}
	return t.FetchContent(req)
}

func (t *ttsClient) createRequest(ctx context.Context, text string, voice string) (*http.Request, error) {
	payload, err := json.Marshal(ttsRequest{
		Text:    text,
		ModelId: t.cfg.ModelId,
		VoiceSettings: voiceSettings{
			Stability:       t.cfg.Stability,
			SimilarityBoost: t.cfg.SimilarityBoost,
		},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.cfg.ApiUrl+"/"+voice, bytes.NewBuffer(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("xi-api-key", t.cfg.ApiKey)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}
