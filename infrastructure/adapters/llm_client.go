package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/donovanhide/eventsource"

	"github.com/aniketduttaAD/open-education-backend-sub001/application/ports/outbound"
	"github.com/aniketduttaAD/open-education-backend-sub001/config"
)

const doneSignal = "[DONE]"
const maxStreamRetries = 3

type chatRequest struct {
	Stream         bool            `json:"stream"`
	Model          string          `json:"model"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
	Messages       []chatMessage   `json:"messages"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatChunkBody struct {
	Choices []chatChunkChoice `json:"choices"`
}

type chatChunkChoice struct {
	Index int `json:"index"`
	Delta struct {
		Content string `json:"content"`
	} `json:"delta"`
}

type embeddingRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

type llmClient struct {
	logger outbound.LoggerPort
	cfg    *config.LLMConfig
	client *http.Client
}

// NewLLMClient talks to an OpenAI-compatible endpoint. Completions are
// streamed and assembled into the full text before returning; embeddings
// are a plain POST.
func NewLLMClient(cfg *config.LLMConfig, logger outbound.LoggerPort) outbound.LLMPort {
	return &llmClient{
		logger: logger,
		cfg:    cfg,
		client: &http.Client{},
	}
}

func (c *llmClient) Complete(ctx context.Context, req outbound.CompletionRequest) (string, error) {
	httpReq, err := c.createChatRequest(ctx, req)
	if err != nil {
		return "", err
	}

	stream, err := eventsource.SubscribeWithRequest("", httpReq)
	if err != nil {
		c.logger.Error(err, "Failed to subscribe to completion stream")
		return "", err
	}
	defer stream.Close()

	var out strings.Builder
	retryCount := 0
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case ev := <-stream.Events:
			if ev.Data() == doneSignal {
				return out.String(), nil
			}
			delta, err := extractDelta(ev)
			if err != nil {
				c.logger.Error(err, "Failed to unmarshal completion chunk")
				return "", err
			}
			out.WriteString(delta)
			retryCount = 0
		case err := <-stream.Errors:
			if err == io.EOF {
				return out.String(), nil
			}
			if retryCount < maxStreamRetries {
				c.logger.ErrorWithFields(err, "Error during completion stream, retrying", map[string]interface{}{
					"retry_count": retryCount})
				retryCount++
				continue
			}
			c.logger.Error(err, "Completion stream failed, max retries reached")
			return "", err
		}
	}
}

func (c *llmClient) Embed(ctx context.Context, text string) ([]float32, error) {
	payload, err := json.Marshal(embeddingRequest{
		Model: c.cfg.EmbeddingModel,
		Input: text,
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.ApiUrl+"/embeddings", bytes.NewBuffer(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.ApiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Error(err, "Failed to close embedding response body")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("embedding request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var parsed embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	if len(parsed.Data) == 0 {
		return nil, fmt.Errorf("embedding response contained no vectors")
	}
	return parsed.Data[0].Embedding, nil
}

func extractDelta(event eventsource.Event) (string, error) {
	var chunk chatChunkBody
	if err := json.Unmarshal([]byte(event.Data()), &chunk); err != nil {
		return "", err
	}
	if len(chunk.Choices) == 0 {
		return "", nil
	}
	return chunk.Choices[0].Delta.Content, nil
}

func (c *llmClient) createChatRequest(ctx context.Context, req outbound.CompletionRequest) (*http.Request, error) {
	body := chatRequest{
		Stream:      true,
		Model:       c.cfg.Model,
		Temperature: req.Temperature,
		Messages: []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
	}
	if req.Format == outbound.CompletionFormatJSON {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		c.logger.Error(err, "Failed to marshal the completion request body")
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.ApiUrl+"/chat/completions", bytes.NewBuffer(payload))
	if err != nil {
		c.logger.Error(err, "Failed to create the completion request")
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.ApiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	return httpReq, nil
}
