package config

import (
	"fmt"
	"os"
)

type LLMConfig struct {
	ApiUrl         string
	ApiKey         string
	Model          string
	EmbeddingModel string
}

func GetLLMConfig() (*LLMConfig, error) {
	apiUrl := os.Getenv("LLM_API_URL")
	if apiUrl == "" {
		return nil, fmt.Errorf("LLM_API_URL must be set")
	}
	apiKey := os.Getenv("LLM_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("LLM_API_KEY must be set")
	}
	model := os.Getenv("LLM_MODEL")
	if model == "" {
		return nil, fmt.Errorf("LLM_MODEL must be set")
	}
	embeddingModel := os.Getenv("LLM_EMBEDDING_MODEL")
	if embeddingModel == "" {
		return nil, fmt.Errorf("LLM_EMBEDDING_MODEL must be set")
	}
	return &LLMConfig{
		ApiUrl:         apiUrl,
		ApiKey:         apiKey,
		Model:          model,
		EmbeddingModel: embeddingModel,
	}, nil
}
