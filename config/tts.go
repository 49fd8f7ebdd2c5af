package config

import (
	"fmt"
	"os"
	"strconv"
)

type TTSConfig struct {
	ApiUrl          string
	ApiKey          string
	ModelId         string
	DefaultVoice    string
	Stability       float64
	SimilarityBoost float64
}

func GetTTSConfig() (*TTSConfig, error) {
	apiUrl := os.Getenv("TTS_API_URL")
	if apiUrl == "" {
		return nil, fmt.Errorf("TTS_API_URL must be set")
	}
	apiKey := os.Getenv("TTS_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("TTS_API_KEY must be set")
	}
	modelId := os.Getenv("TTS_MODEL_ID")
	if modelId == "" {
		return nil, fmt.Errorf("TTS_MODEL_ID must be set")
	}
	voice := os.Getenv("TTS_DEFAULT_VOICE")
	if voice == "" {
		return nil, fmt.Errorf("TTS_DEFAULT_VOICE must be set")
	}
	stability := os.Getenv("TTS_STABILITY")
	if stability == "" {
		return nil, fmt.Errorf("TTS_STABILITY must be set")
	}
	stabilityVal, err := strconv.ParseFloat(stability, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTS_STABILITY")
	}
	similarityBoost := os.Getenv("TTS_SIMILARITY_BOOST")
	if similarityBoost == "" {
		return nil, fmt.Errorf("TTS_SIMILARITY_BOOST must be set")
	}
	similarityBoostVal, err := strconv.ParseFloat(similarityBoost, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTS_SIMILARITY_BOOST")
	}

	return &TTSConfig{
		ApiUrl:          apiUrl,
		ApiKey:          apiKey,
		ModelId:         modelId,
		DefaultVoice:    voice,
		Stability:       stabilityVal,
		SimilarityBoost: similarityBoostVal,
	}, nil
}
