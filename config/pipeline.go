package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type PipelineConfig struct {
	// WorkdirRoot is where job-scoped working directories live.
	WorkdirRoot string
	// MinutesPerSubtopic seeds the initial remaining-time estimate.
	MinutesPerSubtopic int
	// SlideDuration is the fixed per-image display time in the final video.
	SlideDuration time.Duration
	// CallsPerSecond limits LLM/TTS call rate per worker process.
	CallsPerSecond float64
}

func GetPipelineConfig() (*PipelineConfig, error) {
	workdirRoot := os.Getenv("PIPELINE_WORKDIR_ROOT")
	if workdirRoot == "" {
		workdirRoot = os.TempDir()
	}

	minutesPerSubtopic := 8
	if v := os.Getenv("PIPELINE_MINUTES_PER_SUBTOPIC"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("failed to parse PIPELINE_MINUTES_PER_SUBTOPIC")
		}
		minutesPerSubtopic = parsed
	}

	slideSeconds := 5
	if v := os.Getenv("PIPELINE_SLIDE_SECONDS"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("failed to parse PIPELINE_SLIDE_SECONDS")
		}
		slideSeconds = parsed
	}

	callsPerSecond := 0.5
	if v := os.Getenv("PIPELINE_CALLS_PER_SECOND"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("failed to parse PIPELINE_CALLS_PER_SECOND")
		}
		callsPerSecond = parsed
	}

	return &PipelineConfig{
		WorkdirRoot:        workdirRoot,
		MinutesPerSubtopic: minutesPerSubtopic,
		SlideDuration:      time.Duration(slideSeconds) * time.Second,
		CallsPerSecond:     callsPerSecond,
	}, nil
}
