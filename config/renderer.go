package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type RendererConfig struct {
	// Binary is the markdown-to-image slide renderer CLI.
	Binary  string
	Timeout time.Duration
}

func GetRendererConfig() (*RendererConfig, error) {
	binary := os.Getenv("SLIDE_RENDERER_BINARY")
	if binary == "" {
		binary = "marp"
	}

	timeout := 60 * time.Second
	if v := os.Getenv("SLIDE_RENDERER_TIMEOUT_SECONDS"); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil || seconds <= 0 {
			return nil, fmt.Errorf("failed to parse SLIDE_RENDERER_TIMEOUT_SECONDS")
		}
		timeout = time.Duration(seconds) * time.Second
	}

	return &RendererConfig{
		Binary:  binary,
		Timeout: timeout,
	}, nil
}
