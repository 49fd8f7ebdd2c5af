package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type QueueConfig struct {
	// Concurrency is the worker pool size across jobs. One job stays
	// strictly sequential; parallelism only exists across courses.
	Concurrency int
	// Attempts is the total execution budget per job, first run included.
	Attempts    int
	BackoffBase time.Duration
}

func GetQueueConfig() (*QueueConfig, error) {
	concurrency := 4
	if v := os.Getenv("QUEUE_CONCURRENCY"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("failed to parse QUEUE_CONCURRENCY")
		}
		concurrency = parsed
	}
	return &QueueConfig{
		Concurrency: concurrency,
		Attempts:    3,
		BackoffBase: 2000 * time.Millisecond,
	}, nil
}
