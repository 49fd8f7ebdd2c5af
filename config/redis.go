package config

import (
	"fmt"
	"os"
)

type RedisConfig struct {
	Addr     string
	Password string
}

func GetRedisConfig() (*RedisConfig, error) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return nil, fmt.Errorf("REDIS_ADDR must be set")
	}
	return &RedisConfig{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	}, nil
}
