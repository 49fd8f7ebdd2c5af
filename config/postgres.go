package config

import (
	"fmt"
	"os"
)

type PostgresConfig struct {
	DSN string
}

func GetPostgresConfig() (*PostgresConfig, error) {
	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		return nil, fmt.Errorf("POSTGRES_DSN must be set")
	}
	return &PostgresConfig{DSN: dsn}, nil
}
