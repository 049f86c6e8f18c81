package config

import (
	"os"

	"harestats/domain/core"
	"harestats/internal"
)

// Config represents the report command configuration. Only the command
// reads the environment; the pipeline packages take explicit values.
type Config struct {
	Data DataConfig
	Log  LogConfig
}

// DataConfig holds the input dataset settings.
type DataConfig struct {
	Path string // csv or xlsx file with the capture records
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level internal.LogLevel
}

const defaultDatasetPath = "data/bonanza_hares.csv"

// Load reads configuration from environment variables and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		Data: DataConfig{Path: getEnv("HARESTATS_DATASET", defaultDatasetPath)},
		Log:  LogConfig{Level: internal.ParseLogLevel(os.Getenv("LOG_LEVEL"))},
	}

	if cfg.Data.Path == "" {
		return nil, core.NewDataAccessError("HARESTATS_DATASET", os.ErrInvalid)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
