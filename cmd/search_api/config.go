package main

import (
	"log/slog"
	"os"

	"github.com/DjordjeVuckovic/entity-search/internal/registry"
	"github.com/DjordjeVuckovic/entity-search/internal/storage/factory"
	"github.com/DjordjeVuckovic/entity-search/pkg/config/env"
)

type AppConfig struct {
	ENV string
}

func NewAppConfig() *AppConfig {
	return &AppConfig{
		ENV: os.Getenv("ENV"),
	}
}

type SearchAPIConfig struct {
	StorageConfig  factory.StorageConfig
	RegistryConfig registry.Config
	LogLevel       slog.Level
}

// LoadDotEnv must run before any other configuration is read.
func (as *AppConfig) LoadDotEnv() {
	err := env.LoadDotEnv(as.ENV, "cmd/search_api/.env")
	if err != nil {
		slog.Info("Failed to .env load environment variables, continuing with existing environment variables", "error", err)
	}
}

func (as *AppConfig) Load() (*SearchAPIConfig, error) {
	storageCfg, err := factory.LoadEnv()
	if err != nil {
		slog.Error("Failed to load storage configuration from environment", "error", err)
		return nil, err
	}

	registryCfg, err := registry.LoadEnv()
	if err != nil {
		slog.Error("Failed to load registry configuration from environment", "error", err)
		return nil, err
	}

	level := slog.LevelInfo
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		if err := level.UnmarshalText([]byte(raw)); err != nil {
			slog.Warn("Invalid LOG_LEVEL, using info", "value", raw)
			level = slog.LevelInfo
		}
	}

	return &SearchAPIConfig{
		StorageConfig:  *storageCfg,
		RegistryConfig: *registryCfg,
		LogLevel:       level,
	}, nil
}
