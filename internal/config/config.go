// Package config loads and validates the service configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	AppEnv string `env:"APP_ENV" default:"development"`
	Port   string `env:"PORT" default:"8080"`

	YouTubeAPIKey     string `env:"YOUTUBE_API_KEY"`
	YouTubeAPIBaseURL string `env:"YOUTUBE_API_URL" default:"https://www.googleapis.com/youtube/v3"`

	// RedisURL is optional; when empty the seen-video cache is in-memory.
	RedisURL string `env:"REDIS_URL"`

	PollInterval      time.Duration `env:"POLL_INTERVAL" default:"10s"`
	HeartbeatInterval time.Duration `env:"HEARTBEAT_INTERVAL" default:"30s"`
	GatewayTimeout    time.Duration `env:"GATEWAY_TIMEOUT" default:"8s"`

	SearchMaxResults  int `env:"SEARCH_MAX_RESULTS" default:"10"`
	SeenCacheCapacity int `env:"SEEN_CACHE_CAPACITY" default:"200"`
	MaxClients        int `env:"MAX_CLIENTS" default:"10000"`

	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.YouTubeAPIKey == "" {
		return fmt.Errorf("YOUTUBE_API_KEY is required")
	}
	if cfg.PollInterval <= 0 {
		return fmt.Errorf("POLL_INTERVAL must be positive, got %s", cfg.PollInterval)
	}
	if cfg.HeartbeatInterval <= 0 {
		return fmt.Errorf("HEARTBEAT_INTERVAL must be positive, got %s", cfg.HeartbeatInterval)
	}
	if cfg.SearchMaxResults < 1 || cfg.SearchMaxResults > 50 {
		return fmt.Errorf("SEARCH_MAX_RESULTS must be between 1 and 50, got %d", cfg.SearchMaxResults)
	}
	if cfg.SeenCacheCapacity < 1 {
		return fmt.Errorf("SEEN_CACHE_CAPACITY must be positive, got %d", cfg.SeenCacheCapacity)
	}
	return nil
}
