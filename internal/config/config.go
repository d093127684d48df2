// Package config loads configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all client configuration.
type Config struct {
	// Server
	ServerURL      string
	RequestTimeout time.Duration

	// Logging
	LogLevel  string
	LogFormat string
	LogFile   string

	// Auth
	TokenFile string

	// Browsing
	PageSize       int
	CacheTTL       time.Duration
	SearchDebounce time.Duration

	// Uploads
	UploadConcurrency int
}

// Load reads configuration from environment variables with defaults.
func Load() (*Config, error) {
	cfg := &Config{
		ServerURL:         envOr("LUMAPIX_SERVER", ""),
		RequestTimeout:    envDuration("LUMAPIX_REQUEST_TIMEOUT", 30*time.Second),
		LogLevel:          envOr("LOG_LEVEL", "info"),
		LogFormat:         envOr("LOG_FORMAT", "json"),
		LogFile:           envOr("LOG_FILE", ""),
		TokenFile:         envOr("LUMAPIX_TOKEN_FILE", ""),
		PageSize:          envInt("LUMAPIX_PAGE_SIZE", 50),
		CacheTTL:          envDuration("LUMAPIX_CACHE_TTL", 60*time.Second),
		SearchDebounce:    envDuration("LUMAPIX_SEARCH_DEBOUNCE", 300*time.Millisecond),
		UploadConcurrency: envInt("LUMAPIX_UPLOAD_CONCURRENCY", 3),
	}

	if cfg.ServerURL == "" {
		return nil, fmt.Errorf("LUMAPIX_SERVER is required")
	}
	if cfg.PageSize < 1 || cfg.PageSize > 100 {
		return nil, fmt.Errorf("LUMAPIX_PAGE_SIZE must be between 1 and 100")
	}
	if cfg.UploadConcurrency < 1 {
		cfg.UploadConcurrency = 1
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
