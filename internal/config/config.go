package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Port string

	// Auth
	EdgezoneAPIKey string

	// Worker pool
	WorkerCount int

	// Upload limits
	MaxUploadBytes int64

	// Zone fill preset applied to converted boards
	ZonePreset string

	// Preview rendering
	RenderSize int
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		EdgezoneAPIKey: os.Getenv("EDGEZONE_API_KEY"),

		WorkerCount: envInt("WORKER_COUNT", 4),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 33554432), // 32MB

		ZonePreset: os.Getenv("ZONE_PRESET"),

		RenderSize: envInt("RENDER_SIZE", 1024),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 33554432
	}
	if cfg.RenderSize <= 0 {
		cfg.RenderSize = 1024
	}

	return cfg
}

func (c Config) Validate() error {
	if c.EdgezoneAPIKey == "" {
		return fmt.Errorf("EDGEZONE_API_KEY is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}
