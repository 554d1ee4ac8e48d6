// Package config provides configuration loading from environment variables.
package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/sethvargo/go-envconfig"
)

// Config holds all configuration for the application.
type Config struct {
	// Server settings
	Port int `env:"PORT, default=8000" json:"port"`

	// Ark provider settings. The API key is optional: when it is absent the
	// generate endpoint is disabled but the rest of the service still runs.
	ArkAPIKey  string `env:"ARK_API_KEY" json:"-"` // Masked in JSON
	ArkBaseURL string `env:"ARK_BASE_URL, default=https://ark.ap-southeast.bytepluses.com/api/v3/contents/generations/tasks" json:"ark_base_url"`
	ArkModel   string `env:"ARK_MODEL, default=seedance-1-0-lite-t2v-250428" json:"ark_model"`

	// Persistence settings
	DatabasePath string `env:"DATABASE_PATH, default=videogen.db" json:"database_path"`

	// Thumbnail settings
	ThumbnailDir string `env:"THUMBNAIL_DIR, default=thumbnails" json:"thumbnail_dir"`
	TempDir      string `env:"TEMP_DIR, default=/tmp/videogen" json:"temp_dir"`

	// Optional S3 settings for thumbnail hosting
	S3Bucket           string `env:"S3_BUCKET" json:"s3_bucket,omitempty"`
	S3Region           string `env:"S3_REGION" json:"s3_region,omitempty"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID" json:"-"`     // Masked in JSON
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" json:"-"` // Masked in JSON

	// Logging settings
	LogFormat string `env:"LOG_FORMAT, default=text" json:"log_format"` // "json" or "text"
	LogLevel  string `env:"LOG_LEVEL, default=info" json:"log_level"`   // "debug", "info", "warn", "error"
}

// ArkEnabled returns true if the Ark API key is configured.
func (c *Config) ArkEnabled() bool {
	return c.ArkAPIKey != ""
}

// S3Enabled returns true if S3 configuration is provided.
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != "" && c.S3Region != ""
}

// Load reads configuration from environment variables using go-envconfig.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := envconfig.Process(context.Background(), cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// NewLogger creates a structured logger based on the configuration.
// When LogFormat is "json", it outputs JSON logs suitable for production.
// Otherwise, it outputs human-readable text logs.
func (c *Config) NewLogger() *slog.Logger {
	level := parseLogLevel(c.LogLevel)

	var handler slog.Handler
	if strings.ToLower(c.LogFormat) == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}

	return slog.New(handler)
}

// String returns a string representation of the config with sensitive values masked.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Port: %d, ArkBaseURL: %s, ArkModel: %s, DatabasePath: %s, ThumbnailDir: %s, TempDir: %s, S3Bucket: %s, S3Region: %s, LogFormat: %s, LogLevel: %s}",
		c.Port,
		c.ArkBaseURL,
		c.ArkModel,
		c.DatabasePath,
		c.ThumbnailDir,
		c.TempDir,
		c.S3Bucket,
		c.S3Region,
		c.LogFormat,
		c.LogLevel,
	)
}

// parseLogLevel converts a string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
