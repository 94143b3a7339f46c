// Package config provides configuration loading from environment variables.
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/sethvargo/go-envconfig"
)

// Persistence backends for project documents.
const (
	PersistenceSQLite = "sqlite"
	PersistenceMemory = "memory"
)

// Static errors for configuration validation.
var (
	// ErrInvalidPersistence is returned when PERSISTENCE names an unknown backend.
	ErrInvalidPersistence = errors.New("config: PERSISTENCE must be \"sqlite\" or \"memory\"")
	// ErrIncompleteS3Config is returned when only one of S3_BUCKET and S3_REGION is set.
	ErrIncompleteS3Config = errors.New("config: S3_BUCKET and S3_REGION must be set together")
	// ErrInvalidFrameRate is returned when FRAME_RATE is zero or negative.
	ErrInvalidFrameRate = errors.New("config: FRAME_RATE must be positive")
)

// Config holds all configuration for the application.
type Config struct {
	// Server settings
	Port int `env:"PORT, default=8080" json:"port"`

	// Data settings
	DataDir     string `env:"DATA_DIR, default=/tmp/lumina" json:"data_dir"`
	Persistence string `env:"PERSISTENCE, default=sqlite" json:"persistence"` // "sqlite" or "memory"
	DBPath      string `env:"DB_PATH" json:"db_path,omitempty"`               // defaults to DATA_DIR/lumina.db

	// Media tool settings
	FFmpegPath  string `env:"FFMPEG_PATH, default=ffmpeg" json:"ffmpeg_path"`
	FFprobePath string `env:"FFPROBE_PATH, default=ffprobe" json:"ffprobe_path"`

	// Editor settings
	FrameRate float64 `env:"FRAME_RATE, default=30" json:"frame_rate"` // export timecode rate

	// Optional S3 settings for asset storage
	S3Bucket           string `env:"S3_BUCKET" json:"s3_bucket,omitempty"`
	S3Region           string `env:"S3_REGION" json:"s3_region,omitempty"`
	S3Endpoint         string `env:"S3_ENDPOINT" json:"s3_endpoint,omitempty"` // for S3-compatible stores
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID" json:"-"`               // Masked in JSON
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" json:"-"`           // Masked in JSON

	// Logging settings
	LogFormat string `env:"LOG_FORMAT, default=text" json:"log_format"` // "json" or "text"
	LogLevel  string `env:"LOG_LEVEL, default=info" json:"log_level"`   // "debug", "info", "warn", "error"
}

// S3Enabled returns true if S3 configuration is provided.
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != "" && c.S3Region != ""
}

// DatabasePath returns the SQLite file location, deriving it from DataDir
// when DB_PATH is not set.
func (c *Config) DatabasePath() string {
	if c.DBPath != "" {
		return c.DBPath
	}
	return filepath.Join(c.DataDir, "lumina.db")
}

// AssetDir returns the directory uploaded media lands in. S3-backed stores
// use it as their local cache.
func (c *Config) AssetDir() string {
	return filepath.Join(c.DataDir, "assets")
}

// Load reads configuration from environment variables using go-envconfig.
// It returns an error when a variable fails to parse or validate.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := envconfig.Process(context.Background(), cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration for inconsistent values.
func (c *Config) Validate() error {
	switch c.Persistence {
	case PersistenceSQLite, PersistenceMemory:
	default:
		return ErrInvalidPersistence
	}
	if (c.S3Bucket == "") != (c.S3Region == "") {
		return ErrIncompleteS3Config
	}
	if c.FrameRate <= 0 {
		return ErrInvalidFrameRate
	}
	return nil
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
		"Config{Port: %d, DataDir: %s, Persistence: %s, DBPath: %s, FFmpegPath: %s, FrameRate: %g, S3Bucket: %s, S3Region: %s, LogFormat: %s, LogLevel: %s}",
		c.Port,
		c.DataDir,
		c.Persistence,
		c.DatabasePath(),
		c.FFmpegPath,
		c.FrameRate,
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
