package config

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "/tmp/lumina", cfg.DataDir)
	assert.Equal(t, PersistenceSQLite, cfg.Persistence)
	assert.Equal(t, "ffmpeg", cfg.FFmpegPath)
	assert.Equal(t, "ffprobe", cfg.FFprobePath)
	assert.Equal(t, 30.0, cfg.FrameRate)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.S3Enabled())
}

func TestLoad_CustomValues(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("DATA_DIR", "/custom/data")
	t.Setenv("PERSISTENCE", "memory")
	t.Setenv("DB_PATH", "/custom/projects.db")
	t.Setenv("FFMPEG_PATH", "/opt/ffmpeg/bin/ffmpeg")
	t.Setenv("FRAME_RATE", "23.976")
	t.Setenv("S3_BUCKET", "my-bucket")
	t.Setenv("S3_REGION", "us-east-1")
	t.Setenv("S3_ENDPOINT", "http://minio:9000")
	t.Setenv("AWS_ACCESS_KEY_ID", "access-key")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret-key")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "/custom/data", cfg.DataDir)
	assert.Equal(t, PersistenceMemory, cfg.Persistence)
	assert.Equal(t, "/custom/projects.db", cfg.DBPath)
	assert.Equal(t, "/opt/ffmpeg/bin/ffmpeg", cfg.FFmpegPath)
	assert.Equal(t, 23.976, cfg.FrameRate)
	assert.Equal(t, "my-bucket", cfg.S3Bucket)
	assert.Equal(t, "us-east-1", cfg.S3Region)
	assert.Equal(t, "http://minio:9000", cfg.S3Endpoint)
	assert.Equal(t, "access-key", cfg.AWSAccessKeyID)
	assert.Equal(t, "secret-key", cfg.AWSSecretAccessKey)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.S3Enabled())
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Run("non-numeric port", func(t *testing.T) {
		t.Setenv("PORT", "not-a-number")

		_, err := Load()
		require.Error(t, err)
	})

	t.Run("unknown persistence backend", func(t *testing.T) {
		t.Setenv("PERSISTENCE", "postgres")

		_, err := Load()
		assert.ErrorIs(t, err, ErrInvalidPersistence)
	})

	t.Run("bucket without region", func(t *testing.T) {
		t.Setenv("S3_BUCKET", "my-bucket")

		_, err := Load()
		assert.ErrorIs(t, err, ErrIncompleteS3Config)
	})

	t.Run("zero frame rate", func(t *testing.T) {
		t.Setenv("FRAME_RATE", "0")

		_, err := Load()
		assert.ErrorIs(t, err, ErrInvalidFrameRate)
	})
}

func TestConfig_S3Enabled(t *testing.T) {
	tests := []struct {
		name     string
		bucket   string
		region   string
		expected bool
	}{
		{"both set", "bucket", "region", true},
		{"only bucket", "bucket", "", false},
		{"only region", "", "region", false},
		{"neither set", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				S3Bucket: tt.bucket,
				S3Region: tt.region,
			}
			assert.Equal(t, tt.expected, cfg.S3Enabled())
		})
	}
}

func TestConfig_DerivedPaths(t *testing.T) {
	cfg := &Config{DataDir: "/var/lib/lumina"}
	assert.Equal(t, filepath.Join("/var/lib/lumina", "lumina.db"), cfg.DatabasePath())
	assert.Equal(t, filepath.Join("/var/lib/lumina", "assets"), cfg.AssetDir())

	cfg.DBPath = "/elsewhere/projects.db"
	assert.Equal(t, "/elsewhere/projects.db", cfg.DatabasePath())
}

func TestConfig_String(t *testing.T) {
	cfg := &Config{
		Port:               8080,
		DataDir:            "/tmp/test",
		Persistence:        PersistenceSQLite,
		FFmpegPath:         "ffmpeg",
		FrameRate:          30,
		S3Bucket:           "bucket",
		S3Region:           "region",
		AWSAccessKeyID:     "access-key",
		AWSSecretAccessKey: "secret-key",
		LogFormat:          "json",
		LogLevel:           "info",
	}

	str := cfg.String()

	// Should contain non-sensitive values
	assert.Contains(t, str, "8080")
	assert.Contains(t, str, "/tmp/test")
	assert.Contains(t, str, "bucket")

	// Should NOT contain sensitive values
	assert.NotContains(t, str, "access-key")
	assert.NotContains(t, str, "secret-key")
}

func TestConfig_NewLogger_JSON(t *testing.T) {
	cfg := &Config{
		LogFormat: "json",
		LogLevel:  "info",
	}

	logger := cfg.NewLogger()
	require.NotNil(t, logger)

	// Capture output to verify it's JSON
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, nil)
	testLogger := slog.New(handler)
	testLogger.Info("test message")

	// Should have JSON structure
	assert.Contains(t, buf.String(), `"msg"`)
	assert.Contains(t, buf.String(), "test message")
}

func TestConfig_NewLogger_Text(t *testing.T) {
	cfg := &Config{
		LogFormat: "text",
		LogLevel:  "debug",
	}

	logger := cfg.NewLogger()
	require.NotNil(t, logger)
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"unknown", slog.LevelInfo}, // defaults to info
		{"", slog.LevelInfo},        // defaults to info
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLogLevel(tt.input))
		})
	}
}
