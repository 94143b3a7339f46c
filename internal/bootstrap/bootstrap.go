// Package bootstrap provides dependency initialization for the Lumina server.
package bootstrap

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/lukasclt/Lumina/internal/autocut"
	"github.com/lukasclt/Lumina/internal/config"
	"github.com/lukasclt/Lumina/internal/media"
	"github.com/lukasclt/Lumina/internal/project"
	"github.com/lukasclt/Lumina/internal/storage"
	"github.com/lukasclt/Lumina/internal/tools"
)

// Dependencies holds the initialized services behind the HTTP server.
type Dependencies struct {
	Projects *project.Service
	Cutter   *autocut.Service
	Assets   storage.Store
	Registry *tools.Registry
	Decoder  media.Decoder

	repo project.Repository
}

// NewDependencies creates and initializes all dependencies for the application.
func NewDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	store, err := initStorage(cfg, logger)
	if err != nil {
		return nil, err
	}

	repo, err := initRepository(cfg, logger)
	if err != nil {
		return nil, err
	}

	projects := project.NewService(repo, logger)
	decoder := media.NewFFmpegDecoder(cfg.FFmpegPath, cfg.FFprobePath)
	cutter := autocut.NewService(decoder, logger)
	registry := tools.NewRegistry(projects, cutter, store, logger)

	return &Dependencies{
		Projects: projects,
		Cutter:   cutter,
		Assets:   store,
		Registry: registry,
		Decoder:  decoder,
		repo:     repo,
	}, nil
}

// Close releases resources held by the dependency graph, like the project
// database connection.
func (d *Dependencies) Close() error {
	if c, ok := d.repo.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// initRepository creates the project store selected by the configuration.
func initRepository(cfg *config.Config, logger *slog.Logger) (project.Repository, error) {
	if cfg.Persistence == config.PersistenceMemory {
		logger.Info("in-memory project store configured")
		return project.NewMemoryRepository(), nil
	}

	repo, err := project.NewSQLiteRepository(cfg.DatabasePath(), logger)
	if err != nil {
		return nil, fmt.Errorf("open project database: %w", err)
	}
	logger.Info("sqlite project store configured",
		slog.String("path", cfg.DatabasePath()),
	)
	return repo, nil
}

// initStorage creates the appropriate asset store based on configuration.
func initStorage(cfg *config.Config, logger *slog.Logger) (storage.Store, error) {
	if cfg.S3Enabled() {
		s3Cfg := storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		}
		s3Store, err := storage.NewS3Store(cfg.AssetDir(), s3Cfg)
		if err != nil {
			return nil, fmt.Errorf("create S3 asset store: %w", err)
		}
		logger.Info("S3 asset store configured",
			slog.String("bucket", cfg.S3Bucket),
			slog.String("region", cfg.S3Region),
		)
		return s3Store, nil
	}

	localStore, err := storage.NewLocalStore(cfg.AssetDir())
	if err != nil {
		return nil, fmt.Errorf("create local asset store: %w", err)
	}
	logger.Info("local asset store configured",
		slog.String("dir", cfg.AssetDir()),
	)
	return localStore, nil
}
