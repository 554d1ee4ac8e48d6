// Package bootstrap provides dependency initialization for the VideoGen API.
package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/videogen/videogen-api/internal/ark"
	"github.com/videogen/videogen-api/internal/config"
	"github.com/videogen/videogen-api/internal/job"
	"github.com/videogen/videogen-api/internal/storage"
	"github.com/videogen/videogen-api/internal/thumbnail"
	"github.com/videogen/videogen-api/internal/ws"
)

// Dependencies holds all initialized dependencies for the HTTP server.
type Dependencies struct {
	JobService *job.Service
	Hub        *ws.Hub
	Repository *job.SQLiteRepository
}

// Close releases resources held by the dependencies.
func (d *Dependencies) Close() error {
	return d.Repository.Close()
}

// NewDependencies creates and initializes all dependencies for the application.
func NewDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	store, err := initStorage(cfg, logger)
	if err != nil {
		return nil, err
	}

	// The Ark client is optional: without an API key the generate endpoint is
	// disabled but status, history, delete, and websockets keep working.
	var provider ark.Client
	if cfg.ArkEnabled() {
		client, err := ark.NewClient(
			ark.WithAPIKey(cfg.ArkAPIKey),
			ark.WithBaseURL(cfg.ArkBaseURL),
			ark.WithModel(cfg.ArkModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create Ark client: %w", err)
		}
		provider = client
		logger.Info("Ark API key loaded")
	} else {
		logger.Warn("Ark API key NOT found, generate endpoint disabled")
	}

	repo, err := job.OpenSQLiteRepository(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open job repository: %w", err)
	}

	extractor := thumbnail.NewFFmpegExtractor(store)
	hub := ws.NewHub(logger)

	svc := job.NewService(repo, provider, extractor, hub, logger)

	return &Dependencies{
		JobService: svc,
		Hub:        hub,
		Repository: repo,
	}, nil
}

// initStorage creates the appropriate storage backend based on configuration.
func initStorage(cfg *config.Config, logger *slog.Logger) (storage.Storage, error) {
	if cfg.S3Enabled() {
		s3Cfg := storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		}
		s3Store, err := storage.NewS3Storage(cfg.TempDir, s3Cfg)
		if err != nil {
			return nil, fmt.Errorf("create S3 storage: %w", err)
		}
		logger.Info("S3 thumbnail storage configured",
			slog.String("bucket", cfg.S3Bucket),
			slog.String("region", cfg.S3Region),
		)
		return s3Store, nil
	}

	localStore, err := storage.NewLocalStorage(cfg.TempDir, cfg.ThumbnailDir)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}
	logger.Info("local thumbnail storage configured",
		slog.String("temp_dir", cfg.TempDir),
		slog.String("thumbnail_dir", cfg.ThumbnailDir),
	)
	return localStore, nil
}
