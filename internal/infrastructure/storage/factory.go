package storage

import (
	"context"
	"fmt"

	"github.com/PLAYZONE-UA/zlota-raczka/internal/infrastructure/config"
	"go.uber.org/zap"
)

// New creates the photo store selected by cfg.Driver
func New(ctx context.Context, cfg config.StorageConfig, maxSize int64, logger *zap.Logger) (PhotoStorage, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocalPhotoStorage(cfg.LocalDir, cfg.PublicPrefix, maxSize, logger)
	case "s3":
		s, err := NewS3PhotoStorage(ctx, cfg.S3, maxSize, WithLogger(logger))
		if err != nil {
			return nil, err
		}
		if err := s.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}
