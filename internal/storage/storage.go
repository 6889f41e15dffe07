// Package storage persists uploaded recipe images.
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/foodgram/backend/config"
)

// Storage writes and removes image objects addressed by key.
type Storage interface {
	// Write stores r under key. size is -1 when unknown.
	Write(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	// URL renders the public reference for key.
	URL(key string) string
}

// New builds the backend selected by cfg.Driver.
func New(ctx context.Context, cfg config.StorageConfig) (Storage, error) {
	switch cfg.Driver {
	case config.StorageS3:
		return NewS3Storage(ctx, cfg)
	case config.StorageLocal:
		return NewLocalStorage(cfg.LocalPath, cfg.PublicURL)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}
