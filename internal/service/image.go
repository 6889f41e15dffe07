package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/apperr"
	"github.com/foodgram/backend/internal/logger"
	"github.com/foodgram/backend/internal/storage"
)

const (
	recipeImagePrefix = "recipes/images"
	maxImageBytes     = 5 << 20
)

var imageExtensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// ImageService stores recipe images uploaded as base64 data URIs.
type ImageService struct {
	store storage.Storage
}

// NewImageService creates a new ImageService instance
func NewImageService(store storage.Storage) *ImageService {
	return &ImageService{store: store}
}

// SaveDataURI decodes a "data:image/<kind>;base64,<payload>" string, writes it
// to storage and returns the object key.
func (s *ImageService) SaveDataURI(ctx context.Context, dataURI string) (string, error) {
	contentType, payload, err := parseDataURI(dataURI)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s/%s.%s", recipeImagePrefix, uuid.NewString(), imageExtensions[contentType])
	if err := s.store.Write(ctx, key, bytes.NewReader(payload), int64(len(payload)), contentType); err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}

	logger.Ctx(ctx).Debug().Str("key", key).Int("bytes", len(payload)).Msg("stored recipe image")
	return key, nil
}

// Delete removes a stored image. Failures are logged, not returned.
func (s *ImageService) Delete(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.store.Delete(ctx, key); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("failed to delete recipe image")
	}
}

func (s *ImageService) URL(key string) string {
	return s.store.URL(key)
}

func parseDataURI(dataURI string) (string, []byte, error) {
	header, data, ok := strings.Cut(dataURI, ",")
	if !ok || !strings.HasPrefix(header, "data:") || !strings.HasSuffix(header, ";base64") {
		return "", nil, apperr.Validation("image", "image must be a base64 data URI")
	}

	contentType := strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
	if _, ok := imageExtensions[contentType]; !ok {
		return "", nil, apperr.Validation("image", "unsupported image type %q", contentType)
	}

	payload, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", nil, apperr.Validation("image", "image is not valid base64")
	}
	if len(payload) == 0 {
		return "", nil, apperr.Validation("image", "image is empty")
	}
	if len(payload) > maxImageBytes {
		return "", nil, apperr.Validation("image", "image exceeds %d bytes", maxImageBytes)
	}
	return contentType, payload, nil
}
