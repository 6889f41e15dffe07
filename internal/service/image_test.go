package service_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/backend/internal/apperr"
	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/storage"
)

func TestImageService_SaveDataURI(t *testing.T) {
	root := t.TempDir()
	store, err := storage.NewLocalStorage(root, "/media/")
	require.NoError(t, err)
	svc := service.NewImageService(store)
	ctx := context.Background()

	key, err := svc.SaveDataURI(ctx, pngDataURI("not really a png"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "recipes/images/"))
	assert.True(t, strings.HasSuffix(key, ".png"))
	assert.Equal(t, "/media/"+key, svc.URL(key))

	data, err := os.ReadFile(filepath.Join(root, key))
	require.NoError(t, err)
	assert.Equal(t, "not really a png", string(data))

	svc.Delete(ctx, key)
	_, err = os.Stat(filepath.Join(root, key))
	assert.True(t, os.IsNotExist(err))
}

func TestImageService_RejectsBadInput(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir(), "/media")
	require.NoError(t, err)
	svc := service.NewImageService(store)

	tests := map[string]string{
		"not a data uri":   "https://example.com/cat.png",
		"unsupported type": "data:text/plain;base64,aGVsbG8=",
		"not base64":       "data:image/png;base64,@@@",
		"empty payload":    "data:image/png;base64,",
		"missing encoding": "data:image/png,aGVsbG8=",
	}
	for name, uri := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := svc.SaveDataURI(context.Background(), uri)
			assert.ErrorIs(t, err, apperr.ErrValidation)
		})
	}
}
