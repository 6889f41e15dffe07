package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/backend/config"
)

func TestLocalStorageWriteAndDelete(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalStorage(root, "/media/")
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, s.Write(ctx, "recipes/images/a.png", strings.NewReader("png-bytes"), 9, "image/png"))

	data, err := os.ReadFile(filepath.Join(root, "recipes", "images", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
	assert.Equal(t, "/media/recipes/images/a.png", s.URL("recipes/images/a.png"))

	require.NoError(t, s.Delete(ctx, "recipes/images/a.png"))
	_, err = os.Stat(filepath.Join(root, "recipes", "images", "a.png"))
	assert.True(t, os.IsNotExist(err))

	// deleting a missing object is not an error
	assert.NoError(t, s.Delete(ctx, "recipes/images/a.png"))
}

func TestLocalStorageKeepsKeysInsideRoot(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalStorage(filepath.Join(root, "media"), "/media")
	require.NoError(t, err)

	require.NoError(t, s.Write(context.Background(), "../escape.txt", strings.NewReader("x"), 1, ""))
	_, err = os.Stat(filepath.Join(root, "escape.txt"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(root, "media", "escape.txt"))
	assert.NoError(t, err)
}

type mockObjectAPI struct {
	mock.Mock
}

func (m *mockObjectAPI) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	body, _ := io.ReadAll(in.Body)
	args := m.Called(*in.Bucket, *in.Key, string(body))
	return &s3.PutObjectOutput{}, args.Error(0)
}

func (m *mockObjectAPI) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := m.Called(*in.Bucket, *in.Key)
	return &s3.DeleteObjectOutput{}, args.Error(0)
}

func TestS3Storage(t *testing.T) {
	api := new(mockObjectAPI)
	api.On("PutObject", "images", "recipes/images/b.jpg", "jpeg").Return(nil)
	api.On("DeleteObject", "images", "recipes/images/b.jpg").Return(nil)

	s := NewS3StorageWithClient(api, "images", "https://cdn.example.com/")
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, "recipes/images/b.jpg", strings.NewReader("jpeg"), 4, "image/jpeg"))
	require.NoError(t, s.Delete(ctx, "recipes/images/b.jpg"))
	assert.Equal(t, "https://cdn.example.com/recipes/images/b.jpg", s.URL("recipes/images/b.jpg"))
	api.AssertExpectations(t)
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	_, err := New(context.Background(), config.StorageConfig{Driver: "ftp"})
	assert.Error(t, err)
}
