package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yunlin/oldtown/config"
)

func TestLocalStorePutDelete(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStore(dir, "/uploads/")
	require.NoError(t, err)

	ctx := context.Background()
	url, err := s.Put(ctx, "photos/p1/a.jpg", []byte("jpeg"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/photos/p1/a.jpg", url)

	b, err := os.ReadFile(filepath.Join(dir, "photos", "p1", "a.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", string(b))

	require.NoError(t, s.Delete(ctx, "photos/p1/a.jpg"))
	_, err = os.Stat(filepath.Join(dir, "photos", "p1", "a.jpg"))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, s.Delete(ctx, "photos/p1/a.jpg"))
}

func TestLocalStoreKeepsKeysInsideDir(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStore(dir, "/uploads")
	require.NoError(t, err)

	_, err = s.Put(context.Background(), "../../escape.jpg", []byte("x"), "image/jpeg")
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "escape.jpg"))
	assert.NoError(t, err)

	_, err = s.Put(context.Background(), "", []byte("x"), "image/jpeg")
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	s, err := Open(context.Background(), config.AppConfig{ImageStore: "local", UploadDir: t.TempDir(), UploadURLPrefix: "/uploads"})
	require.NoError(t, err)
	assert.IsType(t, &LocalStore{}, s)

	_, err = Open(context.Background(), config.AppConfig{ImageStore: "s3"})
	assert.Error(t, err)

	_, err = Open(context.Background(), config.AppConfig{ImageStore: "ftp"})
	assert.Error(t, err)
}
