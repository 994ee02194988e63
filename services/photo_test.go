package services

import (
	"bytes"
	"context"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yunlin/oldtown/models"
	"github.com/yunlin/oldtown/storage"
	"github.com/yunlin/oldtown/store"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.NRGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestCompressImage(t *testing.T) {
	out, w, h, err := CompressImage(pngBytes(t, 2400, 1200), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1200, w)
	assert.Equal(t, 600, h)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 1200, cfg.Width)
	assert.Equal(t, 600, cfg.Height)

	_, w, h, err = CompressImage(pngBytes(t, 300, 1500), 1200, 80)
	require.NoError(t, err)
	assert.Equal(t, 240, w)
	assert.Equal(t, 1200, h)

	_, w, h, err = CompressImage(pngBytes(t, 40, 30), 1200, 80)
	require.NoError(t, err)
	assert.Equal(t, 40, w)
	assert.Equal(t, 30, h)

	_, _, _, err = CompressImage([]byte("not an image"), 1200, 80)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

// pngWithHeaderSize encodes a 1x1 PNG and rewrites its IHDR to claim w x h pixels.
func pngWithHeaderSize(t *testing.T, w, h uint32) []byte {
	t.Helper()
	b := pngBytes(t, 1, 1)
	// 8 byte signature, 4 byte length, "IHDR", then width and height
	binary.BigEndian.PutUint32(b[16:20], w)
	binary.BigEndian.PutUint32(b[20:24], h)
	binary.BigEndian.PutUint32(b[29:33], crc32.ChecksumIEEE(b[12:29]))
	return b
}

func TestCompressImageRejectsHugeDimensions(t *testing.T) {
	src := pngWithHeaderSize(t, 16000, 16000)
	cfg, err := png.DecodeConfig(bytes.NewReader(src))
	require.NoError(t, err)
	require.Equal(t, 16000, cfg.Width)

	_, _, _, err = CompressImage(src, 1200, 80)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, _, _, err = CompressImage(pngWithHeaderSize(t, 100000, 401), 1200, 80)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func newTestPhotoWall(t *testing.T) (*PhotoWall, *storage.LocalStore) {
	t.Helper()
	objects, err := storage.NewLocalStore(t.TempDir(), "/uploads")
	require.NoError(t, err)
	return NewPhotoWall(store.NewMemoryStore(), objects), objects
}

func upload(t *testing.T, location string) PhotoUpload {
	return PhotoUpload{
		LocationID:   location,
		LocationName: "Old Street",
		Category:     models.CategoryCulture,
		Caption:      "<b>sunset</b>",
		Username:     "walker",
		Level:        3,
		Image:        pngBytes(t, 64, 48),
	}
}

func objectExists(s *storage.LocalStore, key string) bool {
	_, err := os.Stat(filepath.Join(s.Dir(), key))
	return err == nil
}

func TestPhotoAdd(t *testing.T) {
	wall, objects := newTestPhotoWall(t)
	ctx := context.Background()

	p, err := wall.Add(ctx, "p1", upload(t, "old-street"))
	require.NoError(t, err)
	assert.Equal(t, "sunset", p.Caption)
	assert.Equal(t, models.FilterNone, p.Filter)
	assert.Equal(t, "/uploads/"+p.ImageKey, p.ImageURL)
	assert.Equal(t, 64, p.Width)
	assert.True(t, objectExists(objects, p.ImageKey))

	list, err := wall.List(ctx, "p1", PhotoQuery{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, p.ImageKey, list[0].ImageKey)
}

func TestPhotoWallIsCapped(t *testing.T) {
	wall, objects := newTestPhotoWall(t)
	wall.limit = 3
	ctx := context.Background()

	var added []*models.Photo
	for _, loc := range []string{"a", "b", "c", "d"} {
		p, err := wall.Add(ctx, "p1", upload(t, loc))
		require.NoError(t, err)
		added = append(added, p)
	}

	list, err := wall.List(ctx, "p1", PhotoQuery{})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "d", list[0].LocationID)
	assert.Equal(t, "b", list[2].LocationID)
	assert.False(t, objectExists(objects, added[0].ImageKey))
	assert.True(t, objectExists(objects, added[1].ImageKey))
}

func TestPhotoUploadValidation(t *testing.T) {
	wall, _ := newTestPhotoWall(t)
	wall.WithMaxUpload(1)
	ctx := context.Background()

	up := upload(t, "a")
	up.Image = []byte("plain text is not an image")
	_, err := wall.Add(ctx, "p1", up)
	assert.ErrorIs(t, err, ErrInvalidInput)

	up = upload(t, "a")
	up.Image = make([]byte, 1<<20+1)
	_, err = wall.Add(ctx, "p1", up)
	assert.ErrorIs(t, err, ErrInvalidInput)

	up = upload(t, "a")
	up.Filter = "sepia"
	_, err = wall.Add(ctx, "p1", up)
	assert.ErrorIs(t, err, ErrInvalidInput)

	up = upload(t, "a")
	up.Category = "nightlife"
	_, err = wall.Add(ctx, "p1", up)
	assert.ErrorIs(t, err, ErrInvalidCategory)

	up = upload(t, "")
	_, err = wall.Add(ctx, "p1", up)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPhotoLikeListDelete(t *testing.T) {
	wall, objects := newTestPhotoWall(t)
	ctx := context.Background()

	first, err := wall.Add(ctx, "p1", upload(t, "a"))
	require.NoError(t, err)
	up := upload(t, "b")
	up.Category = models.CategoryFood
	up.Filter = models.FilterNeon
	second, err := wall.Add(ctx, "p1", up)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err = wall.Like(ctx, "p1", first.ID)
		require.NoError(t, err)
	}
	liked, err := wall.Like(ctx, "p1", first.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, liked.Likes)

	_, err = wall.Like(ctx, "p1", "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	byLocation, err := wall.List(ctx, "p1", PhotoQuery{LocationID: "b"})
	require.NoError(t, err)
	require.Len(t, byLocation, 1)
	assert.Equal(t, models.FilterNeon, byLocation[0].Filter)

	byCategory, err := wall.List(ctx, "p1", PhotoQuery{Category: models.CategoryCulture})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, first.ID, byCategory[0].ID)

	require.NoError(t, wall.Delete(ctx, "p1", second.ID))
	assert.False(t, objectExists(objects, second.ImageKey))
	assert.ErrorIs(t, wall.Delete(ctx, "p1", second.ID), ErrNotFound)

	others, err := wall.List(ctx, "p2", PhotoQuery{})
	require.NoError(t, err)
	assert.Empty(t, others)
}
