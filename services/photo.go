package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yunlin/oldtown/models"
	"github.com/yunlin/oldtown/storage"
	"github.com/yunlin/oldtown/store"
	"github.com/yunlin/oldtown/utils"
)

const (
	MaxPhotos          = 100
	MaxCaptionLength   = 200
	DefaultMaxUploadMB = 10
)

// PhotoUpload is a new photo before compression.
type PhotoUpload struct {
	LocationID   string
	LocationName string
	Category     models.Category
	Caption      string
	Username     string
	Level        int
	Filter       models.PhotoFilter
	Image        []byte
}

// PhotoQuery filters List. Empty fields match everything.
type PhotoQuery struct {
	LocationID string
	Category   models.Category
}

// PhotoWall is a capped most-recent-first photo collection per player.
// The MaxPhotos cap applies to each player's own wall, not across players: a wall is one
// player's own collection and is never shared.
type PhotoWall struct {
	store    store.Store
	images   storage.ObjectStore
	locks    *utils.KeyedMutex
	now      func() time.Time
	limit    int
	maxEdge  int
	quality  int
	maxBytes int
}

func NewPhotoWall(s store.Store, images storage.ObjectStore) *PhotoWall {
	return &PhotoWall{
		store:    s,
		images:   images,
		locks:    utils.NewKeyedMutex(64),
		now:      time.Now,
		limit:    MaxPhotos,
		maxEdge:  DefaultMaxImageEdge,
		quality:  DefaultJPEGQuality,
		maxBytes: DefaultMaxUploadMB << 20,
	}
}

// WithCompression sets the long edge cap and JPEG quality.
func (w *PhotoWall) WithCompression(maxEdge, quality int) *PhotoWall {
	if maxEdge > 0 {
		w.maxEdge = maxEdge
	}
	if quality > 0 {
		w.quality = quality
	}
	return w
}

// WithMaxUpload sets the largest accepted upload in megabytes.
func (w *PhotoWall) WithMaxUpload(mb int) *PhotoWall {
	if mb > 0 {
		w.maxBytes = mb << 20
	}
	return w
}

// MaxUploadBytes is the largest accepted upload.
func (w *PhotoWall) MaxUploadBytes() int { return w.maxBytes }

// Add compresses and stores the image, then inserts the photo at the head of the wall.
// Photos pushed past the cap are evicted and their objects removed.
func (w *PhotoWall) Add(ctx context.Context, owner string, up PhotoUpload) (*models.Photo, error) {
	if strings.TrimSpace(up.LocationID) == "" {
		return nil, fmt.Errorf("%w: location_id is required", ErrInvalidInput)
	}
	if _, ok := models.ParseCategory(string(up.Category)); !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, up.Category)
	}
	filter, ok := models.ParsePhotoFilter(string(up.Filter))
	if !ok {
		return nil, fmt.Errorf("%w: unknown filter %q", ErrInvalidInput, up.Filter)
	}
	if len(up.Image) == 0 {
		return nil, fmt.Errorf("%w: image is required", ErrInvalidInput)
	}
	if len(up.Image) > w.maxBytes {
		return nil, fmt.Errorf("%w: image exceeds %d MB", ErrInvalidInput, w.maxBytes>>20)
	}
	if ct := http.DetectContentType(up.Image); !strings.HasPrefix(ct, "image/") {
		return nil, fmt.Errorf("%w: unsupported content type %s", ErrInvalidInput, ct)
	}
	caption := utils.StripTags(up.Caption)
	if r := []rune(caption); len(r) > MaxCaptionLength {
		caption = string(r[:MaxCaptionLength])
	}

	jpegBytes, width, height, err := CompressImage(up.Image, w.maxEdge, w.quality)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	key := fmt.Sprintf("photos/%s/%s.jpg", owner, id)
	url, err := w.images.Put(ctx, key, jpegBytes, "image/jpeg")
	if err != nil {
		return nil, fmt.Errorf("store photo: %w", err)
	}

	photo := models.Photo{
		ID:           id,
		LocationID:   up.LocationID,
		LocationName: up.LocationName,
		Category:     up.Category,
		ImageKey:     key,
		ImageURL:     url,
		Width:        width,
		Height:       height,
		Caption:      caption,
		Username:     up.Username,
		Level:        up.Level,
		Timestamp:    w.now(),
		Filter:       filter,
	}

	unlock := w.locks.Lock(owner)
	photos, err := loadList[models.Photo](ctx, w.store, owner, store.KeyPhotos)
	if err != nil {
		unlock()
		w.removeObject(ctx, key)
		return nil, err
	}
	photos, evicted := prependCapped(photos, photo, w.limit)
	err = saveList(ctx, w.store, owner, store.KeyPhotos, photos)
	unlock()
	if err != nil {
		w.removeObject(ctx, key)
		return nil, err
	}

	for _, p := range evicted {
		w.removeObject(ctx, p.ImageKey)
	}
	return &photo, nil
}

// List returns the player's photos newest first, narrowed by q.
func (w *PhotoWall) List(ctx context.Context, owner string, q PhotoQuery) ([]models.Photo, error) {
	photos, err := loadList[models.Photo](ctx, w.store, owner, store.KeyPhotos)
	if err != nil {
		return nil, err
	}
	out := make([]models.Photo, 0, len(photos))
	for _, p := range photos {
		if q.LocationID != "" && p.LocationID != q.LocationID {
			continue
		}
		if q.Category != "" && p.Category != q.Category {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// Like increments the like counter. Repeated likes all count.
func (w *PhotoWall) Like(ctx context.Context, owner, id string) (*models.Photo, error) {
	unlock := w.locks.Lock(owner)
	defer unlock()

	photos, err := loadList[models.Photo](ctx, w.store, owner, store.KeyPhotos)
	if err != nil {
		return nil, err
	}
	for i := range photos {
		if photos[i].ID == id {
			photos[i].Likes++
			if err := saveList(ctx, w.store, owner, store.KeyPhotos, photos); err != nil {
				return nil, err
			}
			return &photos[i], nil
		}
	}
	return nil, fmt.Errorf("%w: photo %q", ErrNotFound, id)
}

// Delete removes a photo and its stored object.
func (w *PhotoWall) Delete(ctx context.Context, owner, id string) error {
	unlock := w.locks.Lock(owner)
	photos, err := loadList[models.Photo](ctx, w.store, owner, store.KeyPhotos)
	if err != nil {
		unlock()
		return err
	}
	var removed *models.Photo
	kept := photos[:0]
	for i := range photos {
		if photos[i].ID == id && removed == nil {
			p := photos[i]
			removed = &p
			continue
		}
		kept = append(kept, photos[i])
	}
	if removed == nil {
		unlock()
		return fmt.Errorf("%w: photo %q", ErrNotFound, id)
	}
	err = saveList(ctx, w.store, owner, store.KeyPhotos, kept)
	unlock()
	if err != nil {
		return err
	}
	w.removeObject(ctx, removed.ImageKey)
	return nil
}

func (w *PhotoWall) removeObject(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := w.images.Delete(ctx, key); err != nil {
		utils.Logger.Warn("remove photo object failed", zap.String("key", key), zap.Error(err))
	}
}
