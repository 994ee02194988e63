// Package storage keeps uploaded photo objects on local disk or in an S3 compatible bucket.
package storage

import (
	"context"
	"fmt"

	"github.com/yunlin/oldtown/config"
)

// ObjectStore stores immutable objects by key and returns their public URL.
type ObjectStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// Open builds the ObjectStore selected by cfg.ImageStore.
func Open(ctx context.Context, cfg config.AppConfig) (ObjectStore, error) {
	switch cfg.ImageStore {
	case "", "local":
		return NewLocalStore(cfg.UploadDir, cfg.UploadURLPrefix)
	case "s3":
		return NewS3Store(ctx, S3Options{
			Bucket:    cfg.S3Bucket,
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		})
	default:
		return nil, fmt.Errorf("unknown image store %q", cfg.ImageStore)
	}
}
