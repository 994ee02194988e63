// Package store persists per-player JSON documents, one per concern key.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Document keys.
const (
	KeyProgress = "progress"
	KeyPhotos   = "photos"
	KeyComments = "comments"
	KeyCoupons  = "coupons"
)

// ErrNotFound is returned by Get when no document exists for (owner, key).
var ErrNotFound = errors.New("document not found")

// Store reads and writes whole documents. Implementations must be safe for concurrent use.
type Store interface {
	Get(ctx context.Context, owner, key string) ([]byte, error)
	Put(ctx context.Context, owner, key string, body []byte) error
	Delete(ctx context.Context, owner, key string) error
}

// Options selects and configures a Store implementation.
type Options struct {
	Driver      string
	Redis       *redis.Client
	RedisPrefix string
	DB          *gorm.DB
}

// Open builds the Store named by opts.Driver.
func Open(opts Options) (Store, error) {
	switch opts.Driver {
	case "", "memory":
		return NewMemoryStore(), nil
	case "redis":
		if opts.Redis == nil {
			return nil, errors.New("redis store requires a client")
		}
		return NewRedisStore(opts.Redis, opts.RedisPrefix), nil
	case "database":
		if opts.DB == nil {
			return nil, errors.New("database store requires a configured database")
		}
		return NewGormStore(opts.DB)
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}
