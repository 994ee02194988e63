package store

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisOpTimeout = 2 * time.Second

// RedisStore keeps each document as a plain string value under prefix+owner+":"+key.
type RedisStore struct {
	rc     *redis.Client
	prefix string
}

func NewRedisStore(rc *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "oldtown:doc:"
	}
	return &RedisStore{rc: rc, prefix: prefix}
}

func (s *RedisStore) redisKey(owner, key string) string {
	return s.prefix + owner + ":" + key
}

func (s *RedisStore) Get(ctx context.Context, owner, key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()
	b, err := s.rc.Get(ctx, s.redisKey(owner, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	return b, err
}

func (s *RedisStore) Put(ctx context.Context, owner, key string, body []byte) error {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()
	return s.rc.Set(ctx, s.redisKey(owner, key), body, 0).Err()
}

func (s *RedisStore) Delete(ctx context.Context, owner, key string) error {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()
	return s.rc.Del(ctx, s.redisKey(owner, key)).Err()
}
