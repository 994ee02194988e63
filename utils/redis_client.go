package utils

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yunlin/oldtown/config"
)

const redisPingTimeout = 2 * time.Second

// RedisOptions maps the redis section of cfg to client options.
func RedisOptions(cfg config.AppConfig) *redis.Options {
	return &redis.Options{
		Addr:         net.JoinHostPort(cfg.RedisHost, strconv.Itoa(cfg.RedisPort)),
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	}
}

// OpenRedis connects to the configured server and fails when it does not answer a ping.
// Player documents live there, so an unreachable server is fatal at boot.
func OpenRedis(ctx context.Context, cfg config.AppConfig) (*redis.Client, error) {
	rc := redis.NewClient(RedisOptions(cfg))
	ctx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("redis ping %s: %w", rc.Options().Addr, err)
	}
	Sugar.Infof("redis connected at %s db=%d", rc.Options().Addr, cfg.RedisDB)
	return rc, nil
}
