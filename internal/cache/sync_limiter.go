// internal/cache/sync_limiter.go
package cache

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/crumbworks/bakeops/internal/config"
	"github.com/redis/go-redis/v9"
)

const (
	syncLockKey     = "sync:sales:last"
	defaultSyncGate = time.Hour
)

// SyncLimiter gates the automatic POS sales sync so that dashboard traffic
// cannot hammer the POS API. Acquire reports whether a sync attempt may
// proceed; the window closes behind a successful acquisition.
type SyncLimiter interface {
	Acquire(ctx context.Context) (bool, error)
}

type redisSyncLimiter struct {
	client *redis.Client
	window time.Duration
}

type noopSyncLimiter struct{}

// NewSyncLimiter returns a redis-backed limiter, or the noop limiter when
// caching is disabled. Callers fall back to the settings-table checkpoint
// when handed the noop.
func NewSyncLimiter(cfg config.CacheConfig) (SyncLimiter, error) {
	if !cfg.Enabled {
		return &noopSyncLimiter{}, nil
	}

	opts, err := buildRedisOptions(cfg)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &redisSyncLimiter{client: client, window: defaultSyncGate}, nil
}

func NewNoopSyncLimiter() SyncLimiter {
	return &noopSyncLimiter{}
}

func (l *redisSyncLimiter) Acquire(ctx context.Context) (bool, error) {
	ok, err := l.client.SetNX(ctx, syncLockKey, time.Now().UTC().Format(time.RFC3339), l.window).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx failed: %w", err)
	}
	return ok, nil
}

// The noop limiter always allows; the sync service then consults its
// settings-table checkpoint instead.
func (l *noopSyncLimiter) Acquire(ctx context.Context) (bool, error) {
	return true, nil
}

func buildRedisOptions(cfg config.CacheConfig) (*redis.Options, error) {
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		return opt, nil
	}

	host := cfg.RedisHost
	if host == "" {
		host = "127.0.0.1"
	}

	port := cfg.RedisPort
	if port == "" {
		port = "6379"
	}

	return &redis.Options{
		Addr:     net.JoinHostPort(host, port),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, nil
}
