package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	cli    *redis.Client
	prefix string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// NewRedisCache connects and pings Redis.
func NewRedisCache(ctx context.Context, cfg RedisConfig) (*RedisCache, error) {
	rdb := redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "riskkit"
	}
	return &RedisCache{cli: rdb, prefix: prefix}, nil
}

// NewRedisCacheWithClient wraps an existing client.
func NewRedisCacheWithClient(cli *redis.Client, prefix string) *RedisCache {
	return &RedisCache{cli: cli, prefix: prefix}
}

func (r *RedisCache) GetBytes(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := r.cli.Get(ctx, r.wrap(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	return b, true, nil
}

func (r *RedisCache) SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.cli.Set(ctx, r.wrap(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (r *RedisCache) Close() error { return r.cli.Close() }

func (r *RedisCache) wrap(key string) string {
	if r.prefix == "" {
		return key
	}
	return r.prefix + ":" + key
}
