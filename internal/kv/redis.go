package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisNamespace = "ral"

type cmdable interface {
	Ping(context.Context) *redis.StatusCmd
	Get(context.Context, string) *redis.StringCmd
	Set(context.Context, string, any, time.Duration) *redis.StatusCmd
}

// RedisOptions selects the Redis server. URL takes precedence over Address.
type RedisOptions struct {
	URL      string
	Address  string
	Password string
	DB       int
}

// Redis stores entries as plain Redis strings without expiry.
type Redis struct {
	store cmdable
	raw   *redis.Client
}

// NewRedis connects to Redis and verifies connectivity.
func NewRedis(ctx context.Context, opts RedisOptions) (*Redis, error) {
	clientOpts, err := redisClientOptions(opts)
	if err != nil {
		return nil, err
	}
	raw := redis.NewClient(clientOpts)
	if err := raw.Ping(ctx).Err(); err != nil {
		_ = raw.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Redis{store: raw, raw: raw}, nil
}

func redisClientOptions(opts RedisOptions) (*redis.Options, error) {
	if opts.URL == "" && opts.Address == "" {
		return nil, errors.New("redis url or address is required")
	}
	if opts.URL != "" {
		parsed, err := redis.ParseURL(opts.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		if parsed.DB == 0 {
			parsed.DB = opts.DB
		}
		return parsed, nil
	}
	return &redis.Options{
		Addr:     opts.Address,
		Password: opts.Password,
		DB:       opts.DB,
	}, nil
}

func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	value, err := r.store.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get %q: %w", key, err)
	}
	return value, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	if err := r.store.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (r *Redis) Close() error {
	if r.raw == nil {
		return nil
	}
	return r.raw.Close()
}

func (r *Redis) key(key string) string {
	return redisNamespace + ":" + key
}
