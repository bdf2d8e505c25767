// Package cache holds the optional search-result cache. Identical
// searches encode to identical query strings, so the encoded query is the
// natural cache key.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/avoronov/skyfare/internal/extract"
)

// ResultCache caches extracted flight results by encoded query.
type ResultCache interface {
	Get(ctx context.Context, encodedQuery string) (*extract.FlightResult, bool)
	Set(ctx context.Context, encodedQuery string, result *extract.FlightResult) error
	Close() error
}

// RedisCache is the Redis-backed implementation.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// RedisConfig holds the connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// NewRedisCache connects to Redis and verifies the connection.
func NewRedisCache(cfg RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisCache{client: client, ttl: cfg.TTL}, nil
}

func (c *RedisCache) Get(ctx context.Context, encodedQuery string) (*extract.FlightResult, bool) {
	data, err := c.client.Get(ctx, Key(encodedQuery)).Bytes()
	if err != nil {
		return nil, false
	}

	var result extract.FlightResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, false
	}
	return &result, true
}

func (c *RedisCache) Set(ctx context.Context, encodedQuery string, result *extract.FlightResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, Key(encodedQuery), data, c.ttl).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// NoOpCache satisfies ResultCache without caching anything.
type NoOpCache struct{}

func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

func (c *NoOpCache) Get(ctx context.Context, encodedQuery string) (*extract.FlightResult, bool) {
	return nil, false
}

func (c *NoOpCache) Set(ctx context.Context, encodedQuery string, result *extract.FlightResult) error {
	return nil
}

func (c *NoOpCache) Close() error {
	return nil
}

// Key derives the storage key for an encoded query. The query string can
// be long; hashing keeps keys bounded.
func Key(encodedQuery string) string {
	sum := sha256.Sum256([]byte(encodedQuery))
	return "search:" + hex.EncodeToString(sum[:])
}
