package cache

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound   = errors.New("key not found in cache")
	ErrClosed     = errors.New("cache is closed")
	ErrInvalidKey = errors.New("invalid cache key")
)

// Cache stores JSON-encodable values with a TTL
type Cache interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error

	// Get decodes the stored value into dst, or returns ErrNotFound
	Get(ctx context.Context, key string, dst any) error

	Delete(ctx context.Context, key string) error

	Close() error
}

// Options configures a cache backend
type Options struct {
	DefaultTTL    time.Duration
	Prefix        string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

func DefaultOptions() Options {
	return Options{
		DefaultTTL: 24 * time.Hour,
		Prefix:     "company-hunter:",
	}
}
