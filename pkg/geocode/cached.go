package geocode

import (
	"context"
	"errors"
	"time"

	"github.com/honeycarbs/company-hunter/pkg/cache"
	"github.com/honeycarbs/company-hunter/pkg/logging"
)

type cacheEntry struct {
	Result Result `json:"result"`
	Found  bool   `json:"found"`
}

// Cached memoizes another geocoder. Misses are remembered for missTTL.
type Cached struct {
	inner   Geocoder
	cache   cache.Cache
	ttl     time.Duration
	missTTL time.Duration
	logger  *logging.Logger
}

func NewCached(inner Geocoder, c cache.Cache, ttl, missTTL time.Duration, logger *logging.Logger) *Cached {
	if missTTL <= 0 {
		missTTL = time.Hour
	}
	return &Cached{inner: inner, cache: c, ttl: ttl, missTTL: missTTL, logger: logging.OrNop(logger)}
}

func (c *Cached) Geocode(ctx context.Context, query string) (Result, error) {
	key := "geocode:" + normalizeQuery(query)

	var hit cacheEntry
	err := c.cache.Get(ctx, key, &hit)
	switch {
	case err == nil:
		if !hit.Found {
			return Result{}, ErrNotResolvable
		}
		return hit.Result, nil
	case !errors.Is(err, cache.ErrNotFound):
		c.logger.Warn("geocode cache read failed", "key", key, "err", err)
	}

	res, err := c.inner.Geocode(ctx, query)
	switch {
	case err == nil:
		c.store(ctx, key, cacheEntry{Result: res, Found: true}, c.ttl)
	case errors.Is(err, ErrNotResolvable):
		c.store(ctx, key, cacheEntry{Found: false}, c.missTTL)
	}
	return res, err
}

func (c *Cached) store(ctx context.Context, key string, e cacheEntry, ttl time.Duration) {
	if err := c.cache.Set(ctx, key, e, ttl); err != nil {
		c.logger.Warn("geocode cache write failed", "key", key, "err", err)
	}
}
