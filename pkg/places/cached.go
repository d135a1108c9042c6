package places

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/honeycarbs/company-hunter/pkg/cache"
	"github.com/honeycarbs/company-hunter/pkg/logging"
)

type cacheEntry struct {
	Details Details `json:"details"`
	Found   bool    `json:"found"`
}

// Cached memoizes lookups per company and place
type Cached struct {
	inner   Finder
	cache   cache.Cache
	ttl     time.Duration
	missTTL time.Duration
	logger  *logging.Logger
}

func NewCached(inner Finder, c cache.Cache, ttl, missTTL time.Duration, logger *logging.Logger) *Cached {
	if missTTL <= 0 {
		missTTL = time.Hour
	}
	return &Cached{inner: inner, cache: c, ttl: ttl, missTTL: missTTL, logger: logging.OrNop(logger)}
}

func (c *Cached) Lookup(ctx context.Context, company, near string) (Details, error) {
	key := "places:" + strings.Join(strings.Fields(strings.ToLower(queryText(company, near))), " ")

	var hit cacheEntry
	err := c.cache.Get(ctx, key, &hit)
	switch {
	case err == nil:
		if !hit.Found {
			return Details{}, ErrNotFound
		}
		return hit.Details, nil
	case !errors.Is(err, cache.ErrNotFound):
		c.logger.Warn("places cache read failed", "key", key, "err", err)
	}

	d, err := c.inner.Lookup(ctx, company, near)
	var entry cacheEntry
	ttl := c.ttl
	switch {
	case err == nil:
		entry = cacheEntry{Details: d, Found: true}
	case errors.Is(err, ErrNotFound):
		ttl = c.missTTL
	default:
		return d, err
	}

	if serr := c.cache.Set(ctx, key, entry, ttl); serr != nil {
		c.logger.Warn("places cache write failed", "key", key, "err", serr)
	}
	return d, err
}
