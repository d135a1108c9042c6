package geocode

import (
	"context"
	"errors"
	"fmt"

	"github.com/honeycarbs/company-hunter/pkg/logging"
)

// Chain asks each geocoder in turn until one resolves the query.
// It reports ErrNotResolvable only when every geocoder said so.
type Chain struct {
	geocoders []Geocoder
	logger    *logging.Logger
}

func NewChain(logger *logging.Logger, geocoders ...Geocoder) *Chain {
	return &Chain{geocoders: geocoders, logger: logging.OrNop(logger)}
}

func (c *Chain) Geocode(ctx context.Context, query string) (Result, error) {
	if len(c.geocoders) == 0 {
		return Result{}, fmt.Errorf("geocode: no geocoders configured")
	}

	var errs []error
	unresolved := 0
	for i, g := range c.geocoders {
		res, err := g.Geocode(ctx, query)
		if err == nil {
			return res, nil
		}
		if errors.Is(err, ErrNotResolvable) {
			unresolved++
			continue
		}
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		c.logger.Warn("geocoder failed, trying next", "index", i, "err", err)
		errs = append(errs, err)
	}

	if unresolved == len(c.geocoders) {
		return Result{}, ErrNotResolvable
	}
	return Result{}, errors.Join(errs...)
}
