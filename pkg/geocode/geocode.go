package geocode

import (
	"context"
	"errors"
	"strings"
)

// ErrNotResolvable means the geocoder answered but found no match
var ErrNotResolvable = errors.New("geocode: location not resolvable")

// Result is a resolved location
type Result struct {
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
	FormattedAddress string  `json:"formatted_address"`
	Provider         string  `json:"provider"`
}

// Geocoder turns a free-text location into coordinates
type Geocoder interface {
	Geocode(ctx context.Context, query string) (Result, error)
}

func normalizeQuery(q string) string {
	return strings.Join(strings.Fields(strings.ToLower(q)), " ")
}
