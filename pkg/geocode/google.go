package geocode

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"googlemaps.github.io/maps"
)

// Google geocodes through the Google Maps Geocoding API
type Google struct {
	client *maps.Client
	region string
}

type GoogleOption func(*googleConfig)

type googleConfig struct {
	baseURL    string
	httpClient *http.Client
	region     string
}

// WithGoogleBaseURL overrides the API host, used by tests
func WithGoogleBaseURL(baseURL string) GoogleOption {
	return func(c *googleConfig) {
		c.baseURL = baseURL
	}
}

func WithGoogleHTTPClient(client *http.Client) GoogleOption {
	return func(c *googleConfig) {
		c.httpClient = client
	}
}

// WithRegion biases results toward a ccTLD region code such as "uk"
func WithRegion(region string) GoogleOption {
	return func(c *googleConfig) {
		c.region = region
	}
}

func NewGoogle(apiKey string, opts ...GoogleOption) (*Google, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("geocode: google api key is required")
	}

	cfg := &googleConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	clientOpts := []maps.ClientOption{maps.WithAPIKey(apiKey)}
	if cfg.httpClient != nil {
		clientOpts = append(clientOpts, maps.WithHTTPClient(cfg.httpClient))
	}
	if cfg.baseURL != "" {
		clientOpts = append(clientOpts, maps.WithBaseURL(cfg.baseURL))
	}

	client, err := maps.NewClient(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("geocode: google client: %w", err)
	}

	return &Google{client: client, region: cfg.region}, nil
}

func (g *Google) Geocode(ctx context.Context, query string) (Result, error) {
	if strings.TrimSpace(query) == "" {
		return Result{}, ErrNotResolvable
	}

	results, err := g.client.Geocode(ctx, &maps.GeocodingRequest{
		Address: query,
		Region:  g.region,
	})
	if err != nil {
		if strings.Contains(err.Error(), "ZERO_RESULTS") {
			return Result{}, ErrNotResolvable
		}
		return Result{}, fmt.Errorf("geocode: google: %w", err)
	}
	if len(results) == 0 {
		return Result{}, ErrNotResolvable
	}

	top := results[0]
	return Result{
		Lat:              top.Geometry.Location.Lat,
		Lng:              top.Geometry.Location.Lng,
		FormattedAddress: top.FormattedAddress,
		Provider:         "google",
	}, nil
}
