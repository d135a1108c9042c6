package places

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"googlemaps.github.io/maps"
)

// Google resolves businesses through the Places API: a text search for the
// place id followed by a details request for contact fields.
type Google struct {
	client *maps.Client
}

type Option func(*config)

type config struct {
	baseURL    string
	httpClient *http.Client
}

func WithBaseURL(baseURL string) Option {
	return func(c *config) {
		c.baseURL = baseURL
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(c *config) {
		c.httpClient = client
	}
}

func NewGoogle(apiKey string, opts ...Option) (*Google, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("places: google api key is required")
	}

	cfg := &config{}
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
		return nil, fmt.Errorf("places: google client: %w", err)
	}
	return &Google{client: client}, nil
}

func (g *Google) Lookup(ctx context.Context, company, near string) (Details, error) {
	input := queryText(company, near)
	if input == "" {
		return Details{}, ErrNotFound
	}

	found, err := g.client.FindPlaceFromText(ctx, &maps.FindPlaceFromTextRequest{
		Input:     input,
		InputType: maps.FindPlaceFromTextInputTypeTextQuery,
		Fields:    []maps.PlaceSearchFieldMask{maps.PlaceSearchFieldMaskPlaceID},
	})
	if err != nil {
		if strings.Contains(err.Error(), "ZERO_RESULTS") {
			return Details{}, ErrNotFound
		}
		return Details{}, fmt.Errorf("places: find %q: %w", input, err)
	}
	if len(found.Candidates) == 0 || found.Candidates[0].PlaceID == "" {
		return Details{}, ErrNotFound
	}

	details, err := g.client.PlaceDetails(ctx, &maps.PlaceDetailsRequest{
		PlaceID: found.Candidates[0].PlaceID,
		Fields: []maps.PlaceDetailsFieldMask{
			maps.PlaceDetailsFieldMaskFormattedAddress,
			maps.PlaceDetailsFieldMaskFormattedPhoneNumber,
			maps.PlaceDetailsFieldMaskWebsite,
			maps.PlaceDetailsFieldMaskURL,
		},
	})
	if err != nil {
		return Details{}, fmt.Errorf("places: details %s: %w", found.Candidates[0].PlaceID, err)
	}

	return Details{
		Address: details.FormattedAddress,
		Phone:   details.FormattedPhoneNumber,
		Website: details.Website,
		MapsURL: details.URL,
	}, nil
}
