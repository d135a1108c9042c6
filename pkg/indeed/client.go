package indeed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/honeycarbs/company-hunter/pkg/apierror"
)

const (
	defaultBaseURL = "https://api.indeed.com/ads/apisearch"
	defaultLimit   = 25
	defaultFromAge = 30
)

func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.PublisherID) == "" {
		return nil, fmt.Errorf("indeed: publisher id is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	limit := cfg.Limit
	if limit <= 0 || limit > defaultLimit {
		limit = defaultLimit
	}

	fromAge := cfg.FromAgeDays
	if fromAge <= 0 {
		fromAge = defaultFromAge
	}

	return &Client{
		publisherID: cfg.PublisherID,
		baseURL:     baseURL,
		httpClient:  httpClient,
		limit:       limit,
		fromAge:     fromAge,
	}, nil
}

// Search runs one Indeed search, newest first
func (c *Client) Search(ctx context.Context, params SearchParams) (SearchResponse, error) {
	endpoint := c.baseURL + "?" + c.buildQuery(params).Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return SearchResponse{}, fmt.Errorf("indeed: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return SearchResponse{}, fmt.Errorf("indeed: request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if err := apierror.FromResponse("indeed", resp); err != nil {
		return SearchResponse{}, err
	}

	var payload SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return SearchResponse{}, fmt.Errorf("indeed: decode response: %w", err)
	}
	return payload, nil
}

func (c *Client) buildQuery(params SearchParams) url.Values {
	values := url.Values{}
	values.Set("publisher", c.publisherID)
	values.Set("format", "json")
	values.Set("v", "2")
	values.Set("limit", strconv.Itoa(c.limit))
	values.Set("sort", "date")
	values.Set("fromage", strconv.Itoa(c.fromAge))

	if params.Location != "" {
		values.Set("l", params.Location)
	}
	if params.RadiusMiles > 0 {
		values.Set("radius", strconv.Itoa(params.RadiusMiles))
	}
	if params.Query != "" {
		values.Set("q", params.Query)
	}
	if params.JobType != "" {
		values.Set("jt", params.JobType)
	}
	return values
}
