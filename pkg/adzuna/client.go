package adzuna

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/honeycarbs/company-hunter/pkg/apierror"
)

const (
	defaultBaseURL  = "https://api.adzuna.com"
	defaultCountry  = "gb"
	defaultPageSize = 100
)

// NewClient instantiates an Adzuna API client
func NewClient(cfg Config) (*Client, error) {
	if cfg.AppID == "" || cfg.AppKey == "" {
		return nil, fmt.Errorf("adzuna: app_id and app_key are required")
	}

	country := cfg.Country
	if country == "" {
		country = defaultCountry
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	return &Client{
		appID:      cfg.AppID,
		appKey:     cfg.AppKey,
		country:    strings.ToLower(country),
		baseURL:    baseURL,
		httpClient: httpClient,
		pageSize:   pageSize,
	}, nil
}

// Search runs one page of an Adzuna search
func (c *Client) Search(ctx context.Context, params SearchParams) (SearchResponse, error) {
	if c == nil {
		return SearchResponse{}, fmt.Errorf("adzuna: client is nil")
	}

	u, err := c.buildSearchURL(params)
	if err != nil {
		return SearchResponse{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return SearchResponse{}, fmt.Errorf("adzuna: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return SearchResponse{}, fmt.Errorf("adzuna: request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if err := apierror.FromResponse("adzuna", resp); err != nil {
		return SearchResponse{}, err
	}

	var payload SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return SearchResponse{}, fmt.Errorf("adzuna: decode response: %w", err)
	}

	return payload, nil
}

func (c *Client) buildSearchURL(params SearchParams) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("adzuna: parse base url: %w", err)
	}

	u.Path = path.Join(u.Path, "v1", "api", "jobs", c.country, "search", "1")

	values := url.Values{}
	values.Set("app_id", c.appID)
	values.Set("app_key", c.appKey)
	values.Set("results_per_page", strconv.Itoa(c.pageSize))
	values.Set("content-type", "application/json")

	if params.What != "" {
		values.Set("what", params.What)
	}
	if params.Where != "" {
		values.Set("where", params.Where)
	}
	if params.DistanceKm > 0 {
		values.Set("distance", strconv.Itoa(params.DistanceKm))
	}

	for flag, on := range map[string]bool{
		"full_time": params.FullTime,
		"part_time": params.PartTime,
		"contract":  params.Contract,
		"permanent": params.Permanent,
	} {
		if on {
			values.Set(flag, "1")
		}
	}

	u.RawQuery = values.Encode()
	return u.String(), nil
}
