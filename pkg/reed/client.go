package reed

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
	defaultBaseURL  = "https://www.reed.co.uk/api/1.0"
	defaultPageSize = 100
)

func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("reed: api key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
		pageSize:   pageSize,
	}, nil
}

// Search runs a Reed search. Reed authenticates with the key as the
// basic-auth user and an empty password.
func (c *Client) Search(ctx context.Context, params SearchParams) (SearchResponse, error) {
	endpoint := c.baseURL + "/search?" + c.buildQuery(params).Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return SearchResponse{}, fmt.Errorf("reed: build request: %w", err)
	}
	req.SetBasicAuth(c.apiKey, "")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return SearchResponse{}, fmt.Errorf("reed: request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if err := apierror.FromResponse("reed", resp); err != nil {
		return SearchResponse{}, err
	}

	var payload SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return SearchResponse{}, fmt.Errorf("reed: decode response: %w", err)
	}
	return payload, nil
}

func (c *Client) buildQuery(params SearchParams) url.Values {
	values := url.Values{}
	values.Set("resultsToTake", strconv.Itoa(c.pageSize))

	if params.Keywords != "" {
		values.Set("keywords", params.Keywords)
	}
	if params.LocationName != "" {
		values.Set("locationName", params.LocationName)
	}
	if params.DistanceMiles > 0 {
		values.Set("distanceFromLocation", strconv.Itoa(params.DistanceMiles))
	}

	for flag, on := range map[string]bool{
		"fullTime":  params.FullTime,
		"partTime":  params.PartTime,
		"permanent": params.Permanent,
		"contract":  params.Contract,
		"temp":      params.Temp,
	} {
		if on {
			values.Set(flag, "true")
		}
	}
	return values
}
