package githubjobs

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/honeycarbs/company-hunter/pkg/apierror"
)

const defaultBaseURL = "https://jobs.github.com"

// Config defines GitHub Jobs client settings. The endpoint needs no
// credentials; BaseURL points it at a compatible mirror.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type SearchParams struct {
	Description string
	Location    string
	FullTime    bool
}

// Posting is a single positions.json entry
type Posting struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	URL         string `json:"url"`
	CreatedAt   string `json:"created_at"`
	Company     string `json:"company"`
	CompanyURL  string `json:"company_url"`
	Location    string `json:"location"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimSuffix(baseURL, "/"), httpClient: httpClient}
}

func (c *Client) Search(ctx context.Context, params SearchParams) ([]Posting, error) {
	values := url.Values{}
	if params.Location != "" {
		values.Set("location", params.Location)
	}
	if params.Description != "" {
		values.Set("description", params.Description)
	}
	if params.FullTime {
		values.Set("full_time", "true")
	}

	endpoint := c.baseURL + "/positions.json"
	if len(values) > 0 {
		endpoint += "?" + values.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("githubjobs: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("githubjobs: request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if err := apierror.FromResponse("githubjobs", resp); err != nil {
		return nil, err
	}

	var postings []Posting
	if err := json.NewDecoder(resp.Body).Decode(&postings); err != nil {
		return nil, fmt.Errorf("githubjobs: decode response: %w", err)
	}
	return postings, nil
}
