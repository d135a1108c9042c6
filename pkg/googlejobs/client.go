package googlejobs

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	jobs "google.golang.org/api/jobs/v4"
	"google.golang.org/api/option"
)

const (
	defaultTenant   = "default"
	defaultDomain   = "company-hunter.local"
	defaultPageSize = 100
)

// Config defines Cloud Talent Solution settings
type Config struct {
	APIKey     string
	ProjectID  string
	Tenant     string
	Domain     string
	Endpoint   string
	HTTPClient *http.Client
	PageSize   int
}

// Client searches jobs through the Cloud Talent Solution v4 API
type Client struct {
	service  *jobs.Service
	parent   string
	domain   string
	pageSize int64
}

// SearchParams describe a job search. Distance is in miles.
type SearchParams struct {
	Query           string
	Address         string
	DistanceMiles   float64
	EmploymentTypes []string
	SessionID       string
}

func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" || strings.TrimSpace(cfg.ProjectID) == "" {
		return nil, fmt.Errorf("googlejobs: api key and project id are required")
	}

	tenant := cfg.Tenant
	if tenant == "" {
		tenant = defaultTenant
	}
	domain := cfg.Domain
	if domain == "" {
		domain = defaultDomain
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	base := http.DefaultTransport
	if cfg.HTTPClient != nil && cfg.HTTPClient.Transport != nil {
		base = cfg.HTTPClient.Transport
	}
	httpClient := &http.Client{Transport: &apiKeyTransport{key: cfg.APIKey, next: base}}
	if cfg.HTTPClient != nil {
		httpClient.Timeout = cfg.HTTPClient.Timeout
	}

	opts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	service, err := jobs.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("googlejobs: failed to create service: %w", err)
	}

	return &Client{
		service:  service,
		parent:   fmt.Sprintf("projects/%s/tenants/%s", cfg.ProjectID, tenant),
		domain:   domain,
		pageSize: int64(pageSize),
	}, nil
}

// Search returns the matching jobs of the first result page
func (c *Client) Search(ctx context.Context, params SearchParams) ([]*jobs.Job, error) {
	query := &jobs.JobQuery{
		Query:           params.Query,
		EmploymentTypes: params.EmploymentTypes,
	}
	if params.Address != "" {
		query.LocationFilters = []*jobs.LocationFilter{{
			Address:         params.Address,
			DistanceInMiles: params.DistanceMiles,
		}}
	}

	session := params.SessionID
	if session == "" {
		session = "anonymous"
	}

	req := &jobs.SearchJobsRequest{
		SearchMode:  "JOB_SEARCH",
		MaxPageSize: c.pageSize,
		JobQuery:    query,
		RequestMetadata: &jobs.RequestMetadata{
			Domain:    c.domain,
			SessionId: session,
			UserId:    session,
		},
	}

	resp, err := c.service.Projects.Tenants.Jobs.Search(c.parent, req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("googlejobs: search: %w", err)
	}

	out := make([]*jobs.Job, 0, len(resp.MatchingJobs))
	for _, m := range resp.MatchingJobs {
		if m != nil && m.Job != nil {
			out = append(out, m.Job)
		}
	}
	return out, nil
}

// apiKeyTransport adds the API key to every request. The generated client
// drops option.WithAPIKey once a custom HTTP client is supplied.
type apiKeyTransport struct {
	key  string
	next http.RoundTripper
}

func (t *apiKeyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	q := r.URL.Query()
	q.Set("key", t.key)
	r.URL.RawQuery = q.Encode()
	return t.next.RoundTrip(r)
}
