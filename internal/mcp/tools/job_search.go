package tools

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/company-hunter/internal/domain"
	"github.com/honeycarbs/company-hunter/internal/domain/job"
	"github.com/honeycarbs/company-hunter/pkg/logging"
)

// JobSearchParams defines the arguments for the job_search tool
type JobSearchParams struct {
	Location   string   `json:"location" jsonschema:"Town, city or postcode to search around"`
	RadiusKm   float64  `json:"radius_km,omitempty" jsonschema:"Search radius in kilometers, defaults to the server setting"`
	Categories []string `json:"categories,omitempty" jsonschema:"Job categories, see job_filters"`
	JobTypes   []string `json:"job_types,omitempty" jsonschema:"Job types such as full_time or contract, see job_filters"`
	Limit      int      `json:"limit,omitempty" jsonschema:"Maximum number of jobs returned, 0 returns all"`
}

// JobSearchResult is the structured response of job_search
type JobSearchResult struct {
	SearchID    string              `json:"search_id"`
	Total       int                 `json:"total"`
	Returned    int                 `json:"returned"`
	SourceCount int                 `json:"source_count"`
	Center      domain.SearchCenter `json:"center"`
	Jobs        []domain.Job        `json:"results"`
}

type jobSearchTool struct {
	service       job.Service
	defaultRadius float64
	logger        *logging.Logger
}

// WithJobSearch registers the job_search tool
func WithJobSearch(service job.Service, defaultRadiusKm float64) Option {
	return func(reg *registry) {
		handler := jobSearchTool{
			service:       service,
			defaultRadius: defaultRadiusKm,
			logger:        reg.logger.Named("job_search"),
		}
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "job_search",
			Description: "Search every configured job board around a location, merged, de-duplicated and sorted by distance",
		}, handler.handle)
		reg.add("job_search")
	}
}

func (t jobSearchTool) handle(ctx context.Context, _ *sdkmcp.CallToolRequest, params *JobSearchParams) (*sdkmcp.CallToolResult, any, error) {
	if params == nil {
		params = &JobSearchParams{}
	}
	if t.service == nil {
		return nil, nil, fmt.Errorf("job search service not configured")
	}

	req := domain.SearchRequest{
		Location:   params.Location,
		Radius:     params.RadiusKm,
		Categories: trimAll(params.Categories),
		JobTypes:   trimAll(params.JobTypes),
	}
	if req.Radius == 0 {
		req.Radius = t.defaultRadius
	}

	t.logger.Info("job_search request",
		"location", req.Location,
		"radius_km", req.Radius,
		"categories", req.Categories,
		"job_types", req.JobTypes,
	)

	result, err := t.service.Search(ctx, req)
	if err != nil {
		t.logger.Warn("job_search failed", "location", req.Location, "err", err)
		return nil, nil, err
	}

	out := JobSearchResult{
		SearchID:    result.ID,
		Total:       result.Total,
		SourceCount: result.SourceCount,
		Center:      result.Center,
		Jobs:        result.Jobs,
	}
	if params.Limit > 0 && len(out.Jobs) > params.Limit {
		out.Jobs = out.Jobs[:params.Limit]
	}
	out.Returned = len(out.Jobs)

	summary := fmt.Sprintf("[job_search] %d job(s) within %.0f km of %s from %d source(s)",
		result.Total, req.Radius, result.Center.FormattedAddress, result.SourceCount)
	if out.Returned < out.Total {
		summary += fmt.Sprintf(", showing the nearest %d", out.Returned)
	}

	return summaryResult(summary, out), out, nil
}
