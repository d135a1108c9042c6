package tools

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/company-hunter/internal/domain/job"
)

// JobFiltersParams takes no arguments
type JobFiltersParams struct{}

// WithJobFilters registers the job_filters tool
func WithJobFilters(service job.Service) Option {
	return func(reg *registry) {
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "job_filters",
			Description: "List the categories and job types the configured job boards can filter by",
		}, func(_ context.Context, _ *sdkmcp.CallToolRequest, _ *JobFiltersParams) (*sdkmcp.CallToolResult, any, error) {
			if service == nil {
				return nil, nil, fmt.Errorf("job search service not configured")
			}
			filters := service.Filters()
			summary := fmt.Sprintf("[job_filters] %d categories, %d job types", len(filters.Categories), len(filters.JobTypes))
			return summaryResult(summary, filters), filters, nil
		})
		reg.add("job_filters")
	}
}
