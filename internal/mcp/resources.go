package mcp

import (
	"github.com/honeycarbs/company-hunter/internal/domain/company"
	"github.com/honeycarbs/company-hunter/internal/domain/job"
	"github.com/honeycarbs/company-hunter/internal/mcp/tools"
)

// Resources are the services exposed as MCP tools. Nil members leave
// their tools unregistered.
type Resources struct {
	JobService      job.Service
	Companies       company.Service
	Exporter        tools.Exporter
	DefaultRadiusKm float64
}

func (r Resources) options() []tools.Option {
	var opts []tools.Option
	if r.JobService != nil {
		opts = append(opts,
			tools.WithJobSearch(r.JobService, r.DefaultRadiusKm),
			tools.WithJobFilters(r.JobService),
		)
	}
	if r.Companies != nil {
		opts = append(opts, tools.WithCompanies(r.Companies))
	}
	if r.Exporter != nil {
		opts = append(opts, tools.WithSheetsExport(r.Exporter, r.JobService, r.DefaultRadiusKm))
	}
	return opts
}
