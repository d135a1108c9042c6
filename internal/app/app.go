// Package app assembles the application from configuration.
package app

import (
	"github.com/honeycarbs/company-hunter/internal/config"
	"github.com/honeycarbs/company-hunter/internal/domain/company"
	"github.com/honeycarbs/company-hunter/internal/domain/job"
	"github.com/honeycarbs/company-hunter/internal/mcp"
	"github.com/honeycarbs/company-hunter/internal/mcp/tools"
	"github.com/honeycarbs/company-hunter/pkg/logging"
)

// App holds the wired services shared by the server and the CLI
type App struct {
	Config    config.Config
	Logger    *logging.Logger
	Jobs      job.Service
	Companies company.Service
	Exporter  tools.Exporter
	Sources   []string
}

func newApp(
	cfg config.Config,
	logger *logging.Logger,
	_ Tracing,
	aggregator *job.Aggregator,
	jobs job.Service,
	companies company.Service,
	exporter tools.Exporter,
) *App {
	return &App{
		Config:    cfg,
		Logger:    logger,
		Jobs:      jobs,
		Companies: companies,
		Exporter:  exporter,
		Sources:   aggregator.Names(),
	}
}

// Resources exposes the services as MCP tools
func (a *App) Resources() mcp.Resources {
	return mcp.Resources{
		JobService:      a.Jobs,
		Companies:       a.Companies,
		Exporter:        a.Exporter,
		DefaultRadiusKm: a.Config.DefaultRadiusKm,
	}
}
