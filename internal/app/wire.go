//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"github.com/google/wire"

	"github.com/honeycarbs/company-hunter/internal/config"
	"github.com/honeycarbs/company-hunter/internal/domain/company"
	"github.com/honeycarbs/company-hunter/internal/domain/job"
	"github.com/honeycarbs/company-hunter/pkg/logging"
)

var infraSet = wire.NewSet(
	provideTracing,
	provideCache,
	provideNeo4j,
	providePublisher,
	provideHistory,
)

var jobSet = wire.NewSet(
	provideConnectors,
	provideAggregator,
	provideGeocoder,
	providePlaces,
	provideJobRepository,
	provideJobDeps,
	job.NewServiceWithDeps,
)

var companySet = wire.NewSet(
	provideCompanyRepository,
	company.NewService,
)

// Initialize wires the application; the cleanup releases every connection
func Initialize(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, func(), error) {
	wire.Build(
		infraSet,
		jobSet,
		companySet,
		provideExporter,
		newApp,
	)
	return nil, nil, nil
}
