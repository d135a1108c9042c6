package app

import (
	"context"
	"net/http"
	"time"

	"github.com/honeycarbs/company-hunter/internal/config"
	"github.com/honeycarbs/company-hunter/internal/domain/company"
	"github.com/honeycarbs/company-hunter/internal/domain/export"
	"github.com/honeycarbs/company-hunter/internal/domain/job"
	adzunaProvider "github.com/honeycarbs/company-hunter/internal/domain/job/providers/adzuna"
	githubProvider "github.com/honeycarbs/company-hunter/internal/domain/job/providers/githubjobs"
	googleJobsProvider "github.com/honeycarbs/company-hunter/internal/domain/job/providers/googlejobs"
	indeedProvider "github.com/honeycarbs/company-hunter/internal/domain/job/providers/indeed"
	reedProvider "github.com/honeycarbs/company-hunter/internal/domain/job/providers/reed"
	"github.com/honeycarbs/company-hunter/internal/mcp"
	"github.com/honeycarbs/company-hunter/internal/mcp/tools"
	chstore "github.com/honeycarbs/company-hunter/internal/storage/clickhouse"
	neo4jstore "github.com/honeycarbs/company-hunter/internal/storage/neo4j"
	sqlitestore "github.com/honeycarbs/company-hunter/internal/storage/sqlite"
	"github.com/honeycarbs/company-hunter/pkg/adzuna"
	"github.com/honeycarbs/company-hunter/pkg/cache"
	"github.com/honeycarbs/company-hunter/pkg/cache/memory"
	rediscache "github.com/honeycarbs/company-hunter/pkg/cache/redis"
	"github.com/honeycarbs/company-hunter/pkg/events"
	"github.com/honeycarbs/company-hunter/pkg/geocode"
	"github.com/honeycarbs/company-hunter/pkg/githubjobs"
	"github.com/honeycarbs/company-hunter/pkg/googlejobs"
	"github.com/honeycarbs/company-hunter/pkg/indeed"
	"github.com/honeycarbs/company-hunter/pkg/logging"
	n4j "github.com/honeycarbs/company-hunter/pkg/neo4j"
	"github.com/honeycarbs/company-hunter/pkg/places"
	"github.com/honeycarbs/company-hunter/pkg/reed"
	"github.com/honeycarbs/company-hunter/pkg/sheets"
	"github.com/honeycarbs/company-hunter/pkg/telemetry"
	"github.com/honeycarbs/company-hunter/pkg/transport"
)

const closeTimeout = 5 * time.Second

func noop() {}

// closeWith adapts a context-taking close to a Wire cleanup
func closeWith(fn func(context.Context) error, logger *logging.Logger, what string) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			logger.Warn("failed to close "+what, "err", err)
		}
	}
}

// Tracing marks that the global tracer provider is installed
type Tracing struct{}

func provideTracing(ctx context.Context, cfg config.Config, logger *logging.Logger) (Tracing, func(), error) {
	stop, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    "company-hunter",
		ServiceVersion: mcp.Version,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
	})
	if err != nil {
		logger.Warn("tracing disabled", "err", err)
		return Tracing{}, noop, nil
	}
	if cfg.Telemetry.Endpoint != "" {
		logger.Info("tracing enabled", "endpoint", cfg.Telemetry.Endpoint)
	}
	return Tracing{}, closeWith(stop, logger, "tracer"), nil
}

// vendorClient builds the traced, retrying, rate limited HTTP client for one upstream
func vendorClient(cfg config.Config, logger *logging.Logger, vendor string) *http.Client {
	s := cfg.Connector(vendor)
	return transport.NewClient(transport.Options{
		Vendor:  vendor,
		Timeout: s.Timeout,
		RPS:     s.RPS,
		Burst:   s.Burst,
		Retry: transport.RetryPolicy{
			MaxRetries: cfg.Retry.MaxRetries,
			BaseDelay:  cfg.Retry.BaseDelay,
			MaxDelay:   cfg.Retry.MaxDelay,
		},
		Logger: logger,
	})
}

func provideCache(ctx context.Context, cfg config.Config, logger *logging.Logger) (cache.Cache, func(), error) {
	opts := cache.DefaultOptions()
	opts.DefaultTTL = cfg.Redis.TTL
	opts.RedisAddr = cfg.Redis.Addr
	opts.RedisPassword = cfg.Redis.Password
	opts.RedisDB = cfg.Redis.DB

	if cfg.Redis.Addr != "" {
		c, err := rediscache.New(ctx, opts)
		if err == nil {
			logger.Info("redis cache connected", "addr", cfg.Redis.Addr)
			return c, func() { _ = c.Close() }, nil
		}
		logger.Warn("redis unavailable, using in-memory cache", "err", err)
	}

	c := memory.New(opts)
	return c, func() { _ = c.Close() }, nil
}

// enabled applies the connectors file switch, then requires credentials
func enabled(cfg config.Config, logger *logging.Logger, name string, def, hasCredentials bool) bool {
	if !cfg.ConnectorEnabled(name, def) {
		return false
	}
	if !hasCredentials {
		logger.Warn("connector enabled without credentials, skipping", "connector", name)
		return false
	}
	return true
}

func provideConnectors(ctx context.Context, cfg config.Config, logger *logging.Logger) ([]job.Connector, error) {
	var out []job.Connector

	if enabled(cfg, logger, "adzuna", cfg.Adzuna.AppID != "", cfg.Adzuna.AppID != "" && cfg.Adzuna.AppKey != "") {
		client, err := adzuna.NewClient(adzuna.Config{
			AppID:      cfg.Adzuna.AppID,
			AppKey:     cfg.Adzuna.AppKey,
			Country:    cfg.Adzuna.Country,
			BaseURL:    cfg.Adzuna.BaseURL,
			HTTPClient: vendorClient(cfg, logger, "adzuna"),
		})
		if err != nil {
			return nil, err
		}
		p, err := adzunaProvider.NewProvider(client, cfg.Adzuna.Country, logger)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}

	if enabled(cfg, logger, "reed", cfg.Reed.APIKey != "", cfg.Reed.APIKey != "") {
		client, err := reed.NewClient(reed.Config{
			APIKey:     cfg.Reed.APIKey,
			BaseURL:    cfg.Reed.BaseURL,
			HTTPClient: vendorClient(cfg, logger, "reed"),
		})
		if err != nil {
			return nil, err
		}
		p, err := reedProvider.NewProvider(client, logger)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}

	if enabled(cfg, logger, "indeed", cfg.Indeed.PublisherID != "", cfg.Indeed.PublisherID != "") {
		client, err := indeed.NewClient(indeed.Config{
			PublisherID: cfg.Indeed.PublisherID,
			BaseURL:     cfg.Indeed.BaseURL,
			HTTPClient:  vendorClient(cfg, logger, "indeed"),
		})
		if err != nil {
			return nil, err
		}
		p, err := indeedProvider.NewProvider(client, logger)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}

	if cfg.ConnectorEnabled("githubjobs", cfg.GitHubJobs.Enabled) {
		client := githubjobs.NewClient(githubjobs.Config{
			BaseURL:    cfg.GitHubJobs.BaseURL,
			HTTPClient: vendorClient(cfg, logger, "githubjobs"),
		})
		p, err := githubProvider.NewProvider(client, logger)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}

	hasGoogleJobs := cfg.GoogleJobs.APIKey != "" && cfg.GoogleJobs.ProjectID != ""
	if enabled(cfg, logger, "googlejobs", hasGoogleJobs, hasGoogleJobs) {
		client, err := googlejobs.NewClient(ctx, googlejobs.Config{
			APIKey:     cfg.GoogleJobs.APIKey,
			ProjectID:  cfg.GoogleJobs.ProjectID,
			Tenant:     cfg.GoogleJobs.Tenant,
			Endpoint:   cfg.GoogleJobs.Endpoint,
			HTTPClient: vendorClient(cfg, logger, "googlejobs"),
		})
		if err != nil {
			return nil, err
		}
		p, err := googleJobsProvider.NewProvider(client, logger)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}

	if len(out) == 0 {
		logger.Warn("no job connectors configured, searches will return no results")
	}
	return out, nil
}

func provideAggregator(cfg config.Config, connectors []job.Connector, logger *logging.Logger) *job.Aggregator {
	return job.NewAggregator(
		job.WithConnectors(connectors...),
		job.WithBlacklist(cfg.Blacklist...),
		job.WithConnectorTimeout(cfg.ConnectorTimeout),
		job.WithLogger(logger),
	)
}

func provideGeocoder(cfg config.Config, c cache.Cache, logger *logging.Logger) (geocode.Geocoder, error) {
	var chain []geocode.Geocoder

	if cfg.Google.MapsAPIKey != "" {
		g, err := geocode.NewGoogle(cfg.Google.MapsAPIKey,
			geocode.WithGoogleHTTPClient(vendorClient(cfg, logger, "google-maps")),
			geocode.WithRegion(cfg.Google.Region),
		)
		if err != nil {
			return nil, err
		}
		chain = append(chain, g)
	}

	chain = append(chain, geocode.NewNominatim(
		geocode.WithBaseURL(cfg.Nominatim.BaseURL),
		geocode.WithHTTPClient(vendorClient(cfg, logger, "nominatim")),
		geocode.WithUserAgent(cfg.Nominatim.UserAgent),
		geocode.WithCountryCodes(cfg.Nominatim.CountryCodes),
	))

	return geocode.NewCached(geocode.NewChain(logger, chain...), c, cfg.Redis.TTL, 0, logger), nil
}

func providePlaces(cfg config.Config, c cache.Cache, logger *logging.Logger) (places.Finder, error) {
	if cfg.Google.MapsAPIKey == "" {
		logger.Info("company enrichment disabled, GOOGLE_MAPS_API_KEY not set")
		return nil, nil
	}

	g, err := places.NewGoogle(cfg.Google.MapsAPIKey,
		places.WithHTTPClient(vendorClient(cfg, logger, "google-places")),
	)
	if err != nil {
		return nil, err
	}
	return places.NewCached(g, c, cfg.Redis.TTL, 0, logger), nil
}

func provideNeo4j(ctx context.Context, cfg config.Config, logger *logging.Logger) (*n4j.Client, func(), error) {
	ncfg := n4j.Config{
		URI:      cfg.Neo4j.URI,
		Username: cfg.Neo4j.Username,
		Password: cfg.Neo4j.Password,
		Database: cfg.Neo4j.Database,
	}
	if !ncfg.Enabled() {
		return nil, noop, nil
	}

	client, err := n4j.NewClient(ctx, ncfg)
	if err != nil {
		logger.Warn("neo4j unavailable, search results will not be stored", "err", err)
		return nil, noop, nil
	}

	logger.Info("neo4j client initialized", "uri", cfg.Neo4j.URI)
	return client, closeWith(client.Close, logger, "neo4j"), nil
}

func provideJobRepository(client *n4j.Client) job.Repository {
	if client == nil {
		return nil
	}
	return neo4jstore.NewJobRepository(client)
}

func providePublisher(cfg config.Config, logger *logging.Logger) (job.Publisher, func(), error) {
	if cfg.NATS.URL == "" {
		return nil, noop, nil
	}

	p, err := events.NewPublisher(events.Config{URL: cfg.NATS.URL, Subject: cfg.NATS.Subject}, logger)
	if err != nil {
		logger.Warn("nats unavailable, search events disabled", "err", err)
		return nil, noop, nil
	}

	logger.Info("nats publisher connected", "url", cfg.NATS.URL)
	return p, p.Close, nil
}

func provideHistory(ctx context.Context, cfg config.Config, logger *logging.Logger) (job.HistoryRecorder, func(), error) {
	if cfg.ClickHouse.Addr == "" {
		return nil, noop, nil
	}

	conn, err := chstore.Open(ctx, chstore.Options{
		Addr:     cfg.ClickHouse.Addr,
		Database: cfg.ClickHouse.Database,
		Username: cfg.ClickHouse.Username,
		Password: cfg.ClickHouse.Password,
	})
	if err != nil {
		logger.Warn("clickhouse unavailable, search history disabled", "err", err)
		return nil, noop, nil
	}

	rec, err := chstore.NewHistoryRecorder(ctx, conn, logger)
	if err != nil {
		_ = conn.Close()
		logger.Warn("clickhouse unavailable, search history disabled", "err", err)
		return nil, noop, nil
	}

	return rec, func() { _ = conn.Close() }, nil
}

func provideJobDeps(cfg config.Config, finder places.Finder, repo job.Repository, publisher job.Publisher, history job.HistoryRecorder) job.Deps {
	return job.Deps{
		Places:      finder,
		Repo:        repo,
		Publisher:   publisher,
		History:     history,
		EnrichLimit: cfg.EnrichLimit,
	}
}

func provideCompanyRepository(cfg config.Config, client *n4j.Client, logger *logging.Logger) (company.Repository, func(), error) {
	if client != nil {
		return neo4jstore.NewCompanyRepository(client), noop, nil
	}

	repo, err := sqlitestore.NewCompanyRepository(cfg.SQLite.Path)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("saved companies stored locally", "path", cfg.SQLite.Path)
	return repo, func() { _ = repo.Close() }, nil
}

func provideExporter(ctx context.Context, cfg config.Config, repo job.Repository, logger *logging.Logger) (tools.Exporter, error) {
	if cfg.Sheets.CredentialsPath == "" {
		return nil, nil
	}

	client, err := sheets.NewClient(ctx, sheets.Config{CredentialsPath: cfg.Sheets.CredentialsPath})
	if err != nil {
		logger.Warn("google sheets unavailable, export disabled", "err", err)
		return nil, nil
	}

	return export.NewService(client, repo, logger), nil
}
