package job

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/honeycarbs/company-hunter/internal/domain"
	"github.com/honeycarbs/company-hunter/pkg/geocode"
	"github.com/honeycarbs/company-hunter/pkg/logging"
	"github.com/honeycarbs/company-hunter/pkg/places"
)

const defaultEnrichLimit = 4

// Filters lists what searches can be narrowed by
type Filters struct {
	Categories []string `json:"categories"`
	JobTypes   []string `json:"job_types"`
}

type Service interface {
	Search(ctx context.Context, req domain.SearchRequest) (domain.SearchResult, error)
	Filters() Filters
}

// Option configures Service
type Option func(*config)

type config struct {
	aggregator  *Aggregator
	geocoder    geocode.Geocoder
	places      places.Finder
	repo        Repository
	publisher   Publisher
	history     HistoryRecorder
	logger      *logging.Logger
	clock       func() time.Time
	enrichLimit int
}

// WithAggregator sets the connector aggregator
func WithAggregator(a *Aggregator) Option {
	return func(c *config) {
		c.aggregator = a
	}
}

// WithGeocoder sets the geocoder resolving the search centre
func WithGeocoder(g geocode.Geocoder) Option {
	return func(c *config) {
		c.geocoder = g
	}
}

// WithPlaces enables company metadata enrichment
func WithPlaces(f places.Finder) Option {
	return func(c *config) {
		c.places = f
	}
}

// WithRepository sets the repository
func WithRepository(repo Repository) Option {
	return func(c *config) {
		c.repo = repo
	}
}

func WithPublisher(p Publisher) Option {
	return func(c *config) {
		c.publisher = p
	}
}

func WithHistory(h HistoryRecorder) Option {
	return func(c *config) {
		c.history = h
	}
}

func WithServiceLogger(l *logging.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithClock sets a custom clock
func WithClock(clock func() time.Time) Option {
	return func(c *config) {
		c.clock = clock
	}
}

// WithEnrichLimit caps concurrent places lookups
func WithEnrichLimit(n int) Option {
	return func(c *config) {
		c.enrichLimit = n
	}
}

// NewService builds Service from options
func NewService(opts ...Option) (Service, error) {
	cfg := &config{
		clock:       time.Now,
		enrichLimit: defaultEnrichLimit,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.aggregator == nil {
		return nil, fmt.Errorf("job.Service: aggregator is required")
	}
	if cfg.geocoder == nil {
		return nil, fmt.Errorf("job.Service: geocoder is required")
	}
	if cfg.enrichLimit <= 0 {
		cfg.enrichLimit = defaultEnrichLimit
	}

	return &service{
		aggregator:  cfg.aggregator,
		geocoder:    cfg.geocoder,
		places:      cfg.places,
		repo:        cfg.repo,
		publisher:   cfg.publisher,
		history:     cfg.history,
		logger:      logging.OrNop(cfg.logger).Named("job"),
		clock:       cfg.clock,
		enrichLimit: cfg.enrichLimit,
		tracer:      otel.Tracer("company-hunter/job"),
	}, nil
}

// Deps groups the optional collaborators of Service (Wire-compatible)
type Deps struct {
	Places    places.Finder
	Repo      Repository
	Publisher Publisher
	History   HistoryRecorder

	// EnrichLimit caps concurrent places lookups; zero keeps the default
	EnrichLimit int
}

// NewServiceWithDeps creates a Service with direct dependencies (Wire-compatible)
func NewServiceWithDeps(aggregator *Aggregator, geocoder geocode.Geocoder, deps Deps, logger *logging.Logger) (Service, error) {
	return NewService(
		WithAggregator(aggregator),
		WithGeocoder(geocoder),
		WithPlaces(deps.Places),
		WithRepository(deps.Repo),
		WithPublisher(deps.Publisher),
		WithHistory(deps.History),
		WithEnrichLimit(deps.EnrichLimit),
		WithServiceLogger(logger),
	)
}

type service struct {
	aggregator  *Aggregator
	geocoder    geocode.Geocoder
	places      places.Finder
	repo        Repository
	publisher   Publisher
	history     HistoryRecorder
	logger      *logging.Logger
	clock       func() time.Time
	enrichLimit int
	tracer      trace.Tracer
}

func (s *service) Filters() Filters {
	return Filters{
		Categories: s.aggregator.Categories(),
		JobTypes:   s.aggregator.JobTypes(),
	}
}

// Search geocodes the request, runs the aggregator, enriches company
// metadata and records the outcome. Only validation and geocoding can
// fail a search.
func (s *service) Search(ctx context.Context, req domain.SearchRequest) (domain.SearchResult, error) {
	start := s.clock()

	ctx, span := s.tracer.Start(ctx, "job.search")
	defer span.End()

	if err := req.Validate(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return domain.SearchResult{}, err
	}

	center, err := s.locate(ctx, req.Location)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return domain.SearchResult{}, err
	}

	vendorReq := req
	vendorReq.Location = searchLocation(req.Location, center.FormattedAddress)

	jobs, err := s.aggregator.SearchJobs(ctx, vendorReq, center)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return domain.SearchResult{}, err
	}

	s.enrich(ctx, jobs, vendorReq.Location)

	result := domain.SearchResult{
		ID:          uuid.NewString(),
		Jobs:        jobs,
		Total:       len(jobs),
		Center:      center,
		SourceCount: len(sources(jobs)),
		FetchedAt:   s.clock().UTC(),
	}
	span.SetAttributes(
		attribute.String("search_id", result.ID),
		attribute.Int("total", result.Total),
		attribute.Int("source_count", result.SourceCount),
	)

	s.record(ctx, req, result, s.clock().Sub(start))

	s.logger.Info("search completed",
		"search_id", result.ID,
		"location", req.Location,
		"radius_km", req.Radius,
		"total", result.Total,
		"sources", result.SourceCount,
	)
	return result, nil
}

func (s *service) locate(ctx context.Context, location string) (domain.SearchCenter, error) {
	res, err := s.geocoder.Geocode(ctx, location)
	if err != nil {
		if errors.Is(err, geocode.ErrNotResolvable) {
			return domain.SearchCenter{}, domain.LocationUnresolvable(fmt.Sprintf("could not geocode %q", location), err)
		}
		return domain.SearchCenter{}, domain.Unavailable("geocoding failed", err)
	}

	return domain.SearchCenter{
		Latitude:         res.Lat,
		Longitude:        res.Lng,
		FormattedAddress: res.FormattedAddress,
	}, nil
}

// enrich fills company metadata for jobs that carry none, one lookup per
// distinct company. Lookup failures leave the sentinels in place.
func (s *service) enrich(ctx context.Context, jobs []domain.Job, near string) {
	if s.places == nil || len(jobs) == 0 {
		return
	}

	groups := make(map[string][]int)
	var names []string
	for i, j := range jobs {
		name := strings.TrimSpace(j.Company.DisplayName)
		if !j.MetadataUnset() || name == "" || name == domain.UnknownValue {
			continue
		}
		key := normalizeName(name)
		if _, ok := groups[key]; !ok {
			names = append(names, name)
		}
		groups[key] = append(groups[key], i)
	}
	if len(names) == 0 {
		return
	}

	found := make([]*places.Details, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.enrichLimit)
	for i, name := range names {
		g.Go(func() error {
			d, err := s.places.Lookup(gctx, name, near)
			if err != nil {
				if !errors.Is(err, places.ErrNotFound) {
					s.logger.Warn("places lookup failed", "company", name, "err", err)
				}
				return nil
			}
			found[i] = &d
			return nil
		})
	}
	_ = g.Wait()

	for i, name := range names {
		if found[i] == nil {
			continue
		}
		meta := domain.CompanyMetadata{
			Address: domain.OrDefault(found[i].Address, domain.NotAvailable),
			Phone:   domain.OrDefault(found[i].Phone, domain.NotAvailable),
			Website: domain.OrDefault(found[i].Website, domain.NotAvailable),
			MapsURL: domain.OrDefault(found[i].MapsURL, domain.NotAvailable),
		}
		for _, idx := range groups[normalizeName(name)] {
			jobs[idx].CompanyMetadata = meta
		}
	}
}

// record persists, publishes and logs the search. Failures are logged only.
func (s *service) record(ctx context.Context, req domain.SearchRequest, result domain.SearchResult, took time.Duration) {
	if s.repo != nil && result.Total > 0 {
		if err := s.repo.SaveSearch(ctx, req, result); err != nil {
			s.logger.Warn("failed to persist search", "search_id", result.ID, "err", err)
		}
	}

	if s.publisher != nil {
		ids := make([]string, 0, len(result.Jobs))
		for _, j := range result.Jobs {
			ids = append(ids, j.ID)
		}
		event := SearchCompleted{
			SearchID:    result.ID,
			Location:    req.Location,
			RadiusKm:    req.Radius,
			Categories:  req.Categories,
			JobTypes:    req.JobTypes,
			Total:       result.Total,
			SourceCount: result.SourceCount,
			JobIDs:      ids,
			Center:      result.Center,
			FetchedAt:   result.FetchedAt,
		}
		if err := s.publisher.PublishSearchCompleted(ctx, event); err != nil {
			s.logger.Warn("failed to publish search event", "search_id", result.ID, "err", err)
		}
	}

	if s.history != nil {
		entry := HistoryEntry{
			SearchID:   result.ID,
			Location:   req.Location,
			Latitude:   result.Center.Latitude,
			Longitude:  result.Center.Longitude,
			RadiusKm:   req.Radius,
			Categories: req.Categories,
			JobTypes:   req.JobTypes,
			Total:      result.Total,
			Sources:    sources(result.Jobs),
			Duration:   took,
			SearchedAt: result.FetchedAt,
		}
		if err := s.history.RecordSearch(ctx, entry); err != nil {
			s.logger.Warn("failed to record search history", "search_id", result.ID, "err", err)
		}
	}
}

// searchLocation prefers the full geocoded address, which keeps the
// region that disambiguates a town name, over the raw query.
func searchLocation(query, formatted string) string {
	if formatted = strings.TrimSpace(formatted); formatted != "" {
		return formatted
	}
	return query
}

func sources(jobs []domain.Job) []string {
	var out []string
	for _, j := range jobs {
		if !slices.Contains(out, j.SourceAPI) {
			out = append(out, j.SourceAPI)
		}
	}
	slices.Sort(out)
	return out
}
