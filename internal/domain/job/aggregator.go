package job

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/honeycarbs/company-hunter/internal/domain"
	"github.com/honeycarbs/company-hunter/pkg/logging"
)

const DefaultConnectorTimeout = 15 * time.Second

// Aggregator fans a search out to every registered connector and merges
// the answers into one deduplicated, distance-sorted list.
// Register is meant for startup; it must not race with SearchJobs.
type Aggregator struct {
	connectors []Connector
	categories []string
	jobTypes   []string

	blacklist map[string]struct{}
	timeout   time.Duration
	logger    *logging.Logger
	tracer    trace.Tracer
}

// AggregatorOption configures Aggregator
type AggregatorOption func(*Aggregator)

// WithBlacklist drops jobs from the named companies (case-insensitive)
func WithBlacklist(companies ...string) AggregatorOption {
	return func(a *Aggregator) {
		for _, c := range companies {
			if key := normalizeName(c); key != "" {
				a.blacklist[key] = struct{}{}
			}
		}
	}
}

// WithConnectorTimeout bounds each connector call
func WithConnectorTimeout(d time.Duration) AggregatorOption {
	return func(a *Aggregator) {
		if d > 0 {
			a.timeout = d
		}
	}
}

func WithLogger(l *logging.Logger) AggregatorOption {
	return func(a *Aggregator) {
		a.logger = logging.OrNop(l)
	}
}

func WithConnectors(connectors ...Connector) AggregatorOption {
	return func(a *Aggregator) {
		for _, c := range connectors {
			a.Register(c)
		}
	}
}

func NewAggregator(opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{
		categories: []string{},
		jobTypes:   []string{},
		blacklist:  make(map[string]struct{}),
		timeout:    DefaultConnectorTimeout,
		logger:     logging.NewNop(),
		tracer:     otel.Tracer("company-hunter/job"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Register adds a connector and refreshes the category and job type unions
func (a *Aggregator) Register(c Connector) {
	if c == nil {
		return
	}
	a.connectors = append(a.connectors, c)
	a.categories = union(a.categories, c.Categories())
	a.jobTypes = union(a.jobTypes, c.JobTypes())
	a.logger.Info("connector registered", "connector", c.Name())
}

// Categories returns the sorted union of every connector's categories
func (a *Aggregator) Categories() []string {
	return slices.Clone(a.categories)
}

// JobTypes returns the sorted union of every connector's job types
func (a *Aggregator) JobTypes() []string {
	return slices.Clone(a.jobTypes)
}

// Names lists registered connectors in registration order
func (a *Aggregator) Names() []string {
	names := make([]string, 0, len(a.connectors))
	for _, c := range a.connectors {
		names = append(names, c.Name())
	}
	return names
}

// SearchJobs runs every connector concurrently and merges the results
// around center. Only an invalid request is an error; failing connectors
// contribute nothing.
func (a *Aggregator) SearchJobs(ctx context.Context, req domain.SearchRequest, center domain.SearchCenter) ([]domain.Job, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if len(a.connectors) == 0 {
		return []domain.Job{}, nil
	}

	ctx, span := a.tracer.Start(ctx, "aggregator.search", trace.WithAttributes(
		attribute.String("location", req.Location),
		attribute.Float64("radius_km", req.Radius),
		attribute.Int("connectors", len(a.connectors)),
	))
	defer span.End()

	batches := make([][]domain.Job, len(a.connectors))
	var wg sync.WaitGroup
	for i, c := range a.connectors {
		categories := narrow(req.Categories, c.Categories())
		jobTypes := narrow(req.JobTypes, c.JobTypes())
		if len(req.Categories)+len(req.JobTypes) > len(categories)+len(jobTypes) {
			a.logger.Debug("connector does not support every filter", "connector", c.Name(),
				"categories", categories, "job_types", jobTypes)
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			batches[i] = a.call(ctx, c, req, categories, jobTypes)
		}()
	}
	wg.Wait()

	jobs := a.merge(batches, req.Radius, center)
	span.SetAttributes(attribute.Int("results", len(jobs)))
	return jobs, nil
}

// call runs one connector under its own deadline. A connector that
// ignores its context is abandoned when the deadline passes.
func (a *Aggregator) call(ctx context.Context, c Connector, req domain.SearchRequest, categories, jobTypes []string) []domain.Job {
	name := c.Name()
	ctx, span := a.tracer.Start(ctx, "connector.search", trace.WithAttributes(attribute.String("connector", name)))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := time.Now()
	done := make(chan []domain.Job, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				a.logger.Error("connector panicked", "connector", name, "panic", fmt.Sprint(r))
				span.SetStatus(codes.Error, "panic")
				done <- nil
			}
		}()
		done <- c.SearchJobs(ctx, req.Location, req.Radius, categories, jobTypes)
	}()

	var jobs []domain.Job
	select {
	case jobs = <-done:
	case <-ctx.Done():
		a.logger.Warn("connector timed out", "connector", name, "timeout", a.timeout, "err", ctx.Err())
		span.SetStatus(codes.Error, "timeout")
		return nil
	}

	for i := range jobs {
		if jobs[i].SourceAPI == "" {
			jobs[i].SourceAPI = name
		}
	}

	a.logger.Debug("connector finished", "connector", name, "jobs", len(jobs), "elapsed", time.Since(start))
	span.SetAttributes(attribute.Int("jobs", len(jobs)))
	return jobs
}

// narrow intersects requested filters with what a connector supports,
// in the connector's spelling. No overlap yields nil, an unfiltered call:
// vendor vocabularies differ and extra results beat silently lost ones.
func narrow(requested, supported []string) []string {
	if len(requested) == 0 {
		return nil
	}

	index := make(map[string]string, len(supported))
	for _, s := range supported {
		index[strings.ToLower(strings.TrimSpace(s))] = s
	}

	var out []string
	seen := make(map[string]struct{}, len(requested))
	for _, r := range requested {
		s, ok := index[strings.ToLower(strings.TrimSpace(r))]
		if !ok {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func union(current, add []string) []string {
	for _, s := range add {
		if !slices.Contains(current, s) {
			current = append(current, s)
		}
	}
	slices.Sort(current)
	return current
}

func normalizeName(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
