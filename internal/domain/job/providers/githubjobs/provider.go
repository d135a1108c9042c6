package githubjobs

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/honeycarbs/company-hunter/internal/domain"
	jobdomain "github.com/honeycarbs/company-hunter/internal/domain/job"
	"github.com/honeycarbs/company-hunter/internal/domain/job/providers"
	"github.com/honeycarbs/company-hunter/pkg/githubjobs"
	"github.com/honeycarbs/company-hunter/pkg/logging"
)

const (
	name = "githubjobs"

	defaultCategory = "IT Jobs"
	createdLayout   = "Mon Jan 02 15:04:05 MST 2006"
)

var categories = []string{
	"IT Jobs",
	"Engineering Jobs",
	"Software Development Jobs",
	"Web Development Jobs",
	"Mobile Development Jobs",
	"DevOps Jobs",
	"Data Science Jobs",
}

// GitHub Jobs lists full-time positions only
var jobTypes = []string{jobdomain.TypeFullTime}

// checked in order; the first list with a hit wins
var classifier = []struct {
	category string
	keywords []string
}{
	{"Web Development Jobs", []string{"web", "frontend", "front-end", "backend", "back-end", "full-stack", "html", "css", "javascript"}},
	{"Mobile Development Jobs", []string{"mobile", "android", "ios", "swift", "kotlin", "react native", "flutter"}},
	{"DevOps Jobs", []string{"devops", "aws", "cloud", "kubernetes", "docker", "ci/cd"}},
	{"Data Science Jobs", []string{"data", "machine learning", "ai", "artificial intelligence", "ml", "data science"}},
}

type searchClient interface {
	Search(ctx context.Context, params githubjobs.SearchParams) ([]githubjobs.Posting, error)
}

// Provider implements job.Connector over the GitHub Jobs positions API
type Provider struct {
	client searchClient
	logger *logging.Logger
}

func NewProvider(client searchClient, logger *logging.Logger) (*Provider, error) {
	if client == nil {
		return nil, fmt.Errorf("githubjobs provider: client is required")
	}
	return &Provider{client: client, logger: logging.OrNop(logger).With("connector", name)}, nil
}

func (p *Provider) Name() string {
	return name
}

func (p *Provider) Categories() []string {
	return slices.Clone(categories)
}

func (p *Provider) JobTypes() []string {
	return slices.Clone(jobTypes)
}

// SearchJobs queries by location only; the API has no radius, so distance
// filtering is left to the aggregator.
func (p *Provider) SearchJobs(ctx context.Context, location string, _ float64, cats, types []string) []domain.Job {
	postings, err := p.client.Search(ctx, githubjobs.SearchParams{
		Description: providers.FirstKeyword(cats),
		Location:    location,
		FullTime:    providers.Contains(types, jobdomain.TypeFullTime),
	})
	if err != nil {
		p.logger.Warn("search failed", "err", err)
		return []domain.Job{}
	}

	out := make([]domain.Job, 0, len(postings))
	for _, posting := range postings {
		out = append(out, p.StandardizeJob(posting))
	}
	p.logger.Debug("search finished", "returned", len(out))
	return out
}

// StandardizeJob maps a positions.json entry to the canonical job
func (p *Provider) StandardizeJob(posting githubjobs.Posting) domain.Job {
	j := domain.NewJob(name)

	j.ID = strings.TrimSpace(posting.ID)
	j.Title = domain.OrDefault(posting.Title, domain.UnknownTitle)
	j.Company.DisplayName = domain.OrDefault(posting.Company, domain.UnknownValue)
	j.Description = posting.Description
	j.RedirectURL = posting.URL
	j.Location.Area = cityCountry(posting.Location)
	j.Category.Label = Classify(posting.Title, posting.Description)
	j.ContractType = jobdomain.TypeFullTime
	j.Created = providers.ParseTime(posting.CreatedAt, createdLayout, time.RFC3339)

	j.CompanyMetadata.Address = domain.OrDefault(posting.Location, domain.NotAvailable)
	j.CompanyMetadata.Website = domain.OrDefault(posting.CompanyURL, domain.NotAvailable)

	return j
}

// Classify picks a tech category from keywords in title or description
func Classify(title, description string) string {
	text := strings.ToLower(title) + "\n" + strings.ToLower(description)
	for _, c := range classifier {
		for _, kw := range c.keywords {
			if strings.Contains(text, kw) {
				return c.category
			}
		}
	}
	return defaultCategory
}

// cityCountry keeps the first and last comma separated parts
func cityCountry(location string) []string {
	parts := providers.SplitArea(location)
	if len(parts) <= 1 {
		return parts
	}
	return []string{parts[0], parts[len(parts)-1]}
}

var _ jobdomain.Connector = (*Provider)(nil)
