package adzuna

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/honeycarbs/company-hunter/internal/domain"
	jobdomain "github.com/honeycarbs/company-hunter/internal/domain/job"
	"github.com/honeycarbs/company-hunter/internal/domain/job/providers"
	"github.com/honeycarbs/company-hunter/pkg/adzuna"
	"github.com/honeycarbs/company-hunter/pkg/logging"
)

const (
	name = "adzuna"

	// Adzuna's own distance filter is loose; searching twice as wide and
	// letting the aggregator trim keeps near-boundary postings.
	radiusFactor  = 2
	minDistanceKm = 10
)

var categories = []string{
	"IT Jobs",
	"Engineering Jobs",
	"Healthcare & Nursing Jobs",
	"Teaching Jobs",
	"Trade & Construction Jobs",
	"Accounting & Finance Jobs",
	"Sales Jobs",
	"Admin Jobs",
	"Scientific & QA Jobs",
	"Hospitality & Catering Jobs",
	"Retail Jobs",
	"Social work Jobs",
	"PR, Advertising & Marketing Jobs",
	"Logistics & Warehouse Jobs",
	"Creative & Design Jobs",
	"Manufacturing Jobs",
	"Legal Jobs",
	"Customer Services Jobs",
	"HR & Recruitment Jobs",
	"Property Jobs",
}

var jobTypes = []string{
	jobdomain.TypeFullTime,
	jobdomain.TypePartTime,
	jobdomain.TypeContract,
	jobdomain.TypePermanent,
	jobdomain.TypeApprenticeship,
	jobdomain.TypeInternship,
	jobdomain.TypeGraduate,
}

var currencies = map[string]string{
	"gb": "GBP",
	"us": "USD",
	"ca": "CAD",
	"au": "AUD",
	"nz": "NZD",
	"in": "INR",
	"za": "ZAR",
	"sg": "SGD",
	"br": "BRL",
	"pl": "PLN",
	"ch": "CHF",
	"de": "EUR",
	"fr": "EUR",
	"nl": "EUR",
	"at": "EUR",
	"it": "EUR",
	"es": "EUR",
	"be": "EUR",
}

// searchClient describes the subset of the Adzuna client used by the provider.
type searchClient interface {
	Search(ctx context.Context, params adzuna.SearchParams) (adzuna.SearchResponse, error)
}

// Provider implements job.Connector using Adzuna API
type Provider struct {
	client   searchClient
	currency string
	logger   *logging.Logger
}

// NewProvider builds an Adzuna provider. country selects the currency
// reported on salaries.
func NewProvider(client searchClient, country string, logger *logging.Logger) (*Provider, error) {
	if client == nil {
		return nil, fmt.Errorf("adzuna provider: client is required")
	}
	if country == "" {
		country = "gb"
	}
	return &Provider{
		client:   client,
		currency: currencies[strings.ToLower(country)],
		logger:   logging.OrNop(logger).With("connector", name),
	}, nil
}

// Name returns provider identifier
func (p *Provider) Name() string {
	return name
}

func (p *Provider) Categories() []string {
	return slices.Clone(categories)
}

func (p *Provider) JobTypes() []string {
	return slices.Clone(jobTypes)
}

// SearchJobs queries Adzuna and returns normalized jobs. When the located
// search is empty it retries once without location.
func (p *Provider) SearchJobs(ctx context.Context, location string, radiusKm float64, cats, types []string) []domain.Job {
	params := BuildParams(location, radiusKm, cats, types)

	resp, err := p.client.Search(ctx, params)
	if err != nil {
		p.logger.Warn("search failed", "err", err)
		return []domain.Job{}
	}

	if len(resp.Results) == 0 {
		p.logger.Debug("no results, trying generic search", "location", location)
		generic := params
		generic.Where = ""
		generic.DistanceKm = 0

		resp, err = p.client.Search(ctx, generic)
		if err != nil {
			p.logger.Warn("generic search failed", "err", err)
			return []domain.Job{}
		}
	}

	out := make([]domain.Job, 0, len(resp.Results))
	for _, posting := range resp.Results {
		out = append(out, p.StandardizeJob(posting))
	}
	p.logger.Debug("search finished", "count", resp.Count, "returned", len(out))
	return out
}

// BuildParams maps a canonical search onto Adzuna's query parameters
func BuildParams(location string, radiusKm float64, cats, types []string) adzuna.SearchParams {
	distance := int(radiusKm * radiusFactor)
	if distance < minDistanceKm {
		distance = minDistanceKm
	}

	params := adzuna.SearchParams{
		Where:      location,
		DistanceKm: distance,
	}

	var what []string
	if len(cats) > 0 {
		terms := make([]string, 0, len(cats))
		for _, c := range cats {
			terms = append(terms, "category:"+c)
		}
		what = append(what, strings.Join(terms, " OR "))
	}

	for _, t := range types {
		switch t {
		case jobdomain.TypeFullTime:
			params.FullTime = true
		case jobdomain.TypePartTime:
			params.PartTime = true
		case jobdomain.TypeContract:
			params.Contract = true
		case jobdomain.TypePermanent:
			params.Permanent = true
		default:
			// no flag for these; Adzuna matches them as keywords
			what = append(what, t)
		}
	}

	params.What = strings.Join(what, " ")
	return params
}

// StandardizeJob maps an Adzuna posting to the canonical job
func (p *Provider) StandardizeJob(posting adzuna.Posting) domain.Job {
	j := domain.NewJob(name)

	j.ID = strings.TrimSpace(posting.ID)
	j.Title = domain.OrDefault(posting.Title, domain.UnknownTitle)
	j.Company.DisplayName = domain.OrDefault(posting.Company.DisplayName, domain.UnknownValue)
	j.Description = posting.Description
	j.RedirectURL = posting.RedirectURL

	j.Location.Area = providers.Area(posting.Location.Area...)
	if len(j.Location.Area) == 0 {
		j.Location.Area = providers.SplitArea(posting.Location.DisplayName)
	}

	j.Latitude = providers.CopyFloat(posting.Latitude)
	j.Longitude = providers.CopyFloat(posting.Longitude)
	j.Category.Label = domain.OrDefault(posting.Category.Label, domain.UnknownValue)
	j.ContractType = contractType(posting)

	j.SalaryMin = providers.CopyFloat(posting.SalaryMin)
	j.SalaryMax = providers.CopyFloat(posting.SalaryMax)
	if j.SalaryMin != nil || j.SalaryMax != nil {
		j.Currency = p.currency
	}

	j.Created = providers.ParseTime(posting.Created, time.RFC3339)

	j.CompanyMetadata.Address = providers.JoinArea(j.Location.Area)
	j.CompanyMetadata.Website = domain.OrDefault(posting.RedirectURL, domain.NotAvailable)

	return j
}

// contractType prefers contract_time (full/part time) over contract_type
func contractType(posting adzuna.Posting) string {
	for _, v := range []string{posting.ContractTime, posting.ContractType} {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "full_time":
			return jobdomain.TypeFullTime
		case "part_time":
			return jobdomain.TypePartTime
		case "permanent":
			return jobdomain.TypePermanent
		case "contract":
			return jobdomain.TypeContract
		}
	}
	return domain.UnknownValue
}

var _ jobdomain.Connector = (*Provider)(nil)
