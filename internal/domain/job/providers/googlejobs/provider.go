package googlejobs

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	jobs "google.golang.org/api/jobs/v4"

	"github.com/honeycarbs/company-hunter/internal/domain"
	jobdomain "github.com/honeycarbs/company-hunter/internal/domain/job"
	"github.com/honeycarbs/company-hunter/internal/domain/job/providers"
	"github.com/honeycarbs/company-hunter/pkg/geo"
	"github.com/honeycarbs/company-hunter/pkg/googlejobs"
	"github.com/honeycarbs/company-hunter/pkg/logging"
)

const (
	name = "googlejobs"

	defaultCategory = "IT Jobs"
	defaultCurrency = "USD"
)

var categories = []string{
	"IT Jobs",
	"Engineering Jobs",
	"Healthcare & Nursing Jobs",
	"Finance Jobs",
	"Marketing Jobs",
	"Sales Jobs",
	"Administrative Jobs",
	"Education Jobs",
	"Manufacturing Jobs",
	"Retail Jobs",
	"Customer Service Jobs",
	"Legal Jobs",
}

var jobTypes = []string{
	jobdomain.TypeFullTime,
	jobdomain.TypePartTime,
	jobdomain.TypeContract,
	jobdomain.TypeTemporary,
	jobdomain.TypeInternship,
	jobdomain.TypeOther,
}

// canonical type -> Cloud Talent employment types
var toEmploymentTypes = map[string][]string{
	jobdomain.TypeFullTime:   {"FULL_TIME"},
	jobdomain.TypePartTime:   {"PART_TIME"},
	jobdomain.TypeContract:   {"CONTRACTOR"},
	jobdomain.TypeTemporary:  {"TEMPORARY"},
	jobdomain.TypeInternship: {"INTERN"},
	jobdomain.TypeOther:      {"VOLUNTEER", "PER_DIEM", "OTHER"},
}

var fromEmploymentType = map[string]string{
	"FULL_TIME":  jobdomain.TypeFullTime,
	"PART_TIME":  jobdomain.TypePartTime,
	"CONTRACTOR": jobdomain.TypeContract,
	"TEMPORARY":  jobdomain.TypeContract,
	"INTERN":     jobdomain.TypeInternship,
	"VOLUNTEER":  jobdomain.TypeOther,
	"PER_DIEM":   jobdomain.TypeOther,
	"OTHER":      jobdomain.TypeOther,
}

type searchClient interface {
	Search(ctx context.Context, params googlejobs.SearchParams) ([]*jobs.Job, error)
}

// Provider implements job.Connector over Cloud Talent Solution
type Provider struct {
	client searchClient
	logger *logging.Logger
}

func NewProvider(client searchClient, logger *logging.Logger) (*Provider, error) {
	if client == nil {
		return nil, fmt.Errorf("googlejobs provider: client is required")
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

func (p *Provider) SearchJobs(ctx context.Context, location string, radiusKm float64, cats, types []string) []domain.Job {
	found, err := p.client.Search(ctx, BuildParams(location, radiusKm, cats, types))
	if err != nil {
		p.logger.Warn("search failed", "err", err)
		return []domain.Job{}
	}

	out := make([]domain.Job, 0, len(found))
	for _, j := range found {
		out = append(out, p.StandardizeJob(j))
	}
	p.logger.Debug("search finished", "returned", len(out))
	return out
}

// BuildParams maps a canonical search onto a Cloud Talent job query
func BuildParams(location string, radiusKm float64, cats, types []string) googlejobs.SearchParams {
	terms := make([]string, 0, len(cats))
	for _, c := range cats {
		if t := providers.StripJobsSuffix(c); t != "" {
			terms = append(terms, t)
		}
	}

	var employment []string
	for _, t := range types {
		for _, e := range toEmploymentTypes[t] {
			if !slices.Contains(employment, e) {
				employment = append(employment, e)
			}
		}
	}

	return googlejobs.SearchParams{
		Query:           strings.Join(terms, " OR "),
		Address:         location,
		DistanceMiles:   geo.KmToMiles(radiusKm),
		EmploymentTypes: employment,
	}
}

// StandardizeJob maps a Cloud Talent job to the canonical job
func (p *Provider) StandardizeJob(src *jobs.Job) domain.Job {
	j := domain.NewJob(name)
	if src == nil {
		return j
	}

	j.ID = src.Name
	j.Title = domain.OrDefault(src.Title, domain.UnknownTitle)
	j.Company.DisplayName = domain.OrDefault(src.CompanyDisplayName, domain.UnknownValue)
	j.Description = src.Description

	var address string
	if len(src.Addresses) > 0 {
		address = src.Addresses[0]
	}
	j.Location.Area = providers.SplitArea(address)

	if src.DerivedInfo != nil {
		for _, loc := range src.DerivedInfo.Locations {
			if loc != nil && loc.LatLng != nil {
				j.Latitude = domain.Float(loc.LatLng.Latitude)
				j.Longitude = domain.Float(loc.LatLng.Longitude)
				break
			}
		}
	}

	if len(src.EmploymentTypes) > 0 {
		if ct, ok := fromEmploymentType[src.EmploymentTypes[0]]; ok {
			j.ContractType = ct
		}
	}

	j.SalaryMin, j.SalaryMax, j.Currency = compensation(src.CompensationInfo)
	j.Created = providers.ParseTime(src.PostingPublishTime, time.RFC3339Nano, time.RFC3339)

	if src.ApplicationInfo != nil && len(src.ApplicationInfo.Uris) > 0 {
		j.RedirectURL = src.ApplicationInfo.Uris[0]
	}

	j.Category.Label = providers.Classify(categories, defaultCategory, src.Title, src.Description)
	j.CompanyMetadata.Address = domain.OrDefault(address, domain.NotAvailable)

	return j
}

// compensation reads the first entry, as a range or a fixed amount.
// Currency is empty when the entry carries no amount.
func compensation(info *jobs.CompensationInfo) (min, max *float64, currency string) {
	if info == nil || len(info.Entries) == 0 || info.Entries[0] == nil {
		return nil, nil, ""
	}

	currency = defaultCurrency
	entry := info.Entries[0]
	switch {
	case entry.Range != nil:
		min = money(entry.Range.MinCompensation, &currency)
		max = money(entry.Range.MaxCompensation, &currency)
	case entry.Amount != nil:
		min = money(entry.Amount, &currency)
		max = min
	}
	if min == nil && max == nil {
		return nil, nil, ""
	}
	return min, max, currency
}

func money(m *jobs.Money, currency *string) *float64 {
	if m == nil {
		return nil
	}
	if m.CurrencyCode != "" {
		*currency = m.CurrencyCode
	}
	return domain.Float(float64(m.Units) + float64(m.Nanos)/1e9)
}

var _ jobdomain.Connector = (*Provider)(nil)
