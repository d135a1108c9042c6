package indeed

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/honeycarbs/company-hunter/internal/domain"
	jobdomain "github.com/honeycarbs/company-hunter/internal/domain/job"
	"github.com/honeycarbs/company-hunter/internal/domain/job/providers"
	"github.com/honeycarbs/company-hunter/pkg/indeed"
	"github.com/honeycarbs/company-hunter/pkg/logging"
)

const (
	name = "indeed"

	milesPerKm     = 0.621371
	minRadiusMiles = 5

	// a single salary figure below this is treated as an hourly rate
	hourlyCeiling = 100
	hoursPerYear  = 40 * 52
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
	jobdomain.TypeRemote,
}

// canonical type -> Indeed jt value
var toVendorType = map[string]string{
	jobdomain.TypeFullTime:   "fulltime",
	jobdomain.TypePartTime:   "parttime",
	jobdomain.TypeContract:   "contract",
	jobdomain.TypeTemporary:  "temporary",
	jobdomain.TypeInternship: "internship",
	jobdomain.TypeRemote:     "remote",
}

// Indeed jobtype -> canonical type
var fromVendorType = map[string]string{
	"fulltime":   jobdomain.TypeFullTime,
	"parttime":   jobdomain.TypePartTime,
	"contract":   jobdomain.TypeContract,
	"temporary":  jobdomain.TypeContract,
	"internship": jobdomain.TypeInternship,
	"remote":     jobdomain.TypeRemote,
}

var salaryNumber = regexp.MustCompile(`\d+(?:,\d+)*(?:\.\d+)?`)

type searchClient interface {
	Search(ctx context.Context, params indeed.SearchParams) (indeed.SearchResponse, error)
}

// Provider implements job.Connector using the Indeed publisher API
type Provider struct {
	client searchClient
	logger *logging.Logger
}

func NewProvider(client searchClient, logger *logging.Logger) (*Provider, error) {
	if client == nil {
		return nil, fmt.Errorf("indeed provider: client is required")
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
	resp, err := p.client.Search(ctx, BuildParams(location, radiusKm, cats, types))
	if err != nil {
		p.logger.Warn("search failed", "err", err)
		return []domain.Job{}
	}

	out := make([]domain.Job, 0, len(resp.Results))
	for _, posting := range resp.Results {
		out = append(out, p.StandardizeJob(posting))
	}
	p.logger.Debug("search finished", "returned", len(out))
	return out
}

// BuildParams maps a canonical search onto Indeed's parameters. Indeed
// takes one keyword and one job type, so the first of each is used.
func BuildParams(location string, radiusKm float64, cats, types []string) indeed.SearchParams {
	miles := int(radiusKm * milesPerKm)
	if miles < minRadiusMiles {
		miles = minRadiusMiles
	}

	params := indeed.SearchParams{
		Query:       providers.FirstKeyword(cats),
		Location:    location,
		RadiusMiles: miles,
	}
	for _, t := range types {
		if jt, ok := toVendorType[t]; ok {
			params.JobType = jt
			break
		}
	}
	return params
}

// StandardizeJob maps an Indeed posting to the canonical job. A posting
// without a jobkey gets an id derived from its content.
func (p *Provider) StandardizeJob(posting indeed.Posting) domain.Job {
	j := domain.NewJob(name)

	j.Title = domain.OrDefault(posting.JobTitle, domain.UnknownTitle)
	j.Company.DisplayName = domain.OrDefault(posting.Company, domain.UnknownValue)
	j.Location.Area = providers.Area(posting.City, posting.Country)
	j.Description = posting.Snippet
	j.RedirectURL = posting.URL

	j.ID = strings.TrimSpace(posting.JobKey)
	if j.ID == "" {
		j.ID = domain.DeriveJobID(j.Title, j.Company.DisplayName, j.Location.Area)
	}

	j.Latitude = providers.CopyFloat(posting.Latitude)
	j.Longitude = providers.CopyFloat(posting.Longitude)

	j.Category.Label = providers.Classify(categories, domain.UnknownValue, posting.JobTitle, posting.Snippet)
	if ct, ok := fromVendorType[strings.ReplaceAll(strings.ToLower(posting.JobType), " ", "")]; ok {
		j.ContractType = ct
	}

	j.SalaryMin, j.SalaryMax, j.Currency = ParseSalary(posting.Salary)
	j.Created = providers.ParseTime(posting.Date, time.RFC1123, time.RFC1123Z, time.RFC3339)
	j.CompanyMetadata.Address = domain.OrDefault(posting.FormattedLocation, domain.NotAvailable)

	return j
}

// ParseSalary reads free-text salary such as "£40,000 - £45,000 a year".
// Two figures are min and max; a single figure under 100 is hourly and is
// annualized, with the max estimated 20% above. Currency defaults to GBP
// and is empty when no figure was read.
func ParseSalary(text string) (min, max *float64, currency string) {
	if strings.TrimSpace(text) == "" {
		return nil, nil, ""
	}

	currency = "GBP"

	switch {
	case strings.Contains(text, "£"):
		currency = "GBP"
	case strings.Contains(text, "€"):
		currency = "EUR"
	case strings.Contains(text, "$"):
		currency = "USD"
	}

	var values []float64
	for _, raw := range salaryNumber.FindAllString(text, 2) {
		v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
		if err != nil {
			return nil, nil, ""
		}
		values = append(values, v)
	}

	switch len(values) {
	case 2:
		return domain.Float(values[0]), domain.Float(values[1]), currency
	case 1:
		v := values[0]
		if v < hourlyCeiling {
			v *= hoursPerYear
		}
		return domain.Float(v), domain.Float(v * 1.2), currency
	default:
		return nil, nil, ""
	}
}

var _ jobdomain.Connector = (*Provider)(nil)
