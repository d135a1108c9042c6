package reed

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/honeycarbs/company-hunter/internal/domain"
	jobdomain "github.com/honeycarbs/company-hunter/internal/domain/job"
	"github.com/honeycarbs/company-hunter/internal/domain/job/providers"
	"github.com/honeycarbs/company-hunter/pkg/geo"
	"github.com/honeycarbs/company-hunter/pkg/logging"
	"github.com/honeycarbs/company-hunter/pkg/reed"
)

const name = "reed"

var categories = []string{
	"Accountancy Jobs",
	"Admin, Secretarial & PA Jobs",
	"Banking Jobs",
	"Charity & Voluntary Jobs",
	"Customer Services Jobs",
	"Education Jobs",
	"Engineering Jobs",
	"Estate Agency Jobs",
	"Financial Services Jobs",
	"General Insurance Jobs",
	"Graduate Training & Internships",
	"Health & Medicine Jobs",
	"Hospitality & Catering Jobs",
	"Human Resources Jobs",
	"IT & Telecoms Jobs",
	"Legal Jobs",
	"Leisure & Tourism Jobs",
	"Manufacturing Jobs",
	"Marketing & PR Jobs",
	"Media, Digital & Creative Jobs",
	"Motoring & Automotive Jobs",
	"Public Sector Jobs",
	"Purchasing Jobs",
	"Recruitment Consultancy Jobs",
	"Retail Jobs",
	"Sales Jobs",
	"Scientific Jobs",
	"Security & Safety Jobs",
	"Social Care Jobs",
	"Transport & Logistics Jobs",
}

var jobTypes = []string{
	jobdomain.TypeFullTime,
	jobdomain.TypePartTime,
	jobdomain.TypePermanent,
	jobdomain.TypeContract,
	jobdomain.TypeTemporary,
}

// Reed reports temp roles; they are contract work in canonical terms
var contractTypes = map[string]string{
	"permanent":      jobdomain.TypePermanent,
	"temp":           jobdomain.TypeContract,
	"contract":       jobdomain.TypeContract,
	"part_time":      jobdomain.TypePartTime,
	"full_time":      jobdomain.TypeFullTime,
	"apprenticeship": jobdomain.TypeApprenticeship,
	"graduate":       jobdomain.TypeGraduate,
	"internship":     jobdomain.TypeInternship,
}

var msDate = regexp.MustCompile(`/Date\((-?\d+)`)

type searchClient interface {
	Search(ctx context.Context, params reed.SearchParams) (reed.SearchResponse, error)
}

// Provider implements job.Connector using the Reed.co.uk API
type Provider struct {
	client searchClient
	logger *logging.Logger
}

func NewProvider(client searchClient, logger *logging.Logger) (*Provider, error) {
	if client == nil {
		return nil, fmt.Errorf("reed provider: client is required")
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

// SearchJobs queries Reed. Reed takes a single keyword, so only the first
// category is sent.
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

// BuildParams maps a canonical search onto Reed's query parameters
func BuildParams(location string, radiusKm float64, cats, types []string) reed.SearchParams {
	miles := int(math.Round(geo.KmToMiles(radiusKm)))
	if miles < 1 {
		miles = 1
	}

	return reed.SearchParams{
		Keywords:      providers.FirstKeyword(cats),
		LocationName:  location,
		DistanceMiles: miles,
		FullTime:      providers.Contains(types, jobdomain.TypeFullTime),
		PartTime:      providers.Contains(types, jobdomain.TypePartTime),
		Permanent:     providers.Contains(types, jobdomain.TypePermanent),
		Contract:      providers.Contains(types, jobdomain.TypeContract),
		Temp:          providers.Contains(types, jobdomain.TypeTemporary),
	}
}

// StandardizeJob maps a Reed posting to the canonical job
func (p *Provider) StandardizeJob(posting reed.Posting) domain.Job {
	j := domain.NewJob(name)

	if posting.JobID != 0 {
		j.ID = strconv.Itoa(posting.JobID)
	}
	j.Title = domain.OrDefault(posting.JobTitle, domain.UnknownTitle)
	j.Company.DisplayName = domain.OrDefault(posting.EmployerName, domain.UnknownValue)
	j.Location.Area = providers.Area(posting.LocationName, posting.TownName)
	j.Description = posting.JobDescription
	j.RedirectURL = posting.JobURL

	j.Latitude = providers.CopyFloat(posting.Latitude)
	j.Longitude = providers.CopyFloat(posting.Longitude)

	j.Category.Label = providers.Classify(categories, domain.UnknownValue, posting.JobTitle, posting.JobDescription)
	if ct, ok := contractTypes[strings.ToLower(strings.TrimSpace(posting.ContractType))]; ok {
		j.ContractType = ct
	}

	j.SalaryMin = providers.CopyFloat(posting.MinimumSalary)
	j.SalaryMax = providers.CopyFloat(posting.MaximumSalary)
	if j.SalaryMin != nil || j.SalaryMax != nil {
		j.Currency = domain.OrDefault(posting.Currency, "GBP")
	}

	j.Created = parseDate(posting)
	j.CompanyMetadata.Address = providers.JoinArea(j.Location.Area)

	return j
}

// parseDate reads the "/Date(ms)/" form first, then Reed's dd/mm/yyyy
func parseDate(posting reed.Posting) *time.Time {
	if m := msDate.FindStringSubmatch(posting.DatePosted); m != nil {
		if ms, err := strconv.ParseInt(m[1], 10, 64); err == nil {
			ts := time.UnixMilli(ms).UTC()
			return &ts
		}
	}
	for _, v := range []string{posting.DatePosted, posting.Date} {
		if ts := providers.ParseTime(v, "02/01/2006", time.RFC3339); ts != nil {
			return ts
		}
	}
	return nil
}

var _ jobdomain.Connector = (*Provider)(nil)
