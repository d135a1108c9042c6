package neo4j

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/honeycarbs/company-hunter/internal/domain"
	"github.com/honeycarbs/company-hunter/internal/domain/job"
	pkgneo4j "github.com/honeycarbs/company-hunter/pkg/neo4j"
)

var _ job.Repository = (*JobRepository)(nil)

// JobRepository stores search results as a graph:
// (Search)-[:FOUND]->(Job)-[:POSTED_BY]->(Company)
type JobRepository struct {
	client *pkgneo4j.Client
}

// NewJobRepository creates a JobRepository with a Neo4j client
func NewJobRepository(client *pkgneo4j.Client) *JobRepository {
	return &JobRepository{
		client: client,
	}
}

const mergeSearchQuery = `
	MERGE (s:Search {id: $id})
	SET s.location = $location,
	    s.radiusKm = $radiusKm,
	    s.categories = $categories,
	    s.jobTypes = $jobTypes,
	    s.latitude = $latitude,
	    s.longitude = $longitude,
	    s.formattedAddress = $formattedAddress,
	    s.total = $total,
	    s.fetchedAt = datetime({epochMillis: $fetchedAt})
`

const mergeJobsQuery = `
	UNWIND $jobs AS job
	MERGE (j:Job {id: job.id})
	SET j.title = job.title,
	    j.description = job.description,
	    j.redirectUrl = job.redirectUrl,
	    j.area = job.area,
	    j.latitude = job.latitude,
	    j.longitude = job.longitude,
	    j.category = job.category,
	    j.contractType = job.contractType,
	    j.salaryMin = job.salaryMin,
	    j.salaryMax = job.salaryMax,
	    j.currency = job.currency,
	    j.sourceApi = job.sourceApi,
	    j.created = CASE WHEN job.created IS NULL THEN null ELSE datetime({epochMillis: job.created}) END,
	    j.seenAt = datetime({epochMillis: $fetchedAt})
	WITH j, job
	MATCH (s:Search {id: $searchId})
	MERGE (s)-[f:FOUND]->(j)
	SET f.distance = job.distance,
	    f.rank = job.rank
	WITH j, job
	FOREACH (_ IN CASE WHEN job.companyKey IS NULL THEN [] ELSE [1] END |
		MERGE (c:Company {key: job.companyKey})
		SET c.name = job.company,
		    c.address = job.address,
		    c.phone = job.phone,
		    c.website = job.website,
		    c.mapsUrl = job.mapsUrl
		MERGE (j)-[:POSTED_BY]->(c)
	)
`

// SaveSearch upserts every job of a search and links them to a Search node
func (r *JobRepository) SaveSearch(ctx context.Context, req domain.SearchRequest, result domain.SearchResult) error {
	if len(result.Jobs) == 0 {
		return nil
	}

	searchParams := map[string]any{
		"id":               result.ID,
		"location":         req.Location,
		"radiusKm":         req.Radius,
		"categories":       orEmpty(req.Categories),
		"jobTypes":         orEmpty(req.JobTypes),
		"latitude":         result.Center.Latitude,
		"longitude":        result.Center.Longitude,
		"formattedAddress": result.Center.FormattedAddress,
		"total":            result.Total,
		"fetchedAt":        result.FetchedAt.UnixMilli(),
	}

	jobsData := make([]map[string]any, 0, len(result.Jobs))
	for i, j := range result.Jobs {
		jobsData = append(jobsData, jobParams(j, i))
	}

	_, err := r.client.Write(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, mergeSearchQuery, searchParams)
		if err != nil {
			return nil, err
		}
		if _, err := res.Consume(ctx); err != nil {
			return nil, err
		}

		res, err = tx.Run(ctx, mergeJobsQuery, map[string]any{
			"jobs":      jobsData,
			"searchId":  result.ID,
			"fetchedAt": result.FetchedAt.UnixMilli(),
		})
		if err != nil {
			return nil, err
		}
		return res.Consume(ctx)
	})
	if err != nil {
		return fmt.Errorf("neo4j: save search %s: %w", result.ID, err)
	}

	return nil
}

func jobParams(j domain.Job, rank int) map[string]any {
	var companyKey any
	if !domain.IsUnknown(j.Company.DisplayName) {
		companyKey = nodeKey(j.Company.DisplayName)
	}

	return map[string]any{
		"id":           j.ID,
		"title":        j.Title,
		"description":  j.Description,
		"redirectUrl":  j.RedirectURL,
		"area":         orEmpty(j.Location.Area),
		"latitude":     floatOrNil(j.Latitude),
		"longitude":    floatOrNil(j.Longitude),
		"distance":     floatOrNil(j.Distance),
		"category":     j.Category.Label,
		"contractType": j.ContractType,
		"salaryMin":    floatOrNil(j.SalaryMin),
		"salaryMax":    floatOrNil(j.SalaryMax),
		"currency":     j.Currency,
		"sourceApi":    j.SourceAPI,
		"created":      millis(j.Created),
		"rank":         rank,
		"companyKey":   companyKey,
		"company":      j.Company.DisplayName,
		"address":      j.CompanyMetadata.Address,
		"phone":        j.CompanyMetadata.Phone,
		"website":      j.CompanyMetadata.Website,
		"mapsUrl":      j.CompanyMetadata.MapsURL,
	}
}

const findJobsQuery = `
	MATCH (j:Job)
	WHERE j.id IN $ids
	OPTIONAL MATCH (j)-[:POSTED_BY]->(c:Company)
	RETURN j, c
`

// FindByIDs loads jobs by ID, in the order the ids were given
func (r *JobRepository) FindByIDs(ctx context.Context, ids []string) ([]domain.Job, error) {
	if len(ids) == 0 {
		return []domain.Job{}, nil
	}

	var records []*neo4j.Record
	_, err := r.client.Read(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, findJobsQuery, map[string]any{"ids": ids})
		if err != nil {
			return nil, err
		}
		records, err = res.Collect(ctx)
		return nil, err
	})
	if err != nil {
		return nil, fmt.Errorf("neo4j: find jobs: %w", err)
	}

	byID := make(map[string]domain.Job, len(records))
	for _, record := range records {
		j, ok := jobFromRecord(record)
		if ok {
			byID[j.ID] = j
		}
	}

	jobs := make([]domain.Job, 0, len(byID))
	for _, id := range ids {
		if j, ok := byID[id]; ok {
			jobs = append(jobs, j)
			delete(byID, id)
		}
	}
	return jobs, nil
}

func jobFromRecord(record *neo4j.Record) (domain.Job, bool) {
	jobVal, ok := record.Get("j")
	if !ok {
		return domain.Job{}, false
	}
	node, ok := jobVal.(neo4j.Node)
	if !ok {
		return domain.Job{}, false
	}

	props := node.Props
	j := domain.NewJob(propString(props, "sourceApi"))
	j.ID = propString(props, "id")
	j.Title = domain.OrDefault(propString(props, "title"), domain.UnknownTitle)
	j.Description = propString(props, "description")
	j.RedirectURL = propString(props, "redirectUrl")
	j.Location.Area = propStrings(props, "area")
	j.Latitude = propFloat(props, "latitude")
	j.Longitude = propFloat(props, "longitude")
	j.Category.Label = domain.OrDefault(propString(props, "category"), domain.UnknownValue)
	j.ContractType = domain.OrDefault(propString(props, "contractType"), domain.UnknownValue)
	j.SalaryMin = propFloat(props, "salaryMin")
	j.SalaryMax = propFloat(props, "salaryMax")
	j.Currency = propString(props, "currency")
	j.Created = propTime(props, "created")

	if companyVal, ok := record.Get("c"); ok {
		if company, ok := companyVal.(neo4j.Node); ok {
			cp := company.Props
			j.Company.DisplayName = domain.OrDefault(propString(cp, "name"), domain.UnknownValue)
			j.CompanyMetadata = domain.CompanyMetadata{
				Address: domain.OrDefault(propString(cp, "address"), domain.NotAvailable),
				Phone:   domain.OrDefault(propString(cp, "phone"), domain.NotAvailable),
				Website: domain.OrDefault(propString(cp, "website"), domain.NotAvailable),
				MapsURL: domain.OrDefault(propString(cp, "mapsUrl"), domain.NotAvailable),
			}
		}
	}

	return j, j.ID != ""
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
