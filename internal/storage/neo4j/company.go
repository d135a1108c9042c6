package neo4j

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/honeycarbs/company-hunter/internal/domain"
	"github.com/honeycarbs/company-hunter/internal/domain/company"
	pkgneo4j "github.com/honeycarbs/company-hunter/pkg/neo4j"
)

var _ company.Repository = (*CompanyRepository)(nil)

// CompanyRepository keeps saved companies as (:SavedCompany)-[:BOOKMARKS]->(:Company)
type CompanyRepository struct {
	client *pkgneo4j.Client
}

func NewCompanyRepository(client *pkgneo4j.Client) *CompanyRepository {
	return &CompanyRepository{client: client}
}

const saveCompanyQuery = `
	MERGE (s:SavedCompany {id: $id})
	SET s.name = $name,
	    s.address = $address,
	    s.phone = $phone,
	    s.website = $website,
	    s.mapsUrl = $mapsUrl,
	    s.jobId = $jobId,
	    s.jobTitle = $jobTitle,
	    s.notes = $notes,
	    s.savedAt = datetime({epochMillis: $savedAt})
	MERGE (c:Company {key: $key})
	ON CREATE SET c.name = $name
	MERGE (s)-[:BOOKMARKS]->(c)
	WITH s
	OPTIONAL MATCH (j:Job {id: $jobId})
	FOREACH (_ IN CASE WHEN j IS NULL THEN [] ELSE [1] END |
		MERGE (s)-[:FROM_JOB]->(j)
	)
`

func (r *CompanyRepository) Save(ctx context.Context, c domain.SavedCompany) error {
	params := map[string]any{
		"id":       c.ID,
		"key":      nodeKey(c.Name),
		"name":     c.Name,
		"address":  c.Metadata.Address,
		"phone":    c.Metadata.Phone,
		"website":  c.Metadata.Website,
		"mapsUrl":  c.Metadata.MapsURL,
		"jobId":    c.JobID,
		"jobTitle": c.JobTitle,
		"notes":    c.Notes,
		"savedAt":  c.SavedAt.UnixMilli(),
	}

	_, err := r.client.Write(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, saveCompanyQuery, params)
		if err != nil {
			return nil, err
		}
		return res.Consume(ctx)
	})
	if err != nil {
		return fmt.Errorf("neo4j: save company %s: %w", c.ID, err)
	}
	return nil
}

func (r *CompanyRepository) List(ctx context.Context, limit int) ([]domain.SavedCompany, error) {
	var records []*neo4j.Record
	_, err := r.client.Read(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
			MATCH (s:SavedCompany)
			RETURN s
			ORDER BY s.savedAt DESC
			LIMIT $limit
		`, map[string]any{"limit": limit})
		if err != nil {
			return nil, err
		}
		records, err = res.Collect(ctx)
		return nil, err
	})
	if err != nil {
		return nil, fmt.Errorf("neo4j: list companies: %w", err)
	}

	out := make([]domain.SavedCompany, 0, len(records))
	for _, record := range records {
		val, ok := record.Get("s")
		if !ok {
			continue
		}
		node, ok := val.(neo4j.Node)
		if !ok {
			continue
		}
		out = append(out, savedCompanyFromProps(node.Props))
	}
	return out, nil
}

func (r *CompanyRepository) Delete(ctx context.Context, id string) error {
	deleted, err := r.client.Write(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
			MATCH (s:SavedCompany {id: $id})
			WITH s, s.id AS id
			DETACH DELETE s
			RETURN count(id) AS deleted
		`, map[string]any{"id": id})
		if err != nil {
			return nil, err
		}
		record, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}
		n, _ := record.Get("deleted")
		return n, nil
	})
	if err != nil {
		return fmt.Errorf("neo4j: delete company %s: %w", id, err)
	}

	if n, ok := deleted.(int64); !ok || n == 0 {
		return domain.NotFound("saved company not found", nil)
	}
	return nil
}

func savedCompanyFromProps(props map[string]any) domain.SavedCompany {
	c := domain.SavedCompany{
		ID:   propString(props, "id"),
		Name: propString(props, "name"),
		Metadata: domain.CompanyMetadata{
			Address: domain.OrDefault(propString(props, "address"), domain.NotAvailable),
			Phone:   domain.OrDefault(propString(props, "phone"), domain.NotAvailable),
			Website: domain.OrDefault(propString(props, "website"), domain.NotAvailable),
			MapsURL: domain.OrDefault(propString(props, "mapsUrl"), domain.NotAvailable),
		},
		JobID:    propString(props, "jobId"),
		JobTitle: propString(props, "jobTitle"),
		Notes:    propString(props, "notes"),
	}
	if t := propTime(props, "savedAt"); t != nil {
		c.SavedAt = *t
	}
	return c
}
