package job

import (
	"context"

	"github.com/honeycarbs/company-hunter/internal/domain"
)

// Canonical job types. Connectors report and accept these; mapping to a
// vendor's own vocabulary stays inside the connector.
const (
	TypeFullTime       = "full_time"
	TypePartTime       = "part_time"
	TypeContract       = "contract"
	TypePermanent      = "permanent"
	TypeTemporary      = "temporary"
	TypeInternship     = "internship"
	TypeApprenticeship = "apprenticeship"
	TypeGraduate       = "graduate"
	TypeRemote         = "remote"
	TypeOther          = "other"
)

// Connector is an external job data source (Adzuna, Reed, Indeed, ...)
type Connector interface {
	// e.g. "adzuna" or "reed"
	Name() string

	// Categories lists the category labels this source can filter on
	Categories() []string

	// JobTypes lists the canonical job types this source can filter on
	JobTypes() []string

	// SearchJobs returns normalized jobs near location. It never fails:
	// upstream errors are logged and produce an empty slice.
	SearchJobs(ctx context.Context, location string, radiusKm float64, categories, jobTypes []string) []domain.Job
}
