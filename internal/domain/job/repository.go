package job

import (
	"context"
	"time"

	"github.com/honeycarbs/company-hunter/internal/domain"
)

// Repository persists search results
type Repository interface {
	// SaveSearch stores the jobs of one search, upserting by job id
	SaveSearch(ctx context.Context, req domain.SearchRequest, result domain.SearchResult) error

	// FindByIDs loads previously stored jobs
	FindByIDs(ctx context.Context, ids []string) ([]domain.Job, error)
}

// Publisher announces completed searches to other systems
type Publisher interface {
	PublishSearchCompleted(ctx context.Context, event SearchCompleted) error
}

// HistoryRecorder keeps an append-only log of searches for analytics
type HistoryRecorder interface {
	RecordSearch(ctx context.Context, entry HistoryEntry) error
}

// SearchCompleted is emitted after every successful search
type SearchCompleted struct {
	SearchID    string              `json:"search_id"`
	Location    string              `json:"location"`
	RadiusKm    float64             `json:"radius_km"`
	Categories  []string            `json:"categories,omitempty"`
	JobTypes    []string            `json:"job_types,omitempty"`
	Total       int                 `json:"total"`
	SourceCount int                 `json:"source_count"`
	JobIDs      []string            `json:"job_ids"`
	Center      domain.SearchCenter `json:"center"`
	FetchedAt   time.Time           `json:"fetched_at"`
}

// HistoryEntry is one row of search history
type HistoryEntry struct {
	SearchID   string
	Location   string
	Latitude   float64
	Longitude  float64
	RadiusKm   float64
	Categories []string
	JobTypes   []string
	Total      int
	Sources    []string
	Duration   time.Duration
	SearchedAt time.Time
}
