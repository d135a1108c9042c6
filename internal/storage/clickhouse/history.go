package clickhouse

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"

	"github.com/honeycarbs/company-hunter/internal/domain/job"
	"github.com/honeycarbs/company-hunter/pkg/logging"
)

var _ job.HistoryRecorder = (*HistoryRecorder)(nil)

// Options configures the ClickHouse connection
type Options struct {
	Addr            string
	Database        string
	Username        string
	Password        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Open connects to ClickHouse over the native protocol and pings it
func Open(ctx context.Context, opts Options) (clickhouse.Conn, error) {
	host, _, _ := strings.Cut(opts.Addr, "?")

	conn, err := clickhouse.Open(&clickhouse.Options{
		Protocol: clickhouse.Native,
		Addr:     []string{host},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
		Auth: clickhouse.Auth{
			Database: opts.Database,
			Username: opts.Username,
			Password: opts.Password,
		},
		DialTimeout:     10 * time.Second,
		MaxOpenConns:    opts.MaxOpenConns,
		MaxIdleConns:    opts.MaxIdleConns,
		ConnMaxLifetime: opts.ConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("clickhouse: open: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("clickhouse: ping %s: %w", host, err)
	}

	return conn, nil
}

const createHistoryTable = `
	CREATE TABLE IF NOT EXISTS search_history (
		search_id   String,
		location    String,
		latitude    Float64,
		longitude   Float64,
		radius_km   Float64,
		categories  Array(String),
		job_types   Array(String),
		total       UInt32,
		sources     Array(String),
		duration_ms UInt64,
		searched_at DateTime64(3, 'UTC')
	) ENGINE = MergeTree()
	ORDER BY (searched_at, search_id)
`

const insertHistory = `
	INSERT INTO search_history
		(search_id, location, latitude, longitude, radius_km, categories, job_types, total, sources, duration_ms, searched_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// execer is the part of clickhouse.Conn the recorder needs
type execer interface {
	Exec(ctx context.Context, query string, args ...any) error
}

// HistoryRecorder appends one row per search to search_history
type HistoryRecorder struct {
	conn   execer
	logger *logging.Logger
}

// NewHistoryRecorder ensures the history table exists
func NewHistoryRecorder(ctx context.Context, conn execer, logger *logging.Logger) (*HistoryRecorder, error) {
	if err := conn.Exec(ctx, createHistoryTable); err != nil {
		return nil, fmt.Errorf("clickhouse: create search_history: %w", err)
	}

	return &HistoryRecorder{
		conn:   conn,
		logger: logging.OrNop(logger).Named("history"),
	}, nil
}

func (h *HistoryRecorder) RecordSearch(ctx context.Context, e job.HistoryEntry) error {
	err := h.conn.Exec(ctx, insertHistory,
		e.SearchID,
		e.Location,
		e.Latitude,
		e.Longitude,
		e.RadiusKm,
		nonNil(e.Categories),
		nonNil(e.JobTypes),
		uint32(max(e.Total, 0)),
		nonNil(e.Sources),
		uint64(max(e.Duration.Milliseconds(), 0)),
		e.SearchedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("clickhouse: record search %s: %w", e.SearchID, err)
	}

	h.logger.Debug("search recorded", "search_id", e.SearchID, "total", e.Total)
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
