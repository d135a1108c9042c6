package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/honeycarbs/company-hunter/internal/domain"
	"github.com/honeycarbs/company-hunter/internal/domain/company"
)

var _ company.Repository = (*CompanyRepository)(nil)

// CompanyRepository stores saved companies in a local SQLite file
type CompanyRepository struct {
	db *sql.DB
}

// NewCompanyRepository opens (or creates) the database at dbPath and ensures
// the saved_companies table exists.
func NewCompanyRepository(dbPath string) (*CompanyRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	createTable := `CREATE TABLE IF NOT EXISTS saved_companies (
		id        TEXT PRIMARY KEY,
		name      TEXT NOT NULL,
		address   TEXT NOT NULL DEFAULT '',
		phone     TEXT NOT NULL DEFAULT '',
		website   TEXT NOT NULL DEFAULT '',
		maps_url  TEXT NOT NULL DEFAULT '',
		job_id    TEXT NOT NULL DEFAULT '',
		job_title TEXT NOT NULL DEFAULT '',
		notes     TEXT NOT NULL DEFAULT '',
		saved_at  INTEGER NOT NULL
	)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating saved_companies table: %w", err)
	}

	return &CompanyRepository{db: db}, nil
}

func (r *CompanyRepository) Save(ctx context.Context, c domain.SavedCompany) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO saved_companies
		(id, name, address, phone, website, maps_url, job_id, job_title, notes, saved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			address = excluded.address,
			phone = excluded.phone,
			website = excluded.website,
			maps_url = excluded.maps_url,
			job_id = excluded.job_id,
			job_title = excluded.job_title,
			notes = excluded.notes,
			saved_at = excluded.saved_at`,
		c.ID, c.Name,
		c.Metadata.Address, c.Metadata.Phone, c.Metadata.Website, c.Metadata.MapsURL,
		c.JobID, c.JobTitle, c.Notes, c.SavedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("saving company %s: %w", c.ID, err)
	}
	return nil
}

func (r *CompanyRepository) List(ctx context.Context, limit int) ([]domain.SavedCompany, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT
		id, name, address, phone, website, maps_url, job_id, job_title, notes, saved_at
		FROM saved_companies ORDER BY saved_at DESC, name LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing saved companies: %w", err)
	}
	defer rows.Close()

	out := make([]domain.SavedCompany, 0)
	for rows.Next() {
		var (
			c       domain.SavedCompany
			savedAt int64
		)
		if err := rows.Scan(
			&c.ID, &c.Name,
			&c.Metadata.Address, &c.Metadata.Phone, &c.Metadata.Website, &c.Metadata.MapsURL,
			&c.JobID, &c.JobTitle, &c.Notes, &savedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning saved company: %w", err)
		}
		c.SavedAt = time.UnixMilli(savedAt).UTC()
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing saved companies: %w", err)
	}
	return out, nil
}

func (r *CompanyRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM saved_companies WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting company %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting company %s: %w", id, err)
	}
	if n == 0 {
		return domain.NotFound("saved company not found", nil)
	}
	return nil
}

// Close closes the underlying database connection.
func (r *CompanyRepository) Close() error {
	return r.db.Close()
}
