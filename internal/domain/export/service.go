package export

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/honeycarbs/company-hunter/internal/domain"
	"github.com/honeycarbs/company-hunter/pkg/logging"
)

const defaultTab = "Jobs"

// Header is the first row written in replace mode
var Header = []any{
	"Title", "Company", "Location", "Distance (km)", "Salary", "Contract",
	"Category", "Source", "URL", "Address", "Phone", "Website", "Posted",
}

// Writer is the spreadsheet API surface used by the export
type Writer interface {
	AppendValues(ctx context.Context, spreadsheetID, range_ string, values [][]any) error
	UpdateValues(ctx context.Context, spreadsheetID, range_ string, values [][]any) error
	ClearValues(ctx context.Context, spreadsheetID, range_ string) error
}

// JobFinder rehydrates stored jobs
type JobFinder interface {
	FindByIDs(ctx context.Context, ids []string) ([]domain.Job, error)
}

// Request selects jobs and a destination tab. Jobs wins over JobIDs.
type Request struct {
	SpreadsheetID string
	Tab           string
	Jobs          []domain.Job
	JobIDs        []string
	Replace       bool // clear the tab and write a header first
}

// Result summarizes a finished export
type Result struct {
	SpreadsheetID string    `json:"spreadsheet_id"`
	Tab           string    `json:"tab"`
	WrittenRows   int       `json:"written_rows"`
	Mode          string    `json:"mode"`
	CompletedAt   time.Time `json:"completed_at"`
}

type Service struct {
	writer Writer
	jobs   JobFinder
	logger *logging.Logger
	clock  func() time.Time
}

// NewService builds the export service; jobs may be nil when no store is configured
func NewService(writer Writer, jobs JobFinder, logger *logging.Logger) *Service {
	return &Service{
		writer: writer,
		jobs:   jobs,
		logger: logging.OrNop(logger).Named("export"),
		clock:  time.Now,
	}
}

func (s *Service) Export(ctx context.Context, req Request) (Result, error) {
	if s.writer == nil {
		return Result{}, domain.Unavailable("spreadsheet export is not configured", nil)
	}
	if strings.TrimSpace(req.SpreadsheetID) == "" {
		return Result{}, domain.InvalidInput("spreadsheet id is required", nil)
	}

	tab := domain.OrDefault(req.Tab, defaultTab)
	result := Result{SpreadsheetID: req.SpreadsheetID, Tab: tab, Mode: "append"}
	if req.Replace {
		result.Mode = "replace"
	}

	jobs, err := s.resolve(ctx, req)
	if err != nil {
		return result, err
	}

	rows := make([][]any, 0, len(jobs)+1)
	if req.Replace {
		rows = append(rows, Header)
	}
	for _, j := range jobs {
		rows = append(rows, Row(j))
	}

	if req.Replace {
		if err := s.writer.ClearValues(ctx, req.SpreadsheetID, tab+"!A:Z"); err != nil {
			return result, domain.Unavailable("could not clear sheet", err)
		}
		if err := s.writer.UpdateValues(ctx, req.SpreadsheetID, tab+"!A1", rows); err != nil {
			return result, domain.Unavailable("could not write sheet", err)
		}
	} else if len(rows) > 0 {
		if err := s.writer.AppendValues(ctx, req.SpreadsheetID, tab+"!A1", rows); err != nil {
			return result, domain.Unavailable("could not append to sheet", err)
		}
	}

	result.WrittenRows = len(jobs)
	result.CompletedAt = s.clock().UTC()

	s.logger.Info("jobs exported", "spreadsheet_id", req.SpreadsheetID, "tab", tab, "rows", result.WrittenRows, "mode", result.Mode)
	return result, nil
}

func (s *Service) resolve(ctx context.Context, req Request) ([]domain.Job, error) {
	if len(req.Jobs) > 0 {
		return req.Jobs, nil
	}
	if len(req.JobIDs) == 0 {
		return nil, domain.InvalidInput("jobs or job ids are required", nil)
	}
	if s.jobs == nil {
		return nil, domain.Unavailable("job storage is not configured, pass jobs instead of ids", nil)
	}

	jobs, err := s.jobs.FindByIDs(ctx, req.JobIDs)
	if err != nil {
		return nil, domain.Unavailable("could not load jobs", err)
	}
	if len(jobs) == 0 {
		return nil, domain.NotFound(fmt.Sprintf("none of %d job ids are stored", len(req.JobIDs)), nil)
	}
	return jobs, nil
}

// Row flattens a job into spreadsheet cells
func Row(j domain.Job) []any {
	distance := ""
	if j.Distance != nil {
		distance = fmt.Sprintf("%.1f", *j.Distance)
	}
	posted := ""
	if j.Created != nil {
		posted = j.Created.UTC().Format(time.DateOnly)
	}

	return []any{
		j.Title,
		j.Company.DisplayName,
		strings.Join(j.Location.Area, ", "),
		distance,
		Salary(j),
		j.ContractType,
		j.Category.Label,
		j.SourceAPI,
		j.RedirectURL,
		j.CompanyMetadata.Address,
		j.CompanyMetadata.Phone,
		j.CompanyMetadata.Website,
		posted,
	}
}

// Salary renders the salary range, or an empty string when unknown
func Salary(j domain.Job) string {
	cur := ""
	if j.Currency != "" {
		cur = j.Currency + " "
	}
	switch {
	case j.SalaryMin != nil && j.SalaryMax != nil && *j.SalaryMin != *j.SalaryMax:
		return fmt.Sprintf("%s%.0f-%.0f", cur, *j.SalaryMin, *j.SalaryMax)
	case j.SalaryMin != nil:
		return fmt.Sprintf("%s%.0f", cur, *j.SalaryMin)
	case j.SalaryMax != nil:
		return fmt.Sprintf("%s%.0f", cur, *j.SalaryMax)
	default:
		return ""
	}
}
