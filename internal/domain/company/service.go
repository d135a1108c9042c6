package company

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/honeycarbs/company-hunter/internal/domain"
	"github.com/honeycarbs/company-hunter/pkg/logging"
)

const defaultListLimit = 100

// companyNamespace seeds saved-company identifiers so saving twice upserts
var companyNamespace = uuid.MustParse("2b0d6f3a-8c41-4e57-b1a9-5d7e3c9f0a62")

// Repository stores bookmarked companies
type Repository interface {
	// Save inserts or replaces the company with the same id
	Save(ctx context.Context, c domain.SavedCompany) error

	// List returns saved companies, most recent first
	List(ctx context.Context, limit int) ([]domain.SavedCompany, error)

	// Delete removes a company, returning domain.NotFound when it does not exist
	Delete(ctx context.Context, id string) error
}

// SaveRequest carries a company picked from a search result
type SaveRequest struct {
	Name     string
	Metadata domain.CompanyMetadata
	JobID    string
	JobTitle string
	Notes    string
}

type Service interface {
	Save(ctx context.Context, req SaveRequest) (domain.SavedCompany, error)
	List(ctx context.Context, limit int) ([]domain.SavedCompany, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo   Repository
	logger *logging.Logger
	clock  func() time.Time
}

// NewService builds the saved-company service
func NewService(repo Repository, logger *logging.Logger) (Service, error) {
	if repo == nil {
		return nil, domain.Internal("company repository is required", nil)
	}
	return &service{
		repo:   repo,
		logger: logging.OrNop(logger).Named("company"),
		clock:  time.Now,
	}, nil
}

// DeriveID returns the identifier a company name is saved under
func DeriveID(name string) string {
	key := strings.Join(strings.Fields(strings.ToLower(name)), " ")
	return uuid.NewSHA1(companyNamespace, []byte(key)).String()
}

func (s *service) Save(ctx context.Context, req SaveRequest) (domain.SavedCompany, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || name == domain.UnknownValue {
		return domain.SavedCompany{}, domain.InvalidInput("company name is required", nil)
	}

	saved := domain.SavedCompany{
		ID:       DeriveID(name),
		Name:     name,
		Metadata: normalizeMetadata(req.Metadata),
		JobID:    strings.TrimSpace(req.JobID),
		JobTitle: strings.TrimSpace(req.JobTitle),
		Notes:    strings.TrimSpace(req.Notes),
		SavedAt:  s.clock().UTC(),
	}

	if err := s.repo.Save(ctx, saved); err != nil {
		s.logger.Error("failed to save company", "company", name, "err", err)
		return domain.SavedCompany{}, domain.Unavailable("could not save company", err)
	}

	s.logger.Info("company saved", "company", name, "id", saved.ID)
	return saved, nil
}

func (s *service) List(ctx context.Context, limit int) ([]domain.SavedCompany, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	out, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, domain.Unavailable("could not list saved companies", err)
	}
	if out == nil {
		out = []domain.SavedCompany{}
	}
	return out, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.InvalidInput("company id is required", nil)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return err
		}
		return domain.Unavailable("could not delete company", err)
	}
	return nil
}

func normalizeMetadata(m domain.CompanyMetadata) domain.CompanyMetadata {
	return domain.CompanyMetadata{
		Address: domain.OrDefault(m.Address, domain.NotAvailable),
		Phone:   domain.OrDefault(m.Phone, domain.NotAvailable),
		Website: domain.OrDefault(m.Website, domain.NotAvailable),
		MapsURL: domain.OrDefault(m.MapsURL, domain.NotAvailable),
	}
}
