package adzuna

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/honeycarbs/company-hunter/internal/domain"
	jobdomain "github.com/honeycarbs/company-hunter/internal/domain/job"
	"github.com/honeycarbs/company-hunter/pkg/adzuna"
)

type stubClient struct {
	responses []adzuna.SearchResponse
	err       error
	calls     []adzuna.SearchParams
}

func (s *stubClient) Search(_ context.Context, params adzuna.SearchParams) (adzuna.SearchResponse, error) {
	s.calls = append(s.calls, params)
	if s.err != nil {
		return adzuna.SearchResponse{}, s.err
	}
	if len(s.calls) > len(s.responses) {
		return adzuna.SearchResponse{}, nil
	}
	return s.responses[len(s.calls)-1], nil
}

func newProvider(t *testing.T, c searchClient) *Provider {
	t.Helper()
	p, err := NewProvider(c, "gb", nil)
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	return p
}

func TestBuildParams(t *testing.T) {
	tests := []struct {
		name  string
		km    float64
		cats  []string
		types []string
		want  adzuna.SearchParams
	}{
		{
			name: "radius doubled",
			km:   25,
			want: adzuna.SearchParams{Where: "London", DistanceKm: 50},
		},
		{
			name: "radius floor",
			km:   3,
			want: adzuna.SearchParams{Where: "London", DistanceKm: 10},
		},
		{
			name: "categories and flags",
			km:   10,
			cats: []string{"IT Jobs", "Sales Jobs"},
			types: []string{
				jobdomain.TypeFullTime,
				jobdomain.TypePermanent,
				jobdomain.TypeGraduate,
			},
			want: adzuna.SearchParams{
				What:       "category:IT Jobs OR category:Sales Jobs graduate",
				Where:      "London",
				DistanceKm: 20,
				FullTime:   true,
				Permanent:  true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildParams("London", tt.km, tt.cats, tt.types)
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSearchJobs_FallsBackToGenericSearch(t *testing.T) {
	client := &stubClient{responses: []adzuna.SearchResponse{
		{},
		{Count: 1, Results: []adzuna.Posting{{ID: "1", Title: "Dev", Company: adzuna.Company{DisplayName: "Acme"}}}},
	}}
	p := newProvider(t, client)

	jobs := p.SearchJobs(context.Background(), "Tiny Village", 5, nil, nil)
	if len(jobs) != 1 {
		t.Fatalf("expected the generic result, got %d jobs", len(jobs))
	}
	if len(client.calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(client.calls))
	}
	if generic := client.calls[1]; generic.Where != "" || generic.DistanceKm != 0 {
		t.Errorf("expected generic search without location, got %+v", generic)
	}
}

func TestSearchJobs_ErrorYieldsEmpty(t *testing.T) {
	p := newProvider(t, &stubClient{err: errors.New("adzuna: API error (500)")})

	jobs := p.SearchJobs(context.Background(), "London", 10, nil, nil)
	if jobs == nil || len(jobs) != 0 {
		t.Fatalf("expected an empty slice, got %#v", jobs)
	}
}

func TestStandardizeJob(t *testing.T) {
	p := newProvider(t, &stubClient{})
	posting := adzuna.Posting{
		ID:           "4128345",
		Title:        "Backend Engineer",
		Company:      adzuna.Company{DisplayName: "Acme"},
		Location:     adzuna.Location{DisplayName: "Camden, London", Area: []string{"UK", "London", "Camden"}},
		Created:      "2024-03-01T09:00:00Z",
		RedirectURL:  "https://adzuna.example/1",
		ContractTime: "full_time",
		Category:     adzuna.Category{Label: "IT Jobs"},
		Latitude:     domain.Float(51.54),
		Longitude:    domain.Float(-0.14),
		SalaryMin:    domain.Float(50000),
	}

	got := p.StandardizeJob(posting)

	if got.ID != "4128345" || got.SourceAPI != "adzuna" {
		t.Errorf("unexpected identity %q / %q", got.ID, got.SourceAPI)
	}
	if got.ContractType != jobdomain.TypeFullTime {
		t.Errorf("unexpected contract type %q", got.ContractType)
	}
	if got.Currency != "GBP" {
		t.Errorf("expected GBP for a salaried gb posting, got %q", got.Currency)
	}
	if got.Created == nil || got.Created.Year() != 2024 {
		t.Errorf("unexpected created %v", got.Created)
	}
	if got.CompanyMetadata.Address != "UK, London, Camden" {
		t.Errorf("unexpected address %q", got.CompanyMetadata.Address)
	}
	if got.CompanyMetadata.Website != "https://adzuna.example/1" || got.CompanyMetadata.Phone != domain.NotAvailable {
		t.Errorf("unexpected metadata %+v", got.CompanyMetadata)
	}

	*posting.Latitude = 0
	if *got.Latitude != 51.54 {
		t.Error("expected coordinates detached from the payload")
	}
}

func TestStandardizeJob_Sentinels(t *testing.T) {
	p := newProvider(t, &stubClient{})
	got := p.StandardizeJob(adzuna.Posting{})

	if got.Title != domain.UnknownTitle || got.Company.DisplayName != domain.UnknownValue {
		t.Errorf("expected sentinel title/company, got %q / %q", got.Title, got.Company.DisplayName)
	}
	if got.ContractType != domain.UnknownValue || got.Category.Label != domain.UnknownValue {
		t.Errorf("expected sentinel classification, got %q / %q", got.ContractType, got.Category.Label)
	}
	if got.Currency != "" || got.Created != nil || got.HasCoordinates() {
		t.Errorf("expected optional fields to stay empty, got %+v", got)
	}
	if !got.MetadataUnset() {
		t.Errorf("expected unset metadata, got %+v", got.CompanyMetadata)
	}
}

func TestStandardizeJob_Idempotent(t *testing.T) {
	p := newProvider(t, &stubClient{})
	posting := adzuna.Posting{
		ID:        "9",
		Title:     "Nurse",
		Company:   adzuna.Company{DisplayName: "NHS"},
		Location:  adzuna.Location{Area: []string{"UK", "Leeds"}},
		Latitude:  domain.Float(53.8),
		Longitude: domain.Float(-1.5),
		Created:   "2024-02-02T10:00:00Z",
	}

	if a, b := p.StandardizeJob(posting), p.StandardizeJob(posting); !reflect.DeepEqual(a, b) {
		t.Fatalf("expected identical records:\n%+v\n%+v", a, b)
	}
}
