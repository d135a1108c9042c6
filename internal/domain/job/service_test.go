package job

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/honeycarbs/company-hunter/internal/domain"
	"github.com/honeycarbs/company-hunter/pkg/geocode"
	"github.com/honeycarbs/company-hunter/pkg/places"
)

type stubGeocoder struct {
	res geocode.Result
	err error
}

func (s stubGeocoder) Geocode(context.Context, string) (geocode.Result, error) {
	return s.res, s.err
}

type stubPlaces struct {
	details map[string]places.Details
	calls   atomic.Int32
	mu      sync.Mutex
	near    []string
}

func (s *stubPlaces) Lookup(_ context.Context, company, near string) (places.Details, error) {
	s.calls.Add(1)
	s.mu.Lock()
	s.near = append(s.near, near)
	s.mu.Unlock()
	d, ok := s.details[company]
	if !ok {
		return places.Details{}, places.ErrNotFound
	}
	return d, nil
}

type recordingRepo struct {
	saved []domain.SearchResult
	err   error
}

func (r *recordingRepo) SaveSearch(_ context.Context, _ domain.SearchRequest, res domain.SearchResult) error {
	r.saved = append(r.saved, res)
	return r.err
}

func (r *recordingRepo) FindByIDs(context.Context, []string) ([]domain.Job, error) {
	return nil, nil
}

type recordingPublisher struct {
	events []SearchCompleted
	err    error
}

func (p *recordingPublisher) PublishSearchCompleted(_ context.Context, e SearchCompleted) error {
	p.events = append(p.events, e)
	return p.err
}

type recordingHistory struct {
	entries []HistoryEntry
	err     error
}

func (h *recordingHistory) RecordSearch(_ context.Context, e HistoryEntry) error {
	h.entries = append(h.entries, e)
	return h.err
}

var londonGeocode = geocode.Result{Lat: 51.5, Lng: -0.1, FormattedAddress: "London, UK"}

func newTestService(t *testing.T, opts ...Option) Service {
	t.Helper()
	svc, err := NewService(opts...)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestNewService_RequiresCollaborators(t *testing.T) {
	if _, err := NewService(WithGeocoder(stubGeocoder{})); err == nil {
		t.Error("expected an error without an aggregator")
	}
	if _, err := NewService(WithAggregator(NewAggregator())); err == nil {
		t.Error("expected an error without a geocoder")
	}
}

func TestService_Search(t *testing.T) {
	c := &fakeConnector{name: "a", jobs: []domain.Job{
		job("a", "Dev", "Acme"),
		job("a", "Ops", "Beta"),
	}}
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	svc := newTestService(t,
		WithAggregator(NewAggregator(WithConnectors(c))),
		WithGeocoder(stubGeocoder{res: londonGeocode}),
		WithClock(func() time.Time { return fixed }),
	)

	res, err := svc.Search(context.Background(), domain.SearchRequest{Location: "london", Radius: 10})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if res.ID == "" {
		t.Error("expected a search id")
	}
	if res.Total != 2 || len(res.Jobs) != 2 {
		t.Errorf("expected 2 jobs, got total=%d len=%d", res.Total, len(res.Jobs))
	}
	if res.SourceCount != 1 {
		t.Errorf("expected 1 source, got %d", res.SourceCount)
	}
	if res.Center.FormattedAddress != "London, UK" || res.Center.Latitude != 51.5 {
		t.Errorf("unexpected centre %+v", res.Center)
	}
	if !res.FetchedAt.Equal(fixed) {
		t.Errorf("expected fetched_at from the clock, got %v", res.FetchedAt)
	}
}

func TestService_SearchErrors(t *testing.T) {
	agg := NewAggregator(WithConnectors(&fakeConnector{name: "a"}))

	tests := []struct {
		name     string
		geocoder geocode.Geocoder
		req      domain.SearchRequest
		kind     domain.Kind
	}{
		{
			name:     "invalid request",
			geocoder: stubGeocoder{res: londonGeocode},
			req:      domain.SearchRequest{Location: "London"},
			kind:     domain.KindInvalidInput,
		},
		{
			name:     "unresolvable location",
			geocoder: stubGeocoder{err: geocode.ErrNotResolvable},
			req:      domain.SearchRequest{Location: "Atlantis", Radius: 10},
			kind:     domain.KindLocationUnresolvable,
		},
		{
			name:     "geocoder down",
			geocoder: stubGeocoder{err: errors.New("dial tcp: refused")},
			req:      domain.SearchRequest{Location: "London", Radius: 10},
			kind:     domain.KindUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, WithAggregator(agg), WithGeocoder(tt.geocoder))
			_, err := svc.Search(context.Background(), tt.req)
			if !domain.IsKind(err, tt.kind) {
				t.Fatalf("expected kind %s, got %v", tt.kind, err)
			}
		})
	}
}

func TestService_UsesGeocodedLocationForVendors(t *testing.T) {
	var gotLocation string
	c := &locationCapture{loc: &gotLocation}

	svc := newTestService(t,
		WithAggregator(NewAggregator(WithConnectors(c))),
		WithGeocoder(stubGeocoder{res: geocode.Result{Lat: 53.8, Lng: -1.55, FormattedAddress: "Leeds, West Yorkshire, UK"}}),
	)

	if _, err := svc.Search(context.Background(), domain.SearchRequest{Location: "leeds uk", Radius: 5}); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if want := "Leeds, West Yorkshire, UK"; gotLocation != want {
		t.Errorf("expected vendors to see %q, got %q", want, gotLocation)
	}
}

type locationCapture struct {
	loc *string
}

func (l *locationCapture) Name() string         { return "capture" }
func (l *locationCapture) Categories() []string { return nil }
func (l *locationCapture) JobTypes() []string   { return nil }
func (l *locationCapture) SearchJobs(_ context.Context, location string, _ float64, _, _ []string) []domain.Job {
	*l.loc = location
	return nil
}

func TestService_EnrichesOncePerCompany(t *testing.T) {
	preset := job("a", "Manager", "Gamma")
	preset.CompanyMetadata.Phone = "0113 000 0000"

	c := &fakeConnector{name: "a", jobs: []domain.Job{
		job("a", "Dev", "Acme"),
		job("a", "QA", "ACME"),
		job("a", "Ops", "Nowhere Inc"),
		preset,
		job("a", "Mystery", domain.UnknownValue),
	}}
	finder := &stubPlaces{details: map[string]places.Details{
		"Acme":  {Address: "1 High St", Website: "https://acme.example"},
		"Gamma": {Address: "should not be used"},
	}}

	svc := newTestService(t,
		WithAggregator(NewAggregator(WithConnectors(c))),
		WithGeocoder(stubGeocoder{res: londonGeocode}),
		WithPlaces(finder),
		WithEnrichLimit(2),
	)

	res, err := svc.Search(context.Background(), domain.SearchRequest{Location: "London", Radius: 10})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if finder.calls.Load() != 2 {
		t.Errorf("expected lookups for Acme and Nowhere Inc only, got %d", finder.calls.Load())
	}
	for _, near := range finder.near {
		if near != "London, UK" {
			t.Errorf("expected lookups near the geocoded address, got %q", near)
		}
	}

	byTitle := map[string]domain.Job{}
	for _, j := range res.Jobs {
		byTitle[j.Title] = j
	}

	for _, title := range []string{"Dev", "QA"} {
		meta := byTitle[title].CompanyMetadata
		if meta.Address != "1 High St" || meta.Website != "https://acme.example" || meta.Phone != domain.NotAvailable {
			t.Errorf("%s: unexpected metadata %+v", title, meta)
		}
	}
	if !byTitle["Ops"].MetadataUnset() {
		t.Errorf("expected not-found company to keep sentinels, got %+v", byTitle["Ops"].CompanyMetadata)
	}
	if byTitle["Manager"].CompanyMetadata.Address != domain.NotAvailable {
		t.Errorf("expected preset metadata to be left alone, got %+v", byTitle["Manager"].CompanyMetadata)
	}
}

func TestService_RecordingFailuresDoNotFailSearch(t *testing.T) {
	c := &fakeConnector{name: "a", jobs: []domain.Job{job("a", "Dev", "Acme")}}
	repo := &recordingRepo{err: errors.New("neo4j down")}
	pub := &recordingPublisher{err: errors.New("nats down")}
	hist := &recordingHistory{err: errors.New("clickhouse down")}

	svc := newTestService(t,
		WithAggregator(NewAggregator(WithConnectors(c))),
		WithGeocoder(stubGeocoder{res: londonGeocode}),
		WithRepository(repo),
		WithPublisher(pub),
		WithHistory(hist),
	)

	res, err := svc.Search(context.Background(), domain.SearchRequest{Location: "London", Radius: 10, Categories: []string{"IT Jobs"}})
	if err != nil {
		t.Fatalf("expected recording failures to be swallowed, got %v", err)
	}

	if len(repo.saved) != 1 || repo.saved[0].ID != res.ID {
		t.Errorf("expected the search to be persisted, got %+v", repo.saved)
	}
	if len(pub.events) != 1 {
		t.Fatalf("expected one event, got %d", len(pub.events))
	}
	if ev := pub.events[0]; ev.SearchID != res.ID || ev.Total != 1 || len(ev.JobIDs) != 1 || ev.JobIDs[0] != res.Jobs[0].ID {
		t.Errorf("unexpected event %+v", ev)
	}
	if len(hist.entries) != 1 || hist.entries[0].Sources[0] != "a" {
		t.Errorf("unexpected history %+v", hist.entries)
	}
}

func TestService_EmptySearchSkipsPersistence(t *testing.T) {
	repo := &recordingRepo{}
	svc := newTestService(t,
		WithAggregator(NewAggregator()),
		WithGeocoder(stubGeocoder{res: londonGeocode}),
		WithRepository(repo),
	)

	res, err := svc.Search(context.Background(), domain.SearchRequest{Location: "London", Radius: 10})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Total != 0 || res.SourceCount != 0 {
		t.Errorf("unexpected result %+v", res)
	}
	if len(repo.saved) != 0 {
		t.Error("expected nothing persisted for an empty search")
	}
}

func TestService_Filters(t *testing.T) {
	svc := newTestService(t,
		WithAggregator(NewAggregator(WithConnectors(
			&fakeConnector{name: "a", categories: []string{"IT Jobs"}, jobTypes: []string{TypeFullTime}},
		))),
		WithGeocoder(stubGeocoder{}),
	)

	f := svc.Filters()
	if len(f.Categories) != 1 || f.Categories[0] != "IT Jobs" || len(f.JobTypes) != 1 {
		t.Errorf("unexpected filters %+v", f)
	}
}

func TestSearchLocation(t *testing.T) {
	tests := []struct {
		query, formatted, want string
	}{
		{"london", "London, UK", "London, UK"},
		{"springfield", "Springfield, IL, USA", "Springfield, IL, USA"},
		{"sw1a 1aa", "", "sw1a 1aa"},
		{"x", "  ", "x"},
	}
	for _, tt := range tests {
		if got := searchLocation(tt.query, tt.formatted); got != tt.want {
			t.Errorf("searchLocation(%q, %q) = %q, want %q", tt.query, tt.formatted, got, tt.want)
		}
	}
}
