package job

import (
	"context"
	"slices"
	"sync/atomic"
	"testing"
	"time"

	"github.com/honeycarbs/company-hunter/internal/domain"
	"github.com/honeycarbs/company-hunter/pkg/geo"
)

var london = domain.SearchCenter{Latitude: 51.5, Longitude: -0.1, FormattedAddress: "London, UK"}

type fakeConnector struct {
	name       string
	categories []string
	jobTypes   []string
	jobs       []domain.Job
	panics     bool
	block      bool

	calls         atomic.Int32
	gotCategories []string
	gotJobTypes   []string
}

func (f *fakeConnector) Name() string         { return f.name }
func (f *fakeConnector) Categories() []string { return f.categories }
func (f *fakeConnector) JobTypes() []string   { return f.jobTypes }

func (f *fakeConnector) SearchJobs(ctx context.Context, _ string, _ float64, categories, jobTypes []string) []domain.Job {
	f.calls.Add(1)
	f.gotCategories = categories
	f.gotJobTypes = jobTypes
	if f.panics {
		panic("vendor exploded")
	}
	if f.block {
		time.Sleep(time.Second)
	}
	out := make([]domain.Job, len(f.jobs))
	copy(out, f.jobs)
	return out
}

func job(source, title, company string) domain.Job {
	j := domain.NewJob(source)
	j.Title = title
	j.Company.DisplayName = company
	return j
}

func at(j domain.Job, lat, lng float64) domain.Job {
	j.Latitude = domain.Float(lat)
	j.Longitude = domain.Float(lng)
	return j
}

func search(t *testing.T, a *Aggregator, req domain.SearchRequest) []domain.Job {
	t.Helper()
	jobs, err := a.SearchJobs(context.Background(), req, london)
	if err != nil {
		t.Fatalf("SearchJobs: %v", err)
	}
	return jobs
}

func TestAggregator_RejectsInvalidRequestBeforeDispatch(t *testing.T) {
	c := &fakeConnector{name: "a", jobs: []domain.Job{job("a", "Dev", "Acme")}}
	a := NewAggregator(WithConnectors(c))

	tests := []struct {
		name string
		req  domain.SearchRequest
	}{
		{"empty location", domain.SearchRequest{Location: "", Radius: 10}},
		{"zero radius", domain.SearchRequest{Location: "London", Radius: 0}},
		{"negative radius", domain.SearchRequest{Location: "London", Radius: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.SearchJobs(context.Background(), tt.req, london)
			if !domain.IsKind(err, domain.KindInvalidInput) {
				t.Fatalf("expected invalid input, got %v", err)
			}
		})
	}

	if c.calls.Load() != 0 {
		t.Errorf("expected no dispatch, got %d calls", c.calls.Load())
	}
}

func TestAggregator_NoConnectors(t *testing.T) {
	a := NewAggregator()

	jobs := search(t, a, domain.SearchRequest{Location: "London", Radius: 10})
	if jobs == nil || len(jobs) != 0 {
		t.Fatalf("expected an empty, non-nil slice, got %#v", jobs)
	}
	if len(a.Categories()) != 0 || len(a.JobTypes()) != 0 {
		t.Errorf("expected empty capability unions, got %v / %v", a.Categories(), a.JobTypes())
	}
}

func TestAggregator_AllConnectorsFail(t *testing.T) {
	a := NewAggregator(WithConnectors(
		&fakeConnector{name: "empty"},
		&fakeConnector{name: "boom", panics: true},
	))

	jobs := search(t, a, domain.SearchRequest{Location: "London", Radius: 10})
	if len(jobs) != 0 {
		t.Fatalf("expected no jobs, got %d", len(jobs))
	}
}

func TestAggregator_PanicIsolation(t *testing.T) {
	a := NewAggregator(WithConnectors(
		&fakeConnector{name: "a", jobs: []domain.Job{job("a", "Nurse", "NHS")}},
		&fakeConnector{name: "boom", panics: true},
		&fakeConnector{name: "b", jobs: []domain.Job{job("b", "Teacher", "School")}},
	))

	jobs := search(t, a, domain.SearchRequest{Location: "London", Radius: 10})
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs from the healthy connectors, got %d", len(jobs))
	}
	for _, j := range jobs {
		if j.SourceAPI == "boom" {
			t.Errorf("unexpected job from the panicking connector: %+v", j)
		}
	}
}

func TestAggregator_SlowConnectorIsAbandoned(t *testing.T) {
	a := NewAggregator(
		WithConnectorTimeout(20*time.Millisecond),
		WithConnectors(
			&fakeConnector{name: "slow", block: true, jobs: []domain.Job{job("slow", "Late", "Snail")}},
			&fakeConnector{name: "fast", jobs: []domain.Job{job("fast", "Early", "Hare")}},
		),
	)

	start := time.Now()
	jobs := search(t, a, domain.SearchRequest{Location: "London", Radius: 10})
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Fatalf("expected the search to return at the timeout, took %s", elapsed)
	}
	if len(jobs) != 1 || jobs[0].SourceAPI != "fast" {
		t.Fatalf("expected only the fast connector's job, got %+v", jobs)
	}
}

func TestAggregator_DedupKeepsRicherRecord(t *testing.T) {
	plain := job("a", "Software Engineer", "Acme")

	rich := job("b", "Software Engineer", "Acme")
	rich.SalaryMin = domain.Float(50000)
	rich.SalaryMax = domain.Float(60000)
	rich.Currency = "GBP"

	a := NewAggregator(WithConnectors(
		&fakeConnector{name: "a", jobs: []domain.Job{plain}},
		&fakeConnector{name: "b", jobs: []domain.Job{rich}},
	))

	jobs := search(t, a, domain.SearchRequest{Location: "London", Radius: 10})
	if len(jobs) != 1 {
		t.Fatalf("expected exactly one merged record, got %d", len(jobs))
	}
	if jobs[0].SalaryMin == nil || jobs[0].SourceAPI != "b" {
		t.Errorf("expected the salaried record to win, got %+v", jobs[0])
	}
}

func TestAggregator_DedupTieKeepsFirstSeen(t *testing.T) {
	first := job("a", "Software Engineer", "Acme")
	second := job("b", "software engineer", "ACME")

	a := NewAggregator(WithConnectors(
		&fakeConnector{name: "a", jobs: []domain.Job{first}},
		&fakeConnector{name: "b", jobs: []domain.Job{second}},
	))

	jobs := search(t, a, domain.SearchRequest{Location: "London", Radius: 10})
	if len(jobs) != 1 || jobs[0].SourceAPI != "a" {
		t.Fatalf("expected the first-seen record to survive a tie, got %+v", jobs)
	}
}

func TestAggregator_DedupWinnerTakesFirstSlot(t *testing.T) {
	near := at(job("a", "Analyst", "Beta"), 51.5, -0.1)
	dup := at(job("a", "Welder", "Gamma"), 51.5, -0.1)
	richDup := at(job("b", "Welder", "Gamma"), 51.5, -0.1)
	richDup.Description = "Night shifts"

	a := NewAggregator(WithConnectors(
		&fakeConnector{name: "a", jobs: []domain.Job{dup, near}},
		&fakeConnector{name: "b", jobs: []domain.Job{richDup}},
	))

	jobs := search(t, a, domain.SearchRequest{Location: "London", Radius: 10})
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	if jobs[0].Title != "Welder" || jobs[0].SourceAPI != "b" {
		t.Errorf("expected the richer welder in the first slot, got %+v", jobs[0])
	}
}

func TestAggregator_RadiusScenario(t *testing.T) {
	// 0.135 degrees of latitude is roughly 15 km
	far := at(job("a", "Far Job", "Distant"), 51.635, -0.1)
	unplaced := job("a", "Somewhere Job", "Vague")

	a := NewAggregator(WithConnectors(&fakeConnector{name: "a", jobs: []domain.Job{far, unplaced}}))

	jobs := search(t, a, domain.SearchRequest{Location: "London", Radius: 10})
	if len(jobs) != 1 {
		t.Fatalf("expected only the unplaced job, got %+v", jobs)
	}

	got := jobs[0]
	if got.Title != "Somewhere Job" {
		t.Fatalf("unexpected job %q", got.Title)
	}
	if got.Distance == nil || *got.Distance != 0 {
		t.Errorf("expected distance 0, got %v", got.Distance)
	}
	if *got.Latitude != 51.5 || *got.Longitude != -0.1 {
		t.Errorf("expected centre coordinates, got %v,%v", *got.Latitude, *got.Longitude)
	}
}

func TestAggregator_RadiusBoundary(t *testing.T) {
	inside := at(job("a", "Edge In", "X"), 52, 0)
	inside.Distance = domain.Float(10)
	outside := at(job("a", "Edge Out", "Y"), 52, 0)
	outside.Distance = domain.Float(10.001)

	a := NewAggregator(WithConnectors(&fakeConnector{name: "a", jobs: []domain.Job{inside, outside}}))

	jobs := search(t, a, domain.SearchRequest{Location: "London", Radius: 10})
	if len(jobs) != 1 || jobs[0].Title != "Edge In" {
		t.Fatalf("expected only the job at exactly the radius, got %+v", jobs)
	}
}

func TestAggregator_ComputesDistanceAndSorts(t *testing.T) {
	five := at(job("a", "Five", "A"), 51.545, -0.1)
	two := at(job("a", "Two", "B"), 51.518, -0.1)
	zeroA := job("b", "Zero A", "C")
	zeroB := job("b", "Zero B", "D")

	a := NewAggregator(WithConnectors(
		&fakeConnector{name: "a", jobs: []domain.Job{five, two}},
		&fakeConnector{name: "b", jobs: []domain.Job{zeroA, zeroB}},
	))

	jobs := search(t, a, domain.SearchRequest{Location: "London", Radius: 10})

	var titles []string
	for _, j := range jobs {
		titles = append(titles, j.Title)
	}
	want := []string{"Zero A", "Zero B", "Two", "Five"}
	if !slices.Equal(titles, want) {
		t.Fatalf("order = %v, want %v", titles, want)
	}

	wantKm := geo.DistanceKm(geo.Point{Lat: 51.5, Lng: -0.1}, geo.Point{Lat: 51.545, Lng: -0.1})
	if *jobs[3].Distance != wantKm {
		t.Errorf("distance = %v, want %v", *jobs[3].Distance, wantKm)
	}
}

func TestAggregator_Blacklist(t *testing.T) {
	a := NewAggregator(
		WithBlacklist("Spam Recruiters Ltd"),
		WithConnectors(&fakeConnector{name: "a", jobs: []domain.Job{
			job("a", "Dev", "spam recruiters ltd"),
			job("a", "Dev", "Acme"),
		}}),
	)

	jobs := search(t, a, domain.SearchRequest{Location: "London", Radius: 10})
	if len(jobs) != 1 || jobs[0].Company.DisplayName != "Acme" {
		t.Fatalf("expected the blacklisted company to be dropped, got %+v", jobs)
	}
}

func TestAggregator_BackfillsUniqueIDs(t *testing.T) {
	withID := job("a", "Dev", "Acme")
	withID.ID = "same"
	clash := job("b", "Ops", "Beta")
	clash.ID = "same"
	noID := job("b", "QA", "Gamma")

	a := NewAggregator(WithConnectors(
		&fakeConnector{name: "a", jobs: []domain.Job{withID}},
		&fakeConnector{name: "b", jobs: []domain.Job{clash, noID}},
	))

	jobs := search(t, a, domain.SearchRequest{Location: "London", Radius: 10})
	seen := map[string]bool{}
	for _, j := range jobs {
		if j.ID == "" {
			t.Errorf("expected an id on %q", j.Title)
		}
		if seen[j.ID] {
			t.Errorf("duplicate id %q", j.ID)
		}
		seen[j.ID] = true
	}
	if jobs[0].ID != "same" {
		t.Errorf("expected the first record to keep its vendor id, got %q", jobs[0].ID)
	}
	if want := domain.DeriveJobID("QA", "Gamma", nil); jobs[2].ID != want {
		t.Errorf("expected derived id %q, got %q", want, jobs[2].ID)
	}
}

func TestAggregator_NarrowsFilters(t *testing.T) {
	it := &fakeConnector{name: "it", categories: []string{"IT Jobs", "Sales Jobs"}, jobTypes: []string{TypeFullTime}}
	health := &fakeConnector{name: "health", categories: []string{"Healthcare Jobs"}, jobTypes: []string{TypeFullTime, TypePartTime}}
	a := NewAggregator(WithConnectors(it, health))

	search(t, a, domain.SearchRequest{
		Location:   "London",
		Radius:     10,
		Categories: []string{"it jobs", "Legal Jobs"},
		JobTypes:   []string{TypeFullTime},
	})

	if !slices.Equal(it.gotCategories, []string{"IT Jobs"}) {
		t.Errorf("expected categories narrowed to [IT Jobs], got %v", it.gotCategories)
	}
	if !slices.Equal(it.gotJobTypes, []string{TypeFullTime}) {
		t.Errorf("unexpected job types %v", it.gotJobTypes)
	}
	if health.calls.Load() != 1 {
		t.Fatalf("expected a connector with no overlapping category to still be called, got %d calls", health.calls.Load())
	}
	if health.gotCategories != nil {
		t.Errorf("expected an unfiltered category list, got %v", health.gotCategories)
	}
	if !slices.Equal(health.gotJobTypes, []string{TypeFullTime}) {
		t.Errorf("unexpected job types %v", health.gotJobTypes)
	}
}

func TestAggregator_DifferentVocabularyStillSearched(t *testing.T) {
	reed := &fakeConnector{name: "reed", categories: []string{"IT & Telecoms Jobs"}}
	bare := &fakeConnector{name: "bare"}
	a := NewAggregator(WithConnectors(reed, bare))

	search(t, a, domain.SearchRequest{Location: "London", Radius: 10, Categories: []string{"IT Jobs"}})

	for _, c := range []*fakeConnector{reed, bare} {
		if c.calls.Load() != 1 {
			t.Errorf("%s: expected one call, got %d", c.name, c.calls.Load())
		}
		if c.gotCategories != nil {
			t.Errorf("%s: expected no category filter, got %v", c.name, c.gotCategories)
		}
	}
}

func TestAggregator_AbsentFiltersPassThrough(t *testing.T) {
	c := &fakeConnector{name: "a", categories: []string{"IT Jobs"}}
	a := NewAggregator(WithConnectors(c))

	search(t, a, domain.SearchRequest{Location: "London", Radius: 10})
	if c.calls.Load() != 1 {
		t.Fatalf("expected one call, got %d", c.calls.Load())
	}
	if c.gotCategories != nil || c.gotJobTypes != nil {
		t.Errorf("expected nil filters, got %v / %v", c.gotCategories, c.gotJobTypes)
	}
}

func TestAggregator_CapabilityUnions(t *testing.T) {
	a := NewAggregator()
	a.Register(&fakeConnector{name: "a", categories: []string{"Sales Jobs", "IT Jobs"}, jobTypes: []string{TypePermanent}})
	a.Register(&fakeConnector{name: "b", categories: []string{"IT Jobs", "Admin Jobs"}, jobTypes: []string{TypeContract, TypePermanent}})

	if got, want := a.Categories(), []string{"Admin Jobs", "IT Jobs", "Sales Jobs"}; !slices.Equal(got, want) {
		t.Errorf("Categories() = %v, want %v", got, want)
	}
	if got, want := a.JobTypes(), []string{TypeContract, TypePermanent}; !slices.Equal(got, want) {
		t.Errorf("JobTypes() = %v, want %v", got, want)
	}
	if got := a.Names(); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("Names() = %v", got)
	}

	cats := a.Categories()
	cats[0] = "mutated"
	if a.Categories()[0] == "mutated" {
		t.Error("expected Categories() to return a copy")
	}
}
