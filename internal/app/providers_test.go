package app

import (
	"context"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/honeycarbs/company-hunter/internal/config"
	"github.com/honeycarbs/company-hunter/internal/domain/job"
	"github.com/honeycarbs/company-hunter/pkg/logging"
)

func baseConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Config{
		DefaultRadiusKm:  10,
		ConnectorTimeout: 5 * time.Second,
	}
	cfg.Adzuna.Country = "gb"
	cfg.Redis.TTL = time.Hour
	cfg.SQLite.Path = filepath.Join(t.TempDir(), "companies.db")
	return cfg
}

func names(connectors []job.Connector) []string {
	out := make([]string, 0, len(connectors))
	for _, c := range connectors {
		out = append(out, c.Name())
	}
	return out
}

func TestProvideConnectors(t *testing.T) {
	on, off := true, false

	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   []string
	}{
		{
			name:   "nothing configured",
			mutate: func(*config.Config) {},
			want:   []string{},
		},
		{
			name: "credentials enable connectors",
			mutate: func(c *config.Config) {
				c.Adzuna.AppID, c.Adzuna.AppKey = "id", "key"
				c.Reed.APIKey = "reed-key"
				c.GitHubJobs.Enabled = true
			},
			want: []string{"adzuna", "reed", "githubjobs"},
		},
		{
			name: "file switch disables a configured connector",
			mutate: func(c *config.Config) {
				c.Reed.APIKey = "reed-key"
				c.Indeed.PublisherID = "pub"
				c.Connectors = map[string]config.ConnectorSettings{"reed": {Enabled: &off}}
			},
			want: []string{"indeed"},
		},
		{
			name: "enabled without credentials is skipped",
			mutate: func(c *config.Config) {
				c.Adzuna.AppID = "id"
				c.Connectors = map[string]config.ConnectorSettings{
					"adzuna":     {Enabled: &on},
					"githubjobs": {Enabled: &on, RPS: 2, Burst: 1},
				}
			},
			want: []string{"githubjobs"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig(t)
			tt.mutate(&cfg)

			got, err := provideConnectors(context.Background(), cfg, logging.NewNop())
			if err != nil {
				t.Fatalf("provideConnectors: %v", err)
			}
			if !slices.Equal(names(got), tt.want) {
				t.Errorf("connectors = %v, want %v", names(got), tt.want)
			}
		})
	}
}

func TestOptionalIntegrationsAreNilWhenUnconfigured(t *testing.T) {
	cfg := baseConfig(t)
	logger := logging.NewNop()

	finder, err := providePlaces(cfg, nil, logger)
	if err != nil || finder != nil {
		t.Errorf("places = %v, %v; want nil", finder, err)
	}

	exporter, err := provideExporter(context.Background(), cfg, nil, logger)
	if err != nil || exporter != nil {
		t.Errorf("exporter = %v, %v; want nil", exporter, err)
	}

	client, cleanup, err := provideNeo4j(context.Background(), cfg, logger)
	if err != nil || client != nil {
		t.Errorf("neo4j = %v, %v; want nil", client, err)
	}
	cleanup()

	if repo := provideJobRepository(nil); repo != nil {
		t.Errorf("job repository = %v, want nil", repo)
	}

	publisher, cleanup, err := providePublisher(cfg, logger)
	if err != nil || publisher != nil {
		t.Errorf("publisher = %v, %v; want nil", publisher, err)
	}
	cleanup()

	history, cleanup, err := provideHistory(context.Background(), cfg, logger)
	if err != nil || history != nil {
		t.Errorf("history = %v, %v; want nil", history, err)
	}
	cleanup()
}

func TestInitialize_LocalOnly(t *testing.T) {
	cfg := baseConfig(t)
	cfg.GitHubJobs.Enabled = true

	a, cleanup, err := Initialize(context.Background(), cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	defer cleanup()

	if !slices.Equal(a.Sources, []string{"githubjobs"}) {
		t.Errorf("Sources = %v", a.Sources)
	}

	res := a.Resources()
	if res.JobService == nil || res.Companies == nil {
		t.Fatal("expected job and company services")
	}
	if res.Exporter != nil {
		t.Error("exporter should be disabled without sheets credentials")
	}
	if res.DefaultRadiusKm != 10 {
		t.Errorf("DefaultRadiusKm = %v", res.DefaultRadiusKm)
	}

	saved, err := a.Companies.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(saved) != 0 {
		t.Errorf("expected no saved companies, got %d", len(saved))
	}
}
