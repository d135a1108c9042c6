package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "connectors.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom("")
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	if cfg.DefaultRadiusKm != 10 {
		t.Errorf("DefaultRadiusKm = %v, want 10", cfg.DefaultRadiusKm)
	}
	if cfg.ConnectorTimeout != 15*time.Second {
		t.Errorf("ConnectorTimeout = %v, want 15s", cfg.ConnectorTimeout)
	}
	if cfg.Adzuna.Country != "gb" {
		t.Errorf("Adzuna.Country = %q, want gb", cfg.Adzuna.Country)
	}
	if cfg.GitHubJobs.Enabled {
		t.Error("expected githubjobs to be disabled by default")
	}
}

func TestLoadFrom_Env(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DEFAULT_RADIUS_KM", "25")
	t.Setenv("COMPANY_BLACKLIST", "Acme, ,Globex")
	t.Setenv("ADZUNA_APP_ID", "id")
	t.Setenv("ADZUNA_APP_KEY", "key")
	t.Setenv("GITHUB_JOBS_ENABLED", "true")

	cfg, err := LoadFrom("")
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Port != "9090" || cfg.DefaultRadiusKm != 25 {
		t.Errorf("unexpected config %+v", cfg)
	}
	if len(cfg.Blacklist) != 2 || cfg.Blacklist[1] != "Globex" {
		t.Errorf("Blacklist = %v", cfg.Blacklist)
	}
	if !cfg.GitHubJobs.Enabled {
		t.Error("expected githubjobs enabled from env")
	}
}

func TestLoadFrom_InvalidCombinations(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"adzuna half configured", map[string]string{"ADZUNA_APP_ID": "id"}, "ADZUNA_APP_ID"},
		{"neo4j without credentials", map[string]string{"NEO4J_URI": "neo4j://localhost"}, "NEO4J_USERNAME"},
		{"google jobs without project", map[string]string{"GOOGLE_JOBS_API_KEY": "k"}, "GOOGLE_JOBS_PROJECT_ID"},
		{"zero radius", map[string]string{"DEFAULT_RADIUS_KM": "0"}, "radius"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadFrom("")
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadFrom_ConnectorsFile(t *testing.T) {
	t.Setenv("BLOCKED_EMPLOYER", "Initech")
	t.Setenv("COMPANY_BLACKLIST", "Acme")

	path := writeFile(t, `
default_radius_km: 20
connector_timeout: 8s
blacklist:
  - ${BLOCKED_EMPLOYER}
retry:
  max_retries: 4
  base_delay: 100ms
  max_delay: 2s
connectors:
  adzuna:
    timeout: 5s
    rps: 2
    burst: 4
  githubjobs:
    enabled: true
  indeed:
    enabled: false
`)

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	if cfg.DefaultRadiusKm != 20 || cfg.ConnectorTimeout != 8*time.Second {
		t.Errorf("file did not override globals: %v %v", cfg.DefaultRadiusKm, cfg.ConnectorTimeout)
	}
	if len(cfg.Blacklist) != 2 || cfg.Blacklist[1] != "Initech" {
		t.Errorf("Blacklist = %v, want env entry plus expanded file entry", cfg.Blacklist)
	}
	if cfg.Retry.MaxRetries != 4 || cfg.Retry.BaseDelay != 100*time.Millisecond {
		t.Errorf("Retry = %+v", cfg.Retry)
	}

	adzuna := cfg.Connector("adzuna")
	if adzuna.Timeout != 5*time.Second || adzuna.RPS != 2 || adzuna.Burst != 4 {
		t.Errorf("adzuna settings = %+v", adzuna)
	}
	if reed := cfg.Connector("reed"); reed.Timeout != 8*time.Second {
		t.Errorf("expected reed to inherit the global timeout, got %v", reed.Timeout)
	}

	if !cfg.ConnectorEnabled("githubjobs", false) {
		t.Error("expected githubjobs switched on by the file")
	}
	if cfg.ConnectorEnabled("indeed", true) {
		t.Error("expected indeed switched off by the file")
	}
	if !cfg.ConnectorEnabled("reed", true) {
		t.Error("expected reed to keep its default")
	}
}

func TestLoadFile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid yaml", "connectors: [broken"},
		{"bad duration", "connector_timeout: soon"},
		{"unknown connector", "connectors:\n  monster:\n    enabled: true\n"},
		{"negative rps", "connectors:\n  reed:\n    rps: -1\n"},
		{"negative retries", "retry:\n  max_retries: -2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadFile(writeFile(t, tt.content)); err == nil {
				t.Fatal("expected error")
			}
		})
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
