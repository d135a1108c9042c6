package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config contains runtime settings for the MCP server and CLI
type Config struct {
	LogLevel       string
	Host           string // default 0.0.0.0
	Port           string // default PORT env or 8080
	ConnectorsFile string // optional YAML overrides, CONNECTORS_CONFIG

	DefaultRadiusKm  float64
	ConnectorTimeout time.Duration
	EnrichLimit      int
	Blacklist        []string
	Retry            RetrySettings
	Connectors       map[string]ConnectorSettings

	Adzuna struct {
		AppID   string
		AppKey  string
		Country string
		BaseURL string
	}
	Reed struct {
		APIKey  string
		BaseURL string
	}
	Indeed struct {
		PublisherID string
		BaseURL     string
	}
	GitHubJobs struct {
		Enabled bool
		BaseURL string
	}
	GoogleJobs struct {
		APIKey    string
		ProjectID string
		Tenant    string
		Endpoint  string
	}
	Google struct {
		MapsAPIKey string // geocoding and places
		Region     string
	}
	Nominatim struct {
		BaseURL      string
		UserAgent    string
		CountryCodes string
	}
	Neo4j struct {
		URI      string
		Username string
		Password string
		Database string
	}
	Redis struct {
		Addr     string
		Password string
		DB       int
		TTL      time.Duration
	}
	NATS struct {
		URL     string
		Subject string
	}
	ClickHouse struct {
		Addr     string
		Database string
		Username string
		Password string
	}
	SQLite struct {
		Path string
	}
	Sheets struct {
		CredentialsPath string
	}
	Telemetry struct {
		Endpoint string
		Insecure bool
	}
}

// Load populates config from environment variables and, when
// CONNECTORS_CONFIG is set, the connectors file it names
func Load() (Config, error) {
	return LoadFrom(os.Getenv("CONNECTORS_CONFIG"))
}

// LoadFrom is Load with an explicit connectors file path; empty skips the file
func LoadFrom(connectorsFile string) (Config, error) {
	cfg := Config{
		LogLevel:         getEnvString("LOG_LEVEL", "info"),
		Host:             getEnvString("MCP_HOST", "0.0.0.0"),
		Port:             getEnvString("PORT", "8080"),
		ConnectorsFile:   connectorsFile,
		DefaultRadiusKm:  getEnvFloat("DEFAULT_RADIUS_KM", 10),
		ConnectorTimeout: getEnvDuration("CONNECTOR_TIMEOUT", 15*time.Second),
		EnrichLimit:      getEnvInt("PLACES_CONCURRENCY", 4),
		Blacklist:        splitList(os.Getenv("COMPANY_BLACKLIST")),
		Retry: RetrySettings{
			MaxRetries: getEnvInt("HTTP_MAX_RETRIES", 2),
			BaseDelay:  getEnvDuration("HTTP_RETRY_DELAY", 250*time.Millisecond),
			MaxDelay:   getEnvDuration("HTTP_RETRY_MAX_DELAY", 5*time.Second),
		},
		Connectors: map[string]ConnectorSettings{},
	}

	cfg.Adzuna.AppID = os.Getenv("ADZUNA_APP_ID")
	cfg.Adzuna.AppKey = os.Getenv("ADZUNA_APP_KEY")
	cfg.Adzuna.Country = getEnvString("ADZUNA_COUNTRY", "gb")
	cfg.Adzuna.BaseURL = os.Getenv("ADZUNA_BASE_URL")

	cfg.Reed.APIKey = os.Getenv("REED_API_KEY")
	cfg.Reed.BaseURL = os.Getenv("REED_BASE_URL")

	cfg.Indeed.PublisherID = os.Getenv("INDEED_PUBLISHER_ID")
	cfg.Indeed.BaseURL = os.Getenv("INDEED_BASE_URL")

	cfg.GitHubJobs.Enabled = getEnvBool("GITHUB_JOBS_ENABLED", false)
	cfg.GitHubJobs.BaseURL = os.Getenv("GITHUB_JOBS_BASE_URL")

	cfg.GoogleJobs.APIKey = os.Getenv("GOOGLE_JOBS_API_KEY")
	cfg.GoogleJobs.ProjectID = os.Getenv("GOOGLE_JOBS_PROJECT_ID")
	cfg.GoogleJobs.Tenant = getEnvString("GOOGLE_JOBS_TENANT", "default")
	cfg.GoogleJobs.Endpoint = os.Getenv("GOOGLE_JOBS_ENDPOINT")

	cfg.Google.MapsAPIKey = os.Getenv("GOOGLE_MAPS_API_KEY")
	cfg.Google.Region = os.Getenv("GOOGLE_MAPS_REGION")

	cfg.Nominatim.BaseURL = os.Getenv("NOMINATIM_BASE_URL")
	cfg.Nominatim.UserAgent = getEnvString("NOMINATIM_USER_AGENT", "company-hunter/1.0")
	cfg.Nominatim.CountryCodes = os.Getenv("NOMINATIM_COUNTRY_CODES")

	cfg.Neo4j.URI = os.Getenv("NEO4J_URI")
	cfg.Neo4j.Username = os.Getenv("NEO4J_USERNAME")
	cfg.Neo4j.Password = os.Getenv("NEO4J_PASSWORD")
	cfg.Neo4j.Database = os.Getenv("NEO4J_DATABASE")

	cfg.Redis.Addr = os.Getenv("REDIS_ADDR")
	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")
	cfg.Redis.DB = getEnvInt("REDIS_DB", 0)
	cfg.Redis.TTL = getEnvDuration("CACHE_TTL", 24*time.Hour)

	cfg.NATS.URL = os.Getenv("NATS_URL")
	cfg.NATS.Subject = os.Getenv("NATS_SUBJECT")

	cfg.ClickHouse.Addr = os.Getenv("CLICKHOUSE_ADDR")
	cfg.ClickHouse.Database = getEnvString("CLICKHOUSE_DATABASE", "default")
	cfg.ClickHouse.Username = getEnvString("CLICKHOUSE_USERNAME", "default")
	cfg.ClickHouse.Password = os.Getenv("CLICKHOUSE_PASSWORD")

	cfg.SQLite.Path = getEnvString("SAVED_COMPANIES_DB", "company-hunter.db")

	cfg.Sheets.CredentialsPath = os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH")

	cfg.Telemetry.Endpoint = os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	cfg.Telemetry.Insecure = getEnvBool("OTEL_EXPORTER_OTLP_INSECURE", true)

	if connectorsFile != "" {
		file, err := LoadFile(connectorsFile)
		if err != nil {
			return cfg, err
		}
		cfg.apply(file)
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	var problems []string

	if c.DefaultRadiusKm <= 0 {
		problems = append(problems, "default radius must be greater than zero")
	}
	if c.ConnectorTimeout <= 0 {
		problems = append(problems, "connector timeout must be positive")
	}
	if (c.Adzuna.AppID == "") != (c.Adzuna.AppKey == "") {
		problems = append(problems, "ADZUNA_APP_ID and ADZUNA_APP_KEY must be set together")
	}
	if (c.Neo4j.URI != "") && (c.Neo4j.Username == "" || c.Neo4j.Password == "") {
		problems = append(problems, "NEO4J_USERNAME and NEO4J_PASSWORD are required with NEO4J_URI")
	}
	if (c.GoogleJobs.APIKey == "") != (c.GoogleJobs.ProjectID == "") {
		problems = append(problems, "GOOGLE_JOBS_API_KEY and GOOGLE_JOBS_PROJECT_ID must be set together")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Connector returns the settings for one connector, falling back to the
// global timeout when none is configured
func (c Config) Connector(name string) ConnectorSettings {
	s := c.Connectors[name]
	if s.Timeout <= 0 {
		s.Timeout = c.ConnectorTimeout
	}
	return s
}

// ConnectorEnabled applies the connectors file switch on top of def
func (c Config) ConnectorEnabled(name string, def bool) bool {
	if s, ok := c.Connectors[name]; ok && s.Enabled != nil {
		return *s.Enabled
	}
	return def
}

func getEnvString(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
