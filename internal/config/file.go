package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// RetrySettings controls retries of transient upstream failures
type RetrySettings struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

// ConnectorSettings tunes one vendor connector
type ConnectorSettings struct {
	Enabled *bool         // nil keeps the credential-based default
	Timeout time.Duration // HTTP client timeout for the vendor
	RPS     float64       // 0 disables rate limiting
	Burst   int
}

// File is the parsed connectors file
type File struct {
	DefaultRadiusKm  float64
	ConnectorTimeout time.Duration
	Blacklist        []string
	Retry            *RetrySettings
	Connectors       map[string]ConnectorSettings
}

// raw types mirror the YAML layout, durations as strings
type rawFile struct {
	DefaultRadiusKm  float64                 `yaml:"default_radius_km"`
	ConnectorTimeout string                  `yaml:"connector_timeout"`
	Blacklist        []string                `yaml:"blacklist"`
	Retry            *rawRetry               `yaml:"retry"`
	Connectors       map[string]rawConnector `yaml:"connectors"`
}

type rawRetry struct {
	MaxRetries int    `yaml:"max_retries"`
	BaseDelay  string `yaml:"base_delay"`
	MaxDelay   string `yaml:"max_delay"`
}

type rawConnector struct {
	Enabled *bool   `yaml:"enabled"`
	Timeout string  `yaml:"timeout"`
	RPS     float64 `yaml:"rps"`
	Burst   int     `yaml:"burst"`
}

var knownConnectors = map[string]bool{
	"adzuna":     true,
	"reed":       true,
	"indeed":     true,
	"githubjobs": true,
	"googlejobs": true,
}

// LoadFile reads and validates the connectors YAML file at path.
// Environment variables in the file are expanded.
func LoadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read connectors file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var raw rawFile
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return File{}, fmt.Errorf("parse connectors file: %w", err)
	}

	file := File{
		DefaultRadiusKm: raw.DefaultRadiusKm,
		Blacklist:       raw.Blacklist,
		Connectors:      make(map[string]ConnectorSettings, len(raw.Connectors)),
	}

	if file.ConnectorTimeout, err = parseDuration("connector_timeout", raw.ConnectorTimeout); err != nil {
		return File{}, err
	}

	if raw.Retry != nil {
		retry := &RetrySettings{MaxRetries: raw.Retry.MaxRetries}
		if retry.BaseDelay, err = parseDuration("retry.base_delay", raw.Retry.BaseDelay); err != nil {
			return File{}, err
		}
		if retry.MaxDelay, err = parseDuration("retry.max_delay", raw.Retry.MaxDelay); err != nil {
			return File{}, err
		}
		file.Retry = retry
	}

	for name, rc := range raw.Connectors {
		timeout, err := parseDuration(fmt.Sprintf("connectors.%s.timeout", name), rc.Timeout)
		if err != nil {
			return File{}, err
		}
		file.Connectors[name] = ConnectorSettings{
			Enabled: rc.Enabled,
			Timeout: timeout,
			RPS:     rc.RPS,
			Burst:   rc.Burst,
		}
	}

	if err := validateFile(file); err != nil {
		return File{}, err
	}

	return file, nil
}

func validateFile(f File) error {
	if f.DefaultRadiusKm < 0 {
		return fmt.Errorf("default_radius_km must not be negative, got %v", f.DefaultRadiusKm)
	}
	if f.Retry != nil && f.Retry.MaxRetries < 0 {
		return fmt.Errorf("retry.max_retries must not be negative, got %d", f.Retry.MaxRetries)
	}
	for name, c := range f.Connectors {
		if !knownConnectors[name] {
			return fmt.Errorf("connectors: unknown connector %q", name)
		}
		if c.RPS < 0 || c.Burst < 0 {
			return fmt.Errorf("connectors.%s: rps and burst must not be negative", name)
		}
	}
	return nil
}

func parseDuration(field, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", field, value, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative, got %v", field, d)
	}
	return d, nil
}

// apply overlays file settings that are present
func (c *Config) apply(f File) {
	if f.DefaultRadiusKm > 0 {
		c.DefaultRadiusKm = f.DefaultRadiusKm
	}
	if f.ConnectorTimeout > 0 {
		c.ConnectorTimeout = f.ConnectorTimeout
	}
	if len(f.Blacklist) > 0 {
		c.Blacklist = append(c.Blacklist, f.Blacklist...)
	}
	if f.Retry != nil {
		c.Retry = *f.Retry
	}
	for name, s := range f.Connectors {
		c.Connectors[name] = s
	}
}
