package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Default service endpoints. Both are overridable through the environment.
const (
	DefaultAuthEndpoint = "https://auth.hyland.com/connect/token"
	DefaultAPIBaseURL   = "https://knowledge-enrichment.ai.experience.hyland.com/latest/api/data-curation"

	DefaultHTTPTimeout = 30 * time.Second
)

// Environment variable names recognized by Load.
const (
	EnvClientID     = "DATA_CURATION_CLIENT_ID"
	EnvClientSecret = "DATA_CURATION_CLIENT_SECRET"
	EnvAPIBaseURL   = "DATA_CURATION_API_URL"
	EnvAuthEndpoint = "DATA_CURATION_AUTH_ENDPOINT"
	EnvHTTPTimeout  = "DATA_CURATION_HTTP_TIMEOUT"
)

// Config holds all configuration for the curaflow client.
type Config struct {
	ClientID     string
	ClientSecret string

	APIBaseURL   string
	AuthEndpoint string

	HTTPTimeout time.Duration
}

// Load builds a Config from defaults, a .env file if one is present in the
// working directory, and process environment variables. Process environment
// takes precedence over .env values (godotenv does not overwrite variables
// that are already set).
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ClientID:     os.Getenv(EnvClientID),
		ClientSecret: os.Getenv(EnvClientSecret),
		APIBaseURL:   DefaultAPIBaseURL,
		AuthEndpoint: DefaultAuthEndpoint,
		HTTPTimeout:  DefaultHTTPTimeout,
	}

	if v := os.Getenv(EnvAPIBaseURL); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv(EnvAuthEndpoint); v != "" {
		cfg.AuthEndpoint = v
	}
	if v := os.Getenv(EnvHTTPTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s value %q: %w", EnvHTTPTimeout, v, err)
		}
		cfg.HTTPTimeout = d
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks endpoint and timeout sanity. Credential presence is
// deliberately not checked here: the authenticator fails fast on missing
// credentials before issuing any request, and commands that never
// authenticate should not require them.
func (c *Config) validate() error {
	if _, err := url.ParseRequestURI(c.APIBaseURL); err != nil {
		return fmt.Errorf("invalid API base URL %q: %w", c.APIBaseURL, err)
	}
	if _, err := url.ParseRequestURI(c.AuthEndpoint); err != nil {
		return fmt.Errorf("invalid auth endpoint %q: %w", c.AuthEndpoint, err)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP timeout must be positive, got %s", c.HTTPTimeout)
	}
	return nil
}

// PresignEndpoint returns the full presign endpoint URL.
func (c *Config) PresignEndpoint() string {
	return c.APIBaseURL + "/presign"
}

// StatusEndpoint returns the full status endpoint URL for a job.
func (c *Config) StatusEndpoint(jobID string) string {
	return c.APIBaseURL + "/status/" + url.PathEscape(jobID)
}
