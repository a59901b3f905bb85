package coingecko

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"cryptohealth-api/pkg/confkit"
)

const (
	DefaultBaseURL      = "https://api.coingecko.com/api/v3"
	DefaultTimeout      = 12 * time.Second
	DefaultAPIKeyHeader = "x-cg-demo-api-key"
)

// Config describes how to reach the upstream market-data API.
type Config struct {
	BaseURL      string        `yaml:"base_url"`
	TimeoutRaw   string        `yaml:"timeout"`
	Timeout      time.Duration `yaml:"-"`
	APIKey       string        `yaml:"api_key"`
	APIKeyHeader string        `yaml:"api_key_header"`
	UserAgent    string        `yaml:"user_agent"`
}

// DefaultConfig returns the configuration used when no section file is set.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:      DefaultBaseURL,
		Timeout:      DefaultTimeout,
		APIKeyHeader: DefaultAPIKeyHeader,
	}
}

// LoadConfig reads configuration from disk.
func LoadConfig(path string) (*Config, error) {
	confkit.LoadDotenvOnce()
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open coingecko config: %w", err)
	}
	defer file.Close()
	return LoadConfigFromReader(file)
}

// LoadConfigFromReader constructs a Config from an io.Reader.
func LoadConfigFromReader(r io.Reader) (*Config, error) {
	confkit.LoadDotenvOnce()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read coingecko config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal coingecko config: %w", err)
	}
	if err := cfg.normalise(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalise() error {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(os.ExpandEnv(c.BaseURL)), "/")
	c.TimeoutRaw = strings.TrimSpace(os.ExpandEnv(c.TimeoutRaw))
	c.APIKey = strings.TrimSpace(os.ExpandEnv(c.APIKey))
	c.APIKeyHeader = strings.TrimSpace(os.ExpandEnv(c.APIKeyHeader))
	c.UserAgent = strings.TrimSpace(os.ExpandEnv(c.UserAgent))

	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.APIKeyHeader == "" {
		c.APIKeyHeader = DefaultAPIKeyHeader
	}
	if c.TimeoutRaw != "" {
		d, err := time.ParseDuration(c.TimeoutRaw)
		if err != nil {
			return fmt.Errorf("coingecko config: invalid timeout %q: %w", c.TimeoutRaw, err)
		}
		c.Timeout = d
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	return nil
}

// Validate ensures the configuration is structurally sound.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("coingecko config: nil config")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("coingecko config: invalid base_url %q", c.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("coingecko config: base_url must be http(s), got %q", u.Scheme)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("coingecko config: timeout must be positive, got %s", c.Timeout)
	}
	return nil
}
