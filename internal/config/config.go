package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigFileEnv names the environment variable holding an optional YAML config path
const ConfigFileEnv = "RAGWEB_CONFIG"

const (
	defaultTavilyBaseURL     = "https://api.tavily.com"
	defaultApifyBaseURL      = "https://rag-web-browser.apify.actor"
	defaultHTTPAddr          = ":8080"
	defaultRequestTimeout    = 45 * time.Second
	defaultDefaultMaxResults = 1
	defaultMaxResultsLimit   = 100
)

// Config holds all application configuration
type Config struct {
	SearchProvider    string        `yaml:"search_provider"`
	TavilyAPIKey      string        `yaml:"tavily_api_key"`
	TavilyBaseURL     string        `yaml:"tavily_base_url"`
	ApifyAPIToken     string        `yaml:"apify_api_token"`
	ApifyBaseURL      string        `yaml:"apify_base_url"`
	HTTPAddr          string        `yaml:"http_addr"`
	APIKey            string        `yaml:"api_key"`
	JWTSecret         string        `yaml:"jwt_secret"`
	RequestTimeout    time.Duration `yaml:"-"` // request_timeout, read by mergeFile
	DefaultMaxResults int           `yaml:"default_max_results"`
	MaxResultsLimit   int           `yaml:"max_results_limit"`
}

// Default returns the configuration used when nothing is set
func Default() Config {
	return Config{
		TavilyBaseURL:     defaultTavilyBaseURL,
		ApifyBaseURL:      defaultApifyBaseURL,
		HTTPAddr:          defaultHTTPAddr,
		RequestTimeout:    defaultRequestTimeout,
		DefaultMaxResults: defaultDefaultMaxResults,
		MaxResultsLimit:   defaultMaxResultsLimit,
	}
}

// Load builds the configuration from defaults, the optional YAML file named
// by RAGWEB_CONFIG, and environment variables, in increasing priority.
func Load() (Config, error) {
	cfg := Default()

	if path := strings.TrimSpace(os.Getenv(ConfigFileEnv)); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}

	cfg.SearchProvider = getEnv("SEARCH_PROVIDER", cfg.SearchProvider)
	cfg.TavilyAPIKey = getEnv("TAVILY_API_KEY", cfg.TavilyAPIKey)
	cfg.TavilyBaseURL = getEnv("TAVILY_BASE_URL", cfg.TavilyBaseURL)
	cfg.ApifyAPIToken = getEnv("APIFY_API_TOKEN", cfg.ApifyAPIToken)
	cfg.ApifyBaseURL = getEnv("APIFY_BASE_URL", cfg.ApifyBaseURL)
	cfg.HTTPAddr = getEnv("HTTP_ADDR", cfg.HTTPAddr)
	cfg.APIKey = getEnv("RAGWEB_API_KEY", cfg.APIKey)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.RequestTimeout = getEnvSeconds("REQUEST_TIMEOUT", cfg.RequestTimeout)
	cfg.DefaultMaxResults = getEnvInt("DEFAULT_MAX_RESULTS", cfg.DefaultMaxResults)
	cfg.MaxResultsLimit = getEnvInt("MAX_RESULTS_LIMIT", cfg.MaxResultsLimit)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the numeric limits
func (c Config) Validate() error {
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.MaxResultsLimit <= 0 {
		return fmt.Errorf("max results limit must be positive, got %d", c.MaxResultsLimit)
	}
	if c.DefaultMaxResults <= 0 || c.DefaultMaxResults > c.MaxResultsLimit {
		return fmt.Errorf("default max results must be between 1 and %d, got %d", c.MaxResultsLimit, c.DefaultMaxResults)
	}
	return nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	var timeouts struct {
		RequestTimeout *yaml.Node `yaml:"request_timeout"`
	}
	if err := yaml.Unmarshal(data, &timeouts); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if node := timeouts.RequestTimeout; node != nil {
		d, err := parseSeconds(node.Value)
		if err != nil {
			return fmt.Errorf("invalid request_timeout in %s: %w", path, err)
		}
		c.RequestTimeout = d
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvSeconds reads a number of seconds, or a Go duration string
func getEnvSeconds(key string, defaultValue time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	if d, err := parseSeconds(value); err == nil {
		return d
	}
	return defaultValue
}

// parseSeconds accepts "45", "1.5" or a duration such as "45s"
func parseSeconds(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if secs, err := strconv.ParseFloat(value, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}
	return time.ParseDuration(value)
}
