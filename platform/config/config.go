// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// RateLimitConfig provides settings for the per-IP rate limiter.
type RateLimitConfig interface {
	GetRateLimitRPS() float64
	GetRateLimitBurst() int
}

// SearchConfig provides settings for the classifier and its search engines.
type SearchConfig interface {
	GetSearchEnginesFile() string
	GetDefaultSearchEngine() string
	GetQueryEscaping() string
	GetPhoneDefaultRegion() string
	GetMaxInputLength() int
}

// HistoryConfig provides settings for the classification history store.
type HistoryConfig interface {
	GetRedisURL() string
	GetHistoryMaxEntries() int
	GetHistoryTTL() time.Duration
	IsHistoryEnabled() bool
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                 string
	HTTPAddr            string
	CORSAllowAll        bool
	CORSOrigins         []string
	CORSAllowCreds      bool
	RateLimitRPS        float64
	RateLimitBurst      int
	SearchEnginesFile   string
	DefaultSearchEngine string
	QueryEscaping       string
	PhoneDefaultRegion  string
	MaxInputLength      int
	RedisURL            string
	HistoryMaxEntries   int
	HistoryTTL          time.Duration
}

// =============================================================================
// Interface Implementations
// =============================================================================

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// RateLimitConfig implementation
func (c *Config) GetRateLimitRPS() float64 { return c.RateLimitRPS }
func (c *Config) GetRateLimitBurst() int   { return c.RateLimitBurst }

// SearchConfig implementation
func (c *Config) GetSearchEnginesFile() string   { return c.SearchEnginesFile }
func (c *Config) GetDefaultSearchEngine() string { return c.DefaultSearchEngine }
func (c *Config) GetQueryEscaping() string       { return c.QueryEscaping }
func (c *Config) GetPhoneDefaultRegion() string  { return c.PhoneDefaultRegion }
func (c *Config) GetMaxInputLength() int         { return c.MaxInputLength }

// HistoryConfig implementation
func (c *Config) GetRedisURL() string          { return c.RedisURL }
func (c *Config) GetHistoryMaxEntries() int    { return c.HistoryMaxEntries }
func (c *Config) GetHistoryTTL() time.Duration { return c.HistoryTTL }
func (c *Config) IsHistoryEnabled() bool       { return c.RedisURL != "" }

// Load reads configuration from environment variables and validates all of it.
func Load() (*Config, error) {
	cfg := read()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadSearch reads configuration but validates only the classifier settings.
// Desktop tools use it so server-only settings cannot stop them.
func LoadSearch() (*Config, error) {
	cfg := read()
	if err := cfg.validateSearch(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func read() *Config {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                 getEnv("APP_ENV", "development"),
		HTTPAddr:            getEnv("HTTP_ADDR", ":8080"),
		CORSAllowAll:        corsAllowAll,
		CORSOrigins:         corsOrigins,
		CORSAllowCreds:      strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "false"), "true"),
		RateLimitRPS:        mustFloat(getEnv("RATE_LIMIT_RPS", "10")),
		RateLimitBurst:      mustInt(getEnv("RATE_LIMIT_BURST", "20")),
		SearchEnginesFile:   getEnv("SEARCH_ENGINES_FILE", ""),
		DefaultSearchEngine: strings.ToLower(strings.TrimSpace(getEnv("DEFAULT_SEARCH_ENGINE", "general"))),
		QueryEscaping:       strings.ToLower(strings.TrimSpace(getEnv("QUERY_ESCAPING", "spaces"))),
		PhoneDefaultRegion:  strings.ToUpper(strings.TrimSpace(getEnv("PHONE_DEFAULT_REGION", "US"))),
		MaxInputLength:      mustInt(getEnv("MAX_INPUT_LENGTH", "2048")),
		RedisURL:            getEnv("REDIS_URL", ""),
		HistoryMaxEntries:   mustInt(getEnv("HISTORY_MAX_ENTRIES", "50")),
		HistoryTTL:          mustDuration(getEnv("HISTORY_TTL", "720h")),
	}
	return cfg
}

func (c *Config) validate() error {
	if err := c.validateSearch(); err != nil {
		return err
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	if c.IsHistoryEnabled() && c.HistoryMaxEntries <= 0 {
		return fmt.Errorf("HISTORY_MAX_ENTRIES must be positive when REDIS_URL is set")
	}
	if c.HistoryTTL < 0 {
		return fmt.Errorf("HISTORY_TTL must be a non-negative duration such as 720h")
	}
	if c.CORSAllowAll && c.CORSAllowCreds {
		return fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	return nil
}

func (c *Config) validateSearch() error {
	switch c.DefaultSearchEngine {
	case "general", "video":
	default:
		return fmt.Errorf("DEFAULT_SEARCH_ENGINE must be general or video, got %q", c.DefaultSearchEngine)
	}
	switch c.QueryEscaping {
	case "spaces", "query":
	default:
		return fmt.Errorf("QUERY_ESCAPING must be spaces or query, got %q", c.QueryEscaping)
	}
	if c.MaxInputLength <= 0 {
		return fmt.Errorf("MAX_INPUT_LENGTH must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

// mustDuration yields -1 for unparseable input so validation can reject it.
func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return -1
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return result
}

func mustFloat(value string) float64 {
	result, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
