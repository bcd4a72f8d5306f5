package config

import (
	"os"
	"testing"
	"time"
)

var configKeys = []string{
	"APP_ENV", "HTTP_ADDR", "CORS_ORIGINS", "CORS_ALLOW_ALL", "CORS_ALLOW_CREDENTIALS",
	"RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "SEARCH_ENGINES_FILE", "DEFAULT_SEARCH_ENGINE",
	"QUERY_ESCAPING", "PHONE_DEFAULT_REGION", "MAX_INPUT_LENGTH", "REDIS_URL",
	"HISTORY_MAX_ENTRIES", "HISTORY_TTL",
}

// clearEnv unsets every key Load reads and restores them when the test ends.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("unset %s: %v", key, err)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTPAddr != ":8080" || cfg.Env != "development" {
		t.Fatalf("unexpected server defaults: %+v", cfg)
	}
	if cfg.DefaultSearchEngine != "general" || cfg.QueryEscaping != "spaces" {
		t.Fatalf("unexpected search defaults: %+v", cfg)
	}
	if cfg.PhoneDefaultRegion != "US" || cfg.MaxInputLength != 2048 {
		t.Fatalf("unexpected classifier defaults: %+v", cfg)
	}
	if cfg.IsHistoryEnabled() {
		t.Fatalf("history should be disabled without REDIS_URL")
	}
	if cfg.GetHistoryTTL() != 720*time.Hour {
		t.Fatalf("unexpected history ttl %v", cfg.GetHistoryTTL())
	}
}

func TestLoadNormalizesValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("DEFAULT_SEARCH_ENGINE", " Video ")
	t.Setenv("QUERY_ESCAPING", "QUERY")
	t.Setenv("PHONE_DEFAULT_REGION", "gb")
	t.Setenv("CORS_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.GetDefaultSearchEngine() != "video" || cfg.GetQueryEscaping() != "query" {
		t.Fatalf("unexpected search settings: %+v", cfg)
	}
	if cfg.GetPhoneDefaultRegion() != "GB" {
		t.Fatalf("unexpected region %q", cfg.GetPhoneDefaultRegion())
	}
	if origins := cfg.GetCORSOrigins(); len(origins) != 2 || origins[1] != "https://b.example" {
		t.Fatalf("unexpected origins %v", origins)
	}
	if !cfg.IsHistoryEnabled() {
		t.Fatalf("history should be enabled with REDIS_URL")
	}
}

func TestLoadWildcardOriginAllowsAll(t *testing.T) {
	clearEnv(t)
	t.Setenv("CORS_ORIGINS", "*")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.GetCORSAllowAll() {
		t.Fatalf("wildcard origin should enable allow-all")
	}
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown engine":      {"DEFAULT_SEARCH_ENGINE": "bing"},
		"unknown escaping":    {"QUERY_ESCAPING": "percent"},
		"zero input length":   {"MAX_INPUT_LENGTH": "0"},
		"bad rate limit":      {"RATE_LIMIT_RPS": "fast"},
		"creds with wildcard": {"CORS_ORIGINS": "*", "CORS_ALLOW_CREDENTIALS": "true"},
		"no history entries":  {"REDIS_URL": "redis://localhost:6379", "HISTORY_MAX_ENTRIES": "0"},
		"malformed ttl":       {"HISTORY_TTL": "30 days"},
		"negative ttl":        {"HISTORY_TTL": "-1h"},
	}

	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for key, value := range env {
				t.Setenv(key, value)
			}
			if _, err := Load(); err == nil {
				t.Fatalf("expected an error")
			}
		})
	}
}

func TestLoadSearchIgnoresServerSettings(t *testing.T) {
	clearEnv(t)
	t.Setenv("RATE_LIMIT_RPS", "fast")
	t.Setenv("CORS_ORIGINS", "*")
	t.Setenv("CORS_ALLOW_CREDENTIALS", "true")
	t.Setenv("HISTORY_TTL", "forever")
	t.Setenv("MAX_INPUT_LENGTH", "100")

	if _, err := Load(); err == nil {
		t.Fatalf("full load should reject the server settings")
	}
	cfg, err := LoadSearch()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.GetMaxInputLength() != 100 {
		t.Fatalf("unexpected max input length %d", cfg.GetMaxInputLength())
	}

	t.Setenv("DEFAULT_SEARCH_ENGINE", "bing")
	if _, err := LoadSearch(); err == nil {
		t.Fatalf("search settings are still validated")
	}
}
