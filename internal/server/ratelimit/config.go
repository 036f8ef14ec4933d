package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// LoadConfig loads rate limiting configuration from environment variables.
func LoadConfig() *Config {
	return ConfigFromEnv(os.Getenv)
}

// ConfigFromEnv is LoadConfig with an injectable environment lookup.
// Unparsable values fall back to the defaults.
func ConfigFromEnv(getenv func(string) string) *Config {
	if !envOr(getenv, "RATE_LIMIT_ENABLED", true, strconv.ParseBool) {
		return &Config{Enabled: false}
	}
	return &Config{
		Enabled:         true,
		DefaultLimit:    envOr(getenv, "RATE_LIMIT_DEFAULT_LIMIT", 1000, strconv.Atoi),
		DefaultWindow:   envOr(getenv, "RATE_LIMIT_DEFAULT_WINDOW", time.Minute, time.ParseDuration),
		CleanupInterval: envOr(getenv, "RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute, time.ParseDuration),
		Whitelist:       ipSet(getenv("RATE_LIMIT_WHITELIST")),
		Blacklist:       ipSet(getenv("RATE_LIMIT_BLACKLIST")),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Tier 1: AI calls (strictest limits)
		{Path: "/profile/extract", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},
		{Path: "/analysis", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},
		{Path: "/analysis/optimize", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},

		// Tier 2: exports, which may start a headless browser
		{Path: "/profile/export", Method: "GET", Limit: 30, Window: time.Minute, Burst: 5},
		{Path: "/analysis/optimization/export", Method: "GET", Limit: 30, Window: time.Minute, Burst: 5},

		// Tier 3: writes
		{Path: "/profile/", Method: "PUT", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/profile/", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/profile/", Method: "DELETE", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/history", Method: "DELETE", Limit: 100, Window: time.Minute, Burst: 10},

		// Reads use the default limit; /health and /metrics are unlimited
	}
}

func envOr[T any](getenv func(string) string, key string, fallback T, parse func(string) (T, error)) T {
	raw := getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := parse(raw)
	if err != nil {
		return fallback
	}
	return v
}

// ipSet turns a comma-separated address list into a lookup set
func ipSet(list string) map[string]bool {
	set := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			set[ip] = true
		}
	}
	return set
}
