// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Storage backend names
const (
	StorageFile     = "file"
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
)

// DefaultMaxRecordBytes mirrors the per-origin budget of browser local storage
const DefaultMaxRecordBytes = 5 << 20

// Config represents the configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or CLI flags.
type Config struct {
	// Storage
	Storage        string `json:"storage,omitempty"`          // file, memory, postgres or redis
	DataDir        string `json:"data_dir,omitempty"`         // Directory for the file backend
	DatabaseURL    string `json:"database_url,omitempty"`     // PostgreSQL connection URL
	RedisAddr      string `json:"redis_addr,omitempty"`       // host:port of the Redis server
	RedisPassword  string `json:"redis_password,omitempty"`   // Redis AUTH password
	RedisDB        int    `json:"redis_db,omitempty"`         // Redis logical database
	MaxRecordBytes int    `json:"max_record_bytes,omitempty"` // Per-record size limit
	Workspace      string `json:"workspace,omitempty"`        // Default workspace for CLI runs

	// AI
	APIKey           string `json:"api_key,omitempty"`            // Gemini API key
	Model            string `json:"model,omitempty"`              // Overrides the standard model tier
	AITimeoutSeconds int    `json:"ai_timeout_seconds,omitempty"` // Per-call deadline

	// Server
	Addr        string   `json:"addr,omitempty"`         // Listen address, e.g. ":8080"
	CORSOrigins []string `json:"cors_origins,omitempty"` // Allowed CORS origins, "*" for any
	RequireAuth bool     `json:"require_auth,omitempty"` // Require a bearer token on API routes

	// Logging
	LogLevel  string `json:"log_level,omitempty"`  // debug, info, warn or error
	LogFormat string `json:"log_format,omitempty"` // json or console

	// Behavior
	UseBrowser bool `json:"use_browser,omitempty"` // Render SPA job pages in headless Chrome
	Verbose    bool `json:"verbose,omitempty"`     // Print detailed summaries
}

// Defaults returns the built-in configuration
func Defaults() Config {
	return Config{
		Storage:          StorageFile,
		DataDir:          defaultDataDir(),
		MaxRecordBytes:   DefaultMaxRecordBytes,
		AITimeoutSeconds: 120,
		Addr:             ":8080",
		CORSOrigins:      []string{"*"},
		LogLevel:         "info",
		LogFormat:        "console",
	}
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "jobfit")
	}
	return ".jobfit"
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Missing connection settings are reported only for the backend selected.
func (c *Config) Validate() error {
	switch c.Storage {
	case "", StorageFile, StorageMemory:
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config error: 'database_url' is required for the postgres storage backend")
		}
	case StorageRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("config error: 'redis_addr' is required for the redis storage backend")
		}
	default:
		return fmt.Errorf("config error: unknown storage backend %q", c.Storage)
	}

	if c.MaxRecordBytes < 0 {
		return fmt.Errorf("config error: 'max_record_bytes' must be non-negative")
	}
	if c.AITimeoutSeconds < 0 {
		return fmt.Errorf("config error: 'ai_timeout_seconds' must be non-negative")
	}
	if c.RedisDB < 0 {
		return fmt.Errorf("config error: 'redis_db' must be non-negative")
	}
	if c.LogFormat != "" && c.LogFormat != "json" && c.LogFormat != "console" {
		return fmt.Errorf("config error: 'log_format' must be json or console")
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Storage == "" {
		result.Storage = defaults.Storage
	}
	if result.DataDir == "" {
		result.DataDir = defaults.DataDir
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.RedisAddr == "" {
		result.RedisAddr = defaults.RedisAddr
	}
	if result.RedisPassword == "" {
		result.RedisPassword = defaults.RedisPassword
	}
	if result.Workspace == "" {
		result.Workspace = defaults.Workspace
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.Addr == "" {
		result.Addr = defaults.Addr
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.LogFormat == "" {
		result.LogFormat = defaults.LogFormat
	}
	if len(result.CORSOrigins) == 0 {
		result.CORSOrigins = defaults.CORSOrigins
	}

	// Int fields: use default if zero
	if result.RedisDB == 0 {
		result.RedisDB = defaults.RedisDB
	}
	if result.MaxRecordBytes == 0 {
		result.MaxRecordBytes = defaults.MaxRecordBytes
	}
	if result.AITimeoutSeconds == 0 {
		result.AITimeoutSeconds = defaults.AITimeoutSeconds
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// ApplyEnv overrides fields from environment variables. getenv is usually os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	setString := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	setString(&c.APIKey, "GEMINI_API_KEY")
	setString(&c.DatabaseURL, "DATABASE_URL")
	setString(&c.RedisAddr, "REDIS_ADDR")
	setString(&c.RedisPassword, "REDIS_PASSWORD")
	setString(&c.Storage, "JOBFIT_STORAGE")
	setString(&c.DataDir, "JOBFIT_DATA_DIR")
	setString(&c.Model, "JOBFIT_MODEL")
	setString(&c.Addr, "JOBFIT_ADDR")
	setString(&c.LogLevel, "JOBFIT_LOG_LEVEL")
	setString(&c.LogFormat, "JOBFIT_LOG_FORMAT")
	setString(&c.Workspace, "JOBFIT_WORKSPACE")

	if v := getenv("JOBFIT_MAX_RECORD_BYTES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid JOBFIT_MAX_RECORD_BYTES: %w", err)
		}
		c.MaxRecordBytes = n
	}
	if v := getenv("JOBFIT_AI_TIMEOUT_SECONDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid JOBFIT_AI_TIMEOUT_SECONDS: %w", err)
		}
		c.AITimeoutSeconds = n
	}
	if v := getenv("JOBFIT_REQUIRE_AUTH"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid JOBFIT_REQUIRE_AUTH: %w", err)
		}
		c.RequireAuth = b
	}
	return nil
}

// AITimeout returns the per-call AI deadline
func (c *Config) AITimeout() time.Duration {
	if c.AITimeoutSeconds <= 0 {
		return 2 * time.Minute
	}
	return time.Duration(c.AITimeoutSeconds) * time.Second
}
