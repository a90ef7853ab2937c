package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Prefix is prepended to every environment variable, e.g. PACKTRACKER_DB_PATH
const Prefix = "PACKTRACKER"

// Config holds the process configuration for the server and packctl
type Config struct {
	DBPath string `envconfig:"DB_PATH" default:"./packtracker.db"`
	Port   int    `envconfig:"PORT" default:"8080"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"console"`

	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
	FrontendDistPath   string   `envconfig:"FRONTEND_DIST_PATH"`

	// Bearer tokens allowed to call mutating routes. Empty leaves the API read-only.
	EditorTokens []string `envconfig:"EDITOR_TOKENS"`

	SnapshotHour int `envconfig:"SNAPSHOT_HOUR" default:"23"`

	StatsCacheSize int           `envconfig:"STATS_CACHE_SIZE" default:"32"`
	StatsCacheTTL  time.Duration `envconfig:"STATS_CACHE_TTL" default:"30s"`

	ImportWritesPerSecond float64 `envconfig:"IMPORT_WRITES_PER_SECOND" default:"200"`

	Currency string `envconfig:"CURRENCY" default:"USD"`
}

// Validate rejects values the rest of the program cannot work with
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT: %d", c.Port)
	}
	if c.SnapshotHour < 0 || c.SnapshotHour > 23 {
		return fmt.Errorf("invalid SNAPSHOT_HOUR: %d", c.SnapshotHour)
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("unsupported LOG_FORMAT: %s", c.LogFormat)
	}
	if c.ImportWritesPerSecond <= 0 {
		return fmt.Errorf("IMPORT_WRITES_PER_SECOND must be positive, got %v", c.ImportWritesPerSecond)
	}
	c.Currency = strings.ToUpper(strings.TrimSpace(c.Currency))
	c.EditorTokens = compact(c.EditorTokens)
	c.CORSAllowedOrigins = compact(c.CORSAllowedOrigins)
	return nil
}

// New parses PACKTRACKER_* environment variables and validates them
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LogSummary writes the loaded configuration, without secrets, at info level
func (c *Config) LogSummary() {
	log.Info().
		Str("db_path", c.DBPath).
		Int("port", c.Port).
		Str("log_level", c.LogLevel).
		Strs("cors_origins", c.CORSAllowedOrigins).
		Bool("frontend", c.FrontendDistPath != "").
		Int("editor_tokens", len(c.EditorTokens)).
		Int("snapshot_hour", c.SnapshotHour).
		Int("stats_cache_size", c.StatsCacheSize).
		Dur("stats_cache_ttl", c.StatsCacheTTL).
		Str("currency", c.Currency).
		Msg("Configuration loaded")
}

// HTTPAddr returns the listen address for the API server
func (c *Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func compact(values []string) []string {
	out := values[:0]
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
