// Package config provides environment-driven configuration for the atlas server.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Secret wraps a sensitive string to prevent accidental logging or marshalling.
type Secret string

// String implements fmt.Stringer, returning a redacted placeholder.
func (s Secret) String() string { return "[REDACTED]" }

// GoString implements fmt.GoStringer, returning a redacted placeholder.
func (s Secret) GoString() string { return "[REDACTED]" }

// MarshalText implements encoding.TextMarshaler, returning a redacted placeholder.
func (s Secret) MarshalText() ([]byte, error) { return []byte("[REDACTED]"), nil }

// Value returns the underlying secret string.
func (s Secret) Value() string { return string(s) }

// Config holds all application configuration values.
type Config struct {
	DatabaseURL   Secret
	DBMaxConns    int
	RunMigrations bool

	Port        string
	MetricsPort string
	ListenHost  string
	CORSOrigins []string
	APIKey      Secret
	RateLimit   float64
	RateBurst   int

	LogLevel  string
	LogFormat string

	TraverseTimeout       time.Duration
	TraverseConcurrency   int
	TraverseNeighborLimit int
	TraverseMaxNodes      int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:   Secret(envOrDefault("DATABASE_URL", "")),
		RunMigrations: envOrDefault("RUN_MIGRATIONS", "true") == "true",
		Port:          envOrDefault("PORT", "3030"),
		MetricsPort:   envOrDefault("METRICS_PORT", "9091"),
		ListenHost:    envOrDefault("LISTEN_HOST", "127.0.0.1"),
		APIKey:        Secret(envOrDefault("API_KEY", "")),
		LogLevel:      envOrDefault("LOG_LEVEL", "info"),
		LogFormat:     envOrDefault("LOG_FORMAT", "text"),
	}

	var err error

	if cfg.DBMaxConns, err = envInt("DB_MAX_CONNS", 20, 2, 200); err != nil {
		return nil, err
	}

	if cfg.RateBurst, err = envInt("RATE_LIMIT_BURST", 40, 1, 10000); err != nil {
		return nil, err
	}

	if cfg.TraverseConcurrency, err = envInt("TRAVERSE_CONCURRENCY", 1, 1, 16); err != nil {
		return nil, err
	}

	if cfg.TraverseNeighborLimit, err = envInt("TRAVERSE_NEIGHBOR_LIMIT", 1000, 1, 10000); err != nil {
		return nil, err
	}

	if cfg.TraverseMaxNodes, err = envInt("TRAVERSE_MAX_NODES", 500, 1, 100000); err != nil {
		return nil, err
	}

	rate, err := strconv.ParseFloat(envOrDefault("RATE_LIMIT_RPS", "20"), 64)
	if err != nil || rate <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_RPS must be a positive number")
	}
	cfg.RateLimit = rate

	timeout, err := time.ParseDuration(envOrDefault("TRAVERSE_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("TRAVERSE_TIMEOUT must be a duration: %w", err)
	}
	cfg.TraverseTimeout = timeout

	origins := envOrDefault("CORS_ORIGINS", "http://localhost:3002")
	cfg.CORSOrigins = strings.Split(origins, ",")

	for i, o := range cfg.CORSOrigins {
		cfg.CORSOrigins[i] = strings.TrimSpace(o)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// Addr returns the listen address in host:port format.
func (c *Config) Addr() string {
	return c.ListenHost + ":" + c.Port
}

// MetricsAddr returns the metrics listen address in host:port format.
func (c *Config) MetricsAddr() string {
	return c.ListenHost + ":" + c.MetricsPort
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func envInt(key string, fallback, lo, hi int) (int, error) {
	n, err := strconv.Atoi(envOrDefault(key, strconv.Itoa(fallback)))
	if err != nil || n < lo || n > hi {
		return 0, fmt.Errorf("%s must be an integer between %d and %d", key, lo, hi)
	}

	return n, nil
}
