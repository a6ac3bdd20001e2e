package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Storage backends for session state.
const (
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort           int      `env:"HTTP_PORT" envDefault:"8080"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:3000" envSeparator:","`

	// Session state storage
	StorageBackend  string `env:"STORAGE_BACKEND" envDefault:"redis"`
	RedisAddr       string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass       string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB         int    `env:"REDIS_DB" envDefault:"0"`
	RedisPoolSize   int    `env:"REDIS_POOL_SIZE" envDefault:"20"`
	RedisSlowCmdMs  int    `env:"REDIS_SLOW_COMMAND_MS" envDefault:"50"`
	SessionTTLHours int    `env:"SESSION_TTL_HOURS" envDefault:"720"`

	// Product catalog
	CatalogBaseURL        string `env:"CATALOG_BASE_URL" envDefault:"https://fakestoreapi.com"`
	CatalogTimeoutSeconds int    `env:"CATALOG_TIMEOUT_SECONDS" envDefault:"10"`

	// Kafka
	KafkaEnabled bool     `env:"KAFKA_ENABLED" envDefault:"false"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`

	// Pprof debug endpoints (IP allowlist in CIDR notation)
	PprofAllowedCIDRs []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"127.0.0.0/8,::1/128" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	c.StorageBackend = strings.ToLower(c.StorageBackend)
	switch c.StorageBackend {
	case StorageRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required when STORAGE_BACKEND=redis")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("STORAGE_BACKEND must be %q or %q, got %q", StorageRedis, StorageMemory, c.StorageBackend)
	}
	if c.RedisPoolSize < 1 {
		return fmt.Errorf("REDIS_POOL_SIZE must be positive, got %d", c.RedisPoolSize)
	}
	if c.SessionTTLHours < 1 {
		return fmt.Errorf("SESSION_TTL_HOURS must be positive, got %d", c.SessionTTLHours)
	}
	if c.CatalogTimeoutSeconds < 1 {
		return fmt.Errorf("CATALOG_TIMEOUT_SECONDS must be positive, got %d", c.CatalogTimeoutSeconds)
	}
	if c.KafkaEnabled && len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required when KAFKA_ENABLED=true")
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1.0 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %f", c.OTELSampleRate)
	}
	return nil
}

// SessionTTL is how long an idle session's cart and wishlist are kept.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}

// RedisSlowCommandThreshold is the latency above which redis commands are
// logged. Zero disables slow command logging.
func (c *Config) RedisSlowCommandThreshold() time.Duration {
	return time.Duration(c.RedisSlowCmdMs) * time.Millisecond
}

// CatalogTimeout bounds a single upstream catalog request.
func (c *Config) CatalogTimeout() time.Duration {
	return time.Duration(c.CatalogTimeoutSeconds) * time.Second
}
