package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/golf-alone/teetime-service/internal/timeutil"
)

// Config holds runtime configuration for the server.
type Config struct {
	Port     string `envconfig:"PORT" default:"4000"`
	Timezone string `envconfig:"TIMEZONE" default:"America/Los_Angeles"`
	Provider string `envconfig:"PROVIDER" default:"fixture"`

	// AdminToken guards /admin routes; empty disables them.
	AdminToken string `envconfig:"ADMIN_TOKEN"`

	GolfAPI GolfAPIConfig
	Catalog CatalogConfig
	Slots   SlotsConfig
	Cache   CacheConfig
	Metrics MetricsConfig
	Log     LogConfig
}

// GolfAPIConfig controls how we talk to golfcourseapi.com.
type GolfAPIConfig struct {
	BaseURL       string        `envconfig:"GOLF_API_BASE_URL" default:"https://api.golfcourseapi.com"`
	APIKey        string        `envconfig:"GOLF_API_KEY"`
	RateLimit     time.Duration `envconfig:"PROVIDER_RATE_LIMIT" default:"1s"`
	RetryAttempts int           `envconfig:"PROVIDER_RETRY_ATTEMPTS" default:"3"`
}

// CatalogConfig controls what the refresher loads into the course catalog.
type CatalogConfig struct {
	Query           string        `envconfig:"CATALOG_QUERY"`
	RadiusMiles     float64       `envconfig:"CATALOG_RADIUS" default:"50"`
	RefreshInterval time.Duration `envconfig:"CATALOG_REFRESH_INTERVAL" default:"15m"`
}

// SlotsConfig bounds per-course slot acquisition during a search.
type SlotsConfig struct {
	FetchTimeout time.Duration `envconfig:"SLOT_FETCH_TIMEOUT" default:"2s"`
	Concurrency  int           `envconfig:"SLOT_FETCH_CONCURRENCY" default:"8"`
}

// CacheConfig enables the Redis course lookup cache when RedisAddr is set.
type CacheConfig struct {
	RedisAddr string        `envconfig:"REDIS_ADDR"`
	TTL       time.Duration `envconfig:"CACHE_TTL" default:"10m"`
}

// LogConfig selects log verbosity and handler format.
type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"text"`
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Location resolves the configured timezone.
func (c Config) Location() (*time.Location, error) {
	return timeutil.LoadLocation(c.Timezone)
}

func (c *Config) normalize() {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
	if strings.TrimSpace(c.Port) == "" {
		c.Port = defaultPort
	}
	if c.Catalog.RefreshInterval <= 0 {
		c.Catalog.RefreshInterval = defaultCatalogRefresh
	}
	if c.Catalog.RadiusMiles <= 0 {
		c.Catalog.RadiusMiles = defaultCatalogRadius
	}
	if c.Slots.FetchTimeout <= 0 {
		c.Slots.FetchTimeout = defaultSlotFetchTimeout
	}
	if c.Slots.Concurrency <= 0 {
		c.Slots.Concurrency = defaultSlotConcurrency
	}
	if c.GolfAPI.RateLimit <= 0 {
		c.GolfAPI.RateLimit = defaultProviderRateLimit
	}
	if c.GolfAPI.RetryAttempts <= 0 {
		c.GolfAPI.RetryAttempts = defaultRetryAttempts
	}
	if c.Cache.TTL <= 0 {
		c.Cache.TTL = defaultCacheTTL
	}
}

func (c Config) validate() error {
	switch c.Provider {
	case ProviderFixture, ProviderGolfCourseAPI:
	default:
		return fmt.Errorf("config: unknown provider %q", c.Provider)
	}
	if c.Provider == ProviderGolfCourseAPI && strings.TrimSpace(c.Catalog.Query) == "" {
		return fmt.Errorf("config: CATALOG_QUERY is required for provider %q", c.Provider)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("config: unknown log format %q", c.Log.Format)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
