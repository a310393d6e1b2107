package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
	"github.com/joho/godotenv"

	"github.com/xenking/gadget-catalog/pkg/httpmiddleware"
)

// Catalog sources.
const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

const defaultRedisURL = "redis://localhost:6379/0"

// Favorites stores.
const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

// Config holds the complete application configuration, loadable from
// environment variables (CATALOG_ prefix), flags, a .env file or YAML config
// files.
type Config struct {
	Addr         string `default:"0.0.0.0:8080" usage:"API server listen address"`
	DatabaseURL  string `usage:"PostgreSQL connection URL (CATALOG_DATABASE_URL or DATABASE_URL)" flag:"database-url"`
	ImageBaseURL string `default:"" usage:"Base URL for product images (e.g. https://cdn.example.com/images)" flag:"image-base-url"`
	PageSize     int    `default:"8" usage:"Default listing page size" flag:"page-size"`
	Catalog      CatalogConfig
	Favorites    FavoritesConfig
	RateLimit    RateLimitConfig
	CORS         CORSConfig
	Graceful     GracefulConfig
}

// CatalogConfig selects where the product catalog is loaded from.
type CatalogConfig struct {
	Source string `default:"file" usage:"Catalog source: file or postgres"`
	File   string `default:"" usage:"Catalog JSON file; empty serves the built-in catalog"`
}

// FavoritesConfig selects the favorites key-value store.
type FavoritesConfig struct {
	Store       string        `default:"memory" usage:"Favorites store: memory, sqlite, postgres or redis"`
	SQLitePath  string        `default:"favorites.db" usage:"SQLite database path" flag:"sqlite-path"`
	RedisURL    string        `default:"redis://localhost:6379/0" usage:"Redis URL" flag:"redis-url"`
	RedisPrefix string        `default:"catalog:" usage:"Prefix for Redis keys" flag:"redis-prefix"`
	RedisTTL    time.Duration `default:"0" usage:"Expiry of favorites in Redis, 0 keeps them forever" flag:"redis-ttl"`
}

// RateLimitConfig controls the per-client sliding window rate limiter.
type RateLimitConfig struct {
	Max    int           `default:"100" usage:"Max requests per window"`
	Window time.Duration `default:"1m"  usage:"Rate limit window duration"`
	// TrustedProxies lists proxy addresses or CIDRs whose X-Forwarded-For
	// is believed. Empty keys every request by its peer address.
	TrustedProxies []string `usage:"Trusted proxy IPs or CIDRs for X-Forwarded-For" flag:"trusted-proxies"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins          []string `default:"*" usage:"Allowed CORS origins"`
	AllowCredentials bool     `default:"false" usage:"Allow credentials (cookies, auth headers)" flag:"cors-credentials"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from a .env file, environment variables,
// YAML config files and flags, then applies platform-specific defaults.
func LoadConfig() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	return load(aconfig.Config{
		Files: []string{"config.yaml", "/etc/catalog/config.yaml"},
	})
}

func load(ac aconfig.Config) (*Config, error) {
	ac.EnvPrefix = "CATALOG"
	ac.FileDecoders = map[string]aconfig.FileDecoder{
		".yaml": aconfigyaml.New(),
	}

	var cfg Config
	if err := aconfig.LoaderFor(&cfg, ac).Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the selected backends are known and configured.
func (c *Config) Validate() error {
	switch c.Catalog.Source {
	case SourceFile, SourcePostgres:
	default:
		return errors.Errorf("unknown catalog source %q", c.Catalog.Source)
	}
	switch c.Favorites.Store {
	case StoreMemory, StoreSQLite, StorePostgres, StoreRedis:
	default:
		return errors.Errorf("unknown favorites store %q", c.Favorites.Store)
	}
	if c.needsPostgres() && c.DatabaseURL == "" {
		return errors.New("database URL is required: set CATALOG_DATABASE_URL or DATABASE_URL")
	}
	if c.Favorites.Store == StoreRedis && c.Favorites.RedisURL == "" {
		return errors.New("redis URL is required for the redis favorites store")
	}
	if c.PageSize < 1 {
		return errors.Errorf("page size must be positive, got %d", c.PageSize)
	}
	if c.RateLimit.Max < 1 || c.RateLimit.Window <= 0 {
		return errors.New("rate limit max and window must be positive")
	}
	if _, err := httpmiddleware.ParseTrustedProxies(c.RateLimit.TrustedProxies); err != nil {
		return errors.Wrap(err, "rate limit")
	}
	return nil
}

func (c *Config) needsPostgres() bool {
	return c.Catalog.Source == SourcePostgres || c.Favorites.Store == StorePostgres
}

// applyPlatformDefaults maps platform-provided environment variables (Railway,
// Render, etc.) that use standard names like DATABASE_URL, REDIS_URL and PORT
// to the application's CATALOG_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if c.DatabaseURL == "" {
		if v := os.Getenv("DATABASE_URL"); v != "" {
			c.DatabaseURL = v
		}
	}
	if v := os.Getenv("REDIS_URL"); v != "" && c.Favorites.RedisURL == defaultRedisURL {
		c.Favorites.RedisURL = v
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:8080" {
		c.Addr = "0.0.0.0:" + port
	}
}
