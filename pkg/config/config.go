package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix  = "industrialpartner"
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App      AppConfig
	Upstream UpstreamConfig
	Redis    RedisConfig
	DB       DBConfig
	Session  SessionConfig
	Cart     CartConfig
	Cache    CacheConfig
	CORS     CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Upstream.validate(); err != nil {
		return nil, err
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"INDUSTRIALPARTNER_APP_ENV" required:"true"`
	Port         string `envconfig:"INDUSTRIALPARTNER_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"INDUSTRIALPARTNER_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"INDUSTRIALPARTNER_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// UpstreamConfig points at the remote catalog/quote API.
type UpstreamConfig struct {
	BaseURL        string        `envconfig:"INDUSTRIALPARTNER_UPSTREAM_BASE_URL" required:"true"`
	RequestTimeout time.Duration `envconfig:"INDUSTRIALPARTNER_UPSTREAM_TIMEOUT" default:"10s"`
	RetryAttempts  int           `envconfig:"INDUSTRIALPARTNER_UPSTREAM_RETRY_ATTEMPTS" default:"2"`
	RetryBaseDelay time.Duration `envconfig:"INDUSTRIALPARTNER_UPSTREAM_RETRY_BASE_DELAY" default:"100ms"`
	QuoteSource    string        `envconfig:"INDUSTRIALPARTNER_QUOTE_SOURCE" default:"industrialpartner-web"`
}

func (u UpstreamConfig) validate() error {
	parsed, err := url.Parse(u.BaseURL)
	if err != nil {
		return fmt.Errorf("parsing upstream base url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("upstream base url must be absolute, got %q", u.BaseURL)
	}
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"INDUSTRIALPARTNER_REDIS_URL" required:"true"`
	Address      string        `envconfig:"INDUSTRIALPARTNER_REDIS_ADDR"`
	Password     string        `envconfig:"INDUSTRIALPARTNER_REDIS_PASSWORD"`
	DB           int           `envconfig:"INDUSTRIALPARTNER_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"INDUSTRIALPARTNER_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"INDUSTRIALPARTNER_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"INDUSTRIALPARTNER_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"INDUSTRIALPARTNER_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"INDUSTRIALPARTNER_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type DBConfig struct {
	DSN       string `envconfig:"INDUSTRIALPARTNER_DB_DSN"`
	UseSQLite bool   `envconfig:"INDUSTRIALPARTNER_USE_SQLITE" default:"false"`
	// SQLitePath is only consulted when UseSQLite is set.
	SQLitePath  string `envconfig:"INDUSTRIALPARTNER_SQLITE_PATH" default:"storefront.db"`
	AutoMigrate bool   `envconfig:"INDUSTRIALPARTNER_AUTO_MIGRATE" default:"false"`

	LegacyHost     string `envconfig:"INDUSTRIALPARTNER_DB_HOST"`
	LegacyPort     int    `envconfig:"INDUSTRIALPARTNER_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"INDUSTRIALPARTNER_DB_USER"`
	LegacyPassword string `envconfig:"INDUSTRIALPARTNER_DB_PASSWORD"`
	LegacyName     string `envconfig:"INDUSTRIALPARTNER_DB_NAME"`
	LegacySSLMode  string `envconfig:"INDUSTRIALPARTNER_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"INDUSTRIALPARTNER_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"INDUSTRIALPARTNER_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"INDUSTRIALPARTNER_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"INDUSTRIALPARTNER_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type SessionConfig struct {
	CookieName string        `envconfig:"INDUSTRIALPARTNER_SESSION_COOKIE" default:"ip_session"`
	TTL        time.Duration `envconfig:"INDUSTRIALPARTNER_SESSION_TTL" default:"720h"`
	Secure     bool          `envconfig:"INDUSTRIALPARTNER_SESSION_SECURE" default:"false"`
}

type CartConfig struct {
	// SurfaceLookupMiss turns a failed product lookup during add-to-cart into a
	// visible error instead of the legacy silent no-op.
	SurfaceLookupMiss bool `envconfig:"INDUSTRIALPARTNER_CART_SURFACE_LOOKUP_MISS" default:"false"`
}

type CacheConfig struct {
	SitemapManufacturersTTL time.Duration `envconfig:"INDUSTRIALPARTNER_CACHE_SITEMAP_MANUFACTURERS_TTL" default:"30m"`
	SitemapProductsTTL      time.Duration `envconfig:"INDUSTRIALPARTNER_CACHE_SITEMAP_PRODUCTS_TTL" default:"15m"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"INDUSTRIALPARTNER_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

func (db *DBConfig) ensureDSN() error {
	if db.UseSQLite || db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		"INDUSTRIALPARTNER_DB_HOST": db.LegacyHost,
		"INDUSTRIALPARTNER_DB_USER": db.LegacyUser,
		"INDUSTRIALPARTNER_DB_NAME": db.LegacyName,
	}
	for _, env := range []string{"INDUSTRIALPARTNER_DB_HOST", "INDUSTRIALPARTNER_DB_USER", "INDUSTRIALPARTNER_DB_NAME"} {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either INDUSTRIALPARTNER_DB_DSN or %s are required", strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
