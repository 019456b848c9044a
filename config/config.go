// Package config provides configuration management and environment variable handling for the application
package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"
)

// Data service drivers
const (
	DriverREST     = "rest"
	DriverPostgres = "postgres"
)

// AppConfig holds all configuration of the affiliate service
type AppConfig struct {
	Server      ServerConfig      `koanf:"server"`
	DataService DataServiceConfig `koanf:"data_service"`
	Cache       CacheConfig       `koanf:"cache"`
	Security    SecurityConfig    `koanf:"security"`
	JWT         JWTConfig         `koanf:"jwt"`
	Authz       AuthzConfig       `koanf:"authz"`
	Logging     LoggingConfig     `koanf:"logging"`
	Metrics     MetricsConfig     `koanf:"metrics"`
	Attribution AttributionConfig `koanf:"attribution"`
	Deployment  DeploymentConfig  `koanf:"deployment"`
}

type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	BodyLimit       int           `koanf:"body_limit"`
	TrustedProxies  []string      `koanf:"trusted_proxies"`
	ProxyHeader     string        `koanf:"proxy_header"`
}

// DataServiceConfig points at the relational store that holds links,
// products, clicks and sales. With the rest driver URL is the PostgREST base
// URL; with the postgres driver URL is a DSN and ServiceRoleKey is used as
// the password when the DSN carries none.
type DataServiceConfig struct {
	Driver          string        `koanf:"driver"`
	URL             string        `koanf:"url"`
	ServiceRoleKey  string        `koanf:"service_role_key"`
	Timeout         time.Duration `koanf:"timeout"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	SlowQueryTime   time.Duration `koanf:"slow_query_time"`

	// Circuit breaker around the REST client
	BreakerMaxFailures uint32        `koanf:"breaker_max_failures"`
	BreakerOpenTimeout time.Duration `koanf:"breaker_open_timeout"`
}

// MissingKeys names the attribution settings that are absent, using the
// environment variable names operators know them by.
func (d DataServiceConfig) MissingKeys() []string {
	var missing []string
	if strings.TrimSpace(d.URL) == "" {
		missing = append(missing, "SUPABASE_URL")
	}
	if strings.TrimSpace(d.ServiceRoleKey) == "" {
		missing = append(missing, "SUPABASE_SERVICE_ROLE_KEY")
	}
	return missing
}

// Configured reports whether both URL and key are present
func (d DataServiceConfig) Configured() bool {
	return len(d.MissingKeys()) == 0
}

// PostgresDSN returns URL with ServiceRoleKey filled in as the password
// when the DSN has none. Both URL and key/value DSNs are accepted.
func (d DataServiceConfig) PostgresDSN() string {
	dsn := strings.TrimSpace(d.URL)
	if d.ServiceRoleKey == "" {
		return dsn
	}

	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		u, err := url.Parse(dsn)
		if err != nil || u.User == nil {
			return dsn
		}
		if _, ok := u.User.Password(); ok {
			return dsn
		}
		u.User = url.UserPassword(u.User.Username(), d.ServiceRoleKey)
		return u.String()
	}

	for _, field := range strings.Fields(dsn) {
		if strings.HasPrefix(field, "password=") {
			return dsn
		}
	}
	return dsn + " password=" + d.ServiceRoleKey
}

type CacheConfig struct {
	Enabled             bool          `koanf:"enabled"`
	RedisURL            string        `koanf:"redis_url"`
	RedisDB             int           `koanf:"redis_db"`
	RedisPrefix         string        `koanf:"redis_prefix"`
	HealthCheckInterval time.Duration `koanf:"health_check_interval"`
}

type SecurityConfig struct {
	// CORS
	AllowedOrigins   []string `koanf:"allowed_origins"`
	AllowedMethods   []string `koanf:"allowed_methods"`
	AllowedHeaders   []string `koanf:"allowed_headers"`
	AllowCredentials bool     `koanf:"allow_credentials"`
	CORSMaxAge       int      `koanf:"cors_max_age"`

	// Rate Limiting
	GlobalRateLimit int           `koanf:"global_rate_limit"` // requests per window
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`

	// Content Security
	HSTSMaxAge     int    `koanf:"hsts_max_age"`
	CSPPolicy      string `koanf:"csp_policy"`
	XFrameOptions  string `koanf:"x_frame_options"`
	ReferrerPolicy string `koanf:"referrer_policy"`
}

// JWTConfig configures verification of reporting API tokens. Tokens are
// issued by the hosted auth provider; the private key is only needed by the
// token command.
type JWTConfig struct {
	SecretKey      string        `koanf:"secret_key"`
	PrivateKey     string        `koanf:"private_key"` // RSA private key in PEM format
	PublicKey      string        `koanf:"public_key"`  // RSA public key in PEM format
	UseRSAKeys     bool          `koanf:"use_rsa_keys"`
	AccessTokenTTL time.Duration `koanf:"access_token_ttl"`
	Issuer         string        `koanf:"issuer"`
	Audience       string        `koanf:"audience"`
	DefaultRole    string        `koanf:"default_role"`
}

// Enabled reports whether reporting routes can verify tokens at all
func (j JWTConfig) Enabled() bool {
	if j.UseRSAKeys {
		return j.PublicKey != ""
	}
	return j.SecretKey != ""
}

// AuthzConfig optionally overrides the embedded casbin model and policy
type AuthzConfig struct {
	ModelPath  string `koanf:"model_path"`
	PolicyPath string `koanf:"policy_path"`
}

type LoggingConfig struct {
	Level           string `koanf:"level"`  // debug, info, warn, error
	Format          string `koanf:"format"` // json, console
	Output          string `koanf:"output"` // stdout, file, both
	FilePath        string `koanf:"file_path"`
	MaxSize         int    `koanf:"max_size"` // MB
	MaxBackups      int    `koanf:"max_backups"`
	MaxAge          int    `koanf:"max_age"` // days
	Compress        bool   `koanf:"compress"`
	EnableCaller    bool   `koanf:"enable_caller"`
	EnableAccessLog bool   `koanf:"enable_access_log"`
}

type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Port    int    `koanf:"port"`
	Path    string `koanf:"path"`
}

type AttributionConfig struct {
	LinkCacheTTL      time.Duration `koanf:"link_cache_ttl"`
	ClickWriteTimeout time.Duration `koanf:"click_write_timeout"`
	SaleWriteTimeout  time.Duration `koanf:"sale_write_timeout"`
}

type DeploymentConfig struct {
	Environment string `koanf:"environment"`
	ServiceName string `koanf:"service_name"`
	Version     string `koanf:"version"`
}

// IsDevelopment reports whether development only surfaces may be exposed
func (d DeploymentConfig) IsDevelopment() bool {
	return d.Environment == "" || d.Environment == "development"
}

// Validate checks every section and reports all problems at once.
// Data service presence is not checked here; see DataServiceConfig.MissingKeys.
func (c *AppConfig) Validate() error {
	var errors []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errors = append(errors, "SERVER_PORT must be between 1 and 65535")
	}
	if c.Server.ReadTimeout <= 0 {
		errors = append(errors, "SERVER_READ_TIMEOUT must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errors = append(errors, "SERVER_WRITE_TIMEOUT must be positive")
	}
	if c.Server.IdleTimeout <= 0 {
		errors = append(errors, "SERVER_IDLE_TIMEOUT must be positive")
	}

	if !slices.Contains([]string{DriverREST, DriverPostgres}, c.DataService.Driver) {
		errors = append(errors, "DATA_SERVICE_DRIVER must be one of: rest, postgres")
	}
	if c.DataService.Timeout <= 0 {
		errors = append(errors, "DATA_SERVICE_TIMEOUT must be positive")
	}

	if c.Cache.Enabled && c.Cache.RedisURL == "" {
		errors = append(errors, "REDIS_URL is required when cache is enabled")
	}
	if c.Cache.Enabled && c.Attribution.LinkCacheTTL <= 0 {
		errors = append(errors, "ATTRIBUTION_LINK_CACHE_TTL must be positive when cache is enabled")
	}

	if c.JWT.UseRSAKeys && c.JWT.PublicKey == "" {
		errors = append(errors, "JWT_PUBLIC_KEY is required when JWT_USE_RSA_KEYS is true")
	}
	if !c.JWT.UseRSAKeys && c.JWT.SecretKey != "" && len(c.JWT.SecretKey) < 32 {
		errors = append(errors, "JWT_SECRET_KEY must be at least 32 characters long")
	}
	if c.JWT.DefaultRole == "" {
		errors = append(errors, "JWT_DEFAULT_ROLE is required")
	}

	if !slices.Contains([]string{"trace", "debug", "info", "warn", "error"}, c.Logging.Level) {
		errors = append(errors, "LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if !slices.Contains([]string{"json", "console"}, c.Logging.Format) {
		errors = append(errors, "LOG_FORMAT must be one of: json, console")
	}
	if !slices.Contains([]string{"stdout", "file", "both"}, c.Logging.Output) {
		errors = append(errors, "LOG_OUTPUT must be one of: stdout, file, both")
	}
	if c.Logging.Output != "stdout" && c.Logging.FilePath == "" {
		errors = append(errors, "LOG_FILE_PATH is required for file output")
	}

	if c.Metrics.Enabled {
		if c.Metrics.Port <= 0 || c.Metrics.Port > 65535 {
			errors = append(errors, "METRICS_PORT must be between 1 and 65535")
		}
		if c.Metrics.Port == c.Server.Port {
			errors = append(errors, "METRICS_PORT must differ from SERVER_PORT")
		}
	}

	if c.Security.GlobalRateLimit <= 0 {
		errors = append(errors, "GLOBAL_RATE_LIMIT must be positive")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errors, "; "))
	}
	return nil
}
