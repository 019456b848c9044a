package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/dotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar overrides the config file location
const ConfigPathEnvVar = "CONFIG_PATH"

// EnvFileEnvVar overrides the dotenv file location, ".env" by default
const EnvFileEnvVar = "ENV_FILE"

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/affiliate/config.yaml",
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			BodyLimit:       4 * 1024 * 1024,
			ProxyHeader:     "X-Forwarded-For",
		},
		DataService: DataServiceConfig{
			Driver:             DriverREST,
			Timeout:            5 * time.Second,
			MaxOpenConns:       25,
			MaxIdleConns:       10,
			ConnMaxLifetime:    30 * time.Minute,
			SlowQueryTime:      200 * time.Millisecond,
			BreakerMaxFailures: 5,
			BreakerOpenTimeout: 30 * time.Second,
		},
		Cache: CacheConfig{
			RedisPrefix:         "affiliate:",
			HealthCheckInterval: 30 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins:  []string{"*"},
			AllowedMethods:  []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
			CORSMaxAge:      86400,
			GlobalRateLimit: 300,
			RateLimitWindow: time.Minute,
			HSTSMaxAge:      31536000,
			CSPPolicy:       "default-src 'self'",
			XFrameOptions:   "DENY",
			ReferrerPolicy:  "no-referrer-when-downgrade",
		},
		JWT: JWTConfig{
			AccessTokenTTL: time.Hour,
			Issuer:         "affiliate",
			Audience:       "authenticated",
			DefaultRole:    "affiliate",
		},
		Logging: LoggingConfig{
			Level:           "info",
			Format:          "json",
			Output:          "stdout",
			MaxSize:         100,
			MaxBackups:      5,
			MaxAge:          30,
			Compress:        true,
			EnableAccessLog: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Port:    9090,
			Path:    "/metrics",
		},
		Attribution: AttributionConfig{
			LinkCacheTTL:      time.Minute,
			ClickWriteTimeout: 3 * time.Second,
			SaleWriteTimeout:  5 * time.Second,
		},
		Deployment: DeploymentConfig{
			Environment: "development",
			ServiceName: "affiliate",
			Version:     "1.0.0",
		},
	}
}

// Load reads configuration from defaults, an optional YAML file, an optional
// .env file and the environment, in increasing priority, and validates the result.
func Load() (*AppConfig, error) {
	envFile := envFilePath()
	dotEnv, err := readDotEnv(envFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}
	lookup := envLookup(dotEnv)

	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(lookup); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if dotEnv != nil {
		if err := k.Load(file.Provider(envFile), dotenv.ParserEnv("", ".", envTransformFunc)); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := applyEnvAliases(k, lookup); err != nil {
		return nil, err
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &AppConfig{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func envFilePath() string {
	if p := strings.TrimSpace(os.Getenv(EnvFileEnvVar)); p != "" {
		return p
	}
	return ".env"
}

// readDotEnv returns the raw variables of a dotenv file, nil when it is absent
func readDotEnv(path string) (map[string]string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	raw, err := file.Provider(path).ReadBytes()
	if err != nil {
		return nil, err
	}
	parsed, err := dotenv.Parser().Unmarshal(raw)
	if err != nil {
		return nil, err
	}
	vars := make(map[string]string, len(parsed))
	for key, value := range parsed {
		vars[key] = fmt.Sprint(value)
	}
	return vars, nil
}

// envLookup resolves a variable from the process environment first and the
// dotenv file second
type envLookup map[string]string

func (l envLookup) get(name string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return strings.TrimSpace(l[name])
}

func findConfigFile(lookup envLookup) string {
	if p := lookup.get(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

var envMappings = map[string]string{
	// Server
	"server_host":             "server.host",
	"server_port":             "server.port",
	"server_read_timeout":     "server.read_timeout",
	"server_write_timeout":    "server.write_timeout",
	"server_idle_timeout":     "server.idle_timeout",
	"server_shutdown_timeout": "server.shutdown_timeout",
	"server_body_limit":       "server.body_limit",
	"trusted_proxies":         "server.trusted_proxies",
	"proxy_header":            "server.proxy_header",

	// Data service
	"data_service_driver":               "data_service.driver",
	"data_service_timeout":              "data_service.timeout",
	"data_service_max_open_conns":       "data_service.max_open_conns",
	"data_service_max_idle_conns":       "data_service.max_idle_conns",
	"data_service_conn_max_lifetime":    "data_service.conn_max_lifetime",
	"data_service_slow_query_time":      "data_service.slow_query_time",
	"data_service_breaker_max_failures": "data_service.breaker_max_failures",
	"data_service_breaker_open_timeout": "data_service.breaker_open_timeout",

	// Cache
	"cache_enabled":               "cache.enabled",
	"redis_url":                   "cache.redis_url",
	"redis_db":                    "cache.redis_db",
	"redis_prefix":                "cache.redis_prefix",
	"cache_health_check_interval": "cache.health_check_interval",

	// Security
	"cors_allowed_origins":   "security.allowed_origins",
	"cors_allowed_methods":   "security.allowed_methods",
	"cors_allowed_headers":   "security.allowed_headers",
	"cors_allow_credentials": "security.allow_credentials",
	"cors_max_age":           "security.cors_max_age",
	"global_rate_limit":      "security.global_rate_limit",
	"rate_limit_window":      "security.rate_limit_window",
	"hsts_max_age":           "security.hsts_max_age",
	"csp_policy":             "security.csp_policy",
	"x_frame_options":        "security.x_frame_options",
	"referrer_policy":        "security.referrer_policy",

	// JWT
	"jwt_secret_key":       "jwt.secret_key",
	"jwt_private_key":      "jwt.private_key",
	"jwt_public_key":       "jwt.public_key",
	"jwt_use_rsa_keys":     "jwt.use_rsa_keys",
	"jwt_access_token_ttl": "jwt.access_token_ttl",
	"jwt_issuer":           "jwt.issuer",
	"jwt_audience":         "jwt.audience",
	"jwt_default_role":     "jwt.default_role",

	// Authz
	"authz_model_path":  "authz.model_path",
	"authz_policy_path": "authz.policy_path",

	// Logging
	"log_level":             "logging.level",
	"log_format":            "logging.format",
	"log_output":            "logging.output",
	"log_file_path":         "logging.file_path",
	"log_max_size":          "logging.max_size",
	"log_max_backups":       "logging.max_backups",
	"log_max_age":           "logging.max_age",
	"log_compress":          "logging.compress",
	"log_enable_caller":     "logging.enable_caller",
	"log_enable_access_log": "logging.enable_access_log",

	// Metrics
	"metrics_enabled": "metrics.enabled",
	"metrics_port":    "metrics.port",
	"metrics_path":    "metrics.path",

	// Attribution
	"attribution_link_cache_ttl":      "attribution.link_cache_ttl",
	"attribution_click_write_timeout": "attribution.click_write_timeout",
	"attribution_sale_write_timeout":  "attribution.sale_write_timeout",

	// Deployment
	"environment":  "deployment.environment",
	"service_name": "deployment.service_name",
	"app_version":  "deployment.version",
}

// envAliases lists several names for one setting, highest priority first.
// They are resolved outside envTransformFunc because the env provider visits
// variables in no particular order.
var envAliases = []struct {
	path  string
	names []string
}{
	{"data_service.url", []string{"DATA_SERVICE_URL", "SUPABASE_URL", "VITE_SUPABASE_URL"}},
	{"data_service.service_role_key", []string{"DATA_SERVICE_KEY", "SUPABASE_SERVICE_ROLE_KEY", "VITE_SUPABASE_SERVICE_ROLE_KEY"}},
}

func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}

func applyEnvAliases(k *koanf.Koanf, lookup envLookup) error {
	for _, alias := range envAliases {
		for _, name := range alias.names {
			v := lookup.get(name)
			if v == "" {
				continue
			}
			if err := k.Set(alias.path, v); err != nil {
				return fmt.Errorf("failed to set %s from %s: %w", alias.path, name, err)
			}
			break
		}
	}
	return nil
}

var sliceConfigPaths = []string{
	"server.trusted_proxies",
	"security.allowed_origins",
	"security.allowed_methods",
	"security.allowed_headers",
}

// processSliceFields splits comma separated env values into string slices
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		s, ok := k.Get(path).(string)
		if !ok || s == "" {
			continue
		}
		parts := strings.Split(s, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}
