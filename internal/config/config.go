package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/odo-atelier/budget-api/internal/secrets"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	ApiKey    ApiKeyConfig
	Storage   StorageConfig
	Secrets   SecretsConfig
	Logging   LoggingConfig
	Server    ServerConfig
	CORS      CORSConfig
	Security  SecurityConfig
	RateLimit RateLimitConfig
	Metrics   MetricsConfig
	Jobs      JobsConfig
	Workspace WorkspaceConfig
}

type AppConfig struct {
	Name        string
	Environment string
	Port        int
}

type DatabaseConfig struct {
	// Driver is "postgres" or "sqlite"
	Driver          string
	SQLitePath      string
	AutoMigrate     bool
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
}

// AuthConfig holds the settings used to validate access tokens issued by the auth provider
type AuthConfig struct {
	// JWTSecret is the shared HS256 signing secret
	JWTSecret string
	Issuer    string
	Audience  string
}

type ApiKeyConfig struct {
	SecretName string
	Value      string // Loaded from secrets or environment
}

type StorageConfig struct {
	Mode                  string
	LocalBasePath         string
	CloudConnectionString string
	CloudContainer        string
	MaxObjectSizeMB       int64
}

type SecretsConfig struct {
	// Source determines where secrets are loaded from: "environment", "vault", or "auto"
	// "auto" uses environment in development, vault in staging/production
	Source       string
	KeyVaultName string
	CacheEnabled bool
	CacheTTL     int // seconds
}

type LoggingConfig struct {
	Level  string
	Format string
	// File enables a rotating log file next to stdout when set
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

type ServerConfig struct {
	ReadTimeout    int
	WriteTimeout   int
	RequestTimeout int
	EnableSwagger  bool
}

// CORSConfig lists what browsers may send. An empty AllowedOrigins allows
// every origin in development and none elsewhere; "*" allows every origin.
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int // seconds a preflight may be cached
}

// SecurityConfig holds the response security headers. Empty strings disable a header.
type SecurityConfig struct {
	EnableHSTS            bool
	HSTSMaxAge            int
	HSTSIncludeSubdomains bool
	HSTSPreload           bool
	ContentSecurityPolicy string
	FrameOptions          string
	ContentTypeNosniff    bool
	XSSProtection         string
	ReferrerPolicy        string
	PermissionsPolicy     string
}

// RateLimitConfig sets per-minute budgets: anonymous callers per IP,
// signed-in callers per user, and file exports per user on top of both.
type RateLimitConfig struct {
	Enabled               bool
	RequestsPerMinute     int
	RequestsPerMinuteAuth int
	ExportsPerMinute      int
	WhitelistIPs          []string
	WhitelistPaths        []string
}

// MetricsConfig controls the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool
	Path    string
}

// JobsConfig holds cron schedules for background jobs (with seconds field)
type JobsConfig struct {
	Enabled              bool
	ExportArchiveSpec    string
	ExportArchiveTimeout int
	CleanupSpec          string
	CleanupTimeout       int
	// NotificationRetentionHours is how long read notifications are kept
	NotificationRetentionHours int
}

// WorkspaceConfig controls the per-user scratch budgets
type WorkspaceConfig struct {
	Name       string
	SeedSample bool
}

// ConnectionString builds PostgreSQL connection string
func (d *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// ReadTimeoutDuration returns read timeout as duration
func (s *ServerConfig) ReadTimeoutDuration() time.Duration {
	return time.Duration(s.ReadTimeout) * time.Second
}

// WriteTimeoutDuration returns write timeout as duration
func (s *ServerConfig) WriteTimeoutDuration() time.Duration {
	return time.Duration(s.WriteTimeout) * time.Second
}

// RequestTimeoutDuration returns request timeout as duration
func (s *ServerConfig) RequestTimeoutDuration() time.Duration {
	return time.Duration(s.RequestTimeout) * time.Second
}

// ConnMaxLifetimeDuration returns connection max lifetime as duration
func (d *DatabaseConfig) ConnMaxLifetimeDuration() time.Duration {
	return time.Duration(d.ConnMaxLifetime) * time.Second
}

// ExportArchiveTimeoutDuration returns the export archive job timeout as duration
func (j *JobsConfig) ExportArchiveTimeoutDuration() time.Duration {
	return time.Duration(j.ExportArchiveTimeout) * time.Second
}

// CleanupTimeoutDuration returns the cleanup job timeout as duration
func (j *JobsConfig) CleanupTimeoutDuration() time.Duration {
	return time.Duration(j.CleanupTimeout) * time.Second
}

// NotificationRetention returns how long read notifications are kept
func (j *JobsConfig) NotificationRetention() time.Duration {
	return time.Duration(j.NotificationRetentionHours) * time.Hour
}

// envAliases lets the variables shared with the auth provider and the
// deployment tooling fill config keys under their own names.
var envAliases = map[string][]string{
	"apiKey.value":           {"APIKEY_VALUE", "ADMIN_API_KEY"},
	"auth.jwtSecret":         {"AUTH_JWTSECRET", "SUPABASE_JWT_SECRET"},
	"auth.issuer":            {"AUTH_ISSUER", "SUPABASE_JWT_ISSUER"},
	"secrets.keyVaultName":   {"SECRETS_KEYVAULTNAME", "AZURE_KEY_VAULT_NAME"},
	"database.name":          {"DATABASE_NAME", "DEFAULT_DATABASE"},
	"database.sslMode":       {"DATABASE_SSLMODE"},
	"storage.cloudContainer": {"STORAGE_CLOUDCONTAINER", "AZURE_STORAGE_CONTAINER"},
}

// Load reads defaults, then config.json from . or ./config, then the
// environment (a .env file is loaded first when present). Vault secrets are
// not resolved; see LoadWithSecrets.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, envs := range envAliases {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// UseKeyVault reports whether secrets come from Azure Key Vault: only when
// USE_AZURE_KEY_VAULT=true and the app runs in staging or production.
func UseKeyVault(environment string) bool {
	if !strings.EqualFold(os.Getenv("USE_AZURE_KEY_VAULT"), "true") {
		return false
	}
	return environment == "staging" || environment == "production"
}

// LoadWithSecrets is Load followed by resolving SecretBindings from Key Vault
// when UseKeyVault allows it. Environment variables still win over the vault.
func LoadWithSecrets(ctx context.Context, logger *zap.Logger) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	if !UseKeyVault(cfg.App.Environment) {
		logger.Info("secrets read from environment", zap.String("environment", cfg.App.Environment))
		return cfg, nil
	}
	if cfg.Secrets.KeyVaultName == "" {
		return nil, fmt.Errorf("AZURE_KEY_VAULT_NAME is required when USE_AZURE_KEY_VAULT=true")
	}

	provider, err := secrets.NewProvider(&secrets.ProviderConfig{
		Source:       secrets.SourceVault,
		VaultName:    cfg.Secrets.KeyVaultName,
		Environment:  cfg.App.Environment,
		CacheEnabled: cfg.Secrets.CacheEnabled,
		CacheTTL:     time.Duration(cfg.Secrets.CacheTTL) * time.Second,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize key vault: %w", err)
	}

	applied, err := provider.Apply(ctx, SecretBindings(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to load secrets from vault: %w", err)
	}
	logger.Info("secrets loaded from key vault",
		zap.String("vault", cfg.Secrets.KeyVaultName),
		zap.Int("applied", applied),
	)
	return cfg, nil
}

// SecretBindings lists the vault secrets, with their environment overrides, that feed cfg
func SecretBindings(cfg *Config) []secrets.Binding {
	return []secrets.Binding{
		{Secret: "POSTGRES-MAIN-HOST", Env: "DATABASE_HOST", Target: &cfg.Database.Host},
		{Secret: "POSTGRES-MAIN-USER", Env: "DATABASE_USER", Target: &cfg.Database.User},
		{Secret: "POSTGRES-MAIN-PASSWORD", Env: "DATABASE_PASSWORD", Target: &cfg.Database.Password},
		{Secret: "supabase-jwt-secret", Env: "SUPABASE_JWT_SECRET", Target: &cfg.Auth.JWTSecret},
		{Secret: "admin-api-key", Env: "ADMIN_API_KEY", Target: &cfg.ApiKey.Value},
		{Secret: "storage-connection-string", Env: "STORAGE_CLOUDCONNECTIONSTRING", Target: &cfg.Storage.CloudConnectionString},
	}
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "Odo Budget API")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.port", 8080)

	// Database defaults
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.sqlitePath", "./odo.db")
	v.SetDefault("database.autoMigrate", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "odo_budget")
	v.SetDefault("database.user", "odo_user")
	v.SetDefault("database.password", "odo_password")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.maxOpenConns", 25)
	v.SetDefault("database.maxIdleConns", 5)
	v.SetDefault("database.connMaxLifetime", 300)

	// Secrets defaults
	v.SetDefault("secrets.source", "auto")
	v.SetDefault("secrets.cacheEnabled", true)
	v.SetDefault("secrets.cacheTTL", 300) // 5 minutes

	// Auth defaults
	v.SetDefault("auth.audience", "authenticated")

	// Storage defaults
	v.SetDefault("storage.mode", "local")
	v.SetDefault("storage.localBasePath", "./storage")
	v.SetDefault("storage.cloudContainer", "budget-exports")
	v.SetDefault("storage.maxObjectSizeMB", 50)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.maxSizeMB", 100)
	v.SetDefault("logging.maxBackups", 5)
	v.SetDefault("logging.maxAgeDays", 28)

	// Server defaults
	v.SetDefault("server.readTimeout", 30)
	v.SetDefault("server.writeTimeout", 30)
	v.SetDefault("server.requestTimeout", 60)
	v.SetDefault("server.enableSwagger", true)

	// CORS defaults - restrictive by default
	// In development, you may want to override with specific origins
	v.SetDefault("cors.allowedOrigins", []string{})
	v.SetDefault("cors.allowedMethods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowedHeaders", []string{"Accept", "Authorization", "Content-Type", "X-API-Key", "X-Request-ID"})
	v.SetDefault("cors.exposedHeaders", []string{"Content-Disposition", "Location", "X-Request-ID"})
	v.SetDefault("cors.allowCredentials", true)
	v.SetDefault("cors.maxAge", 300) // 5 minutes

	// Security header defaults - secure by default
	v.SetDefault("security.enableHSTS", false)    // Disabled by default, enable in production with HTTPS
	v.SetDefault("security.hstsMaxAge", 31536000) // 1 year
	v.SetDefault("security.hstsIncludeSubdomains", true)
	v.SetDefault("security.hstsPreload", false)
	v.SetDefault("security.contentSecurityPolicy", "default-src 'self'")
	v.SetDefault("security.frameOptions", "DENY")
	v.SetDefault("security.contentTypeNosniff", true)
	v.SetDefault("security.xssProtection", "1; mode=block")
	v.SetDefault("security.referrerPolicy", "strict-origin-when-cross-origin")
	v.SetDefault("security.permissionsPolicy", "geolocation=(), microphone=(), camera=()")

	// Rate limiting defaults
	v.SetDefault("rateLimit.enabled", true)
	v.SetDefault("rateLimit.requestsPerMinute", 60)      // 60 requests per minute for unauthenticated
	v.SetDefault("rateLimit.requestsPerMinuteAuth", 120) // 120 requests per minute for authenticated users
	v.SetDefault("rateLimit.exportsPerMinute", 10)       // per user, for downloads and archives
	v.SetDefault("rateLimit.whitelistIPs", []string{"127.0.0.1", "::1"})
	v.SetDefault("rateLimit.whitelistPaths", []string{"/health", "/health/db", "/health/ready", "/metrics"})

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	// Job defaults
	v.SetDefault("jobs.enabled", true)
	v.SetDefault("jobs.exportArchiveSpec", "0 0 3 * * *") // nightly at 03:00
	v.SetDefault("jobs.exportArchiveTimeout", 600)
	v.SetDefault("jobs.cleanupSpec", "0 0 * * * *") // hourly
	v.SetDefault("jobs.cleanupTimeout", 60)
	v.SetDefault("jobs.notificationRetentionHours", 720)

	// Scratch workspace defaults
	v.SetDefault("workspace.name", "Orçamento Odò")
	v.SetDefault("workspace.seedSample", true)
}
