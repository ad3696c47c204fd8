package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

func init() {
	// Load .env file if it exists (silent fail if not)
	_ = godotenv.Load()
}

// Config holds all application configuration loaded from environment
// variables. It is built once at startup and passed explicitly to every
// component; nothing reads the environment after this point.
type Config struct {
	Server     ServerConfig
	App        AppConfig
	Storage    StorageConfig
	Cache      CacheConfig
	ServiceNow ServiceNowConfig
	AuditDB    AuditDBConfig
	Lookup     LookupConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name        string `envconfig:"APP_NAME" default:"marketplace-api"`
	Environment string `envconfig:"APP_ENV" default:"development"`
	Debug       bool   `envconfig:"APP_DEBUG" default:"false"`
	Version     string `envconfig:"APP_VERSION" default:"1.0.0"`
}

// StorageConfig holds the flat-file store and log stream locations.
type StorageConfig struct {
	DataDir string `envconfig:"DATA_DIR" default:"./data"`
	LogsDir string `envconfig:"LOGS_DIR" default:"./logs"`
}

// CacheConfig holds cache settings for the postal-lookup proxy.
type CacheConfig struct {
	Type string        `envconfig:"CACHE_TYPE" default:"memory"` // memory or redis
	TTL  time.Duration `envconfig:"CACHE_TTL" default:"5m"`

	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
}

// ServiceNowConfig holds the external escalation sink settings. The sink is
// considered configured only when URL, User and Pass are all present.
type ServiceNowConfig struct {
	URL     string        `envconfig:"SERVICENOW_URL" default:""`
	User    string        `envconfig:"SERVICENOW_USER" default:""`
	Pass    string        `envconfig:"SERVICENOW_PASS" default:""`
	Table   string        `envconfig:"SERVICENOW_TABLE" default:"incident"`
	Retries int           `envconfig:"SERVICENOW_RETRIES" default:"3"`
	Backoff time.Duration `envconfig:"SERVICENOW_BACKOFF" default:"1s"`
	Timeout time.Duration `envconfig:"SERVICENOW_TIMEOUT" default:"10s"`
}

// AuditDBConfig holds the optional SQLite audit-log archive settings.
// An empty path disables the archive.
type AuditDBConfig struct {
	Path string `envconfig:"AUDIT_DB_PATH" default:""`
}

// LookupConfig holds settings for the postal pincode proxy.
type LookupConfig struct {
	BaseURL string        `envconfig:"PINCODE_BASE_URL" default:"https://api.postalpincode.in"`
	Timeout time.Duration `envconfig:"PINCODE_TIMEOUT" default:"10s"`
	Enabled bool          `envconfig:"PINCODE_ENABLED" default:"true"`
}

// Configured reports whether all required sink connection parameters are set.
func (s *ServiceNowConfig) Configured() bool {
	return s.URL != "" && s.User != "" && s.Pass != ""
}

// TableURL returns the full table API endpoint for the sink.
func (s *ServiceNowConfig) TableURL() string {
	return fmt.Sprintf("%s/api/now/table/%s", strings.TrimRight(s.URL, "/"), s.Table)
}

// Address returns the server address in host:port format.
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// RedisAddress returns the Redis address in host:port format.
func (c *CacheConfig) RedisAddress() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// IsDevelopment returns true if running in development mode.
func (a *AppConfig) IsDevelopment() bool {
	return a.Environment == "development"
}

// IsProduction returns true if running in production mode.
func (a *AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads configuration or panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
