package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Document store drivers.
const (
	DriverRedis = "redis"
	DriverMongo = "mongo"
)

// Blob store drivers.
const (
	BlobFS = "fs"
	BlobS3 = "s3"
)

// Config holds the dira API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Redis     RedisConfig     `yaml:"redis"`
	Documents DocumentsConfig `yaml:"documents"`
	Mongo     MongoConfig     `yaml:"mongo"`
	Postgres  PostgresConfig  `yaml:"postgres"`
	Auth      AuthConfig      `yaml:"auth"`
	Search    SearchConfig    `yaml:"search"`
	Storage   StorageConfig   `yaml:"storage"`
	Blob      BlobConfig      `yaml:"blob"`
	Upload    UploadConfig    `yaml:"upload"`
	Events    EventsConfig    `yaml:"events"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string       `yaml:"level"` // debug, info, warn, error (default: determined by env)
	Fluent FluentConfig `yaml:"fluent"`
}

// FluentConfig configures log shipping to fluent-bit / fluentd.
type FluentConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	TagPrefix string `yaml:"tag_prefix"`
}

// AuthConfig holds session token settings.
type AuthConfig struct {
	TokenSecret   string `yaml:"token_secret"`
	TokenTTLHours int    `yaml:"token_ttl_hours"`
	SweepSchedule string `yaml:"sweep_schedule"` // cron spec for expired token cleanup
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int      `yaml:"port"`
	ReadTimeoutSec  int      `yaml:"read_timeout_sec"`
	WriteTimeoutSec int      `yaml:"write_timeout_sec"`
	ShutdownSec     int      `yaml:"shutdown_timeout_sec"`
	CORSOrigins     []string `yaml:"cors_allowed_origins"`
	MaxUploadMB     int      `yaml:"max_upload_mb"`
}

// RedisConfig holds Redis connection settings. Redis is always required:
// it backs the locations cache and upload coordination even when
// listings live in MongoDB.
type RedisConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// DocumentsConfig selects the listing/attachment document store.
type DocumentsConfig struct {
	Driver string `yaml:"driver"` // redis, mongo (default: redis)
}

// MongoConfig holds MongoDB settings, used when documents.driver is mongo.
type MongoConfig struct {
	URL      string `yaml:"url"`
	Database string `yaml:"database"`
}

// PostgresConfig holds user database settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int    `yaml:"max_conns"`
}

// SearchConfig holds search pagination settings.
type SearchConfig struct {
	PageSize int `yaml:"page_size"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	KeyPrefix string `yaml:"key_prefix"`
}

// BlobConfig selects and configures the attachment blob store.
type BlobConfig struct {
	Driver   string `yaml:"driver"` // fs, s3 (default: fs)
	Dir      string `yaml:"dir"`
	Bucket   string `yaml:"bucket"`
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"`
	// Static credentials; when empty the default AWS credential chain is used.
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

// UploadConfig holds attachment upload settings.
type UploadConfig struct {
	MaxFiles          int   `yaml:"max_files"`
	ExclusiveMainFile *bool `yaml:"exclusive_main_file"`
	Parallelism       int   `yaml:"parallelism"`
}

// EventsConfig holds RabbitMQ settings for listing events.
type EventsConfig struct {
	Enabled  bool   `yaml:"enabled"`
	URL      string `yaml:"url"`
	Exchange string `yaml:"exchange"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
// A .env file in the working directory, if present, is loaded first.
func Load(env string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse decodes YAML config data, applying env expansion, defaults and validation.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.HTTP.MaxUploadMB <= 0 {
		c.HTTP.MaxUploadMB = 64
	}
	if c.Redis.ReadinessTimeout <= 0 {
		c.Redis.ReadinessTimeout = 10
	}
	if c.Documents.Driver == "" {
		c.Documents.Driver = DriverRedis
	}
	if c.Mongo.Database == "" {
		c.Mongo.Database = "dira"
	}
	if c.Postgres.MaxConns <= 0 {
		c.Postgres.MaxConns = 10
	}
	if c.Auth.TokenTTLHours <= 0 {
		c.Auth.TokenTTLHours = 6
	}
	if c.Auth.SweepSchedule == "" {
		c.Auth.SweepSchedule = "@hourly"
	}
	if c.Search.PageSize <= 0 {
		c.Search.PageSize = 10
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "dira:"
	}
	if c.Blob.Driver == "" {
		c.Blob.Driver = BlobFS
	}
	if c.Blob.Dir == "" {
		c.Blob.Dir = "./data/files"
	}
	if c.Upload.MaxFiles <= 0 {
		c.Upload.MaxFiles = 11
	}
	if c.Upload.ExclusiveMainFile == nil {
		exclusive := true
		c.Upload.ExclusiveMainFile = &exclusive
	}
	if c.Upload.Parallelism <= 0 {
		c.Upload.Parallelism = 4
	}
	if c.Events.Exchange == "" {
		c.Events.Exchange = "dira.listings"
	}
	if c.Logging.Fluent.Port <= 0 {
		c.Logging.Fluent.Port = 24224
	}
	if c.Logging.Fluent.TagPrefix == "" {
		c.Logging.Fluent.TagPrefix = "dira"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Redis.Addrs) == 0 {
		return fmt.Errorf("redis.addrs is required")
	}
	switch c.Documents.Driver {
	case DriverRedis:
	case DriverMongo:
		if c.Mongo.URL == "" {
			return fmt.Errorf("mongo.url is required when documents.driver is %q", DriverMongo)
		}
	default:
		return fmt.Errorf("documents.driver must be %q or %q, got %q", DriverRedis, DriverMongo, c.Documents.Driver)
	}
	if c.Postgres.DSN == "" {
		return fmt.Errorf("postgres.dsn is required")
	}
	if c.Auth.TokenSecret == "" {
		return fmt.Errorf("auth.token_secret is required")
	}
	if c.Search.PageSize < 5 || c.Search.PageSize > 20 {
		return fmt.Errorf("search.page_size must be between 5 and 20, got %d", c.Search.PageSize)
	}
	switch c.Blob.Driver {
	case BlobFS:
	case BlobS3:
		if c.Blob.Bucket == "" || c.Blob.Region == "" {
			return fmt.Errorf("blob.bucket and blob.region are required for the s3 driver")
		}
	default:
		return fmt.Errorf("blob.driver must be %q or %q, got %q", BlobFS, BlobS3, c.Blob.Driver)
	}
	if c.Events.Enabled && c.Events.URL == "" {
		return fmt.Errorf("events.url is required when events are enabled")
	}
	if c.Logging.Fluent.Enabled && c.Logging.Fluent.Host == "" {
		return fmt.Errorf("logging.fluent.host is required when fluent is enabled")
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
