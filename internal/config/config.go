package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all configuration for our application
type Config struct {
	Server    ServerConfig    `mapstructure:",squash"`
	Database  DatabaseConfig  `mapstructure:",squash"`
	Redis     RedisConfig     `mapstructure:",squash"`
	Scheduler SchedulerConfig `mapstructure:",squash"`
	Logging   LoggingConfig   `mapstructure:",squash"`
	Business  BusinessConfig  `mapstructure:",squash"`
	S3        S3Config        `mapstructure:",squash"`
	Health    HealthConfig    `mapstructure:",squash"`
}

type ServerConfig struct {
	Port         string `mapstructure:"SERVER_PORT"`
	Host         string `mapstructure:"SERVER_HOST"`
	Env          string `mapstructure:"ENV"`
	ReadTimeout  string `mapstructure:"SERVER_READ_TIMEOUT"`
	WriteTimeout string `mapstructure:"SERVER_WRITE_TIMEOUT"`
}

type DatabaseConfig struct {
	URL          string `mapstructure:"DATABASE_URL"`
	Host         string `mapstructure:"DATABASE_HOST"`
	Port         string `mapstructure:"DATABASE_PORT"`
	Name         string `mapstructure:"DATABASE_NAME"`
	User         string `mapstructure:"DATABASE_USER"`
	Password     string `mapstructure:"DATABASE_PASSWORD"`
	SSLMode      string `mapstructure:"DATABASE_SSLMODE"`
	MaxOpenConns int    `mapstructure:"DATABASE_MAX_OPEN_CONNS"`
	MaxIdleConns int    `mapstructure:"DATABASE_MAX_IDLE_CONNS"`
}

type RedisConfig struct {
	Host     string `mapstructure:"REDIS_HOST"`
	Port     string `mapstructure:"REDIS_PORT"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
	// StatusTTL bounds how long a cached status snapshot is served
	StatusTTL string `mapstructure:"REDIS_STATUS_TTL"`
}

type SchedulerConfig struct {
	SweepSpec  string `mapstructure:"SCHEDULER_SWEEP_SPEC"`
	ReportSpec string `mapstructure:"SCHEDULER_REPORT_SPEC"`
	Timezone   string `mapstructure:"SCHEDULER_TIMEZONE"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"LOG_LEVEL"`
	Format string `mapstructure:"LOG_FORMAT"`
}

type BusinessConfig struct {
	DefaultLateInterestPercent string `mapstructure:"DEFAULT_LATE_INTEREST_PERCENT"`
	DueDayPolicy               string `mapstructure:"DUE_DAY_POLICY"`
}

type S3Config struct {
	Endpoint   string `mapstructure:"S3_ENDPOINT"`
	AccessKey  string `mapstructure:"S3_ACCESS_KEY"`
	SecretKey  string `mapstructure:"S3_SECRET_KEY"`
	Bucket     string `mapstructure:"S3_BUCKET"`
	Region     string `mapstructure:"S3_REGION"`
	UseSSL     bool   `mapstructure:"S3_USE_SSL"`
	Prefix     string `mapstructure:"S3_PREFIX"`
	PresignTTL string `mapstructure:"S3_PRESIGN_TTL"`
	// LocalDir receives reports when no S3 endpoint is configured
	LocalDir string `mapstructure:"REPORTS_LOCAL_DIR"`
}

type HealthConfig struct {
	Timeout string `mapstructure:"HEALTH_CHECK_TIMEOUT"`
}

var keys = []string{
	"SERVER_PORT", "SERVER_HOST", "ENV", "SERVER_READ_TIMEOUT", "SERVER_WRITE_TIMEOUT",
	"DATABASE_URL", "DATABASE_HOST", "DATABASE_PORT", "DATABASE_NAME", "DATABASE_USER", "DATABASE_PASSWORD",
	"DATABASE_SSLMODE", "DATABASE_MAX_OPEN_CONNS", "DATABASE_MAX_IDLE_CONNS",
	"REDIS_HOST", "REDIS_PORT", "REDIS_PASSWORD", "REDIS_DB", "REDIS_STATUS_TTL",
	"SCHEDULER_SWEEP_SPEC", "SCHEDULER_REPORT_SPEC", "SCHEDULER_TIMEZONE",
	"LOG_LEVEL", "LOG_FORMAT",
	"DEFAULT_LATE_INTEREST_PERCENT", "DUE_DAY_POLICY",
	"S3_ENDPOINT", "S3_ACCESS_KEY", "S3_SECRET_KEY", "S3_BUCKET", "S3_REGION", "S3_USE_SSL", "S3_PREFIX", "S3_PRESIGN_TTL",
	"REPORTS_LOCAL_DIR",
	"HEALTH_CHECK_TIMEOUT",
}

// Load reads configuration from environment variables and files
func Load() (*Config, error) {
	// Values from a local .env become real environment variables; existing ones win
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	// Read from environment variables
	v.AutomaticEnv()
	for _, key := range keys {
		_ = v.BindEnv(key)
	}

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./deployments")

	// Don't fail if .env file doesn't exist
	_ = v.ReadInConfig()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("ENV", "development")
	v.SetDefault("SERVER_READ_TIMEOUT", "15s")
	v.SetDefault("SERVER_WRITE_TIMEOUT", "15s")
	v.SetDefault("DATABASE_HOST", "localhost")
	v.SetDefault("DATABASE_PORT", "5432")
	v.SetDefault("DATABASE_NAME", "auction_billing")
	v.SetDefault("DATABASE_USER", "postgres")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("DATABASE_MAX_OPEN_CONNS", 10)
	v.SetDefault("DATABASE_MAX_IDLE_CONNS", 5)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_STATUS_TTL", "10m")
	v.SetDefault("SCHEDULER_SWEEP_SPEC", "5 0 * * *")
	v.SetDefault("SCHEDULER_REPORT_SPEC", "0 6 * * 1")
	v.SetDefault("SCHEDULER_TIMEZONE", "America/Sao_Paulo")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("DEFAULT_LATE_INTEREST_PERCENT", "2")
	v.SetDefault("DUE_DAY_POLICY", "overflow")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("S3_BUCKET", "auction-reports")
	v.SetDefault("S3_PREFIX", "reports/obligations")
	v.SetDefault("S3_PRESIGN_TTL", "24h")
	v.SetDefault("REPORTS_LOCAL_DIR", "./reports")
	v.SetDefault("HEALTH_CHECK_TIMEOUT", "5s")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.Database.URL == "" && (c.Database.Host == "" || c.Database.Name == "") {
		return fmt.Errorf("DATABASE_URL or DATABASE_HOST and DATABASE_NAME are required")
	}

	rate, err := decimal.NewFromString(c.Business.DefaultLateInterestPercent)
	if err != nil {
		return fmt.Errorf("DEFAULT_LATE_INTEREST_PERCENT must be a valid decimal: %w", err)
	}
	if rate.IsNegative() {
		return fmt.Errorf("DEFAULT_LATE_INTEREST_PERCENT must not be negative")
	}

	switch strings.ToLower(c.Business.DueDayPolicy) {
	case "", "overflow", "clamp":
	default:
		return fmt.Errorf("DUE_DAY_POLICY must be overflow or clamp, got %q", c.Business.DueDayPolicy)
	}

	durations := map[string]string{
		"SERVER_READ_TIMEOUT":  c.Server.ReadTimeout,
		"SERVER_WRITE_TIMEOUT": c.Server.WriteTimeout,
		"REDIS_STATUS_TTL":     c.Redis.StatusTTL,
		"S3_PRESIGN_TTL":       c.S3.PresignTTL,
		"HEALTH_CHECK_TIMEOUT": c.Health.Timeout,
	}
	for key, value := range durations {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("%s must be a valid duration: %w", key, err)
		}
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(c.Scheduler.SweepSpec); err != nil {
		return fmt.Errorf("SCHEDULER_SWEEP_SPEC must be a valid cron spec: %w", err)
	}
	if _, err := parser.Parse(c.Scheduler.ReportSpec); err != nil {
		return fmt.Errorf("SCHEDULER_REPORT_SPEC must be a valid cron spec: %w", err)
	}

	if _, err := time.LoadLocation(c.Scheduler.Timezone); err != nil {
		return fmt.Errorf("SCHEDULER_TIMEZONE must be a valid location: %w", err)
	}

	return nil
}

// DSN returns the postgres connection string, preferring DATABASE_URL when set
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	dsn := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   d.Host + ":" + d.Port,
		Path:   d.Name,
	}
	query := dsn.Query()
	query.Set("sslmode", d.SSLMode)
	dsn.RawQuery = query.Encode()
	return dsn.String()
}

// Addr returns host:port for the redis client
func (r RedisConfig) Addr() string {
	return r.Host + ":" + r.Port
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "prod"
}

// GetDefaultLateInterestPercent returns the late interest applied when a request omits one
func (c *Config) GetDefaultLateInterestPercent() decimal.Decimal {
	rate, _ := decimal.NewFromString(c.Business.DefaultLateInterestPercent)
	return rate
}

// GetReadTimeout returns the server read timeout as duration
func (c *Config) GetReadTimeout() time.Duration {
	return mustDuration(c.Server.ReadTimeout)
}

// GetWriteTimeout returns the server write timeout as duration
func (c *Config) GetWriteTimeout() time.Duration {
	return mustDuration(c.Server.WriteTimeout)
}

// GetStatusTTL returns how long status snapshots stay cached
func (c *Config) GetStatusTTL() time.Duration {
	return mustDuration(c.Redis.StatusTTL)
}

// GetPresignTTL returns the lifetime of presigned report URLs
func (c *Config) GetPresignTTL() time.Duration {
	return mustDuration(c.S3.PresignTTL)
}

// GetHealthTimeout returns the health check timeout as duration
func (c *Config) GetHealthTimeout() time.Duration {
	return mustDuration(c.Health.Timeout)
}

// GetLocation returns the scheduler timezone, UTC if it cannot be loaded
func (c *Config) GetLocation() *time.Location {
	loc, err := time.LoadLocation(c.Scheduler.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// S3Enabled reports whether report uploads are configured
func (c *Config) S3Enabled() bool {
	return c.S3.Endpoint != "" && c.S3.AccessKey != "" && c.S3.SecretKey != ""
}

func mustDuration(value string) time.Duration {
	duration, _ := time.ParseDuration(value)
	return duration
}
