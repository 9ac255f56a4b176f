package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment variable names
const (
	EnvConfigFile          = "CHAINY_CONFIG_FILE"
	EnvEventsBucketName    = "CHAINY_EVENTS_BUCKET_NAME"
	EnvEnvironment         = "CHAINY_ENVIRONMENT"
	EnvHashSaltParameter   = "CHAINY_HASH_SALT_PARAMETER"
	EnvIPHashSaltParameter = "CHAINY_IP_HASH_SALT_PARAMETER"
	EnvHashSalt            = "CHAINY_HASH_SALT"
	EnvIPHashSalt          = "CHAINY_IP_HASH_SALT"
	EnvMaxInFlight         = "CHAINY_MAX_IN_FLIGHT"
	EnvAWSRegion           = "AWS_REGION"
	EnvLogLevel            = "LOG_LEVEL"
	EnvParameterCacheTTL   = "PARAMETER_CACHE_TTL"
	EnvEnableMetrics       = "ENABLE_METRICS"
	EnvEnableTracing       = "ENABLE_TRACING"
	EnvOTLPEndpoint        = "OTEL_EXPORTER_OTLP_ENDPOINT"
	EnvMetricsAddr         = "METRICS_ADDR"
)

// Config holds all emitter configuration
type Config struct {
	Environment string `yaml:"environment" validate:"required"`

	// Destination
	EventsBucketName string `yaml:"events_bucket_name"`

	// Salt parameters and their fallbacks
	HashSaltParameter   string `yaml:"hash_salt_parameter"`
	IPHashSaltParameter string `yaml:"ip_hash_salt_parameter"`
	HashSalt            string `yaml:"-"`
	IPHashSalt          string `yaml:"-"`

	// AWS configuration
	AWSRegion string `yaml:"aws_region" validate:"required"`

	ParameterCacheTTL time.Duration `yaml:"parameter_cache_ttl" validate:"gt=0"`
	MaxInFlight       int           `yaml:"max_in_flight" validate:"gte=0"`

	// Observability
	LogLevel      string `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`
	EnableMetrics bool   `yaml:"enable_metrics"`
	EnableTracing bool   `yaml:"enable_tracing"`
	OTLPEndpoint  string `yaml:"otlp_endpoint"`
	MetricsAddr   string `yaml:"metrics_addr" validate:"required_if=EnableMetrics true"`

	// LoadedFrom lists the sources applied, lowest priority first
	LoadedFrom []string `yaml:"-"`
}

// Defaults returns the configuration used when no source sets a value
func Defaults() *Config {
	return &Config{
		Environment:       "unknown",
		AWSRegion:         "us-east-1",
		ParameterCacheTTL: 5 * time.Minute,
		OTLPEndpoint:      "localhost:4317",
		MetricsAddr:       ":9090",
		LoadedFrom:        []string{"defaults"},
	}
}

// Load resolves configuration from defaults, the optional YAML file and the
// environment, then validates it
func Load() (*Config, error) {
	cfg := Defaults()

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
		cfg.LoadedFrom = append(cfg.LoadedFrom, path)
	}

	applyEnvironment(cfg)
	cfg.LoadedFrom = append(cfg.LoadedFrom, "environment")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// applyEnvironment overlays environment variables on cfg
func applyEnvironment(cfg *Config) {
	cfg.EventsBucketName = getEnv(EnvEventsBucketName, cfg.EventsBucketName)
	cfg.Environment = getEnv(EnvEnvironment, cfg.Environment)
	cfg.HashSaltParameter = getEnv(EnvHashSaltParameter, cfg.HashSaltParameter)
	cfg.IPHashSaltParameter = getEnv(EnvIPHashSaltParameter, cfg.IPHashSaltParameter)
	cfg.HashSalt = getEnv(EnvHashSalt, cfg.HashSalt)
	cfg.IPHashSalt = getEnv(EnvIPHashSalt, cfg.IPHashSalt)
	cfg.MaxInFlight = getEnvInt(EnvMaxInFlight, cfg.MaxInFlight)
	cfg.AWSRegion = getEnv(EnvAWSRegion, cfg.AWSRegion)
	cfg.LogLevel = strings.ToLower(getEnv(EnvLogLevel, cfg.LogLevel))
	cfg.ParameterCacheTTL = getEnvDuration(EnvParameterCacheTTL, cfg.ParameterCacheTTL)
	cfg.EnableMetrics = getEnvBool(EnvEnableMetrics, cfg.EnableMetrics)
	cfg.EnableTracing = getEnvBool(EnvEnableTracing, cfg.EnableTracing)
	cfg.OTLPEndpoint = getEnv(EnvOTLPEndpoint, cfg.OTLPEndpoint)
	cfg.MetricsAddr = getEnv(EnvMetricsAddr, cfg.MetricsAddr)
}

// HasSaltFallback reports whether both fallback salts are configured
func (c *Config) HasSaltFallback() bool {
	return c.HashSalt != "" && c.IPHashSalt != ""
}

// IsDevelopment checks if running in a development environment
func (c *Config) IsDevelopment() bool {
	switch strings.ToLower(c.Environment) {
	case "dev", "development", "local", "test":
		return true
	default:
		return false
	}
}

// IsProduction checks if running in production
func (c *Config) IsProduction() bool {
	switch strings.ToLower(c.Environment) {
	case "prod", "production":
		return true
	default:
		return false
	}
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration accepts a Go duration ("90s", "5m") or whole seconds
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return defaultValue
}
