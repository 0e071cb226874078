package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr   string
	CORSOrigins  string // Comma-separated allowed origins
	RateLimitMax int    // Requests per minute per IP, 0 disables the limiter

	// TLS (optional)
	TLSEnabled  bool
	TLSCertFile string
	TLSKeyFile  string
	TLSCAFile   string // Client CA for mTLS (optional)

	// Storage (both optional)
	DatabaseURL string // Enables lookup statistics when set
	RedisURL    string // Switches the response cache and rate limiter to Redis when set

	// Upstream sources
	AviationStackKey    string // env: AVIATIONSTACK_API_KEY, never logged
	AviationStackURL    string
	WikipediaURL        string
	AirfleetsURL        string
	PlanespottersURL    string
	AirlineUpdateURL    string
	EnableAirlineUpdate bool
	SourceTimeout       time.Duration
	UserAgent           string

	// Cache
	CacheTTL           time.Duration
	CacheCapacity      int
	CacheSweepInterval time.Duration

	// Jobs
	UpstreamCheckInterval time.Duration // 0 disables the upstream checker

	// Logging
	LogLevel  string
	LogFormat string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	addr := getEnv("SERVER_ADDR", ":3000")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("SERVER_ADDR") == "" {
		addr = ":" + port
	}

	return &Config{
		Env:          getEnv("ENV", "development"),
		ServerAddr:   addr,
		CORSOrigins:  getEnv("CORS_ORIGINS", "*"),
		RateLimitMax: getEnvInt("RATE_LIMIT_MAX", 100),

		TLSEnabled:  getEnv("TLS_ENABLED", "") == "true",
		TLSCertFile: getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:  getEnv("TLS_KEY_FILE", ""),
		TLSCAFile:   getEnv("TLS_CA_FILE", ""),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", ""),

		AviationStackKey:    getEnv("AVIATIONSTACK_API_KEY", ""),
		AviationStackURL:    getEnv("AVIATIONSTACK_URL", "http://api.aviationstack.com/v1"),
		WikipediaURL:        getEnv("WIKIPEDIA_URL", "https://en.wikipedia.org"),
		AirfleetsURL:        getEnv("AIRFLEETS_URL", "https://www.airfleets.net"),
		PlanespottersURL:    getEnv("PLANESPOTTERS_URL", "https://api.planespotters.net"),
		AirlineUpdateURL:    getEnv("AIRLINEUPDATE_URL", "https://www.airlineupdate.com"),
		EnableAirlineUpdate: getEnv("ENABLE_AIRLINEUPDATE", "") != "",
		SourceTimeout:       getEnvDuration("SOURCE_TIMEOUT", 8*time.Second),
		UserAgent:           getEnv("USER_AGENT", "AirlineLookup/1.0 (+https://github.com/airlinelookup)"),

		CacheTTL:           getEnvDuration("CACHE_TTL", time.Hour),
		CacheCapacity:      getEnvInt("CACHE_CAPACITY", 1000),
		CacheSweepInterval: getEnvDuration("CACHE_SWEEP_INTERVAL", 5*time.Minute),

		UpstreamCheckInterval: getEnvDuration("UPSTREAM_CHECK_INTERVAL", 10*time.Minute),

		LogLevel:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "text")),
	}
}

// Validate checks the configuration values that have no safe fallback.
func (c *Config) Validate() error {
	if c.ServerAddr == "" {
		return fmt.Errorf("server address is required")
	}
	if c.TLSEnabled && (c.TLSCertFile == "" || c.TLSKeyFile == "") {
		return fmt.Errorf("TLS_CERT_FILE and TLS_KEY_FILE are required when TLS_ENABLED=true")
	}
	if c.RateLimitMax < 0 {
		return fmt.Errorf("rate limit must not be negative")
	}
	if c.SourceTimeout <= 0 {
		return fmt.Errorf("source timeout must be greater than 0")
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("cache ttl must be greater than 0")
	}
	if c.CacheCapacity <= 0 {
		return fmt.Errorf("cache capacity must be greater than 0")
	}
	if c.CacheSweepInterval <= 0 {
		return fmt.Errorf("cache sweep interval must be greater than 0")
	}
	if c.UpstreamCheckInterval < 0 {
		return fmt.Errorf("upstream check interval must not be negative")
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format: %s (must be text or json)", c.LogFormat)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

// KeyPrefix returns at most the first four characters of the AviationStack
// key, or an empty string when no key is configured.
func (c *Config) KeyPrefix() string {
	if len(c.AviationStackKey) <= 4 {
		return c.AviationStackKey
	}
	return c.AviationStackKey[:4]
}
