package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Batch commit modes for an ingestion batch
const (
	BatchModeRow    = "row"
	BatchModeAtomic = "atomic"
)

// Config holds all configuration for the application
// ⭐ SSOT: every environment variable is read here and nowhere else
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// Upstream provider (Banco Central do Brasil SGS)
	BCB BCBConfig

	// Ingestion
	Ingest IngestConfig

	// HTTP surface
	CORSAllowedOrigins []string

	// Scheduler
	SyncSchedule string

	// Logging
	LogLevel  string
	LogFormat string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool

	TargetRateTTL time.Duration
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL   string
	Table string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// BCBConfig holds the SGS API configuration
type BCBConfig struct {
	BaseURL          string
	SeriesCode       string // daily Selic
	TargetSeriesCode string // Copom target
	Timeout          time.Duration
	RateLimit        int // requests per second
}

// IngestConfig holds batch ingestion settings
type IngestConfig struct {
	BatchMode    string // row, atomic
	MaxBodyBytes int64
}

// Load reads configuration from environment variables
// ⭐ SSOT: the only caller of os.Getenv()
func Load() (*Config, error) {
	// Try multiple paths for .env file
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8000"),
		Env:  getEnv("ENV", "development"),

		// Database
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			Table:           getEnv("DB_TABLE", "selic_series"),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Redis
		Redis: RedisConfig{
			Host:          getEnv("REDIS_HOST", "localhost"),
			Port:          getEnv("REDIS_PORT", "6379"),
			Password:      getEnv("REDIS_PASSWORD", ""),
			DB:            getEnvAsInt("REDIS_DB", 0),
			Enabled:       getEnvAsBool("REDIS_ENABLED", false),
			TargetRateTTL: getEnvAsDuration("TARGET_RATE_CACHE_TTL", "5m"),
		},

		BCB: BCBConfig{
			BaseURL:          strings.TrimRight(getEnv("BCB_BASE_URL", "https://api.bcb.gov.br/dados/serie"), "/"),
			SeriesCode:       getEnv("BCB_SERIES_CODE", "4390"),
			TargetSeriesCode: getEnv("BCB_TARGET_SERIES_CODE", "432"),
			Timeout:          getEnvAsDuration("BCB_TIMEOUT", "30s"),
			RateLimit:        getEnvAsInt("BCB_RATE_LIMIT", 2),
		},

		Ingest: IngestConfig{
			BatchMode:    strings.ToLower(getEnv("INGEST_BATCH_MODE", BatchModeRow)),
			MaxBodyBytes: int64(getEnvAsInt("INGEST_MAX_BODY_BYTES", 10<<20)),
		},

		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", "*"),

		SyncSchedule: getEnv("SYNC_SCHEDULE", "0 0 9 * * 1-5"),

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Ingest.BatchMode != BatchModeRow && c.Ingest.BatchMode != BatchModeAtomic {
		return fmt.Errorf("INGEST_BATCH_MODE must be one of: %s, %s", BatchModeRow, BatchModeAtomic)
	}

	if c.BCB.Timeout <= 0 {
		return fmt.Errorf("BCB_TIMEOUT must be positive")
	}

	if c.BCB.SeriesCode == "" || c.BCB.TargetSeriesCode == "" {
		return fmt.Errorf("BCB_SERIES_CODE and BCB_TARGET_SERIES_CODE are required")
	}

	return nil
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
		"backend/.env",
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}

// getEnvAsList splits a comma separated value, dropping empty items
func getEnvAsList(key, defaultValue string) []string {
	raw := getEnv(key, defaultValue)

	var items []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
