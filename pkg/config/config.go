package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration. All environment variables are
// read here and nowhere else.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database (optional: the engine can run file-to-stdout without it)
	Database DatabaseConfig

	// Data source collaborator
	Source SourceConfig

	// Scoring strategy file (YAML); empty means built-in defaults
	ScoringConfigPath string

	// Scheduler
	AnalysisSchedule string // cron spec with seconds

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	URL string

	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// SourceConfig holds the market-data collaborator settings.
type SourceConfig struct {
	BaseURL        string
	RequestsPerSec float64
	Timeout        time.Duration
}

// Load reads configuration from environment variables, consulting a .env
// file when present.
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8090"),
		Env:  getEnv("ENV", "development"),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Source: SourceConfig{
			BaseURL:        getEnv("SOURCE_BASE_URL", "https://markets.example.com"),
			RequestsPerSec: getEnvAsFloat("SOURCE_RATE_LIMIT", 2.0),
			Timeout:        getEnvAsDuration("SOURCE_TIMEOUT", "30s"),
		},

		ScoringConfigPath: getEnv("SCORING_CONFIG", ""),

		// Weekdays at 08:30 local, after fundamentals settle.
		AnalysisSchedule: getEnv("ANALYSIS_SCHEDULE", "0 30 8 * * 1-5"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}
	if c.Source.RequestsPerSec <= 0 {
		return fmt.Errorf("SOURCE_RATE_LIMIT must be > 0")
	}
	return nil
}

// loadEnvFile tries known .env locations; missing files are fine.
func loadEnvFile() {
	paths := []string{".env"}
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

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
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
