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

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Scoring policy (YAML). Empty = built-in defaults
	PolicyPath string

	// Database (optional: persistence disabled when URL is empty)
	Database DatabaseConfig

	// Upstream data sources
	Sources SourcesConfig

	// Watchlist scheduler
	Scheduler SchedulerConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Enabled reports whether report persistence is configured
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// SourcesConfig holds data-provider endpoints and client limits
type SourcesConfig struct {
	ScreenerBaseURL   string
	YahooBaseURL      string
	GoogleNewsBaseURL string

	// Optional news APIs: each feed is enabled only when its key is set
	MarketAuxBaseURL  string
	MarketAuxAPIToken string
	NewsAPIBaseURL    string
	NewsAPIKey        string

	RequestsPerSecond float64
	Timeout           time.Duration
}

// SchedulerConfig holds watchlist re-evaluation settings
type SchedulerConfig struct {
	Watchlist []string
	Cron      string // with seconds, e.g. "0 30 16 * * 1-5"
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		PolicyPath: getEnv("POLICY_PATH", ""),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 1),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Sources: SourcesConfig{
			ScreenerBaseURL:   getEnv("SCREENER_BASE_URL", "https://www.screener.in"),
			YahooBaseURL:      getEnv("YAHOO_BASE_URL", "https://query1.finance.yahoo.com"),
			GoogleNewsBaseURL: getEnv("GOOGLE_NEWS_BASE_URL", "https://news.google.com"),
			MarketAuxBaseURL:  getEnv("MARKETAUX_BASE_URL", "https://api.marketaux.com"),
			MarketAuxAPIToken: getEnv("MARKETAUX_API_TOKEN", ""),
			NewsAPIBaseURL:    getEnv("NEWSAPI_BASE_URL", "https://newsapi.org"),
			NewsAPIKey:        getEnv("NEWSAPI_KEY", ""),
			RequestsPerSecond: getEnvAsFloat("SOURCE_RPS", 2),
			Timeout:           getEnvAsDuration("SOURCE_TIMEOUT", "15s"),
		},

		Scheduler: SchedulerConfig{
			Watchlist: getEnvAsList("WATCHLIST"),
			Cron:      getEnv("SCHEDULE_CRON", "0 30 16 * * 1-5"),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if configuration values are usable
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Sources.RequestsPerSecond <= 0 {
		return fmt.Errorf("SOURCE_RPS must be > 0")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
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

// getEnvAsList splits a comma separated value, dropping blanks
func getEnvAsList(key string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return nil
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, strings.ToUpper(p))
		}
	}
	return out
}
