package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/jwebster45206/fifteen-days/pkg/locale"
)

// Content formats.
const (
	FormatCSV    = "csv"
	FormatScript = "script"
)

// Storage backends.
const (
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level
	CORSOrigin  string

	Locale           locale.Locale
	DataDir          string
	ContentFormat    string
	RequirementsFile string
	LevelScript      string

	StorageBackend string
	RedisURL       string
	SQLitePath     string
	SessionTTL     time.Duration
}

// Load reads the configuration from the environment. A .env file in the
// working directory is applied first when present; variables already set
// in the environment win over it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	dataDir := getEnv("DATA_DIR", "data")
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    parseLogLevel(getEnv("LOG_LEVEL", "info")),
		CORSOrigin:  getEnv("CORS_ORIGIN", ""),

		Locale:           locale.Parse(getEnv("LOCALE", string(locale.Default))),
		DataDir:          dataDir,
		ContentFormat:    strings.ToLower(getEnv("CONTENT_FORMAT", FormatCSV)),
		RequirementsFile: getEnv("REQUIREMENTS_FILE", ""),
		LevelScript:      getEnv("LEVEL_SCRIPT", filepath.Join(dataDir, "levels.yaml")),

		StorageBackend: strings.ToLower(getEnv("STORAGE_BACKEND", BackendMemory)),
		RedisURL:       getEnv("REDIS_URL", "redis://localhost:6379/0"),
		SQLitePath:     getEnv("SQLITE_PATH", filepath.Join(dataDir, "sessions.db")),
	}

	ttl, err := time.ParseDuration(getEnv("SESSION_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}
	cfg.SessionTTL = ttl

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	switch c.ContentFormat {
	case FormatCSV, FormatScript:
	default:
		return fmt.Errorf("invalid CONTENT_FORMAT %q: must be %s or %s", c.ContentFormat, FormatCSV, FormatScript)
	}
	switch c.StorageBackend {
	case BackendRedis, BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("invalid STORAGE_BACKEND %q: must be %s, %s or %s",
			c.StorageBackend, BackendRedis, BackendSQLite, BackendMemory)
	}
	if c.SessionTTL < 0 {
		return errors.New("SESSION_TTL must not be negative")
	}
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
