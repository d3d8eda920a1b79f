package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/saadjs/nutri/internal/app"
)

type Config struct {
	// Storage
	DBPath string

	// HTTP server
	Port string

	LogLevel string

	// Gemini
	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string

	// Open Food Facts
	FoodDBBaseURL string

	ShareBaseURL string

	SearchCacheSize int
	SearchCacheTTL  time.Duration
}

const (
	DefaultGeminiModel   = "gemini-2.0-flash"
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultFoodDBBaseURL = "https://world.openfoodfacts.org"
)

// Load reads .env when present and then the process environment. An empty
// NUTRI_DB_PATH resolves to the per-user default location.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DBPath:          getEnv("NUTRI_DB_PATH", ""),
		Port:            getEnv("PORT", "8080"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		GeminiModel:     getEnv("GEMINI_MODEL", DefaultGeminiModel),
		GeminiBaseURL:   getEnv("GEMINI_BASE_URL", DefaultGeminiBaseURL),
		FoodDBBaseURL:   getEnv("OPENFOODFACTS_BASE_URL", DefaultFoodDBBaseURL),
		ShareBaseURL:    getEnv("SHARE_BASE_URL", "http://localhost:8080"),
		SearchCacheSize: getEnvInt("SEARCH_CACHE_SIZE", 100),
		SearchCacheTTL:  getEnvDuration("SEARCH_CACHE_TTL", time.Hour),
	}
	if cfg.DBPath == "" {
		path, err := app.DefaultDBPath()
		if err != nil {
			return nil, err
		}
		cfg.DBPath = path
	}
	return cfg, nil
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if strings.TrimSpace(c.DBPath) == "" {
		errors = append(errors, "database path cannot be empty")
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	for name, raw := range map[string]string{
		"Gemini base URL":          c.GeminiBaseURL,
		"Open Food Facts base URL": c.FoodDBBaseURL,
		"share base URL":           c.ShareBaseURL,
	} {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errors = append(errors, fmt.Sprintf("invalid %s '%s': must be an absolute http(s) URL", name, raw))
		}
	}

	if strings.TrimSpace(c.GeminiModel) == "" {
		errors = append(errors, "Gemini model cannot be empty")
	}

	if c.SearchCacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid search cache size %d: must be at least 1", c.SearchCacheSize))
	}
	if c.SearchCacheTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid search cache TTL %v: must be at least 1 second", c.SearchCacheTTL))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

// AIEnabled reports whether an API key is configured.
func (c *Config) AIEnabled() bool {
	return strings.TrimSpace(c.GeminiAPIKey) != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
