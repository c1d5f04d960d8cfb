package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all client configuration
type Config struct {
	App     AppConfig
	API     APIConfig
	Session SessionConfig
	Redis   RedisConfig
	Search  SearchConfig
	Views   ViewsConfig
	OTEL    OTELConfig
}

// AppConfig holds process-level settings
type AppConfig struct {
	Env string
}

// APIConfig holds the backend REST API configuration
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// SessionConfig selects where the bearer token and user object are persisted
type SessionConfig struct {
	Store     string
	KeyPrefix string

	// SeedToken and SeedUser preload the session, e.g. for one-shot CLI runs
	// against the in-memory store. SeedUser is the JSON user object.
	SeedToken string
	SeedUser  string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// SearchConfig holds debounced search configuration
type SearchConfig struct {
	Debounce  time.Duration
	MinLength int
}

// ViewsConfig holds list/detail view configuration
type ViewsConfig struct {
	PageSize          int
	LoadRetryAttempts int
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables.
// A .env file in the working directory is read first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Env: getEnv("APP_ENV", "development"),
		},
		API: APIConfig{
			BaseURL: getEnv("BOULEVARD_API_URL", "http://localhost:3000/api"),
			Timeout: time.Duration(getEnvAsInt("BOULEVARD_API_TIMEOUT_SECONDS", 15)) * time.Second,
		},
		Session: SessionConfig{
			Store:     getEnv("SESSION_STORE", "memory"),
			KeyPrefix: getEnv("SESSION_KEY_PREFIX", "boulevard:"),
			SeedToken: getEnv("BOULEVARD_TOKEN", ""),
			SeedUser:  getEnv("BOULEVARD_USER", ""),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Search: SearchConfig{
			Debounce:  time.Duration(getEnvAsInt("SEARCH_DEBOUNCE_MS", 300)) * time.Millisecond,
			MinLength: getEnvAsInt("SEARCH_MIN_LENGTH", 2),
		},
		Views: ViewsConfig{
			PageSize:          getEnvAsInt("LIST_PAGE_SIZE", 12),
			LoadRetryAttempts: getEnvAsInt("LOAD_RETRY_ATTEMPTS", 1),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "boulevard-client"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the client cannot run with
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("BOULEVARD_API_URL must not be empty")
	}
	switch c.Session.Store {
	case "memory", "redis":
	default:
		return fmt.Errorf("unknown SESSION_STORE %q (want memory or redis)", c.Session.Store)
	}
	if c.Search.MinLength < 1 {
		return fmt.Errorf("SEARCH_MIN_LENGTH must be at least 1")
	}
	if c.Views.PageSize < 1 {
		return fmt.Errorf("LIST_PAGE_SIZE must be at least 1")
	}
	if c.Views.LoadRetryAttempts < 1 {
		c.Views.LoadRetryAttempts = 1
	}
	return nil
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
