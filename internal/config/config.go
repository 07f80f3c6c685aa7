package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Provider ProviderConfig
	App      AppConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	CacheTTL time.Duration
}

// ProviderConfig holds settings for the external messaging provider.
// The bot token is configuration, never a literal in code: it is
// injected into the dispatcher at construction, there is no
// process-wide singleton holding it.
type ProviderConfig struct {
	BotToken        string
	APIBaseURL      string
	CallTimeout     time.Duration // Bound on each outbound call (lookup, delivery)
	NamePlaceholder string        // Used when directory lookup fails
}

// AppConfig holds application-specific settings.
type AppConfig struct {
	Environment        string
	LogLevel           string
	RateLimitEnabled   bool
	RateLimitPerMinute int
	EnableMetrics      bool
}

// Load reads configuration from environment variables, after loading a
// local .env file when one is present. Environment variables keep the
// same build portable across dev, staging and production.
func Load() (*Config, error) {
	// Missing .env is fine - real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  parseDuration("SERVER_READ_TIMEOUT", "10s"),
			WriteTimeout: parseDuration("SERVER_WRITE_TIMEOUT", "10s"),
			IdleTimeout:  parseDuration("SERVER_IDLE_TIMEOUT", "120s"),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "linktrack"),
			Password:        getEnv("DB_PASSWORD", "dev_password_123"),
			DBName:          getEnv("DB_NAME", "linktrack"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    parseInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    parseInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: parseDuration("DB_CONN_MAX_LIFETIME", "5m"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       parseInt("REDIS_DB", 0),
			CacheTTL: parseDuration("REDIS_CACHE_TTL", "1h"),
		},
		Provider: ProviderConfig{
			BotToken:        os.Getenv("PROVIDER_BOT_TOKEN"),
			APIBaseURL:      getEnv("PROVIDER_API_BASE_URL", "https://api.telegram.org"),
			CallTimeout:     parseDuration("PROVIDER_CALL_TIMEOUT", "10s"),
			NamePlaceholder: getEnv("PROVIDER_NAME_PLACEHOLDER", "unknown"),
		},
		App: AppConfig{
			Environment:        getEnv("APP_ENV", "development"),
			LogLevel:           getEnv("LOG_LEVEL", "info"),
			RateLimitEnabled:   parseBool("RATE_LIMIT_ENABLED", true),
			RateLimitPerMinute: parseInt("RATE_LIMIT_REQUESTS_PER_MINUTE", 100),
			EnableMetrics:      parseBool("ENABLE_METRICS", true),
		},
	}

	if cfg.Provider.BotToken == "" {
		return nil, fmt.Errorf("PROVIDER_BOT_TOKEN is required")
	}

	return cfg, nil
}

// DatabaseDSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// RedisAddr returns the Redis address in host:port format.
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// Helper functions to parse environment variables with defaults.

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func parseBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func parseDuration(key string, defaultValue string) time.Duration {
	value := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(value)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}
	return duration
}
