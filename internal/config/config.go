package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	// Database
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// Identity provider
	AuthJWTSecret string
	AuthJWTIssuer string
	WebhookSecret string

	// Application
	AppEnv           string
	AppPort          string
	LogLevel         string
	MaxMessageLength int

	// Notifications
	TelegramBotToken    string
	NotificationWorkers int

	// Rate Limiting
	RateLimitPerUser      int
	RateLimitPerIP        int
	RateLimitWindowSecond int
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		DBDriver:   getEnv("DB_DRIVER", DriverPostgres),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "chat"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "chat_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		SQLitePath: getEnv("SQLITE_PATH", "chat.db"),

		AuthJWTSecret: getEnv("AUTH_JWT_SECRET", ""),
		AuthJWTIssuer: getEnv("AUTH_JWT_ISSUER", ""),
		WebhookSecret: getEnv("WEBHOOK_SECRET", ""),

		AppEnv:           getEnv("APP_ENV", "development"),
		AppPort:          getEnv("APP_PORT", "8080"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		MaxMessageLength: getEnvInt("MAX_MESSAGE_LENGTH", 4000),

		TelegramBotToken:    getEnv("TELEGRAM_BOT_TOKEN", ""),
		NotificationWorkers: getEnvInt("NOTIFICATION_WORKERS", 4),

		RateLimitPerUser:      getEnvInt("RATE_LIMIT_PER_USER", 60),
		RateLimitPerIP:        getEnvInt("RATE_LIMIT_PER_IP", 300),
		RateLimitWindowSecond: getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverPostgres:
		if c.DBPassword == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required when DB_DRIVER=sqlite")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.AuthJWTSecret == "" {
		return fmt.Errorf("AUTH_JWT_SECRET is required")
	}
	if len(c.AuthJWTSecret) < 32 {
		return fmt.Errorf("AUTH_JWT_SECRET must be at least 32 characters")
	}
	if c.WebhookSecret == "" {
		return fmt.Errorf("WEBHOOK_SECRET is required")
	}
	if c.MaxMessageLength <= 0 {
		return fmt.Errorf("MAX_MESSAGE_LENGTH must be positive")
	}
	return nil
}

func (c *Config) ValidateProductionSecurity() error {
	if c.AppEnv != "production" {
		return nil
	}

	if c.DBDriver == DriverSQLite {
		return fmt.Errorf("DB_DRIVER=sqlite is not allowed in production")
	}
	if c.DBSSLMode != "require" {
		return fmt.Errorf("DB_SSLMODE must be 'require' in production")
	}
	if c.AuthJWTSecret == "your_identity_provider_secret_min_32_chars" {
		return fmt.Errorf("AUTH_JWT_SECRET must be changed from default in production")
	}
	if c.WebhookSecret == "whsec_change_me" {
		return fmt.Errorf("WEBHOOK_SECRET must be changed from default in production")
	}

	return nil
}

func (c *Config) GetDSN() string {
	if c.DBDriver == DriverSQLite {
		return c.SQLitePath
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

func (c *Config) GetRateLimitWindow() time.Duration {
	return time.Duration(c.RateLimitWindowSecond) * time.Second
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
