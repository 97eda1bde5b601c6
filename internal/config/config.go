package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

var (
	ErrMissingAuthSecret   = errors.New("AUTH_SECRET is not set")
	ErrUnsupportedDBDriver = errors.New("unsupported DB_DRIVER")
)

type Config struct {
	Port        string
	GinMode     string
	DBDriver    string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBPath      string
	AuthSecret  string
	FrontendURL string
	PublicURL   string

	SessionMaxAge time.Duration

	// LinkAccountsUnconditionally lets an OAuth sign-in attach a new provider
	// account to an existing user with the same email address.
	LinkAccountsUnconditionally bool

	GoogleClientID     string
	GoogleClientSecret string
	GitHubClientID     string
	GitHubClientSecret string
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		GinMode:     getEnv("GIN_MODE", "debug"),
		DBDriver:    strings.ToLower(getEnv("DB_DRIVER", "mysql")),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "3306"),
		DBUser:      getEnv("DB_USER", "matrixuser"),
		DBPassword:  getEnv("DB_PASSWORD", "matrixpassword"),
		DBName:      getEnv("DB_NAME", "priority_matrix"),
		DBPath:      getEnv("DB_PATH", "priority_matrix.db"),
		AuthSecret:  os.Getenv("AUTH_SECRET"),
		FrontendURL: strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3001"), "/"),
		PublicURL:   strings.TrimRight(getEnv("PUBLIC_URL", "http://localhost:8080"), "/"),

		SessionMaxAge: getEnvAsDuration("SESSION_MAX_AGE", 30*24*time.Hour),

		LinkAccountsUnconditionally: getEnvAsBool("LINK_ACCOUNTS_UNCONDITIONALLY", true),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GitHubClientID:     getEnv("GITHUB_CLIENT_ID", ""),
		GitHubClientSecret: getEnv("GITHUB_CLIENT_SECRET", ""),
	}
}

// Validate reports configuration problems that must stop the server from starting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.AuthSecret) == "" {
		return ErrMissingAuthSecret
	}

	switch c.DBDriver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedDBDriver, c.DBDriver)
	}

	if c.SessionMaxAge <= 0 {
		return fmt.Errorf("SESSION_MAX_AGE must be positive, got %s", c.SessionMaxAge)
	}

	return nil
}

// IsProduction reports whether the server runs in release mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	// Accept "720h" style durations or a plain number of seconds
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	if seconds, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
