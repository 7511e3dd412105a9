package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the service.
type Config struct {
	Port string
	Env  string

	// DatabaseURL selects the PostgreSQL backend; when empty the service
	// falls back to SQLite at SQLitePath.
	DatabaseURL string
	SQLitePath  string

	// FCMProjectID overrides the project id from the credentials file.
	// Credentials themselves come from GOOGLE_APPLICATION_CREDENTIALS.
	FCMProjectID string

	// DryRun replaces the FCM sender with a log-only sender.
	DryRun bool
}

// Load reads configuration from environment variables.
// In development, it loads from .env file if present.
// In production, it panics on missing required variables.
func Load() *Config {
	// Load .env file if it exists (for development)
	_ = godotenv.Load()

	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		Env:          getEnv("ENV", "development"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		SQLitePath:   os.Getenv("SQLITE_PATH"),
		FCMProjectID: os.Getenv("FCM_PROJECT_ID"),
		DryRun:       getEnv("DRY_RUN", "false") == "true",
	}

	// In production, require a database and real push credentials
	if cfg.Env == "production" {
		if cfg.DatabaseURL == "" {
			panic("DATABASE_URL is required in production")
		}
		if !cfg.DryRun && os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") == "" {
			panic("GOOGLE_APPLICATION_CREDENTIALS is required in production")
		}
	}

	return cfg
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
