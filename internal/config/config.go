// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// PostgreSQL connection (optional — artifact archive is disabled when
	// POSTGRES_HOST is empty).
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible store for history and theme persistence)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// Gemini API settings
	GeminiKey     string
	GeminiBaseURL string
	ModelPro      string // grounded long-form generation
	ModelFlash    string // fallback generation, audit, chat, research
	ModelImage    string // native image generation

	// S3-compatible storage for generated hero images (optional — images
	// are embedded as data URIs when S3_ENDPOINT is empty).
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3PublicURL string

	// Optional bearer token protecting the API. Stored as a bcrypt hash so
	// the plain token never sits in the environment of child processes.
	APITokenHash string

	// Pipeline tuning
	WordTarget  int // advisory word count stated in the prompt
	AuditBudget int // max chars of HTML embedded in the audit prompt
	ChatBudget  int // max chars of HTML embedded in the revision prompt
	HistoryCap  int // bounded history size, FIFO eviction
	RateLimit   int // model-backed requests per minute per client IP
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing in production mode.
func Load() (*Config, error) {
	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		DBHost:     os.Getenv("POSTGRES_HOST"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "superpage"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "superpage"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		GeminiKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiBaseURL: os.Getenv("GEMINI_BASE_URL"),
		ModelPro:      envOrDefault("GEMINI_MODEL_PRO", "gemini-3-pro-preview"),
		ModelFlash:    envOrDefault("GEMINI_MODEL_FLASH", "gemini-3-flash-preview"),
		ModelImage:    envOrDefault("GEMINI_MODEL_IMAGE", "gemini-2.5-flash-image"),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    envOrDefault("S3_REGION", "us-east-1"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    envOrDefault("S3_BUCKET", "superpage"),
		S3PublicURL: os.Getenv("S3_PUBLIC_URL"),

		APITokenHash: os.Getenv("API_TOKEN_HASH"),

		WordTarget:  envOrDefaultInt("SUPERPAGE_WORD_TARGET", 3000),
		AuditBudget: envOrDefaultInt("SUPERPAGE_AUDIT_BUDGET", 5000),
		ChatBudget:  envOrDefaultInt("SUPERPAGE_CHAT_BUDGET", 6000),
		HistoryCap:  envOrDefaultInt("SUPERPAGE_HISTORY_CAP", 20),
		RateLimit:   envOrDefaultInt("SUPERPAGE_RATE_LIMIT", 10),
	}

	if cfg.Env == "production" {
		if cfg.GeminiKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY must be set in production")
		}
		if cfg.DBHost != "" && cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// ArchiveEnabled reports whether the Postgres artifact archive is configured.
func (c *Config) ArchiveEnabled() bool {
	return c.DBHost != ""
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envOrDefaultInt reads an integer environment variable. Unset, empty, or
// non-numeric values fall back to the given default.
func envOrDefaultInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
