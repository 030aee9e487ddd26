// Package config provides application configuration management.
// It loads settings from environment variables and provides defaults for
// the Canvas API, the LLM backend, the server, and storage.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Default models for the Groq backend. Classification wants determinism,
// rendering wants fluency, but both run fine on the same model family.
const (
	DefaultIntentModel = "llama3-70b-8192"
	DefaultRenderModel = "llama3-70b-8192"
)

// Config holds all application configuration
type Config struct {
	// Canvas Configuration
	CanvasBaseURL     string        // Default Canvas instance URL (per-user URLs override)
	CanvasTimeout     time.Duration // Timeout for a single Canvas API request
	CanvasPageSize    int           // Page size for paginated course listing
	CanvasFanoutLimit int           // Max concurrent per-course fetches during fan-out

	// LLM Configuration
	GroqAPIKey      string        // Groq API key (empty disables LLM fallback and rendering)
	GroqBaseURL     string        // OpenAI-compatible endpoint for chat completions
	IntentModel     string        // Model for intent classification
	RenderModel     string        // Model for conversational rendering
	ClassifyTimeout time.Duration // Timeout for the classification completion
	RenderTimeout   time.Duration // Timeout for the rendering completion

	// Metrics Authentication
	MetricsUsername string // Username for /metrics endpoint Basic Auth (default: "prometheus")
	MetricsPassword string // Password for /metrics endpoint Basic Auth (empty = no auth)

	// Sentry Configuration
	SentryDSN         string  // Sentry DSN (empty disables error tracking)
	SentryEnvironment string  // Deployment environment label
	SentrySampleRate  float64 // Error sampling rate (0.0-1.0)

	// Server Configuration
	Port            string
	LogLevel        string
	ShutdownTimeout time.Duration

	// Rate Limits (Token Bucket Algorithm)
	UserRateLimitBurst        float64 // Maximum burst tokens per user
	UserRateLimitRefillPerSec float64 // Tokens refilled per second

	// Data Configuration
	DataDir               string        // Data directory for SQLite database
	ConversationRetention time.Duration // How long conversation rows are kept
}

// Load reads configuration from environment variables
// It attempts to load .env file first, then reads from env vars
func Load() (*Config, error) {
	// Try to load .env file (ignore error if file doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		// Canvas Configuration
		CanvasBaseURL:     getEnv("CANVAS_BASE_URL", "https://canvas.tue.nl"),
		CanvasTimeout:     getDurationEnv("CANVAS_TIMEOUT", CanvasRequest),
		CanvasPageSize:    getIntEnv("CANVAS_PAGE_SIZE", 50),
		CanvasFanoutLimit: getIntEnv("CANVAS_FANOUT_LIMIT", 4),

		// LLM Configuration
		GroqAPIKey:      getEnv("GROQ_API_KEY", ""),
		GroqBaseURL:     getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		IntentModel:     getEnv("GROQ_INTENT_MODEL", DefaultIntentModel),
		RenderModel:     getEnv("GROQ_RENDER_MODEL", DefaultRenderModel),
		ClassifyTimeout: getDurationEnv("CLASSIFY_TIMEOUT", ClassifyTimeout),
		RenderTimeout:   getDurationEnv("RENDER_TIMEOUT", RenderTimeout),

		// Metrics Authentication
		MetricsUsername: getEnv("METRICS_USERNAME", "prometheus"),
		MetricsPassword: getEnv("METRICS_PASSWORD", ""),

		// Sentry Configuration
		SentryDSN:         getEnv("SENTRY_DSN", ""),
		SentryEnvironment: getEnv("SENTRY_ENVIRONMENT", "production"),
		SentrySampleRate:  getFloatEnv("SENTRY_SAMPLE_RATE", 1.0),

		// Server Configuration
		Port:            getEnv("PORT", "10000"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		ShutdownTimeout: getDurationEnv("SHUTDOWN_TIMEOUT", GracefulShutdown),

		// Rate Limits
		UserRateLimitBurst:        getFloatEnv("USER_RATE_LIMIT_BURST", 15.0),
		UserRateLimitRefillPerSec: getFloatEnv("USER_RATE_LIMIT_REFILL_PER_SEC", 0.2), // 1 per 5s

		// Data Configuration
		DataDir:               getEnv("DATA_DIR", getDefaultDataDir()),
		ConversationRetention: getDurationEnv("CONVERSATION_RETENTION", 30*24*time.Hour),
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	var errs []error

	if c.Port == "" {
		errs = append(errs, errors.New("PORT is required"))
	}
	if c.CanvasBaseURL == "" {
		errs = append(errs, errors.New("CANVAS_BASE_URL is required"))
	} else if u, err := url.Parse(c.CanvasBaseURL); err != nil || !strings.HasPrefix(u.Scheme, "http") {
		errs = append(errs, fmt.Errorf("CANVAS_BASE_URL must be an http(s) URL, got %q", c.CanvasBaseURL))
	}
	if c.CanvasTimeout <= 0 {
		errs = append(errs, fmt.Errorf("CANVAS_TIMEOUT must be positive, got %v", c.CanvasTimeout))
	}
	if c.CanvasPageSize <= 0 {
		errs = append(errs, fmt.Errorf("CANVAS_PAGE_SIZE must be positive, got %d", c.CanvasPageSize))
	}
	if c.CanvasFanoutLimit <= 0 {
		errs = append(errs, fmt.Errorf("CANVAS_FANOUT_LIMIT must be positive, got %d", c.CanvasFanoutLimit))
	}
	if c.GroqAPIKey != "" && c.GroqBaseURL == "" {
		errs = append(errs, errors.New("GROQ_BASE_URL is required when GROQ_API_KEY is set"))
	}
	if c.DataDir == "" {
		errs = append(errs, errors.New("DATA_DIR is required"))
	}
	if c.ConversationRetention <= 0 {
		errs = append(errs, fmt.Errorf("CONVERSATION_RETENTION must be positive, got %v", c.ConversationRetention))
	}
	if c.UserRateLimitBurst <= 0 {
		errs = append(errs, fmt.Errorf("USER_RATE_LIMIT_BURST must be positive, got %v", c.UserRateLimitBurst))
	}
	if c.UserRateLimitRefillPerSec <= 0 {
		errs = append(errs, fmt.Errorf("USER_RATE_LIMIT_REFILL_PER_SEC must be positive, got %v", c.UserRateLimitRefillPerSec))
	}
	if c.SentrySampleRate < 0 || c.SentrySampleRate > 1 {
		errs = append(errs, fmt.Errorf("SENTRY_SAMPLE_RATE must be in [0,1], got %v", c.SentrySampleRate))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// getEnv retrieves environment variable with fallback to default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv retrieves integer environment variable with fallback to default value
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getDurationEnv retrieves duration environment variable with fallback to default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getFloatEnv retrieves float64 environment variable with fallback to default value
func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getDefaultDataDir returns platform-specific default data directory
func getDefaultDataDir() string {
	if runtime.GOOS == "windows" {
		return "./data"
	}
	return "/data"
}

// SQLitePath returns the full path to the SQLite database file
func (c *Config) SQLitePath() string {
	return filepath.Join(c.DataDir, "agent.db")
}

// HasLLM returns true if the LLM backend is configured.
func (c *Config) HasLLM() bool {
	return c.GroqAPIKey != ""
}
