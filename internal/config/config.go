// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Environment constants.
const (
	EnvProduction = "production"
)

// VerifyMode controls behavior when a signed provider has no secret configured.
type VerifyMode string

const (
	// VerifyModeLenient accepts unsigned deliveries when no secret is
	// configured. Compatible with the historical behavior.
	VerifyModeLenient VerifyMode = "lenient"

	// VerifyModeStrict rejects deliveries for signed providers that have
	// no secret configured.
	VerifyModeStrict VerifyMode = "strict"
)

// IsValid checks if the verify mode is valid.
func (m VerifyMode) IsValid() bool {
	return m == VerifyModeLenient || m == VerifyModeStrict
}

// Config holds all application configuration.
type Config struct {
	App       AppConfig
	Server    ServerConfig
	Log       LogConfig
	RateLimit RateLimitConfig
	Webhook   WebhookConfig
	Events    EventsConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Name  string
	Env   string
	Debug bool
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	MaxBodySize     int64
}

// Addr returns the listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string
	Format string
}

// RateLimitConfig holds per-IP rate limiting configuration for the
// webhook ingress.
type RateLimitConfig struct {
	Enabled         bool
	RequestsPerSec  float64
	Burst           int
	CleanupInterval time.Duration
}

// WebhookConfig holds webhook verification configuration.
type WebhookConfig struct {
	// VerifyMode decides whether deliveries without a configured secret
	// are accepted (lenient) or rejected (strict).
	VerifyMode VerifyMode

	// EventLogSize bounds the in-memory webhook delivery log.
	EventLogSize int
}

// EventsConfig holds event bus configuration.
type EventsConfig struct {
	// HistorySize bounds the in-memory event history ring.
	HistorySize int

	// ActionTimeout bounds each provider action handler invocation.
	ActionTimeout time.Duration
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:  getEnv("APP_NAME", "hookhub"),
			Env:   getEnv("APP_ENV", "development"),
			Debug: getEnvBool("APP_DEBUG", false),
		},
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			ShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
			MaxBodySize:     getEnvInt64("SERVER_MAX_BODY_SIZE", 1<<20), // 1MB default
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		RateLimit: RateLimitConfig{
			Enabled:         getEnvBool("RATE_LIMIT_ENABLED", true),
			RequestsPerSec:  getEnvFloat("RATE_LIMIT_RPS", 20),
			Burst:           getEnvInt("RATE_LIMIT_BURST", 40),
			CleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 3*time.Minute),
		},
		Webhook: WebhookConfig{
			VerifyMode:   VerifyMode(getEnv("WEBHOOK_VERIFY_MODE", string(VerifyModeLenient))),
			EventLogSize: getEnvInt("WEBHOOK_EVENT_LOG_SIZE", 200),
		},
		Events: EventsConfig{
			HistorySize:   getEnvInt("EVENT_HISTORY_SIZE", 100),
			ActionTimeout: getEnvDuration("ACTION_TIMEOUT", 30*time.Second),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if !c.Webhook.VerifyMode.IsValid() {
		return fmt.Errorf("invalid WEBHOOK_VERIFY_MODE: %s (must be lenient or strict)", c.Webhook.VerifyMode)
	}
	if c.Webhook.EventLogSize < 1 {
		return fmt.Errorf("WEBHOOK_EVENT_LOG_SIZE must be positive, got %d", c.Webhook.EventLogSize)
	}
	if c.Events.HistorySize < 1 {
		return fmt.Errorf("EVENT_HISTORY_SIZE must be positive, got %d", c.Events.HistorySize)
	}
	if c.Events.ActionTimeout <= 0 {
		return fmt.Errorf("ACTION_TIMEOUT must be positive, got %s", c.Events.ActionTimeout)
	}
	return c.validateLog()
}

func (c *Config) validateLog() error {
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid LOG_LEVEL: %s (must be debug, info, warn, or error)", c.Log.Level)
	}
	switch c.Log.Format {
	case "", "json", "text":
	default:
		return fmt.Errorf("invalid LOG_FORMAT: %s (must be json or text)", c.Log.Format)
	}
	return nil
}

// IsProduction reports whether the app runs in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Env == EnvProduction
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
