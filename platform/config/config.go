// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// EmailConfig provides settings for the SMTP email sender.
type EmailConfig interface {
	GetEmailEnabled() bool
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
}

// NotifyConfig resolves the notification destination for a submission family.
// Resolution happens per dispatch so addresses can be rotated without
// touching dispatch code.
type NotifyConfig interface {
	GetNotifyAddress(submissionType string) string
}

// IngestConfig provides settings for the ingestion pipeline.
type IngestConfig interface {
	GetPersistTimeout() time.Duration
}

// ThrottleConfig provides settings for the duplicate-submission throttle.
type ThrottleConfig interface {
	GetRedisURL() string
	GetThrottleWindow() time.Duration
}

// AdminConfig provides settings for the admin read API.
type AdminConfig interface {
	GetAdminAPIKey() string
}

// RateLimitConfig provides settings for public endpoint rate limiting.
type RateLimitConfig interface {
	GetRateLimitRPS() float64
	GetRateLimitBurst() int
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env              string
	HTTPAddr         string
	DatabaseURL      string
	CORSAllowAll     bool
	CORSOrigins      []string
	CORSAllowCreds   bool
	EmailEnabled     bool
	SMTPHost         string
	SMTPPort         int
	SMTPUsername     string
	SMTPPassword     string
	EmailFromName    string
	EmailFromAddress string
	NotifyDefault    string
	NotifyOverrides  map[string]string
	PersistTimeout   time.Duration
	RedisURL         string
	ThrottleWindow   time.Duration
	AdminAPIKey      string
	RateLimitRPS     float64
	RateLimitBurst   int
}

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// EmailConfig implementation
func (c *Config) GetEmailEnabled() bool       { return c.EmailEnabled }
func (c *Config) GetSMTPHost() string         { return c.SMTPHost }
func (c *Config) GetSMTPPort() int            { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string     { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string     { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string    { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }

// GetNotifyAddress implements NotifyConfig. Overrides are keyed by submission
// type slug; everything else falls back to the shared inbox.
func (c *Config) GetNotifyAddress(submissionType string) string {
	if addr, ok := c.NotifyOverrides[submissionType]; ok && addr != "" {
		return addr
	}
	return c.NotifyDefault
}

// IngestConfig implementation
func (c *Config) GetPersistTimeout() time.Duration { return c.PersistTimeout }

// ThrottleConfig implementation
func (c *Config) GetRedisURL() string              { return c.RedisURL }
func (c *Config) GetThrottleWindow() time.Duration { return c.ThrottleWindow }

// AdminConfig implementation
func (c *Config) GetAdminAPIKey() string { return c.AdminAPIKey }

// RateLimitConfig implementation
func (c *Config) GetRateLimitRPS() float64 { return c.RateLimitRPS }
func (c *Config) GetRateLimitBurst() int   { return c.RateLimitBurst }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	emailEnabled := strings.EqualFold(getEnv("EMAIL_ENABLED", "true"), "true")
	smtpUsername := getEnv("SMTP_USERNAME", "")

	cfg := &Config{
		Env:              getEnv("APP_ENV", "development"),
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		CORSAllowAll:     corsAllowAll,
		CORSOrigins:      corsOrigins,
		CORSAllowCreds:   strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		EmailEnabled:     emailEnabled && smtpUsername != "",
		SMTPHost:         getEnv("SMTP_HOST", "smtp-relay.brevo.com"),
		SMTPPort:         mustInt(getEnv("SMTP_PORT", "587")),
		SMTPUsername:     smtpUsername,
		SMTPPassword:     getEnv("SMTP_PASSWORD", ""),
		EmailFromName:    getEnv("EMAIL_FROM_NAME", "Leadsite"),
		EmailFromAddress: getEnv("EMAIL_FROM_ADDRESS", ""),
		NotifyDefault:    getEnv("NOTIFY_EMAIL_DEFAULT", ""),
		NotifyOverrides: map[string]string{
			"demo":            getEnv("NOTIFY_EMAIL_DEMO", ""),
			"consultation":    getEnv("NOTIFY_EMAIL_CONSULTATION", ""),
			"solara-interest": getEnv("NOTIFY_EMAIL_SOLARA", ""),
			"ssa-interest":    getEnv("NOTIFY_EMAIL_SSA", ""),
			"partner":         getEnv("NOTIFY_EMAIL_PARTNER", ""),
			"contact":         getEnv("NOTIFY_EMAIL_CONTACT", ""),
		},
		PersistTimeout: mustDuration(getEnv("PERSIST_TIMEOUT", "5s")),
		RedisURL:       getEnv("REDIS_URL", ""),
		ThrottleWindow: mustDuration(getEnv("THROTTLE_WINDOW", "60s")),
		AdminAPIKey:    getEnv("ADMIN_API_KEY", ""),
		RateLimitRPS:   float64(mustInt(getEnv("RATE_LIMIT_RPS", "5"))),
		RateLimitBurst: mustInt(getEnv("RATE_LIMIT_BURST", "10")),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.EmailEnabled && cfg.EmailFromAddress == "" {
		return nil, fmt.Errorf("EMAIL_FROM_ADDRESS is required when email is enabled")
	}
	if cfg.EmailEnabled && cfg.NotifyDefault == "" {
		return nil, fmt.Errorf("NOTIFY_EMAIL_DEFAULT is required when email is enabled")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	if cfg.PersistTimeout <= 0 {
		return nil, fmt.Errorf("PERSIST_TIMEOUT must be a positive duration")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
