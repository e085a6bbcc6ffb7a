package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"
)

// DefaultAdminBackendURL is the host the admin dashboard falls back to when
// no backend is configured.
const DefaultAdminBackendURL = "https://bridgei2p-voip-backend.onrender.com"

// ErrBackendURLRequired is returned by Validate when BACKEND_URL is unset.
var ErrBackendURLRequired = errors.New("config: BACKEND_URL is required")

// Config holds application configuration
type Config struct {
	Port            string
	Env             string
	LogLevel        string
	BackendURL      string
	AdminBackendURL string
	BackendTimeout  time.Duration
	DemoOTPReveal   bool
	Timezone        string

	SessionStore  string
	SessionTTL    time.Duration
	SessionCookie string
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	AdminJWTSecret     string
	CORSAllowedOrigins []string

	// Per-IP limit on lead form posts; zero disables it.
	LeadFormRatePerMinute int
	LeadFormRateBurst     int

	// Sales alert email
	EmailProvider     string
	SalesAlertEmails  []string
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	SESFromEmail      string

	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string
	ExportArchiveBucket string
}

// Load reads configuration from environment variables
func Load() *Config {
	backendURL := strings.TrimRight(strings.TrimSpace(getEnv("BACKEND_URL", "")), "/")
	adminURL := strings.TrimRight(strings.TrimSpace(getEnv("ADMIN_BACKEND_URL", "")), "/")
	if adminURL == "" {
		adminURL = backendURL
	}
	if adminURL == "" {
		adminURL = DefaultAdminBackendURL
	}

	return &Config{
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("ENV", "development"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		BackendURL:      backendURL,
		AdminBackendURL: adminURL,
		BackendTimeout:  getEnvAsDuration("BACKEND_TIMEOUT", 15*time.Second),
		DemoOTPReveal:   getEnvAsBool("DEMO_OTP_REVEAL", false),
		Timezone:        getEnv("TIMEZONE", "Local"),

		SessionStore:  strings.ToLower(strings.TrimSpace(getEnv("SESSION_STORE", "memory"))),
		SessionTTL:    getEnvAsDuration("SESSION_TTL", 30*time.Minute),
		SessionCookie: getEnv("SESSION_COOKIE", "lead_form_sid"),
		RedisAddr:     getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		AdminJWTSecret:     getEnv("ADMIN_JWT_SECRET", ""),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS"),

		LeadFormRatePerMinute: getEnvAsInt("LEAD_FORM_RATE_PER_MINUTE", 0),
		LeadFormRateBurst:     getEnvAsInt("LEAD_FORM_RATE_BURST", 10),

		EmailProvider:     strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", "stub"))),
		SalesAlertEmails:  getEnvAsList("SALES_ALERT_EMAILS"),
		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "Bridgei2p"),
		SESFromEmail:      getEnv("SES_FROM_EMAIL", ""),

		AWSRegion:           getEnv("AWS_REGION", "ap-south-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),
		ExportArchiveBucket: getEnv("EXPORT_ARCHIVE_BUCKET", ""),
	}
}

// IsProduction reports whether ENV names a production deployment.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Env))
	return env == "production" || env == "prod"
}

// Validate checks the settings the lead capture flow cannot run without.
func (c *Config) Validate() error {
	if c.BackendURL == "" {
		return ErrBackendURLRequired
	}
	if c.DemoOTPReveal && c.IsProduction() {
		return fmt.Errorf("config: DEMO_OTP_REVEAL is development-only and cannot be enabled in %s", c.Env)
	}
	switch c.SessionStore {
	case "memory", "redis":
	default:
		return fmt.Errorf("config: unknown SESSION_STORE %q", c.SessionStore)
	}
	switch c.EmailProvider {
	case "stub", "sendgrid", "ses":
	default:
		return fmt.Errorf("config: unknown EMAIL_PROVIDER %q", c.EmailProvider)
	}
	return nil
}

// Location resolves TIMEZONE for calendar-day comparisons.
func (c *Config) Location() (*time.Location, error) {
	name := strings.TrimSpace(c.Timezone)
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("config: load TIMEZONE %q: %w", name, err)
	}
	return loc, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated variable, dropping blanks.
func getEnvAsList(key string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
