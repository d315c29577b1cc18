package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultPort              = "8080"
	DefaultSiteURL           = "http://localhost:3000"
	DefaultEmailFrom         = "JobTrack <notifications@resend.dev>"
	DefaultTimezone          = "Asia/Seoul"
	DefaultSendConcurrency   = 10
	DefaultSendRatePerSecond = 2
	DefaultCronSpec          = "0 0 * * *"
	DefaultTriggerURL        = "http://localhost:8080/api/v1/cron/notifications"
	DefaultTriggerTimeout    = 15 * time.Minute
	DefaultDocumentsRegion   = "us-east-1"
)

// Config holds everything the API and the trigger command need.
// It is built once in main and handed to constructors.
type Config struct {
	Port        string
	DatabaseURL string
	LogLevel    string
	Environment string

	// Shared secret expected as "Bearer <secret>" on the trigger endpoint.
	CronSecret string
	// Svix signing secret ("whsec_...") for delivery webhooks.
	WebhookSecret string

	ResendAPIKey      string
	EmailFrom         string
	SiteURL           string
	Timezone          *time.Location
	SendConcurrency   int
	SendRatePerSecond float64

	CronSpec   string
	TriggerURL string
	// TriggerTimeout bounds one trigger call. At SendRatePerSecond it also caps how many
	// reminders one run can send before the rest fail with a cancelled context.
	TriggerTimeout time.Duration

	// Document store (S3 API). Uploads are disabled when DocumentsBucket is empty.
	DocumentsBucket    string
	DocumentsRegion    string
	DocumentsEndpoint  string
	DocumentsPublicURL string
}

// Load reads configuration from the environment, after loading a .env file if one exists.
func Load() (*Config, error) {
	// A missing .env is fine; real deployments inject variables directly.
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getEnvWithDefault("PORT", DefaultPort),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		LogLevel:      strings.ToLower(getEnvWithDefault("LOG_LEVEL", "info")),
		Environment:   strings.ToLower(getEnvWithDefault("ENVIRONMENT", "development")),
		CronSecret:    os.Getenv("CRON_SECRET"),
		WebhookSecret: os.Getenv("RESEND_WEBHOOK_SECRET"),
		ResendAPIKey:  os.Getenv("RESEND_API_KEY"),
		EmailFrom:     getEnvWithDefault("EMAIL_FROM", DefaultEmailFrom),
		CronSpec:      getEnvWithDefault("CRON_SPEC", DefaultCronSpec),
		TriggerURL:    getEnvWithDefault("CRON_TRIGGER_URL", DefaultTriggerURL),

		DocumentsBucket:    os.Getenv("DOCUMENTS_BUCKET"),
		DocumentsRegion:    getEnvWithDefault("DOCUMENTS_REGION", DefaultDocumentsRegion),
		DocumentsEndpoint:  os.Getenv("DOCUMENTS_ENDPOINT"),
		DocumentsPublicURL: strings.TrimRight(os.Getenv("DOCUMENTS_PUBLIC_URL"), "/"),
	}

	cfg.SiteURL = os.Getenv("SITE_URL")
	if cfg.SiteURL == "" {
		cfg.SiteURL = getEnvWithDefault("NEXT_PUBLIC_SITE_URL", DefaultSiteURL)
	}
	cfg.SiteURL = strings.TrimRight(cfg.SiteURL, "/")

	loc, err := time.LoadLocation(getEnvWithDefault("NOTIFICATION_TIMEZONE", DefaultTimezone))
	if err != nil {
		return nil, fmt.Errorf("invalid NOTIFICATION_TIMEZONE: %w", err)
	}
	cfg.Timezone = loc

	cfg.SendConcurrency, err = strconv.Atoi(getEnvWithDefault("SEND_CONCURRENCY", strconv.Itoa(DefaultSendConcurrency)))
	if err != nil {
		return nil, fmt.Errorf("invalid SEND_CONCURRENCY: %w", err)
	}

	cfg.SendRatePerSecond, err = strconv.ParseFloat(getEnvWithDefault("SEND_RATE_PER_SECOND", strconv.Itoa(DefaultSendRatePerSecond)), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid SEND_RATE_PER_SECOND: %w", err)
	}

	cfg.TriggerTimeout, err = time.ParseDuration(getEnvWithDefault("CRON_TIMEOUT", DefaultTriggerTimeout.String()))
	if err != nil {
		return nil, fmt.Errorf("invalid CRON_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// MaxRemindersPerRun is how many sends the rate limit allows inside one trigger call.
func (c *Config) MaxRemindersPerRun() int {
	return int(c.TriggerTimeout.Seconds() * c.SendRatePerSecond)
}

// Validate checks the settings the API server cannot run without.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is not set")
	}
	if c.CronSecret == "" {
		return fmt.Errorf("CRON_SECRET is not set")
	}
	if c.WebhookSecret == "" {
		return fmt.Errorf("RESEND_WEBHOOK_SECRET is not set")
	}
	if c.ResendAPIKey == "" {
		return fmt.Errorf("RESEND_API_KEY is not set")
	}
	if c.SendConcurrency <= 0 {
		return fmt.Errorf("SEND_CONCURRENCY must be positive, got %d", c.SendConcurrency)
	}
	if c.SendRatePerSecond <= 0 {
		return fmt.Errorf("SEND_RATE_PER_SECOND must be positive, got %v", c.SendRatePerSecond)
	}
	return nil
}

// ValidateTrigger checks the settings of the cron trigger command.
func (c *Config) ValidateTrigger() error {
	if c.CronSecret == "" {
		return fmt.Errorf("CRON_SECRET is not set")
	}
	if c.TriggerURL == "" {
		return fmt.Errorf("CRON_TRIGGER_URL is not set")
	}
	if c.TriggerTimeout <= 0 {
		return fmt.Errorf("CRON_TIMEOUT must be positive, got %s", c.TriggerTimeout)
	}
	return nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}
