package config

import (
	"strings"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/jobtrack")
	t.Setenv("CRON_SECRET", "cron-secret")
	t.Setenv("RESEND_WEBHOOK_SECRET", "whsec_dGVzdA==")
	t.Setenv("RESEND_API_KEY", "re_test")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)
	t.Setenv("SITE_URL", "")
	t.Setenv("NEXT_PUBLIC_SITE_URL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if cfg.Port != DefaultPort {
		t.Errorf("Port = %q, want %q", cfg.Port, DefaultPort)
	}
	if cfg.SiteURL != DefaultSiteURL {
		t.Errorf("SiteURL = %q, want %q", cfg.SiteURL, DefaultSiteURL)
	}
	if cfg.Timezone.String() != DefaultTimezone {
		t.Errorf("Timezone = %q, want %q", cfg.Timezone, DefaultTimezone)
	}
	if cfg.SendConcurrency != DefaultSendConcurrency {
		t.Errorf("SendConcurrency = %d, want %d", cfg.SendConcurrency, DefaultSendConcurrency)
	}
}

func TestLoad_SiteURLFallbackTrimmed(t *testing.T) {
	setRequired(t)
	t.Setenv("SITE_URL", "")
	t.Setenv("NEXT_PUBLIC_SITE_URL", "https://jobtrack.example.com/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.SiteURL != "https://jobtrack.example.com" {
		t.Errorf("SiteURL = %q", cfg.SiteURL)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"bad timezone", "NOTIFICATION_TIMEZONE", "Mars/Olympus"},
		{"bad concurrency", "SEND_CONCURRENCY", "many"},
		{"bad rate", "SEND_RATE_PER_SECOND", "fast"},
		{"bad trigger timeout", "CRON_TIMEOUT", "soon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.key, tt.val)
			if _, err := Load(); err == nil || !strings.Contains(err.Error(), tt.key) {
				t.Errorf("Load() error = %v, want mention of %s", err, tt.key)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			DatabaseURL:       "postgres://localhost/jobtrack",
			CronSecret:        "s",
			WebhookSecret:     "whsec_x",
			ResendAPIKey:      "re_x",
			SendConcurrency:   1,
			SendRatePerSecond: 1,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing database", func(c *Config) { c.DatabaseURL = "" }, true},
		{"missing cron secret", func(c *Config) { c.CronSecret = "" }, true},
		{"missing webhook secret", func(c *Config) { c.WebhookSecret = "" }, true},
		{"missing api key", func(c *Config) { c.ResendAPIKey = "" }, true},
		{"zero concurrency", func(c *Config) { c.SendConcurrency = 0 }, true},
		{"zero rate", func(c *Config) { c.SendRatePerSecond = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			if err := c.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_TriggerTimeout(t *testing.T) {
	setRequired(t)
	t.Setenv("CRON_TIMEOUT", "")
	t.Setenv("SEND_RATE_PER_SECOND", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.TriggerTimeout != DefaultTriggerTimeout {
		t.Errorf("TriggerTimeout = %s, want %s", cfg.TriggerTimeout, DefaultTriggerTimeout)
	}
	// 15 minutes at 2 sends per second.
	if got := cfg.MaxRemindersPerRun(); got != 1800 {
		t.Errorf("MaxRemindersPerRun() = %d, want 1800", got)
	}

	t.Setenv("CRON_TIMEOUT", "30m")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.TriggerTimeout != 30*time.Minute {
		t.Errorf("TriggerTimeout = %s, want 30m", cfg.TriggerTimeout)
	}
}

func TestValidateTrigger(t *testing.T) {
	c := Config{CronSecret: "s", TriggerURL: DefaultTriggerURL, TriggerTimeout: time.Minute}
	if err := c.ValidateTrigger(); err != nil {
		t.Errorf("ValidateTrigger() error = %v", err)
	}
	c.TriggerTimeout = 0
	if err := c.ValidateTrigger(); err == nil {
		t.Error("ValidateTrigger() accepted a zero timeout")
	}
}
