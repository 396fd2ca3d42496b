package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	DatabaseURL string        `env:"GERAI_DATABASE_URL,required"`
	HTTPAddr    string        `env:"GERAI_HTTP_ADDR"              envDefault:":8080"`
	WebhookURL  string        `env:"GERAI_NOTIFY_WEBHOOK_URL"`
	Recipients  []string      `env:"GERAI_NOTIFY_RECIPIENTS"      envSeparator:","`
	PollEvery   time.Duration `env:"GERAI_NOTIFY_POLL_INTERVAL"   envDefault:"5s"`
	RetryBase   time.Duration `env:"GERAI_NOTIFY_RETRY_BASE"      envDefault:"30s"`
	RetryMax    int32         `env:"GERAI_NOTIFY_RETRY_ATTEMPTS"  envDefault:"8"`
}

// Load reads configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
