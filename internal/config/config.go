package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// Server
	Port        string `env:"PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`

	// Database
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// Identity provider
	IdentityAPIURL        string `env:"IDENTITY_API_URL" envDefault:"https://api.clerk.com/v1"`
	IdentityAPIKey        string `env:"IDENTITY_API_KEY,required,notEmpty"`
	IdentitySigningSecret string `env:"IDENTITY_SIGNING_SECRET,required,notEmpty"`
	IdentityWebhookSecret string `env:"IDENTITY_WEBHOOK_SECRET"`

	// Temporary accounts
	TempEmailDomain string `env:"TEMP_EMAIL_DOMAIN" envDefault:"temporary.edu"`

	// Cache (optional; invalidation is a no-op when unset)
	RedisURL string `env:"REDIS_URL"`
}

// Load reads configuration from the environment. Missing required values
// fail here, before any component is constructed.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
