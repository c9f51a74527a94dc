// Package config provides environment-based configuration for the growth service.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all runtime settings. Values come from environment variables;
// a .env file loaded at startup can supply them in development.
type Config struct {
	Port        int    `env:"PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`

	// Image-generation provider.
	ProviderURL    string        `env:"PROVIDER_URL,required"`
	ProviderAPIKey string        `env:"PROVIDER_API_KEY"`
	ProviderModel  string        `env:"PROVIDER_MODEL" envDefault:"stable_diffusion"`
	PollInterval   time.Duration `env:"PROVIDER_POLL_INTERVAL" envDefault:"10s"`
	PollMaxWait    time.Duration `env:"PROVIDER_POLL_MAX_WAIT" envDefault:"30m"`

	// AssetBaseURL resolves relative character image refs.
	AssetBaseURL string `env:"ASSET_BASE_URL" envDefault:"http://localhost:8080"`

	// ManageEvolutionStep selects whether the service advances the
	// character's persisted evolution step and image pointer itself, or
	// leaves that to an external system of record.
	ManageEvolutionStep bool `env:"MANAGE_EVOLUTION_STEP" envDefault:"true"`

	// Actor is the attribution written on growth records.
	Actor string `env:"GROWTH_ACTOR" envDefault:"SYSTEM"`

	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:3000,http://localhost:8080"`
}

// Load parses configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration has sane values.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config error: PORT must be in 1..65535, got %d", c.Port)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("config error: PROVIDER_POLL_INTERVAL must be positive")
	}
	if c.PollMaxWait < c.PollInterval {
		return fmt.Errorf("config error: PROVIDER_POLL_MAX_WAIT must be at least the poll interval")
	}
	return nil
}
