package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/go-faster/errors"
)

// Config holds the server settings read from the environment.
type Config struct {
	// Spoonacular
	SpoonacularAPIKey  string `env:"SPOONACULAR_API_KEY"`
	SpoonacularBaseURL string `env:"SPOONACULAR_BASE_URL" envDefault:"https://api.spoonacular.com"`

	// Logging
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogDev   bool   `env:"LOG_DEV" envDefault:"false"`

	// Loki (optional, all three must be set to enable)
	Loki LokiConfig
}

// LokiConfig configures log shipping to Grafana Loki.
type LokiConfig struct {
	URL            string `env:"GRAFANA_LOKI_URL"`
	User           string `env:"GRAFANA_LOKI_USER"`
	APIKey         string `env:"GRAFANA_LOKI_API_KEY"`
	AppName        string `env:"APP_ENV" envDefault:"recipe-search-mcp"`
	InstanceID     string `env:"INSTANCE_ID" envDefault:"local"`
	InstanceRegion string `env:"INSTANCE_REGION" envDefault:"local"`
}

// Enabled reports whether every Loki credential is present.
func (c LokiConfig) Enabled() bool {
	return c.URL != "" && c.User != "" && c.APIKey != ""
}

// Load parses the environment into a Config.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, errors.Wrap(err, "parse environment")
	}
	return &cfg, nil
}
