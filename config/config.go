package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	Env  string `env:"ENV" envDefault:"local" validate:"required,oneof=local staging production"`
	Port string `env:"PORT" envDefault:"8080" validate:"required"`

	// PublicHost is compared against the local hostname set to pick the
	// upstream base URL, mirroring how the pages selected their API host.
	PublicHost   string `env:"PUBLIC_HOST" envDefault:"localhost" validate:"required"`
	LocalAPIBase string `env:"LOCAL_API_BASE_URL" envDefault:"http://localhost:3000/api" validate:"required,url"`
	APIBase      string `env:"API_BASE_URL" envDefault:"https://lifelink-backend.vercel.app/api" validate:"required,url"`

	SessionSecret    string `env:"SESSION_SECRET,required" validate:"required,min=32"`
	RedisURL         string `env:"REDIS_URL"`
	SessionIdleHours int    `env:"SESSION_IDLE_HOURS" envDefault:"72" validate:"min=1,max=720"`

	PollIntervalSec int `env:"POLL_INTERVAL_SEC" envDefault:"30" validate:"min=5,max=300"`

	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
}

func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
