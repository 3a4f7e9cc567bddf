package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// Server
	Port        string `env:"PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`

	// JWT
	JWTSecret string `env:"JWT_SECRET"`

	// Demo sessions
	TrialDuration      time.Duration `env:"TRIAL_DURATION" envDefault:"60s"`
	DemoPlantLimit     int           `env:"DEMO_PLANT_LIMIT" envDefault:"2"`
	ExpiryPollInterval time.Duration `env:"EXPIRY_POLL_INTERVAL" envDefault:"1s"`
	TimerTickInterval  time.Duration `env:"TIMER_TICK_INTERVAL" envDefault:"500ms"`
	SessionIdleTTL     time.Duration `env:"SESSION_IDLE_TTL" envDefault:"24h"`

	// Tracing
	TracingEnabled  bool   `env:"TRACING_ENABLED" envDefault:"false"`
	TracingExporter string `env:"TRACING_EXPORTER" envDefault:"stdout"`
	ServiceName     string `env:"SERVICE_NAME" envDefault:"plantally"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}
	if cfg.TrialDuration <= 0 || cfg.TrialDuration%time.Second != 0 {
		return nil, fmt.Errorf("TRIAL_DURATION must be a positive whole number of seconds, got %s", cfg.TrialDuration)
	}
	if cfg.DemoPlantLimit <= 0 {
		return nil, fmt.Errorf("DEMO_PLANT_LIMIT must be positive, got %d", cfg.DemoPlantLimit)
	}
	if cfg.ExpiryPollInterval <= 0 || cfg.TimerTickInterval <= 0 {
		return nil, fmt.Errorf("poll intervals must be positive")
	}

	return cfg, nil
}
