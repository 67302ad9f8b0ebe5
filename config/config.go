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

	DatabaseURL string `env:"DATABASE_URL,required" validate:"required"`

	WorkerCount         int `env:"WORKER_COUNT" envDefault:"5" validate:"min=1,max=100"`
	PollIntervalSeconds int `env:"POLL_INTERVAL_SECONDS" envDefault:"5" validate:"min=1,max=60"`
	StaleRunningMinutes int `env:"STALE_RUNNING_MINUTES" envDefault:"10" validate:"min=1,max=1440"`

	// ExecutionMinSleepMS/ExecutionMaxSleepMS and FailureProbability parameterize
	// the Simulated Action Runner variant; QuoteEndpoint backs the
	// DefaultFetch variant.
	ExecutionMinSleepMS int     `env:"EXECUTION_MIN_SLEEP_MS" envDefault:"0"`
	ExecutionMaxSleepMS int     `env:"EXECUTION_MAX_SLEEP_MS" envDefault:"0"`
	FailureProbability  float64 `env:"FAILURE_PROBABILITY" envDefault:"0" validate:"min=0,max=1"`
	QuoteEndpoint       string  `env:"QUOTE_ENDPOINT" envDefault:"https://api.adviceslip.com/advice"`

	// CronSecret gates POST /api/cron/execute-pending-jobs. Empty disables
	// the endpoint (503) rather than accepting unauthenticated requests.
	CronSecret  string `env:"CRON_SECRET"`
	CronMaxJobs int    `env:"CRON_MAX_JOBS" envDefault:"10" validate:"min=1,max=1000"`

	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info" validate:"required,oneof=debug info warn error"`

	APITitle   string `env:"API_TITLE" envDefault:"job-scheduler"`
	APIVersion string `env:"API_VERSION" envDefault:"dev"`
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

// SlogLevel converts the LOG_LEVEL string to a slog.Level.
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
