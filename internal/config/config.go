package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// Core
	DatabaseURL string `env:"DATABASE_URL,required"`
	Port        int    `env:"PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`

	// Platform fees (percent of gross reward)
	FeePercentFree    float64 `env:"FEE_PERCENT_FREE" envDefault:"10"`
	FeePercentPro     float64 `env:"FEE_PERCENT_PRO" envDefault:"7"`
	FeePercentPremium float64 `env:"FEE_PERCENT_PREMIUM" envDefault:"5"`
	ProcessingPercent float64 `env:"PROCESSING_PERCENT" envDefault:"2.9"`

	// Scheduler: expire-tasks and escrow-release endpoints require this token
	// when set. Empty means open (development only).
	SchedulerToken string `env:"SCHEDULER_TOKEN"`

	// In-process expiry sweep interval. Zero disables the ticker; an external
	// scheduler hitting POST /solo-tasks/expire-tasks is the intended driver.
	ExpireInterval time.Duration `env:"EXPIRE_INTERVAL" envDefault:"0"`

	// Session lifetime for issued bearer tokens.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"720h"`

	// Telegram admin alerts (optional)
	AlertBotToken string `env:"ALERT_BOT_TOKEN"`
	AlertChatID   int64  `env:"ALERT_CHAT_ID"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
