package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port             int    `env:"PORT" envDefault:"8080"`
	DatabaseURL      string `env:"DATABASE_URL,required"`
	RedisURL         string `env:"REDIS_URL,required"`
	BotToken         string `env:"BOT_TOKEN,required"`
	BotUsername      string `env:"BOT_USERNAME,required"`
	WebhookSecret    string `env:"WEBHOOK_SECRET"`
	MinParticipants  int    `env:"MIN_PARTICIPANTS" envDefault:"2"`
	DedupeTTLSeconds int    `env:"DEDUPE_TTL_SECONDS" envDefault:"900"`
	RetentionDays    int    `env:"RETENTION_DAYS" envDefault:"90"`
	MigrationsPath   string `env:"MIGRATIONS_PATH" envDefault:"migrations"`
	LogLevel         string `env:"LOG_LEVEL" envDefault:"info"`
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) DedupeTTL() time.Duration {
	return time.Duration(c.DedupeTTLSeconds) * time.Second
}

func (c *Config) Retention() time.Duration {
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}

func (c *Config) Validate() error {
	if c.MinParticipants < 2 {
		return fmt.Errorf("MIN_PARTICIPANTS must be at least 2, got %d", c.MinParticipants)
	}
	if c.RetentionDays < 1 {
		return fmt.Errorf("RETENTION_DAYS must be at least 1, got %d", c.RetentionDays)
	}
	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
