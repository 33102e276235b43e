package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigMethods(t *testing.T) {
	t.Run("Addr returns formatted port", func(t *testing.T) {
		cfg := &Config{Port: 3000}
		assert.Equal(t, ":3000", cfg.Addr())
	})

	t.Run("DedupeTTL converts seconds to duration", func(t *testing.T) {
		cfg := &Config{DedupeTTLSeconds: 900}
		assert.Equal(t, 900*time.Second, cfg.DedupeTTL())
	})

	t.Run("Retention converts days to duration", func(t *testing.T) {
		cfg := &Config{RetentionDays: 30}
		assert.Equal(t, 30*24*time.Hour, cfg.Retention())
	})
}

func TestValidate(t *testing.T) {
	t.Run("rejects single-participant threshold", func(t *testing.T) {
		cfg := &Config{MinParticipants: 1, RetentionDays: 90}
		assert.Error(t, cfg.Validate())
	})

	t.Run("accepts higher thresholds", func(t *testing.T) {
		cfg := &Config{MinParticipants: 3, RetentionDays: 90}
		assert.NoError(t, cfg.Validate())
	})

	t.Run("rejects zero retention", func(t *testing.T) {
		cfg := &Config{MinParticipants: 2, RetentionDays: 0}
		assert.Error(t, cfg.Validate())
	})
}

func TestLoad(t *testing.T) {
	vars := []string{
		"PORT", "DATABASE_URL", "REDIS_URL", "BOT_TOKEN", "BOT_USERNAME",
		"WEBHOOK_SECRET", "MIN_PARTICIPANTS", "DEDUPE_TTL_SECONDS",
		"RETENTION_DAYS", "LOG_LEVEL",
	}

	originalEnv := map[string]string{}
	for _, k := range vars {
		originalEnv[k] = os.Getenv(k)
	}
	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	setRequired := func() {
		os.Setenv("DATABASE_URL", "postgres://localhost/santa_test")
		os.Setenv("REDIS_URL", "redis://localhost:6379")
		os.Setenv("BOT_TOKEN", "123456:test-token")
		os.Setenv("BOT_USERNAME", "santa_test_bot")
	}

	t.Run("loads config with defaults", func(t *testing.T) {
		for _, k := range vars {
			os.Unsetenv(k)
		}
		setRequired()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 8080, cfg.Port)
		assert.Equal(t, "postgres://localhost/santa_test", cfg.DatabaseURL)
		assert.Equal(t, 2, cfg.MinParticipants)
		assert.Equal(t, 900, cfg.DedupeTTLSeconds)
		assert.Equal(t, 90, cfg.RetentionDays)
		assert.Equal(t, "info", cfg.LogLevel)
	})

	t.Run("loads custom values", func(t *testing.T) {
		setRequired()
		os.Setenv("PORT", "3000")
		os.Setenv("MIN_PARTICIPANTS", "3")
		os.Setenv("LOG_LEVEL", "debug")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 3000, cfg.Port)
		assert.Equal(t, 3, cfg.MinParticipants)
		assert.Equal(t, "debug", cfg.LogLevel)
	})

	t.Run("fails without required BOT_TOKEN", func(t *testing.T) {
		setRequired()
		os.Unsetenv("BOT_TOKEN")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("fails without required DATABASE_URL", func(t *testing.T) {
		setRequired()
		os.Unsetenv("DATABASE_URL")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("fails on invalid MIN_PARTICIPANTS", func(t *testing.T) {
		setRequired()
		os.Setenv("MIN_PARTICIPANTS", "1")

		_, err := Load()
		assert.Error(t, err)
	})
}
