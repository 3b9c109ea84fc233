package config_test

import (
	"testing"
	"time"

	"storefront/internal/config"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLoad_Defaults(t *testing.T) {
	v := viper.New()
	config.SetDefaults(v)

	cfg, err := config.Load(v)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_Overrides(t *testing.T) {
	v := viper.New()
	config.SetDefaults(v)
	v.Set("DATABASE_DRIVER", "SQLite")
	v.Set("DATABASE_DSN", "file::memory:")
	v.Set("TOKEN_TTL", "15m")

	cfg, err := config.Load(v)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, "file::memory:", cfg.DatabaseDSN)
	assert.Equal(t, 15*time.Minute, cfg.TokenTTL)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]struct {
		key   string
		value any
		want  string
	}{
		"driver": {"DATABASE_DRIVER", "mysql", "unsupported DATABASE_DRIVER"},
		"secret": {"JWT_SECRET", "", "JWT_SECRET must not be empty"},
		"ttl":    {"TOKEN_TTL", "0s", "TOKEN_TTL must be positive"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			v := viper.New()
			config.SetDefaults(v)
			v.Set(tc.key, tc.value)

			_, err := config.Load(v)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("APP_PORT", ":9090")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := config.FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.AppPort)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestNewLogger(t *testing.T) {
	logger, err := config.NewLogger(&config.Config{LogLevel: "warn"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	_, err = config.NewLogger(&config.Config{LogLevel: "loud"})
	assert.Error(t, err)
}
