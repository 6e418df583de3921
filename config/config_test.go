package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	cases := map[string]time.Duration{
		"15m": 15 * time.Minute,
		"30d": 30 * 24 * time.Hour,
		"1h":  time.Hour,
		"-1s": -time.Second,
	}
	for in, want := range cases {
		got, err := ParseDuration(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseDuration("xd")
	assert.Error(t, err)
}

func TestLoadConfig_RefreshSecretFallsBack(t *testing.T) {
	t.Setenv("JWT_SECRET", "access-secret")
	t.Setenv("JWT_REFRESH_SECRET", "")
	t.Setenv("JWT_REFRESH_EXPIRES_IN", "7d")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "access-secret", cfg.JWT.RefreshSecret)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessExpiresIn)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshExpiresIn)
	assert.Equal(t, time.Hour, cfg.Sweeper.Interval)
}

func TestLoadConfig_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestGetEnvAsSlice(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092 ,")
	assert.Equal(t, []string{"a:9092", "b:9092"}, getEnvAsSlice("KAFKA_BROKERS", nil))
}
