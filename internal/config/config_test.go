package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		DatabaseURL:       "postgres://localhost/moods",
		JWTSecret:         "test-secret-1234567890",
		JWTAlgorithm:      "HS256",
		OpenRouterBaseURL: "https://openrouter.ai/api/v1",
		OpenRouterAPIKey:  "sk-or-test",
		AIConnectTimeout:  5 * time.Second,
		AIReadTimeout:     20 * time.Second,
		PlanHorizonDays:   7,
	}
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"AI_CONNECT_TIMEOUT_SECONDS", "AI_READ_TIMEOUT_SECONDS", "PLAN_HORIZON_DAYS",
		"PLAN_LANGUAGE", "OPENROUTER_AUX_MODELS", "AI_RATE_LIMIT_PER_SECOND",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, 5*time.Second, cfg.AIConnectTimeout)
	assert.Equal(t, 20*time.Second, cfg.AIReadTimeout)
	assert.Equal(t, 7, cfg.PlanHorizonDays)
	assert.Equal(t, "en", cfg.PlanLanguage)
	assert.Nil(t, cfg.OpenRouterAuxModels)
	assert.Zero(t, cfg.AIRateLimitPerSec)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("AI_CONNECT_TIMEOUT_SECONDS", "3")
	t.Setenv("AI_READ_TIMEOUT_SECONDS", "1m")
	t.Setenv("AI_RATE_LIMIT_PER_SECOND", "0.5")
	t.Setenv("OPENROUTER_AUX_MODELS", " a:free, ,b:free ")
	t.Setenv("PLAN_LANGUAGE", "sr")
	t.Setenv("LOG_REDACT", "false")

	cfg := Load()
	assert.Equal(t, 3*time.Second, cfg.AIConnectTimeout)
	assert.Equal(t, time.Minute, cfg.AIReadTimeout)
	assert.Equal(t, 0.5, cfg.AIRateLimitPerSec)
	assert.Equal(t, []string{"a:free", "b:free"}, cfg.OpenRouterAuxModels)
	assert.Equal(t, "sr", cfg.PlanLanguage)
	assert.False(t, cfg.LogRedact)
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("AI_READ_TIMEOUT_SECONDS", "soon")
	t.Setenv("AI_RATE_BURST", "many")

	cfg := Load()
	assert.Equal(t, 20*time.Second, cfg.AIReadTimeout)
	assert.Equal(t, 1, cfg.AIRateBurst)
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "missing database", mutate: func(c *Config) { c.DatabaseURL = " " }},
		{name: "missing secret", mutate: func(c *Config) { c.JWTSecret = "" }},
		{name: "default secret", mutate: func(c *Config) { c.JWTSecret = "change-me-in-production" }},
		{name: "short secret", mutate: func(c *Config) { c.JWTSecret = "short" }},
		{name: "missing api key", mutate: func(c *Config) { c.OpenRouterAPIKey = "" }},
		{name: "zero read timeout", mutate: func(c *Config) { c.AIReadTimeout = 0 }},
		{name: "negative rate", mutate: func(c *Config) { c.AIRateLimitPerSec = -1 }},
		{name: "horizon too long", mutate: func(c *Config) { c.PlanHorizonDays = 40 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestIsProduction(t *testing.T) {
	assert.True(t, Config{AppEnv: "Production"}.IsProduction())
	assert.False(t, Config{AppEnv: "local"}.IsProduction())
}
