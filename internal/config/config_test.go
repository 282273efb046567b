package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScreeningConfigDefaults(t *testing.T) {
	cfg := newScreeningConfigFromEnv()

	assert.Equal(t, 15, cfg.Concurrency)
	assert.Equal(t, ProviderGemini, cfg.EvaluatorProvider)
	assert.Equal(t, BackendMemory, cfg.EmbeddingCache)
	assert.Equal(t, BackendMemory, cfg.SessionStore)
	assert.Equal(t, 100, cfg.MaxSessions)
	assert.Equal(t, int64(5*1024*1024), cfg.UploadMaxBytes)
	assert.False(t, cfg.NeedsDatabase())
}

func TestScreeningConfigFromEnv(t *testing.T) {
	t.Setenv("SCREENER_CONCURRENCY", "4")
	t.Setenv("EVALUATOR_PROVIDER", "OpenRouter")
	t.Setenv("SESSION_STORE", "postgres")
	t.Setenv("SESSION_MAX", "-1")

	cfg := newScreeningConfigFromEnv()

	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, ProviderOpenRouter, cfg.EvaluatorProvider)
	assert.Equal(t, 0, cfg.MaxSessions)
	assert.True(t, cfg.NeedsDatabase())
}

func TestScreeningConfigRejectsBadConcurrency(t *testing.T) {
	t.Setenv("SCREENER_CONCURRENCY", "0")
	assert.Equal(t, 15, newScreeningConfigFromEnv().Concurrency)

	t.Setenv("SCREENER_CONCURRENCY", "lots")
	assert.Equal(t, 15, newScreeningConfigFromEnv().Concurrency)
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("X_DURATION", "2m")
	t.Setenv("X_BOOL", "true")
	t.Setenv("X_EMPTY", "")

	assert.Equal(t, 2*time.Minute, getEnvDuration("X_DURATION", time.Second))
	assert.Equal(t, time.Second, getEnvDuration("X_MISSING", time.Second))
	assert.True(t, getEnvBool("X_BOOL", false))
	assert.Equal(t, "fallback", getEnvString("X_EMPTY", "fallback"))
}

func TestDBConfigDSN(t *testing.T) {
	cfg := &DBConfig{Host: "db", Port: "5432", User: "u", Password: "p", Name: "n", SSLMode: "disable", TimeZone: "UTC"}
	assert.Equal(t, "host=db user=u password=p dbname=n port=5432 sslmode=disable TimeZone=UTC", cfg.DSN())
}
