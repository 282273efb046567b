package config

import (
	"strings"
	"sync"
)

const (
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"

	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

type ScreeningConfig struct {
	Concurrency        int
	EvaluatorProvider  string
	EmbeddingCache     string
	EmbeddingCacheSize int
	SessionStore       string
	MaxSessions        int
	UploadMaxBytes     int64
}

var (
	screeningConfig *ScreeningConfig
	screeningOnce   sync.Once
)

func LoadScreeningConfig() *ScreeningConfig {
	screeningOnce.Do(func() {
		screeningConfig = newScreeningConfigFromEnv()
	})
	return screeningConfig
}

func newScreeningConfigFromEnv() *ScreeningConfig {
	cfg := &ScreeningConfig{
		Concurrency:        getEnvInt("SCREENER_CONCURRENCY", 15),
		EvaluatorProvider:  strings.ToLower(getEnvString("EVALUATOR_PROVIDER", ProviderGemini)),
		EmbeddingCache:     strings.ToLower(getEnvString("EMBEDDING_CACHE", BackendMemory)),
		EmbeddingCacheSize: getEnvInt("EMBEDDING_CACHE_SIZE", 10000),
		SessionStore:       strings.ToLower(getEnvString("SESSION_STORE", BackendMemory)),
		MaxSessions:        getEnvInt("SESSION_MAX", 100),
		UploadMaxBytes:     getEnvInt64("UPLOAD_MAX_BYTES", 5*1024*1024),
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 15
	}
	if cfg.MaxSessions < 0 {
		cfg.MaxSessions = 0
	}
	return cfg
}

// NeedsDatabase reports whether any configured backend is Postgres.
func (c *ScreeningConfig) NeedsDatabase() bool {
	return c.EmbeddingCache == BackendPostgres || c.SessionStore == BackendPostgres
}
