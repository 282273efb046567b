package config

import (
	"os"
	"sync"
	"time"
)

type GeminiConfig struct {
	APIKey         string
	Model          string
	EmbeddingModel string
	MaxRetries     int
	RequestTimeout time.Duration
}

var (
	geminiConfig *GeminiConfig
	geminiOnce   sync.Once
)

func LoadGeminiConfig() *GeminiConfig {
	geminiOnce.Do(func() {
		geminiConfig = &GeminiConfig{
			APIKey:         os.Getenv("GEMINI_API_KEY"),
			Model:          getEnvString("GEMINI_MODEL", "gemini-2.5-flash"),
			EmbeddingModel: getEnvString("GEMINI_EMBEDDING_MODEL", "gemini-embedding-001"),
			MaxRetries:     getEnvInt("GEMINI_MAX_RETRIES", 3),
			RequestTimeout: getEnvDuration("GEMINI_REQUEST_TIMEOUT", 90*time.Second),
		}
	})
	return geminiConfig
}
