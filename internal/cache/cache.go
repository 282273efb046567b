package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

var (
	ErrNotFound   = errors.New("key not found in cache")
	ErrInvalidKey = errors.New("invalid cache key")
)

// EmbeddingCache stores embedding vectors keyed by the exact source text.
type EmbeddingCache interface {
	Get(ctx context.Context, text string) ([]float32, error)

	Set(ctx context.Context, text string, vector []float32) error

	Clear(ctx context.Context) error

	Close() error
}

type Options struct {
	DefaultTTL time.Duration

	MaxEntries int

	RedisURL string

	RedisPassword string

	RedisDB int
}

func DefaultOptions() Options {
	return Options{
		DefaultTTL: 24 * time.Hour,
		MaxEntries: 10000,
	}
}

// Key hashes the exact text. No trimming or case folding is applied.
func Key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// Memory is an in-process LRU embedding cache whose entries expire after a TTL.
type Memory struct {
	lru *expirable.LRU[string, []float32]
}

// NewMemory creates a cache holding at most maxEntries vectors for ttl each.
// Zero for either disables that limit.
func NewMemory(maxEntries int, ttl time.Duration) *Memory {
	return &Memory{lru: expirable.NewLRU[string, []float32](maxEntries, nil, ttl)}
}

func (m *Memory) Get(_ context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrInvalidKey
	}
	v, ok := m.lru.Get(Key(text))
	if !ok {
		return nil, ErrNotFound
	}
	return cloneVector(v), nil
}

func (m *Memory) Set(_ context.Context, text string, vector []float32) error {
	if text == "" {
		return ErrInvalidKey
	}
	m.lru.Add(Key(text), cloneVector(vector))
	return nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.lru.Purge()
	return nil
}

func (m *Memory) Len() int {
	return m.lru.Len()
}

func (m *Memory) Close() error {
	return nil
}

func cloneVector(v []float32) []float32 {
	out := make([]float32, len(v))
	copy(out, v)
	return out
}
