package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fadilmartias/resume-screener/internal/cache"
	"github.com/fadilmartias/resume-screener/internal/logger"
	"github.com/fadilmartias/resume-screener/internal/scoring"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// EmbeddingService embeds text through a provider, caching vectors by the
// exact text. Concurrent misses for the same text share one provider call.
type EmbeddingService struct {
	provider EmbeddingProvider
	cache    cache.EmbeddingCache
	log      *zap.Logger
	group    singleflight.Group
}

func NewEmbeddingService(provider EmbeddingProvider, c cache.EmbeddingCache, log *zap.Logger) *EmbeddingService {
	if c == nil {
		opts := cache.DefaultOptions()
		c = cache.NewMemory(opts.MaxEntries, opts.DefaultTTL)
	}
	return &EmbeddingService{provider: provider, cache: c, log: logger.OrNop(log)}
}

func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("text for embedding cannot be empty")
	}

	if vec, err := s.cache.Get(ctx, text); err == nil {
		return vec, nil
	} else if !errors.Is(err, cache.ErrNotFound) {
		s.log.Warn("embedding cache read failed", zap.Error(err))
	}

	v, err, shared := s.group.Do(cache.Key(text), func() (any, error) {
		vec, err := s.provider.GenerateEmbedding(ctx, text)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, text, vec); err != nil {
			s.log.Warn("embedding cache write failed", zap.Error(err))
		}
		return vec, nil
	})
	if err != nil {
		return nil, fmt.Errorf("embed: %w", err)
	}
	if shared {
		s.log.Debug("embedding call shared")
	}

	vec := v.([]float32)
	out := make([]float32, len(vec))
	copy(out, vec)
	return out, nil
}

// Similarity returns the cosine similarity of the embeddings of a and b.
func (s *EmbeddingService) Similarity(ctx context.Context, a, b string) (float64, error) {
	va, err := s.Embed(ctx, a)
	if err != nil {
		return 0, err
	}
	vb, err := s.Embed(ctx, b)
	if err != nil {
		return 0, err
	}
	return scoring.CosineSimilarity(va, vb)
}

func (s *EmbeddingService) ClearCache(ctx context.Context) error {
	return s.cache.Clear(ctx)
}
