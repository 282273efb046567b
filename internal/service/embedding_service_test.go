package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fadilmartias/resume-screener/internal/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	calls   atomic.Int32
	delay   time.Duration
	vectors map[string][]float32
	err     error
}

func (p *stubProvider) GenerateEmbedding(_ context.Context, text string) ([]float32, error) {
	p.calls.Add(1)
	if p.delay > 0 {
		time.Sleep(p.delay)
	}
	if p.err != nil {
		return nil, p.err
	}
	if v, ok := p.vectors[text]; ok {
		return v, nil
	}
	return []float32{1, 0}, nil
}

type failingCache struct{}

func (failingCache) Get(context.Context, string) ([]float32, error) {
	return nil, errors.New("cache down")
}

func (failingCache) Set(context.Context, string, []float32) error {
	return errors.New("cache down")
}

func (failingCache) Clear(context.Context) error { return nil }

func (failingCache) Close() error { return nil }

func TestEmbedCachesByExactText(t *testing.T) {
	p := &stubProvider{}
	svc := NewEmbeddingService(p, cache.NewMemory(10, 0), nil)
	ctx := context.Background()

	_, err := svc.Embed(ctx, "golang")
	require.NoError(t, err)
	_, err = svc.Embed(ctx, "golang")
	require.NoError(t, err)
	assert.Equal(t, int32(1), p.calls.Load())

	// no normalisation: whitespace and case make a different key
	_, err = svc.Embed(ctx, "golang ")
	require.NoError(t, err)
	_, err = svc.Embed(ctx, "Golang")
	require.NoError(t, err)
	assert.Equal(t, int32(3), p.calls.Load())

	require.NoError(t, svc.ClearCache(ctx))
	_, err = svc.Embed(ctx, "golang")
	require.NoError(t, err)
	assert.Equal(t, int32(4), p.calls.Load())
}

func TestEmbedCollapsesConcurrentMisses(t *testing.T) {
	p := &stubProvider{delay: 50 * time.Millisecond}
	svc := NewEmbeddingService(p, cache.NewMemory(10, 0), nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Embed(context.Background(), "same text")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), p.calls.Load())
}

func TestEmbedBypassesBrokenCache(t *testing.T) {
	p := &stubProvider{}
	svc := NewEmbeddingService(p, failingCache{}, nil)

	v, err := svc.Embed(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 0}, v)
}

func TestEmbedProviderError(t *testing.T) {
	boom := errors.New("quota")
	svc := NewEmbeddingService(&stubProvider{err: boom}, nil, nil)

	_, err := svc.Embed(context.Background(), "text")
	assert.ErrorIs(t, err, boom)

	_, err = svc.Embed(context.Background(), "")
	assert.Error(t, err)
}

func TestSimilarity(t *testing.T) {
	p := &stubProvider{vectors: map[string][]float32{
		"a": {1, 0},
		"b": {0, 1},
		"c": {1, 0},
	}}
	svc := NewEmbeddingService(p, nil, nil)
	ctx := context.Background()

	sim, err := svc.Similarity(ctx, "a", "c")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, sim, 1e-9)

	sim, err = svc.Similarity(ctx, "a", "b")
	require.NoError(t, err)
	assert.InDelta(t, 0.0, sim, 1e-9)
}
