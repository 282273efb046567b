package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosineSimilarity(t *testing.T) {
	sim, err := CosineSimilarity([]float32{1, 0}, []float32{1, 0})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, sim, 1e-9)

	sim, err = CosineSimilarity([]float32{1, 0}, []float32{0, 1})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, sim, 1e-9)

	sim, err = CosineSimilarity([]float32{1, 1}, []float32{1, 0})
	require.NoError(t, err)
	assert.InDelta(t, 0.70710678, sim, 1e-6)

	sim, err = CosineSimilarity([]float32{1, 0}, []float32{-1, 0})
	require.NoError(t, err)
	assert.Equal(t, 0.0, sim, "negative similarity is clamped")

	sim, err = CosineSimilarity([]float32{0, 0}, []float32{1, 0})
	require.NoError(t, err)
	assert.Equal(t, 0.0, sim)

	_, err = CosineSimilarity([]float32{1}, []float32{1, 2})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestCosineSimilaritySymmetric(t *testing.T) {
	a := []float32{0.3, 0.2, 0.9}
	b := []float32{0.1, 0.8, 0.4}

	ab, err := CosineSimilarity(a, b)
	require.NoError(t, err)
	ba, err := CosineSimilarity(b, a)
	require.NoError(t, err)
	assert.Equal(t, ab, ba)
}

func TestSimilarityPercent(t *testing.T) {
	assert.Equal(t, 70.71, SimilarityPercent(0.70710678))
	assert.Equal(t, 100.0, SimilarityPercent(1))
	assert.Equal(t, 0.0, SimilarityPercent(0))
	assert.Equal(t, 12.35, Round(12.345678, 2))
}
