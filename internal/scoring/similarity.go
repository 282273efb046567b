package scoring

import (
	"errors"
	"fmt"
	"math"
)

var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// CosineSimilarity returns the cosine of the angle between a and b clamped to
// [0,1]. A zero vector yields 0.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return math.Max(0, math.Min(1, sim)), nil
}

// SimilarityPercent scales a [0,1] similarity to a percentage with 2 decimals.
func SimilarityPercent(sim float64) float64 {
	return Round(sim*100, 2)
}

func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
