package repository

import (
	"context"
	"errors"
	"time"

	"github.com/fadilmartias/resume-screener/internal/cache"
	"github.com/fadilmartias/resume-screener/internal/model"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EmbeddingRepository is a Postgres backed cache.EmbeddingCache. Vectors are
// stored in a pgvector column keyed by the hash of the exact text.
type EmbeddingRepository struct {
	db *gorm.DB
}

func NewEmbeddingRepository(db *gorm.DB) *EmbeddingRepository {
	return &EmbeddingRepository{db}
}

var _ cache.EmbeddingCache = (*EmbeddingRepository)(nil)

func (r *EmbeddingRepository) Get(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, cache.ErrInvalidKey
	}
	var rec model.EmbeddingRecord
	err := r.db.WithContext(ctx).First(&rec, "text_hash = ?", cache.Key(text)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, cache.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec.Embedding.Slice(), nil
}

func (r *EmbeddingRepository) Set(ctx context.Context, text string, vector []float32) error {
	if text == "" {
		return cache.ErrInvalidKey
	}
	rec := model.EmbeddingRecord{
		TextHash:  cache.Key(text),
		Embedding: pgvector.NewVector(vector),
		CreatedAt: time.Now(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&rec).Error
}

func (r *EmbeddingRepository) Clear(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&model.EmbeddingRecord{}).Error
}

// Close is a no-op; the pool belongs to whoever opened the database.
func (r *EmbeddingRepository) Close() error {
	return nil
}
