package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/fadilmartias/resume-screener/internal/cache"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// openTestDB migrates a throwaway SQLite database with the same models the
// Postgres backend uses.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "screener.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = CloseDB(db)
	})

	require.NoError(t, Migrate(db))
	return db
}

func TestEmbeddingRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewEmbeddingRepository(openTestDB(t))

	_, err := repo.Get(ctx, "senior go engineer")
	assert.ErrorIs(t, err, cache.ErrNotFound)

	require.NoError(t, repo.Set(ctx, "senior go engineer", []float32{0.25, -0.5, 1}))
	got, err := repo.Get(ctx, "senior go engineer")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.25, -0.5, 1}, got)

	// upsert on the same text
	require.NoError(t, repo.Set(ctx, "senior go engineer", []float32{0.75}))
	got, err = repo.Get(ctx, "senior go engineer")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.75}, got)

	_, err = repo.Get(ctx, "Senior go engineer")
	assert.ErrorIs(t, err, cache.ErrNotFound, "keys are exact text")

	assert.ErrorIs(t, repo.Set(ctx, "", []float32{1}), cache.ErrInvalidKey)
	_, err = repo.Get(ctx, "")
	assert.ErrorIs(t, err, cache.ErrInvalidKey)

	require.NoError(t, repo.Clear(ctx))
	_, err = repo.Get(ctx, "senior go engineer")
	assert.ErrorIs(t, err, cache.ErrNotFound)
	assert.NoError(t, repo.Close())
}
