package repository

import (
	"fmt"

	"github.com/fadilmartias/resume-screener/internal/config"
	"github.com/fadilmartias/resume-screener/internal/model"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// ConnectDB opens the Postgres pool and migrates the screener tables.
func ConnectDB(cfg *config.DBConfig, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("could not connect to database: %w", err)
	}
	pgDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("could not get database instance: %w", err)
	}
	pgDB.SetMaxIdleConns(cfg.MaxIdleConns)
	pgDB.SetMaxOpenConns(cfg.MaxOpenConns)
	pgDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return nil, fmt.Errorf("enable pgvector: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Info("database ready", zap.String("host", cfg.Host), zap.String("db", cfg.Name))
	return db, nil
}

// Migrate creates or updates the session, candidate and embedding tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.SessionRecord{}, &model.CandidateRecord{}, &model.EmbeddingRecord{}); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// CloseDB releases the underlying connection pool.
func CloseDB(db *gorm.DB) error {
	pgDB, err := db.DB()
	if err != nil {
		return err
	}
	return pgDB.Close()
}
