package main

import (
	"context"
	"fmt"
	"time"

	"github.com/fadilmartias/resume-screener/internal/cache"
	rediscache "github.com/fadilmartias/resume-screener/internal/cache/redis"
	"github.com/fadilmartias/resume-screener/internal/config"
	"github.com/fadilmartias/resume-screener/internal/logger"
	"github.com/fadilmartias/resume-screener/internal/repository"
	"github.com/fadilmartias/resume-screener/internal/service"
	"github.com/fadilmartias/resume-screener/internal/usecase"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newLogger(lc fx.Lifecycle, cfg *config.AppConfig) (*zap.Logger, error) {
	log, err := logger.New(cfg.LogJSON, cfg.LogDebug)
	if err != nil {
		return nil, err
	}
	log = log.With(zap.String("app", cfg.Name), zap.String("env", cfg.Env))
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			_ = log.Sync()
			return nil
		},
	})
	return log, nil
}

// newDatabase connects only when a Postgres backend is configured; otherwise
// it provides a nil *gorm.DB.
func newDatabase(lc fx.Lifecycle, cfg *config.DBConfig, sc *config.ScreeningConfig, log *zap.Logger) (*gorm.DB, error) {
	if !sc.NeedsDatabase() {
		return nil, nil
	}
	db, err := repository.ConnectDB(cfg, log)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return repository.CloseDB(db)
		},
	})
	return db, nil
}

func newEmbeddingCache(lc fx.Lifecycle, sc *config.ScreeningConfig, rc *config.RedisConfig, db *gorm.DB, log *zap.Logger) (cache.EmbeddingCache, error) {
	var c cache.EmbeddingCache
	switch sc.EmbeddingCache {
	case config.BackendRedis:
		opts := cache.DefaultOptions()
		opts.RedisURL = rc.Addr
		opts.RedisPassword = rc.Password
		opts.RedisDB = rc.DB
		opts.DefaultTTL = rc.CacheTTL
		rdb := rediscache.New(opts)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx); err != nil {
			return nil, fmt.Errorf("connecting to redis at %s: %w", rc.Addr, err)
		}
		c = rdb
	case config.BackendPostgres:
		c = repository.NewEmbeddingRepository(db)
	case config.BackendMemory, "":
		c = cache.NewMemory(sc.EmbeddingCacheSize, rc.CacheTTL)
	default:
		return nil, fmt.Errorf("unknown EMBEDDING_CACHE %q", sc.EmbeddingCache)
	}

	log.Info("embedding cache ready", zap.String("backend", sc.EmbeddingCache))
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return c.Close()
		},
	})
	return c, nil
}

func newSessionStore(sc *config.ScreeningConfig, db *gorm.DB) (repository.SessionStore, error) {
	switch sc.SessionStore {
	case config.BackendPostgres:
		return repository.NewGormSessionStore(db, sc.MaxSessions), nil
	case config.BackendMemory, "":
		return repository.NewMemorySessionStore(sc.MaxSessions), nil
	}
	return nil, fmt.Errorf("unknown SESSION_STORE %q", sc.SessionStore)
}

func newGeminiService(cfg *config.GeminiConfig, log *zap.Logger) (*service.GeminiService, error) {
	return service.NewGeminiService(context.Background(), cfg, log)
}

// newTextGenerator picks the model backing evaluation and role extraction.
// Embeddings always come from Gemini.
func newTextGenerator(sc *config.ScreeningConfig, gemini *service.GeminiService, orCfg *config.OpenRouterConfig, log *zap.Logger) (service.TextGenerator, error) {
	switch sc.EvaluatorProvider {
	case config.ProviderOpenRouter:
		return service.NewOpenRouterService(orCfg, log)
	case config.ProviderGemini, "":
		return gemini, nil
	}
	return nil, fmt.Errorf("unknown EVALUATOR_PROVIDER %q", sc.EvaluatorProvider)
}

func newEvaluator(gen service.TextGenerator, log *zap.Logger) *service.LLMEvaluator {
	return service.NewLLMEvaluator(gen, log)
}

func newEmbeddingService(gemini *service.GeminiService, c cache.EmbeddingCache, log *zap.Logger) *service.EmbeddingService {
	return service.NewEmbeddingService(gemini, c, log)
}

func newBlobStorage(cfg *config.StorageConfig, log *zap.Logger) (service.BlobStorage, error) {
	if !cfg.Enabled() {
		log.Info("AZURE_STORAGE_CONNECTION_STRING not set, blob storage disabled")
		return nil, nil
	}
	return service.NewAzureBlobStorage(cfg, log)
}

// newEmailSender degrades to no sender when Gmail credentials are unusable;
// the email endpoints then answer 503.
func newEmailSender(cfg *config.EmailConfig, log *zap.Logger) service.EmailSender {
	sender, err := service.NewGmailSender(context.Background(), cfg, log)
	if err != nil {
		log.Warn("gmail sender disabled", zap.Error(err))
		return nil
	}
	return sender
}

func newEventPublisher(lc fx.Lifecycle, cfg *config.NATSConfig, log *zap.Logger) (service.EventPublisher, error) {
	p, err := service.NewEventPublisher(cfg, log)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			p.Close()
			return nil
		},
	})
	return p, nil
}

func newSummaryRenderer() service.SummaryRenderer {
	return service.NewPDFRenderer()
}

func newScreeningUsecase(
	sc *config.ScreeningConfig,
	sessions repository.SessionStore,
	uploads *repository.UploadRepository,
	blobs service.BlobStorage,
	embeddings *service.EmbeddingService,
	evaluator *service.LLMEvaluator,
	events service.EventPublisher,
	log *zap.Logger,
) *usecase.ScreeningUsecase {
	return usecase.NewScreeningUsecase(usecase.ScreeningDeps{
		Sessions:    sessions,
		Uploads:     uploads,
		Blobs:       blobs,
		Embedder:    embeddings,
		Evaluator:   evaluator,
		Roles:       evaluator,
		Events:      events,
		Logger:      log.Named("screening"),
		Concurrency: sc.Concurrency,
	})
}

func newUploadUsecase(sc *config.ScreeningConfig, uploads *repository.UploadRepository, blobs service.BlobStorage, embeddings *service.EmbeddingService, log *zap.Logger) *usecase.UploadUsecase {
	return usecase.NewUploadUsecase(uploads, blobs, embeddings, sc.UploadMaxBytes, log.Named("upload"))
}

func newSessionUsecase(sessions repository.SessionStore, renderer service.SummaryRenderer, mailer service.EmailSender, log *zap.Logger) *usecase.SessionUsecase {
	return usecase.NewSessionUsecase(sessions, renderer, mailer, log.Named("session"))
}
