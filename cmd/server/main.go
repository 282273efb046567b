package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fadilmartias/resume-screener/internal/config"
	"github.com/fadilmartias/resume-screener/internal/domain/fiber/handler"
	"github.com/fadilmartias/resume-screener/internal/middleware"
	"github.com/fadilmartias/resume-screener/internal/repository"
	"github.com/fadilmartias/resume-screener/internal/util"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Could not load .env file")
	}

	app := fx.New(
		fx.Provide(
			config.LoadAppConfig,
			config.LoadDBConfig,
			config.LoadGeminiConfig,
			config.LoadOpenRouterConfig,
			config.LoadStorageConfig,
			config.LoadRedisConfig,
			config.LoadNATSConfig,
			config.LoadEmailConfig,
			config.LoadScreeningConfig,
			newLogger,
			newDatabase,
			newEmbeddingCache,
			newSessionStore,
			newGeminiService,
			newTextGenerator,
			newEvaluator,
			newEmbeddingService,
			newBlobStorage,
			newEmailSender,
			newEventPublisher,
			newSummaryRenderer,
			repository.NewUploadRepository,
			newScreeningUsecase,
			newUploadUsecase,
			newSessionUsecase,
			handler.NewUploadHandler,
			handler.NewSessionHandler,
			handler.NewScreenerHandler,
			newFiberApp,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
		fx.Invoke(registerServer),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal(err)
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		log.Fatal(err)
	}
}

func newFiberApp(cfg *config.AppConfig, log *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:   cfg.Name,
		BodyLimit: 16 * 1024 * 1024,
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			var e *fiber.Error
			if errors.As(err, &e) {
				return util.ErrorResponse(ctx, util.ErrorResponseFormat{
					Code:    e.Code,
					Message: e.Message,
				})
			}
			log.Error("unhandled request error", zap.String("path", ctx.Path()), zap.Error(err))
			return util.ErrorResponse(ctx, util.ErrorResponseFormat{}, err)
		},
	})

	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))
	app.Use(recover.New(recover.Config{
		EnableStackTrace: !cfg.IsProduction(),
	}))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(pprof.New(pprof.Config{
		Next: func(c *fiber.Ctx) bool {
			return cfg.IsProduction()
		},
	}))
	app.Use(healthcheck.New())
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))
	app.Use(middleware.RateLimiter(50, 1*time.Minute))

	return app
}

func registerServer(lc fx.Lifecycle, app *fiber.App, h *handler.ScreenerHandler, cfg *config.AppConfig, log *zap.Logger) {
	h.RegisterRoutes(app)

	monitorCtx, stopMonitor := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				log.Info("server running", zap.String("port", cfg.Port))
				if err := app.Listen(cfg.Port); err != nil {
					log.Error("server stopped", zap.Error(err))
				}
			}()
			go monitorGoroutines(monitorCtx, log)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			stopMonitor()
			return app.ShutdownWithContext(ctx)
		},
	})
}

func monitorGoroutines(ctx context.Context, log *zap.Logger) {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			log.Debug("runtime stats", zap.Int("goroutines", runtime.NumGoroutine()))
		}
	}
}
