package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/prepdeck/interview-server/internal/config"
	"github.com/prepdeck/interview-server/internal/generator"
	"github.com/prepdeck/interview-server/internal/httpapi"
	"github.com/prepdeck/interview-server/internal/repository"
	"github.com/prepdeck/interview-server/internal/service"
	"github.com/prepdeck/interview-server/pkg/cache"
	dbbuilder "github.com/prepdeck/interview-server/pkg/database"
	"github.com/prepdeck/interview-server/pkg/httpserver"
)

type App struct {
	logger     *zap.Logger
	dbPool     *sql.DB
	memCache   *cache.Memory
	redisCache *cache.Redis
	gemini     *generator.Gemini
	httpServer *httpserver.Server
}

func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	dbPool, err := dbbuilder.New(
		dbbuilder.WithDriver(cfg.DBDriver),
		dbbuilder.WithDataSource(cfg.DBPath),
	)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}
	logger.Info("Database pool initialized", zap.String("path", cfg.DBPath))

	if err := repository.Migrate(ctx, dbPool); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	memCache := cache.NewMemory()

	// Redis is optional: without it each instance serves responses from
	// the service layer directly.
	var redisCache *cache.Redis
	var responseCache httpapi.Cacher
	if cfg.RedisAddr != "" {
		redisCache, err = cache.NewRedis(ctx, cache.WithAddress(cfg.RedisAddr))
		if err != nil {
			return nil, fmt.Errorf("cache init failed: %w", err)
		}
		responseCache = redisCache
		logger.Info("Response cache initialized", zap.String("addr", cfg.RedisAddr))
	}

	interviewRepo := repository.NewInterviewRepository(dbPool)
	challengeRepo := repository.NewChallengeRepository(dbPool)

	var gemini *generator.Gemini
	var challengeGen service.ChallengeGenerator
	if cfg.GeminiAPIKey != "" {
		gemini, err = generator.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, logger)
		if err != nil {
			return nil, fmt.Errorf("generator init failed: %w", err)
		}
		challengeGen = gemini
		logger.Info("Gemini generator initialized", zap.String("model", cfg.GeminiModel))
	} else {
		challengeGen = generator.NewStatic()
		logger.Info("No Gemini API key set, using static challenge generator")
	}

	analyticsService := service.NewAnalyticsService(interviewRepo, challengeRepo, logger)
	challengeService := service.NewChallengeService(challengeRepo, interviewRepo, memCache, challengeGen, logger)

	handlers := httpapi.NewHTTPHandlers(analyticsService, challengeService, responseCache, logger, cfg.ResponseTTL)
	mux := http.NewServeMux()
	handlers.Register(mux)

	httpServer, err := httpserver.New(mux,
		httpserver.WithPort(cfg.HTTPPort),
		httpserver.WithLogger(logger),
		httpserver.WithLogging(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP server: %w", err)
	}

	return &App{
		logger:     logger,
		dbPool:     dbPool,
		memCache:   memCache,
		redisCache: redisCache,
		gemini:     gemini,
		httpServer: httpServer,
	}, nil
}

// Run starts the application and blocks until a shutdown signal is received.
func (a *App) Run() error {
	a.logger.Info("application starting")

	a.httpServer.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	a.logger.Info("application shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	a.httpServer.Stop(ctx)

	a.memCache.Close()
	if a.redisCache != nil {
		if err := a.redisCache.Close(); err != nil {
			a.logger.Error("cache shutdown error", zap.Error(err))
		}
	}
	if a.gemini != nil {
		if err := a.gemini.Close(); err != nil {
			a.logger.Error("generator shutdown error", zap.Error(err))
		}
	}
	if err := a.dbPool.Close(); err != nil {
		a.logger.Error("database shutdown error", zap.Error(err))
	}

	select {
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			a.logger.Warn("shutdown completed but deadline exceeded")
		}
	default:
		a.logger.Info("graceful shutdown completed successfully")
	}

	_ = a.logger.Sync()
	return nil
}
