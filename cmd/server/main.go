package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/paperprep/paperprep-backend/internal/config"
	"github.com/paperprep/paperprep-backend/internal/database"
	"github.com/paperprep/paperprep-backend/internal/handler"
	"github.com/paperprep/paperprep-backend/internal/logger"
	"github.com/paperprep/paperprep-backend/internal/repository"
	"github.com/paperprep/paperprep-backend/internal/router"
	"github.com/paperprep/paperprep-backend/internal/service"
	"github.com/paperprep/paperprep-backend/internal/validator"
	"github.com/paperprep/paperprep-backend/internal/worker"
	"github.com/rs/zerolog"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting PaperPrep Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	userRepo := repository.NewUserRepository(pool)
	paperRepo := repository.NewPaperRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	attemptRepo := repository.NewAttemptRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, rdb)
	userService := service.NewUserService(userRepo, authService, log)
	catalogService := service.NewCatalogService(paperRepo, questionRepo, rdb, cfg, log)
	sessionService := service.NewExamSessionService(catalogService, attemptRepo, rdb, cfg, log)
	predictionService := service.NewPredictionService(cfg, log)
	mediaService := service.NewMediaService(cfg, log)

	if !predictionService.Enabled() {
		log.Warn().Msg("LLM_API_KEY not set, predictions are disabled")
	}

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:       handler.NewAuthHandler(authService, userService),
		Paper:      handler.NewPaperHandler(catalogService),
		Attempt:    handler.NewAttemptHandler(sessionService),
		Prediction: handler.NewPredictionHandler(predictionService),
		Admin:      handler.NewAdminHandler(catalogService),
		Media:      handler.NewMediaHandler(mediaService),
		WS:         handler.NewWSHandler(sessionService, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	var workers sync.WaitGroup

	attemptWorker := worker.NewAttemptWorker(attemptRepo, rdb, worker.DefaultBatchConfig, log)
	answerWorker := worker.NewAnswerWorker(attemptRepo, rdb, worker.DefaultBatchConfig, log)

	expiryWorker := worker.NewExpiryWorker(sessionService, worker.DefaultExpiryInterval, log)

	workers.Add(3)
	go func() {
		defer workers.Done()
		attemptWorker.Start(workerCtx)
	}()
	go func() {
		defer workers.Done()
		answerWorker.Start(workerCtx)
	}()
	go func() {
		defer workers.Done()
		expiryWorker.Start(workerCtx)
	}()

	// ─── Prewarm Redis Caches ─────────────────────────────────────────
	// Load every paper's questions into Redis before accepting traffic so
	// the first wave of attempts does not stampede PostgreSQL.
	if err := catalogService.PrewarmAllCaches(ctx); err != nil {
		log.Warn().Err(err).Msg("Cache prewarm failed")
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(ctx, authService, handlers, cfg, log)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop background workers and wait for queues to drain.
	workerCancel()
	workers.Wait()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
