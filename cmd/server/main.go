package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	httpAdapter "github.com/tripfund/tripfund/internal/adapter/http"
	"github.com/tripfund/tripfund/internal/adapter/http/handler"
	postgresRepo "github.com/tripfund/tripfund/internal/adapter/repository/postgres"
	redisRepo "github.com/tripfund/tripfund/internal/adapter/repository/redis"
	"github.com/tripfund/tripfund/internal/infrastructure/config"
	"github.com/tripfund/tripfund/internal/infrastructure/logger"
	"github.com/tripfund/tripfund/internal/infrastructure/metrics"
	"github.com/tripfund/tripfund/internal/infrastructure/postgres"
	"github.com/tripfund/tripfund/internal/infrastructure/redis"
	"github.com/tripfund/tripfund/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	appLogger := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	log.Logger = appLogger

	ctx := context.Background()

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	tripRepo := postgresRepo.NewTripRepository(pool)
	memberRepo := postgresRepo.NewMemberRepository(pool)
	paymentRepo := postgresRepo.NewPaymentRepository(pool)
	snapshotRepo := postgresRepo.NewSnapshotRepository(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier(appLogger)

	var cache usecase.Cache
	if cfg.StatisticsCacheEnabled {
		cache = redisRepo.NewCache(redisClient)
	}

	// Initialize use cases
	engineMetrics := metrics.New()
	tripUC := usecase.NewTripUseCase(txManager, tripRepo, memberRepo, idGen)
	memberUC := usecase.NewMemberUseCase(txManager, tripRepo, memberRepo, retrier, idGen, cache)
	paymentUC := usecase.NewPaymentUseCase(txManager, memberRepo, paymentRepo, idGen, cache)
	balanceUC := usecase.NewBalanceUseCase(snapshotRepo, engineMetrics)
	settlementUC := usecase.NewSettlementUseCase(snapshotRepo, engineMetrics)
	statisticsUC := usecase.NewStatisticsUseCase(snapshotRepo, cache, engineMetrics)

	// Initialize handlers
	tripHandler := handler.NewTripHandler(tripUC)
	memberHandler := handler.NewMemberHandler(memberUC)
	paymentHandler := handler.NewPaymentHandler(paymentUC)
	balanceHandler := handler.NewBalanceHandler(balanceUC)
	settlementHandler := handler.NewSettlementHandler(settlementUC)
	statisticsHandler := handler.NewStatisticsHandler(statisticsUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		TripHandler:       tripHandler,
		MemberHandler:     memberHandler,
		PaymentHandler:    paymentHandler,
		BalanceHandler:    balanceHandler,
		SettlementHandler: settlementHandler,
		StatisticsHandler: statisticsHandler,
		HealthHandler:     healthHandler,
		IdempotencyStore:  idempotencyStore,
		Logger:            appLogger,
		RateLimitPerSec:   cfg.RateLimitPerSecond,
		RateLimitBurst:    cfg.RateLimitBurst,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
