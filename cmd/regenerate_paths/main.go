package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"learnpath/internal/adapter"
	"learnpath/internal/adapter/ranker"
	"learnpath/internal/cache"
	"learnpath/internal/config"
	"learnpath/internal/database"
	"learnpath/internal/logger"
	"learnpath/internal/repository"
	"learnpath/internal/service"

	"go.uber.org/zap"
)

// Operational batch regeneration, the CLI counterpart of the admin HTTP
// endpoint. Meant for scheduled runs after catalog updates. AI ranking is
// deliberately not wired here: batch runs stay deterministic and cheap.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Logger)
	appLogger := logger.Get()
	defer logger.Sync()

	db, err := database.NewSQLXOracleDB(cfg.GetDSN())
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)

	answerRepository := repository.NewSQLXAnswerSetRepository(db)
	resultRepository := repository.NewSQLXTestResultRepository(db)
	studentRepository := repository.NewSQLXStudentRepository(db)
	contentCatalog := repository.NewSQLXContentCatalog(db)
	pathRepository := repository.NewSQLXStudentPathRepository(db)

	curationService := service.NewCurationService(
		studentRepository, resultRepository, answerRepository, contentCatalog,
		pathRepository, ranker.NewNoopRanker(), cacheAdapter, cfg.AI.MaxCandidates, appLogger,
	)
	batchService := service.NewBatchService(
		studentRepository, curationService, cfg.Batch.Concurrency, appLogger,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	report, err := batchService.RegenerateAll(ctx)
	if err != nil {
		appLogger.Fatal("Batch regeneration failed", zap.Error(err))
	}

	appLogger.Info("Batch regeneration report",
		zap.Int("succeeded", report.Succeeded),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", len(report.Failed)),
	)
	if len(report.Failed) > 0 {
		os.Exit(1)
	}
}
