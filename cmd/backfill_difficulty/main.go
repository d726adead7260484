package main

import (
	"context"
	"log"
	"time"

	"learnpath/internal/config"
	"learnpath/internal/database"
	"learnpath/internal/logger"
	"learnpath/internal/repository"
	"learnpath/internal/service"

	"go.uber.org/zap"
)

// Backfills current_difficulty for students who completed the diagnostic
// before difficulty bands were introduced. Idempotent: only students with a
// NULL band are touched, so reruns are no-ops.
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

	resultRepository := repository.NewSQLXTestResultRepository(db)
	studentRepository := repository.NewSQLXStudentRepository(db)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	results, err := resultRepository.ListMissingDifficulty(ctx)
	if err != nil {
		appLogger.Fatal("Failed to list results missing a difficulty band", zap.Error(err))
	}
	appLogger.Info("Backfilling difficulty bands", zap.Int("count", len(results)))

	var updated, failed int
	for _, result := range results {
		band := service.ClassifyDifficulty(result.Accuracy)
		if err := studentRepository.UpdateDifficulty(ctx, result.StudentID, band); err != nil {
			appLogger.Error("Failed to update student difficulty",
				zap.String("student_id", result.StudentID), zap.Error(err))
			failed++
			continue
		}
		updated++
	}

	appLogger.Info("Difficulty backfill completed",
		zap.Int("updated", updated),
		zap.Int("failed", failed),
	)
}
