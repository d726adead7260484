// @title LearnPath API
// @version 1.0
// @description Diagnostic classification and personalized learning path curation for special-education students.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"learnpath/internal/adapter"
	"learnpath/internal/adapter/ranker"
	"learnpath/internal/cache"
	"learnpath/internal/config"
	"learnpath/internal/database"
	"learnpath/internal/domain"
	"learnpath/internal/handler"
	"learnpath/internal/logger"
	"learnpath/internal/middleware"
	"learnpath/internal/repository"
	"learnpath/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("ip", c.IP()),
		)

		return err
	}
}

// newRanker selects the AI ranking backend from configuration. Source "none"
// keeps curation fully deterministic.
func newRanker(cfg *config.Config, appLogger *zap.Logger) (domain.Ranker, error) {
	switch cfg.AI.Source {
	case "ollama":
		httpClient := &http.Client{Timeout: cfg.AI.Timeout}
		llm, err := ollama.New(
			ollama.WithServerURL(cfg.AI.ServerURL),
			ollama.WithModel(cfg.AI.Model),
			ollama.WithHTTPClient(httpClient),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Ollama client: %w", err)
		}
		appLogger.Info("AI ranker initialized",
			zap.String("source", "ollama"),
			zap.String("server_url", cfg.AI.ServerURL),
			zap.String("model", cfg.AI.Model),
		)
		return ranker.NewLLMRanker(llm, cfg.AI.Timeout, cfg.AI.MaxCandidates, appLogger), nil
	case "openai":
		llm, err := openai.New(
			openai.WithToken(cfg.AI.APIKey),
			openai.WithModel(cfg.AI.Model),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
		}
		appLogger.Info("AI ranker initialized",
			zap.String("source", "openai"),
			zap.String("model", cfg.AI.Model),
		)
		return ranker.NewLLMRanker(llm, cfg.AI.Timeout, cfg.AI.MaxCandidates, appLogger), nil
	case "none", "":
		appLogger.Info("AI ranking disabled, paths use base sets only")
		return ranker.NewNoopRanker(), nil
	default:
		return nil, fmt.Errorf("unsupported AI source: %s", cfg.AI.Source)
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Connect to database
	db, err := database.NewSQLXOracleDB(cfg.GetDSN())
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)
	appLogger.Info("Successfully connected to Redis")

	// Initialize AI ranker
	contentRanker, err := newRanker(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize AI ranker", zap.Error(err))
	}

	// Initialize repositories
	var questionSource domain.QuestionSource
	if cfg.Questions.Source == "file" {
		questionSource = repository.NewFileQuestionSource(cfg.Questions.FilePath)
	} else {
		questionSource = repository.NewSQLXQuestionSource(db)
	}
	questionSource = service.NewCachingQuestionSource(questionSource, cacheAdapter, appLogger)

	// Warm the question bank cache. Best effort: a cold cache just means the
	// first submission pays the DB read.
	go func() {
		warmCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := questionSource.Load(warmCtx); err != nil {
			appLogger.Warn("Question bank warm-up failed", zap.Error(err))
		}
	}()

	answerRepository := repository.NewSQLXAnswerSetRepository(db)
	resultRepository := repository.NewSQLXTestResultRepository(db)
	studentRepository := repository.NewSQLXStudentRepository(db)
	contentCatalog := repository.NewSQLXContentCatalog(db)
	pathRepository := repository.NewSQLXStudentPathRepository(db)

	// Initialize services
	diagnosticService := service.NewDiagnosticService(
		questionSource, answerRepository, resultRepository, studentRepository,
		service.DefaultScoringOptions(), appLogger,
	)
	curationService := service.NewCurationService(
		studentRepository, resultRepository, answerRepository, contentCatalog,
		pathRepository, contentRanker, cacheAdapter, cfg.AI.MaxCandidates, appLogger,
	)
	batchService := service.NewBatchService(
		studentRepository, curationService, cfg.Batch.Concurrency, appLogger,
	)

	// Initialize handlers
	diagnosticHandler := handler.NewDiagnosticHandler(diagnosticService)
	pathHandler := handler.NewPathHandler(curationService, batchService)
	validationMiddleware := middleware.NewValidationMiddleware()

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept," + middleware.AdminKeyHeader,
		MaxAge:       300,
	}))
	app.Use(recover.New())

	apiGroup := app.Group("/api/v1")

	studentGroup := apiGroup.Group("/students/:studentID", validationMiddleware.ValidateStudentID())
	studentGroup.Post("/diagnostic", diagnosticHandler.SubmitDiagnostic)
	studentGroup.Get("/diagnostic", diagnosticHandler.GetDiagnosticResult)
	studentGroup.Get("/path", pathHandler.GetPath)
	studentGroup.Post("/path/regenerate", middleware.RequireAdminKey(cfg.Admin.APIKey), pathHandler.RegeneratePath)

	adminGroup := apiGroup.Group("/admin", middleware.RequireAdminKey(cfg.Admin.APIKey))
	adminGroup.Post("/paths/regenerate", pathHandler.RegenerateAllPaths)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", os.Getenv("ENV")))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
