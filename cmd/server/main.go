package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SAP-F-2025/exam-session-service/internal/auth"
	"github.com/SAP-F-2025/exam-session-service/internal/cache"
	"github.com/SAP-F-2025/exam-session-service/internal/config"
	"github.com/SAP-F-2025/exam-session-service/internal/events"
	"github.com/SAP-F-2025/exam-session-service/internal/handlers"
	pgstore "github.com/SAP-F-2025/exam-session-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/exam-session-service/internal/services"
	"github.com/SAP-F-2025/exam-session-service/internal/utils"
	"github.com/SAP-F-2025/exam-session-service/internal/validator"
	"github.com/SAP-F-2025/exam-session-service/pkg"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := utils.NewLogger(cfg.Environment)
	slogger := utils.ToSlogLogger(logger)

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.LogError(err, "Failed to initialize database")
		os.Exit(1)
	}
	repos := pgstore.NewRepositories(db)

	redisClient, err := pkg.NewRedisClient(context.Background(), cfg)
	if err != nil {
		logger.Warn("Redis unavailable, loading questions without cache", "error", err)
	} else {
		repos.Questions = cache.NewQuestionCache(repos.Questions, cache.NewRedisCache(redisClient, slogger), cfg.QuestionCacheTTL, slogger)
	}

	publisher, err := cfg.Events.CreateEventPublisher(slogger)
	if err != nil {
		logger.LogError(err, "Failed to create event publisher, falling back to mock")
		publisher = events.NewMockEventPublisher(slogger)
	}

	examService := services.NewExamService(repos, publisher, services.ExamSettings{
		Subject:                cfg.Exam.Subject,
		QuestionSetID:          cfg.Exam.QuestionSetID,
		PassThreshold:          cfg.Exam.PassThreshold,
		DefaultQuestionMinutes: cfg.Exam.DefaultQuestionMinutes,
		WarningSeconds:         cfg.Exam.WarningSeconds,
		Retention:              cfg.Exam.ResultRetention,
	}, slogger)

	identity := auth.HeaderMiddleware()
	if cfg.Auth.Enabled {
		identity = auth.Middleware(auth.NewCasdoorParser(auth.Config{
			Endpoint:     cfg.Auth.Endpoint,
			ClientID:     cfg.Auth.ClientID,
			ClientSecret: cfg.Auth.ClientSecret,
			Certificate:  cfg.Auth.Certificate,
			Organization: cfg.Auth.OrganizationName,
			Application:  cfg.Auth.ApplicationName,
		}), slogger)
	} else {
		logger.Warn("Token validation disabled, trusting X-User-ID header")
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		gin.Recovery(),
		utils.RequestID(),
		utils.LoggerMiddleware(logger),
		utils.ContextLogger(logger),
	)
	handlers.NewHandlerManager(examService, validator.New(), identity, logger).SetupRoutes(router)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Exam session service listening", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.LogError(err, "HTTP server failed")
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.LogError(err, "HTTP server shutdown failed")
	}
	// Live sessions stop ticking here; their queued writes are flushed first.
	if err := examService.Shutdown(ctx); err != nil {
		logger.LogError(err, "Exam service shutdown failed")
	}
	if err := publisher.Close(); err != nil {
		logger.LogError(err, "Failed to close event publisher")
	}
	if redisClient != nil {
		redisClient.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
