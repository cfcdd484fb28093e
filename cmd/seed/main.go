// Command seed imports a YAML question file into the question store.
//
//	seed -file questions.yaml
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/SAP-F-2025/exam-session-service/internal/cache"
	"github.com/SAP-F-2025/exam-session-service/internal/config"
	"github.com/SAP-F-2025/exam-session-service/internal/questionbank"
	pgstore "github.com/SAP-F-2025/exam-session-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/exam-session-service/internal/utils"
	"github.com/SAP-F-2025/exam-session-service/internal/validator"
	"github.com/SAP-F-2025/exam-session-service/pkg"
)

func main() {
	path := flag.String("file", "questions.yaml", "question file to import")
	timeout := flag.Duration("timeout", time.Minute, "import timeout")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := utils.NewLogger(cfg.Environment)
	slogger := utils.ToSlogLogger(logger)

	f, err := os.Open(*path)
	if err != nil {
		logger.LogError(err, "Failed to open question file", "file", *path)
		os.Exit(1)
	}
	questions, err := questionbank.Load(f)
	f.Close()
	if err != nil {
		logger.LogError(err, "Failed to parse question file", "file", *path)
		os.Exit(1)
	}

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.LogError(err, "Failed to initialize database")
		os.Exit(1)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()
	repos := pgstore.NewRepositories(db)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	// Going through the cache drops stale subject lists held by running servers.
	if redisClient, err := pkg.NewRedisClient(ctx, cfg); err == nil {
		defer redisClient.Close()
		repos.Questions = cache.NewQuestionCache(repos.Questions, cache.NewRedisCache(redisClient, slogger), cfg.QuestionCacheTTL, slogger)
	} else {
		logger.Warn("Redis unavailable, cached question lists will expire on their own", "error", err)
	}

	if err := questionbank.Import(ctx, repos.Questions, validator.New(), questions); err != nil {
		logger.LogError(err, "Import failed", "file", *path)
		cancel()
		os.Exit(1)
	}
	logger.Info("Questions imported", "file", *path, "count", len(questions), "subject", questions[0].Subject)
}
