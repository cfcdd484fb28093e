package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/exam-session-service/internal/models"
	"github.com/SAP-F-2025/exam-session-service/internal/repositories"
)

const questionKeyPrefix = "exam:questions:"

// QuestionCache serves active question lists from the cache and falls back to
// the wrapped repository. Cache failures never fail a read.
type QuestionCache struct {
	repositories.QuestionRepository
	cache  CacheService
	ttl    time.Duration
	logger *slog.Logger
}

func NewQuestionCache(repo repositories.QuestionRepository, cache CacheService, ttl time.Duration, logger *slog.Logger) *QuestionCache {
	return &QuestionCache{
		QuestionRepository: repo,
		cache:              cache,
		ttl:                ttl,
		logger:             logger,
	}
}

func (c *QuestionCache) ListActiveBySubject(ctx context.Context, subject string) ([]models.Question, error) {
	key := questionKeyPrefix + subject

	var questions []models.Question
	err := c.cache.Get(ctx, key, &questions)
	if err == nil {
		return questions, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		c.logger.Warn("Question cache read failed", "subject", subject, "error", err)
	}

	questions, err = c.QuestionRepository.ListActiveBySubject(ctx, subject)
	if err != nil {
		return nil, err
	}
	// An empty list is not cached so newly published questions show up at once.
	if len(questions) > 0 {
		if err := c.cache.Set(ctx, key, questions, c.ttl); err != nil {
			c.logger.Warn("Question cache write failed", "subject", subject, "error", err)
		}
	}
	return questions, nil
}

func (c *QuestionCache) CreateBatch(ctx context.Context, questions []*models.Question) error {
	if err := c.QuestionRepository.CreateBatch(ctx, questions); err != nil {
		return err
	}
	if err := c.cache.DeletePattern(ctx, questionKeyPrefix+"*"); err != nil {
		c.logger.Warn("Question cache invalidation failed", "error", err)
	}
	return nil
}
