package services

import (
	"context"
	"fmt"
	"time"

	"github.com/SAP-F-2025/exam-session-service/internal/models"
	"github.com/SAP-F-2025/exam-session-service/internal/repositories"
)

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// ListSessions returns the student's stored attempts, newest first.
func (s *examService) ListSessions(ctx context.Context, userID string, limit int) (sessions []*models.ExamSession, err error) {
	start := time.Now()
	defer func() {
		s.logger.LogOperation(ctx, "list_sessions", userID, "", time.Since(start), err)
	}()

	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	limit = min(limit, MaxHistoryLimit)

	sessions, err = s.repos.Sessions.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	if sessions == nil {
		sessions = []*models.ExamSession{}
	}
	return sessions, nil
}

// GetMastery returns the analytics row written after the student's most
// recent finished attempt.
func (s *examService) GetMastery(ctx context.Context, userID string) (analytics *models.StudentAnalytics, err error) {
	start := time.Now()
	defer func() {
		s.logger.LogOperation(ctx, "get_mastery", userID, "", time.Since(start), err)
	}()

	analytics, err = s.repos.Analytics.GetByScope(ctx, userID, AnalyticsChapter, AnalyticsSubChapter)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("no finished exam yet: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load mastery: %w", err)
	}
	return analytics, nil
}
