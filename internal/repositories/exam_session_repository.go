package repositories

import (
	"context"
	"time"

	"github.com/SAP-F-2025/exam-session-service/internal/models"
)

// ExamSessionRepository records attempts and their answers.
type ExamSessionRepository interface {
	Create(ctx context.Context, session *models.ExamSession) error
	GetWithAnswers(ctx context.Context, id uint) (*models.ExamSession, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]*models.ExamSession, error)

	// UpsertAnswer creates or replaces the answer for (session, question).
	UpsertAnswer(ctx context.Context, answer *models.ExamAnswer) error

	// Finalize writes the terminal outcome of a session.
	Finalize(ctx context.Context, id uint, outcome SessionFinalization) error
}

type SessionFinalization struct {
	Status           models.SessionStatus
	TotalScore       int
	MaxScore         int
	IsPassed         bool
	TimeSpentSeconds int
	CompletedAt      time.Time
}

// StudentAnalyticsRepository stores per-student mastery rows.
type StudentAnalyticsRepository interface {
	// Upsert replaces the row identified by (user, chapter, sub chapter).
	Upsert(ctx context.Context, analytics *models.StudentAnalytics) error
	GetByScope(ctx context.Context, userID, chapter, subChapter string) (*models.StudentAnalytics, error)
}
