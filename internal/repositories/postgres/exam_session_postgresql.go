package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SAP-F-2025/exam-session-service/internal/models"
	"github.com/SAP-F-2025/exam-session-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ExamSessionPostgreSQL struct {
	db *gorm.DB
}

func NewExamSessionPostgreSQL(db *gorm.DB) repositories.ExamSessionRepository {
	return &ExamSessionPostgreSQL{db: db}
}

func (e *ExamSessionPostgreSQL) Create(ctx context.Context, session *models.ExamSession) error {
	if session.Status == "" {
		session.Status = models.SessionInProgress
	}
	if err := e.db.WithContext(ctx).Create(session).Error; err != nil {
		return fmt.Errorf("failed to create exam session: %w", err)
	}
	return nil
}

func (e *ExamSessionPostgreSQL) GetWithAnswers(ctx context.Context, id uint) (*models.ExamSession, error) {
	var session models.ExamSession
	if err := e.db.WithContext(ctx).
		Preload("Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		First(&session, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get exam session: %w", err)
	}
	return &session, nil
}

func (e *ExamSessionPostgreSQL) ListByUser(ctx context.Context, userID string, limit int) ([]*models.ExamSession, error) {
	var sessions []*models.ExamSession
	query := e.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("started_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("failed to list exam sessions: %w", err)
	}
	return sessions, nil
}

func (e *ExamSessionPostgreSQL) UpsertAnswer(ctx context.Context, answer *models.ExamAnswer) error {
	err := e.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "exam_session_id"}, {Name: "question_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"selected_answer", "is_correct", "time_taken_seconds", "updated_at",
			}),
		}).
		Create(answer).Error
	if err != nil {
		return fmt.Errorf("failed to upsert answer for question %d: %w", answer.QuestionID, err)
	}
	return nil
}

func (e *ExamSessionPostgreSQL) Finalize(ctx context.Context, id uint, outcome repositories.SessionFinalization) error {
	completedAt := outcome.CompletedAt
	if completedAt.IsZero() {
		completedAt = time.Now()
	}
	result := e.db.WithContext(ctx).
		Model(&models.ExamSession{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":             outcome.Status,
			"total_score":        outcome.TotalScore,
			"max_score":          outcome.MaxScore,
			"is_passed":          outcome.IsPassed,
			"time_spent_seconds": outcome.TimeSpentSeconds,
			"completed_at":       completedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to finalize exam session %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}
