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

type StudentAnalyticsPostgreSQL struct {
	db *gorm.DB
}

func NewStudentAnalyticsPostgreSQL(db *gorm.DB) repositories.StudentAnalyticsRepository {
	return &StudentAnalyticsPostgreSQL{db: db}
}

func (s *StudentAnalyticsPostgreSQL) Upsert(ctx context.Context, analytics *models.StudentAnalytics) error {
	if analytics.LastUpdated.IsZero() {
		analytics.LastUpdated = time.Now()
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "chapter"}, {Name: "sub_chapter"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"total_questions_attempted", "correct_answers", "mastery_level",
				"skill_radar_data", "last_updated",
			}),
		}).
		Create(analytics).Error
	if err != nil {
		return fmt.Errorf("failed to upsert student analytics: %w", err)
	}
	return nil
}

func (s *StudentAnalyticsPostgreSQL) GetByScope(ctx context.Context, userID, chapter, subChapter string) (*models.StudentAnalytics, error) {
	var analytics models.StudentAnalytics
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND chapter = ? AND sub_chapter = ?", userID, chapter, subChapter).
		First(&analytics).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get student analytics: %w", err)
	}
	return &analytics, nil
}
