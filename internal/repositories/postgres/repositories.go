package postgres

import (
	"fmt"

	"github.com/SAP-F-2025/exam-session-service/internal/models"
	"github.com/SAP-F-2025/exam-session-service/internal/repositories"
	"gorm.io/gorm"
)

// NewRepositories builds every gorm-backed store over db.
func NewRepositories(db *gorm.DB) *repositories.Repositories {
	return &repositories.Repositories{
		Questions: NewQuestionPostgreSQL(db),
		Sessions:  NewExamSessionPostgreSQL(db),
		Analytics: NewStudentAnalyticsPostgreSQL(db),
	}
}

// AutoMigrate creates or updates the tables the exam flow writes to.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Question{},
		&models.ExamSession{},
		&models.ExamAnswer{},
		&models.StudentAnalytics{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
