package repositories

import (
	"context"

	"github.com/SAP-F-2025/exam-session-service/internal/models"
)

// QuestionRepository is the read side of the question store used by exams.
type QuestionRepository interface {
	// ListActiveBySubject returns active questions in creation order.
	ListActiveBySubject(ctx context.Context, subject string) ([]models.Question, error)
	GetByIDs(ctx context.Context, ids []uint) ([]models.Question, error)

	// Bulk operations
	CreateBatch(ctx context.Context, questions []*models.Question) error
}
