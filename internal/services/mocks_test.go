package services

import (
	"context"
	"io"
	"log/slog"

	"github.com/SAP-F-2025/exam-session-service/internal/models"
	"github.com/SAP-F-2025/exam-session-service/internal/repositories"
	"github.com/stretchr/testify/mock"
)

// MockQuestionRepository is a mock implementation of QuestionRepository
type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) ListActiveBySubject(ctx context.Context, subject string) ([]models.Question, error) {
	args := m.Called(ctx, subject)
	return args.Get(0).([]models.Question), args.Error(1)
}

func (m *MockQuestionRepository) GetByIDs(ctx context.Context, ids []uint) ([]models.Question, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]models.Question), args.Error(1)
}

func (m *MockQuestionRepository) CreateBatch(ctx context.Context, questions []*models.Question) error {
	args := m.Called(ctx, questions)
	return args.Error(0)
}

// MockExamSessionRepository is a mock implementation of ExamSessionRepository
type MockExamSessionRepository struct {
	mock.Mock
}

func (m *MockExamSessionRepository) Create(ctx context.Context, session *models.ExamSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockExamSessionRepository) GetWithAnswers(ctx context.Context, id uint) (*models.ExamSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExamSession), args.Error(1)
}

func (m *MockExamSessionRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*models.ExamSession, error) {
	args := m.Called(ctx, userID, limit)
	return args.Get(0).([]*models.ExamSession), args.Error(1)
}

func (m *MockExamSessionRepository) UpsertAnswer(ctx context.Context, answer *models.ExamAnswer) error {
	args := m.Called(ctx, answer)
	return args.Error(0)
}

func (m *MockExamSessionRepository) Finalize(ctx context.Context, id uint, outcome repositories.SessionFinalization) error {
	args := m.Called(ctx, id, outcome)
	return args.Error(0)
}

// MockStudentAnalyticsRepository is a mock implementation of StudentAnalyticsRepository
type MockStudentAnalyticsRepository struct {
	mock.Mock
}

func (m *MockStudentAnalyticsRepository) Upsert(ctx context.Context, analytics *models.StudentAnalytics) error {
	args := m.Called(ctx, analytics)
	return args.Error(0)
}

func (m *MockStudentAnalyticsRepository) GetByScope(ctx context.Context, userID, chapter, subChapter string) (*models.StudentAnalytics, error) {
	args := m.Called(ctx, userID, chapter, subChapter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StudentAnalytics), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func choiceQuestion(id uint, chapter, correct string) models.Question {
	return models.Question{
		ID:            id,
		Subject:       "Matematika",
		Chapter:       chapter,
		Type:          models.SingleChoice,
		QuestionText:  "Soal nomor satu",
		OptionA:       "1",
		OptionB:       "2",
		OptionC:       "3",
		OptionD:       "4",
		CorrectAnswer: strPtr(correct),
		ScoringWeight: 2,
		IsActive:      true,
	}
}
