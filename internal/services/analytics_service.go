package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/exam-session-service/internal/events"
	"github.com/SAP-F-2025/exam-session-service/internal/exam"
	"github.com/SAP-F-2025/exam-session-service/internal/models"
	"github.com/SAP-F-2025/exam-session-service/internal/repositories"
	"gorm.io/datatypes"
)

// Scope of the analytics row refreshed after every exam.
const (
	AnalyticsChapter    = "Overall"
	AnalyticsSubChapter = "Recent Exam"
)

// AttemptRecorder receives finished attempts.
type AttemptRecorder interface {
	RecordAttempt(ctx context.Context, summary exam.AttemptSummary) error
}

// analyticsService stores the mastery of the latest attempt and announces the
// outcome on the event bus.
type analyticsService struct {
	analytics repositories.StudentAnalyticsRepository
	publisher events.EventPublisher
	logger    *slog.Logger
}

func NewAnalyticsService(analytics repositories.StudentAnalyticsRepository, publisher events.EventPublisher, logger *slog.Logger) AttemptRecorder {
	return &analyticsService{
		analytics: analytics,
		publisher: publisher,
		logger:    logger,
	}
}

// RecordAttempt attempts every step and reports the joined failures.
func (s *analyticsService) RecordAttempt(ctx context.Context, summary exam.AttemptSummary) error {
	var errs []error

	if summary.UserID != "" && s.analytics != nil {
		if err := s.upsertMastery(ctx, summary); err != nil {
			errs = append(errs, err)
		}
	}

	if s.publisher != nil {
		finished := events.NewSessionFinishedEvent(events.SessionFinishedEvent{
			SessionKey:  summary.SessionKey,
			SessionID:   summary.SessionID,
			UserID:      summary.UserID,
			Subject:     summary.Subject,
			Status:      summary.Status,
			TotalScore:  summary.TotalScore,
			MaxScore:    summary.MaxScore,
			Passed:      summary.Passed,
			CompletedAt: summary.CompletedAt,
		})
		if err := s.publisher.PublishExamEvent(ctx, finished); err != nil {
			errs = append(errs, err)
		}

		mastery := events.NewMasteryUpdatedEvent(events.MasteryUpdatedEvent{
			UserID:         summary.UserID,
			SessionID:      summary.SessionID,
			Chapter:        AnalyticsChapter,
			SubChapter:     AnalyticsSubChapter,
			TotalQuestions: summary.Mastery.TotalQuestions,
			CorrectAnswers: summary.Mastery.Correct,
			MasteryLevel:   summary.Mastery.MasteryLevel,
			SkillRadar:     summary.Mastery.SkillRadar,
		})
		if err := s.publisher.PublishExamEvent(ctx, mastery); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (s *analyticsService) upsertMastery(ctx context.Context, summary exam.AttemptSummary) error {
	radar := summary.Mastery.SkillRadar
	if radar == nil {
		radar = []models.SkillLevel{}
	}
	radarJSON, err := json.Marshal(radar)
	if err != nil {
		return fmt.Errorf("failed to encode skill radar: %w", err)
	}

	row := &models.StudentAnalytics{
		UserID:                  summary.UserID,
		Chapter:                 AnalyticsChapter,
		SubChapter:              AnalyticsSubChapter,
		TotalQuestionsAttempted: summary.Mastery.TotalQuestions,
		CorrectAnswers:          summary.Mastery.Correct,
		MasteryLevel:            summary.Mastery.MasteryLevel,
		SkillRadarData:          datatypes.JSON(radarJSON),
		LastUpdated:             summary.CompletedAt,
	}
	if err := s.analytics.Upsert(ctx, row); err != nil {
		return err
	}

	s.logger.Info("Student analytics updated",
		"user_id", summary.UserID,
		"session_id", summary.SessionID,
		"mastery_level", summary.Mastery.MasteryLevel)
	return nil
}
