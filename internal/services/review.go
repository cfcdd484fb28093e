package services

import (
	"context"
	"fmt"
	"time"

	"github.com/SAP-F-2025/exam-session-service/internal/exam"
	"github.com/SAP-F-2025/exam-session-service/internal/models"
	"github.com/SAP-F-2025/exam-session-service/internal/repositories"
)

type AnswerReview struct {
	QuestionID       uint                `json:"question_id"`
	QuestionType     models.QuestionType `json:"question_type"`
	Chapter          string              `json:"chapter,omitempty"`
	SelectedAnswer   string              `json:"selected_answer"`
	Answer           exam.Answer         `json:"answer"`
	StoredCorrect    bool                `json:"stored_correct"`
	Correct          bool                `json:"correct"`
	Weight           int                 `json:"weight"`
	Earned           int                 `json:"earned"`
	TimeTakenSeconds int                 `json:"time_taken_seconds"`
}

// SessionReview is a persisted session with every stored answer decoded and
// scored again against the current answer key.
type SessionReview struct {
	Session       *models.ExamSession `json:"session"`
	Answers       []AnswerReview      `json:"answers"`
	RescoredTotal int                 `json:"rescored_total"`
	Discrepancies int                 `json:"discrepancies"`
}

func (s *examService) ReviewSession(ctx context.Context, userID string, sessionID uint) (review *SessionReview, err error) {
	start := time.Now()
	defer func() {
		s.logger.LogOperation(ctx, "review_session", userID, "", time.Since(start), err)
	}()

	session, err := s.repos.Sessions.GetWithAnswers(ctx, sessionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session.UserID != userID {
		return nil, NewPermissionError(userID, "exam session", "review")
	}

	ids := make([]uint, 0, len(session.Answers))
	for _, a := range session.Answers {
		ids = append(ids, a.QuestionID)
	}
	questions, err := s.repos.Questions.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}
	byID := make(map[uint]*models.Question, len(questions))
	for i := range questions {
		byID[questions[i].ID] = &questions[i]
	}

	review = &SessionReview{Answers: make([]AnswerReview, 0, len(session.Answers))}
	for _, stored := range session.Answers {
		item := AnswerReview{
			QuestionID:       stored.QuestionID,
			SelectedAnswer:   stored.SelectedAnswer,
			StoredCorrect:    stored.IsCorrect,
			TimeTakenSeconds: stored.TimeTakenSeconds,
		}
		// Answers to deleted questions are listed but not scored.
		if q, ok := byID[stored.QuestionID]; ok {
			item.QuestionType = q.Kind()
			item.Chapter = q.Chapter
			item.Answer = exam.ParseAnswer(q.Kind(), stored.SelectedAnswer)
			item.Correct = exam.IsCorrect(q, item.Answer)
			item.Weight = q.ScoringWeight
			if item.Correct {
				item.Earned = item.Weight
			}
		}
		if item.Correct != item.StoredCorrect {
			review.Discrepancies++
		}
		review.RescoredTotal += item.Earned
		review.Answers = append(review.Answers, item)
	}

	session.Answers = nil
	review.Session = session
	return review, nil
}
