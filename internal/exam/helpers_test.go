package exam

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/SAP-F-2025/exam-session-service/internal/models"
	"gorm.io/datatypes"
)

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func jsonOf(v any) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return datatypes.JSON(b)
}

func singleQuestion(id uint, correct string, weight int) models.Question {
	return models.Question{
		ID:            id,
		Subject:       "Matematika",
		Chapter:       "Aljabar",
		Type:          models.SingleChoice,
		QuestionText:  "Berapakah \\(2+2\\)?",
		OptionA:       "3",
		OptionB:       "4",
		OptionC:       "5",
		OptionD:       "6",
		CorrectAnswer: strPtr(correct),
		ScoringWeight: weight,
	}
}

func multiQuestion(id uint, correct []string, weight int) models.Question {
	return models.Question{
		ID:             id,
		Subject:        "Matematika",
		Chapter:        "Bilangan",
		Type:           models.MultiSelect,
		QuestionText:   "Pilih bilangan prima",
		OptionA:        "2",
		OptionB:        "4",
		OptionC:        "5",
		OptionD:        "9",
		CorrectAnswers: jsonOf(correct),
		PartialCredit:  true,
		ScoringWeight:  weight,
	}
}

func categoryQuestion(id uint, mapping map[string]bool, statements []string, weight int) models.Question {
	return models.Question{
		ID:              id,
		Subject:         "Matematika",
		Chapter:         "Geometri",
		Type:            models.CategoryTrueFalse,
		QuestionText:    "Tentukan benar atau salah",
		CategoryOptions: jsonOf(statements),
		CategoryMapping: jsonOf(mapping),
		ScoringWeight:   weight,
	}
}

type recordingStore struct {
	mu        sync.Mutex
	sessionID uint
	createErr error
	upsertErr error
	finalErr  error
	starts    []SessionStart
	upserts   []AnswerRecord
	outcomes  []SessionOutcome
}

func (s *recordingStore) CreateSession(_ context.Context, start SessionStart) (uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.starts = append(s.starts, start)
	if s.createErr != nil {
		return 0, s.createErr
	}
	return s.sessionID, nil
}

func (s *recordingStore) UpsertAnswer(_ context.Context, record AnswerRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upserts = append(s.upserts, record)
	return s.upsertErr
}

func (s *recordingStore) FinalizeSession(_ context.Context, outcome SessionOutcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outcomes = append(s.outcomes, outcome)
	return s.finalErr
}

type recordingSink struct {
	mu        sync.Mutex
	err       error
	summaries []AttemptSummary
}

func (s *recordingSink) RecordAttempt(_ context.Context, summary AttemptSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaries = append(s.summaries, summary)
	return s.err
}
