package validator

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/SAP-F-2025/exam-session-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

type commandPayload struct {
	Type   string `json:"type" validate:"required,command_type"`
	Letter string `json:"letter" validate:"option_letter"`
	Kind   string `json:"kind" validate:"omitempty,question_type"`
}

func TestValidator_CustomTags(t *testing.T) {
	v := New()

	tests := []struct {
		name      string
		payload   commandPayload
		wantRules []string
	}{
		{name: "valid select", payload: commandPayload{Type: "select_answer", Letter: "b"}},
		{name: "valid finish without letter", payload: commandPayload{Type: "finish"}},
		{name: "valid question type", payload: commandPayload{Type: "next", Kind: "PGK MCMA"}},
		{name: "unknown command", payload: commandPayload{Type: "jump"}, wantRules: []string{"command_type"}},
		{name: "missing command", payload: commandPayload{}, wantRules: []string{"required"}},
		{name: "bad letter", payload: commandPayload{Type: "select_answer", Letter: "E"}, wantRules: []string{"option_letter"}},
		{name: "bad question type", payload: commandPayload{Type: "next", Kind: "Essay"}, wantRules: []string{"question_type"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.payload)
			if len(tt.wantRules) == 0 {
				assert.NoError(t, err)
				return
			}

			var errs ValidationErrors
			require.True(t, errors.As(err, &errs))
			rules := make([]string, 0, len(errs))
			for _, e := range errs {
				rules = append(rules, e.Rule)
			}
			assert.Equal(t, tt.wantRules, rules)
		})
	}
}

func TestValidator_FieldNamesFromJSONTags(t *testing.T) {
	err := New().Validate(commandPayload{Type: "select_answer", Letter: "Z"})

	var errs ValidationErrors
	require.True(t, errors.As(err, &errs))
	require.Len(t, errs, 1)
	assert.Equal(t, "letter", errs[0].Field)
	assert.Equal(t, "must be one of A, B, C, D", errs[0].Message)
}

func rawJSON(t *testing.T, v any) datatypes.JSON {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return datatypes.JSON(b)
}

func TestQuestionValidator_ValidateQuestion(t *testing.T) {
	correct := "C"
	bad := "E"
	negative := -5

	single := func() *models.Question {
		return &models.Question{
			Subject:       "Matematika",
			Type:          models.SingleChoice,
			QuestionText:  "Hasil dari 3 x 3?",
			OptionA:       "6",
			OptionB:       "8",
			OptionC:       "9",
			OptionD:       "12",
			CorrectAnswer: &correct,
			ScoringWeight: 1,
		}
	}

	tests := []struct {
		name       string
		question   func() *models.Question
		wantFields []string
	}{
		{name: "valid single choice", question: single},
		{
			name: "valid multi select with string key",
			question: func() *models.Question {
				q := single()
				q.Type = models.MultiSelect
				q.CorrectAnswer = nil
				q.CorrectAnswers = rawJSON(t, "A,C")
				return q
			},
		},
		{
			name: "valid category",
			question: func() *models.Question {
				return &models.Question{
					Subject:         "Matematika",
					Type:            models.CategoryTrueFalse,
					QuestionText:    "Benar atau salah",
					CategoryOptions: rawJSON(t, []string{"X", "Y"}),
					CategoryMapping: rawJSON(t, map[string]bool{"X": true, "Y": false}),
					ScoringWeight:   2,
				}
			},
		},
		{
			name: "option from image only",
			question: func() *models.Question {
				q := single()
				q.OptionD = ""
				q.OptionImages = rawJSON(t, map[string]string{"option_d_image": "https://cdn.example/d.png"})
				return q
			},
		},
		{
			name: "missing key and option",
			question: func() *models.Question {
				q := single()
				q.CorrectAnswer = &bad
				q.OptionB = ""
				return q
			},
			wantFields: []string{"option_b", "correct_answer"},
		},
		{
			name: "empty body and bad weight",
			question: func() *models.Question {
				q := single()
				q.QuestionText = " "
				q.ScoringWeight = 0
				q.TimeLimitMinutes = &negative
				return q
			},
			wantFields: []string{"question_text", "scoring_weight", "time_limit_minutes"},
		},
		{
			name: "multi select without key",
			question: func() *models.Question {
				q := single()
				q.Type = models.MultiSelect
				q.CorrectAnswers = rawJSON(t, []string{})
				return q
			},
			wantFields: []string{"correct_answers"},
		},
		{
			name: "category statement without mapping",
			question: func() *models.Question {
				return &models.Question{
					Subject:         "Matematika",
					Type:            models.CategoryTrueFalse,
					QuestionText:    "Benar atau salah",
					CategoryOptions: rawJSON(t, []string{"X", "Y"}),
					CategoryMapping: rawJSON(t, map[string]bool{"X": true}),
					ScoringWeight:   1,
				}
			},
			wantFields: []string{"category_mapping"},
		},
	}

	qv := NewQuestionValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := qv.ValidateQuestion(tt.question())
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}

			var errs ValidationErrors
			require.True(t, errors.As(err, &errs))
			fields := make([]string, 0, len(errs))
			for _, e := range errs {
				fields = append(fields, e.Field)
			}
			assert.Equal(t, tt.wantFields, fields)
		})
	}
}

func TestQuestionValidator_ValidateBatch(t *testing.T) {
	qv := NewQuestionValidator()

	assert.Error(t, qv.ValidateBatch(nil))

	err := qv.ValidateBatch([]*models.Question{{Subject: "Matematika", QuestionText: "x", ScoringWeight: 1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "question 1")

	var errs ValidationErrors
	assert.True(t, errors.As(err, &errs))
}
