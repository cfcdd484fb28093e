package validator

import (
	"fmt"
	"slices"
	"strings"

	"github.com/SAP-F-2025/exam-session-service/internal/models"
)

// QuestionValidator checks that a question record can be rendered and scored
type QuestionValidator struct{}

// NewQuestionValidator creates a new question validator
func NewQuestionValidator() *QuestionValidator {
	return &QuestionValidator{}
}

// ValidateQuestion validates a complete question record
func (v *QuestionValidator) ValidateQuestion(question *models.Question) error {
	var errs ValidationErrors
	add := func(field, message string, value interface{}) {
		errs = append(errs, ValidationError{Field: field, Message: message, Value: value})
	}

	if question.Subject == "" {
		add("subject", "is required", nil)
	}
	if strings.TrimSpace(question.QuestionText) == "" && len(question.Sections()) == 0 {
		add("question_text", "is required when the question has no sections", nil)
	}
	if question.ScoringWeight < 1 {
		add("scoring_weight", "must be at least 1", question.ScoringWeight)
	}
	if question.TimeLimitMinutes != nil && *question.TimeLimitMinutes < 0 {
		add("time_limit_minutes", "must not be negative", *question.TimeLimitMinutes)
	}

	switch question.Kind() {
	case models.MultiSelect:
		v.validateOptions(question, add)
		letters := question.CorrectLetters()
		if len(letters) == 0 {
			add("correct_answers", "must name at least one option", nil)
		}
		for _, letter := range letters {
			if !slices.Contains(models.OptionLetters, letter) {
				add("correct_answers", "must only contain A, B, C, D", letter)
			}
		}
	case models.CategoryTrueFalse:
		statements := question.Statements()
		mapping := question.CorrectMapping()
		if len(statements) == 0 {
			add("category_options", "must list at least one statement", nil)
		}
		for _, s := range statements {
			if _, ok := mapping[s]; !ok {
				add("category_mapping", "is missing a value for a statement", s)
			}
		}
		for s := range mapping {
			if !slices.Contains(statements, s) {
				add("category_mapping", "names a statement that is not listed", s)
			}
		}
	default:
		v.validateOptions(question, add)
		letter := question.CorrectLetter()
		if !slices.Contains(models.OptionLetters, letter) {
			add("correct_answer", "must be one of A, B, C, D", letter)
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (v *QuestionValidator) validateOptions(question *models.Question, add func(string, string, interface{})) {
	for _, letter := range models.OptionLetters {
		if question.OptionText(letter) == "" && question.OptionImage(letter) == "" && question.OptionLatexExpr(letter) == "" {
			add("option_"+strings.ToLower(letter), "must have text, latex or an image", nil)
		}
	}
}

// ValidateBatch validates multiple questions
func (v *QuestionValidator) ValidateBatch(questions []*models.Question) error {
	if len(questions) == 0 {
		return fmt.Errorf("question batch cannot be empty")
	}

	for i, question := range questions {
		if err := v.ValidateQuestion(question); err != nil {
			return fmt.Errorf("validation failed for question %d: %w", i+1, err)
		}
	}

	return nil
}
