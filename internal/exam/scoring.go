package exam

import (
	"slices"

	"github.com/SAP-F-2025/exam-session-service/internal/models"
)

// PassThreshold is an absolute point threshold, independent of the maximum
// achievable score.
const PassThreshold = 70

type ItemResult struct {
	QuestionID uint                `json:"question_id"`
	Type       models.QuestionType `json:"question_type"`
	Answered   bool                `json:"answered"`
	Correct    bool                `json:"correct"`
	Weight     int                 `json:"weight"`
	Earned     int                 `json:"earned"`
}

type Result struct {
	Items         []ItemResult `json:"items"`
	TotalScore    int          `json:"total_score"`
	MaxScore      int          `json:"max_score"`
	CorrectCount  int          `json:"correct_count"`
	AnsweredCount int          `json:"answered_count"`
	PassThreshold int          `json:"pass_threshold"`
	Passed        bool         `json:"passed"`
}

// Scorer computes results; it holds no state besides its threshold.
type Scorer struct {
	PassThreshold int
}

// Score grades answers against questions with the default threshold.
func Score(questions []models.Question, answers []Answer) Result {
	return Scorer{PassThreshold: PassThreshold}.Score(questions, answers)
}

// Score is a pure function of its inputs. answers is aligned with questions by
// position; missing positions count as unanswered.
func (s Scorer) Score(questions []models.Question, answers []Answer) Result {
	res := Result{
		Items:         make([]ItemResult, len(questions)),
		PassThreshold: s.PassThreshold,
	}
	for i := range questions {
		q := &questions[i]
		var a Answer
		if i < len(answers) {
			a = answers[i]
		}
		item := ItemResult{
			QuestionID: q.ID,
			Type:       q.Kind(),
			Answered:   !a.IsEmpty(),
			Correct:    IsCorrect(q, a),
			Weight:     q.ScoringWeight,
		}
		if item.Correct {
			item.Earned = q.ScoringWeight
			res.CorrectCount++
		}
		if item.Answered {
			res.AnsweredCount++
		}
		res.TotalScore += item.Earned
		res.MaxScore += q.ScoringWeight
		res.Items[i] = item
	}
	res.Passed = res.TotalScore >= s.PassThreshold
	return res
}

// IsCorrect grades one slot. An empty slot is never correct. MultiSelect is
// all-or-nothing regardless of the question's partial_credit flag.
func IsCorrect(q *models.Question, a Answer) bool {
	if a.IsEmpty() {
		return false
	}
	switch q.Kind() {
	case models.MultiSelect:
		key := q.CorrectLetters()
		return len(key) > 0 && slices.Equal(models.NormalizeLetters(a.Selected), key)
	case models.CategoryTrueFalse:
		return mappingEqual(q.CorrectMapping(), a.Statements)
	default:
		key := q.CorrectLetter()
		return key != "" && a.Choice == key
	}
}

// mappingEqual requires every keyed statement to be answered with the same
// value and no extra statements. An omitted statement is not read as false.
func mappingEqual(key, got map[string]bool) bool {
	if len(key) == 0 || len(key) != len(got) {
		return false
	}
	for statement, want := range key {
		v, ok := got[statement]
		if !ok || v != want {
			return false
		}
	}
	return true
}
