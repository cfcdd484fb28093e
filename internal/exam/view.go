package exam

import (
	"regexp"

	"github.com/SAP-F-2025/exam-session-service/internal/models"
)

// inlineMath matches \( ... \) spans inside question text.
var inlineMath = regexp.MustCompile(`\\\((.+?)\\\)`)

type OptionView struct {
	Letter   string `json:"letter"`
	Text     string `json:"text"`
	Latex    string `json:"latex,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// QuestionView is what the student sees of a question. It never carries the
// answer key.
type QuestionView struct {
	ID         uint                     `json:"id"`
	Number     int                      `json:"number"`
	Type       models.QuestionType      `json:"question_type"`
	Chapter    string                   `json:"chapter,omitempty"`
	Text       string                   `json:"question_text"`
	MathSpans  []string                 `json:"math_spans,omitempty"`
	Sections   []models.QuestionSection `json:"sections,omitempty"`
	ImageURL   string                   `json:"image_url,omitempty"`
	Options    []OptionView             `json:"options,omitempty"`
	Statements []string                 `json:"statements,omitempty"`
}

type NavItem struct {
	Number   int  `json:"number"`
	Current  bool `json:"current"`
	Answered bool `json:"answered"`
	Doubtful bool `json:"doubtful"`
}

// Snapshot is a read-only copy of a session's state.
type Snapshot struct {
	Key              string               `json:"key"`
	SessionID        uint                 `json:"session_id,omitempty"`
	Status           models.SessionStatus `json:"status"`
	Index            int                  `json:"index"`
	Total            int                  `json:"total"`
	Progress         float64              `json:"progress"`
	IsLast           bool                 `json:"is_last"`
	Question         QuestionView         `json:"question"`
	Answer           Answer               `json:"answer"`
	Doubtful         bool                 `json:"doubtful"`
	Nav              []NavItem            `json:"nav"`
	Unanswered       int                  `json:"unanswered"`
	RemainingSeconds int                  `json:"remaining_seconds"`
	Clock            string               `json:"clock"`
	Warning          bool                 `json:"warning"`
	Result           *Result              `json:"result,omitempty"`
}

// NewQuestionView builds the display form of the question at position index.
func NewQuestionView(q *models.Question, index int) QuestionView {
	v := QuestionView{
		ID:       q.ID,
		Number:   index + 1,
		Type:     q.Kind(),
		Chapter:  q.Chapter,
		Text:     q.QuestionText,
		Sections: q.Sections(),
	}
	if q.ImageURL != nil {
		v.ImageURL = *q.ImageURL
	}
	for _, m := range inlineMath.FindAllStringSubmatch(q.QuestionText, -1) {
		v.MathSpans = append(v.MathSpans, m[1])
	}

	if v.Type == models.CategoryTrueFalse {
		v.Statements = q.Statements()
		return v
	}
	for _, letter := range models.OptionLetters {
		v.Options = append(v.Options, OptionView{
			Letter:   letter,
			Text:     q.OptionText(letter),
			Latex:    q.OptionLatexExpr(letter),
			ImageURL: q.OptionImage(letter),
		})
	}
	return v
}
