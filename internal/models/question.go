package models

import (
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	"gorm.io/datatypes"
)

type QuestionType string

// Stored discriminator values. Anything else is treated as SingleChoice.
const (
	SingleChoice      QuestionType = "Pilihan Ganda"
	MultiSelect       QuestionType = "PGK MCMA"
	CategoryTrueFalse QuestionType = "PGK Kategori"
)

var errEmptyJSON = errors.New("empty json value")

// DefaultQuestionMinutes is counted for questions without a time limit.
const DefaultQuestionMinutes = 30

// OptionLetters are the four option slots in display order.
var OptionLetters = []string{"A", "B", "C", "D"}

type SectionType string

const (
	SectionText  SectionType = "text"
	SectionImage SectionType = "image"
)

// QuestionSection is one block of a composite question body.
type QuestionSection struct {
	Type     SectionType `json:"type"`
	Content  string      `json:"content,omitempty"`
	ImageURL string      `json:"image_url,omitempty"`
	Order    int         `json:"order"`
}

type Question struct {
	ID         uint         `json:"id" gorm:"primaryKey"`
	Subject    string       `json:"subject" gorm:"not null;size:100;index"`
	Chapter    string       `json:"chapter" gorm:"size:200"`
	SubChapter string       `json:"sub_chapter" gorm:"size:200"`
	Type       QuestionType `json:"question_type" gorm:"column:question_type;not null;size:50" validate:"required"`

	// Body
	QuestionText     string         `json:"question_text" gorm:"type:text"`
	QuestionSections datatypes.JSON `json:"question_sections" gorm:"type:jsonb"` // []QuestionSection
	ImageURL         *string        `json:"image_url" gorm:"size:500"`

	// Options
	OptionA      string         `json:"option_a" gorm:"type:text"`
	OptionB      string         `json:"option_b" gorm:"type:text"`
	OptionC      string         `json:"option_c" gorm:"type:text"`
	OptionD      string         `json:"option_d" gorm:"type:text"`
	OptionImages datatypes.JSON `json:"option_images" gorm:"type:jsonb"` // {"option_a_image": url}
	OptionLatex  datatypes.JSON `json:"option_latex" gorm:"type:jsonb"`  // {"option_a_latex": expr}

	// Category statements
	CategoryOptions datatypes.JSON `json:"category_options" gorm:"type:jsonb"` // []string
	CategoryMapping datatypes.JSON `json:"category_mapping" gorm:"type:jsonb"` // map[string]bool

	// Answer key
	CorrectAnswer  *string        `json:"correct_answer" gorm:"size:10"`
	CorrectAnswers datatypes.JSON `json:"correct_answers" gorm:"type:jsonb"` // ["A","C"] or "A,C"
	PartialCredit  bool           `json:"partial_credit" gorm:"default:false"`

	ScoringWeight    int  `json:"scoring_weight" gorm:"not null;default:1" validate:"min=1"`
	TimeLimitMinutes *int `json:"time_limit_minutes"`
	IsActive         bool `json:"is_active" gorm:"not null;index"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Question) TableName() string {
	return "questions"
}

// Kind folds unknown discriminators into SingleChoice.
func (q *Question) Kind() QuestionType {
	switch q.Type {
	case MultiSelect, CategoryTrueFalse:
		return q.Type
	default:
		return SingleChoice
	}
}

// TimeBudgetMinutes returns the minutes this question adds to the exam budget.
// fallback is used when the question has no limit of its own.
func (q *Question) TimeBudgetMinutes(fallback int) int {
	if q.TimeLimitMinutes == nil || *q.TimeLimitMinutes <= 0 {
		if fallback <= 0 {
			return DefaultQuestionMinutes
		}
		return fallback
	}
	return *q.TimeLimitMinutes
}

func (q *Question) CorrectLetter() string {
	if q.CorrectAnswer == nil {
		return ""
	}
	return strings.ToUpper(strings.TrimSpace(*q.CorrectAnswer))
}

// CorrectLetters returns the sorted MultiSelect key. Both the array and the
// comma-joined string encodings are accepted.
func (q *Question) CorrectLetters() []string {
	var letters []string
	if err := decodeJSON(q.CorrectAnswers, &letters); err != nil {
		var joined string
		if err := json.Unmarshal(q.CorrectAnswers, &joined); err != nil {
			return nil
		}
		letters = strings.Split(joined, ",")
	}
	return NormalizeLetters(letters)
}

// Statements returns the ordered statement list of a category question.
func (q *Question) Statements() []string {
	var statements []string
	if err := decodeJSON(q.CategoryOptions, &statements); err != nil || statements == nil {
		return []string{}
	}
	return statements
}

// CorrectMapping returns statement -> "is true". Malformed data yields an empty map.
func (q *Question) CorrectMapping() map[string]bool {
	mapping := map[string]bool{}
	if err := decodeJSON(q.CategoryMapping, &mapping); err != nil || mapping == nil {
		return map[string]bool{}
	}
	return mapping
}

// Sections returns the body sections sorted by order.
func (q *Question) Sections() []QuestionSection {
	var sections []QuestionSection
	if err := decodeJSON(q.QuestionSections, &sections); err != nil {
		return nil
	}
	sort.SliceStable(sections, func(i, j int) bool {
		return sections[i].Order < sections[j].Order
	})
	return sections
}

func (q *Question) OptionText(letter string) string {
	switch strings.ToUpper(letter) {
	case "A":
		return q.OptionA
	case "B":
		return q.OptionB
	case "C":
		return q.OptionC
	case "D":
		return q.OptionD
	}
	return ""
}

func (q *Question) OptionImage(letter string) string {
	return lookupString(q.OptionImages, "option_"+strings.ToLower(letter)+"_image")
}

func (q *Question) OptionLatexExpr(letter string) string {
	return lookupString(q.OptionLatex, "option_"+strings.ToLower(letter)+"_latex")
}

func lookupString(raw datatypes.JSON, key string) string {
	values := map[string]string{}
	if err := decodeJSON(raw, &values); err != nil {
		return ""
	}
	return values[key]
}

// decodeJSON unmarshals raw into dest, also accepting a JSON string that wraps
// the encoded value.
func decodeJSON(raw datatypes.JSON, dest any) error {
	if len(raw) == 0 {
		return errEmptyJSON
	}
	err := json.Unmarshal(raw, dest)
	if err == nil {
		return nil
	}
	var wrapped string
	if json.Unmarshal(raw, &wrapped) != nil {
		return err
	}
	return json.Unmarshal([]byte(wrapped), dest)
}

// NormalizeLetters upper-cases, trims, de-duplicates and sorts option letters.
func NormalizeLetters(letters []string) []string {
	seen := make(map[string]struct{}, len(letters))
	out := make([]string, 0, len(letters))
	for _, l := range letters {
		l = strings.ToUpper(strings.TrimSpace(l))
		if l == "" {
			continue
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}
