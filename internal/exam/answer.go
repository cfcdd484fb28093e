package exam

import (
	"encoding/json"
	"slices"
	"strings"

	"github.com/SAP-F-2025/exam-session-service/internal/models"
)

// Answer is the slot holding a student's response to one question. Which field
// is meaningful depends on Kind; the zero value of that field means unanswered.
type Answer struct {
	Kind       models.QuestionType `json:"-"`
	Choice     string              `json:"choice,omitempty"`
	Selected   []string            `json:"selected,omitempty"`
	Statements map[string]bool     `json:"statements,omitempty"`
}

// NewAnswer returns an empty slot for a question.
func NewAnswer(q *models.Question) Answer {
	return Answer{Kind: q.Kind()}
}

func (a Answer) IsEmpty() bool {
	switch a.Kind {
	case models.MultiSelect:
		return len(a.Selected) == 0
	case models.CategoryTrueFalse:
		return len(a.Statements) == 0
	default:
		return a.Choice == ""
	}
}

// SetChoice overwrites a SingleChoice slot.
func (a *Answer) SetChoice(letter string) error {
	letter, ok := normalizeLetter(letter)
	if !ok {
		return ErrInvalidOption
	}
	a.Choice = letter
	return nil
}

// Toggle inserts or removes letter from a MultiSelect slot, keeping it sorted.
// Removing the last letter returns the slot to unanswered.
func (a *Answer) Toggle(letter string) error {
	letter, ok := normalizeLetter(letter)
	if !ok {
		return ErrInvalidOption
	}
	if i := slices.Index(a.Selected, letter); i >= 0 {
		a.Selected = slices.Delete(slices.Clone(a.Selected), i, i+1)
		if len(a.Selected) == 0 {
			a.Selected = nil
		}
		return nil
	}
	selected := append(slices.Clone(a.Selected), letter)
	slices.Sort(selected)
	a.Selected = selected
	return nil
}

// SetStatement records whether the student marks statement as true.
func (a *Answer) SetStatement(statement string, value bool) {
	if a.Statements == nil {
		a.Statements = make(map[string]bool)
	}
	a.Statements[statement] = value
}

// Value serialises the slot for persistence: "B", "A,C" or {"X":true}.
// An empty slot serialises to "".
func (a Answer) Value() string {
	if a.IsEmpty() {
		return ""
	}
	switch a.Kind {
	case models.MultiSelect:
		return strings.Join(a.Selected, ",")
	case models.CategoryTrueFalse:
		b, err := json.Marshal(a.Statements)
		if err != nil {
			return ""
		}
		return string(b)
	default:
		return a.Choice
	}
}

// Clone returns a deep copy so snapshots never alias controller state.
func (a Answer) Clone() Answer {
	out := Answer{Kind: a.Kind, Choice: a.Choice}
	if a.Selected != nil {
		out.Selected = slices.Clone(a.Selected)
	}
	if a.Statements != nil {
		out.Statements = make(map[string]bool, len(a.Statements))
		for k, v := range a.Statements {
			out.Statements[k] = v
		}
	}
	return out
}

// ParseAnswer reads back a serialised slot. Malformed category data is
// treated as an empty mapping.
func ParseAnswer(kind models.QuestionType, raw string) Answer {
	a := Answer{Kind: kind}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return a
	}
	switch kind {
	case models.MultiSelect:
		a.Selected = models.NormalizeLetters(strings.Split(raw, ","))
		if len(a.Selected) == 0 {
			a.Selected = nil
		}
	case models.CategoryTrueFalse:
		statements := map[string]bool{}
		if err := json.Unmarshal([]byte(raw), &statements); err != nil || len(statements) == 0 {
			return a
		}
		a.Statements = statements
	default:
		if letter, ok := normalizeLetter(raw); ok {
			a.Choice = letter
		}
	}
	return a
}

func normalizeLetter(letter string) (string, bool) {
	letter = strings.ToUpper(strings.TrimSpace(letter))
	return letter, slices.Contains(models.OptionLetters, letter)
}
