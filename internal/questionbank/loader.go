// Package questionbank loads question sets from YAML files into the question store.
package questionbank

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/SAP-F-2025/exam-session-service/internal/models"
	"github.com/SAP-F-2025/exam-session-service/internal/repositories"
	"github.com/SAP-F-2025/exam-session-service/internal/validator"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
)

type File struct {
	Subject   string          `yaml:"subject"`
	Questions []QuestionEntry `yaml:"questions"`
}

type QuestionEntry struct {
	Type       models.QuestionType `yaml:"type"`
	Chapter    string              `yaml:"chapter"`
	SubChapter string              `yaml:"sub_chapter"`
	Text       string              `yaml:"text"`
	Sections   []SectionEntry      `yaml:"sections"`
	ImageURL   string              `yaml:"image_url"`

	Options      map[string]string `yaml:"options"`
	OptionImages map[string]string `yaml:"option_images"`
	OptionLatex  map[string]string `yaml:"option_latex"`

	Statements []string        `yaml:"statements"`
	Mapping    map[string]bool `yaml:"mapping"`

	Answer        string   `yaml:"answer"`
	Answers       []string `yaml:"answers"`
	PartialCredit bool     `yaml:"partial_credit"`

	Weight           int   `yaml:"weight"`
	TimeLimitMinutes *int  `yaml:"time_limit_minutes"`
	Active           *bool `yaml:"active"`
}

type SectionEntry struct {
	Type     models.SectionType `yaml:"type"`
	Content  string             `yaml:"content"`
	ImageURL string             `yaml:"image_url"`
	Order    int                `yaml:"order"`
}

// Load decodes a question file. Questions default to weight 1 and active.
func Load(r io.Reader) ([]*models.Question, error) {
	var file File
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode question file: %w", err)
	}
	if file.Subject == "" {
		return nil, fmt.Errorf("question file has no subject")
	}

	questions := make([]*models.Question, 0, len(file.Questions))
	for i, entry := range file.Questions {
		q, err := entry.toModel(file.Subject)
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func (s QuestionEntry) toModel(subject string) (*models.Question, error) {
	q := &models.Question{
		Subject:          subject,
		Chapter:          s.Chapter,
		SubChapter:       s.SubChapter,
		Type:             s.Type,
		QuestionText:     s.Text,
		OptionA:          s.Options["A"],
		OptionB:          s.Options["B"],
		OptionC:          s.Options["C"],
		OptionD:          s.Options["D"],
		PartialCredit:    s.PartialCredit,
		ScoringWeight:    s.Weight,
		TimeLimitMinutes: s.TimeLimitMinutes,
		IsActive:         s.Active == nil || *s.Active,
	}
	if q.Type == "" {
		q.Type = models.SingleChoice
	}
	if q.ScoringWeight == 0 {
		q.ScoringWeight = 1
	}
	if s.ImageURL != "" {
		q.ImageURL = &s.ImageURL
	}
	if s.Answer != "" {
		answer := strings.ToUpper(strings.TrimSpace(s.Answer))
		q.CorrectAnswer = &answer
	}

	var err error
	if len(s.Sections) > 0 {
		sections := make([]models.QuestionSection, 0, len(s.Sections))
		for _, sec := range s.Sections {
			sections = append(sections, models.QuestionSection(sec))
		}
		if q.QuestionSections, err = toJSON(sections); err != nil {
			return nil, err
		}
	}
	if len(s.OptionImages) > 0 {
		if q.OptionImages, err = toJSON(optionKeys(s.OptionImages, "image")); err != nil {
			return nil, err
		}
	}
	if len(s.OptionLatex) > 0 {
		if q.OptionLatex, err = toJSON(optionKeys(s.OptionLatex, "latex")); err != nil {
			return nil, err
		}
	}
	if len(s.Answers) > 0 {
		if q.CorrectAnswers, err = toJSON(models.NormalizeLetters(s.Answers)); err != nil {
			return nil, err
		}
	}
	if len(s.Statements) > 0 {
		if q.CategoryOptions, err = toJSON(s.Statements); err != nil {
			return nil, err
		}
	}
	if len(s.Mapping) > 0 {
		if q.CategoryMapping, err = toJSON(s.Mapping); err != nil {
			return nil, err
		}
	}
	return q, nil
}

// optionKeys maps {"A": v} to the stored {"option_a_<suffix>": v} form.
func optionKeys(values map[string]string, suffix string) map[string]string {
	out := make(map[string]string, len(values))
	for letter, v := range values {
		out["option_"+strings.ToLower(letter)+"_"+suffix] = v
	}
	return out
}

func toJSON(v any) (datatypes.JSON, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

// Import validates every question and stores the set in one batch. Nothing is
// written when any question is invalid.
func Import(ctx context.Context, repo repositories.QuestionRepository, v *validator.Validator, questions []*models.Question) error {
	if err := v.Question().ValidateBatch(questions); err != nil {
		return err
	}
	if err := repo.CreateBatch(ctx, questions); err != nil {
		return fmt.Errorf("failed to store questions: %w", err)
	}
	return nil
}
