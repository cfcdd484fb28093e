package validator

import (
	"reflect"
	"slices"
	"strings"

	"github.com/SAP-F-2025/exam-session-service/internal/models"
	"github.com/go-playground/validator/v10"
)

// Command type names accepted on the wire.
const (
	CommandSelectAnswer  = "select_answer"
	CommandToggleOption  = "toggle_option"
	CommandMarkStatement = "mark_statement"
	CommandNavigate      = "navigate"
	CommandNext          = "next"
	CommandPrev          = "prev"
	CommandToggleDoubt   = "toggle_doubt"
	CommandFinish        = "finish"
)

var commandTypes = []string{
	CommandSelectAnswer,
	CommandToggleOption,
	CommandMarkStatement,
	CommandNavigate,
	CommandNext,
	CommandPrev,
	CommandToggleDoubt,
	CommandFinish,
}

// Validator combines struct tag validation with question record checks
type Validator struct {
	structValidator   *validator.Validate
	questionValidator *QuestionValidator
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()

	// Register all custom validators once
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator:   structValidator,
		questionValidator: NewQuestionValidator(),
	}
}

// ValidateStruct validates struct tags only
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// Validate validates struct tags and converts failures to ValidationErrors
func (v *Validator) Validate(s interface{}) error {
	if err := v.ValidateStruct(s); err != nil {
		if errs := ToValidationErrors(err); len(errs) > 0 {
			return errs
		}
		return err
	}
	return nil
}

// Question returns the question validator
func (v *Validator) Question() *QuestionValidator {
	return v.questionValidator
}

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("question_type", validateQuestionType)
	validate.RegisterValidation("option_letter", validateOptionLetter)
	validate.RegisterValidation("command_type", validateCommandType)

	// Custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
}

func validateQuestionType(fl validator.FieldLevel) bool {
	switch models.QuestionType(fl.Field().String()) {
	case models.SingleChoice, models.MultiSelect, models.CategoryTrueFalse:
		return true
	}
	return false
}

// validateOptionLetter accepts A-D in any case; an empty value passes so the
// tag can sit on optional fields.
func validateOptionLetter(fl validator.FieldLevel) bool {
	value := strings.ToUpper(strings.TrimSpace(fl.Field().String()))
	return value == "" || slices.Contains(models.OptionLetters, value)
}

func validateCommandType(fl validator.FieldLevel) bool {
	return slices.Contains(commandTypes, fl.Field().String())
}
