package errors

import (
	"fmt"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError("letter", "must be one of A, B, C, D", "E")

	assert.Equal(t, "letter", err.Field)
	assert.Equal(t, "must be one of A, B, C, D", err.Message)
	assert.Equal(t, "E", err.Value)
	assert.Equal(t, "validation error on field 'letter': must be one of A, B, C, D", err.Error())
}

func TestNewValidationErrorWithRule(t *testing.T) {
	err := NewValidationErrorWithRule("type", "is required", "required", "")

	assert.Equal(t, "required", err.Rule)
	assert.Equal(t, "type", err.Field)
}

func TestValidationErrors(t *testing.T) {
	var errs ValidationErrors
	assert.Equal(t, "validation failed", errs.Error())

	errs = append(errs, *NewValidationError("field1", "message1", nil))
	assert.Equal(t, "validation failed: field1 message1", errs.Error())

	errs = append(errs, *NewValidationError("field2", "message2", nil))
	assert.Equal(t, "validation failed: 2 field errors", errs.Error())
}

type sampleCommand struct {
	Type  string `validate:"required,oneof=next prev"`
	Index int    `validate:"gte=0"`
	Note  string `validate:"max=3"`
}

func TestToValidationErrors(t *testing.T) {
	validate := validator.New()

	err := validate.Struct(sampleCommand{Type: "jump", Index: -1, Note: "long note"})
	require.Error(t, err)

	errs := ToValidationErrors(fmt.Errorf("bind command: %w", err))
	require.Len(t, errs, 3)

	tests := []struct {
		field   string
		rule    string
		message string
	}{
		{field: "Type", rule: "oneof", message: "must be one of: next prev"},
		{field: "Index", rule: "gte", message: "must be greater than or equal to 0"},
		{field: "Note", rule: "max", message: "must be at most 3"},
	}
	for i, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			assert.Equal(t, tt.field, errs[i].Field)
			assert.Equal(t, tt.rule, errs[i].Rule)
			assert.Equal(t, tt.message, errs[i].Message)
		})
	}

	assert.Nil(t, ToValidationErrors(fmt.Errorf("plain error")))
}
