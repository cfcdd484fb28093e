package exam

import (
	"errors"
	"fmt"
)

var (
	ErrNoQuestions       = errors.New("no questions available for exam")
	ErrSessionClosed     = errors.New("exam session is no longer in progress")
	ErrIndexOutOfRange   = errors.New("question index out of range")
	ErrInvalidOption     = errors.New("option must be one of A, B, C, D")
	ErrUnknownStatement  = errors.New("statement does not belong to question")
	ErrWrongQuestionType = errors.New("command does not match current question type")
	ErrUnknownCommand    = errors.New("unknown command")
)

// ConfirmationRequiredError is returned when finishing with unanswered questions
// without an explicit confirmation. The session is left untouched.
type ConfirmationRequiredError struct {
	Unanswered int `json:"unanswered"`
}

func (e *ConfirmationRequiredError) Error() string {
	return fmt.Sprintf("%d questions are still unanswered, confirmation required to finish", e.Unanswered)
}

// IsConfirmationRequired reports whether err asks the student to confirm finishing.
func IsConfirmationRequired(err error) (*ConfirmationRequiredError, bool) {
	var cre *ConfirmationRequiredError
	if errors.As(err, &cre) {
		return cre, true
	}
	return nil, false
}
