package services

import (
	"errors"
	"fmt"

	apperrors "github.com/SAP-F-2025/exam-session-service/internal/errors"
	"github.com/SAP-F-2025/exam-session-service/internal/exam"
	"github.com/SAP-F-2025/exam-session-service/internal/repositories"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrUnauthorized     = errors.New("unauthorized access")
	ErrForbidden        = errors.New("forbidden - insufficient permissions")
	ErrValidationFailed = errors.New("validation failed")
	ErrConflict         = errors.New("resource conflict")

	// Exam specific errors
	ErrNoQuestions = errors.New("no active questions available for this subject")

	// Session specific errors
	ErrSessionNotFound     = errors.New("exam session not found")
	ErrSessionAccessDenied = errors.New("access denied to exam session")
	ErrSessionInProgress   = errors.New("exam session is still in progress")
	ErrServiceShuttingDown = errors.New("exam service is shutting down")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

type PermissionError struct {
	UserID   string `json:"user_id"`
	Resource string `json:"resource"`
	Action   string `json:"action"`
}

func (pe *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %s cannot %s %s", pe.UserID, pe.Action, pe.Resource)
}

func (pe *PermissionError) Unwrap() error {
	return ErrSessionAccessDenied
}

// ===== ERROR HELPERS =====

func NewPermissionError(userID, resource, action string) *PermissionError {
	return &PermissionError{
		UserID:   userID,
		Resource: resource,
		Action:   action,
	}
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrSessionNotFound) ||
		errors.Is(err, ErrNoQuestions) ||
		repositories.IsNotFoundError(err)
}

// IsUnauthorized checks if error represents an "unauthorized" condition
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrSessionAccessDenied)
}

// IsValidation checks if error represents a rejected command or input
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) ||
		errors.Is(err, exam.ErrIndexOutOfRange) ||
		errors.Is(err, exam.ErrInvalidOption) ||
		errors.Is(err, exam.ErrUnknownStatement) ||
		errors.Is(err, exam.ErrWrongQuestionType) ||
		errors.Is(err, exam.ErrUnknownCommand) {
		return true
	}
	var ve apperrors.ValidationErrors
	return errors.As(err, &ve)
}

// IsConflict checks if error conflicts with the session state
func IsConflict(err error) bool {
	if _, ok := exam.IsConfirmationRequired(err); ok {
		return true
	}
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrSessionInProgress) ||
		errors.Is(err, exam.ErrSessionClosed)
}
