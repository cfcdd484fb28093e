package repositories

import (
	"errors"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

// IsNotFoundError reports whether err means the record does not exist.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}

// Repositories groups the stores the service is wired with.
type Repositories struct {
	Questions QuestionRepository
	Sessions  ExamSessionRepository
	Analytics StudentAnalyticsRepository
}
