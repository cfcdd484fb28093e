package events

import (
	"time"

	"github.com/SAP-F-2025/exam-session-service/internal/models"
	"github.com/google/uuid"
)

// EventType represents the kinds of exam events the service emits
type EventType string

const (
	// Session lifecycle events
	EventSessionStarted   EventType = "exam_session.started"
	EventSessionCompleted EventType = "exam_session.completed"
	EventSessionExpired   EventType = "exam_session.expired"

	// Analytics events
	EventMasteryUpdated EventType = "analytics.mastery_updated"
)

const (
	eventSource  = "exam-session-service"
	eventVersion = "1.0"
)

// ExamEvent is the envelope of every event published by the service
type ExamEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Event payloads

type SessionStartedEvent struct {
	SessionKey    string    `json:"session_key"`
	SessionID     uint      `json:"session_id,omitempty"`
	UserID        string    `json:"user_id"`
	Subject       string    `json:"subject"`
	QuestionCount int       `json:"question_count"`
	BudgetSeconds int       `json:"budget_seconds"`
	StartedAt     time.Time `json:"started_at"`
}

type SessionFinishedEvent struct {
	SessionKey  string               `json:"session_key"`
	SessionID   uint                 `json:"session_id,omitempty"`
	UserID      string               `json:"user_id"`
	Subject     string               `json:"subject"`
	Status      models.SessionStatus `json:"status"`
	TotalScore  int                  `json:"total_score"`
	MaxScore    int                  `json:"max_score"`
	Passed      bool                 `json:"passed"`
	CompletedAt time.Time            `json:"completed_at"`
}

type MasteryUpdatedEvent struct {
	UserID         string              `json:"user_id"`
	SessionID      uint                `json:"session_id,omitempty"`
	Chapter        string              `json:"chapter"`
	SubChapter     string              `json:"sub_chapter"`
	TotalQuestions int                 `json:"total_questions"`
	CorrectAnswers int                 `json:"correct_answers"`
	MasteryLevel   float64             `json:"mastery_level"`
	SkillRadar     []models.SkillLevel `json:"skill_radar"`
}

// Event factory functions

func NewSessionStartedEvent(data SessionStartedEvent) *ExamEvent {
	return newEvent(EventSessionStarted, data)
}

// NewSessionFinishedEvent picks the completed or expired type from the status.
func NewSessionFinishedEvent(data SessionFinishedEvent) *ExamEvent {
	eventType := EventSessionCompleted
	if data.Status == models.SessionExpired {
		eventType = EventSessionExpired
	}
	return newEvent(eventType, data)
}

func NewMasteryUpdatedEvent(data MasteryUpdatedEvent) *ExamEvent {
	return newEvent(EventMasteryUpdated, data)
}

func newEvent(eventType EventType, data interface{}) *ExamEvent {
	return &ExamEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   eventVersion,
		Data:      data,
	}
}
