package events

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/SAP-F-2025/exam-session-service/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionFinishedEvent_Type(t *testing.T) {
	tests := []struct {
		status models.SessionStatus
		want   EventType
	}{
		{models.SessionCompleted, EventSessionCompleted},
		{models.SessionExpired, EventSessionExpired},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			event := NewSessionFinishedEvent(SessionFinishedEvent{Status: tt.status})
			assert.Equal(t, tt.want, event.Type)
			assert.Equal(t, "exam-session-service", event.Source)
			_, err := uuid.Parse(event.ID)
			assert.NoError(t, err)
		})
	}
}

func TestNewMessage(t *testing.T) {
	event := NewMasteryUpdatedEvent(MasteryUpdatedEvent{
		UserID:         "student-1",
		Chapter:        "Overall",
		SubChapter:     "Recent Exam",
		TotalQuestions: 3,
		CorrectAnswers: 2,
		MasteryLevel:   2.0 / 3,
		SkillRadar:     []models.SkillLevel{{Skill: "Aljabar", Level: 67}},
	})

	msg, err := NewMessage(event)
	require.NoError(t, err)

	assert.Equal(t, event.ID, msg.UUID)
	assert.Equal(t, string(EventMasteryUpdated), msg.Metadata.Get("event_type"))
	assert.Equal(t, "1.0", msg.Metadata.Get("version"))
	_, err = time.Parse(time.RFC3339, msg.Metadata.Get("timestamp"))
	assert.NoError(t, err)

	var decoded struct {
		Type EventType           `json:"type"`
		Data MasteryUpdatedEvent `json:"data"`
	}
	require.NoError(t, json.Unmarshal(msg.Payload, &decoded))
	assert.Equal(t, EventMasteryUpdated, decoded.Type)
	assert.Equal(t, 2, decoded.Data.CorrectAnswers)
	assert.Equal(t, "Aljabar", decoded.Data.SkillRadar[0].Skill)
}

func TestMockEventPublisher(t *testing.T) {
	publisher := NewMockEventPublisher(slog.New(slog.NewTextHandler(io.Discard, nil)))

	require.NoError(t, publisher.PublishExamEvent(context.Background(), NewSessionStartedEvent(SessionStartedEvent{UserID: "u"})))
	require.NoError(t, publisher.PublishExamEvent(context.Background(), NewSessionFinishedEvent(SessionFinishedEvent{Status: models.SessionCompleted})))

	published := publisher.GetPublishedEvents()
	require.Len(t, published, 2)
	assert.Equal(t, EventSessionStarted, published[0].Type)
	assert.Equal(t, EventSessionCompleted, published[1].Type)

	publisher.ClearEvents()
	assert.Empty(t, publisher.GetPublishedEvents())
	assert.NoError(t, publisher.Close())
}
