package exam

import (
	"context"
	"testing"

	"github.com/SAP-F-2025/exam-session-service/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestCountdown_ExpiresOnce(t *testing.T) {
	fired := 0
	c := NewCountdown(3, DefaultWarningSeconds, func(context.Context) { fired++ })

	for i := 0; i < 10; i++ {
		c.Tick(context.Background())
	}

	assert.Equal(t, 1, fired)
	assert.True(t, c.Expired())
	assert.Equal(t, 0, c.Remaining())
}

func TestCountdown_ZeroBudgetExpiresOnFirstTick(t *testing.T) {
	fired := 0
	c := NewCountdown(0, 10, func(context.Context) { fired++ })
	assert.False(t, c.Expired())

	c.Tick(context.Background())
	c.Tick(context.Background())
	assert.Equal(t, 1, fired)
}

func TestCountdown_Warning(t *testing.T) {
	c := NewCountdown(302, 300, nil)
	assert.False(t, c.Warning())
	c.Tick(context.Background())
	assert.False(t, c.Warning())
	c.Tick(context.Background())
	assert.True(t, c.Warning())
	assert.Equal(t, 300, c.Remaining())
}

func TestCountdown_StopPreventsExpiry(t *testing.T) {
	fired := 0
	c := NewCountdown(1, 0, func(context.Context) { fired++ })
	c.Stop()
	c.Tick(context.Background())
	assert.Equal(t, 0, fired)
	assert.Equal(t, 1, c.Remaining())
}

func TestFormatClock(t *testing.T) {
	tests := map[int]string{
		0:     "00:00:00",
		59:    "00:00:59",
		300:   "00:05:00",
		5400:  "01:30:00",
		36061: "10:01:01",
		-5:    "00:00:00",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatClock(in))
	}
}

func TestBudgetSeconds(t *testing.T) {
	q1 := singleQuestion(1, "A", 1)
	q1.TimeLimitMinutes = intPtr(2)
	q2 := singleQuestion(2, "A", 1)
	q3 := singleQuestion(3, "A", 1)
	q3.TimeLimitMinutes = intPtr(0)

	questions := []models.Question{q1, q2, q3}
	assert.Equal(t, (2+30+30)*60, BudgetSeconds(questions, 0))
	assert.Equal(t, (2+5+5)*60, BudgetSeconds(questions, 5))
}
