package config

import (
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/SAP-F-2025/exam-session-service/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("AUTH_ENABLED", "false")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "Matematika", cfg.Exam.Subject)
	assert.Equal(t, "tka-matematika-set", cfg.Exam.QuestionSetID)
	assert.Equal(t, 70, cfg.Exam.PassThreshold)
	assert.Equal(t, 30, cfg.Exam.DefaultQuestionMinutes)
	assert.Equal(t, 300, cfg.Exam.WarningSeconds)
	assert.Equal(t, 5*time.Minute, cfg.QuestionCacheTTL)
	assert.Equal(t, "exam-analytics", cfg.Events.AnalyticsTopic)
	assert.Equal(t, time.Hour, cfg.Exam.ResultRetention)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfig_InvalidPool(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("AUTH_ENABLED", "false")
	t.Setenv("DB_MAX_OPEN_CONNS", "0")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "invalid database config")
}

func TestLoadConfig_InvalidPassThreshold(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("AUTH_ENABLED", "false")
	t.Setenv("EXAM_PASS_THRESHOLD", "0")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "invalid exam config")
}

func TestLoadConfig_Overrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("AUTH_ENABLED", "false")
	t.Setenv("EXAM_SUBJECT", "Fisika")
	t.Setenv("EXAM_PASS_THRESHOLD", "60")
	t.Setenv("EXAM_WARNING_SECONDS", "not-a-number")
	t.Setenv("QUESTION_CACHE_TTL", "90s")
	t.Setenv("ENVIRONMENT", "production")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "Fisika", cfg.Exam.Subject)
	assert.Equal(t, 60, cfg.Exam.PassThreshold)
	assert.Equal(t, 300, cfg.Exam.WarningSeconds)
	assert.Equal(t, 90*time.Second, cfg.QuestionCacheTTL)
	assert.True(t, cfg.IsProduction())
}

func TestLoadConfig_AuthRequiresCasdoorSettings(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("AUTH_ENABLED", "true")
	t.Setenv("CASDOOR_ENDPOINT", "")

	_, err := LoadConfig()
	assert.Error(t, err)

	t.Setenv("CASDOOR_ENDPOINT", "https://auth.example.com")
	t.Setenv("CASDOOR_CLIENT_ID", "client")
	t.Setenv("CASDOOR_CERTIFICATE", "-----BEGIN CERTIFICATE-----")
	_, err = LoadConfig()
	assert.NoError(t, err)
}

func TestEventConfig(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	c := EventConfig{KafkaBrokers: "a:9092, b:9092,,", Enabled: false}
	assert.Equal(t, []string{"a:9092", "b:9092"}, c.GetKafkaBrokers())

	p, err := c.CreateEventPublisher(logger)
	require.NoError(t, err)
	assert.IsType(t, &events.MockEventPublisher{}, p)

	c = EventConfig{Enabled: true, Publisher: "carrier-pigeon"}
	p, err = c.CreateEventPublisher(logger)
	require.NoError(t, err)
	assert.IsType(t, &events.MockEventPublisher{}, p)

	c = EventConfig{Enabled: true, Publisher: "kafka", KafkaBrokers: " , "}
	_, err = c.CreateEventPublisher(logger)
	assert.Error(t, err)
}

// chdir switches the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
