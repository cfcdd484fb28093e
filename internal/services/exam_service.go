package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SAP-F-2025/exam-session-service/internal/events"
	"github.com/SAP-F-2025/exam-session-service/internal/exam"
	"github.com/SAP-F-2025/exam-session-service/internal/models"
	"github.com/SAP-F-2025/exam-session-service/internal/repositories"
	"github.com/google/uuid"
)

// ExamService runs exam attempts server side. Each attempt is owned by one
// exam.Controller; its countdown is driven by a per-session ticker.
type ExamService interface {
	StartExam(ctx context.Context, userID, subject string) (*exam.Snapshot, error)
	GetSession(ctx context.Context, userID, key string) (*exam.Snapshot, error)
	Dispatch(ctx context.Context, userID, key string, cmd exam.Command) (*exam.Snapshot, error)
	GetResult(ctx context.Context, userID, key string) (*exam.Result, error)
	ExportReport(ctx context.Context, userID, key string) ([]byte, error)
	ReviewSession(ctx context.Context, userID string, sessionID uint) (*SessionReview, error)
	ListSessions(ctx context.Context, userID string, limit int) ([]*models.ExamSession, error)
	GetMastery(ctx context.Context, userID string) (*models.StudentAnalytics, error)
	Shutdown(ctx context.Context) error
}

// ExamSettings configures the exam flow.
type ExamSettings struct {
	Subject                string
	QuestionSetID          string
	PassThreshold          int
	DefaultQuestionMinutes int
	WarningSeconds         int

	TickInterval time.Duration
	Retention    time.Duration
	WriteTimeout time.Duration
	Now          func() time.Time
}

func (s *ExamSettings) applyDefaults() {
	if s.PassThreshold <= 0 {
		s.PassThreshold = exam.PassThreshold
	}
	if s.TickInterval <= 0 {
		s.TickInterval = time.Second
	}
	if s.Retention <= 0 {
		s.Retention = time.Hour
	}
	if s.WriteTimeout <= 0 {
		s.WriteTimeout = defaultWriteTimeout
	}
	if s.Now == nil {
		s.Now = time.Now
	}
}

type examService struct {
	repos     *repositories.Repositories
	recorder  AttemptRecorder
	publisher events.EventPublisher
	settings  ExamSettings
	registry  *sessionRegistry
	logger    *ServiceLogger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewExamService(
	repos *repositories.Repositories,
	publisher events.EventPublisher,
	settings ExamSettings,
	logger *slog.Logger,
) ExamService {
	settings.applyDefaults()
	ctx, cancel := context.WithCancel(context.Background())

	return &examService{
		repos:     repos,
		recorder:  NewAnalyticsService(repos.Analytics, publisher, logger),
		publisher: publisher,
		settings:  settings,
		registry:  newSessionRegistry(),
		logger:    NewServiceLogger(logger, "exam"),
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (s *examService) StartExam(ctx context.Context, userID, subject string) (snap *exam.Snapshot, err error) {
	start := time.Now()
	key := ""
	defer func() {
		s.logger.LogOperation(ctx, "start_exam", userID, key, time.Since(start), err)
	}()

	if s.ctx.Err() != nil {
		return nil, ErrServiceShuttingDown
	}
	if subject == "" {
		subject = s.settings.Subject
	}

	questions, err := s.repos.Questions.ListActiveBySubject(ctx, subject)
	if err != nil {
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	key = uuid.NewString()
	writer := newSessionWriter(s.repos.Sessions, s.recorder, s.logger.Logger(), s.settings.WriteTimeout)
	controller, err := exam.NewController(questions, exam.Options{
		Key:            key,
		UserID:         userID,
		Subject:        subject,
		QuestionSetID:  s.settings.QuestionSetID,
		DefaultMinutes: s.settings.DefaultQuestionMinutes,
		WarningSeconds: s.settings.WarningSeconds,
		PassThreshold:  s.settings.PassThreshold,
		Store:          writer,
		Sink:           writer,
		Logger:         s.logger.Logger(),
		Now:            s.settings.Now,
	})
	if err != nil {
		writer.Close()
		if errors.Is(err, exam.ErrNoQuestions) {
			return nil, ErrNoQuestions
		}
		return nil, err
	}

	started := controller.Start(ctx)
	s.registry.add(controller)
	s.wg.Add(1)
	go s.runClock(controller, writer)

	s.publishStarted(ctx, userID, subject, started)
	return &started, nil
}

// runClock ticks the controller until it finishes or the service stops, then
// drains the session's pending writes.
func (s *examService) runClock(c *exam.Controller, writer *sessionWriter) {
	defer s.wg.Done()
	defer writer.Close()

	ticker := time.NewTicker(s.settings.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.Done():
			s.registry.forgetAfter(c.Key(), s.settings.Retention)
			return
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			if _, err := c.Dispatch(s.ctx, exam.Tick{}); err != nil {
				s.logger.Logger().Debug("Tick rejected", "session_key", c.Key(), "error", err)
			}
		}
	}
}

func (s *examService) publishStarted(ctx context.Context, userID, subject string, snap exam.Snapshot) {
	if s.publisher == nil {
		return
	}
	event := events.NewSessionStartedEvent(events.SessionStartedEvent{
		SessionKey:    snap.Key,
		SessionID:     snap.SessionID,
		UserID:        userID,
		Subject:       subject,
		QuestionCount: snap.Total,
		BudgetSeconds: snap.RemainingSeconds,
		StartedAt:     s.settings.Now(),
	})
	if err := s.publisher.PublishExamEvent(ctx, event); err != nil {
		s.logger.Logger().Warn("Failed to publish session started event", "session_key", snap.Key, "error", err)
	}
}

func (s *examService) controller(userID, key string) (*exam.Controller, error) {
	c, ok := s.registry.get(key)
	if !ok {
		return nil, ErrSessionNotFound
	}
	if c.UserID() != userID {
		return nil, NewPermissionError(userID, "exam session", "access")
	}
	return c, nil
}

func (s *examService) GetSession(ctx context.Context, userID, key string) (*exam.Snapshot, error) {
	c, err := s.controller(userID, key)
	if err != nil {
		return nil, err
	}
	snap := c.Snapshot()
	return &snap, nil
}

func (s *examService) Dispatch(ctx context.Context, userID, key string, cmd exam.Command) (snap *exam.Snapshot, err error) {
	start := time.Now()
	defer func() {
		s.logger.LogOperation(ctx, "dispatch_"+exam.CommandName(cmd), userID, key, time.Since(start), err)
	}()

	c, err := s.controller(userID, key)
	if err != nil {
		return nil, err
	}
	next, err := c.Dispatch(ctx, cmd)
	if err != nil {
		return &next, err
	}
	return &next, nil
}

func (s *examService) GetResult(ctx context.Context, userID, key string) (*exam.Result, error) {
	c, err := s.controller(userID, key)
	if err != nil {
		return nil, err
	}
	result, ok := c.Result()
	if !ok {
		return nil, ErrSessionInProgress
	}
	return &result, nil
}

func (s *examService) ExportReport(ctx context.Context, userID, key string) ([]byte, error) {
	c, err := s.controller(userID, key)
	if err != nil {
		return nil, err
	}
	report, ok := c.Report()
	if !ok {
		return nil, ErrSessionInProgress
	}
	return buildResultWorkbook(report)
}

// Shutdown stops every session clock and waits for pending writes.
func (s *examService) Shutdown(ctx context.Context) error {
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("exam service shutdown: %w", ctx.Err())
	}
}
