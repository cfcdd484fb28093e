package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SAP-F-2025/exam-session-service/internal/exam"
	"github.com/SAP-F-2025/exam-session-service/internal/models"
	"github.com/SAP-F-2025/exam-session-service/internal/repositories"
)

const defaultWriteTimeout = 5 * time.Second

type writeJob struct {
	name string
	run  func(ctx context.Context) error
}

// sessionWriter persists one session off the caller's path. Answer and
// finalize writes are queued and applied in order by a single goroutine;
// failures are logged and dropped.
type sessionWriter struct {
	sessions repositories.ExamSessionRepository
	recorder AttemptRecorder
	logger   *slog.Logger
	timeout  time.Duration

	mu     sync.Mutex
	queue  []writeJob
	closed bool
	wake   chan struct{}
	done   chan struct{}
}

func newSessionWriter(sessions repositories.ExamSessionRepository, recorder AttemptRecorder, logger *slog.Logger, timeout time.Duration) *sessionWriter {
	if timeout <= 0 {
		timeout = defaultWriteTimeout
	}
	w := &sessionWriter{
		sessions: sessions,
		recorder: recorder,
		logger:   logger,
		timeout:  timeout,
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	go w.run()
	return w
}

// CreateSession runs synchronously so the id is known before the first answer.
func (w *sessionWriter) CreateSession(ctx context.Context, start exam.SessionStart) (uint, error) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	session := &models.ExamSession{
		UserID:            start.UserID,
		Subject:           start.Subject,
		QuestionSetID:     start.QuestionSetID,
		TimeBudgetSeconds: start.BudgetSeconds,
		Status:            models.SessionInProgress,
		StartedAt:         start.StartedAt,
	}
	if err := w.sessions.Create(ctx, session); err != nil {
		return 0, err
	}
	return session.ID, nil
}

func (w *sessionWriter) UpsertAnswer(_ context.Context, record exam.AnswerRecord) error {
	w.enqueue(writeJob{
		name: fmt.Sprintf("upsert answer %d", record.QuestionID),
		run: func(ctx context.Context) error {
			return w.sessions.UpsertAnswer(ctx, &models.ExamAnswer{
				ExamSessionID:    record.SessionID,
				QuestionID:       record.QuestionID,
				SelectedAnswer:   record.Value,
				IsCorrect:        record.Correct,
				TimeTakenSeconds: record.ElapsedSeconds,
			})
		},
	})
	return nil
}

func (w *sessionWriter) FinalizeSession(_ context.Context, outcome exam.SessionOutcome) error {
	w.enqueue(writeJob{
		name: "finalize session",
		run: func(ctx context.Context) error {
			return w.sessions.Finalize(ctx, outcome.SessionID, repositories.SessionFinalization{
				Status:           outcome.Status,
				TotalScore:       outcome.TotalScore,
				MaxScore:         outcome.MaxScore,
				IsPassed:         outcome.Passed,
				TimeSpentSeconds: outcome.ElapsedSeconds,
				CompletedAt:      outcome.CompletedAt,
			})
		},
	})
	return nil
}

// RecordAttempt queues the analytics hand-off behind the session writes.
func (w *sessionWriter) RecordAttempt(_ context.Context, summary exam.AttemptSummary) error {
	if w.recorder == nil {
		return nil
	}
	w.enqueue(writeJob{
		name: "record attempt analytics",
		run: func(ctx context.Context) error {
			return w.recorder.RecordAttempt(ctx, summary)
		},
	})
	return nil
}

func (w *sessionWriter) enqueue(job writeJob) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		w.logger.Warn("Session writer closed, dropping write", "job", job.name)
		return
	}
	w.queue = append(w.queue, job)
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (w *sessionWriter) run() {
	defer close(w.done)
	for {
		w.mu.Lock()
		jobs := w.queue
		w.queue = nil
		closed := w.closed
		w.mu.Unlock()

		if len(jobs) == 0 {
			if closed {
				return
			}
			<-w.wake
			continue
		}
		for _, job := range jobs {
			w.exec(job)
		}
	}
}

func (w *sessionWriter) exec(job writeJob) {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()
	if err := job.run(ctx); err != nil {
		w.logger.Warn("Session write failed", "job", job.name, "error", err)
	}
}

// Close stops accepting writes and waits until the queue is drained.
func (w *sessionWriter) Close() {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
	}
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
	<-w.done
}
