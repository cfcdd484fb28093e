package exam

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/SAP-F-2025/exam-session-service/internal/models"
)

type Options struct {
	Key            string
	UserID         string
	Subject        string
	QuestionSetID  string
	DefaultMinutes int
	WarningSeconds int
	PassThreshold  int

	Store  Persistence
	Sink   AnalyticsSink
	Logger *slog.Logger
	Now    func() time.Time
}

// Controller owns one exam attempt. All mutation goes through Dispatch, which
// is serialised, so a controller is the single writer of its session.
type Controller struct {
	mu sync.Mutex

	key           string
	userID        string
	subject       string
	questionSetID string

	questions []models.Question
	answers   []Answer
	doubts    []bool
	current   int

	status     models.SessionStatus
	sessionID  uint
	countdown  *Countdown
	budget     int
	startedAt  time.Time
	finishedAt time.Time
	scorer     Scorer
	result     *Result

	store  Persistence
	sink   AnalyticsSink
	logger *slog.Logger
	now    func() time.Time
	done   chan struct{}
}

// NewController prepares an attempt over questions. The question list is
// copied and the answer slots are allocated once.
func NewController(questions []models.Question, opts Options) (*Controller, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	if opts.Store == nil {
		opts.Store = nopPersistence{}
	}
	if opts.Sink == nil {
		opts.Sink = nopSink{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.PassThreshold <= 0 {
		opts.PassThreshold = PassThreshold
	}
	if opts.WarningSeconds <= 0 {
		opts.WarningSeconds = DefaultWarningSeconds
	}

	c := &Controller{
		key:           opts.Key,
		userID:        opts.UserID,
		subject:       opts.Subject,
		questionSetID: opts.QuestionSetID,
		questions:     slices.Clone(questions),
		answers:       make([]Answer, len(questions)),
		doubts:        make([]bool, len(questions)),
		status:        models.SessionInProgress,
		scorer:        Scorer{PassThreshold: opts.PassThreshold},
		store:         opts.Store,
		sink:          opts.Sink,
		logger:        opts.Logger.With("session_key", opts.Key),
		now:           opts.Now,
		done:          make(chan struct{}),
	}
	for i := range c.questions {
		c.answers[i] = NewAnswer(&c.questions[i])
	}
	c.budget = BudgetSeconds(c.questions, opts.DefaultMinutes)
	c.countdown = NewCountdown(c.budget, opts.WarningSeconds, func(ctx context.Context) {
		c.finalizeLocked(ctx, models.SessionExpired)
	})
	return c, nil
}

// Start stamps the start time and records the session. A failed create is
// logged and the attempt proceeds unrecorded.
func (c *Controller) Start(ctx context.Context) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.startedAt = c.now()
	id, err := c.store.CreateSession(ctx, SessionStart{
		UserID:        c.userID,
		Subject:       c.subject,
		QuestionSetID: c.questionSetID,
		BudgetSeconds: c.budget,
		StartedAt:     c.startedAt,
	})
	if err != nil {
		c.logger.Warn("Failed to create exam session record", "error", err)
	} else {
		c.sessionID = id
	}
	c.logger.Info("Exam started",
		"session_id", c.sessionID,
		"questions", len(c.questions),
		"budget_seconds", c.budget)
	return c.snapshotLocked()
}

// Dispatch applies one command. Errors leave the session unchanged.
func (c *Controller) Dispatch(ctx context.Context, cmd Command) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status.IsTerminal() {
		if _, ok := cmd.(Tick); ok {
			return c.snapshotLocked(), nil
		}
		return c.snapshotLocked(), ErrSessionClosed
	}

	var err error
	switch cmd := cmd.(type) {
	case SelectAnswer:
		err = c.selectAnswerLocked(cmd.Letter)
	case ToggleOption:
		err = c.toggleOptionLocked(cmd.Letter)
	case MarkStatement:
		err = c.markStatementLocked(cmd.Statement, cmd.Value)
	case Navigate:
		err = c.goToLocked(ctx, cmd.Index)
	case Next:
		if c.current == len(c.questions)-1 {
			err = c.finishLocked(ctx, false)
		} else {
			err = c.goToLocked(ctx, c.current+1)
		}
	case Prev:
		err = c.goToLocked(ctx, c.current-1)
	case ToggleDoubt:
		c.doubts[c.current] = !c.doubts[c.current]
	case Finish:
		err = c.finishLocked(ctx, cmd.Confirmed)
	case Tick:
		c.countdown.Tick(ctx)
	default:
		err = ErrUnknownCommand
	}
	return c.snapshotLocked(), err
}

func (c *Controller) selectAnswerLocked(letter string) error {
	if c.questions[c.current].Kind() != models.SingleChoice {
		return ErrWrongQuestionType
	}
	return c.answers[c.current].SetChoice(letter)
}

func (c *Controller) toggleOptionLocked(letter string) error {
	if c.questions[c.current].Kind() != models.MultiSelect {
		return ErrWrongQuestionType
	}
	return c.answers[c.current].Toggle(letter)
}

func (c *Controller) markStatementLocked(statement string, value bool) error {
	q := &c.questions[c.current]
	if q.Kind() != models.CategoryTrueFalse {
		return ErrWrongQuestionType
	}
	if !slices.Contains(q.Statements(), statement) {
		return ErrUnknownStatement
	}
	c.answers[c.current].SetStatement(statement, value)
	return nil
}

func (c *Controller) goToLocked(ctx context.Context, index int) error {
	if index < 0 || index >= len(c.questions) {
		return ErrIndexOutOfRange
	}
	c.flushLocked(ctx)
	c.current = index
	return nil
}

func (c *Controller) finishLocked(ctx context.Context, confirmed bool) error {
	if n := c.unansweredLocked(); n > 0 && !confirmed {
		return &ConfirmationRequiredError{Unanswered: n}
	}
	c.finalizeLocked(ctx, models.SessionCompleted)
	return nil
}

// flushLocked writes the current slot to the store. Empty slots are skipped.
func (c *Controller) flushLocked(ctx context.Context) {
	if c.sessionID == 0 {
		return
	}
	q := &c.questions[c.current]
	a := c.answers[c.current]
	if a.IsEmpty() {
		return
	}
	err := c.store.UpsertAnswer(ctx, AnswerRecord{
		SessionID:      c.sessionID,
		QuestionID:     q.ID,
		Value:          a.Value(),
		Correct:        IsCorrect(q, a),
		ElapsedSeconds: c.elapsedLocked(),
	})
	if err != nil {
		c.logger.Warn("Failed to save answer",
			"question_id", q.ID,
			"error", err)
	}
}

// finalizeLocked runs at most once per controller, whichever of finish or
// expiry comes first.
func (c *Controller) finalizeLocked(ctx context.Context, status models.SessionStatus) {
	if c.status.IsTerminal() {
		return
	}
	c.flushLocked(ctx)
	c.status = status
	c.countdown.Stop()
	c.finishedAt = c.now()

	result := c.scorer.Score(c.questions, c.answers)
	c.result = &result
	elapsed := c.elapsedLocked()

	if c.sessionID != 0 {
		err := c.store.FinalizeSession(ctx, SessionOutcome{
			SessionID:      c.sessionID,
			Status:         status,
			TotalScore:     result.TotalScore,
			MaxScore:       result.MaxScore,
			Passed:         result.Passed,
			ElapsedSeconds: elapsed,
			CompletedAt:    c.finishedAt,
		})
		if err != nil {
			c.logger.Error("Failed to finalize exam session record", "error", err)
		}
	}

	err := c.sink.RecordAttempt(ctx, AttemptSummary{
		UserID:      c.userID,
		SessionID:   c.sessionID,
		SessionKey:  c.key,
		Subject:     c.subject,
		Status:      status,
		TotalScore:  result.TotalScore,
		MaxScore:    result.MaxScore,
		Passed:      result.Passed,
		Mastery:     Mastery(c.questions, c.answers),
		CompletedAt: c.finishedAt,
	})
	if err != nil {
		c.logger.Warn("Failed to record attempt analytics", "error", err)
	}

	c.logger.Info("Exam finished",
		"status", status,
		"total_score", result.TotalScore,
		"max_score", result.MaxScore,
		"passed", result.Passed,
		"elapsed_seconds", elapsed)
	close(c.done)
}

func (c *Controller) elapsedLocked() int {
	if c.startedAt.IsZero() {
		return 0
	}
	end := c.now()
	if !c.finishedAt.IsZero() {
		end = c.finishedAt
	}
	return int(end.Sub(c.startedAt) / time.Second)
}

func (c *Controller) unansweredLocked() int {
	n := 0
	for _, a := range c.answers {
		if a.IsEmpty() {
			n++
		}
	}
	return n
}

// Snapshot returns the current view of the session.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	n := len(c.questions)
	s := Snapshot{
		Key:              c.key,
		SessionID:        c.sessionID,
		Status:           c.status,
		Index:            c.current,
		Total:            n,
		Progress:         float64(c.current+1) / float64(n) * 100,
		IsLast:           c.current == n-1,
		Question:         NewQuestionView(&c.questions[c.current], c.current),
		Answer:           c.answers[c.current].Clone(),
		Doubtful:         c.doubts[c.current],
		Nav:              make([]NavItem, n),
		Unanswered:       c.unansweredLocked(),
		RemainingSeconds: c.countdown.Remaining(),
		Clock:            FormatClock(c.countdown.Remaining()),
		Warning:          c.countdown.Warning(),
	}
	for i := range c.questions {
		s.Nav[i] = NavItem{
			Number:   i + 1,
			Current:  i == c.current,
			Answered: !c.answers[i].IsEmpty(),
			Doubtful: c.doubts[i],
		}
	}
	if c.result != nil {
		r := *c.result
		r.Items = slices.Clone(c.result.Items)
		s.Result = &r
	}
	return s
}

// Done is closed once the session reaches a terminal state.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

func (c *Controller) Key() string { return c.key }

func (c *Controller) UserID() string { return c.userID }

func (c *Controller) Status() models.SessionStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Result returns the final result, or false while the session is running.
func (c *Controller) Result() (Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.result == nil {
		return Result{}, false
	}
	r := *c.result
	r.Items = slices.Clone(c.result.Items)
	return r, true
}

type ReportRow struct {
	Number   int
	Question QuestionView
	Answer   string
	Item     ItemResult
}

// Report is the data behind a finished session's result report.
type Report struct {
	Key        string
	SessionID  uint
	UserID     string
	Subject    string
	Status     models.SessionStatus
	StartedAt  time.Time
	FinishedAt time.Time
	Result     Result
	Mastery    MasteryReport
	Rows       []ReportRow
}

// Report returns the report of a finished session, or false while running.
func (c *Controller) Report() (Report, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.result == nil {
		return Report{}, false
	}
	r := Report{
		Key:        c.key,
		SessionID:  c.sessionID,
		UserID:     c.userID,
		Subject:    c.subject,
		Status:     c.status,
		StartedAt:  c.startedAt,
		FinishedAt: c.finishedAt,
		Result:     *c.result,
		Mastery:    Mastery(c.questions, c.answers),
		Rows:       make([]ReportRow, len(c.questions)),
	}
	r.Result.Items = slices.Clone(c.result.Items)
	for i := range c.questions {
		r.Rows[i] = ReportRow{
			Number:   i + 1,
			Question: NewQuestionView(&c.questions[i], i),
			Answer:   c.answers[i].Value(),
			Item:     c.result.Items[i],
		}
	}
	return r, true
}
