package exam

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/exam-session-service/internal/models"
)

// DefaultWarningSeconds is when the clock switches to its warning state.
const DefaultWarningSeconds = 300

// Countdown counts an exam's remaining seconds. It is driven by external ticks
// and is not safe for concurrent use; the Controller serialises access.
type Countdown struct {
	remaining int
	warnAt    int
	expired   bool
	stopped   bool
	onExpire  func(ctx context.Context)
}

func NewCountdown(budgetSeconds, warnAt int, onExpire func(ctx context.Context)) *Countdown {
	if warnAt < 0 {
		warnAt = DefaultWarningSeconds
	}
	if budgetSeconds < 0 {
		budgetSeconds = 0
	}
	return &Countdown{remaining: budgetSeconds, warnAt: warnAt, onExpire: onExpire}
}

// Tick removes one second. When the counter reaches zero onExpire runs once;
// later ticks are ignored.
func (c *Countdown) Tick(ctx context.Context) {
	if c.stopped || c.expired {
		return
	}
	c.remaining--
	if c.remaining > 0 {
		return
	}
	c.remaining = 0
	c.expired = true
	if c.onExpire != nil {
		c.onExpire(ctx)
	}
}

func (c *Countdown) Remaining() int { return c.remaining }

func (c *Countdown) Expired() bool { return c.expired }

// Warning is a display hint only.
func (c *Countdown) Warning() bool {
	return !c.stopped && c.remaining <= c.warnAt
}

// Stop freezes the countdown; a stopped countdown never fires.
func (c *Countdown) Stop() { c.stopped = true }

// FormatClock renders seconds as HH:MM:SS.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, seconds%3600/60, seconds%60)
}

// BudgetSeconds sums the questions' time limits. Questions without a limit
// count defaultMinutes.
func BudgetSeconds(questions []models.Question, defaultMinutes int) int {
	total := 0
	for i := range questions {
		total += questions[i].TimeBudgetMinutes(defaultMinutes)
	}
	return total * 60
}
