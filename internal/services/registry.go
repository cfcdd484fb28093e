package services

import (
	"sync"
	"time"

	"github.com/SAP-F-2025/exam-session-service/internal/exam"
)

// sessionRegistry holds live and recently finished controllers by key.
type sessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*exam.Controller
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{sessions: make(map[string]*exam.Controller)}
}

func (r *sessionRegistry) add(c *exam.Controller) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[c.Key()] = c
}

func (r *sessionRegistry) get(key string) (*exam.Controller, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.sessions[key]
	return c, ok
}

func (r *sessionRegistry) remove(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, key)
}

// forgetAfter drops a finished session once its result has been available
// for retention.
func (r *sessionRegistry) forgetAfter(key string, retention time.Duration) *time.Timer {
	return time.AfterFunc(retention, func() { r.remove(key) })
}

func (r *sessionRegistry) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
