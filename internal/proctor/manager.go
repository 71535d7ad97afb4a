package proctor

import (
	"sync"

	"go.uber.org/zap"

	"github.com/Micheduc25/evaluation-platform-sub000/internal/session"
)

// Manager owns one hook per live submission so concurrent exam sessions
// never share state.
type Manager struct {
	mu        sync.Mutex
	hooks     map[string]*Hook
	cfg       Config
	tokens    *session.Store
	callbacks Callbacks
	log       *zap.Logger
}

// NewManager builds a manager; every hook it creates shares the same
// policy, token store, and outbound callbacks.
func NewManager(cfg Config, tokens *session.Store, callbacks Callbacks, log *zap.Logger) *Manager {
	return &Manager{
		hooks:     make(map[string]*Hook),
		cfg:       cfg,
		tokens:    tokens,
		callbacks: callbacks,
		log:       log,
	}
}

// Acquire returns the hook for a submission, creating an idle one if none
// exists yet.
func (m *Manager) Acquire(submissionID string) *Hook {
	m.mu.Lock()
	defer m.mu.Unlock()
	if hook, ok := m.hooks[submissionID]; ok {
		return hook
	}
	hook := NewHook(m.cfg, m.tokens, m.callbacks, m.log)
	m.hooks[submissionID] = hook
	return hook
}

// Get returns the hook for a submission, if one is live.
func (m *Manager) Get(submissionID string) (*Hook, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	hook, ok := m.hooks[submissionID]
	return hook, ok
}

// Release tears down and forgets the hook for a submission. Safe to call
// for unknown submissions.
func (m *Manager) Release(submissionID string) {
	m.mu.Lock()
	hook, ok := m.hooks[submissionID]
	delete(m.hooks, submissionID)
	m.mu.Unlock()

	if ok {
		hook.Stop()
	}
}
