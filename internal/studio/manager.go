package studio

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Manager keeps the live sessions of a server.
type Manager struct {
	cfg      Config
	sessions sync.Map // id -> *Session
	count    atomic.Int64
}

// NewManager creates a manager whose sessions share cfg.
func NewManager(cfg Config) *Manager {
	return &Manager{cfg: cfg.withDefaults()}
}

// Create starts a new session with a fresh UUIDv7 id.
func (m *Manager) Create() (*Session, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session id: %w", err)
	}
	s := NewSession(id.String(), m.cfg)
	m.sessions.Store(s.ID(), s)
	m.count.Add(1)
	m.cfg.Logger.Info("Session created", "session_id", s.ID())
	return s, nil
}

// Get looks up a session.
func (m *Manager) Get(id string) (*Session, bool) {
	v, ok := m.sessions.Load(id)
	if !ok {
		return nil, false
	}
	return v.(*Session), true
}

// Delete closes and forgets a session.
func (m *Manager) Delete(id string) bool {
	v, ok := m.sessions.LoadAndDelete(id)
	if !ok {
		return false
	}
	v.(*Session).Close()
	m.count.Add(-1)
	m.cfg.Logger.Info("Session closed", "session_id", id)
	return true
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	return int(m.count.Load())
}

// Close closes every session.
func (m *Manager) Close() {
	m.sessions.Range(func(key, _ any) bool {
		m.Delete(key.(string))
		return true
	})
}
