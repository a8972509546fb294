package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"content-pilot/internal/agent/orchestrator"
	pkgLog "content-pilot/pkg/log"
)

// ErrSessionBusy is returned when a message arrives while the session's
// previous invocation is still running. One invocation per session at a
// time; concurrent invocations across different sessions are fine.
var ErrSessionBusy = errors.New("session busy")

const (
	DefaultTTL             = 30 * time.Minute
	DefaultCleanupInterval = 5 * time.Minute
)

// Manager owns the live sessions and serializes loop invocations per
// session. Idle sessions are evicted after the TTL; eviction never touches a
// session with an invocation in flight.
type Manager struct {
	orch *orchestrator.Orchestrator
	l    pkgLog.Logger

	ttl             time.Duration
	cleanupInterval time.Duration

	mu       sync.Mutex
	sessions map[string]*Session

	stop     chan struct{}
	stopOnce sync.Once
}

func NewManager(orch *orchestrator.Orchestrator, l pkgLog.Logger, ttl, cleanupInterval time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if cleanupInterval <= 0 {
		cleanupInterval = DefaultCleanupInterval
	}

	m := &Manager{
		orch:            orch,
		l:               l,
		ttl:             ttl,
		cleanupInterval: cleanupInterval,
		sessions:        make(map[string]*Session),
		stop:            make(chan struct{}),
	}
	go m.janitor()
	return m
}

// GetOrCreate returns the session with the given ID, creating it when absent.
// An empty ID creates a fresh session with a generated ID.
func (m *Manager) GetOrCreate(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id != "" {
		if s, ok := m.sessions[id]; ok {
			return s
		}
	}
	s := newSession(id)
	m.sessions[s.ID] = s
	return s
}

// Run starts one loop invocation on the session and returns its event
// stream. Returns ErrSessionBusy when the previous invocation has not
// finished. The session is released when the stream closes.
func (m *Manager) Run(ctx context.Context, sessionID, userText string) (<-chan orchestrator.Event, error) {
	s := m.GetOrCreate(sessionID)

	history, ok := s.acquire()
	if !ok {
		m.l.Warnf(ctx, "session.Manager.Run: session %s busy", s.ID)
		return nil, ErrSessionBusy
	}

	events := m.orch.Run(ctx, orchestrator.RunInput{
		SessionID: s.ID,
		UserText:  userText,
		History:   history,
		OnMessage: s.append,
	})

	out := make(chan orchestrator.Event, cap(events))
	go func() {
		defer close(out)
		defer s.release()
		for ev := range events {
			out <- ev
		}
	}()
	return out, nil
}

// Clear drops the session's transcript and removes it from the pool. The
// memory snapshot is unaffected. Returns ErrSessionBusy when an invocation
// is in flight.
func (m *Manager) Clear(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	m.mu.Unlock()
	if !ok {
		return nil
	}

	s.mu.Lock()
	busy := s.busy
	s.mu.Unlock()
	if busy {
		return ErrSessionBusy
	}

	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Close stops the eviction loop. Running invocations are not interrupted.
func (m *Manager) Close() {
	m.stopOnce.Do(func() { close(m.stop) })
}

func (m *Manager) janitor() {
	ticker := time.NewTicker(m.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.evictIdle()
		case <-m.stop:
			return
		}
	}
}

func (m *Manager) evictIdle() {
	cutoff := time.Now().Add(-m.ttl)

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		if s.idleSince(cutoff) {
			delete(m.sessions, id)
			m.l.Infof(context.Background(), "session.Manager: evicted idle session %s", id)
		}
	}
}
