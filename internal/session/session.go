package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"content-pilot/internal/agent/orchestrator"
)

// Session holds one conversation's in-process state. Transcripts live in
// memory only; what survives restarts is the cross-session memory snapshot,
// not the turn-by-turn transcript.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	busy     bool
	lastUsed time.Time
	history  []orchestrator.Message
}

func newSession(id string) *Session {
	if id == "" {
		id = uuid.NewString()
	}
	now := time.Now()
	return &Session{ID: id, CreatedAt: now, lastUsed: now}
}

// History returns a copy of the transcript.
func (s *Session) History() []orchestrator.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]orchestrator.Message(nil), s.history...)
}

func (s *Session) append(msg orchestrator.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, msg)
	s.lastUsed = time.Now()
}

// acquire marks the session busy. Reports false when an invocation is
// already running.
func (s *Session) acquire() (history []orchestrator.Message, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return nil, false
	}
	s.busy = true
	s.lastUsed = time.Now()
	return append([]orchestrator.Message(nil), s.history...), true
}

func (s *Session) release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	s.lastUsed = time.Now()
}

func (s *Session) idleSince(cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.busy && s.lastUsed.Before(cutoff)
}
