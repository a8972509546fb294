package memory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	pkgLog "content-pilot/pkg/log"
)

// Store persists snapshots. Mirrors repository.MemoryRepository without
// importing it, so the manager stays decoupled from the storage package.
type Store interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, s *Snapshot) error
}

// Summarizer folds evicted turns into the rolling summary. Implemented by the
// LLM-backed summarizer in the orchestrator wiring; nil disables LLM
// summarization and falls back to verbatim folding.
type Summarizer interface {
	Summarize(ctx context.Context, currentSummary string, evicted []Turn) (string, error)
}

// ErrNotFound is returned by stores before the first save.
var ErrNotFound = errors.New("not found")

// Manager owns the cross-session memory snapshot. All writes are serialized
// through a single writer lock; reads return the last committed snapshot
// without taking the writer lock, so a live chat session and a concurrent
// automation run never block each other's reads.
type Manager struct {
	store      Store
	summarizer Summarizer
	l          pkgLog.Logger
	windowSize int

	writeMu   sync.Mutex     // serializes all read-modify-write cycles
	committed atomic.Pointer[Snapshot]
}

// NewManager loads the persisted snapshot (or starts empty) and returns a
// ready manager.
func NewManager(ctx context.Context, store Store, summarizer Summarizer, l pkgLog.Logger, windowSize int) (*Manager, error) {
	if windowSize <= 0 {
		windowSize = 20
	}

	m := &Manager{
		store:      store,
		summarizer: summarizer,
		l:          l,
		windowSize: windowSize,
	}

	snap, err := store.Load(ctx)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("load memory: %w", err)
		}
		snap = &Snapshot{Learnings: map[string][]string{}}
	}
	m.committed.Store(snap)

	return m, nil
}

// Load returns a copy of the last committed snapshot.
func (m *Manager) Load() *Snapshot {
	return m.committed.Load().Clone()
}

// Checkpoint applies a partial update and commits. The recent-message window
// is capped: inserting beyond capacity evicts oldest-first, and evicted turns
// are folded into the rolling summary. Summarization runs only on overflow,
// never per message.
func (m *Manager) Checkpoint(ctx context.Context, update Update) error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	snap := m.committed.Load().Clone()

	if update.Summary != nil {
		snap.Summary = *update.Summary
	}
	if update.ActiveProjectID != nil {
		snap.ActiveProjectID = *update.ActiveProjectID
	}

	if len(update.AppendTurns) > 0 {
		snap.RecentMessages = append(snap.RecentMessages, update.AppendTurns...)
		if overflow := len(snap.RecentMessages) - m.windowSize; overflow > 0 {
			evicted := snap.RecentMessages[:overflow]
			snap.RecentMessages = append([]Turn(nil), snap.RecentMessages[overflow:]...)
			snap.Summary = m.foldIntoSummary(ctx, snap.Summary, evicted)
		}
	}

	return m.commit(ctx, snap)
}

// RecordLearning appends a learning under a category. Categories are created
// on first use; values are append-only.
func (m *Manager) RecordLearning(ctx context.Context, category, text string) error {
	category = strings.TrimSpace(category)
	text = strings.TrimSpace(text)
	if category == "" || text == "" {
		return fmt.Errorf("category and text are required")
	}

	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	snap := m.committed.Load().Clone()
	snap.Learnings[category] = append(snap.Learnings[category], text)

	return m.commit(ctx, snap)
}

// commit bumps the version, persists, and swaps the committed pointer.
// Persistence failures are reported but do not roll back the in-memory
// commit: a conversation must not break because the disk write failed.
func (m *Manager) commit(ctx context.Context, snap *Snapshot) error {
	snap.Version++
	snap.UpdatedAt = time.Now().UTC()
	m.committed.Store(snap)

	if err := m.store.Save(ctx, snap); err != nil {
		m.l.Errorf(ctx, "memory: persist failed at version %d: %v", snap.Version, err)
		return fmt.Errorf("persist memory: %w", err)
	}
	return nil
}

// foldIntoSummary merges evicted turns into the summary, via the LLM
// summarizer when available.
func (m *Manager) foldIntoSummary(ctx context.Context, summary string, evicted []Turn) string {
	if m.summarizer != nil {
		updated, err := m.summarizer.Summarize(ctx, summary, evicted)
		if err == nil {
			return updated
		}
		m.l.Warnf(ctx, "memory: summarization failed, folding verbatim: %v", err)
	}

	var sb strings.Builder
	sb.WriteString(summary)
	for _, t := range evicted {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		text := truncate(t.Text, 200)
		sb.WriteString(fmt.Sprintf("[%s] %s", t.Role, text))
	}
	return sb.String()
}

// truncate cuts s to at most max bytes without splitting a rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "…"
}
