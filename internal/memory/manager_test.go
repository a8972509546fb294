package memory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"
)

type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, args ...any)                 {}
func (m *mockLogger) Debugf(ctx context.Context, format string, args ...any) {}
func (m *mockLogger) Info(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Infof(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) Warn(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Warnf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) Error(ctx context.Context, args ...any)                 {}
func (m *mockLogger) Errorf(ctx context.Context, format string, args ...any) {}
func (m *mockLogger) Fatal(ctx context.Context, args ...any)                 {}
func (m *mockLogger) Fatalf(ctx context.Context, format string, args ...any) {}

type mockStore struct {
	snap    *Snapshot
	saveErr error
	saves   int
}

func (s *mockStore) Load(ctx context.Context) (*Snapshot, error) {
	if s.snap == nil {
		return nil, ErrNotFound
	}
	return s.snap.Clone(), nil
}

func (s *mockStore) Save(ctx context.Context, snap *Snapshot) error {
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.snap = snap.Clone()
	return nil
}

type mockSummarizer struct {
	calls int
	err   error
}

func (s *mockSummarizer) Summarize(ctx context.Context, current string, evicted []Turn) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return fmt.Sprintf("summary(%d evicted, prior %q)", len(evicted), current), nil
}

func newTestManager(t *testing.T, store *mockStore, sum Summarizer, window int) *Manager {
	t.Helper()
	m, err := NewManager(context.Background(), store, sum, &mockLogger{}, window)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return m
}

func strPtr(s string) *string { return &s }

func TestNewManager_StartsEmptyWhenNotFound(t *testing.T) {
	m := newTestManager(t, &mockStore{}, nil, 4)

	snap := m.Load()
	if snap.Version != 0 {
		t.Errorf("expected version 0, got %d", snap.Version)
	}
	if len(snap.RecentMessages) != 0 {
		t.Errorf("expected empty window, got %d turns", len(snap.RecentMessages))
	}
}

func TestCheckpoint_BumpsVersionAndPersists(t *testing.T) {
	store := &mockStore{}
	m := newTestManager(t, store, nil, 4)

	err := m.Checkpoint(context.Background(), Update{
		AppendTurns: []Turn{{Role: "user", Text: "hello"}},
	})
	if err != nil {
		t.Fatalf("Checkpoint: %v", err)
	}

	snap := m.Load()
	if snap.Version != 1 {
		t.Errorf("expected version 1, got %d", snap.Version)
	}
	if store.saves != 1 {
		t.Errorf("expected 1 save, got %d", store.saves)
	}
	if len(snap.RecentMessages) != 1 || snap.RecentMessages[0].Text != "hello" {
		t.Errorf("unexpected window: %+v", snap.RecentMessages)
	}
}

func TestCheckpoint_WindowEvictsOldestIntoSummary(t *testing.T) {
	sum := &mockSummarizer{}
	m := newTestManager(t, &mockStore{}, sum, 3)

	for i := 0; i < 5; i++ {
		err := m.Checkpoint(context.Background(), Update{
			AppendTurns: []Turn{{Role: "user", Text: fmt.Sprintf("turn %d", i)}},
		})
		if err != nil {
			t.Fatalf("Checkpoint %d: %v", i, err)
		}
	}

	snap := m.Load()
	if len(snap.RecentMessages) != 3 {
		t.Fatalf("expected window of 3, got %d", len(snap.RecentMessages))
	}
	if snap.RecentMessages[0].Text != "turn 2" {
		t.Errorf("expected oldest surviving turn to be 'turn 2', got %q", snap.RecentMessages[0].Text)
	}
	if sum.calls != 2 {
		t.Errorf("expected summarizer called once per overflow (2), got %d", sum.calls)
	}
	if snap.Summary == "" {
		t.Error("expected evicted turns folded into summary")
	}
}

func TestCheckpoint_SummarizerFailureFoldsVerbatim(t *testing.T) {
	sum := &mockSummarizer{err: errors.New("model down")}
	m := newTestManager(t, &mockStore{}, sum, 1)

	for _, text := range []string{"first", "second"} {
		err := m.Checkpoint(context.Background(), Update{
			AppendTurns: []Turn{{Role: "user", Text: text}},
		})
		if err != nil {
			t.Fatalf("Checkpoint: %v", err)
		}
	}

	snap := m.Load()
	if !strings.Contains(snap.Summary, "first") {
		t.Errorf("expected verbatim fold of evicted turn, got %q", snap.Summary)
	}
}

func TestCheckpoint_FoldTruncatesOnRuneBoundary(t *testing.T) {
	sum := &mockSummarizer{err: errors.New("model down")}
	m := newTestManager(t, &mockStore{}, sum, 1)

	// Multi-byte runes spanning the truncation cutoff must not be split.
	long := strings.Repeat("ủ", 300)
	for _, text := range []string{long, "next"} {
		err := m.Checkpoint(context.Background(), Update{
			AppendTurns: []Turn{{Role: "user", Text: text}},
		})
		if err != nil {
			t.Fatalf("Checkpoint: %v", err)
		}
	}

	snap := m.Load()
	if !utf8.ValidString(snap.Summary) {
		t.Errorf("summary contains a split rune: %q", snap.Summary)
	}
	if !strings.Contains(snap.Summary, "…") {
		t.Errorf("expected truncation marker in summary, got %q", snap.Summary)
	}
}

func TestCheckpoint_PartialUpdateLeavesOtherFields(t *testing.T) {
	m := newTestManager(t, &mockStore{}, nil, 4)

	if err := m.Checkpoint(context.Background(), Update{ActiveProjectID: strPtr("proj-1")}); err != nil {
		t.Fatalf("Checkpoint: %v", err)
	}
	if err := m.Checkpoint(context.Background(), Update{Summary: strPtr("a summary")}); err != nil {
		t.Fatalf("Checkpoint: %v", err)
	}

	snap := m.Load()
	if snap.ActiveProjectID != "proj-1" {
		t.Errorf("active project lost: %q", snap.ActiveProjectID)
	}
	if snap.Summary != "a summary" {
		t.Errorf("summary not applied: %q", snap.Summary)
	}
}

func TestCheckpoint_PersistFailureKeepsInMemoryCommit(t *testing.T) {
	store := &mockStore{saveErr: errors.New("disk full")}
	m := newTestManager(t, store, nil, 4)

	err := m.Checkpoint(context.Background(), Update{
		AppendTurns: []Turn{{Role: "user", Text: "still here"}},
	})
	if err == nil {
		t.Fatal("expected persist error surfaced")
	}

	snap := m.Load()
	if len(snap.RecentMessages) != 1 {
		t.Error("in-memory commit should survive a failed persist")
	}
}

func TestRecordLearning(t *testing.T) {
	m := newTestManager(t, &mockStore{}, nil, 4)

	if err := m.RecordLearning(context.Background(), "style", "prefers short captions"); err != nil {
		t.Fatalf("RecordLearning: %v", err)
	}
	if err := m.RecordLearning(context.Background(), "style", "no hashtags"); err != nil {
		t.Fatalf("RecordLearning: %v", err)
	}
	if err := m.RecordLearning(context.Background(), "", "orphan"); err == nil {
		t.Error("expected empty category rejected")
	}

	snap := m.Load()
	if got := snap.Learnings["style"]; len(got) != 2 || got[1] != "no hashtags" {
		t.Errorf("unexpected learnings: %v", got)
	}
}

func TestLoad_ReturnsIsolatedCopy(t *testing.T) {
	m := newTestManager(t, &mockStore{}, nil, 4)
	if err := m.RecordLearning(context.Background(), "style", "original"); err != nil {
		t.Fatalf("RecordLearning: %v", err)
	}

	snap := m.Load()
	snap.Learnings["style"][0] = "mutated"
	snap.RecentMessages = append(snap.RecentMessages, Turn{Role: "user", Text: "sneak"})

	fresh := m.Load()
	if fresh.Learnings["style"][0] != "original" {
		t.Error("Load must not alias committed state")
	}
	if len(fresh.RecentMessages) != 0 {
		t.Error("mutation of a loaded copy leaked into committed state")
	}
}
