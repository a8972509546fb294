package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"content-pilot/internal/agent"
	"content-pilot/internal/agent/orchestrator"
	"content-pilot/internal/memory"
	"content-pilot/pkg/llmprovider"
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

type mockStore struct{}

func (m *mockStore) Load(ctx context.Context) (*memory.Snapshot, error) {
	return nil, memory.ErrNotFound
}
func (m *mockStore) Save(ctx context.Context, s *memory.Snapshot) error { return nil }

// blockingProvider answers "ok" but only after release is closed (or right
// away when release is nil).
type blockingProvider struct {
	release chan struct{}
}

func (p *blockingProvider) respond() *llmprovider.Response {
	return &llmprovider.Response{
		Content: llmprovider.Message{Role: "assistant", Parts: []llmprovider.Part{{Text: "ok"}}},
	}
}

func (p *blockingProvider) GenerateContent(ctx context.Context, req *llmprovider.Request) (*llmprovider.Response, error) {
	return p.GenerateStream(ctx, req, func(string) {})
}

func (p *blockingProvider) GenerateStream(ctx context.Context, req *llmprovider.Request, onDelta func(text string)) (*llmprovider.Response, error) {
	if p.release != nil {
		select {
		case <-p.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return p.respond(), nil
}

func (p *blockingProvider) Name() string  { return "mock" }
func (p *blockingProvider) Model() string { return "mock-model" }

func newTestManager(t *testing.T, provider llmprovider.Provider, ttl, cleanup time.Duration) *Manager {
	t.Helper()

	l := &mockLogger{}
	mem, err := memory.NewManager(context.Background(), &mockStore{}, nil, l, 20)
	if err != nil {
		t.Fatalf("memory manager: %v", err)
	}
	registry := agent.NewToolRegistry()
	orch := orchestrator.New(orchestrator.Config{
		LLM:        llmprovider.NewManager([]llmprovider.Provider{provider}, &llmprovider.Config{RetryAttempts: 1}, l),
		Registry:   registry,
		Dispatcher: agent.NewDispatcher(registry, l, time.Second),
		Memory:     mem,
		Logger:     l,
	})

	m := NewManager(orch, l, ttl, cleanup)
	t.Cleanup(m.Close)
	return m
}

func drain(events <-chan orchestrator.Event) {
	for range events {
	}
}

func TestManager_GetOrCreate(t *testing.T) {
	m := newTestManager(t, &blockingProvider{}, 0, 0)

	s1 := m.GetOrCreate("")
	if s1.ID == "" {
		t.Fatal("generated ID is empty")
	}
	if m.GetOrCreate(s1.ID) != s1 {
		t.Error("same ID should return the same session")
	}
	if m.GetOrCreate("") == s1 {
		t.Error("empty ID should create a fresh session")
	}
	if m.Len() != 2 {
		t.Errorf("live sessions: got %d, want 2", m.Len())
	}
}

func TestManager_RunAppendsTranscript(t *testing.T) {
	m := newTestManager(t, &blockingProvider{}, 0, 0)

	events, err := m.Run(context.Background(), "s1", "hello")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	drain(events)

	hist := m.GetOrCreate("s1").History()
	if len(hist) != 2 {
		t.Fatalf("transcript length: got %d, want 2", len(hist))
	}
	if hist[0].Role != "user" || hist[0].Content != "hello" {
		t.Errorf("user message: %+v", hist[0])
	}
	if hist[1].Role != "assistant" || hist[1].Content != "ok" {
		t.Errorf("assistant message: %+v", hist[1])
	}
}

func TestManager_SecondMessageWhileBusy(t *testing.T) {
	release := make(chan struct{})
	m := newTestManager(t, &blockingProvider{release: release}, 0, 0)

	events, err := m.Run(context.Background(), "s1", "first")
	if err != nil {
		t.Fatalf("first run: %v", err)
	}

	if _, err := m.Run(context.Background(), "s1", "second"); !errors.Is(err, ErrSessionBusy) {
		t.Fatalf("expected ErrSessionBusy, got %v", err)
	}

	// A different session is unaffected.
	other, err := m.Run(context.Background(), "s2", "parallel")
	if err != nil {
		t.Fatalf("parallel session: %v", err)
	}

	close(release)
	drain(events)
	drain(other)

	// Session released after the stream closed.
	if _, err := m.Run(context.Background(), "s1", "third"); err != nil {
		t.Fatalf("run after release: %v", err)
	}
}

func TestManager_Clear(t *testing.T) {
	m := newTestManager(t, &blockingProvider{}, 0, 0)

	events, err := m.Run(context.Background(), "s1", "hello")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	drain(events)

	if err := m.Clear("s1"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if got := m.GetOrCreate("s1").History(); len(got) != 0 {
		t.Errorf("cleared session should start empty, got %d messages", len(got))
	}

	if err := m.Clear("never-existed"); err != nil {
		t.Errorf("clearing a missing session should be a no-op, got %v", err)
	}
}

func TestManager_ClearBusySession(t *testing.T) {
	release := make(chan struct{})
	m := newTestManager(t, &blockingProvider{release: release}, 0, 0)

	events, err := m.Run(context.Background(), "s1", "hello")
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if err := m.Clear("s1"); !errors.Is(err, ErrSessionBusy) {
		t.Fatalf("expected ErrSessionBusy, got %v", err)
	}

	close(release)
	drain(events)
}

func TestManager_EvictsIdleSessions(t *testing.T) {
	m := newTestManager(t, &blockingProvider{}, 30*time.Millisecond, 10*time.Millisecond)

	m.GetOrCreate("idle")
	if m.Len() != 1 {
		t.Fatalf("live sessions: got %d, want 1", m.Len())
	}

	deadline := time.Now().Add(2 * time.Second)
	for m.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("idle session was not evicted")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
