package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"content-pilot/internal/automation"
	"content-pilot/internal/automation/repository"
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

type mockRepo struct {
	mu          sync.Mutex
	automations map[string]*automation.Automation
}

func (m *mockRepo) CreateAutomation(ctx context.Context, a *automation.Automation) error { return nil }
func (m *mockRepo) GetAutomation(ctx context.Context, id string) (*automation.Automation, error) {
	return nil, repository.ErrNotFound
}
func (m *mockRepo) ListAutomations(ctx context.Context) ([]automation.Automation, error) {
	return nil, nil
}
func (m *mockRepo) SetEnabled(ctx context.Context, id string, enabled bool) error { return nil }
func (m *mockRepo) ListDue(ctx context.Context, now time.Time) ([]automation.Automation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []automation.Automation
	for _, a := range m.automations {
		if a.Enabled && !a.NextFireAt.After(now) {
			out = append(out, *a)
		}
	}
	return out, nil
}
func (m *mockRepo) UpdateNextFireAt(ctx context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.automations[id].NextFireAt = at
	return nil
}
func (m *mockRepo) CreateRun(ctx context.Context, r *automation.Run) error { return nil }
func (m *mockRepo) GetRun(ctx context.Context, id string) (*automation.Run, error) {
	return nil, repository.ErrNotFound
}
func (m *mockRepo) UpdateRun(ctx context.Context, r *automation.Run) error { return nil }
func (m *mockRepo) ListRuns(ctx context.Context, automationID string) ([]automation.Run, error) {
	return nil, nil
}

type mockUseCase struct {
	mu    sync.Mutex
	fired []string
}

func (m *mockUseCase) Create(ctx context.Context, input automation.CreateInput) (*automation.Automation, error) {
	return nil, nil
}
func (m *mockUseCase) List(ctx context.Context) ([]automation.Automation, error) { return nil, nil }
func (m *mockUseCase) Get(ctx context.Context, id string) (*automation.Automation, error) {
	return nil, repository.ErrNotFound
}
func (m *mockUseCase) SetEnabled(ctx context.Context, id string, enabled bool) (*automation.Automation, error) {
	return nil, nil
}
func (m *mockUseCase) Fire(ctx context.Context, automationID string) (*automation.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fired = append(m.fired, automationID)
	return &automation.Run{ID: "run-1", Status: automation.RunCompleted, PostStatus: automation.PostNotAttempted}, nil
}
func (m *mockUseCase) ListRuns(ctx context.Context, automationID string) ([]automation.Run, error) {
	return nil, nil
}
func (m *mockUseCase) GetRun(ctx context.Context, runID string) (*automation.Run, error) {
	return nil, repository.ErrNotFound
}
func (m *mockUseCase) RetryPost(ctx context.Context, runID string) (*automation.Run, error) {
	return nil, nil
}

func (m *mockUseCase) firedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.fired)
}

func TestScheduler_FiresDueAutomation(t *testing.T) {
	repo := &mockRepo{automations: map[string]*automation.Automation{
		"auto-1": {ID: "auto-1", Topic: "x", Interval: time.Hour, Enabled: true, NextFireAt: time.Now().Add(-time.Minute)},
	}}
	uc := &mockUseCase{}

	s := New(uc, repo, &mockLogger{}, 10*time.Millisecond)
	s.Start(context.Background())
	defer s.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for uc.firedCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("due automation was not fired")
		}
		time.Sleep(10 * time.Millisecond)
	}

	// The schedule advanced, so it does not fire again immediately.
	repo.mu.Lock()
	next := repo.automations["auto-1"].NextFireAt
	repo.mu.Unlock()
	if !next.After(time.Now()) {
		t.Errorf("next_fire_at should be in the future, got %s", next)
	}

	time.Sleep(50 * time.Millisecond)
	if uc.firedCount() != 1 {
		t.Errorf("fired %d times, want 1", uc.firedCount())
	}
}

func TestScheduler_SkipsDisabled(t *testing.T) {
	repo := &mockRepo{automations: map[string]*automation.Automation{
		"auto-1": {ID: "auto-1", Topic: "x", Interval: time.Hour, Enabled: false, NextFireAt: time.Now().Add(-time.Minute)},
	}}
	uc := &mockUseCase{}

	s := New(uc, repo, &mockLogger{}, 10*time.Millisecond)
	s.Start(context.Background())
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	if uc.firedCount() != 0 {
		t.Errorf("disabled automation fired %d times", uc.firedCount())
	}
}
