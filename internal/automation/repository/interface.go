package repository

import (
	"context"
	"errors"
	"time"

	"content-pilot/internal/automation"
)

var ErrNotFound = errors.New("not found")

// AutomationRepository persists automations and their runs.
type AutomationRepository interface {
	CreateAutomation(ctx context.Context, a *automation.Automation) error

	// GetAutomation returns the automation, or ErrNotFound.
	GetAutomation(ctx context.Context, id string) (*automation.Automation, error)

	ListAutomations(ctx context.Context) ([]automation.Automation, error)

	SetEnabled(ctx context.Context, id string, enabled bool) error

	// ListDue returns enabled automations whose next_fire_at is at or before
	// now, oldest first.
	ListDue(ctx context.Context, now time.Time) ([]automation.Automation, error)

	UpdateNextFireAt(ctx context.Context, id string, at time.Time) error

	CreateRun(ctx context.Context, r *automation.Run) error

	// GetRun returns the run, or ErrNotFound.
	GetRun(ctx context.Context, id string) (*automation.Run, error)

	// UpdateRun replaces the run's mutable fields (status, post status,
	// project, artifacts, publish id, error, timestamps).
	UpdateRun(ctx context.Context, r *automation.Run) error

	// ListRuns returns the automation's runs, newest first.
	ListRuns(ctx context.Context, automationID string) ([]automation.Run, error)
}
