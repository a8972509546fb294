package automation

import "context"

// UseCase defines the business logic interface for the automation domain.
type UseCase interface {
	Create(ctx context.Context, input CreateInput) (*Automation, error)

	List(ctx context.Context) ([]Automation, error)

	Get(ctx context.Context, id string) (*Automation, error)

	// SetEnabled toggles the schedule without touching past runs.
	SetEnabled(ctx context.Context, id string, enabled bool) (*Automation, error)

	// Fire creates a run for the automation and executes it immediately,
	// outside the schedule. Returns the finished run. Firing bypasses the
	// schedule only, never the enabled flag: a disabled automation is
	// rejected with ErrDisabled.
	Fire(ctx context.Context, automationID string) (*Run, error)

	ListRuns(ctx context.Context, automationID string) ([]Run, error)

	GetRun(ctx context.Context, runID string) (*Run, error)

	// RetryPost re-attempts only the publishing step of a post_failed run.
	// Generation is never re-run; a run already posted is left untouched.
	RetryPost(ctx context.Context, runID string) (*Run, error)
}
