package automation

import "time"

// Automation is a recurring generation schedule: every Interval, produce
// content for Topic and optionally publish it.
type Automation struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Topic      string        `json:"topic"`
	Interval   time.Duration `json:"interval"`
	AutoPost   bool          `json:"auto_post"`
	Enabled    bool          `json:"enabled"`
	NextFireAt time.Time     `json:"next_fire_at"`
	CreatedAt  time.Time     `json:"created_at"`
}

// RunStatus is the generation state of one run. Forward-only:
// pending -> running -> completed | failed.
type RunStatus string

const (
	RunPending   RunStatus = "pending"
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// PostStatus is the publishing state, orthogonal to RunStatus:
// not_attempted -> posting -> posted | post_failed. Only post_failed may be
// retried, and a retry never re-runs generation.
type PostStatus string

const (
	PostNotAttempted PostStatus = "not_attempted"
	PostPosting      PostStatus = "posting"
	PostPosted       PostStatus = "posted"
	PostFailed       PostStatus = "post_failed"
)

// Run is one execution of an automation.
type Run struct {
	ID           string     `json:"id"`
	AutomationID string     `json:"automation_id"`
	Topic        string     `json:"topic"`
	Status       RunStatus  `json:"status"`
	PostStatus   PostStatus `json:"post_status"`
	ProjectID    string     `json:"project_id,omitempty"`
	ArtifactIDs  []string   `json:"artifact_ids"`
	PublishID    string     `json:"publish_id,omitempty"`
	Error        string     `json:"error,omitempty"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// CreateInput creates a new automation.
type CreateInput struct {
	Name     string
	Topic    string
	Interval time.Duration
	AutoPost bool
}
