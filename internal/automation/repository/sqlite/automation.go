package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"content-pilot/internal/automation"
	"content-pilot/internal/automation/repository"
)

// Repo stores automations and runs in SQLite.
type Repo struct {
	DB *sql.DB
}

func New(db *sql.DB) Repo {
	return Repo{DB: db}
}

func (r Repo) CreateAutomation(ctx context.Context, a *automation.Automation) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO automations (id, name, topic, interval_sec, auto_post, enabled, next_fire_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Name, a.Topic, int64(a.Interval.Seconds()), a.AutoPost, a.Enabled, a.NextFireAt, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("create automation %s: %w", a.ID, err)
	}
	return nil
}

func (r Repo) GetAutomation(ctx context.Context, id string) (*automation.Automation, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, name, topic, interval_sec, auto_post, enabled, next_fire_at, created_at
		FROM automations WHERE id = ?`, id)

	a, err := scanAutomation(row.Scan)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get automation %s: %w", id, err)
	}
	return a, nil
}

func (r Repo) ListAutomations(ctx context.Context) ([]automation.Automation, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, topic, interval_sec, auto_post, enabled, next_fire_at, created_at
		FROM automations ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list automations: %w", err)
	}
	defer rows.Close()

	return collectAutomations(rows)
}

func (r Repo) SetEnabled(ctx context.Context, id string, enabled bool) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE automations SET enabled = ? WHERE id = ?`, enabled, id)
	if err != nil {
		return fmt.Errorf("set automation %s enabled=%v: %w", id, enabled, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r Repo) ListDue(ctx context.Context, now time.Time) ([]automation.Automation, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, topic, interval_sec, auto_post, enabled, next_fire_at, created_at
		FROM automations WHERE enabled = 1 AND next_fire_at <= ?
		ORDER BY next_fire_at`, now)
	if err != nil {
		return nil, fmt.Errorf("list due automations: %w", err)
	}
	defer rows.Close()

	return collectAutomations(rows)
}

func (r Repo) UpdateNextFireAt(ctx context.Context, id string, at time.Time) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE automations SET next_fire_at = ? WHERE id = ?`, at, id)
	if err != nil {
		return fmt.Errorf("update automation %s next fire: %w", id, err)
	}
	return nil
}

func (r Repo) CreateRun(ctx context.Context, run *automation.Run) error {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	artifactsJSON, err := marshalArtifacts(run.ArtifactIDs)
	if err != nil {
		return err
	}

	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO automation_runs (id, automation_id, topic, status, post_status, project_id, artifact_ids, publish_id, error, started_at, finished_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.AutomationID, run.Topic, string(run.Status), string(run.PostStatus),
		nullableString(run.ProjectID), artifactsJSON, run.PublishID, run.Error,
		run.StartedAt, run.FinishedAt, run.CreatedAt)
	if err != nil {
		return fmt.Errorf("create run %s: %w", run.ID, err)
	}
	return nil
}

func (r Repo) GetRun(ctx context.Context, id string) (*automation.Run, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, automation_id, topic, status, post_status, COALESCE(project_id,''), artifact_ids, publish_id, error, started_at, finished_at, created_at
		FROM automation_runs WHERE id = ?`, id)

	run, err := scanRun(row.Scan)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}
	return run, nil
}

func (r Repo) UpdateRun(ctx context.Context, run *automation.Run) error {
	artifactsJSON, err := marshalArtifacts(run.ArtifactIDs)
	if err != nil {
		return err
	}

	res, err := r.DB.ExecContext(ctx, `
		UPDATE automation_runs
		SET status = ?, post_status = ?, project_id = ?, artifact_ids = ?, publish_id = ?, error = ?, started_at = ?, finished_at = ?
		WHERE id = ?`,
		string(run.Status), string(run.PostStatus), nullableString(run.ProjectID), artifactsJSON,
		run.PublishID, run.Error, run.StartedAt, run.FinishedAt, run.ID)
	if err != nil {
		return fmt.Errorf("update run %s: %w", run.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r Repo) ListRuns(ctx context.Context, automationID string) ([]automation.Run, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, automation_id, topic, status, post_status, COALESCE(project_id,''), artifact_ids, publish_id, error, started_at, finished_at, created_at
		FROM automation_runs WHERE automation_id = ?
		ORDER BY created_at DESC`, automationID)
	if err != nil {
		return nil, fmt.Errorf("list runs for automation %s: %w", automationID, err)
	}
	defer rows.Close()

	var out []automation.Run
	for rows.Next() {
		run, err := scanRun(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		out = append(out, *run)
	}
	return out, rows.Err()
}

func scanAutomation(scan func(...any) error) (*automation.Automation, error) {
	var a automation.Automation
	var intervalSec int64
	err := scan(&a.ID, &a.Name, &a.Topic, &intervalSec, &a.AutoPost, &a.Enabled, &a.NextFireAt, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	a.Interval = time.Duration(intervalSec) * time.Second
	return &a, nil
}

func collectAutomations(rows *sql.Rows) ([]automation.Automation, error) {
	var out []automation.Automation
	for rows.Next() {
		a, err := scanAutomation(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan automation: %w", err)
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func scanRun(scan func(...any) error) (*automation.Run, error) {
	var run automation.Run
	var status, postStatus, artifactsJSON string
	err := scan(&run.ID, &run.AutomationID, &run.Topic, &status, &postStatus,
		&run.ProjectID, &artifactsJSON, &run.PublishID, &run.Error,
		&run.StartedAt, &run.FinishedAt, &run.CreatedAt)
	if err != nil {
		return nil, err
	}
	run.Status = automation.RunStatus(status)
	run.PostStatus = automation.PostStatus(postStatus)
	if err := json.Unmarshal([]byte(artifactsJSON), &run.ArtifactIDs); err != nil {
		return nil, fmt.Errorf("decode artifact ids: %w", err)
	}
	return &run, nil
}

func marshalArtifacts(ids []string) (string, error) {
	if ids == nil {
		return "[]", nil
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("encode artifact ids: %w", err)
	}
	return string(raw), nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
