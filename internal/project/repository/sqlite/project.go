package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"content-pilot/internal/model"
	"content-pilot/internal/project/repository"
)

// Repo stores projects and artifacts in SQLite.
type Repo struct {
	DB *sql.DB
}

func New(db *sql.DB) Repo {
	return Repo{DB: db}
}

func (r Repo) CreateProject(ctx context.Context, p *model.Project) error {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	if p.Status == "" {
		p.Status = "draft"
	}

	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO projects (id, title, topic, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.Title, p.Topic, p.Status, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create project %s: %w", p.ID, err)
	}
	return nil
}

func (r Repo) GetProject(ctx context.Context, id string) (*model.Project, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, title, topic, status, created_at, updated_at
		FROM projects WHERE id = ?`, id)

	var p model.Project
	err := row.Scan(&p.ID, &p.Title, &p.Topic, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get project %s: %w", id, err)
	}
	return &p, nil
}

func (r Repo) ListProjects(ctx context.Context) ([]model.Project, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, title, topic, status, created_at, updated_at
		FROM projects ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var out []model.Project
	for rows.Next() {
		var p model.Project
		if err := rows.Scan(&p.ID, &p.Title, &p.Topic, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r Repo) UpdateProjectStatus(ctx context.Context, id, status string) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE projects SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update project %s status: %w", id, err)
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

func (r Repo) AddArtifact(ctx context.Context, a *model.Artifact) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO artifacts (id, project_id, kind, url, mime_type, position, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.ProjectID, string(a.Kind), a.URL, a.MimeType, a.Position, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("add artifact %s to project %s: %w", a.ID, a.ProjectID, err)
	}
	return nil
}

func (r Repo) GetArtifact(ctx context.Context, id string) (*model.Artifact, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, project_id, kind, url, mime_type, position, created_at
		FROM artifacts WHERE id = ?`, id)

	var a model.Artifact
	err := row.Scan(&a.ID, &a.ProjectID, &a.Kind, &a.URL, &a.MimeType, &a.Position, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get artifact %s: %w", id, err)
	}
	return &a, nil
}

func (r Repo) ListArtifacts(ctx context.Context, projectID string) ([]model.Artifact, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, project_id, kind, url, mime_type, position, created_at
		FROM artifacts WHERE project_id = ?
		ORDER BY position, created_at`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list artifacts for project %s: %w", projectID, err)
	}
	defer rows.Close()

	var out []model.Artifact
	for rows.Next() {
		var a model.Artifact
		if err := rows.Scan(&a.ID, &a.ProjectID, &a.Kind, &a.URL, &a.MimeType, &a.Position, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan artifact: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
