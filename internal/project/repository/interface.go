package repository

import (
	"context"
	"errors"

	"content-pilot/internal/model"
)

var ErrNotFound = errors.New("not found")

// ProjectRepository persists projects and the artifacts produced into them.
type ProjectRepository interface {
	CreateProject(ctx context.Context, p *model.Project) error

	// GetProject returns the project, or ErrNotFound.
	GetProject(ctx context.Context, id string) (*model.Project, error)

	// ListProjects returns all projects, newest first.
	ListProjects(ctx context.Context) ([]model.Project, error)

	// UpdateProjectStatus moves the project between "draft" and "ready".
	UpdateProjectStatus(ctx context.Context, id, status string) error

	AddArtifact(ctx context.Context, a *model.Artifact) error

	// GetArtifact returns the artifact, or ErrNotFound.
	GetArtifact(ctx context.Context, id string) (*model.Artifact, error)

	// ListArtifacts returns the project's artifacts ordered by position,
	// then creation time.
	ListArtifacts(ctx context.Context, projectID string) ([]model.Artifact, error)
}
