package sqlite

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"content-pilot/internal/db"
	"content-pilot/internal/migrate"
	"content-pilot/internal/model"
	"content-pilot/internal/project/repository"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.Config{Path: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, migrate.Migrate(conn))
	return conn
}

func TestRepo_ProjectLifecycle(t *testing.T) {
	repo := New(newTestDB(t))
	ctx := context.Background()

	p := &model.Project{ID: uuid.NewString(), Title: "Spring launch", Topic: "spring shoes"}
	require.NoError(t, repo.CreateProject(ctx, p))
	assert.Equal(t, "draft", p.Status)

	got, err := repo.GetProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Spring launch", got.Title)
	assert.Equal(t, "spring shoes", got.Topic)

	require.NoError(t, repo.UpdateProjectStatus(ctx, p.ID, "ready"))
	got, err = repo.GetProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "ready", got.Status)

	list, err := repo.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestRepo_GetProjectNotFound(t *testing.T) {
	repo := New(newTestDB(t))

	_, err := repo.GetProject(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	err = repo.UpdateProjectStatus(context.Background(), "missing", "ready")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRepo_ArtifactsOrderedByPosition(t *testing.T) {
	repo := New(newTestDB(t))
	ctx := context.Background()

	p := &model.Project{ID: uuid.NewString(), Title: "Clip", Topic: "clip"}
	require.NoError(t, repo.CreateProject(ctx, p))

	for i, kind := range []model.ArtifactKind{model.ArtifactSlide, model.ArtifactSlide, model.ArtifactAudio} {
		a := &model.Artifact{
			ID:        uuid.NewString(),
			ProjectID: p.ID,
			Kind:      kind,
			URL:       "https://assets.example/a",
			Position:  2 - i, // inserted in reverse order
		}
		require.NoError(t, repo.AddArtifact(ctx, a))
	}

	list, err := repo.ListArtifacts(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, model.ArtifactAudio, list[0].Kind)
	for i := range list {
		assert.Equal(t, i, list[i].Position)
	}
}

func TestRepo_ArtifactRequiresProject(t *testing.T) {
	repo := New(newTestDB(t))

	a := &model.Artifact{
		ID:        uuid.NewString(),
		ProjectID: "no-such-project",
		Kind:      model.ArtifactImage,
		URL:       "https://assets.example/x",
	}
	err := repo.AddArtifact(context.Background(), a)
	assert.Error(t, err, "foreign key should reject orphan artifacts")
}

func TestRepo_GetArtifact(t *testing.T) {
	repo := New(newTestDB(t))
	ctx := context.Background()

	p := &model.Project{ID: uuid.NewString(), Title: "Clip", Topic: "clip"}
	require.NoError(t, repo.CreateProject(ctx, p))

	a := &model.Artifact{
		ID:        uuid.NewString(),
		ProjectID: p.ID,
		Kind:      model.ArtifactVideo,
		URL:       "https://assets.example/final.mp4",
		MimeType:  "video/mp4",
	}
	require.NoError(t, repo.AddArtifact(ctx, a))

	got, err := repo.GetArtifact(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ArtifactVideo, got.Kind)
	assert.Equal(t, "video/mp4", got.MimeType)

	_, err = repo.GetArtifact(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
