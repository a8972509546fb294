package sqlite

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"content-pilot/internal/automation"
	"content-pilot/internal/automation/repository"
	"content-pilot/internal/db"
	"content-pilot/internal/migrate"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.Config{Path: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, migrate.Migrate(conn))
	return conn
}

func seedAutomation(t *testing.T, repo Repo, nextFireAt time.Time) *automation.Automation {
	t.Helper()

	a := &automation.Automation{
		ID:         uuid.NewString(),
		Name:       "daily teaser",
		Topic:      "sneaker drop",
		Interval:   30 * time.Minute,
		AutoPost:   true,
		Enabled:    true,
		NextFireAt: nextFireAt,
	}
	require.NoError(t, repo.CreateAutomation(context.Background(), a))
	return a
}

func TestRepo_AutomationRoundTrip(t *testing.T) {
	repo := New(newTestDB(t))
	ctx := context.Background()

	a := seedAutomation(t, repo, time.Now().UTC().Add(time.Hour))

	got, err := repo.GetAutomation(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "daily teaser", got.Name)
	assert.Equal(t, "sneaker drop", got.Topic)
	assert.Equal(t, 30*time.Minute, got.Interval)
	assert.True(t, got.AutoPost)
	assert.True(t, got.Enabled)

	_, err = repo.GetAutomation(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRepo_SetEnabled(t *testing.T) {
	repo := New(newTestDB(t))
	ctx := context.Background()

	a := seedAutomation(t, repo, time.Now().UTC())

	require.NoError(t, repo.SetEnabled(ctx, a.ID, false))
	got, err := repo.GetAutomation(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, got.Enabled)

	assert.ErrorIs(t, repo.SetEnabled(ctx, "missing", true), repository.ErrNotFound)
}

func TestRepo_ListDue(t *testing.T) {
	repo := New(newTestDB(t))
	ctx := context.Background()
	now := time.Now().UTC()

	due := seedAutomation(t, repo, now.Add(-time.Minute))
	seedAutomation(t, repo, now.Add(time.Hour)) // not due yet
	disabled := seedAutomation(t, repo, now.Add(-time.Minute))
	require.NoError(t, repo.SetEnabled(ctx, disabled.ID, false))

	got, err := repo.ListDue(ctx, now)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, due.ID, got[0].ID)

	require.NoError(t, repo.UpdateNextFireAt(ctx, due.ID, now.Add(time.Hour)))
	got, err = repo.ListDue(ctx, now)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRepo_RunRoundTrip(t *testing.T) {
	repo := New(newTestDB(t))
	ctx := context.Background()

	a := seedAutomation(t, repo, time.Now().UTC())

	run := &automation.Run{
		ID:           uuid.NewString(),
		AutomationID: a.ID,
		Topic:        a.Topic,
		Status:       automation.RunPending,
		PostStatus:   automation.PostNotAttempted,
	}
	require.NoError(t, repo.CreateRun(ctx, run))

	got, err := repo.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, automation.RunPending, got.Status)
	assert.Equal(t, automation.PostNotAttempted, got.PostStatus)
	assert.Empty(t, got.ArtifactIDs)
	assert.Nil(t, got.StartedAt)
	assert.Nil(t, got.FinishedAt)

	started := time.Now().UTC().Truncate(time.Second)
	finished := started.Add(time.Minute)
	got.Status = automation.RunCompleted
	got.PostStatus = automation.PostPosted
	got.ProjectID = "proj-1"
	got.ArtifactIDs = []string{"art-1", "art-2"}
	got.PublishID = "pub-9"
	got.StartedAt = &started
	got.FinishedAt = &finished
	require.NoError(t, repo.UpdateRun(ctx, got))

	again, err := repo.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, automation.RunCompleted, again.Status)
	assert.Equal(t, automation.PostPosted, again.PostStatus)
	assert.Equal(t, "proj-1", again.ProjectID)
	assert.Equal(t, []string{"art-1", "art-2"}, again.ArtifactIDs)
	assert.Equal(t, "pub-9", again.PublishID)
	require.NotNil(t, again.StartedAt)
	require.NotNil(t, again.FinishedAt)
	assert.True(t, again.FinishedAt.After(*again.StartedAt))
}

func TestRepo_UpdateRunMissing(t *testing.T) {
	repo := New(newTestDB(t))

	run := &automation.Run{ID: "ghost", Status: automation.RunFailed}
	assert.ErrorIs(t, repo.UpdateRun(context.Background(), run), repository.ErrNotFound)
}

func TestRepo_ListRunsNewestFirst(t *testing.T) {
	repo := New(newTestDB(t))
	ctx := context.Background()

	a := seedAutomation(t, repo, time.Now().UTC())

	base := time.Now().UTC().Add(-time.Hour)
	var ids []string
	for i := 0; i < 3; i++ {
		run := &automation.Run{
			ID:           uuid.NewString(),
			AutomationID: a.ID,
			Topic:        a.Topic,
			Status:       automation.RunCompleted,
			PostStatus:   automation.PostNotAttempted,
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.CreateRun(ctx, run))
		ids = append(ids, run.ID)
	}

	runs, err := repo.ListRuns(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, ids[2], runs[0].ID)
	assert.Equal(t, ids[0], runs[2].ID)
}

func TestRepo_RunRejectsUnknownAutomation(t *testing.T) {
	repo := New(newTestDB(t))

	run := &automation.Run{
		ID:           uuid.NewString(),
		AutomationID: "no-such-automation",
		Status:       automation.RunPending,
		PostStatus:   automation.PostNotAttempted,
	}
	assert.Error(t, repo.CreateRun(context.Background(), run))
}
