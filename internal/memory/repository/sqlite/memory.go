package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"content-pilot/internal/memory"
	"content-pilot/internal/memory/repository"
)

// Repo stores the memory snapshot in SQLite as a single row.
type Repo struct {
	DB *sql.DB
}

func New(db *sql.DB) Repo {
	return Repo{DB: db}
}

// Load reads the stored snapshot.
func (r Repo) Load(ctx context.Context) (*memory.Snapshot, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT version, summary, recent_messages, COALESCE(active_project_id,''), learnings, updated_at
		FROM memory_snapshot WHERE id = 1`)

	var s memory.Snapshot
	var turnsJSON, learningsJSON string
	err := row.Scan(&s.Version, &s.Summary, &turnsJSON, &s.ActiveProjectID, &learningsJSON, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load memory snapshot: %w", err)
	}

	if err := json.Unmarshal([]byte(turnsJSON), &s.RecentMessages); err != nil {
		return nil, fmt.Errorf("decode recent messages: %w", err)
	}
	if err := json.Unmarshal([]byte(learningsJSON), &s.Learnings); err != nil {
		return nil, fmt.Errorf("decode learnings: %w", err)
	}
	if s.Learnings == nil {
		s.Learnings = map[string][]string{}
	}

	return &s, nil
}

// Save upserts the snapshot row inside a transaction so readers never see a
// partially written state.
func (r Repo) Save(ctx context.Context, s *memory.Snapshot) error {
	turnsJSON, err := json.Marshal(s.RecentMessages)
	if err != nil {
		return fmt.Errorf("encode recent messages: %w", err)
	}
	if s.RecentMessages == nil {
		turnsJSON = []byte("[]")
	}
	learningsJSON, err := json.Marshal(s.Learnings)
	if err != nil {
		return fmt.Errorf("encode learnings: %w", err)
	}
	if s.Learnings == nil {
		learningsJSON = []byte("{}")
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO memory_snapshot (id, version, summary, recent_messages, active_project_id, learnings, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			version = excluded.version,
			summary = excluded.summary,
			recent_messages = excluded.recent_messages,
			active_project_id = excluded.active_project_id,
			learnings = excluded.learnings,
			updated_at = excluded.updated_at`,
		s.Version, s.Summary, string(turnsJSON), nullable(s.ActiveProjectID), string(learningsJSON), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save memory snapshot: %w", err)
	}

	return tx.Commit()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
