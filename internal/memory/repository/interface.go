package repository

import (
	"context"

	"content-pilot/internal/memory"
)

// ErrNotFound aliases the manager's sentinel so errors.Is works across the
// store boundary.
var ErrNotFound = memory.ErrNotFound

// MemoryRepository persists the singleton memory snapshot. Save must be
// atomic: a reader never observes a half-written snapshot.
type MemoryRepository interface {
	// Load returns the stored snapshot, or ErrNotFound before the first save.
	Load(ctx context.Context) (*memory.Snapshot, error)

	// Save stores the snapshot, replacing any previous state.
	Save(ctx context.Context, s *memory.Snapshot) error
}
