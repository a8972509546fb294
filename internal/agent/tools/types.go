package tools

import (
	"context"

	"content-pilot/internal/memory"
	"content-pilot/internal/model"
)

// MemoryRecorder abstracts the memory manager for mocking.
type MemoryRecorder interface {
	RecordLearning(ctx context.Context, category, text string) error
	Checkpoint(ctx context.Context, update memory.Update) error
	Load() *memory.Snapshot
}

// ArtifactOutput is the common result for tools that produce a stored media
// artifact. It satisfies agent.ArtifactRef, so the loop emits a preview event
// for it.
type ArtifactOutput struct {
	ID        string `json:"artifact_id"`
	ProjectID string `json:"project_id"`
	Kind      string `json:"kind"`
	URL       string `json:"url"`
	MimeType  string `json:"mime_type,omitempty"`
	Position  int    `json:"position,omitempty"`
}

func (o ArtifactOutput) ArtifactID() string  { return o.ID }
func (o ArtifactOutput) ArtifactURL() string { return o.URL }

func artifactOutput(a *model.Artifact) ArtifactOutput {
	return ArtifactOutput{
		ID:        a.ID,
		ProjectID: a.ProjectID,
		Kind:      string(a.Kind),
		URL:       a.URL,
		MimeType:  a.MimeType,
		Position:  a.Position,
	}
}
