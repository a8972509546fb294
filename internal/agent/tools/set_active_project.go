package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"content-pilot/internal/memory"
	"content-pilot/internal/project/repository"
	pkgLog "content-pilot/pkg/log"
)

type SetActiveProjectTool struct {
	mem      MemoryRecorder
	projects repository.ProjectRepository
	l        pkgLog.Logger
}

func NewSetActiveProjectTool(mem MemoryRecorder, projects repository.ProjectRepository, l pkgLog.Logger) *SetActiveProjectTool {
	return &SetActiveProjectTool{mem: mem, projects: projects, l: l}
}

func (t *SetActiveProjectTool) Name() string {
	return "set_active_project"
}

func (t *SetActiveProjectTool) Description() string {
	return "Point the working context at an existing project so follow-up requests apply to it."
}

func (t *SetActiveProjectTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"project_id": map[string]interface{}{
				"type":        "string",
				"description": "Project to make active",
			},
		},
		"required": []string{"project_id"},
	}
}

type SetActiveProjectInput struct {
	ProjectID string `json:"project_id"`
}

type SetActiveProjectOutput struct {
	ActiveProjectID string `json:"active_project_id"`
	Title           string `json:"title"`
}

func (t *SetActiveProjectTool) Execute(ctx context.Context, input map[string]interface{}) (interface{}, error) {
	inputBytes, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal input: %w", err)
	}

	var params SetActiveProjectInput
	if err := json.Unmarshal(inputBytes, &params); err != nil {
		return nil, fmt.Errorf("failed to parse input: %w", err)
	}

	p, err := t.projects.GetProject(ctx, params.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("project %s: %w", params.ProjectID, err)
	}

	t.l.Infof(ctx, "set_active_project: %s (%s)", p.ID, p.Title)

	if err := t.mem.Checkpoint(ctx, memory.Update{ActiveProjectID: &p.ID}); err != nil {
		return nil, fmt.Errorf("failed to update active project: %w", err)
	}

	return SetActiveProjectOutput{ActiveProjectID: p.ID, Title: p.Title}, nil
}
