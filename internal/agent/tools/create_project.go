package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"content-pilot/internal/memory"
	"content-pilot/internal/model"
	"content-pilot/internal/project/repository"
	pkgLog "content-pilot/pkg/log"
)

type CreateProjectTool struct {
	projects repository.ProjectRepository
	mem      MemoryRecorder
	l        pkgLog.Logger
}

func NewCreateProjectTool(projects repository.ProjectRepository, mem MemoryRecorder, l pkgLog.Logger) *CreateProjectTool {
	return &CreateProjectTool{projects: projects, mem: mem, l: l}
}

func (t *CreateProjectTool) Name() string {
	return "create_project"
}

func (t *CreateProjectTool) Description() string {
	return "Create a new content project to collect slides, audio and video for one piece of content. The new project becomes the active project."
}

func (t *CreateProjectTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"title": map[string]interface{}{
				"type":        "string",
				"description": "Human-readable project title",
			},
			"topic": map[string]interface{}{
				"type":        "string",
				"description": "What the content is about",
			},
		},
		"required": []string{"title"},
	}
}

type CreateProjectInput struct {
	Title string `json:"title"`
	Topic string `json:"topic"`
}

type CreateProjectOutput struct {
	ProjectID string `json:"project_id"`
	Title     string `json:"title"`
	Status    string `json:"status"`
}

func (t *CreateProjectTool) Execute(ctx context.Context, input map[string]interface{}) (interface{}, error) {
	inputBytes, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal input: %w", err)
	}

	var params CreateProjectInput
	if err := json.Unmarshal(inputBytes, &params); err != nil {
		return nil, fmt.Errorf("failed to parse input: %w", err)
	}

	if params.Title == "" {
		return nil, fmt.Errorf("title must not be empty")
	}

	p := &model.Project{
		ID:    uuid.NewString(),
		Title: params.Title,
		Topic: params.Topic,
	}
	if err := t.projects.CreateProject(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	t.l.Infof(ctx, "create_project: %s (%s)", p.ID, p.Title)

	// New projects become the working context. A failure here is logged only;
	// the project itself was created.
	if err := t.mem.Checkpoint(ctx, memory.Update{ActiveProjectID: &p.ID}); err != nil {
		t.l.Errorf(ctx, "create_project: failed to set active project: %v", err)
	}

	return CreateProjectOutput{ProjectID: p.ID, Title: p.Title, Status: p.Status}, nil
}
