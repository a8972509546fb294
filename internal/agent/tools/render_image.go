package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"content-pilot/internal/model"
	"content-pilot/internal/project/repository"
	pkgLog "content-pilot/pkg/log"
	"content-pilot/pkg/mediagen"
)

type RenderImageTool struct {
	media    mediagen.IMediaGen
	projects repository.ProjectRepository
	l        pkgLog.Logger
}

func NewRenderImageTool(media mediagen.IMediaGen, projects repository.ProjectRepository, l pkgLog.Logger) *RenderImageTool {
	return &RenderImageTool{media: media, projects: projects, l: l}
}

func (t *RenderImageTool) Name() string {
	return "render_image"
}

func (t *RenderImageTool) Description() string {
	return "Render a background image from a prompt and store it in a project. Use overlay_text afterwards to place the slide line on it."
}

func (t *RenderImageTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"project_id": map[string]interface{}{
				"type":        "string",
				"description": "Project the image belongs to",
			},
			"prompt": map[string]interface{}{
				"type":        "string",
				"description": "Visual description of the image",
			},
			"style": map[string]interface{}{
				"type":        "string",
				"description": "Optional style, e.g. 'photo', 'flat illustration'",
			},
			"position": map[string]interface{}{
				"type":        "integer",
				"description": "Slide position this image is for (0-based)",
			},
		},
		"required": []string{"project_id", "prompt"},
	}
}

type RenderImageInput struct {
	ProjectID string `json:"project_id"`
	Prompt    string `json:"prompt"`
	Style     string `json:"style"`
	Position  int    `json:"position"`
}

func (t *RenderImageTool) Execute(ctx context.Context, input map[string]interface{}) (interface{}, error) {
	inputBytes, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal input: %w", err)
	}

	var params RenderImageInput
	if err := json.Unmarshal(inputBytes, &params); err != nil {
		return nil, fmt.Errorf("failed to parse input: %w", err)
	}

	if _, err := t.projects.GetProject(ctx, params.ProjectID); err != nil {
		return nil, fmt.Errorf("project %s: %w", params.ProjectID, err)
	}

	t.l.Infof(ctx, "render_image: project=%s position=%d", params.ProjectID, params.Position)

	asset, err := t.media.RenderImage(ctx, mediagen.ImageRequest{
		Prompt: params.Prompt,
		Style:  params.Style,
	})
	if err != nil {
		return nil, fmt.Errorf("image rendering failed: %w", err)
	}

	artifact := &model.Artifact{
		ID:        uuid.NewString(),
		ProjectID: params.ProjectID,
		Kind:      model.ArtifactImage,
		URL:       asset.URL,
		MimeType:  asset.MimeType,
		Position:  params.Position,
	}
	if err := t.projects.AddArtifact(ctx, artifact); err != nil {
		return nil, fmt.Errorf("failed to store artifact: %w", err)
	}

	return artifactOutput(artifact), nil
}
