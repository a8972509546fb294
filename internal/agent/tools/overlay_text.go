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

type OverlayTextTool struct {
	media    mediagen.IMediaGen
	projects repository.ProjectRepository
	l        pkgLog.Logger
}

func NewOverlayTextTool(media mediagen.IMediaGen, projects repository.ProjectRepository, l pkgLog.Logger) *OverlayTextTool {
	return &OverlayTextTool{media: media, projects: projects, l: l}
}

func (t *OverlayTextTool) Name() string {
	return "overlay_text"
}

func (t *OverlayTextTool) Description() string {
	return "Composite a slide's text line onto a rendered image, producing a finished slide."
}

func (t *OverlayTextTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"project_id": map[string]interface{}{
				"type":        "string",
				"description": "Project the slide belongs to",
			},
			"image_url": map[string]interface{}{
				"type":        "string",
				"description": "URL of the rendered background image",
			},
			"text": map[string]interface{}{
				"type":        "string",
				"description": "Text to place on the image",
			},
			"placement": map[string]interface{}{
				"type":        "string",
				"description": "'top', 'center' or 'bottom' (default 'center')",
			},
			"position": map[string]interface{}{
				"type":        "integer",
				"description": "Slide position within the project (0-based)",
			},
		},
		"required": []string{"project_id", "image_url", "text"},
	}
}

type OverlayTextInput struct {
	ProjectID string `json:"project_id"`
	ImageURL  string `json:"image_url"`
	Text      string `json:"text"`
	Placement string `json:"placement"`
	Position  int    `json:"position"`
}

func (t *OverlayTextTool) Execute(ctx context.Context, input map[string]interface{}) (interface{}, error) {
	inputBytes, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal input: %w", err)
	}

	var params OverlayTextInput
	if err := json.Unmarshal(inputBytes, &params); err != nil {
		return nil, fmt.Errorf("failed to parse input: %w", err)
	}

	if params.Placement == "" {
		params.Placement = "center"
	}

	if _, err := t.projects.GetProject(ctx, params.ProjectID); err != nil {
		return nil, fmt.Errorf("project %s: %w", params.ProjectID, err)
	}

	t.l.Infof(ctx, "overlay_text: project=%s position=%d placement=%s", params.ProjectID, params.Position, params.Placement)

	asset, err := t.media.OverlayText(ctx, mediagen.OverlayRequest{
		ImageURL: params.ImageURL,
		Text:     params.Text,
		Position: params.Placement,
	})
	if err != nil {
		return nil, fmt.Errorf("text overlay failed: %w", err)
	}

	artifact := &model.Artifact{
		ID:        uuid.NewString(),
		ProjectID: params.ProjectID,
		Kind:      model.ArtifactSlide,
		URL:       asset.URL,
		MimeType:  asset.MimeType,
		Position:  params.Position,
	}
	if err := t.projects.AddArtifact(ctx, artifact); err != nil {
		return nil, fmt.Errorf("failed to store artifact: %w", err)
	}

	return artifactOutput(artifact), nil
}
