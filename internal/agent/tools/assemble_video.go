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

type AssembleVideoTool struct {
	media    mediagen.IMediaGen
	projects repository.ProjectRepository
	l        pkgLog.Logger
}

func NewAssembleVideoTool(media mediagen.IMediaGen, projects repository.ProjectRepository, l pkgLog.Logger) *AssembleVideoTool {
	return &AssembleVideoTool{media: media, projects: projects, l: l}
}

func (t *AssembleVideoTool) Name() string {
	return "assemble_video"
}

func (t *AssembleVideoTool) Description() string {
	return "Assemble finished slides (and optional narration) into the final video. Call last; marks the project ready."
}

func (t *AssembleVideoTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"project_id": map[string]interface{}{
				"type":        "string",
				"description": "Project to assemble",
			},
			"slide_urls": map[string]interface{}{
				"type":        "array",
				"description": "Slide image URLs in playback order",
				"items":       map[string]interface{}{"type": "string"},
			},
			"audio_url": map[string]interface{}{
				"type":        "string",
				"description": "Optional narration audio URL",
			},
		},
		"required": []string{"project_id", "slide_urls"},
	}
}

type AssembleVideoInput struct {
	ProjectID string   `json:"project_id"`
	SlideURLs []string `json:"slide_urls"`
	AudioURL  string   `json:"audio_url"`
}

func (t *AssembleVideoTool) Execute(ctx context.Context, input map[string]interface{}) (interface{}, error) {
	inputBytes, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal input: %w", err)
	}

	var params AssembleVideoInput
	if err := json.Unmarshal(inputBytes, &params); err != nil {
		return nil, fmt.Errorf("failed to parse input: %w", err)
	}

	if len(params.SlideURLs) == 0 {
		return nil, fmt.Errorf("slide_urls must not be empty")
	}

	if _, err := t.projects.GetProject(ctx, params.ProjectID); err != nil {
		return nil, fmt.Errorf("project %s: %w", params.ProjectID, err)
	}

	t.l.Infof(ctx, "assemble_video: project=%s slides=%d audio=%v", params.ProjectID, len(params.SlideURLs), params.AudioURL != "")

	asset, err := t.media.AssembleVideo(ctx, mediagen.VideoRequest{
		SlideURLs: params.SlideURLs,
		AudioURL:  params.AudioURL,
	})
	if err != nil {
		return nil, fmt.Errorf("video assembly failed: %w", err)
	}

	artifact := &model.Artifact{
		ID:        uuid.NewString(),
		ProjectID: params.ProjectID,
		Kind:      model.ArtifactVideo,
		URL:       asset.URL,
		MimeType:  asset.MimeType,
	}
	if err := t.projects.AddArtifact(ctx, artifact); err != nil {
		return nil, fmt.Errorf("failed to store artifact: %w", err)
	}

	if err := t.projects.UpdateProjectStatus(ctx, params.ProjectID, "ready"); err != nil {
		t.l.Errorf(ctx, "assemble_video: failed to mark project %s ready: %v", params.ProjectID, err)
	}

	return artifactOutput(artifact), nil
}
