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

type SynthesizeVoiceTool struct {
	media    mediagen.IMediaGen
	projects repository.ProjectRepository
	l        pkgLog.Logger
}

func NewSynthesizeVoiceTool(media mediagen.IMediaGen, projects repository.ProjectRepository, l pkgLog.Logger) *SynthesizeVoiceTool {
	return &SynthesizeVoiceTool{media: media, projects: projects, l: l}
}

func (t *SynthesizeVoiceTool) Name() string {
	return "synthesize_voice"
}

func (t *SynthesizeVoiceTool) Description() string {
	return "Synthesize narration audio for the script. Use the full script text, not one slide at a time."
}

func (t *SynthesizeVoiceTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"project_id": map[string]interface{}{
				"type":        "string",
				"description": "Project the narration belongs to",
			},
			"text": map[string]interface{}{
				"type":        "string",
				"description": "Narration text",
			},
			"voice": map[string]interface{}{
				"type":        "string",
				"description": "Optional voice name",
			},
		},
		"required": []string{"project_id", "text"},
	}
}

type SynthesizeVoiceInput struct {
	ProjectID string `json:"project_id"`
	Text      string `json:"text"`
	Voice     string `json:"voice"`
}

func (t *SynthesizeVoiceTool) Execute(ctx context.Context, input map[string]interface{}) (interface{}, error) {
	inputBytes, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal input: %w", err)
	}

	var params SynthesizeVoiceInput
	if err := json.Unmarshal(inputBytes, &params); err != nil {
		return nil, fmt.Errorf("failed to parse input: %w", err)
	}

	if _, err := t.projects.GetProject(ctx, params.ProjectID); err != nil {
		return nil, fmt.Errorf("project %s: %w", params.ProjectID, err)
	}

	t.l.Infof(ctx, "synthesize_voice: project=%s chars=%d", params.ProjectID, len(params.Text))

	asset, err := t.media.SynthesizeSpeech(ctx, mediagen.SpeechRequest{
		Text:  params.Text,
		Voice: params.Voice,
	})
	if err != nil {
		return nil, fmt.Errorf("voice synthesis failed: %w", err)
	}

	artifact := &model.Artifact{
		ID:        uuid.NewString(),
		ProjectID: params.ProjectID,
		Kind:      model.ArtifactAudio,
		URL:       asset.URL,
		MimeType:  asset.MimeType,
	}
	if err := t.projects.AddArtifact(ctx, artifact); err != nil {
		return nil, fmt.Errorf("failed to store artifact: %w", err)
	}

	return artifactOutput(artifact), nil
}
