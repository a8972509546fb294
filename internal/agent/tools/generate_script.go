package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"content-pilot/pkg/llmprovider"
	pkgLog "content-pilot/pkg/log"
)

// ScriptModel abstracts the provider manager for mocking.
type ScriptModel interface {
	GenerateContent(ctx context.Context, req *llmprovider.Request) (*llmprovider.Response, error)
}

const scriptwriterPrompt = `You are a short-form marketing scriptwriter. Write one
line of on-screen text per slide. Punchy, concrete, no hashtags. Reply with the
slide lines only, one per line, no numbering.`

type GenerateScriptTool struct {
	llm ScriptModel
	l   pkgLog.Logger
}

func NewGenerateScriptTool(llm ScriptModel, l pkgLog.Logger) *GenerateScriptTool {
	return &GenerateScriptTool{llm: llm, l: l}
}

func (t *GenerateScriptTool) Name() string {
	return "generate_script"
}

func (t *GenerateScriptTool) Description() string {
	return "Write a slide-by-slide marketing script for a topic. Returns one text line per slide; use these lines with overlay_text and synthesize_voice."
}

func (t *GenerateScriptTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"topic": map[string]interface{}{
				"type":        "string",
				"description": "What the content is about",
			},
			"slide_count": map[string]interface{}{
				"type":        "integer",
				"description": "Number of slides (default 5)",
			},
			"tone": map[string]interface{}{
				"type":        "string",
				"description": "Optional tone, e.g. 'playful', 'authoritative'",
			},
		},
		"required": []string{"topic"},
	}
}

type GenerateScriptInput struct {
	Topic      string `json:"topic"`
	SlideCount int    `json:"slide_count"`
	Tone       string `json:"tone"`
}

type GenerateScriptOutput struct {
	Topic      string   `json:"topic"`
	Slides     []string `json:"slides"`
	SlideCount int      `json:"slide_count"`
}

func (t *GenerateScriptTool) Execute(ctx context.Context, input map[string]interface{}) (interface{}, error) {
	inputBytes, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal input: %w", err)
	}

	var params GenerateScriptInput
	if err := json.Unmarshal(inputBytes, &params); err != nil {
		return nil, fmt.Errorf("failed to parse input: %w", err)
	}

	if params.SlideCount <= 0 {
		params.SlideCount = 5
	}

	t.l.Infof(ctx, "generate_script: topic=%q slides=%d", params.Topic, params.SlideCount)

	brief := fmt.Sprintf("Topic: %s\nSlides: %d", params.Topic, params.SlideCount)
	if params.Tone != "" {
		brief += "\nTone: " + params.Tone
	}

	resp, err := t.llm.GenerateContent(ctx, &llmprovider.Request{
		SystemInstruction: &llmprovider.Message{
			Role:  "system",
			Parts: []llmprovider.Part{{Text: scriptwriterPrompt}},
		},
		Messages: []llmprovider.Message{
			{Role: "user", Parts: []llmprovider.Part{{Text: brief}}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("script generation failed: %w", err)
	}

	var slides []string
	for _, line := range strings.Split(resp.Text(), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		slides = append(slides, line)
		if len(slides) == params.SlideCount {
			break
		}
	}
	if len(slides) == 0 {
		return nil, fmt.Errorf("script generation returned no slides")
	}

	return GenerateScriptOutput{
		Topic:      params.Topic,
		Slides:     slides,
		SlideCount: len(slides),
	}, nil
}
