package tools

import (
	"context"
	"encoding/json"
	"fmt"

	pkgLog "content-pilot/pkg/log"
)

type SaveLearningTool struct {
	mem MemoryRecorder
	l   pkgLog.Logger
}

func NewSaveLearningTool(mem MemoryRecorder, l pkgLog.Logger) *SaveLearningTool {
	return &SaveLearningTool{mem: mem, l: l}
}

func (t *SaveLearningTool) Name() string {
	return "save_learning"
}

func (t *SaveLearningTool) Description() string {
	return "Record a durable fact about the brand, audience or preferences so future sessions can use it. Categories group related facts, e.g. 'brand', 'audience', 'style'."
}

func (t *SaveLearningTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"category": map[string]interface{}{
				"type":        "string",
				"description": "Grouping key, e.g. 'brand'",
			},
			"text": map[string]interface{}{
				"type":        "string",
				"description": "The fact to remember",
			},
		},
		"required": []string{"category", "text"},
	}
}

type SaveLearningInput struct {
	Category string `json:"category"`
	Text     string `json:"text"`
}

type SaveLearningOutput struct {
	Saved    bool   `json:"saved"`
	Category string `json:"category"`
}

func (t *SaveLearningTool) Execute(ctx context.Context, input map[string]interface{}) (interface{}, error) {
	inputBytes, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal input: %w", err)
	}

	var params SaveLearningInput
	if err := json.Unmarshal(inputBytes, &params); err != nil {
		return nil, fmt.Errorf("failed to parse input: %w", err)
	}

	if params.Category == "" || params.Text == "" {
		return nil, fmt.Errorf("category and text must not be empty")
	}

	t.l.Infof(ctx, "save_learning: category=%s", params.Category)

	if err := t.mem.RecordLearning(ctx, params.Category, params.Text); err != nil {
		return nil, fmt.Errorf("failed to record learning: %w", err)
	}

	return SaveLearningOutput{Saved: true, Category: params.Category}, nil
}
