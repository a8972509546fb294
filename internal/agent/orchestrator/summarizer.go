package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"content-pilot/internal/memory"
	"content-pilot/pkg/llmprovider"
)

const summarizerPrompt = `You maintain the long-term memory of a content-marketing
assistant. Merge the conversation turns below into the existing summary.
Keep project names, topics, brand preferences, and decisions. Drop chit-chat.
Reply with the updated summary only, at most 150 words.`

// LLMSummarizer folds evicted conversation turns into the rolling summary
// using the configured model chain.
type LLMSummarizer struct {
	llm *llmprovider.Manager
}

func NewLLMSummarizer(llm *llmprovider.Manager) *LLMSummarizer {
	return &LLMSummarizer{llm: llm}
}

func (s *LLMSummarizer) Summarize(ctx context.Context, currentSummary string, evicted []memory.Turn) (string, error) {
	var b strings.Builder
	if currentSummary != "" {
		fmt.Fprintf(&b, "Existing summary:\n%s\n\n", currentSummary)
	}
	b.WriteString("New turns:\n")
	for _, t := range evicted {
		fmt.Fprintf(&b, "%s: %s\n", t.Role, t.Text)
	}

	resp, err := s.llm.GenerateContent(ctx, &llmprovider.Request{
		SystemInstruction: &llmprovider.Message{
			Role:  "system",
			Parts: []llmprovider.Part{{Text: summarizerPrompt}},
		},
		Messages: []llmprovider.Message{
			{Role: "user", Parts: []llmprovider.Part{{Text: b.String()}}},
		},
	})
	if err != nil {
		return "", fmt.Errorf("summarize memory window: %w", err)
	}

	out := strings.TrimSpace(resp.Text())
	if out == "" {
		return "", fmt.Errorf("summarize memory window: empty model response")
	}
	return out, nil
}
