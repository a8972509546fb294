package llmprovider

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"content-pilot/pkg/deepseek"
	"content-pilot/pkg/gemini"
)

// GeminiAdapter adapts pkg/gemini to the llmprovider.Provider interface
type GeminiAdapter struct {
	client gemini.IGemini
}

// NewGeminiAdapter creates a new Gemini adapter
func NewGeminiAdapter(client gemini.IGemini) *GeminiAdapter {
	return &GeminiAdapter{client: client}
}

// GenerateContent implements Provider
func (a *GeminiAdapter) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	resp, err := a.client.GenerateContent(ctx, toGeminiRequest(req))
	if err != nil {
		return nil, err
	}
	return a.normalize(resp), nil
}

// GenerateStream implements Provider
func (a *GeminiAdapter) GenerateStream(ctx context.Context, req *Request, onDelta func(text string)) (*Response, error) {
	resp, err := a.client.GenerateStream(ctx, toGeminiRequest(req), onDelta)
	if err != nil {
		return nil, err
	}
	return a.normalize(resp), nil
}

func (a *GeminiAdapter) normalize(resp *gemini.Response) *Response {
	return &Response{
		Content:      fromGeminiContent(resp.Content),
		ProviderName: "gemini",
		ModelName:    a.client.Model(),
		Usage: &Usage{
			InputTokens:  resp.Usage.InputTokens,
			OutputTokens: resp.Usage.OutputTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
	}
}

// Name returns provider name
func (a *GeminiAdapter) Name() string { return "gemini" }

// Model returns the configured model
func (a *GeminiAdapter) Model() string { return a.client.Model() }

func toGeminiRequest(req *Request) *gemini.Request {
	out := &gemini.Request{
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}

	if sys := renderSystemText(req); sys != "" {
		out.SystemInstruction = &gemini.Content{Parts: []gemini.Part{{Text: sys}}}
	}

	out.Messages = make([]gemini.Content, len(req.Messages))
	for i, msg := range req.Messages {
		role := msg.Role
		switch role {
		case "assistant":
			role = "model"
		case "tool":
			role = "function"
		}
		out.Messages[i] = gemini.Content{Role: role, Parts: toGeminiParts(msg.Parts)}
	}

	for _, t := range req.Tools {
		out.Tools = append(out.Tools, gemini.Tool{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  t.Parameters,
		})
	}

	return out
}

func toGeminiParts(parts []Part) []gemini.Part {
	out := make([]gemini.Part, len(parts))
	for i, p := range parts {
		out[i] = gemini.Part{Text: p.Text}
		if p.FunctionCall != nil {
			out[i].FunctionCall = &gemini.FunctionCall{Name: p.FunctionCall.Name, Args: p.FunctionCall.Args}
		}
		if p.FunctionResponse != nil {
			out[i].FunctionResponse = &gemini.FunctionResponse{Name: p.FunctionResponse.Name, Response: p.FunctionResponse.Response}
		}
	}
	return out
}

func fromGeminiContent(c gemini.Content) Message {
	role := c.Role
	if role == "model" {
		role = "assistant"
	}
	msg := Message{Role: role}
	for _, p := range c.Parts {
		part := Part{Text: p.Text}
		if p.FunctionCall != nil {
			part.FunctionCall = &FunctionCall{Name: p.FunctionCall.Name, Args: p.FunctionCall.Args}
		}
		msg.Parts = append(msg.Parts, part)
	}
	return msg
}

// DeepSeekAdapter adapts pkg/deepseek to the llmprovider.Provider interface
type DeepSeekAdapter struct {
	client deepseek.IDeepSeek
}

// NewDeepSeekAdapter creates a new DeepSeek adapter
func NewDeepSeekAdapter(client deepseek.IDeepSeek) *DeepSeekAdapter {
	return &DeepSeekAdapter{client: client}
}

// GenerateContent implements Provider
func (a *DeepSeekAdapter) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	dsReq, err := toDeepSeekRequest(req)
	if err != nil {
		return nil, err
	}
	resp, err := a.client.GenerateContent(ctx, dsReq)
	if err != nil {
		return nil, err
	}
	return a.normalize(resp)
}

// GenerateStream implements Provider
func (a *DeepSeekAdapter) GenerateStream(ctx context.Context, req *Request, onDelta func(text string)) (*Response, error) {
	dsReq, err := toDeepSeekRequest(req)
	if err != nil {
		return nil, err
	}
	resp, err := a.client.GenerateStream(ctx, dsReq, onDelta)
	if err != nil {
		return nil, err
	}
	return a.normalize(resp)
}

func (a *DeepSeekAdapter) normalize(resp *deepseek.Response) (*Response, error) {
	out := &Response{
		ProviderName: "deepseek",
		ModelName:    a.client.Model(),
		Usage:        &Usage{},
	}
	if resp.Usage != nil {
		out.Usage = &Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		}
	}
	if len(resp.Choices) == 0 {
		return out, nil
	}

	msg := resp.Choices[0].Message
	out.Content = Message{Role: "assistant"}
	if msg.Content != "" {
		out.Content.Parts = append(out.Content.Parts, Part{Text: msg.Content})
	}
	for _, tc := range msg.ToolCalls {
		args, err := tc.Function.ParseArguments()
		if err != nil {
			return nil, fmt.Errorf("deepseek: malformed tool call arguments for %s: %w", tc.Function.Name, err)
		}
		out.Content.Parts = append(out.Content.Parts, Part{
			FunctionCall: &FunctionCall{Name: tc.Function.Name, Args: args},
		})
	}
	return out, nil
}

// Name returns provider name
func (a *DeepSeekAdapter) Name() string { return "deepseek" }

// Model returns the configured model
func (a *DeepSeekAdapter) Model() string { return a.client.Model() }

func toDeepSeekRequest(req *Request) (*deepseek.Request, error) {
	out := &deepseek.Request{
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}

	if sys := renderSystemText(req); sys != "" {
		out.Messages = append(out.Messages, deepseek.Message{Role: "system", Content: sys})
	}

	for _, msg := range req.Messages {
		dsMsg := deepseek.Message{Role: msg.Role}
		// Occurrence ordinals per function name within this message. Calls
		// and their responses live in adjacent messages in the same order,
		// so the same (name, ordinal) pair lands on both sides of the pair.
		seen := map[string]int{}
		for _, p := range msg.Parts {
			if p.Text != "" {
				dsMsg.Content += p.Text
			}
			if p.FunctionCall != nil {
				args, err := json.Marshal(p.FunctionCall.Args)
				if err != nil {
					return nil, fmt.Errorf("deepseek: failed to encode tool call args: %w", err)
				}
				id := toolCallID(p.FunctionCall.Name, seen[p.FunctionCall.Name])
				seen[p.FunctionCall.Name]++
				dsMsg.ToolCalls = append(dsMsg.ToolCalls, deepseek.ToolCall{
					ID:   id,
					Type: "function",
					Function: deepseek.FunctionCall{
						Name:      p.FunctionCall.Name,
						Arguments: string(args),
					},
				})
			}
			if p.FunctionResponse != nil {
				payload, err := json.Marshal(p.FunctionResponse.Response)
				if err != nil {
					return nil, fmt.Errorf("deepseek: failed to encode tool response: %w", err)
				}
				id := toolCallID(p.FunctionResponse.Name, seen[p.FunctionResponse.Name])
				seen[p.FunctionResponse.Name]++
				out.Messages = append(out.Messages, deepseek.Message{
					Role:       "tool",
					Content:    string(payload),
					ToolCallID: id,
				})
			}
		}
		if dsMsg.Content != "" || len(dsMsg.ToolCalls) > 0 {
			out.Messages = append(out.Messages, dsMsg)
		}
	}

	for _, t := range req.Tools {
		out.Tools = append(out.Tools, deepseek.Tool{
			Type: "function",
			Function: deepseek.Function{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}

	return out, nil
}

// toolCallID makes tool call ids unique within a turn: OpenAI-compatible
// APIs reject duplicate ids when the model calls the same function twice.
func toolCallID(name string, n int) string {
	return fmt.Sprintf("%s-%d", name, n)
}

// renderSystemText folds cache blocks and the system instruction into one
// system text. Blocks keep their declared order so identical inputs produce
// byte-identical prompts, which is what makes provider-side prompt caching
// effective.
func renderSystemText(req *Request) string {
	var sb strings.Builder
	for _, b := range req.CacheBlocks {
		if b.Content == "" {
			continue
		}
		sb.WriteString(b.Content)
		sb.WriteString("\n\n")
	}
	if req.SystemInstruction != nil {
		for _, p := range req.SystemInstruction.Parts {
			sb.WriteString(p.Text)
		}
	}
	return strings.TrimSpace(sb.String())
}
