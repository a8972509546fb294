package deepseek

import "context"

// IDeepSeek defines the interface for the DeepSeek API client.
type IDeepSeek interface {
	// GenerateContent sends a chat completion request
	GenerateContent(ctx context.Context, req *Request) (*Response, error)

	// GenerateStream sends a streaming chat completion request, forwarding
	// content deltas to onDelta
	GenerateStream(ctx context.Context, req *Request, onDelta func(text string)) (*Response, error)

	// Model returns the configured model
	Model() string
}
