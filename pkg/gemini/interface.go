package gemini

import "context"

// IGemini defines the interface for the Gemini API client.
// Implementations are safe for concurrent use.
type IGemini interface {
	// GenerateContent sends a generation request to the Gemini API
	GenerateContent(ctx context.Context, req *Request) (*Response, error)

	// GenerateStream sends a generation request and delivers text deltas
	// to onDelta as server-sent chunks arrive
	GenerateStream(ctx context.Context, req *Request, onDelta func(text string)) (*Response, error)

	// Model returns the model being used
	Model() string
}
