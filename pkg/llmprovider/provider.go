package llmprovider

import "context"

// Provider defines the interface for LLM providers
type Provider interface {
	// GenerateContent sends a generation request and returns a response
	GenerateContent(ctx context.Context, req *Request) (*Response, error)

	// GenerateStream sends a generation request and delivers text deltas to
	// onDelta as they arrive. The returned Response carries the assembled
	// final content, including any function calls (which are never streamed
	// incrementally).
	GenerateStream(ctx context.Context, req *Request, onDelta func(text string)) (*Response, error)

	// Name returns the provider name (e.g., "deepseek", "gemini")
	Name() string

	// Model returns the model being used
	Model() string
}

// Request represents a normalized LLM generation request
type Request struct {
	SystemInstruction *Message
	Messages          []Message
	Tools             []Tool
	Temperature       float64
	MaxTokens         int

	// CacheBlocks are pre-rendered context segments with stable keys.
	// Adapters fold the content into the system text in declared order,
	// so a stable key means a byte-identical prompt prefix and a hit in
	// the provider-side prompt cache.
	CacheBlocks []CacheBlock
}

// CacheBlock is a cache-addressable context segment.
type CacheBlock struct {
	Label    string // "tools", "system", "memory"
	CacheKey string // content-derived, stable between writes
	Content  string
}

// Message represents a conversation message
type Message struct {
	Role  string // "user", "assistant", "system", "tool"
	Parts []Part
}

// Part represents a message part (text or function call)
type Part struct {
	Text             string
	FunctionCall     *FunctionCall
	FunctionResponse *FunctionResponse
}

// Tool represents a function declaration
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]interface{} // JSON Schema
}

// FunctionCall represents a model's function call request
type FunctionCall struct {
	Name string
	Args map[string]interface{}
}

// FunctionResponse represents a function execution result
type FunctionResponse struct {
	Name     string
	Response interface{}
}

// Response represents a normalized LLM generation response
type Response struct {
	Content      Message
	ProviderName string
	ModelName    string
	Usage        *Usage
}

// Usage tracks token consumption
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Text concatenates the text parts of the response content.
func (r *Response) Text() string {
	var out string
	for _, p := range r.Content.Parts {
		out += p.Text
	}
	return out
}

// FunctionCalls returns the function call parts of the response content
// in the order the model emitted them.
func (r *Response) FunctionCalls() []*FunctionCall {
	var calls []*FunctionCall
	for _, p := range r.Content.Parts {
		if p.FunctionCall != nil {
			calls = append(calls, p.FunctionCall)
		}
	}
	return calls
}
