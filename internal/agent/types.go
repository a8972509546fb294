package agent

import (
	"context"
	"fmt"

	"content-pilot/pkg/llmprovider"
)

// Tool represents an agent tool that can be called by the LLM.
type Tool interface {
	// Name returns the tool name (used in function calling).
	Name() string

	// Description returns what the tool does (for the LLM).
	Description() string

	// Parameters returns the JSON schema for tool parameters.
	Parameters() map[string]interface{}

	// Execute runs the tool with validated parameters.
	Execute(ctx context.Context, params map[string]interface{}) (interface{}, error)
}

// ArtifactRef is implemented by tool results that reference a stored artifact.
// The orchestrator turns such results into preview events.
type ArtifactRef interface {
	ArtifactID() string
	ArtifactURL() string
}

// ToolRegistry manages available tools. The schema of every tool is checked
// once at registration so dispatch never has to re-validate declarations.
type ToolRegistry struct {
	tools map[string]Tool
	order []string
}

// NewToolRegistry creates a new tool registry.
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{
		tools: make(map[string]Tool),
	}
}

// Register adds a tool to the registry. The tool's declared parameter schema
// must be a valid JSON-schema object declaration; malformed schemas and
// duplicate names are rejected here, at startup, not at call time.
func (r *ToolRegistry) Register(tool Tool) error {
	name := tool.Name()
	if name == "" {
		return fmt.Errorf("tool has empty name")
	}
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool %q already registered", name)
	}
	if err := validateSchema(tool.Parameters()); err != nil {
		return fmt.Errorf("tool %q: %w", name, err)
	}

	r.tools[name] = tool
	r.order = append(r.order, name)
	return nil
}

// MustRegister registers a tool and panics on error. Registration happens at
// startup with static tools, so a failure is a programming error.
func (r *ToolRegistry) MustRegister(tool Tool) {
	if err := r.Register(tool); err != nil {
		panic(err)
	}
}

// Get retrieves a tool by name.
func (r *ToolRegistry) Get(name string) (Tool, bool) {
	tool, ok := r.tools[name]
	return tool, ok
}

// List returns all registered tools in registration order.
func (r *ToolRegistry) List() []Tool {
	tools := make([]Tool, 0, len(r.tools))
	for _, name := range r.order {
		tools = append(tools, r.tools[name])
	}
	return tools
}

// ToFunctionDefinitions converts tools to LLM function calling format.
func (r *ToolRegistry) ToFunctionDefinitions() []llmprovider.Tool {
	tools := make([]llmprovider.Tool, 0, len(r.tools))
	for _, name := range r.order {
		tool := r.tools[name]
		tools = append(tools, llmprovider.Tool{
			Name:        tool.Name(),
			Description: tool.Description(),
			Parameters:  tool.Parameters(),
		})
	}
	return tools
}
