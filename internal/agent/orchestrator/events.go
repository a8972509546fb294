package orchestrator

import "content-pilot/internal/agent"

// EventType tags stream events. Per invocation the sequence is: one
// EventSession first, then any interleaving of EventText, EventToolStart,
// EventToolResult and EventPreview, closed by exactly one EventDone or
// EventError. A result always follows its start; a preview always follows
// the result that produced it.
type EventType string

const (
	EventSession    EventType = "session"
	EventText       EventType = "text"
	EventToolStart  EventType = "tool_start"
	EventToolResult EventType = "tool_result"
	EventPreview    EventType = "preview"
	EventDone       EventType = "done"
	EventError      EventType = "error"
)

// Event is one record on the loop's event stream.
type Event struct {
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id,omitempty"`

	// EventText
	Text string `json:"text,omitempty"`

	// EventToolStart / EventToolResult; Index is the call's position within
	// the whole invocation, so starts and results can be matched.
	Tool   string            `json:"tool,omitempty"`
	Index  int               `json:"index,omitempty"`
	Result *agent.ToolResult `json:"result,omitempty"`

	// EventPreview
	ArtifactID  string `json:"artifact_id,omitempty"`
	ArtifactURL string `json:"artifact_url,omitempty"`

	// EventDone
	Iterations int `json:"iterations,omitempty"`
	ToolCalls  int `json:"tool_calls,omitempty"`

	// EventError
	Message string `json:"message,omitempty"`
}
