package orchestrator

import (
	"time"

	"content-pilot/internal/agent"
)

// State names for the loop state machine. Tracked for logging; the loop
// itself is a single goroutine moving through them sequentially.
type State string

const (
	StateAwaitingModel    State = "awaiting_model"
	StateDispatchingTools State = "dispatching_tools"
	StateEmittingText     State = "emitting_text"
	StateTerminated       State = "terminated"
)

// Message is one transcript entry. Immutable once appended, except the
// in-progress assistant message which accumulates text deltas until the loop
// finishes the turn.
type Message struct {
	Role      string           `json:"role"` // "user" or "assistant"
	Content   string           `json:"content"`
	ToolCalls []ToolCallRecord `json:"tool_calls,omitempty"`
	At        time.Time        `json:"at"`
}

// ToolCallRecord pairs a requested call with its finalized result. Every
// record in a stored transcript has a non-nil Result: calls still pending at
// forced termination are finalized as synthetic failures first.
type ToolCallRecord struct {
	Call   agent.ToolCall    `json:"call"`
	Result *agent.ToolResult `json:"result"`
}

// RunInput describes one loop invocation.
type RunInput struct {
	SessionID string
	UserText  string
	History   []Message

	// OnMessage is invoked for every message the loop appends (the user
	// message, then each finalized assistant message). The caller owns the
	// transcript; the loop never retains references. Optional.
	OnMessage func(Message)
}
