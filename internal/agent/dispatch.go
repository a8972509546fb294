package agent

import (
	"context"
	"fmt"
	"sync"
	"time"

	pkgLog "content-pilot/pkg/log"
)

// Error kinds carried on tool results. These are data fed back to the model,
// not Go errors: the loop records them in history and keeps going.
const (
	KindValidation = "ValidationError"
	KindExecution  = "ToolExecutionError"
)

// ToolCall is one model-requested invocation.
type ToolCall struct {
	Name string
	Args map[string]interface{}
}

// ToolError describes a failed call.
type ToolError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// ToolResult is the uniform result envelope every dispatch produces.
// Finalized results are never mutated.
type ToolResult struct {
	Name    string      `json:"name"`
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ToolError  `json:"error,omitempty"`
}

// Dispatcher resolves tool calls against the registry, validates arguments,
// and normalizes every outcome into a ToolResult. Handler failures and panics
// never escape to the caller.
type Dispatcher struct {
	registry *ToolRegistry
	l        pkgLog.Logger
	timeout  time.Duration
}

// NewDispatcher creates a dispatcher. timeout bounds each handler invocation;
// zero means no per-call timeout.
func NewDispatcher(registry *ToolRegistry, l pkgLog.Logger, timeout time.Duration) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		l:        l,
		timeout:  timeout,
	}
}

// Dispatch executes the requested calls and returns results in request order.
// Independent calls from one model turn run concurrently, but results are
// buffered and joined so the transcript stays deterministic.
func (d *Dispatcher) Dispatch(ctx context.Context, calls []ToolCall) []ToolResult {
	results := make([]ToolResult, len(calls))

	if len(calls) == 1 {
		results[0] = d.dispatchOne(ctx, calls[0])
		return results
	}

	var wg sync.WaitGroup
	for i, call := range calls {
		wg.Add(1)
		go func(i int, call ToolCall) {
			defer wg.Done()
			results[i] = d.dispatchOne(ctx, call)
		}(i, call)
	}
	wg.Wait()

	return results
}

// dispatchOne runs a single call through resolution, validation, and execution.
func (d *Dispatcher) dispatchOne(ctx context.Context, call ToolCall) ToolResult {
	tool, ok := d.registry.Get(call.Name)
	if !ok {
		d.l.Warnf(ctx, "dispatch: unknown tool %q requested", call.Name)
		return failure(call.Name, KindValidation, fmt.Sprintf("unknown tool %q", call.Name))
	}

	if err := validateArgs(tool.Parameters(), call.Args); err != nil {
		d.l.Warnf(ctx, "dispatch: tool %s argument validation failed: %v", call.Name, err)
		return failure(call.Name, KindValidation, err.Error())
	}

	execCtx := ctx
	if d.timeout > 0 {
		var cancel context.CancelFunc
		execCtx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	data, err := d.execute(execCtx, tool, call.Args)
	if err != nil {
		d.l.Errorf(ctx, "dispatch: tool %s failed: %v", call.Name, err)
		return failure(call.Name, KindExecution, err.Error())
	}

	return ToolResult{Name: call.Name, Success: true, Data: data}
}

// execute invokes the handler with panic recovery. A handler, once started,
// runs to completion or its own timeout; cancellation is not sampled inside it.
func (d *Dispatcher) execute(ctx context.Context, tool Tool, args map[string]interface{}) (data interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tool panicked: %v", r)
		}
	}()
	return tool.Execute(ctx, args)
}

func failure(name, kind, message string) ToolResult {
	return ToolResult{
		Name:    name,
		Success: false,
		Error:   &ToolError{Kind: kind, Message: message},
	}
}
