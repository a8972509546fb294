package orchestrator

import (
	"context"
	"strings"
	"time"

	"content-pilot/internal/agent"
	"content-pilot/internal/memory"
	"content-pilot/pkg/llmprovider"
)

// Run starts one loop invocation and returns its event stream. The channel is
// closed after the terminal event; the client always receives exactly one
// done or error event. Cancellation is sampled at the suspension points only:
// before each model call and before each tool dispatch.
func (o *Orchestrator) Run(ctx context.Context, in RunInput) <-chan Event {
	events := make(chan Event, EventBufferSize)
	go func() {
		defer close(events)
		o.run(ctx, in, events)
	}()
	return events
}

func (o *Orchestrator) run(ctx context.Context, in RunInput, events chan<- Event) {
	o.emit(ctx, events, Event{Type: EventSession, SessionID: in.SessionID})

	// Memory is read once per invocation; iterations reuse the same snapshot
	// so the memory cache block stays stable until the next checkpoint.
	snap := o.mem.Load()
	blocks := []llmprovider.CacheBlock{
		o.cache.ToolsBlock(o.registry.ToFunctionDefinitions()),
		o.cache.SystemBlock(SystemPromptAgent + o.timeContext(time.Now())),
		o.cache.MemoryBlock(snap),
	}
	defs := o.registry.ToFunctionDefinitions()

	history := append([]Message(nil), in.History...)
	userMsg := Message{Role: "user", Content: in.UserText, At: time.Now().UTC()}
	history = append(history, userMsg)
	o.record(in, userMsg)

	var (
		iterations    int
		toolCallCount int
		callIndex     int
	)

	for {
		// Suspension point: before the model call.
		if ctx.Err() != nil {
			o.terminateCancelled(ctx, in, events, "", nil)
			return
		}

		iterations++
		o.l.Infof(ctx, "agent %s: iteration %d/%d session=%s", StateAwaitingModel, iterations, o.maxIterations, in.SessionID)

		req := &llmprovider.Request{
			CacheBlocks: blocks,
			Messages:    buildMessages(history),
			Tools:       defs,
		}

		// Transient model failures are retried with exponential backoff
		// inside the manager; an error here is persistent.
		var streamed strings.Builder
		resp, err := o.llm.GenerateStream(ctx, req, func(text string) {
			streamed.WriteString(text)
			o.emit(ctx, events, Event{Type: EventText, Text: text})
		})
		if err != nil {
			o.l.Errorf(ctx, "agent %s: model invocation failed at iteration %d: %v", StateTerminated, iterations, err)
			if partial := streamed.String(); partial != "" {
				msg := Message{Role: "assistant", Content: partial, At: time.Now().UTC()}
				o.record(in, msg)
			}
			o.emit(ctx, events, Event{Type: EventError, Message: "model invocation failed: " + err.Error()})
			return
		}

		text := resp.Text()
		calls := toToolCalls(resp.FunctionCalls())

		// Providers that do not stream deliver the whole text at once.
		if streamed.Len() == 0 && text != "" {
			o.emit(ctx, events, Event{Type: EventText, Text: text})
		}

		if len(calls) == 0 {
			final := Message{Role: "assistant", Content: text, At: time.Now().UTC()}
			o.record(in, final)
			o.l.Infof(ctx, "agent %s: finished at iteration %d session=%s", StateTerminated, iterations, in.SessionID)
			o.checkpoint(ctx, in.UserText, text)
			o.emit(ctx, events, Event{Type: EventDone, Iterations: iterations, ToolCalls: toolCallCount})
			return
		}

		// Mixed turn: the prose above is commentary, already emitted; the
		// tool calls still count and the loop continues.

		if iterations >= o.maxIterations {
			o.l.Warnf(ctx, "agent: iteration cap (%d) reached session=%s", o.maxIterations, in.SessionID)
			o.terminateCapped(ctx, in, events, text, calls, &callIndex, iterations, &toolCallCount)
			return
		}

		// Suspension point: before tool dispatch.
		if ctx.Err() != nil {
			o.terminateCancelled(ctx, in, events, text, calls)
			return
		}

		o.l.Infof(ctx, "agent %s: dispatching %d call(s) session=%s", StateDispatchingTools, len(calls), in.SessionID)

		startIdx := callIndex
		for _, c := range calls {
			o.emit(ctx, events, Event{Type: EventToolStart, Tool: c.Name, Index: callIndex})
			callIndex++
		}

		results := o.dispatcher.Dispatch(ctx, calls)
		toolCallCount += len(calls)

		records := make([]ToolCallRecord, len(calls))
		for i := range calls {
			res := results[i]
			records[i] = ToolCallRecord{Call: calls[i], Result: &res}
			o.emit(ctx, events, Event{Type: EventToolResult, Tool: res.Name, Index: startIdx + i, Result: &res})
			if ref, ok := res.Data.(agent.ArtifactRef); ok && res.Success {
				o.emit(ctx, events, Event{Type: EventPreview, ArtifactID: ref.ArtifactID(), ArtifactURL: ref.ArtifactURL()})
			}
		}

		asst := Message{Role: "assistant", Content: text, ToolCalls: records, At: time.Now().UTC()}
		history = append(history, asst)
		o.record(in, asst)
	}
}

// terminateCapped force-terminates at the iteration cap. The pending calls
// are finalized as synthetic failures so no orphaned call survives, a
// truncation notice is appended, and the terminal event is a graceful done.
func (o *Orchestrator) terminateCapped(ctx context.Context, in RunInput, events chan<- Event, text string, calls []agent.ToolCall, callIndex *int, iterations int, toolCallCount *int) {
	records := make([]ToolCallRecord, len(calls))
	startIdx := *callIndex
	for i, c := range calls {
		o.emit(ctx, events, Event{Type: EventToolStart, Tool: c.Name, Index: *callIndex})
		*callIndex++
		res := agent.ToolResult{
			Name:    c.Name,
			Success: false,
			Error:   &agent.ToolError{Kind: agent.KindExecution, Message: ReasonIterationCap},
		}
		records[i] = ToolCallRecord{Call: c, Result: &res}
		o.emit(ctx, events, Event{Type: EventToolResult, Tool: c.Name, Index: startIdx + i, Result: &res})
	}
	*toolCallCount += len(calls)

	if text != "" || len(records) > 0 {
		o.record(in, Message{Role: "assistant", Content: text, ToolCalls: records, At: time.Now().UTC()})
	}
	notice := Message{Role: "assistant", Content: MsgIterationCapReached, At: time.Now().UTC()}
	o.record(in, notice)

	o.checkpoint(ctx, in.UserText, MsgIterationCapReached)
	o.emit(ctx, events, Event{Type: EventDone, Iterations: iterations, ToolCalls: *toolCallCount})
}

// terminateCancelled finalizes the in-progress message after a cancellation so
// the stored transcript stays internally consistent, then emits the error
// terminal event.
func (o *Orchestrator) terminateCancelled(ctx context.Context, in RunInput, events chan<- Event, text string, calls []agent.ToolCall) {
	o.l.Infof(ctx, "agent %s: cancelled session=%s", StateTerminated, in.SessionID)

	if text != "" || len(calls) > 0 {
		records := make([]ToolCallRecord, len(calls))
		for i, c := range calls {
			res := agent.ToolResult{
				Name:    c.Name,
				Success: false,
				Error:   &agent.ToolError{Kind: agent.KindExecution, Message: ReasonCancelled},
			}
			records[i] = ToolCallRecord{Call: c, Result: &res}
		}
		o.record(in, Message{Role: "assistant", Content: text, ToolCalls: records, At: time.Now().UTC()})
	}

	o.emit(ctx, events, Event{Type: EventError, Message: ReasonCancelled})
}

// checkpoint writes the finished exchange into cross-session memory. A
// failure here is logged and swallowed: the conversation never breaks because
// persistence did.
func (o *Orchestrator) checkpoint(ctx context.Context, userText, assistantText string) {
	now := time.Now().UTC()
	turns := []memory.Turn{{Role: "user", Text: userText, At: now}}
	if assistantText != "" {
		turns = append(turns, memory.Turn{Role: "assistant", Text: assistantText, At: now})
	}
	if err := o.mem.Checkpoint(context.WithoutCancel(ctx), memory.Update{AppendTurns: turns}); err != nil {
		o.l.Errorf(ctx, "agent: memory checkpoint failed, session unaffected: %v", err)
	}
}

func (o *Orchestrator) record(in RunInput, msg Message) {
	if in.OnMessage != nil {
		in.OnMessage(msg)
	}
}

// emit delivers an event unless the consumer is gone. Buffer space is used
// first so terminal events still land after a cancellation.
func (o *Orchestrator) emit(ctx context.Context, events chan<- Event, ev Event) {
	select {
	case events <- ev:
		return
	default:
	}
	select {
	case events <- ev:
	case <-ctx.Done():
	}
}

func toToolCalls(fcs []*llmprovider.FunctionCall) []agent.ToolCall {
	calls := make([]agent.ToolCall, len(fcs))
	for i, fc := range fcs {
		calls[i] = agent.ToolCall{Name: fc.Name, Args: fc.Args}
	}
	return calls
}

// buildMessages converts the transcript into provider messages. Tool results
// ride back as function responses so the model can read failures as data and
// self-correct.
func buildMessages(history []Message) []llmprovider.Message {
	var out []llmprovider.Message
	for _, msg := range history {
		if msg.Role == "user" {
			out = append(out, llmprovider.Message{
				Role:  "user",
				Parts: []llmprovider.Part{{Text: msg.Content}},
			})
			continue
		}

		asst := llmprovider.Message{Role: "assistant"}
		if msg.Content != "" {
			asst.Parts = append(asst.Parts, llmprovider.Part{Text: msg.Content})
		}
		for _, rec := range msg.ToolCalls {
			asst.Parts = append(asst.Parts, llmprovider.Part{
				FunctionCall: &llmprovider.FunctionCall{Name: rec.Call.Name, Args: rec.Call.Args},
			})
		}
		if len(asst.Parts) > 0 {
			out = append(out, asst)
		}

		if len(msg.ToolCalls) > 0 {
			toolMsg := llmprovider.Message{Role: "tool"}
			for _, rec := range msg.ToolCalls {
				toolMsg.Parts = append(toolMsg.Parts, llmprovider.Part{
					FunctionResponse: &llmprovider.FunctionResponse{
						Name:     rec.Call.Name,
						Response: rec.Result,
					},
				})
			}
			out = append(out, toolMsg)
		}
	}
	return out
}
