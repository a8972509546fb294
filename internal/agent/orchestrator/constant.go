package orchestrator

// Configuration defaults
const (
	DefaultMaxIterations = 25
	EventBufferSize      = 64
)

// Termination reasons recorded on synthetic tool failures
const (
	ReasonIterationCap = "iteration_cap_exceeded"
	ReasonCancelled    = "cancelled"
)

// System prompt
const (
	SystemPromptAgent = `You are a content-marketing production assistant.
You drive a set of generation tools to turn a topic or brief into finished
marketing assets: scripts, slide images with text overlays, voiceover audio,
and assembled videos.

Working rules:
- Break a request into tool calls; chain them (script before images, images
  before overlays, overlays and audio before video assembly).
- When a tool reports an error, read the error and retry with adjusted
  arguments instead of giving up.
- Record durable facts about the brand, audience, or preferences with the
  save_learning tool so future sessions benefit.
- Keep replies short; the produced artifacts are the deliverable.`
)

// Temporal context appended to the system prompt
const (
	TimeContextTemplate = `

Current date context:
- Today: %s (%s)
- This week: %s to %s
- Tomorrow: %s
Use these when a brief mentions relative dates.`
)

// Truncation notice appended when the iteration cap is reached
const (
	MsgIterationCapReached = "Stopped after reaching the iteration limit. The work so far is preserved; send a follow-up message to continue."
)
