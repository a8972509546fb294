package orchestrator

import (
	"content-pilot/internal/agent"
	"content-pilot/internal/memory"
	"content-pilot/internal/promptcache"
	"content-pilot/pkg/llmprovider"
	pkgLog "content-pilot/pkg/log"
)

// Orchestrator runs the tool-calling loop: assemble context, invoke the
// model, dispatch requested tools, feed results back, repeat until the model
// answers in plain text or the iteration cap is reached.
type Orchestrator struct {
	llm           *llmprovider.Manager
	registry      *agent.ToolRegistry
	dispatcher    *agent.Dispatcher
	mem           *memory.Manager
	cache         *promptcache.Controller
	l             pkgLog.Logger
	timezone      string
	maxIterations int
}

// Config bundles the orchestrator dependencies.
type Config struct {
	LLM           *llmprovider.Manager
	Registry      *agent.ToolRegistry
	Dispatcher    *agent.Dispatcher
	Memory        *memory.Manager
	Cache         *promptcache.Controller
	Logger        pkgLog.Logger
	Timezone      string
	MaxIterations int
}

// New creates an Orchestrator.
func New(cfg Config) *Orchestrator {
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultMaxIterations
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "UTC"
	}
	if cfg.Cache == nil {
		cfg.Cache = promptcache.NewController()
	}

	return &Orchestrator{
		llm:           cfg.LLM,
		registry:      cfg.Registry,
		dispatcher:    cfg.Dispatcher,
		mem:           cfg.Memory,
		cache:         cfg.Cache,
		l:             cfg.Logger,
		timezone:      cfg.Timezone,
		maxIterations: cfg.MaxIterations,
	}
}
