package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"content-pilot/config"
	_ "content-pilot/docs" // Swagger docs
	"content-pilot/internal/agent"
	"content-pilot/internal/agent/orchestrator"
	"content-pilot/internal/agent/tools"
	autoDelivery "content-pilot/internal/automation/delivery/http"
	autoSqlite "content-pilot/internal/automation/repository/sqlite"
	"content-pilot/internal/automation/scheduler"
	autoUsecase "content-pilot/internal/automation/usecase"
	chatDelivery "content-pilot/internal/chat/delivery/http"
	"content-pilot/internal/db"
	"content-pilot/internal/httpserver"
	"content-pilot/internal/memory"
	memSqlite "content-pilot/internal/memory/repository/sqlite"
	"content-pilot/internal/migrate"
	projSqlite "content-pilot/internal/project/repository/sqlite"
	"content-pilot/internal/session"
	"content-pilot/pkg/llmprovider"
	"content-pilot/pkg/log"
	"content-pilot/pkg/mediagen"
	"content-pilot/pkg/publisher"
)

// @title       Content Pilot API
// @description Conversational content generation agent with tool calling, session memory, and scheduled automations.
// @version     1
// @host        localhost:8080
// @schemes     http
func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting Content Pilot...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)

	// 3. Storage
	conn, err := db.Open(db.Config{Path: cfg.Storage.Path})
	if err != nil {
		logger.Error(ctx, "Failed to open database: ", err)
		return
	}
	defer conn.Close()

	if err := migrate.Migrate(conn); err != nil {
		logger.Error(ctx, "Failed to run migrations: ", err)
		return
	}

	memRepo := memSqlite.New(conn)
	projectRepo := projSqlite.New(conn)
	automationRepo := autoSqlite.New(conn)

	// 4. LLM provider chain
	providers, err := llmprovider.InitializeProviders(&cfg.LLM)
	if err != nil {
		logger.Error(ctx, "Failed to initialize LLM providers: ", err)
		return
	}
	llm := llmprovider.NewManager(providers, &llmprovider.Config{
		FallbackEnabled: cfg.LLM.FallbackEnabled,
		RetryAttempts:   cfg.LLM.RetryAttempts,
		RetryDelay:      parseDuration(cfg.LLM.RetryDelay, time.Second),
		MaxTotalTimeout: parseDuration(cfg.LLM.MaxTotalTimeout, 2*time.Minute),
	}, logger)

	// 5. Vendors
	media, err := mediagen.New(mediagen.Config{
		APIKey:  cfg.MediaGen.APIKey,
		BaseURL: cfg.MediaGen.BaseURL,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize media generation client: ", err)
		return
	}

	var pub publisher.IPublisher
	if cfg.Publisher.Enabled {
		pubClient, pubErr := publisher.New(publisher.Config{
			BaseURL:        cfg.Publisher.BaseURL,
			ClientID:       cfg.Publisher.ClientID,
			ClientSecret:   cfg.Publisher.ClientSecret,
			TokenURL:       cfg.Publisher.TokenURL,
			RequestsPerMin: cfg.Publisher.RequestsPerMin,
		})
		if pubErr != nil {
			logger.Warnf(ctx, "Publisher not available (optional): %v", pubErr)
		} else {
			pub = pubClient
			logger.Info(ctx, "Publisher initialized")
		}
	} else {
		logger.Warn(ctx, "Publisher disabled: auto_post runs will fail their posting step")
	}

	// 6. Memory
	mem, err := memory.NewManager(ctx, memRepo, orchestrator.NewLLMSummarizer(llm), logger, cfg.Memory.WindowSize)
	if err != nil {
		logger.Error(ctx, "Failed to load memory: ", err)
		return
	}

	// 7. Tool registry
	registry := agent.NewToolRegistry()
	registry.MustRegister(tools.NewCreateProjectTool(projectRepo, mem, logger))
	registry.MustRegister(tools.NewSetActiveProjectTool(mem, projectRepo, logger))
	registry.MustRegister(tools.NewGenerateScriptTool(llm, logger))
	registry.MustRegister(tools.NewRenderImageTool(media, projectRepo, logger))
	registry.MustRegister(tools.NewOverlayTextTool(media, projectRepo, logger))
	registry.MustRegister(tools.NewSynthesizeVoiceTool(media, projectRepo, logger))
	registry.MustRegister(tools.NewAssembleVideoTool(media, projectRepo, logger))
	registry.MustRegister(tools.NewSaveLearningTool(mem, logger))

	dispatcher := agent.NewDispatcher(registry, logger, cfg.Agent.ToolTimeout)

	// 8. Orchestrator and sessions
	orch := orchestrator.New(orchestrator.Config{
		LLM:           llm,
		Registry:      registry,
		Dispatcher:    dispatcher,
		Memory:        mem,
		Logger:        logger,
		Timezone:      cfg.Agent.Timezone,
		MaxIterations: cfg.Agent.MaxIterations,
	})

	sessions := session.NewManager(orch, logger, cfg.Session.TTL, cfg.Session.CleanupInterval)
	defer sessions.Close()

	// 9. Automation domain
	automationUC := autoUsecase.New(logger, automationRepo, projectRepo, orch, pub)

	if cfg.Scheduler.Enabled {
		sched := scheduler.New(automationUC, automationRepo, logger, cfg.Scheduler.TickInterval)
		sched.Start(ctx)
		defer sched.Stop()
	} else {
		logger.Warn(ctx, "Scheduler disabled: automations fire only via the API")
	}

	// 10. HTTP server
	httpServer, err := httpserver.New(httpserver.Config{
		Logger:            logger,
		Port:              cfg.HTTPServer.Port,
		Mode:              cfg.HTTPServer.Mode,
		Environment:       cfg.Environment.Name,
		ChatHandler:       chatDelivery.New(logger, sessions),
		AutomationHandler: autoDelivery.New(logger, automationUC),
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return
	}

	if err := httpServer.Run(ctx); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
		return
	}

	logger.Info(ctx, "Server stopped gracefully")
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
