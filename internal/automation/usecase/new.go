package usecase

import (
	"context"

	"content-pilot/internal/agent/orchestrator"
	"content-pilot/internal/automation/repository"
	projectrepo "content-pilot/internal/project/repository"
	pkgLog "content-pilot/pkg/log"
	"content-pilot/pkg/publisher"
)

// LoopRunner is the headless entry into the orchestration loop.
type LoopRunner interface {
	Run(ctx context.Context, in orchestrator.RunInput) <-chan orchestrator.Event
}

type implUseCase struct {
	l        pkgLog.Logger
	repo     repository.AutomationRepository
	projects projectrepo.ProjectRepository
	loop     LoopRunner
	pub      publisher.IPublisher
}

// New creates a new automation UseCase instance.
func New(
	l pkgLog.Logger,
	repo repository.AutomationRepository,
	projects projectrepo.ProjectRepository,
	loop LoopRunner,
	pub publisher.IPublisher,
) *implUseCase {
	return &implUseCase{
		l:        l,
		repo:     repo,
		projects: projects,
		loop:     loop,
		pub:      pub,
	}
}
