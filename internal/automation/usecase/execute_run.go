package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"content-pilot/internal/agent/orchestrator"
	"content-pilot/internal/agent/tools"
	"content-pilot/internal/automation"
	"content-pilot/internal/model"
)

const headlessPromptTemplate = `Produce a complete piece of content about: %s.
Create a project for it, write the script, render and caption the slides,
synthesize the narration, and assemble the final video. Work without asking
questions; pick sensible defaults.`

func (uc *implUseCase) Fire(ctx context.Context, automationID string) (*automation.Run, error) {
	a, err := uc.repo.GetAutomation(ctx, automationID)
	if err != nil {
		return nil, err
	}
	if !a.Enabled {
		return nil, automation.ErrDisabled
	}

	run := &automation.Run{
		ID:           uuid.NewString(),
		AutomationID: a.ID,
		Topic:        a.Topic,
		Status:       automation.RunPending,
		PostStatus:   automation.PostNotAttempted,
	}
	if err := uc.repo.CreateRun(ctx, run); err != nil {
		return nil, err
	}

	return uc.executeRun(ctx, a, run)
}

// executeRun drives the orchestration loop headlessly, records the outcome
// on the run, and publishes when the automation auto-posts. Failures are
// recorded on the run, not returned: the run record is the outcome.
func (uc *implUseCase) executeRun(ctx context.Context, a *automation.Automation, run *automation.Run) (*automation.Run, error) {
	now := time.Now().UTC()
	run.Status = automation.RunRunning
	run.StartedAt = &now
	if err := uc.repo.UpdateRun(ctx, run); err != nil {
		return nil, err
	}

	uc.l.Infof(ctx, "automation.executeRun: run=%s automation=%s topic=%q", run.ID, a.ID, run.Topic)

	prompt := fmt.Sprintf(headlessPromptTemplate, run.Topic)
	events := uc.loop.Run(ctx, orchestrator.RunInput{
		SessionID: "automation-" + run.ID,
		UserText:  prompt,
	})

	var (
		runErr     string
		publishArt string
	)
	for ev := range events {
		switch ev.Type {
		case orchestrator.EventToolResult:
			if ev.Result == nil || !ev.Result.Success {
				continue
			}
			out, ok := ev.Result.Data.(tools.ArtifactOutput)
			if !ok {
				continue
			}
			run.ArtifactIDs = append(run.ArtifactIDs, out.ID)
			run.ProjectID = out.ProjectID
			// The assembled video is the publish target; fall back to the
			// first artifact when no video was produced.
			if out.Kind == string(model.ArtifactVideo) || publishArt == "" {
				publishArt = out.ID
			}
		case orchestrator.EventError:
			runErr = ev.Message
		}
	}

	finished := time.Now().UTC()
	run.FinishedAt = &finished

	if runErr != "" {
		run.Status = automation.RunFailed
		run.Error = runErr
		if err := uc.repo.UpdateRun(ctx, run); err != nil {
			return nil, err
		}
		uc.l.Warnf(ctx, "automation.executeRun: run=%s failed: %s", run.ID, runErr)
		return run, nil
	}

	run.Status = automation.RunCompleted
	if err := uc.repo.UpdateRun(ctx, run); err != nil {
		return nil, err
	}
	uc.l.Infof(ctx, "automation.executeRun: run=%s completed, %d artifact(s)", run.ID, len(run.ArtifactIDs))

	if a.AutoPost {
		if err := uc.publishRun(ctx, run, publishArt); err != nil {
			uc.l.Warnf(ctx, "automation.executeRun: run=%s posting failed: %v", run.ID, err)
		}
	}

	return run, nil
}
