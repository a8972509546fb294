package usecase

import (
	"context"

	"content-pilot/internal/automation"
	"content-pilot/internal/model"
)

func (uc *implUseCase) ListRuns(ctx context.Context, automationID string) ([]automation.Run, error) {
	return uc.repo.ListRuns(ctx, automationID)
}

func (uc *implUseCase) GetRun(ctx context.Context, runID string) (*automation.Run, error) {
	return uc.repo.GetRun(ctx, runID)
}

// RetryPost re-attempts only the publishing step. Generation is never
// re-run, and a run that already reports posted performs no publish call.
func (uc *implUseCase) RetryPost(ctx context.Context, runID string) (*automation.Run, error) {
	run, err := uc.repo.GetRun(ctx, runID)
	if err != nil {
		return nil, err
	}

	if run.PostStatus == automation.PostPosted {
		return run, automation.ErrAlreadyPosted
	}
	if run.PostStatus != automation.PostFailed {
		return run, automation.ErrNotRetryable
	}

	artifactID, err := uc.publishTarget(ctx, run)
	if err != nil {
		return run, err
	}

	uc.l.Infof(ctx, "automation.RetryPost: run=%s artifact=%s", run.ID, artifactID)
	if err := uc.publishRun(ctx, run, artifactID); err != nil {
		return run, err
	}
	return run, nil
}

// publishTarget picks the same artifact the original attempt would have
// chosen, keeping the publish-intent key stable across retries.
func (uc *implUseCase) publishTarget(ctx context.Context, run *automation.Run) (string, error) {
	if len(run.ArtifactIDs) == 0 {
		return "", automation.ErrNoArtifact
	}

	target := ""
	for _, id := range run.ArtifactIDs {
		artifact, err := uc.projects.GetArtifact(ctx, id)
		if err != nil {
			continue
		}
		if artifact.Kind == model.ArtifactVideo || target == "" {
			target = id
		}
	}
	if target == "" {
		return "", automation.ErrNoArtifact
	}
	return target, nil
}
