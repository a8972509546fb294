package usecase

import (
	"context"
	"errors"
	"time"

	"content-pilot/internal/automation"
	"content-pilot/pkg/publisher"
)

const publishAttempts = 3

var publishBackoff = 2 * time.Second

// publishRun performs one posting attempt for the run. Transient platform
// failures are retried with backoff within this attempt; the idempotency key
// stays the same so the platform deduplicates. The outcome is always written
// to the run before returning.
func (uc *implUseCase) publishRun(ctx context.Context, run *automation.Run, artifactID string) error {
	if artifactID == "" {
		run.PostStatus = automation.PostFailed
		run.Error = automation.ErrNoArtifact.Error()
		if err := uc.repo.UpdateRun(ctx, run); err != nil {
			return err
		}
		return automation.ErrNoArtifact
	}

	if uc.pub == nil {
		run.PostStatus = automation.PostFailed
		run.Error = "posting: " + automation.ErrNoPublisher.Error()
		if err := uc.repo.UpdateRun(ctx, run); err != nil {
			return err
		}
		return automation.ErrNoPublisher
	}

	run.PostStatus = automation.PostPosting
	if err := uc.repo.UpdateRun(ctx, run); err != nil {
		return err
	}

	artifact, err := uc.projects.GetArtifact(ctx, artifactID)
	if err != nil {
		return uc.recordPostFailure(ctx, run, err)
	}

	// Stable publish-intent key: the same run retrying the same artifact
	// must present the same key.
	key := run.ID + ":" + artifactID

	var result *publisher.PublishResult
	delay := publishBackoff
	for attempt := 0; attempt < publishAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return uc.recordPostFailure(ctx, run, ctx.Err())
			}
			delay *= 2
		}

		result, err = uc.pub.Publish(ctx, publisher.PublishInput{
			ArtifactURL:    artifact.URL,
			Caption:        run.Topic,
			IdempotencyKey: key,
		})
		if err == nil {
			break
		}
		if !errors.Is(err, publisher.ErrUnavailable) {
			break
		}
		uc.l.Warnf(ctx, "automation.publishRun: run=%s attempt %d: %v", run.ID, attempt+1, err)
	}
	if err != nil {
		return uc.recordPostFailure(ctx, run, err)
	}

	run.PostStatus = automation.PostPosted
	run.PublishID = result.PublishID
	if err := uc.repo.UpdateRun(ctx, run); err != nil {
		return err
	}

	uc.l.Infof(ctx, "automation.publishRun: run=%s posted publish_id=%s", run.ID, result.PublishID)
	return nil
}

func (uc *implUseCase) recordPostFailure(ctx context.Context, run *automation.Run, cause error) error {
	run.PostStatus = automation.PostFailed
	run.Error = "posting: " + cause.Error()
	if err := uc.repo.UpdateRun(ctx, run); err != nil {
		return err
	}
	return cause
}
