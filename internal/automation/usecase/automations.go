package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"content-pilot/internal/automation"
)

func (uc *implUseCase) Create(ctx context.Context, input automation.CreateInput) (*automation.Automation, error) {
	if input.Topic == "" {
		return nil, automation.ErrEmptyTopic
	}
	if input.Interval < time.Minute {
		return nil, automation.ErrInvalidInterval
	}
	if input.Name == "" {
		input.Name = input.Topic
	}

	a := &automation.Automation{
		ID:         uuid.NewString(),
		Name:       input.Name,
		Topic:      input.Topic,
		Interval:   input.Interval,
		AutoPost:   input.AutoPost,
		Enabled:    true,
		NextFireAt: time.Now().UTC().Add(input.Interval),
	}
	if err := uc.repo.CreateAutomation(ctx, a); err != nil {
		uc.l.Errorf(ctx, "automation.Create: %v", err)
		return nil, err
	}

	uc.l.Infof(ctx, "automation.Create: %s (%s) every %s auto_post=%v", a.ID, a.Name, a.Interval, a.AutoPost)
	return a, nil
}

func (uc *implUseCase) List(ctx context.Context) ([]automation.Automation, error) {
	return uc.repo.ListAutomations(ctx)
}

func (uc *implUseCase) Get(ctx context.Context, id string) (*automation.Automation, error) {
	return uc.repo.GetAutomation(ctx, id)
}

func (uc *implUseCase) SetEnabled(ctx context.Context, id string, enabled bool) (*automation.Automation, error) {
	if err := uc.repo.SetEnabled(ctx, id, enabled); err != nil {
		return nil, err
	}
	uc.l.Infof(ctx, "automation.SetEnabled: %s enabled=%v", id, enabled)
	return uc.repo.GetAutomation(ctx, id)
}
