package scheduler

import (
	"context"
	"sync"
	"time"

	"content-pilot/internal/automation"
	"content-pilot/internal/automation/repository"
	pkgLog "content-pilot/pkg/log"
)

const DefaultTickInterval = time.Minute

// Scheduler polls for due automations and fires them. One fire is one run of
// the orchestration loop, executed in its own goroutine so a slow generation
// never delays other automations.
type Scheduler struct {
	uc   automation.UseCase
	repo repository.AutomationRepository
	l    pkgLog.Logger
	tick time.Duration

	wg       sync.WaitGroup
	stop     chan struct{}
	stopOnce sync.Once
}

func New(uc automation.UseCase, repo repository.AutomationRepository, l pkgLog.Logger, tick time.Duration) *Scheduler {
	if tick <= 0 {
		tick = DefaultTickInterval
	}
	return &Scheduler{
		uc:   uc,
		repo: repo,
		l:    l,
		tick: tick,
		stop: make(chan struct{}),
	}
}

// Start runs the polling loop until Stop is called.
func (s *Scheduler) Start(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.tick)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.fireDue(ctx)
			case <-s.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop halts polling and waits for in-flight runs to finish.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
	s.wg.Wait()
}

func (s *Scheduler) fireDue(ctx context.Context) {
	now := time.Now().UTC()
	due, err := s.repo.ListDue(ctx, now)
	if err != nil {
		s.l.Errorf(ctx, "scheduler: list due automations: %v", err)
		return
	}

	for _, a := range due {
		// Advance the schedule before firing so a long run cannot make the
		// same automation due again on the next tick.
		next := now.Add(a.Interval)
		if err := s.repo.UpdateNextFireAt(ctx, a.ID, next); err != nil {
			s.l.Errorf(ctx, "scheduler: advance %s: %v", a.ID, err)
			continue
		}

		s.l.Infof(ctx, "scheduler: firing automation %s (%s), next at %s", a.ID, a.Name, next.Format(time.RFC3339))

		s.wg.Add(1)
		go func(id string) {
			defer s.wg.Done()
			run, err := s.uc.Fire(ctx, id)
			if err != nil {
				s.l.Errorf(ctx, "scheduler: automation %s fire: %v", id, err)
				return
			}
			s.l.Infof(ctx, "scheduler: automation %s run %s finished status=%s post=%s", id, run.ID, run.Status, run.PostStatus)
		}(a.ID)
	}
}
