package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ridloal/meoris-storefront/internal/platform/logger"
	"github.com/robfig/cron/v3"
)

// Janitor periodically expires abandoned drafts and invalidates drafts that ended up without items.
type Janitor struct {
	svc       CheckoutService
	scheduler *cron.Cron
	schedule  string
	ttl       time.Duration
}

func NewJanitor(svc CheckoutService, schedule string, ttl time.Duration) *Janitor {
	return &Janitor{
		svc:       svc,
		scheduler: cron.New(cron.WithSeconds()),
		schedule:  schedule,
		ttl:       ttl,
	}
}

// Start registers the job and starts the scheduler. An invalid schedule is returned as an error.
func (j *Janitor) Start() error {
	if _, err := j.scheduler.AddFunc(j.schedule, func() { j.RunOnce(context.Background()) }); err != nil {
		return fmt.Errorf("invalid janitor schedule %q: %w", j.schedule, err)
	}
	j.scheduler.Start()
	logger.Info(fmt.Sprintf("Draft janitor initialized with schedule '%s' and draft TTL %v", j.schedule, j.ttl))
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (j *Janitor) Stop() {
	<-j.scheduler.Stop().Done()
}

func (j *Janitor) RunOnce(ctx context.Context) {
	expired, invalidated, err := j.svc.ProcessStaleDrafts(ctx, j.ttl)
	if err != nil {
		logger.Error("Janitor: processing stale drafts failed", err)
		return
	}
	if expired > 0 || invalidated > 0 {
		logger.Info("Janitor: drafts processed", logger.Fields{"expired": expired, "invalidated": invalidated})
	}
}
