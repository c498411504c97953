package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

const reloadTimeout = time.Minute

// Reloader refreshes the catalog on a fixed interval.
type Reloader struct {
	scheduler *gocron.Scheduler
	app       *App
}

func NewReloader(a *App) *Reloader {
	return &Reloader{
		scheduler: gocron.NewScheduler(time.UTC),
		app:       a,
	}
}

// Start schedules the reload without running it immediately. Overlapping runs are skipped.
func (r *Reloader) Start(interval time.Duration) error {
	if _, err := r.scheduler.Every(interval).WaitForSchedule().SingletonMode().Do(r.reload); err != nil {
		return fmt.Errorf("scheduler.Do() > %w", err)
	}
	r.scheduler.StartAsync()
	return nil
}

func (r *Reloader) Stop() {
	r.scheduler.Stop()
}

func (r *Reloader) reload() {
	ctx, cancel := context.WithTimeout(context.Background(), reloadTimeout)
	defer cancel()
	if err := r.app.ReloadCatalog(ctx); err != nil {
		slog.Error("catalog reload failed", "error", err)
	}
}
