package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"github.com/i474232898/sixtyseconds/internal/digest"
)

// ErrInvalidCron is returned by Start when the cron expression does not parse.
var ErrInvalidCron = errors.New("invalid cron expression")

// Handler is what the scheduler runs on every tick.
type Handler interface {
	Handle(ctx context.Context, trigger digest.Trigger) bool
}

// Scheduler runs the digest fetch on a cron schedule.
type Scheduler struct {
	scheduler *gocron.Scheduler
	handler   Handler
	timeout   time.Duration
}

// New creates a new Scheduler evaluating cron expressions in loc.
// timeout bounds each scheduled run.
func New(loc *time.Location, timeout time.Duration, handler Handler) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	s := gocron.NewScheduler(loc)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		handler:   handler,
		timeout:   timeout,
	}
}

// ValidateCron checks a standard 5-field cron expression.
func ValidateCron(expr string) error {
	if _, err := cron.ParseStandard(expr); err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalidCron, expr, err)
	}
	return nil
}

// Start registers the cron job and starts the underlying scheduler.
// An empty expression schedules nothing. An invalid one returns ErrInvalidCron
// without registering a job.
func (s *Scheduler) Start(expr string) error {
	logger := log.WithField("component", "scheduler")

	if expr == "" {
		logger.Info("no cron expression configured; nothing to schedule")
		return nil
	}
	if err := ValidateCron(expr); err != nil {
		return err
	}

	job, err := s.scheduler.Cron(expr).Tag("sixtyseconds").Do(s.run, expr)
	if err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalidCron, expr, err)
	}

	s.scheduler.StartAsync()
	logger.Infof("digest fetch scheduled with %q, next run at %s", expr, job.NextRun().Format(time.RFC3339))
	return nil
}

// NextRun returns the next scheduled run, or false when no job is registered.
func (s *Scheduler) NextRun() (time.Time, bool) {
	if s.scheduler.Len() == 0 {
		return time.Time{}, false
	}
	_, next := s.scheduler.NextRun()
	return next, true
}

// Stop removes all jobs and stops the scheduler.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Clear()
		s.scheduler.Stop()
	}
}

// run is the job body for one scheduled tick.
func (s *Scheduler) run(expr string) {
	logger := log.WithField("component", "scheduler")
	logger.Info("running scheduled digest fetch")

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if !s.handler.Handle(ctx, digest.NewTrigger(digest.TriggerScheduled, expr)) {
		logger.Warn("scheduled digest fetch failed")
		return
	}
	logger.Info("completed scheduled digest fetch")
}
