package scheduler

import (
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
)

// Pruner is anything with expired state to drop periodically.
type Pruner interface {
	Prune() int
}

// Scheduler periodically prunes expired entries from the response cache.
type Scheduler struct {
	scheduler *gocron.Scheduler
	pruner    Pruner
	interval  time.Duration
	log       *logrus.Logger
}

// New creates a new Scheduler.
func New(pruner Pruner, interval time.Duration, log *logrus.Logger) *Scheduler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		pruner:    pruner,
		interval:  interval,
		log:       log,
	}
}

// Start schedules the periodic prune job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	interval := s.interval
	if interval <= 0 {
		interval = time.Minute
	}

	_, err := s.scheduler.Every(interval).Do(func() {
		if dropped := s.pruner.Prune(); dropped > 0 {
			s.log.WithField("dropped", dropped).Debug("pruned expired cache entries")
		}
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
