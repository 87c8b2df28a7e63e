package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/PLAYZONE-UA/zlota-raczka/internal/infrastructure/config"
	"go.uber.org/zap"
)

type lifecycle interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Service bundles the worker pool with the triggers configured for it
type Service struct {
	scheduler *Scheduler
	triggers  []lifecycle
	logger    *zap.Logger
}

// NewService wires the daily calendar_horizon trigger and the verification_purge interval trigger
func NewService(cfg config.SchedulerConfig, executor JobExecutor, logger *zap.Logger) *Service {
	s := NewScheduler(Config{
		Workers:       cfg.Workers,
		JobTimeout:    cfg.JobTimeout,
		RetryAttempts: cfg.RetryAttempts,
		RetryDelay:    cfg.RetryDelay,
	}, executor, logger)

	cron := DefaultCronTriggerConfig()
	cron.Hour = cfg.CalendarHour
	cron.Minute = cfg.CalendarMinute

	return &Service{
		scheduler: s,
		triggers: []lifecycle{
			NewCronTrigger(cron, JobTypeCalendarHorizon, s, logger),
			NewIntervalTrigger(cfg.PurgeInterval, JobTypeVerificationPurge, s, logger),
		},
		logger: logger,
	}
}

// Scheduler exposes the worker pool for manual submissions
func (s *Service) Scheduler() *Scheduler {
	return s.scheduler
}

// Start starts the pool before the triggers
func (s *Service) Start(ctx context.Context) error {
	if err := s.scheduler.Start(ctx); err != nil {
		return err
	}
	for _, t := range s.triggers {
		if err := t.Start(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Stop stops the triggers and then the pool
func (s *Service) Stop(ctx context.Context) error {
	var errs []error
	for _, t := range s.triggers {
		errs = append(errs, t.Stop(ctx))
	}
	errs = append(errs, s.scheduler.Stop(ctx))
	return errors.Join(errs...)
}

// RunOnce executes a job synchronously without the pool, used by the CLI
func RunOnce(ctx context.Context, executor JobExecutor, jobType JobType, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	job := NewJob(jobType, 0)
	job.Start()
	if err := executor.Execute(ctx, job); err != nil {
		job.Fail(err.Error())
		return err
	}
	job.Complete()
	return nil
}
