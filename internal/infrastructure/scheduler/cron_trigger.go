package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// JobSubmitter accepts jobs by type
type JobSubmitter interface {
	Submit(jobType JobType) (*Job, error)
}

// CronTriggerConfig holds configuration for the daily trigger
type CronTriggerConfig struct {
	// Hour and Minute of the daily run, 24h local time
	Hour   int
	Minute int

	// CheckInterval is how often to check if it's time to run
	CheckInterval time.Duration

	// RunOnStart submits the job once right after Start
	RunOnStart bool
}

// DefaultCronTriggerConfig returns default cron trigger configuration
func DefaultCronTriggerConfig() CronTriggerConfig {
	return CronTriggerConfig{
		Hour:          3,
		Minute:        0,
		CheckInterval: time.Minute,
		RunOnStart:    true,
	}
}

// CronTrigger submits a job once a day at a fixed time
type CronTrigger struct {
	config    CronTriggerConfig
	jobType   JobType
	submitter JobSubmitter
	logger    *zap.Logger
	now       func() time.Time

	cancel      context.CancelFunc
	wg          sync.WaitGroup
	mu          sync.Mutex
	isRunning   bool
	lastRunDate string
}

// NewCronTrigger creates a daily trigger for jobType
func NewCronTrigger(config CronTriggerConfig, jobType JobType, submitter JobSubmitter, logger *zap.Logger) *CronTrigger {
	if config.CheckInterval <= 0 {
		config.CheckInterval = time.Minute
	}
	return &CronTrigger{
		config:    config,
		jobType:   jobType,
		submitter: submitter,
		logger:    logger,
		now:       time.Now,
	}
}

// Start starts the cron trigger
func (c *CronTrigger) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.isRunning {
		c.mu.Unlock()
		return nil
	}
	c.isRunning = true
	c.mu.Unlock()

	ctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	c.cancel = cancel

	if c.config.RunOnStart {
		c.submit()
	}

	c.wg.Add(1)
	go c.runLoop(ctx)

	c.logger.Info("Cron trigger started",
		zap.String("job_type", string(c.jobType)),
		zap.Int("hour", c.config.Hour),
		zap.Int("minute", c.config.Minute),
	)
	return nil
}

// Stop stops the cron trigger
func (c *CronTrigger) Stop(ctx context.Context) error {
	c.mu.Lock()
	if !c.isRunning {
		c.mu.Unlock()
		return nil
	}
	c.isRunning = false
	c.mu.Unlock()

	c.cancel()
	return waitGroup(ctx, &c.wg)
}

func (c *CronTrigger) runLoop(ctx context.Context) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.checkAndTrigger()
		}
	}
}

// checkAndTrigger submits the job when the configured minute has been reached
// and it has not yet run today. A late check (e.g. after a suspend) still fires.
func (c *CronTrigger) checkAndTrigger() bool {
	now := c.now()
	currentDate := now.Format("2006-01-02")

	c.mu.Lock()
	if c.lastRunDate == currentDate {
		c.mu.Unlock()
		return false
	}
	due := now.Hour() > c.config.Hour ||
		(now.Hour() == c.config.Hour && now.Minute() >= c.config.Minute)
	if !due {
		c.mu.Unlock()
		return false
	}
	c.lastRunDate = currentDate
	c.mu.Unlock()

	c.submit()
	return true
}

func (c *CronTrigger) submit() {
	if _, err := c.submitter.Submit(c.jobType); err != nil {
		c.logger.Error("Failed to submit scheduled job",
			zap.String("job_type", string(c.jobType)),
			zap.Error(err),
		)
	}
}

// IntervalTrigger submits a job at a fixed interval
type IntervalTrigger struct {
	interval  time.Duration
	jobType   JobType
	submitter JobSubmitter
	logger    *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewIntervalTrigger creates a trigger submitting jobType every interval
func NewIntervalTrigger(interval time.Duration, jobType JobType, submitter JobSubmitter, logger *zap.Logger) *IntervalTrigger {
	return &IntervalTrigger{
		interval:  interval,
		jobType:   jobType,
		submitter: submitter,
		logger:    logger,
	}
}

// Start starts the ticker loop
func (t *IntervalTrigger) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.isRunning || t.interval <= 0 {
		return nil
	}
	t.isRunning = true

	ctx, t.cancel = context.WithCancel(context.WithoutCancel(ctx))
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := t.submitter.Submit(t.jobType); err != nil {
					t.logger.Error("Failed to submit scheduled job",
						zap.String("job_type", string(t.jobType)),
						zap.Error(err),
					)
				}
			}
		}
	}()

	t.logger.Info("Interval trigger started",
		zap.String("job_type", string(t.jobType)),
		zap.Duration("interval", t.interval),
	)
	return nil
}

// Stop stops the ticker loop
func (t *IntervalTrigger) Stop(ctx context.Context) error {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = false
	t.mu.Unlock()

	t.cancel()
	return waitGroup(ctx, &t.wg)
}

func waitGroup(ctx context.Context, wg *sync.WaitGroup) error {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
