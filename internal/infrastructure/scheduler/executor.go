package scheduler

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// CalendarMaintainer keeps the booking calendar populated
type CalendarMaintainer interface {
	// EnsureHorizon opens missing dates from today up to days ahead and returns how many were created
	EnsureHorizon(ctx context.Context, days int, skipWeekends bool) (int, error)
	// PurgePast removes dates older than keepDays before today
	PurgePast(ctx context.Context, keepDays int) (int64, error)
}

// VerificationPurger drops expired phone verifications
type VerificationPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// HorizonConfig controls the calendar_horizon job
type HorizonConfig struct {
	Days         int
	SkipWeekends bool
	KeepPastDays int
}

// MaintenanceExecutor runs the built-in maintenance jobs
type MaintenanceExecutor struct {
	calendar     CalendarMaintainer
	verification VerificationPurger
	horizon      HorizonConfig
	logger       *zap.Logger
}

// NewMaintenanceExecutor creates the executor for calendar and verification jobs
func NewMaintenanceExecutor(
	calendar CalendarMaintainer,
	verification VerificationPurger,
	horizon HorizonConfig,
	logger *zap.Logger,
) *MaintenanceExecutor {
	return &MaintenanceExecutor{
		calendar:     calendar,
		verification: verification,
		horizon:      horizon,
		logger:       logger,
	}
}

// Execute implements JobExecutor
func (e *MaintenanceExecutor) Execute(ctx context.Context, job *Job) error {
	switch job.Type {
	case JobTypeCalendarHorizon:
		return e.runCalendarHorizon(ctx)
	case JobTypeVerificationPurge:
		return e.runVerificationPurge(ctx)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownJobType, job.Type)
	}
}

func (e *MaintenanceExecutor) runCalendarHorizon(ctx context.Context) error {
	created, err := e.calendar.EnsureHorizon(ctx, e.horizon.Days, e.horizon.SkipWeekends)
	if err != nil {
		return fmt.Errorf("failed to extend calendar: %w", err)
	}

	var purged int64
	if e.horizon.KeepPastDays >= 0 {
		purged, err = e.calendar.PurgePast(ctx, e.horizon.KeepPastDays)
		if err != nil {
			return fmt.Errorf("failed to purge past dates: %w", err)
		}
	}

	e.logger.Info("Calendar horizon maintained",
		zap.Int("created", created),
		zap.Int64("purged", purged),
		zap.Int("horizon_days", e.horizon.Days),
	)
	return nil
}

func (e *MaintenanceExecutor) runVerificationPurge(ctx context.Context) error {
	n, err := e.verification.PurgeExpired(ctx)
	if err != nil {
		return fmt.Errorf("failed to purge verifications: %w", err)
	}
	if n > 0 {
		e.logger.Info("Expired verifications purged", zap.Int64("count", n))
	}
	return nil
}

var _ JobExecutor = (*MaintenanceExecutor)(nil)
