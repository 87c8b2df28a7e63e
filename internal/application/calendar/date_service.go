// Package calendar manages the days customers can book.
package calendar

import (
	"context"
	"errors"
	"fmt"

	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/calendar"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/shared"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/shared/valueobject"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DateService handles available date operations
type DateService struct {
	repo   calendar.AvailableDateRepository
	clock  shared.Clock
	logger *zap.Logger
}

// NewDateService creates a new DateService
func NewDateService(repo calendar.AvailableDateRepository, clock shared.Clock, logger *zap.Logger) *DateService {
	if clock == nil {
		clock = shared.SystemClock{}
	}
	return &DateService{
		repo:   repo,
		clock:  clock,
		logger: logger,
	}
}

func (s *DateService) today() valueobject.Day {
	return valueobject.Today(s.clock)
}

// ListAvailable returns open dates from today on, ascending
func (s *DateService) ListAvailable(ctx context.Context) ([]DateResponse, error) {
	dates, err := s.repo.FindAvailableFrom(ctx, s.today().String())
	if err != nil {
		return nil, fmt.Errorf("failed to list available dates: %w", err)
	}
	return ToDateResponses(dates), nil
}

// ListAll returns every date, ascending
func (s *DateService) ListAll(ctx context.Context) ([]DateResponse, error) {
	dates, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list dates: %w", err)
	}
	return ToDateResponses(dates), nil
}

// Create adds a single date
func (s *DateService) Create(ctx context.Context, date string, isAvailable bool) (*DateResponse, error) {
	d, err := calendar.NewAvailableDate(date, isAvailable, s.today())
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByDate(ctx, d.Date)
	if err != nil {
		return nil, fmt.Errorf("failed to check date: %w", err)
	}
	if exists {
		return nil, calendar.ErrDateExists
	}

	if err := s.repo.Save(ctx, d); err != nil {
		if errors.Is(err, calendar.ErrDateExists) {
			return nil, calendar.ErrDateExists
		}
		return nil, fmt.Errorf("failed to save date: %w", err)
	}

	s.logger.Info("Date created", zap.String("date", d.Date), zap.Bool("is_available", d.IsAvailable))
	resp := ToDateResponse(d)
	return &resp, nil
}

// Update opens or closes an existing date
func (s *DateService) Update(ctx context.Context, id uuid.UUID, isAvailable bool) (*DateResponse, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, calendar.ErrDateNotFound
		}
		return nil, fmt.Errorf("failed to load date: %w", err)
	}

	d.SetAvailability(isAvailable)
	if err := s.repo.Save(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to save date: %w", err)
	}

	s.logger.Info("Date updated", zap.String("date", d.Date), zap.Bool("is_available", d.IsAvailable))
	resp := ToDateResponse(d)
	return &resp, nil
}

// Delete removes a date
func (s *DateService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return calendar.ErrDateNotFound
		}
		return fmt.Errorf("failed to delete date: %w", err)
	}
	s.logger.Info("Date deleted", zap.String("id", id.String()))
	return nil
}

// BulkCreate opens every day of the range that has no entry yet.
// Days before today are skipped rather than rejected.
func (s *DateService) BulkCreate(ctx context.Context, input BulkCreateInput) (result *BulkCreateResult, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "calendar", "bulk_create",
		telemetry.SpanAttrDate, input.StartDate+".."+input.EndDate)
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	days, err := calendar.DateRange(input.StartDate, input.EndDate, input.SkipWeekends)
	if err != nil {
		return nil, err
	}

	created, skipped, err := s.createMissing(ctx, days)
	if err != nil {
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrCount, created)

	s.logger.Info("Dates created in bulk",
		zap.String("start", input.StartDate),
		zap.String("end", input.EndDate),
		zap.Int("created", created),
		zap.Int("skipped", skipped))

	return &BulkCreateResult{
		Created: created,
		Skipped: skipped,
		Message: fmt.Sprintf("Created %d dates, skipped %d", created, skipped),
	}, nil
}

// EnsureHorizon opens missing dates from today up to days ahead
func (s *DateService) EnsureHorizon(ctx context.Context, days int, skipWeekends bool) (int, error) {
	if days <= 0 {
		return 0, nil
	}
	today := s.today()
	window, err := calendar.DateRange(today.String(), today.AddDays(days-1).String(), skipWeekends)
	if err != nil {
		return 0, err
	}
	created, _, err := s.createMissing(ctx, window)
	if err != nil {
		return 0, err
	}
	if created > 0 {
		s.logger.Info("Calendar horizon extended", zap.Int("created", created), zap.Int("days", days))
	}
	return created, nil
}

// PurgePast removes dates older than today minus keepDays
func (s *DateService) PurgePast(ctx context.Context, keepDays int) (int64, error) {
	cutoff := s.today().AddDays(-max(keepDays, 0))
	n, err := s.repo.DeleteBefore(ctx, cutoff.String())
	if err != nil {
		return 0, fmt.Errorf("failed to purge past dates: %w", err)
	}
	if n > 0 {
		s.logger.Info("Past dates purged", zap.Int64("count", n), zap.String("before", cutoff.String()))
	}
	return n, nil
}

func (s *DateService) createMissing(ctx context.Context, days []valueobject.Day) (created, skipped int, err error) {
	if len(days) == 0 {
		return 0, 0, nil
	}
	keys := make([]string, len(days))
	for i, d := range days {
		keys[i] = d.String()
	}
	existing, err := s.repo.ExistingDates(ctx, keys)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to check existing dates: %w", err)
	}

	today := s.today()
	batch := make([]*calendar.AvailableDate, 0, len(days))
	for _, d := range days {
		if existing[d.String()] || d.Before(today) {
			skipped++
			continue
		}
		entry, err := calendar.NewAvailableDate(d.String(), true, today)
		if err != nil {
			return 0, 0, err
		}
		batch = append(batch, entry)
	}

	if err := s.repo.SaveBatch(ctx, batch); err != nil {
		return 0, 0, fmt.Errorf("failed to save dates: %w", err)
	}
	return len(batch), skipped, nil
}
