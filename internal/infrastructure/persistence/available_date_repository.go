package persistence

import (
	"context"
	"errors"

	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/calendar"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/shared"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/shared/valueobject"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAvailableDateRepository implements calendar.AvailableDateRepository using GORM
type GormAvailableDateRepository struct {
	db *gorm.DB
}

// NewGormAvailableDateRepository creates a new GormAvailableDateRepository
func NewGormAvailableDateRepository(db *gorm.DB) *GormAvailableDateRepository {
	return &GormAvailableDateRepository{db: db}
}

var _ calendar.AvailableDateRepository = (*GormAvailableDateRepository)(nil)

// FindByID finds a date entry by its ID
func (r *GormAvailableDateRepository) FindByID(ctx context.Context, id uuid.UUID) (*calendar.AvailableDate, error) {
	var model models.AvailableDateModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByDate finds the entry for a day
func (r *GormAvailableDateRepository) FindByDate(ctx context.Context, date string) (*calendar.AvailableDate, error) {
	day, err := valueobject.ParseDay(date)
	if err != nil {
		return nil, err
	}
	var model models.AvailableDateModel
	if err := r.db.WithContext(ctx).Where("date = ?", day.Time()).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAvailableFrom lists open dates on or after date, ascending
func (r *GormAvailableDateRepository) FindAvailableFrom(ctx context.Context, date string) ([]calendar.AvailableDate, error) {
	day, err := valueobject.ParseDay(date)
	if err != nil {
		return nil, err
	}
	var rows []models.AvailableDateModel
	if err := r.db.WithContext(ctx).
		Where("is_available = ? AND date >= ?", true, day.Time()).
		Order("date ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toAvailableDates(rows), nil
}

// FindAll lists every date entry, ascending
func (r *GormAvailableDateRepository) FindAll(ctx context.Context) ([]calendar.AvailableDate, error) {
	var rows []models.AvailableDateModel
	if err := r.db.WithContext(ctx).Order("date ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toAvailableDates(rows), nil
}

// ExistingDates returns which of the given days already have an entry
func (r *GormAvailableDateRepository) ExistingDates(ctx context.Context, dates []string) (map[string]bool, error) {
	existing := make(map[string]bool)
	if len(dates) == 0 {
		return existing, nil
	}

	days := make([]any, 0, len(dates))
	for _, d := range dates {
		day, err := valueobject.ParseDay(d)
		if err != nil {
			return nil, err
		}
		days = append(days, day.Time())
	}

	var rows []models.AvailableDateModel
	if err := r.db.WithContext(ctx).Select("date").Where("date IN ?", days).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		existing[valueobject.DayOf(row.Date).String()] = true
	}
	return existing, nil
}

// ExistsByDate checks whether a day already has an entry
func (r *GormAvailableDateRepository) ExistsByDate(ctx context.Context, date string) (bool, error) {
	day, err := valueobject.ParseDay(date)
	if err != nil {
		return false, err
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.AvailableDateModel{}).
		Where("date = ?", day.Time()).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a date entry
func (r *GormAvailableDateRepository) Save(ctx context.Context, date *calendar.AvailableDate) error {
	err := r.db.WithContext(ctx).Save(models.AvailableDateModelFromDomain(date)).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return calendar.ErrDateExists
	}
	return err
}

// SaveBatch creates several entries in one statement
func (r *GormAvailableDateRepository) SaveBatch(ctx context.Context, dates []*calendar.AvailableDate) error {
	if len(dates) == 0 {
		return nil
	}
	rows := make([]*models.AvailableDateModel, len(dates))
	for i, d := range dates {
		rows[i] = models.AvailableDateModelFromDomain(d)
	}
	err := r.db.WithContext(ctx).CreateInBatches(rows, 100).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return calendar.ErrDateExists
	}
	return err
}

// Delete deletes a date entry
func (r *GormAvailableDateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.AvailableDateModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteBefore removes entries strictly before date
func (r *GormAvailableDateRepository) DeleteBefore(ctx context.Context, date string) (int64, error) {
	day, err := valueobject.ParseDay(date)
	if err != nil {
		return 0, err
	}
	result := r.db.WithContext(ctx).Where("date < ?", day.Time()).Delete(&models.AvailableDateModel{})
	return result.RowsAffected, result.Error
}

func toAvailableDates(rows []models.AvailableDateModel) []calendar.AvailableDate {
	dates := make([]calendar.AvailableDate, len(rows))
	for i := range rows {
		dates[i] = *rows[i].ToDomain()
	}
	return dates
}
