package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/booking"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/shared"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements booking.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

var _ booking.OrderRepository = (*GormOrderRepository)(nil)

// FindByID finds an order by its ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists orders matching the filter, newest first unless the filter says otherwise
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]booking.Order, error) {
	var rows []models.OrderModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.OrderModel{}), filter)
	query = r.applyPagination(query, filter)

	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	orders := make([]booking.Order, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders, nil
}

// Count counts orders matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&models.OrderModel{}), filter).Count(&count).Error
	return count, err
}

// CountByPhone counts all orders placed from a phone number
func (r *GormOrderRepository) CountByPhone(ctx context.Context, phone string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Where("phone = ?", phone).
		Count(&count).Error
	return count, err
}

// CountByStatus returns the number of orders per status. Every status is present.
func (r *GormOrderRepository) CountByStatus(ctx context.Context) (map[booking.OrderStatus]int64, error) {
	var rows []struct {
		Status booking.OrderStatus
		Count  int64
	}
	if err := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[booking.OrderStatus]int64, len(booking.AllOrderStatuses()))
	for _, s := range booking.AllOrderStatuses() {
		counts[s] = 0
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// Save creates or updates an order.
// Updates are guarded by the version the aggregate was loaded with.
func (r *GormOrderRepository) Save(ctx context.Context, order *booking.Order) error {
	model := models.OrderModelFromDomain(order)

	if order.Version <= 1 {
		return r.db.WithContext(ctx).Save(model).Error
	}

	result := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Where("id = ? AND version = ?", order.ID, order.Version-1).
		Updates(map[string]any{
			"status":     model.Status,
			"photos":     model.Photos,
			"updated_at": model.UpdatedAt,
			"version":    model.Version,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Delete deletes an order
func (r *GormOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.OrderModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if status, ok := filter.Filters["status"]; ok && status != "" {
		query = query.Where("status = ?", fmt.Sprint(status))
	}
	if phone, ok := filter.Filters["phone"]; ok && phone != "" {
		query = query.Where("phone = ?", fmt.Sprint(phone))
	}
	return query
}

func (r *GormOrderRepository) applyPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = query.Order(orderColumn(filter))
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}

// columns the order list may be sorted by
var orderSortColumns = map[string]bool{
	"created_at":    true,
	"updated_at":    true,
	"selected_date": true,
	"status":        true,
}

// orderColumn falls back to newest first for anything not whitelisted
func orderColumn(filter shared.Filter) clause.OrderByColumn {
	name := strings.TrimSpace(filter.OrderBy)
	if !orderSortColumns[name] {
		name = "created_at"
	}
	return clause.OrderByColumn{
		Column: clause.Column{Name: name},
		Desc:   !strings.EqualFold(strings.TrimSpace(filter.OrderDir), "asc"),
	}
}
