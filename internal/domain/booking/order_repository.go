package booking

import (
	"context"

	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/shared"
	"github.com/google/uuid"
)

// OrderRepository defines persistence operations for orders
type OrderRepository interface {
	// FindByID finds an order by ID, returning shared.ErrNotFound when absent
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindAll lists orders. Recognised filter keys are "status" and "phone".
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)

	// Count counts orders matching the same filter keys as FindAll
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByPhone counts all orders ever placed from a phone number
	CountByPhone(ctx context.Context, phone string) (int64, error)

	// CountByStatus returns the number of orders per status
	CountByStatus(ctx context.Context) (map[OrderStatus]int64, error)

	// Save creates or updates an order
	Save(ctx context.Context, order *Order) error

	// Delete removes an order
	Delete(ctx context.Context, id uuid.UUID) error
}
