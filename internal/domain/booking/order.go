package booking

import (
	"strings"
	"unicode/utf8"

	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/shared"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// Field limits for orders
const (
	MinAddressLength     = 5
	MaxAddressLength     = 255
	MinDescriptionLength = 10
	MaxDescriptionLength = 1000
	MaxPhotosPerOrder    = 5
)

// OrderStatus represents the lifecycle status of an order
type OrderStatus string

const (
	OrderStatusNew        OrderStatus = "new"
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// AllOrderStatuses lists statuses in workflow order
func AllOrderStatuses() []OrderStatus {
	return []OrderStatus{
		OrderStatusNew,
		OrderStatusInProgress,
		OrderStatusCompleted,
		OrderStatusCancelled,
	}
}

// IsValid checks if the status is a known value
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusNew, OrderStatusInProgress, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// Label returns a human readable name used in notifications
func (s OrderStatus) Label() string {
	switch s {
	case OrderStatusNew:
		return "New"
	case OrderStatusInProgress:
		return "In progress"
	case OrderStatusCompleted:
		return "Completed"
	case OrderStatusCancelled:
		return "Cancelled"
	}
	return string(s)
}

// Order is a customer's booking request for a handyman visit
type Order struct {
	shared.BaseAggregateRoot
	Phone        string
	Address      string
	Description  string
	SelectedDate string
	Photos       []string
	Status       OrderStatus
}

// NewOrder validates input and creates a new order in status "new"
func NewOrder(phone, address, description, selectedDate string, photos []string) (*Order, error) {
	p, err := valueobject.NewPhone(phone)
	if err != nil {
		return nil, err
	}
	address = strings.TrimSpace(address)
	description = strings.TrimSpace(description)
	if err := ValidateDetails(address, description); err != nil {
		return nil, err
	}
	day, err := valueobject.ParseDay(selectedDate)
	if err != nil {
		return nil, err
	}
	if len(photos) > MaxPhotosPerOrder {
		return nil, ErrTooManyPhotos
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Phone:             p.String(),
		Address:           address,
		Description:       description,
		SelectedDate:      day.String(),
		Photos:            append([]string(nil), photos...),
		Status:            OrderStatusNew,
	}
	if order.Photos == nil {
		order.Photos = []string{}
	}

	order.Raise(NewOrderCreatedEvent(order))

	return order, nil
}

// ChangeStatus moves the order to a new status.
// Setting the current status again is a no-op and raises no event.
func (o *Order) ChangeStatus(to OrderStatus) error {
	if !to.IsValid() {
		return ErrInvalidStatus
	}
	if o.Status == to {
		return nil
	}
	if o.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Order is "+string(o.Status)+" and can no longer change status")
	}

	from := o.Status
	o.Status = to
	o.Changed(NewOrderStatusChangedEvent(o, from, to))

	return nil
}

// PhotoCount returns the number of attached photos
func (o *Order) PhotoCount() int {
	return len(o.Photos)
}

// ShortID returns the first block of the order ID, used in human facing messages
func (o *Order) ShortID() string {
	return ShortOrderID(o.ID)
}

// ShortOrderID returns the first block of an order ID
func ShortOrderID(id uuid.UUID) string {
	s := id.String()
	if i := strings.IndexByte(s, '-'); i > 0 {
		return s[:i]
	}
	return s
}

// ValidateDetails checks the address and description of a booking form
func ValidateDetails(address, description string) error {
	if err := validateAddress(strings.TrimSpace(address)); err != nil {
		return err
	}
	return validateDescription(strings.TrimSpace(description))
}

func validateAddress(address string) error {
	n := utf8.RuneCountInString(address)
	if n < MinAddressLength {
		return shared.NewDomainError("INVALID_ADDRESS", "Address must be at least 5 characters")
	}
	if n > MaxAddressLength {
		return shared.NewDomainError("INVALID_ADDRESS", "Address cannot exceed 255 characters")
	}
	return nil
}

func validateDescription(description string) error {
	n := utf8.RuneCountInString(description)
	if n < MinDescriptionLength {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description must be at least 10 characters")
	}
	if n > MaxDescriptionLength {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 1000 characters")
	}
	return nil
}

// Domain errors specific to orders
var (
	ErrOrderNotFound    = shared.NewDomainError("NOT_FOUND", "Order not found")
	ErrInvalidStatus    = shared.NewDomainError("INVALID_STATUS", "Invalid status. Must be one of: new, in_progress, completed, cancelled")
	ErrTooManyPhotos    = shared.NewDomainError("TOO_MANY_PHOTOS", "Maximum 5 photos per order")
	ErrPhoneNotVerified = shared.NewDomainError("NOT_VERIFIED", "Phone number is not verified. Please verify through SMS first.")
	ErrDateUnavailable  = shared.NewDomainError("DATE_UNAVAILABLE", "Selected date is not available")
)
