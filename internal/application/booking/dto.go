package booking

import (
	"time"

	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/booking"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/infrastructure/storage"
	"github.com/google/uuid"
)

// CreateOrderInput carries a submitted booking form
type CreateOrderInput struct {
	Phone        string
	Address      string
	Description  string
	SelectedDate string
	Files        []storage.Upload
}

// ListOrdersFilter narrows the admin order list
type ListOrdersFilter struct {
	Status   string
	Phone    string
	Page     int
	PageSize int
}

// OrderResponse is an order as returned by the API
type OrderResponse struct {
	ID           uuid.UUID `json:"id"`
	Phone        string    `json:"phone"`
	Address      string    `json:"address"`
	Description  string    `json:"description"`
	SelectedDate string    `json:"selected_date"`
	Photos       []string  `json:"photos"`
	Status       string    `json:"status"`
	StatusLabel  string    `json:"status_label"`
	Version      int       `json:"version"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ToOrderResponse converts a domain order
func ToOrderResponse(o *booking.Order) OrderResponse {
	photos := o.Photos
	if photos == nil {
		photos = []string{}
	}
	return OrderResponse{
		ID:           o.ID,
		Phone:        o.Phone,
		Address:      o.Address,
		Description:  o.Description,
		SelectedDate: o.SelectedDate,
		Photos:       photos,
		Status:       string(o.Status),
		StatusLabel:  o.Status.Label(),
		Version:      o.Version,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

// CreateOrderResult is returned to the customer after submitting the form
type CreateOrderResult struct {
	Order   OrderResponse     `json:"order"`
	Stage   booking.FormStage `json:"stage"`
	Message string            `json:"message"`
}

// OrderStats counts orders per status for the admin dashboard
type OrderStats struct {
	Total    int64            `json:"total"`
	ByStatus map[string]int64 `json:"by_status"`
}

// WorkOrderPDF is a rendered work order
type WorkOrderPDF struct {
	Filename string
	Data     []byte
	Pages    int
}
