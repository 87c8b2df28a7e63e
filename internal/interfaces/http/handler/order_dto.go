package handler

import "github.com/PLAYZONE-UA/zlota-raczka/internal/application/booking"

// CreateOrderForm is the multipart booking form. Photos are sent as repeated
// "files" (or "files[]") parts.
type CreateOrderForm struct {
	Phone        string `form:"phone" binding:"required"`
	Address      string `form:"address" binding:"required"`
	Description  string `form:"description" binding:"required"`
	SelectedDate string `form:"selected_date" binding:"required,ymd"`
}

// ListOrdersQuery holds the admin list filters
type ListOrdersQuery struct {
	Status   string `form:"status"`
	Phone    string `form:"phone"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1"`
}

// UpdateOrderStatusRequest moves an order to another status
// @Description New status: new, in_progress, completed or cancelled
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required" example:"in_progress"`
}

// CreateOrderResponse documents the booking form result
type CreateOrderResponse = booking.CreateOrderResult

// OrderResponse documents a single order
type OrderResponse = booking.OrderResponse
