package handler

import (
	"context"

	"github.com/PLAYZONE-UA/zlota-raczka/internal/application/calendar"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DateService manages the booking calendar
type DateService interface {
	ListAvailable(ctx context.Context) ([]calendar.DateResponse, error)
	ListAll(ctx context.Context) ([]calendar.DateResponse, error)
	Create(ctx context.Context, date string, isAvailable bool) (*calendar.DateResponse, error)
	Update(ctx context.Context, id uuid.UUID, isAvailable bool) (*calendar.DateResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	BulkCreate(ctx context.Context, input calendar.BulkCreateInput) (*calendar.BulkCreateResult, error)
}

// DateHandler handles the available dates endpoints
type DateHandler struct {
	BaseHandler
	service DateService
}

// NewDateHandler creates a new date handler
func NewDateHandler(service DateService) *DateHandler {
	return &DateHandler{service: service}
}

// ListAvailable godoc
// @ID           listAvailableDates
// @Summary      Available dates
// @Description  Days from today on that can be booked, ascending
// @Tags         dates
// @Produce      json
// @Success      200 {object} APIResponse[[]DateResponse]
// @Router       /dates/available [get]
func (h *DateHandler) ListAvailable(c *gin.Context) {
	dates, err := h.service.ListAvailable(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dates)
}

// ListAll godoc
// @ID           listAllDates
// @Summary      All dates
// @Description  Every calendar entry including closed and past days
// @Tags         dates
// @Produce      json
// @Success      200 {object} APIResponse[[]DateResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /dates/all [get]
func (h *DateHandler) ListAll(c *gin.Context) {
	dates, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dates)
}

// Create godoc
// @ID           createDate
// @Summary      Add date
// @Tags         dates
// @Accept       json
// @Produce      json
// @Param        request body CreateDateRequest true "Date"
// @Success      201 {object} APIResponse[DateResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /dates [post]
func (h *DateHandler) Create(c *gin.Context) {
	var req CreateDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	date, err := h.service.Create(c.Request.Context(), req.Date, boolOr(req.IsAvailable, true))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, date)
}

// BulkCreate godoc
// @ID           bulkCreateDates
// @Summary      Add date range
// @Description  Opens every day of the range, skipping days that already exist
// @Tags         dates
// @Accept       json
// @Produce      json
// @Param        request body BulkCreateDatesRequest true "Date range"
// @Success      200 {object} APIResponse[BulkCreateDatesResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /dates/bulk [post]
func (h *DateHandler) BulkCreate(c *gin.Context) {
	var req BulkCreateDatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.service.BulkCreate(c.Request.Context(), calendar.BulkCreateInput{
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		SkipWeekends: boolOr(req.SkipWeekends, true),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Update godoc
// @ID           updateDate
// @Summary      Change availability
// @Tags         dates
// @Accept       json
// @Produce      json
// @Param        id path string true "Date ID" format(uuid)
// @Param        request body UpdateDateRequest true "Availability"
// @Success      200 {object} APIResponse[DateResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /dates/{id} [patch]
func (h *DateHandler) Update(c *gin.Context) {
	id, ok := h.ParseID(c, "date")
	if !ok {
		return
	}

	var req UpdateDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	date, err := h.service.Update(c.Request.Context(), id, *req.IsAvailable)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, date)
}

// Delete godoc
// @ID           deleteDate
// @Summary      Remove date
// @Tags         dates
// @Param        id path string true "Date ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /dates/{id} [delete]
func (h *DateHandler) Delete(c *gin.Context) {
	id, ok := h.ParseID(c, "date")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
