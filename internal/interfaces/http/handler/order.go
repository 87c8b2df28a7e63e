package handler

import (
	"context"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/PLAYZONE-UA/zlota-raczka/internal/application/booking"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/shared"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/infrastructure/logger"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/infrastructure/storage"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderService is the booking service as used over HTTP
type OrderService interface {
	Create(ctx context.Context, input booking.CreateOrderInput) (*booking.CreateOrderResult, error)
	List(ctx context.Context, filter booking.ListOrdersFilter) (*shared.Paginated[booking.OrderResponse], error)
	Get(ctx context.Context, id uuid.UUID) (*booking.OrderResponse, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*booking.OrderResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context) (*booking.OrderStats, error)
	PrintWorkOrder(ctx context.Context, id uuid.UUID) (*booking.WorkOrderPDF, error)
}

// multipart field names accepted for photos
var photoFields = []string{"files", "files[]"}

// OrderHandler handles the booking form and the admin order endpoints
type OrderHandler struct {
	BaseHandler
	service OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(service OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// Create godoc
// @ID           createOrder
// @Summary      Submit booking form
// @Description  Creates an order from the multipart booking form with optional photos
// @Tags         orders
// @Accept       multipart/form-data
// @Produce      json
// @Param        phone formData string true "Phone number"
// @Param        address formData string true "Address of the job"
// @Param        description formData string true "Description of the problem (10-1000 characters)"
// @Param        selected_date formData string true "Visit date (YYYY-MM-DD)"
// @Param        files formData file false "Photos (jpg, jpeg, png, gif, webp)"
// @Success      201 {object} APIResponse[CreateOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      413 {object} ErrorResponse
// @Router       /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var form CreateOrderForm
	if err := c.ShouldBind(&form); err != nil {
		h.BindError(c, err)
		return
	}

	var headers []*multipart.FileHeader
	if mf, err := c.MultipartForm(); err == nil {
		for _, field := range photoFields {
			headers = append(headers, mf.File[field]...)
		}
	}

	uploads, closeAll, err := openUploads(headers)
	defer closeAll()
	if err != nil {
		logger.FromContext(c.Request.Context()).Warn("Failed to open uploaded photo", zap.Error(err))
		h.BadRequest(c, "Failed to read uploaded file")
		return
	}

	result, err := h.service.Create(c.Request.Context(), booking.CreateOrderInput{
		Phone:        form.Phone,
		Address:      form.Address,
		Description:  form.Description,
		SelectedDate: form.SelectedDate,
		Files:        uploads,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

func openUploads(headers []*multipart.FileHeader) ([]storage.Upload, func(), error) {
	files := make([]multipart.File, 0, len(headers))
	closeAll := func() {
		for _, f := range files {
			_ = f.Close()
		}
	}

	uploads := make([]storage.Upload, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, closeAll, err
		}
		files = append(files, f)
		uploads = append(uploads, storage.Upload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Body:        f,
		})
	}
	return uploads, closeAll, nil
}

// List godoc
// @ID           listOrders
// @Summary      List orders
// @Description  Returns orders newest first with pagination
// @Tags         orders
// @Produce      json
// @Param        status query string false "Filter by status" Enums(new, in_progress, completed, cancelled)
// @Param        phone query string false "Filter by phone number"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	var query ListOrdersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.service.List(c.Request.Context(), booking.ListOrdersFilter{
		Status:   query.Status,
		Phone:    query.Phone,
		Page:     query.Page,
		PageSize: query.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPageResponse(*page))
}

// Stats godoc
// @ID           getOrderStats
// @Summary      Order statistics
// @Description  Counts orders per status
// @Tags         orders
// @Produce      json
// @Success      200 {object} APIResponse[booking.OrderStats]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/stats [get]
func (h *OrderHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// Get godoc
// @ID           getOrder
// @Summary      Get order
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := h.ParseID(c, "order")
	if !ok {
		return
	}

	order, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Print godoc
// @ID           printOrder
// @Summary      Print work order
// @Description  Renders the work order of an order as a PDF document
// @Tags         orders
// @Produce      application/pdf
// @Param        id path string true "Order ID" format(uuid)
// @Param        download query bool false "Send as attachment"
// @Success      200 {file} binary
// @Failure      404 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Failure      504 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id}/print [get]
func (h *OrderHandler) Print(c *gin.Context) {
	id, ok := h.ParseID(c, "order")
	if !ok {
		return
	}

	pdf, err := h.service.PrintWorkOrder(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	disposition := "inline"
	if download, _ := strconv.ParseBool(c.Query("download")); download {
		disposition = "attachment"
	}
	c.Header("Content-Disposition", disposition+`; filename="`+pdf.Filename+`"`)
	c.Header("X-Page-Count", strconv.Itoa(pdf.Pages))
	c.Data(http.StatusOK, "application/pdf", pdf.Data)
}

// UpdateStatus godoc
// @ID           updateOrderStatus
// @Summary      Change order status
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body UpdateOrderStatusRequest true "New status"
// @Success      200 {object} APIResponse[OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.ParseID(c, "order")
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	order, err := h.service.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Delete godoc
// @ID           deleteOrder
// @Summary      Delete order
// @Description  Deletes an order together with its photos
// @Tags         orders
// @Param        id path string true "Order ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id} [delete]
func (h *OrderHandler) Delete(c *gin.Context) {
	id, ok := h.ParseID(c, "order")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
