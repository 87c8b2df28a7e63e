package handler

import (
	"context"

	"github.com/PLAYZONE-UA/zlota-raczka/internal/application/catalog"
	"github.com/gin-gonic/gin"
)

// CatalogService lists the offered services
type CatalogService interface {
	List(ctx context.Context) ([]catalog.ServiceResponse, error)
	Get(ctx context.Context, slug string) (*catalog.ServiceResponse, error)
}

// CatalogHandler serves the services shown on the marketing page
type CatalogHandler struct {
	BaseHandler
	service CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(service CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// ServiceResponse documents an offered service
type ServiceResponse = catalog.ServiceResponse

// List godoc
// @ID           listServices
// @Summary      Offered services
// @Tags         services
// @Produce      json
// @Success      200 {object} APIResponse[[]ServiceResponse]
// @Router       /services [get]
func (h *CatalogHandler) List(c *gin.Context) {
	services, err := h.service.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, services)
}

// Get godoc
// @ID           getService
// @Summary      Offered service
// @Tags         services
// @Produce      json
// @Param        slug path string true "Service slug"
// @Success      200 {object} APIResponse[ServiceResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /services/{slug} [get]
func (h *CatalogHandler) Get(c *gin.Context) {
	service, err := h.service.Get(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, service)
}
