package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/PLAYZONE-UA/zlota-raczka/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const healthCheckTimeout = 2 * time.Second

// HealthCheck probes one dependency
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// SystemHandler serves the banner and the health probe
type SystemHandler struct {
	BaseHandler
	name    string
	version string
	checks  []HealthCheck
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(name, version string, checks ...HealthCheck) *SystemHandler {
	return &SystemHandler{
		name:    name,
		version: version,
		checks:  checks,
	}
}

// BannerResponse describes the running API
// @name HandlerBannerResponse
type BannerResponse struct {
	Name    string `json:"name" example:"Złota Rączka API"`
	Version string `json:"version" example:"1.0.0"`
	Docs    string `json:"docs" example:"/swagger/index.html"`
}

// Root godoc
// @ID           getRoot
// @Summary      API banner
// @Tags         system
// @Produce      json
// @Success      200 {object} BannerResponse
// @Router       / [get]
func (h *SystemHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, BannerResponse{
		Name:    h.name,
		Version: h.version,
		Docs:    "/swagger/index.html",
	})
}

// Health godoc
// @ID           getHealth
// @Summary      Health check
// @Description  Reports "ok" for every dependency, 503 if any of them fails
// @Tags         system
// @Produce      json
// @Success      200 {object} map[string]string
// @Failure      503 {object} map[string]string
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	status := http.StatusOK
	body := gin.H{"status": "ok"}
	for _, check := range h.checks {
		if err := check.Check(ctx); err != nil {
			logger.FromContext(ctx).Warn("Health check failed",
				zap.String("dependency", check.Name), zap.Error(err))
			body[check.Name] = "error"
			body["status"] = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		body[check.Name] = "ok"
	}
	c.JSON(status, body)
}
