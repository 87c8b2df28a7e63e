package middleware

import (
	"context"
	"strings"

	"github.com/PLAYZONE-UA/zlota-raczka/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
)

// Pyroscope label names
const (
	ProfilingLabelArea   = "area"
	ProfilingLabelRoute  = "route"
	ProfilingLabelMethod = "method"
)

// ProfilingConfig holds configuration for the profiling middleware.
type ProfilingConfig struct {
	Enabled bool
	// Prefixes lists the path prefixes that get labels; everything else
	// (health, swagger, photo files) is profiled unlabelled.
	Prefixes []string
}

// DefaultProfilingConfig labels the API only
func DefaultProfilingConfig() ProfilingConfig {
	return ProfilingConfig{Enabled: true, Prefixes: []string{"/api/"}}
}

// ProfilingWithConfig labels the request goroutine with the API area, route
// and method so Pyroscope profiles can be filtered per endpoint.
func ProfilingWithConfig(cfg ProfilingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return noop
	}

	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" || !hasAnyPrefix(c.Request.URL.Path, cfg.Prefixes) {
			c.Next()
			return
		}

		labels := map[string]string{
			ProfilingLabelMethod: c.Request.Method,
			ProfilingLabelRoute:  route,
			ProfilingLabelArea:   apiArea(route),
		}
		telemetry.WithProfilingLabels(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

// apiArea is the first static segment below /api:
// "/api/orders/:id/status" -> "orders", "/api/sms/send-code" -> "sms"
func apiArea(route string) string {
	rest, ok := strings.CutPrefix(route, "/api/")
	if !ok {
		return ""
	}
	area, _, _ := strings.Cut(rest, "/")
	if strings.HasPrefix(area, ":") || strings.HasPrefix(area, "*") {
		return ""
	}
	return area
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
