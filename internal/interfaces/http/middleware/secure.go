package middleware

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// SecurityConfig holds the security headers to send
type SecurityConfig struct {
	// HSTSMaxAge enables Strict-Transport-Security when positive
	HSTSMaxAge time.Duration
	// ImageSources are extra img-src origins, e.g. the S3 bucket serving photos
	ImageSources []string
	// SkipCSPPrefixes are paths served without a Content-Security-Policy
	// (Swagger UI needs inline scripts)
	SkipCSPPrefixes []string
}

// DefaultSecurityConfig sends no HSTS and exempts Swagger from the CSP
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{SkipCSPPrefixes: []string{"/swagger"}}
}

// SecurityConfigFor enables HSTS when the public base URL is https and allows
// photos from photoBaseURL, which is empty for locally stored photos.
func SecurityConfigFor(baseURL, photoBaseURL string) SecurityConfig {
	cfg := DefaultSecurityConfig()
	if strings.HasPrefix(baseURL, "https://") {
		cfg.HSTSMaxAge = 365 * 24 * time.Hour
	}
	if u, err := url.Parse(photoBaseURL); err == nil && u.Scheme != "" && u.Host != "" {
		cfg.ImageSources = append(cfg.ImageSources, u.Scheme+"://"+u.Host)
	}
	return cfg
}

const permissionsPolicy = "accelerometer=(), camera=(), geolocation=(), gyroscope=(), magnetometer=(), microphone=(), payment=(), usb=()"

// ContentSecurityPolicy renders the CSP directive for cfg
func (cfg SecurityConfig) ContentSecurityPolicy() string {
	img := append([]string{"'self'", "data:"}, cfg.ImageSources...)
	return "default-src 'self'; img-src " + strings.Join(img, " ") +
		"; style-src 'self' 'unsafe-inline'; frame-ancestors 'none'; base-uri 'self'; form-action 'self'"
}

// Secure adds security headers to responses using default configuration
func Secure() gin.HandlerFunc {
	return SecureWithConfig(DefaultSecurityConfig())
}

// SecureWithConfig adds security headers to responses with custom configuration
func SecureWithConfig(cfg SecurityConfig) gin.HandlerFunc {
	csp := cfg.ContentSecurityPolicy()
	hsts := ""
	if cfg.HSTSMaxAge > 0 {
		hsts = fmt.Sprintf("max-age=%d; includeSubDomains", int(cfg.HSTSMaxAge.Seconds()))
	}

	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Permissions-Policy", permissionsPolicy)
		if !hasAnyPrefix(c.Request.URL.Path, cfg.SkipCSPPrefixes) {
			h.Set("Content-Security-Policy", csp)
		}
		if hsts != "" {
			h.Set("Strict-Transport-Security", hsts)
		}
		c.Next()
	}
}
