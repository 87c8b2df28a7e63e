package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemHandler_Root(t *testing.T) {
	h := NewSystemHandler("Złota Rączka API", "1.2.3")
	r := newTestRouter()
	r.GET("/", h.Root)

	w := doJSON(r, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var banner BannerResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &banner))
	assert.Equal(t, BannerResponse{Name: "Złota Rączka API", Version: "1.2.3", Docs: "/swagger/index.html"}, banner)
}

func TestSystemHandler_Health(t *testing.T) {
	ok := HealthCheck{Name: "database", Check: func(context.Context) error { return nil }}
	broken := HealthCheck{Name: "redis", Check: func(context.Context) error { return errors.New("connection refused") }}

	t.Run("healthy", func(t *testing.T) {
		r := newTestRouter()
		r.GET("/health", NewSystemHandler("api", "dev", ok).Health)

		w := doJSON(r, http.MethodGet, "/health", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"ok","database":"ok"}`, w.Body.String())
	})

	t.Run("no checks", func(t *testing.T) {
		r := newTestRouter()
		r.GET("/health", NewSystemHandler("api", "dev").Health)
		assert.JSONEq(t, `{"status":"ok"}`, doJSON(r, http.MethodGet, "/health", nil).Body.String())
	})

	t.Run("degraded", func(t *testing.T) {
		r := newTestRouter()
		r.GET("/health", NewSystemHandler("api", "dev", ok, broken).Health)

		w := doJSON(r, http.MethodGet, "/health", nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.JSONEq(t, `{"status":"degraded","database":"ok","redis":"error"}`, w.Body.String())
	})
}
