package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/PLAYZONE-UA/zlota-raczka/internal/application/catalog"
	domain "github.com/PLAYZONE-UA/zlota-raczka/internal/domain/catalog"
	"github.com/PLAYZONE-UA/zlota-raczka/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) List(ctx context.Context) ([]catalog.ServiceResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.ServiceResponse), args.Error(1)
}

func (m *MockCatalogService) Get(ctx context.Context, slug string) (*catalog.ServiceResponse, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ServiceResponse), args.Error(1)
}

func TestCatalogHandler(t *testing.T) {
	svc := new(MockCatalogService)
	h := NewCatalogHandler(svc)
	r := newTestRouter()
	r.GET("/api/services", h.List)
	r.GET("/api/services/:slug", h.Get)

	plumbing := catalog.ServiceResponse{
		Slug:       "plumbing",
		Name:       "Plumbing",
		PriceFrom:  "80.00",
		Currency:   "PLN",
		PriceLabel: "from 80.00 PLN",
	}
	svc.On("List", mock.Anything).Return([]catalog.ServiceResponse{plumbing}, nil)
	svc.On("Get", mock.Anything, "plumbing").Return(&plumbing, nil)
	svc.On("Get", mock.Anything, "roofing").Return(nil, domain.ErrServiceNotFound)

	var list []ServiceResponse
	decodeData(t, doJSON(r, http.MethodGet, "/api/services", nil), &list)
	assert.Equal(t, []ServiceResponse{plumbing}, list)

	var one ServiceResponse
	decodeData(t, doJSON(r, http.MethodGet, "/api/services/plumbing", nil), &one)
	assert.Equal(t, "80.00", one.PriceFrom)

	resp := assertError(t, doJSON(r, http.MethodGet, "/api/services/roofing", nil), http.StatusNotFound, dto.ErrCodeNotFound)
	assert.Equal(t, "Service not found", resp.Error.Message)
	svc.AssertExpectations(t)
}
