package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/catalog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	services []catalog.Service
	err      error
}

func (f fakeRepo) FindAll(context.Context) ([]catalog.Service, error) {
	return f.services, f.err
}

func (f fakeRepo) FindBySlug(_ context.Context, slug string) (*catalog.Service, error) {
	for i := range f.services {
		if f.services[i].Slug == slug {
			return &f.services[i], nil
		}
	}
	return nil, catalog.ErrServiceNotFound
}

var plumbing = catalog.Service{
	Slug:            "plumbing",
	Name:            "Plumbing",
	Description:     "Taps, siphons, toilets",
	PriceFrom:       decimal.RequireFromString("120"),
	Currency:        "PLN",
	DurationMinutes: 60,
}

func TestService_List(t *testing.T) {
	svc := NewService(fakeRepo{services: []catalog.Service{plumbing}})

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []ServiceResponse{{
		Slug:            "plumbing",
		Name:            "Plumbing",
		Description:     "Taps, siphons, toilets",
		PriceFrom:       "120.00",
		Currency:        "PLN",
		PriceLabel:      "120.00 PLN",
		DurationMinutes: 60,
	}}, list)
}

func TestService_List_Error(t *testing.T) {
	svc := NewService(fakeRepo{err: errors.New("boom")})
	_, err := svc.List(context.Background())
	assert.ErrorContains(t, err, "failed to list services")
}

func TestService_Get(t *testing.T) {
	svc := NewService(fakeRepo{services: []catalog.Service{plumbing}})

	got, err := svc.Get(context.Background(), "plumbing")
	require.NoError(t, err)
	assert.Equal(t, "Plumbing", got.Name)

	_, err = svc.Get(context.Background(), "roofing")
	assert.ErrorIs(t, err, catalog.ErrServiceNotFound)
}
