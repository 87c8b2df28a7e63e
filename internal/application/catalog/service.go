// Package catalog serves the list of offered services.
package catalog

import (
	"context"
	"fmt"

	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/catalog"
)

// Service reads the offered services
type Service struct {
	repo catalog.ServiceRepository
}

// NewService creates a new catalog Service
func NewService(repo catalog.ServiceRepository) *Service {
	return &Service{repo: repo}
}

// List returns all services in display order
func (s *Service) List(ctx context.Context) ([]ServiceResponse, error) {
	services, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	out := make([]ServiceResponse, len(services))
	for i, svc := range services {
		out[i] = ToServiceResponse(svc)
	}
	return out, nil
}

// Get returns one service by slug
func (s *Service) Get(ctx context.Context, slug string) (*ServiceResponse, error) {
	svc, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	resp := ToServiceResponse(*svc)
	return &resp, nil
}
