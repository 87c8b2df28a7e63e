package catalog

import "context"

// ServiceRepository provides read access to the offered services
type ServiceRepository interface {
	// FindAll returns services in display order
	FindAll(ctx context.Context) ([]Service, error)

	// FindBySlug returns ErrServiceNotFound for unknown slugs
	FindBySlug(ctx context.Context, slug string) (*Service, error)
}
