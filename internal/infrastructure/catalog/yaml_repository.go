// Package catalog loads the offered services from a YAML file.
package catalog

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/catalog"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// fileFormat is the on-disk layout of the catalog
type fileFormat struct {
	Currency string        `yaml:"currency"`
	Services []serviceYAML `yaml:"services"`
}

type serviceYAML struct {
	Slug            string `yaml:"slug"`
	Name            string `yaml:"name"`
	Description     string `yaml:"description"`
	PriceFrom       string `yaml:"price_from"`
	Currency        string `yaml:"currency"`
	DurationMinutes int    `yaml:"duration_minutes"`
}

// YAMLServiceRepository serves a catalog loaded once at startup
type YAMLServiceRepository struct {
	services []catalog.Service
	bySlug   map[string]int
}

// LoadFile reads the catalog at path. A missing file yields an empty catalog.
func LoadFile(path string) (*YAMLServiceRepository, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return &YAMLServiceRepository{bySlug: map[string]int{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load parses and validates a catalog
func Load(r io.Reader) (*YAMLServiceRepository, error) {
	var doc fileFormat
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	repo := &YAMLServiceRepository{
		services: make([]catalog.Service, 0, len(doc.Services)),
		bySlug:   make(map[string]int, len(doc.Services)),
	}
	for i, s := range doc.Services {
		svc, err := s.toDomain(doc.Currency)
		if err != nil {
			return nil, fmt.Errorf("catalog entry %d: %w", i+1, err)
		}
		if _, dup := repo.bySlug[svc.Slug]; dup {
			return nil, fmt.Errorf("catalog entry %d: duplicate slug %q", i+1, svc.Slug)
		}
		repo.bySlug[svc.Slug] = len(repo.services)
		repo.services = append(repo.services, svc)
	}
	return repo, nil
}

func (s serviceYAML) toDomain(defaultCurrency string) (catalog.Service, error) {
	price := decimal.Zero
	if p := strings.TrimSpace(s.PriceFrom); p != "" {
		var err error
		if price, err = decimal.NewFromString(p); err != nil {
			return catalog.Service{}, fmt.Errorf("invalid price %q: %w", s.PriceFrom, err)
		}
	}
	currency := s.Currency
	if currency == "" {
		currency = defaultCurrency
	}
	svc := catalog.Service{
		Slug:            strings.TrimSpace(s.Slug),
		Name:            strings.TrimSpace(s.Name),
		Description:     strings.TrimSpace(s.Description),
		PriceFrom:       price,
		Currency:        currency,
		DurationMinutes: s.DurationMinutes,
	}
	return svc, svc.Validate()
}

// FindAll implements catalog.ServiceRepository
func (r *YAMLServiceRepository) FindAll(_ context.Context) ([]catalog.Service, error) {
	out := make([]catalog.Service, len(r.services))
	copy(out, r.services)
	return out, nil
}

// FindBySlug implements catalog.ServiceRepository
func (r *YAMLServiceRepository) FindBySlug(_ context.Context, slug string) (*catalog.Service, error) {
	i, ok := r.bySlug[slug]
	if !ok {
		return nil, catalog.ErrServiceNotFound
	}
	svc := r.services[i]
	return &svc, nil
}

var _ catalog.ServiceRepository = (*YAMLServiceRepository)(nil)
