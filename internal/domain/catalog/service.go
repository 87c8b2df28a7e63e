// Package catalog describes the services offered on the public page.
package catalog

import (
	"strings"

	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Service is an offered handyman service with an indicative starting price
type Service struct {
	Slug            string
	Name            string
	Description     string
	PriceFrom       decimal.Decimal
	Currency        string
	DurationMinutes int
}

// Validate checks a catalog entry loaded from configuration
func (s Service) Validate() error {
	if strings.TrimSpace(s.Slug) == "" {
		return shared.NewDomainError("INVALID_SERVICE", "service slug cannot be empty")
	}
	if strings.TrimSpace(s.Name) == "" {
		return shared.NewDomainError("INVALID_SERVICE", "service "+s.Slug+": name cannot be empty")
	}
	if s.PriceFrom.IsNegative() {
		return shared.NewDomainError("INVALID_SERVICE", "service "+s.Slug+": price cannot be negative")
	}
	if s.DurationMinutes < 0 {
		return shared.NewDomainError("INVALID_SERVICE", "service "+s.Slug+": duration cannot be negative")
	}
	return nil
}

// FormattedPrice renders the price with two decimals and the currency code
func (s Service) FormattedPrice() string {
	if s.Currency == "" {
		return s.PriceFrom.StringFixed(2)
	}
	return s.PriceFrom.StringFixed(2) + " " + s.Currency
}

// ErrServiceNotFound is returned for an unknown slug
var ErrServiceNotFound = shared.NewDomainError("NOT_FOUND", "Service not found")
