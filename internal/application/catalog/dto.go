package catalog

import "github.com/PLAYZONE-UA/zlota-raczka/internal/domain/catalog"

// ServiceResponse is an offered service as shown on the public page
type ServiceResponse struct {
	Slug            string `json:"slug"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	PriceFrom       string `json:"price_from"`
	Currency        string `json:"currency"`
	PriceLabel      string `json:"price_label"`
	DurationMinutes int    `json:"duration_minutes,omitempty"`
}

// ToServiceResponse converts a domain service
func ToServiceResponse(s catalog.Service) ServiceResponse {
	return ServiceResponse{
		Slug:            s.Slug,
		Name:            s.Name,
		Description:     s.Description,
		PriceFrom:       s.PriceFrom.StringFixed(2),
		Currency:        s.Currency,
		PriceLabel:      s.FormattedPrice(),
		DurationMinutes: s.DurationMinutes,
	}
}
