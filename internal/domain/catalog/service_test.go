package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestService_Validate(t *testing.T) {
	ok := Service{Slug: "plumbing", Name: "Plumbing", PriceFrom: decimal.NewFromInt(100), Currency: "PLN"}
	assert.NoError(t, ok.Validate())

	noSlug := ok
	noSlug.Slug = " "
	assert.Error(t, noSlug.Validate())

	noName := ok
	noName.Name = ""
	assert.Error(t, noName.Validate())

	negative := ok
	negative.PriceFrom = decimal.NewFromInt(-1)
	assert.Error(t, negative.Validate())
}

func TestService_FormattedPrice(t *testing.T) {
	s := Service{PriceFrom: decimal.RequireFromString("149.5"), Currency: "PLN"}
	assert.Equal(t, "149.50 PLN", s.FormattedPrice())

	s.Currency = ""
	assert.Equal(t, "149.50", s.FormattedPrice())
}
