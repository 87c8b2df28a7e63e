package catalog

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
currency: PLN
services:
  - slug: plumbing
    name: Plumbing
    description: Taps, siphons, leaks
    price_from: "120"
    duration_minutes: 60
  - slug: electrical
    name: Electrical
    price_from: "99.90"
    currency: EUR
`

func TestLoad(t *testing.T) {
	repo, err := Load(strings.NewReader(sample))
	require.NoError(t, err)

	all, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "plumbing", all[0].Slug)
	assert.Equal(t, "120.00 PLN", all[0].FormattedPrice())
	assert.Equal(t, 60, all[0].DurationMinutes)
	assert.Equal(t, "99.90 EUR", all[1].FormattedPrice())

	svc, err := repo.FindBySlug(context.Background(), "electrical")
	require.NoError(t, err)
	assert.Equal(t, "Electrical", svc.Name)

	_, err = repo.FindBySlug(context.Background(), "roofing")
	assert.ErrorIs(t, err, catalog.ErrServiceNotFound)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name, doc, want string
	}{
		{"bad price", "services:\n  - slug: a\n    name: A\n    price_from: cheap\n", "invalid price"},
		{"missing name", "services:\n  - slug: a\n", "name cannot be empty"},
		{"duplicate slug", "services:\n  - {slug: a, name: A}\n  - {slug: a, name: B}\n", "duplicate slug"},
		{"unknown field", "services:\n  - {slug: a, name: A, colour: red}\n", "colour"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadFile(t *testing.T) {
	repo, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	all, _ := repo.FindAll(context.Background())
	assert.Empty(t, all)

	path := filepath.Join(t.TempDir(), "services.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))
	repo, err = LoadFile(path)
	require.NoError(t, err)
	all, _ = repo.FindAll(context.Background())
	assert.Len(t, all, 2)

	empty, err := Load(strings.NewReader(""))
	require.NoError(t, err)
	all, _ = empty.FindAll(context.Background())
	assert.Empty(t, all)
}
