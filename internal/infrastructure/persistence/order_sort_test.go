package persistence

import (
	"testing"

	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

func TestOrderColumn(t *testing.T) {
	tests := []struct {
		by, dir  string
		wantName string
		wantDesc bool
	}{
		{"selected_date", "asc", "selected_date", false},
		{" status ", " ASC ", "status", false},
		{"", "", "created_at", true},
		{"phone", "desc", "created_at", true},
		{"id; --", "asc", "created_at", false},
		{"updated_at", "; DROP TABLE orders", "updated_at", true},
	}
	for _, tt := range tests {
		t.Run(tt.by+"/"+tt.dir, func(t *testing.T) {
			f := shared.DefaultFilter()
			f.OrderBy, f.OrderDir = tt.by, tt.dir
			col := orderColumn(f)
			assert.Equal(t, tt.wantName, col.Column.Name)
			assert.Equal(t, tt.wantDesc, col.Desc)
		})
	}
}
