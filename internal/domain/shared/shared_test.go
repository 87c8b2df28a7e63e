package shared

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noteEvent struct {
	BaseDomainEvent
}

func TestBaseAggregateRoot_Events(t *testing.T) {
	root := NewBaseAggregateRoot()
	require.NotEqual(t, uuid.Nil, root.ID)
	assert.Equal(t, 1, root.Version)
	assert.Equal(t, root.CreatedAt, root.UpdatedAt)

	root.Raise(&noteEvent{NewBaseDomainEvent("Created", root.ID)})
	assert.Equal(t, 1, root.Version, "raising alone keeps the version")

	before := root.UpdatedAt
	time.Sleep(time.Millisecond)
	root.Changed(&noteEvent{NewBaseDomainEvent("Edited", root.ID)})
	assert.Equal(t, 2, root.Version)
	assert.True(t, root.UpdatedAt.After(before))

	events := root.TakeEvents()
	require.Len(t, events, 2)
	assert.Equal(t, "Created", events[0].EventType())
	assert.Equal(t, "Edited", events[1].EventType())
	assert.Equal(t, root.ID, events[1].AggregateID())
	assert.Empty(t, root.PendingEvents())
}

func TestNewBaseDomainEvent(t *testing.T) {
	id := uuid.New()
	e := NewBaseDomainEvent("OrderCreated", id)
	assert.NotEqual(t, uuid.Nil, e.EventID())
	assert.Equal(t, id, e.AggregateID())
	assert.Equal(t, time.UTC, e.OccurredAt().Location())
}

func TestNewPaginated(t *testing.T) {
	tests := []struct {
		total    int64
		pageSize int
		want     int
	}{
		{0, 20, 0},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{42, 20, 3},
		{5, 0, 0},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d/%d", tt.total, tt.pageSize), func(t *testing.T) {
			p := NewPaginated([]int{}, tt.total, 1, tt.pageSize)
			assert.Equal(t, tt.want, p.TotalPages)
		})
	}
}

func TestFilterOffset(t *testing.T) {
	f := DefaultFilter()
	assert.Equal(t, 0, f.Offset())
	f.Page = 3
	assert.Equal(t, 40, f.Offset())
	f.PageSize = 0
	assert.Equal(t, 0, f.Offset())
}

func TestDomainError_IsMatchesCode(t *testing.T) {
	sentinel := NewDomainError("NOT_FOUND", "Not found")
	specific := WrapDomainError("NOT_FOUND", "Order not found", errors.New("record not found"))

	assert.ErrorIs(t, specific, sentinel)
	assert.ErrorIs(t, fmt.Errorf("load: %w", specific), sentinel)
	assert.NotErrorIs(t, NewDomainError("CONFLICT", "x"), sentinel)
	assert.Equal(t, "Order not found: record not found", specific.Error())
}
